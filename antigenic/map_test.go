package antigenic

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestDistances(t *testing.T) {
	coords := mat.NewDense(3, 2, []float64{
		0, 0,
		3, 4,
		3, 0,
	})
	d := Distances(coords)
	if got := d.At(0, 1); got != 5 {
		t.Errorf("distance (0,1) = %v, want 5", got)
	}
	if got := d.At(1, 0); got != 5 {
		t.Errorf("distance table not symmetric: (1,0) = %v", got)
	}
	if got := d.At(2, 2); got != 0 {
		t.Errorf("self distance = %v, want 0", got)
	}
}

func TestReactivityBounds(t *testing.T) {
	n := 5
	d := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d.SetSym(i, j, float64(i+j))
		}
	}
	for _, sigma := range []float64{0, 0.1, 0.5, 3} {
		r := Reactivity(d, sigma)
		for i := 0; i < n; i++ {
			if got := r.At(i, i); got != 1 {
				t.Errorf("sigma=%v: zero distance gives reactivity %v, want 1", sigma, got)
			}
			for j := 0; j < n; j++ {
				v := r.At(i, j)
				if v < 0 || v > 1 {
					t.Errorf("sigma=%v: reactivity (%d,%d) = %v outside [0,1]", sigma, i, j, v)
				}
			}
		}
	}
}

func TestReactivityMonotone(t *testing.T) {
	sigma := 0.3
	prev := math.Inf(1)
	for _, dist := range []float64{0, 0.5, 1, 2, 4, 10} {
		d := mat.NewSymDense(2, nil)
		d.SetSym(0, 1, dist)
		v := Reactivity(d, sigma).At(0, 1)
		if v > prev {
			t.Errorf("reactivity increased with distance: %v at d=%v after %v", v, dist, prev)
		}
		prev = v
	}
}

func TestNewMap(t *testing.T) {
	d := mat.NewSymDense(2, nil)
	d.SetSym(0, 1, 2)
	m := NewMap(d, 0.1, 0.4)
	if m.Strains() != 2 {
		t.Errorf("strains = %d, want 2", m.Strains())
	}
	if got := m.Long.At(0, 1); got != 0.8 {
		t.Errorf("long reactivity = %v, want 0.8", got)
	}
	if got := m.Short.At(0, 1); math.Abs(got-0.2) > 1e-12 {
		t.Errorf("short reactivity = %v, want 0.2", got)
	}
}
