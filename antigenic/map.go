// Package antigenic builds cross-reactivity tables from an antigenic map.
// Strains live as points in a low dimensional antigenic space; immunity
// raised against one strain reacts against another with a strength that
// falls off linearly with the distance between them.
package antigenic

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Map holds the precomputed pairwise cross-reactivity between strains.
// Long covers long lived boosting, Short the transient component; the two
// differ only in the waning rate used to build them. A Map is immutable
// once built and safe to share across concurrent computations.
type Map struct {
	Long  *mat.SymDense
	Short *mat.SymDense
}

// Strains returns the number of strains the map covers.
func (m *Map) Strains() int {
	n, _ := m.Long.Dims()
	return n
}

// Distances computes the pairwise Euclidean distances between strain
// coordinates. coords is strains x dimensions.
func Distances(coords *mat.Dense) *mat.SymDense {
	n, _ := coords.Dims()
	d := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d.SetSym(i, j, floats.Distance(coords.RawRowView(i), coords.RawRowView(j), 2))
		}
	}
	return d
}

// Reactivity maps pairwise distances to cross-reactivity values,
// max(0, 1 - sigma*d) elementwise. Distance zero gives reactivity one;
// values beyond 1/sigma clamp to zero rather than going negative.
func Reactivity(distances *mat.SymDense, sigma float64) *mat.SymDense {
	n, _ := distances.Dims()
	r := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			r.SetSym(i, j, math.Max(0, 1-sigma*distances.At(i, j)))
		}
	}
	return r
}

// NewMap builds the long and short term cross-reactivity tables from raw
// pairwise distances. sigma1 controls the long term fall-off, sigma2 the
// short term one.
func NewMap(distances *mat.SymDense, sigma1, sigma2 float64) *Map {
	if distances == nil {
		panic(errors.New("antigenic: nil distance table"))
	}
	return &Map{
		Long:  Reactivity(distances, sigma1),
		Short: Reactivity(distances, sigma2),
	}
}
