// Package titre is the forward model for antibody titre trajectories.
// Given an individual's infection history, an antigenic cross-reactivity
// map and a parameter set, it accumulates the boost every infection
// contributes to each requested (sample time, strain) measurement.
//
// Three boosting models are supported: a base model, a strain-specific
// model in which each antigenic cluster carries its own long-term boost
// magnitude, and a titre-dependent model in which the boost from an
// infection is attenuated by the titre the host already carried when the
// infection occurred. Exactly one model runs per call, selected by Config.
package titre

import (
	"errors"
	"fmt"

	"github.com/cmiranda16PonceHealthSciencesUniversity/serosolver/antigenic"
)

// Error values reported before any accumulation takes place. A failed
// call leaves the output buffers untouched.
var (
	// ErrSizeMismatch reports parallel buffers whose lengths disagree.
	ErrSizeMismatch = errors.New("titre: buffer size mismatch")
	// ErrIndexOutOfRange reports a strain or cluster index outside its
	// declared bounds.
	ErrIndexOutOfRange = errors.New("titre: index out of range")
	// ErrUnsortedHistory reports infection events out of time order where
	// ordering matters (the titre-dependent model).
	ErrUnsortedHistory = errors.New("titre: infection history not in ascending time order")
)

// Theta is the parameter set for one forward evaluation. Immutable per
// call.
type Theta struct {
	// Long and short term boost magnitudes.
	Mu, MuShort float64
	// Antigenic seniority decay: the n-th infection boosts by a factor
	// max(0, 1 - Tau*(n-1)).
	Tau float64
	// Waning rate of the short term component per unit time.
	Wane float64
	// Titre-dependent ceiling: boosts scale by (1 - Gradient*t) for a
	// pre-existing titre t, saturating at t = BoostLimit.
	Gradient, BoostLimit float64
}

// StrainBoost maps strains to per-cluster long-term boost magnitudes for
// the strain-specific model. Cluster[s] indexes Mus for strain s.
type StrainBoost struct {
	Mus     []float64
	Cluster []int
}

// Event is a single infection in an individual's history.
type Event struct {
	// Time the infection occurred.
	Time float64
	// Infecting strain, an index into the cross-reactivity map.
	Strain int
	// Cumulative infection count at this event, 1-based.
	Cumulative int
	// Masked events are excluded from all contributions, e.g. infections
	// dated before the individual was observable.
	Masked bool
}

// History is one individual's infection events in ascending time order.
// Ordering is the caller's responsibility; only the titre-dependent model
// verifies it, because only there does event order carry meaning.
type History []Event

// Config selects the boosting model. The choice is a closed three-way
// dispatch: TitreDependent wins over a StrainBoost bundle, which wins
// over the base model.
type Config struct {
	TitreDependent bool
	StrainBoost    *StrainBoost
}

// seniority returns the antigenic seniority factor for a 1-based
// cumulative infection count.
func seniority(tau float64, cumulative int) float64 {
	s := 1 - tau*float64(cumulative-1)
	if s < 0 {
		return 0
	}
	return s
}

func validateStrains(hist History, measured []int, m *antigenic.Map) error {
	n := m.Strains()
	for i, ev := range hist {
		if ev.Strain < 0 || ev.Strain >= n {
			return fmt.Errorf("%w: infection %d targets strain %d of %d", ErrIndexOutOfRange, i, ev.Strain, n)
		}
	}
	for k, s := range measured {
		if s < 0 || s >= n {
			return fmt.Errorf("%w: measurement %d targets strain %d of %d", ErrIndexOutOfRange, k, s, n)
		}
	}
	return nil
}

func (sb *StrainBoost) validate(hist History) error {
	for i, ev := range hist {
		if ev.Strain >= len(sb.Cluster) {
			return fmt.Errorf("%w: no cluster for strain %d (infection %d)", ErrIndexOutOfRange, ev.Strain, i)
		}
		if c := sb.Cluster[ev.Strain]; c < 0 || c >= len(sb.Mus) {
			return fmt.Errorf("%w: cluster %d of strain %d outside boost table of %d", ErrIndexOutOfRange, c, ev.Strain, len(sb.Mus))
		}
	}
	return nil
}
