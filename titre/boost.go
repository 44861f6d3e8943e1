package titre

import (
	"fmt"

	"github.com/cmiranda16PonceHealthSciencesUniversity/serosolver/antigenic"
)

// Accumulate adds the boosting contribution of every unmasked infection
// in hist to the predicted titres for one blood sample.
//
// pred holds one entry per measured strain and is accumulated additively;
// callers zero it (or carry a baseline) beforehand. waning holds the
// precomputed short-term decay factor per infection event, with the time
// from infection to this sample already folded in. seniority may supply a
// precomputed antigenic-seniority factor per event for the base model; if
// nil, it is derived from each event's cumulative count. monitored is
// written only by the titre-dependent model and must then have one entry
// per event; the other models ignore it.
//
// All size and index validation happens before any accumulation, so on
// error pred and monitored are untouched.
func Accumulate(pred, monitored []float64, th Theta, hist History, waning, senior []float64, m *antigenic.Map, measured []int, cfg Config) error {
	if len(pred) != len(measured) {
		return fmt.Errorf("%w: %d predicted titres for %d measurements", ErrSizeMismatch, len(pred), len(measured))
	}
	if len(waning) != len(hist) {
		return fmt.Errorf("%w: %d waning factors for %d infections", ErrSizeMismatch, len(waning), len(hist))
	}
	if senior != nil && len(senior) != len(hist) {
		return fmt.Errorf("%w: %d seniority factors for %d infections", ErrSizeMismatch, len(senior), len(hist))
	}
	if err := validateStrains(hist, measured, m); err != nil {
		return err
	}

	switch {
	case cfg.TitreDependent:
		if len(monitored) != len(hist) {
			return fmt.Errorf("%w: %d monitored titres for %d infections", ErrSizeMismatch, len(monitored), len(hist))
		}
		for i := 1; i < len(hist); i++ {
			if hist[i].Time < hist[i-1].Time {
				return fmt.Errorf("%w: infection %d at t=%v after t=%v", ErrUnsortedHistory, i, hist[i].Time, hist[i-1].Time)
			}
		}
		titreDependentBoost(pred, monitored, th, hist, waning, m, measured)
	case cfg.StrainBoost != nil:
		if err := cfg.StrainBoost.validate(hist); err != nil {
			return err
		}
		strainSpecificBoost(pred, th, cfg.StrainBoost, hist, waning, m, measured)
	default:
		baseBoost(pred, th, hist, waning, senior, m, measured)
	}
	return nil
}

// baseBoost is the base model: each unmasked infection adds its
// seniority-scaled long boost plus waned short boost to every measurement,
// weighted by the cross-reactivity between the infecting and measured
// strains.
func baseBoost(pred []float64, th Theta, hist History, waning, senior []float64, m *antigenic.Map, measured []int) {
	for i, ev := range hist {
		if ev.Masked {
			continue
		}
		s := 0.0
		if senior != nil {
			s = senior[i]
		} else {
			s = seniority(th.Tau, ev.Cumulative)
		}
		for k, ms := range measured {
			pred[k] += s * (th.Mu*m.Long.At(ms, ev.Strain) + th.MuShort*m.Short.At(ms, ev.Strain)*waning[i])
		}
	}
}

// strainSpecificBoost is the base formula with the long-term magnitude
// looked up per infecting strain's cluster. MuShort stays global.
func strainSpecificBoost(pred []float64, th Theta, sb *StrainBoost, hist History, waning []float64, m *antigenic.Map, measured []int) {
	for i, ev := range hist {
		if ev.Masked {
			continue
		}
		mu := sb.Mus[sb.Cluster[ev.Strain]]
		s := seniority(th.Tau, ev.Cumulative)
		for k, ms := range measured {
			pred[k] += s * (mu*m.Long.At(ms, ev.Strain) + th.MuShort*m.Short.At(ms, ev.Strain)*waning[i])
		}
	}
}

// attenuate applies the titre-dependent ceiling to a raw boost: scaling
// by (1 - gradient*t) for pre-existing titre t, saturating once t reaches
// the boost limit, floored at zero.
func attenuate(boost, preTitre float64, th Theta) float64 {
	if preTitre >= th.BoostLimit {
		boost *= 1 - th.Gradient*th.BoostLimit
	} else {
		boost *= 1 - th.Gradient*preTitre
	}
	if boost < 0 {
		return 0
	}
	return boost
}

// titreDependentBoost runs the feedback model in two passes. Pass one
// reconstructs monitored[i], the titre the host carried at the moment of
// infection i, by folding over all earlier unmasked infections; each
// earlier boost is itself attenuated by the titre present when it
// happened, so the fold is strictly sequential in i. Pass two emits the
// measurement contributions of each infection, attenuated by its own
// monitored titre.
func titreDependentBoost(pred, monitored []float64, th Theta, hist History, waning []float64, m *antigenic.Map, measured []int) {
	for i, ev := range hist {
		if ev.Masked {
			continue
		}
		total := 0.0
		for ii := i - 1; ii >= 0; ii-- {
			prior := hist[ii]
			if prior.Masked {
				continue
			}
			s := seniority(th.Tau, prior.Cumulative)
			long := attenuate(s*th.Mu*m.Long.At(ev.Strain, prior.Strain), monitored[ii], th)
			short := attenuate(s*th.MuShort*m.Short.At(ev.Strain, prior.Strain), monitored[ii], th)
			decay := 1 - th.Wane*(ev.Time-prior.Time)
			if decay < 0 {
				decay = 0
			}
			total += long + short*decay
		}
		monitored[i] = total

		s := seniority(th.Tau, ev.Cumulative)
		for k, ms := range measured {
			long := attenuate(s*th.Mu*m.Long.At(ms, ev.Strain), monitored[i], th)
			short := attenuate(s*th.MuShort*m.Short.At(ms, ev.Strain), monitored[i], th)
			pred[k] += long + short*waning[i]
		}
	}
}
