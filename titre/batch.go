package titre

import (
	"fmt"
	"sync"

	"github.com/cmiranda16PonceHealthSciencesUniversity/serosolver/antigenic"
)

// SampleRange locates one blood sample's measurement rows inside the
// flattened buffers: rows [Start, Start+Len).
type SampleRange struct {
	Start, Len int
}

// checkRanges verifies that the sample ranges tile the flattened buffers
// exactly: contiguous, starting at zero, summing to total rows.
func checkRanges(ranges []SampleRange, rows int) error {
	next := 0
	for j, r := range ranges {
		if r.Start != next || r.Len < 0 {
			return fmt.Errorf("%w: sample %d rows [%d,%d) not contiguous at offset %d", ErrSizeMismatch, j, r.Start, r.Start+r.Len, next)
		}
		next = r.Start + r.Len
	}
	if next != rows {
		return fmt.Errorf("%w: sample ranges cover %d of %d rows", ErrSizeMismatch, next, rows)
	}
	return nil
}

// AccumulateBatch is the base model evaluated over many blood samples of
// one individual in a single pass over flattened buffers, the layout used
// when evaluating likelihoods across a cohort. infectionTimes and
// infectionStrains describe the individual's unmasked infections in
// ascending time order. sampleTimes holds one time per blood sample and
// ranges that sample's rows in pred and measuredStrains.
//
// For each sample, every infection at or before the sampling time
// contributes its seniority-scaled long boost plus time-waned short
// boost to all of the sample's rows; the infection-order counter driving
// seniority restarts per sample. Results match Accumulate with the base
// Config for an equivalent single-sample input.
func AccumulateBatch(pred []float64, th Theta, infectionTimes []float64, infectionStrains []int, sampleTimes []float64, ranges []SampleRange, measuredStrains []int, m *antigenic.Map) error {
	if len(pred) != len(measuredStrains) {
		return fmt.Errorf("%w: %d predicted titres for %d measurements", ErrSizeMismatch, len(pred), len(measuredStrains))
	}
	if len(infectionTimes) != len(infectionStrains) {
		return fmt.Errorf("%w: %d infection times for %d infection strains", ErrSizeMismatch, len(infectionTimes), len(infectionStrains))
	}
	if len(sampleTimes) != len(ranges) {
		return fmt.Errorf("%w: %d sample times for %d sample ranges", ErrSizeMismatch, len(sampleTimes), len(ranges))
	}
	if err := checkRanges(ranges, len(pred)); err != nil {
		return err
	}
	n := m.Strains()
	for x, s := range infectionStrains {
		if s < 0 || s >= n {
			return fmt.Errorf("%w: infection %d targets strain %d of %d", ErrIndexOutOfRange, x, s, n)
		}
	}
	for k, s := range measuredStrains {
		if s < 0 || s >= n {
			return fmt.Errorf("%w: measurement %d targets strain %d of %d", ErrIndexOutOfRange, k, s, n)
		}
	}

	for j, samplingTime := range sampleTimes {
		nInf := 1
		for x, infTime := range infectionTimes {
			if samplingTime < infTime {
				continue
			}
			waneAmount := 1 - th.Wane*(samplingTime-infTime)
			if waneAmount < 0 {
				waneAmount = 0
			}
			s := seniority(th.Tau, nInf)
			inf := infectionStrains[x]
			for k := ranges[j].Start; k < ranges[j].Start+ranges[j].Len; k++ {
				pred[k] += s * (th.Mu*m.Long.At(measuredStrains[k], inf) + th.MuShort*m.Short.At(measuredStrains[k], inf)*waneAmount)
			}
			nInf++
		}
	}
	return nil
}

// Individual is one individual's flattened input and output for the
// cohort driver. Predicted is that individual's private output slice.
type Individual struct {
	InfectionTimes   []float64
	InfectionStrains []int
	SampleTimes      []float64
	Ranges           []SampleRange
	MeasuredStrains  []int
	Predicted        []float64
}

// AccumulateCohort evaluates AccumulateBatch for every individual
// concurrently. Individuals share only the read-only map, so each runs
// on its own goroutine writing its own Predicted slice. The first error
// encountered (by individual order) is returned; individuals that fail
// validation leave their output untouched.
func AccumulateCohort(th Theta, cohort []Individual, m *antigenic.Map) error {
	var wg sync.WaitGroup
	errs := make([]error, len(cohort))

	wg.Add(len(cohort))
	for i := range cohort {
		go func(i int) {
			defer wg.Done()
			ind := &cohort[i]
			errs[i] = AccumulateBatch(ind.Predicted, th, ind.InfectionTimes, ind.InfectionStrains, ind.SampleTimes, ind.Ranges, ind.MeasuredStrains, m)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return fmt.Errorf("individual %d: %w", i, err)
		}
	}
	return nil
}
