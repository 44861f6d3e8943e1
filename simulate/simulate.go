// Package simulate generates synthetic serological data around the titre
// engine: per-epoch attack rates, stochastic infection histories, and
// noisy bounded titre observations. It is the harness side of the model;
// the deterministic forward prediction lives in package titre.
package simulate

import (
	"fmt"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/cmiranda16PonceHealthSciencesUniversity/serosolver/titre"
)

// LogNormalAttackRates draws n per-epoch attack rates from a log-normal
// with the given location and scale parameters.
func LogNormalAttackRates(mu, sigma float64, n int, src rand.Source) []float64 {
	dist := distuv.LogNormal{Mu: mu, Sigma: sigma, Src: src}
	rates := make([]float64, n)
	for i := range rates {
		rates[i] = dist.Rand()
	}
	return rates
}

// SimulateHistory draws one individual's infection history. Epoch e
// infects with probability rates[e]; an infection occurs at times[e] with
// strain strainAt[e]. Events dated before birth are kept but masked, so
// the engine skips them. Cumulative counts are 1-based over all generated
// events and the returned history follows the ascending order of times.
func SimulateHistory(rates, times []float64, strainAt []int, birth float64, src rand.Source) (titre.History, error) {
	if len(times) != len(rates) || len(strainAt) != len(rates) {
		return nil, fmt.Errorf("simulate: %d rates, %d times, %d strains", len(rates), len(times), len(strainAt))
	}
	var hist titre.History
	for e, rate := range rates {
		draw := distuv.Bernoulli{P: clampProb(rate), Src: src}
		if draw.Rand() == 0 {
			continue
		}
		hist = append(hist, titre.Event{
			Time:       times[e],
			Strain:     strainAt[e],
			Cumulative: len(hist) + 1,
			Masked:     times[e] < birth,
		})
	}
	return hist, nil
}

func clampProb(p float64) float64 {
	if p > 1 {
		return 1
	}
	if p < 0 {
		return 0
	}
	return p
}

// Observe turns predicted titres into noisy bounded observations: each
// value gets Gaussian measurement noise, an optional per-cluster offset
// for its measured strain, and is clipped to [0, maxTitre]. bias and
// clusterOf may both be nil to disable the offset.
func Observe(pred []float64, sd, maxTitre float64, bias []float64, clusterOf, measured []int, src rand.Source) ([]float64, error) {
	if bias != nil && len(measured) != len(pred) {
		return nil, fmt.Errorf("simulate: %d measured strains for %d titres", len(measured), len(pred))
	}
	noise := distuv.Normal{Mu: 0, Sigma: sd, Src: src}
	obs := make([]float64, len(pred))
	for k, p := range pred {
		v := p + noise.Rand()
		if bias != nil {
			s := measured[k]
			if s < 0 || s >= len(clusterOf) {
				return nil, fmt.Errorf("simulate: measured strain %d has no cluster", s)
			}
			c := clusterOf[s]
			if c < 0 || c >= len(bias) {
				return nil, fmt.Errorf("simulate: cluster %d outside bias table of %d", c, len(bias))
			}
			v += bias[c]
		}
		if v < 0 {
			v = 0
		}
		if v > maxTitre {
			v = maxTitre
		}
		obs[k] = v
	}
	return obs, nil
}
