package batch

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Summary reduces a batch of results to cohort-level endpoints.
type Summary struct {
	Runs     int // completed runs included in the statistics
	Failures int // runs that errored (rejected or aborted)

	SuccessRate float64

	MeanFinalTotal   float64
	MedianFinalTotal float64

	MeanResistanceFraction float64
	P90ResistanceFraction  float64
}

// Summarize computes cohort statistics over completed runs. Errored runs are
// counted but excluded from the distributions.
func Summarize(results []Result) Summary {
	var s Summary
	var totals, fractions []float64
	successes := 0

	for _, r := range results {
		if r.Err != nil {
			s.Failures++
			continue
		}
		s.Runs++
		if r.Outcome.Success {
			successes++
		}
		totals = append(totals, r.Outcome.FinalTotal)
		fractions = append(fractions, r.Outcome.FinalResistanceFraction)
	}
	if s.Runs == 0 {
		return s
	}

	s.SuccessRate = float64(successes) / float64(s.Runs)
	sort.Float64s(totals)
	sort.Float64s(fractions)
	s.MeanFinalTotal = stat.Mean(totals, nil)
	s.MedianFinalTotal = stat.Quantile(0.5, stat.Empirical, totals, nil)
	s.MeanResistanceFraction = stat.Mean(fractions, nil)
	s.P90ResistanceFraction = stat.Quantile(0.9, stat.Empirical, fractions, nil)
	return s
}
