package batch

import (
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/pkpd-sim/pkpd-sim/sim"
)

// Regimen is one dosing candidate: amount given every interval.
type Regimen struct {
	DoseMg        float64
	IntervalHours float64
}

// RegimenResult pairs a candidate with its simulated outcome and score.
type RegimenResult struct {
	Regimen Regimen
	Outcome sim.Outcome
	Score   float64
}

// RegimenSearch grid-searches dose × interval candidates for one patient by
// simulating and evaluating each. A deterministic client of the engine: no
// heuristics, no hidden state, reproducible ranking.
type RegimenSearch struct {
	Doses      []float64 // candidate amounts in mg
	Intervals  []float64 // candidate intervals in hours
	Thresholds sim.Thresholds
	Workers    int
}

// DefaultRegimenSearch spans the usual oral/IV range: 100–2000 mg at q6h to
// q24h.
func DefaultRegimenSearch() RegimenSearch {
	doses := make([]float64, 0, 20)
	for d := 100.0; d <= 2000; d += 100 {
		doses = append(doses, d)
	}
	return RegimenSearch{
		Doses:      doses,
		Intervals:  []float64{6, 8, 12, 24},
		Thresholds: sim.DefaultThresholds(),
	}
}

// Optimize evaluates every candidate regimen for the patient and returns the
// best plus the full ranking (in grid order). Score rewards bacterial-load
// reduction and penalizes resistance emergence and total drug burden; ties
// break toward less drug.
func (rs RegimenSearch) Optimize(patient sim.PatientProfile, drug sim.DrugProperties, cfg sim.SimulationConfig) (RegimenResult, []RegimenResult, error) {
	if len(rs.Doses) == 0 || len(rs.Intervals) == 0 {
		return RegimenResult{}, nil, fmt.Errorf("regimen search requires at least one dose and one interval candidate")
	}

	tasks := make([]Task, 0, len(rs.Doses)*len(rs.Intervals))
	regimens := make([]Regimen, 0, cap(tasks))
	for _, dose := range rs.Doses {
		for _, interval := range rs.Intervals {
			reg := Regimen{DoseMg: dose, IntervalHours: interval}
			regimens = append(regimens, reg)
			tasks = append(tasks, Task{
				ID:         fmt.Sprintf("%.0fmg-q%.0fh", dose, interval),
				Patient:    patient,
				Drug:       drug,
				Schedule:   sim.RegularSchedule(dose, interval, cfg.HorizonHours),
				Config:     cfg,
				Thresholds: rs.Thresholds,
			})
		}
	}

	results := Runner{Workers: rs.Workers}.Run(tasks)

	initial := cfg.InitialSensitive + cfg.InitialResistant
	ranked := make([]RegimenResult, 0, len(results))
	best := -1
	for i, res := range results {
		if res.Err != nil {
			logrus.Warnf("optimize: candidate %s skipped: %v", res.TaskID, res.Err)
			continue
		}
		rr := RegimenResult{
			Regimen: regimens[i],
			Outcome: res.Outcome,
			Score:   score(res.Outcome, initial, tasks[i].Schedule.TotalAdministered()),
		}
		ranked = append(ranked, rr)
		if best < 0 || better(rr, ranked[best]) {
			best = len(ranked) - 1
		}
	}
	if best < 0 {
		return RegimenResult{}, nil, fmt.Errorf("no regimen candidate completed successfully")
	}
	return ranked[best], ranked, nil
}

// score is the deterministic objective: log10 reduction of the bacterial
// load, minus a resistance penalty, minus a small drug-burden term so equal
// cures prefer less exposure.
func score(out sim.Outcome, initialLoad, totalDrugMg float64) float64 {
	reduction := math.Log10(initialLoad / math.Max(out.FinalTotal, 1))
	penalty := 10 * out.FinalResistanceFraction
	burden := totalDrugMg / 100000.0
	return reduction - penalty - burden
}

// better orders candidates by score, then by lower total daily dose.
func better(a, b RegimenResult) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.Regimen.DoseMg*24/a.Regimen.IntervalHours < b.Regimen.DoseMg*24/b.Regimen.IntervalHours
}

// GuidelineRegimen is the non-simulated fallback recommendation: 15 mg/kg
// adjusted for renal function and infection severity, q12h.
func GuidelineRegimen(patient sim.PatientProfile) Regimen {
	const dosePerKg = 15.0
	base := dosePerKg * patient.Weight
	renal := patient.CreatinineClearance / 120.0
	severity := 1.0 + 0.5*patient.InfectionSeverity
	return Regimen{DoseMg: base * renal * severity, IntervalHours: 12}
}
