package sim

import (
	"fmt"
	"math"
	"math/rand"
)

// DoseEvent is a single administration: Amount mg given at Time hours from
// treatment start. A zero Amount represents a skipped or missed dose.
type DoseEvent struct {
	Time   float64 // hours, >= 0
	Amount float64 // mg, >= 0
}

// DoseSchedule is an ordered sequence of dose events, non-decreasing in time.
// An empty schedule is valid and models untreated dynamics.
type DoseSchedule []DoseEvent

// Validate rejects negative times/amounts and out-of-order events.
func (s DoseSchedule) Validate() error {
	prev := 0.0
	for i, d := range s {
		if d.Time < 0 {
			return &InvalidParameterError{Param: fmt.Sprintf("schedule[%d].time", i), Reason: fmt.Sprintf("must be non-negative, got %g", d.Time)}
		}
		if d.Amount < 0 {
			return &InvalidParameterError{Param: fmt.Sprintf("schedule[%d].amount", i), Reason: fmt.Sprintf("must be non-negative, got %g", d.Amount)}
		}
		if d.Time < prev {
			return &InvalidParameterError{Param: fmt.Sprintf("schedule[%d].time", i), Reason: fmt.Sprintf("out of order: %g after %g", d.Time, prev)}
		}
		prev = d.Time
	}
	return nil
}

// TotalAdministered returns the sum of all dose amounts in mg.
func (s DoseSchedule) TotalAdministered() float64 {
	total := 0.0
	for _, d := range s {
		total += d.Amount
	}
	return total
}

// RegularSchedule builds a fixed-interval schedule: amount mg at t=0 and every
// intervalHours thereafter, strictly before horizonHours.
func RegularSchedule(amountMg, intervalHours, horizonHours float64) DoseSchedule {
	if amountMg < 0 || intervalHours <= 0 || horizonHours <= 0 {
		return nil
	}
	var s DoseSchedule
	for t := 0.0; t < horizonHours; t += intervalHours {
		s = append(s, DoseEvent{Time: t, Amount: amountMg})
	}
	return s
}

// ComplianceModel captures per-day adherence probability. Adherence decays
// exponentially over the course of treatment (patients tire of the regimen)
// and is modulated by patient characteristics: older patients and patients
// with more severe infections adhere better.
type ComplianceModel struct {
	BaseAdherence float64 // probability on day zero, (0, 1]
}

// DefaultComplianceModel returns the literature-default 85% base adherence.
func DefaultComplianceModel() ComplianceModel {
	return ComplianceModel{BaseAdherence: 0.85}
}

// AdherenceProbability returns the probability that the patient takes a dose
// scheduled on the given treatment day (day 0 = first day). Capped at 0.95.
func (m ComplianceModel) AdherenceProbability(day int, patient PatientProfile) float64 {
	decay := math.Exp(-float64(day) / 30.0)
	ageFactor := 1.0
	if patient.Age > 65 {
		ageFactor = 1.1
	}
	severityFactor := 1.0 + 0.2*patient.InfectionSeverity
	p := m.BaseAdherence * decay * ageFactor * severityFactor
	return math.Min(0.95, p)
}

// ApplyCompliance returns a copy of the schedule with doses probabilistically
// skipped (amount zeroed) according to the compliance model. Randomness comes
// only from the supplied rng, so identical (schedule, patient, model, seed)
// inputs reproduce the same adherence pattern.
func (s DoseSchedule) ApplyCompliance(patient PatientProfile, model ComplianceModel, rng *rand.Rand) DoseSchedule {
	out := make(DoseSchedule, len(s))
	for i, d := range s {
		out[i] = d
		day := int(d.Time / 24.0)
		if rng.Float64() >= model.AdherenceProbability(day, patient) {
			out[i].Amount = 0
		}
	}
	return out
}
