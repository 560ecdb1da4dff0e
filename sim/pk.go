package sim

import (
	"math"

	"github.com/sirupsen/logrus"
)

// normalCreatinineClearance is the reference renal function (mL/min) against
// which a patient's clearance is normalized.
const normalCreatinineClearance = 120.0

// factorFloor is the minimum value any single PK adjustment factor may take.
// A factor clamped here marks the model degenerate: elimination is near zero
// and accumulation will dominate.
const factorFloor = 0.01

// PKModel is a personalized one-compartment, first-order-elimination
// pharmacokinetic model. Constructed once per (drug, patient) pair and
// immutable afterwards, so a single instance may serve concurrent reads.
type PKModel struct {
	drug    DrugProperties
	patient PatientProfile

	ke float64 // personalized elimination rate, 1/h
	vd float64 // personalized distribution volume, L

	degenerate bool // true if any adjustment factor was clamped at factorFloor
}

// NewPKModel validates both inputs and computes the personalized elimination
// rate and distribution volume. Fails fast on any contract violation.
func NewPKModel(drug DrugProperties, patient PatientProfile) (*PKModel, error) {
	if err := drug.Validate(); err != nil {
		return nil, err
	}
	if err := patient.Validate(); err != nil {
		return nil, err
	}

	m := &PKModel{drug: drug, patient: patient}

	baseKe := math.Ln2 / drug.HalfLife
	renal := m.clamp("renal", patient.CreatinineClearance/normalCreatinineClearance)
	genetic := m.clamp("genetic", patient.Marker(GeneticMarkerCYP))
	age := 1.0
	if patient.Age > 30 {
		age = m.clamp("age", 1.0-0.01*(patient.Age-30))
	}

	m.ke = baseKe * renal * genetic * age
	m.vd = drug.VolumeDistribution * patient.Weight
	if m.degenerate {
		logrus.Warnf("pk: degenerate elimination for drug %q: ke=%.3e/h after factor clamping", drug.Name, m.ke)
	}
	return m, nil
}

// clamp bounds an adjustment factor at factorFloor, recording degeneracy.
func (m *PKModel) clamp(name string, f float64) float64 {
	if f < factorFloor {
		logrus.Debugf("pk: %s factor %.4f clamped to %.2f", name, f, factorFloor)
		m.degenerate = true
		return factorFloor
	}
	return f
}

// EliminationRate returns the personalized elimination rate constant (1/h).
func (m *PKModel) EliminationRate() float64 { return m.ke }

// DistributionVolume returns the personalized distribution volume (L).
func (m *PKModel) DistributionVolume() float64 { return m.vd }

// DegenerateElimination reports whether any personalization factor had to be
// clamped to stay positive, i.e. the effective elimination rate is near zero
// and concentrations predicted by this model should be treated with caution.
func (m *PKModel) DegenerateElimination() bool { return m.degenerate }

// ConcentrationAt returns the plasma concentration (mg/L) at time t hours
// under the given schedule: linear superposition of single-dose exponential
// decay curves over all doses administered at or before t. Supports arbitrary
// irregular schedules. Always >= 0.
func (m *PKModel) ConcentrationAt(t float64, schedule DoseSchedule) float64 {
	conc := 0.0
	for _, d := range schedule {
		if d.Time > t {
			break // schedule is ordered by time
		}
		if d.Amount == 0 {
			continue
		}
		conc += d.Amount * m.drug.Bioavailability / m.vd * math.Exp(-m.ke*(t-d.Time))
	}
	return conc
}

// FreeConcentrationAt returns the protein-unbound concentration at time t,
// the fraction pharmacodynamically available at the infection site.
func (m *PKModel) FreeConcentrationAt(t float64, schedule DoseSchedule) float64 {
	return m.ConcentrationAt(t, schedule) * (1.0 - m.drug.ProteinBinding)
}
