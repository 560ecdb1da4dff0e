package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHillEffect_NonPositiveConcentration_Zero(t *testing.T) {
	assert.Zero(t, HillEffect(0, 0.5, 4, 2.2))
	assert.Zero(t, HillEffect(-1, 0.5, 4, 2.2))
}

func TestHillEffect_MonotoneInConcentration(t *testing.T) {
	prev := 0.0
	for c := 0.01; c < 100; c *= 1.5 {
		e := HillEffect(c, 0.5, 4, 2.2)
		if e < prev {
			t.Fatalf("effect decreased: HillEffect(%g) = %g < %g", c, e, prev)
		}
		prev = e
	}
}

func TestHillEffect_SaturatesAtEmax(t *testing.T) {
	e := HillEffect(1e9, 0.5, 4, 2.2)
	assert.LessOrEqual(t, e, 4.0)
	assert.InDelta(t, 4.0, e, 1e-6)
}

func TestHillEffect_HalfMaximalAtMIC(t *testing.T) {
	assert.InDelta(t, 2.0, HillEffect(0.5, 0.5, 4, 2.2), 1e-12)
}

func TestPopulationParams_Defaults_Valid(t *testing.T) {
	assert.NoError(t, DefaultPopulationParams().Validate())
}

func TestPopulationParams_FitnessCostInversion_Rejected(t *testing.T) {
	p := DefaultPopulationParams()
	p.GrowthRateResistant = p.GrowthRateSensitive
	var cfgErr *ConfigurationError
	assert.ErrorAs(t, p.Validate(), &cfgErr)

	// Explicit override permits cost-free resistance for exploration.
	p.AllowEqualFitness = true
	assert.NoError(t, p.Validate())
}

func TestRates_NoDrug_LogisticGrowthCouplesStrains(t *testing.T) {
	m, err := NewPopulationModel(DefaultPopulationParams(), referenceDrug())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Far below capacity both strains grow at nearly their intrinsic rates.
	dS, dR := m.Rates(1e6, 1e3, 0)
	assert.InDelta(t, 0.693*1e6, dS, 0.01*0.693*1e6)
	assert.InDelta(t, 0.623*1e3, dR, 0.01*0.623*1e3)

	// At capacity growth stops; only the mutation flux remains.
	dS, dR = m.Rates(1e12, 0, 0)
	assert.InDelta(t, -1e-8*1e12, dS, 1e-3)
	assert.InDelta(t, 1e-8*1e12, dR, 1e-3)
}

func TestRates_GrowthFactorClampedAboveCapacity(t *testing.T) {
	m, _ := NewPopulationModel(DefaultPopulationParams(), referenceDrug())
	dS, _ := m.Rates(2e12, 0, 0)
	// Negative growth factor clamps to zero rather than turning growth into decay.
	assert.InDelta(t, -1e-8*2e12, dS, 1e-3)
}

func TestRates_HighConcentration_KillsSensitiveFasterThanResistant(t *testing.T) {
	m, _ := NewPopulationModel(DefaultPopulationParams(), referenceDrug())
	// 2 mg/L sits well above MIC_s (0.5) and well below MIC_r (8.0).
	dS, dR := m.Rates(1e8, 1e8, 2.0)
	assert.Negative(t, dS)
	assert.Positive(t, dR)
}

func TestRates_MutationFluxMovesSensitiveIntoResistant(t *testing.T) {
	p := DefaultPopulationParams()
	p.MutationRate = 1e-6
	m, _ := NewPopulationModel(p, referenceDrug())

	_, dRWith := m.Rates(1e10, 0, 0)
	p.MutationRate = 0
	m2, _ := NewPopulationModel(p, referenceDrug())
	_, dRWithout := m2.Rates(1e10, 0, 0)

	assert.InDelta(t, 1e-6*1e10, dRWith-dRWithout, 1e-6)
}

func TestRates_ConcentrationDependentMutation_AmplifiedInsideWindow(t *testing.T) {
	p := DefaultPopulationParams()
	p.ConcentrationDependentMutation = true
	m, _ := NewPopulationModel(p, referenceDrug())
	base, _ := NewPopulationModel(DefaultPopulationParams(), referenceDrug())

	// At C = MPC the pressure doubles the mutation flux.
	conc := referenceDrug().MPC
	dSAmp, dRAmp := m.Rates(1e10, 0, conc)
	dSBase, dRBase := base.Rates(1e10, 0, conc)
	assert.InDelta(t, 1e-8*1e10, dRAmp-dRBase, 1e-9*1e10) // extra flux ≈ μS
	assert.Less(t, dSAmp, dSBase)
}
