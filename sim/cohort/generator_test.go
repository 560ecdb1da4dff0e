package cohort

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerate_Deterministic_SameSpecAndSeed(t *testing.T) {
	spec := DefaultSpec()
	a, err := Generate(spec, 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := Generate(spec, 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assert.Equal(t, a, b)
}

func TestGenerate_DifferentSeedsDiverge(t *testing.T) {
	spec := DefaultSpec()
	a, _ := Generate(spec, 1)
	b, _ := Generate(spec, 2)
	assert.NotEqual(t, a, b)
}

func TestGenerate_FieldsWithinConfiguredRanges(t *testing.T) {
	patients, err := Generate(DefaultSpec(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assert.Len(t, patients, 100)
	for i, p := range patients {
		assert.GreaterOrEqual(t, p.Age, 18.0, "patient %d", i)
		assert.LessOrEqual(t, p.Age, 90.0, "patient %d", i)
		assert.GreaterOrEqual(t, p.Weight, 40.0, "patient %d", i)
		assert.LessOrEqual(t, p.Weight, 120.0, "patient %d", i)
		assert.GreaterOrEqual(t, p.CreatinineClearance, 20.0, "patient %d", i)
		assert.GreaterOrEqual(t, p.InfectionSeverity, 0.0, "patient %d", i)
		assert.LessOrEqual(t, p.InfectionSeverity, 1.0, "patient %d", i)
		assert.GreaterOrEqual(t, p.Marker("cyp_activity"), 0.2, "patient %d", i)
		assert.NoError(t, p.Validate(), "patient %d", i)
	}
}

func TestGenerate_PopulationStatisticsAreSane(t *testing.T) {
	patients, _ := Generate(DefaultSpec(), 123)

	withExposure := 0
	meanAge := 0.0
	for _, p := range patients {
		meanAge += p.Age
		if len(p.PriorAntibioticExposure) > 0 {
			withExposure++
		}
	}
	meanAge /= float64(len(patients))
	assert.InDelta(t, 55, meanAge, 8)
	// ~40% chance of a history, thinned by the per-drug draw.
	assert.Greater(t, withExposure, 5)
	assert.Less(t, withExposure, 60)
}

func TestGenerate_ExplicitClearanceOverridesAgeCorrelation(t *testing.T) {
	spec := DefaultSpec()
	spec.CreatinineClearance = DistSpec{Type: "constant", Params: map[string]float64{"value": 60}}
	patients, err := Generate(spec, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, p := range patients {
		assert.Equal(t, 60.0, p.CreatinineClearance)
	}
}

func TestGenerate_InvalidSpec_Rejected(t *testing.T) {
	spec := DefaultSpec()
	spec.Population = 0
	_, err := Generate(spec, 1)
	assert.Error(t, err)

	spec = DefaultSpec()
	spec.Age = DistSpec{Type: "zipf"}
	_, err = Generate(spec, 1)
	assert.Error(t, err)
}

func TestNewSampler_ConstantAndUniform(t *testing.T) {
	spec := DefaultSpec()
	spec.Weight = DistSpec{Type: "uniform", Params: map[string]float64{"min": 50, "max": 90}}
	spec.Age = DistSpec{Type: "constant", Params: map[string]float64{"value": 44}}
	patients, err := Generate(spec, 9)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, p := range patients {
		assert.Equal(t, 44.0, p.Age)
		assert.GreaterOrEqual(t, p.Weight, 50.0)
		assert.Less(t, p.Weight, 90.0)
	}
}
