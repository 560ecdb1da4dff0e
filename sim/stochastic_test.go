package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStochasticStepper_InvalidParams_Rejected(t *testing.T) {
	p := DefaultPopulationParams()
	p.CarryingCapacity = 0
	_, err := NewStochasticStepper(p, referenceDrug(), 1)
	var cfgErr *ConfigurationError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestStochasticStepper_SameSeedReproduces(t *testing.T) {
	st1, err := NewStochasticStepper(DefaultPopulationParams(), referenceDrug(), 42)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	st2, _ := NewStochasticStepper(DefaultPopulationParams(), referenceDrug(), 42)

	s1, r1 := 1e6, 1e2
	s2, r2 := 1e6, 1e2
	for i := 0; i < 50; i++ {
		s1, r1 = st1.Step(s1, r1, 1.5, 0.1)
		s2, r2 = st2.Step(s2, r2, 1.5, 0.1)
	}
	assert.Equal(t, s1, s2)
	assert.Equal(t, r1, r2)
}

func TestStochasticStepper_PopulationsStayNonNegativeWholeCells(t *testing.T) {
	st, _ := NewStochasticStepper(DefaultPopulationParams(), referenceDrug(), 7)
	s, r := 1e4, 10.0
	for i := 0; i < 200; i++ {
		s, r = st.Step(s, r, 5.0, 0.1) // heavy kill pressure on the sensitive strain
		if s < 0 || r < 0 {
			t.Fatalf("negative population at step %d: S=%g R=%g", i, s, r)
		}
	}
}

func TestStochasticStepper_CapacityRescalesOvergrownPopulation(t *testing.T) {
	p := DefaultPopulationParams()
	p.CarryingCapacity = 1e6
	st, _ := NewStochasticStepper(p, referenceDrug(), 3)

	s, r := 2e6, 2e6 // four times over capacity
	s, r = st.Step(s, r, 0, 0.01)
	assert.Less(t, s+r, 1.2e6)
}

func TestStochasticStepper_DriftMatchesDeterministicRates(t *testing.T) {
	st, _ := NewStochasticStepper(DefaultPopulationParams(), referenceDrug(), 99)

	// Generation replacement: the next population is Poisson with intensity
	// S × fitness × dt. At N=1e8 the noise is a few thousand cells.
	s, _ := st.Step(1e8, 0, 0, 0.1)
	assert.InDelta(t, 1e8*0.693*0.1, s, 1e6)
}
