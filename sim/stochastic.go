package sim

import (
	"math"

	exprand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// minFitness keeps net per-capita fitness positive so Poisson intensities
// stay valid even under overwhelming kill rates.
const minFitness = 0.01

// StochasticStepper advances (S, R) with demographic noise: per-step offspring
// and mutation counts are Poisson draws rather than deterministic fluxes.
// Useful near extinction, where the deterministic ODE's fractional cells
// misrepresent the fate of small resistant subpopulations.
//
// All randomness comes from the seed supplied at construction; a stepper is
// single-goroutine like any other generator.
type StochasticStepper struct {
	params PopulationParams
	drug   DrugProperties
	src    exprand.Source
}

// NewStochasticStepper validates inputs and seeds the stepper's private
// source. Derive per-run seeds via PartitionedRNG.SeedFor(SubsystemStochastic).
func NewStochasticStepper(params PopulationParams, drug DrugProperties, seed int64) (*StochasticStepper, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if err := drug.Validate(); err != nil {
		return nil, err
	}
	return &StochasticStepper{
		params: params,
		drug:   drug,
		src:    exprand.NewSource(uint64(seed)),
	}, nil
}

// Step advances the populations over dt hours at the given concentration.
// Populations are returned as whole cells, never negative.
func (st *StochasticStepper) Step(s, r, conc, dt float64) (float64, float64) {
	p := st.params

	killS := HillEffect(conc, st.drug.MICSensitive, st.drug.Emax, st.drug.HillCoefficient)
	killR := HillEffect(conc, st.drug.MICResistant, st.drug.Emax, st.drug.HillCoefficient)

	fitnessS := math.Max(minFitness, p.GrowthRateSensitive-killS)
	fitnessR := math.Max(minFitness, p.GrowthRateResistant-killR)

	// Resource competition: rescale to capacity before reproduction.
	if total := s + r; total > p.CarryingCapacity {
		s = math.Floor(s * p.CarryingCapacity / total)
		r = math.Floor(r * p.CarryingCapacity / total)
	}

	newS := st.poisson(s * fitnessS * dt)
	newR := st.poisson(r * fitnessR * dt)

	mutations := st.poisson(s * p.MutationRate * dt)
	newS = math.Max(0, newS-mutations)
	newR += mutations

	return newS, newR
}

// poisson draws one Poisson(lambda) sample; zero intensity yields zero.
func (st *StochasticStepper) poisson(lambda float64) float64 {
	if lambda <= 0 {
		return 0
	}
	return distuv.Poisson{Lambda: lambda, Src: st.src}.Rand()
}
