package sim

import (
	"fmt"
	"math"
)

// PopulationParams are the bacterial dynamics constants. Defaults are
// literature medians for a fast-growing pathogen; override per scenario.
type PopulationParams struct {
	GrowthRateSensitive float64 // 1/h
	GrowthRateResistant float64 // 1/h, normally < GrowthRateSensitive (fitness cost)
	MutationRate        float64 // sensitive→resistant conversions per cell per hour
	CarryingCapacity    float64 // CFU/mL ceiling for logistic growth

	// AllowEqualFitness permits growth_rate_resistant >= growth_rate_sensitive
	// for deliberate exploration of cost-free resistance. Without it such a
	// configuration is rejected as biologically implausible.
	AllowEqualFitness bool

	// ConcentrationDependentMutation scales the mutation rate by
	// 1 + (C/MPC)^2, modeling elevated mutant selection inside the mutant
	// selection window. Off by default; the baseline model uses a constant rate.
	ConcentrationDependentMutation bool
}

// DefaultPopulationParams returns the baseline constants: sensitive doubling
// roughly every hour with a ~10% fitness cost for resistance.
func DefaultPopulationParams() PopulationParams {
	return PopulationParams{
		GrowthRateSensitive: 0.693,
		GrowthRateResistant: 0.623,
		MutationRate:        1e-8,
		CarryingCapacity:    1e12,
	}
}

// Validate checks positivity contracts and the fitness-cost invariant.
func (p PopulationParams) Validate() error {
	if p.GrowthRateSensitive <= 0 {
		return &ConfigurationError{Field: "population.growth_rate_sensitive", Reason: fmt.Sprintf("must be positive, got %g", p.GrowthRateSensitive)}
	}
	if p.GrowthRateResistant <= 0 {
		return &ConfigurationError{Field: "population.growth_rate_resistant", Reason: fmt.Sprintf("must be positive, got %g", p.GrowthRateResistant)}
	}
	if p.GrowthRateResistant >= p.GrowthRateSensitive && !p.AllowEqualFitness {
		return &ConfigurationError{
			Field: "population.growth_rate_resistant",
			Reason: fmt.Sprintf("%g is not below growth_rate_sensitive %g; resistance carries a fitness cost (set allow_equal_fitness to override)",
				p.GrowthRateResistant, p.GrowthRateSensitive),
		}
	}
	if p.MutationRate < 0 {
		return &ConfigurationError{Field: "population.mutation_rate", Reason: fmt.Sprintf("must be non-negative, got %g", p.MutationRate)}
	}
	if p.CarryingCapacity <= 0 {
		return &ConfigurationError{Field: "population.carrying_capacity", Reason: fmt.Sprintf("must be positive, got %g", p.CarryingCapacity)}
	}
	return nil
}

// HillEffect is the sigmoidal concentration→kill-rate response:
// emax * C^h / (mic^h + C^h). Zero for non-positive concentrations,
// monotonically increasing in C, saturating at emax.
func HillEffect(conc, mic, emax, hill float64) float64 {
	if conc <= 0 {
		return 0
	}
	ch := math.Pow(conc, hill)
	return emax * ch / (math.Pow(mic, hill) + ch)
}

// PopulationModel computes instantaneous growth/kill/mutation rates for the
// coupled sensitive/resistant system under a given drug. Pure value type.
type PopulationModel struct {
	Params PopulationParams
	Drug   DrugProperties
}

// NewPopulationModel validates params and drug and returns the model.
func NewPopulationModel(params PopulationParams, drug DrugProperties) (PopulationModel, error) {
	if err := params.Validate(); err != nil {
		return PopulationModel{}, err
	}
	if err := drug.Validate(); err != nil {
		return PopulationModel{}, err
	}
	return PopulationModel{Params: params, Drug: drug}, nil
}

// Rates is the ODE right-hand side: instantaneous dS/dt and dR/dt for the
// current populations at concentration conc. The logistic growth factor
// couples the strains through total population; the mutation flux moves
// sensitive cells into the resistant pool.
func (m PopulationModel) Rates(s, r, conc float64) (dS, dR float64) {
	p := m.Params
	growthFactor := 1.0 - (s+r)/p.CarryingCapacity
	if growthFactor < 0 {
		growthFactor = 0
	}

	killS := HillEffect(conc, m.Drug.MICSensitive, m.Drug.Emax, m.Drug.HillCoefficient)
	killR := HillEffect(conc, m.Drug.MICResistant, m.Drug.Emax, m.Drug.HillCoefficient)

	mu := p.MutationRate
	if p.ConcentrationDependentMutation && m.Drug.MPC > 0 {
		ratio := conc / m.Drug.MPC
		mu *= 1.0 + ratio*ratio
	}

	dS = (p.GrowthRateSensitive*growthFactor-killS)*s - mu*s
	dR = (p.GrowthRateResistant*growthFactor-killR)*r + mu*s
	return dS, dR
}
