package cmd

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pkpd-sim/pkpd-sim/sim"
)

// Scenario is the YAML description of one treatment simulation: who is
// treated, with what drug, under which regimen and integration settings.
type Scenario struct {
	Patient    PatientSpec    `yaml:"patient"`
	Drug       DrugSpec       `yaml:"drug"`
	Regimen    RegimenSpec    `yaml:"regimen"`
	Simulation SimulationSpec `yaml:"simulation,omitempty"`
	Population PopulationSpec `yaml:"population,omitempty"`
	Thresholds ThresholdSpec  `yaml:"thresholds,omitempty"`
	Compliance ComplianceSpec `yaml:"compliance,omitempty"`
}

type PatientSpec struct {
	Age                 float64            `yaml:"age"`
	Weight              float64            `yaml:"weight"`
	CreatinineClearance float64            `yaml:"creatinine_clearance"`
	GeneticMarkers      map[string]float64 `yaml:"genetic_markers,omitempty"`
	Comorbidities       []string           `yaml:"comorbidities,omitempty"`
	InfectionSeverity   float64            `yaml:"infection_severity"`
	PriorExposure       map[string]int     `yaml:"prior_antibiotic_exposure,omitempty"`
}

type DrugSpec struct {
	Name               string  `yaml:"name"`
	MICSensitive       float64 `yaml:"mic_sensitive"`
	MICResistant       float64 `yaml:"mic_resistant"`
	MPC                float64 `yaml:"mpc"`
	HalfLife           float64 `yaml:"half_life"`
	VolumeDistribution float64 `yaml:"volume_distribution"`
	ProteinBinding     float64 `yaml:"protein_binding"`
	Bioavailability    float64 `yaml:"bioavailability"`
	Emax               float64 `yaml:"emax"`
	HillCoefficient    float64 `yaml:"hill_coefficient"`
}

type RegimenSpec struct {
	DoseMg        float64 `yaml:"dose_mg"`
	IntervalHours float64 `yaml:"interval_hours"`
}

type SimulationSpec struct {
	HorizonHours     float64 `yaml:"horizon_hours,omitempty"`
	Dt               float64 `yaml:"dt,omitempty"`
	Method           string  `yaml:"method,omitempty"`
	InitialSensitive float64 `yaml:"initial_sensitive,omitempty"`
	InitialResistant float64 `yaml:"initial_resistant,omitempty"`
}

type PopulationSpec struct {
	GrowthRateSensitive            float64 `yaml:"growth_rate_sensitive,omitempty"`
	GrowthRateResistant            float64 `yaml:"growth_rate_resistant,omitempty"`
	MutationRate                   float64 `yaml:"mutation_rate,omitempty"`
	CarryingCapacity               float64 `yaml:"carrying_capacity,omitempty"`
	AllowEqualFitness              bool    `yaml:"allow_equal_fitness,omitempty"`
	ConcentrationDependentMutation bool    `yaml:"concentration_dependent_mutation,omitempty"`
}

type ThresholdSpec struct {
	Failure    float64 `yaml:"failure,omitempty"`
	Resistance float64 `yaml:"resistance,omitempty"`
}

type ComplianceSpec struct {
	Enabled       bool    `yaml:"enabled,omitempty"`
	BaseAdherence float64 `yaml:"base_adherence,omitempty"`
}

// LoadScenario reads and parses a YAML scenario file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	var sc Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&sc); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	return &sc, nil
}

// DefaultScenario returns the reference clinical case: a 500mg q12h week of
// a fluoroquinolone-like agent against the standard mixed inoculum.
func DefaultScenario() *Scenario {
	return &Scenario{
		Patient: PatientSpec{
			Age:                 65,
			Weight:              70,
			CreatinineClearance: 100,
			GeneticMarkers:      map[string]float64{sim.GeneticMarkerCYP: 1.0},
			InfectionSeverity:   0.6,
		},
		Drug: DrugSpec{
			Name:               "cipromycin",
			MICSensitive:       0.5,
			MICResistant:       8.0,
			MPC:                8.0,
			HalfLife:           4.1,
			VolumeDistribution: 2.1,
			ProteinBinding:     0.3,
			Bioavailability:    0.78,
			Emax:               4.0,
			HillCoefficient:    2.2,
		},
		Regimen: RegimenSpec{DoseMg: 500, IntervalHours: 12},
	}
}

// ToPatient converts the YAML spec to the engine type.
func (s PatientSpec) ToPatient() sim.PatientProfile {
	return sim.PatientProfile{
		Age:                     s.Age,
		Weight:                  s.Weight,
		CreatinineClearance:     s.CreatinineClearance,
		GeneticMarkers:          s.GeneticMarkers,
		Comorbidities:           s.Comorbidities,
		InfectionSeverity:       s.InfectionSeverity,
		PriorAntibioticExposure: s.PriorExposure,
	}
}

// ToDrug converts the YAML spec to the engine type.
func (s DrugSpec) ToDrug() sim.DrugProperties {
	return sim.DrugProperties{
		Name:               s.Name,
		MICSensitive:       s.MICSensitive,
		MICResistant:       s.MICResistant,
		MPC:                s.MPC,
		HalfLife:           s.HalfLife,
		VolumeDistribution: s.VolumeDistribution,
		ProteinBinding:     s.ProteinBinding,
		Bioavailability:    s.Bioavailability,
		Emax:               s.Emax,
		HillCoefficient:    s.HillCoefficient,
	}
}

// ToConfig merges the scenario's simulation and population sections over the
// engine defaults.
func (sc *Scenario) ToConfig() sim.SimulationConfig {
	cfg := sim.DefaultSimulationConfig()
	if sc.Simulation.HorizonHours > 0 {
		cfg.HorizonHours = sc.Simulation.HorizonHours
	}
	if sc.Simulation.Dt > 0 {
		cfg.Dt = sc.Simulation.Dt
	}
	if sc.Simulation.Method != "" {
		cfg.Method = sim.Method(sc.Simulation.Method)
	}
	if sc.Simulation.InitialSensitive > 0 {
		cfg.InitialSensitive = sc.Simulation.InitialSensitive
	}
	if sc.Simulation.InitialResistant > 0 {
		cfg.InitialResistant = sc.Simulation.InitialResistant
	}
	if sc.Population.GrowthRateSensitive > 0 {
		cfg.Population.GrowthRateSensitive = sc.Population.GrowthRateSensitive
	}
	if sc.Population.GrowthRateResistant > 0 {
		cfg.Population.GrowthRateResistant = sc.Population.GrowthRateResistant
	}
	if sc.Population.MutationRate > 0 {
		cfg.Population.MutationRate = sc.Population.MutationRate
	}
	if sc.Population.CarryingCapacity > 0 {
		cfg.Population.CarryingCapacity = sc.Population.CarryingCapacity
	}
	cfg.Population.AllowEqualFitness = sc.Population.AllowEqualFitness
	cfg.Population.ConcentrationDependentMutation = sc.Population.ConcentrationDependentMutation
	return cfg
}

// ToThresholds merges the scenario's thresholds over the defaults.
func (sc *Scenario) ToThresholds() sim.Thresholds {
	th := sim.DefaultThresholds()
	if sc.Thresholds.Failure > 0 {
		th.Failure = sc.Thresholds.Failure
	}
	if sc.Thresholds.Resistance > 0 {
		th.Resistance = sc.Thresholds.Resistance
	}
	return th
}
