package sim

import "fmt"

// DrugProperties describes one antibiotic. Immutable and shared read-only
// across all patients simulated with the same drug.
type DrugProperties struct {
	Name               string
	MICSensitive       float64 // mg/L, > 0: MIC for the sensitive strain
	MICResistant       float64 // mg/L, > MICSensitive
	MPC                float64 // mg/L, >= MICResistant: mutant prevention concentration
	HalfLife           float64 // hours, > 0
	VolumeDistribution float64 // L/kg, > 0
	ProteinBinding     float64 // bound fraction, [0, 1]
	Bioavailability    float64 // absorbed fraction, (0, 1]
	Emax               float64 // maximal kill rate, > 0
	HillCoefficient    float64 // > 0, typically 1.5–3
}

// Validate checks the drug's field contracts, including the MIC ordering
// invariant (mic_resistant > mic_sensitive) the whole model depends on.
func (d DrugProperties) Validate() error {
	if d.HalfLife <= 0 {
		return &ConfigurationError{Field: "drug.half_life", Reason: fmt.Sprintf("must be positive, got %g", d.HalfLife)}
	}
	if d.VolumeDistribution <= 0 {
		return &ConfigurationError{Field: "drug.volume_distribution", Reason: fmt.Sprintf("must be positive, got %g", d.VolumeDistribution)}
	}
	if d.MICSensitive <= 0 {
		return &ConfigurationError{Field: "drug.mic_sensitive", Reason: fmt.Sprintf("must be positive, got %g", d.MICSensitive)}
	}
	if d.MICResistant <= d.MICSensitive {
		return &ConfigurationError{Field: "drug.mic_resistant", Reason: fmt.Sprintf("must exceed mic_sensitive (%g), got %g", d.MICSensitive, d.MICResistant)}
	}
	if d.MPC < d.MICResistant {
		return &ConfigurationError{Field: "drug.mpc", Reason: fmt.Sprintf("must be at least mic_resistant (%g), got %g", d.MICResistant, d.MPC)}
	}
	if d.ProteinBinding < 0 || d.ProteinBinding > 1 {
		return &ConfigurationError{Field: "drug.protein_binding", Reason: fmt.Sprintf("must be within [0, 1], got %g", d.ProteinBinding)}
	}
	if d.Bioavailability <= 0 || d.Bioavailability > 1 {
		return &ConfigurationError{Field: "drug.bioavailability", Reason: fmt.Sprintf("must be within (0, 1], got %g", d.Bioavailability)}
	}
	if d.Emax <= 0 {
		return &ConfigurationError{Field: "drug.emax", Reason: fmt.Sprintf("must be positive, got %g", d.Emax)}
	}
	if d.HillCoefficient <= 0 {
		return &ConfigurationError{Field: "drug.hill_coefficient", Reason: fmt.Sprintf("must be positive, got %g", d.HillCoefficient)}
	}
	return nil
}
