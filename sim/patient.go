package sim

import "fmt"

// GeneticMarkerCYP is the CYP450 activity marker consulted by the PK model.
// Missing markers default to 1.0 (normal metabolizer).
const GeneticMarkerCYP = "cyp_activity"

// PatientProfile describes one patient. Immutable once constructed; a profile
// is created per simulation run and shared with nothing else, so concurrent
// runs over different profiles need no synchronization.
type PatientProfile struct {
	Age                     float64            // years, > 0
	Weight                  float64            // kg, > 0
	CreatinineClearance     float64            // mL/min, >= 0
	GeneticMarkers          map[string]float64 // marker name → multiplicative activity factor, > 0
	Comorbidities           []string
	InfectionSeverity       float64        // 0–1
	PriorAntibioticExposure map[string]int // drug name → days of prior exposure
}

// Marker returns the named genetic marker's activity factor, or 1.0 when the
// marker is absent.
func (p PatientProfile) Marker(name string) float64 {
	if v, ok := p.GeneticMarkers[name]; ok {
		return v
	}
	return 1.0
}

// Validate checks the profile's field contracts.
func (p PatientProfile) Validate() error {
	if p.Age <= 0 {
		return &ConfigurationError{Field: "patient.age", Reason: fmt.Sprintf("must be positive, got %g", p.Age)}
	}
	if p.Weight <= 0 {
		return &ConfigurationError{Field: "patient.weight", Reason: fmt.Sprintf("must be positive, got %g", p.Weight)}
	}
	if p.CreatinineClearance < 0 {
		return &ConfigurationError{Field: "patient.creatinine_clearance", Reason: fmt.Sprintf("must be non-negative, got %g", p.CreatinineClearance)}
	}
	if p.InfectionSeverity < 0 || p.InfectionSeverity > 1 {
		return &ConfigurationError{Field: "patient.infection_severity", Reason: fmt.Sprintf("must be within [0, 1], got %g", p.InfectionSeverity)}
	}
	for name, v := range p.GeneticMarkers {
		if v <= 0 {
			return &ConfigurationError{Field: "patient.genetic_markers." + name, Reason: fmt.Sprintf("must be positive, got %g", v)}
		}
	}
	for name, days := range p.PriorAntibioticExposure {
		if days < 0 {
			return &ConfigurationError{Field: "patient.prior_antibiotic_exposure." + name, Reason: fmt.Sprintf("must be non-negative, got %d", days)}
		}
	}
	return nil
}
