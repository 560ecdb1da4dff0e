package sim

// Default outcome thresholds. Treatment counts as successful when the final
// bacterial load is below the failure threshold and the resistant share of
// the surviving population is below the resistance threshold.
const (
	DefaultFailureThreshold    = 1e6 // CFU/mL
	DefaultResistanceThreshold = 0.1
)

// Thresholds parameterizes outcome evaluation. Values are configuration, not
// hard-coded constants; DefaultThresholds supplies the documented defaults.
type Thresholds struct {
	Failure    float64 // CFU/mL
	Resistance float64 // fraction in [0, 1]
}

// DefaultThresholds returns the standard clinical cutoffs.
func DefaultThresholds() Thresholds {
	return Thresholds{Failure: DefaultFailureThreshold, Resistance: DefaultResistanceThreshold}
}

// Outcome reduces a trajectory to the decision-relevant scalars.
type Outcome struct {
	Success                 bool
	FinalTotal              float64 // CFU/mL at the horizon
	FinalResistanceFraction float64 // 0 when the population is extinct
	PeakConcentration       float64 // mg/L, highest concentration over the run
}

// Evaluate derives treatment endpoints from a completed trajectory. Pure
// function; no side effects. An empty trajectory is a call-time error.
func Evaluate(traj *Trajectory, th Thresholds) (Outcome, error) {
	final, ok := traj.Final()
	if !ok {
		return Outcome{}, &InvalidParameterError{Param: "trajectory", Reason: "empty"}
	}

	total := final.Total()
	fraction := 0.0
	if total > 0 {
		fraction = final.Resistant / total
	}
	return Outcome{
		Success:                 total < th.Failure && fraction < th.Resistance,
		FinalTotal:              total,
		FinalResistanceFraction: fraction,
		PeakConcentration:       traj.PeakConcentration(),
	}, nil
}
