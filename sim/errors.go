package sim

import "fmt"

// ConfigurationError reports a construction-time contract violation, such as
// a non-positive half-life or an inverted MIC ordering. It is returned
// immediately from constructors and Validate methods; the engine never
// silently defaults an invalid value.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration: %s: %s", e.Field, e.Reason)
}

// InvalidParameterError reports a call-time parameter problem, such as a
// non-positive time step or a malformed dose schedule. Rejected before any
// integration happens.
type InvalidParameterError struct {
	Param  string
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %s: %s", e.Param, e.Reason)
}

// NumericalAnomalyError reports a NaN or Inf produced during integration.
// The run aborts at the offending step; Simulate returns the trajectory up to
// the last valid step alongside this error so batch callers can record and
// skip the failed run without crashing the whole batch.
type NumericalAnomalyError struct {
	Step     int
	Time     float64 // hours
	Quantity string  // "concentration", "sensitive", "resistant" or "step size"
	Value    float64
}

func (e *NumericalAnomalyError) Error() string {
	return fmt.Sprintf("numerical anomaly at step %d (t=%.3fh): %s = %v",
		e.Step, e.Time, e.Quantity, e.Value)
}
