package sim

import "fmt"

// Method selects the numerical integration strategy.
type Method string

const (
	// MethodEuler is fixed-step explicit Euler with a non-negativity clamp.
	// Stable for dt <= 0.5h with the default parameters; the default 0.1h
	// keeps the error well below the RK45 reference (see simulator tests).
	MethodEuler Method = "euler"

	// MethodAdaptive is adaptive Runge-Kutta-Fehlberg 4(5), preferred around
	// the stiff kill-rate transients that follow each dose.
	MethodAdaptive Method = "rk45"
)

// SimulationConfig groups the per-run integration parameters. A config value
// is passed into each run; there is no package-level mutable state.
type SimulationConfig struct {
	HorizonHours     float64 // total simulated time, > 0
	Dt               float64 // output grid step in hours, > 0 (also the Euler step)
	Method           Method
	InitialSensitive float64 // CFU/mL at t=0, >= 0
	InitialResistant float64 // CFU/mL at t=0, >= 0
	Population       PopulationParams
}

// DefaultSimulationConfig returns a 7-day course at 0.1h resolution with the
// canonical 1e8 sensitive / 1e4 resistant inoculum.
func DefaultSimulationConfig() SimulationConfig {
	return SimulationConfig{
		HorizonHours:     168,
		Dt:               0.1,
		Method:           MethodEuler,
		InitialSensitive: 1e8,
		InitialResistant: 1e4,
		Population:       DefaultPopulationParams(),
	}
}

// Validate rejects non-positive dt/horizon and malformed initial conditions
// before any integration happens.
func (c SimulationConfig) Validate() error {
	if c.HorizonHours <= 0 {
		return &InvalidParameterError{Param: "horizon", Reason: fmt.Sprintf("must be positive, got %g", c.HorizonHours)}
	}
	if c.Dt <= 0 {
		return &InvalidParameterError{Param: "dt", Reason: fmt.Sprintf("must be positive, got %g", c.Dt)}
	}
	if c.Method != MethodEuler && c.Method != MethodAdaptive {
		return &InvalidParameterError{Param: "method", Reason: fmt.Sprintf("unknown method %q; valid: euler, rk45", c.Method)}
	}
	if c.InitialSensitive < 0 {
		return &InvalidParameterError{Param: "initial_sensitive", Reason: fmt.Sprintf("must be non-negative, got %g", c.InitialSensitive)}
	}
	if c.InitialResistant < 0 {
		return &InvalidParameterError{Param: "initial_resistant", Reason: fmt.Sprintf("must be non-negative, got %g", c.InitialResistant)}
	}
	return c.Population.Validate()
}
