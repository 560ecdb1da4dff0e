package sim

import (
	"math"

	"github.com/sirupsen/logrus"
)

// Simulate runs one deterministic PK/PD simulation: the patient's
// personalized concentration signal under the dose schedule drives the
// coupled sensitive/resistant population ODE from t=0 to the horizon.
//
// The returned trajectory samples every cfg.Dt hours, horizon inclusive. An
// empty schedule is valid and yields untreated dynamics. On a numerical
// anomaly the trajectory up to the last valid step is returned together with
// a *NumericalAnomalyError; all other errors return a nil trajectory.
//
// Simulate is a pure function of its arguments: no global state, no
// randomness. Identical inputs reproduce identical output bit for bit on the
// same platform (cross-platform floating-point drift is a documented
// tolerance, not a bug).
func Simulate(patient PatientProfile, drug DrugProperties, schedule DoseSchedule, cfg SimulationConfig) (*Trajectory, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := schedule.Validate(); err != nil {
		return nil, err
	}
	pk, err := NewPKModel(drug, patient)
	if err != nil {
		return nil, err
	}
	pop, err := NewPopulationModel(cfg.Population, drug)
	if err != nil {
		return nil, err
	}

	rhs := func(t, s, r float64) (float64, float64) {
		return pop.Rates(s, r, pk.ConcentrationAt(t, schedule))
	}

	steps := int(math.Ceil(cfg.HorizonHours / cfg.Dt))
	traj := &Trajectory{Points: make([]Point, 0, steps+1)}

	s, r := cfg.InitialSensitive, cfg.InitialResistant
	t := 0.0
	for i := 0; i <= steps; i++ {
		conc := pk.ConcentrationAt(t, schedule)
		if !isFinite(conc) {
			return traj, &NumericalAnomalyError{Step: i, Time: t, Quantity: "concentration", Value: conc}
		}
		if !isFinite(s) {
			return traj, &NumericalAnomalyError{Step: i, Time: t, Quantity: "sensitive", Value: s}
		}
		if !isFinite(r) {
			return traj, &NumericalAnomalyError{Step: i, Time: t, Quantity: "resistant", Value: r}
		}
		traj.Points = append(traj.Points, Point{Time: t, Concentration: conc, Sensitive: s, Resistant: r})
		if i == steps {
			break
		}

		// Last grid interval may be shorter than Dt.
		next := math.Min(t+cfg.Dt, cfg.HorizonHours)
		switch cfg.Method {
		case MethodAdaptive:
			var ok bool
			s, r, ok = rkf45Interval(rhs, t, next, s, r)
			if !ok {
				return traj, &NumericalAnomalyError{Step: i, Time: t, Quantity: "step size", Value: 0}
			}
		default:
			s, r = eulerStep(rhs, t, s, r, next-t)
		}
		t = next
	}

	if final, ok := traj.Final(); ok {
		logrus.Debugf("sim: horizon=%gh final S=%.3e R=%.3e conc=%.3f",
			cfg.HorizonHours, final.Sensitive, final.Resistant, final.Concentration)
	}
	return traj, nil
}
