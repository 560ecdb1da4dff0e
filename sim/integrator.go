package sim

import "math"

// rhsFunc is the ODE right-hand side over the (S, R) state pair.
type rhsFunc func(t, s, r float64) (dS, dR float64)

// eulerStep advances (s, r) by one explicit Euler step of size h, clamping
// both populations at zero: bacterial death cannot overshoot into negative
// counts.
func eulerStep(rhs rhsFunc, t, s, r, h float64) (float64, float64) {
	dS, dR := rhs(t, s, r)
	s = math.Max(0, s+dS*h)
	r = math.Max(0, r+dR*h)
	return s, r
}

// Fehlberg 4(5) tableau constants.
var rkfA = [6]float64{0, 1.0 / 4, 3.0 / 8, 12.0 / 13, 1, 1.0 / 2}

var rkfB = [6][5]float64{
	{},
	{1.0 / 4},
	{3.0 / 32, 9.0 / 32},
	{1932.0 / 2197, -7200.0 / 2197, 7296.0 / 2197},
	{439.0 / 216, -8, 3680.0 / 513, -845.0 / 4104},
	{-8.0 / 27, 2, -3544.0 / 2565, 1859.0 / 4104, -11.0 / 40},
}

// 4th-order solution weights and 5th-order error-estimate weights.
var rkfC4 = [6]float64{25.0 / 216, 0, 1408.0 / 2565, 2197.0 / 4104, -1.0 / 5, 0}
var rkfC5 = [6]float64{16.0 / 135, 0, 6656.0 / 12825, 28561.0 / 56430, -9.0 / 50, 2.0 / 55}

const (
	rkfRelTol     = 1e-6
	rkfSafety     = 0.84
	rkfMaxAttempt = 10000
)

// rkf45Interval advances (s, r) from t0 to t1 with adaptive Runge-Kutta-
// Fehlberg 4(5) substeps, clamping populations at zero after each accepted
// step. Step size adapts to keep the local error below rkfRelTol relative to
// the state magnitude, which matters around the stiff kill-rate transients
// right after a dose. A non-finite state is returned as-is; the caller's
// anomaly check reports it. The third return is false when the attempt cap
// is exhausted before t reaches t1, so a stalled controller cannot pass off
// an earlier state as the t1 sample.
func rkf45Interval(rhs rhsFunc, t0, t1, s, r float64) (float64, float64, bool) {
	t := t0
	h := t1 - t0
	hMin := (t1 - t0) * 1e-9

	for attempt := 0; t < t1 && attempt < rkfMaxAttempt; attempt++ {
		if t+h > t1 {
			h = t1 - t
		}

		var ks, kr [6]float64
		for i := 0; i < 6; i++ {
			si, ri := s, r
			for j := 0; j < i; j++ {
				si += h * rkfB[i][j] * ks[j]
				ri += h * rkfB[i][j] * kr[j]
			}
			ks[i], kr[i] = rhs(t+rkfA[i]*h, si, ri)
		}

		s4, r4 := s, r
		s5, r5 := s, r
		for i := 0; i < 6; i++ {
			s4 += h * rkfC4[i] * ks[i]
			r4 += h * rkfC4[i] * kr[i]
			s5 += h * rkfC5[i] * ks[i]
			r5 += h * rkfC5[i] * kr[i]
		}

		if !isFinite(s5) || !isFinite(r5) {
			return s5, r5, true
		}

		// Error relative to state magnitude, with an absolute floor so an
		// extinct population does not force the step size to zero.
		scale := math.Max(1.0, math.Max(math.Abs(s), math.Abs(r)))
		errEst := math.Max(math.Abs(s5-s4), math.Abs(r5-r4)) / scale

		if errEst <= rkfRelTol || h <= hMin {
			t += h
			s = math.Max(0, s5)
			r = math.Max(0, r5)
		}

		// Standard step-size controller; bounded growth/shrink.
		factor := 4.0
		if errEst > 0 {
			factor = rkfSafety * math.Pow(rkfRelTol/errEst, 0.25)
			factor = math.Min(4.0, math.Max(0.1, factor))
		}
		h = math.Max(hMin, h*factor)
	}
	return s, r, t >= t1
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
