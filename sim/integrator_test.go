package sim

import (
	"math"
	"testing"
)

func TestRKF45Interval_SmoothRHSReachesEndpoint(t *testing.T) {
	// Pure exponential decay: S' = -S, R' = -R. Exact solution e^-t.
	rhs := func(_, s, r float64) (float64, float64) {
		return -s, -r
	}
	s, r, ok := rkf45Interval(rhs, 0, 1, 1.0, 1.0)
	if !ok {
		t.Fatal("controller should reach the endpoint on a smooth problem")
	}
	want := math.Exp(-1)
	if math.Abs(s-want) > 1e-5 || math.Abs(r-want) > 1e-5 {
		t.Errorf("expected e^-1 ≈ %.6f, got s=%.6f r=%.6f", want, s, r)
	}
}

func TestRKF45Interval_StalledControllerIsReported(t *testing.T) {
	// A high-frequency oscillatory right-hand side keeps the embedded error
	// estimate above tolerance at every step size, so the controller pins h
	// at its floor and runs out of attempts long before t1.
	rhs := func(tNow, _, _ float64) (float64, float64) {
		v := 1e6 * math.Sin(1e12*tNow)
		return v, -v
	}
	_, _, ok := rkf45Interval(rhs, 0, 1, 1.0, 1.0)
	if ok {
		t.Fatal("expected the attempt cap to exhaust before reaching t1")
	}
}
