package cohort

import (
	"fmt"
	"math"

	exprand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Sampler draws one value from a configured distribution.
type Sampler interface {
	Sample() float64
}

// gaussianSampler produces clamped normal samples.
type gaussianSampler struct {
	dist     distuv.Normal
	min, max float64
}

func (s *gaussianSampler) Sample() float64 {
	v := s.dist.Rand()
	return math.Min(s.max, math.Max(s.min, v))
}

type lognormalSampler struct {
	dist distuv.LogNormal
}

func (s *lognormalSampler) Sample() float64 { return s.dist.Rand() }

type betaSampler struct {
	dist  distuv.Beta
	scale float64
}

func (s *betaSampler) Sample() float64 { return s.dist.Rand() * s.scale }

type uniformSampler struct {
	dist distuv.Uniform
}

func (s *uniformSampler) Sample() float64 { return s.dist.Rand() }

type constantSampler struct {
	value float64
}

func (s *constantSampler) Sample() float64 { return s.value }

// param fetches a distribution parameter with a default.
func param(p map[string]float64, key string, def float64) float64 {
	if v, ok := p[key]; ok {
		return v
	}
	return def
}

// NewSampler builds a Sampler for the spec, drawing from src. The zero
// DistSpec is invalid here; callers substitute defaults before reaching this.
func NewSampler(spec DistSpec, src exprand.Source) (Sampler, error) {
	switch spec.Type {
	case "gaussian":
		stdDev := param(spec.Params, "std_dev", 1)
		if stdDev <= 0 {
			return nil, fmt.Errorf("gaussian std_dev must be positive, got %g", stdDev)
		}
		return &gaussianSampler{
			dist: distuv.Normal{Mu: param(spec.Params, "mean", 0), Sigma: stdDev, Src: src},
			min:  param(spec.Params, "min", math.Inf(-1)),
			max:  param(spec.Params, "max", math.Inf(1)),
		}, nil
	case "lognormal":
		sigma := param(spec.Params, "sigma", 1)
		if sigma <= 0 {
			return nil, fmt.Errorf("lognormal sigma must be positive, got %g", sigma)
		}
		return &lognormalSampler{dist: distuv.LogNormal{Mu: param(spec.Params, "mu", 0), Sigma: sigma, Src: src}}, nil
	case "beta":
		alpha, beta := param(spec.Params, "alpha", 2), param(spec.Params, "beta", 5)
		if alpha <= 0 || beta <= 0 {
			return nil, fmt.Errorf("beta shape parameters must be positive, got alpha=%g beta=%g", alpha, beta)
		}
		return &betaSampler{
			dist:  distuv.Beta{Alpha: alpha, Beta: beta, Src: src},
			scale: param(spec.Params, "scale", 1),
		}, nil
	case "uniform":
		lo, hi := param(spec.Params, "min", 0), param(spec.Params, "max", 1)
		if hi <= lo {
			return nil, fmt.Errorf("uniform max must exceed min, got [%g, %g]", lo, hi)
		}
		return &uniformSampler{dist: distuv.Uniform{Min: lo, Max: hi, Src: src}}, nil
	case "constant":
		return &constantSampler{value: param(spec.Params, "value", 0)}, nil
	default:
		return nil, fmt.Errorf("unknown distribution type %q", spec.Type)
	}
}
