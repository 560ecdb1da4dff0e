package cohort

import (
	"fmt"
	"math"

	exprand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/pkpd-sim/pkpd-sim/sim"
)

// normalRenalFunction is the creatinine clearance (mL/min) of a healthy
// young adult, from which age-correlated clearance declines.
const normalRenalFunction = 120.0

// patientSeedHash derives independent per-patient sub-streams. Knuth
// multiplicative hash spreads entropy; avoids XOR collisions between
// (seed, index) pairs.
const patientSeedHash = 2654435761

// Generate expands the spec into concrete patient profiles.
// Pure function: same (spec, seed) always produces identical output. Each
// patient derives an independent RNG sub-stream from seed and its index, so
// the cohort is stable under concurrent downstream consumption.
func Generate(spec Spec, seed int64) ([]sim.PatientProfile, error) {
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid cohort spec: %w", err)
	}
	spec = withDefaults(spec)

	patients := make([]sim.PatientProfile, 0, spec.Population)
	for i := 0; i < spec.Population; i++ {
		src := exprand.NewSource(uint64(seed*patientSeedHash + int64(i)))
		p, err := samplePatient(spec, src)
		if err != nil {
			return nil, fmt.Errorf("sampling patient %d: %w", i, err)
		}
		patients = append(patients, p)
	}
	return patients, nil
}

// withDefaults fills unset distributions from DefaultSpec.
func withDefaults(spec Spec) Spec {
	def := DefaultSpec()
	if spec.Age.Type == "" {
		spec.Age = def.Age
	}
	if spec.Weight.Type == "" {
		spec.Weight = def.Weight
	}
	if spec.Severity.Type == "" {
		spec.Severity = def.Severity
	}
	if spec.Markers == nil {
		spec.Markers = def.Markers
	}
	return spec
}

func samplePatient(spec Spec, src exprand.Source) (sim.PatientProfile, error) {
	uniform := exprand.New(src)

	age, err := sampleField(spec.Age, src)
	if err != nil {
		return sim.PatientProfile{}, fmt.Errorf("age: %w", err)
	}
	weight, err := sampleField(spec.Weight, src)
	if err != nil {
		return sim.PatientProfile{}, fmt.Errorf("weight: %w", err)
	}
	severity, err := sampleField(spec.Severity, src)
	if err != nil {
		return sim.PatientProfile{}, fmt.Errorf("severity: %w", err)
	}
	severity = math.Min(1, math.Max(0, severity))

	ccr, err := sampleClearance(spec, age, src)
	if err != nil {
		return sim.PatientProfile{}, fmt.Errorf("creatinine_clearance: %w", err)
	}

	markers := make(map[string]float64, len(spec.Markers))
	for _, m := range spec.Markers {
		s, err := NewSampler(m.Dist, src)
		if err != nil {
			return sim.PatientProfile{}, fmt.Errorf("marker %s: %w", m.Name, err)
		}
		floor := m.Floor
		if floor <= 0 {
			floor = 0.2
		}
		markers[m.Name] = math.Max(floor, s.Sample())
	}

	patient := sim.PatientProfile{
		Age:                 age,
		Weight:              weight,
		CreatinineClearance: ccr,
		GeneticMarkers:      markers,
		Comorbidities:       sampleComorbidities(spec.ComorbidityPool, age, uniform),
		InfectionSeverity:   severity,
	}

	if len(spec.PriorExposureDrugs) > 0 && uniform.Float64() < spec.PriorExposureProb {
		exposure := make(map[string]int)
		for _, drug := range spec.PriorExposureDrugs {
			if uniform.Float64() < 0.3 {
				exposure[drug] = 1 + uniform.Intn(14)
			}
		}
		if len(exposure) > 0 {
			patient.PriorAntibioticExposure = exposure
		}
	}

	if err := patient.Validate(); err != nil {
		return sim.PatientProfile{}, err
	}
	return patient, nil
}

func sampleField(spec DistSpec, src exprand.Source) (float64, error) {
	s, err := NewSampler(spec, src)
	if err != nil {
		return 0, err
	}
	return s.Sample(), nil
}

// sampleClearance draws renal function. Without an explicit override
// distribution, clearance tracks age: the baseline declines roughly 1% of the
// normal value per year past 20, with N(0, 20) individual variation and a
// 20 mL/min floor.
func sampleClearance(spec Spec, age float64, src exprand.Source) (float64, error) {
	if spec.CreatinineClearance.Type != "" {
		v, err := sampleField(spec.CreatinineClearance, src)
		if err != nil {
			return 0, err
		}
		return math.Max(0, v), nil
	}
	base := normalRenalFunction * (1 - (age-20)/100)
	noise := distuv.Normal{Mu: base, Sigma: 20, Src: src}
	return math.Max(20, noise.Rand()), nil
}

// sampleComorbidities assigns up to two tags with probability increasing in
// age past 40.
func sampleComorbidities(pool []string, age float64, rng *exprand.Rand) []string {
	if len(pool) == 0 || age <= 40 {
		return nil
	}
	prob := math.Min(1, (age-40)/50)
	if rng.Float64() >= prob {
		return nil
	}
	count := 1 + rng.Intn(2)
	if count > len(pool) {
		count = len(pool)
	}
	perm := rng.Perm(len(pool))
	tags := make([]string, 0, count)
	for _, idx := range perm[:count] {
		tags = append(tags, pool[idx])
	}
	return tags
}
