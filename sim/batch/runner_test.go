package batch

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pkpd-sim/pkpd-sim/sim"
)

func testPatient() sim.PatientProfile {
	return sim.PatientProfile{Age: 30, Weight: 70, CreatinineClearance: 120, InfectionSeverity: 0.5}
}

func testDrug() sim.DrugProperties {
	return sim.DrugProperties{
		Name:               "cipromycin",
		MICSensitive:       0.5,
		MICResistant:       8.0,
		MPC:                8.0,
		HalfLife:           4.1,
		VolumeDistribution: 2.1,
		ProteinBinding:     0.3,
		Bioavailability:    0.78,
		Emax:               4.0,
		HillCoefficient:    2.2,
	}
}

func shortConfig() sim.SimulationConfig {
	cfg := sim.DefaultSimulationConfig()
	cfg.HorizonHours = 24
	return cfg
}

func makeTasks(n int) []Task {
	tasks := make([]Task, n)
	for i := range tasks {
		tasks[i] = Task{
			ID:         fmt.Sprintf("task-%d", i),
			Patient:    testPatient(),
			Drug:       testDrug(),
			Schedule:   sim.RegularSchedule(float64(100+50*i), 12, 24),
			Config:     shortConfig(),
			Thresholds: sim.DefaultThresholds(),
		}
	}
	return tasks
}

func TestRunner_ResultsInTaskOrder(t *testing.T) {
	results := Runner{Workers: 4}.Run(makeTasks(9))
	assert.Len(t, results, 9)
	for i, r := range results {
		assert.Equal(t, fmt.Sprintf("task-%d", i), r.TaskID)
		assert.NoError(t, r.Err)
		assert.NotNil(t, r.Trajectory)
	}
}

func TestRunner_ReproducibleAcrossWorkerCounts(t *testing.T) {
	serial := Runner{Workers: 1}.Run(makeTasks(6))
	parallel := Runner{Workers: 6}.Run(makeTasks(6))
	for i := range serial {
		assert.Equal(t, serial[i].Outcome, parallel[i].Outcome, "task %d", i)
		assert.Equal(t, serial[i].Trajectory.Points, parallel[i].Trajectory.Points, "task %d", i)
	}
}

func TestRunner_FailedTaskDoesNotCrashBatch(t *testing.T) {
	tasks := makeTasks(3)
	tasks[1].Config.Dt = -1 // invalid parameter: rejected before integrating

	results := Runner{}.Run(tasks)
	assert.NoError(t, results[0].Err)
	assert.Error(t, results[1].Err)
	assert.NoError(t, results[2].Err)
}

func TestSummarize_SplitsCompletedAndFailed(t *testing.T) {
	tasks := makeTasks(4)
	tasks[3].Config.HorizonHours = 0
	results := Runner{}.Run(tasks)

	s := Summarize(results)
	assert.Equal(t, 3, s.Runs)
	assert.Equal(t, 1, s.Failures)
	assert.GreaterOrEqual(t, s.SuccessRate, 0.0)
	assert.LessOrEqual(t, s.SuccessRate, 1.0)
	assert.Greater(t, s.MeanFinalTotal, 0.0)
	assert.GreaterOrEqual(t, s.P90ResistanceFraction, s.MeanResistanceFraction*0.5)
}

func TestSummarize_EmptyResults_ZeroValue(t *testing.T) {
	s := Summarize(nil)
	assert.Zero(t, s.Runs)
	assert.Zero(t, s.SuccessRate)
}
