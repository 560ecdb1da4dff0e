// Package batch executes independent simulation runs concurrently and
// reduces their outcomes. One task per (patient, drug, regimen) triple; tasks
// share no mutable state, so the worker pool needs no synchronization beyond
// work distribution. Cancelling a batch is simply ceasing to submit tasks —
// a single run is short and cheap, so there is no mid-run cancellation.
package batch

import (
	"runtime"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/pkpd-sim/pkpd-sim/sim"
)

// Task is one independent simulation: a patient treated with a drug under a
// dose schedule. Value semantics; a task owns its inputs exclusively.
type Task struct {
	ID         string
	Patient    sim.PatientProfile
	Drug       sim.DrugProperties
	Schedule   sim.DoseSchedule
	Config     sim.SimulationConfig
	Thresholds sim.Thresholds
}

// Result pairs a task with its outcome. Err is non-nil for rejected or
// aborted runs; an aborted run still carries its partial trajectory.
type Result struct {
	TaskID     string
	Outcome    sim.Outcome
	Trajectory *sim.Trajectory
	Err        error
}

// Runner executes tasks across a bounded worker pool.
type Runner struct {
	Workers int // 0 = GOMAXPROCS
}

// Run executes all tasks and returns results in task order. Each result is
// independent of execution interleaving: the engine is deterministic and
// tasks share nothing, so Run with identical tasks reproduces identical
// results regardless of worker count.
func (r Runner) Run(tasks []Task) []Result {
	workers := r.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(tasks) {
		workers = len(tasks)
	}

	results := make([]Result, len(tasks))
	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = runOne(tasks[i])
			}
		}()
	}
	for i := range tasks {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return results
}

func runOne(task Task) Result {
	res := Result{TaskID: task.ID}
	traj, err := sim.Simulate(task.Patient, task.Drug, task.Schedule, task.Config)
	res.Trajectory = traj
	if err != nil {
		// Numerical anomalies keep their partial trajectory; batch callers
		// record the failure and move on.
		logrus.Warnf("batch: task %s failed: %v", task.ID, err)
		res.Err = err
		return res
	}
	out, err := sim.Evaluate(traj, task.Thresholds)
	if err != nil {
		res.Err = err
		return res
	}
	res.Outcome = out
	return res
}
