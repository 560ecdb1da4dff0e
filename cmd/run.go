package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pkpd-sim/pkpd-sim/sim"
)

var (
	// CLI flags for a single simulation run
	scenarioPath string  // YAML scenario file (flags below override it)
	doseMg       float64 // Dose amount in mg
	intervalH    float64 // Dosing interval in hours
	horizonH     float64 // Simulation horizon in hours
	dtH          float64 // Integration/output step in hours
	method       string  // Integration method (euler, rk45)
	outputPath   string  // Trajectory destination ("-" = stdout)
	outputFormat string  // csv or jsonl
	compliance   bool    // Model imperfect adherence (skipped doses)
	seed         int64   // Seed for the compliance stream
)

// runCmd executes one simulation and writes the trajectory table
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one treatment simulation and write its trajectory",
	Run: func(cmd *cobra.Command, args []string) {
		scenario := DefaultScenario()
		if scenarioPath != "" {
			loaded, err := LoadScenario(scenarioPath)
			if err != nil {
				logrus.Fatalf("Unable to load scenario: %v", err)
			}
			scenario = loaded
		}
		if cmd.Flags().Changed("dose") {
			scenario.Regimen.DoseMg = doseMg
		}
		if cmd.Flags().Changed("interval") {
			scenario.Regimen.IntervalHours = intervalH
		}
		if cmd.Flags().Changed("horizon") {
			scenario.Simulation.HorizonHours = horizonH
		}
		if cmd.Flags().Changed("dt") {
			scenario.Simulation.Dt = dtH
		}
		if cmd.Flags().Changed("method") {
			scenario.Simulation.Method = method
		}

		cfg := scenario.ToConfig()
		patient := scenario.Patient.ToPatient()
		drug := scenario.Drug.ToDrug()
		schedule := sim.RegularSchedule(scenario.Regimen.DoseMg, scenario.Regimen.IntervalHours, cfg.HorizonHours)

		if compliance || scenario.Compliance.Enabled {
			model := sim.DefaultComplianceModel()
			if scenario.Compliance.BaseAdherence > 0 {
				model.BaseAdherence = scenario.Compliance.BaseAdherence
			}
			rng := sim.NewPartitionedRNG(sim.NewSimulationKey(seed))
			schedule = schedule.ApplyCompliance(patient, model, rng.ForSubsystem(sim.SubsystemCompliance))
			logrus.Infof("Compliance modeling on: %d of %d doses taken",
				countTaken(schedule), len(schedule))
		}

		logrus.Infof("Starting simulation: drug=%s dose=%gmg q%gh horizon=%gh dt=%gh method=%s",
			drug.Name, scenario.Regimen.DoseMg, scenario.Regimen.IntervalHours,
			cfg.HorizonHours, cfg.Dt, cfg.Method)

		traj, err := sim.Simulate(patient, drug, schedule, cfg)
		if err != nil {
			// A numerical anomaly still produced a partial trajectory worth
			// writing; anything else is fatal.
			if traj == nil || len(traj.Points) == 0 {
				logrus.Fatalf("simulation failed: %v", err)
			}
			logrus.Errorf("simulation aborted: %v (writing partial trajectory)", err)
		}

		if err := writeTrajectory(traj, outputPath, outputFormat); err != nil {
			logrus.Fatalf("Unable to write trajectory: %v", err)
		}

		if out, evalErr := sim.Evaluate(traj, scenario.ToThresholds()); evalErr == nil {
			fmt.Fprintf(os.Stderr, "success=%t final_total=%.3e resistance_fraction=%.4f peak_concentration=%.3f mg/L\n",
				out.Success, out.FinalTotal, out.FinalResistanceFraction, out.PeakConcentration)
		}
	},
}

func countTaken(s sim.DoseSchedule) int {
	n := 0
	for _, d := range s {
		if d.Amount > 0 {
			n++
		}
	}
	return n
}

func writeTrajectory(traj *sim.Trajectory, path, format string) (err error) {
	var w io.Writer = os.Stdout
	if path != "" && path != "-" {
		f, cerr := os.Create(path)
		if cerr != nil {
			return cerr
		}
		// A failed close can mean lost rows on a full disk; report it when
		// the write itself succeeded.
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
		w = f
	}
	switch format {
	case "jsonl":
		return traj.WriteJSONL(w)
	case "csv":
		return traj.WriteCSV(w)
	default:
		return fmt.Errorf("unknown output format %q; valid: csv, jsonl", format)
	}
}

func init() {
	runCmd.Flags().StringVar(&scenarioPath, "scenario", "", "YAML scenario file (defaults to the built-in reference case)")
	runCmd.Flags().Float64Var(&doseMg, "dose", 500, "Dose amount in mg")
	runCmd.Flags().Float64Var(&intervalH, "interval", 12, "Dosing interval in hours")
	runCmd.Flags().Float64Var(&horizonH, "horizon", 168, "Simulation horizon in hours")
	runCmd.Flags().Float64Var(&dtH, "dt", 0.1, "Output grid / Euler step in hours")
	runCmd.Flags().StringVar(&method, "method", "euler", "Integration method (euler, rk45)")
	runCmd.Flags().StringVarP(&outputPath, "output", "o", "-", "Trajectory file path (- = stdout)")
	runCmd.Flags().StringVar(&outputFormat, "format", "csv", "Trajectory format (csv, jsonl)")
	runCmd.Flags().BoolVar(&compliance, "compliance", false, "Model imperfect adherence (doses skipped at random)")
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Seed for the compliance stream")
}
