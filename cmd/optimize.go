package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pkpd-sim/pkpd-sim/sim/batch"
)

var (
	// CLI flags for regimen search
	optDoses     []float64 // Candidate dose amounts in mg
	optIntervals []float64 // Candidate intervals in hours
	optWorkers   int       // Worker pool size
	optTopK      int       // How many ranked candidates to print
)

// optimizeCmd grid-searches dose × interval for one patient
var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Grid-search dosing regimens for one patient",
	Run: func(cmd *cobra.Command, args []string) {
		scenario := DefaultScenario()
		if scenarioPath != "" {
			loaded, err := LoadScenario(scenarioPath)
			if err != nil {
				logrus.Fatalf("Unable to load scenario: %v", err)
			}
			scenario = loaded
		}

		search := batch.DefaultRegimenSearch()
		if len(optDoses) > 0 {
			search.Doses = optDoses
		}
		if len(optIntervals) > 0 {
			search.Intervals = optIntervals
		}
		search.Thresholds = scenario.ToThresholds()
		search.Workers = optWorkers

		patient := scenario.Patient.ToPatient()
		cfg := scenario.ToConfig()

		logrus.Infof("Searching %d×%d regimen grid over %gh",
			len(search.Doses), len(search.Intervals), cfg.HorizonHours)

		best, ranked, err := search.Optimize(patient, scenario.Drug.ToDrug(), cfg)
		if err != nil {
			logrus.Fatalf("Regimen search failed: %v", err)
		}

		guideline := batch.GuidelineRegimen(patient)
		fmt.Fprintf(os.Stdout, "best: %gmg q%gh score=%.3f success=%t final_total=%.3e resistance_fraction=%.4f\n",
			best.Regimen.DoseMg, best.Regimen.IntervalHours, best.Score,
			best.Outcome.Success, best.Outcome.FinalTotal, best.Outcome.FinalResistanceFraction)
		fmt.Fprintf(os.Stdout, "guideline reference: %.0fmg q%gh\n", guideline.DoseMg, guideline.IntervalHours)

		sort.Slice(ranked, func(i, j int) bool { return ranked[i].Score > ranked[j].Score })
		printed := 0
		for _, rr := range ranked {
			if printed >= optTopK {
				break
			}
			if rr.Regimen == best.Regimen {
				continue
			}
			fmt.Fprintf(os.Stdout, "  %gmg q%gh score=%.3f success=%t\n",
				rr.Regimen.DoseMg, rr.Regimen.IntervalHours, rr.Score, rr.Outcome.Success)
			printed++
		}
	},
}

func init() {
	optimizeCmd.Flags().StringVar(&scenarioPath, "scenario", "", "YAML scenario file for patient/drug settings")
	optimizeCmd.Flags().Float64SliceVar(&optDoses, "doses", nil, "Comma-separated candidate doses in mg (default 100..2000 step 100)")
	optimizeCmd.Flags().Float64SliceVar(&optIntervals, "intervals", nil, "Comma-separated candidate intervals in hours (default 6,8,12,24)")
	optimizeCmd.Flags().IntVar(&optWorkers, "workers", 0, "Worker pool size (0 = all CPUs)")
	optimizeCmd.Flags().IntVar(&optTopK, "top", 5, "Number of runner-up candidates to print")
}
