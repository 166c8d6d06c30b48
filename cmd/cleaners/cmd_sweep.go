package main

import (
	"encoding/json"
	"fmt"
	"runtime"
	"time"

	"robot-cleaners/internal/sweep"

	"github.com/spf13/cobra"
)

func newSweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run a grid of scenarios in parallel and rank them",
		Example: `  cleaners sweep --sweep-cleaners 5,10,20 --sweep-trash 10,20,40 --seeds 1,2,3
  cleaners sweep --width 50 --height 50 --max-ticks 5000 --top 10`,
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := scenarioFromFlags(cmd)
			if err != nil {
				return err
			}
			f := cmd.Flags()
			counts, _ := f.GetIntSlice("sweep-cleaners")
			densities, _ := f.GetFloat64Slice("sweep-trash")
			seeds, _ := f.GetInt64Slice("seeds")
			maxTicks, _ := f.GetInt("max-ticks")
			workers, _ := f.GetInt("workers")
			top, _ := f.GetInt("top")
			jsonOut, _ := f.GetBool("json")

			plan := sweep.Plan{
				Base:      base,
				Cleaners:  counts,
				Densities: densities,
				Seeds:     seeds,
				MaxTicks:  maxTicks,
				Workers:   workers,
			}
			log := newLogger(cmd, cmd.ErrOrStderr())
			log.Info("sweep started", "scenarios", len(plan.Sets()), "workers", workers, "max_ticks", maxTicks)

			start := time.Now()
			results := sweep.Run(cmd.Context(), plan)
			elapsed := time.Since(start)
			log.Info("sweep finished", "scenarios", len(results), "elapsed", elapsed.Round(time.Millisecond))

			if jsonOut {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(results)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Top %d of %d scenarios (elapsed %s):\n",
				min(top, len(results)), len(results), elapsed.Round(time.Millisecond))
			return sweep.WriteTop(cmd.OutOrStdout(), results, top)
		},
	}
	addScenarioFlags(cmd)
	cmd.Flags().IntSlice("sweep-cleaners", nil, "Cleaner caps to sweep (defaults to --cleaners)")
	cmd.Flags().Float64Slice("sweep-trash", nil, "Trash densities to sweep (defaults to --trash)")
	cmd.Flags().Int64Slice("seeds", nil, "Seeds to sweep (defaults to --seed)")
	cmd.Flags().Int("max-ticks", 2000, "Tick cap per scenario")
	cmd.Flags().Int("workers", runtime.NumCPU(), "Number of worker goroutines")
	cmd.Flags().Int("top", 5, "Number of ranked results to print")
	return cmd
}
