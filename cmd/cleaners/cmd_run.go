package main

import (
	"encoding/json"
	"fmt"

	"robot-cleaners/internal/sims/cleaners"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

type runResult struct {
	RunID   string           `json:"run_id"`
	Config  cleaners.Config  `json:"config"`
	Summary cleaners.Summary `json:"summary"`
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a simulation headless and print its report",
		Long: `Run steps the world until every piece of trash is gone or the time
budget is spent, then prints the end-of-run statistics.`,
		Example: `  cleaners run --width 40 --height 30 --cleaners 25
  cleaners run --config scenario.yaml --max-ticks 500 --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := scenarioFromFlags(cmd)
			if err != nil {
				return err
			}
			maxTicks, _ := cmd.Flags().GetInt("max-ticks")
			jsonOut, _ := cmd.Flags().GetBool("json")

			runID := uuid.NewString()
			log := newLogger(cmd, cmd.ErrOrStderr()).With("run", runID)
			world, err := cleaners.New(cfg, cleaners.WithLogger(log))
			if err != nil {
				return fmt.Errorf("create world: %w", err)
			}
			for world.Running() {
				if maxTicks > 0 && world.Ticks() >= maxTicks {
					break
				}
				world.Step()
			}
			summary := world.Summary()
			log.Info("run finished", "ticks", summary.Ticks, "reason", string(summary.StopReason),
				"trash_remaining", summary.TrashRemaining)

			if jsonOut {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(runResult{RunID: runID, Config: cfg, Summary: summary})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Run %s\n", runID)
			return summary.Report(cmd.OutOrStdout())
		},
	}
	addScenarioFlags(cmd)
	cmd.Flags().Int("max-ticks", 0, "Stop after this many ticks (0 runs until the world stops)")
	return cmd
}
