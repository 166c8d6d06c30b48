package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"

	"robot-cleaners/internal/sims/cleaners"
	"robot-cleaners/internal/tui"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
)

func newTUICmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Watch a simulation in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := scenarioFromFlags(cmd)
			if err != nil {
				return err
			}
			tps, _ := cmd.Flags().GetInt("tps")
			paused, _ := cmd.Flags().GetBool("paused")
			withSound, _ := cmd.Flags().GetBool("sound")
			logPath, _ := cmd.Flags().GetString("log-file")

			// The screen owns the terminal, so logs only go to a file.
			logOut := io.Discard
			if logPath != "" {
				f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
				if err != nil {
					return fmt.Errorf("open log file: %w", err)
				}
				defer f.Close()
				logOut = f
			}
			log := newLogger(cmd, logOut)

			world, err := cleaners.New(cfg, cleaners.WithLogger(log))
			if err != nil {
				return fmt.Errorf("create world: %w", err)
			}

			opts := tui.Options{TPS: tps, Paused: paused, Logger: log}
			if withSound {
				beeper, err := tui.NewBeeper()
				if err != nil {
					// Non-fatal, the viewer runs silently.
					log.Warn("audio initialization failed", "err", err)
				} else {
					defer beeper.Close()
					opts.Sound = beeper
				}
			}

			screen, err := tcell.NewScreen()
			if err != nil {
				return fmt.Errorf("create screen: %w", err)
			}
			if err := screen.Init(); err != nil {
				return fmt.Errorf("init screen: %w", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			runErr := tui.New(screen, world, opts).Run(ctx, tui.PollEvents(screen))
			screen.Fini()
			if runErr != nil {
				return runErr
			}
			return world.Summary().Report(cmd.OutOrStdout())
		},
	}
	addScenarioFlags(cmd)
	cmd.Flags().Int("tps", 10, "Simulation ticks per second")
	cmd.Flags().Bool("paused", false, "Start paused")
	cmd.Flags().Bool("sound", false, "Click when trash is collected")
	cmd.Flags().String("log-file", "", "Write logs to this file")
	return cmd
}
