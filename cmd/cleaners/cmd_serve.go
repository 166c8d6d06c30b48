package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"robot-cleaners/internal/server"
	"robot-cleaners/internal/sims/cleaners"

	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a browser view with start, stop, step and reset controls",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := scenarioFromFlags(cmd)
			if err != nil {
				return err
			}
			addr, _ := cmd.Flags().GetString("addr")
			tps, _ := cmd.Flags().GetInt("tps")
			autoStart, _ := cmd.Flags().GetBool("autostart")

			log := newLogger(cmd, cmd.ErrOrStderr())
			world, err := cleaners.New(cfg, cleaners.WithLogger(log))
			if err != nil {
				return fmt.Errorf("create world: %w", err)
			}
			srv := server.New(world, server.Options{TPS: tps, AutoStart: autoStart, Logger: log})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			fmt.Fprintf(cmd.OutOrStdout(), "Serving on %s\n", addr)
			return srv.ListenAndServe(ctx, addr)
		},
	}
	addScenarioFlags(cmd)
	cmd.Flags().String("addr", server.DefaultAddr, "Listen address")
	cmd.Flags().Int("tps", 10, "Simulation ticks per second")
	cmd.Flags().Bool("autostart", false, "Start stepping without waiting for a client")
	return cmd
}
