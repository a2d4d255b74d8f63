package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	contrafeed "contra-feed/agents/contra-feed"
	"contra-feed/shared/scheduler"

	"github.com/spf13/cobra"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var once bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Refresh candidate pools on a schedule and expose health and metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			runCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			agent := contrafeed.NewPoolRefresher(cfg.Sampler.RefreshSizes, func() (contrafeed.PoolBuilder, error) {
				app, err := ctx.ensureApp(runCtx)
				if err != nil {
					return nil, err
				}
				return app.Generator, nil
			}, ctx.logger.Named("refresher"))
			s := scheduler.New(cfg.Schedule, cfg.Monitoring.HealthPort, agent, ctx.logger.Named("scheduler"))

			if once {
				if err := agent.Initialize(); err != nil {
					return err
				}
				return s.RunOnce(runCtx)
			}

			err = s.Start(runCtx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&once, "once", false, "Run a single refresh and exit")
	return cmd
}
