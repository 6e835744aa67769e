package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API and the reminder loop",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd, false)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a.Log.Info("starting maiopinion", "addr", a.Cfg.HTTPAddr, "store", a.Cfg.StoreDriver)
			return a.Serve(ctx)
		},
	}
}
