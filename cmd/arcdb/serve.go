package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/arcdb/arc/engine"
	"github.com/arcdb/arc/internal/applog"
	"github.com/arcdb/arc/internal/config"
	"github.com/arcdb/arc/internal/metrics"
	"github.com/arcdb/arc/server"
)

func newServeCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the arcdb TCP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(*cfg)
		},
	}
}

func runServe(cfg config.Config) error {
	log := applog.New("main")

	db, err := engine.Open(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	go metrics.Serve(cfg.MetricsAddr, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	srv := server.New(db)
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe(ctx, cfg.ListenAddr) }()

	select {
	case <-quit:
		log.Info().Msg("shutting down")
		cancel()
		return nil
	case err := <-errCh:
		return err
	}
}
