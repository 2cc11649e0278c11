package main

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tyee-ai/gpu-thermal/internal/api"
	"github.com/tyee-ai/gpu-thermal/internal/ingest"
)

func newServeCmd(a *app) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if port > 0 {
				a.cfg.Server.Port = port
			}
			return a.serve(cmd.Context())
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "Listen port (overrides server.port)")
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	gin.SetMode(api.GinMode(a.cfg.Environment))

	repos, err := openRepositories(ctx, a.cfg, a.logger)
	if err != nil {
		return err
	}
	defer repos.close() //nolint:errcheck

	processor := ingest.NewProcessor(repos.events, repos.metadata, a.cfg.Ingest.Workers, a.logger)
	router := api.NewRouter(repos.events, repos.metadata, processor, a.cfg.Ingest, a.logger)
	server := api.NewServer(a.cfg.Server, router, a.logger)

	a.logger.Info("Starting GPU thermal API",
		zap.String("addr", server.Addr()),
		zap.String("environment", a.cfg.Environment),
		zap.String("driver", a.cfg.Database.Driver),
	)

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start()
	}()

	// Wait for shutdown signal or error
	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		a.logger.Info("Shutting down GPU thermal API")
	}

	if err := server.Stop(context.Background()); err != nil {
		a.logger.Error("Server forced to shutdown", zap.Error(err))
		return err
	}

	a.logger.Info("GPU thermal API stopped gracefully")
	return nil
}
