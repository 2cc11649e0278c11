package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tyee-ai/gpu-thermal/internal/config"
	"github.com/tyee-ai/gpu-thermal/internal/logger"
)

// app carries what every subcommand needs once the root pre-run has loaded it
type app struct {
	configFile string
	cfg        *config.Config
	logger     *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:           "gpu-thermal",
		Short:         "GPU thermal event ingestion and reporting",
		Long:          "Ingests GPU thermal incident CSV files into PostgreSQL/TimescaleDB and serves filtered queries, summaries and time series over HTTP.",
		SilenceUsage:  true,
		SilenceErrors: true,

		// Runs before this command and any subcommands
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&a.configFile, "config", "", "Path to a YAML config file (default ./config.yaml when present)")
	cmd.CompletionOptions.HiddenDefaultCmd = true

	cmd.AddCommand(
		newServeCmd(a),
		newIngestCmd(a),
		newIngestDirCmd(a),
		newValidateCmd(a),
		newSampleCmd(a),
		newDBCmd(a),
		newUploadCmd(a),
	)

	return cmd
}

func (a *app) load() error {
	cfg, err := config.Load(a.configFile)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logger.New(cfg)
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = log
	return nil
}
