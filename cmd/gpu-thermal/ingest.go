package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tyee-ai/gpu-thermal/internal/ingest"
)

func newIngestCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ingest <file>...",
		Short: "Load one or more CSV files into the store",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			repos, err := openRepositories(ctx, a.cfg, a.logger)
			if err != nil {
				return err
			}
			defer repos.close() //nolint:errcheck

			processor := ingest.NewProcessor(repos.events, repos.metadata, a.cfg.Ingest.Workers, a.logger)

			total := 0
			var failed []string
			for _, path := range args {
				n, err := processor.ProcessCSVFile(ctx, path)
				if err != nil {
					a.logger.Error("Failed to ingest file", zap.String("file", path), zap.Error(err))
					failed = append(failed, path)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d records\n", path, n)
				total += n
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Total: %d records from %d file(s)\n", total, len(args)-len(failed))
			if len(failed) > 0 {
				return fmt.Errorf("failed to ingest %d file(s): %v", len(failed), failed)
			}
			return nil
		},
	}
}

func newIngestDirCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ingest-dir <dir>",
		Short: "Load every *.csv file in a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			repos, err := openRepositories(ctx, a.cfg, a.logger)
			if err != nil {
				return err
			}
			defer repos.close() //nolint:errcheck

			processor := ingest.NewProcessor(repos.events, repos.metadata, a.cfg.Ingest.Workers, a.logger)

			results, err := processor.ProcessDirectory(ctx, args[0])
			if err != nil {
				return err
			}

			names := make([]string, 0, len(results))
			for name := range results {
				names = append(names, name)
			}
			sort.Strings(names)

			total := 0
			for _, name := range names {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d records\n", name, results[name])
				total += results[name]
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Total: %d records from %d file(s)\n", total, len(results))
			return nil
		},
	}
}
