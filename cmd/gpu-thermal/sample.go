package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tyee-ai/gpu-thermal/internal/ingest"
)

const defaultSamplePath = "sample_gpu_data.csv"

func newSampleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sample [path]",
		Short: "Write a small sample CSV file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := defaultSamplePath
			if len(args) == 1 {
				path = args[0]
			}

			if err := ingest.WriteSampleCSV(path); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Sample data written to %s\n", path)
			return nil
		},
	}
}
