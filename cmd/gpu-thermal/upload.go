package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tyee-ai/gpu-thermal/internal/client"
)

func newUploadCmd(a *app) *cobra.Command {
	var server string

	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Send a CSV file to a running server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if server == "" {
				server = a.cfg.Client.ServerURL
			}

			c := client.New(server, a.cfg.Server.WriteTimeout, a.logger)

			if _, err := c.Health(cmd.Context()); err != nil {
				return err
			}

			result, err := c.UploadCSV(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", result.Message, result.Filename)
			return nil
		},
	}

	cmd.Flags().StringVar(&server, "server", "", "Server base URL (overrides client.server_url)")
	return cmd
}
