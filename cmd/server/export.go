package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"domainverse/internal/codec"
	"domainverse/internal/metrics"
	"domainverse/internal/service"
)

func exportCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:       "export <format>",
		Short:     "Writes the domain graph, with journaled edits applied, as JSON or YAML",
		Args:      cobra.ExactArgs(1),
		ValidArgs: codec.Formats(),
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")
			ctx := cmd.Context()

			domains, closeDomains, err := openDomains(ctx, a.cfg, service.NewEventBus(), metrics.NewRegistry())
			if err != nil {
				return err
			}
			defer closeDomains()

			w := cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("could not create output file: %w", err)
				}
				defer f.Close()
				w = f
			}

			return domains.Export(ctx, args[0], w)
		},
	}

	cmd.Flags().StringP("output", "o", "", "Output file (default stdout)")

	return cmd
}
