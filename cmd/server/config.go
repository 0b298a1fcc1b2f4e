package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"domainverse/internal/config"
	"domainverse/internal/logger"
)

// configCommand groups config file helpers. Its subcommands must work before
// any config exists, so the root config loading is skipped.
func configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manages the domainverse config file",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger.Setup(logger.DevelopmentEnvironment)
			return nil
		},
	}

	cmd.AddCommand(configInitCommand())
	return cmd
}

func configInitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Writes a config file with the default settings",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			force, _ := cmd.Flags().GetBool("force")

			path := config.ConfigFileName
			if len(args) == 1 {
				path = args[0]
			}

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists, use --force to overwrite", path)
			}

			if err := config.DefaultConfig().Save(path); err != nil {
				return fmt.Errorf("could not write config: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), path) //nolint: forbidigo
			return nil
		},
	}

	cmd.Flags().Bool("force", false, "Overwrite an existing file")
	return cmd
}
