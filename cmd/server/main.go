// Package main provides the domainverse CLI. It wires the serve, query,
// export and token subcommands, loads configuration and initializes logging.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"domainverse/internal/catalog"
	"domainverse/internal/config"
	"domainverse/internal/logger"
	"domainverse/internal/metrics"
	"domainverse/internal/repository/sqlite"
	"domainverse/internal/service"
)

// app carries what every subcommand needs once the root command has run
type app struct {
	configPath string
	cfg        *config.Config
}

// loadConfig reads the file named by --config, or searches the default locations
func (a *app) loadConfig(cmd *cobra.Command, _ []string) error {
	var (
		cfg  *config.Config
		path string
		err  error
	)
	if a.configPath != "" {
		cfg, path, err = config.LoadFromPath(a.configPath)
	} else {
		cfg, path, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("could not load config: %w", err)
	}
	a.cfg = cfg

	logger.Setup(cfg.Environment)
	if path != "" {
		logger.Debug(cmd.Context(), "config loaded", zap.String("path", path))
	}
	return nil
}

// openDomains loads the catalog, replays the edit journal when one is
// configured and returns the service with a cleanup function
func openDomains(ctx context.Context, cfg *config.Config, bus *service.EventBus, reg *metrics.Registry) (*service.DomainService, func(), error) {
	graph, err := catalog.Open(ctx, cfg.Catalog.Path)
	if err != nil {
		return nil, nil, err
	}

	opts := service.Options{CacheSize: cfg.Cache.Size, Metrics: reg}
	cleanup := func() {}

	if cfg.Database.Path != "" {
		repo, err := sqlite.New(cfg.Database.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("could not open edit journal: %w", err)
		}
		opts.Journal = repo
		cleanup = func() {
			logger.Info(ctx, "closing edit journal...")
			if err := repo.Close(); err != nil {
				logger.Warn(ctx, "could not close edit journal", zap.Error(err))
			}
		}
	}

	domains, err := service.NewDomainService(graph, bus, opts)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	if opts.Journal != nil {
		result, err := domains.ReplayJournal(ctx)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("could not replay edit journal: %w", err)
		}
		logger.Info(ctx, "edit journal replayed",
			zap.String("path", cfg.Database.Path),
			zap.Int("applied", result.Applied),
			zap.Int("skipped", result.Skipped),
		)
	}

	return domains, cleanup, nil
}

func main() {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:               "domainverse",
		Short:             "Serves and queries the organizational domain graph",
		SilenceUsage:      true,
		PersistentPreRunE: a.loadConfig,
	}
	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Config file path")

	ctx := context.Background()

	defer func() {
		if p := recover(); p != nil {
			logger.Error(ctx, "captured panic, exiting...", zap.Any("panic", p))
			logger.Sync()

			panic(p)
		}
	}()

	rootCmd.AddCommand(
		serveCommand(a),
		queryCommand(a),
		exportCommand(a),
		tokenCommand(a),
		configCommand(),
	)

	err := rootCmd.ExecuteContext(ctx)
	logger.Sync()
	if err != nil {
		os.Exit(1) //nolint: gocritic
	}
}
