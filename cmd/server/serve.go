package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"domainverse/internal/auth"
	"domainverse/internal/config"
	"domainverse/internal/handler"
	"domainverse/internal/hub"
	"domainverse/internal/logger"
	"domainverse/internal/metrics"
	"domainverse/internal/service"
)

// setupServer starts the webserver in the background. A listen failure is
// sent on the returned channel; the stop function shuts the server down.
func setupServer(ctx context.Context, cfg *config.Config, router http.Handler) (<-chan error, func(ctx context.Context)) {
	server := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
	}

	listenErr := make(chan error, 1)
	go func() {
		logger.Info(ctx, "starting webserver...", zap.String("addr", cfg.HTTP.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(ctx, "could not start webserver", zap.Error(err))
			listenErr <- fmt.Errorf("listen on %s: %w", cfg.HTTP.Addr, err)
		}
	}()

	return listenErr, func(ctx context.Context) {
		logger.Info(ctx, "stopping webserver...")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error(ctx, "could not stop webserver", zap.Error(err))
		}
	}
}

// forwardEvents relays service events to the SSE hub until ctx is done
func forwardEvents(ctx context.Context, bus *service.EventBus, sseHub *hub.Hub) {
	events := make(chan service.Event, 100)
	bus.Subscribe(events)

	go func() {
		defer bus.Unsubscribe(events)
		for {
			select {
			case <-ctx.Done():
				return
			case event := <-events:
				sseHub.Broadcast(string(event.Type), event.Payload)
			}
		}
	}()
}

func serveCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Starts the HTTP API and event stream",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			logger.Info(ctx, "starting domainverse", zap.String("config", cfg.Summary()))

			reg := metrics.DefaultRegistry()
			bus := service.NewEventBus()

			domains, closeDomains, err := openDomains(ctx, cfg, bus, reg)
			if err != nil {
				return err
			}
			defer closeDomains()

			sseHub := hub.New(reg)
			go sseHub.Run(ctx)
			forwardEvents(ctx, bus, sseHub)

			var tokens *auth.TokenManager
			if cfg.EditsProtected() {
				if tokens, err = auth.NewTokenManager(cfg.Auth.Secret, cfg.Auth.TokenTTL); err != nil {
					return err
				}
			} else {
				logger.Warn(ctx, "auth.secret is empty, edit endpoints are open")
			}

			router := handler.NewRouter(handler.RouterConfig{
				Domains:     domains,
				Scenes:      service.NewSceneService(domains),
				Events:      sseHub,
				Metrics:     reg,
				MetricsPath: cfg.HTTP.MetricsPath,
				Tokens:      tokens,
			})

			listenErr, stopWebserver := setupServer(ctx, cfg, router)

			// wait for interrupt or a listen failure
			select {
			case err := <-listenErr:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GracefulShutdownTimeout)
			defer cancel()

			stopWebserver(shutdownCtx)
			return nil
		},
	}

	return cmd
}
