package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"gutenbridge/api"
	"gutenbridge/editor"
	"gutenbridge/settings"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve editor sessions and settings over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func serve(ctx context.Context) error {
	backend, closeBackend, err := settings.OpenBackend(cfg.SettingsBackend, cfg.SettingsPath, logger)
	if err != nil {
		return err
	}
	defer closeBackend()

	store := settings.NewStore(backend, cfg.FeatureFlags())
	manager := editor.NewManager(logger,
		editor.WithContentTimeout(cfg.ContentTimeout),
		editor.WithSingleSiteMode(cfg.SingleSiteMode),
	)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: api.RegisterRoutes(manager, store, logger),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("gutenbridge listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		logger.Info("shutting down")
		if err := manager.Shutdown(shutdownCtx); err != nil {
			logger.Warn("editor sessions did not stop cleanly", zap.Error(err))
		}
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
