package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/lalith-99/beans/internal/app"
	"github.com/lalith-99/beans/internal/config"
	"github.com/lalith-99/beans/internal/observ"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// env is what every subcommand starts from.
type env struct {
	cfg    *config.Config
	logger *zap.Logger
}

func setup() (*env, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	logger, err := observ.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return &env{cfg: cfg, logger: logger}, nil
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "beans",
		Short:         "Beans workspace collaboration server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
	cmd.AddCommand(newServeCommand(), newClearCommand(), newStatsCommand())
	return cmd
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(parent context.Context) error {
	e, err := setup()
	if err != nil {
		return err
	}
	defer e.logger.Sync()

	if e.cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: e.cfg.SentryDSN, Environment: e.cfg.Env}); err != nil {
			return fmt.Errorf("init sentry: %w", err)
		}
		defer sentry.Flush(2 * time.Second)
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, e.cfg, e.logger)
	if err != nil {
		return err
	}
	defer a.Close()

	if e.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := &http.Server{
		Addr:              ":" + e.cfg.Port,
		Handler:           a.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		e.logger.Info("starting Beans",
			zap.String("port", e.cfg.Port),
			zap.String("env", e.cfg.Env),
			zap.String("backend", e.cfg.StoreBackend),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	e.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func newClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete the stored workspace snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := setup()
			if err != nil {
				return err
			}
			defer e.logger.Sync()

			b, err := app.OpenBackend(cmd.Context(), e.cfg, e.logger)
			if err != nil {
				return err
			}
			defer b.Close()
			if err := b.Repo.Clear(cmd.Context()); err != nil {
				return err
			}
			e.logger.Info("snapshot cleared", zap.String("backend", e.cfg.StoreBackend))
			return nil
		},
	}
}

func newStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print the stored workspace statistics as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := setup()
			if err != nil {
				return err
			}
			defer e.logger.Sync()

			b, err := app.OpenBackend(cmd.Context(), e.cfg, e.logger)
			if err != nil {
				return err
			}
			defer b.Close()
			data, err := b.Repo.Load(cmd.Context())
			if err != nil {
				return err
			}

			out := map[string]any{"workspaceStats": nil}
			if data != nil {
				out["workspaceStats"] = data.WorkspaceStats
				out["users"] = len(data.Users)
				out["removedUsers"] = len(data.RemovedUsers)
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
}
