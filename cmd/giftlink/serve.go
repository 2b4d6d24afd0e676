// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 GiftLink Contributors

package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/giftlink/giftlink/internal/auth"
	"github.com/giftlink/giftlink/internal/config"
	"github.com/giftlink/giftlink/internal/httpapi"
	"github.com/giftlink/giftlink/internal/logging"
	"github.com/giftlink/giftlink/internal/observability"
)

const serviceName = "giftlink"

// ObservabilityServer is the part of *observability.Server serve uses.
type ObservabilityServer interface {
	Start() (<-chan error, error)
	Stop(ctx context.Context) error
	Addr() string
	Metrics() *observability.Metrics
}

// serveDeps holds injectable dependencies for serve. Nil fields get the
// production implementation.
type serveDeps struct {
	// OpenUsers connects the user store. Default: openUserStore.
	OpenUsers func(ctx context.Context, cfg *config.Config) (*userStore, error)

	// ObservabilityServerFactory creates the metrics server.
	// Default: observability.NewServer.
	ObservabilityServerFactory func(addr string, ready observability.ReadinessChecker) ObservabilityServer

	// Listen opens the API listener. Default: net.Listen.
	Listen func(network, addr string) (net.Listener, error)
}

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Serve the /api/auth endpoints. Metrics and health probes are served on
a separate listener when metrics.addr is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, false)
			if err != nil {
				return err
			}
			return runServeWithDeps(cmd.Context(), cfg, cmd, nil)
		},
	}

	d := config.Defaults()
	cmd.Flags().String("http-addr", d["http.addr"].(string), "API listen address")
	cmd.Flags().String("metrics-addr", d["metrics.addr"].(string), "metrics/health listen address (empty = disabled)")
	cmd.Flags().String("log-format", d["log.format"].(string), "log format (json or text)")
	cmd.Flags().String("log-level", d["log.level"].(string), "log level (debug, info, warn, error)")
	cmd.Flags().String("store", d["store.kind"].(string), "user store (postgres, mongo, memory)")
	cmd.Flags().String("database-url", "", "PostgreSQL URL (overrides DATABASE_URL)")
	cmd.Flags().Bool("auto-migrate", false, "apply pending migrations before serving")
	cmd.Flags().String("mongo-url", "", "MongoDB URL (overrides MONGO_URL)")

	return cmd
}

// runServeWithDeps runs the server until ctx ends, a signal arrives or a
// listener fails.
func runServeWithDeps(ctx context.Context, cfg *config.Config, cmd *cobra.Command, deps *serveDeps) error {
	if deps == nil {
		deps = &serveDeps{}
	}
	if deps.OpenUsers == nil {
		deps.OpenUsers = openUserStore
	}
	if deps.ObservabilityServerFactory == nil {
		deps.ObservabilityServerFactory = func(addr string, ready observability.ReadinessChecker) ObservabilityServer {
			return observability.NewServer(addr, ready)
		}
	}
	if deps.Listen == nil {
		deps.Listen = net.Listen
	}

	logger, err := logging.SetDefault(logging.Options{
		Service: serviceName,
		Version: version,
		Format:  cfg.Log.Format,
		Level:   cfg.Log.Level,
		Writer:  cmd.ErrOrStderr(),
	})
	if err != nil {
		return oops.Code("LOGGING_SETUP_FAILED").Wrap(err)
	}

	logger.InfoContext(ctx, "starting giftlink",
		"http_addr", cfg.HTTP.Addr,
		"store", cfg.Store.Kind,
		"password_algorithm", cfg.Password.Algorithm,
	)

	us, err := deps.OpenUsers(ctx, cfg)
	if err != nil {
		return oops.Code("STORE_OPEN_FAILED").With("store", cfg.Store.Kind).Wrap(err)
	}
	defer us.close()

	svc, tokens, err := buildService(cfg, us.users, logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var obsServer ObservabilityServer
	var metrics *observability.Metrics
	if cfg.Metrics.Addr != "" {
		obsServer = deps.ObservabilityServerFactory(cfg.Metrics.Addr, us.ready)
		obsErrCh, err := obsServer.Start()
		if err != nil {
			return oops.Code("OBSERVABILITY_START_FAILED").Wrap(err)
		}
		go monitorServerErrors(ctx, cancel, obsErrCh, "observability")
		metrics = obsServer.Metrics()
		logger.InfoContext(ctx, "observability server started", "addr", obsServer.Addr())
	}

	router := httpapi.NewRouter(svc, tokens, httpapi.Options{
		UpdateRequiresToken: cfg.Auth.UpdateRequiresToken,
		Metrics:             metrics,
		Logger:              logger,
	})

	listener, err := deps.Listen("tcp", cfg.HTTP.Addr)
	if err != nil {
		stopObservability(obsServer, cfg.HTTP.ShutdownTimeout)
		return oops.Code("HTTP_LISTEN_FAILED").With("addr", cfg.HTTP.Addr).Wrap(err)
	}
	httpServer := httpapi.NewServer(cfg.HTTP.Addr, router)

	httpErrCh := make(chan error, 1)
	go func() {
		defer close(httpErrCh)
		if serveErr := httpServer.Serve(listener); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			httpErrCh <- serveErr
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	cmd.Println("GiftLink server started")
	logger.InfoContext(ctx, "giftlink ready", "http_addr", listener.Addr().String())

	var runErr error
	select {
	case sig := <-sigChan:
		logger.Info("received shutdown signal", "signal", sig.String())
	case err := <-httpErrCh:
		runErr = oops.Code("HTTP_SERVE_FAILED").Wrap(err)
	case <-ctx.Done():
		logger.Info("context cancelled, shutting down")
	}

	logger.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout(cfg))
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("error stopping http server", "error", err)
	}
	stopObservability(obsServer, shutdownTimeout(cfg))

	logger.Info("shutdown complete")
	return runErr
}

func buildService(cfg *config.Config, users auth.UserRepository, logger *slog.Logger) (*auth.Service, *auth.JWTIssuer, error) {
	hasher, err := auth.NewPasswordHasher(cfg.Password)
	if err != nil {
		return nil, nil, err //nolint:wrapcheck // coded by auth
	}
	tokens, err := auth.NewJWTIssuer(cfg.Token)
	if err != nil {
		return nil, nil, err //nolint:wrapcheck // coded by auth
	}
	validator, err := auth.NewValidator(cfg.Validation)
	if err != nil {
		return nil, nil, err //nolint:wrapcheck // coded by auth
	}
	svc, err := auth.NewServiceWithLogger(users, hasher, tokens, validator, logger)
	if err != nil {
		return nil, nil, err //nolint:wrapcheck // coded by auth
	}
	return svc, tokens, nil
}

func shutdownTimeout(cfg *config.Config) time.Duration {
	if cfg.HTTP.ShutdownTimeout > 0 {
		return cfg.HTTP.ShutdownTimeout
	}
	return 5 * time.Second
}

func stopObservability(s ObservabilityServer, timeout time.Duration) {
	if s == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := s.Stop(ctx); err != nil {
		slog.Warn("error stopping observability server", "error", err)
	}
}

// monitorServerErrors cancels ctx when errCh reports a failure.
func monitorServerErrors(ctx context.Context, cancel context.CancelFunc, errCh <-chan error, serverName string) {
	select {
	case err, ok := <-errCh:
		if !ok {
			return
		}
		if err != nil {
			slog.Error("server error, triggering shutdown", "server", serverName, "error", err)
			cancel()
		}
	case <-ctx.Done():
	}
}
