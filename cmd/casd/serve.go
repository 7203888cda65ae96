package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goCAS "github.com/MrEthical07/goCAS"
	"github.com/MrEthical07/goCAS/directory"
	"github.com/MrEthical07/goCAS/gateway"
	promexport "github.com/MrEthical07/goCAS/metrics/export/prometheus"
	"github.com/MrEthical07/goCAS/password"
	"github.com/MrEthical07/goCAS/store"
	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	var (
		cfgFile string
		addr    string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP ticket broker",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(cfgFile)
			if err != nil {
				return err
			}
			if addr != "" {
				s.HTTP.Addr = addr
			}

			logger, err := newLogger(os.Stderr, s.Log.Level, s.Log.Format)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, s, logger)
		},
	}

	cmd.Flags().StringVar(&cfgFile, "config", "", "config file (default casd.yaml)")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides http.addr")

	return cmd
}

// app bundles everything serve starts so it can be torn down in one place.
type app struct {
	authority *goCAS.Authority
	handler   http.Handler
	closers   []func() error
}

func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// buildApp wires redis, the user directory, the Authority and the gateway.
func buildApp(ctx context.Context, s settings, logger *slog.Logger) (*app, error) {
	authCfg, err := s.authorityConfig()
	if err != nil {
		return nil, fmt.Errorf("authority config: %w", err)
	}
	gwCfg, err := s.gatewayConfig()
	if err != nil {
		return nil, fmt.Errorf("gateway config: %w", err)
	}

	a := &app{}

	client, err := openRedis(ctx, s.Redis, logger)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, client.close)

	users, err := openDirectory(s.Directory, logger)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	for _, w := range authCfg.Lint() {
		logger.Warn("config lint", "code", w.Code, "severity", w.Severity.String(), "message", w.Message)
	}

	authority, err := goCAS.New().
		WithConfig(authCfg).
		WithRedis(client.rdb).
		WithAuthenticator(users).
		WithLogger(logger).
		Build()
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("build authority: %w", err)
	}
	a.authority = authority

	h, err := gateway.NewHandler(authority, gwCfg, logger)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	opts := gateway.RouterOptions{Logger: logger}
	if s.Metrics.Enabled {
		opts.Metrics = promexport.Handler(authority)
	}
	a.handler = gateway.NewRouter(h, opts)

	return a, nil
}

func serve(ctx context.Context, s settings, logger *slog.Logger) error {
	gin.SetMode(gin.ReleaseMode)

	a, err := buildApp(ctx, s, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Warn("shutdown cleanup failed", "error", err)
		}
	}()

	server := &http.Server{
		Addr:              s.HTTP.Addr,
		Handler:           a.handler,
		ReadTimeout:       s.HTTP.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      s.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("casd listening", "addr", s.HTTP.Addr, "version", version)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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

	logger.Info("casd shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

type redisHandle struct {
	rdb   redis.UniversalClient
	close func() error
}

func openRedis(ctx context.Context, s redisSettings, logger *slog.Logger) (redisHandle, error) {
	if s.Memory {
		mr, err := miniredis.Run()
		if err != nil {
			return redisHandle{}, fmt.Errorf("start embedded redis: %w", err)
		}
		rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		logger.Warn("using embedded in-memory redis; sessions are lost on exit", "addr", mr.Addr())

		return redisHandle{
			rdb: rdb,
			close: func() error {
				err := rdb.Close()
				mr.Close()
				return err
			},
		}, nil
	}

	rdb, err := store.NewRedisClient(ctx, store.ClientOptions{URL: s.URL})
	if err != nil {
		return redisHandle{}, err
	}
	return redisHandle{rdb: rdb, close: rdb.Close}, nil
}

func openDirectory(s directorySettings, logger *slog.Logger) (*directory.Static, error) {
	if s.File == "" {
		logger.Warn("directory.file not set; using demo users admin1 and admin2")
		return directory.Demo()
	}

	hasher, err := password.NewArgon2(password.DefaultConfig())
	if err != nil {
		return nil, err
	}
	users, err := directory.LoadFile(s.File, hasher)
	if err != nil {
		return nil, fmt.Errorf("load directory: %w", err)
	}
	logger.Info("directory loaded", "file", s.File, "users", users.Len())
	return users, nil
}
