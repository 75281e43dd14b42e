package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/shantanuraj/roulette/internal/api"
	"github.com/shantanuraj/roulette/internal/auth"
	"github.com/shantanuraj/roulette/internal/config"
	"github.com/shantanuraj/roulette/internal/imagemap"
	"github.com/shantanuraj/roulette/internal/metrics"
	"github.com/shantanuraj/roulette/internal/refresh"
	"github.com/shantanuraj/roulette/internal/source"
	"github.com/shantanuraj/roulette/internal/store"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file; environment variables alone are enough when empty")
	flag.Parse()

	var level slog.LevelVar
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: &level}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	level.Set(cfg.Log.SlogLevel())

	slog.Info("config loaded",
		"port", cfg.Server.Port,
		"map_path", cfg.ImageMap.Path,
		"watch", cfg.ImageMap.Watch,
		"sync_url", cfg.Sync.URL,
		"sync_interval", cfg.Sync.Interval,
	)

	// A map that does not parse at startup leaves nothing safe to serve.
	raw, err := source.Load(cfg.ImageMap.Path)
	if err != nil {
		slog.Error("failed to read image map", "err", err)
		os.Exit(1)
	}
	initial, err := imagemap.Parse(raw)
	if err != nil {
		slog.Error("invalid image map", "path", cfg.ImageMap.Path, "err", err)
		os.Exit(1)
	}
	st := store.New(initial)
	slog.Info("loaded image map", "images", st.Len())

	var m *metrics.Metrics
	var metricsHandler http.Handler
	if cfg.Metrics.Enabled {
		m = metrics.New()
		m.TrackImageMap(st.Len, st.UpdatedAt)
		metricsHandler = auth.APIKey(cfg.Metrics.Auth.EffectiveHeader(), cfg.Metrics.Auth.Key())(m.Handler())
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, st, m, metricsHandler); err != nil {
		slog.Error("roulette stopped", "err", err)
		os.Exit(1)
	}
	slog.Info("roulette stopped")
}

// run serves HTTP and keeps the store fresh until ctx is cancelled or the
// listener fails.
func run(ctx context.Context, cfg *config.Config, st *store.Store, m *metrics.Metrics, metricsHandler http.Handler) error {
	srv := &http.Server{
		Addr: fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: api.New(st, api.Options{
			URLPrefix:      cfg.ImageMap.URLPrefix,
			Metrics:        m,
			MetricsHandler: metricsHandler,
		}),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("HTTP server listening", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if cfg.SyncEnabled() {
		fetcher := source.NewHTTPFetcher(cfg.Sync)
		poller := refresh.New(fetcher, st, cfg.Sync.Interval, m)
		slog.Info("starting sync loop", "url", fetcher.URL(), "interval", cfg.Sync.Interval)
		g.Go(func() error {
			poller.Run(gctx)
			return nil
		})
	}

	if cfg.ImageMap.Watch {
		g.Go(func() error {
			err := source.Watch(gctx, cfg.ImageMap.Path, func(raw string) {
				refresh.Apply(st, m, "watch", raw)
			})
			if err != nil {
				// Serving continues without reloads.
				slog.Error("image map watcher stopped", "path", cfg.ImageMap.Path, "err", err)
			}
			return nil
		})
	}

	return g.Wait()
}
