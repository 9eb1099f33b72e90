package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ErlanBelekov/bookshelf/config"
	"github.com/ErlanBelekov/bookshelf/internal/apiclient"
	"github.com/ErlanBelekov/bookshelf/internal/health"
	ctxlog "github.com/ErlanBelekov/bookshelf/internal/log"
	"github.com/ErlanBelekov/bookshelf/internal/metrics"
	"github.com/ErlanBelekov/bookshelf/internal/session"
	"github.com/ErlanBelekov/bookshelf/internal/tokenstore"
	httptransport "github.com/ErlanBelekov/bookshelf/internal/transport/http"
	"github.com/ErlanBelekov/bookshelf/internal/view"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := ctxlog.New(os.Stdout, cfg.Env, cfg.SlogLevel())

	if cfg.Env != "local" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The base client holds no token; every session gets its own copy.
	client := apiclient.New(cfg.APIBaseURL, tokenstore.NewMemoryStore(), cfg.APITimeout(), logger)
	deps := map[string]health.Pinger{"api": client}

	newTokens := session.MemoryTokens
	if cfg.SessionBackend == "redis" {
		var rdb *redis.Client
		rdb, err = tokenstore.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer func() { _ = rdb.Close() }()
		logger.Info("redis connected", "addr", cfg.RedisAddr)

		newTokens = session.RedisTokens(rdb, cfg.SessionIdle())
		deps["redis"] = health.PingerFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
	}

	metrics.Register()
	checker := health.NewChecker(deps, logger, prometheus.DefaultRegisterer)

	sessions := session.NewManager(client, newTokens, cfg.SessionIdle(), logger)
	sweeper, err := session.NewSweeper(sessions, cfg.SessionSweepSchedule, logger)
	if err != nil {
		log.Fatalf("sweeper: %v", err)
	}

	renderer, err := view.New()
	if err != nil {
		log.Fatalf("templates: %v", err)
	}

	srv := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: httptransport.NewRouter(logger, httptransport.Options{
			Renderer:       renderer,
			Sessions:       sessions,
			SecureCookies:  cfg.CookieSecure,
			SessionMaxAge:  cfg.SessionIdle(),
			MaxUploadBytes: cfg.MaxUploadBytes(),
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}
	metricsSrv := metrics.NewServer(":"+cfg.MetricsPort, checker)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server started", "port", cfg.Port, "api", cfg.APIBaseURL, "sessions", cfg.SessionBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		logger.Info("metrics server started", "port", cfg.MetricsPort)
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		sweeper.Start(gctx)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("server shutdown", "error", err)
		}
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			logger.Error("metrics server shutdown", "error", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("server", "error", err)
		os.Exit(1)
	}
}
