package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/DiasPedroQA/bookmark-converter/internal/config"
	"github.com/DiasPedroQA/bookmark-converter/internal/convert"
	"github.com/DiasPedroQA/bookmark-converter/internal/httpserver"
	"github.com/DiasPedroQA/bookmark-converter/internal/httpserver/deps"
	"github.com/DiasPedroQA/bookmark-converter/internal/logger"
	"github.com/DiasPedroQA/bookmark-converter/internal/redis"
	"github.com/DiasPedroQA/bookmark-converter/internal/scheduler"
	"github.com/DiasPedroQA/bookmark-converter/internal/stats"
	redisstore "github.com/DiasPedroQA/bookmark-converter/internal/store/redis"
	"github.com/DiasPedroQA/bookmark-converter/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	reporter    *scheduler.StatsReporter
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// The result cache is optional: no Redis address means every request is
	// converted from scratch.
	var redisClient *goredis.Client
	var store *redisstore.Store
	if cfg.RedisAddr != "" {
		loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
		client, err := redis.New(redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			DB:             cfg.RedisDB,
			DialTimeout:    cfg.RedisDialTimeout,
			ReadTimeout:    cfg.RedisReadTimeout,
			WriteTimeout:   cfg.RedisWriteTimeout,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
		}, loggerClient)
		if err != nil {
			loggerClient.Errorf("Failed to connect to Redis: %v", err)
			os.Exit(1)
		}
		redisClient = client
		store = redisstore.NewStore(client)
		loggerClient.Info("result cache enabled")
	} else {
		loggerClient.Info("no Redis address configured, result cache disabled")
	}

	metrics := stats.NewMetrics()
	reporter := scheduler.NewStatsReporter(metrics, loggerClient, cfg.StatsInterval)

	d := deps.Deps{
		Logger:          loggerClient,
		StartTime:       time.Now(),
		Version:         version.Version,
		Commit:          version.Commit,
		BuildDate:       version.BuildDate,
		GoVersion:       version.GoVersion,
		Converter:       convert.New(cfg.MaxDepth),
		Metrics:         metrics,
		Store:           store,
		CacheTTL:        cfg.CacheTTL,
		MaxBodyBytes:    cfg.MaxBodyBytes,
		AllowedHosts:    cfg.AllowedHosts,
		TrustProxy:      cfg.TrustProxy,
		RateLimitBurst:  cfg.RateLimitBurst,
		RateLimitPerMin: cfg.RateLimitPerMin,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
		reporter:    reporter,
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting bookmark-converter v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("bookmark-converter %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.reporter.Start(ctx); err != nil {
		return fmt.Errorf("failed to start stats reporter: %w", err)
	}
	a.logger.Info("stats reporter started",
		logger.Duration("interval", a.cfg.StatsInterval))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	a.reporter.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	a.logger.Info("✅ bookmark-converter stopped cleanly")
	return nil
}
