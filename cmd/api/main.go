// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Api is the entry point for the lemmysearch API server.

It crawls federated Lemmy instances, builds a full-text index over their
posts, and serves ranked search over that index via HTTP.

Usage:

	go run cmd/api/main.go [ui_directory]

ui_directory is an optional positional argument naming the bundled
single-page UI's asset directory; it defaults to "./ui". Every other
setting is read from the environment (see internal/platform/config).

Startup Sequence:

 1. Logger: Initialize structured JSON logging (slog).
 2. Config: Load and validate environment variables.
 3. Storage: Establish connections to Postgres and Redis.
 4. Schema: Create every descriptor-driven table, then apply supplementary migrations.
 5. Wiring: Inject dependencies into the crawler, runner, and search engine.
 6. Crawl: Start the background crawl scheduler.
 7. Server: Bind HTTP listener and handle graceful shutdown.

No business logic lives here. This file is strictly for orchestration and wiring.
*/
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

	"github.com/rcmaehl/lemmysearch/internal/api"
	"github.com/rcmaehl/lemmysearch/internal/crawler/crawl"
	"github.com/rcmaehl/lemmysearch/internal/crawler/ingest"
	"github.com/rcmaehl/lemmysearch/internal/crawler/runner"
	"github.com/rcmaehl/lemmysearch/internal/database/schema"
	"github.com/rcmaehl/lemmysearch/internal/database/site"
	"github.com/rcmaehl/lemmysearch/internal/database/store"
	"github.com/rcmaehl/lemmysearch/internal/platform/config"
	"github.com/rcmaehl/lemmysearch/internal/platform/constants"
	"github.com/rcmaehl/lemmysearch/internal/platform/migration"
	pgstore "github.com/rcmaehl/lemmysearch/internal/platform/postgres"
	redisstore "github.com/rcmaehl/lemmysearch/internal/platform/redis"
	"github.com/rcmaehl/lemmysearch/internal/search/engine"
)

func main() {
	if err := run(); err != nil {
		slog.Error("application_startup_failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	// # 1. Logger
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	log := rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("service_initializing")

	// # 2. Configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	// Adjust log level if debug mode is explicitly enabled.
	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", constants.AppName))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	cfg.UIDirectory = "./ui"
	if len(os.Args) > 1 {
		cfg.UIDirectory = os.Args[1]
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("ui_directory", cfg.UIDirectory),
	)

	// Root context for startup. A 30s deadline prevents the app from hanging.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// # 3. PostgreSQL
	dsn := pgstore.BuildDSN(cfg.Postgres.Hostname, cfg.Postgres.Port, cfg.Postgres.User, cfg.Postgres.Password, cfg.Postgres.Database)

	pool, err := pgstore.NewPool(startupCtx, dsn, cfg.Postgres.MaxSize, log)
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer func() {
		log.Info("closing postgres pool")
		pool.Close()
	}()

	// # 4. Redis
	rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer func() {
		log.Info("closing redis client")
		if cerr := rdb.Close(); cerr != nil {
			log.Error("redis_close_failed", slog.Any("error", cerr))
		}
	}()

	// # 5. Schema bootstrap
	// The descriptor path is canonical for table creation; golang-migrate
	// handles only what a column-list descriptor cannot express (the GIN
	// index, supporting extensions).
	db := store.New(pool, log)
	descriptors := []schema.Descriptor{
		schema.Site, schema.Author, schema.Community, schema.Post,
		schema.LemmyID, schema.Word, schema.Search,
	}
	for _, d := range descriptors {
		if err := db.CreateTable(startupCtx, d); err != nil {
			return fmt.Errorf("create table %s: %w", d.TableName(), err)
		}
	}

	if err := migration.RunUp(dsn, cfg.MigrationPath, log); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	// # 6. Health Wiring
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckDatabase: func() error { return pgstore.Ping(context.Background(), pool) },
		CheckCache:    func() error { return redisstore.Ping(context.Background(), rdb) },
	}, log)

	// # 7. Domain Wiring
	sites := site.New(pool)
	ingestor := ingest.New(db)
	backoff := crawl.NewRedisBackoff(rdb)

	backoffTTL, err := time.ParseDuration(cfg.Crawler.Backoff)
	if err != nil {
		log.Warn("crawler_backoff_duration_invalid", slog.String("value", cfg.Crawler.Backoff))
		backoffTTL = constants.DefaultBackoffClearance
	}
	passInterval, err := time.ParseDuration(cfg.Crawler.PassInterval)
	if err != nil {
		return fmt.Errorf("parse CRAWLER_PASS_INTERVAL: %w", err)
	}

	httpClient := &http.Client{Timeout: constants.DefaultFetchTimeout}
	crawler := crawl.New(httpClient, cfg.Crawler.UserAgent, ingestor, sites, backoff, backoffTTL, log)

	crawlRunner := runner.New(runner.Config{
		SeedHost:    cfg.Crawler.SeedInstance,
		Interval:    passInterval,
		MaxParallel: cfg.Crawler.MaxParallel,
	}, crawler.RunPass, sites, log)

	searchEngine := engine.New(pool, rdb, log)

	// # 8. API Assembly
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Version:   api.NewVersionHandler(),
		Search:    api.NewSearchHandler(searchEngine),
		Instances: api.NewInstancesHandler(sites),
		Heartbeat: api.NewHeartbeatHandler(),
		Crawl:     api.NewCrawlHandler(crawlRunner),
	}

	// Create a background context for the whole application lifecycle.
	appCtx, appCancel := context.WithCancel(context.Background())
	defer appCancel()

	crawlRunner.Start(appCtx)

	server := api.NewServer(appCtx, cfg, log, handlers)

	// # 9. Lifecycle Handling
	shutdownErr := make(chan error, 1)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			shutdownErr <- fmt.Errorf("http_server_crash: %w", err)
		}
	}()

	log.Info("lemmysearch_api_running", slog.String("port", cfg.ServerPort))

	// Block until signal or error.
	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-shutdownErr:
		return err
	}

	// Start Graceful Shutdown Sequence.
	appCancel()
	crawlRunner.Stop()

	log.Info("shutting_down_api_server", slog.Duration("timeout", constants.ShutdownTimeout))
	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		return fmt.Errorf("server_shutdown_failed: %w", err)
	}

	log.Info("graceful_shutdown_complete")
	return nil
}
