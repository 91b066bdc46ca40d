package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"

	"github.com/brainydx/task-tracker/internal/api"
	"github.com/brainydx/task-tracker/internal/infrastructure/broadcast"
	"github.com/brainydx/task-tracker/internal/infrastructure/config"
	mongodb "github.com/brainydx/task-tracker/internal/infrastructure/db/mongo"
	redisdb "github.com/brainydx/task-tracker/internal/infrastructure/db/redis"
	"github.com/brainydx/task-tracker/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		panic(err)
	}

	log := logger.Init(logger.Options{
		Level:     cfg.LogLevel,
		Pretty:    cfg.Env == "development",
		Filename:  cfg.LogFile,
		MaxSizeMB: cfg.LogMaxSizeMB,
	})

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = client.Disconnect(disconnectCtx)
	}()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("index bootstrap failed")
	}

	hub := broadcast.NewHub(cfg.Broadcast.Buffer, log)

	var rdb *goredis.Client
	if cfg.Broadcast.UseRedis {
		rdb, err = redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			log.Fatal().Err(err).Msg("redis connection failed")
		}
		defer func() { _ = rdb.Close() }()

		bridge := broadcast.NewRedisBridge(rdb, cfg.Broadcast.Channel, hub, log)
		bridge.Start(ctx)
		hub.AttachBridge(bridge)
		log.Info().Str("channel", cfg.Broadcast.Channel).Msg("broadcast bridged over redis")
	}

	e, err := api.NewRouter(db, rdb, hub, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("router setup failed")
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
