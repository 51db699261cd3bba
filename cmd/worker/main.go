package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"resumaker/internal/config"
	"resumaker/internal/database"
	"resumaker/internal/metrics"
	"resumaker/internal/storage"
	"resumaker/internal/store"
	"resumaker/internal/tasks"
	"resumaker/internal/worker"
)

func main() {
	cfg := config.MustLoad()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	redisAddr := cfg.Redis.Addr()
	redisClient := redis.NewClient(&redis.Options{Addr: redisAddr})
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error("close redis client failed", slog.Any("error", err))
		}
	}()

	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("ping redis: %v", err)
	}

	st, err := buildStore(cfg, redisClient)
	if err != nil {
		log.Fatalf("init store: %v", err)
	}
	log.Printf("store ready for worker, backend=%s", cfg.Storage.Backend)

	storageClient, err := storage.NewClient(cfg.MinIO)
	if err != nil {
		log.Fatalf("init storage client: %v", err)
	}
	log.Printf("storage client ready, bucket=%s", cfg.MinIO.Bucket)

	redisOpt := asynq.RedisClientOpt{Addr: redisAddr}
	server := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 10,
	})

	exportHandler := worker.NewPDFExportHandler(st, storageClient, redisClient, logger)

	mux := asynq.NewServeMux()
	mux.Use(metrics.AsynqMetricsMiddleware())
	mux.Handle(tasks.TypePDFExport, exportHandler)

	logger.Info("worker service started", slog.String("redis_addr", redisAddr))
	if err := server.Run(mux); err != nil {
		logger.Error("worker server stopped", slog.Any("error", err))
	}
}

func buildStore(cfg *config.Config, redisClient *redis.Client) (*store.Store, error) {
	if cfg.Storage.Backend == "redis" {
		return store.New(store.NewRedisKV(redisClient)), nil
	}

	db, err := database.InitDatabase(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	kv, err := store.NewGormKV(db)
	if err != nil {
		return nil, fmt.Errorf("init kv storage: %w", err)
	}
	return store.New(kv), nil
}
