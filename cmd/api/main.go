package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"resumaker/internal/ai"
	"resumaker/internal/api"
	"resumaker/internal/auth"
	"resumaker/internal/config"
	"resumaker/internal/database"
	"resumaker/internal/editor"
	"resumaker/internal/storage"
	"resumaker/internal/store"
)

func main() {
	cfg := config.MustLoad()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	log.Printf("api bootstrapped with db host=%s port=%d db=%s sslmode=%s",
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.Name,
		cfg.Database.SSLMode,
	)

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr()})
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
	log.Printf("store ready, backend=%s", cfg.Storage.Backend)

	authService, err := auth.NewAuthService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		log.Fatalf("init auth service: %v", err)
	}

	storageClient, err := storage.NewClient(cfg.MinIO)
	if err != nil {
		log.Fatalf("init storage client: %v", err)
	}
	log.Printf("storage client ready, bucket=%s", cfg.MinIO.Bucket)

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.Redis.Addr()})
	defer func() {
		if err := asynqClient.Close(); err != nil {
			logger.Error("close asynq client failed", slog.Any("error", err))
		}
	}()

	var enhancer ai.Enhancer
	if cfg.GenAI.APIKey != "" {
		gemini, err := ai.NewGeminiEnhancer(context.Background(), cfg.GenAI.APIKey, cfg.GenAI.ImageModel, cfg.GenAI.SummaryModel)
		if err != nil {
			log.Fatalf("init gemini enhancer: %v", err)
		}
		enhancer = gemini
		log.Printf("gemini enhancer ready, image_model=%s summary_model=%s", cfg.GenAI.ImageModel, cfg.GenAI.SummaryModel)
	} else {
		log.Printf("GEMINI_API_KEY not set, ai enhancement disabled")
	}

	session := editor.NewSession(st, enhancer, logger)
	// AI 落定后通过与导出相同的通知通道推给前端。
	session.SetAIResultHook(func(res editor.AIResult) {
		publishAIResult(st, redisClient, logger, res)
	})

	address := fmt.Sprintf(":%d", cfg.API.Port)
	log.Printf("api listening on %s", address)

	router := api.NewRouter(logger)
	api.RegisterRoutes(router, cfg, st, session, asynqClient, authService, redisClient, logger, storageClient)

	if err := router.Run(address); err != nil {
		log.Fatalf("failed to start api server: %v", err)
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

func publishAIResult(st *store.Store, redisClient *redis.Client, logger *slog.Logger, res editor.AIResult) {
	ctx := context.Background()

	user, err := st.LoadUser(ctx)
	if err != nil || user == nil {
		logger.Warn("skip ai result notification, no user snapshot", slog.Any("error", err))
		return
	}

	payload := fmt.Sprintf(
		`{"status":"ai_result","action":%q,"resume_id":%q,"applied":%t}`,
		res.Action, res.ResumeID, res.Applied,
	)
	channel := "user_notify:" + user.ID
	if err := redisClient.Publish(ctx, channel, payload).Err(); err != nil {
		logger.Warn("publish ai result failed", slog.Any("error", err))
	}
}
