package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"shopchat-ai/internal/config"
	"shopchat-ai/internal/db"
	"shopchat-ai/internal/email"
	apihttp "shopchat-ai/internal/http"
	"shopchat-ai/internal/llm"
	"shopchat-ai/internal/repository"
	"shopchat-ai/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	storeRepo := repository.NewPgStoreRepository(pool)
	sessionRepo := repository.NewPgSessionRepository(pool)
	messageRepo := repository.NewPgMessageRepository(pool)
	faqRepo := repository.NewPgFAQRepository(pool)
	automationRepo := repository.NewPgAutomationRepository(pool)
	analyticsRepo := repository.NewPgAnalyticsRepository(pool)
	settingsRepo := repository.NewPgSettingsRepository(pool)
	subscriptionRepo := repository.NewPgSubscriptionRepository(pool)

	registry := llm.NewRegistry()
	registry.Register("openai", func(_ context.Context, model string) (llm.Responder, error) {
		return llm.NewHTTPClient(cfg.AIBaseURL, cfg.AIAPIKey, model, cfg.AIEmbeddingModel, zap.NewStdLog(logger)), nil
	})
	registry.Register("gemini", func(ctx context.Context, model string) (llm.Responder, error) {
		return llm.NewGeminiClient(ctx, cfg.AIAPIKey, model, cfg.AIEmbeddingModel)
	})

	responder, err := registry.Get(ctx, cfg.AIProvider, cfg.AIModel)
	if err != nil {
		logger.Fatal("ai provider init", zap.Error(err))
	}
	var embedder llm.Embedder
	if e, ok := responder.(llm.Embedder); ok {
		embedder = e
	}

	emailSender := email.NewDisabledSender("email sender not configured")
	if cfg.SMTPHost != "" {
		sender, err := email.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.SMTPFromName, cfg.SMTPUseTLS)
		if err != nil {
			logger.Warn("smtp sender init failed", zap.Error(err))
		} else {
			emailSender = sender
		}
	}

	var (
		quotaLimiter service.ChatQuotaLimiter
		tokenStore   service.RefreshTokenStore
		redisClient  *redis.Client
	)
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			quotaLimiter = service.NewRedisChatQuotaLimiter(redisClient)
			tokenStore = service.NewRedisRefreshTokenStore(redisClient)
		}
		cancel()
	}

	jwtSvc := service.NewJWTServiceWithStore(
		cfg.JWTSecret,
		time.Duration(cfg.JWTAccessTTLMinutes)*time.Minute,
		time.Duration(cfg.JWTRefreshTTLMinutes)*time.Minute,
		tokenStore,
	)
	if cfg.JWTSecret == "" {
		logger.Warn("jwt secret not configured")
	}
	if cfg.ShopifyAPISecret == "" {
		logger.Warn("webhook secret not configured")
	}

	storeDir := service.NewStoreDirectory(storeRepo)
	sessionResolver := service.NewSessionResolver(sessionRepo)
	ledger := service.NewMessageLedger(messageRepo)
	chatSvc := service.NewChatService(
		logger,
		storeDir,
		sessionResolver,
		ledger,
		faqRepo,
		automationRepo,
		analyticsRepo,
		responder,
		embedder,
		quotaLimiter,
		time.Duration(cfg.AITimeoutSeconds)*time.Second,
	)
	lifecycleSvc := service.NewLifecycleService(
		logger,
		storeRepo,
		sessionRepo,
		messageRepo,
		faqRepo,
		analyticsRepo,
		automationRepo,
		settingsRepo,
		subscriptionRepo,
		emailSender,
	)

	chatHandler := apihttp.NewChatHandler(logger, chatSvc)
	webhookHandler := apihttp.NewWebhookHandler(logger, lifecycleSvc)
	adminHandler := apihttp.NewAdminHandler(
		logger,
		storeRepo,
		sessionRepo,
		messageRepo,
		faqRepo,
		automationRepo,
		settingsRepo,
		subscriptionRepo,
		jwtSvc,
		embedder,
	)
	router := apihttp.NewRouter(logger, cfg.ShopifyAPISecret, chatHandler, webhookHandler, adminHandler, jwtSvc)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
