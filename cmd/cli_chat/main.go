package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"shopchat-ai/internal/config"
	"shopchat-ai/internal/db"
	"shopchat-ai/internal/domain"
	"shopchat-ai/internal/llm"
	"shopchat-ai/internal/repository"
	"shopchat-ai/internal/service"
)

// REPL local para probar el flujo de chat completo contra la base de datos,
// sin levantar el servidor HTTP ni el widget.
func main() {
	ctx := context.Background()
	reader := bufio.NewReader(os.Stdin)

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := zap.NewExample()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	storeRepo := repository.NewPgStoreRepository(pool)
	sessionRepo := repository.NewPgSessionRepository(pool)
	messageRepo := repository.NewPgMessageRepository(pool)
	faqRepo := repository.NewPgFAQRepository(pool)
	automationRepo := repository.NewPgAutomationRepository(pool)
	analyticsRepo := repository.NewPgAnalyticsRepository(pool)

	registry := llm.NewRegistry()
	registry.Register("openai", func(_ context.Context, model string) (llm.Responder, error) {
		return llm.NewHTTPClient(cfg.AIBaseURL, cfg.AIAPIKey, model, cfg.AIEmbeddingModel, zap.NewStdLog(logger)), nil
	})
	registry.Register("gemini", func(ctx context.Context, model string) (llm.Responder, error) {
		return llm.NewGeminiClient(ctx, cfg.AIAPIKey, model, cfg.AIEmbeddingModel)
	})
	responder, err := registry.Get(ctx, cfg.AIProvider, cfg.AIModel)
	if err != nil {
		log.Fatal(err)
	}
	var embedder llm.Embedder
	if e, ok := responder.(llm.Embedder); ok {
		embedder = e
	}

	chatSvc := service.NewChatService(
		logger,
		service.NewStoreDirectory(storeRepo),
		service.NewSessionResolver(sessionRepo),
		service.NewMessageLedger(messageRepo),
		faqRepo,
		automationRepo,
		analyticsRepo,
		responder,
		embedder,
		nil,
		time.Duration(cfg.AITimeoutSeconds)*time.Second,
	)

	fmt.Print("shop domain: ")
	shop, err := reader.ReadString('\n')
	if err != nil {
		log.Fatal(err)
	}
	shop = strings.TrimSpace(shop)
	if shop == "" {
		shop = "dev-store.myshopify.com"
	}

	fmt.Println("type a message, or 'exit' to quit")

	var sessionID string
	for {
		fmt.Print("> ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" {
			return
		}

		result, err := chatSvc.HandleMessage(ctx, shop, line, domain.CustomerInfo{}, sessionID)
		if err != nil {
			fmt.Printf("error: %v\n", err)
			continue
		}
		sessionID = result.SessionID

		fmt.Printf("[%s] %s\n", result.Sentiment, result.Reply)
	}
}
