package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/viajai/whatsapp-travel-bot/internal/api/router"
	"github.com/viajai/whatsapp-travel-bot/internal/bot"
	"github.com/viajai/whatsapp-travel-bot/internal/channels/whatsapp"
	appconfig "github.com/viajai/whatsapp-travel-bot/internal/config"
	"github.com/viajai/whatsapp-travel-bot/internal/conversation"
	"github.com/viajai/whatsapp-travel-bot/internal/flights"
	"github.com/viajai/whatsapp-travel-bot/internal/observability/metrics"
	"github.com/viajai/whatsapp-travel-bot/internal/speech"
	"github.com/viajai/whatsapp-travel-bot/pkg/logging"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting whatsapp travel bot",
		"env", cfg.Env,
		"port", cfg.Port,
		"conversation_backend", cfg.ConversationBackend,
	)

	ctx := context.Background()

	store := buildStore(ctx, cfg, logger)

	gemini, err := conversation.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		logger.Error("failed to create gemini client", "error", err)
		os.Exit(1)
	}
	defer gemini.Close()
	responder := conversation.NewResponder(store, gemini, logger)

	waClient := whatsapp.NewClient(cfg.WhatsAppAPIURL, cfg.WhatsAppBusinessID, cfg.WhatsAppAccessToken, cfg.OutboundTimeout)

	fareClient := flights.NewClient(cfg.FlightsAPIURL, cfg.FlightsAPIKey, cfg.FlightsCurrency, cfg.FlightsLocale)
	flightSvc := flights.NewService(fareClient, cfg.FlightsPlaceholderFallback, logger)

	var transcriber bot.Transcriber
	if cfg.SpeechAPIKey != "" {
		t, err := speech.New(ctx, cfg.SpeechAPIKey, waClient, logger)
		if err != nil {
			logger.Error("failed to create transcriber", "error", err)
			os.Exit(1)
		}
		transcriber = t
	} else {
		logger.Warn("SPEECH_API_KEY not set, voice notes will get the audio fallback reply")
	}

	botMetrics := metrics.NewBotMetrics(prometheus.DefaultRegisterer)
	botSvc := bot.NewService(bot.Config{
		Classifier:  conversation.NewRegexClassifier(),
		Responder:   responder,
		Flights:     flightSvc,
		Transcriber: transcriber,
		Messenger:   waClient,
		Metrics:     botMetrics,
		Logger:      logger,
		TypingDelay: cfg.TypingDelay,
	})

	webhook := whatsapp.NewWebhookHandler(cfg.WhatsAppVerifyToken, botSvc.Dispatch)

	r := router.New(&router.Config{
		Logger:         logger,
		WebhookHandler: webhook,
		MetricsHandler: promhttp.Handler(),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// buildStore picks the conversation history backend. Anything that fails to
// initialize falls back to exiting; a misconfigured backend should be loud.
func buildStore(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) conversation.Store {
	switch cfg.ConversationBackend {
	case appconfig.BackendRedis:
		opts := &redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		logger.Info("using redis conversation store", "addr", cfg.RedisAddr)
		return conversation.NewRedisStore(redis.NewClient(opts))

	case appconfig.BackendDynamoDB:
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
		if err != nil {
			logger.Error("failed to load AWS config", "error", err)
			os.Exit(1)
		}
		store, err := conversation.NewDynamoStore(dynamodb.NewFromConfig(awsCfg), cfg.ConversationTable)
		if err != nil {
			logger.Error("failed to create dynamodb store", "error", err)
			os.Exit(1)
		}
		logger.Info("using dynamodb conversation store", "table", cfg.ConversationTable)
		return store

	default:
		logger.Info("using in-memory conversation store")
		return conversation.NewMemoryStore()
	}
}
