package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/wolfman30/leadline/internal/api/router"
	"github.com/wolfman30/leadline/internal/channels/whatsapp"
	appconfig "github.com/wolfman30/leadline/internal/config"
	"github.com/wolfman30/leadline/internal/events"
	"github.com/wolfman30/leadline/internal/http/handlers"
	"github.com/wolfman30/leadline/internal/intent"
	"github.com/wolfman30/leadline/internal/leads"
	"github.com/wolfman30/leadline/internal/llm"
	"github.com/wolfman30/leadline/internal/notify"
	"github.com/wolfman30/leadline/internal/observability/metrics"
	"github.com/wolfman30/leadline/internal/pipeline"
	"github.com/wolfman30/leadline/internal/reply"
	"github.com/wolfman30/leadline/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting leadline API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	registry := prometheus.NewRegistry()
	pipelineMetrics := metrics.NewPipelineMetrics(registry)

	// Completion client: classification and generation degrade to their
	// fixed fallbacks when Gemini is not configured or unreachable.
	var llmClient llm.Client = llm.Unavailable{}
	if cfg.GeminiAPIKey != "" {
		gemini, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModelID)
		if err != nil {
			logger.Error("failed to create gemini client, replies degrade to fallbacks", "error", err)
		} else {
			llmClient = gemini
			defer gemini.Close()
		}
	} else {
		logger.Warn("GEMINI_API_KEY not set, replies degrade to fallbacks")
	}

	sink := buildLeadSink(ctx, cfg, logger)

	waClient := whatsapp.NewClient(cfg.WhatsAppToken, cfg.WhatsAppPhoneNumberID)
	waClient.SetGraphAPIBase(cfg.GraphAPIBase)

	pipelineCfg := pipeline.Config{
		Classifier: intent.NewClassifier(llmClient),
		Generator:  reply.NewGenerator(llmClient),
		Sink:       sink,
		Sender:     waClient,
		Metrics:    pipelineMetrics,
		Logger:     logger,
	}

	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		defer redisClient.Close()
		pipelineCfg.Dedup = events.NewProcessedStore(redisClient, 0)
		logger.Info("webhook dedup enabled", "redis_addr", cfg.RedisAddr)
	}

	emailSender := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, logger)
	if emailSender != nil {
		if notifier := notify.NewHotLeadNotifier(emailSender, cfg.SalesEmail, logger); notifier != nil {
			pipelineCfg.Notifier = notifier
			logger.Info("hot lead escalation email enabled", "sales_email", cfg.SalesEmail)
		}
	}

	orchestrator := pipeline.NewOrchestrator(pipelineCfg)

	webhook := whatsapp.NewWebhookHandler(cfg.VerifyToken, cfg.AppSecret, func(msg whatsapp.ParsedInboundMessage) {
		// The webhook has already been acked; each message gets its own task.
		go orchestrator.Process(context.Background(), pipeline.InboundEvent{
			SenderAddress: msg.SenderAddress,
			RawText:       msg.Text,
			Type:          msg.Type,
			MessageID:     msg.MessageID,
			ReceivedAt:    msg.ReceivedAt,
		})
	}, logger)

	r := router.New(&router.Config{
		Logger:             logger,
		Webhook:            webhook,
		SendMessage:        handlers.NewSendMessageHandler(waClient, logger),
		MetricsHandler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		OperatorJWTSecret:  cfg.AdminJWTSecret,
		RateLimitPerSecond: cfg.RateLimitPerSecond,
		RateLimitBurst:     cfg.RateLimitBurst,
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

// buildLeadSink assembles the primary sheet sink plus the optional Postgres
// mirror. With neither configured, leads stay in memory so the rest of the
// pipeline still works in development.
func buildLeadSink(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) leads.Sink {
	var sinks []leads.Sink

	if cfg.SheetID != "" && cfg.GoogleCredentialsJSON != "" {
		sheetSink, err := leads.NewSheetsSink(ctx, []byte(cfg.GoogleCredentialsJSON), cfg.SheetID, logger)
		if err != nil {
			logger.Error("failed to create sheets sink", "error", err)
		} else {
			sinks = append(sinks, sheetSink)
			logger.Info("lead sink: google sheet", "sheet_id", cfg.SheetID)
		}
	}

	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to create pgx pool", "error", err)
		} else {
			sinks = append(sinks, leads.NewPostgresSink(pool))
			logger.Info("lead sink: postgres mirror")
		}
	}

	if len(sinks) == 0 {
		logger.Warn("no durable lead sink configured, keeping leads in memory")
		return leads.NewMemorySink()
	}
	if len(sinks) == 1 {
		return sinks[0]
	}
	return leads.NewFanoutSink(sinks...)
}
