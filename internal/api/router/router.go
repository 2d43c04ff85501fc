package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wolfman30/leadline/internal/channels/whatsapp"
	"github.com/wolfman30/leadline/internal/http/handlers"
	httpmiddleware "github.com/wolfman30/leadline/internal/http/middleware"
	"github.com/wolfman30/leadline/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger         *logging.Logger
	Webhook        *whatsapp.WebhookHandler
	SendMessage    *handlers.SendMessageHandler
	MetricsHandler http.Handler

	// OperatorJWTSecret guards /send-message when non-empty.
	OperatorJWTSecret string

	RateLimitPerSecond float64
	RateLimitBurst     int
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}
	if cfg.RateLimitPerSecond > 0 {
		r.Use(httpmiddleware.RateLimit(cfg.RateLimitPerSecond, cfg.RateLimitBurst))
	}

	r.Get("/health", handlers.HealthCheck)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	if cfg.Webhook != nil {
		r.Get("/webhook", cfg.Webhook.HandleVerification)
		r.Post("/webhook", cfg.Webhook.HandleInbound)
	}

	if cfg.SendMessage != nil {
		r.With(httpmiddleware.OperatorJWT(cfg.OperatorJWTSecret)).
			Post("/send-message", cfg.SendMessage.Handle)
	}

	return r
}
