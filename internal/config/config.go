package config

import (
	"os"
	"strconv"
)

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string

	// Meta webhook + Graph API
	VerifyToken           string
	AppSecret             string
	WhatsAppToken         string
	WhatsAppPhoneNumberID string
	GraphAPIBase          string

	// Gemini classification/generation
	GeminiAPIKey  string
	GeminiModelID string

	// Lead sinks
	SheetID               string
	GoogleCredentialsJSON string
	DatabaseURL           string

	// Webhook dedup
	RedisAddr     string
	RedisPassword string

	// HOT lead escalation email
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
	SalesEmail        string

	// Operator send endpoint
	AdminJWTSecret string

	// Public route rate limiting
	RateLimitPerSecond float64
	RateLimitBurst     int
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "5000"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		VerifyToken:           getEnv("VERIFY_TOKEN", "my_verify_token"),
		AppSecret:             getEnv("APP_SECRET", ""),
		WhatsAppToken:         getEnv("WHATSAPP_TOKEN", ""),
		WhatsAppPhoneNumberID: getEnv("WHATSAPP_PHONE_NUMBER_ID", ""),
		GraphAPIBase:          getEnv("GRAPH_API_BASE", ""),

		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		GeminiModelID: getEnv("GEMINI_MODEL_ID", "gemini-2.5-flash"),

		SheetID:               getEnv("LEADS_SHEET_ID", ""),
		GoogleCredentialsJSON: getEnv("GOOGLE_CREDENTIALS_JSON", ""),
		DatabaseURL:           getEnv("DATABASE_URL", ""),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),

		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "Leadline"),
		SalesEmail:        getEnv("SALES_EMAIL", ""),

		AdminJWTSecret: getEnv("ADMIN_JWT_SECRET", ""),

		RateLimitPerSecond: getEnvAsFloat("RATE_LIMIT_PER_SECOND", 10),
		RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", 20),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}
