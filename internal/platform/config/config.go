package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL  string
	Port         string
	IsProduction bool

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// RedisURL enables the redis-backed idempotency store and cross-instance
	// event fan-out when set. Empty means in-process only.
	RedisURL string

	// ReservationTTL bounds how long an uncommitted inventory hold lives
	// before it lapses and its shares return to availability.
	ReservationTTL time.Duration

	// PurchaseRateLimit is a ulule/limiter formatted rate ("20-M" = 20/minute)
	// applied per client IP to the purchase endpoint.
	PurchaseRateLimit string

	// EventBufferSize is the per-subscriber buffer of the in-process broker.
	EventBufferSize int

	CORSAllowedOrigins []string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "eduinvest-backend")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("RESERVATION_TTL", "30s")
	viper.SetDefault("PURCHASE_RATE_LIMIT", "60-M")
	viper.SetDefault("EVENT_BUFFER_SIZE", 16)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	viper.AutomaticEnv()

	cfg := &Config{}
	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	cfg.JWTExpiryDuration = viper.GetDuration("JWT_EXPIRY_DURATION")
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")
	cfg.RedisURL = viper.GetString("REDIS_URL")
	cfg.ReservationTTL = viper.GetDuration("RESERVATION_TTL")
	cfg.PurchaseRateLimit = viper.GetString("PURCHASE_RATE_LIMIT")
	cfg.EventBufferSize = viper.GetInt("EVENT_BUFFER_SIZE")
	cfg.CORSAllowedOrigins = viper.GetStringSlice("CORS_ALLOWED_ORIGINS")

	return cfg, nil
}
