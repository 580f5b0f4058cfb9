package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// File storage for uploaded invoice originals.
	UploadDir      string
	RetentionYears int

	// External collaborators.
	NTABaseURL       string
	ExtractorBaseURL string
	ExtractorTimeout time.Duration
	RegistryTimeout  time.Duration
	TransferTimeout  time.Duration
	ExternalRetryMax int

	// Freee (transfer provider) OAuth.
	FreeeClientID     string
	FreeeClientSecret string
	FreeeRedirectURL  string

	// Bounded worker pool for multi-file upload extraction.
	UploadWorkers int

	// Rate limit applied to the login endpoint, in ulule/limiter notation.
	LoginRateLimit string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "8h")
	viper.SetDefault("JWT_ISSUER", "invoice-kanri-app")
	viper.SetDefault("UPLOAD_DIR", "uploads")
	viper.SetDefault("RETENTION_YEARS", 7)
	viper.SetDefault("NTA_API_BASE_URL", "https://web-api.invoice-kohyo.nta.go.jp/1")
	viper.SetDefault("EXTRACTOR_BASE_URL", "")
	viper.SetDefault("EXTRACTOR_TIMEOUT", "60s")
	viper.SetDefault("REGISTRY_TIMEOUT", "15s")
	viper.SetDefault("TRANSFER_TIMEOUT", "30s")
	viper.SetDefault("EXTERNAL_RETRY_MAX", 2)
	viper.SetDefault("FREEE_CLIENT_ID", "")
	viper.SetDefault("FREEE_CLIENT_SECRET", "")
	viper.SetDefault("FREEE_REDIRECT_URL", "http://localhost:8080/api/v1/transfers/freee/callback")
	viper.SetDefault("UPLOAD_WORKERS", 3)
	viper.SetDefault("LOGIN_RATE_LIMIT", "20-M")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET not set. Using default insecure key.")
	}
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	jwtExpiryStr := viper.GetString("JWT_EXPIRY_DURATION")
	jwtExpiry, err := time.ParseDuration(jwtExpiryStr)
	if err != nil {
		jwtExpiry = 8 * time.Hour
		log.Printf("Warning: Invalid value for JWT_EXPIRY_DURATION ('%s'). Defaulting to %s.\n", jwtExpiryStr, jwtExpiry)
	}
	cfg.JWTExpiryDuration = jwtExpiry

	cfg.UploadDir = viper.GetString("UPLOAD_DIR")
	cfg.RetentionYears = viper.GetInt("RETENTION_YEARS")

	cfg.NTABaseURL = viper.GetString("NTA_API_BASE_URL")
	cfg.ExtractorBaseURL = viper.GetString("EXTRACTOR_BASE_URL")
	if cfg.ExtractorBaseURL == "" {
		log.Println("Warning: EXTRACTOR_BASE_URL not set. Invoice extraction will fail.")
	}
	cfg.ExtractorTimeout = parseDurationOr("EXTRACTOR_TIMEOUT", 60*time.Second)
	cfg.RegistryTimeout = parseDurationOr("REGISTRY_TIMEOUT", 15*time.Second)
	cfg.TransferTimeout = parseDurationOr("TRANSFER_TIMEOUT", 30*time.Second)
	cfg.ExternalRetryMax = viper.GetInt("EXTERNAL_RETRY_MAX")

	cfg.FreeeClientID = viper.GetString("FREEE_CLIENT_ID")
	cfg.FreeeClientSecret = viper.GetString("FREEE_CLIENT_SECRET")
	cfg.FreeeRedirectURL = viper.GetString("FREEE_REDIRECT_URL")
	if cfg.FreeeClientID == "" {
		log.Println("Warning: FREEE_CLIENT_ID not set. Transfer execution will not function.")
	}

	cfg.UploadWorkers = viper.GetInt("UPLOAD_WORKERS")
	if cfg.UploadWorkers < 1 {
		cfg.UploadWorkers = 1
	}
	cfg.LoginRateLimit = viper.GetString("LOGIN_RATE_LIMIT")

	return cfg, nil
}

func parseDurationOr(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback)
		return fallback
	}
	return d
}
