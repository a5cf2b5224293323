package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Sheet source kinds.
const (
	SheetSourceGoogle = "google"
	SheetSourceXLSX   = "xlsx"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string `validate:"required"`
	Port           string `validate:"required"`
	IsProduction   bool
	EnableDBCheck  bool
	MigrationsPath string `validate:"required"`

	JWTSecret         string `validate:"required"`
	JWTExpiryDuration time.Duration
	JWTIssuer         string
	// Admin credentials for the management API. The password is stored as a bcrypt hash.
	AdminUsername     string
	AdminPasswordHash string

	CORSAllowedOrigins []string
	APIRateLimit       string `validate:"required"`

	// Single-flight guard. Redis is optional; without it only the in-process guard applies.
	RedisAddress string
	JobLockTTL   time.Duration `validate:"gt=0"`

	// Scheduler. A zero interval means the job is not scheduled on its own.
	ReconcileInterval       time.Duration `validate:"gte=0"`
	NotifyInterval          time.Duration `validate:"gte=0"`
	ReconcileTriggersNotify bool

	RateProviderURL    string `validate:"required,url"`
	RateSourceCurrency string `validate:"required,len=3"`
	RateTargetCurrency string `validate:"required,len=3"`
	RateRequestTimeout time.Duration

	SheetSource             string `validate:"oneof=google xlsx"`
	GoogleSheetsSpreadsheet string `validate:"required_if=SheetSource google"`
	GoogleSheetsRange       string `validate:"required_if=SheetSource google"`
	GoogleCredentialsPath   string
	GoogleTokenPath         string
	XLSXPath                string `validate:"required_if=SheetSource xlsx"`
	XLSXSheet               string
	XLSXSkipRows            int `validate:"gte=0"`

	TelegramToken string
	MessageLocale string `validate:"oneof=ru en"`

	PosthogAPIKey string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", true)
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "orders-sync")
	viper.SetDefault("ADMIN_USERNAME", "admin")
	viper.SetDefault("ADMIN_PASSWORD_HASH", "")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	viper.SetDefault("API_RATE_LIMIT", "60-M")
	viper.SetDefault("REDIS_ADDRESS", "")
	viper.SetDefault("JOB_LOCK_TTL", "5m")
	viper.SetDefault("RECONCILE_INTERVAL", "1m")
	viper.SetDefault("NOTIFY_INTERVAL", "0s")
	viper.SetDefault("RECONCILE_TRIGGERS_NOTIFY", true)
	viper.SetDefault("RATE_PROVIDER_URL", "https://www.cbr.ru/scripts/XML_daily.asp")
	viper.SetDefault("RATE_SOURCE_CURRENCY", "USD")
	viper.SetDefault("RATE_TARGET_CURRENCY", "RUB")
	viper.SetDefault("RATE_REQUEST_TIMEOUT", "15s")
	viper.SetDefault("SHEET_SOURCE", SheetSourceGoogle)
	viper.SetDefault("GOOGLE_SHEETS_SPREADSHEET_ID", "")
	viper.SetDefault("GOOGLE_SHEETS_RANGE", "A2:D")
	viper.SetDefault("GOOGLE_CREDENTIALS_PATH", "credentials.json")
	viper.SetDefault("GOOGLE_TOKEN_PATH", "token.json")
	viper.SetDefault("XLSX_PATH", "")
	viper.SetDefault("XLSX_SHEET", "")
	viper.SetDefault("XLSX_SKIP_ROWS", 1)
	viper.SetDefault("TELEGRAM_TOKEN", "")
	viper.SetDefault("MESSAGE_LOCALE", "ru")
	viper.SetDefault("POSTHOG_API_KEY", "")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.MigrationsPath = viper.GetString("MIGRATIONS_PATH")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	cfg.JWTExpiryDuration = durationOrDefault("JWT_EXPIRY_DURATION", time.Hour)
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")
	cfg.AdminUsername = viper.GetString("ADMIN_USERNAME")
	cfg.AdminPasswordHash = viper.GetString("ADMIN_PASSWORD_HASH")
	if cfg.AdminPasswordHash == "" {
		log.Println("Warning: ADMIN_PASSWORD_HASH not set. Admin login is disabled.")
	}

	cfg.CORSAllowedOrigins = splitList(viper.GetString("CORS_ALLOWED_ORIGINS"))
	cfg.APIRateLimit = viper.GetString("API_RATE_LIMIT")

	cfg.RedisAddress = viper.GetString("REDIS_ADDRESS")
	cfg.JobLockTTL = durationOrDefault("JOB_LOCK_TTL", 5*time.Minute)

	cfg.ReconcileInterval = durationOrDefault("RECONCILE_INTERVAL", time.Minute)
	cfg.NotifyInterval = durationOrDefault("NOTIFY_INTERVAL", 0)
	cfg.ReconcileTriggersNotify = viper.GetBool("RECONCILE_TRIGGERS_NOTIFY")

	cfg.RateProviderURL = viper.GetString("RATE_PROVIDER_URL")
	cfg.RateSourceCurrency = strings.ToUpper(viper.GetString("RATE_SOURCE_CURRENCY"))
	cfg.RateTargetCurrency = strings.ToUpper(viper.GetString("RATE_TARGET_CURRENCY"))
	cfg.RateRequestTimeout = durationOrDefault("RATE_REQUEST_TIMEOUT", 15*time.Second)

	cfg.SheetSource = strings.ToLower(viper.GetString("SHEET_SOURCE"))
	cfg.GoogleSheetsSpreadsheet = viper.GetString("GOOGLE_SHEETS_SPREADSHEET_ID")
	cfg.GoogleSheetsRange = viper.GetString("GOOGLE_SHEETS_RANGE")
	cfg.GoogleCredentialsPath = viper.GetString("GOOGLE_CREDENTIALS_PATH")
	cfg.GoogleTokenPath = viper.GetString("GOOGLE_TOKEN_PATH")
	cfg.XLSXPath = viper.GetString("XLSX_PATH")
	cfg.XLSXSheet = viper.GetString("XLSX_SHEET")
	cfg.XLSXSkipRows = viper.GetInt("XLSX_SKIP_ROWS")

	cfg.TelegramToken = viper.GetString("TELEGRAM_TOKEN")
	if cfg.TelegramToken == "" {
		log.Println("Warning: TELEGRAM_TOKEN not set. Notifications cannot be delivered.")
	}
	cfg.MessageLocale = strings.ToLower(viper.GetString("MESSAGE_LOCALE"))

	cfg.PosthogAPIKey = viper.GetString("POSTHOG_API_KEY")

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks struct-level constraints of a loaded configuration.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func durationOrDefault(key string, def time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, def.String())
		}
		return def
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
