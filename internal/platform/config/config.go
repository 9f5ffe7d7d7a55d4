package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/ledger_ingest/internal/core/domain"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool
	RunMigrations bool

	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	LogLevel  slog.Level
	LogFormat string

	BalanceTolerance     decimal.Decimal
	RetainedEarningsCode domain.SubjectCode
	CodeTablePath        string
	UploadsDir           string
	ConfirmedDir         string

	RateLimit          string
	CORSAllowedOrigins []string
}

const defaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"

// SetDefaults registers every key with its default value.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", true)
	v.SetDefault("RUN_MIGRATIONS", true)
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("JWT_EXPIRY_DURATION", "1h")
	v.SetDefault("JWT_ISSUER", "ledger-ingest")
	v.SetDefault("LOG_LEVEL", "INFO")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("BALANCE_TOLERANCE", "0.01")
	v.SetDefault("RETAINED_EARNINGS_CODE", int(domain.DefaultRetainedEarningsCode))
	v.SetDefault("CODE_TABLE_PATH", "")
	v.SetDefault("UPLOADS_DIR", "data/uploads")
	v.SetDefault("CONFIRMED_DIR", "data/confirmed")
	v.SetDefault("RATE_LIMIT", "100-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
}

// LoadConfig loads configuration from environment variables and .env file if present.
// Flags bound to v by the caller take precedence over the environment.
func LoadConfig(v *viper.Viper) (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	SetDefaults(v)
	v.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:   v.GetString("PGSQL_URL"),
		Port:          v.GetString("PORT"),
		IsProduction:  v.GetBool("IS_PRODUCTION"),
		EnableDBCheck: v.GetBool("ENABLE_DB_CHECK"),
		RunMigrations: v.GetBool("RUN_MIGRATIONS"),
		JWTSecret:     v.GetString("JWT_SECRET"),
		JWTIssuer:     v.GetString("JWT_ISSUER"),
		LogFormat:     strings.ToLower(v.GetString("LOG_FORMAT")),
		CodeTablePath: v.GetString("CODE_TABLE_PATH"),
		UploadsDir:    v.GetString("UPLOADS_DIR"),
		ConfirmedDir:  v.GetString("CONFIRMED_DIR"),
		RateLimit:     v.GetString("RATE_LIMIT"),
	}

	expiry, err := time.ParseDuration(v.GetString("JWT_EXPIRY_DURATION"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRY_DURATION: %w", err)
	}
	cfg.JWTExpiryDuration = expiry

	if err := cfg.LogLevel.UnmarshalText([]byte(v.GetString("LOG_LEVEL"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	tolerance, err := decimal.NewFromString(v.GetString("BALANCE_TOLERANCE"))
	if err != nil || tolerance.IsNegative() {
		return nil, fmt.Errorf("invalid BALANCE_TOLERANCE %q", v.GetString("BALANCE_TOLERANCE"))
	}
	cfg.BalanceTolerance = tolerance

	retained, err := domain.NewSubjectCode(v.GetInt("RETAINED_EARNINGS_CODE"))
	if err != nil {
		return nil, fmt.Errorf("invalid RETAINED_EARNINGS_CODE: %w", err)
	}
	if retained.IsProfitAndLoss() {
		return nil, fmt.Errorf("RETAINED_EARNINGS_CODE %s must not be a profit and loss account", retained)
	}
	cfg.RetainedEarningsCode = retained

	for _, origin := range strings.Split(v.GetString("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	if cfg.IsProduction && cfg.JWTSecret == defaultJWTSecret {
		return nil, fmt.Errorf("JWT_SECRET must be set in production")
	}

	return cfg, nil
}

// NewLogger builds the process logger from the configured level and format.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
