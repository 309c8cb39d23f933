package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/SscSPs/reward_ledger/internal/core/earning"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL       string
	Port              string
	IsProduction      bool
	EnableDBCheck     bool
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// Telegram
	TelegramBotToken    string
	TelegramInitDataTTL time.Duration

	// Admin sign-in
	GoogleClientID         string `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret     string `mapstructure:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL      string `mapstructure:"GOOGLE_REDIRECT_URL"`
	BootstrapAdminEmail    string
	BootstrapAdminPassword string

	// HTTP edge
	CORSAllowedOrigins []string
	RateLimitEarn      string // ulule/limiter format, e.g. "30-M"
	RateLimitAuth      string
	PosthogAPIKey      string
	PosthogEndpoint    string

	// Ledger policy
	RewardPolicy          earning.Policy
	MinWithdrawal         int64
	AdSessionTTL          time.Duration
	CurrencyExponent      int32
	PendingStreamInterval time.Duration

	// Background jobs
	RiverMaxWorkers int
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
	viper.SetDefault("JWT_EXPIRY_DURATION", "24h")
	viper.SetDefault("JWT_ISSUER", "reward-ledger")
	viper.SetDefault("TELEGRAM_BOT_TOKEN", "")
	viper.SetDefault("TELEGRAM_INIT_DATA_TTL", "24h")
	viper.SetDefault("GOOGLE_CLIENT_ID", "")
	viper.SetDefault("GOOGLE_CLIENT_SECRET", "")
	viper.SetDefault("GOOGLE_REDIRECT_URL", "")
	viper.SetDefault("BOOTSTRAP_ADMIN_EMAIL", "")
	viper.SetDefault("BOOTSTRAP_ADMIN_PASSWORD", "")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173")
	viper.SetDefault("RATE_LIMIT_EARN", "30-M")
	viper.SetDefault("RATE_LIMIT_AUTH", "20-M")
	viper.SetDefault("POSTHOG_API_KEY", "")
	viper.SetDefault("POSTHOG_ENDPOINT", "https://eu.i.posthog.com")
	viper.SetDefault("AD_REWARD_MIN", 1)
	viper.SetDefault("AD_REWARD_MAX", 5)
	viper.SetDefault("DAILY_BONUS_MIN", 5)
	viper.SetDefault("DAILY_BONUS_MAX", 10)
	viper.SetDefault("BONUS_TIMEZONE", "Asia/Kolkata")
	viper.SetDefault("MIN_WITHDRAWAL", 250)
	viper.SetDefault("AD_SESSION_TTL", "10m")
	viper.SetDefault("CURRENCY_EXPONENT", 0)
	viper.SetDefault("PENDING_STREAM_INTERVAL", "5s")
	viper.SetDefault("RIVER_MAX_WORKERS", 5)

	// Defaults are overridden by .env values, which are overridden by real environment variables.
	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	cfg.JWTExpiryDuration = durationOrDefault("JWT_EXPIRY_DURATION", 24*time.Hour)
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.TelegramBotToken = viper.GetString("TELEGRAM_BOT_TOKEN")
	if cfg.TelegramBotToken == "" {
		log.Println("Warning: TELEGRAM_BOT_TOKEN not set. Telegram login and notifications will not function.")
	}
	cfg.TelegramInitDataTTL = durationOrDefault("TELEGRAM_INIT_DATA_TTL", 24*time.Hour)

	cfg.GoogleClientID = viper.GetString("GOOGLE_CLIENT_ID")
	cfg.GoogleClientSecret = viper.GetString("GOOGLE_CLIENT_SECRET")
	cfg.GoogleRedirectURL = viper.GetString("GOOGLE_REDIRECT_URL")
	if cfg.GoogleClientID == "" {
		log.Println("Warning: GOOGLE_CLIENT_ID not set. Google admin sign-in will not function.")
	}
	cfg.BootstrapAdminEmail = viper.GetString("BOOTSTRAP_ADMIN_EMAIL")
	cfg.BootstrapAdminPassword = viper.GetString("BOOTSTRAP_ADMIN_PASSWORD")

	cfg.CORSAllowedOrigins = splitList(viper.GetString("CORS_ALLOWED_ORIGINS"))
	cfg.RateLimitEarn = viper.GetString("RATE_LIMIT_EARN")
	cfg.RateLimitAuth = viper.GetString("RATE_LIMIT_AUTH")
	cfg.PosthogAPIKey = viper.GetString("POSTHOG_API_KEY")
	cfg.PosthogEndpoint = viper.GetString("POSTHOG_ENDPOINT")

	loc, err := time.LoadLocation(viper.GetString("BONUS_TIMEZONE"))
	if err != nil {
		return nil, fmt.Errorf("invalid BONUS_TIMEZONE %q: %w", viper.GetString("BONUS_TIMEZONE"), err)
	}
	cfg.RewardPolicy = earning.Policy{
		AdReward:   earning.RewardRange{Min: viper.GetInt64("AD_REWARD_MIN"), Max: viper.GetInt64("AD_REWARD_MAX")},
		DailyBonus: earning.RewardRange{Min: viper.GetInt64("DAILY_BONUS_MIN"), Max: viper.GetInt64("DAILY_BONUS_MAX")},
		Location:   loc,
	}
	if err := cfg.RewardPolicy.AdReward.Validate(); err != nil {
		return nil, fmt.Errorf("AD_REWARD_MIN/AD_REWARD_MAX: %w", err)
	}
	if err := cfg.RewardPolicy.DailyBonus.Validate(); err != nil {
		return nil, fmt.Errorf("DAILY_BONUS_MIN/DAILY_BONUS_MAX: %w", err)
	}

	cfg.MinWithdrawal = viper.GetInt64("MIN_WITHDRAWAL")
	if cfg.MinWithdrawal <= 0 {
		return nil, fmt.Errorf("MIN_WITHDRAWAL must be positive, got %d", cfg.MinWithdrawal)
	}
	cfg.AdSessionTTL = durationOrDefault("AD_SESSION_TTL", 10*time.Minute)
	cfg.CurrencyExponent = viper.GetInt32("CURRENCY_EXPONENT")
	cfg.PendingStreamInterval = durationOrDefault("PENDING_STREAM_INTERVAL", 5*time.Second)

	cfg.RiverMaxWorkers = viper.GetInt("RIVER_MAX_WORKERS")
	if cfg.RiverMaxWorkers <= 0 {
		cfg.RiverMaxWorkers = 5
	}

	return cfg, nil
}

func durationOrDefault(key string, def time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
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
