package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv        string
	LogLevel      string
	Port          string
	DatabaseURL   string
	DBMaxConns    int
	DBMinConns    int
	DBConnTimeout time.Duration
	StorageDriver string
	JWTSecret     string
	SessionTTL    time.Duration
	GeoIPDBPath   string

	GoogleClientID string
	GoogleIssuer   string

	CORSAllowedOrigins  []string
	AdminBootstrapEmail string

	LedgerStartingCredits int
	PromoGrantCredits     int

	DecomposerProvider string
	DecomposerFallback string
	DecomposeTimeout   time.Duration
	OpenAIAPIKey       string
	OpenAIModel        string
	OpenAIBaseURL      string
	OpenAIOrg          string
	GeminiAPIKey       string
	GeminiModel        string
	GeminiBaseURL      string

	PaymentPageURL        string
	PaymentSignURL        string
	PaymentAPIKey         string
	PaymentMerchantCode   string
	PaymentPassphrase     string
	PaymentCallbackSecret string
	PaymentCurrency       string
	PaymentFXRate         float64
	PaymentMaxAmount      float64
	PaymentPayerDigits    int
	PricingFile           string

	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	HTTPIdleTimeout  time.Duration
	RateLimitPerMin  int
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:        getEnv("APP_ENV", "development"),
		LogLevel:      strings.ToLower(os.Getenv("LOG_LEVEL")),
		Port:          getEnv("PORT", "8080"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		DBMaxConns:    getEnvInt("DB_MAX_CONNS", 10),
		DBMinConns:    getEnvInt("DB_MIN_CONNS", 1),
		DBConnTimeout: time.Second * time.Duration(getEnvInt("DB_CONNECT_TIMEOUT_SECONDS", 10)),
		StorageDriver: strings.ToLower(getEnv("STORAGE_DRIVER", StorageDriverPostgres)),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		SessionTTL:    time.Hour * time.Duration(getEnvInt("SESSION_TTL_HOURS", 24)),
		GeoIPDBPath:   os.Getenv("GEOIP_DB_PATH"),

		GoogleClientID: os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleIssuer:   getEnv("GOOGLE_ISSUER", "https://accounts.google.com"),

		CORSAllowedOrigins:  getEnvList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		AdminBootstrapEmail: strings.ToLower(strings.TrimSpace(os.Getenv("ADMIN_BOOTSTRAP_EMAIL"))),

		LedgerStartingCredits: getEnvInt("LEDGER_STARTING_CREDITS", 0),
		PromoGrantCredits:     getEnvInt("PROMO_GRANT_CREDITS", 3),

		DecomposerProvider: strings.ToLower(getEnv("DECOMPOSER_PROVIDER", "openai")),
		DecomposerFallback: strings.ToLower(os.Getenv("DECOMPOSER_FALLBACK")),
		DecomposeTimeout:   time.Second * time.Duration(getEnvInt("DECOMPOSE_TIMEOUT_SECONDS", 30)),
		OpenAIAPIKey:       os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:        getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL:      getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIOrg:          os.Getenv("OPENAI_ORG"),
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		GeminiModel:        getEnv("GEMINI_MODEL", "gemini-1.5-flash"),
		GeminiBaseURL:      getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),

		PaymentPageURL:        getEnv("PAYMENT_PAGE_URL", "https://pay.example-gateway.com/checkout"),
		PaymentSignURL:        getEnv("PAYMENT_SIGN_URL", "https://api.example-gateway.com/v1/sign"),
		PaymentAPIKey:         os.Getenv("PAYMENT_API_KEY"),
		PaymentMerchantCode:   os.Getenv("PAYMENT_MERCHANT_CODE"),
		PaymentPassphrase:     os.Getenv("PAYMENT_PASSPHRASE"),
		PaymentCallbackSecret: os.Getenv("PAYMENT_CALLBACK_SECRET"),
		PaymentCurrency:       strings.ToUpper(getEnv("PAYMENT_CURRENCY", "TRY")),
		PaymentFXRate:         getEnvFloat("PAYMENT_FX_RATE", 32.5),
		PaymentMaxAmount:      getEnvFloat("PAYMENT_MAX_AMOUNT", 10000),
		PaymentPayerDigits:    getEnvInt("PAYMENT_PAYER_DIGITS", 11),
		PricingFile:           os.Getenv("PRICING_FILE"),

		HTTPReadTimeout:  time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout: time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 60)),
		HTTPIdleTimeout:  time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:  getEnvInt("RATE_LIMIT_PER_MINUTE", 30),
	}

	switch cfg.StorageDriver {
	case StorageDriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
	case StorageDriverMemory:
	default:
		return nil, fmt.Errorf("unsupported STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	if cfg.LedgerStartingCredits < 0 {
		return nil, fmt.Errorf("LEDGER_STARTING_CREDITS must not be negative")
	}

	if cfg.IsProduction() {
		for _, origin := range cfg.CORSAllowedOrigins {
			if origin == "*" {
				return nil, fmt.Errorf("CORS_ALLOWED_ORIGINS must list explicit origins in production")
			}
		}
	}

	return cfg, nil
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
