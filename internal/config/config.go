package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/ignatzorin/wallet-gateway/internal/domain/valueobject"
)

const devJWTSecret = "super-secret-development-only-change-in-production"

// Config хранит все параметры запуска шлюза.
type Config struct {
	Env      string `env:"APP_ENV" envDefault:"development" validate:"oneof=development production test"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	HTTPPort string `env:"HTTP_PORT" envDefault:"8080" validate:"required,numeric"`

	// Backend кошелька
	WalletAPIURL    string        `env:"WALLET_API_URL" envDefault:"http://localhost:3000/api" validate:"required,url"`
	UpstreamTimeout time.Duration `env:"WALLET_API_TIMEOUT" envDefault:"15s" validate:"gt=0"`

	// Проверка access токенов
	JWTSecret      string        `env:"JWT_SECRET"`
	AccessTokenTTL time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"15m"`

	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`

	RateLimitLimit   int64         `env:"RATE_LIMIT_LIMIT" envDefault:"100" validate:"gt=0"`
	RateLimitPeriod  time.Duration `env:"RATE_LIMIT_PERIOD" envDefault:"1m" validate:"gt=0"`
	SubmitRateLimit  int64         `env:"SUBMIT_RATE_LIMIT" envDefault:"5" validate:"gt=0"`
	SubmitRatePeriod time.Duration `env:"SUBMIT_RATE_PERIOD" envDefault:"1m" validate:"gt=0"`

	// Валюта отображения и курс рупии к доллару
	DisplayCurrency string          `env:"DISPLAY_CURRENCY" envDefault:"USD" validate:"oneof=USD INR"`
	INRPerUSD       decimal.Decimal `env:"INR_PER_USD" envDefault:"84"`

	CacheDriver     string        `env:"CACHE_DRIVER" envDefault:"memory" validate:"oneof=memory redis"`
	RedisURL        string        `env:"REDIS_URL" validate:"required_if=CacheDriver redis"`
	MethodsCacheTTL time.Duration `env:"METHODS_CACHE_TTL" envDefault:"5m"`
	IconMaxBytes    int64         `env:"ICON_MAX_BYTES" envDefault:"262144" validate:"gt=0"`

	VerificationRedirectURL string `env:"VERIFICATION_REDIRECT_URL" envDefault:"/settings" validate:"required"`
}

// Load читает переменные окружения и возвращает готовую конфигурацию.
func Load() (*Config, error) {
	// Загружаем .env только если он существует, иначе используем системные переменные.
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("config: .env не найден, используем переменные окружения: %v", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg.WalletAPIURL = strings.TrimRight(cfg.WalletAPIURL, "/")
	cfg.DisplayCurrency = strings.ToUpper(cfg.DisplayCurrency)

	if cfg.Env == "production" {
		if len(cfg.JWTSecret) < 32 {
			return nil, fmt.Errorf("config: JWT_SECRET обязателен и должен быть не менее 32 символов в production")
		}
		if len(cfg.AllowedOrigins) == 0 {
			return nil, fmt.Errorf("config: CORS_ALLOWED_ORIGINS обязателен в production")
		}
	} else {
		if cfg.JWTSecret == "" {
			cfg.JWTSecret = devJWTSecret
			log.Printf("config: WARNING - используется дефолтный JWT_SECRET, измените в production!")
		}
		if len(cfg.AllowedOrigins) == 0 {
			cfg.AllowedOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
		}
	}
	for i, origin := range cfg.AllowedOrigins {
		cfg.AllowedOrigins[i] = strings.TrimSpace(origin)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate проверяет значения по тегам validate и курс валюты.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if !c.INRPerUSD.IsPositive() {
		return fmt.Errorf("config: INR_PER_USD должен быть положительным")
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Currencies возвращает поддерживаемые валюты отображения.
func (c *Config) Currencies() valueobject.CurrencySet {
	return valueobject.NewCurrencySet(c.DisplayCurrency, valueobject.USD, valueobject.INR(c.INRPerUSD))
}

// CLIConfig — настройки walletctl.
type CLIConfig struct {
	WalletAPIURL string          `env:"WALLET_API_URL" envDefault:"http://localhost:3000/api" validate:"required,url"`
	Token        string          `env:"WALLET_TOKEN"`
	Currency     string          `env:"WALLET_CURRENCY" envDefault:"USD" validate:"oneof=USD INR usd inr"`
	INRPerUSD    decimal.Decimal `env:"INR_PER_USD" envDefault:"84"`
	Timeout      time.Duration   `env:"WALLET_API_TIMEOUT" envDefault:"15s" validate:"gt=0"`
}

// LoadCLI читает настройки CLI из окружения и .env.
func LoadCLI() (*CLIConfig, error) {
	_ = godotenv.Load(".env")

	cfg := &CLIConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if !cfg.INRPerUSD.IsPositive() {
		return nil, fmt.Errorf("config: INR_PER_USD должен быть положительным")
	}
	cfg.WalletAPIURL = strings.TrimRight(cfg.WalletAPIURL, "/")
	return cfg, nil
}

// Currencies возвращает валюты CLI с выбранной по умолчанию.
func (c *CLIConfig) Currencies() valueobject.CurrencySet {
	return valueobject.NewCurrencySet(c.Currency, valueobject.USD, valueobject.INR(c.INRPerUSD))
}
