package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

type Config struct {
	App      AppConfig
	API      APIConfig
	Session  SessionConfig
	Register RegisterConfig
	Printer  PrinterConfig
	Export   ExportConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.API.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"POS_APP_ENV" default:"development"`
	LogLevel     string `envconfig:"POS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"POS_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// APIConfig points the terminal at the remote POS API.
type APIConfig struct {
	BaseURL string        `envconfig:"POS_API_URL" required:"true"`
	Timeout time.Duration `envconfig:"POS_API_TIMEOUT" default:"10s"`
}

func (a APIConfig) validate() error {
	if strings.TrimSpace(a.BaseURL) == "" {
		return fmt.Errorf("POS_API_URL is required")
	}
	return nil
}

// SessionConfig controls where the signed-in session is persisted between runs.
type SessionConfig struct {
	StorePath string `envconfig:"POS_SESSION_STORE" default:"pos-session.db"`
}

type RegisterConfig struct {
	LowStockThreshold int `envconfig:"POS_LOW_STOCK_THRESHOLD" default:"10"`
}

// PrinterConfig configures the local receipt preview server standing in for a
// physical printer.
type PrinterConfig struct {
	PreviewEnabled bool   `envconfig:"POS_PRINT_PREVIEW" default:"true"`
	PreviewAddr    string `envconfig:"POS_PRINT_PREVIEW_ADDR" default:"127.0.0.1:8743"`
}

type ExportConfig struct {
	Dir      string `envconfig:"POS_EXPORT_DIR" default:"."`
	Timezone string `envconfig:"POS_EXPORT_TZ" default:"Asia/Bangkok"`
}

// Location resolves the configured display timezone, falling back to UTC.
func (e ExportConfig) Location() *time.Location {
	loc, err := time.LoadLocation(e.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
