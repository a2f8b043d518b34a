// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	apperrors "escrow-wizard/internal/common/errors"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

const (
	DefaultPlatformFeeRate = "0.025"
	DefaultPaymentDelayMs  = 2000
)

// DefaultCategories are the service categories offered on the Service
// Details step.
var DefaultCategories = []string{
	"Software Development",
	"Design & Creative",
	"Marketing & SEO",
	"Consulting",
}

func Load() (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // optional per-environment overlay

	return finish(v)
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return finish(v)
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func newViper() *viper.Viper {
	v := viper.New()

	// Env override like ESCROW_PAYMENT_DELAY_MS only applies to known keys.
	v.SetDefault("app.name", "escrow-wizard")
	v.SetDefault("app.environment", "development")
	v.SetDefault("escrow.platform_fee_rate", DefaultPlatformFeeRate)
	v.SetDefault("escrow.payment_delay_ms", DefaultPaymentDelayMs)
	v.SetDefault("escrow.currency", "INR")
	v.SetDefault("escrow.seed_milestone.title", "Initial Design")
	v.SetDefault("escrow.seed_milestone.amount", 25000)
	v.SetDefault("onboarding.require_business", false)
	v.SetDefault("registry.path", "")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.service_name", "escrow-wizard")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

func finish(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, apperrors.NewConfigInvalidError(err.Error())
	}

	return &cfg, nil
}

func loadEnvFile() {
	possiblePaths := []string{".env", "../.env", "../../.env"}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// Find project root by looking for go.mod
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			expanded := os.ExpandEnv(strVal)
			if expanded != strVal && expanded != "" {
				v.Set(key, expanded)
			}
		}
	}
}

// applyDefaults sets default values for optional configuration fields
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "escrow-wizard"
	}

	if cfg.Escrow.PlatformFeeRate == "" {
		cfg.Escrow.PlatformFeeRate = DefaultPlatformFeeRate
	}
	if cfg.Escrow.PaymentDelayMs == 0 {
		cfg.Escrow.PaymentDelayMs = DefaultPaymentDelayMs
	}
	if cfg.Escrow.Currency == "" {
		cfg.Escrow.Currency = "INR"
	}
	if cfg.Escrow.SeedMilestone.Title == "" && cfg.Escrow.SeedMilestone.Amount == 0 {
		cfg.Escrow.SeedMilestone.Title = "Initial Design"
		cfg.Escrow.SeedMilestone.Amount = 25000
	}
	if len(cfg.Escrow.Categories) == 0 {
		cfg.Escrow.Categories = append([]string(nil), DefaultCategories...)
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}

	if cfg.Metrics.ServiceName == "" {
		cfg.Metrics.ServiceName = cfg.App.Name
	}
}

// validateConfig validates critical configuration fields
func validateConfig(cfg *Config) error {
	rate, err := decimal.NewFromString(cfg.Escrow.PlatformFeeRate)
	if err != nil {
		return fmt.Errorf("escrow.platform_fee_rate must be a decimal: %w", err)
	}
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("escrow.platform_fee_rate must be within [0, 1]")
	}

	if cfg.Escrow.PaymentDelayMs < 0 {
		return fmt.Errorf("escrow.payment_delay_ms must not be negative")
	}
	if cfg.Escrow.SeedMilestone.Amount < 0 {
		return fmt.Errorf("escrow.seed_milestone.amount must not be negative")
	}

	switch cfg.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console")
	}

	return nil
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
