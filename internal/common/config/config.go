// internal/common/config/config.go
package config

import "time"

// Config is the main application configuration struct.
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Escrow     EscrowConfig     `mapstructure:"escrow"`
	Onboarding OnboardingConfig `mapstructure:"onboarding"`
	Registry   RegistryConfig   `mapstructure:"registry"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
}

// --- Core App Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// EscrowConfig holds settings for the escrow creation wizard.
type EscrowConfig struct {
	// PlatformFeeRate is a decimal string so it survives yaml/env round trips
	// without float noise.
	PlatformFeeRate string `mapstructure:"platform_fee_rate"`
	PaymentDelayMs  int    `mapstructure:"payment_delay_ms"`
	Currency        string `mapstructure:"currency"`

	SeedMilestone struct {
		Title  string `mapstructure:"title"`
		Amount int64  `mapstructure:"amount"`
	} `mapstructure:"seed_milestone"`

	Categories []string `mapstructure:"categories"`
}

// PaymentDelay returns the simulated payment delay.
func (e EscrowConfig) PaymentDelay() time.Duration {
	return GetDuration(e.PaymentDelayMs)
}

// OnboardingConfig holds settings for the KYC/KYB wizard.
type OnboardingConfig struct {
	RequireBusiness bool `mapstructure:"require_business"`
}

// RegistryConfig points at an optional wizard registry override.
type RegistryConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type MetricsConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	ServiceName string `mapstructure:"service_name"`
}
