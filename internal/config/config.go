// Package config provides configuration management for the Puckline service.
package config

import "time"

// Config represents the complete application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app" validate:"required"`
	Providers ProvidersConfig `mapstructure:"providers" validate:"required"`
	Model     ModelConfig     `mapstructure:"model" validate:"required"`
	Ledger    LedgerConfig    `mapstructure:"ledger" validate:"required"`
	API       APIConfig       `mapstructure:"api" validate:"required"`
	Metrics   MetricsConfig   `mapstructure:"metrics" validate:"required"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Reports   ReportsConfig   `mapstructure:"reports"`
	Secrets   SecretsConfig   `mapstructure:"secrets"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// ProvidersConfig groups the upstream data providers and their shared HTTP
// client settings.
type ProvidersConfig struct {
	Schedule ScheduleProviderConfig `mapstructure:"schedule" validate:"required"`
	Odds     OddsProviderConfig     `mapstructure:"odds" validate:"required"`
	HTTP     HTTPConfig             `mapstructure:"http" validate:"required"`
}

// ScheduleProviderConfig represents the schedule provider configuration
type ScheduleProviderConfig struct {
	BaseURL         string `mapstructure:"base_url" validate:"required,url"`
	CacheTTLSeconds int    `mapstructure:"cache_ttl_seconds" validate:"required,gt=0"`
}

// OddsProviderConfig represents the bookmaker feed configuration
type OddsProviderConfig struct {
	BaseURL         string `mapstructure:"base_url" validate:"required,url"`
	APIKey          string `mapstructure:"api_key"`
	CacheTTLSeconds int    `mapstructure:"cache_ttl_seconds" validate:"required,gt=0"`
}

// HTTPConfig represents the shared provider HTTP client settings
type HTTPConfig struct {
	TimeoutSeconds int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	MaxRetries     int     `mapstructure:"max_retries" validate:"gte=0"`
	RetryWaitMS    int     `mapstructure:"retry_wait_ms" validate:"required,gt=0"`
	RateLimit      float64 `mapstructure:"rate_limit" validate:"required,gt=0"`
}

// ModelConfig represents the model service configuration
type ModelConfig struct {
	URL             string `mapstructure:"url" validate:"required,url"`
	TimeoutSeconds  int    `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	CacheTTLSeconds int    `mapstructure:"cache_ttl_seconds" validate:"required,gt=0"`
	Windows         []int  `mapstructure:"windows" validate:"omitempty,windows"`
}

// LedgerConfig represents bet ledger configuration
type LedgerConfig struct {
	Path        string  `mapstructure:"path" validate:"required"`
	StakePerBet float64 `mapstructure:"stake_per_bet" validate:"required,gt=0"`
	MinValue    float64 `mapstructure:"min_value" validate:"gte=0"`
	DaysAhead   int     `mapstructure:"days_ahead" validate:"required,gt=0"`
}

// APIConfig represents the HTTP API configuration
type APIConfig struct {
	Port int `mapstructure:"port" validate:"required,min=1,max=65535"`
}

// MetricsConfig represents metrics and health endpoint configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// SchedulerConfig represents the daily reconcile schedule
type SchedulerConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	ReconcileCron string `mapstructure:"reconcile_cron"`
}

// ReportsConfig represents the markdown report artifact configuration
type ReportsConfig struct {
	OutputDir string `mapstructure:"output_dir"`
}

// SecretsConfig represents the AWS Secrets Manager overlay
type SecretsConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Region     string `mapstructure:"region"`
	SecretName string `mapstructure:"secret_name"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// ScheduleCacheTTL returns the schedule provider cache TTL as a duration.
func (c *Config) ScheduleCacheTTL() time.Duration {
	return time.Duration(c.Providers.Schedule.CacheTTLSeconds) * time.Second
}

// OddsCacheTTL returns the odds provider cache TTL as a duration.
func (c *Config) OddsCacheTTL() time.Duration {
	return time.Duration(c.Providers.Odds.CacheTTLSeconds) * time.Second
}

// ModelCacheTTL returns the prediction cache TTL as a duration.
func (c *Config) ModelCacheTTL() time.Duration {
	return time.Duration(c.Model.CacheTTLSeconds) * time.Second
}

// ModelTimeout returns the model request timeout as a duration.
func (c *Config) ModelTimeout() time.Duration {
	return time.Duration(c.Model.TimeoutSeconds) * time.Second
}
