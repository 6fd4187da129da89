package config

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all configuration for our application
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Redis       RedisConfig       `mapstructure:"redis"`
	JWT         JWTConfig         `mapstructure:"jwt"`
	RiskCentral RiskCentralConfig `mapstructure:"risk_central"`
	Business    BusinessConfig    `mapstructure:"business"`
	Scheduler   SchedulerConfig   `mapstructure:"scheduler"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

type ServerConfig struct {
	Port string `mapstructure:"SERVER_PORT"`
	Host string `mapstructure:"SERVER_HOST"`
	Env  string `mapstructure:"ENV"`
}

type DatabaseConfig struct {
	URL          string `mapstructure:"DATABASE_URL"`
	MaxOpenConns int    `mapstructure:"DATABASE_MAX_OPEN_CONNS"`
	MaxIdleConns int    `mapstructure:"DATABASE_MAX_IDLE_CONNS"`
}

type RedisConfig struct {
	Host     string `mapstructure:"REDIS_HOST"`
	Port     string `mapstructure:"REDIS_PORT"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB"`
}

type JWTConfig struct {
	Secret     string `mapstructure:"JWT_SECRET"`
	Expiration string `mapstructure:"JWT_EXPIRATION"`
}

type RiskCentralConfig struct {
	BaseURL         string `mapstructure:"RISK_CENTRAL_URL"`
	Timeout         string `mapstructure:"RISK_CENTRAL_TIMEOUT"`
	MaxRetries      int    `mapstructure:"RISK_CENTRAL_MAX_RETRIES"`
	RetryBackoff    string `mapstructure:"RISK_CENTRAL_RETRY_BACKOFF"`
	FallbackEnabled bool   `mapstructure:"RISK_CENTRAL_FALLBACK_ENABLED"`
}

// BusinessConfig carries the rule thresholds. The payment ratio ceiling and
// the score bands are deployment parameters: the reference system shipped
// with two incompatible rule sets (0.40 ceiling with 701/501 bands vs 0.30
// with 700/550), so neither is hardcoded in the engine.
type BusinessConfig struct {
	MinSeniorityMonths  int    `mapstructure:"MIN_SENIORITY_MONTHS"`
	SalaryMultiple      int64  `mapstructure:"MAX_AMOUNT_SALARY_MULTIPLE"`
	PaymentRatioCeiling string `mapstructure:"PAYMENT_RATIO_CEILING"`
	RiskScoreLowMin     int    `mapstructure:"RISK_SCORE_LOW_MIN"`
	RiskScoreMediumMin  int    `mapstructure:"RISK_SCORE_MEDIUM_MIN"`
}

type SchedulerConfig struct {
	CronSpec      string `mapstructure:"SCHEDULER_CRON_SPEC"`
	PendingMaxAge string `mapstructure:"SCHEDULER_PENDING_MAX_AGE"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"LOG_LEVEL"`
	Format string `mapstructure:"LOG_FORMAT"`
}

// Load reads configuration from environment variables and files
func Load() (*Config, error) {
	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("DATABASE_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DATABASE_MAX_IDLE_CONNS", 5)
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("JWT_SECRET", "coopcredit-secret-key-must-be-at-least-256-bits-long")
	viper.SetDefault("JWT_EXPIRATION", "24h")
	viper.SetDefault("RISK_CENTRAL_URL", "http://localhost:8081")
	viper.SetDefault("RISK_CENTRAL_TIMEOUT", "5s")
	viper.SetDefault("RISK_CENTRAL_MAX_RETRIES", 3)
	viper.SetDefault("RISK_CENTRAL_RETRY_BACKOFF", "500ms")
	viper.SetDefault("RISK_CENTRAL_FALLBACK_ENABLED", false)
	viper.SetDefault("MIN_SENIORITY_MONTHS", 6)
	viper.SetDefault("MAX_AMOUNT_SALARY_MULTIPLE", 4)
	viper.SetDefault("PAYMENT_RATIO_CEILING", "0.40")
	viper.SetDefault("RISK_SCORE_LOW_MIN", 701)
	viper.SetDefault("RISK_SCORE_MEDIUM_MIN", 501)
	viper.SetDefault("SCHEDULER_CRON_SPEC", "0 0 1 * * *")
	viper.SetDefault("SCHEDULER_PENDING_MAX_AGE", "72h")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "json")

	// Read from environment variables
	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if c.Business.MinSeniorityMonths <= 0 {
		return fmt.Errorf("MIN_SENIORITY_MONTHS must be greater than 0")
	}

	if c.Business.SalaryMultiple <= 0 {
		return fmt.Errorf("MAX_AMOUNT_SALARY_MULTIPLE must be greater than 0")
	}

	ceiling, err := decimal.NewFromString(c.Business.PaymentRatioCeiling)
	if err != nil {
		return fmt.Errorf("PAYMENT_RATIO_CEILING must be a valid decimal: %w", err)
	}
	if ceiling.Sign() <= 0 {
		return fmt.Errorf("PAYMENT_RATIO_CEILING must be greater than 0")
	}

	if c.Business.RiskScoreLowMin <= c.Business.RiskScoreMediumMin {
		return fmt.Errorf("RISK_SCORE_LOW_MIN must be greater than RISK_SCORE_MEDIUM_MIN")
	}

	if _, err := time.ParseDuration(c.JWT.Expiration); err != nil {
		return fmt.Errorf("JWT_EXPIRATION must be a valid duration: %w", err)
	}

	if _, err := time.ParseDuration(c.RiskCentral.Timeout); err != nil {
		return fmt.Errorf("RISK_CENTRAL_TIMEOUT must be a valid duration: %w", err)
	}

	if _, err := time.ParseDuration(c.RiskCentral.RetryBackoff); err != nil {
		return fmt.Errorf("RISK_CENTRAL_RETRY_BACKOFF must be a valid duration: %w", err)
	}

	if c.RiskCentral.MaxRetries < 0 {
		return fmt.Errorf("RISK_CENTRAL_MAX_RETRIES must not be negative")
	}

	if _, err := time.ParseDuration(c.Scheduler.PendingMaxAge); err != nil {
		return fmt.Errorf("SCHEDULER_PENDING_MAX_AGE must be a valid duration: %w", err)
	}

	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development" || c.Server.Env == "dev"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production" || c.Server.Env == "prod"
}

// GetPaymentRatioCeiling returns the payment-to-income ceiling as decimal
func (c *Config) GetPaymentRatioCeiling() decimal.Decimal {
	ceiling, _ := decimal.NewFromString(c.Business.PaymentRatioCeiling)
	return ceiling
}

// GetJWTExpiration returns the token lifetime as duration
func (c *Config) GetJWTExpiration() time.Duration {
	d, _ := time.ParseDuration(c.JWT.Expiration)
	return d
}

// GetRiskCentralTimeout returns the per-call timeout as duration
func (c *Config) GetRiskCentralTimeout() time.Duration {
	d, _ := time.ParseDuration(c.RiskCentral.Timeout)
	return d
}

// GetRiskCentralRetryBackoff returns the base backoff delay as duration
func (c *Config) GetRiskCentralRetryBackoff() time.Duration {
	d, _ := time.ParseDuration(c.RiskCentral.RetryBackoff)
	return d
}

// GetPendingMaxAge returns the scheduler sweep age threshold as duration
func (c *Config) GetPendingMaxAge() time.Duration {
	d, _ := time.ParseDuration(c.Scheduler.PendingMaxAge)
	return d
}
