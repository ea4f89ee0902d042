package config

import "time"

// Config holds runtime configuration for the cortex client.
type Config struct {
	AppEnv  string        `mapstructure:"app_env"`
	Locale  string        `mapstructure:"locale" validate:"required"`
	Logger  LoggerConfig  `mapstructure:"logger"`
	Sentry  SentryConfig  `mapstructure:"sentry"`
	Backend BackendConfig `mapstructure:"backend"`
	Storage StorageConfig `mapstructure:"storage"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

type LoggerConfig struct {
	Level      string `mapstructure:"level" validate:"omitempty,oneof=debug info warn warning error"`
	Format     string `mapstructure:"format" validate:"omitempty,oneof=text json"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" validate:"gte=0"`
	MaxBackups int    `mapstructure:"max_backups" validate:"gte=0"`
}

type SentryConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	DSN         string `mapstructure:"dsn" validate:"required_if=Enabled true"`
	Environment string `mapstructure:"environment"`
}

// BackendConfig describes the HTTP backend that receives onboarding notifications
// and serves the dashboard reads.
type BackendConfig struct {
	APIBase       string        `mapstructure:"api_base" validate:"required,url"`
	Timeout       time.Duration `mapstructure:"timeout" validate:"gt=0"`
	NotifyTimeout time.Duration `mapstructure:"notify_timeout" validate:"gt=0"`
	Username      string        `mapstructure:"username"`
	Password      string        `mapstructure:"password"`
	UploadSession bool          `mapstructure:"upload_sessions"`
}

type StorageConfig struct {
	Driver     string      `mapstructure:"driver" validate:"required,oneof=sqlite redis memory"`
	SQLitePath string      `mapstructure:"sqlite_path" validate:"required_if=Driver sqlite"`
	Redis      RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Addr        string        `mapstructure:"addr"`
	Password    string        `mapstructure:"password"`
	DB          int           `mapstructure:"db" validate:"gte=0"`
	PoolSize    int           `mapstructure:"pool_size" validate:"gte=0"`
	DialTimeout time.Duration `mapstructure:"dial_timeout"`
	MaxRetries  int           `mapstructure:"max_retries"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr" validate:"required_if=Enabled true"`
}
