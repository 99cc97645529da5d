// internal/common/config/config.go
package config

import (
	"fmt"
	"time"
)

// Config is the main application configuration struct.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Target   TargetConfig   `mapstructure:"target"`
	Batch    BatchConfig    `mapstructure:"batch"`
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// TargetConfig describes the order service the seeder talks to and the
// shared connection pool used for every request.
type TargetConfig struct {
	BaseURL             string `mapstructure:"base_url"`
	OrdersPath          string `mapstructure:"orders_path"`
	Timeout             int    `mapstructure:"timeout_ms"` // milliseconds, 0 disables
	MaxIdleConnsPerHost int    `mapstructure:"max_idle_conns_per_host"`
	MaxConnsPerHost     int    `mapstructure:"max_conns_per_host"` // 0 = unlimited
}

// BatchConfig parameterizes one seeding run. Size 10000 with lookup and size 10
// without lookup are the two stock profiles.
type BatchConfig struct {
	Size             int    `mapstructure:"size"`
	Concurrency      int    `mapstructure:"concurrency"` // 0 = unbounded
	IncludeLookup    bool   `mapstructure:"include_lookup"`
	IDPrefix         string `mapstructure:"id_prefix"`
	ValidatePayload  bool   `mapstructure:"validate_payload"`  // schema-check outgoing orders
	ValidateResponse bool   `mapstructure:"validate_response"` // schema-check lookup bodies, log only
}

type ServerConfig struct {
	Address      string `mapstructure:"address"`
	ReadTimeout  int    `mapstructure:"read_timeout_ms"`
	WriteTimeout int    `mapstructure:"write_timeout_ms"`
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

// RedisConfig is optional. An empty address disables the order cache.
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	CacheTTL int    `mapstructure:"cache_ttl_ms"`
}

func (r RedisConfig) Enabled() bool {
	return r.Address != ""
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
