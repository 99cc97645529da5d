// internal/common/config/loader.go
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Load reads configs/config.yaml, merges config.<APP_ENVIRONMENT>.yaml on top,
// then applies environment overrides such as BATCH_SIZE or TARGET_BASE_URL.
func Load() (*Config, error) {
	loadEnvFile()

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}
	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // the environment overlay is optional

	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = env
	}
	return cfg, nil
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

	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// setDefaults registers every key so AutomaticEnv can override values that
// are missing from the yaml files.
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "order-loadgen")
	v.SetDefault("target.base_url", "http://localhost:3000")
	v.SetDefault("target.orders_path", "/orders")
	v.SetDefault("target.timeout_ms", 30000)
	v.SetDefault("target.max_idle_conns_per_host", 256)
	v.SetDefault("target.max_conns_per_host", 0)
	v.SetDefault("batch.size", 10000)
	v.SetDefault("batch.concurrency", 256)
	v.SetDefault("batch.include_lookup", true)
	v.SetDefault("batch.id_prefix", "b563feb7b2b84b6")
	v.SetDefault("batch.validate_payload", false)
	v.SetDefault("batch.validate_response", false)
	v.SetDefault("server.address", ":3000")
	v.SetDefault("server.read_timeout_ms", 10000)
	v.SetDefault("server.write_timeout_ms", 10000)
	v.SetDefault("database.postgres.host", "")
	v.SetDefault("database.postgres.port", 5432)
	v.SetDefault("database.postgres.database", "")
	v.SetDefault("database.postgres.user", "")
	v.SetDefault("database.postgres.password", "")
	v.SetDefault("database.redis.address", "")
	v.SetDefault("database.redis.password", "")
	v.SetDefault("database.redis.db", 0)
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.address", ":9090")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stderr")
}

func decode(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}
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

// expandEnvVars resolves ${VAR} placeholders in string values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			expanded := os.ExpandEnv(strVal)
			// unset variables expand to "" so required-field checks still fire
			if expanded != strVal {
				v.Set(key, expanded)
			}
		}
	}
}

// applyDefaults fills values a yaml file explicitly zeroed where zero is not meaningful.
func applyDefaults(cfg *Config) {
	if cfg.Target.OrdersPath == "" {
		cfg.Target.OrdersPath = "/orders"
	}
	cfg.Target.BaseURL = strings.TrimRight(cfg.Target.BaseURL, "/")
	if cfg.Target.MaxIdleConnsPerHost == 0 {
		cfg.Target.MaxIdleConnsPerHost = 256
	}

	if cfg.Database.Postgres.Port == 0 {
		cfg.Database.Postgres.Port = 5432
	}
	if cfg.Database.Postgres.MaxConnections == 0 {
		cfg.Database.Postgres.MaxConnections = 25
	}
	if cfg.Database.Postgres.MaxIdle == 0 {
		cfg.Database.Postgres.MaxIdle = 5
	}
	if cfg.Database.Postgres.SSLMode == "" {
		cfg.Database.Postgres.SSLMode = "disable"
	}
	if cfg.Database.Redis.CacheTTL == 0 {
		cfg.Database.Redis.CacheTTL = 300000
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stderr"
	}
}

// validateConfig validates fields both binaries depend on.
func validateConfig(cfg *Config) error {
	u, err := url.Parse(cfg.Target.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("target.base_url must be an absolute URL, got %q", cfg.Target.BaseURL)
	}
	if !strings.HasPrefix(cfg.Target.OrdersPath, "/") {
		return fmt.Errorf("target.orders_path must start with '/'")
	}
	if cfg.Target.Timeout < 0 {
		return fmt.Errorf("target.timeout_ms must not be negative")
	}
	if cfg.Batch.Size < 1 {
		return fmt.Errorf("batch.size must be at least 1")
	}
	if cfg.Batch.Concurrency < 0 {
		return fmt.Errorf("batch.concurrency must not be negative")
	}
	if cfg.Batch.IDPrefix == "" {
		return fmt.Errorf("batch.id_prefix is required")
	}
	return nil
}

// ValidateServer checks the settings only the order service needs.
func (c *Config) ValidateServer() error {
	if c.Server.Address == "" {
		return fmt.Errorf("server.address is required")
	}
	if c.Database.Postgres.Host == "" {
		return fmt.Errorf("database.postgres.host is required")
	}
	if c.Database.Postgres.Database == "" {
		return fmt.Errorf("database.postgres.database is required")
	}
	if c.Database.Postgres.User == "" {
		return fmt.Errorf("database.postgres.user is required")
	}
	return nil
}
