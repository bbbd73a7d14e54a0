package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Config is the full application configuration loaded from YAML.
type Config struct {
	Server struct {
		Host           string        `yaml:"host"`
		Port           string        `yaml:"port"`
		Prefork        bool          `yaml:"prefork"`
		BodyLimitBytes int           `yaml:"body_limit_bytes"`
		ReadTimeout    time.Duration `yaml:"read_timeout"`
		WriteTimeout   time.Duration `yaml:"write_timeout"`
		Production     bool          `yaml:"production"`
		CORSOrigins    string        `yaml:"cors_origins"`
	} `yaml:"server"`

	Logger struct {
		File       string `yaml:"file"`
		Level      string `yaml:"level"`
		MaxSizeMB  int    `yaml:"max_size_mb"`
		MaxBackups int    `yaml:"max_backups"`
		MaxAgeDays int    `yaml:"max_age_days"`
		Compress   bool   `yaml:"compress"`
	} `yaml:"logger"`

	Auth struct {
		JWTSecret string        `yaml:"jwt_secret"`
		TokenTTL  time.Duration `yaml:"token_ttl"`
		Issuer    string        `yaml:"issuer"`

		// GoogleClientID enables POST /api/auth/google when set.
		GoogleClientID string `yaml:"google_client_id"`
	} `yaml:"auth"`

	Store struct {
		Driver   string         `yaml:"driver"`
		Postgres PostgresConfig `yaml:"postgres"`
	} `yaml:"store"`

	Cache struct {
		RedisHost         string        `yaml:"redis_host"`
		RateLimitDB       int           `yaml:"redis_rate_db"`
		MergeCacheDB      int           `yaml:"redis_merge_db"`
		MergeCacheEnabled bool          `yaml:"merge_cache_enabled"`
		MergeCacheTTL     time.Duration `yaml:"merge_cache_ttl"`
	} `yaml:"cache"`

	RateLimiter struct {
		Enabled  bool          `yaml:"enabled"`
		Max      int           `yaml:"max"`
		Interval time.Duration `yaml:"interval"`
	} `yaml:"rate_limiter"`

	Limits struct {
		MaxFiles     int   `yaml:"max_files"`
		MaxFileBytes int64 `yaml:"max_file_bytes"`
	} `yaml:"limits"`

	Chrome struct {
		Path        string `yaml:"path"`
		NoSandbox   bool   `yaml:"no_sandbox"`
		TimeoutSecs int    `yaml:"timeout_secs"`
	} `yaml:"chrome"`
}

// PostgresConfig describes the connection used by the postgres store.
// Host may also hold a full postgres:// URL.
type PostgresConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Database string `yaml:"database"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

// Load reads the file named by CONFIG_PATH, or config.yaml.
func Load() Config {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config.yaml"
	}
	return LoadFrom(path)
}

// LoadFrom reads, defaults and validates the YAML file at path.
// It panics when the file is unreadable or a value is invalid.
func LoadFrom(path string) Config {
	raw, err := os.ReadFile(path)
	if err != nil {
		panic(fmt.Sprintf("config: read %s: %v", path, err))
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		panic(fmt.Sprintf("config: parse %s: %v", path, err))
	}

	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = ":5000"
	}
	if cfg.Server.BodyLimitBytes == 0 {
		cfg.Server.BodyLimitBytes = 50 * 1024 * 1024
	}
	if cfg.Server.CORSOrigins == "" {
		cfg.Server.CORSOrigins = "*"
	}
	if cfg.Logger.Level == "" {
		cfg.Logger.Level = "info"
	}
	if cfg.Auth.TokenTTL == 0 {
		cfg.Auth.TokenTTL = 24 * time.Hour
	}
	if cfg.Auth.Issuer == "" {
		cfg.Auth.Issuer = "toolszone"
	}
	if cfg.Store.Driver == "" {
		cfg.Store.Driver = StoreMemory
	}
	if cfg.Cache.MergeCacheTTL == 0 {
		cfg.Cache.MergeCacheTTL = 10 * time.Minute
	}
	if cfg.RateLimiter.Max == 0 {
		cfg.RateLimiter.Max = 100
	}
	if cfg.RateLimiter.Interval == 0 {
		cfg.RateLimiter.Interval = 15 * time.Minute
	}
	if cfg.Limits.MaxFiles == 0 {
		cfg.Limits.MaxFiles = 20
	}
	if cfg.Chrome.TimeoutSecs == 0 {
		cfg.Chrome.TimeoutSecs = 30
	}
}

// Validate reports the first invalid value.
func (c Config) Validate() error {
	if c.Auth.JWTSecret == "" && os.Getenv("JWT_SECRET") == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	if c.Auth.TokenTTL < 0 {
		return fmt.Errorf("auth.token_ttl must be positive")
	}
	switch c.Store.Driver {
	case StoreMemory:
	case StorePostgres:
		if c.Store.Postgres.Host == "" {
			return fmt.Errorf("store.postgres.host is required for the postgres driver")
		}
	default:
		return fmt.Errorf("store.driver %q is not supported", c.Store.Driver)
	}
	if c.RateLimiter.Max < 0 {
		return fmt.Errorf("rate_limiter.max must not be negative")
	}
	if c.RateLimiter.Interval < 0 {
		return fmt.Errorf("rate_limiter.interval must be positive")
	}
	if c.Limits.MaxFiles < 2 {
		return fmt.Errorf("limits.max_files must allow at least two files")
	}
	if c.Limits.MaxFileBytes < 0 {
		return fmt.Errorf("limits.max_file_bytes must not be negative")
	}
	if c.Cache.MergeCacheEnabled && c.Cache.RedisHost == "" {
		return fmt.Errorf("cache.redis_host is required when merge_cache_enabled is set")
	}
	return nil
}
