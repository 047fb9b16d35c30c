package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"OddsCast/pkg/util"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"log"`
	Storage struct {
		LogPath     string `yaml:"log_path"`
		LegacyPath  string `yaml:"legacy_path"`
		PurgeBefore string `yaml:"purge_before"` // RFC3339; empty = no purge
	} `yaml:"storage"`
	Ingest struct {
		Enabled  bool          `yaml:"enabled"`
		Interval time.Duration `yaml:"interval"`
	} `yaml:"ingest"`
	Polymarket struct {
		URL     string        `yaml:"url"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"polymarket"`
	Kalshi struct {
		URL     string        `yaml:"url"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"kalshi"`
	Chart struct {
		CacheTTL time.Duration `yaml:"cache_ttl"`
	} `yaml:"chart"`
	Redis struct {
		Enabled  bool          `yaml:"enabled"`
		Addr     string        `yaml:"addr"`
		Password string        `yaml:"password"`
		DB       int           `yaml:"db"`
		LockKey  string        `yaml:"lock_key"`
		LeaseTTL time.Duration `yaml:"lease_ttl"`
	} `yaml:"redis"`
	Kafka struct {
		Enabled      bool          `yaml:"enabled"`
		Brokers      []string      `yaml:"brokers"`
		Topic        string        `yaml:"topic"`
		RequiredAcks int           `yaml:"required_acks"`
		Compression  string        `yaml:"compression"`
		MaxAttempts  int           `yaml:"max_attempts"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
		ReadTimeout  time.Duration `yaml:"read_timeout"`
	} `yaml:"kafka"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	c.applyDefaults()

	// Validate required fields
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	// Override with environment variables
	if v := os.Getenv("PORT"); v != "" {
		c.Server.Port = util.ParseIntDefault(v, c.Server.Port)
	}
	if v := os.Getenv("ODDSCAST_LOG_PATH"); v != "" {
		c.Storage.LogPath = v
	}
	if v := os.Getenv("POLYMARKET_URL"); v != "" {
		c.Polymarket.URL = v
	}
	if v := os.Getenv("KALSHI_URL"); v != "" {
		c.Kalshi.URL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
		c.Redis.Enabled = true
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
		c.Kafka.Enabled = true
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Server.ReadTimeout <= 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	if c.Server.WriteTimeout <= 0 {
		c.Server.WriteTimeout = 10 * time.Second
	}
	if c.Server.ShutdownTimeout <= 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Ingest.Interval <= 0 {
		c.Ingest.Interval = 5 * time.Minute
	}
	if c.Polymarket.Timeout <= 0 {
		c.Polymarket.Timeout = 10 * time.Second
	}
	if c.Kalshi.Timeout <= 0 {
		c.Kalshi.Timeout = 10 * time.Second
	}
	if c.Chart.CacheTTL <= 0 {
		c.Chart.CacheTTL = 60 * time.Second
	}
	if c.Redis.LockKey == "" {
		c.Redis.LockKey = "oddscast:ingest:leader"
	}
	if c.Redis.LeaseTTL <= 0 {
		c.Redis.LeaseTTL = 30 * time.Second
	}
	if c.Kafka.MaxAttempts <= 0 {
		c.Kafka.MaxAttempts = 3
	}
	if c.Kafka.WriteTimeout <= 0 {
		c.Kafka.WriteTimeout = 10 * time.Second
	}
	if c.Kafka.ReadTimeout <= 0 {
		c.Kafka.ReadTimeout = 10 * time.Second
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Storage.LogPath == "" {
		return fmt.Errorf("storage.log_path is required")
	}
	if c.Storage.PurgeBefore != "" {
		if _, ok := util.ParseTime(c.Storage.PurgeBefore); !ok {
			return fmt.Errorf("storage.purge_before must be RFC3339 or unix seconds")
		}
	}
	if c.Ingest.Enabled {
		if c.Polymarket.URL == "" {
			return fmt.Errorf("polymarket.url is required when ingest is enabled")
		}
		if c.Kalshi.URL == "" {
			return fmt.Errorf("kalshi.url is required when ingest is enabled")
		}
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	return nil
}

// PurgeCutoff returns the configured purge cutoff, if any.
func (c *Config) PurgeCutoff() (time.Time, bool) {
	return util.ParseTime(c.Storage.PurgeBefore)
}
