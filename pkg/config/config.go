package config

import (
	"fmt"
	"os"
	"strings"
	"time"

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
	Finnhub struct {
		APIKey          string        `yaml:"api_key"`
		BaseURL         string        `yaml:"base_url"`
		WebSocketURL    string        `yaml:"websocket_url"`
		StreamSymbols   []string      `yaml:"stream_symbols"`
		RequestInterval time.Duration `yaml:"request_interval"`
		RequestTimeout  time.Duration `yaml:"request_timeout"`
		ProfileCacheTTL time.Duration `yaml:"profile_cache_ttl"`
		ReconnectDelay  time.Duration `yaml:"reconnect_delay"`
		PingInterval    time.Duration `yaml:"ping_interval"`
	} `yaml:"finnhub"`
	Postgres struct {
		DSN string `yaml:"dsn"`
	} `yaml:"postgres"`
	ClickHouse struct {
		Host         string        `yaml:"host"`
		Port         int           `yaml:"port"`
		Database     string        `yaml:"database"`
		User         string        `yaml:"user"`
		Password     string        `yaml:"password"`
		DialTimeout  time.Duration `yaml:"dial_timeout"`
		ReadTimeout  time.Duration `yaml:"read_timeout"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
	} `yaml:"clickhouse"`
	Redis struct {
		Enabled  bool   `yaml:"enabled"`
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Kafka struct {
		Enabled     bool     `yaml:"enabled"`
		Brokers     []string `yaml:"brokers"`
		AlertsTopic string   `yaml:"alerts_topic"`
	} `yaml:"kafka"`
	Mail struct {
		Enabled  bool   `yaml:"enabled"`
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		From     string `yaml:"from"`
	} `yaml:"mail"`
	Jobs struct {
		AlertSweepSpec string `yaml:"alert_sweep_spec"` // cron spec, e.g. "@every 5m"
		NewsDigestSpec string `yaml:"news_digest_spec"` // cron spec, e.g. "0 8 * * *"
	} `yaml:"jobs"`
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

	if v := os.Getenv("FINNHUB_API_KEY"); v != "" {
		c.Finnhub.APIKey = v
	}
	if v := os.Getenv("STREAM_SYMBOLS"); v != "" {
		c.Finnhub.StreamSymbols = strings.Split(v, ",")
	}
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		c.Postgres.DSN = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("SMTP_PASSWORD"); v != "" {
		c.Mail.Password = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Finnhub.BaseURL == "" {
		c.Finnhub.BaseURL = "https://finnhub.io/api/v1"
	}
	if c.Finnhub.WebSocketURL == "" {
		c.Finnhub.WebSocketURL = "wss://ws.finnhub.io"
	}
	if c.Finnhub.RequestInterval <= 0 {
		c.Finnhub.RequestInterval = 300 * time.Millisecond
	}
	if c.Finnhub.RequestTimeout <= 0 {
		c.Finnhub.RequestTimeout = 10 * time.Second
	}
	if c.Finnhub.ProfileCacheTTL <= 0 {
		c.Finnhub.ProfileCacheTTL = time.Hour
	}
	if c.Finnhub.ReconnectDelay <= 0 {
		c.Finnhub.ReconnectDelay = 5 * time.Second
	}
	if c.Finnhub.PingInterval <= 0 {
		c.Finnhub.PingInterval = 30 * time.Second
	}
	if c.Jobs.AlertSweepSpec == "" {
		c.Jobs.AlertSweepSpec = "@every 5m"
	}
	if c.Jobs.NewsDigestSpec == "" {
		c.Jobs.NewsDigestSpec = "0 8 * * *"
	}
}

// Validate checks if the configuration is valid. A missing Finnhub API key
// is deliberately not an error here: aggregation degrades to empty results
// and logs a warning instead of refusing to start.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port is required")
	}
	if c.Postgres.DSN == "" {
		return fmt.Errorf("postgres.dsn is required")
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	if c.Mail.Enabled && (c.Mail.Host == "" || c.Mail.From == "") {
		return fmt.Errorf("mail.host and mail.from are required when mail is enabled")
	}
	return nil
}
