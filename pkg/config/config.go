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
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Provider struct {
		BaseURL      string        `yaml:"base_url"`
		LookbackDays int           `yaml:"lookback_days"`
		BatchSize    int           `yaml:"batch_size"`
		BatchPause   time.Duration `yaml:"batch_pause"`
		Timeout      time.Duration `yaml:"timeout"`
		RateCapacity float64       `yaml:"rate_capacity"`
		RateRefill   float64       `yaml:"rate_refill_per_sec"`
	} `yaml:"provider"`
	Cache struct {
		TTL   time.Duration `yaml:"ttl"`
		Redis struct {
			Enabled  bool   `yaml:"enabled"`
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Engine struct {
		MomentumDays   int `yaml:"momentum_days"`
		VolatilityDays int `yaml:"volatility_days"`
		EMAPeriod      int `yaml:"ema_period"`
		MaxPositions   int `yaml:"max_positions"`
	} `yaml:"engine"`
	Backend struct {
		Type string `yaml:"type"` // none, kafka, or clickhouse
	} `yaml:"backend"`
	Kafka struct {
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic"`
		RequiredAcks int      `yaml:"required_acks"`
		Compression  string   `yaml:"compression"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts"`
			Linger       time.Duration `yaml:"linger"`
			BatchBytes   int           `yaml:"batch_bytes"`
			BatchSize    int           `yaml:"batch_size"`
			WriteTimeout time.Duration `yaml:"write_timeout"`
			ReadTimeout  time.Duration `yaml:"read_timeout"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
	} `yaml:"kafka"`
	ClickHouse struct {
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port"`
		Database         string        `yaml:"database"`
		User             string        `yaml:"user"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		AsyncInsert      bool          `yaml:"async_insert"`
		WaitForAsync     bool          `yaml:"wait_for_async_insert"`
		DialTimeout      time.Duration `yaml:"dial_timeout"`
		ReadTimeout      time.Duration `yaml:"read_timeout"`
		WriteTimeout     time.Duration `yaml:"write_timeout"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time"`
	} `yaml:"clickhouse"`
	Scheduler struct {
		Enabled  bool          `yaml:"enabled"`
		Interval time.Duration `yaml:"interval"`
	} `yaml:"scheduler"`
	History struct {
		ArtifactPath string `yaml:"artifact_path"`
	} `yaml:"history"`
	Quadrants  map[string]QuadrantConfig `yaml:"quadrants"`
	Categories map[string]string         `yaml:"categories"`
}

// QuadrantConfig overrides one quadrant's definition wholesale. Quadrants
// absent from config keep the canonical defaults.
type QuadrantConfig struct {
	Name               string             `yaml:"name"`
	GrowthDirection    string             `yaml:"growth_direction"`
	InflationDirection string             `yaml:"inflation_direction"`
	Description        string             `yaml:"description"`
	Color              string             `yaml:"color"`
	Indicators         []string           `yaml:"indicators"`
	Leverage           float64            `yaml:"leverage"`
	Allocations        map[string]float64 `yaml:"allocations"`
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

	if v := os.Getenv("PROVIDER_BASE_URL"); v != "" {
		c.Provider.BaseURL = v
	}
	if v := os.Getenv("BACKEND"); v != "" {
		c.Backend.Type = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
		c.Cache.Redis.Enabled = true
	}

	return c, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Provider.LookbackDays == 0 {
		c.Provider.LookbackDays = 180
	}
	if c.Provider.BatchSize == 0 {
		c.Provider.BatchSize = 5
	}
	if c.Provider.BatchPause == 0 {
		c.Provider.BatchPause = 500 * time.Millisecond
	}
	if c.Provider.Timeout == 0 {
		c.Provider.Timeout = 10 * time.Second
	}
	if c.Cache.TTL == 0 {
		c.Cache.TTL = 5 * time.Minute
	}
	if c.Engine.MomentumDays == 0 {
		c.Engine.MomentumDays = 20
	}
	if c.Engine.VolatilityDays == 0 {
		c.Engine.VolatilityDays = 30
	}
	if c.Engine.EMAPeriod == 0 {
		c.Engine.EMAPeriod = 50
	}
	if c.Engine.MaxPositions == 0 {
		c.Engine.MaxPositions = 10
	}
	if c.Backend.Type == "" {
		c.Backend.Type = "none"
	}
	if c.Scheduler.Interval == 0 {
		c.Scheduler.Interval = 5 * time.Minute
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Provider.BaseURL == "" {
		return fmt.Errorf("provider.base_url is required")
	}
	// EMA-50 and 30-day volatility need trailing history plus a buffer.
	if c.Provider.LookbackDays < 150 {
		return fmt.Errorf("provider.lookback_days must be >= 150, got %d", c.Provider.LookbackDays)
	}
	if c.Provider.BatchSize <= 0 {
		return fmt.Errorf("provider.batch_size must be positive")
	}
	switch c.Backend.Type {
	case "none", "kafka", "clickhouse":
	default:
		return fmt.Errorf("backend.type must be 'none', 'kafka' or 'clickhouse', got '%s'", c.Backend.Type)
	}
	if c.Backend.Type == "kafka" && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty with kafka backend")
	}
	if c.Backend.Type == "clickhouse" && c.ClickHouse.Host == "" {
		return fmt.Errorf("clickhouse.host is required with clickhouse backend")
	}
	if c.Engine.EMAPeriod <= 1 {
		return fmt.Errorf("engine.ema_period must be > 1")
	}
	if c.Engine.MaxPositions <= 0 {
		return fmt.Errorf("engine.max_positions must be positive")
	}
	return nil
}
