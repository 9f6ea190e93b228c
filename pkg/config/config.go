package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/creasty/defaults"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"Kundali/pkg/util"
)

type Config struct {
	Environment string `yaml:"environment" default:"development"`
	Log         struct {
		Level  string `yaml:"level" default:"info"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"log"`
	Server struct {
		Port            int           `yaml:"port" default:"8080"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"30s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"15s"`
		CORSOrigins     []string      `yaml:"cors_origins"`
		RateLimit       struct {
			Enabled bool    `yaml:"enabled" default:"true"`
			RPS     float64 `yaml:"rps" default:"20"`
			Burst   int     `yaml:"burst" default:"40"`
		} `yaml:"rate_limit"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
	Astro struct {
		Ayanamsa          string `yaml:"ayanamsa" default:"lahiri"`
		DashaHorizonYears int    `yaml:"dasha_horizon_years" default:"120"`
		Parallel          bool   `yaml:"parallel" default:"true"`
		Ephemeris         struct {
			Provider string        `yaml:"provider" default:"analytic"`
			URL      string        `yaml:"url"`
			Timeout  time.Duration `yaml:"timeout" default:"3s"`
			Fallback bool          `yaml:"fallback" default:"true"`
		} `yaml:"ephemeris"`
	} `yaml:"astro"`
	Prediction struct {
		Provider    string        `yaml:"provider" default:"http"`
		URL         string        `yaml:"url"`
		Timeout     time.Duration `yaml:"timeout" default:"3s"`
		Retries     int           `yaml:"retries" default:"2"`
		WeightsPath string        `yaml:"weights_path"`
	} `yaml:"prediction"`
	Cache struct {
		Enabled bool          `yaml:"enabled" default:"true"`
		TTL     time.Duration `yaml:"ttl" default:"1h"`
		Memory  struct {
			MaxEntries      int           `yaml:"max_entries" default:"10000"`
			CleanupInterval time.Duration `yaml:"cleanup_interval" default:"1m"`
		} `yaml:"memory"`
		Redis struct {
			Enabled  bool   `yaml:"enabled"`
			Addr     string `yaml:"addr" default:"localhost:6379"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix" default:"kundali"`
		} `yaml:"redis"`
	} `yaml:"cache"`
	Kafka struct {
		Enabled            bool     `yaml:"enabled"`
		Brokers            []string `yaml:"brokers"`
		ChartRequestsTopic string   `yaml:"chart_requests_topic" default:"kundali.chart-requests"`
		ChartEventsTopic   string   `yaml:"chart_events_topic" default:"kundali.chart-events"`
		ErrorLogsTopic     string   `yaml:"error_logs_topic" default:"kundali.error-logs"`
		RequiredAcks       int      `yaml:"required_acks" default:"1"`
		Compression        string   `yaml:"compression" default:"snappy"`
		Producer           struct {
			MaxAttempts  int           `yaml:"max_attempts" default:"5"`
			Linger       time.Duration `yaml:"linger" default:"10ms"`
			BatchSize    int           `yaml:"batch_size" default:"100"`
			WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
		Consumer struct {
			GroupID    string        `yaml:"group_id" default:"kundali-charts"`
			Workers    int           `yaml:"workers" default:"4"`
			BufferSize int           `yaml:"buffer_size" default:"256"`
			RetryMax   int           `yaml:"retry_max" default:"3"`
			BackoffMin time.Duration `yaml:"backoff_min" default:"100ms"`
			BackoffMax time.Duration `yaml:"backoff_max" default:"5s"`
			DLQTopic   string        `yaml:"dlq_topic" default:"kundali.chart-requests.dlq"`
			MinBytes   int           `yaml:"min_bytes" default:"1"`
			MaxBytes   int           `yaml:"max_bytes" default:"10485760"`
		} `yaml:"consumer"`
	} `yaml:"kafka"`
	ClickHouse struct {
		Enabled          bool          `yaml:"enabled"`
		Host             string        `yaml:"host" default:"localhost"`
		Port             int           `yaml:"port" default:"9000"`
		Database         string        `yaml:"database" default:"kundali"`
		User             string        `yaml:"user" default:"default"`
		Password         string        `yaml:"password"`
		Table            string        `yaml:"table" default:"chart_features"`
		UseHTTP          bool          `yaml:"use_http"`
		AsyncInsert      bool          `yaml:"async_insert"`
		WaitForAsync     bool          `yaml:"wait_for_async_insert"`
		DialTimeout      time.Duration `yaml:"dial_timeout" default:"5s"`
		ReadTimeout      time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout     time.Duration `yaml:"write_timeout" default:"10s"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time" default:"60s"`
	} `yaml:"clickhouse"`
}

// Default returns a configuration populated only from default tags.
func Default() *Config {
	var c Config
	_ = defaults.Set(&c)
	return &c
}

// Load reads and parses a YAML configuration file. An empty path yields defaults.
func Load(path string) (*Config, error) {
	c := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, c); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return c, nil
}

// LoadWithEnv loads config from YAML, then .env (if present), then overrides
// with KUNDALI_* environment variables.
func LoadWithEnv(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	c.applyEnv()

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("KUNDALI_ENV"); v != "" {
		c.Environment = v
	}
	if v := os.Getenv("KUNDALI_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("KUNDALI_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Server.Port = n
		}
	}
	if v := os.Getenv("KUNDALI_AYANAMSA"); v != "" {
		c.Astro.Ayanamsa = v
	}
	if v := os.Getenv("KUNDALI_EPHEMERIS_URL"); v != "" {
		c.Astro.Ephemeris.URL = v
		c.Astro.Ephemeris.Provider = "remote"
	}
	if v := os.Getenv("KUNDALI_MODEL_URL"); v != "" {
		c.Prediction.URL = v
	}
	if v := os.Getenv("KUNDALI_MODEL_WEIGHTS"); v != "" {
		c.Prediction.WeightsPath = v
		c.Prediction.Provider = "linear"
	}
	if v := os.Getenv("KUNDALI_REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
		c.Cache.Redis.Enabled = true
	}
	if v := os.Getenv("KUNDALI_KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = util.SplitList(v)
		c.Kafka.Enabled = true
	}
	if v := os.Getenv("KUNDALI_CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
		c.ClickHouse.Enabled = true
	}
	if v := os.Getenv("KUNDALI_CORS_ORIGINS"); v != "" {
		c.Server.CORSOrigins = util.SplitList(v)
	}
	if v := os.Getenv("KUNDALI_CLICKHOUSE_PASSWORD"); v != "" {
		c.ClickHouse.Password = v
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port)
	}
	switch c.Astro.Ephemeris.Provider {
	case "analytic":
	case "remote":
		if c.Astro.Ephemeris.URL == "" {
			return fmt.Errorf("astro.ephemeris.url is required for the remote provider")
		}
	default:
		return fmt.Errorf("astro.ephemeris.provider must be 'analytic' or 'remote', got '%s'", c.Astro.Ephemeris.Provider)
	}
	if c.Astro.DashaHorizonYears < 1 {
		return fmt.Errorf("astro.dasha_horizon_years must be positive")
	}
	switch c.Prediction.Provider {
	case "http", "none":
	case "linear":
		if c.Prediction.WeightsPath == "" {
			return fmt.Errorf("prediction.weights_path is required for the linear provider")
		}
	default:
		return fmt.Errorf("prediction.provider must be 'http', 'linear' or 'none', got '%s'", c.Prediction.Provider)
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers cannot be empty when kafka is enabled")
	}
	return nil
}
