package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type App struct {
	Env  string `yaml:"env"`
	Port int    `yaml:"port"`
}

func (a App) PortString() string { return fmt.Sprintf("%d", a.Port) }

func (a App) Development() bool { return a.Env == "development" }

type Mongo struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

type Redis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type Kafka struct {
	Brokers []string `yaml:"brokers"`
}

type JWT struct {
	Secret   string `yaml:"secret"`
	TTLHours int    `yaml:"ttl_hours"`
}

type Uploads struct {
	Dir string `yaml:"dir"`
}

type RateLimit struct {
	Limit         int `yaml:"limit"`
	WindowSeconds int `yaml:"window_seconds"`
}

type Config struct {
	App       App       `yaml:"app"`
	Mongo     Mongo     `yaml:"mongo"`
	Redis     Redis     `yaml:"redis"`
	Kafka     Kafka     `yaml:"kafka"`
	JWT       JWT       `yaml:"jwt"`
	Uploads   Uploads   `yaml:"uploads"`
	RateLimit RateLimit `yaml:"rate_limit"`
}

func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.JWT.TTLHours) * time.Hour
}

func (c *Config) RateWindow() time.Duration {
	return time.Duration(c.RateLimit.WindowSeconds) * time.Second
}

// Load builds the config from defaults, an optional yaml file at path, and
// environment overrides, in that order of precedence.
func Load(path string) (*Config, error) {
	cfg := &Config{
		App:   App{Env: "development", Port: 5001},
		Mongo: Mongo{URI: "mongodb://localhost:27017", Database: "heartlink"},
		JWT:   JWT{TTLHours: 24},
		Uploads: Uploads{
			Dir: "./uploads",
		},
		RateLimit: RateLimit{Limit: 20, WindowSeconds: 60},
	}

	if path != "" {
		if b, err := os.ReadFile(path); err == nil {
			if err := yaml.Unmarshal(b, cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		}
	}

	applyEnv(cfg)

	if cfg.JWT.Secret == "" {
		if !cfg.App.Development() {
			return nil, errors.New("jwt secret is required outside development")
		}
		cfg.JWT.Secret = "dev-secret"
	}
	if cfg.JWT.TTLHours <= 0 {
		cfg.JWT.TTLHours = 24
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("APP_ENV"); v != "" {
		cfg.App.Env = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.App.Port = p
		}
	}
	if v := os.Getenv("MONGO_URI"); v != "" {
		cfg.Mongo.URI = v
	}
	if v := os.Getenv("MONGO_DB"); v != "" {
		cfg.Mongo.Database = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWT.Secret = v
	}
	if v := os.Getenv("UPLOADS_DIR"); v != "" {
		cfg.Uploads.Dir = v
	}
}
