package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	libconfig "dropzero/backend/libs/config"
	"dropzero/backend/services/consumption-service/internal/service"
)

// Config represents service configuration loaded from YAML/env.
type Config struct {
	HTTP struct {
		Port string `yaml:"port" env:"CONSUMPTION_HTTP_PORT"`
	} `yaml:"http"`
	Database struct {
		DSN         string `yaml:"dsn" env:"CONSUMPTION_POSTGRES_DSN"`
		AutoMigrate bool   `yaml:"autoMigrate" env:"CONSUMPTION_AUTO_MIGRATE"`
	} `yaml:"database"`
	Redis struct {
		Addr     string `yaml:"addr" env:"CONSUMPTION_REDIS_ADDR"`
		Password string `yaml:"password" env:"CONSUMPTION_REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"CONSUMPTION_REDIS_DB"`
	} `yaml:"redis"`
	Cache struct {
		TTL time.Duration `yaml:"ttl" env:"CONSUMPTION_CACHE_TTL"`
	} `yaml:"cache"`
	JWT struct {
		Secret string `yaml:"secret" env:"JWT_SECRET"`
	} `yaml:"jwt"`
	Tariff struct {
		FixedWeeklyCharge float64 `yaml:"fixedWeeklyCharge" env:"CONSUMPTION_TARIFF_FIXED_WEEKLY"`
		RatePerM3         float64 `yaml:"ratePerM3" env:"CONSUMPTION_TARIFF_RATE_PER_M3"`
	} `yaml:"tariff"`
	Feed struct {
		PingInterval time.Duration `yaml:"pingInterval" env:"CONSUMPTION_FEED_PING_INTERVAL"`
		WriteTimeout time.Duration `yaml:"writeTimeout" env:"CONSUMPTION_FEED_WRITE_TIMEOUT"`
		Buffer       int           `yaml:"buffer" env:"CONSUMPTION_FEED_BUFFER"`
	} `yaml:"feed"`
}

// Load reads configuration using the shared config loader.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.HTTP.Port = "8080"
	cfg.Database.AutoMigrate = true

	if err := libconfig.LoadConfig(cfg); err != nil {
		return nil, err
	}

	if cfg.Database.DSN == "" {
		return nil, errors.New("config: database DSN is required")
	}
	if cfg.JWT.Secret == "" {
		return nil, errors.New("config: jwt secret is required")
	}
	cfg.applyDefaults()

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Cache.TTL <= 0 {
		c.Cache.TTL = 5 * time.Minute
	}
	if c.Tariff.FixedWeeklyCharge <= 0 {
		c.Tariff.FixedWeeklyCharge = service.DefaultFixedWeeklyCharge
	}
	if c.Tariff.RatePerM3 <= 0 {
		c.Tariff.RatePerM3 = service.DefaultRatePerM3
	}
	if c.Feed.PingInterval <= 0 {
		c.Feed.PingInterval = 30 * time.Second
	}
	if c.Feed.WriteTimeout <= 0 {
		c.Feed.WriteTimeout = 10 * time.Second
	}
	if c.Feed.Buffer <= 0 {
		c.Feed.Buffer = 16
	}
}

// HTTPAddress ensures we always return host:port formatted string.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}
