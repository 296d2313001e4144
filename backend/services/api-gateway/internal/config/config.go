package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	libconfig "dropzero/backend/libs/config"
)

// Config defines gateway configuration.
type Config struct {
	HTTP struct {
		Port string `yaml:"port" env:"API_GATEWAY_HTTP_PORT"`
	} `yaml:"http"`
	JWT struct {
		Secret string `yaml:"secret" env:"JWT_SECRET"`
	} `yaml:"jwt"`
	Services struct {
		AuthURL        string `yaml:"authUrl" env:"AUTH_SERVICE_URL"`
		ConsumptionURL string `yaml:"consumptionUrl" env:"CONSUMPTION_SERVICE_URL"`
	} `yaml:"services"`
	HTTPClient struct {
		Timeout time.Duration `yaml:"timeout" env:"API_GATEWAY_HTTP_TIMEOUT"`
	} `yaml:"httpClient"`
}

// Load configuration via shared helper.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.HTTP.Port = "8080"
	cfg.HTTPClient.Timeout = 5 * time.Second

	if err := libconfig.LoadConfig(cfg); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.JWT.Secret) == "" {
		return nil, errors.New("config: jwt secret required")
	}
	if cfg.Services.AuthURL == "" || cfg.Services.ConsumptionURL == "" {
		return nil, errors.New("config: auth and consumption service URLs are required")
	}
	return cfg, nil
}

// HTTPAddress returns :port style.
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

// HTTPTimeout returns http client timeout.
func (c *Config) HTTPTimeout() time.Duration {
	if c.HTTPClient.Timeout <= 0 {
		return 5 * time.Second
	}
	return c.HTTPClient.Timeout
}
