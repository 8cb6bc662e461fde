package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type Config struct {
	Server    ServerConfig    `json:"server"`
	Database  DatabaseConfig  `json:"database"`
	Redis     RedisConfig     `json:"redis"`
	RateLimit RateLimitConfig `json:"rate_limit"`
}

type ServerConfig struct {
	Port        string `json:"port"`
	Environment string `json:"environment"`
}

type DatabaseConfig struct {
	DSN string `json:"dsn"`
}

type RedisConfig struct {
	Enabled  bool   `json:"enabled"`
	Host     string `json:"host"`
	Port     string `json:"port"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

func (r RedisConfig) GetRedisAddr() string {
	return r.Host + ":" + r.Port
}

// A named request budget: at most Limit requests per Window.
type PolicyConfig struct {
	Limit  int    `json:"limit"`
	Window string `json:"window"`
}

func (p PolicyConfig) ParseWindow() (time.Duration, error) {
	d, err := time.ParseDuration(p.Window)
	if err != nil {
		return 0, fmt.Errorf("invalid rate limit window %q: %w", p.Window, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("rate limit window must be positive, got %q", p.Window)
	}
	return d, nil
}

type RateLimitConfig struct {
	List   PolicyConfig `json:"list"`
	Write  PolicyConfig `json:"write"`
	Bulk   PolicyConfig `json:"bulk"`
	Global PolicyConfig `json:"global"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        "8080",
			Environment: "development",
		},
		Database: DatabaseConfig{
			DSN: "host=localhost user=postgres password=postgres dbname=books port=5432 sslmode=disable",
		},
		Redis: RedisConfig{
			Enabled: false,
			Host:    "localhost",
			Port:    "6379",
		},
		RateLimit: RateLimitConfig{
			List:   PolicyConfig{Limit: 100, Window: "1h"},
			Write:  PolicyConfig{Limit: 20, Window: "1h"},
			Bulk:   PolicyConfig{Limit: 10, Window: "1h"},
			Global: PolicyConfig{Limit: 200, Window: "24h"},
		},
	}
}

func Load(path string) (*Config, error) {
	config := Default()

	file, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// No config file - run on defaults plus env overrides
			config.applyEnv()
			return config, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(file, config); err != nil {
		return nil, err
	}

	config.applyEnv()
	return config, nil
}

func (c *Config) applyEnv() {
	if port := os.Getenv("PORT"); port != "" {
		c.Server.Port = port
	}
	if env := os.Getenv("ENVIRONMENT"); env != "" {
		c.Server.Environment = env
	}
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		c.Database.DSN = dsn
	}
	if host := os.Getenv("REDIS_HOST"); host != "" {
		c.Redis.Enabled = true
		c.Redis.Host = host
	}
	if port := os.Getenv("REDIS_PORT"); port != "" {
		c.Redis.Port = port
	}
	if password := os.Getenv("REDIS_PASSWORD"); password != "" {
		c.Redis.Password = password
	}
}
