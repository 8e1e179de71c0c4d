// Package config loads the service configuration from YAML with environment
// overrides. A .env file in the working directory is honored when present.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultServerPort    = 8080
	defaultServerTimeout = 30
	defaultDatabasePath  = "dugout.db"
	defaultRecentGames   = 10
)

type Config struct {
	Debug      bool           `yaml:"debug"`
	Server     ServerConfig   `yaml:"server"`
	Database   DatabaseConfig `yaml:"database"`
	Categories CategoryConfig `yaml:"categories"`
	Profile    ProfileConfig  `yaml:"profile"`
}

type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// CategoryConfig names the four axis tag ids the classifier splits games on.
type CategoryConfig struct {
	RankedTagID    int64 `yaml:"ranked_tag_id"`
	UnrankedTagID  int64 `yaml:"unranked_tag_id"`
	NormalTagID    int64 `yaml:"normal_tag_id"`
	SuperstarTagID int64 `yaml:"superstar_tag_id"`
}

type ProfileConfig struct {
	RecentGames int `yaml:"recent_games"`
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 {
		return errors.New("server.port must be positive")
	}
	if c.Database.Path == "" {
		return errors.New("database.path is required")
	}
	cat := c.Categories
	seen := map[int64]bool{}
	for _, id := range []int64{cat.RankedTagID, cat.UnrankedTagID, cat.NormalTagID, cat.SuperstarTagID} {
		if id <= 0 {
			return errors.New("categories: all four axis tag ids must be positive")
		}
		if seen[id] {
			return errors.New("categories: axis tag ids must be distinct")
		}
		seen[id] = true
	}
	if c.Profile.RecentGames <= 0 {
		return errors.New("profile.recent_games must be positive")
	}
	return nil
}

// Addr is the host:port the HTTP server binds.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Load reads an optional YAML file, applies environment overrides, fills
// defaults, and validates. An empty path yields a default configuration.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)
	setDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("APP_DEBUG"); v != "" {
		cfg.Debug, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = p
		}
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.Database.Path = v
	}
}

func setDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = defaultServerPort
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = defaultServerTimeout * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = defaultServerTimeout * time.Second
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = defaultDatabasePath
	}
	if cfg.Categories == (CategoryConfig{}) {
		cfg.Categories = CategoryConfig{
			RankedTagID:    1,
			UnrankedTagID:  2,
			SuperstarTagID: 3,
			NormalTagID:    4,
		}
	}
	if cfg.Profile.RecentGames == 0 {
		cfg.Profile.RecentGames = defaultRecentGames
	}
}
