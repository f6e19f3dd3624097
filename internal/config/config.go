// Package config resolves the server and CLI configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Config is the resolved runtime configuration.
type Config struct {
	HTTPPort int
	DBPath   string
	LogLevel string

	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int

	DefaultCurrency string
	DefaultBuyIn    decimal.Decimal
}

// configFile mirrors the YAML schema of the config file.
type configFile struct {
	Server struct {
		HTTPPort int    `yaml:"http_port"`
		LogLevel string `yaml:"log_level"`
	} `yaml:"server"`
	Storage struct {
		DBPath string `yaml:"db_path"`
	} `yaml:"storage"`
	Auth struct {
		JWTSecret  string `yaml:"jwt_secret"`
		TokenTTL   string `yaml:"token_ttl"`
		BcryptCost int    `yaml:"bcrypt_cost"`
	} `yaml:"auth"`
	Game struct {
		Currency     string `yaml:"currency"`
		DefaultBuyIn string `yaml:"default_buy_in"`
	} `yaml:"game"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		HTTPPort:        8080,
		DBPath:          "./data/allinbank.db",
		LogLevel:        "info",
		TokenTTL:        24 * time.Hour,
		BcryptCost:      10,
		DefaultCurrency: "USD",
		DefaultBuyIn:    decimal.NewFromInt(10),
	}
}

// Load resolves configuration in priority order: defaults -> file -> env.
// A missing file is not an error; an empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
		default:
			if err := cfg.applyFile(raw); err != nil {
				return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// Validate checks the resolved values.
func (c Config) Validate() error {
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid http port %d", c.HTTPPort)
	}
	if c.DBPath == "" {
		return errors.New("db path required")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("invalid token ttl %s", c.TokenTTL)
	}
	if c.DefaultBuyIn.IsNegative() {
		return fmt.Errorf("invalid default buy-in %s", c.DefaultBuyIn)
	}
	if len(c.DefaultCurrency) != 3 {
		return fmt.Errorf("invalid currency %q: want a 3-letter code", c.DefaultCurrency)
	}
	return nil
}

func (c *Config) applyFile(raw []byte) error {
	var f configFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return err
	}
	if f.Server.HTTPPort != 0 {
		c.HTTPPort = f.Server.HTTPPort
	}
	if f.Server.LogLevel != "" {
		c.LogLevel = f.Server.LogLevel
	}
	if f.Storage.DBPath != "" {
		c.DBPath = f.Storage.DBPath
	}
	if f.Auth.JWTSecret != "" {
		c.JWTSecret = f.Auth.JWTSecret
	}
	if f.Auth.TokenTTL != "" {
		ttl, err := time.ParseDuration(f.Auth.TokenTTL)
		if err != nil {
			return fmt.Errorf("auth.token_ttl: %w", err)
		}
		c.TokenTTL = ttl
	}
	if f.Auth.BcryptCost != 0 {
		c.BcryptCost = f.Auth.BcryptCost
	}
	if f.Game.Currency != "" {
		c.DefaultCurrency = strings.ToUpper(f.Game.Currency)
	}
	if f.Game.DefaultBuyIn != "" {
		amount, err := decimal.NewFromString(f.Game.DefaultBuyIn)
		if err != nil {
			return fmt.Errorf("game.default_buy_in: %w", err)
		}
		c.DefaultBuyIn = amount
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("ALLINBANK_HTTP_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("ALLINBANK_HTTP_PORT: %w", err)
		}
		c.HTTPPort = port
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("ALLINBANK_JWT_SECRET"); v != "" {
		c.JWTSecret = v
	}
	if v := os.Getenv("ALLINBANK_TOKEN_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("ALLINBANK_TOKEN_TTL: %w", err)
		}
		c.TokenTTL = ttl
	}
	if v := os.Getenv("ALLINBANK_CURRENCY"); v != "" {
		c.DefaultCurrency = strings.ToUpper(v)
	}
	return nil
}
