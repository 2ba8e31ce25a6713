package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid config")

// Color modes for terminal output.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

type AppConfig struct {
	Depth             int    `yaml:"depth"`
	LogLevel          string `yaml:"log_level"`
	Color             string `yaml:"color"`
	SeedDefaultOrders bool   `yaml:"seed_default_orders"`
	TradeTapeSize     int    `yaml:"trade_tape_size"`

	// Source is the file the config was read from, empty for defaults.
	Source string `yaml:"-"`
}

func Default() *AppConfig {
	return &AppConfig{
		Depth:             10,
		LogLevel:          "info",
		Color:             ColorAuto,
		SeedDefaultOrders: true,
		TradeTapeSize:     20,
	}
}

// Load loads config from .env, file and environment variables.
// Fields missing from the file keep their defaults. An empty filePath falls
// back to CONFIG_FILE, and when that is empty too the defaults are returned.
// An explicit envPath must exist; the implicit ./.env is optional.
func Load(filePath string, envPath string) (*AppConfig, error) {
	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil {
			return nil, fmt.Errorf("load env %s: %w", envPath, err)
		}
	} else {
		_ = godotenv.Load()
	}

	if len(filePath) == 0 {
		filePath = os.Getenv("CONFIG_FILE")
	}

	if len(filePath) == 0 {
		cfg := Default()
		return cfg, cfg.Validate()
	}

	configBytes, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", filePath, err)
	}

	cfg, err := Parse(configBytes)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", filePath, err)
	}
	cfg.Source = filePath
	return cfg, nil
}

// Parse expands ${VAR} references and decodes YAML on top of the defaults.
func Parse(data []byte) (*AppConfig, error) {
	data = []byte(os.ExpandEnv(string(data)))

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *AppConfig) Validate() error {
	if c.Depth <= 0 {
		return fmt.Errorf("depth must be positive, got %d: %w", c.Depth, ErrInvalidConfig)
	}
	if c.TradeTapeSize <= 0 {
		return fmt.Errorf("trade_tape_size must be positive, got %d: %w", c.TradeTapeSize, ErrInvalidConfig)
	}
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("unknown color mode %q: %w", c.Color, ErrInvalidConfig)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Fields returns the settings as log fields.
func (c *AppConfig) Fields() []zap.Field {
	return []zap.Field{
		zap.String("source", c.Source),
		zap.Int("depth", c.Depth),
		zap.String("log_level", c.LogLevel),
		zap.String("color", c.Color),
		zap.Bool("seed_default_orders", c.SeedDefaultOrders),
		zap.Int("trade_tape_size", c.TradeTapeSize),
	}
}

// Level returns the zap level named by LogLevel.
func (c *AppConfig) Level() (zapcore.Level, error) {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q: %w", c.LogLevel, ErrInvalidConfig)
	}
	return level, nil
}

// NewLogger builds a production logger at the configured level.
func (c *AppConfig) NewLogger() (*zap.Logger, error) {
	level, err := c.Level()
	if err != nil {
		return nil, err
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(level)
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return config.Build()
}
