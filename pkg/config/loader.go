package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultChanLen         = 10
	defaultDeliveryTimeout = 100 * time.Millisecond
	defaultPublishTimeout  = 1 * time.Second
)

// Default returns a configuration usable without any file
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads and parses a YAML configuration file
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// validate checks that the fields present are valid
func validate(cfg *Config) error {
	if cfg.LogLevel != "" {
		if _, err := parseLevel(cfg.LogLevel); err != nil {
			return err
		}
	}
	switch cfg.Color {
	case "", "auto", "always", "never":
	default:
		return fmt.Errorf("color must be auto, always or never, got %q", cfg.Color)
	}
	if cfg.PublishTimeout < 0 {
		return fmt.Errorf("publish_timeout must not be negative")
	}
	b := cfg.Broker
	for name, n := range map[string]int{
		"broker.downstream_chan_len":  b.DownStreamChanLen,
		"broker.publish_chan_len":     b.PublishChanLen,
		"broker.subscribe_chan_len":   b.SubscribeChanLen,
		"broker.unsubscribe_chan_len": b.UnsubscribeChanLen,
	} {
		if n < 0 {
			return fmt.Errorf("%s must not be negative", name)
		}
	}
	if b.DeliveryTimeout < 0 {
		return fmt.Errorf("broker.delivery_timeout must not be negative")
	}
	for _, pattern := range cfg.Fixtures {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return fmt.Errorf("invalid fixture pattern %q: %w", pattern, err)
		}
	}
	return nil
}

// applyDefaults sets default values for optional fields
func applyDefaults(cfg *Config) {
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.Color == "" {
		cfg.Color = "auto"
	}
	if cfg.PublishTimeout == 0 {
		cfg.PublishTimeout = defaultPublishTimeout
	}
	b := &cfg.Broker
	for _, n := range []*int{&b.DownStreamChanLen, &b.PublishChanLen, &b.SubscribeChanLen, &b.UnsubscribeChanLen} {
		if *n == 0 {
			*n = defaultChanLen
		}
	}
	if b.DeliveryTimeout == 0 {
		b.DeliveryTimeout = defaultDeliveryTimeout
	}
}

// Level returns the slog level named by LogLevel
func (c *Config) Level() slog.Level {
	level, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q: %w", s, err)
	}
	return level, nil
}

// FixtureFiles expands the configured fixture patterns
func (c *Config) FixtureFiles() ([]string, error) {
	var files []string
	for _, pattern := range c.Fixtures {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("expanding %q: %w", pattern, err)
		}
		files = append(files, matches...)
	}
	return files, nil
}
