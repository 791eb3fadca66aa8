package config

import "time"

// Config represents the complete application configuration
type Config struct {
	// LogLevel is one of debug, info, warn or error
	LogLevel string `yaml:"log_level,omitempty"`
	// Color controls ANSI output: auto, always or never
	Color string `yaml:"color,omitempty"`
	// PublishTimeout bounds each workspace event publish
	PublishTimeout time.Duration `yaml:"publish_timeout,omitempty"`
	// Broker holds event broker channel sizing
	Broker BrokerConfig `yaml:"broker,omitempty"`
	// Fixtures are glob patterns checked when no files are given on the
	// command line
	Fixtures []string `yaml:"fixtures,omitempty"`
}

// BrokerConfig sizes the event broker channels
type BrokerConfig struct {
	DownStreamChanLen  int           `yaml:"downstream_chan_len,omitempty"`
	PublishChanLen     int           `yaml:"publish_chan_len,omitempty"`
	SubscribeChanLen   int           `yaml:"subscribe_chan_len,omitempty"`
	UnsubscribeChanLen int           `yaml:"unsubscribe_chan_len,omitempty"`
	DeliveryTimeout    time.Duration `yaml:"delivery_timeout,omitempty"`
}
