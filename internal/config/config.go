package config

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
)

var configValue atomic.Value

func GetConfig() *Config {
	cfg, _ := configValue.Load().(*Config)
	return cfg
}

func SetConfig(cfg *Config) {
	configValue.Store(cfg)
}

type Config struct {
	Version     string           `mapstructure:"version" validate:"required"`
	Environment string           `mapstructure:"environment" validate:"oneof=development staging production test"`
	Server      ServerConfig     `mapstructure:"server"`
	AeroAPI     AeroAPIConfig    `mapstructure:"aeroapi"`
	RefData     RefDataConfig    `mapstructure:"refdata"`
	Aggregator  AggregatorConfig `mapstructure:"aggregator"`
	Logging     LoggingConfig    `mapstructure:"logging"`
	Telemetry   TelemetryConfig  `mapstructure:"telemetry"`
}

type ServerConfig struct {
	Port         int    `mapstructure:"port" validate:"min=1,max=65535"`
	Host         string `mapstructure:"host"`
	ReadTimeout  int    `mapstructure:"read_timeout" validate:"min=0"`
	WriteTimeout int    `mapstructure:"write_timeout" validate:"min=0"`
	IdleTimeout  int    `mapstructure:"idle_timeout" validate:"min=0"`
}

// AeroAPIConfig configures the SDK client. Timeout is in seconds.
type AeroAPIConfig struct {
	BaseURL             string `mapstructure:"base_url" validate:"required,url"`
	APIKey              string `mapstructure:"api_key"`
	Timeout             int    `mapstructure:"timeout" validate:"min=1"`
	Debug               bool   `mapstructure:"debug"`
	ShowHTTPRequestURLs bool   `mapstructure:"show_http_request_urls"`
}

func (c AeroAPIConfig) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// RefDataConfig points at a directory holding airports.json, airlines.json and aircraft.json.
// Empty means the datasets embedded in the binary.
type RefDataConfig struct {
	Dir string `mapstructure:"dir"`
}

// AggregatorConfig: CacheTTL is in seconds, 0 disables caching.
type AggregatorConfig struct {
	CacheTTL int `mapstructure:"cache_ttl" validate:"min=0"`
}

func (c AggregatorConfig) CacheTTLDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

type LoggingConfig struct {
	Level      string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format     string `mapstructure:"format" validate:"oneof=json console"`
	OutputPath string `mapstructure:"output_path"`
}

type TelemetryConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Endpoint string `mapstructure:"endpoint" validate:"required_if=Enabled true"`
}

func NewDefaultConfig() *Config {
	return &Config{
		Version:     "1.0.0",
		Environment: "development",
		Server: ServerConfig{
			Port:         8080,
			Host:         "0.0.0.0",
			ReadTimeout:  30,
			WriteTimeout: 30,
			IdleTimeout:  60,
		},
		AeroAPI: AeroAPIConfig{
			BaseURL: "https://aeroapi.flightaware.com/aeroapi",
			Timeout: 10,
		},
		Aggregator: AggregatorConfig{
			CacheTTL: 120,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			OutputPath: "",
		},
		Telemetry: TelemetryConfig{
			Enabled:  false,
			Endpoint: "tempo:4317",
		},
	}
}

// Validate checks the struct tags. The API key is not required here: commands that only read
// reference data run without one.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
