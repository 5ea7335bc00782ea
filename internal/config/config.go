package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server" mapstructure:"server"`
	Sources SourcesConfig `yaml:"sources" mapstructure:"sources"`
	Tracing TracingConfig `yaml:"tracing" mapstructure:"tracing"`
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port int    `yaml:"port" mapstructure:"port"`
	Host string `yaml:"host" mapstructure:"host"`
}

// SourcesConfig lists the declarative inputs loaded at startup.
type SourcesConfig struct {
	// Archives are HAR traffic archive files.
	Archives []string `yaml:"archives" mapstructure:"archives"`
	// Specs are OpenAPI v2/v3 documents, YAML or JSON.
	Specs []string `yaml:"specs" mapstructure:"specs"`
	// IncludeStatic keeps recorded static-asset entries instead of
	// filtering them out.
	IncludeStatic bool `yaml:"includeStatic" mapstructure:"includeStatic"`
	// Rewrite canonicalizes recorded URLs before registration.
	Rewrite RewriteConfig `yaml:"rewrite" mapstructure:"rewrite"`
}

// RewriteConfig configures recorded-URL canonicalization.
type RewriteConfig struct {
	// StripHost reduces absolute recorded URLs to their path so matching is
	// host-agnostic.
	StripHost bool `yaml:"stripHost" mapstructure:"stripHost"`
	// Host replaces the host component of absolute recorded URLs.
	Host string `yaml:"host" mapstructure:"host"`
}

// TracingConfig holds trace buffer configuration.
type TracingConfig struct {
	MaxTraces int `yaml:"maxTraces" mapstructure:"maxTraces"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 8080,
			Host: "0.0.0.0",
		},
		Sources: SourcesConfig{
			Rewrite: RewriteConfig{
				StripHost: true,
			},
		},
		Tracing: TracingConfig{
			MaxTraces: 1000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads configuration from a YAML file on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FromViper builds the configuration from the bound viper instance (config
// file, environment, flags).
func FromViper() (*Config, error) {
	cfg := Default()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}
