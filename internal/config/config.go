package config

import (
	"github.com/spf13/viper"
)

// Config represents the settings of one ccmodifier invocation
type Config struct {
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`
	Output  OutputConfig  `json:"output" mapstructure:"output"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Format    string `json:"format" mapstructure:"format"`
	Verbosity int    `json:"verbosity" mapstructure:"verbosity"`
	Quiet     bool   `json:"quiet" mapstructure:"quiet"`
}

// OutputConfig controls where and how the rewritten database is written
type OutputConfig struct {
	// Path is the destination; empty means overwrite the input
	Path   string `json:"path" mapstructure:"path"`
	DryRun bool   `json:"dryRun" mapstructure:"dryRun"`
	Atomic bool   `json:"atomic" mapstructure:"atomic"`
}

// Log formats
const (
	FormatHuman = "human"
	FormatJSON  = "json"
)

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Logging: LoggingConfig{
			Format: FormatHuman,
		},
		Output: OutputConfig{
			Atomic: true,
		},
	}
}

// SetDefaults registers the default values on v.
func SetDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.verbosity", d.Logging.Verbosity)
	v.SetDefault("logging.quiet", d.Logging.Quiet)
	v.SetDefault("output.path", d.Output.Path)
	v.SetDefault("output.dryRun", d.Output.DryRun)
	v.SetDefault("output.atomic", d.Output.Atomic)
}

// FromViper builds a validated Config from the values bound on v.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.Logging.Format {
	case FormatHuman, FormatJSON:
	default:
		return &ConfigError{Field: "logging.format", Message: "must be \"human\" or \"json\", got \"" + c.Logging.Format + "\""}
	}
	if c.Logging.Verbosity < 0 {
		return &ConfigError{Field: "logging.verbosity", Message: "must not be negative"}
	}
	if c.Output.DryRun && c.Output.Path != "" {
		return &ConfigError{Field: "output.path", Message: "cannot be combined with dry-run"}
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
