package main

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/KimNorgaard/go-fleetxml"
)

// Config is the fleetfmt configuration file.
type Config struct {
	Indent     int       `yaml:"indent"`
	IndentChar string    `yaml:"indent_char"`
	Standalone *bool     `yaml:"standalone"`
	MaxDepth   int       `yaml:"max_depth"`
	Log        LogConfig `yaml:"log"`
}

// LogConfig selects the log level and output format. File adds a
// rotated log file next to stderr.
type LogConfig struct {
	Level    string         `yaml:"level"`
	Format   string         `yaml:"format"`
	File     string         `yaml:"file"`
	Rotation RotationConfig `yaml:"rotation"`
}

// RotationConfig bounds the log file. Zero values take the defaults of
// 10 MB, one backup and seven days.
type RotationConfig struct {
	MaxSizeMB  int  `yaml:"max_size_mb"`
	MaxBackups int  `yaml:"max_backups"`
	MaxAgeDays int  `yaml:"max_age_days"`
	Compress   bool `yaml:"compress"`
}

func (r RotationConfig) withDefaults() RotationConfig {
	if r.MaxSizeMB == 0 {
		r.MaxSizeMB = 10
	}
	if r.MaxBackups == 0 {
		r.MaxBackups = 1
	}
	if r.MaxAgeDays == 0 {
		r.MaxAgeDays = 7
	}
	return r
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		Indent:     2,
		IndentChar: "space",
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig reads the YAML file at path over the defaults. Unknown keys
// are rejected.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.UnmarshalWithOptions(data, &cfg, yaml.Strict()); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// Options translates the configuration into writer and reader options.
func (c Config) Options() ([]fleetxml.Option, error) {
	var opts []fleetxml.Option
	switch c.IndentChar {
	case "", "space":
	case "tab":
		opts = append(opts, fleetxml.IndentChar('\t'))
	default:
		return nil, fmt.Errorf("indent_char must be \"space\" or \"tab\", got %q", c.IndentChar)
	}
	opts = append(opts, fleetxml.Indent(c.Indent))
	if c.Standalone != nil {
		opts = append(opts, fleetxml.Standalone(*c.Standalone))
	}
	if c.MaxDepth != 0 {
		opts = append(opts, fleetxml.MaxDepth(c.MaxDepth))
	}
	return opts, nil
}
