// Package config loads rfm settings from a YAML/TOML file and RFM_*
// environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/kk-code-lab/rfm/internal/dircache"
)

// Config is the complete rfm configuration.
//
// Precedence, highest first: environment variables (RFM_*), the config file,
// built-in defaults. Command-line flags are applied on top by cmd/rfm.
type Config struct {
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`
	Preview PreviewConfig `mapstructure:"preview" yaml:"preview"`
	Watch   WatchConfig   `mapstructure:"watch" yaml:"watch"`
}

// LoggingConfig controls the log file.
type LoggingConfig struct {
	// Level: debug, info, warn or error.
	Level string `mapstructure:"level" yaml:"level" validate:"required,oneof=debug info warn error"`

	// Output is a file path, or "none" to disable logging. The terminal is
	// owned by the UI, so stdout and stderr are not accepted.
	Output string `mapstructure:"output" yaml:"output" validate:"required,ne=stdout,ne=stderr"`
}

// DisplayConfig sets the initial sort and visibility of every new tab.
type DisplayConfig struct {
	ShowHidden       bool `mapstructure:"show_hidden" yaml:"show_hidden"`
	DirectoriesFirst bool `mapstructure:"directories_first" yaml:"directories_first"`
	CaseSensitive    bool `mapstructure:"case_sensitive" yaml:"case_sensitive"`
	Reverse          bool `mapstructure:"reverse" yaml:"reverse"`

	// SortMethods is the sort key chain, primary first.
	SortMethods []string `mapstructure:"sort_methods" yaml:"sort_methods" validate:"min=1,max=5,unique,dive,oneof=natural lexical size mtime ext"`
}

// PreviewConfig bounds file previews.
type PreviewConfig struct {
	MaxBytes int64 `mapstructure:"max_bytes" yaml:"max_bytes" validate:"gt=0,lte=16777216"`
}

// WatchConfig controls filesystem change notifications.
type WatchConfig struct {
	Enabled  bool          `mapstructure:"enabled" yaml:"enabled"`
	Debounce time.Duration `mapstructure:"debounce" yaml:"debounce" validate:"gte=0,lte=10s"`
}

// MarshalYAML writes the debounce as a duration string rather than nanoseconds.
func (w WatchConfig) MarshalYAML() (any, error) {
	return struct {
		Enabled  bool   `yaml:"enabled"`
		Debounce string `yaml:"debounce"`
	}{w.Enabled, w.Debounce.String()}, nil
}

// Load reads configuration from configPath (or the default location when
// empty), the environment and defaults, then validates it. A missing config
// file is not an error.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setupViper(v, configPath)

	if err := readConfigFile(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, nil
}

// Default returns the configuration used when nothing is configured.
func Default() *Config {
	cfg := &Config{
		Display: DisplayConfig{DirectoriesFirst: true},
		Watch:   WatchConfig{Enabled: true},
	}
	ApplyDefaults(cfg)
	return cfg
}

func setupViper(v *viper.Viper, configPath string) {
	// RFM_DISPLAY_SHOW_HIDDEN=true, RFM_LOGGING_LEVEL=debug, ...
	v.SetEnvPrefix("RFM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Unmarshal only consults the environment for keys viper already knows.
	v.SetDefault("logging.level", defaultLogLevel)
	v.SetDefault("logging.output", "")
	v.SetDefault("display.show_hidden", false)
	v.SetDefault("display.directories_first", true)
	v.SetDefault("display.case_sensitive", false)
	v.SetDefault("display.reverse", false)
	v.SetDefault("display.sort_methods", []string{dircache.SortNatural.String()})
	v.SetDefault("preview.max_bytes", defaultPreviewMaxBytes)
	v.SetDefault("watch.enabled", true)
	v.SetDefault("watch.debounce", defaultWatchDebounce)

	if configPath != "" {
		v.SetConfigFile(configPath)
		return
	}
	// $XDG_CONFIG_HOME/rfm/config.{yaml,toml}
	v.AddConfigPath(getConfigDir())
	v.SetConfigName("config")
}

func readConfigFile(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

func getConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "rfm")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "rfm")
}

// DefaultPath is where Load looks when no path is given.
func DefaultPath() string {
	return filepath.Join(getConfigDir(), "config.yaml")
}

// Dump writes cfg as YAML.
func Dump(w io.Writer, cfg *Config) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return enc.Close()
}

// SortOptions projects the display section onto dircache sort options.
func (c *Config) SortOptions() dircache.SortOptions {
	opts := dircache.SortOptions{
		DirectoriesFirst: c.Display.DirectoriesFirst,
		CaseSensitive:    c.Display.CaseSensitive,
		Reverse:          c.Display.Reverse,
	}
	for _, name := range c.Display.SortMethods {
		if m, ok := dircache.ParseSortMethod(name); ok {
			opts.Methods = append(opts.Methods, m)
		}
	}
	if len(opts.Methods) == 0 {
		opts.Methods = []dircache.SortMethod{dircache.SortNatural}
	}
	return opts
}

// DisplayOptions projects the display section onto dircache display options.
func (c *Config) DisplayOptions() dircache.DisplayOptions {
	return dircache.DisplayOptions{ShowHidden: c.Display.ShowHidden}
}
