package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes environment overrides, e.g. WORKLOG_INTERVAL.
const EnvPrefix = "WORKLOG"

// Config holds every tunable. It is built once per invocation and passed
// down explicitly.
type Config struct {
	// LogPath is the work log file.
	LogPath string `mapstructure:"log_path" yaml:"log_path" json:"log_path"`
	// Interval is the idle time in minutes before a new record is forced.
	Interval int `mapstructure:"interval" yaml:"interval" json:"interval"`
	// ProjectMarker names the directory under which projects live.
	ProjectMarker string `mapstructure:"project_marker" yaml:"project_marker" json:"project_marker"`
	// Editor opens the log. Empty means $VISUAL, $EDITOR, then vim.
	Editor string `mapstructure:"editor" yaml:"editor" json:"editor"`
	// Screen runs the editor through screen when inside a screen session.
	Screen    bool `mapstructure:"screen" yaml:"screen" json:"screen"`
	TailLines int  `mapstructure:"tail_lines" yaml:"tail_lines" json:"tail_lines"`
	// LogLevel is debug, info, warn, error or off.
	LogLevel string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	// LogFile receives JSON diagnostics instead of stderr when set.
	LogFile string `mapstructure:"log_file" yaml:"log_file" json:"log_file"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		LogPath:       "~/.worklog",
		Interval:      15,
		ProjectMarker: "repo",
		Screen:        true,
		TailLines:     25,
		LogLevel:      "warn",
	}
}

// IntervalDuration returns Interval as a duration.
func (c *Config) IntervalDuration() time.Duration {
	return time.Duration(c.Interval) * time.Minute
}

// EditorCommand returns the configured editor, falling back to $VISUAL,
// $EDITOR and finally vim.
func (c *Config) EditorCommand() string {
	for _, e := range []string{c.Editor, os.Getenv("VISUAL"), os.Getenv("EDITOR")} {
		if e = strings.TrimSpace(e); e != "" {
			return e
		}
	}
	return "vim"
}

// Validate rejects values no command could work with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.LogPath) == "" {
		return errors.New("log_path must not be empty")
	}
	if c.Interval < 1 {
		return fmt.Errorf("interval must be at least 1 minute, got %d", c.Interval)
	}
	if c.TailLines < 0 {
		return fmt.Errorf("tail_lines must not be negative, got %d", c.TailLines)
	}
	return nil
}

// Load reads the config file at Path, then applies WORKLOG_* environment
// overrides. A missing file is not an error.
func Load() (*Config, error) {
	return LoadFile(Path())
}

// LoadFile is Load with an explicit config file path. An empty path skips
// the file.
func LoadFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.LogPath = ExpandHome(cfg.LogPath)
	cfg.LogFile = ExpandHome(cfg.LogFile)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// setDefaults registers every key so that AutomaticEnv can override keys
// absent from the file.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("log_path", d.LogPath)
	v.SetDefault("interval", d.Interval)
	v.SetDefault("project_marker", d.ProjectMarker)
	v.SetDefault("editor", d.Editor)
	v.SetDefault("screen", d.Screen)
	v.SetDefault("tail_lines", d.TailLines)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("log_file", d.LogFile)
}

// WriteDefault writes the default configuration as YAML to path. An
// existing file is only replaced when force is set.
func WriteDefault(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}
	}

	data, err := yaml.Marshal(Default())
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
