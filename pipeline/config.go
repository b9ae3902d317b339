package pipeline

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config configures a Driver.
type Config struct {
	// OutDir is the root of the filesystem artifact tree (default: "output").
	OutDir string `yaml:"out_dir"`

	// DBPath is the SQLite database file (default: "<OutDir>/artifacts.db").
	DBPath string `yaml:"db_path"`

	// LogLevel is debug, info, warn or error (default: info).
	LogLevel string `yaml:"log_level"`

	// LogFormat is text or json (default: text).
	LogFormat string `yaml:"log_format"`

	// MaxFileSize is the largest document processed, in bytes (default: 100 MB).
	MaxFileSize int64 `yaml:"max_file_size"`

	// Logger receives progress and failures. Default: slog.Default().
	Logger *slog.Logger `yaml:"-"`
}

func (c *Config) defaults() {
	if c.OutDir == "" {
		c.OutDir = "output"
	}
	if c.DBPath == "" {
		c.DBPath = filepath.Join(c.OutDir, "artifacts.db")
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.LogFormat == "" {
		c.LogFormat = "text"
	}
	if c.MaxFileSize <= 0 {
		c.MaxFileSize = 100 * 1024 * 1024
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// LoadConfigFile reads a YAML config file. Unset fields keep their zero
// value until the config is used by a Driver.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// Level parses LogLevel. An empty level is info.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if c.LogLevel == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}

// NewLogger builds a slog logger writing to w in the configured format
// and level.
func (c *Config) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, err := c.Level()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(c.LogFormat) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return nil, fmt.Errorf("log_format: unknown format %q", c.LogFormat)
}
