// Package config loads CLI defaults from a YAML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tsawler/wordhtml"
	"github.com/tsawler/wordhtml/batch"
	"github.com/tsawler/wordhtml/headerfooter"
	"github.com/tsawler/wordhtml/media"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound = errors.New("config file not found")
	ErrConfigParse    = errors.New("failed to parse config")
	ErrConfigInvalid  = errors.New("invalid config")
)

// MaxFileSize limits the config file size.
const MaxFileSize = 1 << 20

// FileName is the config file looked up by Find.
const FileName = "wordhtml.yaml"

// Config is the on-disk configuration. Empty fields keep the built-in
// defaults.
type Config struct {
	Mode           string       `yaml:"mode"`           // basic, enhanced, complete
	Workers        int          `yaml:"workers"`        // 0 = GOMAXPROCS
	HeadersFooters string       `yaml:"headersFooters"` // include, skip, print-only
	HeaderRow      bool         `yaml:"headerRow"`
	Images         ImagesConfig `yaml:"images"`
	Output         OutputConfig `yaml:"output"`
	Server         ServerConfig `yaml:"server"`
	Log            LogConfig    `yaml:"log"`
}

// ImagesConfig defines image extraction options.
type ImagesConfig struct {
	Mode     string `yaml:"mode"` // external, inline, skip
	Optimize bool   `yaml:"optimize"`
}

// OutputConfig defines where HTML files are written.
type OutputConfig struct {
	Placement   string `yaml:"placement"` // beside, mirrored, flattened
	Destination string `yaml:"destination"`
}

// ServerConfig defines the job API listener.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// LogConfig defines log output.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Settings are the typed values of a validated Config.
type Settings struct {
	Mode           wordhtml.Mode
	Workers        int
	HeadersFooters headerfooter.Policy
	HeaderRow      bool
	ImageMode      media.Mode
	Optimize       bool
	Placement      batch.Placement
	Destination    string
	Addr           string
	LogLevel       slog.Level
	JSONLogs       bool
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Mode:           wordhtml.Enhanced.String(),
		HeadersFooters: headerfooter.Include.String(),
		Images:         ImagesConfig{Mode: media.External.String()},
		Output:         OutputConfig{Placement: batch.Beside.String()},
		Server:         ServerConfig{Addr: ":8080"},
		Log:            LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads a config file over the defaults. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	f, err := os.Open(path) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	if len(data) > MaxFileSize {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrConfigParse, path, MaxFileSize)
	}

	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	// A file holding only comments decodes to io.EOF.
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, path, err)
	}

	if _, err := cfg.Settings(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Find returns the first config file found in the working directory or
// the user config directory, or "" when there is none.
func Find() string {
	candidates := []string{FileName, "." + FileName}
	if dir, err := os.UserConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, "wordhtml", "config.yaml"))
	}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c
		}
	}
	return ""
}

// Settings validates the config and returns its typed values.
func (c *Config) Settings() (Settings, error) {
	var (
		s   Settings
		err error
	)

	if s.Mode, err = wordhtml.ParseMode(c.Mode); err != nil {
		return s, invalid("mode", err)
	}
	if c.Workers < 0 {
		return s, invalid("workers", fmt.Errorf("must be >= 0, got %d", c.Workers))
	}
	s.Workers = c.Workers
	if s.HeadersFooters, err = headerfooter.ParsePolicy(c.HeadersFooters); err != nil {
		return s, invalid("headersFooters", err)
	}
	s.HeaderRow = c.HeaderRow
	if s.ImageMode, err = media.ParseMode(c.Images.Mode); err != nil {
		return s, invalid("images.mode", err)
	}
	s.Optimize = c.Images.Optimize
	if s.Placement, err = batch.ParsePlacement(c.Output.Placement); err != nil {
		return s, invalid("output.placement", err)
	}
	s.Destination = c.Output.Destination
	s.Addr = c.Server.Addr
	if err := s.LogLevel.UnmarshalText([]byte(c.Log.Level)); err != nil && c.Log.Level != "" {
		return s, invalid("log.level", err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text":
	case "json":
		s.JSONLogs = true
	default:
		return s, invalid("log.format", fmt.Errorf("must be text or json, got %q", c.Log.Format))
	}

	return s, nil
}

func invalid(field string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrConfigInvalid, field, err)
}
