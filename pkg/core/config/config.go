// ============================================================================
// CoachLCD - Panel Script Interpreter
// ============================================================================
//
// Package:     config
// Description: TOML/YAML configuration for the coachlcd hosts
// Author:      Mike Stoffels
// Created:     2025-12-14
// License:     MIT
// ============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Source types
const (
	SourceFile   = "file"
	SourceSQLite = "sqlite"
)

// Config holds the complete application configuration
type Config struct {
	General  GeneralConfig  `toml:"general" yaml:"general"`
	Source   SourceConfig   `toml:"source" yaml:"source"`
	Layout   LayoutConfig   `toml:"layout" yaml:"layout"`
	Schedule ScheduleConfig `toml:"schedule" yaml:"schedule"`
	Server   ServerConfig   `toml:"server" yaml:"server"`
	Preview  PreviewConfig  `toml:"preview" yaml:"preview"`
}

// GeneralConfig holds general application settings
type GeneralConfig struct {
	Name      string `toml:"name" yaml:"name"`
	LogLevel  string `toml:"log_level" yaml:"log_level"`
	LogFormat string `toml:"log_format" yaml:"log_format"` // text or json
}

// SourceConfig selects where surfaces and entities come from
type SourceConfig struct {
	Type        string `toml:"type" yaml:"type"`                 // file or sqlite
	World       string `toml:"world" yaml:"world"`               // World file (YAML or TOML)
	Database    string `toml:"database" yaml:"database"`         // SQLite database path
	Encoding    string `toml:"encoding" yaml:"encoding"`         // Encoding of script files
	NameSuffix  string `toml:"name_suffix" yaml:"name_suffix"`   // Surfaces must end with this name
	AllSurfaces bool   `toml:"all_surfaces" yaml:"all_surfaces"` // Ignore NameSuffix
}

// LayoutConfig holds layout engine settings
type LayoutConfig struct {
	MinGap   int    `toml:"min_gap" yaml:"min_gap"`
	RuleChar string `toml:"rule_char" yaml:"rule_char"`
}

// ScheduleConfig holds sweep scheduling settings
type ScheduleConfig struct {
	Interval Duration `toml:"interval" yaml:"interval"`
	Watch    bool     `toml:"watch" yaml:"watch"` // Resweep when the world file changes
	Debounce Duration `toml:"debounce" yaml:"debounce"`
}

// ServerConfig holds websocket broadcast settings
type ServerConfig struct {
	Addr         string   `toml:"addr" yaml:"addr"`
	WriteTimeout Duration `toml:"write_timeout" yaml:"write_timeout"`
	PingInterval Duration `toml:"ping_interval" yaml:"ping_interval"`
}

// PreviewConfig holds terminal preview settings
type PreviewConfig struct {
	Border      string `toml:"border" yaml:"border"` // rounded, normal, double or none
	BorderColor string `toml:"border_color" yaml:"border_color"`
	UseColor    bool   `toml:"use_color" yaml:"use_color"` // Render text in the surface color
}

// Duration wraps time.Duration for TOML and YAML parsing
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// UnmarshalYAML parses a duration scalar
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	return d.UnmarshalText([]byte(value.Value))
}

// Default returns a configuration with all defaults applied
func Default() *Config {
	cfg := &Config{
		Schedule: ScheduleConfig{Watch: true},
		Preview:  PreviewConfig{UseColor: true},
	}
	cfg.applyDefaults()
	cfg.applyEnv()
	return cfg
}

// Load loads configuration from a TOML or YAML file, chosen by extension
func Load(path string) (*Config, error) {
	// Expand environment variables in path
	path = os.ExpandEnv(path)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &Config{
		Schedule: ScheduleConfig{Watch: true},
		Preview:  PreviewConfig{UseColor: true},
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		_, err = toml.Decode(string(data), cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyDefaults()
	cfg.applyEnv()
	cfg.expandEnvVars()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromEnv loads the file named by COACHLCD_CONFIG or the first file
// found in the default locations. Without any file the defaults are used.
func LoadFromEnv() (*Config, error) {
	if path := os.Getenv("COACHLCD_CONFIG"); path != "" {
		return Load(path)
	}

	home, _ := os.UserHomeDir()
	defaultPaths := []string{
		"./configs/coachlcd.toml",
		"./coachlcd.toml",
		"./coachlcd.yaml",
		filepath.Join(home, ".config/coachlcd/config.toml"),
	}
	for _, p := range defaultPaths {
		if _, err := os.Stat(p); err == nil {
			return Load(p)
		}
	}
	return Default(), nil
}

// applyDefaults sets default values for missing configuration
func (c *Config) applyDefaults() {
	// General
	if c.General.Name == "" {
		c.General.Name = "coachlcd"
	}
	if c.General.LogLevel == "" {
		c.General.LogLevel = "info"
	}
	if c.General.LogFormat == "" {
		c.General.LogFormat = "text"
	}

	// Source
	if c.Source.Type == "" {
		c.Source.Type = SourceFile
	}
	if c.Source.World == "" {
		c.Source.World = "./world.yaml"
	}
	if c.Source.Database == "" {
		c.Source.Database = "./data/coachlcd.db"
	}
	if c.Source.Encoding == "" {
		c.Source.Encoding = "utf-8"
	}
	if c.Source.NameSuffix == "" {
		c.Source.NameSuffix = "[LCD]"
	}

	// Layout
	if c.Layout.MinGap == 0 {
		c.Layout.MinGap = 2
	}
	if c.Layout.RuleChar == "" {
		c.Layout.RuleChar = "─"
	}

	// Schedule
	if c.Schedule.Interval.Duration == 0 {
		c.Schedule.Interval.Duration = 2 * time.Second
	}
	if c.Schedule.Debounce.Duration == 0 {
		c.Schedule.Debounce.Duration = 200 * time.Millisecond
	}

	// Server
	if c.Server.Addr == "" {
		c.Server.Addr = "127.0.0.1:8080"
	}
	if c.Server.WriteTimeout.Duration == 0 {
		c.Server.WriteTimeout.Duration = 10 * time.Second
	}
	if c.Server.PingInterval.Duration == 0 {
		c.Server.PingInterval.Duration = 30 * time.Second
	}

	// Preview
	if c.Preview.Border == "" {
		c.Preview.Border = "rounded"
	}
	if c.Preview.BorderColor == "" {
		c.Preview.BorderColor = "#5f87af"
	}
}

// applyEnv applies COACHLCD_* overrides
func (c *Config) applyEnv() {
	if v := os.Getenv("COACHLCD_LOG_LEVEL"); v != "" {
		c.General.LogLevel = v
	}
	if v := os.Getenv("COACHLCD_SOURCE"); v != "" {
		c.Source.Type = v
	}
}

// expandEnvVars expands environment variables in path values
func (c *Config) expandEnvVars() {
	c.Source.World = os.ExpandEnv(c.Source.World)
	c.Source.Database = os.ExpandEnv(c.Source.Database)
}

// Validate reports every invalid setting
func (c *Config) Validate() error {
	var errs []error

	switch c.Source.Type {
	case SourceFile, SourceSQLite:
	default:
		errs = append(errs, fmt.Errorf("source.type must be %q or %q, got %q", SourceFile, SourceSQLite, c.Source.Type))
	}
	if c.Layout.MinGap < 1 {
		errs = append(errs, fmt.Errorf("layout.min_gap must be at least 1, got %d", c.Layout.MinGap))
	}
	if utf8.RuneCountInString(c.Layout.RuleChar) != 1 {
		errs = append(errs, fmt.Errorf("layout.rule_char must be a single character, got %q", c.Layout.RuleChar))
	}
	if c.Schedule.Interval.Duration < 0 {
		errs = append(errs, fmt.Errorf("schedule.interval cannot be negative"))
	}
	switch c.Preview.Border {
	case "rounded", "normal", "double", "none":
	default:
		errs = append(errs, fmt.Errorf("preview.border %q is not supported", c.Preview.Border))
	}

	return errors.Join(errs...)
}

// RuleRune returns the configured rule character
func (c *Config) RuleRune() rune {
	r, _ := utf8.DecodeRuneInString(c.Layout.RuleChar)
	return r
}

// SurfaceSuffix returns the name suffix surfaces must carry, or "" when
// every surface is evaluated
func (c *Config) SurfaceSuffix() string {
	if c.Source.AllSurfaces {
		return ""
	}
	return c.Source.NameSuffix
}
