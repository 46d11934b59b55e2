// Package config loads CLI configuration for the letterpdf tool.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ofuentes/go-letterpdf/internal/fileutil"
	"github.com/ofuentes/go-letterpdf/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidDuration = errors.New("invalid duration")
)

// Field length limits.
const (
	MaxPathLength       = 4096
	MaxDateFormatLength = 50
)

// Config holds all configuration for the letterpdf CLI.
type Config struct {
	Output OutputConfig `yaml:"output"`
	Export ExportConfig `yaml:"export"`
	Letter LetterConfig `yaml:"letter"`
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // Default output directory (empty = current directory)
}

// ExportConfig defines export engine options.
type ExportConfig struct {
	Timeout    string `yaml:"timeout"`    // Go duration, e.g. "45s" (empty = engine default)
	Pacing     string `yaml:"pacing"`     // delay between batch emissions, e.g. "300ms"
	BrowserBin string `yaml:"browserBin"` // explicit Chrome/Chromium binary
}

// LetterConfig defines letter rendering options.
type LetterConfig struct {
	DateFormat string `yaml:"dateFormat"` // token format or preset for the info-region date
	AssetsDir  string `yaml:"assetsDir"`  // directory overriding the embedded letter design
}

// Default returns a neutral configuration.
func Default() *Config {
	return &Config{}
}

// Load loads configuration from a file path or config name.
// A name containing a path separator is treated as a file path;
// otherwise it is searched in the standard locations.
// Returns an error if the file is not found (no silent fallback).
func Load(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
		resolved, err := resolvePath(nameOrPath)
		if err != nil {
			return nil, err
		}
		configPath = resolved
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks field lengths and duration syntax.
func (c *Config) Validate() error {
	if len(c.Output.DefaultDir) > MaxPathLength {
		return fmt.Errorf("%w: output.defaultDir", ErrFieldTooLong)
	}
	if len(c.Export.BrowserBin) > MaxPathLength {
		return fmt.Errorf("%w: export.browserBin", ErrFieldTooLong)
	}
	if len(c.Letter.DateFormat) > MaxDateFormatLength {
		return fmt.Errorf("%w: letter.dateFormat", ErrFieldTooLong)
	}
	if len(c.Letter.AssetsDir) > MaxPathLength {
		return fmt.Errorf("%w: letter.assetsDir", ErrFieldTooLong)
	}
	if _, err := c.ExportTimeout(); err != nil {
		return err
	}
	if _, err := c.ExportPacing(); err != nil {
		return err
	}
	return nil
}

// ExportTimeout parses the configured timeout; zero means engine default.
func (c *Config) ExportTimeout() (time.Duration, error) {
	return parseDuration("export.timeout", c.Export.Timeout)
}

// ExportPacing parses the configured pacing; zero means engine default.
func (c *Config) ExportPacing() (time.Duration, error) {
	return parseDuration("export.pacing", c.Export.Pacing)
}

func parseDuration(field, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("%w: %s %q", ErrInvalidDuration, field, value)
	}
	return d, nil
}

// resolvePath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml
// Tries locations in order: current directory, ~/.config/letterpdf/
func resolvePath(name string) (string, error) {
	extensions := []string{".yaml", ".yml"}
	triedPaths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range extensions {
			userPath := filepath.Join(userConfigDir, "letterpdf", name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
