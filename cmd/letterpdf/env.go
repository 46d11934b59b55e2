package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string        // LETTERPDF_CONFIG: config file path
	OutputDir  string        // LETTERPDF_OUTPUT_DIR: default output directory
	BrowserBin string        // LETTERPDF_BROWSER_BIN: Chrome binary path
	DateFormat string        // LETTERPDF_DATE_FORMAT: letter date format
	AssetsDir  string        // LETTERPDF_ASSETS_DIR: letter design override directory
	Timeout    time.Duration // LETTERPDF_TIMEOUT: per-document timeout
	Pace       time.Duration // LETTERPDF_PACE: delay between batch emissions
	PaceSet    bool
}

// knownEnvVars lists valid LETTERPDF_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"LETTERPDF_CONFIG":      true,
	"LETTERPDF_OUTPUT_DIR":  true,
	"LETTERPDF_BROWSER_BIN": true,
	"LETTERPDF_DATE_FORMAT": true,
	"LETTERPDF_ASSETS_DIR":  true,
	"LETTERPDF_TIMEOUT":     true,
	"LETTERPDF_PACE":        true,
}

// loadEnvConfig reads configuration from environment variables.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("LETTERPDF_CONFIG"),
		OutputDir:  os.Getenv("LETTERPDF_OUTPUT_DIR"),
		BrowserBin: os.Getenv("LETTERPDF_BROWSER_BIN"),
		DateFormat: os.Getenv("LETTERPDF_DATE_FORMAT"),
		AssetsDir:  os.Getenv("LETTERPDF_ASSETS_DIR"),
	}

	if timeout := os.Getenv("LETTERPDF_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}
	if pace := os.Getenv("LETTERPDF_PACE"); pace != "" {
		if d, err := time.ParseDuration(pace); err == nil && d >= 0 {
			cfg.Pace = d
			cfg.PaceSet = true
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized LETTERPDF_* variables.
// Helps catch typos like LETTERPDF_OUTDIR instead of LETTERPDF_OUTPUT_DIR.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "LETTERPDF_") {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}
