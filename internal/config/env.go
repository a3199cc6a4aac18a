// Package config provides the configuration management for the resofactor
// application. This file contains environment variable utilities for
// configuration override.
package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Environment Variable Utilities
// ─────────────────────────────────────────────────────────────────────────────

// getEnvString returns the value of the environment variable with the given key
// (prefixed with EnvPrefix), or the default value if not set.
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		return val
	}
	return defaultVal
}

// getEnvInt returns the value of the environment variable with the given key
// (prefixed with EnvPrefix) parsed as int, or the default value if not set
// or invalid.
func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

// getEnvInt64 returns the value of the environment variable with the given key
// (prefixed with EnvPrefix) parsed as int64, or the default value if not set
// or invalid.
func getEnvInt64(key string, defaultVal int64) int64 {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if parsed, err := strconv.ParseInt(val, 10, 64); err == nil {
			return parsed
		}
	}
	return defaultVal
}

// getEnvFloat returns the value of the environment variable with the given key
// (prefixed with EnvPrefix) parsed as float64, or the default value if not set
// or invalid.
func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			return parsed
		}
	}
	return defaultVal
}

// getEnvBool returns the value of the environment variable with the given key
// (prefixed with EnvPrefix) parsed as bool, or the default value if not set.
// Accepts "true", "1", "yes" as true; "false", "0", "no" as false (case-insensitive).
func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		switch strings.ToLower(val) {
		case "true", "1", "yes":
			return true
		case "false", "0", "no":
			return false
		}
	}
	return defaultVal
}

// getEnvDuration returns the value of the environment variable with the given key
// (prefixed with EnvPrefix) parsed as time.Duration, or the default value if not
// set or invalid. Accepts formats like "5m", "30s", "1h30m".
func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return defaultVal
}

// isFlagSet checks if a flag was explicitly set on the command line.
// This is used to determine whether to apply environment variable overrides.
func isFlagSet(fs *flag.FlagSet, name string) bool {
	found := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

// applyEnvOverrides applies environment variable values to the configuration
// for any flags that were not explicitly set on the command line.
// This implements the priority: CLI flags > Environment variables > Defaults.
//
// Supported environment variables:
//   - RESOFACTOR_N: Integer to search for divisors (decimal string)
//   - RESOFACTOR_TIMEOUT: Baseline wall-clock budget (duration: "5m", "30s")
//   - RESOFACTOR_PRECISION: Requested decimal precision (int)
//   - RESOFACTOR_ORDER: Dirichlet kernel order (int)
//   - RESOFACTOR_SAMPLES: Baseline sample budget (int)
//   - RESOFACTOR_SPAN: Baseline sweep half-width (int)
//   - RESOFACTOR_THRESHOLD: Baseline score gate (float)
//   - RESOFACTOR_RADIUS_PERCENT: Certification radius fraction (float)
//   - RESOFACTOR_RADIUS_CAP: Certification radius ceiling (int)
//   - RESOFACTOR_ADAPTIVE: Enable scale-adaptive rescaling (bool)
//   - RESOFACTOR_SHELL_FILTER: Enable the shell filter (bool)
//   - RESOFACTOR_WORKERS: Sweep parallelism (int)
//   - RESOFACTOR_SERVER: Enable server mode (bool: true/false, 1/0, yes/no)
//   - RESOFACTOR_PORT: Port for server mode (string)
//   - RESOFACTOR_JSON: Enable JSON output (bool)
//   - RESOFACTOR_VERBOSE: Enable verbose output (bool)
//   - RESOFACTOR_DETAILS: Enable detailed report (bool)
//   - RESOFACTOR_QUIET: Enable quiet mode (bool)
//   - RESOFACTOR_NO_COLOR: Disable colored output (bool)
//   - RESOFACTOR_OUTPUT: Output file path (string)
func applyEnvOverrides(config *AppConfig, fs *flag.FlagSet) {
	applyNumericOverrides(config, fs)
	applyStringOverrides(config, fs)
	applyBooleanOverrides(config, fs)

	if !isFlagSet(fs, "timeout") {
		config.Timeout = getEnvDuration("TIMEOUT", config.Timeout)
	}
}

func applyNumericOverrides(config *AppConfig, fs *flag.FlagSet) {
	if !isFlagSet(fs, "precision") {
		config.Precision = getEnvInt("PRECISION", config.Precision)
	}
	if !isFlagSet(fs, "order") {
		config.KernelOrder = getEnvInt("ORDER", config.KernelOrder)
	}
	if !isFlagSet(fs, "samples") {
		config.Samples = getEnvInt("SAMPLES", config.Samples)
	}
	if !isFlagSet(fs, "span") {
		config.Span = getEnvInt("SPAN", config.Span)
	}
	if !isFlagSet(fs, "threshold") {
		config.Threshold = getEnvFloat("THRESHOLD", config.Threshold)
	}
	if !isFlagSet(fs, "radius-percent") {
		config.RadiusPercent = getEnvFloat("RADIUS_PERCENT", config.RadiusPercent)
	}
	if !isFlagSet(fs, "radius-cap") {
		config.RadiusCap = getEnvInt64("RADIUS_CAP", config.RadiusCap)
	}
	if !isFlagSet(fs, "workers") {
		config.Workers = getEnvInt("WORKERS", config.Workers)
	}
}

func applyStringOverrides(config *AppConfig, fs *flag.FlagSet) {
	if !isFlagSet(fs, "n") {
		config.N = getEnvString("N", config.N)
	}
	if !isFlagSet(fs, "port") {
		config.Port = getEnvString("PORT", config.Port)
	}
	if !isFlagSet(fs, "output") && !isFlagSet(fs, "o") {
		config.OutputFile = getEnvString("OUTPUT", config.OutputFile)
	}
}

func applyBooleanOverrides(config *AppConfig, fs *flag.FlagSet) {
	if !isFlagSet(fs, "adaptive") {
		config.AdaptiveScaling = getEnvBool("ADAPTIVE", config.AdaptiveScaling)
	}
	if !isFlagSet(fs, "shell-filter") {
		config.ShellFilter = getEnvBool("SHELL_FILTER", config.ShellFilter)
	}
	if !isFlagSet(fs, "server") {
		config.ServerMode = getEnvBool("SERVER", config.ServerMode)
	}
	if !isFlagSet(fs, "json") {
		config.JSONOutput = getEnvBool("JSON", config.JSONOutput)
	}
	if !isFlagSet(fs, "v") {
		config.Verbose = getEnvBool("VERBOSE", config.Verbose)
	}
	if !isFlagSet(fs, "d") && !isFlagSet(fs, "details") {
		config.Details = getEnvBool("DETAILS", config.Details)
	}
	if !isFlagSet(fs, "quiet") && !isFlagSet(fs, "q") {
		config.Quiet = getEnvBool("QUIET", config.Quiet)
	}
	if !isFlagSet(fs, "no-color") {
		config.NoColor = getEnvBool("NO_COLOR", config.NoColor)
	}
}
