// Package config loads CLI configuration from the environment and from
// flags, the way the teacher's internal/config package does: a small
// struct of defaults filled from os.Getenv, overridable per-invocation.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// EnvDefaults holds the EAST_*-sourced settings. Color and DiffContext shape
// fmt --diff output; Indent is loaded but no subcommand reads it.
type EnvDefaults struct {
	Color       bool
	Indent      int
	DiffContext int
}

// LoadEnv loads a .env file if present (errors are ignored, matching the
// teacher's godotenv.Load() call site) and reads EAST_* overrides on top
// of a fixed set of defaults.
func LoadEnv() *EnvDefaults {
	_ = godotenv.Load()

	cfg := &EnvDefaults{
		Color:       true,
		Indent:      2,
		DiffContext: 3,
	}

	if v := os.Getenv("EAST_COLOR"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Color = b
		}
	}
	if v := os.Getenv("EAST_INDENT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.Indent = n
		}
	}
	if v := os.Getenv("EAST_DIFF_CONTEXT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.DiffContext = n
		}
	}
	return cfg
}
