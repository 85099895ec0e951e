package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Environment variables read after the config file and before flags.
const (
	envDatabaseURL   = "DATABASE_URL"
	envDriver        = "SQLETON_DRIVER"
	envTitle         = "SQLETON_TITLE"
	envEdgeLabels    = "SQLETON_EDGE_LABELS"
	envSchema        = "SQLETON_SCHEMA"
	envExcludeTables = "SQLETON_EXCLUDE_TABLES"
)

// Config holds every setting of a render run. Values are layered: config
// file, then environment, then command-line flags.
type Config struct {
	Database      string   `toml:"database"`
	Driver        string   `toml:"driver"`
	Output        string   `toml:"output"`
	Format        string   `toml:"format"`
	Title         string   `toml:"title"`
	EdgeLabels    bool     `toml:"edge_labels"`
	Strict        bool     `toml:"strict"`
	Schema        string   `toml:"schema"`
	ExcludeTables []string `toml:"exclude_tables"`
	Concurrency   int      `toml:"concurrency"`
}

// loadConfig reads the TOML file at path, if any, then applies the
// environment. A .env file in the working directory is loaded first when
// present; variables already set in the environment win over it.
func loadConfig(path string) (Config, error) {
	var cfg Config

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(envDatabaseURL); v != "" {
		c.Database = v
	}
	if v := os.Getenv(envDriver); v != "" {
		c.Driver = v
	}
	if v := os.Getenv(envTitle); v != "" {
		c.Title = v
	}
	if v := os.Getenv(envSchema); v != "" {
		c.Schema = v
	}
	if v := os.Getenv(envExcludeTables); v != "" {
		c.ExcludeTables = splitList(v)
	}
	if v := os.Getenv(envEdgeLabels); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", envEdgeLabels, err)
		}
		c.EdgeLabels = b
	}
	return nil
}

// format returns the output format: the explicit one, else the one implied
// by the output file extension, else "dot".
func (c *Config) format() string {
	if c.Format != "" {
		return strings.ToLower(c.Format)
	}
	switch strings.ToLower(filepath.Ext(c.Output)) {
	case ".svg":
		return formatSVG
	case ".png":
		return formatPNG
	case ".json":
		return formatJSON
	default:
		return formatDOT
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
