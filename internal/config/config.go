package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Entry names an entity for the blacklist. An empty Kind matches every kind.
type Entry struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"`
}

type BlacklistConfig struct {
	ExtractPrivate bool     `yaml:"extract_private"`
	Documentation  []Entry  `yaml:"documentation"`
	Synopsis       []Entry  `yaml:"synopsis"`
	Kinds          []string `yaml:"kinds"`
}

type OutputConfig struct {
	Dir              string `yaml:"dir"`
	Format           string `yaml:"format"` // markdown or html
	TabWidth         int    `yaml:"tab_width"`
	IndentNamespaces bool   `yaml:"indent_namespaces"`
	Workers          int    `yaml:"workers"`
}

type Config struct {
	Project struct {
		Root       string   `yaml:"root"`
		Extensions []string `yaml:"extensions"`
	} `yaml:"project"`
	Output    OutputConfig    `yaml:"output"`
	Blacklist BlacklistConfig `yaml:"blacklist"`
	Index     struct {
		DB string `yaml:"db"`
	} `yaml:"index"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	var cfg Config
	cfg.Project.Root = "."
	cfg.Project.Extensions = []string{".h", ".hh", ".hpp", ".hxx"}
	cfg.Output = OutputConfig{
		Dir:      "docs",
		Format:   "markdown",
		TabWidth: 4,
		Workers:  4,
	}
	cfg.Index.DB = "cppdoc.db"
	return &cfg
}

func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	// 2. Load YAML config on top of the defaults
	cfg := Default()
	file, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := yaml.Unmarshal(file, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	// 3. Override with Environment Variables if present
	if dir := os.Getenv("CPPDOC_OUTPUT"); dir != "" {
		cfg.Output.Dir = dir
	}
	if format := os.Getenv("CPPDOC_FORMAT"); format != "" {
		cfg.Output.Format = format
	}
	if v := os.Getenv("CPPDOC_EXTRACT_PRIVATE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("CPPDOC_EXTRACT_PRIVATE: %w", err)
		}
		cfg.Blacklist.ExtractPrivate = b
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that have no usable fallback.
func (c *Config) Validate() error {
	switch c.Output.Format {
	case "markdown", "html":
	default:
		return fmt.Errorf("unsupported output format %q", c.Output.Format)
	}
	if c.Output.TabWidth < 0 {
		return fmt.Errorf("invalid tab_width %d", c.Output.TabWidth)
	}
	if len(c.Project.Extensions) == 0 {
		return errors.New("project.extensions is empty")
	}
	return nil
}
