// Package config loads the optional sphinxkit.yaml configuration file.
//
// All settings have working defaults; a project without a config file builds
// with the package conventions alone. Environment variables referenced in the
// YAML are expanded before parsing, and .env files are loaded first so local
// overrides work the same way in CI and on developer machines.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	derrors "git.home.luguber.info/inful/sphinxkit/internal/errors"
)

// DefaultPath is the config filename probed in the project root when no
// --config flag is given.
const DefaultPath = "sphinxkit.yaml"

// Config is the root configuration structure.
type Config struct {
	// Name overrides package-name detection (setup.py / pyproject.toml).
	Name string `yaml:"name,omitempty"`
	// Title overrides the derived docs title ("<Name>-Docs").
	Title string `yaml:"title,omitempty"`
	// PluginPrefix marks methoddocs entries that belong to plugins rather
	// than the core package. Entries with this prefix get their own TOC
	// section.
	PluginPrefix string `yaml:"plugin_prefix,omitempty"`
	// PagesBranch is the branch used by the publish command.
	PagesBranch string `yaml:"pages_branch,omitempty"`

	Serve   ServeConfig   `yaml:"serve,omitempty"`
	History HistoryConfig `yaml:"history,omitempty"`
}

// ServeConfig configures the local documentation server.
type ServeConfig struct {
	Host    string `yaml:"host,omitempty"`
	Port    int    `yaml:"port,omitempty"`
	Metrics bool   `yaml:"metrics,omitempty"`
}

// HistoryConfig configures the build-history database.
type HistoryConfig struct {
	// Path to the SQLite database. Empty means the user cache directory.
	Path    string `yaml:"path,omitempty"`
	Disable bool   `yaml:"disable,omitempty"`
}

// Default returns a Config populated with defaults only.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads the config file at configPath. When explicit is false a missing
// file is not an error and defaults are returned.
func Load(configPath string, explicit bool) (*Config, error) {
	loadEnvFiles()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if explicit {
			return nil, derrors.ConfigError(configPath, fmt.Errorf("configuration file not found"))
		}
		return Default(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, derrors.ConfigError(configPath, err)
	}

	// Expand environment variables in the YAML content
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, derrors.ConfigError(configPath, err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.PluginPrefix == "" {
		c.PluginPrefix = "ape-"
	}
	if c.PagesBranch == "" {
		c.PagesBranch = "gh-pages"
	}
	if c.Serve.Host == "" {
		c.Serve.Host = "127.0.0.1"
	}
	if c.Serve.Port == 0 {
		c.Serve.Port = 1337
	}
	if c.History.Path == "" {
		c.History.Path = defaultHistoryPath()
	}
}

func defaultHistoryPath() string {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "sphinxkit", "history.db")
	}
	return filepath.Join(cacheDir, "sphinxkit", "history.db")
}

// loadEnvFiles loads .env/.env.local without overriding the process
// environment, stopping at the first file that parses.
func loadEnvFiles() {
	for _, envPath := range []string{".env", ".env.local"} {
		if _, err := os.Stat(envPath); err != nil {
			continue
		}
		if err := godotenv.Load(envPath); err == nil {
			fmt.Fprintf(os.Stderr, "Loaded environment variables from %s\n", envPath)
			return
		}
	}
}
