// Package config provides configuration loading and structs for the Tadasu CLI and server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug      bool             `yaml:"debug"`
	Content    ContentConfig    `yaml:"content"`
	Server     ServerConfig     `yaml:"server"`
	Storage    StorageConfig    `yaml:"storage"`
	SpellCheck SpellCheckConfig `yaml:"spell_check"`
}

// ContentConfig holds the content tree settings.
type ContentConfig struct {
	// Root is the content root: the directory holding site.yaml and the
	// governed folders. Commands accept an override on the command line.
	Root string `yaml:"root"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// StorageConfig holds the run-history database path.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// SpellCheckConfig holds the credentials for the remote spell-check endpoint.
// Per-folder spell-check parameters (model, prompt, temperature) live in each
// folder's rule set; only the key and endpoint are tool-level.
type SpellCheckConfig struct {
	// APIKey authenticates against the endpoint. When empty, APIKeyEnv names
	// an environment variable to read it from.
	APIKey    string `yaml:"api_key"`
	APIKeyEnv string `yaml:"api_key_env"`
	// Endpoint overrides the API base URL (e.g. a local OpenAI-compatible
	// server). Empty means the default.
	Endpoint string `yaml:"endpoint"`
}

// ResolveAPIKey returns the configured API key, falling back to the named
// environment variable.
func (s *SpellCheckConfig) ResolveAPIKey() string {
	if s.APIKey != "" {
		return s.APIKey
	}
	if s.APIKeyEnv != "" {
		return os.Getenv(s.APIKeyEnv)
	}
	return ""
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)
	if cfg.Content.Root != "" {
		cfg.Content.Root = expandPath(cfg.Content.Root, configDir)
	}

	return &cfg, nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
