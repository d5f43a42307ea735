// Package config loads the user's recipe configuration from
// ~/.printfeed/config.yaml.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Credentials holds the subscriber login.
type Credentials struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// FileConfig represents the structure of ~/.printfeed/config.yaml.
type FileConfig struct {
	Credentials *Credentials `yaml:"credentials,omitempty"`

	// Test-mode limits; zero means unlimited.
	MaxSections           int `yaml:"max_sections,omitempty"`
	MaxArticlesPerSection int `yaml:"max_articles_per_section,omitempty"`

	// ArchivePath, when set, is the SQLite edition archive.
	ArchivePath string `yaml:"archive_path,omitempty"`
}

// Load loads configuration from ~/.printfeed/config.yaml. Returns
// nil if the file doesn't exist (not an error).
func Load() (*FileConfig, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}
	return LoadFrom(filepath.Join(homeDir, ".printfeed", "config.yaml"))
}

// LoadFrom loads configuration from an explicit path. Returns nil if
// the file doesn't exist; returns an error if it exists but cannot
// be parsed.
func LoadFrom(path string) (*FileConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil // File doesn't exist -- not an error
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}
