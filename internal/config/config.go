// Package config loads the gitrepo configuration file.
//
// The file is TOML and optional: a missing file yields Default(). Values
// set in the file override the defaults; command-line flags override both.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config holds all gitrepo configuration.
type Config struct {
	Git       GitConfig       `toml:"git"`
	Bootstrap BootstrapConfig `toml:"bootstrap"`
	Output    OutputConfig    `toml:"output"`
}

// GitConfig holds settings for invoking git.
type GitConfig struct {
	// Binary is the git executable to run.
	Binary string `toml:"binary"`

	// Remote is the remote whose prefix is stripped from remote branch names.
	Remote string `toml:"remote"`
}

// BootstrapConfig holds defaults for the bootstrap command.
type BootstrapConfig struct {
	DefaultBranch string `toml:"default_branch"`
	UserEmail     string `toml:"user_email"`
	Template      string `toml:"template"`
}

// OutputConfig holds terminal output settings.
type OutputConfig struct {
	Color bool `toml:"color"`
}

// Default returns a Config with sensible defaults
func Default() *Config {
	return &Config{
		Git: GitConfig{
			Binary: "git",
			Remote: "origin",
		},
		Bootstrap: BootstrapConfig{
			DefaultBranch: "main",
		},
		Output: OutputConfig{
			Color: true,
		},
	}
}

// Load reads configuration from a TOML file, falling back to defaults
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(ExpandPath(path))
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	cfg.Git.Binary = ExpandPath(cfg.Git.Binary)
	cfg.Bootstrap.Template = ExpandPath(cfg.Bootstrap.Template)

	if strings.TrimSpace(cfg.Git.Binary) == "" {
		cfg.Git.Binary = "git"
	}
	if strings.TrimSpace(cfg.Git.Remote) == "" {
		cfg.Git.Remote = "origin"
	}
	return cfg, nil
}

// ExpandPath expands ~ to the user's home directory
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// DefaultConfigPath returns the default config file location
func DefaultConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "gitrepo", "config.toml")
}
