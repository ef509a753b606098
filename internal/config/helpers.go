package config

import (
	"os"
	"path/filepath"
)

// HomeEnvVar overrides the default home directory.
const HomeEnvVar = "ONTOGRAPH_HOME"

// DefaultHomeDir returns the ontograph home directory: $ONTOGRAPH_HOME, then
// ~/.ontograph, falling back to a temporary directory if the user home
// cannot be determined.
func DefaultHomeDir() string {
	if home := os.Getenv(HomeEnvVar); home != "" {
		return home
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".ontograph")
	}
	return filepath.Join(userHome, ".ontograph")
}

// DefaultConfigPath returns the default config file path for a given home directory
func DefaultConfigPath(homeDir string) string {
	return filepath.Join(homeDir, "config.yaml")
}

const redacted = "********"

// Redacted returns a copy of cfg with secrets masked, for display.
func (c *Config) Redacted() *Config {
	out := *c
	if out.LLM.APIKey != "" {
		out.LLM.APIKey = redacted
	}
	if out.Embedder.APIKey != "" {
		out.Embedder.APIKey = redacted
	}
	if out.Graph.Password != "" {
		out.Graph.Password = redacted
	}
	return &out
}
