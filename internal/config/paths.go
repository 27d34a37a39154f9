package config

import (
	"os"
	"path/filepath"
)

// AgentdPath returns the agentd home directory ($AGENTD_PATH or ~/.agentd).
func AgentdPath() string {
	if p := os.Getenv("AGENTD_PATH"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".agentd"
	}
	return filepath.Join(home, ".agentd")
}

// ConfigPath returns the default config file location.
func ConfigPath() string {
	return filepath.Join(AgentdPath(), "config.yaml")
}

// DotenvPath returns the default .env file location.
func DotenvPath() string {
	return filepath.Join(AgentdPath(), ".env")
}

// StylePath returns the directory holding the presentation style resource
// bundles (logos, backgrounds) injected by the deck assembler.
func StylePath() string {
	return filepath.Join(AgentdPath(), "styles")
}
