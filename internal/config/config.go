// internal/config/config.go
package config

import (
	"os"
	"path/filepath"
)

// Config holds all application configuration paths
type Config struct {
	HomeDir        string
	ClawdeckDir    string
	OpenclawDir    string
	DatabasePath   string
	KeyPath        string
	LogDir         string
	GatewayLogPath string
}

// Load creates a Config instance with resolved paths
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	clawdeckDir := filepath.Join(home, ".clawdeck")
	openclawDir := filepath.Join(home, ".openclaw")
	logDir := filepath.Join(clawdeckDir, "logs")

	// Ensure directories exist
	for _, dir := range []string{clawdeckDir, logDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}

	return &Config{
		HomeDir:        home,
		ClawdeckDir:    clawdeckDir,
		OpenclawDir:    openclawDir,
		DatabasePath:   filepath.Join(clawdeckDir, "clawdeck.db"),
		KeyPath:        filepath.Join(clawdeckDir, "secret.key"),
		LogDir:         logDir,
		GatewayLogPath: filepath.Join(logDir, "gateway.log"),
	}, nil
}

// GatewayConfigPath returns the path of the rendered gateway config file.
func (c *Config) GatewayConfigPath() string {
	return filepath.Join(c.OpenclawDir, "openclaw.yaml")
}
