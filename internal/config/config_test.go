// internal/config/config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.ClawdeckDir != filepath.Join(home, ".clawdeck") {
		t.Errorf("Unexpected data dir: %s", cfg.ClawdeckDir)
	}
	if cfg.DatabasePath != filepath.Join(home, ".clawdeck", "clawdeck.db") {
		t.Errorf("Unexpected database path: %s", cfg.DatabasePath)
	}
	if cfg.KeyPath != filepath.Join(home, ".clawdeck", "secret.key") {
		t.Errorf("Unexpected key path: %s", cfg.KeyPath)
	}

	// Data and log directories are created eagerly
	for _, dir := range []string{cfg.ClawdeckDir, cfg.LogDir} {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			t.Errorf("Expected directory %s to exist: %v", dir, err)
		}
	}

	// The gateway's own dir is not created until a config is written
	if _, err := os.Stat(cfg.OpenclawDir); !os.IsNotExist(err) {
		t.Errorf("Expected %s to not exist yet", cfg.OpenclawDir)
	}

	if cfg.GatewayConfigPath() != filepath.Join(home, ".openclaw", "openclaw.yaml") {
		t.Errorf("Unexpected gateway config path: %s", cfg.GatewayConfigPath())
	}
}
