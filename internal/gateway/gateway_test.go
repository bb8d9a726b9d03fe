// internal/gateway/gateway_test.go
package gateway

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"clawdeck/internal/channels"
	"clawdeck/internal/database"
	"clawdeck/internal/secrets"
)

func TestProcess_GracefulShutdown(t *testing.T) {
	proc := newProcess(exec.Command("sleep", "10"))
	if err := proc.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if !proc.IsRunning() {
		t.Error("Process should be alive after start")
	}

	if err := proc.GracefulShutdown(context.Background()); err != nil {
		t.Errorf("GracefulShutdown failed: %v", err)
	}

	select {
	case <-proc.Done():
	case <-time.After(2 * time.Second):
		t.Error("Process should be dead after shutdown")
	}
	if proc.IsRunning() {
		t.Error("Process should report not running")
	}
}

func TestProcess_ExitDetection(t *testing.T) {
	proc := newProcess(exec.Command("echo", "hello"))
	if err := proc.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	select {
	case <-proc.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("Short-lived process never reported exit")
	}
	if proc.IsRunning() {
		t.Error("Process should report not running after exit")
	}
}

func TestRenderConfig(t *testing.T) {
	tmpDir := t.TempDir()

	db, err := database.Open(filepath.Join(tmpDir, "test.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer db.Close()

	keeper, err := secrets.Load(filepath.Join(tmpDir, "secret.key"))
	if err != nil {
		t.Fatalf("Load keeper failed: %v", err)
	}

	sealedKey, err := keeper.Seal("sk-plain")
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}
	if err := db.SaveAIProvider(&database.AIProvider{
		Name:    "openai",
		BaseURL: "https://api.openai.com/v1",
		APIKey:  sealedKey,
		APIType: "openai-completions",
		Models:  []database.ProviderModel{{ID: "gpt-4o", Name: "GPT-4o", ContextWindow: 128000, MaxTokens: 16384}},
	}); err != nil {
		t.Fatalf("SaveAIProvider failed: %v", err)
	}
	if err := db.SaveSetting(database.SettingPrimaryModel, "openai:gpt-4o"); err != nil {
		t.Fatalf("SaveSetting failed: %v", err)
	}

	sealedToken, err := keeper.Seal("bot-token")
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}
	if err := db.SaveChannelConfig(&database.ChannelConfig{
		ID:          "ch-1",
		ChannelType: "telegram",
		Enabled:     true,
		Config:      map[string]string{"botToken": sealedToken, "userId": "42"},
	}); err != nil {
		t.Fatalf("SaveChannelConfig failed: %v", err)
	}

	cfg, err := renderConfig(db, keeper, channels.Definitions(), 8790)
	if err != nil {
		t.Fatalf("renderConfig failed: %v", err)
	}

	if cfg.Gateway.Port != 8790 {
		t.Errorf("Expected port 8790, got %d", cfg.Gateway.Port)
	}
	if cfg.PrimaryModel != "openai:gpt-4o" {
		t.Errorf("Expected primary model, got '%s'", cfg.PrimaryModel)
	}
	if len(cfg.Providers) != 1 {
		t.Fatalf("Expected 1 provider, got %d", len(cfg.Providers))
	}
	// The rendered file carries opened credentials
	if cfg.Providers[0].APIKey != "sk-plain" {
		t.Errorf("Expected opened api key, got '%s'", cfg.Providers[0].APIKey)
	}
	telegram, ok := cfg.Channels["telegram"]
	if !ok {
		t.Fatal("telegram channel missing from config")
	}
	if !telegram.Enabled || telegram.Config["botToken"] != "bot-token" {
		t.Errorf("Unexpected telegram section: %+v", telegram)
	}
}

func TestWriteConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "openclaw.yaml")

	cfg := &runtimeConfig{
		Gateway:      gatewaySection{Port: 8790},
		PrimaryModel: "openai:gpt-4o",
		Providers: []providerSection{
			{Name: "openai", BaseURL: "https://api.openai.com/v1", APIKey: "sk-plain"},
		},
	}
	if err := writeConfig(path, cfg); err != nil {
		t.Fatalf("writeConfig failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Config file missing: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("Expected 0600 permissions, got %v", info.Mode().Perm())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	var parsed runtimeConfig
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("Expected valid YAML: %v", err)
	}
	if parsed.PrimaryModel != "openai:gpt-4o" || parsed.Providers[0].Name != "openai" {
		t.Errorf("Unexpected round-trip: %+v", parsed)
	}
}
