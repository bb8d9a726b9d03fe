// internal/database/db_test.go
package database

import (
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *Database {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestDatabase_Open(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer db.Close()

	// Verify file exists
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestDatabase_AIProvider(t *testing.T) {
	db := openTestDB(t)

	provider := &AIProvider{
		Name:    "deepseek",
		BaseURL: "https://api.deepseek.com/v1",
		APIKey:  "sealed-key",
		APIType: "openai-completions",
		Models: []ProviderModel{
			{ID: "deepseek-chat", Name: "DeepSeek Chat", ContextWindow: 64000, MaxTokens: 8192},
		},
	}

	if err := db.SaveAIProvider(provider); err != nil {
		t.Fatalf("SaveAIProvider failed: %v", err)
	}

	retrieved, err := db.GetAIProvider("deepseek")
	if err != nil {
		t.Fatalf("GetAIProvider failed: %v", err)
	}
	if retrieved.BaseURL != "https://api.deepseek.com/v1" {
		t.Errorf("Expected base URL to round-trip, got '%s'", retrieved.BaseURL)
	}
	if len(retrieved.Models) != 1 || retrieved.Models[0].ID != "deepseek-chat" {
		t.Errorf("Expected one model 'deepseek-chat', got %+v", retrieved.Models)
	}
	if retrieved.CreatedAt.IsZero() || retrieved.UpdatedAt.IsZero() {
		t.Error("Expected timestamps to be set")
	}
}

func TestDatabase_AIProvider_Replace(t *testing.T) {
	db := openTestDB(t)

	provider := &AIProvider{
		Name:    "openai",
		BaseURL: "https://api.openai.com/v1",
		Models:  []ProviderModel{{ID: "gpt-4o"}, {ID: "gpt-4o-mini"}},
	}
	if err := db.SaveAIProvider(provider); err != nil {
		t.Fatalf("SaveAIProvider failed: %v", err)
	}

	// Saving the same name replaces the entry whole
	provider.Models = []ProviderModel{{ID: "o3-mini"}}
	if err := db.SaveAIProvider(provider); err != nil {
		t.Fatalf("SaveAIProvider (replace) failed: %v", err)
	}

	retrieved, err := db.GetAIProvider("openai")
	if err != nil {
		t.Fatalf("GetAIProvider failed: %v", err)
	}
	if len(retrieved.Models) != 1 || retrieved.Models[0].ID != "o3-mini" {
		t.Errorf("Expected replaced model list, got %+v", retrieved.Models)
	}

	all, err := db.GetAllAIProviders()
	if err != nil {
		t.Fatalf("GetAllAIProviders failed: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("Expected 1 provider, got %d", len(all))
	}
}

func TestDatabase_DeleteAIProvider(t *testing.T) {
	db := openTestDB(t)

	if err := db.SaveAIProvider(&AIProvider{Name: "ollama", BaseURL: "http://localhost:11434/v1"}); err != nil {
		t.Fatalf("SaveAIProvider failed: %v", err)
	}
	if err := db.DeleteAIProvider("ollama"); err != nil {
		t.Fatalf("DeleteAIProvider failed: %v", err)
	}
	if _, err := db.GetAIProvider("ollama"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("Expected sql.ErrNoRows after delete, got %v", err)
	}

	// Deleting a missing entry reports sql.ErrNoRows
	if err := db.DeleteAIProvider("ollama"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("Expected sql.ErrNoRows for missing entry, got %v", err)
	}
}

func TestDatabase_ChannelConfig(t *testing.T) {
	db := openTestDB(t)

	cfg := &ChannelConfig{
		ID:          "ch-1",
		ChannelType: "telegram",
		Enabled:     true,
		Config:      map[string]string{"botToken": "sealed", "userId": "42"},
	}
	if err := db.SaveChannelConfig(cfg); err != nil {
		t.Fatalf("SaveChannelConfig failed: %v", err)
	}

	retrieved, err := db.GetChannelConfigByType("telegram")
	if err != nil {
		t.Fatalf("GetChannelConfigByType failed: %v", err)
	}
	if retrieved.ID != "ch-1" || !retrieved.Enabled {
		t.Errorf("Unexpected channel config: %+v", retrieved)
	}
	if retrieved.Config["userId"] != "42" {
		t.Errorf("Expected config map to round-trip, got %+v", retrieved.Config)
	}

	all, err := db.GetAllChannelConfigs()
	if err != nil {
		t.Fatalf("GetAllChannelConfigs failed: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("Expected 1 channel config, got %d", len(all))
	}

	if err := db.DeleteChannelConfig("ch-1"); err != nil {
		t.Fatalf("DeleteChannelConfig failed: %v", err)
	}
	if err := db.DeleteChannelConfig("ch-1"); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("Expected sql.ErrNoRows for missing config, got %v", err)
	}
}

func TestDatabase_Settings(t *testing.T) {
	db := openTestDB(t)

	if err := db.SaveSetting("primary_model", "openai:gpt-4o"); err != nil {
		t.Fatalf("SaveSetting failed: %v", err)
	}

	value, err := db.GetSetting("primary_model")
	if err != nil {
		t.Fatalf("GetSetting failed: %v", err)
	}
	if value != "openai:gpt-4o" {
		t.Errorf("Expected 'openai:gpt-4o', got '%s'", value)
	}

	// Overwrite
	if err := db.SaveSetting("primary_model", "deepseek:deepseek-chat"); err != nil {
		t.Fatalf("SaveSetting (overwrite) failed: %v", err)
	}
	value, _ = db.GetSetting("primary_model")
	if value != "deepseek:deepseek-chat" {
		t.Errorf("Expected overwritten value, got '%s'", value)
	}

	// Unset key reads as empty, not an error
	value, err = db.GetSetting("missing")
	if err != nil {
		t.Fatalf("GetSetting for missing key failed: %v", err)
	}
	if value != "" {
		t.Errorf("Expected empty value for missing key, got '%s'", value)
	}

	if err := db.DeleteSetting("primary_model"); err != nil {
		t.Fatalf("DeleteSetting failed: %v", err)
	}
	value, _ = db.GetSetting("primary_model")
	if value != "" {
		t.Errorf("Expected empty value after delete, got '%s'", value)
	}
}
