// internal/secrets/secrets_test.go
package secrets

import (
	"os"
	"path/filepath"
	"testing"
)

func TestKeeper_LoadCreatesKey(t *testing.T) {
	keyPath := filepath.Join(t.TempDir(), "secret.key")

	if _, err := Load(keyPath); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	info, err := os.Stat(keyPath)
	if err != nil {
		t.Fatalf("Key file was not created: %v", err)
	}
	if info.Size() != keySize {
		t.Errorf("Expected %d byte key, got %d", keySize, info.Size())
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("Expected 0600 permissions, got %v", info.Mode().Perm())
	}
}

func TestKeeper_SealOpen(t *testing.T) {
	keyPath := filepath.Join(t.TempDir(), "secret.key")
	keeper, err := Load(keyPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	sealed, err := keeper.Seal("sk-test-1234567890")
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}
	if sealed == "sk-test-1234567890" {
		t.Error("Sealed value must not equal plaintext")
	}

	opened, err := keeper.Open(sealed)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if opened != "sk-test-1234567890" {
		t.Errorf("Expected plaintext to round-trip, got '%s'", opened)
	}
}

func TestKeeper_SealOpen_Empty(t *testing.T) {
	keeper, err := Load(filepath.Join(t.TempDir(), "secret.key"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	sealed, err := keeper.Seal("")
	if err != nil || sealed != "" {
		t.Errorf("Expected empty value to pass through, got '%s', err %v", sealed, err)
	}
	opened, err := keeper.Open("")
	if err != nil || opened != "" {
		t.Errorf("Expected empty value to pass through, got '%s', err %v", opened, err)
	}
}

func TestKeeper_KeyPersistsAcrossLoads(t *testing.T) {
	keyPath := filepath.Join(t.TempDir(), "secret.key")

	first, err := Load(keyPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	sealed, err := first.Seal("credential")
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}

	second, err := Load(keyPath)
	if err != nil {
		t.Fatalf("Second Load failed: %v", err)
	}
	opened, err := second.Open(sealed)
	if err != nil {
		t.Fatalf("Open with reloaded key failed: %v", err)
	}
	if opened != "credential" {
		t.Errorf("Expected 'credential', got '%s'", opened)
	}
}

func TestKeeper_Open_Malformed(t *testing.T) {
	keeper, err := Load(filepath.Join(t.TempDir(), "secret.key"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if _, err := keeper.Open("not-base64!!!"); err == nil {
		t.Error("Expected error for malformed input")
	}
	if _, err := keeper.Open("c2hvcnQ="); err == nil {
		t.Error("Expected error for truncated input")
	}
}

func TestKeeper_Open_WrongKey(t *testing.T) {
	tmpDir := t.TempDir()

	one, err := Load(filepath.Join(tmpDir, "a.key"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	other, err := Load(filepath.Join(tmpDir, "b.key"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	sealed, err := one.Seal("secret")
	if err != nil {
		t.Fatalf("Seal failed: %v", err)
	}
	if _, err := other.Open(sealed); err == nil {
		t.Error("Expected error when opening with a different key")
	}
}
