// internal/channels/manager_test.go
package channels

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"clawdeck/internal/database"
	"clawdeck/internal/secrets"
)

// fakeTester records the config it receives and reports success.
type fakeTester struct {
	gotType   string
	gotConfig map[string]string
}

func (f *fakeTester) TestChannel(ctx context.Context, channelType string, config map[string]string) TestResult {
	f.gotType = channelType
	f.gotConfig = config
	return TestResult{Success: true, Channel: channelType, Message: "test message sent"}
}

func newTestChannelManager(t *testing.T) (*Manager, *fakeTester) {
	t.Helper()
	tmpDir := t.TempDir()

	db, err := database.Open(filepath.Join(tmpDir, "test.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	keeper, err := secrets.Load(filepath.Join(tmpDir, "secret.key"))
	if err != nil {
		t.Fatalf("Load keeper failed: %v", err)
	}

	tester := &fakeTester{}
	return NewManager(db, keeper, Definitions(), tester), tester
}

func TestChannelManager_ListUnconfigured(t *testing.T) {
	m, _ := newTestChannelManager(t)

	views, err := m.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(views) != len(Definitions()) {
		t.Fatalf("Expected every definition listed, got %d", len(views))
	}
	for _, v := range views {
		if v.Configured || v.Enabled || v.ID != "" {
			t.Errorf("Expected %s unconfigured, got %+v", v.Type, v)
		}
	}
}

func TestChannelManager_SaveAndList(t *testing.T) {
	m, _ := newTestChannelManager(t)

	err := m.Save("telegram", true, map[string]string{
		"botToken": "123456:ABC-DEF",
		"userId":   "42",
		"dmPolicy": "pairing",
	})
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	views, err := m.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	var telegram *View
	for i := range views {
		if views[i].Type == "telegram" {
			telegram = &views[i]
		}
	}
	if telegram == nil {
		t.Fatal("telegram missing from list")
	}
	if !telegram.Configured || !telegram.Enabled || telegram.ID == "" {
		t.Errorf("Unexpected telegram view: %+v", telegram)
	}
	// Secrets come back masked, plain fields verbatim
	if telegram.Config["botToken"] == "123456:ABC-DEF" || telegram.Config["botToken"] == "" {
		t.Errorf("Expected masked token, got '%s'", telegram.Config["botToken"])
	}
	if telegram.Config["userId"] != "42" {
		t.Errorf("Expected plain field to round-trip, got '%s'", telegram.Config["userId"])
	}
}

func TestChannelManager_SaveValidation(t *testing.T) {
	m, _ := newTestChannelManager(t)

	// telegram requires botToken and userId
	err := m.Save("telegram", true, map[string]string{"userId": "42"})
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Field != "botToken" {
		t.Errorf("Expected ValidationError for botToken, got %v", err)
	}

	var nf *NotFoundError
	if err := m.Save("carrier-pigeon", true, nil); !errors.As(err, &nf) {
		t.Errorf("Expected NotFoundError for unknown channel, got %v", err)
	}
}

func TestChannelManager_SecretRetention(t *testing.T) {
	m, tester := newTestChannelManager(t)

	if err := m.Save("telegram", true, map[string]string{
		"botToken": "original-token",
		"userId":   "42",
	}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Resubmit with the token blank: stored secret satisfies the
	// requirement and survives
	if err := m.Save("telegram", false, map[string]string{
		"botToken": "",
		"userId":   "43",
	}); err != nil {
		t.Fatalf("Resave failed: %v", err)
	}

	if _, err := m.Test(context.Background(), "telegram"); err != nil {
		t.Fatalf("Test failed: %v", err)
	}
	if tester.gotConfig["botToken"] != "original-token" {
		t.Errorf("Expected retained secret opened for the test, got '%s'", tester.gotConfig["botToken"])
	}
	if tester.gotConfig["userId"] != "43" {
		t.Errorf("Expected updated plain field, got '%s'", tester.gotConfig["userId"])
	}
}

func TestChannelManager_SaveKeepsID(t *testing.T) {
	m, _ := newTestChannelManager(t)

	if err := m.Save("discord", true, map[string]string{"botToken": "tok"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	views, _ := m.List()
	var firstID string
	for _, v := range views {
		if v.Type == "discord" {
			firstID = v.ID
		}
	}

	if err := m.Save("discord", false, map[string]string{"botToken": "tok2"}); err != nil {
		t.Fatalf("Resave failed: %v", err)
	}
	views, _ = m.List()
	for _, v := range views {
		if v.Type == "discord" && v.ID != firstID {
			t.Errorf("Expected stable id across saves, got %s then %s", firstID, v.ID)
		}
	}
}

func TestChannelManager_Clear(t *testing.T) {
	m, _ := newTestChannelManager(t)

	if err := m.Save("slack", true, map[string]string{"botToken": "xoxb-1"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	views, _ := m.List()
	var id string
	for _, v := range views {
		if v.Type == "slack" {
			id = v.ID
		}
	}

	if err := m.Clear(id); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	var nf *NotFoundError
	if err := m.Clear(id); !errors.As(err, &nf) {
		t.Errorf("Expected NotFoundError for cleared config, got %v", err)
	}
}

func TestChannelManager_TestUnconfigured(t *testing.T) {
	m, _ := newTestChannelManager(t)

	var nf *NotFoundError
	if _, err := m.Test(context.Background(), "telegram"); !errors.As(err, &nf) {
		t.Errorf("Expected NotFoundError for unconfigured channel, got %v", err)
	}
}

func TestDefinition_SecretKeys(t *testing.T) {
	def := GetDefinition(Definitions(), "slack")
	if def == nil {
		t.Fatal("slack definition missing")
	}
	secret := def.SecretKeys()
	if !secret["botToken"] || !secret["appToken"] {
		t.Errorf("Expected password fields flagged, got %v", secret)
	}
	if secret["testChannelId"] {
		t.Error("Plain field must not be flagged secret")
	}
}
