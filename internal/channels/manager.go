// internal/channels/manager.go
package channels

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"clawdeck/internal/database"
	"clawdeck/internal/secrets"
)

// TestResult is the outcome of an opaque round-trip test of a channel.
type TestResult struct {
	Success bool   `json:"success"`
	Channel string `json:"channel"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// Tester performs the round-trip test against the running gateway.
// The manager neither retries nor interprets failures.
type Tester interface {
	TestChannel(ctx context.Context, channelType string, config map[string]string) TestResult
}

// ValidationError reports a missing required channel field.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("required field missing: %s", e.Field)
}

// NotFoundError reports an unknown channel type or config id.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}

// View is a channel definition merged with its stored configuration.
// Secret field values are masked; the raw values never leave the backend.
type View struct {
	Definition
	ID         string            `json:"id,omitempty"`
	Enabled    bool              `json:"enabled"`
	Configured bool              `json:"configured"`
	Config     map[string]string `json:"config"`
}

// Manager maintains channel configurations against their definitions.
// Same shape as the AI provider manager, without the endpoint-conflict
// flow: channels carry field schemas instead of model lists.
type Manager struct {
	db     *database.Database
	keeper *secrets.Keeper
	defs   []Definition
	tester Tester
}

// NewManager creates a new channel manager
func NewManager(db *database.Database, keeper *secrets.Keeper, defs []Definition, tester Tester) *Manager {
	return &Manager{db: db, keeper: keeper, defs: defs, tester: tester}
}

// Definitions returns the channel catalog.
func (m *Manager) Definitions() []Definition {
	return m.defs
}

// List returns every defined channel merged with its stored configuration.
func (m *Manager) List() ([]View, error) {
	configs, err := m.db.GetAllChannelConfigs()
	if err != nil {
		return nil, fmt.Errorf("failed to load channel configs: %w", err)
	}

	byType := make(map[string]*database.ChannelConfig, len(configs))
	for _, c := range configs {
		byType[c.ChannelType] = c
	}

	views := make([]View, 0, len(m.defs))
	for _, def := range m.defs {
		view := View{Definition: def, Config: map[string]string{}}
		if stored, ok := byType[def.Type]; ok {
			view.ID = stored.ID
			view.Enabled = stored.Enabled
			view.Configured = len(stored.Config) > 0
			secret := def.SecretKeys()
			for key, value := range stored.Config {
				if secret[key] {
					view.Config[key] = maskSecret(value != "")
				} else {
					view.Config[key] = value
				}
			}
		}
		views = append(views, view)
	}
	return views, nil
}

// Save validates and stores a channel configuration whole. For password
// fields an empty submitted value keeps the stored one; non-empty values
// replace it. Required fields must be satisfied by the submission or, for
// secrets, by a previously stored value.
func (m *Manager) Save(channelType string, enabled bool, config map[string]string) error {
	def := GetDefinition(m.defs, channelType)
	if def == nil {
		return &NotFoundError{Kind: "channel", ID: channelType}
	}

	existing, err := m.db.GetChannelConfigByType(channelType)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("failed to load channel config: %w", err)
	}

	secret := def.SecretKeys()
	stored := make(map[string]string, len(config))

	for _, field := range def.Fields {
		value := strings.TrimSpace(config[field.Key])

		if secret[field.Key] {
			switch {
			case value != "":
				sealed, err := m.keeper.Seal(value)
				if err != nil {
					return fmt.Errorf("failed to seal %s: %w", field.Key, err)
				}
				stored[field.Key] = sealed
			case existing != nil && existing.Config[field.Key] != "":
				stored[field.Key] = existing.Config[field.Key]
			}
		} else if value != "" {
			stored[field.Key] = value
		}

		if field.Required && stored[field.Key] == "" {
			return &ValidationError{Field: field.Key}
		}
	}

	entry := &database.ChannelConfig{
		ID:          uuid.New().String(),
		ChannelType: channelType,
		Enabled:     enabled,
		Config:      stored,
	}
	if existing != nil {
		entry.ID = existing.ID
	}

	if err := m.db.SaveChannelConfig(entry); err != nil {
		return fmt.Errorf("failed to save channel config: %w", err)
	}
	return nil
}

// Clear removes a channel configuration by id.
func (m *Manager) Clear(id string) error {
	if err := m.db.DeleteChannelConfig(id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &NotFoundError{Kind: "channel config", ID: id}
		}
		return fmt.Errorf("failed to delete channel config: %w", err)
	}
	return nil
}

// Test runs one opaque round-trip against the gateway for the channel.
// The stored secrets are opened only for the duration of the call.
func (m *Manager) Test(ctx context.Context, channelType string) (*TestResult, error) {
	def := GetDefinition(m.defs, channelType)
	if def == nil {
		return nil, &NotFoundError{Kind: "channel", ID: channelType}
	}

	stored, err := m.db.GetChannelConfigByType(channelType)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &NotFoundError{Kind: "channel config", ID: channelType}
		}
		return nil, fmt.Errorf("failed to load channel config: %w", err)
	}

	secret := def.SecretKeys()
	config := make(map[string]string, len(stored.Config))
	for key, value := range stored.Config {
		if secret[key] {
			opened, err := m.keeper.Open(value)
			if err != nil {
				return nil, fmt.Errorf("failed to open %s: %w", key, err)
			}
			config[key] = opened
		} else {
			config[key] = value
		}
	}

	result := m.tester.TestChannel(ctx, channelType, config)
	return &result, nil
}

func maskSecret(set bool) string {
	if set {
		return "••••••••"
	}
	return ""
}
