// internal/database/models.go
package database

import "time"

// ProviderModel is one model inside a configured AI provider entry.
// APIType applies uniformly to every model of the entry; it is stored per
// model so the gateway config stays self-describing.
type ProviderModel struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	APIType       string `json:"api,omitempty"`
	ContextWindow int    `json:"context_window,omitempty"`
	MaxTokens     int    `json:"max_tokens,omitempty"`
}

// AIProvider is a configured AI provider entry. Name is the primary key and
// immutable once created; APIKey is stored sealed by the caller.
type AIProvider struct {
	Name      string          `json:"name"`
	BaseURL   string          `json:"base_url"`
	APIKey    string          `json:"api_key,omitempty"`
	APIType   string          `json:"api_type"`
	Models    []ProviderModel `json:"models"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ChannelConfig is a configured messaging channel. Config holds the field
// values keyed by the channel definition's field keys; secret fields are
// sealed by the caller before saving.
type ChannelConfig struct {
	ID          string            `json:"id"`
	ChannelType string            `json:"channel_type"`
	Enabled     bool              `json:"enabled"`
	Config      map[string]string `json:"config"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// Setting stores application settings
type Setting struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SettingPrimaryModel is the settings key holding the store-wide primary
// model pointer (a full model ID, "<provider>:<model>").
const SettingPrimaryModel = "primary_model"
