// internal/aiconfig/types.go
package aiconfig

import "fmt"

// Fallback metadata for models the catalog and the existing entry know
// nothing about.
const (
	DefaultContextWindow = 200000
	DefaultMaxTokens     = 8192
)

// ConfiguredModel is one model of a configured provider as presented to the
// frontend. FullID is "<provider>:<model>" and unique across the store.
type ConfiguredModel struct {
	FullID        string `json:"full_id"`
	ID            string `json:"id"`
	Name          string `json:"name"`
	APIType       string `json:"api_type,omitempty"`
	ContextWindow int    `json:"context_window,omitempty"`
	MaxTokens     int    `json:"max_tokens,omitempty"`
	IsPrimary     bool   `json:"is_primary"`
}

// ConfiguredProvider is a configured entry as presented to the frontend.
// The stored API key never leaves the backend; only the mask does.
type ConfiguredProvider struct {
	Name         string            `json:"name"`
	BaseURL      string            `json:"base_url"`
	APIKeyMasked string            `json:"api_key_masked,omitempty"`
	HasAPIKey    bool              `json:"has_api_key"`
	Models       []ConfiguredModel `json:"models"`
}

// Overview is the derived snapshot of the whole AI configuration.
type Overview struct {
	PrimaryModel        string               `json:"primary_model,omitempty"`
	ConfiguredProviders []ConfiguredProvider `json:"configured_providers"`
	AvailableModels     []string             `json:"available_models"`
}

// ProviderView is a configured provider annotated with catalog metadata and
// the endpoint-conflict flag.
type ProviderView struct {
	ConfiguredProvider
	Icon             string `json:"icon"`
	DocsURL          string `json:"docs_url,omitempty"`
	EndpointConflict bool   `json:"endpoint_conflict"`
}

// FullModelID builds the store-wide unique model identifier.
func FullModelID(providerName, modelID string) string {
	return providerName + ":" + modelID
}

// ValidationError reports a missing required field. It is surfaced as an
// inline form error and never crosses the external boundary.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("required field missing: %s", e.Field)
}

// ConflictError is the soft endpoint-conflict warning: the entry name
// matches an official provider but the endpoint diverges from its default.
// SuggestedName is only set for newly created entries; retrying the same
// save with Force set bypasses the warning.
type ConflictError struct {
	Name          string
	SuggestedName string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("provider %q uses an official name with a custom endpoint", e.Name)
}

// NotFoundError reports a referenced entity that is absent from the store.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.ID)
}
