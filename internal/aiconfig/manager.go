// internal/aiconfig/manager.go
package aiconfig

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"clawdeck/internal/catalog"
	"clawdeck/internal/database"
	"clawdeck/internal/secrets"
)

// Manager reconciles the official provider catalog with the user-owned set
// of configured entries. It holds no state between calls; the database is
// the single source of truth and every save replaces a whole entry.
type Manager struct {
	db      *database.Database
	keeper  *secrets.Keeper
	catalog []catalog.OfficialProvider
}

// NewManager creates a new configuration manager
func NewManager(db *database.Database, keeper *secrets.Keeper, providers []catalog.OfficialProvider) *Manager {
	return &Manager{db: db, keeper: keeper, catalog: providers}
}

// Catalog returns the official provider catalog
func (m *Manager) Catalog() []catalog.OfficialProvider {
	return m.catalog
}

// SaveProviderRequest is the input for creating or editing a provider entry.
// An empty APIKey on an existing entry means "keep the stored key".
// CatalogID optionally pins the official provider the entry was created
// from, so model metadata survives a rename.
type SaveProviderRequest struct {
	Name      string   `json:"name"`
	BaseURL   string   `json:"base_url"`
	APIKey    string   `json:"api_key,omitempty"`
	APIType   string   `json:"api_type"`
	ModelIDs  []string `json:"model_ids"`
	CatalogID string   `json:"catalog_id,omitempty"`
	Force     bool     `json:"force"`
}

// Overview assembles the derived snapshot: all configured providers with
// masked keys, the flattened model ID set, and the primary pointer. The
// primary pointer is reported empty when it no longer resolves to a
// configured model.
func (m *Manager) Overview() (*Overview, error) {
	providers, err := m.db.GetAllAIProviders()
	if err != nil {
		return nil, fmt.Errorf("failed to load providers: %w", err)
	}

	primary, err := m.db.GetSetting(database.SettingPrimaryModel)
	if err != nil {
		return nil, fmt.Errorf("failed to load primary model: %w", err)
	}

	ov := &Overview{
		ConfiguredProviders: make([]ConfiguredProvider, 0, len(providers)),
		AvailableModels:     []string{},
	}

	for _, p := range providers {
		ov.ConfiguredProviders = append(ov.ConfiguredProviders, m.toConfigured(p, primary))
		for _, model := range p.Models {
			ov.AvailableModels = append(ov.AvailableModels, FullModelID(p.Name, model.ID))
		}
	}

	for _, id := range ov.AvailableModels {
		if id == primary {
			ov.PrimaryModel = primary
			break
		}
	}

	return ov, nil
}

// ProviderViews returns the overview entries merged with catalog metadata.
func (m *Manager) ProviderViews() ([]ProviderView, error) {
	ov, err := m.Overview()
	if err != nil {
		return nil, err
	}
	return MergeView(m.catalog, ov), nil
}

// MergeView annotates configured providers with icon, docs link and the
// endpoint-conflict flag from their best catalog match. Unmatched entries
// get a generic icon and no docs link; that is not an error. The input
// overview is not modified.
func MergeView(providers []catalog.OfficialProvider, ov *Overview) []ProviderView {
	views := make([]ProviderView, 0, len(ov.ConfiguredProviders))
	for _, cp := range ov.ConfiguredProviders {
		view := ProviderView{ConfiguredProvider: cp, Icon: "🔌"}
		if official := catalog.Resolve(providers, cp.Name); official != nil {
			view.Icon = official.Icon
			view.DocsURL = official.DocsURL
			view.EndpointConflict = DetectEndpointConflict(official, cp.BaseURL)
		}
		views = append(views, view)
	}
	return views
}

// DetectEndpointConflict reports whether a configured endpoint diverges from
// the matched official provider's default. False when there is no match or
// the match declares no default endpoint.
func DetectEndpointConflict(official *catalog.OfficialProvider, baseURL string) bool {
	return official != nil && official.DefaultBaseURL != "" && baseURL != official.DefaultBaseURL
}

// SuggestAlternateName returns the conventional rename for an entry that
// keeps an official name but points at a custom endpoint.
func SuggestAlternateName(official *catalog.OfficialProvider) string {
	return official.ID + "-custom"
}

// BuildModelConfigs materializes the selected model IDs into stored model
// configs. Each metadata field resolves by priority: the official catalog
// entry, then the model already present on the existing entry, then the
// fallback default. The session's dialect applies to every model uniformly.
func BuildModelConfigs(modelIDs []string, official *catalog.OfficialProvider, existing *database.AIProvider, apiType string) []database.ProviderModel {
	models := make([]database.ProviderModel, 0, len(modelIDs))
	for _, id := range modelIDs {
		model := database.ProviderModel{
			ID:            id,
			Name:          id,
			APIType:       apiType,
			ContextWindow: DefaultContextWindow,
			MaxTokens:     DefaultMaxTokens,
		}

		var prev *database.ProviderModel
		if existing != nil {
			for i := range existing.Models {
				if existing.Models[i].ID == id {
					prev = &existing.Models[i]
					break
				}
			}
		}

		var suggested *catalog.SuggestedModel
		if official != nil {
			suggested = official.SuggestedModel(id)
		}

		// Each field falls through independently: a suggested entry that
		// leaves a field unset must not shadow what the stored model has.
		switch {
		case suggested != nil && suggested.Name != "":
			model.Name = suggested.Name
		case prev != nil && prev.Name != "":
			model.Name = prev.Name
		}
		switch {
		case suggested != nil && suggested.ContextWindow > 0:
			model.ContextWindow = suggested.ContextWindow
		case prev != nil && prev.ContextWindow > 0:
			model.ContextWindow = prev.ContextWindow
		}
		switch {
		case suggested != nil && suggested.MaxTokens > 0:
			model.MaxTokens = suggested.MaxTokens
		case prev != nil && prev.MaxTokens > 0:
			model.MaxTokens = prev.MaxTokens
		}

		models = append(models, model)
	}
	return models
}

// SaveProvider validates the request and replaces the entry whole.
// Failure modes: ValidationError for missing fields, ConflictError when the
// name collides with an official provider id while the endpoint diverges
// (unless Force is set). Editing never changes the entry name; the request
// name selects the entry to edit.
func (m *Manager) SaveProvider(req SaveProviderRequest) (*ConfiguredProvider, error) {
	switch {
	case strings.TrimSpace(req.Name) == "":
		return nil, &ValidationError{Field: "name"}
	case strings.TrimSpace(req.BaseURL) == "":
		return nil, &ValidationError{Field: "base_url"}
	case len(req.ModelIDs) == 0:
		return nil, &ValidationError{Field: "models"}
	}

	existing, err := m.db.GetAIProvider(req.Name)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to load provider: %w", err)
	}

	// Conflict check uses the exact official id, not the fuzzy match:
	// a renamed entry is custom by definition.
	if official := catalog.Get(m.catalog, req.Name); !req.Force && DetectEndpointConflict(official, req.BaseURL) {
		conflict := &ConflictError{Name: req.Name}
		if existing == nil {
			conflict.SuggestedName = SuggestAlternateName(official)
		}
		return nil, conflict
	}

	var official *catalog.OfficialProvider
	if req.CatalogID != "" {
		official = catalog.Get(m.catalog, req.CatalogID)
	}
	if official == nil {
		official = catalog.Resolve(m.catalog, req.Name)
	}

	// Dedupe the selection, preserving order
	seen := make(map[string]bool, len(req.ModelIDs))
	modelIDs := make([]string, 0, len(req.ModelIDs))
	for _, id := range req.ModelIDs {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		modelIDs = append(modelIDs, id)
	}
	if len(modelIDs) == 0 {
		return nil, &ValidationError{Field: "models"}
	}

	entry := &database.AIProvider{
		Name:    req.Name,
		BaseURL: req.BaseURL,
		APIType: req.APIType,
		Models:  BuildModelConfigs(modelIDs, official, existing, req.APIType),
	}

	if req.APIKey != "" {
		sealed, err := m.keeper.Seal(req.APIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to seal api key: %w", err)
		}
		entry.APIKey = sealed
	} else if existing != nil {
		entry.APIKey = existing.APIKey
	}
	if existing != nil {
		entry.CreatedAt = existing.CreatedAt
	}

	// An edit may drop the model the primary pointer referenced; clear it
	// so the pointer never dangles. No auto-promotion.
	primary, err := m.db.GetSetting(database.SettingPrimaryModel)
	if err != nil {
		return nil, fmt.Errorf("failed to load primary model: %w", err)
	}
	if primary != "" && strings.HasPrefix(primary, req.Name+":") && !seen[strings.TrimPrefix(primary, req.Name+":")] {
		if err := m.db.DeleteSetting(database.SettingPrimaryModel); err != nil {
			return nil, fmt.Errorf("failed to clear primary model: %w", err)
		}
		primary = ""
	}

	if err := m.db.SaveAIProvider(entry); err != nil {
		return nil, fmt.Errorf("failed to save provider: %w", err)
	}

	saved := m.toConfigured(entry, primary)
	return &saved, nil
}

// DeleteProvider removes an entry. When the entry owned the store-wide
// primary model the pointer is cleared; the operator re-selects explicitly.
func (m *Manager) DeleteProvider(name string) error {
	if err := m.db.DeleteAIProvider(name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &NotFoundError{Kind: "provider", ID: name}
		}
		return fmt.Errorf("failed to delete provider: %w", err)
	}

	primary, err := m.db.GetSetting(database.SettingPrimaryModel)
	if err != nil {
		return fmt.Errorf("failed to load primary model: %w", err)
	}
	if strings.HasPrefix(primary, name+":") {
		if err := m.db.DeleteSetting(database.SettingPrimaryModel); err != nil {
			return fmt.Errorf("failed to clear primary model: %w", err)
		}
	}
	return nil
}

// SetPrimaryModel points the store-wide primary at fullID. The previous
// primary is implicitly unflagged because the flag is derived from the
// single pointer.
func (m *Manager) SetPrimaryModel(fullID string) error {
	ov, err := m.Overview()
	if err != nil {
		return err
	}

	for _, id := range ov.AvailableModels {
		if id == fullID {
			return m.db.SaveSetting(database.SettingPrimaryModel, fullID)
		}
	}
	return &NotFoundError{Kind: "model", ID: fullID}
}

// PrimaryTarget resolves the current primary model to its provider entry
// with the API key opened, for the connectivity probe. Returns a
// NotFoundError when no primary is set.
func (m *Manager) PrimaryTarget() (*database.AIProvider, *database.ProviderModel, string, error) {
	primary, err := m.db.GetSetting(database.SettingPrimaryModel)
	if err != nil {
		return nil, nil, "", fmt.Errorf("failed to load primary model: %w", err)
	}
	if primary == "" {
		return nil, nil, "", &NotFoundError{Kind: "primary model", ID: "(unset)"}
	}

	name, modelID, ok := strings.Cut(primary, ":")
	if !ok {
		return nil, nil, "", &NotFoundError{Kind: "primary model", ID: primary}
	}

	provider, err := m.db.GetAIProvider(name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, "", &NotFoundError{Kind: "provider", ID: name}
		}
		return nil, nil, "", fmt.Errorf("failed to load provider: %w", err)
	}

	for i := range provider.Models {
		if provider.Models[i].ID == modelID {
			apiKey, err := m.keeper.Open(provider.APIKey)
			if err != nil {
				return nil, nil, "", fmt.Errorf("failed to open api key: %w", err)
			}
			return provider, &provider.Models[i], apiKey, nil
		}
	}
	return nil, nil, "", &NotFoundError{Kind: "model", ID: primary}
}

// toConfigured converts a stored entry to its frontend representation,
// masking the key and deriving primary flags. Fresh structures only; the
// stored entry is never aliased.
func (m *Manager) toConfigured(p *database.AIProvider, primary string) ConfiguredProvider {
	cp := ConfiguredProvider{
		Name:      p.Name,
		BaseURL:   p.BaseURL,
		HasAPIKey: p.APIKey != "",
		Models:    make([]ConfiguredModel, 0, len(p.Models)),
	}
	if p.APIKey != "" {
		if key, err := m.keeper.Open(p.APIKey); err == nil {
			cp.APIKeyMasked = maskAPIKey(key)
		}
	}
	for _, model := range p.Models {
		fullID := FullModelID(p.Name, model.ID)
		cp.Models = append(cp.Models, ConfiguredModel{
			FullID:        fullID,
			ID:            model.ID,
			Name:          model.Name,
			APIType:       model.APIType,
			ContextWindow: model.ContextWindow,
			MaxTokens:     model.MaxTokens,
			IsPrimary:     fullID == primary,
		})
	}
	return cp
}

// maskAPIKey keeps the first and last four characters of long keys and
// hides short ones entirely.
func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "••••••••"
	}
	return key[:4] + "…" + key[len(key)-4:]
}
