// internal/aiconfig/session.go
package aiconfig

import (
	"errors"
	"fmt"
	"strings"

	"clawdeck/internal/catalog"
)

// SessionState is the dialog session's position in its lifecycle.
type SessionState string

const (
	StateSelecting   SessionState = "selecting"
	StateConfiguring SessionState = "configuring"
	StateSaving      SessionState = "saving"
	StateConflict    SessionState = "conflict_warning"
	StateCommitted   SessionState = "committed"
	StateCancelled   SessionState = "cancelled"
)

// Session is a short-lived create-or-edit dialog for one provider entry.
// It holds the in-progress form fields and produces exactly one committed
// entry, or nothing when abandoned. Sessions are not safe for concurrent
// use; the caller drives them from a single control flow.
type Session struct {
	manager  *Manager
	state    SessionState
	editing  *ConfiguredProvider
	selected *catalog.OfficialProvider

	Name     string
	BaseURL  string
	APIKey   string
	APIType  string
	ModelIDs []string

	suggestedName string
	result        *ConfiguredProvider
}

// NewCreateSession opens a create dialog at the catalog browse step.
func NewCreateSession(m *Manager) *Session {
	return &Session{
		manager: m,
		state:   StateSelecting,
		APIType: catalog.DialectOpenAI,
	}
}

// NewEditSession opens an edit dialog pre-populated from an existing entry.
// The name is locked; the dialect comes from the entry's first model.
func NewEditSession(m *Manager, existing ConfiguredProvider) *Session {
	s := &Session{
		manager:  m,
		state:    StateConfiguring,
		editing:  &existing,
		selected: catalog.Resolve(m.catalog, existing.Name),
		Name:     existing.Name,
		BaseURL:  existing.BaseURL,
		APIType:  catalog.DialectOpenAI,
	}
	if len(existing.Models) > 0 && existing.Models[0].APIType != "" {
		s.APIType = existing.Models[0].APIType
	}
	for _, model := range existing.Models {
		s.ModelIDs = append(s.ModelIDs, model.ID)
	}
	return s
}

// State returns the current session state.
func (s *Session) State() SessionState { return s.state }

// IsEditing reports whether the session edits an existing entry.
func (s *Session) IsEditing() bool { return s.editing != nil }

// Selected returns the official provider the session is based on, nil for
// fully custom entries.
func (s *Session) Selected() *catalog.OfficialProvider { return s.selected }

// SuggestedName returns the rename offered by the pending conflict warning.
func (s *Session) SuggestedName() string { return s.suggestedName }

// Result returns the committed entry, nil before commit.
func (s *Session) Result() *ConfiguredProvider { return s.result }

// SelectOfficial moves from catalog browsing to the form, pre-filled from
// the chosen official provider with its recommended models pre-selected.
func (s *Session) SelectOfficial(id string) error {
	if s.state != StateSelecting {
		return fmt.Errorf("cannot select a provider in state %s", s.state)
	}
	official := catalog.Get(s.manager.catalog, id)
	if official == nil {
		return &NotFoundError{Kind: "official provider", ID: id}
	}

	s.selected = official
	s.Name = official.ID
	s.BaseURL = official.DefaultBaseURL
	s.APIType = official.APIType
	s.ModelIDs = official.RecommendedModelIDs()
	s.state = StateConfiguring
	return nil
}

// SelectCustom moves to the form with blank fields for a fully custom entry.
func (s *Session) SelectCustom() error {
	if s.state != StateSelecting {
		return fmt.Errorf("cannot select a provider in state %s", s.state)
	}
	s.selected = nil
	s.Name = ""
	s.BaseURL = ""
	s.APIType = catalog.DialectOpenAI
	s.ModelIDs = nil
	s.state = StateConfiguring
	return nil
}

// ToggleModel adds or removes a model from the selection.
func (s *Session) ToggleModel(id string) {
	for i, existing := range s.ModelIDs {
		if existing == id {
			s.ModelIDs = append(s.ModelIDs[:i], s.ModelIDs[i+1:]...)
			return
		}
	}
	s.ModelIDs = append(s.ModelIDs, id)
}

// AddCustomModel appends a free-text model id to the selection. Empty input
// and duplicates are ignored silently.
func (s *Session) AddCustomModel(id string) {
	id = strings.TrimSpace(id)
	if id == "" {
		return
	}
	for _, existing := range s.ModelIDs {
		if existing == id {
			return
		}
	}
	s.ModelIDs = append(s.ModelIDs, id)
}

// Save validates and commits the entry. On an endpoint conflict the session
// parks in the warning state and the caller chooses between
// UseSuggestedName, SaveAnyway and DismissConflict. Validation failures
// return the session to the form.
func (s *Session) Save() (*ConfiguredProvider, error) {
	if s.state != StateConfiguring {
		return nil, fmt.Errorf("cannot save in state %s", s.state)
	}
	return s.save(false)
}

// SaveAnyway re-invokes the pending save with the conflict warning bypassed.
func (s *Session) SaveAnyway() (*ConfiguredProvider, error) {
	if s.state != StateConflict {
		return nil, fmt.Errorf("no pending conflict to bypass in state %s", s.state)
	}
	return s.save(true)
}

func (s *Session) save(force bool) (*ConfiguredProvider, error) {
	s.state = StateSaving

	req := SaveProviderRequest{
		Name:     s.Name,
		BaseURL:  s.BaseURL,
		APIKey:   s.APIKey,
		APIType:  s.APIType,
		ModelIDs: s.ModelIDs,
		Force:    force,
	}
	if s.editing != nil {
		// Name immutability: the form cannot rename an existing entry.
		req.Name = s.editing.Name
	}
	if s.selected != nil {
		req.CatalogID = s.selected.ID
	}

	saved, err := s.manager.SaveProvider(req)
	if err != nil {
		var conflict *ConflictError
		if errors.As(err, &conflict) {
			s.state = StateConflict
			s.suggestedName = conflict.SuggestedName
			return nil, err
		}
		s.state = StateConfiguring
		return nil, err
	}

	s.state = StateCommitted
	s.result = saved
	return saved, nil
}

// UseSuggestedName rewrites the name field with the conflict warning's
// suggestion and returns to the form. Only offered for new entries.
func (s *Session) UseSuggestedName() error {
	if s.state != StateConflict {
		return fmt.Errorf("no pending conflict in state %s", s.state)
	}
	if s.editing != nil || s.suggestedName == "" {
		return fmt.Errorf("no rename available for this entry")
	}
	s.Name = s.suggestedName
	s.suggestedName = ""
	s.state = StateConfiguring
	return nil
}

// DismissConflict returns to the form without changes.
func (s *Session) DismissConflict() error {
	if s.state != StateConflict {
		return fmt.Errorf("no pending conflict in state %s", s.state)
	}
	s.suggestedName = ""
	s.state = StateConfiguring
	return nil
}

// Cancel abandons the session with no external writes. A save that is
// already dispatched cannot be cancelled; its result must be consumed.
func (s *Session) Cancel() error {
	switch s.state {
	case StateSaving:
		return fmt.Errorf("cannot cancel while saving")
	case StateCommitted, StateCancelled:
		return fmt.Errorf("session already finished")
	}
	s.state = StateCancelled
	return nil
}
