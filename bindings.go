// bindings.go
package main

import (
	"encoding/base64"
	"errors"
	"fmt"

	"clawdeck/internal/aiconfig"
	"clawdeck/internal/catalog"
	"clawdeck/internal/channels"
	"clawdeck/internal/eventhub"
	"clawdeck/internal/gateway"
	"clawdeck/internal/logs"
	"clawdeck/internal/probe"
	"clawdeck/internal/sysinfo"
)

// ===== AI Provider Bindings =====

// GetOfficialProviders returns the built-in provider catalog.
func (a *App) GetOfficialProviders() []catalog.OfficialProvider {
	return a.aiManager.Catalog()
}

// GetAIConfig returns the configured providers, the flattened model list
// and the primary model pointer.
func (a *App) GetAIConfig() (*aiconfig.Overview, error) {
	return a.aiManager.Overview()
}

// GetAIProviderViews returns configured providers merged with catalog
// metadata for display.
func (a *App) GetAIProviderViews() ([]aiconfig.ProviderView, error) {
	return a.aiManager.ProviderViews()
}

// SaveAIProvider creates or updates a provider entry.
func (a *App) SaveAIProvider(req aiconfig.SaveProviderRequest) (*aiconfig.ConfiguredProvider, error) {
	saved, err := a.aiManager.SaveProvider(req)
	if err != nil {
		return nil, err
	}
	a.eventHub.EmitConfigChanged(eventhub.ConfigChangedEvent{Provider: saved.Name})
	return saved, nil
}

// DeleteAIProvider removes a provider entry and all its models.
func (a *App) DeleteAIProvider(name string) error {
	if err := a.aiManager.DeleteProvider(name); err != nil {
		return err
	}
	a.eventHub.EmitConfigChanged(eventhub.ConfigChangedEvent{Provider: name})
	return nil
}

// SetPrimaryModel points the gateway at one configured model.
func (a *App) SetPrimaryModel(fullID string) error {
	if err := a.aiManager.SetPrimaryModel(fullID); err != nil {
		return err
	}
	a.eventHub.EmitConfigChanged(eventhub.ConfigChangedEvent{Primary: fullID})
	return nil
}

// TestAIConnection sends one probe request through the primary model.
func (a *App) TestAIConnection() (*probe.Result, error) {
	provider, model, apiKey, err := a.aiManager.PrimaryTarget()
	if err != nil {
		return nil, err
	}
	result := a.prober.Test(a.ctx, provider, model, apiKey)
	return &result, nil
}

// ===== Provider Dialog Bindings =====

// DialogInfo is the session snapshot sent to the frontend after every
// dialog operation.
type DialogInfo struct {
	State         string   `json:"state"`
	Editing       bool     `json:"editing"`
	Name          string   `json:"name"`
	BaseURL       string   `json:"base_url"`
	APIType       string   `json:"api_type"`
	ModelIDs      []string `json:"model_ids"`
	SuggestedName string   `json:"suggested_name,omitempty"`
}

func (a *App) dialogInfo() (*DialogInfo, error) {
	if a.session == nil {
		return nil, fmt.Errorf("no provider dialog open")
	}
	return &DialogInfo{
		State:         string(a.session.State()),
		Editing:       a.session.IsEditing(),
		Name:          a.session.Name,
		BaseURL:       a.session.BaseURL,
		APIType:       a.session.APIType,
		ModelIDs:      a.session.ModelIDs,
		SuggestedName: a.session.SuggestedName(),
	}, nil
}

// OpenProviderDialog opens a create dialog, or an edit dialog when
// editName is non-empty.
func (a *App) OpenProviderDialog(editName string) (*DialogInfo, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if editName == "" {
		a.session = aiconfig.NewCreateSession(a.aiManager)
		return a.dialogInfo()
	}

	ov, err := a.aiManager.Overview()
	if err != nil {
		return nil, err
	}
	for _, p := range ov.ConfiguredProviders {
		if p.Name == editName {
			a.session = aiconfig.NewEditSession(a.aiManager, p)
			return a.dialogInfo()
		}
	}
	return nil, fmt.Errorf("provider not found: %s", editName)
}

// DialogSelectOfficial picks an official provider in the create dialog.
func (a *App) DialogSelectOfficial(id string) (*DialogInfo, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session == nil {
		return nil, fmt.Errorf("no provider dialog open")
	}
	if err := a.session.SelectOfficial(id); err != nil {
		return nil, err
	}
	return a.dialogInfo()
}

// DialogSelectCustom starts a fully custom entry in the create dialog.
func (a *App) DialogSelectCustom() (*DialogInfo, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session == nil {
		return nil, fmt.Errorf("no provider dialog open")
	}
	if err := a.session.SelectCustom(); err != nil {
		return nil, err
	}
	return a.dialogInfo()
}

// DialogSetFields updates the dialog form fields.
func (a *App) DialogSetFields(name, baseURL, apiKey, apiType string) (*DialogInfo, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session == nil {
		return nil, fmt.Errorf("no provider dialog open")
	}
	a.session.Name = name
	a.session.BaseURL = baseURL
	a.session.APIKey = apiKey
	a.session.APIType = apiType
	return a.dialogInfo()
}

// DialogToggleModel adds or removes a model from the selection.
func (a *App) DialogToggleModel(id string) (*DialogInfo, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session == nil {
		return nil, fmt.Errorf("no provider dialog open")
	}
	a.session.ToggleModel(id)
	return a.dialogInfo()
}

// DialogAddCustomModel appends a free-text model id.
func (a *App) DialogAddCustomModel(id string) (*DialogInfo, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session == nil {
		return nil, fmt.Errorf("no provider dialog open")
	}
	a.session.AddCustomModel(id)
	return a.dialogInfo()
}

// DialogSave validates and commits the entry. On an endpoint conflict
// the dialog parks in the warning state; inspect the returned info.
func (a *App) DialogSave() (*DialogInfo, error) {
	return a.dialogCommit(func() (*aiconfig.ConfiguredProvider, error) {
		return a.session.Save()
	})
}

// DialogSaveAnyway bypasses a pending conflict warning.
func (a *App) DialogSaveAnyway() (*DialogInfo, error) {
	return a.dialogCommit(func() (*aiconfig.ConfiguredProvider, error) {
		return a.session.SaveAnyway()
	})
}

func (a *App) dialogCommit(save func() (*aiconfig.ConfiguredProvider, error)) (*DialogInfo, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session == nil {
		return nil, fmt.Errorf("no provider dialog open")
	}
	saved, err := save()
	if err != nil {
		var conflict *aiconfig.ConflictError
		if errors.As(err, &conflict) {
			// Parked in the warning state, not an RPC failure.
			return a.dialogInfo()
		}
		return nil, err
	}
	a.eventHub.EmitConfigChanged(eventhub.ConfigChangedEvent{Provider: saved.Name})
	return a.dialogInfo()
}

// DialogUseSuggestedName applies the conflict warning's rename.
func (a *App) DialogUseSuggestedName() (*DialogInfo, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session == nil {
		return nil, fmt.Errorf("no provider dialog open")
	}
	if err := a.session.UseSuggestedName(); err != nil {
		return nil, err
	}
	return a.dialogInfo()
}

// DialogDismissConflict returns to the form without changes.
func (a *App) DialogDismissConflict() (*DialogInfo, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session == nil {
		return nil, fmt.Errorf("no provider dialog open")
	}
	if err := a.session.DismissConflict(); err != nil {
		return nil, err
	}
	return a.dialogInfo()
}

// DialogCancel abandons the dialog.
func (a *App) DialogCancel() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session == nil {
		return fmt.Errorf("no provider dialog open")
	}
	if err := a.session.Cancel(); err != nil {
		return err
	}
	a.session = nil
	return nil
}

// ===== Channel Bindings =====

// GetChannels returns every channel definition merged with stored state.
func (a *App) GetChannels() ([]channels.View, error) {
	return a.channelManager.List()
}

// SaveChannelConfig stores a channel configuration.
func (a *App) SaveChannelConfig(channelType string, enabled bool, config map[string]string) error {
	if err := a.channelManager.Save(channelType, enabled, config); err != nil {
		return err
	}
	a.eventHub.EmitChannelChanged(eventhub.ChannelChangedEvent{ChannelType: channelType, Enabled: enabled})
	return nil
}

// ClearChannelConfig removes a stored channel configuration.
func (a *App) ClearChannelConfig(id string) error {
	return a.channelManager.Clear(id)
}

// TestChannel runs one round-trip test through the gateway.
func (a *App) TestChannel(channelType string) (*channels.TestResult, error) {
	return a.channelManager.Test(a.ctx, channelType)
}

// ===== Service Bindings =====

// GetServiceStatus returns the gateway process status.
func (a *App) GetServiceStatus() gateway.ServiceStatus {
	return a.gatewayManager.Status()
}

// StartService renders the runtime config and starts the gateway.
func (a *App) StartService() (gateway.ServiceStatus, error) {
	return a.gatewayManager.Start(a.ctx)
}

// StopService stops the gateway.
func (a *App) StopService() error {
	return a.gatewayManager.Stop(a.ctx)
}

// RestartService restarts the gateway against a fresh config.
func (a *App) RestartService() (gateway.ServiceStatus, error) {
	return a.gatewayManager.Restart(a.ctx)
}

// ===== Update Bindings =====

// CheckGatewayUpdate compares the installed gateway with the registry.
func (a *App) CheckGatewayUpdate() (*gateway.UpdateInfo, error) {
	return a.gatewayManager.CheckUpdate(a.ctx)
}

// UpdateGateway installs the latest gateway release.
func (a *App) UpdateGateway() error {
	if a.gatewayManager.Status().Running {
		return fmt.Errorf("stop the gateway before updating")
	}
	return a.gatewayManager.Update(a.ctx)
}

// UninstallGateway removes the gateway package.
func (a *App) UninstallGateway() error {
	return a.gatewayManager.Uninstall(a.ctx)
}

// ===== System Bindings =====

// CheckEnvironment probes the host toolchain.
func (a *App) CheckEnvironment() sysinfo.EnvironmentStatus {
	return sysinfo.CheckEnvironment(a.ctx, a.config)
}

// GetSystemInfo returns the full host snapshot.
func (a *App) GetSystemInfo() sysinfo.SystemInfo {
	return sysinfo.Collect(a.ctx, a.config)
}

// ===== Log Bindings =====

// GetLogs returns buffered gateway log entries matching the filter.
func (a *App) GetLogs(filter logs.Filter) []logs.Entry {
	return a.logStore.Query(filter)
}

// ClearLogs drops the buffered log entries.
func (a *App) ClearLogs() {
	a.logStore.Clear()
}

// ExportLogs renders matching entries as plain text.
func (a *App) ExportLogs(filter logs.Filter) string {
	return a.logStore.ExportText(filter)
}

// ExportLogsGzip renders matching entries as base64-encoded gzip.
func (a *App) ExportLogsGzip(filter logs.Filter) (string, error) {
	data, err := a.logStore.ExportGzip(filter)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// ===== Settings Bindings =====

// SaveSetting stores one key-value setting.
func (a *App) SaveSetting(key, value string) error {
	if a.dbManager == nil {
		return nil
	}
	return a.dbManager.SaveSetting(key, value)
}

// GetSetting retrieves one setting, empty string when unset.
func (a *App) GetSetting(key string) (string, error) {
	if a.dbManager == nil {
		return "", nil
	}
	return a.dbManager.GetSetting(key)
}
