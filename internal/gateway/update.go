// internal/gateway/update.go
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/exec"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"

	"clawdeck/internal/eventhub"
)

const registryURL = "https://registry.npmjs.org/" + BinaryName + "/latest"

// UpdateInfo compares the installed gateway with the npm registry.
type UpdateInfo struct {
	Current         string `json:"current"`
	Latest          string `json:"latest"`
	UpdateAvailable bool   `json:"update_available"`
}

// InstalledVersion returns the installed gateway version, or "" when the
// binary is missing.
func InstalledVersion(ctx context.Context) string {
	binary, err := exec.LookPath(BinaryName)
	if err != nil {
		return ""
	}
	out, err := exec.CommandContext(ctx, binary, "--version").Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

// CheckUpdate asks the npm registry for the latest published version and
// compares it with the installed one.
func (m *Manager) CheckUpdate(ctx context.Context) (*UpdateInfo, error) {
	current := InstalledVersion(ctx)
	if current == "" {
		return nil, fmt.Errorf("gateway is not installed")
	}

	reqCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, registryURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("registry request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("registry returned %s", resp.Status)
	}

	var payload struct {
		Version string `json:"version"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode registry response: %w", err)
	}

	info := &UpdateInfo{Current: current, Latest: payload.Version}

	currentVer, err := semver.NewVersion(strings.TrimPrefix(current, "v"))
	if err != nil {
		return info, nil
	}
	latestVer, err := semver.NewVersion(strings.TrimPrefix(payload.Version, "v"))
	if err != nil {
		return info, nil
	}
	info.UpdateAvailable = latestVer.GreaterThan(currentVer)

	if info.UpdateAvailable {
		m.hub.EmitUpdateAvailable(eventhub.UpdateAvailableEvent{Current: info.Current, Latest: info.Latest})
	}
	return info, nil
}

// Update installs the latest gateway release through npm. The gateway must
// be stopped by the caller first; npm replaces the binary in place.
func (m *Manager) Update(ctx context.Context) error {
	out, err := exec.CommandContext(ctx, "npm", "install", "-g", BinaryName+"@latest").CombinedOutput()
	if err != nil {
		return fmt.Errorf("npm install failed: %s", strings.TrimSpace(string(out)))
	}
	return nil
}

// Uninstall removes the gateway package through npm.
func (m *Manager) Uninstall(ctx context.Context) error {
	if m.Status().Running {
		if err := m.Stop(ctx); err != nil {
			return err
		}
	}
	out, err := exec.CommandContext(ctx, "npm", "uninstall", "-g", BinaryName).CombinedOutput()
	if err != nil {
		return fmt.Errorf("npm uninstall failed: %s", strings.TrimSpace(string(out)))
	}
	return nil
}
