// internal/sysinfo/sysinfo.go
package sysinfo

import (
	"context"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"strings"

	"clawdeck/internal/config"
	"clawdeck/internal/gateway"
)

// Node 22 is the oldest release the gateway supports.
const minNodeMajor = 22

// EnvironmentStatus reports whether the host can run the gateway.
type EnvironmentStatus struct {
	NodeInstalled    bool   `json:"node_installed"`
	NodeVersion      string `json:"node_version,omitempty"`
	NodeVersionOK    bool   `json:"node_version_ok"`
	GatewayInstalled bool   `json:"gateway_installed"`
	GatewayVersion   string `json:"gateway_version,omitempty"`
	ConfigDirExists  bool   `json:"config_dir_exists"`
	Ready            bool   `json:"ready"`
}

// SystemInfo bundles the environment status with host facts.
type SystemInfo struct {
	OS       string            `json:"os"`
	Arch     string            `json:"arch"`
	Env      EnvironmentStatus `json:"env"`
	DataDir  string            `json:"data_dir"`
	LogDir   string            `json:"log_dir"`
	GoodToGo bool              `json:"good_to_go"`
}

// CheckEnvironment probes the host toolchain and gateway installation.
func CheckEnvironment(ctx context.Context, cfg *config.Config) EnvironmentStatus {
	status := EnvironmentStatus{}

	if node, err := exec.LookPath("node"); err == nil {
		status.NodeInstalled = true
		if out, err := exec.CommandContext(ctx, node, "--version").Output(); err == nil {
			status.NodeVersion = strings.TrimSpace(string(out))
			status.NodeVersionOK = nodeVersionOK(status.NodeVersion)
		}
	}

	if version := gateway.InstalledVersion(ctx); version != "" {
		status.GatewayInstalled = true
		status.GatewayVersion = version
	}

	if info, err := os.Stat(cfg.OpenclawDir); err == nil && info.IsDir() {
		status.ConfigDirExists = true
	}

	status.Ready = status.NodeInstalled && status.NodeVersionOK && status.GatewayInstalled
	return status
}

// Collect returns the full system information snapshot.
func Collect(ctx context.Context, cfg *config.Config) SystemInfo {
	env := CheckEnvironment(ctx, cfg)
	return SystemInfo{
		OS:       runtime.GOOS,
		Arch:     runtime.GOARCH,
		Env:      env,
		DataDir:  cfg.ClawdeckDir,
		LogDir:   cfg.LogDir,
		GoodToGo: env.Ready,
	}
}

// nodeVersionOK parses a "v22.3.0" style version string and checks the
// major version.
func nodeVersionOK(version string) bool {
	version = strings.TrimPrefix(version, "v")
	parts := strings.SplitN(version, ".", 2)
	if len(parts) == 0 {
		return false
	}
	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return false
	}
	return major >= minNodeMajor
}
