// internal/gateway/manager.go
package gateway

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"sync"

	"clawdeck/internal/channels"
	"clawdeck/internal/config"
	"clawdeck/internal/database"
	"clawdeck/internal/eventhub"
	"clawdeck/internal/secrets"
)

// BinaryName is the gateway executable looked up on PATH.
const BinaryName = "openclaw"

// DefaultPort is the gateway listen port written into the runtime config.
const DefaultPort = 8790

// ServiceStatus is the observable state of the gateway service.
type ServiceStatus struct {
	Running bool `json:"running"`
	PID     int  `json:"pid,omitempty"`
	Port    int  `json:"port,omitempty"`
}

// Manager supervises the single gateway process. Start regenerates the
// runtime config from the database so the gateway always boots against
// the current provider and channel state.
type Manager struct {
	cfg    *config.Config
	db     *database.Database
	keeper *secrets.Keeper
	defs   []channels.Definition
	hub    *eventhub.EventHub
	port   int

	mu   sync.Mutex
	proc *Process
}

// NewManager creates a new gateway manager
func NewManager(cfg *config.Config, db *database.Database, keeper *secrets.Keeper, defs []channels.Definition, hub *eventhub.EventHub) *Manager {
	return &Manager{
		cfg:    cfg,
		db:     db,
		keeper: keeper,
		defs:   defs,
		hub:    hub,
		port:   DefaultPort,
	}
}

// Status returns the current service status.
func (m *Manager) Status() ServiceStatus {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.proc != nil && m.proc.IsRunning() {
		return ServiceStatus{Running: true, PID: m.proc.PID, Port: m.port}
	}
	return ServiceStatus{}
}

// Start renders the runtime config and launches the gateway. Starting an
// already running gateway is an error; use Restart for config reloads.
func (m *Manager) Start(ctx context.Context) (ServiceStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.proc != nil && m.proc.IsRunning() {
		return ServiceStatus{}, fmt.Errorf("gateway already running (pid %d)", m.proc.PID)
	}

	binary, err := exec.LookPath(BinaryName)
	if err != nil {
		return ServiceStatus{}, fmt.Errorf("gateway binary not found: %w", err)
	}

	runtime, err := renderConfig(m.db, m.keeper, m.defs, m.port)
	if err != nil {
		return ServiceStatus{}, err
	}
	if err := writeConfig(m.cfg.GatewayConfigPath(), runtime); err != nil {
		return ServiceStatus{}, err
	}

	logFile, err := os.OpenFile(m.cfg.GatewayLogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return ServiceStatus{}, fmt.Errorf("failed to open gateway log: %w", err)
	}

	cmd := exec.Command(binary, "gateway", "--port", strconv.Itoa(m.port))
	cmd.Stdout = logFile
	cmd.Stderr = logFile

	proc := newProcess(cmd)
	if err := proc.Start(); err != nil {
		logFile.Close()
		return ServiceStatus{}, fmt.Errorf("failed to start gateway: %w", err)
	}
	m.proc = proc

	go func() {
		<-proc.Done()
		logFile.Close()
		m.hub.EmitServiceChanged(eventhub.ServiceChangedEvent{Running: false})
	}()

	status := ServiceStatus{Running: true, PID: proc.PID, Port: m.port}
	m.hub.EmitServiceChanged(eventhub.ServiceChangedEvent{Running: true, PID: proc.PID, Port: m.port})
	return status, nil
}

// Stop shuts the gateway down, escalating signals until it exits.
func (m *Manager) Stop(ctx context.Context) error {
	m.mu.Lock()
	proc := m.proc
	m.mu.Unlock()

	if proc == nil || !proc.IsRunning() {
		return fmt.Errorf("gateway not running")
	}
	return proc.GracefulShutdown(ctx)
}

// Restart stops the gateway if running and starts it against a freshly
// rendered config.
func (m *Manager) Restart(ctx context.Context) (ServiceStatus, error) {
	m.mu.Lock()
	proc := m.proc
	m.mu.Unlock()

	if proc != nil && proc.IsRunning() {
		if err := proc.GracefulShutdown(ctx); err != nil {
			return ServiceStatus{}, fmt.Errorf("failed to stop gateway: %w", err)
		}
	}
	return m.Start(ctx)
}
