// app.go
package main

import (
	"context"
	"sync"
	"time"

	"github.com/wailsapp/wails/v2/pkg/runtime"

	"clawdeck/internal/aiconfig"
	"clawdeck/internal/catalog"
	"clawdeck/internal/channels"
	"clawdeck/internal/config"
	"clawdeck/internal/database"
	"clawdeck/internal/eventhub"
	"clawdeck/internal/gateway"
	"clawdeck/internal/logs"
	"clawdeck/internal/probe"
	"clawdeck/internal/secrets"
)

// App struct contains the core application state and managers
type App struct {
	ctx    context.Context
	mu     sync.RWMutex
	config *config.Config

	// Core managers
	dbManager      *database.Database
	keeper         *secrets.Keeper
	aiManager      *aiconfig.Manager
	channelManager *channels.Manager
	gatewayManager *gateway.Manager
	prober         *probe.Prober
	logStore       *logs.Store
	logTailer      *logs.Tailer
	eventHub       *eventhub.EventHub

	// Active provider dialog, one at a time.
	session *aiconfig.Session
}

// NewApp creates a new App application struct
func NewApp() *App {
	return &App{}
}

// startup is called when the app starts (Wails callback)
func (a *App) startup(ctx context.Context) {
	a.startupCommon(ctx)
}

// Startup is the exported version for standalone server
func (a *App) Startup(ctx context.Context) {
	a.startupCommon(ctx)
}

// startupCommon contains the common startup logic
func (a *App) startupCommon(ctx context.Context) {
	a.ctx = ctx

	// Load config
	cfg, err := config.Load()
	if err != nil {
		runtime.LogError(ctx, "Failed to load config: "+err.Error())
		return
	}
	a.config = cfg

	// Initialize EventHub (before managers that need it)
	a.eventHub = eventhub.New(ctx)

	// Initialize database
	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		runtime.LogError(ctx, "Failed to open database: "+err.Error())
		return
	}
	a.dbManager = db

	// Initialize credential keeper
	keeper, err := secrets.Load(cfg.KeyPath)
	if err != nil {
		runtime.LogError(ctx, "Failed to load secret key: "+err.Error())
		return
	}
	a.keeper = keeper

	// Initialize AI provider manager
	a.aiManager = aiconfig.NewManager(db, keeper, catalog.OfficialProviders())

	// Initialize gateway manager
	defs := channels.Definitions()
	a.gatewayManager = gateway.NewManager(cfg, db, keeper, defs, a.eventHub)

	// Initialize channel manager; tests go through the running gateway
	a.channelManager = channels.NewManager(db, keeper, defs, a.gatewayManager)

	// Initialize connectivity prober
	a.prober = probe.New(30 * time.Second)

	// Initialize log store and start tailing the gateway log
	a.logStore = logs.NewStore(logs.DefaultCapacity)
	tailer, err := logs.NewTailer(cfg.GatewayLogPath, a.logStore, a.eventHub)
	if err != nil {
		runtime.LogError(ctx, "Failed to create log tailer: "+err.Error())
	} else {
		a.logTailer = tailer
		if err := tailer.Start(); err != nil {
			runtime.LogError(ctx, "Failed to start log tailer: "+err.Error())
		}
	}

	runtime.LogInfo(ctx, "clawdeck started successfully")
}

// shutdown is called when the app is shutting down (Wails callback)
func (a *App) shutdown(ctx context.Context) {
	a.shutdownCommon(ctx)
}

// Shutdown is the exported version for standalone server
func (a *App) Shutdown(ctx context.Context) {
	a.shutdownCommon(ctx)
}

// shutdownCommon contains the common shutdown logic
func (a *App) shutdownCommon(ctx context.Context) {
	// Stop tailing logs
	if a.logTailer != nil {
		a.logTailer.Close()
	}

	// Stop the gateway if we started it
	if a.gatewayManager != nil && a.gatewayManager.Status().Running {
		if err := a.gatewayManager.Stop(ctx); err != nil {
			runtime.LogError(ctx, "Failed to stop gateway: "+err.Error())
		}
	}

	// Close database
	if a.dbManager != nil {
		a.dbManager.Close()
	}

	runtime.LogInfo(ctx, "clawdeck shutdown complete")
}

// SetEventHubBroadcaster wires the WebSocket broadcaster in headless mode.
func (a *App) SetEventHubBroadcaster(broadcaster eventhub.Broadcaster) {
	if a.eventHub != nil {
		a.eventHub.SetBroadcaster(broadcaster)
	}
}
