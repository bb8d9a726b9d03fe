package eventhub

import (
	"context"
)

// Broadcaster pushes an event to every connected frontend.
type Broadcaster interface {
	BroadcastEvent(eventType string, payload interface{})
}

// EventHub is the single dispatch point for backend-to-frontend events.
type EventHub struct {
	ctx         context.Context
	broadcaster Broadcaster
}

// New creates a new EventHub
func New(ctx context.Context) *EventHub {
	return &EventHub{ctx: ctx}
}

// SetBroadcaster sets the WebSocket broadcaster
func (h *EventHub) SetBroadcaster(b Broadcaster) {
	h.broadcaster = b
}

func (h *EventHub) emit(eventName string, payload interface{}) {
	if h.broadcaster != nil {
		h.broadcaster.BroadcastEvent(eventName, payload)
	}
}

// Emit sends a generic event
func (h *EventHub) Emit(eventName string, payload interface{}) {
	h.emit(eventName, payload)
}

// ServiceChangedEvent reports a gateway lifecycle transition.
type ServiceChangedEvent struct {
	Running bool `json:"running"`
	PID     int  `json:"pid,omitempty"`
	Port    int  `json:"port,omitempty"`
}

func (h *EventHub) EmitServiceChanged(event ServiceChangedEvent) {
	h.emit("service:changed", event)
}

// ConfigChangedEvent reports a provider or primary-model change.
type ConfigChangedEvent struct {
	Provider string `json:"provider,omitempty"`
	Primary  string `json:"primary,omitempty"`
}

func (h *EventHub) EmitConfigChanged(event ConfigChangedEvent) {
	h.emit("config:changed", event)
}

// ChannelChangedEvent reports a channel configuration change.
type ChannelChangedEvent struct {
	ChannelType string `json:"channelType"`
	Enabled     bool   `json:"enabled"`
}

func (h *EventHub) EmitChannelChanged(event ChannelChangedEvent) {
	h.emit("channel:changed", event)
}

// LogEntryEvent carries one gateway log line to live viewers.
type LogEntryEvent struct {
	Time    string `json:"time"`
	Level   string `json:"level"`
	Module  string `json:"module,omitempty"`
	Message string `json:"message"`
}

func (h *EventHub) EmitLogEntry(event LogEntryEvent) {
	h.emit("log:entry", event)
}

// UpdateAvailableEvent reports a newer gateway release on the registry.
type UpdateAvailableEvent struct {
	Current string `json:"current"`
	Latest  string `json:"latest"`
}

func (h *EventHub) EmitUpdateAvailable(event UpdateAvailableEvent) {
	h.emit("update:available", event)
}
