package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventModuleBegin EventType = "module_begin"
	EventModuleEnd   EventType = "module_end"
	EventNavigate    EventType = "navigate"
	EventTerminate   EventType = "terminate"
	EventRerun       EventType = "rerun"
)

// ModuleEvent describes one scheduler transition for a module.
type ModuleEvent struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Module    string    `json:"module"`
	Parent    string    `json:"parent,omitempty"`
	Depth     int       `json:"depth"`
}

// LifecycleHooks defines callbacks for scheduler observability.
type LifecycleHooks struct {
	OnModuleBegin func(context.Context, *ModuleEvent)
	OnModuleEnd   func(context.Context, *ModuleEvent)
	OnNavigate    func(context.Context, *ModuleEvent)
	OnTerminate   func(context.Context, *ModuleEvent)
	OnRerun       func(context.Context, *ModuleEvent)
}

// Snapshot is the persisted view of an application's captured inputs.
type Snapshot struct {
	App    string         `json:"app"`
	Inputs map[string]any `json:"inputs"`
}
