package api

import (
	"fmt"
	"time"

	"github.com/spaghettifunk/ember/engine/core"
)

// Kind is the slot index of a plugin inside the Core.
type Kind int

const (
	KindSystem Kind = iota
	KindVideo
	KindInput
	KindUI
	// KindUser is the first slot free for user plugins. A Core always has at
	// least this many slots.
	KindUser
)

func (k Kind) String() string {
	switch k {
	case KindSystem:
		return "system"
	case KindVideo:
		return "video"
	case KindInput:
		return "input"
	case KindUI:
		return "ui"
	default:
		return fmt.Sprintf("user(%d)", int(k))
	}
}

// Plugin is the minimal contract every slot occupant fulfils. Init runs once
// in slot order, Shutdown once in reverse order.
type Plugin interface {
	Name() string
	Init() error
	Shutdown() error
}

// FixedUpdater receives the fixed-rate step before and after the game.
type FixedUpdater interface {
	OnFixedUpdate(ts core.PreciseTimestep, step core.StepType)
}

// VariableUpdater receives the once-per-frame step before and after the game.
type VariableUpdater interface {
	OnVariableUpdate(ts core.PreciseTimestep, step core.StepType)
}

// RenderHook receives the render step before and after the game.
type RenderHook interface {
	OnRender(ts core.PreciseTimestep, step core.StepType)
}

// EventHandler receives platform events. Returning true consumes the event.
type EventHandler interface {
	HandleEvent(ev core.Event) bool
}

// System is the platform plugin: it pumps OS events and offers thread and
// filesystem helpers.
type System interface {
	Plugin
	// GenerateEvents drains pending platform events, routing them to the given
	// plugins (any may be nil). Returns false when the platform asked to stop.
	GenerateEvents(video Video, input Input, ui UI) bool
	// Spawn runs fn on a worker. Failures are logged by the system.
	Spawn(name string, fn func() error)
	Sleep(d time.Duration)
	AssetsDir() string
}

// Video owns the presentation surface.
type Video interface {
	Plugin
	BeginFrame()
	EndFrame()
}

// Input tracks keyboard and mouse state.
type Input interface {
	Plugin
	// BeginFrame resets edge-triggered state for a new variable step.
	BeginFrame(ts core.PreciseTimestep)
	IsKeyDown(key core.KeyCode) bool
	IsKeyPressed(key core.KeyCode) bool
}

// UI is an overlay plugin. It sees events before the input plugin.
type UI interface {
	Plugin
	Enabled() bool
	SetEnabled(enabled bool)
}

// Host is the read-only view of the Core that plugins and resources get.
type Host interface {
	Plugin(kind Kind) Plugin
}

// PluginFactory builds the plugin for a slot. Returning nil leaves the slot empty.
type PluginFactory func(host Host, kind Kind) Plugin

// Lookup returns the plugin in slot kind as T, if present and of that type.
func Lookup[T any](h Host, kind Kind) (T, bool) {
	var zero T
	if h == nil {
		return zero, false
	}
	p := h.Plugin(kind)
	if p == nil {
		return zero, false
	}
	t, ok := p.(T)
	return t, ok
}

// MustLookup is Lookup for plugins the caller cannot run without.
func MustLookup[T any](h Host, kind Kind) T {
	t, ok := Lookup[T](h, kind)
	if !ok {
		panic(fmt.Sprintf("required %s plugin missing or of unexpected type %T", kind, t))
	}
	return t
}

// MetricsSource is implemented by hosts that track frame metrics.
type MetricsSource interface {
	Metrics() *core.Metrics
}
