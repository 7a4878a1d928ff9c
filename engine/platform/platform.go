package platform

import (
	"github.com/spaghettifunk/ember/engine/api"
	"github.com/spaghettifunk/ember/engine/core"
)

// Constructor builds the plugin of one slot.
type Constructor func(host api.Host) api.Plugin

// Slots turns a table of constructors into a PluginFactory. Kinds missing
// from the table stay empty.
func Slots(table map[api.Kind]Constructor) api.PluginFactory {
	return func(host api.Host, kind api.Kind) api.Plugin {
		ctor, ok := table[kind]
		if !ok || ctor == nil {
			return nil
		}
		return ctor(host)
	}
}

// Merge returns a factory asking each factory in turn until one fills the slot.
func Merge(factories ...api.PluginFactory) api.PluginFactory {
	return func(host api.Host, kind api.Kind) api.Plugin {
		for _, f := range factories {
			if f == nil {
				continue
			}
			if p := f(host, kind); p != nil {
				return p
			}
		}
		return nil
	}
}

// Route delivers one platform event. The UI sees every event first and may
// consume it, resizes go to the video plugin and the rest to the input
// plugin. Route returns false for a quit request.
func Route(ev core.Event, video api.Video, input api.Input, ui api.UI) bool {
	if _, ok := ev.(core.QuitEvent); ok {
		return false
	}

	if h, ok := ui.(api.EventHandler); ok && h.HandleEvent(ev) {
		return true
	}

	switch ev.(type) {
	case core.ResizeEvent:
		if h, ok := video.(api.EventHandler); ok {
			h.HandleEvent(ev)
		}
	default:
		if h, ok := input.(api.EventHandler); ok {
			h.HandleEvent(ev)
		}
	}
	return true
}
