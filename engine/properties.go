package engine

import (
	"errors"
	"fmt"

	"github.com/spaghettifunk/ember/engine/api"
	"github.com/spaghettifunk/ember/engine/core"
	"github.com/spaghettifunk/ember/engine/resources"
)

var (
	ErrInvalidProperties  = errors.New("invalid core properties")
	ErrNilGame            = errors.New("game object was nil at core construction")
	ErrAlreadyInitialized = errors.New("core already initialized")
	ErrNotInitialized     = errors.New("core not initialized")
	ErrTerminated         = errors.New("core terminated")
)

// ResourceInitializer registers the game's own resource types.
type ResourceInitializer func(m *resources.Manager)

// CoreProperties configures a Core.
type CoreProperties struct {
	// FPS is the fixed update rate. Zero runs uncapped.
	FPS int
	// MaxPlugins is the number of plugin slots, at least api.KindUser.
	MaxPlugins          int
	PluginFactory       api.PluginFactory
	ResourceInitializer ResourceInitializer

	// Optional. Defaults to the process logger.
	Logger *core.Logger
	// Optional. Defaults to the system clock.
	Clock     core.Clock
	AssetsDir string
	// HotReload watches AssetsDir and drops changed assets from the caches.
	HotReload bool
}

// NoResources is a ResourceInitializer for games without custom resources.
func NoResources(*resources.Manager) {}

func DefaultCoreProperties(factory api.PluginFactory) CoreProperties {
	return CoreProperties{
		FPS:                 60,
		MaxPlugins:          int(api.KindUser),
		PluginFactory:       factory,
		ResourceInitializer: NoResources,
		AssetsDir:           "assets",
	}
}

func (p CoreProperties) Validate() error {
	if p.FPS < 0 {
		return fmt.Errorf("%w: negative fps %d", ErrInvalidProperties, p.FPS)
	}
	if p.MaxPlugins < int(api.KindUser) {
		return fmt.Errorf("%w: %d plugin slots, at least %d required", ErrInvalidProperties, p.MaxPlugins, int(api.KindUser))
	}
	if p.PluginFactory == nil {
		return fmt.Errorf("%w: missing plugin factory", ErrInvalidProperties)
	}
	if p.ResourceInitializer == nil {
		return fmt.Errorf("%w: missing resource initializer", ErrInvalidProperties)
	}
	return nil
}
