package engine

import (
	"sync/atomic"

	"github.com/spaghettifunk/ember/engine/core"
	"github.com/spaghettifunk/ember/engine/resources"
)

// Game is the application driven by the Core.
type Game interface {
	// Attach hands the game its back-references before Init.
	Attach(c *Core, m *resources.Manager)
	Init() error
	OnFixedUpdate(ts core.PreciseTimestep)
	OnVariableUpdate(ts core.PreciseTimestep)
	OnRender(ts core.PreciseTimestep)
	OnGameEnd()
	// ExitCode reports a pending exit request.
	ExitCode() (int, bool)
}

// BaseGame implements the bookkeeping part of Game. Embed it and override the
// hooks you need.
type BaseGame struct {
	core      *Core
	resources *resources.Manager

	exitCode  atomic.Int64
	exitIsSet atomic.Bool
}

func (g *BaseGame) Attach(c *Core, m *resources.Manager) {
	g.core = c
	g.resources = m
}

func (g *BaseGame) Core() *Core {
	return g.core
}

func (g *BaseGame) Resources() *resources.Manager {
	return g.resources
}

// Exit asks the Core to stop with code. Safe to call from any goroutine.
func (g *BaseGame) Exit(code int) {
	g.exitCode.Store(int64(code))
	g.exitIsSet.Store(true)
}

func (g *BaseGame) ExitCode() (int, bool) {
	if !g.exitIsSet.Load() {
		return 0, false
	}
	return int(g.exitCode.Load()), true
}

func (g *BaseGame) Init() error                              { return nil }
func (g *BaseGame) OnFixedUpdate(ts core.PreciseTimestep)    {}
func (g *BaseGame) OnVariableUpdate(ts core.PreciseTimestep) {}
func (g *BaseGame) OnRender(ts core.PreciseTimestep)         {}
func (g *BaseGame) OnGameEnd()                               {}
