package engine

import (
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/rand"

	"github.com/spaghettifunk/ember/engine/api"
	"github.com/spaghettifunk/ember/engine/assets"
	"github.com/spaghettifunk/ember/engine/core"
	"github.com/spaghettifunk/ember/engine/fsm"
	"github.com/spaghettifunk/ember/engine/resources"
)

const (
	// ExitCodeUnset is returned by Dispatch when nothing requested an exit code.
	ExitCodeUnset = -1

	// uncapped loops step with this nominal delta
	nominalFixedDelta = 1.0 / 60.0
	// fixed steps run per iteration at most, the rest is dropped
	maxFixedStepsPerIteration = 5
	// variable update deltas are clamped to this
	maxVariableDelta = 0.1

	rngSalt = 0xb67b820e
)

var processStart = time.Now()

// Core owns the game, the resource manager and the plugin slots, and runs
// the fixed/variable timestep loop.
type Core struct {
	props     CoreProperties
	logger    *core.Logger
	clock     core.Clock
	runID     uuid.UUID
	lifecycle *fsm.Machine[Stage, stageEvent]

	plugins []api.Plugin
	active  []api.Plugin

	fixedHooks    []api.FixedUpdater
	variableHooks []api.VariableUpdater
	renderHooks   []api.RenderHook

	game      Game
	resources *resources.Manager
	metrics   *core.Metrics
	seed      uint64

	isRunning atomic.Bool
	exitCode  atomic.Int64
}

// New validates props and fills the plugin slots through the factory.
func New(props CoreProperties, game Game) (*Core, error) {
	if err := props.Validate(); err != nil {
		return nil, err
	}
	if game == nil {
		return nil, ErrNilGame
	}

	runID := uuid.New()
	logger := core.LoggerOrDefault(props.Logger).With(fmt.Sprintf("Engine 🏎️ [%s]", runID.String()[:8]))
	clock := props.Clock
	if clock == nil {
		clock = core.NewSystemClock()
	}

	c := &Core{
		props:     props,
		logger:    logger,
		clock:     clock,
		runID:     runID,
		lifecycle: newLifecycle(),
		plugins:   make([]api.Plugin, props.MaxPlugins),
		game:      game,
		metrics:   core.NewMetrics(),
	}
	c.exitCode.Store(ExitCodeUnset)
	c.lifecycle.OnTransition(func(from Stage, _ stageEvent, to Stage) {
		c.logger.Debug("Stage %s -> %s", from, to)
	})

	count := 0
	for kind := api.Kind(0); int(kind) < props.MaxPlugins; kind++ {
		// nil only leaves this slot empty
		if p := props.PluginFactory(c, kind); p != nil {
			c.plugins[kind] = p
			count++
		}
	}
	c.logger.Info("%d plugins created", count)

	return c, nil
}

// Init creates the resource manager, initializes the plugins in slot order,
// seeds the RNG and initializes the game.
func (c *Core) Init() error {
	switch c.lifecycle.State() {
	case StageUninitialized:
	case StageTerminated:
		return ErrTerminated
	default:
		return ErrAlreadyInitialized
	}

	if err := c.initResources(); err != nil {
		return c.failInit(err)
	}
	if err := c.initPlugins(); err != nil {
		return c.failInit(err)
	}
	c.initRNG()

	c.game.Attach(c, c.resources)
	if err := c.game.Init(); err != nil {
		return c.failInit(fmt.Errorf("game init: %w", err))
	}

	if _, err := c.lifecycle.Fire(eventInitialized); err != nil {
		return err
	}
	c.logger.Info("Core initialized")
	return nil
}

func (c *Core) initResources() error {
	c.resources = resources.NewManager(c,
		resources.WithLogger(c.logger.With("Resources 📦 ")),
		resources.WithAssetsDir(c.props.AssetsDir),
	)
	assets.InitStandardResources(c.resources)
	c.props.ResourceInitializer(c.resources)

	if c.props.HotReload {
		if err := c.resources.Watch(); err != nil {
			return fmt.Errorf("watching assets in '%s': %w", c.props.AssetsDir, err)
		}
	}
	return nil
}

// order is important
func (c *Core) initPlugins() error {
	c.active = c.active[:0]
	for kind, p := range c.plugins {
		if p == nil {
			continue
		}
		if err := p.Init(); err != nil {
			return fmt.Errorf("init %s plugin '%s': %w", api.Kind(kind), p.Name(), err)
		}
		c.active = append(c.active, p)

		if h, ok := p.(api.FixedUpdater); ok {
			c.fixedHooks = append(c.fixedHooks, h)
		}
		if h, ok := p.(api.VariableUpdater); ok {
			c.variableHooks = append(c.variableHooks, h)
		}
		if h, ok := p.(api.RenderHook); ok {
			c.renderHooks = append(c.renderHooks, h)
		}
	}
	return nil
}

func (c *Core) initRNG() {
	cpu := uint64(time.Since(processStart).Nanoseconds())
	c.seed = uint64(c.clock.Now().Unix()) ^ cpu ^ rngSalt
	rand.Seed(c.seed)
}

// failInit undoes a partial Init.
func (c *Core) failInit(cause error) error {
	c.logger.Error("Init failed: %s", cause)
	errs := []error{cause}
	errs = append(errs, c.shutdownPlugins()...)
	if c.resources != nil {
		if err := c.resources.Close(); err != nil {
			errs = append(errs, err)
		}
		c.resources = nil
	}
	_, _ = c.lifecycle.Fire(eventInitFailed)
	return errors.Join(errs...)
}

// Shutdown ends the game, shuts the plugins down in reverse init order and
// releases every resource.
func (c *Core) Shutdown() error {
	if _, err := c.lifecycle.Fire(eventShutdown); err != nil {
		return fmt.Errorf("%w: %w", ErrNotInitialized, err)
	}

	c.game.OnGameEnd()
	c.game = nil

	errs := c.shutdownPlugins()
	if err := c.resources.Close(); err != nil {
		errs = append(errs, err)
	}
	c.resources = nil

	_, _ = c.lifecycle.Fire(eventTerminated)
	c.logger.Info("Core shut down")
	return errors.Join(errs...)
}

// order is important and should be done in reverse of that in initPlugins
func (c *Core) shutdownPlugins() []error {
	var errs []error
	for i := len(c.active) - 1; i >= 0; i-- {
		p := c.active[i]
		if err := p.Shutdown(); err != nil {
			c.logger.Error("Shutdown of plugin '%s' failed: %s", p.Name(), err)
			errs = append(errs, fmt.Errorf("shutdown plugin '%s': %w", p.Name(), err))
		}
	}
	c.active = nil
	c.fixedHooks = nil
	c.variableHooks = nil
	c.renderHooks = nil
	return errs
}

// Dispatch runs the loop until the game or the platform asks to stop and
// returns the exit code.
func (c *Core) Dispatch() int {
	if _, err := c.lifecycle.Fire(eventDispatch); err != nil {
		c.logger.Fatal("dispatch in %s stage: %s", c.lifecycle.State(), err)
	}
	c.isRunning.Store(true)

	if c.props.FPS <= 0 {
		c.runUncapped()
	} else {
		c.runCapped(c.props.FPS)
	}

	_, _ = c.lifecycle.Fire(eventStopped)
	code := c.ExitCode()
	c.logger.Info("Dispatch finished with exit code %d", code)
	return code
}

func (c *Core) runUncapped() {
	for c.isRunning.Load() {
		ts := core.NewPreciseTimestep(core.Seconds(c.clock.Now()), nominalFixedDelta)
		c.fixedUpdate(ts)
		c.variableUpdate(ts)
	}
}

func (c *Core) runCapped(fps int) {
	var numSteps int64
	startTime := c.clock.Now()
	targetTime := startTime
	lastTime := startTime
	fixedDelta := 1.0 / float64(fps)

	for c.isRunning.Load() {
		currentTime := c.clock.Now()
		now := core.Seconds(currentTime)

		var stepsNeeded int64
		if !currentTime.Before(targetTime) {
			stepsNeeded = int64(currentTime.Sub(targetTime)) * int64(fps) / int64(time.Second)
		}

		// Time for a fixed update?
		if stepsNeeded > 0 {
			for i := int64(0); i < min(stepsNeeded, maxFixedStepsPerIteration); i++ {
				c.fixedUpdate(core.NewPreciseTimestep(now, fixedDelta))
			}
			numSteps += stepsNeeded
			targetTime = startTime.Add(time.Duration(numSteps*1_000_000/int64(fps)) * time.Microsecond)
		} else {
			runtime.Gosched()
		}

		delta := core.Clamp(currentTime.Sub(lastTime).Seconds(), 0, maxVariableDelta)
		c.variableUpdate(core.NewPreciseTimestep(now, delta))

		lastTime = currentTime
	}
}

func (c *Core) fixedUpdate(ts core.PreciseTimestep) {
	c.logger.Assert(ts.Delta > 0, "fixed update with non-positive delta %f", ts.Delta)

	for _, h := range c.fixedHooks {
		h.OnFixedUpdate(ts, core.PreGameStep)
	}

	if c.isRunning.Load() {
		c.game.OnFixedUpdate(ts)
	}

	for _, h := range c.fixedHooks {
		h.OnFixedUpdate(ts, core.PostGameStep)
	}
}

func (c *Core) variableUpdate(ts core.PreciseTimestep) {
	c.logger.Assert(ts.Delta >= 0, "variable update with negative delta %f", ts.Delta)

	if c.props.HotReload {
		c.resources.ReloadChanged()
	}
	c.pumpEvents(ts)

	for _, h := range c.variableHooks {
		h.OnVariableUpdate(ts, core.PreGameStep)
	}

	if code, ok := c.game.ExitCode(); ok {
		c.exitCode.Store(int64(code))
		c.isRunning.Store(false)
	}

	if c.isRunning.Load() {
		c.game.OnVariableUpdate(ts)
	}

	for _, h := range c.variableHooks {
		h.OnVariableUpdate(ts, core.PostGameStep)
	}

	c.metrics.Update(ts.Delta)
	c.render(ts)
}

// render runs only with a video plugin. The game gets its render call even
// on the iteration that stopped the loop, so it can show a last frame.
func (c *Core) render(ts core.PreciseTimestep) {
	video := c.Video()
	if video == nil {
		return
	}

	video.BeginFrame()

	for _, h := range c.renderHooks {
		h.OnRender(ts, core.PreGameStep)
	}

	c.game.OnRender(ts)

	for _, h := range c.renderHooks {
		h.OnRender(ts, core.PostGameStep)
	}

	video.EndFrame()
}

func (c *Core) pumpEvents(ts core.PreciseTimestep) {
	input := c.Input()
	if input != nil {
		input.BeginFrame(ts)
	}

	system := c.System()
	if system == nil {
		return
	}
	if !system.GenerateEvents(c.Video(), input, c.UI()) {
		c.logger.Info("Platform requested quit, shutting down.")
		c.exitCode.Store(0)
		c.isRunning.Store(false)
	}
}

// Plugin returns the plugin in slot kind, or nil.
func (c *Core) Plugin(kind api.Kind) api.Plugin {
	if kind < 0 || int(kind) >= len(c.plugins) {
		return nil
	}
	return c.plugins[kind]
}

func (c *Core) System() api.System {
	s, _ := api.Lookup[api.System](c, api.KindSystem)
	return s
}

func (c *Core) Video() api.Video {
	v, _ := api.Lookup[api.Video](c, api.KindVideo)
	return v
}

func (c *Core) Input() api.Input {
	i, _ := api.Lookup[api.Input](c, api.KindInput)
	return i
}

func (c *Core) UI() api.UI {
	u, _ := api.Lookup[api.UI](c, api.KindUI)
	return u
}

func (c *Core) Game() Game {
	return c.game
}

func (c *Core) Resources() *resources.Manager {
	return c.resources
}

func (c *Core) Logger() *core.Logger {
	return c.logger
}

func (c *Core) Metrics() *core.Metrics {
	return c.metrics
}

func (c *Core) Clock() core.Clock {
	return c.clock
}

func (c *Core) FPS() int {
	return c.props.FPS
}

func (c *Core) ExitCode() int {
	return int(c.exitCode.Load())
}

func (c *Core) IsRunning() bool {
	return c.isRunning.Load()
}

// RunID identifies this Core in logs.
func (c *Core) RunID() uuid.UUID {
	return c.runID
}

// Seed returns the value the process RNG was seeded with during Init.
func (c *Core) Seed() uint64 {
	return c.seed
}

func (c *Core) State() Stage {
	return c.lifecycle.State()
}
