package terminal

import (
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/spaghettifunk/ember/engine/api"
	"github.com/spaghettifunk/ember/engine/core"
	"github.com/spaghettifunk/ember/engine/platform"
)

const eventBufferSize = 100

// Terminal is the tcell screen shared by the terminal plugins. The System
// plugin owns its lifecycle.
type Terminal struct {
	screen    tcell.Screen
	logger    *core.Logger
	assetsDir string
	workers   int

	events chan tcell.Event
	done   chan struct{}
	wg     sync.WaitGroup
}

type Option func(t *Terminal)

// WithScreen replaces the real terminal, mostly with a simulation screen.
func WithScreen(screen tcell.Screen) Option {
	return func(t *Terminal) {
		t.screen = screen
	}
}

func WithLogger(logger *core.Logger) Option {
	return func(t *Terminal) {
		t.logger = logger
	}
}

func WithAssetsDir(dir string) Option {
	return func(t *Terminal) {
		t.assetsDir = dir
	}
}

// WithWorkers sets the number of workers behind System.Spawn.
func WithWorkers(n int) Option {
	return func(t *Terminal) {
		t.workers = n
	}
}

func New(opts ...Option) *Terminal {
	t := &Terminal{
		assetsDir: "assets",
		workers:   2,
		events:    make(chan tcell.Event, eventBufferSize),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.logger = core.LoggerOrDefault(t.logger).With("Terminal 🖥️ ")
	return t
}

// Screen returns the underlying screen. It is nil before the System plugin
// initialized it when no screen was injected.
func (t *Terminal) Screen() tcell.Screen {
	return t.screen
}

// Factory fills the system, video, input and UI slots.
func (t *Terminal) Factory() api.PluginFactory {
	return platform.Slots(map[api.Kind]platform.Constructor{
		api.KindSystem: func(api.Host) api.Plugin { return NewSystem(t) },
		api.KindVideo:  func(api.Host) api.Plugin { return NewVideo(t) },
		api.KindInput:  func(api.Host) api.Plugin { return NewInput(t) },
		api.KindUI:     func(host api.Host) api.Plugin { return NewOverlay(t, host) },
	})
}

func (t *Terminal) open() error {
	if t.screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			return err
		}
		t.screen = screen
	}
	if err := t.screen.Init(); err != nil {
		return err
	}
	t.screen.EnableMouse()
	t.screen.HideCursor()

	t.done = make(chan struct{})
	t.wg.Add(1)
	go t.poll()
	return nil
}

func (t *Terminal) poll() {
	defer t.wg.Done()
	for {
		// nil once the screen is finalized
		ev := t.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case t.events <- ev:
		case <-t.done:
			return
		}
	}
}

func (t *Terminal) close() {
	close(t.done)
	t.screen.Fini()
	t.wg.Wait()
}
