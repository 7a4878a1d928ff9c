package terminal

import (
	"sync"

	"github.com/spaghettifunk/ember/engine/core"
)

// Input keeps the keyboard and mouse state fed by the System plugin.
type Input struct {
	term  *Terminal
	mu    sync.RWMutex
	state *core.InputState
}

func NewInput(t *Terminal) *Input {
	return &Input{
		term:  t,
		state: core.NewInputState(),
	}
}

func (i *Input) Name() string {
	return "terminal-input"
}

func (i *Input) Init() error {
	return nil
}

func (i *Input) Shutdown() error {
	return nil
}

// BeginFrame rolls the state over. Keys are cleared since a terminal only
// reports presses.
func (i *Input) BeginFrame(ts core.PreciseTimestep) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.state.BeginFrame(true)
}

func (i *Input) HandleEvent(ev core.Event) bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.state.Apply(ev)
}

func (i *Input) IsKeyDown(key core.KeyCode) bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.state.IsKeyDown(key)
}

func (i *Input) IsKeyPressed(key core.KeyCode) bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.state.IsKeyPressed(key)
}

func (i *Input) IsButtonDown(button core.Button) bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.state.IsButtonDown(button)
}

func (i *Input) MousePosition() (int32, int32) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.state.MousePosition()
}
