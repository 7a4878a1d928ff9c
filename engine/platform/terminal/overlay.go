package terminal

import (
	"fmt"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"

	"github.com/spaghettifunk/ember/engine/api"
	"github.com/spaghettifunk/ember/engine/core"
)

var overlayStyle = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorYellow)

// Overlay is the UI plugin. It draws the frame metrics on top of the game
// and toggles with F1.
type Overlay struct {
	term    *Terminal
	host    api.Host
	enabled atomic.Bool
}

func NewOverlay(t *Terminal, host api.Host) *Overlay {
	return &Overlay{term: t, host: host}
}

func (o *Overlay) Name() string {
	return "terminal-overlay"
}

func (o *Overlay) Init() error {
	return nil
}

func (o *Overlay) Shutdown() error {
	return nil
}

func (o *Overlay) Enabled() bool {
	return o.enabled.Load()
}

func (o *Overlay) SetEnabled(enabled bool) {
	o.enabled.Store(enabled)
}

// HandleEvent consumes F1.
func (o *Overlay) HandleEvent(ev core.Event) bool {
	key, ok := ev.(core.KeyEvent)
	if !ok || key.KeyCode != core.KEY_F1 || !key.Pressed {
		return false
	}
	o.SetEnabled(!o.Enabled())
	return true
}

func (o *Overlay) OnRender(ts core.PreciseTimestep, step core.StepType) {
	if step != core.PostGameStep || !o.Enabled() {
		return
	}
	source, ok := o.host.(api.MetricsSource)
	if !ok {
		return
	}
	fps, frameTime := source.Metrics().Frame()
	line := fmt.Sprintf(" FPS %3.0f | %6.2f ms ", fps, frameTime)

	canvas := &Canvas{term: o.term}
	w, _ := canvas.Size()
	canvas.Text(max(0, w-len(line)), 0, line, overlayStyle)
}
