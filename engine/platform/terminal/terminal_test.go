package terminal

import (
	"bytes"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/ember/engine/api"
	"github.com/spaghettifunk/ember/engine/core"
)

type host struct {
	plugins map[api.Kind]api.Plugin
	metrics *core.Metrics
}

func (h *host) Plugin(kind api.Kind) api.Plugin {
	return h.plugins[kind]
}

func (h *host) Metrics() *core.Metrics {
	return h.metrics
}

type rig struct {
	screen  tcell.SimulationScreen
	term    *Terminal
	host    *host
	system  *System
	video   *Video
	input   *Input
	overlay *Overlay
}

func newRig(t *testing.T) *rig {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	term := New(
		WithScreen(screen),
		WithLogger(core.NewLogger(&bytes.Buffer{}, core.DebugLevel)),
		WithAssetsDir("data"),
	)

	h := &host{plugins: map[api.Kind]api.Plugin{}, metrics: core.NewMetrics()}
	factory := term.Factory()
	for kind := api.KindSystem; kind < api.KindUser; kind++ {
		h.plugins[kind] = factory(h, kind)
	}
	assert.Nil(t, factory(h, api.KindUser))

	r := &rig{
		screen:  screen,
		term:    term,
		host:    h,
		system:  h.plugins[api.KindSystem].(*System),
		video:   h.plugins[api.KindVideo].(*Video),
		input:   h.plugins[api.KindInput].(*Input),
		overlay: h.plugins[api.KindUI].(*Overlay),
	}
	for kind := api.KindSystem; kind < api.KindUser; kind++ {
		require.NoError(t, h.plugins[kind].Init())
	}
	screen.SetSize(40, 10)
	t.Cleanup(func() {
		for kind := api.KindUser - 1; kind >= api.KindSystem; kind-- {
			_ = h.plugins[kind].Shutdown()
		}
	})
	return r
}

// pump runs one engine frame worth of input handling.
func (r *rig) pump() bool {
	r.input.BeginFrame(core.PreciseTimestep{})
	return r.system.GenerateEvents(r.video, r.input, r.overlay)
}

func cellAt(screen tcell.SimulationScreen, x, y int) rune {
	r, _, _, _ := screen.GetContent(x, y)
	return r
}

func TestTranslateKey(t *testing.T) {
	cases := []struct {
		key  tcell.Key
		r    rune
		want core.KeyCode
	}{
		{tcell.KeyRune, 'a', core.KEY_A},
		{tcell.KeyRune, 'Z', core.KEY_Z},
		{tcell.KeyRune, '7', core.KeyCode('7')},
		{tcell.KeyRune, ' ', core.KEY_SPACE},
		{tcell.KeyRune, '-', core.KEY_MINUS},
		{tcell.KeyEnter, 0, core.KEY_ENTER},
		{tcell.KeyUp, 0, core.KEY_UP},
		{tcell.KeyF1, 0, core.KEY_F1},
		{tcell.KeyPgDn, 0, core.KEY_NEXT},
	}
	for _, tc := range cases {
		code, ok := translateKey(tcell.NewEventKey(tc.key, tc.r, tcell.ModNone))
		assert.True(t, ok, "key %v %q", tc.key, tc.r)
		assert.Equal(t, tc.want, code, "key %v %q", tc.key, tc.r)
	}

	_, ok := translateKey(tcell.NewEventKey(tcell.KeyRune, 'é', tcell.ModNone))
	assert.False(t, ok)
}

func TestTranslate(t *testing.T) {
	assert.Equal(t, []core.Event{core.QuitEvent{}},
		translate(tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)))
	assert.Equal(t, []core.Event{core.QuitEvent{}},
		translate(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModCtrl)))
	assert.Equal(t, []core.Event{core.KeyEvent{KeyCode: core.KEY_Q, Rune: 'q', Pressed: true}},
		translate(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)))
	assert.Equal(t, []core.Event{core.ResizeEvent{Width: 120, Height: 40}},
		translate(tcell.NewEventResize(120, 40)))

	mouse := translate(tcell.NewEventMouse(3, 4, tcell.Button1|tcell.WheelDown, tcell.ModNone))
	assert.Equal(t, []core.Event{
		core.MouseMoveEvent{X: 3, Y: 4},
		core.MouseButtonEvent{Button: core.BUTTON_LEFT, Pressed: true},
		core.MouseButtonEvent{Button: core.BUTTON_RIGHT, Pressed: false},
		core.MouseButtonEvent{Button: core.BUTTON_MIDDLE, Pressed: false},
		core.MouseWheelEvent{Delta: -1},
	}, mouse)

	assert.Nil(t, translate(tcell.NewEventInterrupt(nil)))
}

func TestKeysReachInput(t *testing.T) {
	r := newRig(t)

	r.screen.InjectKey(tcell.KeyRune, 'w', tcell.ModNone)
	assert.Eventually(t, func() bool {
		return r.pump() && r.input.IsKeyDown(core.KEY_W)
	}, time.Second, 5*time.Millisecond)
	assert.True(t, r.input.IsKeyPressed(core.KEY_W))

	// no release events, the key is gone on the next frame
	require.True(t, r.pump())
	assert.False(t, r.input.IsKeyDown(core.KEY_W))
}

func TestQuitStopsEvents(t *testing.T) {
	r := newRig(t)

	r.screen.InjectKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)
	assert.Eventually(t, func() bool {
		return !r.pump()
	}, time.Second, 5*time.Millisecond)
}

func TestOverlayToggle(t *testing.T) {
	r := newRig(t)
	assert.False(t, r.overlay.Enabled())

	r.screen.InjectKey(tcell.KeyF1, 0, tcell.ModNone)
	assert.Eventually(t, func() bool {
		r.pump()
		return r.overlay.Enabled()
	}, time.Second, 5*time.Millisecond)
	// consumed by the overlay
	assert.False(t, r.input.IsKeyDown(core.KEY_F1))

	for range 3 {
		r.host.metrics.Update(0.016)
	}
	r.video.BeginFrame()
	r.overlay.OnRender(core.PreciseTimestep{}, core.PreGameStep)
	assert.Equal(t, ' ', cellAt(r.screen, 39, 0))
	r.overlay.OnRender(core.PreciseTimestep{}, core.PostGameStep)
	r.video.EndFrame()

	var top []rune
	for x := 0; x < 40; x++ {
		top = append(top, cellAt(r.screen, x, 0))
	}
	assert.Contains(t, string(top), "FPS")
	assert.Contains(t, string(top), "16.00 ms")
}

func TestVideoCanvas(t *testing.T) {
	r := newRig(t)
	canvas := r.video.Canvas()

	w, h := canvas.Size()
	assert.Equal(t, 40, w)
	assert.Equal(t, 10, h)

	r.video.BeginFrame()
	end := canvas.Text(2, 1, "hello", tcell.StyleDefault)
	assert.Equal(t, 7, end)
	assert.Equal(t, 40, canvas.Text(35, 2, "truncated", tcell.StyleDefault))
	canvas.Fill(0, 5, 3, 2, '#', tcell.StyleDefault)
	r.video.EndFrame()

	assert.Equal(t, 'h', cellAt(r.screen, 2, 1))
	assert.Equal(t, 'o', cellAt(r.screen, 6, 1))
	assert.Equal(t, 't', cellAt(r.screen, 35, 2))
	assert.Equal(t, '#', cellAt(r.screen, 2, 6))
	assert.Equal(t, uint64(1), r.video.Frames())

	r.video.BeginFrame()
	assert.Equal(t, ' ', cellAt(r.screen, 2, 1))
}

func TestResizeReachesVideo(t *testing.T) {
	r := newRig(t)
	assert.True(t, r.video.HandleEvent(core.ResizeEvent{Width: 10, Height: 10}))
	assert.False(t, r.video.HandleEvent(core.KeyEvent{}))
}

func TestSpawn(t *testing.T) {
	r := newRig(t)
	assert.Equal(t, "data", r.system.AssetsDir())

	var ran atomic.Int32
	r.system.Spawn("count", func() error {
		ran.Add(1)
		return nil
	})
	r.system.Spawn("fail", func() error {
		ran.Add(1)
		return errors.New("boom")
	})
	assert.Eventually(t, func() bool {
		return ran.Load() == 2
	}, time.Second, 5*time.Millisecond)
}
