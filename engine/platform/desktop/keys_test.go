package desktop

import (
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/stretchr/testify/assert"

	"github.com/spaghettifunk/ember/engine/core"
)

func TestTranslateKey(t *testing.T) {
	cases := map[glfw.Key]core.KeyCode{
		glfw.KeyA:      core.KEY_A,
		glfw.KeyM:      core.KEY_M,
		glfw.Key5:      core.KeyCode('5'),
		glfw.KeyKP3:    core.KEY_NUMPAD3,
		glfw.KeyF12:    core.KEY_F12,
		glfw.KeyF24:    core.KEY_F24,
		glfw.KeySpace:  core.KEY_SPACE,
		glfw.KeyPageUp: core.KEY_PRIOR,
	}
	for key, want := range cases {
		got, ok := translateKey(key)
		assert.True(t, ok, "key %d", key)
		assert.Equal(t, want, got, "key %d", key)
	}

	_, ok := translateKey(glfw.KeyWorld1)
	assert.False(t, ok)
}

func TestTranslateButton(t *testing.T) {
	b, ok := translateButton(glfw.MouseButtonRight)
	assert.True(t, ok)
	assert.Equal(t, core.BUTTON_RIGHT, b)

	_, ok = translateButton(glfw.MouseButton5)
	assert.False(t, ok)
}

func TestEventQueueDropsOldest(t *testing.T) {
	d := New(WindowConfig{Name: "test"}, nil, "assets")
	for i := 0; i < eventQueueSize+2; i++ {
		d.push(core.MouseMoveEvent{X: int32(i)})
	}

	events := d.drain()
	assert.Len(t, events, eventQueueSize)
	assert.Equal(t, core.MouseMoveEvent{X: 2}, events[0])
	assert.Empty(t, d.drain())
	assert.Equal(t, int8(-1), wheelDelta(-0.5))
}

func TestInputKeepsKeysAcrossFrames(t *testing.T) {
	in := &Input{state: core.NewInputState()}
	in.HandleEvent(core.KeyEvent{KeyCode: core.KEY_W, Pressed: true})
	assert.True(t, in.IsKeyPressed(core.KEY_W))

	in.BeginFrame(core.PreciseTimestep{})
	assert.True(t, in.IsKeyDown(core.KEY_W))
	assert.False(t, in.IsKeyPressed(core.KEY_W))

	in.HandleEvent(core.KeyEvent{KeyCode: core.KEY_W, Pressed: false})
	assert.False(t, in.IsKeyDown(core.KEY_W))
}
