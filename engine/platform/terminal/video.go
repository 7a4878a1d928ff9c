package terminal

import (
	"sync/atomic"

	"github.com/gdamore/tcell/v2"

	"github.com/spaghettifunk/ember/engine/core"
)

// Video draws the frame onto the screen. Every frame starts from a cleared
// screen and is flushed by EndFrame.
type Video struct {
	term   *Terminal
	canvas *Canvas
	frames atomic.Uint64
	// live CellTextures
	textures atomic.Int64
}

func NewVideo(t *Terminal) *Video {
	return &Video{
		term:   t,
		canvas: &Canvas{term: t},
	}
}

func (v *Video) Name() string {
	return "terminal-video"
}

func (v *Video) Init() error {
	return nil
}

func (v *Video) Shutdown() error {
	return nil
}

func (v *Video) BeginFrame() {
	v.term.screen.Clear()
}

func (v *Video) EndFrame() {
	v.term.screen.Show()
	v.frames.Add(1)
}

// HandleEvent picks up resizes.
func (v *Video) HandleEvent(ev core.Event) bool {
	if _, ok := ev.(core.ResizeEvent); !ok {
		return false
	}
	v.term.screen.Sync()
	return true
}

func (v *Video) Canvas() *Canvas {
	return v.canvas
}

// Frames returns the number of frames shown.
func (v *Video) Frames() uint64 {
	return v.frames.Load()
}

// Canvas writes cells of the current frame.
type Canvas struct {
	term *Terminal
}

func (c *Canvas) Size() (int, int) {
	return c.term.screen.Size()
}

func (c *Canvas) Put(x, y int, r rune, style tcell.Style) {
	c.term.screen.SetContent(x, y, r, nil, style)
}

// Text writes s starting at x, y and returns the column after it. Text
// running off the right edge is cut.
func (c *Canvas) Text(x, y int, s string, style tcell.Style) int {
	w, _ := c.Size()
	for _, r := range s {
		if x >= w {
			break
		}
		c.Put(x, y, r, style)
		x++
	}
	return x
}

// Fill paints the rectangle with r.
func (c *Canvas) Fill(x, y, w, h int, r rune, style tcell.Style) {
	for row := y; row < y+h; row++ {
		for col := x; col < x+w; col++ {
			c.Put(col, row, r, style)
		}
	}
}
