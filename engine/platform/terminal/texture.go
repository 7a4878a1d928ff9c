package terminal

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"

	"github.com/spaghettifunk/ember/engine/api"
)

const halfBlock = '▀'

var ErrBadPixels = errors.New("pixel data does not match the texture size")

// CellTexture is an RGBA texture converted to terminal cells. Every cell
// stacks two pixel rows: the upper one is the foreground of a half block, the
// lower one the background.
type CellTexture struct {
	name     string
	cols     int
	rows     int
	styles   []tcell.Style
	video    *Video
	released atomic.Bool
}

// CreateTexture builds a CellTexture from tightly packed RGBA pixels.
func (v *Video) CreateTexture(name string, width, height int, pixels []byte) (api.DeviceTexture, error) {
	if width <= 0 || height <= 0 || len(pixels) != width*height*4 {
		return nil, fmt.Errorf("%w: '%s' is %dx%d with %d bytes", ErrBadPixels, name, width, height, len(pixels))
	}

	tex := &CellTexture{
		name:  name,
		cols:  width,
		rows:  (height + 1) / 2,
		video: v,
	}
	tex.styles = make([]tcell.Style, tex.cols*tex.rows)
	for row := 0; row < tex.rows; row++ {
		for col := 0; col < tex.cols; col++ {
			top := pixelColor(pixels, width, col, row*2)
			bottom := tcell.ColorReset
			if row*2+1 < height {
				bottom = pixelColor(pixels, width, col, row*2+1)
			}
			tex.styles[row*tex.cols+col] = tcell.StyleDefault.Foreground(top).Background(bottom)
		}
	}

	v.textures.Add(1)
	v.term.logger.Debug("Texture '%s' created with %dx%d cells", name, tex.cols, tex.rows)
	return tex, nil
}

// Textures returns the number of live textures.
func (v *Video) Textures() int64 {
	return v.textures.Load()
}

func pixelColor(pixels []byte, width, x, y int) tcell.Color {
	i := (y*width + x) * 4
	// fully transparent pixels show the terminal background
	if pixels[i+3] == 0 {
		return tcell.ColorReset
	}
	return tcell.NewRGBColor(int32(pixels[i]), int32(pixels[i+1]), int32(pixels[i+2]))
}

func (t *CellTexture) Name() string {
	return t.name
}

// Size returns the texture size in cells.
func (t *CellTexture) Size() (int, int) {
	return t.cols, t.rows
}

func (t *CellTexture) Release() {
	if t.released.CompareAndSwap(false, true) {
		t.video.textures.Add(-1)
	}
}

// DrawTexture paints tex with its top-left cell at x, y.
func (c *Canvas) DrawTexture(x, y int, tex *CellTexture) {
	for row := 0; row < tex.rows; row++ {
		for col := 0; col < tex.cols; col++ {
			c.Put(x+col, y+row, halfBlock, tex.styles[row*tex.cols+col])
		}
	}
}
