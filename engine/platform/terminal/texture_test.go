package terminal

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/ember/engine/assets"
	"github.com/spaghettifunk/ember/engine/core"
	"github.com/spaghettifunk/ember/engine/resources"
)

var (
	red   = color.RGBA{R: 255, A: 255}
	green = color.RGBA{G: 255, A: 255}
	blue  = color.RGBA{B: 255, A: 255}
)

func TestCreateTexture(t *testing.T) {
	r := newRig(t)

	// 2x3: the last cell row only has a top pixel
	pixels := []byte{
		255, 0, 0, 255, 0, 255, 0, 255,
		0, 0, 255, 255, 0, 0, 0, 0,
		0, 255, 0, 255, 255, 0, 0, 255,
	}
	dev, err := r.video.CreateTexture("tiny", 2, 3, pixels)
	require.NoError(t, err)
	tex := dev.(*CellTexture)
	assert.Equal(t, "tiny", tex.Name())
	cols, rows := tex.Size()
	assert.Equal(t, 2, cols)
	assert.Equal(t, 2, rows)
	assert.Equal(t, int64(1), r.video.Textures())

	r.video.BeginFrame()
	r.video.Canvas().DrawTexture(5, 3, tex)
	r.video.EndFrame()

	ch, _, style, _ := r.screen.GetContent(5, 3)
	assert.Equal(t, halfBlock, ch)
	fg, bg, _ := style.Decompose()
	assert.Equal(t, tcell.NewRGBColor(255, 0, 0), fg)
	assert.Equal(t, tcell.NewRGBColor(0, 0, 255), bg)

	_, _, style, _ = r.screen.GetContent(6, 3)
	_, bg, _ = style.Decompose()
	assert.Equal(t, tcell.ColorReset, bg)

	_, _, style, _ = r.screen.GetContent(6, 4)
	fg, bg, _ = style.Decompose()
	assert.Equal(t, tcell.NewRGBColor(255, 0, 0), fg)
	assert.Equal(t, tcell.ColorReset, bg)

	tex.Release()
	tex.Release()
	assert.Equal(t, int64(0), r.video.Textures())
}

func TestCreateTextureRejectsBadPixels(t *testing.T) {
	r := newRig(t)

	_, err := r.video.CreateTexture("short", 2, 2, make([]byte, 15))
	assert.ErrorIs(t, err, ErrBadPixels)
	_, err = r.video.CreateTexture("empty", 0, 2, nil)
	assert.ErrorIs(t, err, ErrBadPixels)
	assert.Equal(t, int64(0), r.video.Textures())
}

func TestLoadedTexturesLiveOnTheTerminal(t *testing.T) {
	r := newRig(t)
	dir := t.TempDir()

	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	img.Set(0, 0, red)
	img.Set(0, 1, green)
	img.Set(2, 1, blue)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "logo.png"), buf.Bytes(), 0o644))

	m := resources.NewManager(r.host,
		resources.WithLogger(core.NewLogger(&bytes.Buffer{}, core.DebugLevel)),
		resources.WithAssetsDir(dir),
	)
	assets.InitStandardResources(m)

	h, err := resources.Load[*assets.Texture](m, "logo.png")
	require.NoError(t, err)
	tex, ok := h.Get().Device().(*CellTexture)
	require.True(t, ok)
	cols, rows := tex.Size()
	assert.Equal(t, 3, cols)
	assert.Equal(t, 1, rows)
	assert.Equal(t, int64(1), r.video.Textures())

	h.Release()
	require.NoError(t, m.Close())
	assert.Equal(t, int64(0), r.video.Textures())
}
