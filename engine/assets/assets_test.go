package assets

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/spaghettifunk/ember/engine/api"
	"github.com/spaghettifunk/ember/engine/core"
	"github.com/spaghettifunk/ember/engine/resources"
)

type deviceTexture struct{ released *atomic.Int32 }

func (d deviceTexture) Release() { d.released.Add(1) }

type fakeVideo struct {
	created  atomic.Int32
	released atomic.Int32
	compiled []string
}

func (v *fakeVideo) Name() string    { return "fake video" }
func (v *fakeVideo) Init() error     { return nil }
func (v *fakeVideo) Shutdown() error { return nil }
func (v *fakeVideo) BeginFrame()     {}
func (v *fakeVideo) EndFrame()       {}

func (v *fakeVideo) CreateTexture(name string, width, height int, pixels []byte) (api.DeviceTexture, error) {
	v.created.Add(1)
	return deviceTexture{released: &v.released}, nil
}

func (v *fakeVideo) CompileShader(name string, sources map[api.ShaderStage][]byte) (api.DeviceShader, error) {
	v.compiled = append(v.compiled, name)
	return deviceTexture{released: &v.released}, nil
}

type host map[api.Kind]api.Plugin

func (h host) Plugin(kind api.Kind) api.Plugin { return h[kind] }

func newManager(t *testing.T, h api.Host) (*resources.Manager, string) {
	t.Helper()
	dir := t.TempDir()
	m := resources.NewManager(h,
		resources.WithLogger(core.NewLogger(&bytes.Buffer{}, core.DebugLevel)),
		resources.WithAssetsDir(dir),
	)
	InitStandardResources(m)
	return m, dir
}

func writeFile(t *testing.T, dir, name string, data []byte) {
	t.Helper()
	p := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, data, 0o644))
}

func writePNG(t *testing.T, dir, name string, w, h int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	img.Set(1, 1, color.NRGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	writeFile(t, dir, name, buf.Bytes())
}

func TestInitStandardResources(t *testing.T) {
	m, _ := newManager(t, nil)
	assert.Len(t, m.Caches(), 8)
	assert.True(t, resources.IsInitialized[*Texture](m))
	assert.True(t, resources.IsInitialized[*Sound](m))
	assert.Panics(t, func() { InitStandardResources(m) })
}

func TestBlob(t *testing.T) {
	m, dir := newManager(t, nil)
	writeFile(t, dir, "data/level1.txt", []byte("#####\n#@..#\n#####"))

	h, err := resources.GetOrLoad[*Blob](m, "data/level1.txt")
	require.NoError(t, err)
	defer h.Release()
	assert.Equal(t, 17, h.Get().Len())
	assert.Contains(t, h.Get().Text(), "#@..#")
}

func TestTextureWithoutDevice(t *testing.T) {
	m, dir := newManager(t, nil)
	writePNG(t, dir, "textures/hero.png", 4, 3)

	h, err := resources.Load[*Texture](m, "textures/hero.png")
	require.NoError(t, err)
	defer h.Release()

	tex := h.Get()
	assert.Equal(t, 4, tex.Width)
	assert.Equal(t, 3, tex.Height)
	assert.Equal(t, "png", tex.Format)
	assert.Nil(t, tex.Device())
	assert.Equal(t, uint8(255), tex.Image.RGBAAt(1, 1).R)
}

func TestTextureUploadsToVideoPlugin(t *testing.T) {
	video := &fakeVideo{}
	m, dir := newManager(t, host{api.KindVideo: video})
	writePNG(t, dir, "hero.png", 2, 2)

	h, err := resources.Load[*Texture](m, "hero.png")
	require.NoError(t, err)
	assert.NotNil(t, h.Get().Device())
	assert.Equal(t, int32(1), video.created.Load())

	resources.Unload[*Texture](m, h.ResourceID())
	assert.Equal(t, int32(0), video.released.Load())
	h.Release()
	assert.Equal(t, int32(1), video.released.Load())
}

func TestTextureRejectsGarbage(t *testing.T) {
	m, dir := newManager(t, nil)
	writeFile(t, dir, "broken.png", []byte("not an image"))

	_, err := resources.Load[*Texture](m, "broken.png")
	assert.ErrorIs(t, err, resources.ErrLoadFailed)
	assert.False(t, resources.Exists[*Texture](m, resources.IDOf("broken.png")))
}

func TestShader(t *testing.T) {
	video := &fakeVideo{}
	m, dir := newManager(t, host{api.KindVideo: video})
	writeFile(t, dir, "shaders/sprite.shadercfg", []byte(`
name = "builtin.sprite"
renderpass = "world"

[stages]
vertex = "sprite.vert"
fragment = "sprite.frag"
`))
	writeFile(t, dir, "shaders/sprite.vert", []byte("void main() {}"))
	writeFile(t, dir, "shaders/sprite.frag", []byte("void main() { }"))

	h, err := resources.Load[*Shader](m, "shaders/sprite.shadercfg")
	require.NoError(t, err)
	defer h.Release()

	s := h.Get()
	assert.Equal(t, "builtin.sprite", s.Config.Name)
	assert.Equal(t, "world", s.Config.Renderpass)
	assert.Equal(t, []api.ShaderStage{api.ShaderStageFragment, api.ShaderStageVertex}, s.StageNames())
	assert.Equal(t, []byte("void main() {}"), s.Sources[api.ShaderStageVertex])
	assert.Equal(t, []string{"builtin.sprite"}, video.compiled)
	assert.NotNil(t, s.Program())
}

func TestShaderMissingStageFile(t *testing.T) {
	m, dir := newManager(t, nil)
	writeFile(t, dir, "s.shadercfg", []byte("name = \"s\"\n[stages]\nvertex = \"missing.vert\"\n"))

	_, err := resources.Load[*Shader](m, "s.shadercfg")
	assert.ErrorIs(t, err, os.ErrNotExist)

	writeFile(t, dir, "empty.shadercfg", []byte("name = \"empty\"\n"))
	_, err = resources.Load[*Shader](m, "empty.shadercfg")
	assert.ErrorIs(t, err, ErrShaderNoStages)
}

const sheetJSON = `{
	"frames": {
		"hero.png": {
			"frame": {"x": 0, "y": 0, "w": 16, "h": 16},
			"rotated": false,
			"trimmed": false,
			"pivot": {"x": 0.5, "y": 1}
		},
		"coin.png": {
			"frame": {"x": 16, "y": 0, "w": 8, "h": 8}
		},
		"spin.png": {
			"frame": {"x": 32, "y": 0, "w": 8, "h": 8},
			"rotated": true
		}
	},
	"meta": {
		"app": "http://free-tex-packer.com",
		"version": "1.0",
		"image": "atlas.png",
		"size": {"w": 64, "h": 32},
		"scale": 1
	}
}`

func TestSpriteSheet(t *testing.T) {
	m, dir := newManager(t, nil)
	writeFile(t, dir, "sheets/ui.json", []byte(sheetJSON))
	writePNG(t, dir, "sheets/atlas.png", 64, 32)

	h, err := resources.Load[*SpriteSheet](m, "sheets/ui.json")
	require.NoError(t, err)

	sheet := h.Get()
	assert.Equal(t, 2, sheet.Len())
	assert.Equal(t, []string{"coin.png", "hero.png"}, sheet.Names())
	assert.Equal(t, "sheets/atlas.png", sheet.TextureAssetID())
	assert.False(t, sheet.HasSprite("spin.png"))

	hero, err := sheet.SpriteByName("hero.png")
	require.NoError(t, err)
	assert.Equal(t, Vec2{X: 8, Y: 16}, hero.Pivot)
	assert.Equal(t, Rect{X: 0, Y: 0, W: 0.25, H: 0.5}, hero.UVs)
	assert.Equal(t, Vec2{X: 16, Y: 16}, hero.Size)

	_, err = sheet.SpriteByName("nope.png")
	assert.ErrorIs(t, err, ErrNoSuchSprite)

	// texture is loaded lazily through the manager
	assert.False(t, resources.Exists[*Texture](m, resources.IDOf("sheets/atlas.png")))
	tex, err := sheet.Texture()
	require.NoError(t, err)
	assert.Equal(t, 64, tex.Width)
	assert.True(t, resources.Exists[*Texture](m, resources.IDOf("sheets/atlas.png")))

	// unloading the sheet hands the texture back to the cache alone
	resources.Unload[*SpriteSheet](m, h.ResourceID())
	h.Release()
	texCache := resources.CacheOf[*Texture](m)
	texCache.NextGeneration()
	assert.Equal(t, 1, texCache.Purge(1))
}

func TestSpriteSheetRejectsOtherFormats(t *testing.T) {
	m, dir := newManager(t, nil)
	writeFile(t, dir, "other.json", []byte(`{"frames": {}, "meta": {"app": "TexturePacker"}}`))

	_, err := resources.Load[*SpriteSheet](m, "other.json")
	assert.ErrorIs(t, err, ErrUnsupportedSheet)
}

func TestSpriteLookupAndExpiry(t *testing.T) {
	m, dir := newManager(t, nil)
	writeFile(t, dir, "sheets/ui.json", []byte(sheetJSON))

	_, err := resources.Load[*Sprite](m, "coin.png")
	assert.ErrorIs(t, err, ErrNoSuchSprite)

	func() {
		h, err := resources.Load[*SpriteSheet](m, "sheets/ui.json")
		require.NoError(t, err)
		defer h.Release()
		require.NoError(t, h.Get().LoadSprites())
	}()

	sh, ok := resources.Get[*Sprite](m, resources.IDOf("coin.png"))
	require.True(t, ok)
	defer sh.Release()

	entry, err := sh.Get().Entry()
	require.NoError(t, err)
	assert.Equal(t, "coin.png", entry.Name)
	assert.Equal(t, 0, sh.Get().Index())

	// the sprite does not keep its sheet alive
	resources.Unload[*SpriteSheet](m, resources.IDOf("sheets/ui.json"))
	assert.Eventually(t, func() bool {
		runtime.GC()
		_, err := sh.Get().Entry()
		return err == ErrSheetExpired
	}, 5*time.Second, 10*time.Millisecond)
}

const fntData = `info face="Test" size=16 bold=0 italic=0 charset="" unicode=1 stretchH=100 smooth=1 aa=1 padding=0,0,0,0 spacing=1,1 outline=0
common lineHeight=18 base=14 scaleW=64 scaleH=32 pages=1 packed=0 alphaChnl=0 redChnl=0 greenChnl=0 blueChnl=0
page id=0 file="test_0.png"
chars count=2
char id=65   x=0     y=0     width=8     height=12    xoffset=0     yoffset=2     xadvance=9     page=0  chnl=15
char id=66   x=8     y=0     width=8     height=12    xoffset=0     yoffset=2     xadvance=9     page=0  chnl=15
kernings count=1
kerning first=65  second=66  amount=-1
`

func TestBitmapFont(t *testing.T) {
	m, dir := newManager(t, nil)
	writeFile(t, dir, "fonts/test.fnt", []byte(fntData))
	writePNG(t, dir, "fonts/test_0.png", 64, 32)

	h, err := resources.Load[*BitmapFont](m, "fonts/test.fnt")
	require.NoError(t, err)
	defer h.Release()

	f := h.Get()
	assert.Equal(t, "Test", f.Face)
	assert.Equal(t, uint32(16), f.Size)
	assert.Equal(t, int32(18), f.LineHeight)
	assert.Equal(t, int32(14), f.Baseline)
	assert.Len(t, f.Glyphs, 2)
	assert.Len(t, f.Pages, 1)
	assert.Equal(t, "test_0.png", f.Pages[0].File)
	assert.Equal(t, 17, f.MeasureString("AB"))
	assert.Equal(t, 18, f.MeasureString("BA"))
	assert.Equal(t, 9, f.MeasureString("A?"))
}

func TestFont(t *testing.T) {
	m, dir := newManager(t, nil)
	writeFile(t, dir, "fonts/goregular.ttf", goregular.TTF)

	h, err := resources.Load[*Font](m, "fonts/goregular.ttf")
	require.NoError(t, err)
	defer h.Release()

	f := h.Get()
	assert.Equal(t, "Go Regular", f.Name())
	assert.Greater(t, f.NumGlyphs(), 0)

	face, err := f.Face(12, 72)
	require.NoError(t, err)
	defer face.Close()
	assert.Greater(t, face.Metrics().Height.Ceil(), 0)
}

func TestSound(t *testing.T) {
	m, dir := newManager(t, nil)

	format := beep.Format{SampleRate: 44100, NumChannels: 2, Precision: 2}
	silence := beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			samples[i] = [2]float64{}
		}
		return len(samples), true
	})
	f, err := os.Create(filepath.Join(dir, "click.wav"))
	require.NoError(t, err)
	require.NoError(t, wav.Encode(f, beep.Take(4410, silence), format))
	require.NoError(t, f.Close())

	h, err := resources.Load[*Sound](m, "click.wav")
	require.NoError(t, err)
	defer h.Release()

	s := h.Get()
	assert.Equal(t, 4410, s.Samples())
	assert.Equal(t, 100*time.Millisecond, s.Duration())
	assert.Equal(t, beep.SampleRate(44100), s.Format().SampleRate)

	st := s.Streamer()
	buf := make([][2]float64, 512)
	n, ok := st.Stream(buf)
	assert.True(t, ok)
	assert.Equal(t, 512, n)
}
