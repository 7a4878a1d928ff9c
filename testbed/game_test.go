package testbed

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/ember/engine"
	"github.com/spaghettifunk/ember/engine/core"
	"github.com/spaghettifunk/ember/engine/platform/terminal"
	"github.com/spaghettifunk/ember/engine/resources"
)

const introLevel = `
name = "intro"
banner = "walk around"
spawn = [1, 1]
rows = [
	"#####",
	"#   #",
	"#####",
]
`

func writeAssets(t *testing.T, level string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range map[string]string{
		LevelAsset:   level,
		WelcomeAsset: "hello\nthere\n",
	} {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, filepath.Dir(LogoAsset)), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, LogoAsset), buf.Bytes(), 0o644))
	return dir
}

func newEngine(t *testing.T, dir string) (*engine.Core, *TestGame, tcell.SimulationScreen) {
	t.Helper()
	logger := core.NewLogger(&bytes.Buffer{}, core.DebugLevel)
	screen := tcell.NewSimulationScreen("UTF-8")
	term := terminal.New(terminal.WithScreen(screen), terminal.WithLogger(logger), terminal.WithAssetsDir(dir))

	props := engine.DefaultCoreProperties(term.Factory())
	props.FPS = 0
	props.AssetsDir = dir
	props.Logger = logger
	props.ResourceInitializer = RegisterResources

	game := NewTestGame()
	c, err := engine.New(props, game)
	require.NoError(t, err)
	require.NoError(t, c.Init())
	return c, game, screen
}

func TestLevelWalls(t *testing.T) {
	level := &Level{Rows: []string{"###", "# #", "###"}}
	w, h := level.Size()
	assert.Equal(t, 3, w)
	assert.Equal(t, 3, h)
	assert.False(t, level.IsWall(1, 1))
	assert.True(t, level.IsWall(0, 1))
	assert.True(t, level.IsWall(-1, 1))
	assert.True(t, level.IsWall(1, 5))
}

func TestLoadLevelRejectsBadFiles(t *testing.T) {
	cases := map[string]string{
		"not toml":      "rows = [",
		"empty":         `name = "x"`,
		"spawn in wall": "spawn = [0, 0]\nrows = [\"#\"]",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			c, _, _ := newEngine(t, writeAssets(t, introLevel))
			defer c.Shutdown()

			dir := c.Resources().AssetsDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.toml"), []byte(content), 0o644))
			_, err := resources.Load[*Level](c.Resources(), "bad.toml")
			assert.ErrorIs(t, err, ErrBadLevel)
		})
	}
}

func TestMissingLevelFailsInit(t *testing.T) {
	logger := core.NewLogger(&bytes.Buffer{}, core.DebugLevel)
	term := terminal.New(terminal.WithScreen(tcell.NewSimulationScreen("UTF-8")), terminal.WithLogger(logger))
	props := engine.DefaultCoreProperties(term.Factory())
	props.AssetsDir = t.TempDir()
	props.Logger = logger
	props.ResourceInitializer = RegisterResources

	c, err := engine.New(props, NewTestGame())
	require.NoError(t, err)
	assert.ErrorIs(t, c.Init(), resources.ErrLoadFailed)
	assert.Equal(t, engine.StageTerminated, c.State())
}

func TestMoveStopsAtWalls(t *testing.T) {
	c, game, _ := newEngine(t, writeAssets(t, introLevel))
	defer c.Shutdown()

	assert.False(t, game.Move(0, -1))
	assert.False(t, game.Move(-1, 0))
	assert.True(t, game.Move(1, 0))
	assert.True(t, game.Move(1, 0))
	assert.False(t, game.Move(1, 0))
	x, y := game.Position()
	assert.Equal(t, 3, x)
	assert.Equal(t, 1, y)
}

func TestEscapeEndsTheGame(t *testing.T) {
	c, game, screen := newEngine(t, writeAssets(t, introLevel))

	screen.InjectKey(tcell.KeyRight, 0, tcell.ModNone)
	go func() {
		time.Sleep(50 * time.Millisecond)
		screen.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)
	}()

	code := c.Dispatch()
	assert.Equal(t, 0, code)
	x, _ := game.Position()
	assert.Equal(t, 2, x)

	// the last frame is still on screen
	r, _, _, _ := screen.GetContent(2, 2)
	assert.Equal(t, '@', r)
	r, _, _, _ = screen.GetContent(0, 5)
	assert.Equal(t, 'h', r)
	// the logo sits right of the five column level
	r, _, style, _ := screen.GetContent(7, 1)
	assert.Equal(t, '▀', r)
	fg, _, _ := style.Decompose()
	assert.Equal(t, tcell.NewRGBColor(255, 0, 0), fg)

	require.NoError(t, c.Shutdown())
}

func TestLevelReloadsAfterUnload(t *testing.T) {
	dir := writeAssets(t, introLevel)
	c, game, _ := newEngine(t, dir)
	defer c.Shutdown()

	m := c.Resources()
	old := game.level.Get()
	require.NoError(t, os.WriteFile(filepath.Join(dir, LevelAsset),
		[]byte("banner = \"v2\"\nspawn = [1, 1]\nrows = [\"###\", \"# #\", \"###\"]\n"), 0o644))

	game.OnFixedUpdate(core.PreciseTimestep{})
	assert.Same(t, old, game.level.Get())

	resources.Unload[*Level](m, resources.IDOf(LevelAsset))
	game.OnFixedUpdate(core.PreciseTimestep{})
	assert.Equal(t, "v2", game.level.Get().Banner)
	assert.NotSame(t, old, game.level.Get())
}
