package testbed

import (
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/spaghettifunk/ember/engine"
	"github.com/spaghettifunk/ember/engine/api"
	"github.com/spaghettifunk/ember/engine/assets"
	"github.com/spaghettifunk/ember/engine/core"
	"github.com/spaghettifunk/ember/engine/platform/terminal"
	"github.com/spaghettifunk/ember/engine/resources"
)

const (
	LevelAsset   = "levels/intro.toml"
	WelcomeAsset = "text/welcome.txt"
	LogoAsset    = "textures/logo.png"

	// fixed ticks between two resource generations
	generationTicks = 60
)

var (
	wallStyle   = tcell.StyleDefault.Foreground(tcell.ColorBlue)
	playerStyle = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	textStyle   = tcell.StyleDefault.Foreground(tcell.ColorGreen)
)

// TestGame walks an '@' around a level loaded from the assets.
type TestGame struct {
	engine.BaseGame

	logger  *core.Logger
	level   *resources.Handle[*Level]
	welcome *resources.Handle[*assets.Blob]
	logo    *resources.Handle[*assets.Texture]

	x, y   int
	ticks  uint64
	frames uint64
}

func NewTestGame() *TestGame {
	return &TestGame{}
}

func (g *TestGame) Init() error {
	g.logger = g.Core().Logger().With("Testbed 🧪 ")

	level, err := resources.Load[*Level](g.Resources(), LevelAsset)
	if err != nil {
		return err
	}
	g.level = level
	g.x, g.y = level.Get().Spawn[0], level.Get().Spawn[1]

	welcome, err := resources.Load[*assets.Blob](g.Resources(), WelcomeAsset)
	if err != nil {
		g.logger.Warn("no welcome text: %s", err)
	} else {
		g.welcome = welcome
	}

	logo, err := resources.Load[*assets.Texture](g.Resources(), LogoAsset)
	if err != nil {
		g.logger.Warn("no logo: %s", err)
	} else {
		g.logo = logo
	}

	g.logger.Info("Level '%s' loaded, player at %d,%d", level.Get().Name, g.x, g.y)
	return nil
}

func (g *TestGame) OnFixedUpdate(ts core.PreciseTimestep) {
	g.ticks++
	g.reloadLevel()
	if g.ticks%generationTicks == 0 {
		m := g.Resources()
		m.NextGeneration()
		m.PurgeAll(resources.DefaultPurgeGenerations)
	}
}

func (g *TestGame) OnVariableUpdate(ts core.PreciseTimestep) {
	input := g.Core().Input()
	if input == nil {
		return
	}
	if input.IsKeyDown(core.KEY_ESCAPE) {
		g.Exit(0)
		return
	}

	dx, dy := 0, 0
	switch {
	case input.IsKeyPressed(core.KEY_W), input.IsKeyPressed(core.KEY_UP):
		dy = -1
	case input.IsKeyPressed(core.KEY_S), input.IsKeyPressed(core.KEY_DOWN):
		dy = 1
	case input.IsKeyPressed(core.KEY_A), input.IsKeyPressed(core.KEY_LEFT):
		dx = -1
	case input.IsKeyPressed(core.KEY_D), input.IsKeyPressed(core.KEY_RIGHT):
		dx = 1
	}
	g.Move(dx, dy)
}

// reloadLevel swaps in the level again after hot reload dropped it.
func (g *TestGame) reloadLevel() {
	if resources.Exists[*Level](g.Resources(), g.level.ResourceID()) {
		return
	}
	level, err := resources.Load[*Level](g.Resources(), LevelAsset)
	if err != nil {
		g.logger.Warn("keeping the old level: %s", err)
		return
	}
	g.level.Release()
	g.level = level
	if level.Get().IsWall(g.x, g.y) {
		g.x, g.y = level.Get().Spawn[0], level.Get().Spawn[1]
	}
}

// Move steps the player unless a wall is in the way.
func (g *TestGame) Move(dx, dy int) bool {
	level := g.level.Get()
	if (dx == 0 && dy == 0) || level.IsWall(g.x+dx, g.y+dy) {
		return false
	}
	g.x += dx
	g.y += dy
	return true
}

func (g *TestGame) Position() (int, int) {
	return g.x, g.y
}

func (g *TestGame) OnRender(ts core.PreciseTimestep) {
	g.frames++
	video, ok := api.Lookup[*terminal.Video](g.Core(), api.KindVideo)
	if !ok {
		return
	}
	canvas := video.Canvas()
	level := g.level.Get()

	for y, row := range level.Rows {
		for x, r := range row {
			if r == '#' {
				canvas.Put(x, y+1, '█', wallStyle)
			}
		}
	}
	canvas.Put(g.x, g.y+1, '@', playerStyle)

	w, h := level.Size()
	canvas.Text(0, 0, level.Banner, textStyle)
	if logo := g.logo.Get(); logo != nil {
		if tex, ok := logo.Device().(*terminal.CellTexture); ok {
			canvas.DrawTexture(w+2, 1, tex)
		}
	}
	if welcome := g.welcome.Get(); welcome != nil {
		for i, line := range strings.Split(strings.TrimRight(welcome.Text(), "\n"), "\n") {
			canvas.Text(0, h+2+i, line, textStyle)
		}
	}
}

func (g *TestGame) OnGameEnd() {
	g.logger.Info("Game over after %d ticks and %d frames", g.ticks, g.frames)
	g.level.Release()
	g.welcome.Release()
	g.logo.Release()
}
