package testbed

import (
	"errors"
	"fmt"

	"github.com/pelletier/go-toml/v2"

	"github.com/spaghettifunk/ember/engine/resources"
)

const AssetTypeLevel resources.AssetType = "level"

var ErrBadLevel = errors.New("malformed level")

// Level is a room read from a TOML file. Rows use '#' for walls.
type Level struct {
	resources.Base
	Name   string   `toml:"name"`
	Spawn  [2]int   `toml:"spawn"`
	Rows   []string `toml:"rows"`
	Banner string   `toml:"banner"`
}

func (l *Level) Size() (int, int) {
	w := 0
	for _, row := range l.Rows {
		w = max(w, len(row))
	}
	return w, len(l.Rows)
}

// IsWall reports walls and everything outside the level.
func (l *Level) IsWall(x, y int) bool {
	if y < 0 || y >= len(l.Rows) || x < 0 || x >= len(l.Rows[y]) {
		return true
	}
	return l.Rows[y][x] == '#'
}

func LoadLevel(ld *resources.Loader) (*Level, error) {
	data, err := ld.ReadFile()
	if err != nil {
		return nil, err
	}
	var level Level
	if err := toml.Unmarshal(data, &level); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadLevel, err)
	}
	if len(level.Rows) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrBadLevel)
	}
	if level.IsWall(level.Spawn[0], level.Spawn[1]) {
		return nil, fmt.Errorf("%w: spawn %v is inside a wall", ErrBadLevel, level.Spawn)
	}
	return &level, nil
}

// RegisterResources adds the testbed's own resource types.
func RegisterResources(m *resources.Manager) {
	resources.Init(m, AssetTypeLevel, LoadLevel)
}
