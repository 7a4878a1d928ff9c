package assets

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/spaghettifunk/ember/engine/resources"
)

const freeTexPackerApp = "http://free-tex-packer.com"

var (
	ErrUnsupportedSheet = errors.New("unsupported sprite sheet format")
	ErrEmptySheet       = errors.New("sprite sheet contains no usable frames")
	ErrNoSuchSprite     = errors.New("sprite not found in sheet")
)

type Rect struct {
	X, Y, W, H float32
}

type Vec2 struct {
	X, Y float32
}

// SpriteSheetEntry describes one frame of a sheet.
type SpriteSheetEntry struct {
	Name string
	// Pivot in pixels, relative to the frame origin.
	Pivot Vec2
	// UVs is the frame rectangle normalized to the texture size.
	UVs  Rect
	Size Vec2
}

// SpriteSheet is a texture atlas described by a free-tex-packer JSON file.
// The texture is loaded on first use.
type SpriteSheet struct {
	resources.Base

	manager   *resources.Manager
	textureID string
	sprites   []SpriteSheetEntry
	index     map[resources.ID]int

	mu      sync.Mutex
	texture *resources.Handle[*Texture]
}

// TextureAssetID returns the asset id of the atlas image.
func (s *SpriteSheet) TextureAssetID() string {
	return s.textureID
}

// Texture returns the atlas texture, loading it on first call.
func (s *SpriteSheet) Texture() (*Texture, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.texture == nil {
		h, err := resources.GetOrLoad[*Texture](s.manager, s.textureID)
		if err != nil {
			return nil, err
		}
		s.texture = h
	}
	return s.texture.Get(), nil
}

func (s *SpriteSheet) Len() int {
	return len(s.sprites)
}

func (s *SpriteSheet) HasSprite(name string) bool {
	_, ok := s.index[resources.IDOf(name)]
	return ok
}

// SpriteIndex returns the index of the named sprite.
func (s *SpriteSheet) SpriteIndex(name string) (int, bool) {
	idx, ok := s.index[resources.IDOf(name)]
	return idx, ok
}

func (s *SpriteSheet) Sprite(idx int) (SpriteSheetEntry, error) {
	if idx < 0 || idx >= len(s.sprites) {
		return SpriteSheetEntry{}, fmt.Errorf("%w: index %d", ErrNoSuchSprite, idx)
	}
	return s.sprites[idx], nil
}

func (s *SpriteSheet) SpriteByName(name string) (SpriteSheetEntry, error) {
	idx, ok := s.SpriteIndex(name)
	if !ok {
		return SpriteSheetEntry{}, fmt.Errorf("%w: '%s'", ErrNoSuchSprite, name)
	}
	return s.sprites[idx], nil
}

// Names returns the sprite names in sheet order.
func (s *SpriteSheet) Names() []string {
	out := make([]string, len(s.sprites))
	for i, e := range s.sprites {
		out[i] = e.Name
	}
	return out
}

// LoadSprites loads every sprite of the sheet into the sprite cache.
func (s *SpriteSheet) LoadSprites() error {
	var errs []error
	for _, e := range s.sprites {
		h, err := resources.GetOrLoad[*Sprite](s.manager, e.Name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		h.Release()
	}
	return errors.Join(errs...)
}

func (s *SpriteSheet) addSprite(e SpriteSheetEntry) {
	id := resources.IDOf(e.Name)
	if _, ok := s.index[id]; ok {
		return
	}
	s.index[id] = len(s.sprites)
	s.sprites = append(s.sprites, e)
}

func (s *SpriteSheet) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.texture.Release()
	s.texture = nil
}

type freeTexPackerSize struct {
	W float32 `json:"w"`
	H float32 `json:"h"`
}

type freeTexPackerFrame struct {
	Frame struct {
		X float32 `json:"x"`
		Y float32 `json:"y"`
		W float32 `json:"w"`
		H float32 `json:"h"`
	} `json:"frame"`
	Rotated bool  `json:"rotated"`
	Trimmed bool  `json:"trimmed"`
	Pivot   *Vec2 `json:"pivot"`
}

type freeTexPackerSheet struct {
	Frames map[string]freeTexPackerFrame `json:"frames"`
	Meta   struct {
		App   string            `json:"app"`
		Image string            `json:"image"`
		Size  freeTexPackerSize `json:"size"`
	} `json:"meta"`
}

func LoadSpriteSheet(l *resources.Loader) (*SpriteSheet, error) {
	data, err := l.ReadFile()
	if err != nil {
		return nil, err
	}

	var doc freeTexPackerSheet
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing sprite sheet '%s': %w", l.AssetID(), err)
	}
	if doc.Frames == nil || doc.Meta.App != freeTexPackerApp {
		return nil, fmt.Errorf("%w: '%s'", ErrUnsupportedSheet, l.AssetID())
	}
	if doc.Meta.Image == "" {
		return nil, fmt.Errorf("%w: '%s' names no texture", ErrUnsupportedSheet, l.AssetID())
	}
	if doc.Meta.Size.W <= 0 || doc.Meta.Size.H <= 0 {
		return nil, fmt.Errorf("%w: '%s' has an invalid texture size", ErrUnsupportedSheet, l.AssetID())
	}

	logger := l.Manager().Logger()
	sheet := &SpriteSheet{
		manager:   l.Manager(),
		textureID: l.Resolve(doc.Meta.Image),
		index:     make(map[resources.ID]int, len(doc.Frames)),
	}

	// map order is random, keep sheets deterministic
	names := make([]string, 0, len(doc.Frames))
	for name := range doc.Frames {
		names = append(names, name)
	}
	sort.Strings(names)

	tw, th := doc.Meta.Size.W, doc.Meta.Size.H
	for _, name := range names {
		f := doc.Frames[name]
		if f.Rotated || f.Trimmed {
			logger.Warn("Skipping sprite '%s' in '%s': rotated and trimmed frames are not supported", name, l.AssetID())
			continue
		}
		r := f.Frame
		if r.W <= 0 || r.H <= 0 {
			logger.Warn("Skipping sprite '%s' in '%s': invalid frame bounds", name, l.AssetID())
			continue
		}
		var pivot Vec2
		if f.Pivot != nil {
			pivot = Vec2{X: r.W * f.Pivot.X, Y: r.H * f.Pivot.Y}
		}
		sheet.addSprite(SpriteSheetEntry{
			Name:  resources.NormalizeAssetID(name),
			Pivot: pivot,
			UVs:   Rect{X: r.X / tw, Y: r.Y / th, W: r.W / tw, H: r.H / th},
			Size:  Vec2{X: r.W, Y: r.H},
		})
	}

	if len(sheet.sprites) == 0 {
		return nil, fmt.Errorf("%w: '%s'", ErrEmptySheet, l.AssetID())
	}
	return sheet, nil
}
