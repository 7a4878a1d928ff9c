package assets

import (
	"errors"
	"fmt"
	"weak"

	"github.com/spaghettifunk/ember/engine/resources"
)

var ErrSheetExpired = errors.New("sprite sheet has expired")

// Sprite is one frame of a loaded SpriteSheet. It does not keep the sheet
// alive.
type Sprite struct {
	resources.Base
	sheet weak.Pointer[SpriteSheet]
	index int
}

func (s *Sprite) Index() int {
	return s.index
}

// Sheet returns the parent sheet, or nil once it has been collected.
func (s *Sprite) Sheet() *SpriteSheet {
	return s.sheet.Value()
}

func (s *Sprite) Entry() (SpriteSheetEntry, error) {
	sheet := s.Sheet()
	if sheet == nil {
		return SpriteSheetEntry{}, ErrSheetExpired
	}
	return sheet.Sprite(s.index)
}

// LoadSprite looks the sprite up in the sheets already loaded.
func LoadSprite(l *resources.Loader) (*Sprite, error) {
	sheets := resources.CacheOf[*SpriteSheet](l.Manager())
	h, ok := sheets.FindIf(func(sheet *SpriteSheet) bool {
		return sheet.HasSprite(l.AssetID())
	})
	if !ok {
		return nil, fmt.Errorf("%w: '%s' is in no loaded sheet", ErrNoSuchSprite, l.AssetID())
	}
	defer h.Release()

	sheet := h.Get()
	idx, _ := sheet.SpriteIndex(l.AssetID())
	return &Sprite{sheet: weak.Make(sheet), index: idx}, nil
}
