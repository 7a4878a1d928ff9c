package assets

import (
	"github.com/fzipp/bmfont"

	"github.com/spaghettifunk/ember/engine/resources"
)

type FontGlyph struct {
	Codepoint rune
	X         uint16
	Y         uint16
	Width     uint16
	Height    uint16
	XOffset   int16
	YOffset   int16
	XAdvance  int16
	PageID    uint8
}

type FontKerning struct {
	Codepoint0 rune
	Codepoint1 rune
	Amount     int16
}

type BitmapFontPage struct {
	ID   int8
	File string
}

// BitmapFont is an AngelCode BMFont (.fnt) with its page images.
type BitmapFont struct {
	resources.Base
	Face       string
	Size       uint32
	LineHeight int32
	Baseline   int32
	AtlasSizeX int32
	AtlasSizeY int32
	Glyphs     map[rune]FontGlyph
	Kernings   map[[2]rune]FontKerning
	Pages      []BitmapFontPage
}

// MeasureString returns the advance width of s in pixels, kerning included.
func (f *BitmapFont) MeasureString(s string) int {
	width := 0
	prev := rune(-1)
	for _, r := range s {
		g, ok := f.Glyphs[r]
		if !ok {
			prev = -1
			continue
		}
		if k, ok := f.Kernings[[2]rune{prev, r}]; ok {
			width += int(k.Amount)
		}
		width += int(g.XAdvance)
		prev = r
	}
	return width
}

func LoadBitmapFont(l *resources.Loader) (*BitmapFont, error) {
	font, err := bmfont.Load(l.Path())
	if err != nil {
		return nil, err
	}

	out := &BitmapFont{
		Face:       font.Descriptor.Info.Face,
		Size:       uint32(font.Descriptor.Info.Size),
		LineHeight: int32(font.Descriptor.Common.LineHeight),
		Baseline:   int32(font.Descriptor.Common.Base),
		AtlasSizeX: int32(font.Descriptor.Common.ScaleW),
		AtlasSizeY: int32(font.Descriptor.Common.ScaleH),
		Glyphs:     make(map[rune]FontGlyph, len(font.Descriptor.Chars)),
		Kernings:   make(map[[2]rune]FontKerning, len(font.Descriptor.Kerning)),
		Pages:      make([]BitmapFontPage, 0, len(font.Descriptor.Pages)),
	}

	for _, p := range font.Descriptor.Pages {
		out.Pages = append(out.Pages, BitmapFontPage{
			ID:   int8(p.ID),
			File: p.File,
		})
	}

	for _, g := range font.Descriptor.Chars {
		out.Glyphs[rune(g.ID)] = FontGlyph{
			Codepoint: rune(g.ID),
			Height:    uint16(g.Height),
			Width:     uint16(g.Width),
			X:         uint16(g.X),
			Y:         uint16(g.Y),
			XAdvance:  int16(g.XAdvance),
			XOffset:   int16(g.XOffset),
			YOffset:   int16(g.YOffset),
			PageID:    uint8(g.Page),
		}
	}

	for p, k := range font.Descriptor.Kerning {
		out.Kernings[[2]rune{rune(p.First), rune(p.Second)}] = FontKerning{
			Codepoint0: rune(p.First),
			Codepoint1: rune(p.Second),
			Amount:     int16(k.Amount),
		}
	}

	return out, nil
}
