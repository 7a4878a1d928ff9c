package assets

import (
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"

	"github.com/spaghettifunk/ember/engine/resources"
)

// Font is a parsed TrueType or OpenType font.
type Font struct {
	resources.Base
	font *opentype.Font
}

func (f *Font) Name() string {
	var buf sfnt.Buffer
	name, err := f.font.Name(&buf, sfnt.NameIDFull)
	if err != nil {
		return ""
	}
	return name
}

func (f *Font) NumGlyphs() int {
	return f.font.NumGlyphs()
}

// Face creates a face at the given point size and resolution. Faces are not
// safe for concurrent use; the caller closes them.
func (f *Font) Face(size, dpi float64) (font.Face, error) {
	return opentype.NewFace(f.font, &opentype.FaceOptions{
		Size:    size,
		DPI:     dpi,
		Hinting: font.HintingFull,
	})
}

func LoadFont(l *resources.Loader) (*Font, error) {
	data, err := l.ReadFile()
	if err != nil {
		return nil, err
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, err
	}
	return &Font{font: f}, nil
}
