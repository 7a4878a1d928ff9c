package assets

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/spaghettifunk/ember/engine/api"
	"github.com/spaghettifunk/ember/engine/resources"
)

// Texture is a decoded image in RGBA layout, optionally mirrored on the
// presentation device.
type Texture struct {
	resources.Base
	Image  *image.RGBA
	Width  int
	Height int
	// Format is the name of the decoder that read the file ("png", "webp", ...).
	Format string

	device api.DeviceTexture
}

// Device returns the device copy of the texture, nil when the video plugin
// does not create textures.
func (t *Texture) Device() api.DeviceTexture {
	return t.device
}

func (t *Texture) Dispose() {
	if t.device != nil {
		t.device.Release()
		t.device = nil
	}
}

func LoadTexture(l *resources.Loader) (*Texture, error) {
	f, err := l.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding '%s': %w", l.AssetID(), err)
	}

	bounds := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok || bounds.Min != (image.Point{}) {
		rgba = image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	}

	t := &Texture{
		Image:  rgba,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Format: format,
	}

	if factory, ok := api.Lookup[api.TextureFactory](l.Manager().Host(), api.KindVideo); ok {
		dev, err := factory.CreateTexture(l.AssetID(), t.Width, t.Height, rgba.Pix)
		if err != nil {
			return nil, fmt.Errorf("creating device texture for '%s': %w", l.AssetID(), err)
		}
		t.device = dev
	}
	return t, nil
}
