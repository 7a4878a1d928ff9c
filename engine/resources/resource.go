package resources

import "reflect"

// AssetType is the tag naming a kind of resource in logs.
type AssetType string

/** @brief Pre-defined asset types. */
const (
	/** @brief Raw bytes. */
	AssetTypeBlob AssetType = "blob"
	/** @brief Decoded image. */
	AssetTypeTexture AssetType = "texture"
	/** @brief Shader config with its stage sources. */
	AssetTypeShader AssetType = "shader"
	/** @brief Packed sprite atlas. */
	AssetTypeSpriteSheet AssetType = "spritesheet"
	/** @brief Single frame of a sprite sheet. */
	AssetTypeSprite AssetType = "sprite"
	/** @brief AngelCode bitmap font. */
	AssetTypeBitmapFont AssetType = "bitmapfont"
	/** @brief TrueType/OpenType font. */
	AssetTypeFont AssetType = "font"
	/** @brief Decoded audio clip. */
	AssetTypeSound AssetType = "sound"
)

// Base is embedded by every resource type. The cache stamps its fields once,
// right after a successful load.
type Base struct {
	assetID string
	id      ID
}

// AssetID returns the normalized asset id the resource was loaded from, or the
// empty string for resources created in code.
func (b *Base) AssetID() string {
	return b.assetID
}

func (b *Base) ResourceID() ID {
	return b.id
}

func (b *Base) base() *Base {
	return b
}

// Resource is implemented by pointers to types embedding Base.
type Resource interface {
	AssetID() string
	ResourceID() ID
	base() *Base
}

// Disposer is implemented by resources holding something that must be freed
// once nobody owns them anymore (device textures, nested handles).
type Disposer interface {
	Dispose()
}

// LoadFunc builds a resource of type T from the loader's asset. Returning an
// error or a nil T marks the load as failed.
type LoadFunc[T Resource] func(loader *Loader) (T, error)

func isNilResource(r Resource) bool {
	if r == nil {
		return true
	}
	v := reflect.ValueOf(r)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
