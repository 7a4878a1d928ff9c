package assets

import (
	"github.com/spaghettifunk/ember/engine/resources"
)

// InitStandardResources registers the caches of every built-in resource type.
func InitStandardResources(m *resources.Manager) {
	resources.Init(m, resources.AssetTypeBlob, LoadBlob)
	resources.Init(m, resources.AssetTypeTexture, LoadTexture)
	resources.Init(m, resources.AssetTypeShader, LoadShader)
	resources.Init(m, resources.AssetTypeSpriteSheet, LoadSpriteSheet)
	resources.Init(m, resources.AssetTypeSprite, LoadSprite)
	resources.Init(m, resources.AssetTypeBitmapFont, LoadBitmapFont)
	resources.Init(m, resources.AssetTypeFont, LoadFont)
	resources.Init(m, resources.AssetTypeSound, LoadSound)
}
