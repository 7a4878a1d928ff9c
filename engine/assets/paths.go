package assets

import (
	"path/filepath"

	"github.com/spaghettifunk/ember/engine/resources"
)

// siblingPath returns the file of an asset referenced relative to l's asset.
func siblingPath(l *resources.Loader, rel string) string {
	p := filepath.FromSlash(l.Resolve(rel))
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(l.Manager().AssetsDir(), p)
}
