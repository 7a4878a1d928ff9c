package resources

import (
	"os"
	"path"
	"path/filepath"
)

// Loader is handed to a load function for the duration of one load. It carries
// the normalized asset id, its ID and the manager for nested loads.
type Loader struct {
	manager *Manager
	assetID string
	id      ID
}

func newLoader(m *Manager, assetID string) *Loader {
	n := NormalizeAssetID(assetID)
	return &Loader{
		manager: m,
		assetID: n,
		id:      IDOf(n),
	}
}

func (l *Loader) AssetID() string {
	return l.assetID
}

func (l *Loader) ID() ID {
	return l.id
}

func (l *Loader) Manager() *Manager {
	return l.manager
}

// Path returns the file backing the asset. Relative ids are resolved against
// the manager's assets directory.
func (l *Loader) Path() string {
	p := filepath.FromSlash(l.assetID)
	if filepath.IsAbs(p) || l.manager == nil {
		return p
	}
	return filepath.Join(l.manager.AssetsDir(), p)
}

func (l *Loader) ReadFile() ([]byte, error) {
	return os.ReadFile(l.Path())
}

func (l *Loader) Open() (*os.File, error) {
	return os.Open(l.Path())
}

// Dir returns the directory part of the asset id.
func (l *Loader) Dir() string {
	return path.Dir(l.assetID)
}

// Resolve turns an id relative to this asset into a normalized asset id.
func (l *Loader) Resolve(rel string) string {
	rel = NormalizeAssetID(rel)
	if path.IsAbs(rel) || filepath.IsAbs(rel) {
		return rel
	}
	return NormalizeAssetID(path.Join(l.Dir(), rel))
}
