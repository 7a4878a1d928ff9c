package resources

import (
	"reflect"
	"sync"

	"github.com/spaghettifunk/ember/engine/api"
	"github.com/spaghettifunk/ember/engine/core"
)

// Manager routes typed requests to the cache of each resource type and owns
// all of them.
type Manager struct {
	host      api.Host
	logger    *core.Logger
	assetsDir string

	mu     sync.RWMutex
	typed  map[reflect.Type]any
	caches []*BaseCache

	watcher *Watcher
}

type Option func(*Manager)

func WithLogger(logger *core.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

func WithAssetsDir(dir string) Option {
	return func(m *Manager) {
		m.assetsDir = dir
	}
}

// NewManager creates a manager with no caches. host may be nil for tools and
// tests that do not need platform services.
func NewManager(host api.Host, opts ...Option) *Manager {
	m := &Manager{
		host:      host,
		assetsDir: ".",
		typed:     make(map[reflect.Type]any),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = core.LoggerOrDefault(m.logger)
	return m
}

func (m *Manager) Host() api.Host {
	return m.host
}

func (m *Manager) Logger() *core.Logger {
	return m.logger
}

func (m *Manager) AssetsDir() string {
	return m.assetsDir
}

// Caches returns every cache in initialization order.
func (m *Manager) Caches() []*BaseCache {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*BaseCache, len(m.caches))
	copy(out, m.caches)
	return out
}

// Init creates the cache for T. Initializing the same type twice is fatal.
func Init[T Resource](m *Manager, assetType AssetType, load LoadFunc[T]) *Cache[T] {
	m.logger.Assert(load != nil, "nil load function for %s", assetType)

	t := reflect.TypeFor[T]()
	m.mu.Lock()
	if _, ok := m.typed[t]; ok {
		m.mu.Unlock()
		m.logger.Fatal("resource cache already initialised for %s (%s)", assetType, t)
	}

	base := newBaseCache(m, assetType, t, func(l *Loader) (Resource, error) {
		return load(l)
	})
	c := &Cache[T]{BaseCache: base}
	m.typed[t] = c
	m.caches = append(m.caches, base)
	m.mu.Unlock()
	return c
}

// CacheOf returns the cache of T. It is fatal if T was never initialised.
func CacheOf[T Resource](m *Manager) *Cache[T] {
	t := reflect.TypeFor[T]()
	m.mu.RLock()
	c, ok := m.typed[t]
	m.mu.RUnlock()
	if !ok {
		m.logger.Fatal("resource type %s is not initialised for this manager", t)
	}
	return c.(*Cache[T])
}

// IsInitialized reports whether Init ran for T.
func IsInitialized[T Resource](m *Manager) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.typed[reflect.TypeFor[T]()]
	return ok
}

func Exists[T Resource](m *Manager, id ID) bool {
	return CacheOf[T](m).Exists(id)
}

func Get[T Resource](m *Manager, id ID) (*Handle[T], bool) {
	return CacheOf[T](m).Get(id)
}

func Load[T Resource](m *Manager, assetID string) (*Handle[T], error) {
	return CacheOf[T](m).Load(assetID)
}

// GetOrLoad returns the cached resource, loading it on a miss.
func GetOrLoad[T Resource](m *Manager, assetID string) (*Handle[T], error) {
	c := CacheOf[T](m)
	if h, ok := c.Get(IDOf(assetID)); ok {
		return h, nil
	}
	return c.Load(assetID)
}

func Unload[T Resource](m *Manager, id ID) {
	CacheOf[T](m).Unload(id)
}

func Purge[T Resource](m *Manager, minGenerations int) int {
	return CacheOf[T](m).Purge(minGenerations)
}

// NextGeneration advances the generation of every cache.
func (m *Manager) NextGeneration() {
	for _, c := range m.Caches() {
		c.NextGeneration()
	}
}

// PurgeAll purges every cache and returns the total number of evictions.
func (m *Manager) PurgeAll(minGenerations int) int {
	n := 0
	for _, c := range m.Caches() {
		n += c.Purge(minGenerations)
	}
	return n
}

// Watch starts watching the assets directory for changes picked up by
// ReloadChanged.
func (m *Manager) Watch() error {
	if m.watcher != nil {
		return nil
	}
	w, err := NewWatcher(m.assetsDir, m.logger)
	if err != nil {
		return err
	}
	m.watcher = w
	return nil
}

// ReloadChanged unloads every cached asset whose file changed since the last
// call, so the next GetOrLoad reads it again. Outstanding handles keep the old
// version. Returns the number of entries unloaded.
func (m *Manager) ReloadChanged() int {
	if m.watcher == nil {
		return 0
	}
	n := 0
	for _, assetID := range m.watcher.Changed() {
		id := IDOf(assetID)
		for _, c := range m.Caches() {
			if c.Exists(id) {
				m.logger.Info("Reloading %s '%s'", c.Type(), assetID)
				c.Unload(id)
				n++
			}
		}
	}
	return n
}

// Close stops the watcher and clears every cache, last initialised first.
func (m *Manager) Close() error {
	var err error
	if m.watcher != nil {
		err = m.watcher.Close()
		m.watcher = nil
	}
	caches := m.Caches()
	for i := len(caches) - 1; i >= 0; i-- {
		caches[i].Clear()
	}
	return err
}
