package resources

import (
	"errors"
	"fmt"
	"reflect"
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/spaghettifunk/ember/engine/core"
)

// DefaultPurgeGenerations is the lag after which an unused entry is evicted.
const DefaultPurgeGenerations = 3

// entries scanned per worker during NextGeneration, at least
const minScanChunk = 256

var (
	ErrLoadFailed     = errors.New("failed to load asset")
	ErrInvalidAssetID = errors.New("invalid asset id")
	ErrNilResource    = errors.New("load function returned no resource")
)

// BaseCache owns the loaded resources of one type, keyed by ID. Entries carry
// the generation at which they were last seen in use; Purge evicts the ones
// lagging behind.
type BaseCache struct {
	manager   *Manager
	assetType AssetType
	goType    reflect.Type
	load      func(*Loader) (Resource, error)
	logger    *core.Logger

	mu      sync.RWMutex
	entries map[ID]*owner
	current atomic.Uint64
}

func newBaseCache(m *Manager, assetType AssetType, goType reflect.Type, load func(*Loader) (Resource, error)) *BaseCache {
	return &BaseCache{
		manager:   m,
		assetType: assetType,
		goType:    goType,
		load:      load,
		logger:    m.logger,
		entries:   make(map[ID]*owner),
	}
}

func (c *BaseCache) Type() AssetType {
	return c.assetType
}

// Exists reports whether id has a live entry.
func (c *BaseCache) Exists(id ID) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.entries[id]
	return ok
}

// Len returns the number of live entries.
func (c *BaseCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Generation returns the current generation of the cache.
func (c *BaseCache) Generation() uint64 {
	return c.current.Load()
}

func (c *BaseCache) getOwner(id ID) (*owner, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	o, ok := c.entries[id]
	if ok {
		o.acquire()
	}
	return o, ok
}

// GetUntyped returns a handle to the cached resource. It never loads.
func (c *BaseCache) GetUntyped(id ID) (*Handle[Resource], bool) {
	o, ok := c.getOwner(id)
	if !ok {
		return nil, false
	}
	return adopt[Resource](o), true
}

// LoadUntyped loads assetID through the type's load function and caches it.
// An asset that is already cached is returned as is.
func (c *BaseCache) LoadUntyped(assetID string) (*Handle[Resource], error) {
	o, err := c.loadOwner(assetID)
	if err != nil {
		return nil, err
	}
	return adopt[Resource](o), nil
}

// loadOwner returns the owner of assetID with a reference already taken for
// the caller.
func (c *BaseCache) loadOwner(assetID string) (*owner, error) {
	loader := newLoader(c.manager, assetID)
	if loader.ID() == InvalidID {
		c.logger.Error("Failed to load %s with id '%s': %s", c.assetType, assetID, ErrInvalidAssetID)
		return nil, fmt.Errorf("%w '%s': %w", ErrLoadFailed, assetID, ErrInvalidAssetID)
	}

	if o, ok := c.getOwner(loader.ID()); ok {
		return o, nil
	}

	// The lock is not held while loading so load functions can load other
	// resources, including ones of the same type.
	res, err := c.load(loader)
	if err == nil && isNilResource(res) {
		err = ErrNilResource
	}
	if err != nil {
		c.logger.Error("Failed to load %s with id '%s': %s", c.assetType, loader.AssetID(), err)
		return nil, fmt.Errorf("%w '%s': %w", ErrLoadFailed, loader.AssetID(), err)
	}

	b := res.base()
	b.assetID = loader.AssetID()
	b.id = loader.ID()

	c.mu.Lock()
	if _, exists := c.entries[b.id]; exists {
		c.mu.Unlock()
		c.logger.Fatal("failed to add %s '%s' (%s), a resource with the same id already exists", c.assetType, b.assetID, b.id)
	}
	o := newOwner(res, c.current.Load())
	o.acquire()
	c.entries[b.id] = o
	c.mu.Unlock()

	c.logger.Debug("Loaded %s '%s' (%s)", c.assetType, b.assetID, b.id)
	return o, nil
}

// Unload forgets id regardless of outstanding handles. Handles keep their
// resource alive.
func (c *BaseCache) Unload(id ID) {
	c.mu.Lock()
	o, ok := c.entries[id]
	if ok {
		delete(c.entries, id)
	}
	c.mu.Unlock()

	if ok {
		o.release()
	}
}

// Purge evicts every entry whose generation lags the current one by at least
// minGenerations and returns how many were evicted.
func (c *BaseCache) Purge(minGenerations int) int {
	if minGenerations < 0 {
		minGenerations = 0
	}

	var evicted []*owner
	c.mu.Lock()
	current := c.current.Load()
	for id, o := range c.entries {
		if current-o.generation.Load() >= uint64(minGenerations) {
			evicted = append(evicted, o)
			delete(c.entries, id)
		}
	}
	c.mu.Unlock()

	for _, o := range evicted {
		o.release()
	}
	c.logger.Info("Purged '%d' old resources from %s cache", len(evicted), c.assetType)
	return len(evicted)
}

// NextGeneration advances the current generation and marks every entry that
// is held outside the cache as used in it.
func (c *BaseCache) NextGeneration() {
	c.mu.RLock()
	defer c.mu.RUnlock()

	gen := c.current.Add(1)
	if len(c.entries) == 0 {
		return
	}

	owners := make([]*owner, 0, len(c.entries))
	for _, o := range c.entries {
		owners = append(owners, o)
	}

	workers := runtime.GOMAXPROCS(0)
	chunk := max((len(owners)+workers-1)/workers, minScanChunk)

	var g errgroup.Group
	g.SetLimit(workers)
	for start := 0; start < len(owners); start += chunk {
		part := owners[start:min(start+chunk, len(owners))]
		g.Go(func() error {
			for _, o := range part {
				if o.refs.Load() > 1 {
					o.touch(gen)
				}
			}
			return nil
		})
	}
	_ = g.Wait()
}

// FindIf returns the first entry matching pred, in no particular order.
func (c *BaseCache) FindIf(pred func(Resource) bool) (*Handle[Resource], bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, o := range c.entries {
		if pred(o.res) {
			o.acquire()
			return adopt[Resource](o), true
		}
	}
	return nil, false
}

// Clear drops every entry.
func (c *BaseCache) Clear() {
	c.mu.Lock()
	entries := c.entries
	c.entries = make(map[ID]*owner)
	c.mu.Unlock()

	for _, o := range entries {
		o.release()
	}
}

// Cache is the typed view of a BaseCache.
type Cache[T Resource] struct {
	*BaseCache
}

func (c *Cache[T]) Get(id ID) (*Handle[T], bool) {
	o, ok := c.getOwner(id)
	if !ok {
		return nil, false
	}
	return adopt[T](o), true
}

func (c *Cache[T]) Load(assetID string) (*Handle[T], error) {
	o, err := c.loadOwner(assetID)
	if err != nil {
		return nil, err
	}
	return adopt[T](o), nil
}

func (c *Cache[T]) FindIf(pred func(T) bool) (*Handle[T], bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, o := range c.entries {
		if pred(o.res.(T)) {
			o.acquire()
			return adopt[T](o), true
		}
	}
	return nil, false
}

// adopt wraps a reference the caller already took on o.
func adopt[T Resource](o *owner) *Handle[T] {
	return &Handle[T]{o: o, value: o.res.(T)}
}
