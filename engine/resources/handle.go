package resources

import "sync/atomic"

// owner is the shared ownership record of one cached resource. The cache holds
// one reference while the entry is live, every Handle holds another.
type owner struct {
	res        Resource
	refs       atomic.Int64
	generation atomic.Uint64
}

func newOwner(res Resource, generation uint64) *owner {
	o := &owner{res: res}
	o.refs.Store(1)
	o.generation.Store(generation)
	return o
}

func (o *owner) acquire() {
	o.refs.Add(1)
}

// touch raises the entry generation to gen. It never moves it backwards.
func (o *owner) touch(gen uint64) {
	for {
		old := o.generation.Load()
		if old >= gen || o.generation.CompareAndSwap(old, gen) {
			return
		}
	}
}

func (o *owner) release() {
	if o.refs.Add(-1) == 0 {
		if d, ok := o.res.(Disposer); ok {
			d.Dispose()
		}
	}
}

// Handle is one counted reference to a cached resource. Holding a handle keeps
// the resource "in use" for generation tracking and alive after the cache
// forgets it. A nil *Handle behaves like a released one.
type Handle[T Resource] struct {
	o        *owner
	value    T
	released atomic.Bool
}

// newHandle takes a new reference on o.
func newHandle[T Resource](o *owner) *Handle[T] {
	o.acquire()
	return &Handle[T]{o: o, value: o.res.(T)}
}

// Get returns the resource, or the zero T once released.
func (h *Handle[T]) Get() T {
	var zero T
	if !h.Valid() {
		return zero
	}
	return h.value
}

// Clone returns an independent reference to the same resource.
func (h *Handle[T]) Clone() *Handle[T] {
	if !h.Valid() {
		return nil
	}
	return newHandle[T](h.o)
}

// Release drops the reference. Calling it more than once is a no-op.
func (h *Handle[T]) Release() {
	if h == nil || !h.released.CompareAndSwap(false, true) {
		return
	}
	h.o.release()
}

func (h *Handle[T]) Valid() bool {
	return h != nil && !h.released.Load()
}

func (h *Handle[T]) AssetID() string {
	if !h.Valid() {
		return ""
	}
	return h.value.AssetID()
}

func (h *Handle[T]) ResourceID() ID {
	if !h.Valid() {
		return InvalidID
	}
	return h.value.ResourceID()
}

// Owners reports how many owners the resource has, the cache included.
func (h *Handle[T]) Owners() int64 {
	if h == nil {
		return 0
	}
	return h.o.refs.Load()
}
