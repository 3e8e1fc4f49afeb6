package shared

// Overlay is a map whose writes are staged until Commit. Get reads the
// committed layer only, Pending reads staged values first.
//
// Overlay does no locking of its own.
type Overlay[K comparable, V any] struct {
	committed map[K]V
	dirty     map[K]V
}

func NewOverlay[K comparable, V any]() *Overlay[K, V] {
	return &Overlay[K, V]{
		committed: make(map[K]V),
		dirty:     make(map[K]V),
	}
}

func (o *Overlay[K, V]) Get(key K) (V, bool) {
	v, ok := o.committed[key]
	return v, ok
}

func (o *Overlay[K, V]) Pending(key K) (V, bool) {
	if v, ok := o.dirty[key]; ok {
		return v, true
	}
	return o.Get(key)
}

// Set stages v under key and returns a func restoring the previous staged entry.
func (o *Overlay[K, V]) Set(key K, v V) (undo func()) {
	prev, staged := o.dirty[key]
	o.dirty[key] = v
	return func() {
		if staged {
			o.dirty[key] = prev
			return
		}
		delete(o.dirty, key)
	}
}

// Commit publishes every staged write.
func (o *Overlay[K, V]) Commit() {
	for k, v := range o.dirty {
		o.committed[k] = v
	}
	clear(o.dirty)
}
