package strategycache

// Observer receives cache lifecycle notifications. Observers are invoked
// synchronously, inside the cache's critical section, in registration
// order. An error returned from any callback aborts the triggering cache
// operation and surfaces to its caller as a *ListenerError.
//
// Observers must not call back into the cache; the cache's lock is held
// for the duration of every callback.
type Observer[K comparable, V any] interface {
	// OnAdd is called after an Add event fires, before the entry is inserted.
	OnAdd(key K, value V) error

	// OnUpdate is called when an existing entry's value is replaced in place.
	OnUpdate(key K, value V) error

	// OnRemove is called before an entry is erased, whether by an explicit
	// Remove, an overwrite, a failed validity check, or an eviction.
	OnRemove(key K) error

	// OnGet is called on every read access to a present key.
	OnGet(key K) error

	// OnClear is called before the store is emptied.
	OnClear() error
}

// Strategy is the policy contract a cache delegates its eviction and
// expiration decisions to. A cache owns exactly one strategy, fixed at
// construction. The strategy is purely reactive: it observes lifecycle
// events, answers validity queries, and names keys to evict during a
// replacement pass. It holds no reference back into the cache.
type Strategy[K comparable, V any] interface {
	Observer[K, V]

	// IsValid reports whether the strategy still considers the key live.
	// A false verdict means the entry is expired: Get removes it, Has
	// merely reports it.
	IsValid(key K) (bool, error)

	// Evict returns the keys the strategy wants removed right now. It is
	// called once per replacement pass; the cache removes every returned
	// key that is still present.
	Evict() ([]K, error)
}

// NoopStrategy keeps every entry forever: everything is valid, nothing
// is ever evicted. Useful as a baseline and in tests.
type NoopStrategy[K comparable, V any] struct{}

func (NoopStrategy[K, V]) OnAdd(key K, value V) error    { return nil }
func (NoopStrategy[K, V]) OnUpdate(key K, value V) error { return nil }
func (NoopStrategy[K, V]) OnRemove(key K) error          { return nil }
func (NoopStrategy[K, V]) OnGet(key K) error             { return nil }
func (NoopStrategy[K, V]) OnClear() error                { return nil }
func (NoopStrategy[K, V]) IsValid(key K) (bool, error)   { return true, nil }
func (NoopStrategy[K, V]) Evict() ([]K, error)           { return nil, nil }
