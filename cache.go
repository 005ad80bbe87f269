package strategycache

import (
	"reflect"
	"sync"
	"sync/atomic"
	"time"
)

// Cache is a thread-safe, in-memory key-value cache with pluggable
// eviction. All policy decisions are delegated to a single Strategy via
// synchronous callbacks; the cache itself never expires or evicts an
// entry on its own initiative.
//
// Every public operation acquires one exclusive lock for its full
// duration, including all strategy and observer dispatch. There are no
// background goroutines: replacement is piggybacked onto Add, Update,
// Size, Keys and ForceReplace only, so a purely time-based strategy with
// no intervening cache activity needs an explicit ForceReplace to
// reclaim memory.
//
// Values returned by Get stay usable after the cache drops its own
// reference to them; eviction removes the cache's reference, not the
// value.
type Cache[K comparable, V any] struct {
	mu sync.Mutex

	data      map[K]V
	strategy  Strategy[K, V]
	observers []Observer[K, V]

	logger  Logger
	metrics MetricsCollector

	hits        atomic.Int64
	misses      atomic.Int64
	evictions   atomic.Int64
	expirations atomic.Int64
}

// New creates a cache bound to the given strategy. The strategy is fixed
// for the cache's lifetime and cannot be swapped.
func New[K comparable, V any](strategy Strategy[K, V], opts ...Option) (*Cache[K, V], error) {
	if strategy == nil {
		return nil, ErrInvalidConfig
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	return &Cache[K, V]{
		data:     make(map[K]V),
		strategy: strategy,
		logger:   cfg.logger,
		metrics:  cfg.metrics,
	}, nil
}

// AddObserver registers an additional lifecycle listener. Observers are
// notified after the strategy, in registration order, and their errors
// abort operations exactly like strategy errors. Observers receive the
// Add, Update, Remove, Get and Clear events; the IsValid and Replace
// queries go to the strategy alone.
func (c *Cache[K, V]) AddObserver(observer Observer[K, V]) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, observer)
}

// Add inserts the key-value pair. If the key already exists it is
// overwritten: a Remove event fires for the old entry, then an Add event
// for the new one. A replacement pass runs afterwards.
//
// A nil value handle is rejected with ErrInvalidValue before any
// mutation or event.
func (c *Cache[K, V]) Add(key K, value V) error {
	defer c.timeOp("add", time.Now())

	if isNilValue(value) {
		return ErrInvalidValue
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.doAdd(key, value); err != nil {
		return err
	}
	c.recordKeyCount()
	return nil
}

// Update replaces the value for the key in place, firing an Update event
// and preserving key identity. If the key is absent, Update behaves
// exactly like Add and fires an Add event. A replacement pass runs
// afterwards.
//
// A nil value handle is rejected with ErrInvalidValue before any
// mutation or event.
func (c *Cache[K, V]) Update(key K, value V) error {
	defer c.timeOp("update", time.Now())

	if isNilValue(value) {
		return ErrInvalidValue
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.doUpdate(key, value); err != nil {
		return err
	}
	c.recordKeyCount()
	return nil
}

// Remove erases the key, firing a Remove event first. Removing an absent
// key is a silent no-op. Remove does not run a replacement pass.
func (c *Cache[K, V]) Remove(key K) error {
	defer c.timeOp("remove", time.Now())

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.doRemove(key); err != nil {
		return err
	}
	c.recordKeyCount()
	return nil
}

// Has reports the strategy's validity verdict for the key, or false if
// the key is absent. Unlike Get, a failed validity check here is
// observation only: the entry is not removed.
func (c *Cache[K, V]) Has(key K) (bool, error) {
	defer c.timeOp("has", time.Now())

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.data[key]; !ok {
		return false, nil
	}

	valid, err := c.strategy.IsValid(key)
	if err != nil {
		return false, &ListenerError{Event: EventIsValid, Err: err}
	}
	return valid, nil
}

// Get returns the value for the key. A Get event fires for every read
// access to a present key, then the strategy is asked whether the entry
// is still valid. An invalid entry is removed (firing Remove) and Get
// reports a miss.
//
// The returned value remains usable even if the cache later evicts the
// entry.
func (c *Cache[K, V]) Get(key K) (V, bool, error) {
	defer c.timeOp("get", time.Now())

	var zero V

	c.mu.Lock()
	defer c.mu.Unlock()

	value, ok := c.data[key]
	if !ok {
		c.misses.Add(1)
		if c.metrics != nil {
			c.metrics.RecordMiss()
		}
		return zero, false, nil
	}

	if err := c.notifyGet(key); err != nil {
		return zero, false, err
	}

	valid, err := c.strategy.IsValid(key)
	if err != nil {
		return zero, false, &ListenerError{Event: EventIsValid, Err: err}
	}

	if !valid {
		c.expirations.Add(1)
		if c.metrics != nil {
			c.metrics.RecordExpiration()
		}
		if err := c.doRemove(key); err != nil {
			return zero, false, err
		}
		c.recordKeyCount()
		return zero, false, nil
	}

	c.hits.Add(1)
	if c.metrics != nil {
		c.metrics.RecordHit()
	}
	return value, true, nil
}

// Clear fires a Clear event and then unconditionally empties the store.
// Strategies must drop any bookkeeping keyed to the removed entries on
// receipt of Clear.
func (c *Cache[K, V]) Clear() error {
	defer c.timeOp("clear", time.Now())

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.notifyClear(); err != nil {
		return err
	}
	c.data = make(map[K]V)
	c.recordKeyCount()
	return nil
}

// Size runs a replacement pass and returns the number of stored entries,
// so the count reflects strategy-driven eviction.
func (c *Cache[K, V]) Size() (int, error) {
	defer c.timeOp("size", time.Now())

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.doReplace(); err != nil {
		return 0, err
	}
	return len(c.data), nil
}

// ForceReplace manually triggers a replacement pass. The cache runs no
// background timers, so time-based strategies need this to reclaim
// memory during idle periods.
func (c *Cache[K, V]) ForceReplace() error {
	defer c.timeOp("forcereplace", time.Now())

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.doReplace(); err != nil {
		return err
	}
	c.recordKeyCount()
	return nil
}

// Keys runs a replacement pass and returns a snapshot copy of all
// current keys, safe to iterate without holding the cache's lock.
func (c *Cache[K, V]) Keys() ([]K, error) {
	defer c.timeOp("keys", time.Now())

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.doReplace(); err != nil {
		return nil, err
	}

	keys := make([]K, 0, len(c.data))
	for key := range c.data {
		keys = append(keys, key)
	}
	return keys, nil
}

// Stats returns a snapshot of the cache's activity counters.
func (c *Cache[K, V]) Stats() CacheStats {
	c.mu.Lock()
	size := len(c.data)
	c.mu.Unlock()

	return CacheStats{
		Size:        size,
		Hits:        c.hits.Load(),
		Misses:      c.misses.Load(),
		Evictions:   c.evictions.Load(),
		Expirations: c.expirations.Load(),
	}
}

// doAdd implements overwrite semantics: remove any existing entry,
// notify Add, insert, then run a replacement pass.
func (c *Cache[K, V]) doAdd(key K, value V) error {
	if err := c.doRemove(key); err != nil {
		return err
	}
	if err := c.notifyAdd(key, value); err != nil {
		return err
	}
	c.data[key] = value
	return c.doReplace()
}

// doUpdate fires Update and replaces the value in place when the key is
// present, otherwise behaves like an add. Either way a replacement pass
// follows.
func (c *Cache[K, V]) doUpdate(key K, value V) error {
	if _, ok := c.data[key]; !ok {
		if err := c.notifyAdd(key, value); err != nil {
			return err
		}
	} else {
		if err := c.notifyUpdate(key, value); err != nil {
			return err
		}
	}
	c.data[key] = value
	return c.doReplace()
}

// doRemove fires Remove and erases the key. Absent keys are ignored. The
// entry stays in place if a listener fails.
func (c *Cache[K, V]) doRemove(key K) error {
	if _, ok := c.data[key]; !ok {
		return nil
	}
	if err := c.notifyRemove(key); err != nil {
		return err
	}
	delete(c.data, key)
	return nil
}

// doReplace asks the strategy which keys to evict right now and removes
// each one that is still present, firing Remove per key. This is a pull
// model: the strategy never deletes entries itself.
func (c *Cache[K, V]) doReplace() error {
	victims, err := c.strategy.Evict()
	if err != nil {
		return &ListenerError{Event: EventReplace, Err: err}
	}

	evicted := 0
	for _, key := range victims {
		if _, ok := c.data[key]; !ok {
			continue
		}
		if err := c.doRemove(key); err != nil {
			return err
		}
		evicted++
	}

	if evicted > 0 {
		c.evictions.Add(int64(evicted))
		if c.metrics != nil {
			c.metrics.RecordEviction(evicted)
		}
		c.logger.Debug("replacement pass evicted entries",
			Field{Key: "count", Value: evicted},
			Field{Key: "remaining", Value: len(c.data)})
	}
	return nil
}

func (c *Cache[K, V]) notifyAdd(key K, value V) error {
	if err := c.strategy.OnAdd(key, value); err != nil {
		return &ListenerError{Event: EventAdd, Err: err}
	}
	for _, observer := range c.observers {
		if err := observer.OnAdd(key, value); err != nil {
			return &ListenerError{Event: EventAdd, Err: err}
		}
	}
	return nil
}

func (c *Cache[K, V]) notifyUpdate(key K, value V) error {
	if err := c.strategy.OnUpdate(key, value); err != nil {
		return &ListenerError{Event: EventUpdate, Err: err}
	}
	for _, observer := range c.observers {
		if err := observer.OnUpdate(key, value); err != nil {
			return &ListenerError{Event: EventUpdate, Err: err}
		}
	}
	return nil
}

func (c *Cache[K, V]) notifyRemove(key K) error {
	if err := c.strategy.OnRemove(key); err != nil {
		return &ListenerError{Event: EventRemove, Err: err}
	}
	for _, observer := range c.observers {
		if err := observer.OnRemove(key); err != nil {
			return &ListenerError{Event: EventRemove, Err: err}
		}
	}
	return nil
}

func (c *Cache[K, V]) notifyGet(key K) error {
	if err := c.strategy.OnGet(key); err != nil {
		return &ListenerError{Event: EventGet, Err: err}
	}
	for _, observer := range c.observers {
		if err := observer.OnGet(key); err != nil {
			return &ListenerError{Event: EventGet, Err: err}
		}
	}
	return nil
}

func (c *Cache[K, V]) notifyClear() error {
	if err := c.strategy.OnClear(); err != nil {
		return &ListenerError{Event: EventClear, Err: err}
	}
	for _, observer := range c.observers {
		if err := observer.OnClear(); err != nil {
			return &ListenerError{Event: EventClear, Err: err}
		}
	}
	return nil
}

// recordKeyCount reports the store cardinality to the metrics collector.
// Must be called with the lock held.
func (c *Cache[K, V]) recordKeyCount() {
	if c.metrics != nil {
		c.metrics.RecordKeyCount(int64(len(c.data)))
	}
}

func (c *Cache[K, V]) timeOp(op string, start time.Time) {
	if c.metrics != nil {
		c.metrics.RecordOperation(op, time.Since(start))
	}
}

// isNilValue reports whether v is a nil handle of a nilable kind.
// Non-nilable kinds (numbers, strings, structs) are never nil.
func isNilValue(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
		return rv.IsNil()
	}
	return false
}
