// Package lua adapts eviction policies written in Lua to the
// strategycache Strategy interface.
//
// A policy script defines plain Lua functions that mirror the strategy
// callbacks. The adapter binds them by name:
//
//   - is_valid(key) -> bool (required)
//   - evict() -> table of keys (required)
//   - on_add(key, cost), on_update(key, cost) (optional)
//   - on_remove(key), on_get(key), on_clear() (optional)
//
// The execution environment exposes a now() helper returning the current
// time in Unix milliseconds, backed by an injectable clock so time-based
// policies stay testable.
//
// Scripts keep their bookkeeping in Lua state; the adapter never inspects
// it. The cache serializes all callbacks under its own lock, and the
// adapter additionally guards its Lua state with a mutex, so a single
// script instance is safe to drive from one cache.
package lua
