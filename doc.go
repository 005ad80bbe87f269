// Package strategycache provides a generic, thread-safe, in-memory
// key-value cache whose eviction and expiration behavior is fully
// delegated to a pluggable strategy.
//
// The cache itself implements no eviction algorithm. Every mutation and
// access is reported to a single Strategy through synchronous callbacks,
// and the strategy decides which entries are still valid and which keys
// should be evicted during a replacement pass.
//
// Basic usage:
//
//	cache, err := strategycache.New[string, string](myStrategy)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	if err := cache.Add("greeting", "hello"); err != nil {
//		log.Fatal(err)
//	}
//
//	value, ok, err := cache.Get("greeting")
//	if err != nil {
//		log.Fatal(err)
//	}
//	if ok {
//		fmt.Println(value)
//	}
//
// The library supports:
//
//   - Pluggable validity and eviction policies via the Strategy interface
//   - Additional lifecycle listeners for logging and metrics fan-out
//   - Pull-based replacement passes with no background goroutines
//   - Structured logging and metrics collection hooks
//   - Policies written in Lua through the lua subpackage
//
// All strategy and observer callbacks execute while the cache's internal
// lock is held. Callbacks must not call back into the same cache; doing
// so deadlocks by contract.
//
// For more examples and advanced usage, see the examples/ directory.
package strategycache
