package lua

import (
	"fmt"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// Script function names the adapter binds to
const (
	fnOnAdd    = "on_add"
	fnOnUpdate = "on_update"
	fnOnRemove = "on_remove"
	fnOnGet    = "on_get"
	fnOnClear  = "on_clear"
	fnIsValid  = "is_valid"
	fnEvict    = "evict"
)

// Strategy adapts a Lua policy script to the strategycache Strategy
// interface for string keys. The value type parameter only feeds the
// optional cost function; scripts see keys, costs and time, never the
// values themselves.
type Strategy[V any] struct {
	mu    sync.Mutex
	state *lua.LState
	cost  func(V) int64
	clock func() time.Time
}

// Option configures a Strategy
type Option[V any] func(*Strategy[V])

// WithCost sets the function that assigns a cost to each value. The cost
// is passed to the script's on_add and on_update functions. Without it,
// every value costs zero.
//
// Example:
//
//	WithCost(func(v []byte) int64 { return int64(len(v)) })
func WithCost[V any](fn func(V) int64) Option[V] {
	return func(s *Strategy[V]) {
		s.cost = fn
	}
}

// WithClock overrides the time source behind the script's now() helper.
// Intended for tests of time-based policies.
func WithClock[V any](fn func() time.Time) Option[V] {
	return func(s *Strategy[V]) {
		s.clock = fn
	}
}

// New compiles the policy script and binds its functions. The script
// must define is_valid and evict; the lifecycle hooks are optional and
// default to no-ops.
func New[V any](script string, opts ...Option[V]) (*Strategy[V], error) {
	s := &Strategy[V]{
		state: lua.NewState(),
		clock: time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.state.SetGlobal("now", s.state.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LNumber(s.clock().UnixMilli()))
		return 1
	}))

	if err := s.state.DoString(script); err != nil {
		s.state.Close()
		return nil, fmt.Errorf("script load error: %w", err)
	}

	for _, name := range []string{fnIsValid, fnEvict} {
		if s.state.GetGlobal(name).Type() != lua.LTFunction {
			s.state.Close()
			return nil, fmt.Errorf("script must define function %q", name)
		}
	}

	return s, nil
}

// Close releases the underlying Lua state. The strategy must not be used
// afterwards.
func (s *Strategy[V]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Close()
}

// OnAdd calls the script's on_add(key, cost) function if defined
func (s *Strategy[V]) OnAdd(key string, value V) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.call(fnOnAdd, 0, lua.LString(key), lua.LNumber(s.costOf(value)))
	return err
}

// OnUpdate calls the script's on_update(key, cost) function if defined
func (s *Strategy[V]) OnUpdate(key string, value V) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.call(fnOnUpdate, 0, lua.LString(key), lua.LNumber(s.costOf(value)))
	return err
}

// OnRemove calls the script's on_remove(key) function if defined
func (s *Strategy[V]) OnRemove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.call(fnOnRemove, 0, lua.LString(key))
	return err
}

// OnGet calls the script's on_get(key) function if defined
func (s *Strategy[V]) OnGet(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.call(fnOnGet, 0, lua.LString(key))
	return err
}

// OnClear calls the script's on_clear() function if defined
func (s *Strategy[V]) OnClear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.call(fnOnClear, 0)
	return err
}

// IsValid asks the script's is_valid(key) function for a verdict
func (s *Strategy[V]) IsValid(key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ret, err := s.call(fnIsValid, 1, lua.LString(key))
	if err != nil {
		return false, err
	}
	return lua.LVAsBool(ret), nil
}

// Evict asks the script's evict() function for the keys to remove now
func (s *Strategy[V]) Evict() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ret, err := s.call(fnEvict, 1)
	if err != nil {
		return nil, err
	}

	if ret == lua.LNil {
		return nil, nil
	}
	tbl, ok := ret.(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("evict must return a table, got %s", ret.Type())
	}

	var keys []string
	tbl.ForEach(func(_, v lua.LValue) {
		keys = append(keys, lua.LVAsString(v))
	})
	return keys, nil
}

// call invokes a script function in protected mode. Undefined optional
// functions are silent no-ops.
func (s *Strategy[V]) call(name string, nret int, args ...lua.LValue) (lua.LValue, error) {
	fn := s.state.GetGlobal(name)
	if fn.Type() != lua.LTFunction {
		return lua.LNil, nil
	}

	if err := s.state.CallByParam(lua.P{
		Fn:      fn,
		NRet:    nret,
		Protect: true,
	}, args...); err != nil {
		return lua.LNil, fmt.Errorf("lua %s: %w", name, err)
	}

	if nret == 0 {
		return lua.LNil, nil
	}
	ret := s.state.Get(-1)
	s.state.Pop(1)
	return ret, nil
}

func (s *Strategy[V]) costOf(value V) int64 {
	if s.cost == nil {
		return 0
	}
	return s.cost(value)
}
