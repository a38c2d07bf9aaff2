package reactive

import "sync"

// Signal is a cell holding a value of type T. Reads through Get
// subscribe the currently-running Effect, if any, to future changes;
// Peek reads without subscribing. Set mutates the value and, only if
// it differs from the previous value under equal, notifies and
// synchronously re-runs every subscribed effect before returning.
type Signal[T any] struct {
	rt    *Runtime
	mu    sync.Mutex
	value T
	equal func(a, b T) bool
	subs  map[*Effect]struct{}
}

// NewSignal creates a signal on rt with the given initial value. equal
// is used to decide whether a Set call actually changed the value; if
// nil, values are compared with reflect.DeepEqual via deepEqual.
func NewSignal[T any](rt *Runtime, initial T, equal func(a, b T) bool) *Signal[T] {
	if equal == nil {
		equal = deepEqual[T]
	}
	return &Signal[T]{
		rt:    rt,
		value: initial,
		equal: equal,
		subs:  make(map[*Effect]struct{}),
	}
}

// Get returns the current value and, if called from within a running
// Effect body, subscribes that effect to future changes.
func (s *Signal[T]) Get() T {
	s.mu.Lock()
	v := s.value
	s.mu.Unlock()

	if cur := s.rt.trackingEffect(); cur != nil {
		cur.addDep(s)
	}
	return v
}

// Peek returns the current value without subscribing any effect.
func (s *Signal[T]) Peek() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Set updates the value. If it differs from the previous value under
// the signal's equality function, every subscribed effect is queued
// and run to completion before Set returns.
func (s *Signal[T]) Set(v T) {
	s.mu.Lock()
	if s.equal(s.value, v) {
		s.mu.Unlock()
		return
	}
	s.value = v
	subs := make([]*Effect, 0, len(s.subs))
	for e := range s.subs {
		subs = append(subs, e)
	}
	s.mu.Unlock()

	// Claim the drain loop first so every dependent is queued before
	// any of them runs.
	rt := s.rt
	rt.mu.Lock()
	owner := !rt.running
	rt.running = true
	rt.mu.Unlock()

	for _, e := range subs {
		rt.schedule(e)
	}
	if owner {
		rt.drain()
	}
}

// Getter returns a read-only projection of s.
func (s *Signal[T]) Getter() Getter[T] {
	return Getter[T]{get: s.Get, peek: s.Peek}
}

func (s *Signal[T]) subscribe(e *Effect) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs[e] = struct{}{}
}

func (s *Signal[T]) unsubscribe(e *Effect) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.subs, e)
}
