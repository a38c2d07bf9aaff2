package reactive

import "reflect"

// Getter is a read-only view over a Signal, or over a derived value
// computed from other signals (see Derive). It carries no identity of
// its own; two Getters over the same Signal behave identically.
type Getter[T any] struct {
	get  func() T
	peek func() T
}

// Get returns the current value, subscribing the running effect.
func (g Getter[T]) Get() T { return g.get() }

// Peek returns the current value without subscribing.
func (g Getter[T]) Peek() T { return g.peek() }

// Derive creates a Getter whose value is recomputed whenever any
// signal compute reads changes, inside its own child effect scope of
// parent. The initial computation runs synchronously before Derive
// returns, so the returned Getter is immediately valid.
func Derive[T any](rt *Runtime, parent *Effect, compute func() T, equal func(a, b T) bool) Getter[T] {
	var cached *Signal[T]
	parent.Effect(func(*Effect) {
		v := compute()
		if cached == nil {
			cached = NewSignal(rt, v, equal)
			return
		}
		cached.Set(v)
	})
	return cached.Getter()
}

func deepEqual[T any](a, b T) bool {
	return reflect.DeepEqual(a, b)
}
