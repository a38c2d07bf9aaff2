package reactive

import (
	"context"
	"sync"
	"time"
)

// Effect is a scope that tracks the signals read during its body and
// re-runs, synchronously and from scratch, whenever any of them
// changes. It owns cleanup registrations, spawned background tasks,
// intervals, and child effect scopes, all of which are torn down
// before each re-run and on final disposal.
type Effect struct {
	rt     *Runtime
	parent *Effect
	fn     func(*Effect)

	mu       sync.Mutex
	deps     []trackable
	cleanups []func()
	children []*Effect
	cancels  []context.CancelFunc
	stops    []func()
	disposed bool
}

// NewRootEffect creates a top-level effect with no parent scope and
// runs its body once, synchronously.
func NewRootEffect(rt *Runtime, fn func(*Effect)) *Effect {
	e := &Effect{rt: rt, fn: fn}
	e.rerun()
	return e
}

// Effect creates a child scope nested inside e. The child's body runs
// immediately and is re-run independently of e when its own
// dependencies change; it is torn down whenever e itself re-runs or is
// disposed.
func (e *Effect) Effect(fn func(*Effect)) *Effect {
	child := &Effect{rt: e.rt, parent: e, fn: fn}
	e.mu.Lock()
	e.children = append(e.children, child)
	e.mu.Unlock()
	child.rerun()
	return child
}

// Cleanup registers fn to run when e is next torn down, in reverse
// registration order relative to other cleanups registered in the same
// run of e's body.
func (e *Effect) Cleanup(fn func()) {
	e.mu.Lock()
	e.cleanups = append(e.cleanups, fn)
	e.mu.Unlock()
}

// Spawn starts task in its own goroutine with a context cancelled when
// e is torn down.
func (e *Effect) Spawn(task func(ctx context.Context)) {
	ctx, cancel := context.WithCancel(context.Background())
	e.mu.Lock()
	e.cancels = append(e.cancels, cancel)
	e.mu.Unlock()
	go task(ctx)
}

// Interval calls fn every period until e is torn down.
func (e *Effect) Interval(fn func(), period time.Duration) {
	ticker := time.NewTicker(period)
	done := make(chan struct{})
	var once sync.Once
	stop := func() {
		once.Do(func() {
			close(done)
			ticker.Stop()
		})
	}

	e.mu.Lock()
	e.stops = append(e.stops, stop)
	e.mu.Unlock()

	go func() {
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				// A tick already buffered when stop ran must not fire fn.
				select {
				case <-done:
					return
				default:
				}
				fn()
			}
		}
	}()
}

// Dispose tears e down permanently: cleanups run, children and
// cancellations are torn down, and e will never be scheduled again.
func (e *Effect) Dispose() {
	e.teardown()
	e.mu.Lock()
	e.disposed = true
	e.mu.Unlock()
}

func (e *Effect) addDep(t trackable) {
	e.mu.Lock()
	e.deps = append(e.deps, t)
	e.mu.Unlock()
	t.subscribe(e)
}

// rerun tears down whatever the previous run of fn accumulated, then
// executes fn again with e installed as the tracking effect so fresh
// dependencies are recorded.
func (e *Effect) rerun() {
	e.teardown()
	e.rt.runWithCurrent(e, func() {
		e.fn(e)
	})
}

func (e *Effect) teardown() {
	e.mu.Lock()
	cleanups := e.cleanups
	children := e.children
	cancels := e.cancels
	stops := e.stops
	deps := e.deps
	e.cleanups = nil
	e.children = nil
	e.cancels = nil
	e.stops = nil
	e.deps = nil
	e.mu.Unlock()

	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
	for _, child := range children {
		child.Dispose()
	}
	for _, cancel := range cancels {
		cancel()
	}
	for _, stop := range stops {
		stop()
	}
	for _, d := range deps {
		d.unsubscribe(e)
	}
}
