package reactive

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestSignalGetSubscribesRunningEffect(t *testing.T) {
	t.Parallel()

	rt := NewRuntime()
	sig := NewSignal(rt, 1, nil)

	var runs int
	var last int
	NewRootEffect(rt, func(e *Effect) {
		runs++
		last = sig.Get()
	})

	sig.Set(2)
	sig.Set(2) // unchanged: must not trigger another run

	if runs != 2 {
		t.Fatalf("got %d runs, want 2", runs)
	}
	if last != 2 {
		t.Fatalf("got last=%d, want 2", last)
	}
}

func TestSignalPeekDoesNotSubscribe(t *testing.T) {
	t.Parallel()

	rt := NewRuntime()
	sig := NewSignal(rt, 1, nil)

	runs := 0
	NewRootEffect(rt, func(e *Effect) {
		runs++
		_ = sig.Peek()
	})

	sig.Set(2)

	if runs != 1 {
		t.Fatalf("got %d runs, want 1 (peek must not subscribe)", runs)
	}
}

func TestEffectCleanupRunsInReverseOrderOnRerun(t *testing.T) {
	t.Parallel()

	rt := NewRuntime()
	sig := NewSignal(rt, 0, nil)

	var order []int
	NewRootEffect(rt, func(e *Effect) {
		sig.Get() // subscribe so changes trigger a re-run
		e.Cleanup(func() { order = append(order, 1) })
		e.Cleanup(func() { order = append(order, 2) })
		e.Cleanup(func() { order = append(order, 3) })
	})

	sig.Set(1)

	want := []int{3, 2, 1}
	if len(order) != len(want) {
		t.Fatalf("got %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("got %v, want %v", order, want)
		}
	}
}

func TestEffectDisposeCancelsSpawnedTask(t *testing.T) {
	t.Parallel()

	rt := NewRuntime()
	started := make(chan struct{})
	var cancelled atomic.Bool

	e := NewRootEffect(rt, func(e *Effect) {
		e.Spawn(func(ctx context.Context) {
			close(started)
			<-ctx.Done()
			cancelled.Store(true)
		})
	})

	<-started
	e.Dispose()

	deadline := time.Now().Add(time.Second)
	for !cancelled.Load() {
		if time.Now().After(deadline) {
			t.Fatal("spawned task was not cancelled on dispose")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestEffectDisposeStopsInterval(t *testing.T) {
	t.Parallel()

	rt := NewRuntime()
	var ticks atomic.Int32

	e := NewRootEffect(rt, func(e *Effect) {
		e.Interval(func() { ticks.Add(1) }, time.Millisecond)
	})

	time.Sleep(20 * time.Millisecond)
	e.Dispose()
	afterDispose := ticks.Load()

	time.Sleep(20 * time.Millisecond)
	if ticks.Load() != afterDispose {
		t.Fatalf("interval kept firing after dispose: %d -> %d", afterDispose, ticks.Load())
	}
}

func TestChildEffectTornDownOnParentRerun(t *testing.T) {
	t.Parallel()

	rt := NewRuntime()
	trigger := NewSignal(rt, 0, nil)

	var childCleanups int
	NewRootEffect(rt, func(e *Effect) {
		trigger.Get()
		e.Effect(func(child *Effect) {
			child.Cleanup(func() { childCleanups++ })
		})
	})

	trigger.Set(1)

	if childCleanups != 1 {
		t.Fatalf("got %d child cleanups, want 1", childCleanups)
	}
}

func TestDeriveRecomputesOnDependencyChange(t *testing.T) {
	t.Parallel()

	rt := NewRuntime()
	width := NewSignal(rt, 2, nil)
	height := NewSignal(rt, 3, nil)

	root := NewRootEffect(rt, func(*Effect) {})
	area := Derive(rt, root, func() int {
		return width.Get() * height.Get()
	}, nil)

	if got := area.Get(); got != 6 {
		t.Fatalf("got %d, want 6", got)
	}

	width.Set(5)
	if got := area.Get(); got != 15 {
		t.Fatalf("got %d, want 15", got)
	}
}

func TestGetterTracksThroughDerivedValue(t *testing.T) {
	t.Parallel()

	rt := NewRuntime()
	sig := NewSignal(rt, "a", nil)
	getter := sig.Getter()

	var seen []string
	NewRootEffect(rt, func(*Effect) {
		seen = append(seen, getter.Get())
	})

	sig.Set("b")
	sig.Set("c")

	want := []string{"a", "b", "c"}
	if len(seen) != len(want) {
		t.Fatalf("got %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("got %v, want %v", seen, want)
		}
	}
}
