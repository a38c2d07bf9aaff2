package session

import (
	"context"
	"io"
	"sync"

	"github.com/zsiec/moqclient/internal/reactive"
)

// Group is an indexed unit within a Track, carrying an ordered
// sequence of frame payloads. A producer writes frames with WriteFrame
// and signals the end with Close (or CloseWithError on failure); a
// consumer reads them with ReadFrame until it returns io.EOF.
type Group struct {
	Sequence uint64

	frames chan []byte
	done   chan struct{}
	err    error
	once   sync.Once
}

func newGroup(sequence uint64) *Group {
	return &Group{
		Sequence: sequence,
		frames:   make(chan []byte, 16),
		done:     make(chan struct{}),
	}
}

// WriteFrame appends a payload to the group. It fails with the
// group's close error (or nil wrapped as io.EOF) once the group has
// been closed.
func (g *Group) WriteFrame(payload []byte) error {
	select {
	case g.frames <- payload:
		return nil
	case <-g.done:
		return g.closeErr()
	}
}

// ReadFrame returns the next frame payload, blocking until one is
// available, the group closes, or ctx is done. A closed group with no
// buffered frames left returns io.EOF (or the error passed to
// CloseWithError).
func (g *Group) ReadFrame(ctx context.Context) ([]byte, error) {
	select {
	case payload := <-g.frames:
		return payload, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-g.done:
		select {
		case payload := <-g.frames:
			return payload, nil
		default:
			return nil, g.closeErr()
		}
	}
}

// Close ends the group normally.
func (g *Group) Close() { g.closeWith(nil) }

// CloseWithError ends the group with an application error, propagated
// to ReadFrame/WriteFrame callers once buffered frames are drained.
func (g *Group) CloseWithError(err error) { g.closeWith(err) }

// Closed reports completion of the group, for select-based races
// against a producer's own closed-signal (spec.md §4.4.1's runGroup).
func (g *Group) Closed() <-chan struct{} { return g.done }

func (g *Group) closeWith(err error) {
	g.once.Do(func() {
		g.err = err
		close(g.done)
	})
}

func (g *Group) closeErr() error {
	if g.err != nil {
		return g.err
	}
	return io.EOF
}

// Track is an ordered sequence of Groups sharing a name and priority.
// The same type serves both a publisher's locally produced groups
// (PublishGroup is called by application code, consumed by runTrack)
// and a subscriber's incoming groups (PublishGroup is called by
// handleGroup as frames arrive off the wire, consumed by application
// code via NextGroup).
type Track struct {
	Name     string
	Priority uint8

	groups chan *Group
	done   chan struct{}
	err    error
	once   sync.Once
}

// NewTrack creates a track. priority is a peer scheduling hint only;
// this implementation transmits it but does not act on it.
func NewTrack(name string, priority uint8) *Track {
	return &Track{
		Name:     name,
		Priority: priority,
		groups:   make(chan *Group, 4),
		done:     make(chan struct{}),
	}
}

// PublishGroup creates a new group with the given sequence number and
// makes it available to the track's consumer.
func (t *Track) PublishGroup(sequence uint64) *Group {
	g := newGroup(sequence)
	select {
	case t.groups <- g:
	case <-t.done:
		g.closeWith(t.closeErr())
	}
	return g
}

// NextGroup returns the next produced group, blocking until one
// arrives, the track closes, or ctx is done.
func (t *Track) NextGroup(ctx context.Context) (*Group, error) {
	select {
	case g := <-t.groups:
		return g, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-t.done:
		select {
		case g := <-t.groups:
			return g, nil
		default:
			return nil, t.closeErr()
		}
	}
}

// Close ends the track normally.
func (t *Track) Close() { t.closeWith(nil) }

// CloseWithError ends the track with an application error.
func (t *Track) CloseWithError(err error) { t.closeWith(err) }

// Closed reports completion of the track.
func (t *Track) Closed() <-chan struct{} { return t.done }

func (t *Track) closeWith(err error) {
	t.once.Do(func() {
		t.err = err
		close(t.done)
	})
}

func (t *Track) closeErr() error {
	if t.err != nil {
		return t.err
	}
	return io.EOF
}

// requestFunc fulfils a consumer-side track request by running the
// Subscribe control-message round trip; it is what ties a Broadcast
// returned by Subscriber.Consume back to the owning Subscriber without
// the model package depending on it directly.
type requestFunc func(ctx context.Context, name string, priority uint8) (*Track, error)

// Broadcast is the named address for a producer/consumer rendezvous.
// On the publisher side, the application adds tracks it intends to
// serve with AddTrack; on the subscriber side (a Broadcast returned by
// Subscriber.Consume), the application requests remote tracks with
// RequestTrack.
type Broadcast struct {
	path Path

	mu     sync.Mutex
	tracks map[string]*Track

	request requestFunc

	rt     *reactive.Runtime
	closed *reactive.Signal[bool]
	done   chan struct{}
}

// NewBroadcast creates a publisher-side broadcast at path with no
// tracks yet. Its active/closed state is a reactive.Signal[bool]; a
// root Effect fans the transition out to the public done channel
// exactly once, replacing a hand-rolled sync.Once (spec.md §4.6).
func NewBroadcast(path Path) *Broadcast {
	rt := reactive.NewRuntime()
	b := &Broadcast{
		path:   path,
		tracks: make(map[string]*Track),
		rt:     rt,
		done:   make(chan struct{}),
	}
	b.closed = reactive.NewSignal(rt, false, nil)
	reactive.NewRootEffect(rt, func(*reactive.Effect) {
		if b.closed.Get() {
			close(b.done)
		}
	})
	return b
}

func newConsumedBroadcast(path Path, request requestFunc) *Broadcast {
	b := NewBroadcast(path)
	b.request = request
	return b
}

// Path returns the broadcast's namespace.
func (b *Broadcast) Path() Path { return b.path }

// AddTrack registers a track the application will publish under name.
func (b *Broadcast) AddTrack(name string, priority uint8) *Track {
	t := NewTrack(name, priority)
	b.mu.Lock()
	b.tracks[name] = t
	b.mu.Unlock()
	return t
}

// Track looks up a previously added or requested track by name.
func (b *Broadcast) Track(name string) (*Track, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	t, ok := b.tracks[name]
	return t, ok
}

// Subscribe resolves a locally published track by name, for the
// Publisher's incoming-Subscribe handler (spec.md §4.4.1).
func (b *Broadcast) Subscribe(name string, _priority uint8) (*Track, error) {
	t, ok := b.Track(name)
	if !ok {
		return nil, ErrUnknownTrack
	}
	return t, nil
}

// RequestTrack asks the peer to start sending track name at priority,
// returning once the request succeeds or fails. Only valid on a
// Broadcast returned by Subscriber.Consume.
func (b *Broadcast) RequestTrack(ctx context.Context, name string, priority uint8) (*Track, error) {
	if b.request == nil {
		return nil, ErrNotConsumable
	}
	t, err := b.request(ctx, name, priority)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	b.tracks[name] = t
	b.mu.Unlock()
	return t, nil
}

// Close ends the broadcast. A publisher's Close triggers
// PublishNamespaceDone once Publisher.Publish's goroutine observes it.
// Setting the signal twice is a no-op, so this is safe to call more
// than once.
func (b *Broadcast) Close() { b.closed.Set(true) }

// Closed reports broadcast closure.
func (b *Broadcast) Closed() <-chan struct{} { return b.done }

// Announcement is a (path, active) pair emitted as peer namespace
// activity is observed.
type Announcement struct {
	Path   Path
	Active bool
}

// Announced is a consumer-facing endpoint streaming Announcements for
// paths under a prefix, returned by Subscriber.Announced. Each matched
// path is backed by a reactive.Signal[Announcement] owned by the
// Subscriber; watch hangs a child Effect off root that re-pushes the
// signal's value to events on every transition, so propagation and
// teardown of the fan-out go through the same Signal/Effect substrate
// spec.md §4.6 assigns to it rather than a hand-rolled callback list.
type Announced struct {
	Prefix Path

	events  chan Announcement
	closed  chan struct{}
	once    sync.Once
	onClose func()
	root    *reactive.Effect
}

func newAnnounced(prefix Path, rt *reactive.Runtime, onClose func()) *Announced {
	a := &Announced{
		Prefix:  prefix,
		events:  make(chan Announcement, 32),
		closed:  make(chan struct{}),
		onClose: onClose,
	}
	a.root = reactive.NewRootEffect(rt, func(*reactive.Effect) {})
	return a
}

// watch hangs a child effect off a.root that reads sig and pushes its
// value to events whenever it changes. The first run is suppressed
// unless the path is already active, so a newly created Announced
// only replays currently-active matches, matching spec.md §4.4.2's
// "announce current state, then stream changes" contract.
func (a *Announced) watch(sig *reactive.Signal[Announcement]) {
	first := true
	a.root.Effect(func(*reactive.Effect) {
		ann := sig.Get()
		if first {
			first = false
			if !ann.Active {
				return
			}
		}
		a.push(ann)
	})
}

// Events returns the channel of announcement activity under Prefix.
// It never closes; callers should stop ranging over it once they call
// Close themselves (events stop arriving, but the channel stays open
// to avoid racing a concurrent push against close).
func (a *Announced) Events() <-chan Announcement { return a.events }

// Close stops the endpoint and emits UnsubscribeNamespace for its
// registration.
func (a *Announced) Close() {
	a.once.Do(func() {
		close(a.closed)
		a.root.Dispose()
		if a.onClose != nil {
			a.onClose()
		}
	})
}

func (a *Announced) push(ann Announcement) {
	select {
	case <-a.closed:
		return
	default:
	}
	select {
	case a.events <- ann:
	case <-a.closed:
	}
}
