package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/zsiec/moqclient/internal/control"
	"github.com/zsiec/moqclient/internal/object"
	"github.com/zsiec/moqclient/internal/reactive"
	"github.com/zsiec/moqclient/internal/wire"
	"github.com/zsiec/moqclient/transport"
)

type pendingSubscribe struct {
	isError bool
	errMsg  string
}

// Subscriber is the consumer half of a Session: it tracks the peer's
// announced namespaces, fans them out to Announced endpoints, issues
// Subscribe requests for tracks application code asks for, and routes
// incoming object streams to the subscribing track. Generalizes the
// client-side concerns spec.md §4.4.2 describes; the teacher has no
// analogous client, since MoQSession only ever serves viewers.
type Subscriber struct {
	sess  transport.Session
	mux   *control.Mux
	alloc *control.RequestIDAllocator
	log   *slog.Logger

	rt *reactive.Runtime

	mu          sync.Mutex
	pathSignals map[string]*reactive.Signal[Announcement]
	consumers   []*Announced
	subscribes  map[uint64]*Track
	pending     map[uint64]chan pendingSubscribe
}

func newSubscriber(sess transport.Session, mux *control.Mux, alloc *control.RequestIDAllocator, log *slog.Logger) *Subscriber {
	return &Subscriber{
		sess:        sess,
		mux:         mux,
		alloc:       alloc,
		log:         log,
		rt:          reactive.NewRuntime(),
		pathSignals: make(map[string]*reactive.Signal[Announcement]),
		subscribes:  make(map[uint64]*Track),
		pending:     make(map[uint64]chan pendingSubscribe),
	}
}

// Announced subscribes to namespace activity under prefix, replaying
// every currently-announced match before returning. Each matched path
// is watched through its backing reactive.Signal[Announcement], so
// later transitions on that path keep flowing to this Announced for
// as long as it stays open (spec.md §4.6).
func (s *Subscriber) Announced(prefix Path) *Announced {
	requestID := s.alloc.Next()
	a := newAnnounced(prefix, s.rt, func() {
		s.removeConsumer(a)
		if err := s.mux.Send(control.UnsubscribeNamespace{RequestID: requestID}); err != nil {
			s.log.Warn("failed to send unsubscribe_namespace", "request_id", requestID, "error", err)
		}
	})

	s.mu.Lock()
	for pathStr, sig := range s.pathSignals {
		if NewPath(pathStr).HasPrefix(prefix) {
			a.watch(sig)
		}
	}
	s.consumers = append(s.consumers, a)
	s.mu.Unlock()

	if err := s.mux.Send(control.SubscribeNamespace{RequestID: requestID, Prefix: prefix.Components()}); err != nil {
		s.log.Warn("failed to send subscribe_namespace", "prefix", prefix, "error", err)
	}
	return a
}

func (s *Subscriber) removeConsumer(a *Announced) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.consumers {
		if c == a {
			s.consumers = append(s.consumers[:i], s.consumers[i+1:]...)
			return
		}
	}
}

// Consume returns a Broadcast whose track requests are fulfilled
// lazily via runSubscribe when the application calls RequestTrack.
func (s *Subscriber) Consume(path Path) *Broadcast {
	return newConsumedBroadcast(path, func(ctx context.Context, name string, priority uint8) (*Track, error) {
		return s.runSubscribe(ctx, path, name, priority)
	})
}

func (s *Subscriber) runSubscribe(ctx context.Context, path Path, name string, priority uint8) (*Track, error) {
	requestID := s.alloc.Next()
	track := NewTrack(name, priority)
	result := make(chan pendingSubscribe, 1)

	s.mu.Lock()
	s.subscribes[requestID] = track
	s.pending[requestID] = result
	s.mu.Unlock()

	forget := func() {
		s.mu.Lock()
		delete(s.pending, requestID)
		s.mu.Unlock()
	}
	forgetSubscribe := func() {
		s.mu.Lock()
		delete(s.subscribes, requestID)
		s.mu.Unlock()
	}

	err := s.mux.Send(control.Subscribe{
		RequestID:  requestID,
		Namespace:  path.Components(),
		TrackName:  name,
		Priority:   priority,
		GroupOrder: control.GroupOrderDescending,
		Forward:    1,
		FilterType: control.FilterLatestObject,
	})
	if err != nil {
		forget()
		forgetSubscribe()
		return nil, fmt.Errorf("session: subscribe %s/%s: %w", path, name, err)
	}

	select {
	case res := <-result:
		forget()
		if res.isError {
			forgetSubscribe()
			return nil, fmt.Errorf("session: subscribe %s/%s rejected: %s", path, name, res.errMsg)
		}
		go func() {
			<-track.Closed()
			if err := s.mux.Send(control.Unsubscribe{RequestID: requestID}); err != nil {
				s.log.Warn("failed to send unsubscribe", "request_id", requestID, "error", err)
			}
			forgetSubscribe()
		}()
		return track, nil
	case <-ctx.Done():
		forget()
		forgetSubscribe()
		return nil, ctx.Err()
	}
}

// HandleSubscribeOk resolves the pending Subscribe matching
// msg.RequestID.
func (s *Subscriber) HandleSubscribeOk(msg control.SubscribeOk) {
	s.mu.Lock()
	ch, ok := s.pending[msg.RequestID]
	s.mu.Unlock()
	if !ok {
		s.log.Warn("subscribe_ok for unknown request", "request_id", msg.RequestID)
		return
	}
	ch <- pendingSubscribe{}
}

// HandleSubscribeError resolves the pending Subscribe matching
// msg.RequestID with a failure.
func (s *Subscriber) HandleSubscribeError(msg control.SubscribeError) {
	s.mu.Lock()
	ch, ok := s.pending[msg.RequestID]
	s.mu.Unlock()
	if !ok {
		s.log.Warn("subscribe_error for unknown request", "request_id", msg.RequestID)
		return
	}
	ch <- pendingSubscribe{isError: true, errMsg: msg.ReasonPhrase}
}

// HandlePublishDone ends (or fails) the active track matching
// msg.RequestID, or rejects a still-pending Subscribe if the peer
// reports the track done before acknowledging it.
func (s *Subscriber) HandlePublishDone(msg control.PublishDone) {
	s.mu.Lock()
	ch, pending := s.pending[msg.RequestID]
	track, ok := s.subscribes[msg.RequestID]
	s.mu.Unlock()

	if pending {
		ch <- pendingSubscribe{isError: true, errMsg: msg.ReasonPhrase}
		return
	}
	if !ok {
		s.log.Warn("publish_done for unknown request", "request_id", msg.RequestID)
		return
	}
	if msg.StatusCode == 200 {
		track.Close()
	} else {
		track.CloseWithError(fmt.Errorf("session: publish_done: %s", msg.ReasonPhrase))
	}
}

// HandlePublishNamespace records a newly announced path as a
// reactive.Signal[Announcement] and has every matching Announced
// consumer watch it; the signal's Effect-driven fan-out (see
// Announced.watch) is what actually delivers the event, not a direct
// call here.
func (s *Subscriber) HandlePublishNamespace(msg control.PublishNamespace) error {
	path := PathFromComponents(msg.Namespace)
	pathStr := path.String()

	s.mu.Lock()
	sig, exists := s.pathSignals[pathStr]
	if exists && sig.Peek().Active {
		s.mu.Unlock()
		s.log.Warn("duplicate publish_namespace ignored", "path", path)
		return s.mux.Send(control.PublishNamespaceOk{RequestID: msg.RequestID})
	}

	if !exists {
		sig = reactive.NewSignal(s.rt, Announcement{Path: path, Active: true}, nil)
		s.pathSignals[pathStr] = sig

		var matched []*Announced
		for _, c := range s.consumers {
			if path.HasPrefix(c.Prefix) {
				matched = append(matched, c)
			}
		}
		s.mu.Unlock()
		for _, c := range matched {
			c.watch(sig)
		}
	} else {
		s.mu.Unlock()
		sig.Set(Announcement{Path: path, Active: true})
	}
	return s.mux.Send(control.PublishNamespaceOk{RequestID: msg.RequestID})
}

// HandlePublishNamespaceDone retracts a previously announced path by
// flipping its signal to inactive; every Announced already watching it
// observes the transition through its own Effect.
func (s *Subscriber) HandlePublishNamespaceDone(msg control.PublishNamespaceDone) {
	path := PathFromComponents(msg.Namespace)

	s.mu.Lock()
	sig, ok := s.pathSignals[path.String()]
	s.mu.Unlock()
	if !ok || !sig.Peek().Active {
		s.log.Warn("publish_namespace_done for unannounced path ignored", "path", path)
		return
	}
	sig.Set(Announcement{Path: path, Active: false})
}

// HandlePublishNamespaceCancel treats an in-flight PublishNamespace
// cancellation the same as a retraction: a soft, non-fatal removal.
func (s *Subscriber) HandlePublishNamespaceCancel(msg control.PublishNamespaceCancel) {
	s.HandlePublishNamespaceDone(control.PublishNamespaceDone{Namespace: msg.Namespace})
}

// HandleSubscribeNamespaceOk/Error only log; Announced does not block
// on its registration succeeding (spec.md §4.4.2).
func (s *Subscriber) HandleSubscribeNamespaceOk(msg control.SubscribeNamespaceOk) {
	s.log.Debug("subscribe_namespace acknowledged", "request_id", msg.RequestID)
}

func (s *Subscriber) HandleSubscribeNamespaceError(msg control.SubscribeNamespaceError) {
	s.log.Warn("subscribe_namespace rejected", "request_id", msg.RequestID, "code", msg.ErrorCode, "reason", msg.ReasonPhrase)
}

// HandleTrackStatus logs a one-shot status reply; this engine exposes
// no blocking query API for it.
func (s *Subscriber) HandleTrackStatus(msg control.TrackStatus) {
	s.log.Debug("track_status received", "request_id", msg.RequestID, "code", msg.StatusCode)
}

// handleGroup decodes frames from stream into the track matching
// header.RequestID until the group ends, the producer or track is
// closed, or the stream is exhausted (spec.md §4.4.2).
func (s *Subscriber) handleGroup(header object.GroupHeader, stream transport.ReceiveStream) {
	s.mu.Lock()
	track, ok := s.subscribes[header.RequestID]
	s.mu.Unlock()
	if !ok {
		stream.CancelRead(1)
		return
	}

	g := track.PublishGroup(header.GroupID)
	r := wire.NewStreamReader(stream)

	for {
		select {
		case <-g.Closed():
			return
		case <-track.Closed():
			return
		default:
		}

		if r.Done() {
			g.Close()
			return
		}

		payload, isEnd, err := object.DecodeFrame(r, header.HasExtensions, header.HasEnd)
		if err != nil {
			g.CloseWithError(err)
			stream.CancelRead(1)
			return
		}
		if isEnd {
			g.Close()
			return
		}
		if err := g.WriteFrame(payload); err != nil {
			return
		}
	}
}
