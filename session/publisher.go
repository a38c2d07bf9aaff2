package session

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/zsiec/moqclient/internal/control"
	"github.com/zsiec/moqclient/internal/object"
	"github.com/zsiec/moqclient/transport"
)

// Publisher is the producer half of a Session: it serves incoming
// Subscribe requests against broadcasts the application has published,
// and streams their groups as object streams. Generalizes
// MoQSession's handleSubscribe/writeVideoLoop family
// (internal/distribution/moq_session.go) into a transport-agnostic,
// domain-agnostic engine that serves any published track.
type Publisher struct {
	sess  transport.Session
	mux   *control.Mux
	alloc *control.RequestIDAllocator
	log   *slog.Logger

	mu         sync.Mutex
	broadcasts map[string]*Broadcast
}

func newPublisher(sess transport.Session, mux *control.Mux, alloc *control.RequestIDAllocator, log *slog.Logger) *Publisher {
	return &Publisher{
		sess:       sess,
		mux:        mux,
		alloc:      alloc,
		log:        log,
		broadcasts: make(map[string]*Broadcast),
	}
}

// Publish advertises b under path to the peer via PublishNamespace,
// and arranges to send PublishNamespaceDone once b is closed.
func (p *Publisher) Publish(path Path, b *Broadcast) error {
	requestID := p.alloc.Next()

	p.mu.Lock()
	p.broadcasts[path.String()] = b
	p.mu.Unlock()

	if err := p.mux.Send(control.PublishNamespace{RequestID: requestID, Namespace: path.Components()}); err != nil {
		p.mu.Lock()
		delete(p.broadcasts, path.String())
		p.mu.Unlock()
		return fmt.Errorf("session: publish %s: %w", path, err)
	}

	go func() {
		<-b.Closed()
		p.mu.Lock()
		delete(p.broadcasts, path.String())
		p.mu.Unlock()
		if err := p.mux.Send(control.PublishNamespaceDone{Namespace: path.Components()}); err != nil {
			p.log.Warn("failed to send publish_namespace_done", "path", path, "error", err)
		}
	}()
	return nil
}

func (p *Publisher) broadcast(path Path) (*Broadcast, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	b, ok := p.broadcasts[path.String()]
	return b, ok
}

// HandleSubscribe serves an incoming Subscribe request: resolve the
// broadcast and track, reply SubscribeOk or SubscribeError, and if
// successful spawn runTrack.
func (p *Publisher) HandleSubscribe(msg control.Subscribe) error {
	path := PathFromComponents(msg.Namespace)
	log := p.log.With("request_id", msg.RequestID, "path", path, "track", msg.TrackName)

	b, ok := p.broadcast(path)
	if !ok {
		log.Info("subscribe: broadcast not found")
		return p.mux.Send(control.SubscribeError{RequestID: msg.RequestID, ErrorCode: 404, ReasonPhrase: "Broadcast not found"})
	}

	track, err := b.Subscribe(msg.TrackName, msg.Priority)
	if err != nil {
		log.Info("subscribe: track not found", "error", err)
		return p.mux.Send(control.SubscribeError{RequestID: msg.RequestID, ErrorCode: 404, ReasonPhrase: "Track not found"})
	}

	if err := p.mux.Send(control.SubscribeOk{RequestID: msg.RequestID, TrackAlias: msg.RequestID}); err != nil {
		return err
	}
	go p.runTrack(msg.RequestID, track, log)
	return nil
}

// HandleUnsubscribe logs a peer's Unsubscribe. It does not stop the
// track's runTrack/runGroup goroutines or close the track; those keep
// running until the track ends on its own.
func (p *Publisher) HandleUnsubscribe(msg control.Unsubscribe) {
	// Tracks are addressed by request id at the broadcast level only
	// indirectly (runTrack holds the reference); there is nothing
	// further to look up here since this client does not keep a
	// separate producer-side request_id -> Track map once runTrack is
	// already draining it. A peer-initiated Unsubscribe simply stops
	// mattering once PublishDone has been sent; closing the track here
	// would race runTrack's own close. This is intentionally a no-op
	// beyond logging: acting on Unsubscribe is a future enhancement.
	p.log.Debug("unsubscribe received", "request_id", msg.RequestID)
}

// HandleTrackStatusRequest answers a one-shot track status query
// against a published broadcast.
func (p *Publisher) HandleTrackStatusRequest(msg control.TrackStatusRequest) error {
	path := PathFromComponents(msg.Namespace)
	if _, ok := p.broadcast(path); !ok {
		return p.mux.Send(control.TrackStatus{RequestID: msg.RequestID, StatusCode: 404})
	}
	// Largest group/object tracking is not maintained by this minimal
	// engine; report the track as present with unknown extents.
	return p.mux.Send(control.TrackStatus{RequestID: msg.RequestID, StatusCode: 200})
}

// HandlePublishNamespaceOk logs acknowledgement of one of our own
// PublishNamespace requests. Nothing in the Publisher's own lifecycle
// blocks on this response (spec.md §4.4.1 only awaits broadcast.closed
// before retracting), so there is nothing further to resolve.
func (p *Publisher) HandlePublishNamespaceOk(msg control.PublishNamespaceOk) {
	p.log.Debug("publish_namespace acknowledged", "request_id", msg.RequestID)
}

// HandlePublishNamespaceError logs rejection of one of our own
// PublishNamespace requests.
func (p *Publisher) HandlePublishNamespaceError(msg control.PublishNamespaceError) {
	p.log.Warn("publish_namespace rejected", "request_id", msg.RequestID, "code", msg.ErrorCode, "reason", msg.ReasonPhrase)
}

func (p *Publisher) runTrack(requestID uint64, track *Track, log *slog.Logger) {
	ctx := p.sess.Context()
	defer track.Close()

	for {
		g, err := track.NextGroup(ctx)
		if err != nil {
			if err == io.EOF {
				if sendErr := p.mux.Send(control.PublishDone{RequestID: requestID, StatusCode: 200, ReasonPhrase: "OK"}); sendErr != nil {
					log.Warn("failed to send publish_done", "error", sendErr)
				}
			} else {
				if sendErr := p.mux.Send(control.PublishDone{RequestID: requestID, StatusCode: 500, ReasonPhrase: err.Error()}); sendErr != nil {
					log.Warn("failed to send publish_done", "error", sendErr)
				}
			}
			return
		}
		go p.runGroup(ctx, requestID, g, log)
	}
}

func (p *Publisher) runGroup(ctx context.Context, requestID uint64, g *Group, log *slog.Logger) {
	defer g.Close()

	stream, err := p.sess.OpenUniStreamSync(ctx)
	if err != nil {
		g.CloseWithError(err)
		log.Warn("failed to open object stream", "group", g.Sequence, "error", err)
		return
	}

	header, err := object.EncodeGroupHeader(object.GroupHeader{RequestID: requestID, GroupID: g.Sequence, HasEnd: true})
	if err != nil {
		g.CloseWithError(err)
		stream.CancelWrite(1)
		return
	}
	if _, err := stream.Write(header); err != nil {
		g.CloseWithError(err)
		return
	}

	for {
		payload, err := g.ReadFrame(ctx)
		if err != nil {
			if err == io.EOF {
				stream.Close()
			} else {
				stream.CancelWrite(1)
			}
			return
		}
		if _, err := stream.Write(object.EncodeFrame(false, payload)); err != nil {
			log.Warn("failed writing frame", "group", g.Sequence, "error", err)
			return
		}
	}
}
