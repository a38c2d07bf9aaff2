package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/zsiec/moqclient/internal/control"
	"github.com/zsiec/moqclient/internal/object"
	"github.com/zsiec/moqclient/internal/wire"
	"github.com/zsiec/moqclient/transport"
)

// maxRequestIDAdvertisement is the window this client advertises to
// the peer at connect time (spec.md §4.4).
const maxRequestIDAdvertisement = 1<<31 - 1

// Session is a single MoQ client session: one control stream plus a
// fan of object streams, riding on a pre-established transport.Session.
// It holds both a Publisher and a Subscriber, since this client talks
// both roles over one connection, generalizing MoQSession/Server
// (internal/distribution/moq_session.go, distribution/server.go),
// which each hold only the server's viewer-facing half.
type Session struct {
	transport transport.Session
	control   transport.Stream
	mux       *control.Mux
	log       *slog.Logger

	Publisher  *Publisher
	Subscriber *Subscriber

	closeOnce sync.Once
	closed    chan struct{}

	mu  sync.Mutex
	err error
}

// Connect opens the control stream, performs the ClientSetup/ServerSetup
// handshake, advertises the request-id window, and starts the control
// and object-stream tasks. variant selects lite or ietf wire framing.
// path, if non-empty, is carried as the setup PATH parameter.
func Connect(ctx context.Context, sess transport.Session, variant wire.Variant, path string, log *slog.Logger) (*Session, error) {
	if log == nil {
		log = slog.Default()
	}

	stream, err := sess.OpenStreamSync(ctx)
	if err != nil {
		return nil, fmt.Errorf("session: open control stream: %w", err)
	}
	mux := control.NewMux(stream, variant)

	params := control.Parameters{}
	if path != "" {
		params.SetBytes(control.ParamPath, []byte(path))
	}
	if err := mux.Send(control.ClientSetup{Versions: []uint64{control.VersionDraft14}, Params: params}); err != nil {
		return nil, fmt.Errorf("session: send client_setup: %w", err)
	}

	env, err := mux.Recv()
	if err != nil {
		return nil, fmt.Errorf("session: recv server_setup: %w", err)
	}
	serverSetup, ok := env.Value.(control.ServerSetup)
	if !ok {
		return nil, fmt.Errorf("session: expected server_setup, got %s", env.Type)
	}
	if serverSetup.SelectedVersion != control.VersionDraft14 {
		return nil, ErrVersionMismatch
	}

	return newSession(sess, stream, mux, variant, log)
}

// newSession builds a Session around an already-handshaken control
// mux and starts its control and object-stream tasks. Shared by
// Connect and Accept, which differ only in which side of
// ClientSetup/ServerSetup they play.
func newSession(sess transport.Session, stream transport.Stream, mux *control.Mux, variant wire.Variant, log *slog.Logger) (*Session, error) {
	alloc := control.NewRequestIDAllocator(variant)

	s := &Session{
		transport: sess,
		control:   stream,
		mux:       mux,
		log:       log,
		closed:    make(chan struct{}),
	}
	s.Publisher = newPublisher(sess, mux, alloc, log.With("component", "publisher"))
	s.Subscriber = newSubscriber(sess, mux, alloc, log.With("component", "subscriber"))

	if err := mux.Send(control.MaxRequestIDMsg{RequestID: maxRequestIDAdvertisement}); err != nil {
		return nil, fmt.Errorf("session: send max_request_id: %w", err)
	}

	g, gCtx := errgroup.WithContext(sess.Context())
	g.Go(func() error { return s.controlLoop() })
	g.Go(func() error { return s.objectStreamLoop(gCtx) })

	go func() {
		err := g.Wait()
		s.mu.Lock()
		s.err = err
		s.mu.Unlock()
		s.Close()
	}()

	return s, nil
}

// Publish advertises b under path to the peer.
func (s *Session) Publish(path Path, b *Broadcast) error {
	return s.Publisher.Publish(path, b)
}

// Consume returns a broadcast whose tracks are requested lazily from
// the peer.
func (s *Session) Consume(path Path) *Broadcast {
	return s.Subscriber.Consume(path)
}

// Announced subscribes to namespace activity under prefix.
func (s *Session) Announced(prefix Path) *Announced {
	return s.Subscriber.Announced(prefix)
}

// Close tears the session down: the control stream and transport
// session are both closed, unblocking every in-flight read and the
// control/object-stream tasks.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.control.CancelRead(0)
		s.control.CancelWrite(0)
		_ = s.transport.CloseWithError(0, "session closed")
		close(s.closed)
	})
	return nil
}

// Closed resolves once the session has torn down, whether from a call
// to Close or from a fatal protocol/transport error.
func (s *Session) Closed() <-chan struct{} { return s.closed }

// Err returns the error that ended the session's control and
// object-stream tasks, or nil while they are still running. After an
// application-initiated Close it holds whatever error those tasks saw
// as the stream and transport were torn down; it is not reset to nil.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Session) controlLoop() error {
	for {
		env, err := s.mux.Recv()
		if err != nil {
			return fmt.Errorf("session: control recv: %w", err)
		}
		if err := s.dispatch(env); err != nil {
			return err
		}
	}
}

func (s *Session) dispatch(env control.Envelope) error {
	switch msg := env.Value.(type) {
	case control.PublishNamespace:
		return s.Subscriber.HandlePublishNamespace(msg)
	case control.PublishNamespaceOk:
		s.Publisher.HandlePublishNamespaceOk(msg)
	case control.PublishNamespaceError:
		s.Publisher.HandlePublishNamespaceError(msg)
	case control.PublishNamespaceDone:
		s.Subscriber.HandlePublishNamespaceDone(msg)
	case control.PublishNamespaceCancel:
		s.Subscriber.HandlePublishNamespaceCancel(msg)
	case control.Subscribe:
		return s.Publisher.HandleSubscribe(msg)
	case control.SubscribeOk:
		s.Subscriber.HandleSubscribeOk(msg)
	case control.SubscribeError:
		s.Subscriber.HandleSubscribeError(msg)
	case control.Unsubscribe:
		s.Publisher.HandleUnsubscribe(msg)
	case control.PublishDone:
		s.Subscriber.HandlePublishDone(msg)
	case control.TrackStatusRequest:
		return s.Publisher.HandleTrackStatusRequest(msg)
	case control.TrackStatus:
		s.Subscriber.HandleTrackStatus(msg)
	case control.SubscribeNamespace:
		s.log.Warn("subscribe_namespace received; serving namespace subscriptions is out of scope", "request_id", msg.RequestID)
	case control.SubscribeNamespaceOk:
		s.Subscriber.HandleSubscribeNamespaceOk(msg)
	case control.SubscribeNamespaceError:
		s.Subscriber.HandleSubscribeNamespaceError(msg)
	case control.UnsubscribeNamespace:
		s.log.Debug("unsubscribe_namespace received; serving namespace subscriptions is out of scope", "request_id", msg.RequestID)
	case control.MaxRequestIDMsg:
		s.log.Debug("max_request_id received and ignored", "request_id", msg.RequestID)
	case control.RequestsBlockedMsg:
		s.log.Debug("requests_blocked received and ignored", "maximum_request_id", msg.MaximumRequestID)
	case control.GoAway:
		s.log.Warn("goaway received; closing session, not following redirect", "new_session_uri", msg.NewSessionURI)
		return ErrGoAway
	default:
		return fmt.Errorf("session: unexpected message type %s in control loop", env.Type)
	}
	return nil
}

func (s *Session) objectStreamLoop(ctx context.Context) error {
	for {
		stream, err := s.transport.AcceptUniStream(ctx)
		if err != nil {
			return fmt.Errorf("session: accept object stream: %w", err)
		}
		go s.handleObjectStream(stream)
	}
}

func (s *Session) handleObjectStream(stream transport.ReceiveStream) {
	r := wire.NewStreamReader(stream)
	header, err := object.DecodeGroupHeader(r)
	if err != nil {
		s.log.Warn("failed to decode object stream group header", "error", err)
		stream.CancelRead(1)
		return
	}
	s.Subscriber.handleGroup(header, stream)
}
