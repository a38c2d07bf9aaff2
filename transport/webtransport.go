package transport

import (
	"context"

	"github.com/quic-go/webtransport-go"
)

// wtSession adapts *webtransport.Session to Session. cmd/moqclient
// constructs one of these after dialing; the session engine itself
// only ever sees the Session interface.
type wtSession struct {
	sess *webtransport.Session
}

// NewWebTransportSession wraps a dialed WebTransport session.
func NewWebTransportSession(sess *webtransport.Session) Session {
	return wtSession{sess: sess}
}

func (s wtSession) OpenStreamSync(ctx context.Context) (Stream, error) {
	st, err := s.sess.OpenStreamSync(ctx)
	if err != nil {
		return nil, err
	}
	return wtStream{st}, nil
}

func (s wtSession) OpenUniStreamSync(ctx context.Context) (SendStream, error) {
	st, err := s.sess.OpenUniStreamSync(ctx)
	if err != nil {
		return nil, err
	}
	return wtSendStream{st}, nil
}

func (s wtSession) AcceptStream(ctx context.Context) (Stream, error) {
	st, err := s.sess.AcceptStream(ctx)
	if err != nil {
		return nil, err
	}
	return wtStream{st}, nil
}

func (s wtSession) AcceptUniStream(ctx context.Context) (ReceiveStream, error) {
	st, err := s.sess.AcceptUniStream(ctx)
	if err != nil {
		return nil, err
	}
	return wtReceiveStream{st}, nil
}

func (s wtSession) CloseWithError(code uint32, reason string) error {
	return s.sess.CloseWithError(webtransport.SessionErrorCode(code), reason)
}

func (s wtSession) Context() context.Context {
	return s.sess.Context()
}

// wtSendStream adapts webtransport.SendStream's StreamErrorCode-typed
// CancelWrite to this package's plain uint32 code.
type wtSendStream struct {
	webtransport.SendStream
}

func (s wtSendStream) CancelWrite(code uint32) {
	s.SendStream.CancelWrite(webtransport.StreamErrorCode(code))
}

// wtReceiveStream adapts webtransport.ReceiveStream likewise.
type wtReceiveStream struct {
	webtransport.ReceiveStream
}

func (s wtReceiveStream) CancelRead(code uint32) {
	s.ReceiveStream.CancelRead(webtransport.StreamErrorCode(code))
}

// wtStream adapts a bidirectional webtransport.Stream.
type wtStream struct {
	webtransport.Stream
}

func (s wtStream) CancelWrite(code uint32) {
	s.Stream.CancelWrite(webtransport.StreamErrorCode(code))
}

func (s wtStream) CancelRead(code uint32) {
	s.Stream.CancelRead(webtransport.StreamErrorCode(code))
}
