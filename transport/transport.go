package transport

import (
	"context"
	"io"
)

// SendStream is a unidirectional, write-only QUIC/WebTransport stream.
type SendStream interface {
	io.Writer
	// Close closes the stream gracefully, delivering a FIN to the
	// peer after any buffered writes.
	Close() error
	// CancelWrite aborts the stream with an application error code,
	// used on a producer-side failure (spec.md §4.4.1's runGroup
	// "reset the stream with the error" path).
	CancelWrite(code uint32)
}

// ReceiveStream is a unidirectional, read-only QUIC/WebTransport
// stream.
type ReceiveStream interface {
	io.Reader
	// CancelRead aborts reading with an application error code.
	CancelRead(code uint32)
}

// Stream is a bidirectional QUIC/WebTransport stream, used for the
// single control stream each session opens.
type Stream interface {
	SendStream
	ReceiveStream
}

// Session is the subset of a WebTransport/QUIC session the session
// engine needs: opening the control stream and accepting or opening
// unidirectional object streams. Its method set mirrors
// *webtransport.Session (github.com/quic-go/webtransport-go) so the
// production adapter in this package is a thin wrapper, not a
// translation layer.
type Session interface {
	OpenStreamSync(ctx context.Context) (Stream, error)
	OpenUniStreamSync(ctx context.Context) (SendStream, error)
	AcceptStream(ctx context.Context) (Stream, error)
	AcceptUniStream(ctx context.Context) (ReceiveStream, error)
	CloseWithError(code uint32, reason string) error
	Context() context.Context
}
