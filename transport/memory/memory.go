package memory

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/zsiec/moqclient/transport"
)

// Session is one end of an in-memory transport.Session pair created by
// NewPair. Opening a stream on one end delivers the peer endpoint to
// the other end's Accept call.
type Session struct {
	ctx    context.Context
	cancel context.CancelFunc

	outBidi chan<- transport.Stream
	inBidi  <-chan transport.Stream
	outUni  chan<- transport.ReceiveStream
	inUni   <-chan transport.ReceiveStream

	mu         sync.Mutex
	closeCode  uint32
	closeErr   error
}

// NewPair returns two connected sessions: streams opened on a are
// accepted on b and vice versa. Both share one lifetime; closing either
// end closes both.
func NewPair() (a, b *Session) {
	ctx, cancel := context.WithCancel(context.Background())

	aToB := make(chan transport.Stream)
	bToA := make(chan transport.Stream)
	aToBUni := make(chan transport.ReceiveStream)
	bToAUni := make(chan transport.ReceiveStream)

	a = &Session{ctx: ctx, cancel: cancel, outBidi: aToB, inBidi: bToA, outUni: aToBUni, inUni: bToAUni}
	b = &Session{ctx: ctx, cancel: cancel, outBidi: bToA, inBidi: aToB, outUni: bToAUni, inUni: aToBUni}
	return a, b
}

func (s *Session) OpenStreamSync(ctx context.Context) (transport.Stream, error) {
	r1, w1 := io.Pipe()
	r2, w2 := io.Pipe()
	local := &bidiStream{writeSide: w1, readSide: r2}
	remote := &bidiStream{writeSide: w2, readSide: r1}

	select {
	case s.outBidi <- remote:
		return local, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-s.ctx.Done():
		return nil, s.closedErr()
	}
}

func (s *Session) AcceptStream(ctx context.Context) (transport.Stream, error) {
	select {
	case st := <-s.inBidi:
		return st, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-s.ctx.Done():
		return nil, s.closedErr()
	}
}

func (s *Session) OpenUniStreamSync(ctx context.Context) (transport.SendStream, error) {
	r, w := io.Pipe()
	local := &sendStream{w}
	remote := &receiveStream{r}

	select {
	case s.outUni <- remote:
		return local, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-s.ctx.Done():
		return nil, s.closedErr()
	}
}

func (s *Session) AcceptUniStream(ctx context.Context) (transport.ReceiveStream, error) {
	select {
	case st := <-s.inUni:
		return st, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-s.ctx.Done():
		return nil, s.closedErr()
	}
}

func (s *Session) CloseWithError(code uint32, reason string) error {
	s.mu.Lock()
	s.closeCode = code
	s.closeErr = fmt.Errorf("session closed: code %d: %s", code, reason)
	s.mu.Unlock()
	s.cancel()
	return nil
}

func (s *Session) Context() context.Context { return s.ctx }

func (s *Session) closedErr() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closeErr != nil {
		return s.closeErr
	}
	return context.Canceled
}

type sendStream struct {
	w *io.PipeWriter
}

func (s *sendStream) Write(p []byte) (int, error) { return s.w.Write(p) }
func (s *sendStream) Close() error                { return s.w.Close() }
func (s *sendStream) CancelWrite(code uint32) {
	s.w.CloseWithError(fmt.Errorf("stream cancelled: code %d", code))
}

type receiveStream struct {
	r *io.PipeReader
}

func (s *receiveStream) Read(p []byte) (int, error) { return s.r.Read(p) }
func (s *receiveStream) CancelRead(code uint32) {
	s.r.CloseWithError(fmt.Errorf("stream cancelled: code %d", code))
}

// bidiStream pairs an independent write pipe and read pipe into one
// full-duplex transport.Stream.
type bidiStream struct {
	writeSide *io.PipeWriter
	readSide  *io.PipeReader
}

func (s *bidiStream) Write(p []byte) (int, error) { return s.writeSide.Write(p) }
func (s *bidiStream) Read(p []byte) (int, error)  { return s.readSide.Read(p) }
func (s *bidiStream) Close() error                { return s.writeSide.Close() }
func (s *bidiStream) CancelWrite(code uint32) {
	s.writeSide.CloseWithError(fmt.Errorf("stream cancelled: code %d", code))
}
func (s *bidiStream) CancelRead(code uint32) {
	s.readSide.CloseWithError(fmt.Errorf("stream cancelled: code %d", code))
}
