package control

import (
	"io"
	"testing"

	"github.com/zsiec/moqclient/internal/wire"
)

type loopback struct {
	r io.Reader
	w io.Writer
}

func (l loopback) Read(p []byte) (int, error)  { return l.r.Read(p) }
func (l loopback) Write(p []byte) (int, error) { return l.w.Write(p) }

func TestMuxSendRecvRoundTrip(t *testing.T) {
	pr, pw := io.Pipe()
	sender := NewMux(loopback{r: pr, w: pw}, wire.VariantIETF)
	receiver := NewMux(loopback{r: pr, w: pw}, wire.VariantIETF)

	done := make(chan error, 1)
	go func() {
		done <- sender.Send(Subscribe{
			RequestID:  1,
			Namespace:  []string{"live"},
			TrackName:  "video",
			GroupOrder: GroupOrderDefault,
			Forward:    1,
			FilterType: FilterLatestObject,
			Params:     Parameters{},
		})
	}()

	env, err := receiver.Recv()
	if err != nil {
		t.Fatalf("Recv: %v", err)
	}
	if err := <-done; err != nil {
		t.Fatalf("Send: %v", err)
	}
	if env.Type != MsgSubscribe {
		t.Fatalf("expected MsgSubscribe, got %s", env.Type)
	}
	sub, ok := env.Value.(Subscribe)
	if !ok || sub.TrackName != "video" {
		t.Fatalf("unexpected decoded value %+v", env.Value)
	}
}

func TestMuxSendRecvRoundTripLiteVariant(t *testing.T) {
	pr, pw := io.Pipe()
	sender := NewMux(loopback{r: pr, w: pw}, wire.VariantLite)
	receiver := NewMux(loopback{r: pr, w: pw}, wire.VariantLite)

	done := make(chan error, 1)
	go func() {
		done <- sender.Send(GoAway{NewSessionURI: "https://example.com"})
	}()

	env, err := receiver.Recv()
	if err != nil {
		t.Fatalf("Recv: %v", err)
	}
	if err := <-done; err != nil {
		t.Fatalf("Send: %v", err)
	}
	if env.Type != MsgGoAway {
		t.Fatalf("expected MsgGoAway, got %s", env.Type)
	}
}

func TestRequestIDAllocatorIETFStridesByTwo(t *testing.T) {
	a := NewRequestIDAllocator(wire.VariantIETF)
	if got := a.Next(); got != 0 {
		t.Fatalf("first id: got %d want 0", got)
	}
	if got := a.Next(); got != 2 {
		t.Fatalf("second id: got %d want 2", got)
	}
	if got := a.Next(); got != 4 {
		t.Fatalf("third id: got %d want 4", got)
	}
}

func TestRequestIDAllocatorLiteStridesByOne(t *testing.T) {
	a := NewRequestIDAllocator(wire.VariantLite)
	if got := a.Next(); got != 0 {
		t.Fatalf("first id: got %d want 0", got)
	}
	if got := a.Next(); got != 1 {
		t.Fatalf("second id: got %d want 1", got)
	}
}
