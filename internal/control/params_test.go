package control

import (
	"bytes"
	"testing"

	"github.com/zsiec/moqclient/internal/wire"
)

func TestParametersVarintRoundTrip(t *testing.T) {
	p := Parameters{}
	p.SetVarint(ParamMaxRequestID, 1000)

	w := wire.NewWriter()
	encodeParameters(w, p)
	got, err := decodeParameters(wire.NewBytesReader(w.Bytes()))
	if err != nil {
		t.Fatalf("decodeParameters: %v", err)
	}
	v, ok := got.Varint(ParamMaxRequestID)
	if !ok || v != 1000 {
		t.Fatalf("Varint: got %d ok=%v want 1000", v, ok)
	}
}

func TestParametersBytesRoundTrip(t *testing.T) {
	p := Parameters{}
	p.SetBytes(ParamPath, []byte("/live/camera1"))

	w := wire.NewWriter()
	encodeParameters(w, p)
	got, err := decodeParameters(wire.NewBytesReader(w.Bytes()))
	if err != nil {
		t.Fatalf("decodeParameters: %v", err)
	}
	b, ok := got.Bytes(ParamPath)
	if !ok || !bytes.Equal(b, []byte("/live/camera1")) {
		t.Fatalf("Bytes: got %q ok=%v", b, ok)
	}
}

func TestParametersMissingKey(t *testing.T) {
	p := Parameters{}
	if _, ok := p.Varint(ParamMaxRequestID); ok {
		t.Fatal("expected ok=false for missing varint key")
	}
	if _, ok := p.Bytes(ParamPath); ok {
		t.Fatal("expected ok=false for missing bytes key")
	}
}

func TestNamespaceRoundTrip(t *testing.T) {
	w := wire.NewWriter()
	encodeNamespace(w, []string{"live", "camera1", "video"})
	got, err := decodeNamespace(wire.NewBytesReader(w.Bytes()))
	if err != nil {
		t.Fatalf("decodeNamespace: %v", err)
	}
	want := []string{"live", "camera1", "video"}
	if len(got) != len(want) {
		t.Fatalf("length mismatch: got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("component %d: got %q want %q", i, got[i], want[i])
		}
	}
}
