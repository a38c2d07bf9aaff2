package wire

import (
	"bytes"
	"errors"
	"testing"
)

func TestU53RoundTrip(t *testing.T) {
	t.Parallel()
	values := []uint64{0, 1, 63, 64, 16383, 16384, 1<<30 - 1, 1 << 30, maxU53}
	for _, v := range values {
		w := NewWriter()
		w.WriteU53(v)
		r := NewBytesReader(w.Bytes())
		got, err := r.ReadU53()
		if err != nil {
			t.Fatalf("ReadU53(%d): %v", v, err)
		}
		if got != v {
			t.Errorf("round trip %d: got %d", v, got)
		}
		if !r.Done() {
			t.Errorf("round trip %d: reader not exhausted", v)
		}
	}
}

func TestU62RoundTrip(t *testing.T) {
	t.Parallel()
	values := []uint64{0, 1, 1 << 40, (uint64(1) << 62) - 1}
	for _, v := range values {
		w := NewWriter()
		w.WriteU62(v)
		r := NewBytesReader(w.Bytes())
		got, err := r.ReadU62()
		if err != nil {
			t.Fatalf("ReadU62(%d): %v", v, err)
		}
		if got != v {
			t.Errorf("round trip %d: got %d", v, got)
		}
	}
}

func TestVarintBoundaryWidths(t *testing.T) {
	t.Parallel()
	cases := []struct {
		v    uint64
		want int
	}{
		{63, 1},
		{64, 2},
		{16383, 2},
		{16384, 4},
		{1<<30 - 1, 4},
		{1 << 30, 8},
	}
	for _, c := range cases {
		w := NewWriter()
		w.WriteU53(c.v)
		if got := len(w.Bytes()); got != c.want {
			t.Errorf("value %d: encoded width = %d, want %d", c.v, got, c.want)
		}
	}
}

func TestU53TooLarge(t *testing.T) {
	t.Parallel()
	w := NewWriter()
	w.WriteU62(maxU53 + 1)
	r := NewBytesReader(w.Bytes())
	if _, err := r.ReadU53(); !errors.Is(err, ErrVarintTooLarge) {
		t.Fatalf("expected ErrVarintTooLarge, got %v", err)
	}
}

func TestStringRoundTrip(t *testing.T) {
	t.Parallel()
	cases := []string{"", "hello", "room/a", "unicode: é中文", "a/b/c"}
	for _, s := range cases {
		w := NewWriter()
		w.WriteString(s)
		r := NewBytesReader(w.Bytes())
		got, err := r.ReadString()
		if err != nil {
			t.Fatalf("ReadString(%q): %v", s, err)
		}
		if got != s {
			t.Errorf("round trip %q: got %q", s, got)
		}
	}
}

func TestStringBadUTF8(t *testing.T) {
	t.Parallel()
	w := NewWriter()
	w.WriteU53(3)
	w.WriteBytes([]byte{0xff, 0xfe, 0xfd})
	r := NewBytesReader(w.Bytes())
	if _, err := r.ReadString(); !errors.Is(err, ErrBadString) {
		t.Fatalf("expected ErrBadString, got %v", err)
	}
}

func TestFixedWidthRoundTrip(t *testing.T) {
	t.Parallel()
	w := NewWriter()
	w.WriteU8(0xAB)
	w.WriteU16(0x1234)
	w.WriteI32(-42)
	r := NewBytesReader(w.Bytes())

	u8, err := r.ReadU8()
	if err != nil || u8 != 0xAB {
		t.Fatalf("ReadU8: %v %v", u8, err)
	}
	u16, err := r.ReadU16()
	if err != nil || u16 != 0x1234 {
		t.Fatalf("ReadU16: %v %v", u16, err)
	}
	i32, err := r.ReadI32()
	if err != nil || i32 != -42 {
		t.Fatalf("ReadI32: %v %v", i32, err)
	}
}

func TestReadFullInsufficientData(t *testing.T) {
	t.Parallel()
	r := NewBytesReader([]byte{1, 2})
	if _, err := r.ReadFull(5); !errors.Is(err, ErrInsufficientData) {
		t.Fatalf("expected ErrInsufficientData, got %v", err)
	}
}

func TestStreamReaderMatchesBytesReader(t *testing.T) {
	t.Parallel()
	w := NewWriter()
	w.WriteU53(300)
	w.WriteString("hello world")

	r := NewStreamReader(bytes.NewReader(w.Bytes()))
	n, err := r.ReadU53()
	if err != nil || n != 300 {
		t.Fatalf("ReadU53: %v %v", n, err)
	}
	s, err := r.ReadString()
	if err != nil || s != "hello world" {
		t.Fatalf("ReadString: %v %v", s, err)
	}
	if !r.Done() {
		t.Fatal("expected stream reader done")
	}
}
