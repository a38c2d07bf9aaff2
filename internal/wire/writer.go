package wire

import (
	"github.com/quic-go/quic-go/quicvarint"
)

// Writer is a push-based byte producer backed by a growable scratch
// buffer. Every encoder in this module builds its payload in a Writer
// first so the final length is known before a length-prefixed frame is
// emitted, per the framing discipline in spec §4.2.
type Writer struct {
	buf []byte
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Bytes returns the accumulated buffer.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return len(w.buf)
}

// WriteU8 appends a fixed-width byte.
func (w *Writer) WriteU8(v uint8) {
	w.buf = append(w.buf, v)
}

// WriteU16 appends a fixed-width big-endian uint16.
func (w *Writer) WriteU16(v uint16) {
	w.buf = append(w.buf, byte(v>>8), byte(v))
}

// WriteI32 appends a fixed-width big-endian two's complement int32.
func (w *Writer) WriteI32(v int32) {
	u := uint32(v)
	w.buf = append(w.buf, byte(u>>24), byte(u>>16), byte(u>>8), byte(u))
}

// WriteU62 appends a QUIC-style varint admitting the full 62-bit range.
func (w *Writer) WriteU62(v uint64) {
	w.buf = quicvarint.Append(w.buf, v)
}

// WriteU53 appends a QUIC-style varint restricted to 53 bits. Values
// outside that range indicate a programming error in the caller (the
// protocol never needs a 53-bit field to exceed that width), so this
// clamps by panicking rather than threading an error through every
// call site, matching how the teacher's quicvarint.Append callers never
// check their own input ranges.
func (w *Writer) WriteU53(v uint64) {
	if v > maxU53 {
		panic("wire: u53 value exceeds 53 bits")
	}
	w.buf = quicvarint.Append(w.buf, v)
}

// WriteBytes appends raw bytes with no length prefix.
func (w *Writer) WriteBytes(b []byte) {
	w.buf = append(w.buf, b...)
}

// WriteString appends a u53 byte-length prefix followed by s's UTF-8
// bytes.
func (w *Writer) WriteString(s string) {
	w.WriteU53(uint64(len(s)))
	w.buf = append(w.buf, s...)
}
