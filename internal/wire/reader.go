package wire

import (
	"bufio"
	"errors"
	"io"
	"unicode/utf8"

	"github.com/quic-go/quic-go/quicvarint"
)

// maxU53 is the largest value a 53-bit unsigned field may hold.
const maxU53 = (uint64(1) << 53) - 1

// Reader is a pull-based byte consumer, backed either by an in-memory
// slice (for decoding an already-length-bounded message payload) or by a
// live io.Reader (for decoding an object stream whose total length is not
// known up front). The two backings share one type because every decoder
// in this module needs the same primitives regardless of which one it is
// reading from.
type Reader struct {
	br  *bufio.Reader
	buf []byte
	pos int
}

// NewBytesReader returns a Reader bounded to exactly the bytes in b. Used
// for control message payloads, which are always framed with an explicit
// length before decoding begins.
func NewBytesReader(b []byte) *Reader {
	return &Reader{buf: b}
}

// NewStreamReader returns a Reader over a live byte stream with no a
// priori bound. Used for object streams, whose frame count is open ended.
func NewStreamReader(r io.Reader) *Reader {
	return &Reader{br: bufio.NewReader(r)}
}

// ReadFull returns exactly n bytes or ErrInsufficientData.
func (r *Reader) ReadFull(n int) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}
	if r.buf != nil {
		if r.pos+n > len(r.buf) {
			return nil, ErrInsufficientData
		}
		out := r.buf[r.pos : r.pos+n]
		r.pos += n
		return out, nil
	}
	out := make([]byte, n)
	if _, err := io.ReadFull(r.br, out); err != nil {
		return nil, ErrInsufficientData
	}
	return out, nil
}

// ReadByte implements io.ByteReader so the varint decoder below can share
// quicvarint's own byte-at-a-time parser for the stream-backed case.
func (r *Reader) ReadByte() (byte, error) {
	if r.buf != nil {
		if r.pos >= len(r.buf) {
			return 0, ErrInsufficientData
		}
		b := r.buf[r.pos]
		r.pos++
		return b, nil
	}
	b, err := r.br.ReadByte()
	if err != nil {
		return 0, ErrInsufficientData
	}
	return b, nil
}

// ReadAll returns every remaining byte.
func (r *Reader) ReadAll() ([]byte, error) {
	if r.buf != nil {
		out := r.buf[r.pos:]
		r.pos = len(r.buf)
		return out, nil
	}
	return io.ReadAll(r.br)
}

// Done reports whether no further bytes are available without blocking
// for more (bytes-backed) or whether the underlying stream has reached
// EOF (stream-backed; this may block until the peer signals end of
// stream, matching how a real unidirectional QUIC stream's FIN works).
func (r *Reader) Done() bool {
	if r.buf != nil {
		return r.pos >= len(r.buf)
	}
	_, err := r.br.Peek(1)
	return err != nil
}

// ReadU8 reads a fixed-width unsigned byte.
func (r *Reader) ReadU8() (uint8, error) {
	b, err := r.ReadFull(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadU16 reads a fixed-width big-endian uint16.
func (r *Reader) ReadU16() (uint16, error) {
	b, err := r.ReadFull(2)
	if err != nil {
		return 0, err
	}
	return uint16(b[0])<<8 | uint16(b[1]), nil
}

// ReadI32 reads a fixed-width big-endian two's complement int32.
func (r *Reader) ReadI32() (int32, error) {
	b, err := r.ReadFull(4)
	if err != nil {
		return 0, err
	}
	return int32(uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])), nil
}

// readVarint parses a QUIC-style variable-length integer, admitting the
// full 62-bit range.
func (r *Reader) readVarint() (uint64, error) {
	if r.buf != nil {
		v, n, err := quicvarint.Parse(r.buf[r.pos:])
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return 0, ErrInsufficientData
			}
			return 0, ErrInsufficientData
		}
		r.pos += n
		return v, nil
	}
	v, err := quicvarint.Read(r.br)
	if err != nil {
		return 0, ErrInsufficientData
	}
	return v, nil
}

// ReadU62 reads a QUIC-style varint admitting the full 62-bit range.
func (r *Reader) ReadU62() (uint64, error) {
	return r.readVarint()
}

// ReadU53 reads a QUIC-style varint restricted to 53 bits, as used by the
// IETF wire variant for request IDs, lengths, and sequence numbers.
func (r *Reader) ReadU53() (uint64, error) {
	v, err := r.readVarint()
	if err != nil {
		return 0, err
	}
	if v > maxU53 {
		return 0, ErrVarintTooLarge
	}
	return v, nil
}

// ReadString reads a u53 byte-length prefix followed by that many UTF-8
// bytes.
func (r *Reader) ReadString() (string, error) {
	n, err := r.ReadU53()
	if err != nil {
		return "", err
	}
	b, err := r.ReadFull(int(n))
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", ErrBadString
	}
	return string(b), nil
}
