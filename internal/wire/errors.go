package wire

import "errors"

// Decode failures shared by every message family. Callers distinguish
// them with errors.Is; all are fatal to whichever framed message they
// occur within (see control.DecodeError for how the control package
// attaches field context).
var (
	// ErrInsufficientData is returned when a read asked for more bytes
	// than the underlying reader has available.
	ErrInsufficientData = errors.New("wire: insufficient data")

	// ErrVarintTooLarge is returned when a u53 field decodes to a value
	// that does not fit in 53 bits.
	ErrVarintTooLarge = errors.New("wire: varint exceeds declared width")

	// ErrBadString is returned when a length-prefixed string field is not
	// valid UTF-8.
	ErrBadString = errors.New("wire: invalid utf-8 string")

	// ErrTrailingBytes is returned when a framed message's bounded reader
	// still has unread bytes after its decoder returns.
	ErrTrailingBytes = errors.New("wire: trailing bytes in framed message")

	// ErrMessageTooLarge is returned encoding an IETF-framed payload over
	// 65535 bytes.
	ErrMessageTooLarge = errors.New("wire: message exceeds frame length limit")
)
