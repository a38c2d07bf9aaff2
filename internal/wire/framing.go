package wire

// Variant selects which length-prefix discipline frames a message.
type Variant int

const (
	// VariantLite prefixes a payload with a u53 varint length.
	VariantLite Variant = iota
	// VariantIETF prefixes a payload with a big-endian u16 length, per
	// draft-ietf-moq-transport-14.
	VariantIETF
)

const maxIETFPayload = 65535

// EncodeFrame prepends the length prefix appropriate to variant onto
// payload. IETF-framed payloads over 65535 bytes are rejected as
// MESSAGE_TOO_LARGE (fatal per spec §7).
func EncodeFrame(variant Variant, payload []byte) ([]byte, error) {
	switch variant {
	case VariantLite:
		w := NewWriter()
		w.WriteU53(uint64(len(payload)))
		return append(w.Bytes(), payload...), nil
	case VariantIETF:
		if len(payload) > maxIETFPayload {
			return nil, ErrMessageTooLarge
		}
		w := NewWriter()
		w.WriteU16(uint16(len(payload)))
		return append(w.Bytes(), payload...), nil
	default:
		panic("wire: unknown frame variant")
	}
}

// DecodeFramePayload reads a frame's length prefix from r and returns a
// Reader bounded to exactly that many payload bytes. It does not itself
// detect trailing bytes; callers decode the fields they expect from the
// returned Reader and then call CheckTrailing on it, per spec §4.2's
// "bounded reader must be empty after decode" rule.
func DecodeFramePayload(variant Variant, r *Reader) (*Reader, error) {
	var length uint64
	var err error
	switch variant {
	case VariantLite:
		length, err = r.ReadU53()
	case VariantIETF:
		var n uint16
		n, err = r.ReadU16()
		length = uint64(n)
	default:
		panic("wire: unknown frame variant")
	}
	if err != nil {
		return nil, err
	}
	payload, err := r.ReadFull(int(length))
	if err != nil {
		return nil, err
	}
	return NewBytesReader(payload), nil
}

// CheckTrailing returns ErrTrailingBytes if r still has unread bytes.
func CheckTrailing(r *Reader) error {
	if !r.Done() {
		return ErrTrailingBytes
	}
	return nil
}
