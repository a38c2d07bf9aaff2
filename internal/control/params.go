package control

import "github.com/zsiec/moqclient/internal/wire"

// Parameters is the generic key/value extension map carried by several
// control messages (ClientSetup, ServerSetup, Subscribe, ...). Every
// entry is carried on the wire as (id, length, bytes); by convention
// even keys hold a varint-encoded value (SetVarint/Varint) and odd keys
// a raw byte string (SetBytes/Bytes). It generalizes the inline odd/even loop the teacher hand-rolls
// once, in ParseClientSetup, into a reusable type every message with a
// parameter list can share.
type Parameters map[uint64][]byte

// SetVarint stores a varint-valued (even-keyed) parameter.
func (p Parameters) SetVarint(key, value uint64) {
	w := wire.NewWriter()
	w.WriteU62(value)
	p[key] = w.Bytes()
}

// SetBytes stores a byte-string-valued (odd-keyed) parameter.
func (p Parameters) SetBytes(key uint64, value []byte) {
	p[key] = value
}

// Varint returns an even-keyed parameter's decoded value.
func (p Parameters) Varint(key uint64) (uint64, bool) {
	raw, ok := p[key]
	if !ok {
		return 0, false
	}
	r := wire.NewBytesReader(raw)
	v, err := r.ReadU62()
	if err != nil {
		return 0, false
	}
	return v, true
}

// Bytes returns an odd-keyed parameter's raw value.
func (p Parameters) Bytes(key uint64) ([]byte, bool) {
	v, ok := p[key]
	return v, ok
}

// encodeParameters writes a parameter map as count + (id, length, bytes)
// tuples.
func encodeParameters(w *wire.Writer, params Parameters) {
	w.WriteU53(uint64(len(params)))
	for id, val := range params {
		w.WriteU62(id)
		w.WriteU53(uint64(len(val)))
		w.WriteBytes(val)
	}
}

// decodeParameters reads a parameter map, rejecting duplicate ids as
// DUPLICATE_PARAMETER (fatal, per spec §4.3).
func decodeParameters(r *wire.Reader) (Parameters, error) {
	count, err := r.ReadU53()
	if err != nil {
		return nil, err
	}
	params := make(Parameters, count)
	for i := uint64(0); i < count; i++ {
		id, err := r.ReadU62()
		if err != nil {
			return nil, err
		}
		length, err := r.ReadU53()
		if err != nil {
			return nil, err
		}
		val, err := r.ReadFull(int(length))
		if err != nil {
			return nil, err
		}
		if _, dup := params[id]; dup {
			return nil, ErrDuplicateParameter
		}
		// val aliases the decode buffer; copy so callers can retain it
		// past the lifetime of the enclosing message payload.
		cp := make([]byte, len(val))
		copy(cp, val)
		params[id] = cp
	}
	return params, nil
}

// encodeNamespace writes a namespace tuple: count, then each component as
// a length-prefixed string.
func encodeNamespace(w *wire.Writer, parts []string) {
	w.WriteU53(uint64(len(parts)))
	for _, p := range parts {
		w.WriteString(p)
	}
}

// decodeNamespace reads a namespace tuple.
func decodeNamespace(r *wire.Reader) ([]string, error) {
	count, err := r.ReadU53()
	if err != nil {
		return nil, err
	}
	parts := make([]string, count)
	for i := range parts {
		s, err := r.ReadString()
		if err != nil {
			return nil, err
		}
		parts[i] = s
	}
	return parts, nil
}
