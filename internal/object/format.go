package object

import "github.com/zsiec/moqclient/internal/wire"

// StatusGroupEnd is the explicit end-of-group object status. Per spec §9
// (observed source behavior), some peers send status 0 instead when the
// group header's hasEnd flag is unset; decoding accepts both and this is
// deliberate, not tightened.
const StatusGroupEnd uint64 = 0x03

// streamTypeBase is the low end of the valid stream-type range
// [0x10, 0x1f]; the low nibble carries the feature flags below.
const streamTypeBase uint64 = 0x10

// Feature flag bits packed into a group header's stream type, low nibble.
const (
	flagHasEnd            byte = 0x1
	flagHasSubgroupObject byte = 0x2
	flagHasSubgroup       byte = 0x4
	flagHasExtensions     byte = 0x8
)

// GroupHeader is the fixed-field prefix of every object stream: a single
// varint stream type (encoding the feature flags) followed by the
// request id and group sequence, and optionally an explicit subgroup id.
// Generalizes the teacher's hand-written subgroup header
// (distribution/moq_writer.go's moqStreamTypeSubgroupSIDExt encoding) to
// a typed, round-trippable struct with the full flag combination space.
type GroupHeader struct {
	RequestID         uint64
	GroupID           uint64
	SubgroupID        uint8 // meaningful only when HasSubgroup
	PublisherPriority uint8
	HasExtensions     bool
	HasSubgroup       bool
	HasSubgroupObject bool
	HasEnd            bool
}

func (h GroupHeader) streamType() (uint64, error) {
	if h.HasSubgroup && h.HasSubgroupObject {
		return 0, ErrInvalidFlags
	}
	var flags byte
	if h.HasEnd {
		flags |= flagHasEnd
	}
	if h.HasSubgroupObject {
		flags |= flagHasSubgroupObject
	}
	if h.HasSubgroup {
		flags |= flagHasSubgroup
	}
	if h.HasExtensions {
		flags |= flagHasExtensions
	}
	return streamTypeBase | uint64(flags), nil
}

// EncodeGroupHeader serializes h as the first bytes of a unidirectional
// object stream.
func EncodeGroupHeader(h GroupHeader) ([]byte, error) {
	streamType, err := h.streamType()
	if err != nil {
		return nil, err
	}
	if h.HasSubgroup && h.SubgroupID != 0 {
		return nil, ErrSubgroupNotZero
	}

	w := wire.NewWriter()
	w.WriteU62(streamType)
	w.WriteU53(h.RequestID)
	w.WriteU53(h.GroupID)
	if h.HasSubgroup {
		w.WriteU8(h.SubgroupID)
	}
	w.WriteU8(h.PublisherPriority)
	return w.Bytes(), nil
}

// DecodeGroupHeader reads a GroupHeader from the start of an object
// stream. PublisherPriority is read but, per spec §4.5, ignored by this
// implementation's scheduling (it is still exposed for callers that want
// it).
func DecodeGroupHeader(r *wire.Reader) (GroupHeader, error) {
	streamType, err := r.ReadU62()
	if err != nil {
		return GroupHeader{}, err
	}
	if streamType < streamTypeBase || streamType > streamTypeBase+0x0f {
		return GroupHeader{}, ErrBadStreamType
	}
	flags := byte(streamType - streamTypeBase)
	h := GroupHeader{
		HasEnd:            flags&flagHasEnd != 0,
		HasSubgroupObject: flags&flagHasSubgroupObject != 0,
		HasSubgroup:       flags&flagHasSubgroup != 0,
		HasExtensions:     flags&flagHasExtensions != 0,
	}
	if h.HasSubgroup && h.HasSubgroupObject {
		return GroupHeader{}, ErrInvalidFlags
	}

	h.RequestID, err = r.ReadU53()
	if err != nil {
		return GroupHeader{}, err
	}
	h.GroupID, err = r.ReadU53()
	if err != nil {
		return GroupHeader{}, err
	}
	if h.HasSubgroup {
		sid, err := r.ReadU8()
		if err != nil {
			return GroupHeader{}, err
		}
		if sid != 0 {
			return GroupHeader{}, ErrSubgroupNotZero
		}
		h.SubgroupID = sid
	}
	h.PublisherPriority, err = r.ReadU8()
	if err != nil {
		return GroupHeader{}, err
	}
	return h, nil
}

// EncodeFrame serializes one non-terminal frame object carrying payload.
// hasExtensions must match the enclosing GroupHeader's HasExtensions.
func EncodeFrame(hasExtensions bool, payload []byte) []byte {
	w := wire.NewWriter()
	w.WriteU53(0) // id_delta: always 0, nonzero deltas are unsupported
	if hasExtensions {
		w.WriteU53(0) // extensions_length: this client carries no extensions
	}
	w.WriteU53(uint64(len(payload)))
	w.WriteBytes(payload)
	return w.Bytes()
}

// EncodeEndMarker serializes the explicit end-of-group object used when
// the enclosing GroupHeader's HasEnd is false (the group end is signaled
// in-band rather than by the stream simply closing).
func EncodeEndMarker(hasExtensions bool) []byte {
	w := wire.NewWriter()
	w.WriteU53(0)
	if hasExtensions {
		w.WriteU53(0)
	}
	w.WriteU53(0) // payload_length = 0
	w.WriteU53(StatusGroupEnd)
	return w.Bytes()
}

// DecodeFrame reads one frame object. It returns isEnd=true when the
// object is an end-of-group marker (no payload, status GROUP_END or, per
// the documented interop quirk, status 0) rather than a data frame.
func DecodeFrame(r *wire.Reader, hasExtensions, hasEnd bool) (payload []byte, isEnd bool, err error) {
	idDelta, err := r.ReadU53()
	if err != nil {
		return nil, false, err
	}
	if idDelta != 0 {
		return nil, false, ErrUnsupportedIDDelta
	}

	if hasExtensions {
		extLen, err := r.ReadU53()
		if err != nil {
			return nil, false, err
		}
		if extLen != 0 {
			return nil, false, ErrUnsupportedExtension
		}
	}

	payloadLen, err := r.ReadU53()
	if err != nil {
		return nil, false, err
	}
	if payloadLen > 0 {
		payload, err = r.ReadFull(int(payloadLen))
		return payload, false, err
	}

	status, err := r.ReadU53()
	if err != nil {
		return nil, false, err
	}
	switch {
	case status == 0 && hasEnd:
		// Empty frame, not an end marker: the group's end is the stream
		// closing, signaled separately.
		return nil, false, nil
	case status == 0 || status == StatusGroupEnd:
		return nil, true, nil
	default:
		return nil, false, ErrUnsupportedObjectStatus
	}
}
