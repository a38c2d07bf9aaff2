package object

import "errors"

var (
	// ErrInvalidFlags is returned constructing or decoding a GroupHeader
	// with both HasSubgroup and HasSubgroupObject set (spec §4.5
	// constructor precondition).
	ErrInvalidFlags = errors.New("object: hasSubgroup and hasSubgroupObject are mutually exclusive")

	// ErrBadStreamType is returned when a decoded stream type varint
	// falls outside [0x10, 0x1f].
	ErrBadStreamType = errors.New("object: stream type outside [0x10,0x1f]")

	// ErrSubgroupNotZero is returned when an explicit subgroup id is
	// present but nonzero; this implementation only ever carries layer 0.
	ErrSubgroupNotZero = errors.New("object: subgroup id must be 0")

	// ErrUnsupportedIDDelta is returned for a nonzero id_delta, which
	// this implementation does not support (spec §4.5).
	ErrUnsupportedIDDelta = errors.New("object: nonzero id_delta unsupported")

	// ErrUnsupportedExtension is returned for a nonzero extensions_length
	// when hasExtensions is set; this client carries no object
	// extensions.
	ErrUnsupportedExtension = errors.New("object: nonzero extensions_length unsupported")

	// ErrUnsupportedObjectStatus is returned for any object status other
	// than 0 or GROUP_END (0x03).
	ErrUnsupportedObjectStatus = errors.New("object: unsupported object status")
)
