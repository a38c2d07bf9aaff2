package control

import (
	"errors"
	"fmt"
)

// Sentinel errors for control-message handling, mirroring the style of
// the teacher's moq.ErrVersionMismatch family so callers can branch with
// errors.Is instead of string matching.
var (
	ErrVersionMismatch     = errors.New("control: no compatible version")
	ErrDuplicateParameter  = errors.New("control: duplicate parameter id")
	ErrUnknownMessageType  = errors.New("control: unknown message type")
	ErrUnsupportedMessage  = errors.New("control: message kind not supported by this implementation")
	ErrBadGroupOrder       = errors.New("control: invalid group_order")
	ErrBadForward          = errors.New("control: forward must be 1")
	ErrBadFilterType       = errors.New("control: unsupported filter_type")
	ErrTrackAliasMismatch  = errors.New("control: track_alias must equal request_id")
	ErrSubscribeOKExpires  = errors.New("control: SubscribeOk.Expires must be 0")
)

// DecodeError reports a failure to parse a specific field of a control
// message payload. It wraps the underlying wire error so errors.Is still
// sees through to e.g. wire.ErrInsufficientData.
type DecodeError struct {
	Message string // message kind being decoded, e.g. "Subscribe"
	Field   string
	Err     error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("control: decode %s.%s: %v", e.Message, e.Field, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
