// Package wire implements the low-level byte-stream primitives shared by
// every MoQ Transport message family: QUIC-style variable-length integers,
// length-delimited strings, and the two framing disciplines ("lite" and
// IETF draft-14) used to bound a message's payload on the wire.
//
// This package contains no knowledge of control message or object stream
// semantics; those live in [github.com/zsiec/moqclient/internal/control]
// and [github.com/zsiec/moqclient/internal/object].
package wire
