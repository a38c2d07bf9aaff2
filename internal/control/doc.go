// Package control implements the typed control-message family for MoQ
// Transport: the message taxonomy, their wire encode/decode, the
// parameter map shared by several message kinds, and the control-stream
// multiplexer that serializes reads and writes on the single bidirectional
// stream a session holds.
//
// Message field layouts are identical across the "lite" and "ietf" wire
// variants; only the outer framing (length-prefix width) differs, which is
// handled by [github.com/zsiec/moqclient/internal/wire].
package control
