// Package object implements the MoQ object-stream wire format: the group
// header that begins every unidirectional object stream and the frame
// objects that follow it, per spec §4.5.
//
// This generalizes the subgroup-header-plus-object framing the teacher
// hand-rolls for the publish-only direction in distribution/moq_writer.go
// and distribution/moq_catalog.go into a typed, bidirectional (encode and
// decode) codec, dropping the teacher's LOC media extensions (out of
// scope for this client) while keeping the exact varint field order and
// flag-nibble encoding.
package object
