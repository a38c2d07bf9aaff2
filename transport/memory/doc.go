// Package memory provides an in-process transport.Session pair backed
// by io.Pipe, for session-engine tests that exercise the full control
// and object-stream protocol without a real QUIC socket. It has no
// teacher analogue (the teacher always runs against real quic-go
// connections) and is grounded directly on transport.Session's
// interface contract plus the standard library's io.Pipe, justified in
// DESIGN.md as ambient test tooling no pack dependency covers.
package memory
