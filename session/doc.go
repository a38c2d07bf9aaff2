// Package session implements the MoQ client session engine: a
// Publisher and a Subscriber sharing one control-stream multiplexer
// and the peer's unidirectional object streams, per spec.md §4.4. It
// generalizes MoQSession (internal/distribution/moq_session.go), which
// only ever serves the producer/viewer half of one connection, into a
// single engine that plays both roles over one session, the way a
// client that both publishes and consumes broadcasts must.
package session
