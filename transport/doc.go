// Package transport defines the stream primitives the session engine
// consumes from a pre-established WebTransport/QUIC session, and an
// adapter over github.com/quic-go/webtransport-go's *webtransport.Session
// that satisfies them.
//
// The session engine never depends on quic-go or webtransport-go
// directly; it only imports this package's interfaces, matching
// spec.md's framing of the transport as an external collaborator whose
// establishment is out of scope. Dialing the real connection lives in
// cmd/moqclient; it and this package's adapter (webtransport.go) are
// the only places that import webtransport-go.
package transport
