package session

import "errors"

var (
	// ErrUnknownTrack is returned by Broadcast.Subscribe when no track
	// of that name has been published locally.
	ErrUnknownTrack = errors.New("session: unknown track")

	// ErrBroadcastNotFound names the condition the Publisher answers
	// with SubscribeError(404, "Broadcast not found"). The Publisher
	// sends that reply directly; no function in this package returns
	// this error.
	ErrBroadcastNotFound = errors.New("session: broadcast not found")

	// ErrNotConsumable is returned by Broadcast.RequestTrack on a
	// broadcast that was not created via Subscriber.Consume.
	ErrNotConsumable = errors.New("session: broadcast does not support track requests")

	// ErrGoAway is returned (and the session torn down) when the peer
	// sends GoAway; redirection is out of scope and treated as fatal.
	ErrGoAway = errors.New("session: peer sent GoAway; redirection is unsupported")

	// ErrSessionClosed names a closed session. No function in this
	// package returns it: calls made after Session.Close fail with the
	// error of the underlying control stream or transport instead.
	ErrSessionClosed = errors.New("session: closed")

	// ErrVersionMismatch is returned by Connect when the server's
	// selected setup version is not one the client advertised, and by
	// Accept when the client's advertised versions do not include
	// draft-14.
	ErrVersionMismatch = errors.New("session: server selected an unadvertised version")
)
