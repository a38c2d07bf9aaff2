package session

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/zsiec/moqclient/internal/control"
	"github.com/zsiec/moqclient/internal/wire"
	"github.com/zsiec/moqclient/transport"
)

// Accept performs the server side of the ClientSetup/ServerSetup
// handshake over a session's first incoming bidirectional stream, then
// starts the same control and object-stream tasks Connect does. It
// exists so tests (and any peer that plays both client and server
// roles in-process) can drive two Sessions back-to-back over
// transport/memory without a real QUIC listener; production dialing
// always uses Connect.
func Accept(ctx context.Context, sess transport.Session, variant wire.Variant, log *slog.Logger) (*Session, error) {
	if log == nil {
		log = slog.Default()
	}

	stream, err := sess.AcceptStream(ctx)
	if err != nil {
		return nil, fmt.Errorf("session: accept control stream: %w", err)
	}
	mux := control.NewMux(stream, variant)

	env, err := mux.Recv()
	if err != nil {
		return nil, fmt.Errorf("session: recv client_setup: %w", err)
	}
	clientSetup, ok := env.Value.(control.ClientSetup)
	if !ok {
		return nil, fmt.Errorf("session: expected client_setup, got %s", env.Type)
	}

	selected := control.VersionDraft14
	found := false
	for _, v := range clientSetup.Versions {
		if v == selected {
			found = true
			break
		}
	}
	if !found {
		return nil, ErrVersionMismatch
	}

	if err := mux.Send(control.ServerSetup{SelectedVersion: selected}); err != nil {
		return nil, fmt.Errorf("session: send server_setup: %w", err)
	}

	return newSession(sess, stream, mux, variant, log)
}
