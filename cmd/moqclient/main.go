package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/quic-go/webtransport-go"

	"github.com/zsiec/moqclient/internal/wire"
	"github.com/zsiec/moqclient/session"
	"github.com/zsiec/moqclient/transport"
)

var version = "dev"

func main() {
	level := slog.LevelInfo
	if os.Getenv("DEBUG") != "" {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	url := envOr("MOQ_URL", "https://localhost:4443/moq")
	path := envOr("MOQ_PATH", "/live")
	variant := wire.VariantIETF
	if envOr("MOQ_VARIANT", "ietf") == "lite" {
		variant = wire.VariantLite
	}

	slog.Info("moqclient starting", "version", version, "url", url, "path", path)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("received signal, shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx, url, path, variant); err != nil {
		slog.Error("client error", "error", err)
		os.Exit(1)
	}
}

// run dials the MoQ relay over WebTransport, completes the MoQ session
// handshake, and blocks until the session ends or ctx is cancelled.
func run(ctx context.Context, url, path string, variant wire.Variant) error {
	dialer := webtransport.Dialer{
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: os.Getenv("MOQ_INSECURE") != "",
		},
	}

	_, wtSession, err := dialer.Dial(ctx, url, http.Header{})
	if err != nil {
		return fmt.Errorf("moqclient: dial %s: %w", url, err)
	}

	moq, err := session.Connect(ctx, transport.NewWebTransportSession(wtSession), variant, path, slog.Default())
	if err != nil {
		return fmt.Errorf("moqclient: connect: %w", err)
	}
	slog.Info("session established")

	select {
	case <-moq.Closed():
		return moq.Err()
	case <-ctx.Done():
		moq.Close()
		return nil
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
