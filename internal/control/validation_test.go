package control

import (
	"errors"
	"testing"

	"github.com/zsiec/moqclient/internal/wire"
)

func TestSubscribeRejectsBadFilterType(t *testing.T) {
	w := wire.NewWriter()
	w.WriteU53(1)           // request_id
	w.WriteU53(0)           // namespace count
	w.WriteString("track")  // track_name
	w.WriteU8(GroupOrderDefault)
	w.WriteU8(1) // forward
	w.WriteU62(0x99)
	w.WriteU53(0) // num_params

	_, err := DecodeSubscribe(w.Bytes())
	var decErr *DecodeError
	if !errors.As(err, &decErr) || !errors.Is(err, ErrBadFilterType) {
		t.Fatalf("expected ErrBadFilterType, got %v", err)
	}
}

func TestSubscribeRejectsBadForward(t *testing.T) {
	w := wire.NewWriter()
	w.WriteU53(1)
	w.WriteU53(0)
	w.WriteString("track")
	w.WriteU8(GroupOrderDefault)
	w.WriteU8(0) // forward must be 1
	w.WriteU62(FilterLatestObject)
	w.WriteU53(0)

	_, err := DecodeSubscribe(w.Bytes())
	if !errors.Is(err, ErrBadForward) {
		t.Fatalf("expected ErrBadForward, got %v", err)
	}
}

func TestSubscribeRejectsBadGroupOrder(t *testing.T) {
	w := wire.NewWriter()
	w.WriteU53(1)
	w.WriteU53(0)
	w.WriteString("track")
	w.WriteU8(0x7f) // not Default/Ascending/Descending... actually only Default/Descending accepted
	w.WriteU8(1)
	w.WriteU62(FilterLatestObject)
	w.WriteU53(0)

	_, err := DecodeSubscribe(w.Bytes())
	if !errors.Is(err, ErrBadGroupOrder) {
		t.Fatalf("expected ErrBadGroupOrder, got %v", err)
	}
}

func TestSubscribeOkRejectsNonZeroExpires(t *testing.T) {
	w := wire.NewWriter()
	w.WriteU53(1)  // request_id
	w.WriteU62(1)  // track_alias == request_id
	w.WriteU62(30) // expires must be 0
	w.WriteU8(GroupOrderDefault)
	w.WriteU8(0) // content_exists
	w.WriteU53(0)

	_, err := DecodeSubscribeOk(w.Bytes())
	if !errors.Is(err, ErrSubscribeOKExpires) {
		t.Fatalf("expected ErrSubscribeOKExpires, got %v", err)
	}
}

func TestSubscribeOkRejectsTrackAliasMismatch(t *testing.T) {
	w := wire.NewWriter()
	w.WriteU53(1) // request_id
	w.WriteU62(2) // track_alias != request_id
	w.WriteU62(0)
	w.WriteU8(GroupOrderDefault)
	w.WriteU8(0)
	w.WriteU53(0)

	_, err := DecodeSubscribeOk(w.Bytes())
	if !errors.Is(err, ErrTrackAliasMismatch) {
		t.Fatalf("expected ErrTrackAliasMismatch, got %v", err)
	}
}

func TestDecodeParametersRejectsDuplicateIDs(t *testing.T) {
	w := wire.NewWriter()
	w.WriteU53(2) // num_params
	w.WriteU62(5)
	w.WriteU53(1)
	w.WriteBytes([]byte{0x01})
	w.WriteU62(5) // duplicate id
	w.WriteU53(1)
	w.WriteBytes([]byte{0x02})

	_, err := decodeParameters(wire.NewBytesReader(w.Bytes()))
	if !errors.Is(err, ErrDuplicateParameter) {
		t.Fatalf("expected ErrDuplicateParameter, got %v", err)
	}
}

func TestDecodeMessageRejectsUnsupportedType(t *testing.T) {
	_, err := decodeMessage(MsgFetch, nil)
	if !errors.Is(err, ErrUnsupportedMessage) {
		t.Fatalf("expected ErrUnsupportedMessage, got %v", err)
	}
}

func TestDecodeMessageRejectsUnknownType(t *testing.T) {
	_, err := decodeMessage(MsgType(0x7fff), nil)
	if !errors.Is(err, ErrUnknownMessageType) {
		t.Fatalf("expected ErrUnknownMessageType, got %v", err)
	}
}

func TestEncodeMessageRejectsUnencodableType(t *testing.T) {
	_, _, err := encodeMessage(struct{}{})
	if err == nil {
		t.Fatal("expected error encoding an unrecognized message type")
	}
}

func TestCheckTrailingRejectsExtraBytes(t *testing.T) {
	u := Unsubscribe{RequestID: 1}
	payload := append(EncodeUnsubscribe(u), 0xff)
	_, err := DecodeUnsubscribe(payload)
	if err == nil {
		t.Fatal("expected error decoding payload with trailing bytes")
	}
}
