package control

import (
	"reflect"
	"testing"
)

func TestClientSetupRoundTrip(t *testing.T) {
	params := Parameters{}
	params.SetBytes(ParamPath, []byte("/live"))
	cs := ClientSetup{Versions: []uint64{VersionDraft07, VersionDraft14}, Params: params}

	got, err := DecodeClientSetup(EncodeClientSetup(cs))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(got.Versions, cs.Versions) {
		t.Fatalf("versions mismatch: got %v want %v", got.Versions, cs.Versions)
	}
	path, ok := got.Path()
	if !ok || path != "/live" {
		t.Fatalf("path mismatch: got %q ok=%v", path, ok)
	}
}

func TestServerSetupRoundTrip(t *testing.T) {
	ss := ServerSetup{SelectedVersion: VersionDraft14, Params: Parameters{}}
	got, err := DecodeServerSetup(EncodeServerSetup(ss))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.SelectedVersion != ss.SelectedVersion {
		t.Fatalf("selected_version mismatch: got %d want %d", got.SelectedVersion, ss.SelectedVersion)
	}
}

func TestSubscribeRoundTrip(t *testing.T) {
	s := Subscribe{
		RequestID:  7,
		Namespace:  []string{"live", "camera1"},
		TrackName:  "video",
		Priority:   128,
		GroupOrder: GroupOrderDescending,
		Forward:    1,
		FilterType: FilterLatestObject,
		Params:     Parameters{},
	}
	got, err := DecodeSubscribe(EncodeSubscribe(s))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(got.Namespace, s.Namespace) || got.TrackName != s.TrackName ||
		got.RequestID != s.RequestID || got.Priority != s.Priority ||
		got.GroupOrder != s.GroupOrder || got.Forward != s.Forward || got.FilterType != s.FilterType {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, s)
	}
}

func TestSubscribeAbsoluteStartRejectedOnDecode(t *testing.T) {
	s := Subscribe{
		RequestID:  1,
		Namespace:  []string{"a"},
		TrackName:  "t",
		GroupOrder: GroupOrderDefault,
		Forward:    1,
		FilterType: FilterAbsoluteStart,
		StartGroup: 3,
		StartObj:   4,
		Params:     Parameters{},
	}
	// FilterAbsoluteStart is not in the accepted decode set (only
	// NextGroupStart/LatestObject), so round-tripping through decode
	// must reject it per spec's filter_type validation.
	_, err := DecodeSubscribe(EncodeSubscribe(s))
	if err == nil {
		t.Fatal("expected rejection of FilterAbsoluteStart, got nil")
	}
}

func TestSubscribeOkRoundTrip(t *testing.T) {
	sok := SubscribeOk{RequestID: 9, TrackAlias: 9, GroupOrder: GroupOrderAscending, ContentExists: true, LargestGroup: 2, LargestObj: 1}
	got, err := DecodeSubscribeOk(EncodeSubscribeOk(sok))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != sok {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, sok)
	}
}

func TestSubscribeOkNoContentRoundTrip(t *testing.T) {
	sok := SubscribeOk{RequestID: 3, TrackAlias: 3, GroupOrder: GroupOrderDefault}
	got, err := DecodeSubscribeOk(EncodeSubscribeOk(sok))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != sok {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, sok)
	}
}

func TestSubscribeErrorRoundTrip(t *testing.T) {
	se := SubscribeError{RequestID: 2, ErrorCode: 404, ReasonPhrase: "Broadcast not found"}
	got, err := DecodeSubscribeError(EncodeSubscribeError(se))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != se {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, se)
	}
}

func TestUnsubscribeRoundTrip(t *testing.T) {
	u := Unsubscribe{RequestID: 11}
	got, err := DecodeUnsubscribe(EncodeUnsubscribe(u))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != u {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, u)
	}
}

func TestPublishDoneRoundTrip(t *testing.T) {
	pd := PublishDone{RequestID: 1, StatusCode: 200, ReasonPhrase: "OK"}
	got, err := DecodePublishDone(EncodePublishDone(pd))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != pd {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, pd)
	}
}

func TestPublishNamespaceRoundTrip(t *testing.T) {
	pn := PublishNamespace{RequestID: 4, Namespace: []string{"live", "camera1"}, Params: Parameters{}}
	got, err := DecodePublishNamespace(EncodePublishNamespace(pn))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.RequestID != pn.RequestID || !reflect.DeepEqual(got.Namespace, pn.Namespace) {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, pn)
	}
}

func TestPublishNamespaceOkRoundTrip(t *testing.T) {
	pno := PublishNamespaceOk{RequestID: 4}
	got, err := DecodePublishNamespaceOk(EncodePublishNamespaceOk(pno))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != pno {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, pno)
	}
}

func TestPublishNamespaceErrorRoundTrip(t *testing.T) {
	pne := PublishNamespaceError{RequestID: 4, ErrorCode: 403, ReasonPhrase: "forbidden"}
	got, err := DecodePublishNamespaceError(EncodePublishNamespaceError(pne))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != pne {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, pne)
	}
}

func TestPublishNamespaceDoneRoundTrip(t *testing.T) {
	pnd := PublishNamespaceDone{Namespace: []string{"live", "camera1"}}
	got, err := DecodePublishNamespaceDone(EncodePublishNamespaceDone(pnd))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(got.Namespace, pnd.Namespace) {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, pnd)
	}
}

func TestPublishNamespaceCancelRoundTrip(t *testing.T) {
	pnc := PublishNamespaceCancel{Namespace: []string{"live"}, ErrorCode: 1, ReasonPhrase: "cancelled"}
	got, err := DecodePublishNamespaceCancel(EncodePublishNamespaceCancel(pnc))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ErrorCode != pnc.ErrorCode || got.ReasonPhrase != pnc.ReasonPhrase || !reflect.DeepEqual(got.Namespace, pnc.Namespace) {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, pnc)
	}
}

func TestTrackStatusRequestRoundTrip(t *testing.T) {
	tsr := TrackStatusRequest{RequestID: 8, Namespace: []string{"live"}, TrackName: "video"}
	got, err := DecodeTrackStatusRequest(EncodeTrackStatusRequest(tsr))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.RequestID != tsr.RequestID || got.TrackName != tsr.TrackName || !reflect.DeepEqual(got.Namespace, tsr.Namespace) {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, tsr)
	}
}

func TestTrackStatusRoundTrip(t *testing.T) {
	ts := TrackStatus{RequestID: 8, StatusCode: 200, LargestGroup: 5, LargestObj: 2}
	got, err := DecodeTrackStatus(EncodeTrackStatus(ts))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != ts {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, ts)
	}
}

func TestSubscribeNamespaceRoundTrip(t *testing.T) {
	sn := SubscribeNamespace{RequestID: 6, Prefix: []string{"live"}, Params: Parameters{}}
	got, err := DecodeSubscribeNamespace(EncodeSubscribeNamespace(sn))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.RequestID != sn.RequestID || !reflect.DeepEqual(got.Prefix, sn.Prefix) {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, sn)
	}
}

func TestSubscribeNamespaceOkRoundTrip(t *testing.T) {
	ok := SubscribeNamespaceOk{RequestID: 6}
	got, err := DecodeSubscribeNamespaceOk(EncodeSubscribeNamespaceOk(ok))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != ok {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, ok)
	}
}

func TestSubscribeNamespaceErrorRoundTrip(t *testing.T) {
	e := SubscribeNamespaceError{RequestID: 6, ErrorCode: 1, ReasonPhrase: "nope"}
	got, err := DecodeSubscribeNamespaceError(EncodeSubscribeNamespaceError(e))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != e {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, e)
	}
}

func TestUnsubscribeNamespaceRoundTrip(t *testing.T) {
	u := UnsubscribeNamespace{RequestID: 6}
	got, err := DecodeUnsubscribeNamespace(EncodeUnsubscribeNamespace(u))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != u {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, u)
	}
}

func TestMaxRequestIDRoundTrip(t *testing.T) {
	m := MaxRequestIDMsg{RequestID: 1<<31 - 1}
	got, err := DecodeMaxRequestID(EncodeMaxRequestID(m))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != m {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, m)
	}
}

func TestRequestsBlockedRoundTrip(t *testing.T) {
	rb := RequestsBlockedMsg{MaximumRequestID: 42}
	got, err := DecodeRequestsBlocked(EncodeRequestsBlocked(rb))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != rb {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, rb)
	}
}

func TestGoAwayRoundTrip(t *testing.T) {
	ga := GoAway{NewSessionURI: "https://example.com/new"}
	got, err := DecodeGoAway(EncodeGoAway(ga))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != ga {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, ga)
	}
}
