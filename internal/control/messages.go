package control

// MsgType identifies a control message's wire type. Values match
// draft-ietf-moq-transport-14 §table, generalizing the subset the teacher
// needed (internal/moq/control.go's MsgSubscribe..MsgServerSetup) to the
// full taxonomy spec §4.3 requires.
type MsgType uint64

const (
	MsgSubscribe      MsgType = 0x03
	MsgSubscribeOk    MsgType = 0x04
	MsgSubscribeError MsgType = 0x05

	MsgPublishNamespace      MsgType = 0x06
	MsgPublishNamespaceOk    MsgType = 0x07
	MsgPublishNamespaceError MsgType = 0x08
	MsgPublishNamespaceDone  MsgType = 0x09

	MsgUnsubscribe MsgType = 0x0a
	MsgPublishDone MsgType = 0x0b

	MsgPublishNamespaceCancel MsgType = 0x0c

	MsgTrackStatusRequest MsgType = 0x0d
	MsgTrackStatus        MsgType = 0x0e

	MsgGoAway MsgType = 0x10

	MsgSubscribeNamespace      MsgType = 0x11
	MsgSubscribeNamespaceOk    MsgType = 0x12
	MsgSubscribeNamespaceError MsgType = 0x13
	MsgUnsubscribeNamespace    MsgType = 0x14

	MsgMaxRequestID MsgType = 0x15

	MsgFetch       MsgType = 0x16
	MsgFetchCancel MsgType = 0x17
	MsgFetchOk     MsgType = 0x18
	MsgFetchError  MsgType = 0x19

	MsgRequestsBlocked MsgType = 0x1a

	MsgPublish      MsgType = 0x1d
	MsgPublishOk    MsgType = 0x1e
	MsgPublishError MsgType = 0x1f

	MsgClientSetup MsgType = 0x20
	MsgServerSetup MsgType = 0x21
)

// String returns a human-readable name for logging, or "unknown" for
// anything this implementation doesn't name.
func (t MsgType) String() string {
	if s, ok := msgTypeNames[t]; ok {
		return s
	}
	return "unknown"
}

var msgTypeNames = map[MsgType]string{
	MsgSubscribe:               "SUBSCRIBE",
	MsgSubscribeOk:             "SUBSCRIBE_OK",
	MsgSubscribeError:          "SUBSCRIBE_ERROR",
	MsgPublishNamespace:        "PUBLISH_NAMESPACE",
	MsgPublishNamespaceOk:      "PUBLISH_NAMESPACE_OK",
	MsgPublishNamespaceError:   "PUBLISH_NAMESPACE_ERROR",
	MsgPublishNamespaceDone:    "PUBLISH_NAMESPACE_DONE",
	MsgUnsubscribe:             "UNSUBSCRIBE",
	MsgPublishDone:             "PUBLISH_DONE",
	MsgPublishNamespaceCancel:  "PUBLISH_NAMESPACE_CANCEL",
	MsgTrackStatusRequest:      "TRACK_STATUS_REQUEST",
	MsgTrackStatus:             "TRACK_STATUS",
	MsgGoAway:                  "GOAWAY",
	MsgSubscribeNamespace:      "SUBSCRIBE_NAMESPACE",
	MsgSubscribeNamespaceOk:    "SUBSCRIBE_NAMESPACE_OK",
	MsgSubscribeNamespaceError: "SUBSCRIBE_NAMESPACE_ERROR",
	MsgUnsubscribeNamespace:    "UNSUBSCRIBE_NAMESPACE",
	MsgMaxRequestID:            "MAX_REQUEST_ID",
	MsgFetch:                   "FETCH",
	MsgFetchCancel:             "FETCH_CANCEL",
	MsgFetchOk:                 "FETCH_OK",
	MsgFetchError:              "FETCH_ERROR",
	MsgRequestsBlocked:         "REQUESTS_BLOCKED",
	MsgPublish:                 "PUBLISH",
	MsgPublishOk:               "PUBLISH_OK",
	MsgPublishError:            "PUBLISH_ERROR",
	MsgClientSetup:             "CLIENT_SETUP",
	MsgServerSetup:             "SERVER_SETUP",
}

// unsupportedTypes names message kinds this client parses only far enough
// to reject: FETCH family, the server-initiated PUBLISH family, and
// GOAWAY (handled specially as fatal rather than via this table). Per
// spec §1 Non-goals and §4.3's "Unsupported" row.
var unsupportedTypes = map[MsgType]bool{
	MsgFetch:        true,
	MsgFetchCancel:  true,
	MsgFetchOk:      true,
	MsgFetchError:   true,
	MsgPublish:      true,
	MsgPublishOk:    true,
	MsgPublishError: true,
}

// IsUnsupported reports whether t is a message kind this client can only
// reject on receipt (a protocol error per spec §7).
func IsUnsupported(t MsgType) bool {
	return unsupportedTypes[t]
}

// Version identifiers (spec §4.3 Setup table).
const (
	VersionDraft07 uint64 = 0xff000007
	VersionDraft14 uint64 = 0xff00000e
)

// DefaultVersion is the version this client advertises by default.
const DefaultVersion = VersionDraft14

// Setup parameter keys.
const (
	ParamPath         uint64 = 0x01
	ParamMaxRequestID uint64 = 0x02
)

// Subscribe filter types.
const (
	FilterNextGroupStart uint64 = 0x01
	FilterLatestObject   uint64 = 0x02
	FilterAbsoluteStart  uint64 = 0x03
	FilterAbsoluteRange  uint64 = 0x04
)

// Group order values.
const (
	GroupOrderDefault    byte = 0x00
	GroupOrderAscending  byte = 0x01
	GroupOrderDescending byte = 0x02
)

// ClientSetup is the first message a client sends after the control
// stream opens.
type ClientSetup struct {
	Versions []uint64
	Params   Parameters
}

// ServerSetup is the peer's response to ClientSetup.
type ServerSetup struct {
	SelectedVersion uint64
	Params          Parameters
}

// Subscribe requests delivery of a track. Namespace is the broadcast path
// as a namespace tuple (one element per path component).
type Subscribe struct {
	RequestID  uint64
	Namespace  []string
	TrackName  string
	Priority   byte
	GroupOrder byte
	Forward    byte
	FilterType uint64
	StartGroup uint64
	StartObj   uint64
	EndGroup   uint64
	Params     Parameters
}

// SubscribeOk confirms a subscription.
type SubscribeOk struct {
	RequestID     uint64
	TrackAlias    uint64
	Expires       uint64
	GroupOrder    byte
	ContentExists bool
	LargestGroup  uint64
	LargestObj    uint64
}

// SubscribeError rejects a subscription.
type SubscribeError struct {
	RequestID    uint64
	ErrorCode    uint64
	ReasonPhrase string
}

// Unsubscribe cancels a subscription the sender previously requested.
type Unsubscribe struct {
	RequestID uint64
}

// PublishDone reports that a publisher-side track has ended, successfully
// or with an error.
type PublishDone struct {
	RequestID    uint64
	StatusCode   uint64
	ReasonPhrase string
}

// PublishNamespace announces a namespace the sender can serve
// subscriptions under.
type PublishNamespace struct {
	RequestID uint64
	Namespace []string
	Params    Parameters
}

// PublishNamespaceOk acknowledges a PublishNamespace.
type PublishNamespaceOk struct {
	RequestID uint64
}

// PublishNamespaceError rejects a PublishNamespace.
type PublishNamespaceError struct {
	RequestID    uint64
	ErrorCode    uint64
	ReasonPhrase string
}

// PublishNamespaceDone retracts a previously announced namespace.
type PublishNamespaceDone struct {
	Namespace []string
}

// PublishNamespaceCancel cancels an in-flight PublishNamespace request.
type PublishNamespaceCancel struct {
	Namespace    []string
	ErrorCode    uint64
	ReasonPhrase string
}

// TrackStatusRequest asks a peer for a track's current status.
type TrackStatusRequest struct {
	RequestID uint64
	Namespace []string
	TrackName string
}

// TrackStatus answers a TrackStatusRequest.
type TrackStatus struct {
	RequestID    uint64
	StatusCode   uint64
	LargestGroup uint64
	LargestObj   uint64
}

// SubscribeNamespace requests announcement notifications for every
// namespace under Prefix.
type SubscribeNamespace struct {
	RequestID uint64
	Prefix    []string
	Params    Parameters
}

// SubscribeNamespaceOk confirms a SubscribeNamespace.
type SubscribeNamespaceOk struct {
	RequestID uint64
}

// SubscribeNamespaceError rejects a SubscribeNamespace.
type SubscribeNamespaceError struct {
	RequestID    uint64
	ErrorCode    uint64
	ReasonPhrase string
}

// UnsubscribeNamespace cancels a previously sent SubscribeNamespace.
type UnsubscribeNamespace struct {
	RequestID uint64
}

// MaxRequestIDMsg advertises the sender's willingness to accept requests
// up to RequestID.
type MaxRequestIDMsg struct {
	RequestID uint64
}

// RequestsBlockedMsg signals the sender was blocked from allocating a new
// request id by the peer's advertised maximum.
type RequestsBlockedMsg struct {
	MaximumRequestID uint64
}

// GoAway signals the peer wants to end (or, in the full protocol,
// redirect) the session. This client treats any GoAway as fatal per spec
// §1 Non-goals.
type GoAway struct {
	NewSessionURI string
}
