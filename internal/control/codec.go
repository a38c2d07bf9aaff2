package control

import "github.com/zsiec/moqclient/internal/wire"

// --- Setup ---

func EncodeClientSetup(cs ClientSetup) []byte {
	w := wire.NewWriter()
	w.WriteU53(uint64(len(cs.Versions)))
	for _, v := range cs.Versions {
		w.WriteU62(v)
	}
	encodeParameters(w, cs.Params)
	return w.Bytes()
}

func DecodeClientSetup(payload []byte) (ClientSetup, error) {
	r := wire.NewBytesReader(payload)
	var cs ClientSetup

	n, err := r.ReadU53()
	if err != nil {
		return cs, &DecodeError{"ClientSetup", "num_versions", err}
	}
	cs.Versions = make([]uint64, n)
	for i := range cs.Versions {
		v, err := r.ReadU62()
		if err != nil {
			return cs, &DecodeError{"ClientSetup", "version", err}
		}
		cs.Versions[i] = v
	}

	cs.Params, err = decodeParameters(r)
	if err != nil {
		return cs, &DecodeError{"ClientSetup", "params", err}
	}
	if err := wire.CheckTrailing(r); err != nil {
		return cs, err
	}
	return cs, nil
}

// Path returns the optional PATH setup parameter, if present.
func (cs ClientSetup) Path() (string, bool) {
	b, ok := cs.Params.Bytes(ParamPath)
	if !ok {
		return "", false
	}
	return string(b), true
}

func EncodeServerSetup(ss ServerSetup) []byte {
	w := wire.NewWriter()
	w.WriteU62(ss.SelectedVersion)
	encodeParameters(w, ss.Params)
	return w.Bytes()
}

func DecodeServerSetup(payload []byte) (ServerSetup, error) {
	r := wire.NewBytesReader(payload)
	var ss ServerSetup
	var err error
	ss.SelectedVersion, err = r.ReadU62()
	if err != nil {
		return ss, &DecodeError{"ServerSetup", "selected_version", err}
	}
	ss.Params, err = decodeParameters(r)
	if err != nil {
		return ss, &DecodeError{"ServerSetup", "params", err}
	}
	if err := wire.CheckTrailing(r); err != nil {
		return ss, err
	}
	return ss, nil
}

// --- Track subscription ---

func EncodeSubscribe(s Subscribe) []byte {
	w := wire.NewWriter()
	w.WriteU53(s.RequestID)
	encodeNamespace(w, s.Namespace)
	w.WriteString(s.TrackName)
	w.WriteU8(s.Priority)
	w.WriteU8(s.GroupOrder)
	w.WriteU8(s.Forward)
	w.WriteU62(s.FilterType)
	switch s.FilterType {
	case FilterAbsoluteStart:
		w.WriteU53(s.StartGroup)
		w.WriteU53(s.StartObj)
	case FilterAbsoluteRange:
		w.WriteU53(s.StartGroup)
		w.WriteU53(s.StartObj)
		w.WriteU53(s.EndGroup)
	}
	encodeParameters(w, s.Params)
	return w.Bytes()
}

func DecodeSubscribe(payload []byte) (Subscribe, error) {
	r := wire.NewBytesReader(payload)
	var s Subscribe
	var err error

	s.RequestID, err = r.ReadU53()
	if err != nil {
		return s, &DecodeError{"Subscribe", "request_id", err}
	}
	s.Namespace, err = decodeNamespace(r)
	if err != nil {
		return s, &DecodeError{"Subscribe", "namespace", err}
	}
	s.TrackName, err = r.ReadString()
	if err != nil {
		return s, &DecodeError{"Subscribe", "track_name", err}
	}
	s.Priority, err = r.ReadU8()
	if err != nil {
		return s, &DecodeError{"Subscribe", "priority", err}
	}
	s.GroupOrder, err = r.ReadU8()
	if err != nil {
		return s, &DecodeError{"Subscribe", "group_order", err}
	}
	if s.GroupOrder != GroupOrderDefault && s.GroupOrder != GroupOrderDescending {
		return s, &DecodeError{"Subscribe", "group_order", ErrBadGroupOrder}
	}
	s.Forward, err = r.ReadU8()
	if err != nil {
		return s, &DecodeError{"Subscribe", "forward", err}
	}
	if s.Forward != 1 {
		return s, &DecodeError{"Subscribe", "forward", ErrBadForward}
	}
	s.FilterType, err = r.ReadU62()
	if err != nil {
		return s, &DecodeError{"Subscribe", "filter_type", err}
	}
	if s.FilterType != FilterNextGroupStart && s.FilterType != FilterLatestObject {
		return s, &DecodeError{"Subscribe", "filter_type", ErrBadFilterType}
	}

	s.Params, err = decodeParameters(r)
	if err != nil {
		return s, &DecodeError{"Subscribe", "params", err}
	}
	if err := wire.CheckTrailing(r); err != nil {
		return s, err
	}
	return s, nil
}

func EncodeSubscribeOk(sok SubscribeOk) []byte {
	w := wire.NewWriter()
	w.WriteU53(sok.RequestID)
	w.WriteU62(sok.TrackAlias)
	w.WriteU62(sok.Expires)
	w.WriteU8(sok.GroupOrder)
	if sok.ContentExists {
		w.WriteU8(1)
		w.WriteU53(sok.LargestGroup)
		w.WriteU53(sok.LargestObj)
	} else {
		w.WriteU8(0)
	}
	w.WriteU53(0) // num_params
	return w.Bytes()
}

func DecodeSubscribeOk(payload []byte) (SubscribeOk, error) {
	r := wire.NewBytesReader(payload)
	var s SubscribeOk
	var err error

	s.RequestID, err = r.ReadU53()
	if err != nil {
		return s, &DecodeError{"SubscribeOk", "request_id", err}
	}
	s.TrackAlias, err = r.ReadU62()
	if err != nil {
		return s, &DecodeError{"SubscribeOk", "track_alias", err}
	}
	if s.TrackAlias != s.RequestID {
		return s, &DecodeError{"SubscribeOk", "track_alias", ErrTrackAliasMismatch}
	}
	s.Expires, err = r.ReadU62()
	if err != nil {
		return s, &DecodeError{"SubscribeOk", "expires", err}
	}
	if s.Expires != 0 {
		return s, &DecodeError{"SubscribeOk", "expires", ErrSubscribeOKExpires}
	}
	s.GroupOrder, err = r.ReadU8()
	if err != nil {
		return s, &DecodeError{"SubscribeOk", "group_order", err}
	}
	contentExists, err := r.ReadU8()
	if err != nil {
		return s, &DecodeError{"SubscribeOk", "content_exists", err}
	}
	s.ContentExists = contentExists != 0
	if s.ContentExists {
		s.LargestGroup, err = r.ReadU53()
		if err != nil {
			return s, &DecodeError{"SubscribeOk", "largest_group", err}
		}
		s.LargestObj, err = r.ReadU53()
		if err != nil {
			return s, &DecodeError{"SubscribeOk", "largest_object", err}
		}
	}
	numParams, err := r.ReadU53()
	if err != nil {
		return s, &DecodeError{"SubscribeOk", "num_params", err}
	}
	for i := uint64(0); i < numParams; i++ {
		if _, err := r.ReadU62(); err != nil {
			return s, &DecodeError{"SubscribeOk", "param_id", err}
		}
		n, err := r.ReadU53()
		if err != nil {
			return s, &DecodeError{"SubscribeOk", "param_len", err}
		}
		if _, err := r.ReadFull(int(n)); err != nil {
			return s, &DecodeError{"SubscribeOk", "param_value", err}
		}
	}
	if err := wire.CheckTrailing(r); err != nil {
		return s, err
	}
	return s, nil
}

func EncodeSubscribeError(se SubscribeError) []byte {
	w := wire.NewWriter()
	w.WriteU53(se.RequestID)
	w.WriteU62(se.ErrorCode)
	w.WriteString(se.ReasonPhrase)
	return w.Bytes()
}

func DecodeSubscribeError(payload []byte) (SubscribeError, error) {
	r := wire.NewBytesReader(payload)
	var se SubscribeError
	var err error
	se.RequestID, err = r.ReadU53()
	if err != nil {
		return se, &DecodeError{"SubscribeError", "request_id", err}
	}
	se.ErrorCode, err = r.ReadU62()
	if err != nil {
		return se, &DecodeError{"SubscribeError", "error_code", err}
	}
	se.ReasonPhrase, err = r.ReadString()
	if err != nil {
		return se, &DecodeError{"SubscribeError", "reason_phrase", err}
	}
	if err := wire.CheckTrailing(r); err != nil {
		return se, err
	}
	return se, nil
}

func EncodeUnsubscribe(u Unsubscribe) []byte {
	w := wire.NewWriter()
	w.WriteU53(u.RequestID)
	return w.Bytes()
}

func DecodeUnsubscribe(payload []byte) (Unsubscribe, error) {
	r := wire.NewBytesReader(payload)
	reqID, err := r.ReadU53()
	if err != nil {
		return Unsubscribe{}, &DecodeError{"Unsubscribe", "request_id", err}
	}
	if err := wire.CheckTrailing(r); err != nil {
		return Unsubscribe{}, err
	}
	return Unsubscribe{RequestID: reqID}, nil
}

func EncodePublishDone(pd PublishDone) []byte {
	w := wire.NewWriter()
	w.WriteU53(pd.RequestID)
	w.WriteU62(pd.StatusCode)
	w.WriteString(pd.ReasonPhrase)
	return w.Bytes()
}

func DecodePublishDone(payload []byte) (PublishDone, error) {
	r := wire.NewBytesReader(payload)
	var pd PublishDone
	var err error
	pd.RequestID, err = r.ReadU53()
	if err != nil {
		return pd, &DecodeError{"PublishDone", "request_id", err}
	}
	pd.StatusCode, err = r.ReadU62()
	if err != nil {
		return pd, &DecodeError{"PublishDone", "status_code", err}
	}
	pd.ReasonPhrase, err = r.ReadString()
	if err != nil {
		return pd, &DecodeError{"PublishDone", "reason_phrase", err}
	}
	if err := wire.CheckTrailing(r); err != nil {
		return pd, err
	}
	return pd, nil
}

// --- Namespace publication ---

func EncodePublishNamespace(pn PublishNamespace) []byte {
	w := wire.NewWriter()
	w.WriteU53(pn.RequestID)
	encodeNamespace(w, pn.Namespace)
	encodeParameters(w, pn.Params)
	return w.Bytes()
}

func DecodePublishNamespace(payload []byte) (PublishNamespace, error) {
	r := wire.NewBytesReader(payload)
	var pn PublishNamespace
	var err error
	pn.RequestID, err = r.ReadU53()
	if err != nil {
		return pn, &DecodeError{"PublishNamespace", "request_id", err}
	}
	pn.Namespace, err = decodeNamespace(r)
	if err != nil {
		return pn, &DecodeError{"PublishNamespace", "namespace", err}
	}
	pn.Params, err = decodeParameters(r)
	if err != nil {
		return pn, &DecodeError{"PublishNamespace", "params", err}
	}
	if err := wire.CheckTrailing(r); err != nil {
		return pn, err
	}
	return pn, nil
}

func EncodePublishNamespaceOk(pno PublishNamespaceOk) []byte {
	w := wire.NewWriter()
	w.WriteU53(pno.RequestID)
	return w.Bytes()
}

func DecodePublishNamespaceOk(payload []byte) (PublishNamespaceOk, error) {
	r := wire.NewBytesReader(payload)
	reqID, err := r.ReadU53()
	if err != nil {
		return PublishNamespaceOk{}, &DecodeError{"PublishNamespaceOk", "request_id", err}
	}
	if err := wire.CheckTrailing(r); err != nil {
		return PublishNamespaceOk{}, err
	}
	return PublishNamespaceOk{RequestID: reqID}, nil
}

func EncodePublishNamespaceError(pne PublishNamespaceError) []byte {
	w := wire.NewWriter()
	w.WriteU53(pne.RequestID)
	w.WriteU62(pne.ErrorCode)
	w.WriteString(pne.ReasonPhrase)
	return w.Bytes()
}

func DecodePublishNamespaceError(payload []byte) (PublishNamespaceError, error) {
	r := wire.NewBytesReader(payload)
	var pne PublishNamespaceError
	var err error
	pne.RequestID, err = r.ReadU53()
	if err != nil {
		return pne, &DecodeError{"PublishNamespaceError", "request_id", err}
	}
	pne.ErrorCode, err = r.ReadU62()
	if err != nil {
		return pne, &DecodeError{"PublishNamespaceError", "error_code", err}
	}
	pne.ReasonPhrase, err = r.ReadString()
	if err != nil {
		return pne, &DecodeError{"PublishNamespaceError", "reason_phrase", err}
	}
	if err := wire.CheckTrailing(r); err != nil {
		return pne, err
	}
	return pne, nil
}

func EncodePublishNamespaceDone(pnd PublishNamespaceDone) []byte {
	w := wire.NewWriter()
	encodeNamespace(w, pnd.Namespace)
	return w.Bytes()
}

func DecodePublishNamespaceDone(payload []byte) (PublishNamespaceDone, error) {
	r := wire.NewBytesReader(payload)
	ns, err := decodeNamespace(r)
	if err != nil {
		return PublishNamespaceDone{}, &DecodeError{"PublishNamespaceDone", "namespace", err}
	}
	if err := wire.CheckTrailing(r); err != nil {
		return PublishNamespaceDone{}, err
	}
	return PublishNamespaceDone{Namespace: ns}, nil
}

func EncodePublishNamespaceCancel(pnc PublishNamespaceCancel) []byte {
	w := wire.NewWriter()
	encodeNamespace(w, pnc.Namespace)
	w.WriteU62(pnc.ErrorCode)
	w.WriteString(pnc.ReasonPhrase)
	return w.Bytes()
}

func DecodePublishNamespaceCancel(payload []byte) (PublishNamespaceCancel, error) {
	r := wire.NewBytesReader(payload)
	var pnc PublishNamespaceCancel
	var err error
	pnc.Namespace, err = decodeNamespace(r)
	if err != nil {
		return pnc, &DecodeError{"PublishNamespaceCancel", "namespace", err}
	}
	pnc.ErrorCode, err = r.ReadU62()
	if err != nil {
		return pnc, &DecodeError{"PublishNamespaceCancel", "error_code", err}
	}
	pnc.ReasonPhrase, err = r.ReadString()
	if err != nil {
		return pnc, &DecodeError{"PublishNamespaceCancel", "reason_phrase", err}
	}
	if err := wire.CheckTrailing(r); err != nil {
		return pnc, err
	}
	return pnc, nil
}

// --- Namespace subscription ---

func EncodeSubscribeNamespace(sn SubscribeNamespace) []byte {
	w := wire.NewWriter()
	w.WriteU53(sn.RequestID)
	encodeNamespace(w, sn.Prefix)
	encodeParameters(w, sn.Params)
	return w.Bytes()
}

func DecodeSubscribeNamespace(payload []byte) (SubscribeNamespace, error) {
	r := wire.NewBytesReader(payload)
	var sn SubscribeNamespace
	var err error
	sn.RequestID, err = r.ReadU53()
	if err != nil {
		return sn, &DecodeError{"SubscribeNamespace", "request_id", err}
	}
	sn.Prefix, err = decodeNamespace(r)
	if err != nil {
		return sn, &DecodeError{"SubscribeNamespace", "prefix", err}
	}
	sn.Params, err = decodeParameters(r)
	if err != nil {
		return sn, &DecodeError{"SubscribeNamespace", "params", err}
	}
	if err := wire.CheckTrailing(r); err != nil {
		return sn, err
	}
	return sn, nil
}

func EncodeSubscribeNamespaceOk(ok SubscribeNamespaceOk) []byte {
	w := wire.NewWriter()
	w.WriteU53(ok.RequestID)
	return w.Bytes()
}

func DecodeSubscribeNamespaceOk(payload []byte) (SubscribeNamespaceOk, error) {
	r := wire.NewBytesReader(payload)
	reqID, err := r.ReadU53()
	if err != nil {
		return SubscribeNamespaceOk{}, &DecodeError{"SubscribeNamespaceOk", "request_id", err}
	}
	if err := wire.CheckTrailing(r); err != nil {
		return SubscribeNamespaceOk{}, err
	}
	return SubscribeNamespaceOk{RequestID: reqID}, nil
}

func EncodeSubscribeNamespaceError(e SubscribeNamespaceError) []byte {
	w := wire.NewWriter()
	w.WriteU53(e.RequestID)
	w.WriteU62(e.ErrorCode)
	w.WriteString(e.ReasonPhrase)
	return w.Bytes()
}

func DecodeSubscribeNamespaceError(payload []byte) (SubscribeNamespaceError, error) {
	r := wire.NewBytesReader(payload)
	var e SubscribeNamespaceError
	var err error
	e.RequestID, err = r.ReadU53()
	if err != nil {
		return e, &DecodeError{"SubscribeNamespaceError", "request_id", err}
	}
	e.ErrorCode, err = r.ReadU62()
	if err != nil {
		return e, &DecodeError{"SubscribeNamespaceError", "error_code", err}
	}
	e.ReasonPhrase, err = r.ReadString()
	if err != nil {
		return e, &DecodeError{"SubscribeNamespaceError", "reason_phrase", err}
	}
	if err := wire.CheckTrailing(r); err != nil {
		return e, err
	}
	return e, nil
}

func EncodeUnsubscribeNamespace(u UnsubscribeNamespace) []byte {
	w := wire.NewWriter()
	w.WriteU53(u.RequestID)
	return w.Bytes()
}

func DecodeUnsubscribeNamespace(payload []byte) (UnsubscribeNamespace, error) {
	r := wire.NewBytesReader(payload)
	reqID, err := r.ReadU53()
	if err != nil {
		return UnsubscribeNamespace{}, &DecodeError{"UnsubscribeNamespace", "request_id", err}
	}
	if err := wire.CheckTrailing(r); err != nil {
		return UnsubscribeNamespace{}, err
	}
	return UnsubscribeNamespace{RequestID: reqID}, nil
}

// --- Track status ---

func EncodeTrackStatusRequest(tsr TrackStatusRequest) []byte {
	w := wire.NewWriter()
	w.WriteU53(tsr.RequestID)
	encodeNamespace(w, tsr.Namespace)
	w.WriteString(tsr.TrackName)
	return w.Bytes()
}

func DecodeTrackStatusRequest(payload []byte) (TrackStatusRequest, error) {
	r := wire.NewBytesReader(payload)
	var tsr TrackStatusRequest
	var err error
	tsr.RequestID, err = r.ReadU53()
	if err != nil {
		return tsr, &DecodeError{"TrackStatusRequest", "request_id", err}
	}
	tsr.Namespace, err = decodeNamespace(r)
	if err != nil {
		return tsr, &DecodeError{"TrackStatusRequest", "namespace", err}
	}
	tsr.TrackName, err = r.ReadString()
	if err != nil {
		return tsr, &DecodeError{"TrackStatusRequest", "track_name", err}
	}
	if err := wire.CheckTrailing(r); err != nil {
		return tsr, err
	}
	return tsr, nil
}

func EncodeTrackStatus(ts TrackStatus) []byte {
	w := wire.NewWriter()
	w.WriteU53(ts.RequestID)
	w.WriteU62(ts.StatusCode)
	w.WriteU53(ts.LargestGroup)
	w.WriteU53(ts.LargestObj)
	return w.Bytes()
}

func DecodeTrackStatus(payload []byte) (TrackStatus, error) {
	r := wire.NewBytesReader(payload)
	var ts TrackStatus
	var err error
	ts.RequestID, err = r.ReadU53()
	if err != nil {
		return ts, &DecodeError{"TrackStatus", "request_id", err}
	}
	ts.StatusCode, err = r.ReadU62()
	if err != nil {
		return ts, &DecodeError{"TrackStatus", "status_code", err}
	}
	ts.LargestGroup, err = r.ReadU53()
	if err != nil {
		return ts, &DecodeError{"TrackStatus", "largest_group", err}
	}
	ts.LargestObj, err = r.ReadU53()
	if err != nil {
		return ts, &DecodeError{"TrackStatus", "largest_object", err}
	}
	if err := wire.CheckTrailing(r); err != nil {
		return ts, err
	}
	return ts, nil
}

// --- Flow control ---

func EncodeMaxRequestID(m MaxRequestIDMsg) []byte {
	w := wire.NewWriter()
	w.WriteU62(m.RequestID)
	return w.Bytes()
}

func DecodeMaxRequestID(payload []byte) (MaxRequestIDMsg, error) {
	r := wire.NewBytesReader(payload)
	v, err := r.ReadU62()
	if err != nil {
		return MaxRequestIDMsg{}, &DecodeError{"MaxRequestID", "request_id", err}
	}
	if err := wire.CheckTrailing(r); err != nil {
		return MaxRequestIDMsg{}, err
	}
	return MaxRequestIDMsg{RequestID: v}, nil
}

func EncodeRequestsBlocked(rb RequestsBlockedMsg) []byte {
	w := wire.NewWriter()
	w.WriteU62(rb.MaximumRequestID)
	return w.Bytes()
}

func DecodeRequestsBlocked(payload []byte) (RequestsBlockedMsg, error) {
	r := wire.NewBytesReader(payload)
	v, err := r.ReadU62()
	if err != nil {
		return RequestsBlockedMsg{}, &DecodeError{"RequestsBlocked", "maximum_request_id", err}
	}
	if err := wire.CheckTrailing(r); err != nil {
		return RequestsBlockedMsg{}, err
	}
	return RequestsBlockedMsg{MaximumRequestID: v}, nil
}

// --- Session ---

func EncodeGoAway(ga GoAway) []byte {
	w := wire.NewWriter()
	w.WriteString(ga.NewSessionURI)
	return w.Bytes()
}

func DecodeGoAway(payload []byte) (GoAway, error) {
	r := wire.NewBytesReader(payload)
	uri, err := r.ReadString()
	if err != nil {
		return GoAway{}, &DecodeError{"GoAway", "new_session_uri", err}
	}
	if err := wire.CheckTrailing(r); err != nil {
		return GoAway{}, err
	}
	return GoAway{NewSessionURI: uri}, nil
}
