package h2engine

import "github.com/mistnet/h2engine/http2utils"

// PushPromiseFrame announces a server-initiated stream.
//
// https://tools.ietf.org/html/rfc7540#section-6.6
type PushPromiseFrame struct {
	StreamID         uint32
	PromisedStreamID uint32
	EndHeaders       bool
	HeaderBlock      []byte
}

func decodePushPromiseFrame(h RawFrame) (*PushPromiseFrame, error) {
	payload := h.Payload

	if h.Flags.Has(FlagPadded) {
		var err error
		payload, err = http2utils.CutPadding(payload, len(payload))
		if err != nil {
			return nil, &ProtocolError{StreamID: h.StreamID, Msg: "PUSH_PROMISE: " + err.Error()}
		}
	}

	if len(payload) < 4 {
		return nil, &FrameDataMissing{Msg: "PUSH_PROMISE: payload too short"}
	}

	return &PushPromiseFrame{
		StreamID:         h.StreamID,
		PromisedStreamID: http2utils.BytesToUint32(payload) & (1<<31 - 1),
		EndHeaders:       h.Flags.Has(FlagEndHeaders),
		HeaderBlock:      append([]byte(nil), payload[4:]...),
	}, nil
}

func (pp *PushPromiseFrame) encode() RawFrame {
	var flags FrameFlags
	if pp.EndHeaders {
		flags = flags.Add(FlagEndHeaders)
	}
	payload := http2utils.AppendUint32Bytes(make([]byte, 0, 4+len(pp.HeaderBlock)), pp.PromisedStreamID)
	payload = append(payload, pp.HeaderBlock...)
	return RawFrame{Type: FramePushPromise, Flags: flags, StreamID: pp.StreamID, Payload: payload}
}
