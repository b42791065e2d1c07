package h2engine

import "github.com/mistnet/h2engine/http2utils"

// RstStreamFrame abruptly terminates a stream.
//
// https://tools.ietf.org/html/rfc7540#section-6.4
type RstStreamFrame struct {
	StreamID uint32
	Code     ErrorCode
}

func decodeRstStreamFrame(h RawFrame) (*RstStreamFrame, error) {
	if len(h.Payload) < 4 {
		return nil, &FrameDataMissing{Msg: "RST_STREAM: payload too short"}
	}
	return &RstStreamFrame{StreamID: h.StreamID, Code: ErrorCode(http2utils.BytesToUint32(h.Payload))}, nil
}

func (r *RstStreamFrame) encode() RawFrame {
	payload := http2utils.AppendUint32Bytes(make([]byte, 0, 4), uint32(r.Code))
	return RawFrame{Type: FrameRstStream, StreamID: r.StreamID, Payload: payload}
}
