package h2engine

import "github.com/mistnet/h2engine/http2utils"

// WindowUpdateFrame grants additional flow-control credit, connection-wide
// (StreamID==0) or for one stream.
//
// https://tools.ietf.org/html/rfc7540#section-6.9
type WindowUpdateFrame struct {
	StreamID  uint32
	Increment uint32
}

func decodeWindowUpdateFrame(h RawFrame) (*WindowUpdateFrame, error) {
	if len(h.Payload) != 4 {
		return nil, &FrameDataMissing{Msg: "WINDOW_UPDATE: payload must be 4 bytes"}
	}
	return &WindowUpdateFrame{
		StreamID:  h.StreamID,
		Increment: http2utils.BytesToUint32(h.Payload) & (1<<31 - 1),
	}, nil
}

func (wu *WindowUpdateFrame) encode() RawFrame {
	payload := http2utils.AppendUint32Bytes(make([]byte, 0, 4), wu.Increment)
	return RawFrame{Type: FrameWindowUpdate, StreamID: wu.StreamID, Payload: payload}
}
