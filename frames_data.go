package h2engine

import "github.com/mistnet/h2engine/http2utils"

// DataFrame carries stream body bytes.
//
// https://tools.ietf.org/html/rfc7540#section-6.1
type DataFrame struct {
	StreamID  uint32
	EndStream bool
	Data      []byte
	// PaddedLen is the total flow-controlled length including the padding
	// byte and padding itself (just len(Data) if the frame was not PADDED). Flow
	// control accounts for this, not just len(Data).
	PaddedLen uint32
}

func decodeDataFrame(h RawFrame) (*DataFrame, error) {
	payload := h.Payload
	paddedLen := uint32(len(payload))

	if h.Flags.Has(FlagPadded) {
		var err error
		payload, err = http2utils.CutPadding(payload, len(payload))
		if err != nil {
			return nil, &ProtocolError{StreamID: h.StreamID, Msg: "DATA: " + err.Error()}
		}
	}

	return &DataFrame{
		StreamID:  h.StreamID,
		EndStream: h.Flags.Has(FlagEndStream),
		Data:      payload,
		PaddedLen: paddedLen,
	}, nil
}

func (d *DataFrame) encode() RawFrame {
	var flags FrameFlags
	if d.EndStream {
		flags = flags.Add(FlagEndStream)
	}
	return RawFrame{Type: FrameData, Flags: flags, StreamID: d.StreamID, Payload: d.Data}
}
