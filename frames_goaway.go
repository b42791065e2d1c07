package h2engine

import "github.com/mistnet/h2engine/http2utils"

// GoAwayFrame tells the peer to stop initiating new streams and gives the
// id of the last stream this endpoint will process.
//
// https://tools.ietf.org/html/rfc7540#section-6.8
type GoAwayFrame struct {
	LastStreamID uint32
	Code         ErrorCode
	Debug        []byte
}

func decodeGoAwayFrame(h RawFrame) (*GoAwayFrame, error) {
	if len(h.Payload) < 8 {
		return nil, &FrameDataMissing{Msg: "GOAWAY: payload too short"}
	}
	ga := &GoAwayFrame{
		LastStreamID: http2utils.BytesToUint32(h.Payload) & (1<<31 - 1),
		Code:         ErrorCode(http2utils.BytesToUint32(h.Payload[4:8])),
	}
	if len(h.Payload) > 8 {
		ga.Debug = append([]byte(nil), h.Payload[8:]...)
	}
	return ga, nil
}

func (ga *GoAwayFrame) encode() RawFrame {
	payload := http2utils.AppendUint32Bytes(make([]byte, 0, 8+len(ga.Debug)), ga.LastStreamID)
	payload = http2utils.AppendUint32Bytes(payload, uint32(ga.Code))
	payload = append(payload, ga.Debug...)
	return RawFrame{Type: FrameGoAway, Payload: payload}
}
