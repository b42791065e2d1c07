package h2engine

import "github.com/mistnet/h2engine/http2utils"

// PriorityFrame advertises a stream's priority. The engine only surfaces it
// as an event; it does not reorder outbound frames by priority.
//
// https://tools.ietf.org/html/rfc7540#section-6.3
type PriorityFrame struct {
	StreamID  uint32
	Exclusive bool
	StreamDep uint32
	Weight    uint8
}

func decodePriorityFrame(h RawFrame) (*PriorityFrame, error) {
	if len(h.Payload) < 5 {
		return nil, &FrameDataMissing{Msg: "PRIORITY: payload too short"}
	}
	dep := http2utils.BytesToUint32(h.Payload)
	return &PriorityFrame{
		StreamID:  h.StreamID,
		Exclusive: dep&(1<<31) != 0,
		StreamDep: dep & (1<<31 - 1),
		Weight:    h.Payload[4],
	}, nil
}

func (p *PriorityFrame) encode() RawFrame {
	dep := p.StreamDep
	if p.Exclusive {
		dep |= 1 << 31
	}
	payload := http2utils.AppendUint32Bytes(make([]byte, 0, 5), dep)
	payload = append(payload, p.Weight)
	return RawFrame{Type: FramePriority, StreamID: p.StreamID, Payload: payload}
}
