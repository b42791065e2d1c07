package h2engine

// PingFrame round-trips an 8-byte opaque payload.
//
// https://tools.ietf.org/html/rfc7540#section-6.7
type PingFrame struct {
	Ack  bool
	Data [8]byte
}

func decodePingFrame(h RawFrame) (*PingFrame, error) {
	if len(h.Payload) != 8 {
		return nil, &FrameDataMissing{Msg: "PING: payload must be 8 bytes"}
	}
	p := &PingFrame{Ack: h.Flags.Has(FlagAck)}
	copy(p.Data[:], h.Payload)
	return p, nil
}

func (p *PingFrame) encode() RawFrame {
	var flags FrameFlags
	if p.Ack {
		flags = flags.Add(FlagAck)
	}
	return RawFrame{Type: FramePing, Flags: flags, Payload: append([]byte(nil), p.Data[:]...)}
}
