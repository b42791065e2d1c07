package h2engine

// ContinuationFrame carries the remainder of a header block that didn't fit
// in its HEADERS/PUSH_PROMISE frame. Inbound, the frame buffer (component B)
// fuses these into their leading frame before the engine ever sees them;
// outbound, queueHeaderBlock emits them itself when a HPACK block is larger
// than the peer's advertised max frame size.
//
// https://tools.ietf.org/html/rfc7540#section-6.10
type ContinuationFrame struct {
	StreamID    uint32
	EndHeaders  bool
	HeaderBlock []byte
}

func decodeContinuationFrame(h RawFrame) (*ContinuationFrame, error) {
	return &ContinuationFrame{
		StreamID:    h.StreamID,
		EndHeaders:  h.Flags.Has(FlagEndHeaders),
		HeaderBlock: append([]byte(nil), h.Payload...),
	}, nil
}

func (cf *ContinuationFrame) encode() RawFrame {
	var flags FrameFlags
	if cf.EndHeaders {
		flags = flags.Add(FlagEndHeaders)
	}
	return RawFrame{Type: FrameContinuation, Flags: flags, StreamID: cf.StreamID, Payload: cf.HeaderBlock}
}
