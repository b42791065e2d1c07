package h2engine

import "github.com/mistnet/h2engine/http2utils"

// HeadersFrame carries a (possibly fused) header block.
//
// https://tools.ietf.org/html/rfc7540#section-6.2
type HeadersFrame struct {
	StreamID      uint32
	EndStream     bool
	EndHeaders    bool
	HasPriority   bool
	Exclusive     bool
	StreamDep     uint32
	Weight        uint8
	HeaderBlock   []byte
}

func decodeHeadersFrame(h RawFrame) (*HeadersFrame, error) {
	payload := h.Payload

	if h.Flags.Has(FlagPadded) {
		var err error
		payload, err = http2utils.CutPadding(payload, len(payload))
		if err != nil {
			return nil, &ProtocolError{StreamID: h.StreamID, Msg: "HEADERS: " + err.Error()}
		}
	}

	hf := &HeadersFrame{
		StreamID:   h.StreamID,
		EndStream:  h.Flags.Has(FlagEndStream),
		EndHeaders: h.Flags.Has(FlagEndHeaders),
	}

	if h.Flags.Has(FlagPriority) {
		if len(payload) < 5 {
			return nil, &FrameDataMissing{Msg: "HEADERS: truncated priority fields"}
		}
		dep := http2utils.BytesToUint32(payload)
		hf.Exclusive = dep&(1<<31) != 0
		hf.StreamDep = dep & (1<<31 - 1)
		hf.Weight = payload[4]
		hf.HasPriority = true
		payload = payload[5:]
	}

	hf.HeaderBlock = append([]byte(nil), payload...)
	return hf, nil
}

func (hf *HeadersFrame) encode() RawFrame {
	var flags FrameFlags
	if hf.EndStream {
		flags = flags.Add(FlagEndStream)
	}
	if hf.EndHeaders {
		flags = flags.Add(FlagEndHeaders)
	}

	payload := hf.HeaderBlock
	if hf.HasPriority {
		flags = flags.Add(FlagPriority)
		dep := hf.StreamDep
		if hf.Exclusive {
			dep |= 1 << 31
		}
		prefixed := http2utils.AppendUint32Bytes(make([]byte, 0, 5+len(payload)), dep)
		prefixed = append(prefixed, hf.Weight)
		payload = append(prefixed, payload...)
	}

	return RawFrame{Type: FrameHeaders, Flags: flags, StreamID: hf.StreamID, Payload: payload}
}
