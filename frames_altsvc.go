package h2engine

// AltSvcFrame is received-only and passed through as an opaque blob; this
// engine implements no client-side Alt-Svc behavior.
//
// https://tools.ietf.org/html/rfc7838#section-4
type AltSvcFrame struct {
	StreamID uint32
	Raw      []byte
}

func decodeAltSvcFrame(h RawFrame) (*AltSvcFrame, error) {
	return &AltSvcFrame{StreamID: h.StreamID, Raw: append([]byte(nil), h.Payload...)}, nil
}
