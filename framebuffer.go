package h2engine

import "bytes"

// clientPreface is the fixed 24-byte string every client must send before
// its first SETTINGS frame.
//
// https://tools.ietf.org/html/rfc7540#section-3.5
const clientPreface = "PRI * HTTP/2.0\r\n\r\nSM\r\n\r\n"

// frameBuffer reassembles logical frames out of an append-only byte
// stream: it buffers until a full frame header+payload is available,
// verifies the client preface when acting as a server, and fuses a
// HEADERS/PUSH_PROMISE together with any CONTINUATION frames that follow it
// before END_HEADERS, per RFC 7540 §6.10.
//
// Grounded in the teacher's FrameHeader.readFrom (frameHeader.go), adapted
// to operate on a plain byte slice instead of a bufio.Reader, since the
// engine owns no transport to read from.
type frameBuffer struct {
	buf []byte

	expectPreface   bool
	prefaceConsumed bool

	maxFrameSize           uint32
	maxContinuationBacklog int

	pendingHeader    *RawFrame
	pendingFragments [][]byte
	pendingCount     int
}

func newFrameBuffer(expectPreface bool, maxFrameSize uint32, maxContinuationBacklog int) *frameBuffer {
	return &frameBuffer{
		expectPreface:          expectPreface,
		maxFrameSize:           maxFrameSize,
		maxContinuationBacklog: maxContinuationBacklog,
	}
}

func (fb *frameBuffer) write(p []byte) {
	fb.buf = append(fb.buf, p...)
}

// next returns the next fully-buffered frame. ok is false when more bytes
// are required before a decision can be made; err is non-nil only for a
// connection-fatal framing violation.
func (fb *frameBuffer) next() (frame *RawFrame, ok bool, err error) {
	if fb.expectPreface && !fb.prefaceConsumed {
		if len(fb.buf) < len(clientPreface) {
			return nil, false, nil
		}
		if !bytes.Equal(fb.buf[:len(clientPreface)], []byte(clientPreface)) {
			return nil, false, &ProtocolError{Msg: "invalid client preface"}
		}
		fb.buf = fb.buf[len(clientPreface):]
		fb.prefaceConsumed = true
	}

	for {
		if len(fb.buf) < FrameHeaderSize {
			return nil, false, nil
		}

		wh := parseWireFrameHeader(fb.buf[:FrameHeaderSize])
		if wh.Length > fb.maxFrameSize {
			return nil, false, &FrameTooLarge{Size: wh.Length, Max: fb.maxFrameSize}
		}

		total := FrameHeaderSize + int(wh.Length)
		if len(fb.buf) < total {
			return nil, false, nil
		}

		payload := append([]byte(nil), fb.buf[FrameHeaderSize:total]...)
		fb.buf = fb.buf[total:]

		raw := RawFrame{Type: wh.Type, Flags: wh.Flags, StreamID: wh.StreamID, Payload: payload}

		if fb.pendingHeader != nil {
			if raw.Type != FrameContinuation || raw.StreamID != fb.pendingHeader.StreamID {
				fb.resetContinuationState()
				return nil, false, &ProtocolError{Msg: "expected CONTINUATION frame", StreamID: raw.StreamID}
			}

			fb.pendingCount++
			if fb.pendingCount > fb.maxContinuationBacklog {
				fb.resetContinuationState()
				return nil, false, &DenialOfService{Msg: "CONTINUATION backlog exceeded"}
			}

			fb.pendingFragments = append(fb.pendingFragments, raw.Payload)

			if raw.Flags.Has(FlagEndHeaders) {
				fused := fb.pendingHeader
				for _, frag := range fb.pendingFragments {
					fused.Payload = append(fused.Payload, frag...)
				}
				fused.Flags = fused.Flags.Add(FlagEndHeaders)
				fb.resetContinuationState()
				return fused, true, nil
			}
			continue
		}

		switch raw.Type {
		case FrameHeaders, FramePushPromise:
			if !raw.Flags.Has(FlagEndHeaders) {
				cp := raw
				fb.pendingHeader = &cp
				fb.pendingFragments = nil
				fb.pendingCount = 0
				continue
			}
		case FrameContinuation:
			return nil, false, &ProtocolError{Msg: "unexpected CONTINUATION frame", StreamID: raw.StreamID}
		}

		return &raw, true, nil
	}
}

func (fb *frameBuffer) resetContinuationState() {
	fb.pendingHeader = nil
	fb.pendingFragments = nil
	fb.pendingCount = 0
}
