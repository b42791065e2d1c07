package h2engine

import "testing"

func rawFrameBytes(typ FrameType, flags FrameFlags, streamID uint32, payload []byte) []byte {
	b := appendWireFrameHeader(nil, wireFrameHeader{
		Length:   uint32(len(payload)),
		Type:     typ,
		Flags:    flags,
		StreamID: streamID,
	})
	return append(b, payload...)
}

func TestFrameBufferSingleFrame(t *testing.T) {
	fb := newFrameBuffer(false, 16384, 64)
	fb.write(rawFrameBytes(FramePing, 0, 0, make([]byte, 8)))

	frame, ok, err := fb.next()
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected a frame to be ready")
	}
	if frame.Type != FramePing {
		t.Fatalf("got frame type %s, want PING", frame.Type)
	}
}

func TestFrameBufferIncompleteFrame(t *testing.T) {
	fb := newFrameBuffer(false, 16384, 64)
	full := rawFrameBytes(FramePing, 0, 0, make([]byte, 8))
	fb.write(full[:5])

	_, ok, err := fb.next()
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("expected no frame to be ready yet")
	}
}

func TestFrameBufferRequiresPreface(t *testing.T) {
	fb := newFrameBuffer(true, 16384, 64)
	fb.write(rawFrameBytes(FrameSettings, 0, 0, nil))

	_, ok, err := fb.next()
	if ok || err != nil {
		t.Fatalf("expected to wait for more data (the preface), got ok=%v err=%v", ok, err)
	}

	fb.write([]byte(clientPreface))
	frame, ok, err := fb.next()
	if err != nil {
		t.Fatal(err)
	}
	if !ok || frame.Type != FrameSettings {
		t.Fatalf("expected SETTINGS after preface, got ok=%v frame=%+v", ok, frame)
	}
}

func TestFrameBufferRejectsBadPreface(t *testing.T) {
	fb := newFrameBuffer(true, 16384, 64)
	fb.write([]byte("GET / HTTP/1.1\r\n\r\n"))

	_, _, err := fb.next()
	if err == nil {
		t.Fatal("expected a protocol error for a non-HTTP/2 preface")
	}
}

func TestFrameBufferFusesContinuation(t *testing.T) {
	fb := newFrameBuffer(false, 16384, 64)

	fb.write(rawFrameBytes(FrameHeaders, 0, 1, []byte("part1")))
	fb.write(rawFrameBytes(FrameContinuation, 0, 1, []byte("part2")))
	fb.write(rawFrameBytes(FrameContinuation, FlagEndHeaders, 1, []byte("part3")))

	frame, ok, err := fb.next()
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("expected the fused frame to be ready")
	}
	if string(frame.Payload) != "part1part2part3" {
		t.Fatalf("got %q, want part1part2part3", frame.Payload)
	}
	if !frame.Flags.Has(FlagEndHeaders) {
		t.Fatal("fused frame must carry END_HEADERS")
	}
}

func TestFrameBufferRejectsNakedContinuation(t *testing.T) {
	fb := newFrameBuffer(false, 16384, 64)
	fb.write(rawFrameBytes(FrameContinuation, FlagEndHeaders, 1, []byte("oops")))

	_, _, err := fb.next()
	if err == nil {
		t.Fatal("expected a protocol error for a naked CONTINUATION")
	}
}

func TestFrameBufferRejectsMismatchedContinuation(t *testing.T) {
	fb := newFrameBuffer(false, 16384, 64)
	fb.write(rawFrameBytes(FrameHeaders, 0, 1, []byte("part1")))
	fb.write(rawFrameBytes(FrameContinuation, FlagEndHeaders, 2, []byte("part2")))

	_, _, err := fb.next()
	if err == nil {
		t.Fatal("expected a protocol error for a CONTINUATION on the wrong stream")
	}
}

func TestFrameBufferEnforcesContinuationBacklog(t *testing.T) {
	fb := newFrameBuffer(false, 16384, 2)
	fb.write(rawFrameBytes(FrameHeaders, 0, 1, []byte("a")))
	fb.write(rawFrameBytes(FrameContinuation, 0, 1, []byte("b")))
	fb.write(rawFrameBytes(FrameContinuation, 0, 1, []byte("c")))
	fb.write(rawFrameBytes(FrameContinuation, FlagEndHeaders, 1, []byte("d")))

	_, _, err := fb.next()
	if _, ok := err.(*DenialOfService); !ok {
		t.Fatalf("expected DenialOfService, got %v", err)
	}
}

func TestFrameBufferEnforcesMaxFrameSize(t *testing.T) {
	fb := newFrameBuffer(false, 16, 64)
	fb.write(rawFrameBytes(FrameData, 0, 1, make([]byte, 32)))

	_, _, err := fb.next()
	if _, ok := err.(*FrameTooLarge); !ok {
		t.Fatalf("expected FrameTooLarge, got %v", err)
	}
}
