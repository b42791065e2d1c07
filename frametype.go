package h2engine

import "fmt"

// FrameType identifies the kind of an HTTP/2 frame.
//
// https://tools.ietf.org/html/rfc7540#section-11.2
type FrameType uint8

const (
	FrameData         FrameType = 0x0
	FrameHeaders      FrameType = 0x1
	FramePriority     FrameType = 0x2
	FrameRstStream    FrameType = 0x3
	FrameSettings     FrameType = 0x4
	FramePushPromise  FrameType = 0x5
	FramePing         FrameType = 0x6
	FrameGoAway       FrameType = 0x7
	FrameWindowUpdate FrameType = 0x8
	FrameContinuation FrameType = 0x9
	// FrameAltSvc is received-only, pass-through per RFC 7838.
	FrameAltSvc FrameType = 0xa
)

var frameTypeNames = [...]string{
	"DATA", "HEADERS", "PRIORITY", "RST_STREAM", "SETTINGS",
	"PUSH_PROMISE", "PING", "GOAWAY", "WINDOW_UPDATE", "CONTINUATION", "ALTSVC",
}

func (t FrameType) String() string {
	if int(t) < len(frameTypeNames) {
		return frameTypeNames[t]
	}
	return fmt.Sprintf("UNKNOWN_FRAME(0x%x)", uint8(t))
}

// FrameFlags is the bitset carried in byte 5 of a frame header. The same
// bit means different things for different frame types (Has/Add are thin
// wrappers, same idiom as the teacher's FrameFlags).
type FrameFlags uint8

const (
	FlagAck        FrameFlags = 0x1
	FlagEndStream  FrameFlags = 0x1
	FlagEndHeaders FrameFlags = 0x4
	FlagPadded     FrameFlags = 0x8
	FlagPriority   FrameFlags = 0x20
)

func (f FrameFlags) Has(flag FrameFlags) bool   { return f&flag == flag }
func (f FrameFlags) Add(flag FrameFlags) FrameFlags { return f | flag }

// FrameHeaderSize is the fixed 9-byte size of every frame header.
//
// https://tools.ietf.org/html/rfc7540#section-4.1
const FrameHeaderSize = 9

// wireFrameHeader is the parsed form of the 9-byte frame header.
type wireFrameHeader struct {
	Length   uint32 // 24 bits
	Type     FrameType
	Flags    FrameFlags
	StreamID uint32 // 31 bits, reserved bit masked off
}

func parseWireFrameHeader(b []byte) wireFrameHeader {
	_ = b[8]
	return wireFrameHeader{
		Length:   uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2]),
		Type:     FrameType(b[3]),
		Flags:    FrameFlags(b[4]),
		StreamID: (uint32(b[5])<<24 | uint32(b[6])<<16 | uint32(b[7])<<8 | uint32(b[8])) & (1<<31 - 1),
	}
}

func appendWireFrameHeader(dst []byte, h wireFrameHeader) []byte {
	dst = append(dst,
		byte(h.Length>>16), byte(h.Length>>8), byte(h.Length),
		byte(h.Type),
		byte(h.Flags),
		byte(h.StreamID>>24), byte(h.StreamID>>16), byte(h.StreamID>>8), byte(h.StreamID),
	)
	return dst
}

// RawFrame is a fully-buffered, type-dispatched frame as produced by the
// frame buffer (component B): header metadata plus the raw payload bytes,
// with CONTINUATION fusion already applied for HEADERS/PUSH_PROMISE.
type RawFrame struct {
	Type     FrameType
	Flags    FrameFlags
	StreamID uint32
	Payload  []byte
}
