package h2engine

// Event is the sum type the engine emits out of ReceiveData: every inbound
// frame that matters to an application surfaces as exactly one of these
// concrete types.
type Event interface {
	isEvent()
}

// RequestReceived fires once a client's request header block (HEADERS plus
// any fused CONTINUATION frames) has fully arrived.
type RequestReceived struct {
	StreamID uint32
	Headers  []HeaderField
	// StreamEnded is non-nil if END_STREAM arrived on the same HEADERS
	// frame (a request with no body).
	StreamEnded *StreamEnded
	Priority    *PriorityUpdated
}

// ResponseReceived fires once a server's non-informational response header
// block has fully arrived.
type ResponseReceived struct {
	StreamID    uint32
	Headers     []HeaderField
	StreamEnded *StreamEnded
}

// InformationalResponseReceived fires for a 1xx response header block.
type InformationalResponseReceived struct {
	StreamID uint32
	Headers  []HeaderField
}

// TrailersReceived fires for a header block arriving after the stream has
// already sent a non-trailer header block, always carrying END_STREAM.
type TrailersReceived struct {
	StreamID uint32
	Headers  []HeaderField
}

// DataReceived carries a chunk of body data and how much of the connection
// and stream receive windows it consumed.
type DataReceived struct {
	StreamID    uint32
	Data        []byte
	FlowControlledLength uint32
	StreamEnded *StreamEnded
}

// WindowUpdated fires on a WINDOW_UPDATE frame. StreamID is 0 for a
// connection-level update.
type WindowUpdated struct {
	StreamID uint32
	Delta    uint32
}

// StreamEnded marks that END_STREAM was received on a stream. ReceiveData
// does not return it as an event of its own: it is carried in the
// StreamEnded field of RequestReceived, ResponseReceived or DataReceived,
// and END_STREAM on a trailer block produces no StreamEnded at all.
type StreamEnded struct {
	StreamID uint32
}

// StreamReset fires on an inbound RST_STREAM.
type StreamReset struct {
	StreamID     uint32
	ErrorCode    ErrorCode
	RemoteReset  bool
}

// PushedStreamReceived fires on an inbound PUSH_PROMISE.
type PushedStreamReceived struct {
	ParentStreamID   uint32
	PushedStreamID   uint32
	Headers          []HeaderField
}

// RemoteSettingsChanged fires after processing an inbound (non-ACK)
// SETTINGS frame, once each changed value has been made current.
type RemoteSettingsChanged struct {
	Changed map[SettingCode]SettingsChange
}

// SettingsAcknowledged fires after an inbound SETTINGS ACK promotes our own
// pending values to current.
type SettingsAcknowledged struct {
	Changed []SettingsChange
}

// PingAckReceived fires on an inbound PING frame carrying the ACK flag.
type PingAckReceived struct {
	Data [8]byte
}

// PingReceived fires on an inbound PING frame without the ACK flag; the
// caller is expected to answer it (the engine queues the ACK automatically,
// this event is purely informational).
type PingReceived struct {
	Data [8]byte
}

// PriorityUpdated fires on an inbound PRIORITY frame. Priority fields on a
// HEADERS frame are not returned as a separate event: they are carried only
// in RequestReceived.Priority, and are dropped for any other header block.
type PriorityUpdated struct {
	StreamID      uint32
	DependsOn     uint32
	Weight        uint8
	Exclusive     bool
}

// ConnectionTerminated fires once a GOAWAY has been received.
type ConnectionTerminated struct {
	LastStreamID uint32
	ErrorCode    ErrorCode
	AdditionalData []byte
}

// UnknownFrameReceived fires for a frame type the engine does not
// recognize; the payload is passed through unexamined.
type UnknownFrameReceived struct {
	StreamID uint32
	Type     FrameType
	Payload  []byte
}

func (*RequestReceived) isEvent()               {}
func (*ResponseReceived) isEvent()              {}
func (*InformationalResponseReceived) isEvent() {}
func (*TrailersReceived) isEvent()              {}
func (*DataReceived) isEvent()                  {}
func (*WindowUpdated) isEvent()                 {}
func (*StreamEnded) isEvent()                   {}
func (*StreamReset) isEvent()                   {}
func (*PushedStreamReceived) isEvent()           {}
func (*RemoteSettingsChanged) isEvent()         {}
func (*SettingsAcknowledged) isEvent()          {}
func (*PingAckReceived) isEvent()               {}
func (*PingReceived) isEvent()                  {}
func (*PriorityUpdated) isEvent()               {}
func (*ConnectionTerminated) isEvent()          {}
func (*UnknownFrameReceived) isEvent()          {}
