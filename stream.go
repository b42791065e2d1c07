package h2engine

// Stream holds per-stream state: the RFC 7540 §5.1 state machine, the two
// flow-control windows scoped to this stream, and content-length tracking.
//
// Grounded on the teacher's old stream.go (deleted: its five-state
// StreamState enum was too coarse for the transitions SPEC_FULL requires)
// and original_source/h2/stream.py's H2Stream, which keeps exactly this
// set of fields alongside the state machine.
type Stream struct {
	id    uint32
	state StreamState

	// isClient is this connection's role, not the stream's inbound/
	// outbound direction. It is recorded at creation only; Connection
	// decides request/response/trailer from its own Config role.
	isClient bool

	outboundWindow int32
	inboundWindow  int32

	haveExpectedLength    bool
	expectedContentLength uint64
	receivedContentLength uint64

	sentHeaders     bool
	receivedHeaders bool

	// rstReceived/rstSent record which side closed with RST_STREAM. They
	// are set by receiveRstStream/sendRstStream and read nowhere: a late
	// frame on a closed stream is handled the same whichever side reset it.
	rstSent     bool
	rstReceived bool
}

func newStream(id uint32, isClient bool, initialOutbound, initialInbound int32) *Stream {
	return &Stream{
		id:             id,
		state:          StreamIdle,
		isClient:       isClient,
		outboundWindow: initialOutbound,
		inboundWindow:  initialInbound,
	}
}

func (s *Stream) apply(input StreamInput) error {
	next, err := processStreamInput(s.state, input)
	s.state = next
	if err != nil {
		switch e := err.(type) {
		case *StreamClosedError:
			e.StreamID = s.id
		case *ProtocolError:
			e.StreamID = s.id
		}
	}
	return err
}

// sendHeaders validates and applies the local-send half of a HEADERS frame.
func (s *Stream) sendHeaders(endStream, informational bool) error {
	input := InputSendHeaders
	if informational {
		input = InputSendInformationalHeaders
	}
	if err := s.apply(input); err != nil {
		return err
	}
	if !informational {
		s.sentHeaders = true
	}
	if endStream {
		return s.apply(InputSendEndStream)
	}
	return nil
}

// receiveHeaders validates and applies the remote-recv half of a HEADERS
// frame, tracking content-length expectations set by the header block.
func (s *Stream) receiveHeaders(fields []HeaderField, endStream, informational bool) error {
	input := InputRecvHeaders
	if informational {
		input = InputRecvInformationalHeaders
	}
	if err := s.apply(input); err != nil {
		return err
	}
	if !informational {
		s.receivedHeaders = true
	}

	if length, ok, err := contentLength(fields); err != nil {
		return err
	} else if ok {
		s.haveExpectedLength = true
		s.expectedContentLength = length
	}

	if endStream {
		return s.finishInbound()
	}
	return nil
}

func (s *Stream) sendData(n int, endStream bool) error {
	if err := s.apply(InputSendData); err != nil {
		return err
	}
	if err := s.debitOutbound(n); err != nil {
		return err
	}
	if endStream {
		return s.apply(InputSendEndStream)
	}
	return nil
}

func (s *Stream) receiveData(n int, endStream bool) error {
	if err := s.apply(InputRecvData); err != nil {
		return err
	}
	s.receivedContentLength += uint64(n)
	if s.haveExpectedLength && s.receivedContentLength > s.expectedContentLength {
		return &InvalidBodyLength{
			Expected: s.expectedContentLength,
			Actual:   s.receivedContentLength,
			StreamID: s.id,
		}
	}
	if err := s.creditInboundConsumed(n); err != nil {
		return err
	}
	if endStream {
		return s.finishInbound()
	}
	return nil
}

func (s *Stream) finishInbound() error {
	if err := s.apply(InputRecvEndStream); err != nil {
		return err
	}
	if s.haveExpectedLength && s.receivedContentLength != s.expectedContentLength {
		return &InvalidBodyLength{
			Expected: s.expectedContentLength,
			Actual:   s.receivedContentLength,
			StreamID: s.id,
		}
	}
	return nil
}

func (s *Stream) sendRstStream() error {
	s.rstSent = true
	return s.apply(InputSendRstStream)
}

func (s *Stream) receiveRstStream() error {
	s.rstReceived = true
	return s.apply(InputRecvRstStream)
}

// debitOutbound subtracts n bytes from this stream's outbound window,
// refusing to go negative, per RFC 7540 §6.9.1.
func (s *Stream) debitOutbound(n int) error {
	if int64(s.outboundWindow)-int64(n) < 0 {
		return &FlowControlError{Msg: "stream send window exceeded", StreamID: s.id}
	}
	s.outboundWindow -= int32(n)
	return nil
}

// creditInboundConsumed subtracts n bytes from the window we've advertised
// to the peer for this stream; a negative result means the peer sent more
// than our last WINDOW_UPDATE allowed.
func (s *Stream) creditInboundConsumed(n int) error {
	if int64(s.inboundWindow)-int64(n) < 0 {
		return &FlowControlError{Msg: "stream receive window exceeded", StreamID: s.id}
	}
	s.inboundWindow -= int32(n)
	return nil
}

func (s *Stream) increaseOutboundWindow(delta uint32) error {
	next := int64(s.outboundWindow) + int64(delta)
	if next > 1<<31-1 {
		return &FlowControlError{Msg: "stream send window overflow", StreamID: s.id}
	}
	s.outboundWindow = int32(next)
	return nil
}

// adjustOutboundWindow applies a signed delta to the stream's send window,
// per RFC 7540 §6.9.2: a SETTINGS_INITIAL_WINDOW_SIZE change from the peer
// shifts every existing stream's window by (new - old), which may be
// negative. Only growing past the 2^31-1 ceiling is an error; a window
// driven negative by a shrinking SETTINGS value is valid and simply blocks
// further sends until the peer's window updates bring it positive again.
func (s *Stream) adjustOutboundWindow(delta int64) error {
	next := int64(s.outboundWindow) + delta
	if next > 1<<31-1 {
		return &FlowControlError{Msg: "stream send window overflow", StreamID: s.id}
	}
	s.outboundWindow = int32(next)
	return nil
}

func (s *Stream) increaseInboundWindow(delta uint32) {
	s.inboundWindow += int32(delta)
}

func (s *Stream) closed() bool {
	return s.state == StreamClosed
}
