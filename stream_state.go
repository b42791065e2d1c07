package h2engine

// StreamState is one of the seven stream states of RFC 7540 §5.1.
type StreamState uint8

const (
	StreamIdle StreamState = iota
	StreamReservedLocal
	StreamReservedRemote
	StreamOpen
	StreamHalfClosedLocal
	StreamHalfClosedRemote
	StreamClosed
)

func (s StreamState) String() string {
	switch s {
	case StreamIdle:
		return "idle"
	case StreamReservedLocal:
		return "reserved (local)"
	case StreamReservedRemote:
		return "reserved (remote)"
	case StreamOpen:
		return "open"
	case StreamHalfClosedLocal:
		return "half-closed (local)"
	case StreamHalfClosedRemote:
		return "half-closed (remote)"
	case StreamClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// StreamInput is one event applied to the stream state machine: either
// something this side is about to send, or something just received from
// the peer.
type StreamInput uint8

const (
	InputSendHeaders StreamInput = iota
	InputSendPushPromise
	InputSendRstStream
	InputSendData
	InputSendWindowUpdate
	InputSendEndStream
	InputSendInformationalHeaders
	InputRecvHeaders
	InputRecvPushPromise
	InputRecvRstStream
	InputRecvData
	InputRecvWindowUpdate
	InputRecvEndStream
	InputRecvInformationalHeaders
	InputRecvAltSvc
)

// processStreamInput is the stream state transition function, an exhaustive
// switch grounded on original_source/h2/stream.py's H2StreamStateMachine /
// _transitions table and the RFC 7540 §5.1 state diagram. Any combination
// the table doesn't recognize falls to the default case, which reports a
// protocol error instead of silently doing nothing - a total function over
// (state, input) is what RFC 7540 §5.1 actually demands, since an
// unexpected frame on a stream is itself the protocol violation.
func processStreamInput(state StreamState, input StreamInput) (StreamState, error) {
	switch state {
	case StreamIdle:
		switch input {
		case InputSendHeaders, InputRecvHeaders:
			return StreamOpen, nil
		case InputSendPushPromise:
			return StreamReservedLocal, nil
		case InputRecvPushPromise:
			return StreamReservedRemote, nil
		}

	case StreamReservedLocal:
		switch input {
		case InputSendHeaders, InputSendInformationalHeaders:
			return StreamHalfClosedRemote, nil
		case InputSendRstStream, InputRecvRstStream:
			return StreamClosed, nil
		case InputSendWindowUpdate, InputRecvWindowUpdate:
			return StreamReservedLocal, nil
		}

	case StreamReservedRemote:
		switch input {
		case InputRecvHeaders, InputRecvInformationalHeaders:
			return StreamHalfClosedLocal, nil
		case InputSendRstStream, InputRecvRstStream:
			return StreamClosed, nil
		case InputSendWindowUpdate, InputRecvWindowUpdate:
			return StreamReservedRemote, nil
		}

	case StreamOpen:
		switch input {
		case InputSendEndStream:
			return StreamHalfClosedLocal, nil
		case InputRecvEndStream:
			return StreamHalfClosedRemote, nil
		case InputSendRstStream, InputRecvRstStream:
			return StreamClosed, nil
		case InputSendHeaders, InputRecvHeaders,
			InputSendData, InputRecvData,
			InputSendWindowUpdate, InputRecvWindowUpdate,
			InputSendInformationalHeaders, InputRecvInformationalHeaders,
			InputRecvAltSvc, InputSendPushPromise:
			return StreamOpen, nil
		}

	case StreamHalfClosedLocal:
		switch input {
		case InputRecvEndStream:
			return StreamClosed, nil
		case InputSendRstStream, InputRecvRstStream:
			return StreamClosed, nil
		case InputRecvHeaders, InputRecvData,
			InputSendWindowUpdate, InputRecvWindowUpdate,
			InputRecvInformationalHeaders, InputRecvAltSvc:
			return StreamHalfClosedLocal, nil
		case InputSendHeaders, InputSendData, InputSendPushPromise:
			return StreamClosed, &StreamClosedError{}
		}

	case StreamHalfClosedRemote:
		switch input {
		case InputSendEndStream:
			return StreamClosed, nil
		case InputSendRstStream, InputRecvRstStream:
			return StreamClosed, nil
		case InputSendHeaders, InputSendData,
			InputSendWindowUpdate, InputRecvWindowUpdate,
			InputSendInformationalHeaders, InputSendPushPromise:
			return StreamHalfClosedRemote, nil
		case InputRecvHeaders, InputRecvData, InputRecvPushPromise:
			return StreamClosed, &StreamClosedError{}
		}

	case StreamClosed:
		switch input {
		case InputRecvWindowUpdate, InputRecvRstStream, InputSendRstStream:
			return StreamClosed, nil
		case InputSendData, InputSendHeaders, InputSendPushPromise,
			InputRecvData, InputRecvHeaders, InputRecvPushPromise:
			return StreamClosed, &StreamClosedError{}
		}
	}

	return StreamClosed, &ProtocolError{Msg: "invalid stream transition"}
}
