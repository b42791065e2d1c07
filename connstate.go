package h2engine

// ConnectionState tracks the lifecycle of the connection as a whole,
// distinct from any individual stream's state.
type ConnectionState uint8

const (
	ConnIdle ConnectionState = iota
	ConnClientOpen
	ConnServerOpen
	ConnClosed
)

func (c ConnectionState) String() string {
	switch c {
	case ConnIdle:
		return "idle"
	case ConnClientOpen:
		return "client-open"
	case ConnServerOpen:
		return "server-open"
	case ConnClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// connInput drives the connection-level transitions: the preface/initial
// SETTINGS exchange moves the connection from idle into an open state, and
// a sent or received GOAWAY moves it to closed.
type connInput uint8

const (
	connInputInitiate connInput = iota
	connInputSendGoAway
	connInputRecvGoAway
)

func processConnInput(state ConnectionState, isClient bool, input connInput) ConnectionState {
	switch input {
	case connInputInitiate:
		if state != ConnIdle {
			return state
		}
		if isClient {
			return ConnClientOpen
		}
		return ConnServerOpen
	case connInputSendGoAway, connInputRecvGoAway:
		return ConnClosed
	default:
		return state
	}
}
