package h2engine

import "testing"

func TestStreamStateIdleToOpen(t *testing.T) {
	next, err := processStreamInput(StreamIdle, InputSendHeaders)
	if err != nil {
		t.Fatal(err)
	}
	if next != StreamOpen {
		t.Fatalf("got %s, want open", next)
	}
}

func TestStreamStateIdleToReserved(t *testing.T) {
	next, err := processStreamInput(StreamIdle, InputSendPushPromise)
	if err != nil || next != StreamReservedLocal {
		t.Fatalf("got %s, err %v; want reserved (local)", next, err)
	}

	next, err = processStreamInput(StreamIdle, InputRecvPushPromise)
	if err != nil || next != StreamReservedRemote {
		t.Fatalf("got %s, err %v; want reserved (remote)", next, err)
	}
}

func TestStreamStateOpenToHalfClosed(t *testing.T) {
	next, err := processStreamInput(StreamOpen, InputSendEndStream)
	if err != nil || next != StreamHalfClosedLocal {
		t.Fatalf("got %s, err %v; want half-closed (local)", next, err)
	}

	next, err = processStreamInput(StreamOpen, InputRecvEndStream)
	if err != nil || next != StreamHalfClosedRemote {
		t.Fatalf("got %s, err %v; want half-closed (remote)", next, err)
	}
}

func TestStreamStateHalfClosedLocalRejectsSend(t *testing.T) {
	_, err := processStreamInput(StreamHalfClosedLocal, InputSendData)
	if _, ok := err.(*StreamClosedError); !ok {
		t.Fatalf("expected StreamClosedError, got %v", err)
	}
}

func TestStreamStateHalfClosedRemoteRejectsRecv(t *testing.T) {
	_, err := processStreamInput(StreamHalfClosedRemote, InputRecvData)
	if _, ok := err.(*StreamClosedError); !ok {
		t.Fatalf("expected StreamClosedError, got %v", err)
	}
}

func TestStreamStateHalfClosedToClosed(t *testing.T) {
	next, err := processStreamInput(StreamHalfClosedLocal, InputRecvEndStream)
	if err != nil || next != StreamClosed {
		t.Fatalf("got %s, err %v; want closed", next, err)
	}

	next, err = processStreamInput(StreamHalfClosedRemote, InputSendEndStream)
	if err != nil || next != StreamClosed {
		t.Fatalf("got %s, err %v; want closed", next, err)
	}
}

func TestStreamStateClosedRejectsFrames(t *testing.T) {
	_, err := processStreamInput(StreamClosed, InputRecvData)
	if _, ok := err.(*StreamClosedError); !ok {
		t.Fatalf("expected StreamClosedError, got %v", err)
	}
}

func TestStreamStateClosedToleratesLateWindowUpdate(t *testing.T) {
	next, err := processStreamInput(StreamClosed, InputRecvWindowUpdate)
	if err != nil || next != StreamClosed {
		t.Fatalf("a late WINDOW_UPDATE on a closed stream must be tolerated, got %s, %v", next, err)
	}
}

func TestStreamSendDataDebitsWindow(t *testing.T) {
	s := newStream(1, true, 10, 10)
	s.state = StreamOpen

	if err := s.sendData(4, false); err != nil {
		t.Fatal(err)
	}
	if s.outboundWindow != 6 {
		t.Fatalf("outboundWindow = %d, want 6", s.outboundWindow)
	}

	if err := s.sendData(100, false); err == nil {
		t.Fatal("expected a flow control error for exceeding the window")
	}
}

func TestStreamContentLengthMismatch(t *testing.T) {
	s := newStream(1, false, 10, 10)
	s.state = StreamOpen
	s.haveExpectedLength = true
	s.expectedContentLength = 5

	err := s.receiveData(3, true)
	if _, ok := err.(*InvalidBodyLength); !ok {
		t.Fatalf("expected InvalidBodyLength, got %v", err)
	}
}
