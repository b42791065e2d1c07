package h2engine

import "testing"

// generic conformance cases, named the way summerwind/h2spec names its
// RFC-section test IDs (kept as a naming convention only - the engine no
// longer depends on h2spec itself, see DESIGN.md).
func TestConformance(t *testing.T) {
	cases := []struct {
		name string
		run  func(t *testing.T)
	}{
		{"generic/3.5/1_sends_client_connection_preface", func(t *testing.T) {
			server := NewConnection(NewConfig(RoleServer))
			_, err := server.ReceiveData([]byte("not a valid preface"))
			if err == nil {
				t.Fatal("expected a protocol error for a missing/invalid preface")
			}
		}},
		{"generic/4.2/1_sends_a_frame_larger_than_max_frame_size", func(t *testing.T) {
			client := NewConnection(NewConfig(RoleClient))
			client.cfg.MaxFrameSize = 16384
			client.fb = newFrameBuffer(false, 16384, 64)
			_, err := client.ReceiveData(rawFrameBytes(FrameData, 0, 1, make([]byte, 16385)))
			if _, ok := err.(*FrameTooLarge); !ok {
				t.Fatalf("expected FrameTooLarge, got %v", err)
			}
		}},
		{"generic/5.1/2_sends_headers_on_a_stream_in_reserved_local", func(t *testing.T) {
			s := newStream(2, false, 65535, 65535)
			if err := s.apply(InputSendPushPromise); err != nil {
				t.Fatal(err)
			}
			if err := s.sendHeaders(false, false); err != nil {
				t.Fatal(err)
			}
			if s.state != StreamHalfClosedRemote {
				t.Fatalf("got %s, want half-closed (remote)", s.state)
			}
		}},
		{"generic/5.1/5_sends_data_on_half_closed_remote_stream", func(t *testing.T) {
			s := newStream(1, true, 65535, 65535)
			s.state = StreamHalfClosedRemote
			if err := s.sendData(1, false); err != nil {
				t.Fatal(err)
			}
			if s.state != StreamHalfClosedRemote {
				t.Fatalf("sending data while half-closed (remote) must not change state, got %s", s.state)
			}
		}},
		{"generic/6.9/1_sends_a_window_update_of_zero", func(t *testing.T) {
			client := NewConnection(NewConfig(RoleClient))
			client.fb = newFrameBuffer(false, 16384, 64)
			wu := &WindowUpdateFrame{StreamID: 0, Increment: 0}
			_, err := client.handleWindowUpdate(wu.encode())
			if _, ok := err.(*ProtocolError); !ok {
				t.Fatalf("expected ProtocolError, got %v", err)
			}
		}},
		{"generic/8.1.2.6/1_content_length_header_mismatch", func(t *testing.T) {
			s := newStream(1, false, 65535, 65535)
			s.state = StreamOpen
			s.haveExpectedLength = true
			s.expectedContentLength = 10
			if err := s.receiveData(3, true); err == nil {
				t.Fatal("expected InvalidBodyLength")
			}
		}},
	}

	for _, c := range cases {
		t.Run(c.name, c.run)
	}
}
