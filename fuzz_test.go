package h2engine

import (
	"testing"

	"github.com/valyala/fastrand"
)

// TestFrameBufferFuzzNeverPanics feeds the frame buffer randomly-shaped
// wire bytes and asserts it never panics, whether or not it errors;
// the teacher used fastrand to generate outbound padding, repurposed here
// to generate adversarial inbound byte streams instead.
func TestFrameBufferFuzzNeverPanics(t *testing.T) {
	var rng fastrand.RNG

	for i := 0; i < 200; i++ {
		fb := newFrameBuffer(false, 16384, 64)

		n := int(rng.Uint32n(256))
		junk := make([]byte, n)
		for j := range junk {
			junk[j] = byte(rng.Uint32n(256))
		}

		fb.write(junk)

		func() {
			defer func() {
				if r := recover(); r != nil {
					t.Fatalf("frame buffer panicked on random input: %v", r)
				}
			}()
			for {
				_, ok, err := fb.next()
				if err != nil || !ok {
					break
				}
			}
		}()
	}
}

// TestSettingsStoreFuzzValidation checks every SETTINGS value in range
// [0, 2^32) is either accepted or rejected with a typed error, never
// silently mis-stored.
func TestSettingsStoreFuzzValidation(t *testing.T) {
	var rng fastrand.RNG
	codes := []SettingCode{
		SettingHeaderTableSize, SettingEnablePush, SettingMaxConcurrentStreams,
		SettingInitialWindowSize, SettingMaxFrameSize, SettingMaxHeaderListSize,
	}

	for i := 0; i < 500; i++ {
		s := NewSettingsStore(true)
		code := codes[rng.Uint32n(uint32(len(codes)))]
		value := rng.Uint32()

		err := s.Set(code, value)
		if err == nil {
			continue
		}
		switch code {
		case SettingEnablePush, SettingMaxFrameSize:
			if _, ok := err.(*ProtocolError); !ok {
				t.Fatalf("code %s: expected ProtocolError, got %T", code, err)
			}
		case SettingInitialWindowSize:
			if _, ok := err.(*FlowControlError); !ok {
				t.Fatalf("code %s: expected FlowControlError, got %T", code, err)
			}
		default:
			t.Fatalf("code %s should never be rejected, got %v", code, err)
		}
	}
}
