package h2engine

import "testing"

func TestSettingsStoreDefaults(t *testing.T) {
	client := NewSettingsStore(true)
	if got := client.Get(SettingEnablePush); got != 1 {
		t.Fatalf("client ENABLE_PUSH default = %d, want 1", got)
	}

	server := NewSettingsStore(false)
	if got := server.Get(SettingEnablePush); got != 0 {
		t.Fatalf("server ENABLE_PUSH default = %d, want 0", got)
	}

	if got := server.Get(SettingInitialWindowSize); got != 65535 {
		t.Fatalf("INITIAL_WINDOW_SIZE default = %d, want 65535", got)
	}
	if got := server.Get(SettingMaxFrameSize); got != 16384 {
		t.Fatalf("MAX_FRAME_SIZE default = %d, want 16384", got)
	}
}

func TestSettingsStoreUnseenMaxConcurrentStreamsUnbounded(t *testing.T) {
	remote := &SettingsStore{queues: map[SettingCode]*settingsQueue{}}
	if got := remote.Get(SettingMaxConcurrentStreams); got != 1<<32-1 {
		t.Fatalf("unseen MAX_CONCURRENT_STREAMS = %d, want unbounded", got)
	}
}

func TestSettingsStoreSetAndAcknowledge(t *testing.T) {
	s := NewSettingsStore(false)

	if err := s.Set(SettingMaxFrameSize, 32768); err != nil {
		t.Fatal(err)
	}
	if got := s.Get(SettingMaxFrameSize); got != 16384 {
		t.Fatalf("value must stay pending until acknowledged, got %d", got)
	}

	changes := s.Acknowledge()
	if len(changes) != 1 {
		t.Fatalf("expected 1 change, got %d", len(changes))
	}
	if changes[0].Code != SettingMaxFrameSize || changes[0].New != 32768 {
		t.Fatalf("unexpected change: %+v", changes[0])
	}
	if got := s.Get(SettingMaxFrameSize); got != 32768 {
		t.Fatalf("value must be current after acknowledge, got %d", got)
	}
}

func TestSettingsStoreAcknowledgeIsNoopWithoutPending(t *testing.T) {
	s := NewSettingsStore(true)
	if changes := s.Acknowledge(); len(changes) != 0 {
		t.Fatalf("expected no changes, got %v", changes)
	}
}

func TestSettingsStoreValidation(t *testing.T) {
	s := NewSettingsStore(true)

	if err := s.Set(SettingEnablePush, 2); err == nil {
		t.Fatal("expected error for ENABLE_PUSH=2")
	}
	if err := s.Set(SettingInitialWindowSize, 1<<31); err == nil {
		t.Fatal("expected error for INITIAL_WINDOW_SIZE overflow")
	}
	if err := s.Set(SettingMaxFrameSize, 100); err == nil {
		t.Fatal("expected error for MAX_FRAME_SIZE below minimum")
	}
	if err := s.Set(SettingMaxFrameSize, 1<<30); err == nil {
		t.Fatal("expected error for MAX_FRAME_SIZE above maximum")
	}
	if err := s.Set(SettingMaxHeaderListSize, 1<<20); err != nil {
		t.Fatalf("MAX_HEADER_LIST_SIZE should accept any u32: %v", err)
	}
}
