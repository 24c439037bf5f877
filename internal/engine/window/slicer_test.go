package window

import (
	"testing"

	"QuicSieve/internal/core/model"
)

func flowWithPackets(n int) *model.Flow {
	f := &model.Flow{Key: "test"}
	for i := 0; i < n; i++ {
		f.Events = append(f.Events, &model.PacketEvent{Size: 100 + i})
	}
	return f
}

func TestSlicePrefix(t *testing.T) {
	f := flowWithPackets(5)

	events, err := Slice(f, 2)
	if err != nil {
		t.Fatalf("Slice failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0] != f.Events[0] || events[1] != f.Events[1] {
		t.Errorf("slice should be the first N events in order")
	}
}

func TestSliceExactLength(t *testing.T) {
	f := flowWithPackets(3)
	events, err := Slice(f, 3)
	if err != nil {
		t.Fatalf("Slice failed: %v", err)
	}
	if len(events) != 3 {
		t.Errorf("expected 3 events, got %d", len(events))
	}
}

func TestSliceInsufficientData(t *testing.T) {
	f := flowWithPackets(3)
	if _, err := Slice(f, 5); err != ErrInsufficientData {
		t.Errorf("expected ErrInsufficientData, got %v", err)
	}

	// N-1 packets must be excluded, not padded.
	f = flowWithPackets(4)
	if _, err := Slice(f, 5); err != ErrInsufficientData {
		t.Errorf("expected ErrInsufficientData for N-1 packets, got %v", err)
	}
}

func TestSliceRejectsNonPositiveWindow(t *testing.T) {
	f := flowWithPackets(3)
	if _, err := Slice(f, 0); err == nil {
		t.Errorf("expected error for window size 0")
	}
}
