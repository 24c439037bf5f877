package stats

import (
	"testing"

	"QuicSieve/internal/core/model"
)

func typed(packetType string, class model.HeaderClass) *model.PacketEvent {
	return &model.PacketEvent{PacketType: packetType, HeaderClass: class}
}

func TestClassifyPriorityOrder(t *testing.T) {
	cases := []struct {
		name string
		ev   *model.PacketEvent
		want PacketClass
	}{
		{"initial word", typed("initial", model.HeaderLong), ClassInitial},
		{"initial numeric", typed("0", model.HeaderLong), ClassInitial},
		{"initial mixed case", typed("Initial", model.HeaderLong), ClassInitial},
		{"handshake word", typed("handshake", model.HeaderLong), ClassHandshake},
		{"handshake numeric", typed("2", model.HeaderLong), ClassHandshake},
		{"zero-rtt hyphenated", typed("0-rtt", model.HeaderLong), ClassZeroRTT},
		{"zero-rtt compact", typed("zerortt", model.HeaderLong), ClassZeroRTT},
		{"zero-rtt numeric", typed("1", model.HeaderLong), ClassZeroRTT},
		{"retry word", typed("retry", model.HeaderLong), ClassRetry},
		{"retry numeric", typed("3", model.HeaderLong), ClassRetry},
		{"untyped short header", typed("", model.HeaderShort), ClassOneRTT},
		{"unrecognized long header", typed("version negotiation", model.HeaderLong), ClassUnclassified},
		{"unrecognized short header", typed("junk", model.HeaderShort), ClassOneRTT},
	}

	for _, tc := range cases {
		if got := Classify(tc.ev); got != tc.want {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

// "initial" wins over later predicates even when the tag could match more
// than one, because exactly one class is assigned in priority order.
func TestClassifyFirstMatchWins(t *testing.T) {
	ev := typed("initial-retry", model.HeaderLong)
	if got := Classify(ev); got != ClassInitial {
		t.Errorf("expected initial for ambiguous tag, got %v", got)
	}
}

func TestUnclassifiedCountsTowardNoBucket(t *testing.T) {
	events := []*model.PacketEvent{
		typed("version negotiation", model.HeaderLong),
		typed("", model.HeaderShort),
	}
	events[0].Size, events[1].Size = 100, 100

	v := Compute(events)

	sum := v.InitialPackets + v.HandshakePackets + v.ZeroRTTPackets + v.OneRTTPackets + v.RetryPackets
	if sum != 1 {
		t.Errorf("unclassified long-header packet must count toward no bucket, got %v classified", sum)
	}
	if v.OneRTTPackets != 1 {
		t.Errorf("short-header packet should be one-rtt")
	}
}
