package stats

import (
	"strings"

	"QuicSieve/internal/core/model"
)

// PacketClass is the protocol-state classification of a single packet.
type PacketClass int

const (
	ClassUnclassified PacketClass = iota
	ClassInitial
	ClassHandshake
	ClassZeroRTT
	ClassRetry
	ClassOneRTT
)

func (c PacketClass) String() string {
	switch c {
	case ClassInitial:
		return "initial"
	case ClassHandshake:
		return "handshake"
	case ClassZeroRTT:
		return "zero-rtt"
	case ClassRetry:
		return "retry"
	case ClassOneRTT:
		return "one-rtt"
	}
	return "unclassified"
}

// Classify assigns exactly one class to a packet by testing a fixed list of
// predicates in priority order and taking the first match. Dissectors report
// the long-header type either as a word ("Initial") or as the raw type bits
// ("0"), so both spellings are accepted. A short-header packet with no type
// tag is one-rtt; a long-header packet with an unrecognized tag stays
// unclassified and counts toward no named bucket.
func Classify(ev *model.PacketEvent) PacketClass {
	t := strings.ToLower(ev.PacketType)
	switch {
	case strings.Contains(t, "initial") || t == "0":
		return ClassInitial
	case strings.Contains(t, "handshake") || t == "2":
		return ClassHandshake
	case strings.Contains(t, "0-rtt") || strings.Contains(t, "zerortt") || t == "1":
		return ClassZeroRTT
	case strings.Contains(t, "retry") || t == "3":
		return ClassRetry
	case ev.HeaderClass == model.HeaderShort:
		return ClassOneRTT
	}
	return ClassUnclassified
}
