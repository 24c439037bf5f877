// Package window truncates flows to their first N packets for early-packet
// datasets.
package window

import (
	"errors"

	"QuicSieve/internal/core/model"
)

// ErrInsufficientData marks a flow with fewer packets than the requested
// window. Such a flow is excluded from that window's dataset entirely; it is
// never padded.
var ErrInsufficientData = errors.New("flow has fewer packets than window")

// Slice returns the first n events of the flow. The slice aliases the flow's
// event sequence; downstream computation must treat it as read-only.
func Slice(f *model.Flow, n int) ([]*model.PacketEvent, error) {
	if n <= 0 {
		return nil, errors.New("window size must be positive")
	}
	if len(f.Events) < n {
		return nil, ErrInsufficientData
	}
	return f.Events[:n], nil
}
