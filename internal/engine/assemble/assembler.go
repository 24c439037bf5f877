// Package assemble groups packet events into bidirectional flows in a single
// linear pass over a capture file.
package assemble

import (
	"QuicSieve/internal/core/model"
)

// CanonicalKey returns the flow key for a packet's endpoint pair. The key is
// the lexicographically smaller of the two directional strings, so both
// directions of a conversation map to the same flow.
func CanonicalKey(src, dst model.Endpoint) string {
	forward := src.String() + "->" + dst.String()
	reverse := dst.String() + "->" + src.String()
	if reverse < forward {
		return reverse
	}
	return forward
}

// Assembler maintains the flow map while a file is being parsed. It is not
// safe for concurrent use; assembly is a strictly sequential pass and the
// flows it produces are only stable once the pass has finished.
type Assembler struct {
	flows map[string]*model.Flow
	order []string // first-seen key order, for deterministic output
}

// New creates an empty assembler.
func New() *Assembler {
	return &Assembler{flows: make(map[string]*model.Flow)}
}

// Add appends an event to its flow, creating the flow on first sight. The
// first event for a key fixes the flow's client and server roles; every
// event's direction is assigned here, once, and never recomputed.
func (a *Assembler) Add(ev *model.PacketEvent) {
	key := CanonicalKey(ev.Src, ev.Dst)

	flow, ok := a.flows[key]
	if !ok {
		flow = &model.Flow{
			Key:    key,
			Client: ev.Src,
			Server: ev.Dst,
		}
		a.flows[key] = flow
		a.order = append(a.order, key)
	}

	if ev.Src == flow.Client {
		ev.Direction = model.DirectionOutgoing
	} else {
		ev.Direction = model.DirectionIncoming
	}
	flow.Events = append(flow.Events, ev)
}

// Len returns the number of assembled flows.
func (a *Assembler) Len() int {
	return len(a.flows)
}

// Flows returns the assembled flows in first-seen order. The returned flows
// are finalized; callers must not append further events.
func (a *Assembler) Flows() []*model.Flow {
	flows := make([]*model.Flow, 0, len(a.order))
	for _, key := range a.order {
		flows = append(flows, a.flows[key])
	}
	return flows
}
