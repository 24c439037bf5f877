package model

import (
	"fmt"
	"strconv"
)

// Direction indicates which side of a flow emitted a packet, relative to the
// flow's client. It is assigned exactly once, at flow-assembly time.
type Direction int

const (
	DirectionUnassigned Direction = iota
	DirectionOutgoing
	DirectionIncoming
)

func (d Direction) String() string {
	switch d {
	case DirectionOutgoing:
		return "outgoing"
	case DirectionIncoming:
		return "incoming"
	}
	return "unassigned"
}

// HeaderClass distinguishes QUIC long headers from short headers.
type HeaderClass int

const (
	HeaderShort HeaderClass = iota
	HeaderLong
)

func (h HeaderClass) String() string {
	if h == HeaderLong {
		return "long"
	}
	return "short"
}

// Endpoint is one side of a conversation.
type Endpoint struct {
	IP   string
	Port uint16
}

func (e Endpoint) String() string {
	return fmt.Sprintf("%s:%d", e.IP, e.Port)
}

// PacketEvent holds the metadata extracted from a single observed packet.
type PacketEvent struct {
	Timestamp float64 // epoch seconds, fractional
	Size      int     // frame length in bytes

	Src Endpoint
	Dst Endpoint

	// PacketType is the lowercased long-header packet type tag as reported
	// by the dissector; empty for short-header packets.
	PacketType  string
	HeaderClass HeaderClass

	InnerLength int    // protocol-level packet length, 0 if absent
	Version     string // protocol version tag, empty if absent
	DCID        string
	SCID        string

	Direction Direction
}

// Flow is one bidirectional conversation between two endpoints. Client and
// server roles are fixed by the first packet observed for the flow and are
// never revisited.
type Flow struct {
	Key    string
	Client Endpoint
	Server Endpoint
	Events []*PacketEvent
}

// VariantFull marks the dataset variant computed over the whole flow.
const VariantFull = "full"

// VariantForWindow returns the dataset variant marker for a window size.
func VariantForWindow(n int) string {
	return strconv.Itoa(n)
}

// OutputRecord is one row of a dataset variant: safe flow metadata plus the
// full feature vector. Windowed records carry only metadata that is knowable
// from the truncated slice and the flow's identity; nothing in here depends
// on the total flow length.
type OutputRecord struct {
	SourceFile string `json:"file"`
	FlowKey    string `json:"flow_id"`
	Variant    string `json:"window_size"`
	ClientIP   string `json:"client_ip"`
	ClientPort uint16 `json:"client_port"`
	ServerIP   string `json:"server_ip"`
	ServerPort uint16 `json:"server_port"`

	Features FeatureVector `json:"features"`
}

// MetadataNames lists the metadata columns of an output record, in the order
// they precede the feature schema in tabular output.
var MetadataNames = []string{
	"file",
	"flow_id",
	"window_size",
	"client_ip",
	"client_port",
	"server_ip",
	"server_port",
}

// MetadataValues returns the record's metadata in MetadataNames order.
func (r *OutputRecord) MetadataValues() []string {
	return []string{
		r.SourceFile,
		r.FlowKey,
		r.Variant,
		r.ClientIP,
		strconv.Itoa(int(r.ClientPort)),
		r.ServerIP,
		strconv.Itoa(int(r.ServerPort)),
	}
}
