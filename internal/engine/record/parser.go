// Package record parses delimited dissector output lines into packet events.
//
// One line describes one observed packet, with a fixed field order: source
// IPv4, destination IPv4, source IPv6, destination IPv6, source port,
// destination port, frame length, epoch timestamp, and optionally the QUIC
// long-header packet type, QUIC packet length, version and the two
// connection IDs.
package record

import (
	"fmt"
	"strconv"
	"strings"

	"QuicSieve/internal/core/model"
)

// MinFields is the number of leading non-protocol fields a line must carry.
const MinFields = 8

// Parser converts one dissector line into a PacketEvent. A parse failure is
// never fatal to the surrounding file; callers count and skip it.
type Parser struct {
	delimiter string
}

// NewParser creates a parser for the given field delimiter.
func NewParser(delimiter string) *Parser {
	if delimiter == "" {
		delimiter = "|"
	}
	return &Parser{delimiter: delimiter}
}

// ParseLine parses a single line. The returned error marks a skipped line;
// it carries the reason but is informational only.
func (p *Parser) ParseLine(line string) (*model.PacketEvent, error) {
	if strings.TrimSpace(line) == "" {
		return nil, fmt.Errorf("empty line")
	}

	raw := strings.Split(line, p.delimiter)
	if len(raw) < MinFields {
		return nil, fmt.Errorf("too few fields: got %d, need %d", len(raw), MinFields)
	}

	fields := make([]string, len(raw))
	for i, f := range raw {
		fields[i] = strings.TrimSpace(strings.Trim(strings.TrimSpace(f), `"`))
	}

	// IPv4 takes priority over IPv6 when both are present.
	srcIP := fields[0]
	if srcIP == "" {
		srcIP = fields[2]
	}
	dstIP := fields[1]
	if dstIP == "" {
		dstIP = fields[3]
	}
	if srcIP == "" || dstIP == "" {
		return nil, fmt.Errorf("missing address")
	}
	if fields[4] == "" || fields[5] == "" {
		return nil, fmt.Errorf("missing port")
	}

	srcPort, err := parsePort(fields[4])
	if err != nil {
		return nil, fmt.Errorf("bad source port %q: %w", fields[4], err)
	}
	dstPort, err := parsePort(fields[5])
	if err != nil {
		return nil, fmt.Errorf("bad destination port %q: %w", fields[5], err)
	}

	size := 0
	if fields[6] != "" {
		size, err = strconv.Atoi(fields[6])
		if err != nil {
			return nil, fmt.Errorf("bad frame length %q: %w", fields[6], err)
		}
	}

	timestamp := 0.0
	if fields[7] != "" {
		timestamp, err = strconv.ParseFloat(fields[7], 64)
		if err != nil {
			return nil, fmt.Errorf("bad timestamp %q: %w", fields[7], err)
		}
	}

	ev := &model.PacketEvent{
		Timestamp: timestamp,
		Size:      size,
		Src:       model.Endpoint{IP: srcIP, Port: srcPort},
		Dst:       model.Endpoint{IP: dstIP, Port: dstPort},
	}

	if len(fields) > 8 {
		ev.PacketType = strings.ToLower(fields[8])
	}
	if ev.PacketType != "" {
		ev.HeaderClass = model.HeaderLong
	}
	if len(fields) > 9 && fields[9] != "" {
		inner, err := strconv.Atoi(fields[9])
		if err != nil {
			return nil, fmt.Errorf("bad packet length %q: %w", fields[9], err)
		}
		ev.InnerLength = inner
	}
	if len(fields) > 10 {
		ev.Version = fields[10]
	}
	if len(fields) > 11 {
		ev.DCID = fields[11]
	}
	if len(fields) > 12 {
		ev.SCID = fields[12]
	}

	return ev, nil
}

func parsePort(s string) (uint16, error) {
	n, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0, err
	}
	return uint16(n), nil
}
