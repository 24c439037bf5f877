package pcap

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
)

// QUIC long-header packet type bits (RFC 9000).
const (
	packetTypeInitial   byte = 0x00
	packetType0RTT      byte = 0x01
	packetTypeHandshake byte = 0x02
	packetTypeRetry     byte = 0x03
)

var errPacketTooShort = errors.New("packet too short")

// Header is the wire-visible part of a QUIC packet header. Payloads are
// never decrypted; only the cleartext header fields are read.
type Header struct {
	LongForm   bool
	PacketType byte // long form only
	Version    uint32
	DCID       []byte
	SCID       []byte // long form only
	Length     uint64 // long-form length field, 0 when absent
}

// TypeTag returns the lowercase packet type tag in the same vocabulary the
// external dissector uses; empty for short-header packets.
func (h *Header) TypeTag() string {
	if !h.LongForm {
		return ""
	}
	switch h.PacketType {
	case packetTypeInitial:
		return "initial"
	case packetType0RTT:
		return "0-rtt"
	case packetTypeHandshake:
		return "handshake"
	case packetTypeRetry:
		return "retry"
	}
	return "unknown"
}

// VersionTag formats the version the way the dissector prints it.
func (h *Header) VersionTag() string {
	if !h.LongForm {
		return ""
	}
	return fmt.Sprintf("0x%08x", h.Version)
}

// DCIDHex returns the destination connection ID as a hex string.
func (h *Header) DCIDHex() string {
	return hex.EncodeToString(h.DCID)
}

// SCIDHex returns the source connection ID as a hex string.
func (h *Header) SCIDHex() string {
	return hex.EncodeToString(h.SCID)
}

// shortHeaderDCIDLen is assumed for short headers; the DCID length is not
// carried on the wire and real connection tracking is out of scope here.
const shortHeaderDCIDLen = 8

// ParseHeader parses the cleartext QUIC header at the start of a UDP
// payload.
func ParseHeader(data []byte) (*Header, error) {
	if len(data) < 1 {
		return nil, errPacketTooShort
	}

	firstByte := data[0]
	if firstByte&0x80 != 0 {
		return parseLongHeader(data, firstByte)
	}
	return parseShortHeader(data)
}

func parseLongHeader(data []byte, firstByte byte) (*Header, error) {
	if len(data) < 7 {
		return nil, errPacketTooShort
	}

	h := &Header{
		LongForm:   true,
		PacketType: (firstByte & 0x30) >> 4,
	}
	offset := 1

	h.Version = binary.BigEndian.Uint32(data[offset:])
	offset += 4

	dcidLen := int(data[offset])
	offset++
	if len(data) < offset+dcidLen+1 {
		return nil, errPacketTooShort
	}
	h.DCID = append([]byte(nil), data[offset:offset+dcidLen]...)
	offset += dcidLen

	scidLen := int(data[offset])
	offset++
	if len(data) < offset+scidLen {
		return nil, errPacketTooShort
	}
	h.SCID = append([]byte(nil), data[offset:offset+scidLen]...)
	offset += scidLen

	// Initial packets carry a token before the length field.
	if h.PacketType == packetTypeInitial {
		tokenLen, n := decodeVarint(data[offset:])
		if n == 0 {
			return nil, errPacketTooShort
		}
		offset += n
		if len(data) < offset+int(tokenLen) {
			return nil, errPacketTooShort
		}
		offset += int(tokenLen)
	}

	// Retry packets have no length field.
	if h.PacketType != packetTypeRetry {
		length, n := decodeVarint(data[offset:])
		if n == 0 {
			return nil, errPacketTooShort
		}
		h.Length = length
	}

	return h, nil
}

func parseShortHeader(data []byte) (*Header, error) {
	if len(data) < 1+shortHeaderDCIDLen {
		return nil, errPacketTooShort
	}
	return &Header{
		LongForm: false,
		DCID:     append([]byte(nil), data[1:1+shortHeaderDCIDLen]...),
	}, nil
}

// decodeVarint decodes a QUIC variable-length integer, returning the value
// and the number of bytes consumed (0 on truncation).
func decodeVarint(data []byte) (uint64, int) {
	if len(data) < 1 {
		return 0, 0
	}
	length := 1 << (data[0] >> 6)
	if len(data) < length {
		return 0, 0
	}
	value := uint64(data[0] & 0x3f)
	for i := 1; i < length; i++ {
		value = value<<8 | uint64(data[i])
	}
	return value, length
}

// LooksLikeQUIC reports whether a UDP payload plausibly starts a QUIC
// packet: the fixed bit must be set, and long headers need room for the
// version and connection ID lengths.
func LooksLikeQUIC(data []byte) bool {
	if len(data) < 1 || data[0]&0x40 == 0 {
		return false
	}
	if data[0]&0x80 != 0 {
		return len(data) >= 7
	}
	return len(data) >= 1+shortHeaderDCIDLen
}
