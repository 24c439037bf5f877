// Package pcap is the native capture source: it reads pcap files offline
// with gopacket and dissects QUIC headers, producing the same packet event
// stream the record parser produces from external dissector output.
package pcap

import (
	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcap"

	"QuicSieve/internal/core/model"
)

// quicPort is the conventional QUIC/HTTP3 port used to pre-filter traffic.
const quicPort = 443

// Reader reads packet events from a pcap file.
type Reader struct {
	handle *pcap.Handle
}

// NewReader opens a pcap file for offline reading.
func NewReader(filePath string) (*Reader, error) {
	handle, err := pcap.OpenOffline(filePath)
	if err != nil {
		return nil, err
	}
	return &Reader{handle: handle}, nil
}

// Close closes the pcap handle.
func (r *Reader) Close() {
	r.handle.Close()
}

// ReadEvents reads the whole file and returns the QUIC packet events in
// capture order along with the number of packets that were seen but could
// not be used. Non-UDP and non-QUIC traffic is filtered out silently; only
// QUIC candidates with unusable headers count as skips.
func (r *Reader) ReadEvents() ([]*model.PacketEvent, int, error) {
	var events []*model.PacketEvent
	skipped := 0

	packetSource := gopacket.NewPacketSource(r.handle, r.handle.LinkType())
	for packet := range packetSource.Packets() {
		ev, skip := eventFromPacket(packet)
		if skip {
			skipped++
			continue
		}
		if ev == nil {
			continue
		}
		events = append(events, ev)
	}
	return events, skipped, nil
}

// eventFromPacket converts one captured packet. It returns (nil, false) for
// traffic outside our scope and (nil, true) for a QUIC candidate whose
// header could not be parsed.
func eventFromPacket(packet gopacket.Packet) (ev *model.PacketEvent, skip bool) {
	udpLayer := packet.Layer(layers.LayerTypeUDP)
	if udpLayer == nil {
		return nil, false
	}
	udp := udpLayer.(*layers.UDP)

	var src, dst model.Endpoint
	if l := packet.Layer(layers.LayerTypeIPv4); l != nil {
		ip := l.(*layers.IPv4)
		src.IP = ip.SrcIP.String()
		dst.IP = ip.DstIP.String()
	} else if l := packet.Layer(layers.LayerTypeIPv6); l != nil {
		ip := l.(*layers.IPv6)
		src.IP = ip.SrcIP.String()
		dst.IP = ip.DstIP.String()
	} else {
		return nil, false
	}
	src.Port = uint16(udp.SrcPort)
	dst.Port = uint16(udp.DstPort)

	payload := udp.Payload
	if src.Port != quicPort && dst.Port != quicPort && !LooksLikeQUIC(payload) {
		return nil, false
	}

	ev = &model.PacketEvent{
		Src:  src,
		Dst:  dst,
		Size: len(packet.Data()),
	}
	if meta := packet.Metadata(); meta != nil {
		ev.Size = meta.Length
		ts := meta.Timestamp
		ev.Timestamp = float64(ts.UnixNano()) / 1e9
	}

	header, err := ParseHeader(payload)
	if err != nil {
		return nil, true
	}
	if header.LongForm {
		ev.PacketType = header.TypeTag()
		ev.HeaderClass = model.HeaderLong
		ev.Version = header.VersionTag()
		ev.InnerLength = int(header.Length)
		ev.SCID = header.SCIDHex()
	}
	ev.DCID = header.DCIDHex()

	return ev, false
}
