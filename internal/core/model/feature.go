package model

// SizeStats describes a packet-size distribution over one direction subset.
type SizeStats struct {
	Mean float64 `json:"mean"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Std  float64 `json:"std"`
	Var  float64 `json:"var"`
	CV   float64 `json:"cv"`
}

func (s SizeStats) values() []float64 {
	return []float64{s.Mean, s.Min, s.Max, s.Std, s.Var, s.CV}
}

// TimingStats describes an inter-arrival-time distribution over one
// direction subset.
type TimingStats struct {
	Mean float64 `json:"mean"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`
	Std  float64 `json:"std"`
	Var  float64 `json:"var"`
}

func (s TimingStats) values() []float64 {
	return []float64{s.Mean, s.Min, s.Max, s.Std, s.Var}
}

// FeatureVector is the fixed feature schema computed for one (flow, window)
// pair. Every produced record has exactly this shape; fields that cannot be
// computed from the input slice default to zero rather than being omitted.
type FeatureVector struct {
	TotalPackets    float64 `json:"total_packets"`
	OutgoingPackets float64 `json:"outgoing_packets"`
	IncomingPackets float64 `json:"incoming_packets"`
	TotalBytes      float64 `json:"total_bytes"`
	OutgoingBytes   float64 `json:"outgoing_bytes"`
	IncomingBytes   float64 `json:"incoming_bytes"`

	PacketSize    SizeStats `json:"packet_size"`
	PacketSizeOut SizeStats `json:"packet_size_out"`
	PacketSizeIn  SizeStats `json:"packet_size_in"`

	IAT    TimingStats `json:"iat"`
	IATOut TimingStats `json:"iat_out"`
	IATIn  TimingStats `json:"iat_in"`

	ShortHeaderCount float64 `json:"short_header_count"`
	LongHeaderCount  float64 `json:"long_header_count"`
	ShortHeaderRatio float64 `json:"short_header_ratio"`
	LongHeaderRatio  float64 `json:"long_header_ratio"`

	SpinBitCount   float64 `json:"spin_bit_count"`
	SpinBitRatio   float64 `json:"spin_bit_ratio"`
	NoSpinBitRatio float64 `json:"no_spin_bit_ratio"`

	InitialPackets   float64 `json:"initial_packets"`
	HandshakePackets float64 `json:"handshake_packets"`
	ZeroRTTPackets   float64 `json:"zerortt_packets"`
	OneRTTPackets    float64 `json:"onertt_packets"`
	RetryPackets     float64 `json:"retry_packets"`
	InitialRatio     float64 `json:"initial_ratio"`
	HandshakeRatio   float64 `json:"handshake_ratio"`
	ZeroRTTRatio     float64 `json:"zerortt_ratio"`
	OneRTTRatio      float64 `json:"onertt_ratio"`
	RetryRatio       float64 `json:"retry_ratio"`

	EntropyDirection  float64 `json:"entropy_direction"`
	EntropyPacketSize float64 `json:"entropy_packet_size"`

	Duration float64 `json:"duration"`
}

func sizeStatNames(prefix string) []string {
	return []string{
		prefix + "_mean",
		prefix + "_min",
		prefix + "_max",
		prefix + "_std",
		prefix + "_var",
		prefix + "_cv",
	}
}

func timingStatNames(prefix string) []string {
	return []string{
		prefix + "_mean",
		prefix + "_min",
		prefix + "_max",
		prefix + "_std",
		prefix + "_var",
	}
}

// FeatureNames enumerates the schema in output column order. It must stay in
// lockstep with FeatureVector.Values.
var FeatureNames = buildFeatureNames()

func buildFeatureNames() []string {
	names := []string{
		"total_packets",
		"outgoing_packets",
		"incoming_packets",
		"total_bytes",
		"outgoing_bytes",
		"incoming_bytes",
	}
	names = append(names, sizeStatNames("packet_size")...)
	names = append(names, sizeStatNames("packet_size_out")...)
	names = append(names, sizeStatNames("packet_size_in")...)
	names = append(names, timingStatNames("iat")...)
	names = append(names, timingStatNames("iat_out")...)
	names = append(names, timingStatNames("iat_in")...)
	names = append(names,
		"short_header_count",
		"long_header_count",
		"short_header_ratio",
		"long_header_ratio",
		"spin_bit_count",
		"spin_bit_ratio",
		"no_spin_bit_ratio",
		"initial_packets",
		"handshake_packets",
		"zerortt_packets",
		"onertt_packets",
		"retry_packets",
		"initial_ratio",
		"handshake_ratio",
		"zerortt_ratio",
		"onertt_ratio",
		"retry_ratio",
		"entropy_direction",
		"entropy_packet_size",
		"duration",
	)
	return names
}

// Values returns the vector in FeatureNames order.
func (v *FeatureVector) Values() []float64 {
	vals := []float64{
		v.TotalPackets,
		v.OutgoingPackets,
		v.IncomingPackets,
		v.TotalBytes,
		v.OutgoingBytes,
		v.IncomingBytes,
	}
	vals = append(vals, v.PacketSize.values()...)
	vals = append(vals, v.PacketSizeOut.values()...)
	vals = append(vals, v.PacketSizeIn.values()...)
	vals = append(vals, v.IAT.values()...)
	vals = append(vals, v.IATOut.values()...)
	vals = append(vals, v.IATIn.values()...)
	vals = append(vals,
		v.ShortHeaderCount,
		v.LongHeaderCount,
		v.ShortHeaderRatio,
		v.LongHeaderRatio,
		v.SpinBitCount,
		v.SpinBitRatio,
		v.NoSpinBitRatio,
		v.InitialPackets,
		v.HandshakePackets,
		v.ZeroRTTPackets,
		v.OneRTTPackets,
		v.RetryPackets,
		v.InitialRatio,
		v.HandshakeRatio,
		v.ZeroRTTRatio,
		v.OneRTTRatio,
		v.RetryRatio,
		v.EntropyDirection,
		v.EntropyPacketSize,
		v.Duration,
	)
	return vals
}

// Map returns the vector as a name-to-value mapping, e.g. for columnar or
// message-bus sinks.
func (v *FeatureVector) Map() map[string]float64 {
	vals := v.Values()
	m := make(map[string]float64, len(vals))
	for i, name := range FeatureNames {
		m[name] = vals[i]
	}
	return m
}
