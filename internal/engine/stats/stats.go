// Package stats computes the fixed feature schema over a packet slice.
//
// Compute is a pure function of the events passed to it. It has no handle
// back to the owning flow, which is what makes windowed feature vectors
// incapable of observing anything beyond their window.
package stats

import (
	"math"
	"sort"

	"QuicSieve/internal/core/model"
)

// Compute derives the full feature vector from an ordered packet slice,
// either a whole flow or a window-truncated prefix. Degenerate inputs
// (empty slice, empty direction subset, fewer than two valid timestamps,
// zero mean) resolve every affected field to 0; Compute never returns a
// non-finite value.
func Compute(events []*model.PacketEvent) model.FeatureVector {
	var v model.FeatureVector
	if len(events) == 0 {
		return v
	}

	var outgoing, incoming []*model.PacketEvent
	for _, ev := range events {
		switch ev.Direction {
		case model.DirectionOutgoing:
			outgoing = append(outgoing, ev)
		case model.DirectionIncoming:
			incoming = append(incoming, ev)
		}
	}

	v.TotalPackets = float64(len(events))
	v.OutgoingPackets = float64(len(outgoing))
	v.IncomingPackets = float64(len(incoming))
	v.TotalBytes = sumBytes(events)
	v.OutgoingBytes = sumBytes(outgoing)
	v.IncomingBytes = sumBytes(incoming)

	v.PacketSize = sizeStats(events)
	v.PacketSizeOut = sizeStats(outgoing)
	v.PacketSizeIn = sizeStats(incoming)

	v.IAT = iatStats(events)
	v.IATOut = iatStats(outgoing)
	v.IATIn = iatStats(incoming)

	total := float64(len(events))
	var shortCount, longCount float64
	for _, ev := range events {
		if ev.HeaderClass == model.HeaderLong {
			longCount++
		} else {
			shortCount++
		}
	}
	v.ShortHeaderCount = shortCount
	v.LongHeaderCount = longCount
	v.ShortHeaderRatio = shortCount / total
	v.LongHeaderRatio = longCount / total

	// The spin bit is not exposed by the upstream dissection, so these stay
	// at their fixed defaults to keep the schema shape stable.
	v.SpinBitCount = 0
	v.SpinBitRatio = 0
	v.NoSpinBitRatio = 1

	for _, ev := range events {
		switch Classify(ev) {
		case ClassInitial:
			v.InitialPackets++
		case ClassHandshake:
			v.HandshakePackets++
		case ClassZeroRTT:
			v.ZeroRTTPackets++
		case ClassOneRTT:
			v.OneRTTPackets++
		case ClassRetry:
			v.RetryPackets++
		}
	}
	v.InitialRatio = v.InitialPackets / total
	v.HandshakeRatio = v.HandshakePackets / total
	v.ZeroRTTRatio = v.ZeroRTTPackets / total
	v.OneRTTRatio = v.OneRTTPackets / total
	v.RetryRatio = v.RetryPackets / total

	directions := make([]int, len(events))
	sizeBins := make([]int, len(events))
	for i, ev := range events {
		directions[i] = int(ev.Direction)
		sizeBins[i] = ev.Size / 10
	}
	v.EntropyDirection = shannonEntropy(directions)
	v.EntropyPacketSize = shannonEntropy(sizeBins)

	v.Duration = duration(events)

	return v
}

func sumBytes(events []*model.PacketEvent) float64 {
	var sum float64
	for _, ev := range events {
		sum += float64(ev.Size)
	}
	return sum
}

// sizeStats summarizes the positive packet sizes of a subset. An empty
// subset, or one with no positive sizes, yields all zeros.
func sizeStats(events []*model.PacketEvent) model.SizeStats {
	var sizes []float64
	for _, ev := range events {
		if ev.Size > 0 {
			sizes = append(sizes, float64(ev.Size))
		}
	}
	if len(sizes) == 0 {
		return model.SizeStats{}
	}

	mean, variance := meanVariance(sizes)
	std := math.Sqrt(variance)

	min, max := sizes[0], sizes[0]
	for _, s := range sizes[1:] {
		if s < min {
			min = s
		}
		if s > max {
			max = s
		}
	}

	cv := 0.0
	if mean > 0 {
		cv = std / mean
	}

	return model.SizeStats{Mean: mean, Min: min, Max: max, Std: std, Var: variance, CV: cv}
}

// iatStats summarizes the gaps between consecutive valid timestamps of a
// subset. Timestamps are sorted ascending first; fewer than two valid
// timestamps yields all zeros.
func iatStats(events []*model.PacketEvent) model.TimingStats {
	var timestamps []float64
	for _, ev := range events {
		if ev.Timestamp > 0 {
			timestamps = append(timestamps, ev.Timestamp)
		}
	}
	if len(timestamps) < 2 {
		return model.TimingStats{}
	}
	sort.Float64s(timestamps)

	iats := make([]float64, len(timestamps)-1)
	for i := 1; i < len(timestamps); i++ {
		iats[i-1] = timestamps[i] - timestamps[i-1]
	}

	mean, variance := meanVariance(iats)

	min, max := iats[0], iats[0]
	for _, d := range iats[1:] {
		if d < min {
			min = d
		}
		if d > max {
			max = d
		}
	}

	return model.TimingStats{Mean: mean, Min: min, Max: max, Std: math.Sqrt(variance), Var: variance}
}

// meanVariance returns the mean and population variance of a non-empty
// sample.
func meanVariance(xs []float64) (float64, float64) {
	n := float64(len(xs))
	var sum float64
	for _, x := range xs {
		sum += x
	}
	mean := sum / n

	var sq float64
	for _, x := range xs {
		d := x - mean
		sq += d * d
	}
	return mean, sq / n
}

// shannonEntropy computes the base-2 entropy of the observed value
// distribution. Empty and single-valued sequences have entropy 0.
func shannonEntropy(values []int) float64 {
	if len(values) == 0 {
		return 0
	}
	counts := make(map[int]int)
	for _, v := range values {
		counts[v]++
	}

	total := float64(len(values))
	entropy := 0.0
	for _, c := range counts {
		p := float64(c) / total
		entropy -= p * math.Log2(p)
	}
	if entropy == 0 {
		return 0 // avoid -0 from a single bucket
	}
	return entropy
}

// duration is the span between the earliest and latest valid timestamps.
func duration(events []*model.PacketEvent) float64 {
	var timestamps []float64
	for _, ev := range events {
		if ev.Timestamp > 0 {
			timestamps = append(timestamps, ev.Timestamp)
		}
	}
	if len(timestamps) < 2 {
		return 0
	}
	min, max := timestamps[0], timestamps[0]
	for _, ts := range timestamps[1:] {
		if ts < min {
			min = ts
		}
		if ts > max {
			max = ts
		}
	}
	return max - min
}
