package model

import "testing"

func TestFeatureSchemaCoherence(t *testing.T) {
	var v FeatureVector
	if len(v.Values()) != len(FeatureNames) {
		t.Fatalf("schema mismatch: %d names vs %d values", len(FeatureNames), len(v.Values()))
	}

	seen := make(map[string]bool)
	for _, name := range FeatureNames {
		if seen[name] {
			t.Errorf("duplicate feature name %q", name)
		}
		seen[name] = true
	}
}

func TestFeatureValuesFollowNames(t *testing.T) {
	v := FeatureVector{TotalPackets: 1, Duration: 2.5}
	v.PacketSizeIn.CV = 0.75

	m := v.Map()
	if m["total_packets"] != 1 {
		t.Errorf("total_packets misplaced in schema")
	}
	if m["duration"] != 2.5 {
		t.Errorf("duration misplaced in schema")
	}
	if m["packet_size_in_cv"] != 0.75 {
		t.Errorf("packet_size_in_cv misplaced in schema")
	}
}

func TestMetadataValuesOrder(t *testing.T) {
	rec := OutputRecord{
		SourceFile: "a.pcap",
		FlowKey:    "1.1.1.1:1->2.2.2.2:2",
		Variant:    VariantFull,
		ClientIP:   "1.1.1.1",
		ClientPort: 1,
		ServerIP:   "2.2.2.2",
		ServerPort: 2,
	}

	vals := rec.MetadataValues()
	if len(vals) != len(MetadataNames) {
		t.Fatalf("metadata mismatch: %d names vs %d values", len(MetadataNames), len(vals))
	}
	if vals[2] != "full" {
		t.Errorf("variant marker should sit in the window_size column, got %q", vals[2])
	}
}
