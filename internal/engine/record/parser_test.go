package record

import (
	"testing"

	"QuicSieve/internal/core/model"
)

func TestParseLineFullRecord(t *testing.T) {
	p := NewParser("|")

	line := `"10.0.0.1"|"10.0.0.2"|||"51234"|"443"|"1350"|"1700000000.123456"|"Initial"|"1312"|"0x00000001"|"aabbccdd"|"eeff0011"`
	ev, err := p.ParseLine(line)
	if err != nil {
		t.Fatalf("ParseLine failed: %v", err)
	}

	if ev.Src.IP != "10.0.0.1" || ev.Src.Port != 51234 {
		t.Errorf("unexpected source endpoint: %v", ev.Src)
	}
	if ev.Dst.IP != "10.0.0.2" || ev.Dst.Port != 443 {
		t.Errorf("unexpected destination endpoint: %v", ev.Dst)
	}
	if ev.Size != 1350 {
		t.Errorf("expected size 1350, got %d", ev.Size)
	}
	if ev.Timestamp != 1700000000.123456 {
		t.Errorf("unexpected timestamp: %v", ev.Timestamp)
	}
	if ev.PacketType != "initial" {
		t.Errorf("packet type should be lowercased, got %q", ev.PacketType)
	}
	if ev.HeaderClass != model.HeaderLong {
		t.Errorf("typed packet should be long header")
	}
	if ev.InnerLength != 1312 {
		t.Errorf("expected inner length 1312, got %d", ev.InnerLength)
	}
	if ev.Version != "0x00000001" || ev.DCID != "aabbccdd" || ev.SCID != "eeff0011" {
		t.Errorf("unexpected protocol fields: %q %q %q", ev.Version, ev.DCID, ev.SCID)
	}
}

func TestParseLineMinimumFields(t *testing.T) {
	p := NewParser("|")

	ev, err := p.ParseLine("10.0.0.1|10.0.0.2|||51234|443|100|1.5")
	if err != nil {
		t.Fatalf("ParseLine failed: %v", err)
	}
	if ev.PacketType != "" {
		t.Errorf("expected empty packet type, got %q", ev.PacketType)
	}
	if ev.HeaderClass != model.HeaderShort {
		t.Errorf("untyped packet should be short header")
	}
	if ev.Direction != model.DirectionUnassigned {
		t.Errorf("parser must not assign direction")
	}
}

func TestParseLineIPvPriority(t *testing.T) {
	p := NewParser("|")

	// IPv4 wins when both are present.
	ev, err := p.ParseLine("10.0.0.1|10.0.0.2|fe80::1|fe80::2|1|2|100|1.0")
	if err != nil {
		t.Fatalf("ParseLine failed: %v", err)
	}
	if ev.Src.IP != "10.0.0.1" || ev.Dst.IP != "10.0.0.2" {
		t.Errorf("IPv4 should take priority, got %s -> %s", ev.Src.IP, ev.Dst.IP)
	}

	// Fall back to IPv6 when IPv4 is absent.
	ev, err = p.ParseLine("||fe80::1|fe80::2|1|2|100|1.0")
	if err != nil {
		t.Fatalf("ParseLine failed: %v", err)
	}
	if ev.Src.IP != "fe80::1" || ev.Dst.IP != "fe80::2" {
		t.Errorf("expected IPv6 fallback, got %s -> %s", ev.Src.IP, ev.Dst.IP)
	}
}

func TestParseLineSkips(t *testing.T) {
	p := NewParser("|")

	cases := []struct {
		name string
		line string
	}{
		{"empty line", ""},
		{"whitespace line", "   \t "},
		{"too few fields", "10.0.0.1|10.0.0.2|||1|2"},
		{"no addresses", "||||1|2|100|1.0"},
		{"missing port", "10.0.0.1|10.0.0.2|||1||100|1.0"},
		{"bad port", "10.0.0.1|10.0.0.2|||x|2|100|1.0"},
		{"port out of range", "10.0.0.1|10.0.0.2|||70000|2|100|1.0"},
		{"bad size", "10.0.0.1|10.0.0.2|||1|2|big|1.0"},
		{"bad timestamp", "10.0.0.1|10.0.0.2|||1|2|100|later"},
		{"bad inner length", "10.0.0.1|10.0.0.2|||1|2|100|1.0|initial|x"},
	}

	for _, tc := range cases {
		if ev, err := p.ParseLine(tc.line); err == nil {
			t.Errorf("%s: expected skip, got event %+v", tc.name, ev)
		}
	}
}

func TestParseLineEmptyNumericDefaults(t *testing.T) {
	p := NewParser("|")

	// Empty size and timestamp fields default to zero rather than skipping.
	ev, err := p.ParseLine("10.0.0.1|10.0.0.2|||1|2||")
	if err != nil {
		t.Fatalf("ParseLine failed: %v", err)
	}
	if ev.Size != 0 || ev.Timestamp != 0 {
		t.Errorf("expected zero defaults, got size=%d ts=%v", ev.Size, ev.Timestamp)
	}
}
