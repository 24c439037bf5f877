package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfigDefaultsAndWindowOrder(t *testing.T) {
	path := writeConfig(t, `
extract:
  input_root: ./captures
  windows: [20, 5, 15, 10]
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Extract.Delimiter != "|" || cfg.Extract.RecordExtension != ".psv" {
		t.Errorf("defaults not applied: %+v", cfg.Extract)
	}
	want := []int{5, 10, 15, 20}
	for i, w := range cfg.Extract.Windows {
		if w != want[i] {
			t.Errorf("windows should be normalized ascending, got %v", cfg.Extract.Windows)
			break
		}
	}
}

func TestLoadConfigRejectsBadWindows(t *testing.T) {
	for _, windows := range []string{"[0]", "[-3]", "[5, 5]"} {
		path := writeConfig(t, `
extract:
  input_root: ./captures
  windows: `+windows+`
`)
		if _, err := LoadConfig(path); err == nil {
			t.Errorf("windows %s should be rejected", windows)
		}
	}
}

func TestLoadConfigRequiresInputRoot(t *testing.T) {
	path := writeConfig(t, "extract: {}\n")
	if _, err := LoadConfig(path); err == nil {
		t.Errorf("missing input_root should be rejected")
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("QS_INPUT_ROOT", "/mnt/captures")

	path := writeConfig(t, `
extract:
  input_root: ./captures
`)
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Extract.InputRoot != "/mnt/captures" {
		t.Errorf("environment override not applied, got %q", cfg.Extract.InputRoot)
	}
}
