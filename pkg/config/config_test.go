package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// TestLoadMissingConfig verifies that a missing file gives the defaults
func TestLoadMissingConfig(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Errorf("Unexpected config (-want +got):\n%s", diff)
	}
}

// TestConfigRoundTrip verifies that a saved config loads back unchanged
func TestConfigRoundTrip(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "config_test")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tempDir)

	cfg := DefaultConfig()
	cfg.Processing.Workers = 3
	cfg.Processing.SafeBorder = true
	cfg.Operation.Name = "opening"
	cfg.Operation.Algorithm = "anchor"
	boundary := 12.0
	cfg.Operation.Boundary = &boundary
	cfg.Element.Shape = "poly"
	cfg.Element.Radius = []int{4, 4}
	cfg.Element.Lines = 6
	cfg.Perf.Radii = []int{3, 9}

	path := filepath.Join(tempDir, "nested", "ndmorph.yaml")
	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}
	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if diff := cmp.Diff(cfg, loaded); diff != "" {
		t.Errorf("Config changed in round trip (-want +got):\n%s", diff)
	}
}

// TestPartialConfig verifies that unset keys keep their defaults
func TestPartialConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	data := []byte("operation:\n  name: closing\nelement:\n  radius: [2, 3]\noutput:\n  sliceAxis: z\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Operation.Name != "closing" {
		t.Errorf("Expected operation closing, got %s", cfg.Operation.Name)
	}
	if cfg.Operation.Algorithm != "auto" {
		t.Errorf("Expected default algorithm auto, got %s", cfg.Operation.Algorithm)
	}
	if diff := cmp.Diff([]int{2, 3}, cfg.Element.Radius); diff != "" {
		t.Errorf("Unexpected radius (-want +got):\n%s", diff)
	}
	if cfg.Operation.Boundary != nil {
		t.Errorf("Expected no boundary, got %v", *cfg.Operation.Boundary)
	}
	if cfg.Output.SliceAxis != "z" || cfg.Output.Format != "png" {
		t.Errorf("Expected slice axis z and format png, got %q and %q", cfg.Output.SliceAxis, cfg.Output.Format)
	}
}

// TestInvalidConfig verifies that bad values are rejected
func TestInvalidConfig(t *testing.T) {
	tests := map[string]string{
		"iterations": "processing:\n  iterations: 0\n",
		"radius":     "element:\n  radius: [1, -2]\n",
		"repeats":    "perf:\n  repeats: 0\n",
		"sliceAxis":  "output:\n  sliceAxis: w\n",
		"yaml":       "processing: [\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name+".yaml")
			if err := os.WriteFile(path, []byte(body), 0644); err != nil {
				t.Fatalf("Failed to write config: %v", err)
			}
			if _, err := LoadConfig(path); err == nil {
				t.Errorf("Expected an error for %s", name)
			}
		})
	}
}

// TestCreateDefaultConfigFile verifies that the default file can be loaded
func TestCreateDefaultConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "default.yaml")
	if err := CreateDefaultConfigFile(path); err != nil {
		t.Fatalf("Failed to create default config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to load default config: %v", err)
	}
	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Errorf("Default config changed (-want +got):\n%s", diff)
	}
}
