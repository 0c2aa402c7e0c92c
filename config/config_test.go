package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultConfigValues(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Execution.MaxCycles != 10_000_000 {
		t.Fatalf("MaxCycles = %d, want 10000000", cfg.Execution.MaxCycles)
	}
	if cfg.Execution.LegacyBranchOffsets {
		t.Fatalf("LegacyBranchOffsets should default to false")
	}
	if cfg.Pipeline.EnabledByDefault {
		t.Fatalf("pipeline should default to disabled")
	}
	if cfg.Console.OutputBufferCap <= 0 {
		t.Fatalf("expected a positive default output buffer cap")
	}
}

func TestLoadFromMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Execution.MaxCycles != DefaultConfig().Execution.MaxCycles {
		t.Fatalf("expected defaults when config file is absent")
	}
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Execution.MaxCycles = 42
	cfg.Execution.LegacyBranchOffsets = true

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if got.Execution.MaxCycles != 42 {
		t.Fatalf("MaxCycles = %d, want 42", got.Execution.MaxCycles)
	}
	if !got.Execution.LegacyBranchOffsets {
		t.Fatalf("expected LegacyBranchOffsets to round-trip as true")
	}
}
