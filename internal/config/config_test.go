package config

import (
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.World.FixedDt <= 0 {
		t.Error("fixed dt should be positive")
	}
	if cfg.World.MaxFrameDelta < cfg.World.FixedDt {
		t.Error("max frame delta should cover at least one step")
	}
	if cfg.Jump.MinHeightFraction <= 0 || cfg.Jump.MinHeightFraction > 1 {
		t.Errorf("min height fraction out of range: %f", cfg.Jump.MinHeightFraction)
	}
	if cfg.Jump.Decay > 1 {
		t.Errorf("jump decay should not exceed 1, got %f", cfg.Jump.Decay)
	}
	if cfg.Fault.Threshold <= 0 {
		t.Error("fault threshold should be positive")
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("floaty")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.World.Gravity != 12.0 {
		t.Errorf("expected gravity 12, got %f", cfg.World.Gravity)
	}
	if cfg.Jump.MaxJumps != 2 {
		t.Errorf("expected 2 jumps, got %d", cfg.Jump.MaxJumps)
	}
	// Untouched fields keep defaults.
	if cfg.World.FixedDt != DefaultFixedDt {
		t.Errorf("expected default dt, got %f", cfg.World.FixedDt)
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	sort.Strings(names)

	require.Contains(t, names, "default")
	require.Contains(t, names, "floaty")
	require.Contains(t, names, "heavy")
	require.Contains(t, names, "speedrun")
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")

	cfg := GetPreset("heavy")
	cfg.Jump.MaxJumps = 4
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg, loaded)
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
