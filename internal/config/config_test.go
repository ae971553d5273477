package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Class != "class2" {
		t.Errorf("expected default class2, got %s", cfg.Class)
	}
	if cfg.Integrator != "bdf2" {
		t.Errorf("expected default bdf2, got %s", cfg.Integrator)
	}
	if cfg.Dt != DefaultDt {
		t.Errorf("expected dt %f, got %f", DefaultDt, cfg.Dt)
	}
	if cfg.Sweep.From != 30 || cfg.Sweep.To != 60 {
		t.Errorf("expected sweep window [30, 60], got [%f, %f]", cfg.Sweep.From, cfg.Sweep.To)
	}
	if cfg.InitState.V != -70 || cfg.InitState.W != 0 {
		t.Errorf("expected initial state (-70, 0), got (%f, %f)", cfg.InitState.V, cfg.InitState.W)
	}
}

func TestGetPreset(t *testing.T) {
	sub := GetPreset("subthreshold")
	if sub == nil {
		t.Fatal("missing subthreshold preset")
	}
	if sub.Stimulus != 38 {
		t.Errorf("expected stimulus 38, got %f", sub.Stimulus)
	}

	spk := GetPreset("spiking")
	if spk == nil || spk.Stimulus != 45 {
		t.Fatal("expected spiking preset with stimulus 45")
	}

	if GetPreset("nope") != nil {
		t.Error("expected nil for unknown preset")
	}

	if len(ListPresets()) != len(Presets) {
		t.Error("ListPresets out of sync with Presets")
	}
}

func TestPresetsResolve(t *testing.T) {
	for name, cfg := range Presets {
		if _, err := cfg.ModelParameters(); err != nil {
			t.Errorf("preset %q does not resolve: %v", name, err)
		}
	}
}

func TestModelParametersClasses(t *testing.T) {
	tests := []struct {
		class string
		bw    float64
	}{
		{"class1", 0},
		{"class2", -13},
		{"class3", -21},
		{"", -13},
	}

	for _, tt := range tests {
		cfg := DefaultConfig()
		cfg.Class = tt.class
		p, err := cfg.ModelParameters()
		if err != nil {
			t.Fatalf("class %q: %v", tt.class, err)
		}
		if p.BW != tt.bw {
			t.Errorf("class %q: expected BW %f, got %f", tt.class, tt.bw, p.BW)
		}
	}

	cfg := DefaultConfig()
	cfg.Class = "class9"
	if _, err := cfg.ModelParameters(); err == nil {
		t.Error("expected error for unknown class")
	}
}

func TestModelParametersOverrides(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Params = map[string]float64{"b_w": -5, "phi_w": 0.3}

	p, err := cfg.ModelParameters()
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if p.BW != -5 {
		t.Errorf("expected BW override -5, got %f", p.BW)
	}
	if p.PhiW != 0.3 {
		t.Errorf("expected PhiW override 0.3, got %f", p.PhiW)
	}

	cfg.Params = map[string]float64{"bogus": 1}
	if _, err := cfg.ModelParameters(); err == nil {
		t.Error("expected error for unknown override")
	}

	cfg.Params = map[string]float64{"g_fast": -1}
	if _, err := cfg.ModelParameters(); err == nil {
		t.Error("expected validation error for negative conductance")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := DefaultConfig()
	cfg.Class = "class3"
	cfg.Stimulus = 55
	cfg.Params = map[string]float64{"phi_w": 0.2}
	cfg.Sweep.Workers = 4

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if loaded.Class != "class3" || loaded.Stimulus != 55 {
		t.Errorf("round trip lost fields: %+v", loaded)
	}
	if loaded.Params["phi_w"] != 0.2 {
		t.Errorf("round trip lost params: %v", loaded.Params)
	}
	if loaded.Sweep.Workers != 4 {
		t.Errorf("round trip lost sweep workers: %d", loaded.Sweep.Workers)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
