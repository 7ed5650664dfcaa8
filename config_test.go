package gosie2d

import (
	"errors"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("GOSIETEST")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Resolution != 320 || cfg.ScreenWidth != 960 || cfg.ScreenHeight != 600 {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if !cfg.UseBSP || cfg.MapPath != "" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	if _, ok := cfg.Caster().(BSPCaster); !ok {
		t.Errorf("BSP casting is on by default")
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("GOSIETEST_RESOLUTION", "64")
	t.Setenv("GOSIETEST_USE_BSP", "false")
	t.Setenv("GOSIETEST_FADE_DISTANCE", "12.5")
	t.Setenv("GOSIETEST_MAP_PATH", "maps/hall.json")

	cfg, err := LoadConfig("GOSIETEST")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Resolution != 64 || cfg.UseBSP || cfg.FadeDistance != 12.5 || cfg.MapPath != "maps/hall.json" {
		t.Errorf("overrides not applied: %+v", cfg)
	}

	vp := cfg.Viewport()
	if vp.Resolution != 64 || vp.Width != cfg.ScreenWidth {
		t.Errorf("unexpected viewport %+v", vp)
	}
	r := cfg.Renderer()
	if _, ok := r.Caster.(BruteForceCaster); !ok || r.FadeDistance != 12.5 {
		t.Errorf("unexpected renderer %+v", r)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	testCases := []struct {
		name  string
		key   string
		value string
	}{
		{"fov too wide", "GOSIETEST_FOV", "3.5"},
		{"no rays", "GOSIETEST_RESOLUTION", "0"},
		{"negative clearance", "GOSIETEST_CLEARANCE", "-1"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.key, tc.value)
			_, err := LoadConfig("GOSIETEST")
			var cfgErr *ConfigurationError
			if !errors.As(err, &cfgErr) {
				t.Errorf("expected ConfigurationError, got %v", err)
			}
		})
	}

	t.Run("not a number", func(t *testing.T) {
		t.Setenv("GOSIETEST_SCREEN_WIDTH", "wide")
		if _, err := LoadConfig("GOSIETEST"); err == nil {
			t.Errorf("expected a parse error")
		}
	})
}
