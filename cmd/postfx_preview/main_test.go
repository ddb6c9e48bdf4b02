package main

import "testing"

// TestBuildConfig --set 覆盖和开关
func TestBuildConfig(t *testing.T) {
	cfg, err := buildConfig([]string{"crtNoise=0.5", "fisheyeCrop=9"}, false, true)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.FisheyeEnabled || !cfg.CRTEnabled {
		t.Errorf("toggles = %v/%v", cfg.FisheyeEnabled, cfg.CRTEnabled)
	}
	if cfg.NoiseIntensity != 0.5 {
		t.Errorf("crtNoise = %v", cfg.NoiseIntensity)
	}
	if cfg.FisheyeCrop != 0.5 {
		t.Errorf("fisheyeCrop = %v, want clamped 0.5", cfg.FisheyeCrop)
	}

	for _, bad := range []string{"crtNoise", "nope=1", "crtNoise=abc"} {
		if _, err := buildConfig([]string{bad}, true, true); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

// TestLoadSourcePattern 生成测试图
func TestLoadSourcePattern(t *testing.T) {
	img, err := loadSource("", "64x32")
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 32 {
		t.Errorf("size = %v", b)
	}
	if _, err := loadSource("", "wide"); err == nil {
		t.Error("expected error for bad size")
	}
}
