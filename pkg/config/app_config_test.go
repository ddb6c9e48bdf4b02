package config

import (
	"os"
	"path/filepath"
	"testing"
)

// TestParseAppConfigOverlay YAML 中出现的字段覆盖默认值，其余保留
func TestParseAppConfigOverlay(t *testing.T) {
	yamlContent := `
window:
  width: 800
data:
  source: "https://example.com/path.csv"
defaults:
  fisheye_distortion: 0.5
`
	cfg, err := ParseAppConfig([]byte(yamlContent))
	if err != nil {
		t.Fatalf("ParseAppConfig failed: %v", err)
	}

	if cfg.Window.Width != 800 {
		t.Errorf("expected width 800, got %d", cfg.Window.Width)
	}
	if cfg.Window.Height != 720 {
		t.Errorf("height should keep default 720, got %d", cfg.Window.Height)
	}
	if cfg.Data.Source != "https://example.com/path.csv" {
		t.Errorf("unexpected source %q", cfg.Data.Source)
	}
	if cfg.Defaults.FisheyeDistortion != 0.5 {
		t.Errorf("expected distortion 0.5, got %v", cfg.Defaults.FisheyeDistortion)
	}
	if cfg.Defaults.ScanlineIntensity != 0.73 {
		t.Errorf("scanlines should keep default, got %v", cfg.Defaults.ScanlineIntensity)
	}
	if cfg.Dust.Count != 800 {
		t.Errorf("dust count should keep default 800, got %d", cfg.Dust.Count)
	}
}

// TestParseAppConfigErrors 结构性错误返回 error
func TestParseAppConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"语法错误", "window: [1, 2"},
		{"窗口尺寸非法", "window:\n  width: 0\n"},
		{"视角非法", "camera:\n  fov: 190\n"},
		{"裁剪面非法", "camera:\n  near: 10\n  far: 1\n"},
		{"存储名为空", "storage:\n  app_name: \"\"\n"},
		{"尘埃数量为负", "dust:\n  count: -1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseAppConfig([]byte(tt.content)); err == nil {
				t.Errorf("expected error for %q", tt.content)
			}
		})
	}
}

// TestParseAppConfigClampsDefaults 默认参数越界时被修正而不是报错
func TestParseAppConfigClampsDefaults(t *testing.T) {
	cfg, err := ParseAppConfig([]byte("defaults:\n  fisheye_crop: 3\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Defaults.FisheyeCrop != 0.5 {
		t.Errorf("expected crop clamped to 0.5, got %v", cfg.Defaults.FisheyeCrop)
	}
}

// TestLoadAppConfigFile 测试从磁盘加载以及文件缺失
func TestLoadAppConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("window:\n  title: \"test\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}
	if cfg.Window.Title != "test" {
		t.Errorf("expected title 'test', got %q", cfg.Window.Title)
	}

	if _, err := LoadAppConfig(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

// TestEmbeddedDefaultsFile 仓库内的默认配置文件与内置默认值一致
func TestEmbeddedDefaultsFile(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("..", "..", "data", "config.yaml"))
	if err != nil {
		t.Skipf("data/config.yaml not available: %v", err)
	}
	cfg, err := ParseAppConfig(data)
	if err != nil {
		t.Fatalf("data/config.yaml should parse: %v", err)
	}
	if cfg.Defaults != DefaultViewerConfig() {
		t.Errorf("data/config.yaml defaults differ from DefaultViewerConfig:\n%+v\n%+v", cfg.Defaults, DefaultViewerConfig())
	}
	if len(cfg.Presets) != len(DefaultPresets) {
		t.Errorf("expected %d presets, got %d", len(DefaultPresets), len(cfg.Presets))
	}
}
