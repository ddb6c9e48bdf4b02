package app

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/decker502/antpath/pkg/config"
	"github.com/decker502/antpath/pkg/embedded"
)

// TestLoadConfig_Sources 配置来源优先级：文件 > 嵌入 > 内置默认
func TestLoadConfig_Sources(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "viewer.yaml")
	if err := os.WriteFile(file, []byte("window:\n  width: 640\n  height: 480\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	embedded.Init(fstest.MapFS{
		DefaultConfigPath: {Data: []byte("data:\n  source: \"embed:sample.csv\"\n")},
	})
	t.Cleanup(func() { embedded.Init(nil) })

	fromFile, err := LoadConfig(Config{ConfigPath: file})
	if err != nil {
		t.Fatalf("file config: %v", err)
	}
	if fromFile.Window.Width != 640 || fromFile.Window.Height != 480 {
		t.Errorf("file window = %dx%d", fromFile.Window.Width, fromFile.Window.Height)
	}

	fromEmbed, err := LoadConfig(Config{})
	if err != nil {
		t.Fatalf("embedded config: %v", err)
	}
	if fromEmbed.Data.Source != "embed:sample.csv" {
		t.Errorf("embedded source = %q", fromEmbed.Data.Source)
	}

	embedded.Init(nil)
	builtin, err := LoadConfig(Config{})
	if err != nil {
		t.Fatalf("builtin config: %v", err)
	}
	if builtin.Window != config.DefaultAppConfig().Window {
		t.Errorf("builtin window = %+v", builtin.Window)
	}
}

// TestLoadConfig_Overrides 命令行参数覆盖配置文件
func TestLoadConfig_Overrides(t *testing.T) {
	embedded.Init(nil)

	cfg, err := LoadConfig(Config{
		DataSource: "https://example.com/path.csv",
		Watch:      true,
		Width:      1600,
		Height:     900,
	})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Data.Source != "https://example.com/path.csv" || !cfg.Data.Watch {
		t.Errorf("data = %+v", cfg.Data)
	}
	if cfg.Window.Width != 1600 || cfg.Window.Height != 900 {
		t.Errorf("window = %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
}

// TestLoadConfig_Errors 配置文件不存在或无效时报错
func TestLoadConfig_Errors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("camera:\n  fov: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		cfg  Config
	}{
		{"missing file", Config{ConfigPath: filepath.Join(dir, "none.yaml")}},
		{"invalid camera", Config{ConfigPath: bad}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadConfig(tt.cfg); err == nil {
				t.Error("expected error")
			}
		})
	}
}
