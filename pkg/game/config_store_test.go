package game

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/quasilyte/gdata/v2"

	"github.com/decker502/antpath/pkg/camera"
	"github.com/decker502/antpath/pkg/config"
)

// createTestGdataManager 创建用于测试的 gdata Manager
func createTestGdataManager(t *testing.T, testName string) *gdata.Manager {
	appName := fmt.Sprintf("antpath_test_%s_%d", testName, time.Now().UnixNano())
	manager, err := gdata.Open(gdata.Config{
		AppName: appName,
	})
	if err != nil {
		return nil
	}

	// 注册清理函数，测试结束后删除测试目录
	t.Cleanup(func() {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			testDir := filepath.Join(homeDir, ".local", "share", appName)
			os.RemoveAll(testDir)
		}
	})

	return manager
}

// TestConfigStore_NilManager 降级模式：读取返回默认值，保存不报错
func TestConfigStore_NilManager(t *testing.T) {
	store := NewConfigStore(nil, config.DefaultViewerConfig())

	if store.Persistent() {
		t.Error("nil manager should not be persistent")
	}
	cfg, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg != config.DefaultViewerConfig() {
		t.Error("Load() without storage should return defaults")
	}

	cfg.Speed = 12
	if err := store.Save(cfg); err != nil {
		t.Errorf("Save() error = %v", err)
	}
}

// TestConfigStore_SaveLoadRoundTrip 保存后重新打开能读到相同配置
func TestConfigStore_SaveLoadRoundTrip(t *testing.T) {
	manager := createTestGdataManager(t, "roundtrip")
	if manager == nil {
		t.Skip("Cannot create gdata manager for testing")
	}

	store := NewConfigStore(manager, config.DefaultViewerConfig())
	cfg, err := store.Load()
	if err != nil {
		t.Fatalf("initial Load() error = %v", err)
	}

	cfg = cfg.Apply(
		config.SetParam("speed", 3),
		config.ToggleCRT(),
		config.ApplyPreset(config.DefaultPresets[1]),
		config.SetView(camera.ViewTop),
	)
	if err := store.Save(cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	reopened := NewConfigStore(manager, config.DefaultViewerConfig())
	got, err := reopened.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.View != camera.ViewTop {
		t.Errorf("view = %v, want %v", got.View, camera.ViewTop)
	}
	if got != cfg {
		t.Errorf("round trip mismatch:\n got  %+v\n want %+v", got, cfg)
	}
}

// TestConfigStore_CorruptData 数据损坏时返回默认值和错误
func TestConfigStore_CorruptData(t *testing.T) {
	manager := createTestGdataManager(t, "corrupt")
	if manager == nil {
		t.Skip("Cannot create gdata manager for testing")
	}
	if err := manager.SaveObjectProp(configObject, configProperty, []byte("{not json")); err != nil {
		t.Fatalf("SaveObjectProp error = %v", err)
	}

	store := NewConfigStore(manager, config.DefaultViewerConfig())
	cfg, err := store.Load()
	if err == nil {
		t.Error("expected error for corrupt data")
	}
	if cfg != config.DefaultViewerConfig() {
		t.Error("corrupt data should fall back to defaults")
	}
	if got := store.LoadOrDefault(); got != config.DefaultViewerConfig() {
		t.Error("LoadOrDefault should return defaults")
	}
}

// TestDecodeViewerConfig 部分字段覆盖默认值，越界被限制，未知字段忽略
func TestDecodeViewerConfig(t *testing.T) {
	defaults := config.DefaultViewerConfig()

	tests := []struct {
		name    string
		json    string
		check   func(c config.ViewerConfig) error
		wantErr bool
	}{
		{
			name: "partial",
			json: `{"speed": 2.4, "pathColor": "#00ff00"}`,
			check: func(c config.ViewerConfig) error {
				if c.Speed != 2.4 || c.PathColor != "#00ff00" || c.DustColor != defaults.DustColor {
					return fmt.Errorf("got %+v", c)
				}
				return nil
			},
		},
		{
			name: "out of range",
			json: `{"fogDensity": 99, "crtBrightness": -4}`,
			check: func(c config.ViewerConfig) error {
				p, _ := config.FindParam("fogDensity")
				if c.FogDensity != p.Max {
					return fmt.Errorf("fogDensity = %v, want %v", c.FogDensity, p.Max)
				}
				return nil
			},
		},
		{
			name: "unknown keys",
			json: `{"somethingElse": true, "enableCRT": false}`,
			check: func(c config.ViewerConfig) error {
				if c.CRTEnabled {
					return errors.New("enableCRT not applied")
				}
				return nil
			},
		},
		{
			name: "view",
			json: `{"view": 3}`,
			check: func(c config.ViewerConfig) error {
				if c.View != camera.ViewLeft {
					return fmt.Errorf("view = %v, want %v", c.View, camera.ViewLeft)
				}
				return nil
			},
		},
		{
			name: "unknown view",
			json: `{"view": 42}`,
			check: func(c config.ViewerConfig) error {
				if c.View != defaults.View {
					return fmt.Errorf("view = %v, want default %v", c.View, defaults.View)
				}
				return nil
			},
		},
		{name: "not an object", json: `[1, 2, 3]`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeViewerConfig([]byte(tt.json), defaults)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if got != defaults {
					t.Error("error case should return defaults")
				}
				return
			}
			if err := tt.check(got); err != nil {
				t.Error(err)
			}
		})
	}
}

// TestEncodeViewerConfigFlat 序列化结果是扁平对象，使用约定的键名
func TestEncodeViewerConfigFlat(t *testing.T) {
	data, err := EncodeViewerConfig(config.DefaultViewerConfig())
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{`"speed"`, `"pathColor"`, `"enableFisheye"`, `"enableCRT"`, `"crtScanlines"`, `"view"`} {
		if !bytes.Contains(data, []byte(key)) {
			t.Errorf("encoded config lacks %s: %s", key, data)
		}
	}
}
