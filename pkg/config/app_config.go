package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AppConfig 应用级配置（YAML）
//
// 内置默认值来自嵌入的 data/config.yaml，可以用 --config 指定的文件覆盖。
// 未出现在 YAML 中的字段保留默认值。
type AppConfig struct {
	Window  WindowConfig  `yaml:"window"`
	Data    DataConfig    `yaml:"data"`
	Dust    DustConfig    `yaml:"dust"`
	Camera  CameraConfig  `yaml:"camera"`
	Storage StorageConfig `yaml:"storage"`

	// Presets 面板上可切换的配色方案
	Presets []ColorPreset `yaml:"presets,omitempty"`

	// Defaults 查看器参数的默认值（没有持久化配置时使用）
	Defaults ViewerConfig `yaml:"defaults"`
}

// WindowConfig 窗口配置
type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

// DataConfig 轨迹数据来源
type DataConfig struct {
	// Source 文件路径或 http(s) URL；为空时使用示例数据
	Source string `yaml:"source"`
	// Watch 数据文件变化时自动重新加载（仅本地文件）
	Watch bool `yaml:"watch"`
}

// DustConfig 尘埃云生成参数
type DustConfig struct {
	Count   int     `yaml:"count"`
	Spread  float64 `yaml:"spread"`
	Size    float64 `yaml:"size"`    // 世界单位下的粒子直径
	Opacity float64 `yaml:"opacity"` // 叠加混合时的不透明度
	Seed    int64   `yaml:"seed"`    // 0 表示使用时间种子
}

// CameraConfig 透视相机参数
type CameraConfig struct {
	FOV  float64 `yaml:"fov"` // 垂直视角（度）
	Near float64 `yaml:"near"`
	Far  float64 `yaml:"far"`
}

// StorageConfig 持久化存储配置
type StorageConfig struct {
	AppName string `yaml:"app_name"`
}

// DefaultAppConfig 返回不依赖任何文件的默认配置
func DefaultAppConfig() *AppConfig {
	return &AppConfig{
		Window: WindowConfig{Width: 1280, Height: 720, Title: "Ant Path 3D"},
		Data:   DataConfig{Source: "data.csv"},
		Dust:   DustConfig{Count: 800, Spread: 100, Size: 0.8, Opacity: 0.4},
		Camera: CameraConfig{FOV: 75, Near: 0.1, Far: 5000},
		Storage: StorageConfig{
			AppName: "antpath",
		},
		Presets:  append([]ColorPreset(nil), DefaultPresets...),
		Defaults: DefaultViewerConfig(),
	}
}

// ParseAppConfig 在默认配置之上解析 YAML 内容
//
// 参数：
//   - data: YAML 内容
//
// 返回：
//   - *AppConfig: 合并后的配置
//   - error: 解析或校验错误
func ParseAppConfig(data []byte) (*AppConfig, error) {
	cfg := DefaultAppConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse app config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Defaults.Clamp()
	return cfg, nil
}

// LoadAppConfig 从文件加载配置
func LoadAppConfig(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read app config %s: %w", path, err)
	}
	cfg, err := ParseAppConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate 检查结构性错误（数值范围问题由 Clamp 修正，不算错误）
func (c *AppConfig) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("invalid window size %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Dust.Count < 0 {
		return fmt.Errorf("invalid dust count %d", c.Dust.Count)
	}
	if c.Camera.FOV <= 0 || c.Camera.FOV >= 180 {
		return fmt.Errorf("invalid camera fov %.1f", c.Camera.FOV)
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		return fmt.Errorf("invalid camera clip planes near=%.3f far=%.3f", c.Camera.Near, c.Camera.Far)
	}
	if c.Storage.AppName == "" {
		return fmt.Errorf("storage.app_name must not be empty")
	}
	for i, p := range c.Presets {
		if p.Name == "" {
			return fmt.Errorf("preset %d has no name", i)
		}
	}
	return nil
}
