package config

import (
	"fmt"
	"math"

	"github.com/decker502/antpath/pkg/camera"
	"github.com/decker502/antpath/pkg/utils"
)

// ViewerConfig 查看器的全部运行时参数
//
// 所有字段都是具名的类型化字段，同时带 json（持久化）和 yaml（默认值文件）标签。
// 渲染核心每帧只读取一次快照；修改只能通过 Delta 在帧开始时统一应用。
type ViewerConfig struct {
	// 播放
	Speed float64 `json:"speed" yaml:"speed"` // 每秒推进的进度（1.0 = 一个线段）

	// 当前视图（视图表中的 ID）
	View camera.ViewKind `json:"view" yaml:"view"`

	// 颜色（#RRGGBB）
	PathColor       string `json:"pathColor" yaml:"path_color"`
	DustColor       string `json:"dustColor" yaml:"dust_color"`
	BackgroundColor string `json:"bgColor" yaml:"background_color"`

	// 雾与尘埃
	FogDensity float64 `json:"fogDensity" yaml:"fog_density"` // 尘埃的 exp² 雾密度
	FogVolume  float64 `json:"fogVolume" yaml:"fog_volume"`   // 尘埃云整体缩放
	PathFog    float64 `json:"pathFog" yaml:"path_fog"`       // 轨迹线的距离雾强度
	DustFloat  float64 `json:"dustFloat" yaml:"dust_float"`   // 尘埃漂浮幅度
	DustBreath float64 `json:"dustBreath" yaml:"dust_breath"` // 尘埃呼吸缩放幅度

	// 鱼眼
	FisheyeEnabled    bool    `json:"enableFisheye" yaml:"fisheye_enabled"`
	FisheyeDistortion float64 `json:"fisheyeDistortion" yaml:"fisheye_distortion"`
	FisheyeDispersion float64 `json:"fisheyeDispersion" yaml:"fisheye_dispersion"`
	FisheyeCrop       float64 `json:"fisheyeCrop" yaml:"fisheye_crop"`
	FisheyeAlpha      float64 `json:"fisheyeAlpha" yaml:"fisheye_alpha"`

	// CRT
	CRTEnabled        bool    `json:"enableCRT" yaml:"crt_enabled"`
	ScanlineIntensity float64 `json:"crtScanlines" yaml:"scanline_intensity"`
	ScanlineCount     float64 `json:"crtScanlineCount" yaml:"scanline_count"`
	VignetteIntensity float64 `json:"crtVignette" yaml:"vignette_intensity"`
	NoiseIntensity    float64 `json:"crtNoise" yaml:"noise_intensity"`
	Curvature         float64 `json:"crtCurvature" yaml:"curvature"`
	Brightness        float64 `json:"crtBrightness" yaml:"brightness"`
	Contrast          float64 `json:"crtContrast" yaml:"contrast"`
}

// DefaultViewerConfig 返回内置默认参数
func DefaultViewerConfig() ViewerConfig {
	return ViewerConfig{
		Speed: 6.0,
		View:  camera.ViewPerspective,

		PathColor:       "#F0B7B7",
		DustColor:       "#AF85B7",
		BackgroundColor: "#171B1C",

		FogDensity: 0.015,
		FogVolume:  1.0,
		PathFog:    0.10,
		DustFloat:  0.06,
		DustBreath: 0.01,

		FisheyeEnabled:    true,
		FisheyeDistortion: 0.30,
		FisheyeDispersion: 0.60,
		FisheyeCrop:       0.33,
		FisheyeAlpha:      1.0,

		CRTEnabled:        true,
		ScanlineIntensity: 0.73,
		ScanlineCount:     800,
		VignetteIntensity: 0.92,
		NoiseIntensity:    0.30,
		Curvature:         0.1,
		Brightness:        1.1,
		Contrast:          1.2,
	}
}

// Param 描述一个可调的数值参数（面板滑块）
type Param struct {
	Key   string
	Label string
	Min   float64
	Max   float64
	Step  float64
	field func(*ViewerConfig) *float64
}

// Get 读取参数当前值
func (p Param) Get(c *ViewerConfig) float64 {
	return *p.field(c)
}

// Params 面板上按顺序排列的数值参数表
var Params = []Param{
	{"speed", "Speed", 0.12, 24, 0.12, func(c *ViewerConfig) *float64 { return &c.Speed }},
	{"fogDensity", "Fog", 0.001, 0.05, 0.001, func(c *ViewerConfig) *float64 { return &c.FogDensity }},
	{"fogVolume", "Fog volume", 0.1, 3, 0.1, func(c *ViewerConfig) *float64 { return &c.FogVolume }},
	{"pathFog", "Path fog", 0.01, 0.5, 0.01, func(c *ViewerConfig) *float64 { return &c.PathFog }},
	{"dustFloat", "Dust float", 0, 0.5, 0.005, func(c *ViewerConfig) *float64 { return &c.DustFloat }},
	{"dustBreath", "Dust breath", 0, 0.5, 0.005, func(c *ViewerConfig) *float64 { return &c.DustBreath }},
	{"fisheyeDistortion", "Distortion", 0, 1, 0.01, func(c *ViewerConfig) *float64 { return &c.FisheyeDistortion }},
	{"fisheyeDispersion", "Dispersion", 0, 1, 0.01, func(c *ViewerConfig) *float64 { return &c.FisheyeDispersion }},
	{"fisheyeCrop", "Crop", 0, 0.5, 0.01, func(c *ViewerConfig) *float64 { return &c.FisheyeCrop }},
	{"crtScanlines", "Scanlines", 0, 1, 0.01, func(c *ViewerConfig) *float64 { return &c.ScanlineIntensity }},
	{"crtScanlineCount", "Scanline count", 100, 2000, 50, func(c *ViewerConfig) *float64 { return &c.ScanlineCount }},
	{"crtVignette", "Vignette", 0, 1, 0.01, func(c *ViewerConfig) *float64 { return &c.VignetteIntensity }},
	{"crtNoise", "Noise", 0, 1, 0.01, func(c *ViewerConfig) *float64 { return &c.NoiseIntensity }},
	{"crtCurvature", "Curvature", 0, 1, 0.01, func(c *ViewerConfig) *float64 { return &c.Curvature }},
	{"crtBrightness", "Brightness", 0.5, 2, 0.05, func(c *ViewerConfig) *float64 { return &c.Brightness }},
	{"crtContrast", "Contrast", 0.5, 2, 0.05, func(c *ViewerConfig) *float64 { return &c.Contrast }},
}

// FindParam 按键名查找参数
func FindParam(key string) (Param, bool) {
	for _, p := range Params {
		if p.Key == key {
			return p, true
		}
	}
	return Param{}, false
}

// Clamp 把所有数值限制在参数表的范围内，并修复非法值
//
// NaN 恢复为默认值；非法颜色和未知视图恢复为默认值。
func (c *ViewerConfig) Clamp() {
	def := DefaultViewerConfig()
	for _, p := range Params {
		v := p.field(c)
		if math.IsNaN(*v) {
			*v = *p.field(&def)
			continue
		}
		*v = utils.ClampFloat(*v, p.Min, p.Max)
	}
	if math.IsNaN(c.FisheyeAlpha) {
		c.FisheyeAlpha = def.FisheyeAlpha
	}
	c.FisheyeAlpha = utils.ClampFloat(c.FisheyeAlpha, 0, 1)

	if !c.View.Valid() {
		c.View = def.View
	}

	if _, err := utils.ParseHexColor(c.PathColor); err != nil {
		c.PathColor = def.PathColor
	}
	if _, err := utils.ParseHexColor(c.DustColor); err != nil {
		c.DustColor = def.DustColor
	}
	if _, err := utils.ParseHexColor(c.BackgroundColor); err != nil {
		c.BackgroundColor = def.BackgroundColor
	}
}

// Validate 检查颜色字段格式
func (c ViewerConfig) Validate() error {
	colors := []struct{ name, hex string }{
		{"pathColor", c.PathColor},
		{"dustColor", c.DustColor},
		{"bgColor", c.BackgroundColor},
	}
	for _, col := range colors {
		if _, err := utils.ParseHexColor(col.hex); err != nil {
			return fmt.Errorf("invalid %s: %w", col.name, err)
		}
	}
	return nil
}
