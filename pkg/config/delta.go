package config

import "github.com/decker502/antpath/pkg/camera"

// Delta 是对 ViewerConfig 的一次函数式修改
//
// UI 只产生 Delta，不直接改配置；场景在每帧开始时调用 Apply 统一应用。
type Delta func(*ViewerConfig)

// Apply 依次应用 deltas 并返回限制范围后的新快照，原值不变
func (c ViewerConfig) Apply(deltas ...Delta) ViewerConfig {
	next := c
	for _, d := range deltas {
		if d != nil {
			d(&next)
		}
	}
	next.Clamp()
	return next
}

// SetParam 把数值参数设置为 v；未知键名不做任何修改
func SetParam(key string, v float64) Delta {
	return func(c *ViewerConfig) {
		if p, ok := FindParam(key); ok {
			*p.field(c) = v
		}
	}
}

// NudgeParam 按参数步长调整 steps 步（可为负）
func NudgeParam(key string, steps int) Delta {
	return func(c *ViewerConfig) {
		if p, ok := FindParam(key); ok {
			*p.field(c) += float64(steps) * p.Step
		}
	}
}

// ToggleFisheye 切换鱼眼通道开关
func ToggleFisheye() Delta {
	return func(c *ViewerConfig) { c.FisheyeEnabled = !c.FisheyeEnabled }
}

// ToggleCRT 切换 CRT 通道开关
func ToggleCRT() Delta {
	return func(c *ViewerConfig) { c.CRTEnabled = !c.CRTEnabled }
}

// SetView 记录当前视图，未知视图由 Clamp 恢复为默认
func SetView(kind camera.ViewKind) Delta {
	return func(c *ViewerConfig) { c.View = kind }
}

// ApplyPreset 套用一组配色
func ApplyPreset(p ColorPreset) Delta {
	return func(c *ViewerConfig) {
		c.PathColor = p.Path
		c.DustColor = p.Dust
		c.BackgroundColor = p.Background
	}
}

// ColorPreset 一组预设配色
type ColorPreset struct {
	Name       string `yaml:"name"`
	Path       string `yaml:"path"`
	Dust       string `yaml:"dust"`
	Background string `yaml:"background"`
}

// DefaultPresets 内置配色方案，第一项与默认颜色一致
var DefaultPresets = []ColorPreset{
	{Name: "Blossom", Path: "#F0B7B7", Dust: "#AF85B7", Background: "#171B1C"},
	{Name: "Phosphor", Path: "#7CFF9B", Dust: "#2E8B57", Background: "#050A06"},
	{Name: "Amber", Path: "#FFB347", Dust: "#B8860B", Background: "#120C04"},
	{Name: "Ice", Path: "#B7E3F0", Dust: "#6A8CAF", Background: "#0B1220"},
}
