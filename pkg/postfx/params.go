package postfx

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/decker502/antpath/pkg/config"
)

// DispersionScale 色散强度换算到每通道鱼眼强度差的比例
const DispersionScale = 0.005

// DistortionParams 鱼眼通道参数
type DistortionParams struct {
	Distortion float64 // 基础鱼眼强度 d
	Dispersion float64 // 色散量 k
	Crop       float64 // 中心裁剪比例 c
	Alpha      float64 // 输出不透明度
}

// CRTParams CRT 通道参数（分辨率与时间来自 RenderContext）
type CRTParams struct {
	ScanlineIntensity float64
	ScanlineCount     float64
	VignetteIntensity float64
	NoiseIntensity    float64
	Curvature         float64
	Brightness        float64
	Contrast          float64
}

// DistortionParamsFrom 从配置快照构造鱼眼参数
func DistortionParamsFrom(c config.ViewerConfig) DistortionParams {
	return DistortionParams{
		Distortion: c.FisheyeDistortion,
		Dispersion: c.FisheyeDispersion,
		Crop:       c.FisheyeCrop,
		Alpha:      c.FisheyeAlpha,
	}
}

// CRTParamsFrom 从配置快照构造 CRT 参数
func CRTParamsFrom(c config.ViewerConfig) CRTParams {
	return CRTParams{
		ScanlineIntensity: c.ScanlineIntensity,
		ScanlineCount:     c.ScanlineCount,
		VignetteIntensity: c.VignetteIntensity,
		NoiseIntensity:    c.NoiseIntensity,
		Curvature:         c.Curvature,
		Brightness:        c.Brightness,
		Contrast:          c.Contrast,
	}
}

// Uniforms 转换为 distortion.kage 的 uniform 表
func (p DistortionParams) Uniforms(time float64) map[string]any {
	return map[string]any{
		"Distortion": float32(p.Distortion),
		"Dispersion": float32(p.Dispersion),
		"Crop":       float32(p.Crop),
		"Time":       float32(time),
		"Alpha":      float32(p.Alpha),
	}
}

// Uniforms 转换为 crt.kage 的 uniform 表
func (p CRTParams) Uniforms(resolution mgl64.Vec2, time float64) map[string]any {
	return map[string]any{
		"ScanlineIntensity": float32(p.ScanlineIntensity),
		"ScanlineCount":     float32(p.ScanlineCount),
		"VignetteIntensity": float32(p.VignetteIntensity),
		"NoiseIntensity":    float32(p.NoiseIntensity),
		"Curvature":         float32(p.Curvature),
		"Brightness":        float32(p.Brightness),
		"Contrast":          float32(p.Contrast),
		"Resolution":        []float32{float32(resolution.X()), float32(resolution.Y())},
		"Time":              float32(time),
	}
}
