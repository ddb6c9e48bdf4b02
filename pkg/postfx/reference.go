package postfx

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/decker502/antpath/pkg/utils"
)

// 本文件是两个着色器的 CPU 实现，逐行对应 shaders/*.kage。
// 单元测试和 cmd/postfx_preview 通过它验证着色数学，不需要 GPU。

// Sampler 按归一化坐标采样预乘 RGBA（[0,1]），坐标超出 [0,1)² 返回全 0
type Sampler interface {
	Sample(uv mgl64.Vec2) mgl64.Vec4
}

// SamplerFunc 函数适配为 Sampler
type SamplerFunc func(uv mgl64.Vec2) mgl64.Vec4

// Sample 实现 Sampler
func (f SamplerFunc) Sample(uv mgl64.Vec2) mgl64.Vec4 {
	return f(uv)
}

// OutOfField 鱼眼视场外的哨兵坐标
var OutOfField = mgl64.Vec2{-1, -1}

var opaqueBlack = mgl64.Vec4{0, 0, 0, 1}

// InField 坐标是否位于 [0,1]²
func InField(uv mgl64.Vec2) bool {
	return uv.X() >= 0 && uv.X() <= 1 && uv.Y() >= 0 && uv.Y() <= 1
}

// Fisheye 径向鱼眼映射
//
// 距中心超过 0.5 的坐标返回 OutOfField；否则返回 0.5 + delta*(1 + s*dist²)。
func Fisheye(uv mgl64.Vec2, strength float64) mgl64.Vec2 {
	delta := uv.Sub(mgl64.Vec2{0.5, 0.5})
	dist := delta.Len()
	if dist > 0.5 {
		return OutOfField
	}
	return mgl64.Vec2{0.5, 0.5}.Add(delta.Mul(1 + strength*dist*dist))
}

// CropUV 以中心为基准放大画面，裁掉 crop 比例的边缘
func CropUV(uv mgl64.Vec2, crop float64) mgl64.Vec2 {
	return uv.Sub(mgl64.Vec2{0.5, 0.5}).Mul(1 - crop).Add(mgl64.Vec2{0.5, 0.5})
}

// ChannelStrengths 红、绿、蓝三个通道各自的鱼眼强度
func ChannelStrengths(p DistortionParams) (r, g, b float64) {
	k := p.Dispersion * DispersionScale
	return p.Distortion + k, p.Distortion, p.Distortion - k
}

// DistortionShade 计算鱼眼通道在 uv 处的输出颜色
func DistortionShade(src Sampler, uv mgl64.Vec2, p DistortionParams) mgl64.Vec4 {
	uv = CropUV(uv, p.Crop)
	if !InField(uv) {
		return opaqueBlack
	}

	sr, sg, sb := ChannelStrengths(p)
	var r, g, b float64
	if c := Fisheye(uv, sr); InField(c) {
		r = src.Sample(c).X()
	}
	if c := Fisheye(uv, sg); InField(c) {
		g = src.Sample(c).Y()
	}
	if c := Fisheye(uv, sb); InField(c) {
		b = src.Sample(c).Z()
	}
	return mgl64.Vec4{r, g, b, 1}.Mul(p.Alpha)
}

// CRTCurve 屏幕曲率映射，返回映射后的坐标以及是否仍在屏幕内
func CRTCurve(uv mgl64.Vec2, curvature float64) (mgl64.Vec2, bool) {
	p := uv.Sub(mgl64.Vec2{0.5, 0.5}).Mul(2)
	qy := math.Abs(p.Y()) / 5
	p[0] *= 1 + qy*qy*curvature
	qx := math.Abs(p.X()) / 4
	p[1] *= 1 + qx*qx*curvature
	out := p.Mul(0.5).Add(mgl64.Vec2{0.5, 0.5})
	return out, InField(out)
}

// Hash 着色器中常用的伪随机哈希，结果在 [0,1)
//
// 与 GPU 结果在最低位上可能不同（float32 对 float64），只用于噪声。
func Hash(co mgl64.Vec2) float64 {
	return utils.Fract(math.Sin(co.Dot(mgl64.Vec2{12.9898, 78.233})) * 43758.5453)
}

// StepNoise 以 20Hz 步进的亮度噪声，返回加到 rgb 上之前的值
func StepNoise(uv mgl64.Vec2, time, intensity float64) float64 {
	step := math.Floor(time*20) * 0.1
	return (Hash(uv.Add(mgl64.Vec2{step, step})) - 0.5) * intensity
}

// Scanline 扫描线亮度系数
func Scanline(uv mgl64.Vec2, count, intensity float64) float64 {
	s := math.Sin(uv.Y()*count)*0.15 + 0.85
	return utils.Lerp(1, s, intensity)
}

// SubpixelFringe 模拟荧光粉条纹的横向亮度系数
func SubpixelFringe(uv mgl64.Vec2, resolutionX float64) float64 {
	return math.Sin(uv.X()*resolutionX*math.Pi*0.5)*0.08 + 0.92
}

// Flicker 整屏闪烁系数
func Flicker(time float64) float64 {
	return 1 + math.Sin(time*30)*0.01
}

// Vignette 乘积形式的暗角系数
func Vignette(uv mgl64.Vec2, intensity float64) float64 {
	vx := uv.X() * (1 - uv.Y())
	vy := uv.Y() * (1 - uv.X())
	f := math.Pow(vx*vy*15, 0.3)
	return utils.Lerp(0.3, 1, f*(1+intensity*2))
}

// CRTShade 计算 CRT 通道在 uv 处的输出颜色
func CRTShade(src Sampler, uv mgl64.Vec2, p CRTParams, resolution mgl64.Vec2, time float64) mgl64.Vec4 {
	uv, ok := CRTCurve(uv, p.Curvature)
	if !ok {
		return opaqueBlack
	}

	rgb := src.Sample(uv).Vec3()
	half := mgl64.Vec3{0.5, 0.5, 0.5}
	rgb = rgb.Sub(half).Mul(p.Contrast).Add(half)
	rgb = rgb.Mul(p.Brightness)

	rgb = rgb.Mul(Scanline(uv, p.ScanlineCount, p.ScanlineIntensity))
	rgb = rgb.Mul(SubpixelFringe(uv, resolution.X()))

	n := StepNoise(uv, time, p.NoiseIntensity) * 0.8
	rgb = rgb.Add(mgl64.Vec3{n, n, n})

	rgb = rgb.Mul(Flicker(time))
	rgb = rgb.Mul(Vignette(uv, p.VignetteIntensity))

	return mgl64.Vec4{
		utils.ClampFloat(rgb.X(), 0, 1),
		utils.ClampFloat(rgb.Y(), 0, 1),
		utils.ClampFloat(rgb.Z(), 0, 1),
		1,
	}
}
