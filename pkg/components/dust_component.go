package components

import "github.com/go-gl/mathgl/mgl64"

// DustComponent 漂浮的尘埃粒子云
type DustComponent struct {
	// Base 每个粒子的静止位置（生成后不变）
	Base []mgl64.Vec3
	// Positions 本帧的位置（漂浮、呼吸和体积缩放之后）
	Positions []mgl64.Vec3

	// Size 粒子直径（世界单位）
	Size float64
	// Opacity 叠加混合时的不透明度
	Opacity float64
}
