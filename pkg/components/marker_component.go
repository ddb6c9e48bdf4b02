package components

import "github.com/go-gl/mathgl/mgl64"

// MarkerComponent 沿路径移动的发光标记点
type MarkerComponent struct {
	Position mgl64.Vec3

	// CoreRadius 核心半径（像素）
	CoreRadius float64
	// GlowRadius 光晕半径（像素）
	GlowRadius float64
}
