package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Camera 某一帧的相机快照：矩阵与投影参数
type Camera struct {
	Kind       ViewKind
	Placement  Placement
	View       mgl64.Mat4
	Projection mgl64.Mat4

	Width, Height int
	FOV           float64 // 透视视角（度），正交时不使用
	HalfHeight    float64 // 正交视野半高（世界单位），透视时为 0
	Near, Far     float64
}

// Orthographic 是否为正交投影
func (c Camera) Orthographic() bool {
	return c.HalfHeight > 0
}

// ViewPosition 世界坐标转换到相机空间
func (c Camera) ViewPosition(p mgl64.Vec3) mgl64.Vec3 {
	return mgl64.TransformCoordinate(p, c.View)
}

// ViewDistance 点到相机的距离（相机空间向量长度）
func (c Camera) ViewDistance(p mgl64.Vec3) float64 {
	return c.ViewPosition(p).Len()
}

// Depth 点在视线方向上的深度（相机空间 -z）
func (c Camera) Depth(p mgl64.Vec3) float64 {
	return -c.ViewPosition(p).Z()
}

// Project 把世界坐标投影到屏幕像素坐标（左上角为原点）
//
// 返回：
//   - x, y: 屏幕坐标
//   - ok: 点是否位于裁剪空间内（在相机前方且深度在 near/far 之间）
func (c Camera) Project(p mgl64.Vec3) (x, y float64, ok bool) {
	clip := c.Projection.Mul4(c.View).Mul4x1(p.Vec4(1))
	w := clip.W()
	if w <= 1e-9 {
		return 0, 0, false
	}
	ndc := clip.Vec3().Mul(1 / w)
	if ndc.Z() < -1 || ndc.Z() > 1 {
		return 0, 0, false
	}
	x = (ndc.X() + 1) * 0.5 * float64(c.Width)
	y = (1 - ndc.Y()) * 0.5 * float64(c.Height)
	return x, y, true
}

// PixelsPerUnit 给定深度处一个世界单位对应的屏幕像素数
func (c Camera) PixelsPerUnit(depth float64) float64 {
	if c.Orthographic() {
		return float64(c.Height) / (2 * c.HalfHeight)
	}
	if depth <= 1e-9 {
		return 0
	}
	return float64(c.Height) / (2 * math.Tan(mgl64.DegToRad(c.FOV)/2) * depth)
}

// buildCamera 根据摆放与投影参数构造矩阵
func buildCamera(kind ViewKind, pl Placement, s Settings, halfHeight float64, w, h int) Camera {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	aspect := float64(w) / float64(h)

	cam := Camera{
		Kind:      kind,
		Placement: pl,
		View:      mgl64.LookAtV(pl.Eye, pl.Target, pl.Up),
		Width:     w,
		Height:    h,
		FOV:       s.FOV,
		Near:      s.Near,
		Far:       s.Far,
	}

	if kind.IsOrthographic() {
		cam.HalfHeight = halfHeight
		hw := halfHeight * aspect
		cam.Projection = mgl64.Ortho(-hw, hw, -halfHeight, halfHeight, s.Near, s.Far)
		return cam
	}

	cam.Projection = mgl64.Perspective(mgl64.DegToRad(s.FOV), aspect, s.Near, s.Far)
	return cam
}
