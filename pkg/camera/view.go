// Package camera 实现查看器的相机控制：五种视图的固定视图表、翻转、重新适配与轨道控制。
//
// 相机不是一个长期持有的对象：Rig 只保存视图类型与当前摆放，
// 使用方每帧调用 Rig.Camera(w, h) 获取矩阵，因此不存在过期的相机引用。
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/decker502/antpath/internal/pathdata"
)

// ViewKind 视图类型（视图表中的 ID）
type ViewKind int

const (
	// ViewPerspective 透视相机，位于包围盒中心的 (1,1,1) 方向
	ViewPerspective ViewKind = iota
	// ViewOrthographicFree 沿用透视相机的当前摆放，改为正交投影
	ViewOrthographicFree
	// ViewFront 正视图（从 +Z 看向中心）
	ViewFront
	// ViewLeft 左视图（从 -X 看向中心）
	ViewLeft
	// ViewTop 俯视图（从 +Y 看向中心）
	ViewTop
)

// ViewKinds 面板按钮顺序
var ViewKinds = []ViewKind{ViewPerspective, ViewOrthographicFree, ViewFront, ViewLeft, ViewTop}

// String 返回视图名称
func (k ViewKind) String() string {
	switch k {
	case ViewPerspective:
		return "Perspective"
	case ViewOrthographicFree:
		return "Orthographic"
	case ViewFront:
		return "Front"
	case ViewLeft:
		return "Left"
	case ViewTop:
		return "Top"
	default:
		return "Unknown"
	}
}

// Valid 是否是视图表中的视图
func (k ViewKind) Valid() bool {
	return k >= ViewPerspective && k <= ViewTop
}

// IsOrthographic 该视图是否使用正交投影
func (k ViewKind) IsOrthographic() bool {
	return k != ViewPerspective
}

// IsFixed 固定视图只接受滚轮缩放，不接受旋转和平移
func (k ViewKind) IsFixed() bool {
	return k == ViewFront || k == ViewLeft || k == ViewTop
}

// Placement 相机摆放：眼睛位置、观察目标和上方向
type Placement struct {
	Eye    mgl64.Vec3
	Target mgl64.Vec3
	Up     mgl64.Vec3
}

// Distance 眼睛到目标的距离
func (p Placement) Distance() float64 {
	return p.Eye.Sub(p.Target).Len()
}

// ApproxEqual 在容差内比较两个摆放
func (p Placement) ApproxEqual(o Placement, eps float64) bool {
	return p.Eye.ApproxEqualThreshold(o.Eye, eps) &&
		p.Target.ApproxEqualThreshold(o.Target, eps) &&
		p.Up.ApproxEqualThreshold(o.Up, eps)
}

// Settings 透视投影参数
type Settings struct {
	FOV  float64 // 垂直视角（度）
	Near float64
	Far  float64
}

// DefaultSettings 与 data/config.yaml 一致的默认值
func DefaultSettings() Settings {
	return Settings{FOV: 75, Near: 0.1, Far: 5000}
}

const (
	// fitFactor 适配距离在“刚好装下”基础上的放大倍数
	fitFactor = 2.5
	// orthoFitFactor 固定正交视图的半高与最大边长之比
	orthoFitFactor = 0.6
)

// fitExtent 最大边长，退化数据（单点）按 1 处理
func fitExtent(b pathdata.Bounds) float64 {
	m := b.MaxExtent()
	if m <= 0 || math.IsNaN(m) {
		return 1
	}
	return m
}

// fitDistance 让包围盒完整出现在透视视野里的相机距离
func fitDistance(b pathdata.Bounds, fovDeg float64) float64 {
	return fitExtent(b) / (2 * math.Tan(mgl64.DegToRad(fovDeg)/2)) * fitFactor
}

// DerivePlacement 根据包围盒无状态地推导某个视图的摆放
//
// ViewOrthographicFree 没有独立摆放，返回与 ViewPerspective 相同的结果。
func DerivePlacement(kind ViewKind, b pathdata.Bounds, s Settings) Placement {
	center := b.Center()
	dist := fitDistance(b, s.FOV)

	switch kind {
	case ViewFront:
		return Placement{Eye: center.Add(mgl64.Vec3{0, 0, dist}), Target: center, Up: mgl64.Vec3{0, 1, 0}}
	case ViewLeft:
		return Placement{Eye: center.Add(mgl64.Vec3{-dist, 0, 0}), Target: center, Up: mgl64.Vec3{0, 1, 0}}
	case ViewTop:
		return Placement{Eye: center.Add(mgl64.Vec3{0, dist, 0}), Target: center, Up: mgl64.Vec3{0, 0, -1}}
	default:
		d := dist * 0.5
		return Placement{Eye: center.Add(mgl64.Vec3{d, d, d}), Target: center, Up: mgl64.Vec3{0, 1, 0}}
	}
}
