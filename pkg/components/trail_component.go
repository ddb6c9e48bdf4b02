package components

import "github.com/go-gl/mathgl/mgl64"

// TrailComponent 已走过的轨迹
//
// Vertices 是只追加的顶点缓冲，前 Valid 个是已经经过的航点；
// 回退（重置、跳转到更早的步）只缩小 Valid，底层存储保留复用。
// Tip 是当前标记点位置，HasTip 为 false 时不绘制最后一段。
type TrailComponent struct {
	Vertices []mgl64.Vec3
	Valid    int

	Tip    mgl64.Vec3
	HasTip bool
}
