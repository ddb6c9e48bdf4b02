package components

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/decker502/antpath/internal/pathdata"
)

// PathComponent 归一化后的航点序列
//
// 整体替换，不做增量修改；长度小于 2 时播放为空操作。
type PathComponent struct {
	// Waypoints 归一化到 20 单位包围盒内的航点
	Waypoints []mgl64.Vec3

	// Bounds 航点的包围盒（相机适配使用）
	Bounds pathdata.Bounds

	// Source 数据来源（文件路径、URL 或 "sample"），用于状态栏显示
	Source string
}
