// Package postfx 实现固定顺序的后处理链：场景渲染 → 鱼眼色散 → CRT → 屏幕。
//
// 每帧构造一个 RenderContext（视口、时间、配置快照、相机）并传给所有阶段，
// 通道本身不持有对配置或相机的长期引用。
package postfx

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/decker502/antpath/pkg/camera"
	"github.com/decker502/antpath/pkg/config"
)

// RenderContext 一帧内所有渲染阶段共享的只读数据
type RenderContext struct {
	Width, Height int
	Time          float64 // 自启动以来的秒数
	Frame         uint64
	Config        config.ViewerConfig
	Camera        camera.Camera
}

// Resolution 视口尺寸（像素）
func (c *RenderContext) Resolution() mgl64.Vec2 {
	return mgl64.Vec2{float64(c.Width), float64(c.Height)}
}
