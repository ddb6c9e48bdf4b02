package postfx

import "github.com/hajimehoshi/ebiten/v2"

// SceneRenderer 把 3D 场景绘制到离屏目标（链路的第一个阶段）
type SceneRenderer interface {
	DrawScene(dst *ebiten.Image, ctx *RenderContext)
}

// Pass 全屏后处理通道
type Pass interface {
	Name() string
	// Enabled 本帧是否执行；未启用的通道是纯直通，输入原样流向下一阶段
	Enabled(ctx *RenderContext) bool
	// Apply 读取 src 写入 dst，两者尺寸相同
	Apply(dst, src *ebiten.Image, ctx *RenderContext)
}

// ResolutionAware 需要视口分辨率的通道，在 Compositor.Resize 时同步更新
type ResolutionAware interface {
	SetResolution(w, h int)
}
