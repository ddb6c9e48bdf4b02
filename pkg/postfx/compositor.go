package postfx

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

// Compositor 持有固定的渲染链 [场景 → 各通道 → 屏幕]
//
// 通道在构造后不会被移除或重排；关闭的通道在 Render 中被跳过，
// 其输入直接流向下一阶段。
type Compositor struct {
	scene  SceneRenderer
	passes []Pass

	width, height int
	dirty         bool

	// targets[0] 是场景目标，targets[1..2] 供通道乒乓使用
	targets [3]*ebiten.Image
}

// NewCompositor 创建合成器
func NewCompositor(scene SceneRenderer, passes ...Pass) *Compositor {
	return &Compositor{
		scene:  scene,
		passes: passes,
		dirty:  true,
	}
}

// Passes 按执行顺序返回所有通道
func (c *Compositor) Passes() []Pass {
	return c.passes
}

// Size 当前的渲染尺寸
func (c *Compositor) Size() (int, int) {
	return c.width, c.height
}

// Resize 更新渲染尺寸
//
// ResolutionAware 通道在本调用内同步更新；渲染目标在下一次 Render 开始时按新尺寸重建。
func (c *Compositor) Resize(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	if w == c.width && h == c.height {
		return
	}

	log.Printf("[Compositor] Resize %dx%d -> %dx%d", c.width, c.height, w, h)
	c.width, c.height = w, h
	c.dirty = true

	for _, p := range c.passes {
		if ra, ok := p.(ResolutionAware); ok {
			ra.SetResolution(w, h)
		}
	}
}

// NeedsRealloc 渲染目标是否需要在下一帧重建
func (c *Compositor) NeedsRealloc() bool {
	return c.dirty
}

// ActivePasses 本帧会执行的通道（保持顺序）
func (c *Compositor) ActivePasses(ctx *RenderContext) []Pass {
	active := make([]Pass, 0, len(c.passes))
	for _, p := range c.passes {
		if p.Enabled(ctx) {
			active = append(active, p)
		}
	}
	return active
}

// Render 执行整条链并把结果绘制到 screen
func (c *Compositor) Render(screen *ebiten.Image, ctx *RenderContext) {
	if c.width == 0 || c.height == 0 {
		b := screen.Bounds()
		c.Resize(b.Dx(), b.Dy())
	}
	if c.dirty {
		c.reallocate()
	}

	scene := c.targets[0]
	scene.Clear()
	c.scene.DrawScene(scene, ctx)

	src := scene
	next := 1
	for _, p := range c.ActivePasses(ctx) {
		dst := c.targets[next]
		dst.Clear()
		p.Apply(dst, src, ctx)
		src = dst
		next = 3 - next // 在 1 和 2 之间交替
	}

	screen.DrawImage(src, nil)
}

func (c *Compositor) reallocate() {
	for i, t := range c.targets {
		if t != nil {
			t.Deallocate()
		}
		c.targets[i] = ebiten.NewImage(c.width, c.height)
	}
	c.dirty = false
	log.Printf("[Compositor] Render targets reallocated at %dx%d", c.width, c.height)
}
