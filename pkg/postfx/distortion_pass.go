package postfx

import "github.com/hajimehoshi/ebiten/v2"

// DistortionPass 鱼眼 + 色散 + 中心裁剪
type DistortionPass struct {
	shader lazyShader
}

// NewDistortionPass 创建鱼眼通道（着色器延迟到第一次 Apply 时编译）
func NewDistortionPass() *DistortionPass {
	return &DistortionPass{shader: lazyShader{name: "distortion", src: distortionKage}}
}

// Name 实现 Pass
func (p *DistortionPass) Name() string { return "distortion" }

// Enabled 实现 Pass
func (p *DistortionPass) Enabled(ctx *RenderContext) bool {
	return ctx.Config.FisheyeEnabled && p.shader.usable()
}

// Apply 实现 Pass
func (p *DistortionPass) Apply(dst, src *ebiten.Image, ctx *RenderContext) {
	params := DistortionParamsFrom(ctx.Config)
	drawWithShader(dst, src, &p.shader, params.Uniforms(ctx.Time))
}
