package postfx

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
)

// CRTPass 曲率、扫描线、条纹、噪声、闪烁与暗角
type CRTPass struct {
	shader     lazyShader
	resolution mgl64.Vec2
}

// NewCRTPass 创建 CRT 通道
func NewCRTPass(w, h int) *CRTPass {
	p := &CRTPass{shader: lazyShader{name: "crt", src: crtKage}}
	p.SetResolution(w, h)
	return p
}

// Name 实现 Pass
func (p *CRTPass) Name() string { return "crt" }

// SetResolution 实现 ResolutionAware
func (p *CRTPass) SetResolution(w, h int) {
	p.resolution = mgl64.Vec2{float64(w), float64(h)}
}

// Resolution 当前使用的分辨率 uniform
func (p *CRTPass) Resolution() mgl64.Vec2 {
	return p.resolution
}

// Enabled 实现 Pass
func (p *CRTPass) Enabled(ctx *RenderContext) bool {
	return ctx.Config.CRTEnabled && p.shader.usable()
}

// Apply 实现 Pass
func (p *CRTPass) Apply(dst, src *ebiten.Image, ctx *RenderContext) {
	params := CRTParamsFrom(ctx.Config)
	drawWithShader(dst, src, &p.shader, params.Uniforms(p.resolution, ctx.Time))
}
