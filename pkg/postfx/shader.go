package postfx

import (
	_ "embed"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
)

//go:embed shaders/distortion.kage
var distortionKage []byte

//go:embed shaders/crt.kage
var crtKage []byte

// lazyShader 在第一次使用时编译 Kage 着色器（必须在游戏循环 goroutine 上调用）
//
// 编译失败只记录一次警告，之后该通道作为直通处理。
type lazyShader struct {
	name   string
	src    []byte
	shader *ebiten.Shader
	failed bool
}

func (l *lazyShader) get() (*ebiten.Shader, bool) {
	if l.shader != nil {
		return l.shader, true
	}
	if l.failed {
		return nil, false
	}

	s, err := ebiten.NewShader(l.src)
	if err != nil {
		log.Printf("[Compositor] Warning: failed to compile %s shader, pass disabled: %v", l.name, err)
		l.failed = true
		return nil, false
	}
	log.Printf("[Compositor] Compiled %s shader", l.name)
	l.shader = s
	return s, true
}

// usable 编译前返回 true，编译失败后返回 false
func (l *lazyShader) usable() bool {
	return !l.failed
}

// drawWithShader 用着色器把 src 绘制到 dst；着色器不可用时直接复制
func drawWithShader(dst, src *ebiten.Image, sh *lazyShader, uniforms map[string]any) {
	shader, ok := sh.get()
	if !ok {
		dst.DrawImage(src, nil)
		return
	}

	b := src.Bounds()
	op := &ebiten.DrawRectShaderOptions{}
	op.Images[0] = src
	op.Uniforms = uniforms
	dst.DrawRectShader(b.Dx(), b.Dy(), shader, op)
}
