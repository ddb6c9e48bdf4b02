package systems

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/decker502/antpath/pkg/camera"
	"github.com/decker502/antpath/pkg/components"
	"github.com/decker502/antpath/pkg/config"
	"github.com/decker502/antpath/pkg/ecs"
	"github.com/decker502/antpath/pkg/postfx"
	"github.com/decker502/antpath/pkg/utils"
)

const (
	// dustSpriteSize 尘埃软粒子贴图边长（像素）
	dustSpriteSize = 32
	// maxQuadsPerBatch DrawTriangles 的索引是 uint16，每批最多 65535/4 个四边形
	maxQuadsPerBatch = 65535 / 4

	trailWidth    = 2.0
	minPathAlpha  = 0.05
	minDustPixels = 0.5
)

// additiveBlend 叠加混合：src + dst
var additiveBlend = ebiten.Blend{
	BlendFactorSourceRGB:        ebiten.BlendFactorOne,
	BlendFactorDestinationRGB:   ebiten.BlendFactorOne,
	BlendOperationRGB:           ebiten.BlendOperationAdd,
	BlendFactorSourceAlpha:      ebiten.BlendFactorOne,
	BlendFactorDestinationAlpha: ebiten.BlendFactorOne,
	BlendOperationAlpha:         ebiten.BlendOperationAdd,
}

// SceneRenderSystem 把 3D 场景绘制到离屏目标：背景 → 尘埃 → 轨迹 → 标记点
//
// 实现 postfx.SceneRenderer，作为后处理链的第一个阶段。
type SceneRenderSystem struct {
	entityManager *ecs.EntityManager

	dustSprite *ebiten.Image

	// 复用的顶点/索引缓冲
	vertices []ebiten.Vertex
	indices  []uint16
}

var _ postfx.SceneRenderer = (*SceneRenderSystem)(nil)

// NewSceneRenderSystem 创建场景渲染系统
func NewSceneRenderSystem(em *ecs.EntityManager) *SceneRenderSystem {
	return &SceneRenderSystem{entityManager: em}
}

// DrawScene 绘制一帧场景
func (s *SceneRenderSystem) DrawScene(dst *ebiten.Image, ctx *postfx.RenderContext) {
	cfg := ctx.Config
	defaults := config.DefaultViewerConfig()
	bg := utils.MustParseHexColor(cfg.BackgroundColor, utils.MustParseHexColor(defaults.BackgroundColor, color.RGBA{A: 255}))
	pathColor := utils.MustParseHexColor(cfg.PathColor, utils.MustParseHexColor(defaults.PathColor, color.RGBA{255, 255, 255, 255}))
	dustColor := utils.MustParseHexColor(cfg.DustColor, utils.MustParseHexColor(defaults.DustColor, color.RGBA{255, 255, 255, 255}))

	dst.Fill(bg)

	for _, id := range ecs.GetEntitiesWith1[*components.DustComponent](s.entityManager) {
		dust, _ := ecs.GetComponent[*components.DustComponent](s.entityManager, id)
		s.drawDust(dst, dust, dustColor, ctx.Camera, cfg.FogDensity)
	}

	for _, id := range ecs.GetEntitiesWith2[*components.TrailComponent, *components.MarkerComponent](s.entityManager) {
		trail, _ := ecs.GetComponent[*components.TrailComponent](s.entityManager, id)
		marker, _ := ecs.GetComponent[*components.MarkerComponent](s.entityManager, id)
		s.drawTrail(dst, trail, pathColor, ctx.Camera, cfg.PathFog)
		if trail.Valid > 0 {
			s.drawMarker(dst, marker, pathColor, ctx.Camera)
		}
	}
}

// drawDust 每个粒子一个面向屏幕的四边形，按批次叠加绘制
func (s *SceneRenderSystem) drawDust(dst *ebiten.Image, dust *components.DustComponent, c color.RGBA, cam camera.Camera, fogDensity float64) {
	if len(dust.Positions) == 0 || dust.Opacity <= 0 {
		return
	}
	sprite := s.sprite()
	r, g, b := utils.ColorToFloats(c)

	s.vertices = s.vertices[:0]
	s.indices = s.indices[:0]
	quads := 0

	flush := func() {
		if quads == 0 {
			return
		}
		op := &ebiten.DrawTrianglesOptions{Blend: additiveBlend}
		dst.DrawTriangles(s.vertices, s.indices, sprite, op)
		s.vertices = s.vertices[:0]
		s.indices = s.indices[:0]
		quads = 0
	}

	for _, p := range dust.Positions {
		x, y, ok := cam.Project(p)
		if !ok {
			continue
		}
		depth := cam.Depth(p)
		half := dust.Size * cam.PixelsPerUnit(depth) / 2
		if half < minDustPixels/2 {
			half = minDustPixels / 2
		}
		alpha := dust.Opacity * (1 - DustFogFactor(fogDensity, depth))
		if alpha <= 0.001 {
			continue
		}
		if x+half < 0 || y+half < 0 || x-half > float64(cam.Width) || y-half > float64(cam.Height) {
			continue
		}

		a := float32(alpha)
		base := uint16(len(s.vertices))
		x0, y0 := float32(x-half), float32(y-half)
		x1, y1 := float32(x+half), float32(y+half)
		s.vertices = append(s.vertices,
			ebiten.Vertex{DstX: x0, DstY: y0, SrcX: 0, SrcY: 0, ColorR: r, ColorG: g, ColorB: b, ColorA: a},
			ebiten.Vertex{DstX: x1, DstY: y0, SrcX: dustSpriteSize, SrcY: 0, ColorR: r, ColorG: g, ColorB: b, ColorA: a},
			ebiten.Vertex{DstX: x0, DstY: y1, SrcX: 0, SrcY: dustSpriteSize, ColorR: r, ColorG: g, ColorB: b, ColorA: a},
			ebiten.Vertex{DstX: x1, DstY: y1, SrcX: dustSpriteSize, SrcY: dustSpriteSize, ColorR: r, ColorG: g, ColorB: b, ColorA: a},
		)
		s.indices = append(s.indices, base, base+1, base+2, base+1, base+3, base+2)
		quads++
		if quads >= maxQuadsPerBatch {
			flush()
		}
	}
	flush()
}

// drawTrail 逐段绘制轨迹，每段的透明度由段中点的视距决定
func (s *SceneRenderSystem) drawTrail(dst *ebiten.Image, trail *components.TrailComponent, c color.RGBA, cam camera.Camera, pathFog float64) {
	n := TrailLength(trail)
	if n < 2 {
		return
	}
	at := func(i int) mgl64.Vec3 {
		if i < trail.Valid {
			return trail.Vertices[i]
		}
		return trail.Tip
	}

	for i := 0; i+1 < n; i++ {
		a, b := at(i), at(i+1)
		ax, ay, okA := cam.Project(a)
		bx, by, okB := cam.Project(b)
		if !okA || !okB {
			continue
		}
		mid := a.Add(b).Mul(0.5)
		alpha := PathFogAlpha(cam.ViewDistance(mid), pathFog)
		col := color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(math.Round(alpha * 255))}
		vector.StrokeLine(dst, float32(ax), float32(ay), float32(bx), float32(by), trailWidth, col, true)
	}
}

// drawMarker 自发光标记点：由外向内叠加几层半透明圆形成光晕，最后画实心核心
func (s *SceneRenderSystem) drawMarker(dst *ebiten.Image, marker *components.MarkerComponent, c color.RGBA, cam camera.Camera) {
	x, y, ok := cam.Project(marker.Position)
	if !ok {
		return
	}
	const layers = 4
	for i := layers; i >= 1; i-- {
		f := float64(i) / layers
		radius := marker.CoreRadius + (marker.GlowRadius-marker.CoreRadius)*f
		a := uint8(math.Round(255 * 0.18 * (1 - f*0.7)))
		vector.DrawFilledCircle(dst, float32(x), float32(y), float32(radius), color.NRGBA{R: c.R, G: c.G, B: c.B, A: a}, true)
	}
	vector.DrawFilledCircle(dst, float32(x), float32(y), float32(marker.CoreRadius), color.NRGBA{R: 255, G: 255, B: 255, A: 255}, true)
}

// sprite 延迟创建的径向渐变贴图（需要在游戏循环中创建）
func (s *SceneRenderSystem) sprite() *ebiten.Image {
	if s.dustSprite == nil {
		s.dustSprite = ebiten.NewImage(dustSpriteSize, dustSpriteSize)
		s.dustSprite.WritePixels(DustSpritePixels(dustSpriteSize))
	}
	return s.dustSprite
}

// DustSpritePixels 生成边长为 size 的软圆点 RGBA 像素（预乘 alpha）
func DustSpritePixels(size int) []byte {
	pix := make([]byte, size*size*4)
	c := float64(size) / 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := (float64(x) + 0.5 - c) / c
			dy := (float64(y) + 0.5 - c) / c
			d := math.Sqrt(dx*dx + dy*dy)
			a := 1 - utils.Smoothstep(0, 1, d)
			v := uint8(math.Round(a * 255))
			i := (y*size + x) * 4
			pix[i], pix[i+1], pix[i+2], pix[i+3] = v, v, v, v
		}
	}
	return pix
}

// PathFogAlpha 轨迹透明度：clamp(exp(-(d*pathFog)^1.5), 0.05, 1)
func PathFogAlpha(distance, pathFog float64) float64 {
	if distance <= 0 || pathFog <= 0 {
		return 1
	}
	a := math.Exp(-math.Pow(distance*pathFog, 1.5))
	return utils.ClampFloat(a, minPathAlpha, 1)
}

// DustFogFactor 指数平方雾：1 - exp(-(density*depth)^2)，0 表示无雾
func DustFogFactor(density, depth float64) float64 {
	if density <= 0 || depth <= 0 {
		return 0
	}
	x := density * depth
	return utils.ClampFloat(1-math.Exp(-x*x), 0, 1)
}
