package postfx

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"math"
	"runtime"

	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/sync/errgroup"

	"github.com/decker502/antpath/pkg/config"
	"github.com/decker502/antpath/pkg/utils"
)

// ImageSampler 以最近邻方式采样 *image.RGBA，行为与 Kage 的 imageSrc0At 一致
type ImageSampler struct {
	img  *image.RGBA
	w, h int
}

// NewImageSampler 包装任意图像（非 RGBA 图像会先转换）
func NewImageSampler(img image.Image) *ImageSampler {
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Rect.Min != (image.Point{}) {
		b := img.Bounds()
		rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Rect, img, b.Min, draw.Src)
	}
	return &ImageSampler{img: rgba, w: rgba.Rect.Dx(), h: rgba.Rect.Dy()}
}

// Sample 实现 Sampler
func (s *ImageSampler) Sample(uv mgl64.Vec2) mgl64.Vec4 {
	x := int(math.Floor(uv.X() * float64(s.w)))
	y := int(math.Floor(uv.Y() * float64(s.h)))
	if x < 0 || y < 0 || x >= s.w || y >= s.h {
		return mgl64.Vec4{}
	}
	c := s.img.RGBAAt(x, y)
	return mgl64.Vec4{float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255, float64(c.A) / 255}
}

// ShadeFunc 单个像素的着色函数
type ShadeFunc func(src Sampler, uv mgl64.Vec2) mgl64.Vec4

// CPUPipeline 用参考实现在 CPU 上执行整条后处理链，按行分段并行
type CPUPipeline struct {
	Workers int
	pool    *ImagePool
}

// NewCPUPipeline 创建 CPU 管线，workers <= 0 时使用 GOMAXPROCS
func NewCPUPipeline(workers int) *CPUPipeline {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &CPUPipeline{Workers: workers, pool: NewImagePool()}
}

// ApplyPass 对 src 的每个像素执行 shade，像素中心 uv = ((x+0.5)/w, (y+0.5)/h)
func (p *CPUPipeline) ApplyPass(ctx context.Context, src image.Image, shade ShadeFunc) (*image.RGBA, error) {
	sampler := NewImageSampler(src)
	w, h := sampler.w, sampler.h
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("empty source image")
	}
	dst := p.pool.Get(image.Rect(0, 0, w, h))

	band := (h + p.Workers - 1) / p.Workers
	g, gctx := errgroup.WithContext(ctx)
	for y0 := 0; y0 < h; y0 += band {
		y1 := min(y0+band, h)
		g.Go(func() error {
			for y := y0; y < y1; y++ {
				if err := gctx.Err(); err != nil {
					return err
				}
				v := (float64(y) + 0.5) / float64(h)
				for x := 0; x < w; x++ {
					u := (float64(x) + 0.5) / float64(w)
					dst.SetRGBA(x, y, toRGBA(shade(sampler, mgl64.Vec2{u, v})))
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		p.pool.Put(dst)
		return nil, fmt.Errorf("cpu pass: %w", err)
	}
	return dst, nil
}

// Render 按配置快照依次执行鱼眼与 CRT（关闭的通道跳过）
func (p *CPUPipeline) Render(ctx context.Context, src image.Image, cfg config.ViewerConfig, time float64) (*image.RGBA, error) {
	b := src.Bounds()
	res := mgl64.Vec2{float64(b.Dx()), float64(b.Dy())}

	var stages []ShadeFunc
	if cfg.FisheyeEnabled {
		dp := DistortionParamsFrom(cfg)
		stages = append(stages, func(s Sampler, uv mgl64.Vec2) mgl64.Vec4 {
			return DistortionShade(s, uv, dp)
		})
	}
	if cfg.CRTEnabled {
		cp := CRTParamsFrom(cfg)
		stages = append(stages, func(s Sampler, uv mgl64.Vec2) mgl64.Vec4 {
			return CRTShade(s, uv, cp, res, time)
		})
	}

	cur := src
	var prev *image.RGBA
	for _, shade := range stages {
		out, err := p.ApplyPass(ctx, cur, shade)
		if err != nil {
			return nil, err
		}
		p.pool.Put(prev)
		prev = out
		cur = out
	}

	if prev == nil {
		out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(out, out.Rect, src, b.Min, draw.Src)
		return out, nil
	}
	return prev, nil
}

func toRGBA(c mgl64.Vec4) color.RGBA {
	return color.RGBA{
		R: uint8(math.Round(utils.ClampFloat(c.X(), 0, 1) * 255)),
		G: uint8(math.Round(utils.ClampFloat(c.Y(), 0, 1) * 255)),
		B: uint8(math.Round(utils.ClampFloat(c.Z(), 0, 1) * 255)),
		A: uint8(math.Round(utils.ClampFloat(c.W(), 0, 1) * 255)),
	}
}
