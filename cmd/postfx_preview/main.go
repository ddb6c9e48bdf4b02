// Package main provides a headless preview tool for the post-processing chain.
//
// It runs the fisheye/dispersion and CRT passes on the CPU (the same shading
// functions the GPU shaders are checked against) and writes a PNG, so shader
// parameters can be tuned without opening a window.
//
// Usage:
//
//	go run ./cmd/postfx_preview [flags]
//
// Flags:
//
//	--in <file.png>       Source image (default: generated test pattern)
//	--out <file.png>      Output image (default: postfx_preview.png)
//	--size WxH            Test pattern size when --in is empty (default 800x600)
//	--time <seconds>      Shader time (noise and flicker)
//	--no-fisheye          Disable the distortion pass
//	--no-crt              Disable the CRT pass
//	--set key=value       Override a viewer parameter (repeatable)
//	--workers <n>         Parallel row bands (default GOMAXPROCS)
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/decker502/antpath/pkg/config"
	"github.com/decker502/antpath/pkg/postfx"
)

// paramFlags 可重复的 --set key=value
type paramFlags []string

func (p *paramFlags) String() string { return strings.Join(*p, ",") }

func (p *paramFlags) Set(v string) error {
	*p = append(*p, v)
	return nil
}

var (
	inFlag        = flag.String("in", "", "Source PNG (empty: generated test pattern)")
	outFlag       = flag.String("out", "postfx_preview.png", "Output PNG")
	sizeFlag      = flag.String("size", "800x600", "Test pattern size WxH")
	timeFlag      = flag.Float64("time", 0, "Shader time in seconds")
	noFisheyeFlag = flag.Bool("no-fisheye", false, "Disable the distortion pass")
	noCRTFlag     = flag.Bool("no-crt", false, "Disable the CRT pass")
	workersFlag   = flag.Int("workers", 0, "Parallel row bands (0 = GOMAXPROCS)")
	verboseFlag   = flag.Bool("verbose", false, "Enable verbose logging")
	setFlags      paramFlags
)

func main() {
	flag.Var(&setFlags, "set", "Override a viewer parameter, e.g. --set crtNoise=0.5 (repeatable)")
	flag.Parse()

	if !*verboseFlag {
		log.SetOutput(io.Discard)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "postfx_preview: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := buildConfig(setFlags, !*noFisheyeFlag, !*noCRTFlag)
	if err != nil {
		return err
	}

	src, err := loadSource(*inFlag, *sizeFlag)
	if err != nil {
		return err
	}

	start := time.Now()
	out, err := postfx.NewCPUPipeline(*workersFlag).Render(context.Background(), src, cfg, *timeFlag)
	if err != nil {
		return err
	}
	log.Printf("[Preview] Rendered %dx%d in %v", out.Rect.Dx(), out.Rect.Dy(), time.Since(start))

	f, err := os.Create(*outFlag)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer f.Close()
	if err := png.Encode(f, out); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}

	fmt.Printf("wrote %s (fisheye=%v crt=%v)\n", *outFlag, cfg.FisheyeEnabled, cfg.CRTEnabled)
	return nil
}

// buildConfig 默认配置 + 开关 + --set 覆盖
func buildConfig(sets []string, fisheye, crt bool) (config.ViewerConfig, error) {
	deltas := []config.Delta{func(c *config.ViewerConfig) {
		c.FisheyeEnabled = fisheye
		c.CRTEnabled = crt
	}}
	for _, kv := range sets {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			return config.ViewerConfig{}, fmt.Errorf("invalid --set %q, want key=value", kv)
		}
		if _, found := config.FindParam(key); !found {
			return config.ViewerConfig{}, fmt.Errorf("unknown parameter %q", key)
		}
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return config.ViewerConfig{}, fmt.Errorf("invalid value for %s: %w", key, err)
		}
		deltas = append(deltas, config.SetParam(key, v))
	}
	return config.DefaultViewerConfig().Apply(deltas...), nil
}

func loadSource(path, size string) (image.Image, error) {
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		img, err := png.Decode(f)
		if err != nil {
			return nil, fmt.Errorf("decode input: %w", err)
		}
		return img, nil
	}

	var w, h int
	if _, err := fmt.Sscanf(size, "%dx%d", &w, &h); err != nil || w <= 0 || h <= 0 {
		return nil, fmt.Errorf("invalid --size %q", size)
	}
	return testPattern(w, h), nil
}

// testPattern 棋盘格加彩色横条，便于观察畸变和色散
func testPattern(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	bars := []color.RGBA{
		{240, 183, 183, 255},
		{175, 133, 183, 255},
		{120, 200, 220, 255},
		{240, 220, 140, 255},
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.RGBA{23, 27, 28, 255}
			if ((x/40)+(y/40))%2 == 0 {
				c = color.RGBA{60, 64, 66, 255}
			}
			if y > h/3 && y < 2*h/3 {
				c = bars[(x*len(bars)/w)%len(bars)]
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}
