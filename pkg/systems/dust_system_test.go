package systems

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/decker502/antpath/pkg/components"
	"github.com/decker502/antpath/pkg/config"
	"github.com/decker502/antpath/pkg/ecs"
)

// TestDustSystem_SeededGeneration 固定种子生成可复现的尘埃云，且位于扩散范围内
func TestDustSystem_SeededGeneration(t *testing.T) {
	cfg := config.DustConfig{Count: 200, Spread: 100, Size: 0.8, Opacity: 0.4, Seed: 7}

	em1 := ecs.NewEntityManager()
	d1 := NewDustSystem(em1, cfg)
	em2 := ecs.NewEntityManager()
	d2 := NewDustSystem(em2, cfg)

	c1, _ := ecs.GetComponent[*components.DustComponent](em1, d1.DustEntity())
	c2, _ := ecs.GetComponent[*components.DustComponent](em2, d2.DustEntity())

	if len(c1.Base) != 200 {
		t.Fatalf("generated %d particles, want 200", len(c1.Base))
	}
	for i := range c1.Base {
		if c1.Base[i] != c2.Base[i] {
			t.Fatalf("particle %d differs between identical seeds", i)
		}
		b := c1.Base[i]
		if math.Abs(b.X()) > 50 || math.Abs(b.Y()) > 30 || math.Abs(b.Z()) > 50 {
			t.Fatalf("particle %d = %v outside spread", i, b)
		}
	}
}

// TestDustPosition 漂浮、呼吸和体积缩放
func TestDustPosition(t *testing.T) {
	base := mgl64.Vec3{10, -4, 2}
	tests := []struct {
		name                  string
		i                     int
		elapsed               float64
		float, breath, volume float64
		want                  mgl64.Vec3
	}{
		{"static", 3, 12.5, 0, 0, 1, base},
		{"volume only", 0, 0, 0, 0, 2, mgl64.Vec3{20, -8, 4}},
		// e=0, i=0: drift = (0, F, 0), breath = 1
		{"float at origin", 0, 0, 0.5, 0.3, 1, mgl64.Vec3{10, -3.5, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DustPosition(base, tt.i, tt.elapsed, tt.float, tt.breath, tt.volume)
			if !got.ApproxEqualThreshold(tt.want, 1e-9) {
				t.Errorf("DustPosition = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestDustSystem_UpdateBoundedDrift 漂浮幅度不超过 float，呼吸不超过 breath
func TestDustSystem_UpdateBoundedDrift(t *testing.T) {
	em := ecs.NewEntityManager()
	ds := NewDustSystem(em, config.DustConfig{Count: 50, Spread: 40, Size: 1, Opacity: 1, Seed: 3})
	dust, _ := ecs.GetComponent[*components.DustComponent](em, ds.DustEntity())

	cfg := config.DefaultViewerConfig()
	cfg.DustFloat = 0.5
	cfg.DustBreath = 0
	cfg.FogVolume = 1

	for _, e := range []float64{0, 0.7, 3.3, 100} {
		ds.Update(e, cfg)
		for i, p := range dust.Positions {
			d := p.Sub(dust.Base[i])
			for axis := 0; axis < 3; axis++ {
				if math.Abs(d[axis]) > 0.5+1e-9 {
					t.Fatalf("e=%v particle %d axis %d drift %v", e, i, axis, d[axis])
				}
			}
		}
	}
}
