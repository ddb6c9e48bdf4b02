package systems

import (
	"math"
	"math/rand"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/decker502/antpath/pkg/components"
	"github.com/decker502/antpath/pkg/config"
	"github.com/decker502/antpath/pkg/ecs"
)

// DustSystem 环境尘埃：一次性随机生成基准位置，每帧计算漂浮和呼吸后的位置
type DustSystem struct {
	entityManager *ecs.EntityManager
	dustEntity    ecs.EntityID
}

// NewDustSystem 创建尘埃系统并生成尘埃实体
//
// 基准位置在 [-spread/2, spread/2] 的立方体内均匀分布，纵向压缩到 0.6。
// cfg.Seed 为 0 时使用时间种子。
func NewDustSystem(em *ecs.EntityManager, cfg config.DustConfig) *DustSystem {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	base := make([]mgl64.Vec3, cfg.Count)
	for i := range base {
		base[i] = mgl64.Vec3{
			(rng.Float64() - 0.5) * cfg.Spread,
			(rng.Float64() - 0.5) * cfg.Spread * 0.6,
			(rng.Float64() - 0.5) * cfg.Spread,
		}
	}

	s := &DustSystem{entityManager: em}
	s.dustEntity = em.CreateEntity()
	ecs.AddComponent(em, s.dustEntity, &components.DustComponent{
		Base:      base,
		Positions: append([]mgl64.Vec3(nil), base...),
		Size:      cfg.Size,
		Opacity:   cfg.Opacity,
	})
	return s
}

// DustEntity 尘埃实体 ID
func (s *DustSystem) DustEntity() ecs.EntityID {
	return s.dustEntity
}

// Update 按经过时间（秒）重新计算每个粒子的位置
func (s *DustSystem) Update(elapsed float64, cfg config.ViewerConfig) {
	for _, id := range ecs.GetEntitiesWith1[*components.DustComponent](s.entityManager) {
		dust, _ := ecs.GetComponent[*components.DustComponent](s.entityManager, id)
		if len(dust.Positions) != len(dust.Base) {
			dust.Positions = make([]mgl64.Vec3, len(dust.Base))
		}
		for i, b := range dust.Base {
			dust.Positions[i] = DustPosition(b, i, elapsed, cfg.DustFloat, cfg.DustBreath, cfg.FogVolume)
		}
	}
}

// DustPosition 第 i 个粒子在 elapsed 秒时的位置
//
// 每个轴用不同频率和按下标错开的相位做正弦漂浮，再整体乘以体积缩放和呼吸系数。
func DustPosition(base mgl64.Vec3, i int, elapsed, float, breath, volume float64) mgl64.Vec3 {
	fi := float64(i)
	drift := mgl64.Vec3{
		math.Sin(elapsed+fi*0.1) * float,
		math.Cos(elapsed*0.8+fi*0.15) * float,
		math.Sin(elapsed*1.2+fi*0.08) * float,
	}
	scale := volume * (1 + math.Sin(elapsed*2+fi*0.05)*breath)
	return base.Add(drift).Mul(scale)
}
