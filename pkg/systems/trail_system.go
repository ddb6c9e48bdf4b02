package systems

import (
	"github.com/decker502/antpath/pkg/components"
	"github.com/decker502/antpath/pkg/ecs"
)

// TrailSystem 根据游标维护轨迹顶点缓冲
//
// 轨迹 = wp[0..segment] + 标记点。顶点缓冲只追加：前进时追加新经过的航点，
// 回退时只缩小有效长度，每帧摊还 O(1)。
type TrailSystem struct {
	entityManager *ecs.EntityManager
}

// NewTrailSystem 创建轨迹系统
func NewTrailSystem(em *ecs.EntityManager) *TrailSystem {
	return &TrailSystem{entityManager: em}
}

// Update 同步所有路径实体的轨迹
func (s *TrailSystem) Update() {
	entities := ecs.GetEntitiesWith3[
		*components.PathComponent,
		*components.PlaybackComponent,
		*components.TrailComponent,
	](s.entityManager)

	for _, id := range entities {
		path, _ := ecs.GetComponent[*components.PathComponent](s.entityManager, id)
		pb, _ := ecs.GetComponent[*components.PlaybackComponent](s.entityManager, id)
		trail, _ := ecs.GetComponent[*components.TrailComponent](s.entityManager, id)
		syncTrail(trail, path, pb)
	}
}

func syncTrail(trail *components.TrailComponent, path *components.PathComponent, pb *components.PlaybackComponent) {
	n := len(path.Waypoints)
	if n == 0 {
		trail.Valid = 0
		trail.HasTip = false
		return
	}

	want := min(pb.Segment+1, n)
	if trail.Valid > want {
		trail.Valid = want
	}
	for trail.Valid < want {
		wp := path.Waypoints[trail.Valid]
		if trail.Valid < len(trail.Vertices) {
			trail.Vertices[trail.Valid] = wp
		} else {
			trail.Vertices = append(trail.Vertices, wp)
		}
		trail.Valid++
	}

	// 游标停在航点上（t == 0）时最后一段长度为 0，不绘制
	trail.HasTip = n >= 2 && pb.T > 0
	if trail.HasTip {
		trail.Tip = MarkerAt(path.Waypoints, pb.Segment, pb.T)
	}
}

// TrailLength 轨迹的可绘制点数（已经过的航点加上标记点）
func TrailLength(trail *components.TrailComponent) int {
	if trail.HasTip {
		return trail.Valid + 1
	}
	return trail.Valid
}
