package systems

import (
	"log"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/decker502/antpath/pkg/components"
	"github.com/decker502/antpath/pkg/ecs"
)

// PlaybackSystem 动画驱动：沿航点推进游标并更新标记点位置
//
// 路径实体同时持有 PathComponent、PlaybackComponent、MarkerComponent 和 TrailComponent，
// 由本系统在构造时创建，数据重新加载时只替换 PathComponent 的内容。
type PlaybackSystem struct {
	entityManager *ecs.EntityManager
	pathEntity    ecs.EntityID

	// onFinished 到达终点时调用一次（每轮播放最多一次）
	onFinished func()
}

// NewPlaybackSystem 创建动画驱动并生成路径实体
func NewPlaybackSystem(em *ecs.EntityManager, onFinished func()) *PlaybackSystem {
	s := &PlaybackSystem{
		entityManager: em,
		onFinished:    onFinished,
	}

	s.pathEntity = em.CreateEntity()
	ecs.AddComponent(em, s.pathEntity, &components.PathComponent{})
	ecs.AddComponent(em, s.pathEntity, &components.PlaybackComponent{})
	ecs.AddComponent(em, s.pathEntity, &components.MarkerComponent{CoreRadius: 2.5, GlowRadius: 14})
	ecs.AddComponent(em, s.pathEntity, &components.TrailComponent{})

	return s
}

// PathEntity 路径实体 ID
func (s *PlaybackSystem) PathEntity() ecs.EntityID {
	return s.pathEntity
}

func (s *PlaybackSystem) parts() (*components.PathComponent, *components.PlaybackComponent, *components.MarkerComponent) {
	path, _ := ecs.GetComponent[*components.PathComponent](s.entityManager, s.pathEntity)
	pb, _ := ecs.GetComponent[*components.PlaybackComponent](s.entityManager, s.pathEntity)
	marker, _ := ecs.GetComponent[*components.MarkerComponent](s.entityManager, s.pathEntity)
	return path, pb, marker
}

// SetPath 整体替换航点并重置到空闲状态，旧轨迹顶点作废
func (s *PlaybackSystem) SetPath(path components.PathComponent) {
	p, _, _ := s.parts()
	*p = path
	if trail, ok := ecs.GetComponent[*components.TrailComponent](s.entityManager, s.pathEntity); ok {
		trail.Valid = 0
		trail.HasTip = false
	}
	s.Reset()
	log.Printf("[Playback] Loaded %d waypoints from %s", len(path.Waypoints), path.Source)
}

// WaypointCount 航点数量
func (s *PlaybackSystem) WaypointCount() int {
	p, _, _ := s.parts()
	return len(p.Waypoints)
}

// State 当前播放状态
func (s *PlaybackSystem) State() components.PlaybackState {
	_, pb, _ := s.parts()
	return pb.State
}

// Cursor 当前游标 (segment, t)
func (s *PlaybackSystem) Cursor() (int, float64) {
	_, pb, _ := s.parts()
	return pb.Segment, pb.T
}

// CurrentStep 显示用的当前步：T 到达 1 时计入下一个航点
func (s *PlaybackSystem) CurrentStep() int {
	_, pb, _ := s.parts()
	if pb.T >= 1 {
		return pb.Segment + 1
	}
	return pb.Segment
}

// MarkerPosition 标记点当前位置
func (s *PlaybackSystem) MarkerPosition() mgl64.Vec3 {
	_, _, m := s.parts()
	return m.Position
}

// Play 开始播放；少于两个航点时不做任何事并返回 false
// 从结束状态播放会从头开始
func (s *PlaybackSystem) Play() bool {
	path, pb, _ := s.parts()
	if len(path.Waypoints) < 2 {
		return false
	}
	if pb.State == components.PlaybackFinished {
		s.Reset()
	}
	pb.State = components.PlaybackRunning
	return true
}

// Pause 暂停（保留游标）
func (s *PlaybackSystem) Pause() {
	_, pb, _ := s.parts()
	if pb.State == components.PlaybackRunning {
		pb.State = components.PlaybackIdle
	}
}

// Toggle 在播放与暂停之间切换，返回切换后是否在播放
func (s *PlaybackSystem) Toggle() bool {
	if s.State() == components.PlaybackRunning {
		s.Pause()
		return false
	}
	return s.Play()
}

// Reset 回到空闲状态，游标归零，标记点回到第一个航点
func (s *PlaybackSystem) Reset() {
	_, pb, _ := s.parts()
	*pb = components.PlaybackComponent{}
	s.syncMarker()
}

// Update 按帧时间推进：progress = speed * dt
//
// 参数：
//   - dt: 本帧时长（秒）
//   - speed: 每秒推进的进度（1.0 = 一个线段）
func (s *PlaybackSystem) Update(dt, speed float64) {
	if dt <= 0 || speed <= 0 {
		return
	}
	s.Advance(speed * dt)
}

// Advance 推进游标 progress 个线段（只在播放状态下生效）
//
// t 超过 1 时进入下一段；到达最后一段时 t 固定为 1、状态变为结束，
// 并发出一次完成通知。
func (s *PlaybackSystem) Advance(progress float64) {
	path, pb, _ := s.parts()
	n := len(path.Waypoints)
	if pb.State != components.PlaybackRunning || n < 2 || progress <= 0 {
		return
	}

	pb.T += progress
	for pb.T >= 1 {
		if pb.Segment < n-2 {
			pb.T -= 1
			pb.Segment++
			continue
		}
		pb.T = 1
		pb.State = components.PlaybackFinished
		if !pb.FinishNotified {
			pb.FinishNotified = true
			log.Printf("[Playback] Finished at step %d", n-1)
			if s.onFinished != nil {
				s.onFinished()
			}
		}
		break
	}

	s.syncMarker()
}

// JumpToStep 把标记点精确放到第 k 个航点（k 被限制在 [0, N-1]）
//
// segment = min(k, N-2)；k 为最后一个航点时 t = 1，否则 t = 0。
// 跳到终点以外的位置会让结束状态回到空闲，播放状态保持不变。
func (s *PlaybackSystem) JumpToStep(k int) {
	path, pb, _ := s.parts()
	n := len(path.Waypoints)
	if n == 0 {
		return
	}
	if n == 1 {
		pb.Segment, pb.T = 0, 0
		s.syncMarker()
		return
	}

	k = max(0, min(k, n-1))
	pb.Segment = min(k, n-2)
	if k > pb.Segment {
		pb.T = 1
	} else {
		pb.T = 0
	}

	switch {
	case k == n-1 && pb.State == components.PlaybackRunning:
		pb.State = components.PlaybackFinished
		pb.FinishNotified = true
	case k < n-1 && pb.State == components.PlaybackFinished:
		pb.State = components.PlaybackIdle
		pb.FinishNotified = false
	}

	s.syncMarker()
}

// syncMarker 标记点 = lerp(wp[seg], wp[seg+1], t)
func (s *PlaybackSystem) syncMarker() {
	path, pb, marker := s.parts()
	marker.Position = MarkerAt(path.Waypoints, pb.Segment, pb.T)
}

// MarkerAt 计算游标处的插值位置
func MarkerAt(waypoints []mgl64.Vec3, segment int, t float64) mgl64.Vec3 {
	switch {
	case len(waypoints) == 0:
		return mgl64.Vec3{}
	case len(waypoints) == 1:
		return waypoints[0]
	}
	from := waypoints[segment]
	to := waypoints[segment+1]
	if t >= 1 {
		return to
	}
	if t <= 0 {
		return from
	}
	return from.Add(to.Sub(from).Mul(t))
}
