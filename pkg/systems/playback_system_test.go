package systems

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/decker502/antpath/pkg/components"
	"github.com/decker502/antpath/pkg/ecs"
)

func threePointPath() components.PathComponent {
	return components.PathComponent{
		Waypoints: []mgl64.Vec3{{0, 0, 0}, {10, 0, 0}, {10, 10, 0}},
		Source:    "test",
	}
}

func newTestPlayback(t *testing.T, path components.PathComponent) (*ecs.EntityManager, *PlaybackSystem, *int) {
	t.Helper()
	em := ecs.NewEntityManager()
	finished := 0
	ps := NewPlaybackSystem(em, func() { finished++ })
	ps.SetPath(path)
	return em, ps, &finished
}

// TestPlaybackSystem_AdvanceAcrossWaypoint 每帧推进 0.5，两帧后精确停在第二个航点
func TestPlaybackSystem_AdvanceAcrossWaypoint(t *testing.T) {
	_, ps, _ := newTestPlayback(t, threePointPath())

	if !ps.Play() {
		t.Fatal("Play() returned false for 3 waypoints")
	}
	ps.Advance(0.5)
	ps.Advance(0.5)

	seg, tt := ps.Cursor()
	if seg != 1 || tt != 0 {
		t.Errorf("cursor = (%d, %v), want (1, 0)", seg, tt)
	}
	if got := ps.MarkerPosition(); got != (mgl64.Vec3{10, 0, 0}) {
		t.Errorf("marker = %v, want (10,0,0)", got)
	}
	if ps.CurrentStep() != 1 {
		t.Errorf("CurrentStep() = %d, want 1", ps.CurrentStep())
	}
}

// TestPlaybackSystem_FinishNotifiesOnce 到达终点只通知一次，之后推进无效
func TestPlaybackSystem_FinishNotifiesOnce(t *testing.T) {
	_, ps, finished := newTestPlayback(t, threePointPath())

	ps.Play()
	for i := 0; i < 10; i++ {
		ps.Advance(0.5)
	}

	if ps.State() != components.PlaybackFinished {
		t.Fatalf("state = %v, want finished", ps.State())
	}
	if *finished != 1 {
		t.Errorf("completion notified %d times, want 1", *finished)
	}
	seg, tt := ps.Cursor()
	if seg != 1 || tt != 1 {
		t.Errorf("cursor = (%d, %v), want (1, 1)", seg, tt)
	}
	if got := ps.MarkerPosition(); got != (mgl64.Vec3{10, 10, 0}) {
		t.Errorf("marker = %v, want last waypoint", got)
	}
	if ps.CurrentStep() != 2 {
		t.Errorf("CurrentStep() = %d, want 2", ps.CurrentStep())
	}
}

// TestPlaybackSystem_LargeStepStopsAtEnd 一次推进超过总长度时停在终点
func TestPlaybackSystem_LargeStepStopsAtEnd(t *testing.T) {
	_, ps, finished := newTestPlayback(t, threePointPath())

	ps.Play()
	ps.Advance(100)

	seg, tt := ps.Cursor()
	if seg != 1 || tt != 1 || ps.State() != components.PlaybackFinished || *finished != 1 {
		t.Errorf("cursor=(%d,%v) state=%v finished=%d", seg, tt, ps.State(), *finished)
	}
}

// TestPlaybackSystem_CursorBounds 游标始终满足 0 ≤ seg ≤ N-2、0 ≤ t ≤ 1
func TestPlaybackSystem_CursorBounds(t *testing.T) {
	_, ps, _ := newTestPlayback(t, threePointPath())
	ps.Play()

	steps := []float64{0.3, 0.9, 0.01, 0.7, 2.5, 0.2}
	for _, p := range steps {
		ps.Advance(p)
		seg, tt := ps.Cursor()
		if seg < 0 || seg > 1 {
			t.Fatalf("segment %d out of range after Advance(%v)", seg, p)
		}
		if tt < 0 || tt > 1 {
			t.Fatalf("t %v out of range after Advance(%v)", tt, p)
		}
		if tt == 1 && ps.State() != components.PlaybackFinished {
			t.Fatalf("t == 1 while state is %v", ps.State())
		}
	}
}

// TestPlaybackSystem_PlayRequiresTwoWaypoints 少于两个航点不能播放
func TestPlaybackSystem_PlayRequiresTwoWaypoints(t *testing.T) {
	tests := []struct {
		name      string
		waypoints []mgl64.Vec3
	}{
		{"empty", nil},
		{"single", []mgl64.Vec3{{1, 2, 3}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ps, finished := newTestPlayback(t, components.PathComponent{Waypoints: tt.waypoints})
			if ps.Play() {
				t.Error("Play() returned true")
			}
			ps.Advance(5)
			if ps.State() != components.PlaybackIdle || *finished != 0 {
				t.Errorf("state=%v finished=%d", ps.State(), *finished)
			}
			if len(tt.waypoints) == 1 && ps.MarkerPosition() != tt.waypoints[0] {
				t.Errorf("marker = %v, want the only waypoint", ps.MarkerPosition())
			}
		})
	}
}

// TestPlaybackSystem_PauseAndToggle 暂停保留游标，Toggle 在两种状态间切换
func TestPlaybackSystem_PauseAndToggle(t *testing.T) {
	_, ps, _ := newTestPlayback(t, threePointPath())

	if !ps.Toggle() {
		t.Fatal("Toggle() from idle should start playing")
	}
	ps.Advance(0.25)
	if ps.Toggle() {
		t.Fatal("Toggle() while running should pause")
	}
	ps.Advance(0.5)

	seg, tt := ps.Cursor()
	if seg != 0 || tt != 0.25 {
		t.Errorf("paused cursor moved: (%d, %v)", seg, tt)
	}
}

// TestPlaybackSystem_PlayFromFinishedRestarts 结束后再次播放从头开始并允许再次通知
func TestPlaybackSystem_PlayFromFinishedRestarts(t *testing.T) {
	_, ps, finished := newTestPlayback(t, threePointPath())
	ps.Play()
	ps.Advance(5)

	ps.Play()
	seg, tt := ps.Cursor()
	if seg != 0 || tt != 0 || ps.State() != components.PlaybackRunning {
		t.Fatalf("after replay cursor=(%d,%v) state=%v", seg, tt, ps.State())
	}
	ps.Advance(5)
	if *finished != 2 {
		t.Errorf("finished = %d, want 2", *finished)
	}
}

// TestPlaybackSystem_Reset 重置回到空闲状态和第一个航点
func TestPlaybackSystem_Reset(t *testing.T) {
	_, ps, _ := newTestPlayback(t, threePointPath())
	ps.Play()
	ps.Advance(1.4)
	ps.Reset()

	seg, tt := ps.Cursor()
	if seg != 0 || tt != 0 || ps.State() != components.PlaybackIdle {
		t.Errorf("after reset cursor=(%d,%v) state=%v", seg, tt, ps.State())
	}
	if ps.MarkerPosition() != (mgl64.Vec3{0, 0, 0}) {
		t.Errorf("marker = %v, want first waypoint", ps.MarkerPosition())
	}
}

// TestPlaybackSystem_UpdateUsesSpeed Update 按 speed*dt 推进
func TestPlaybackSystem_UpdateUsesSpeed(t *testing.T) {
	_, ps, _ := newTestPlayback(t, threePointPath())
	ps.Play()

	ps.Update(0.25, 2)
	seg, tt := ps.Cursor()
	if seg != 0 || tt != 0.5 {
		t.Errorf("cursor = (%d, %v), want (0, 0.5)", seg, tt)
	}

	ps.Update(-1, 2)
	ps.Update(0.1, 0)
	if _, tt2 := ps.Cursor(); tt2 != 0.5 {
		t.Errorf("non-positive dt or speed advanced cursor to %v", tt2)
	}
}

// TestPlaybackSystem_JumpToStep 跳转精确落在航点上，越界被限制
func TestPlaybackSystem_JumpToStep(t *testing.T) {
	path := threePointPath()
	tests := []struct {
		name    string
		k       int
		wantSeg int
		wantT   float64
		wantPos mgl64.Vec3
	}{
		{"first", 0, 0, 0, path.Waypoints[0]},
		{"middle", 1, 1, 0, path.Waypoints[1]},
		{"last", 2, 1, 1, path.Waypoints[2]},
		{"below range", -3, 0, 0, path.Waypoints[0]},
		{"above range", 42, 1, 1, path.Waypoints[2]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ps, _ := newTestPlayback(t, path)
			ps.JumpToStep(tt.k)
			seg, cur := ps.Cursor()
			if seg != tt.wantSeg || cur != tt.wantT {
				t.Errorf("cursor = (%d, %v), want (%d, %v)", seg, cur, tt.wantSeg, tt.wantT)
			}
			if ps.MarkerPosition() != tt.wantPos {
				t.Errorf("marker = %v, want %v", ps.MarkerPosition(), tt.wantPos)
			}
		})
	}
}

// TestPlaybackSystem_JumpToStepIdempotent 重复跳到同一步结果相同（标记点与轨迹）
func TestPlaybackSystem_JumpToStepIdempotent(t *testing.T) {
	em, ps, _ := newTestPlayback(t, threePointPath())
	ts := NewTrailSystem(em)
	trail, _ := ecs.GetComponent[*components.TrailComponent](em, ps.PathEntity())

	for k := 0; k < 3; k++ {
		ps.JumpToStep(k)
		ts.Update()
		firstMarker := ps.MarkerPosition()
		firstTrail := append([]mgl64.Vec3(nil), trail.Vertices[:trail.Valid]...)
		firstLen := TrailLength(trail)

		ps.JumpToStep(k)
		ts.Update()
		if ps.MarkerPosition() != firstMarker {
			t.Errorf("k=%d: marker changed on second jump", k)
		}
		if TrailLength(trail) != firstLen {
			t.Errorf("k=%d: trail length %d, want %d", k, TrailLength(trail), firstLen)
		}
		for i, v := range trail.Vertices[:trail.Valid] {
			if v != firstTrail[i] {
				t.Errorf("k=%d: trail vertex %d changed", k, i)
			}
		}
	}
}

// TestPlaybackSystem_JumpAwayFromFinished 结束后跳回中间会回到空闲
func TestPlaybackSystem_JumpAwayFromFinished(t *testing.T) {
	_, ps, _ := newTestPlayback(t, threePointPath())
	ps.Play()
	ps.Advance(5)

	ps.JumpToStep(1)
	if ps.State() != components.PlaybackIdle {
		t.Errorf("state = %v, want idle", ps.State())
	}
}

// TestMarkerAt 插值函数的边界情况
func TestMarkerAt(t *testing.T) {
	wp := []mgl64.Vec3{{0, 0, 0}, {4, 0, 0}}
	tests := []struct {
		name string
		wp   []mgl64.Vec3
		t    float64
		want mgl64.Vec3
	}{
		{"empty", nil, 0.5, mgl64.Vec3{}},
		{"start", wp, 0, wp[0]},
		{"quarter", wp, 0.25, mgl64.Vec3{1, 0, 0}},
		{"end", wp, 1, wp[1]},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MarkerAt(tt.wp, 0, tt.t); got != tt.want {
				t.Errorf("MarkerAt = %v, want %v", got, tt.want)
			}
		})
	}
}
