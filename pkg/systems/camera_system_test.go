package systems

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/decker502/antpath/internal/pathdata"
	"github.com/decker502/antpath/pkg/camera"
	"github.com/decker502/antpath/pkg/ecs"
)

func testBounds() pathdata.Bounds {
	return pathdata.Bounds{Min: mgl64.Vec3{-10, -6, -10}, Max: mgl64.Vec3{10, 6, 10}}
}

// TestCameraSystem_NewCameraSystem 创建相机实体
func TestCameraSystem_NewCameraSystem(t *testing.T) {
	em := ecs.NewEntityManager()
	cs := NewCameraSystem(em, camera.DefaultSettings())

	if cs.Rig() == nil {
		t.Fatal("camera entity has no rig")
	}
	if cs.Rig().Kind() != camera.ViewPerspective {
		t.Errorf("initial view = %v", cs.Rig().Kind())
	}
}

// TestCameraSystem_DragRotates 左键拖拽产生旋转，松开后阻尼停下
func TestCameraSystem_DragRotates(t *testing.T) {
	em := ecs.NewEntityManager()
	cs := NewCameraSystem(em, camera.DefaultSettings())
	rig := cs.Rig()
	rig.Refit(testBounds())
	before := rig.Placement()

	noWheel := func() (float64, float64) { return 0, 0 }
	cs.rotateLeft.Step(true, 100, 100)
	cs.rotateLeft.Step(true, 160, 100)
	cs.applyInput(rig, noWheel)
	for i := 0; i < 400; i++ {
		rig.Update(600)
	}

	after := rig.Placement()
	if after.ApproxEqual(before, 1e-6) {
		t.Error("drag did not move the camera")
	}
	if rig.IsMoving() {
		t.Error("camera still moving after damping")
	}
	if d := after.Distance() - before.Distance(); d > 1e-6 || d < -1e-6 {
		t.Errorf("orbit changed distance by %v", d)
	}
}

// TestCameraSystem_WheelZooms 滚轮在固定视图中也生效
func TestCameraSystem_WheelZooms(t *testing.T) {
	em := ecs.NewEntityManager()
	cs := NewCameraSystem(em, camera.DefaultSettings())
	rig := cs.Rig()
	rig.Refit(testBounds())
	rig.SwitchTo(camera.ViewTop)

	cs.applyInput(rig, func() (float64, float64) { return 0, 3 })
	for i := 0; i < 400; i++ {
		rig.Update(600)
	}
	if rig.Zoom() <= 1 {
		t.Errorf("zoom = %v, want > 1 after wheel up", rig.Zoom())
	}
}
