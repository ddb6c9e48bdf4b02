package systems

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/decker502/antpath/pkg/camera"
	"github.com/decker502/antpath/pkg/components"
	"github.com/decker502/antpath/pkg/ecs"
	"github.com/decker502/antpath/pkg/utils"
)

// CameraSystem 轨道相机输入：左/右键拖拽旋转，中键拖拽平移，滚轮缩放。
// 每帧把累积的速度按阻尼衰减应用到相机上。
type CameraSystem struct {
	entityManager *ecs.EntityManager
	cameraEntity  ecs.EntityID

	rotateLeft  *utils.DragTracker
	rotateRight *utils.DragTracker
	pan         *utils.DragTracker

	// InputEnabled 为 false 时忽略鼠标（例如控制面板正在捕获输入）
	InputEnabled bool
}

// NewCameraSystem 创建相机系统和相机实体
func NewCameraSystem(em *ecs.EntityManager, settings camera.Settings) *CameraSystem {
	cs := &CameraSystem{
		entityManager: em,
		rotateLeft:    utils.NewDragTracker(ebiten.MouseButtonLeft),
		rotateRight:   utils.NewDragTracker(ebiten.MouseButtonRight),
		pan:           utils.NewDragTracker(ebiten.MouseButtonMiddle),
		InputEnabled:  true,
	}

	cs.cameraEntity = em.CreateEntity()
	ecs.AddComponent(em, cs.cameraEntity, &components.CameraComponent{
		Rig: camera.NewRig(settings),
	})
	return cs
}

// Rig 相机装置
func (cs *CameraSystem) Rig() *camera.Rig {
	comp, ok := ecs.GetComponent[*components.CameraComponent](cs.entityManager, cs.cameraEntity)
	if !ok {
		return nil
	}
	return comp.Rig
}

// Update 读取鼠标输入并推进阻尼（每帧一次）
func (cs *CameraSystem) Update(viewportHeight int) {
	rig := cs.Rig()
	if rig == nil {
		return
	}

	cs.rotateLeft.Update()
	cs.rotateRight.Update()
	cs.pan.Update()

	if cs.InputEnabled {
		cs.applyInput(rig, ebiten.Wheel)
	}
	rig.Update(viewportHeight)
}

func (cs *CameraSystem) applyInput(rig *camera.Rig, wheel func() (float64, float64)) {
	for _, d := range []*utils.DragTracker{cs.rotateLeft, cs.rotateRight} {
		if d.IsDragging() {
			dx, dy := d.Delta()
			rig.Rotate(float64(dx), float64(dy))
		}
	}
	if cs.pan.IsDragging() {
		dx, dy := cs.pan.Delta()
		rig.Pan(float64(dx), float64(dy))
	}
	if _, wy := wheel(); wy != 0 {
		rig.ZoomBy(wy)
	}
}

// ResetInput 清空拖拽状态（窗口失焦、切换场景时调用）
func (cs *CameraSystem) ResetInput() {
	cs.rotateLeft.Reset()
	cs.rotateRight.Reset()
	cs.pan.Reset()
}
