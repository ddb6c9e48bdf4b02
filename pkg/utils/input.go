package utils

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// DragState 拖拽状态
type DragState int

const (
	// DragStateNone 无拖拽
	DragStateNone DragState = iota
	// DragStateStarted 拖拽开始（刚按下）
	DragStateStarted
	// DragStateDragging 拖拽中（按住移动）
	DragStateDragging
	// DragStateEnded 拖拽结束（释放）
	DragStateEnded
)

// DragTracker 跟踪一个鼠标按键的拖拽状态，并给出每帧的位移
//
// 相机轨道控制为左键、右键（旋转）和中键（平移）各持有一个实例。
type DragTracker struct {
	Button ebiten.MouseButton

	state        DragState
	lastX, lastY int
	dx, dy       int
}

// NewDragTracker 创建指定按键的拖拽跟踪器
func NewDragTracker(button ebiten.MouseButton) *DragTracker {
	return &DragTracker{Button: button}
}

// Update 从 ebiten 读取当前帧的按键和光标状态（每帧调用一次）
func (d *DragTracker) Update() {
	x, y := ebiten.CursorPosition()
	d.Step(ebiten.IsMouseButtonPressed(d.Button), x, y)
}

// Step 用给定的输入推进状态机，不依赖 ebiten 的全局输入
func (d *DragTracker) Step(pressed bool, x, y int) {
	d.dx, d.dy = 0, 0

	switch d.state {
	case DragStateNone, DragStateEnded:
		if pressed {
			d.state = DragStateStarted
			d.lastX, d.lastY = x, y
		} else {
			d.state = DragStateNone
		}
	case DragStateStarted, DragStateDragging:
		if !pressed {
			d.state = DragStateEnded
			return
		}
		d.state = DragStateDragging
		d.dx, d.dy = x-d.lastX, y-d.lastY
		d.lastX, d.lastY = x, y
	}
}

// State 当前拖拽状态
func (d *DragTracker) State() DragState {
	return d.state
}

// Delta 本帧的光标位移（仅拖拽中非零）
func (d *DragTracker) Delta() (dx, dy int) {
	return d.dx, d.dy
}

// IsDragging 是否正在拖拽
func (d *DragTracker) IsDragging() bool {
	return d.state == DragStateStarted || d.state == DragStateDragging
}

// Reset 重置拖拽状态
func (d *DragTracker) Reset() {
	*d = DragTracker{Button: d.Button}
}
