package modules

import (
	"io/fs"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// InputSource 控制面板读取的输入
//
// 游戏中使用 EbitenInput，测试中可以替换为脚本化输入。
type InputSource interface {
	// KeyPressDuration 按键已按住的帧数，未按下为 0
	KeyPressDuration(key ebiten.Key) int
	CursorPosition() (x, y int)
	MouseJustPressed(button ebiten.MouseButton) bool
	Wheel() (dx, dy float64)
	// DroppedFiles 本帧拖放到窗口的文件，没有时为 nil
	DroppedFiles() fs.FS
}

// EbitenInput 从 ebiten 全局输入状态读取
type EbitenInput struct{}

func (EbitenInput) KeyPressDuration(key ebiten.Key) int {
	return inpututil.KeyPressDuration(key)
}

func (EbitenInput) CursorPosition() (int, int) {
	return ebiten.CursorPosition()
}

func (EbitenInput) MouseJustPressed(button ebiten.MouseButton) bool {
	return inpututil.IsMouseButtonJustPressed(button)
}

func (EbitenInput) Wheel() (float64, float64) {
	return ebiten.Wheel()
}

func (EbitenInput) DroppedFiles() fs.FS {
	return ebiten.DroppedFiles()
}

const (
	// 按住按键时的自动重复：首次延迟和间隔（帧）
	repeatDelay    = 30
	repeatInterval = 4
)

// justPressed 本帧刚按下
func justPressed(in InputSource, key ebiten.Key) bool {
	return in.KeyPressDuration(key) == 1
}

// pressedOrRepeat 刚按下或处于自动重复的节拍上
func pressedOrRepeat(in InputSource, key ebiten.Key) bool {
	d := in.KeyPressDuration(key)
	if d == 1 {
		return true
	}
	return d >= repeatDelay && (d-repeatDelay)%repeatInterval == 0
}

func held(in InputSource, keys ...ebiten.Key) bool {
	for _, k := range keys {
		if in.KeyPressDuration(k) > 0 {
			return true
		}
	}
	return false
}
