package game

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Scene represents one full-window view of the application.
// Each scene has its own update and rendering logic.
type Scene interface {
	// Update updates the scene logic based on the elapsed time.
	// deltaTime is the time elapsed since the last update in seconds.
	Update(deltaTime float64)

	// Draw renders the scene to the provided screen.
	Draw(screen *ebiten.Image)
}

// Resizable 是一个可选接口，窗口（或浏览器画布）尺寸变化时被调用
//
// 在 ebiten 的 Layout 回调中同步调用，实现者不能在这里做耗时操作。
type Resizable interface {
	Resize(width, height int)
}

// Disposable 是一个可选接口，用于在场景被替换或程序退出时释放后台资源
// （加载 goroutine、文件监视器等）
type Disposable interface {
	Dispose()
}
