package game

import (
	"testing"

	"github.com/hajimehoshi/ebiten/v2"
)

// MockScene is a mock implementation of the Scene interface for testing.
type MockScene struct {
	updateCalled bool
	drawCalled   bool
	deltaTime    float64
}

// Update records that Update was called and stores the deltaTime.
func (m *MockScene) Update(deltaTime float64) {
	m.updateCalled = true
	m.deltaTime = deltaTime
}

// Draw records that Draw was called.
func (m *MockScene) Draw(screen *ebiten.Image) {
	m.drawCalled = true
}

// resizableScene 记录尺寸变化和释放调用
type resizableScene struct {
	MockScene
	width, height int
	resizes       int
	disposed      bool
}

func (r *resizableScene) Resize(width, height int) {
	r.width, r.height = width, height
	r.resizes++
}

func (r *resizableScene) Dispose() {
	r.disposed = true
}

// TestNewSceneManager verifies that NewSceneManager creates a valid instance.
func TestNewSceneManager(t *testing.T) {
	sm := NewSceneManager()
	if sm == nil {
		t.Fatal("NewSceneManager() returned nil")
	}
	if sm.GetCurrentScene() != nil {
		t.Error("Expected currentScene to be nil initially")
	}
}

// TestSceneManagerUpdateAndDraw 调用转发到当前场景
func TestSceneManagerUpdateAndDraw(t *testing.T) {
	sm := NewSceneManager()
	mockScene := &MockScene{}
	sm.SwitchTo(mockScene)

	sm.Update(0.016)
	sm.Draw(nil)

	if !mockScene.updateCalled || mockScene.deltaTime != 0.016 {
		t.Errorf("Update not forwarded: called=%v dt=%v", mockScene.updateCalled, mockScene.deltaTime)
	}
	if !mockScene.drawCalled {
		t.Error("Scene's Draw method was not called")
	}
}

// TestSceneManagerNoScene 没有场景时不崩溃
func TestSceneManagerNoScene(t *testing.T) {
	sm := NewSceneManager()
	sm.Update(0.016)
	sm.Draw(nil)
	sm.Resize(640, 480)
	sm.Close()
}

// TestSceneManagerResize 尺寸转发给当前场景，相同尺寸不重复转发
func TestSceneManagerResize(t *testing.T) {
	sm := NewSceneManager()
	scene := &resizableScene{}
	sm.SwitchTo(scene)

	sm.Resize(800, 600)
	sm.Resize(800, 600)
	sm.Resize(1600, 900)

	if scene.resizes != 2 {
		t.Errorf("resizes = %d, want 2", scene.resizes)
	}
	if scene.width != 1600 || scene.height != 900 {
		t.Errorf("size = %dx%d, want 1600x900", scene.width, scene.height)
	}
}

// TestSceneManagerSwitchDisposesPrevious 切换场景时释放旧场景，新场景收到当前尺寸
func TestSceneManagerSwitchDisposesPrevious(t *testing.T) {
	sm := NewSceneManager()
	first := &resizableScene{}
	second := &resizableScene{}

	sm.SwitchTo(first)
	sm.Resize(1024, 768)
	sm.SwitchTo(second)

	if !first.disposed {
		t.Error("previous scene was not disposed")
	}
	if second.width != 1024 || second.height != 768 {
		t.Errorf("new scene size = %dx%d, want 1024x768", second.width, second.height)
	}

	sm.Close()
	if !second.disposed || sm.GetCurrentScene() != nil {
		t.Error("Close did not dispose the current scene")
	}
}
