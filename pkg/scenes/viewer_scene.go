package scenes

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/decker502/antpath/internal/pathdata"
	"github.com/decker502/antpath/pkg/camera"
	"github.com/decker502/antpath/pkg/components"
	"github.com/decker502/antpath/pkg/config"
	"github.com/decker502/antpath/pkg/ecs"
	"github.com/decker502/antpath/pkg/game"
	"github.com/decker502/antpath/pkg/modules"
	"github.com/decker502/antpath/pkg/postfx"
	"github.com/decker502/antpath/pkg/systems"
)

// ViewerScene 路径查看器场景
//
// 持有 ECS 世界、所有系统、后处理链和控制面板。每个 tick 的顺序：
//
//  1. 应用后台加载完成的数据（以及文件变化触发的重新加载）
//  2. 读取控制面板输入，把本帧的配置修改一次性应用到配置快照
//  3. 相机阻尼、动画推进、轨迹同步、尘埃漂浮
//
// Draw 用本帧的配置快照和相机构造 RenderContext，交给后处理链，最后绘制 HUD。
type ViewerScene struct {
	entityManager *ecs.EntityManager

	playbackSystem    *systems.PlaybackSystem
	trailSystem       *systems.TrailSystem
	dustSystem        *systems.DustSystem
	cameraSystem      *systems.CameraSystem
	sceneRenderSystem *systems.SceneRenderSystem

	compositor *postfx.Compositor
	panel      *modules.ControlPanelModule
	input      modules.InputSource

	loader  *game.DataLoader
	watcher *game.DataWatcher
	store   *game.ConfigStore

	cfg config.ViewerConfig
	// source 配置的数据源（重新加载和文件监视使用），shown 是当前显示的数据来自哪里
	source string
	shown  string

	elapsed       float64
	frame         uint64
	width, height int
}

// ViewerOptions 创建查看器场景的参数
type ViewerOptions struct {
	App   config.AppConfig
	Store *game.ConfigStore
	// Input 为 nil 时使用 ebiten 全局输入
	Input modules.InputSource
}

// NewViewerScene 创建查看器场景并开始加载数据源
func NewViewerScene(opts ViewerOptions) *ViewerScene {
	app := opts.App
	em := ecs.NewEntityManager()

	s := &ViewerScene{
		entityManager: em,
		store:         opts.Store,
		input:         opts.Input,
		source:        app.Data.Source,
		width:         app.Window.Width,
		height:        app.Window.Height,
		loader:        game.NewDataLoader(),
	}
	if s.input == nil {
		s.input = modules.EbitenInput{}
	}
	if s.store == nil {
		s.store = game.NewConfigStore(nil, app.Defaults)
	}
	s.cfg = s.store.LoadOrDefault()

	s.playbackSystem = systems.NewPlaybackSystem(em, s.onPlaybackFinished)
	s.trailSystem = systems.NewTrailSystem(em)
	s.dustSystem = systems.NewDustSystem(em, app.Dust)
	s.cameraSystem = systems.NewCameraSystem(em, camera.Settings{
		FOV:  app.Camera.FOV,
		Near: app.Camera.Near,
		Far:  app.Camera.Far,
	})
	s.cameraSystem.Rig().SwitchTo(s.cfg.View)
	s.sceneRenderSystem = systems.NewSceneRenderSystem(em)

	s.compositor = postfx.NewCompositor(s.sceneRenderSystem,
		postfx.NewDistortionPass(),
		postfx.NewCRTPass(s.width, s.height),
	)
	s.compositor.Resize(s.width, s.height)

	s.panel = modules.NewControlPanelModule(app.Presets, s.width, s.height)
	if !s.store.Persistent() {
		s.panel.SetStatus("Settings storage unavailable, changes will not persist")
	}

	if s.source == "" {
		s.showSample()
	} else {
		s.requestLoad(s.source)
		if app.Data.Watch {
			s.startWatcher(s.source)
		}
	}

	log.Printf("[ViewerScene] Created (%dx%d, source=%q)", s.width, s.height, s.source)
	return s
}

// Config 当前配置快照
func (s *ViewerScene) Config() config.ViewerConfig {
	return s.cfg
}

// Shown 当前显示的数据来源
func (s *ViewerScene) Shown() string {
	return s.shown
}

// Playback 动画驱动（测试和调试用）
func (s *ViewerScene) Playback() *systems.PlaybackSystem {
	return s.playbackSystem
}

// Rig 相机装置
func (s *ViewerScene) Rig() *camera.Rig {
	return s.cameraSystem.Rig()
}

// Update 每个 tick 调用一次
func (s *ViewerScene) Update(deltaTime float64) {
	s.elapsed += deltaTime
	s.frame++

	s.pollData()

	cmd := s.panel.Update(deltaTime, s.input)
	s.cameraSystem.InputEnabled = !cmd.CapturesPointer
	s.applyCommands(cmd)

	s.cameraSystem.Update(s.height)
	s.playbackSystem.Update(deltaTime, s.cfg.Speed)
	s.trailSystem.Update()
	s.dustSystem.Update(s.elapsed, s.cfg)
}

// Draw 绘制一帧
func (s *ViewerScene) Draw(screen *ebiten.Image) {
	ctx := &postfx.RenderContext{
		Width:  s.width,
		Height: s.height,
		Time:   s.elapsed,
		Frame:  s.frame,
		Config: s.cfg,
		Camera: s.cameraSystem.Rig().Camera(s.width, s.height),
	}
	s.compositor.Render(screen, ctx)

	last := s.playbackSystem.WaypointCount() - 1
	s.panel.Draw(screen, modules.HUDState{
		Step:       s.playbackSystem.CurrentStep(),
		LastStep:   last,
		Playback:   s.playbackSystem.State().String(),
		View:       s.cameraSystem.Rig().Kind(),
		Source:     s.shown,
		Config:     s.cfg,
		Persistent: s.store.Persistent(),
	})
}

// Resize 实现 game.Resizable
func (s *ViewerScene) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	s.width, s.height = width, height
	s.compositor.Resize(width, height)
	s.panel.SetWindowSize(width, height)
}

// Dispose 实现 game.Disposable
func (s *ViewerScene) Dispose() {
	s.loader.Close()
	if s.watcher != nil {
		if err := s.watcher.Close(); err != nil {
			log.Printf("[ViewerScene] Warning: failed to close watcher: %v", err)
		}
		s.watcher = nil
	}
}

// applyCommands 应用控制面板产生的操作
func (s *ViewerScene) applyCommands(cmd modules.Commands) {
	if len(cmd.Deltas) > 0 {
		s.cfg = s.cfg.Apply(cmd.Deltas...)
	}

	if cmd.TogglePlay {
		if s.playbackSystem.WaypointCount() < 2 {
			s.panel.SetStatus("Need at least 2 waypoints to play")
		} else {
			s.playbackSystem.Toggle()
		}
	}
	if cmd.Reset {
		s.playbackSystem.Reset()
	}
	if cmd.StepFirst {
		s.playbackSystem.JumpToStep(0)
	}
	if cmd.StepLast {
		s.playbackSystem.JumpToStep(s.playbackSystem.WaypointCount() - 1)
	}
	if cmd.StepDelta != 0 {
		s.playbackSystem.JumpToStep(s.playbackSystem.CurrentStep() + cmd.StepDelta)
	}

	rig := s.cameraSystem.Rig()
	if cmd.SetView {
		rig.SwitchTo(cmd.View)
		s.cfg = s.cfg.Apply(config.SetView(cmd.View))
	}
	if cmd.Flip {
		rig.Flip()
	}

	if cmd.Save {
		s.saveConfig()
	}
	if cmd.Reload {
		if s.source == "" {
			s.showSample()
		} else {
			s.requestLoad(s.source)
		}
	}
	if cmd.Dropped != nil {
		s.loader.LoadFS(cmd.Dropped)
		s.panel.SetStatus("Loading dropped file...")
	}
}

func (s *ViewerScene) saveConfig() {
	if !s.store.Persistent() {
		s.panel.SetStatus("Settings storage unavailable")
		return
	}
	if err := s.store.Save(s.cfg); err != nil {
		s.panel.SetStatus("Save failed: %v", err)
		return
	}
	s.panel.SetStatus("Settings saved")
}

func (s *ViewerScene) requestLoad(source string) {
	s.loader.Load(source)
	s.panel.SetStatus("Loading %s...", source)
}

// pollData 应用最新的加载结果
//
// 数据错误（缺列、没有有效记录）只显示提示并保留当前路径；
// 读取失败或还没有任何路径时退回到示例数据。
func (s *ViewerScene) pollData() {
	if s.watcher != nil && s.watcher.Changed() {
		s.requestLoad(s.source)
	}

	res, ok := s.loader.Poll()
	if !ok {
		return
	}
	if res.Err != nil {
		log.Printf("[ViewerScene] Warning: %v", res.Err)
		if pathdata.IsDataError(res.Err) && s.shown != "" {
			s.panel.SetStatus("%s, keeping %s", shortError(res.Err), s.shown)
			return
		}
		s.showSample()
		s.panel.SetStatus("%s, showing sample data", shortError(res.Err))
		return
	}

	s.applyDataset(res.Dataset, res.Source)
	msg := fmt.Sprintf("Loaded %d points from %s", len(res.Dataset.Records), res.Source)
	if res.Dataset.Dropped > 0 {
		msg += fmt.Sprintf(" (%d rows skipped)", res.Dataset.Dropped)
	}
	s.panel.SetStatus("%s", msg)
}

// showSample 同步显示示例数据，之前发出的加载请求全部作废
func (s *ViewerScene) showSample() {
	s.loader.Invalidate()
	s.applyDataset(pathdata.SampleDataset(), "sample")
}

// applyDataset 归一化航点，替换路径并让相机重新适配
func (s *ViewerScene) applyDataset(ds *pathdata.Dataset, source string) {
	waypoints := pathdata.Normalize(ds.Records)
	bounds := pathdata.BoundsOf(waypoints)

	s.playbackSystem.SetPath(components.PathComponent{
		Waypoints: waypoints,
		Bounds:    bounds,
		Source:    source,
	})
	s.trailSystem.Update()
	s.cameraSystem.Rig().Refit(bounds)

	s.shown = source
}

func (s *ViewerScene) startWatcher(source string) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") ||
		strings.HasPrefix(source, game.EmbedPrefix) {
		log.Printf("[ViewerScene] Watch ignored for non-file source %s", source)
		return
	}
	if _, err := os.Stat(source); err != nil {
		log.Printf("[ViewerScene] Warning: cannot watch %s: %v", source, err)
		return
	}
	w, err := game.NewDataWatcher(source)
	if err != nil {
		log.Printf("[ViewerScene] Warning: %v", err)
		return
	}
	s.watcher = w
}

func (s *ViewerScene) onPlaybackFinished() {
	s.panel.SetStatus("Reached the last waypoint")
}

// shortError 状态栏只显示错误链的最外层和最内层
func shortError(err error) string {
	msg := err.Error()
	if i := strings.LastIndex(msg, ": "); i >= 0 && len(msg) > 80 {
		return msg[:strings.Index(msg, ": ")] + ": " + msg[i+2:]
	}
	return msg
}
