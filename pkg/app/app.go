// Package app 提供查看器应用的核心包装器
//
// 该包把初始化逻辑从 main 包提取出来：读取应用配置、打开持久化存储、
// 创建查看器场景，并实现 ebiten.Game 接口。
package app

import (
	"fmt"
	"image/color"
	"io"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/decker502/antpath/pkg/config"
	"github.com/decker502/antpath/pkg/embedded"
	"github.com/decker502/antpath/pkg/game"
	"github.com/decker502/antpath/pkg/scenes"
)

// DefaultConfigPath 嵌入的默认应用配置
const DefaultConfigPath = "data/config.yaml"

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// ConfigPath 应用配置文件路径，为空时使用嵌入的默认配置
	ConfigPath string
	// DataSource 覆盖配置文件中的数据源（文件路径、URL 或 embed:）
	DataSource string
	// Watch 数据文件变化时自动重新加载
	Watch bool
	// Width, Height 覆盖窗口尺寸（0 表示使用配置文件）
	Width, Height int
}

// App 是查看器应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	sceneManager             *game.SceneManager
	appConfig                config.AppConfig
	verbose                  bool
	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化查看器应用
//
// 调用此函数前，必须先调用 embedded.Init() 初始化嵌入资源。
func NewApp(cfg Config) (*App, error) {
	// 配置日志输出
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	appConfig, err := LoadConfig(cfg)
	if err != nil {
		return nil, err
	}

	store := game.NewConfigStore(game.OpenGdata(appConfig.Storage.AppName), appConfig.Defaults)

	sceneManager := game.NewSceneManager()
	sceneManager.SwitchTo(scenes.NewViewerScene(scenes.ViewerOptions{
		App:   appConfig,
		Store: store,
	}))
	sceneManager.Resize(appConfig.Window.Width, appConfig.Window.Height)

	log.Printf("[App] Viewer started (%dx%d)", appConfig.Window.Width, appConfig.Window.Height)
	return &App{
		sceneManager: sceneManager,
		appConfig:    appConfig,
		verbose:      cfg.Verbose,
	}, nil
}

// LoadConfig 读取应用配置并应用命令行覆盖
//
// ConfigPath 为空时读取嵌入的默认配置；嵌入资源不可用时使用内置默认值。
func LoadConfig(cfg Config) (config.AppConfig, error) {
	var (
		appConfig *config.AppConfig
		err       error
	)
	switch {
	case cfg.ConfigPath != "":
		appConfig, err = config.LoadAppConfig(cfg.ConfigPath)
		if err != nil {
			return config.AppConfig{}, fmt.Errorf("配置加载失败: %w", err)
		}
		log.Printf("[Config] Loaded %s", cfg.ConfigPath)
	case embedded.IsInitialized() && embedded.Exists(DefaultConfigPath):
		data, readErr := embedded.ReadFile(DefaultConfigPath)
		if readErr != nil {
			return config.AppConfig{}, fmt.Errorf("嵌入配置读取失败: %w", readErr)
		}
		appConfig, err = config.ParseAppConfig(data)
		if err != nil {
			return config.AppConfig{}, fmt.Errorf("嵌入配置解析失败: %w", err)
		}
	default:
		appConfig = config.DefaultAppConfig()
	}

	if cfg.DataSource != "" {
		appConfig.Data.Source = cfg.DataSource
	}
	if cfg.Watch {
		appConfig.Data.Watch = true
	}
	if cfg.Width > 0 {
		appConfig.Window.Width = cfg.Width
	}
	if cfg.Height > 0 {
		appConfig.Window.Height = cfg.Height
	}
	if err := appConfig.Validate(); err != nil {
		return config.AppConfig{}, fmt.Errorf("配置无效: %w", err)
	}
	return *appConfig, nil
}

// AppConfig 生效的应用配置
func (a *App) AppConfig() config.AppConfig {
	return a.appConfig
}

// Update 更新逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(a.appConfig.Window.Width, a.appConfig.Window.Height)
			log.Printf("[App] Delayed SetWindowSize(%d, %d)", a.appConfig.Window.Width, a.appConfig.Window.Height)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		if ebiten.IsFullscreen() {
			ebiten.SetFullscreen(false)
			if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
				ebiten.RestoreWindow()
			}
			a.pendingWindowSizeReset = true
			a.windowSizeResetCountdown = 3
			log.Printf("[App] Exit fullscreen, will reset window size in 3 frames")
		} else {
			ebiten.SetFullscreen(true)
		}
	}

	a.sceneManager.Update(1.0 / float64(ebiten.TPS()))
	return nil
}

// Draw 绘制画面
// 每帧调用一次
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 逻辑屏幕尺寸跟随窗口（或浏览器画布）尺寸，变化时转发给场景
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth <= 0 || outsideHeight <= 0 {
		return a.appConfig.Window.Width, a.appConfig.Window.Height
	}
	a.sceneManager.Resize(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

// Close 释放场景持有的后台资源
func (a *App) Close() {
	a.sceneManager.Close()
}

// GetSceneManager 返回场景管理器
func (a *App) GetSceneManager() *game.SceneManager {
	return a.sceneManager
}

// IsVerbose 返回是否启用了详细日志
func (a *App) IsVerbose() bool {
	return a.verbose
}
