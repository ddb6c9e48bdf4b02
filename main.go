package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/decker502/antpath/pkg/app"
	"github.com/decker502/antpath/pkg/embedded"
)

var (
	dataSource = flag.String("data", "", "轨迹数据源：CSV 文件路径、http(s) URL 或 embed:sample.csv")
	configPath = flag.String("config", "", "应用配置文件（YAML），为空时使用内置配置")
	verbose    = flag.Bool("verbose", false, "显示详细日志")
	watch      = flag.Bool("watch", false, "数据文件变化时自动重新加载")
	width      = flag.Int("width", 0, "窗口宽度（0 表示使用配置）")
	height     = flag.Int("height", 0, "窗口高度（0 表示使用配置）")
)

func main() {
	flag.Parse()

	// dataFS 在 embed.go 中声明
	embedded.Init(dataFS)

	if flag.NArg() > 0 && *dataSource == "" {
		*dataSource = flag.Arg(0)
	}

	viewer, err := app.NewApp(app.Config{
		Verbose:    *verbose,
		ConfigPath: *configPath,
		DataSource: *dataSource,
		Watch:      *watch,
		Width:      *width,
		Height:     *height,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "初始化失败: %v\n", err)
		os.Exit(1)
	}
	defer viewer.Close()

	cfg := viewer.AppConfig()
	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(viewer); err != nil {
		log.Fatal(err)
	}
}
