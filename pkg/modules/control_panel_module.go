package modules

import (
	"fmt"
	"image"
	"image/color"
	"io/fs"
	"log"
	"math"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/decker502/antpath/pkg/camera"
	"github.com/decker502/antpath/pkg/config"
	"github.com/decker502/antpath/pkg/utils"
)

const (
	panelWidth   = 300
	panelMargin  = 12
	panelPadding = 10
	lineHeight   = 16
	// barWidth 参数条宽度（像素）
	barWidth = 90

	statusDuration = 4.0 // 状态消息显示时长（秒）
)

// 视图快捷键 1-5 对应的视图
var viewKeys = []struct {
	key  ebiten.Key
	kind camera.ViewKind
}{
	{ebiten.KeyDigit1, camera.ViewPerspective},
	{ebiten.KeyDigit2, camera.ViewOrthographicFree},
	{ebiten.KeyDigit3, camera.ViewFront},
	{ebiten.KeyDigit4, camera.ViewLeft},
	{ebiten.KeyDigit5, camera.ViewTop},
}

const helpLine = "Space play/pause  R reset  S save  1-5 views  6 flip  F fisheye  C crt  " +
	"Left/Right step  Home/End  Tab/Up/Down param  +/- adjust  0 default  P preset  H panel  L reload  F11 fullscreen"

// Commands 一帧内控制面板产生的操作，由场景在 Update 中统一应用
type Commands struct {
	// Deltas 配置修改，按顺序应用
	Deltas []config.Delta

	TogglePlay bool
	Reset      bool
	Save       bool
	Flip       bool
	Reload     bool

	// SetView 为 true 时切换到 View
	SetView bool
	View    camera.ViewKind

	// StepDelta 单步跳转的偏移（负数向前），StepFirst/StepLast 跳到两端
	StepDelta int
	StepFirst bool
	StepLast  bool

	// Dropped 拖放到窗口的文件
	Dropped fs.FS

	// CapturesPointer 光标位于面板上，相机应忽略鼠标
	CapturesPointer bool
}

// Empty 是否没有任何操作
func (c *Commands) Empty() bool {
	return len(c.Deltas) == 0 && !c.TogglePlay && !c.Reset && !c.Save && !c.Flip &&
		!c.Reload && !c.SetView && c.StepDelta == 0 && !c.StepFirst &&
		!c.StepLast && c.Dropped == nil
}

// HUDState 绘制 HUD 所需的只读数据
type HUDState struct {
	Step, LastStep int
	Playback       string
	View           camera.ViewKind
	Source         string
	Config         config.ViewerConfig
	Persistent     bool
}

// ControlPanelModule 键盘/鼠标控制面板和 HUD
//
// 职责：
//   - 把按键、滚轮、点击和拖放文件翻译成 Commands
//   - 维护当前选中的参数、配色方案序号、面板可见性和状态消息
//   - 在后处理之后把 HUD 直接绘制到屏幕上
type ControlPanelModule struct {
	face text.Face

	presets     []config.ColorPreset
	presetIndex int

	visible  bool
	selected int

	status      string
	statusUntil float64
	now         float64

	windowWidth  int
	windowHeight int

	drawOpts text.DrawOptions
}

// NewControlPanelModule 创建控制面板
//
// 参数：
//   - presets: 可循环切换的配色方案，为空时使用内置方案
func NewControlPanelModule(presets []config.ColorPreset, windowWidth, windowHeight int) *ControlPanelModule {
	if len(presets) == 0 {
		presets = config.DefaultPresets
	}
	return &ControlPanelModule{
		face:         text.NewGoXFace(basicfont.Face7x13),
		presets:      presets,
		presetIndex:  -1,
		visible:      true,
		windowWidth:  windowWidth,
		windowHeight: windowHeight,
	}
}

// SetWindowSize 窗口尺寸变化
func (m *ControlPanelModule) SetWindowSize(w, h int) {
	m.windowWidth, m.windowHeight = w, h
}

// Visible 参数面板是否可见
func (m *ControlPanelModule) Visible() bool {
	return m.visible
}

// Selected 当前选中的参数
func (m *ControlPanelModule) Selected() config.Param {
	return config.Params[m.selected]
}

// SetStatus 显示一条状态消息（几秒后消失）
func (m *ControlPanelModule) SetStatus(format string, args ...any) {
	m.status = fmt.Sprintf(format, args...)
	m.statusUntil = m.now + statusDuration
	log.Printf("[ControlPanel] %s", m.status)
}

// Status 当前显示的状态消息，过期后为空
func (m *ControlPanelModule) Status() string {
	if m.now >= m.statusUntil {
		return ""
	}
	return m.status
}

// Update 读取输入并生成本帧的操作
func (m *ControlPanelModule) Update(dt float64, in InputSource) Commands {
	m.now += dt
	var cmd Commands

	m.handlePlayback(in, &cmd)
	m.handleView(in, &cmd)
	m.handleParams(in, &cmd)
	m.handlePointer(in, &cmd)

	if justPressed(in, ebiten.KeyH) {
		m.visible = !m.visible
	}
	if justPressed(in, ebiten.KeyL) {
		cmd.Reload = true
	}
	if fsys := in.DroppedFiles(); fsys != nil {
		cmd.Dropped = fsys
	}
	return cmd
}

func (m *ControlPanelModule) handlePlayback(in InputSource, cmd *Commands) {
	if justPressed(in, ebiten.KeySpace) {
		cmd.TogglePlay = true
	}
	if justPressed(in, ebiten.KeyR) {
		cmd.Reset = true
	}
	if justPressed(in, ebiten.KeyS) {
		cmd.Save = true
	}
	if pressedOrRepeat(in, ebiten.KeyArrowRight) {
		cmd.StepDelta++
	}
	if pressedOrRepeat(in, ebiten.KeyArrowLeft) {
		cmd.StepDelta--
	}
	if justPressed(in, ebiten.KeyHome) {
		cmd.StepFirst = true
	}
	if justPressed(in, ebiten.KeyEnd) {
		cmd.StepLast = true
	}
}

func (m *ControlPanelModule) handleView(in InputSource, cmd *Commands) {
	for _, vk := range viewKeys {
		if justPressed(in, vk.key) {
			cmd.SetView = true
			cmd.View = vk.kind
		}
	}
	if justPressed(in, ebiten.KeyDigit6) {
		cmd.Flip = true
	}
}

func (m *ControlPanelModule) handleParams(in InputSource, cmd *Commands) {
	shift := held(in, ebiten.KeyShiftLeft, ebiten.KeyShiftRight)

	if justPressed(in, ebiten.KeyTab) {
		if shift {
			m.selectParam(m.selected - 1)
		} else {
			m.selectParam(m.selected + 1)
		}
	}
	if pressedOrRepeat(in, ebiten.KeyArrowDown) {
		m.selectParam(m.selected + 1)
	}
	if pressedOrRepeat(in, ebiten.KeyArrowUp) {
		m.selectParam(m.selected - 1)
	}

	steps := 1
	if shift {
		steps = 10
	}
	key := config.Params[m.selected].Key
	if pressedOrRepeat(in, ebiten.KeyEqual) || pressedOrRepeat(in, ebiten.KeyNumpadAdd) {
		cmd.Deltas = append(cmd.Deltas, config.NudgeParam(key, steps))
	}
	if pressedOrRepeat(in, ebiten.KeyMinus) || pressedOrRepeat(in, ebiten.KeyNumpadSubtract) {
		cmd.Deltas = append(cmd.Deltas, config.NudgeParam(key, -steps))
	}
	if justPressed(in, ebiten.KeyDigit0) {
		def := config.DefaultViewerConfig()
		cmd.Deltas = append(cmd.Deltas, config.SetParam(key, config.Params[m.selected].Get(&def)))
	}

	if justPressed(in, ebiten.KeyF) {
		cmd.Deltas = append(cmd.Deltas, config.ToggleFisheye())
	}
	if justPressed(in, ebiten.KeyC) {
		cmd.Deltas = append(cmd.Deltas, config.ToggleCRT())
	}
	if justPressed(in, ebiten.KeyP) {
		m.presetIndex = (m.presetIndex + 1) % len(m.presets)
		p := m.presets[m.presetIndex]
		cmd.Deltas = append(cmd.Deltas, config.ApplyPreset(p))
		m.SetStatus("Preset: %s", p.Name)
	}
}

// handlePointer 面板上的鼠标：点击选择参数行，滚轮调整选中的参数
func (m *ControlPanelModule) handlePointer(in InputSource, cmd *Commands) {
	if !m.visible {
		return
	}
	x, y := in.CursorPosition()
	pt := image.Pt(x, y)
	if !pt.In(m.PanelRect()) {
		return
	}
	cmd.CapturesPointer = true

	if in.MouseJustPressed(ebiten.MouseButtonLeft) {
		if row, ok := m.paramRowAt(y); ok {
			m.selectParam(row)
		}
	}
	if _, wy := in.Wheel(); wy != 0 {
		steps := 1
		if wy < 0 {
			steps = -1
		}
		cmd.Deltas = append(cmd.Deltas, config.NudgeParam(config.Params[m.selected].Key, steps))
	}
}

func (m *ControlPanelModule) selectParam(i int) {
	n := len(config.Params)
	m.selected = ((i % n) + n) % n
}

// PanelRect 参数面板在屏幕上的区域
func (m *ControlPanelModule) PanelRect() image.Rectangle {
	rows := len(config.Params) + 4
	x0 := m.windowWidth - panelWidth - panelMargin
	y0 := panelMargin
	return image.Rect(x0, y0, x0+panelWidth, y0+rows*lineHeight+2*panelPadding)
}

// paramRowY 第 i 个参数行的文字基线上沿
func (m *ControlPanelModule) paramRowY(i int) int {
	return m.PanelRect().Min.Y + panelPadding + (i+1)*lineHeight
}

func (m *ControlPanelModule) paramRowAt(y int) (int, bool) {
	top := m.paramRowY(0)
	if y < top {
		return 0, false
	}
	row := (y - top) / lineHeight
	if row >= len(config.Params) {
		return 0, false
	}
	return row, true
}

// Draw 绘制 HUD（步数、状态、参数面板、帮助）
func (m *ControlPanelModule) Draw(screen *ebiten.Image, st HUDState) {
	white := color.RGBA{235, 235, 235, 255}
	dim := color.RGBA{150, 150, 150, 255}

	m.drawText(screen, FormatStep(st.Step, st.LastStep), panelMargin, panelMargin, white)
	m.drawText(screen, fmt.Sprintf("%s  view: %s", st.Playback, st.View), panelMargin, panelMargin+lineHeight, dim)
	if st.Source != "" {
		m.drawText(screen, "data: "+st.Source, panelMargin, panelMargin+2*lineHeight, dim)
	}
	if s := m.Status(); s != "" {
		m.drawText(screen, s, panelMargin, panelMargin+3*lineHeight, color.RGBA{255, 210, 120, 255})
	}

	m.drawText(screen, helpLine, panelMargin, m.windowHeight-panelMargin-lineHeight, dim)

	if m.visible {
		m.drawPanel(screen, st)
	}
}

func (m *ControlPanelModule) drawPanel(screen *ebiten.Image, st HUDState) {
	r := m.PanelRect()
	vector.DrawFilledRect(screen, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), color.NRGBA{0, 0, 0, 150}, false)

	x := r.Min.X + panelPadding
	m.drawText(screen, "Parameters", x, r.Min.Y+panelPadding, color.RGBA{235, 235, 235, 255})

	cfg := st.Config
	for i, p := range config.Params {
		y := m.paramRowY(i)
		c := color.RGBA{170, 170, 170, 255}
		prefix := "  "
		if i == m.selected {
			c = color.RGBA{255, 255, 255, 255}
			prefix = "> "
		}
		v := p.Get(&cfg)
		m.drawText(screen, fmt.Sprintf("%s%-15s %8s", prefix, p.Label, FormatValue(p, v)), x, y, c)

		frac := float32(0)
		if p.Max > p.Min {
			frac = float32(utils.ClampFloat((v-p.Min)/(p.Max-p.Min), 0, 1))
		}
		bx := float32(r.Max.X - panelPadding - barWidth)
		by := float32(y + 4)
		vector.DrawFilledRect(screen, bx, by, barWidth, 5, color.NRGBA{255, 255, 255, 40}, false)
		vector.DrawFilledRect(screen, bx, by, barWidth*frac, 5, color.NRGBA{255, 255, 255, 160}, false)
	}

	y := m.paramRowY(len(config.Params))
	m.drawText(screen, fmt.Sprintf("  Fisheye [F] %s   CRT [C] %s", onOff(cfg.FisheyeEnabled), onOff(cfg.CRTEnabled)), x, y, color.RGBA{200, 200, 200, 255})
	preset := "custom"
	if m.presetIndex >= 0 {
		preset = m.presets[m.presetIndex].Name
	}
	save := "S to save"
	if !st.Persistent {
		save = "no storage"
	}
	m.drawText(screen, fmt.Sprintf("  Preset [P] %s   %s", preset, save), x, y+lineHeight, color.RGBA{200, 200, 200, 255})

	swatchY := float32(y + 2*lineHeight + 2)
	for i, hex := range []string{cfg.PathColor, cfg.DustColor, cfg.BackgroundColor} {
		c := utils.MustParseHexColor(hex, color.RGBA{A: 255})
		vector.DrawFilledRect(screen, float32(x+i*28), swatchY, 22, 10, c, false)
	}
}

func (m *ControlPanelModule) drawText(screen *ebiten.Image, s string, x, y int, c color.Color) {
	m.drawOpts.GeoM.Reset()
	m.drawOpts.GeoM.Translate(float64(x), float64(y))
	m.drawOpts.ColorScale.Reset()
	m.drawOpts.ColorScale.ScaleWithColor(c)
	text.Draw(screen, s, m.face, &m.drawOpts)
}

// FormatStep 步数显示："Step k / N-1"，没有数据时为 "Step - / -"
func FormatStep(step, last int) string {
	if last < 0 {
		return "Step - / -"
	}
	return fmt.Sprintf("Step %d / %d", step, last)
}

// FormatValue 按参数步长决定小数位数
func FormatValue(p config.Param, v float64) string {
	decimals := 0
	for scaled := p.Step; decimals < 4 && math.Abs(scaled-math.Round(scaled)) > 1e-6; scaled *= 10 {
		decimals++
	}
	out := fmt.Sprintf("%.*f", decimals, v)
	if strings.HasPrefix(out, "-") && strings.Trim(out, "-0.") == "" {
		out = out[1:]
	}
	return out
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
