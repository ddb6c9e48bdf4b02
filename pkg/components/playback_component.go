package components

// PlaybackState 播放状态
type PlaybackState int

const (
	// PlaybackIdle 未开始或已重置
	PlaybackIdle PlaybackState = iota
	// PlaybackRunning 正在沿路径推进
	PlaybackRunning
	// PlaybackFinished 到达最后一个航点
	PlaybackFinished
)

// String 返回状态名称（HUD 显示）
func (s PlaybackState) String() string {
	switch s {
	case PlaybackIdle:
		return "idle"
	case PlaybackRunning:
		return "running"
	case PlaybackFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// PlaybackComponent 动画游标
//
// 不变量：0 ≤ Segment ≤ max(N-2, 0)，0 ≤ T ≤ 1；只有结束状态下 T 才等于 1。
type PlaybackComponent struct {
	State   PlaybackState
	Segment int
	T       float64

	// FinishNotified 本轮播放的完成通知是否已经发出
	FinishNotified bool
}
