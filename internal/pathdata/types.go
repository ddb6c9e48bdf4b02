// Package pathdata 解析路径数据（CSV）并把记录映射为场景中的航点。
//
// 数据来源可以是本地文件、HTTP 地址或拖放到窗口的文件，
// 读取逻辑由 pkg/game 的加载器负责，本包只处理字节内容。
package pathdata

import (
	"encoding/csv"
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	// ErrMissingColumns 表头存在但找不到 x/y/z（或别名）列
	ErrMissingColumns = errors.New("pathdata: header lacks x/y/z columns")
	// ErrNoRecords 解析后没有任何有效记录
	ErrNoRecords = errors.New("pathdata: no valid records")
)

// IsDataError 错误是否来自数据内容本身（缺列、无有效记录、CSV 格式错误），
// 而不是读取数据源失败
func IsDataError(err error) bool {
	var parseErr *csv.ParseError
	return errors.Is(err, ErrMissingColumns) || errors.Is(err, ErrNoRecords) || errors.As(err, &parseErr)
}

// Record 是 CSV 中的一行有效数据
type Record struct {
	Step    int     // 步序号（显式列或行序号）
	X, Y, Z float64 // 原始坐标
}

// Dataset 是一次解析的结果
type Dataset struct {
	Records   []Record
	HasHeader bool // 第一行是否被识别为表头
	Dropped   int  // 被丢弃的数据行数（非数字、非有限值、列数不足）
}

// Bounds 是航点的轴对齐包围盒
type Bounds struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// BoundsOf 计算点集的包围盒，空点集返回零值
func BoundsOf(points []mgl64.Vec3) Bounds {
	if len(points) == 0 {
		return Bounds{}
	}
	b := Bounds{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		for i := 0; i < 3; i++ {
			b.Min[i] = math.Min(b.Min[i], p[i])
			b.Max[i] = math.Max(b.Max[i], p[i])
		}
	}
	return b
}

// Center 返回包围盒中心
func (b Bounds) Center() mgl64.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Size 返回包围盒三个轴上的尺寸
func (b Bounds) Size() mgl64.Vec3 {
	return b.Max.Sub(b.Min)
}

// MaxExtent 返回三个轴尺寸中的最大值
func (b Bounds) MaxExtent() float64 {
	s := b.Size()
	return math.Max(s[0], math.Max(s[1], s[2]))
}
