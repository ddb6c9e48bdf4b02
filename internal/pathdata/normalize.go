package pathdata

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	// NormalizedScale 归一化后路径所在立方体的边长
	NormalizedScale = 20.0
	// VerticalSquash Y 轴额外压缩比例
	VerticalSquash = 0.6
)

// Normalize 把记录映射到以原点为中心、边长 NormalizedScale 的盒子中（Y 轴再乘 VerticalSquash）
//
// 某个轴上所有值相同时该轴映射为 0。
func Normalize(records []Record) []mgl64.Vec3 {
	if len(records) == 0 {
		return nil
	}

	minV := mgl64.Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	maxV := mgl64.Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for _, r := range records {
		v := mgl64.Vec3{r.X, r.Y, r.Z}
		for i := 0; i < 3; i++ {
			minV[i] = math.Min(minV[i], v[i])
			maxV[i] = math.Max(maxV[i], v[i])
		}
	}

	axisScale := mgl64.Vec3{NormalizedScale, NormalizedScale * VerticalSquash, NormalizedScale}
	points := make([]mgl64.Vec3, len(records))
	for n, r := range records {
		v := mgl64.Vec3{r.X, r.Y, r.Z}
		for i := 0; i < 3; i++ {
			span := maxV[i] - minV[i]
			if span == 0 {
				continue
			}
			points[n][i] = ((v[i]-minV[i])/span - 0.5) * axisScale[i]
		}
	}
	return points
}
