package pathdata

import (
	"math"
	"testing"
)

// TestNormalize_Range 归一化后坐标落在 [-10,10]，Y 轴压缩到 [-6,6]
func TestNormalize_Range(t *testing.T) {
	points := Normalize([]Record{{X: 0, Y: 0, Z: 0}, {X: 100, Y: 50, Z: -4}})
	if len(points) != 2 {
		t.Fatalf("Expected 2 points, got %d", len(points))
	}
	want := [][3]float64{{-10, -6, 10}, {10, 6, -10}}
	for i, p := range points {
		for axis := 0; axis < 3; axis++ {
			if math.Abs(p[axis]-want[i][axis]) > 1e-9 {
				t.Errorf("point %d axis %d = %v, want %v", i, axis, p[axis], want[i][axis])
			}
		}
	}
}

// TestNormalize_DegenerateAxis 某轴无变化时映射为 0，不产生 NaN
func TestNormalize_DegenerateAxis(t *testing.T) {
	points := Normalize([]Record{{X: 1, Y: 5, Z: 3}, {X: 2, Y: 5, Z: 3}})
	for _, p := range points {
		if p[1] != 0 || p[2] != 0 {
			t.Errorf("Degenerate axes should map to 0, got %v", p)
		}
		if math.IsNaN(p[0]) {
			t.Error("Unexpected NaN")
		}
	}
}

// TestBounds 包围盒中心与最大尺寸
func TestBounds(t *testing.T) {
	b := BoundsOf(Normalize(SampleDataset().Records))
	if b.MaxExtent() != NormalizedScale {
		t.Errorf("MaxExtent = %v, want %v", b.MaxExtent(), NormalizedScale)
	}
	c := b.Center()
	for axis := 0; axis < 3; axis++ {
		if math.Abs(c[axis]) > 1e-9 {
			t.Errorf("Center axis %d = %v, want 0", axis, c[axis])
		}
	}
}

// TestSampleDataset 示例数据点数
func TestSampleDataset(t *testing.T) {
	ds := SampleDataset()
	if len(ds.Records) != SamplePointCount {
		t.Errorf("Expected %d sample points, got %d", SamplePointCount, len(ds.Records))
	}
}
