package pathdata

import "math"

// SamplePointCount 内置示例路径的点数
const SamplePointCount = 30

// SampleDataset 生成数据源不可用时使用的示例路径（正弦/余弦螺旋）
func SampleDataset() *Dataset {
	ds := &Dataset{Records: make([]Record, 0, SamplePointCount)}
	for i := 0; i < SamplePointCount; i++ {
		t := float64(i) / float64(SamplePointCount-1)
		ds.Records = append(ds.Records, Record{
			Step: i,
			X:    math.Sin(t*math.Pi*3) * 8,
			Y:    t*15 - 7.5,
			Z:    math.Cos(t*math.Pi*2) * 6,
		})
	}
	return ds
}
