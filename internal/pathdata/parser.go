package pathdata

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// 表头别名（大小写不敏感，按顺序匹配）
var (
	xAliases    = []string{"x", "lng", "longitude"}
	yAliases    = []string{"y", "lat", "latitude"}
	zAliases    = []string{"z", "time", "step"}
	stepAliases = []string{"step", "index"}
)

// Parse 解析 CSV 字节内容
//
// 格式规则：
//   - 第一行含字母且至少一个字段不是数字时视为表头，按别名查找 x/y/z 列
//   - 无表头时每行为 "x,y,z"（步序号取行序号）或 "step,x,y,z"
//   - 任一字段无法解析或不是有限值的行被静默丢弃
//
// 返回：
//   - *Dataset: 解析结果（至少一条记录）
//   - error: ErrMissingColumns / ErrNoRecords 或 CSV 读取错误
func Parse(data []byte) (*Dataset, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.LazyQuotes = true

	rows := make([][]string, 0, 64)
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv: %w", err)
		}
		if isBlankRow(row) {
			continue
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, ErrNoRecords
	}

	ds := &Dataset{Records: make([]Record, 0, len(rows))}
	if isHeader(rows[0]) {
		ds.HasHeader = true
		if err := parseWithHeader(ds, rows[0], rows[1:]); err != nil {
			return nil, err
		}
	} else {
		parseHeaderless(ds, rows)
	}

	if len(ds.Records) == 0 {
		return nil, ErrNoRecords
	}
	return ds, nil
}

func parseWithHeader(ds *Dataset, header []string, rows [][]string) error {
	colX := findColumnIndex(header, xAliases)
	colY := findColumnIndex(header, yAliases)
	colZ := findColumnIndex(header, zAliases)
	if colX == -1 || colY == -1 || colZ == -1 {
		return fmt.Errorf("%w (header: %s)", ErrMissingColumns, strings.Join(header, ","))
	}
	colStep := findColumnIndex(header, stepAliases)
	if colStep == colZ {
		colStep = -1
	}

	for i, row := range rows {
		x, okX := cell(row, colX)
		y, okY := cell(row, colY)
		z, okZ := cell(row, colZ)
		if !okX || !okY || !okZ {
			ds.Dropped++
			continue
		}
		step := i
		if colStep != -1 {
			s, ok := cell(row, colStep)
			if !ok {
				ds.Dropped++
				continue
			}
			step = int(s)
		}
		ds.Records = append(ds.Records, Record{Step: step, X: x, Y: y, Z: z})
	}
	return nil
}

func parseHeaderless(ds *Dataset, rows [][]string) {
	for i, row := range rows {
		var rec Record
		ok := true
		switch {
		case len(row) == 3:
			rec.Step = i
			rec.X, ok = parseFinite(row[0])
			if ok {
				rec.Y, ok = parseFinite(row[1])
			}
			if ok {
				rec.Z, ok = parseFinite(row[2])
			}
		case len(row) >= 4:
			var s float64
			s, ok = parseFinite(row[0])
			rec.Step = int(s)
			if ok {
				rec.X, ok = parseFinite(row[1])
			}
			if ok {
				rec.Y, ok = parseFinite(row[2])
			}
			if ok {
				rec.Z, ok = parseFinite(row[3])
			}
		default:
			ok = false
		}
		if !ok {
			ds.Dropped++
			continue
		}
		ds.Records = append(ds.Records, rec)
	}
}

// findColumnIndex 按候选顺序在表头中查找列，找不到返回 -1
func findColumnIndex(header []string, candidates []string) int {
	for _, candidate := range candidates {
		for i, h := range header {
			if strings.EqualFold(strings.TrimSpace(h), candidate) {
				return i
			}
		}
	}
	return -1
}

// isHeader 第一行含字母，且至少一个字段不是数字
// "1e5" 这类科学计数法含字母但整行都是数字，不算表头
func isHeader(row []string) bool {
	hasLetter := false
	for _, field := range row {
		if strings.IndexFunc(field, unicode.IsLetter) >= 0 {
			hasLetter = true
			break
		}
	}
	if !hasLetter {
		return false
	}
	for _, field := range row {
		if _, err := strconv.ParseFloat(strings.TrimSpace(field), 64); err != nil {
			return true
		}
	}
	return false
}

func isBlankRow(row []string) bool {
	for _, field := range row {
		if strings.TrimSpace(field) != "" {
			return false
		}
	}
	return true
}

func cell(row []string, idx int) (float64, bool) {
	if idx < 0 || idx >= len(row) {
		return 0, false
	}
	return parseFinite(row[idx])
}

func parseFinite(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
