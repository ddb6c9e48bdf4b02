package utils

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// ErrInvalidColor 颜色字符串不是 #RRGGBB 或 #RGB 格式
var ErrInvalidColor = errors.New("invalid hex color")

// ParseHexColor 解析 "#RRGGBB" 或 "#RGB"（井号可省略）为不透明颜色
func ParseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// MustParseHexColor 解析失败时返回 fallback
func MustParseHexColor(s string, fallback color.RGBA) color.RGBA {
	c, err := ParseHexColor(s)
	if err != nil {
		return fallback
	}
	return c
}

// ColorToFloats 把颜色转换为 [0,1] 范围的 r, g, b
func ColorToFloats(c color.RGBA) (r, g, b float32) {
	return float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255
}
