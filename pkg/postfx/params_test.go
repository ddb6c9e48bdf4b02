package postfx

import (
	"regexp"
	"sort"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/decker502/antpath/pkg/config"
)

var uniformDecl = regexp.MustCompile(`(?m)^var ([A-Z]\w*) (float|vec2)$`)

// kageUniforms 从 Kage 源码中提取导出的 uniform 名称
func kageUniforms(src []byte) []string {
	var names []string
	for _, m := range uniformDecl.FindAllSubmatch(src, -1) {
		names = append(names, string(m[1]))
	}
	sort.Strings(names)
	return names
}

func mapKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// TestUniformsMatchShaderSource Go 侧的 uniform 表与 Kage 中声明的变量一一对应
func TestUniformsMatchShaderSource(t *testing.T) {
	cfg := config.DefaultViewerConfig()

	dKeys := mapKeys(DistortionParamsFrom(cfg).Uniforms(1))
	if want := kageUniforms(distortionKage); !equalStrings(dKeys, want) {
		t.Errorf("distortion uniforms %v, shader declares %v", dKeys, want)
	}

	cKeys := mapKeys(CRTParamsFrom(cfg).Uniforms(mgl64.Vec2{800, 600}, 1))
	if want := kageUniforms(crtKage); !equalStrings(cKeys, want) {
		t.Errorf("crt uniforms %v, shader declares %v", cKeys, want)
	}
}

// TestUniformTypes float 为 float32，vec2 为 []float32
func TestUniformTypes(t *testing.T) {
	u := CRTParamsFrom(config.DefaultViewerConfig()).Uniforms(mgl64.Vec2{1600, 900}, 2.5)

	res, ok := u["Resolution"].([]float32)
	if !ok || len(res) != 2 || res[0] != 1600 || res[1] != 900 {
		t.Errorf("Resolution uniform = %#v", u["Resolution"])
	}
	if v, ok := u["Time"].(float32); !ok || v != 2.5 {
		t.Errorf("Time uniform = %#v", u["Time"])
	}
	for k, v := range u {
		if k == "Resolution" {
			continue
		}
		if _, ok := v.(float32); !ok {
			t.Errorf("uniform %s has type %T, want float32", k, v)
		}
	}
}

// TestParamsFromConfig 参数直接取自配置快照
func TestParamsFromConfig(t *testing.T) {
	cfg := config.DefaultViewerConfig()
	d := DistortionParamsFrom(cfg)
	if d.Distortion != 0.30 || d.Dispersion != 0.60 || d.Crop != 0.33 || d.Alpha != 1 {
		t.Errorf("unexpected distortion params %+v", d)
	}
	c := CRTParamsFrom(cfg)
	if c.ScanlineIntensity != 0.73 || c.VignetteIntensity != 0.92 || c.NoiseIntensity != 0.30 || c.ScanlineCount != 800 {
		t.Errorf("unexpected crt params %+v", c)
	}
}
