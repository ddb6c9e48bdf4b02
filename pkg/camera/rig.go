package camera

import (
	"log"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/decker502/antpath/internal/pathdata"
)

// 轨道控制参数
const (
	// Damping 每次 Update 应用剩余速度的比例，剩余部分按 (1-Damping) 衰减
	Damping = 0.05

	rotateSpeed = 0.005 // 弧度/像素
	zoomStep    = 0.95  // 每个滚轮刻度的距离缩放
	minPolar    = 0.01
	maxPolar    = math.Pi - 0.01
	minZoom     = 0.05
	maxZoom     = 50
	velocityEps = 1e-6
)

// Rig 相机控制器
//
// 保存当前视图类型、包围盒、摆放和正交缩放。所有视图切换都从包围盒重新推导，
// 轨道控制只修改当前摆放，不会影响其他视图。
type Rig struct {
	settings Settings
	kind     ViewKind
	bounds   pathdata.Bounds
	place    Placement
	zoom     float64 // 正交缩放倍数（固定视图和自由正交）
	orthoH   float64 // 自由正交视图采用时的视野半高

	// 阻尼中的剩余速度
	yawVel, pitchVel float64
	panVel           mgl64.Vec2
	zoomVel          float64 // 对数缩放速度
}

// NewRig 创建透视视图的相机控制器，初始包围盒为原点附近的单位立方体
func NewRig(s Settings) *Rig {
	r := &Rig{settings: s, zoom: 1}
	r.bounds = pathdata.Bounds{Min: mgl64.Vec3{-0.5, -0.5, -0.5}, Max: mgl64.Vec3{0.5, 0.5, 0.5}}
	r.SwitchTo(ViewPerspective)
	return r
}

// Kind 当前视图类型
func (r *Rig) Kind() ViewKind {
	return r.kind
}

// Placement 当前摆放
func (r *Rig) Placement() Placement {
	return r.place
}

// Bounds 当前适配的包围盒
func (r *Rig) Bounds() pathdata.Bounds {
	return r.bounds
}

// Zoom 当前正交缩放倍数
func (r *Rig) Zoom() float64 {
	return r.zoom
}

// SwitchTo 切换视图
//
// Perspective/Front/Left/Top 从包围盒无状态推导；OrthographicFree 沿用当前摆放，
// 仅把投影换成正交，视野半高按当前距离与视角换算，使画面大小保持一致。
func (r *Rig) SwitchTo(kind ViewKind) {
	r.stop()
	r.zoom = 1

	if kind == ViewOrthographicFree {
		if r.kind != ViewPerspective && r.kind != ViewOrthographicFree {
			r.place = DerivePlacement(ViewPerspective, r.bounds, r.settings)
		}
		if r.kind != ViewOrthographicFree {
			r.orthoH = r.place.Distance() * math.Tan(mgl64.DegToRad(r.settings.FOV)/2)
		}
		r.kind = kind
		log.Printf("[Camera] Switched to %s (half height %.2f)", kind, r.orthoH)
		return
	}

	r.kind = kind
	r.place = DerivePlacement(kind, r.bounds, r.settings)
	log.Printf("[Camera] Switched to %s", kind)
}

// Flip 把相机位置关于包围盒中心镜像，观察目标保持不变
func (r *Rig) Flip() {
	r.stop()
	center := r.bounds.Center()
	r.place.Eye = center.Mul(2).Sub(r.place.Eye)
}

// Refit 数据重新加载后适配新的包围盒并重新推导当前视图
func (r *Rig) Refit(b pathdata.Bounds) {
	r.bounds = b
	kind := r.kind
	if kind == ViewOrthographicFree {
		// 先回到透视摆放再采用，保证适配结果与透视视图一致
		r.kind = ViewPerspective
		r.place = DerivePlacement(ViewPerspective, b, r.settings)
	}
	r.SwitchTo(kind)
}

// Camera 返回给定视口尺寸下的相机快照
func (r *Rig) Camera(w, h int) Camera {
	half := 0.0
	switch {
	case r.kind == ViewOrthographicFree:
		half = r.orthoH / r.zoom
	case r.kind.IsFixed():
		half = fitExtent(r.bounds) * orthoFitFactor / r.zoom
	}
	return buildCamera(r.kind, r.place, r.settings, half, w, h)
}

// Rotate 累积旋转输入（像素位移），固定视图忽略
func (r *Rig) Rotate(dx, dy float64) {
	if r.kind.IsFixed() {
		return
	}
	r.yawVel -= dx * rotateSpeed
	r.pitchVel -= dy * rotateSpeed
}

// Pan 累积平移输入（像素位移），固定视图忽略
func (r *Rig) Pan(dx, dy float64) {
	if r.kind.IsFixed() {
		return
	}
	r.panVel = r.panVel.Add(mgl64.Vec2{dx, dy})
}

// ZoomBy 累积滚轮输入，正数拉近
func (r *Rig) ZoomBy(steps float64) {
	r.zoomVel += steps * -math.Log(zoomStep)
}

// Update 每帧应用一次阻尼后的速度
//
// 参数：
//   - viewportHeight: 视口高度（像素），用于把平移像素换算成世界单位
func (r *Rig) Update(viewportHeight int) {
	r.applyZoom(r.zoomVel * Damping)
	r.zoomVel *= 1 - Damping

	if r.kind.IsFixed() {
		r.clearSmall()
		return
	}

	r.applyOrbit(r.yawVel*Damping, r.pitchVel*Damping)
	r.yawVel *= 1 - Damping
	r.pitchVel *= 1 - Damping

	r.applyPan(r.panVel.Mul(Damping), viewportHeight)
	r.panVel = r.panVel.Mul(1 - Damping)

	r.clearSmall()
}

// IsMoving 是否仍有未衰减完的速度
func (r *Rig) IsMoving() bool {
	return r.yawVel != 0 || r.pitchVel != 0 || r.panVel.Len() != 0 || r.zoomVel != 0
}

func (r *Rig) stop() {
	r.yawVel, r.pitchVel, r.zoomVel = 0, 0, 0
	r.panVel = mgl64.Vec2{}
}

func (r *Rig) clearSmall() {
	if math.Abs(r.yawVel) < velocityEps {
		r.yawVel = 0
	}
	if math.Abs(r.pitchVel) < velocityEps {
		r.pitchVel = 0
	}
	if r.panVel.Len() < velocityEps {
		r.panVel = mgl64.Vec2{}
	}
	if math.Abs(r.zoomVel) < velocityEps {
		r.zoomVel = 0
	}
}

// applyOrbit 绕目标点做球坐标旋转，极角限制在 (0, π)
func (r *Rig) applyOrbit(dYaw, dPitch float64) {
	if dYaw == 0 && dPitch == 0 {
		return
	}
	offset := r.place.Eye.Sub(r.place.Target)
	radius := offset.Len()
	if radius == 0 {
		return
	}

	theta := math.Atan2(offset.X(), offset.Z())
	phi := math.Acos(mgl64.Clamp(offset.Y()/radius, -1, 1))

	theta += dYaw
	phi = mgl64.Clamp(phi+dPitch, minPolar, maxPolar)

	sinPhi := math.Sin(phi)
	offset = mgl64.Vec3{
		radius * sinPhi * math.Sin(theta),
		radius * math.Cos(phi),
		radius * sinPhi * math.Cos(theta),
	}
	r.place.Eye = r.place.Target.Add(offset)
	r.place.Up = mgl64.Vec3{0, 1, 0}
}

// applyPan 沿相机的右方向和上方向同时移动眼睛和目标
func (r *Rig) applyPan(d mgl64.Vec2, viewportHeight int) {
	if d.Len() == 0 || viewportHeight <= 0 {
		return
	}
	forward := r.place.Target.Sub(r.place.Eye)
	dist := forward.Len()
	if dist == 0 {
		return
	}
	forward = forward.Mul(1 / dist)
	right := forward.Cross(r.place.Up).Normalize()
	up := right.Cross(forward)

	// 视口高度对应的世界尺寸
	var worldH float64
	if r.kind == ViewOrthographicFree {
		worldH = 2 * r.orthoH / r.zoom
	} else {
		worldH = 2 * dist * math.Tan(mgl64.DegToRad(r.settings.FOV)/2)
	}
	perPixel := worldH / float64(viewportHeight)

	move := right.Mul(-d.X() * perPixel).Add(up.Mul(d.Y() * perPixel))
	r.place.Eye = r.place.Eye.Add(move)
	r.place.Target = r.place.Target.Add(move)
}

// applyZoom 透视视图改变距离，正交视图改变缩放倍数
func (r *Rig) applyZoom(logAmount float64) {
	if logAmount == 0 {
		return
	}
	factor := math.Exp(logAmount)

	if r.kind.IsOrthographic() {
		r.zoom = mgl64.Clamp(r.zoom*factor, minZoom, maxZoom)
		return
	}

	offset := r.place.Eye.Sub(r.place.Target)
	dist := offset.Len()
	if dist == 0 {
		return
	}
	far := r.settings.Far * 0.5
	newDist := mgl64.Clamp(dist/factor, r.settings.Near*2, far)
	r.place.Eye = r.place.Target.Add(offset.Mul(newDist / dist))
}
