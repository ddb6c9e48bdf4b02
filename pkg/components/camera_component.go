package components

import "github.com/decker502/antpath/pkg/camera"

// CameraComponent 相机实体持有的轨道相机装置
//
// 相机实体全局唯一，由 CameraSystem 创建。
type CameraComponent struct {
	Rig *camera.Rig
}
