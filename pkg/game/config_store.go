package game

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"

	"github.com/decker502/antpath/pkg/config"
)

// 存储路径常量
const (
	configObject   = "config"
	configProperty = "viewer"
)

// ConfigStore 持久化查看器配置
//
// 配置以扁平 JSON 对象保存在一个固定键下（桌面为文件，浏览器为 localStorage）。
// gdataManager 可为 nil，此时只在内存中保留配置（降级模式）。
type ConfigStore struct {
	gdataManager *gdata.Manager
	defaults     config.ViewerConfig
}

// NewConfigStore 创建配置存储
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式）
//   - defaults: 缺失字段和读取失败时使用的默认值
func NewConfigStore(gdataManager *gdata.Manager, defaults config.ViewerConfig) *ConfigStore {
	return &ConfigStore{
		gdataManager: gdataManager,
		defaults:     defaults.Apply(),
	}
}

// OpenGdata 打开指定应用名的 gdata 存储，失败时返回 nil（降级模式）
func OpenGdata(appName string) *gdata.Manager {
	manager, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		log.Printf("[ConfigStore] Warning: Failed to open storage %q: %v (config will not persist)", appName, err)
		return nil
	}
	return manager
}

// Persistent 是否可以持久化
func (cs *ConfigStore) Persistent() bool {
	return cs.gdataManager != nil
}

// Load 读取已保存的配置
//
// 数据不存在时返回默认值且不报错；数据损坏时返回默认值和错误。
// JSON 中缺失的字段取默认值，未知字段被忽略，越界值被限制到合法范围。
func (cs *ConfigStore) Load() (config.ViewerConfig, error) {
	if cs.gdataManager == nil {
		return cs.defaults, nil
	}
	if !cs.gdataManager.ObjectPropExists(configObject, configProperty) {
		return cs.defaults, nil
	}

	data, err := cs.gdataManager.LoadObjectProp(configObject, configProperty)
	if err != nil {
		return cs.defaults, fmt.Errorf("failed to load config: %w", err)
	}

	cfg, err := DecodeViewerConfig(data, cs.defaults)
	if err != nil {
		return cs.defaults, err
	}
	log.Printf("[ConfigStore] Config loaded successfully")
	return cfg, nil
}

// LoadOrDefault 读取配置，失败时记录警告并返回默认值
func (cs *ConfigStore) LoadOrDefault() config.ViewerConfig {
	cfg, err := cs.Load()
	if err != nil {
		log.Printf("[ConfigStore] Warning: %v (using defaults)", err)
	}
	return cfg
}

// Save 保存配置
//
// 降级模式下不做任何事并返回 nil。
func (cs *ConfigStore) Save(cfg config.ViewerConfig) error {
	if cs.gdataManager == nil {
		return nil
	}

	data, err := EncodeViewerConfig(cfg)
	if err != nil {
		return err
	}
	if err := cs.gdataManager.SaveObjectProp(configObject, configProperty, data); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	log.Printf("[ConfigStore] Config saved successfully")
	return nil
}

// EncodeViewerConfig 序列化为扁平 JSON 对象
func EncodeViewerConfig(cfg config.ViewerConfig) ([]byte, error) {
	data, err := json.Marshal(cfg.Apply())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// DecodeViewerConfig 在 defaults 之上解析 JSON
func DecodeViewerConfig(data []byte, defaults config.ViewerConfig) (config.ViewerConfig, error) {
	cfg := defaults
	if err := json.Unmarshal(data, &cfg); err != nil {
		return defaults, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return cfg.Apply(), nil
}
