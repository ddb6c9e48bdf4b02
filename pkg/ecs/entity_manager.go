// Package ecs 提供场景实体（标记点、轨迹、尘埃云、相机）的最小实体-组件存储
//
// 查看器只有少量长期存在的实体，组件按类型分列存放：
// 查询时从实体最少的那一列出发，再到其余列里逐个确认。
package ecs

import (
	"reflect"
	"slices"
)

// EntityID 是实体的唯一标识符，0 保留为无效 ID
type EntityID uint64

// store 某一组件类型的列：实体 -> 组件实例
type store map[EntityID]any

// EntityManager 管理所有实体和按类型分列的组件
type EntityManager struct {
	nextID EntityID
	alive  map[EntityID]struct{}
	stores map[reflect.Type]store
}

// NewEntityManager 创建空的实体存储
func NewEntityManager() *EntityManager {
	return &EntityManager{
		nextID: 1,
		alive:  make(map[EntityID]struct{}),
		stores: make(map[reflect.Type]store),
	}
}

// CreateEntity 创建新实体并返回唯一 ID
func (em *EntityManager) CreateEntity() EntityID {
	id := em.nextID
	em.nextID++
	em.alive[id] = struct{}{}
	return id
}

// DestroyEntity 立即删除实体及其全部组件
//
// 不能在遍历 GetEntitiesWith 结果的同时依赖被删除实体的组件。
func (em *EntityManager) DestroyEntity(id EntityID) {
	if _, ok := em.alive[id]; !ok {
		return
	}
	delete(em.alive, id)
	for _, s := range em.stores {
		delete(s, id)
	}
}

// AddComponent 为实体添加组件，同类型组件会被替换；实体不存在时忽略
func (em *EntityManager) AddComponent(id EntityID, component any) {
	if _, ok := em.alive[id]; !ok {
		return
	}
	t := reflect.TypeOf(component)
	s, ok := em.stores[t]
	if !ok {
		s = make(store)
		em.stores[t] = s
	}
	s[id] = component
}

// RemoveComponent 从实体移除指定类型的组件
func (em *EntityManager) RemoveComponent(id EntityID, componentType reflect.Type) {
	if s, ok := em.stores[componentType]; ok {
		delete(s, id)
	}
}

// GetComponent 获取实体的特定类型组件
func (em *EntityManager) GetComponent(id EntityID, componentType reflect.Type) (any, bool) {
	comp, ok := em.stores[componentType][id]
	return comp, ok
}

// HasComponent 检查实体是否拥有特定类型组件
func (em *EntityManager) HasComponent(id EntityID, componentType reflect.Type) bool {
	_, ok := em.stores[componentType][id]
	return ok
}

// EntityCount 当前存活的实体数量
func (em *EntityManager) EntityCount() int {
	return len(em.alive)
}

// GetEntitiesWith 查询拥有全部指定组件类型的实体，结果按 EntityID 升序
func (em *EntityManager) GetEntitiesWith(componentTypes ...reflect.Type) []EntityID {
	if len(componentTypes) == 0 {
		return nil
	}

	cols := make([]store, 0, len(componentTypes))
	for _, t := range componentTypes {
		s := em.stores[t]
		if len(s) == 0 {
			return nil
		}
		cols = append(cols, s)
	}
	slices.SortFunc(cols, func(a, b store) int { return len(a) - len(b) })

	result := make([]EntityID, 0, len(cols[0]))
	for id := range cols[0] {
		if hasAll(id, cols[1:]) {
			result = append(result, id)
		}
	}
	slices.Sort(result)
	return result
}

func hasAll(id EntityID, cols []store) bool {
	for _, s := range cols {
		if _, ok := s[id]; !ok {
			return false
		}
	}
	return true
}
