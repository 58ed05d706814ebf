// Package hotkey 全局快捷键
package hotkey

import (
	"fmt"
	"sync"
)

type binding struct {
	accel string
	combo Combo
	fn    func()
}

// bindings 已注册的快捷键，主键自动重复时只触发一次
type bindings struct {
	mu    sync.RWMutex
	list  []binding
	fired map[uint32]bool
}

// Register 注册快捷键，同一组合重复注册时替换回调
func (b *bindings) Register(accel string, fn func()) error {
	combo, err := Parse(accel)
	if err != nil {
		return err
	}
	if fn == nil {
		return fmt.Errorf("快捷键 %s 缺少回调", accel)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.list {
		if b.list[i].combo == combo {
			b.list[i] = binding{accel: accel, combo: combo, fn: fn}
			return nil
		}
	}
	b.list = append(b.list, binding{accel: accel, combo: combo, fn: fn})
	return nil
}

// Clear 移除全部快捷键
func (b *bindings) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.list = nil
	b.fired = nil
}

// keyDown 返回匹配到的回调，按住不放时只返回一次
func (b *bindings) keyDown(vk uint32, mods Modifiers) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, bd := range b.list {
		if !bd.combo.Matches(vk, mods) {
			continue
		}
		if b.fired[vk] {
			return nil
		}
		if b.fired == nil {
			b.fired = make(map[uint32]bool)
		}
		b.fired[vk] = true
		return bd.fn
	}
	return nil
}

// consumes 该键按下是否属于某个已触发的组合
func (b *bindings) consumes(vk uint32) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.fired[vk]
}

func (b *bindings) keyUp(vk uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.fired, vk)
}
