//go:build !windows

package hotkey

import (
	"aipaste-wails/internal/logger"
)

// Manager 非 Windows 平台只记录快捷键，不安装全局钩子
type Manager struct {
	bindings
}

// NewManager 创建热键管理器
func NewManager() *Manager {
	return &Manager{}
}

// Start 当前平台不支持全局快捷键
func (m *Manager) Start() error {
	logger.Component("hotkey").Warn("当前平台不支持全局快捷键")
	return nil
}

// Stop 无操作
func (m *Manager) Stop() {}
