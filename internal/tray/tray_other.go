//go:build !windows

package tray

import "aipaste-wails/internal/logger"

// SystemTray 非 Windows 平台不显示托盘
type SystemTray struct {
	menuState
}

// NewSystemTray 创建系统托盘
func NewSystemTray(watchEnabled bool) *SystemTray {
	return &SystemTray{menuState: menuState{watchEnabled: watchEnabled}}
}

// Run 当前平台不支持托盘
func (s *SystemTray) Run() {
	logger.Component("tray").Debug("当前平台不显示系统托盘")
}

// Close 无操作
func (s *SystemTray) Close() {}

// SetWatchEnabled 同步剪贴板监听勾选状态
func (s *SystemTray) SetWatchEnabled(enabled bool) {
	s.setWatch(enabled)
}
