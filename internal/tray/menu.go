// Package tray 系统托盘菜单
package tray

import "sync"

const (
	title   = "AI Paste"
	tooltip = "AI Paste - 截图识别与富文本粘贴"

	labelShowApp  = "显示主窗口"
	labelFloating = "切换浮窗"
	labelWatch    = "监听剪贴板"
	labelQuit     = "退出"
)

// menuState 菜单状态与回调，与平台实现无关
type menuState struct {
	mu           sync.Mutex
	watchEnabled bool

	OnShowApp        func()
	OnToggleFloating func()
	OnWatchChanged   func(enabled bool)
	OnQuit           func()
}

// WatchEnabled 剪贴板监听勾选状态
func (m *menuState) WatchEnabled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.watchEnabled
}

func (m *menuState) setWatch(enabled bool) {
	m.mu.Lock()
	m.watchEnabled = enabled
	m.mu.Unlock()
}

func (m *menuState) showApp() {
	if m.OnShowApp != nil {
		m.OnShowApp()
	}
}

func (m *menuState) toggleFloating() {
	if m.OnToggleFloating != nil {
		m.OnToggleFloating()
	}
}

// toggleWatch 翻转监听状态并通知
func (m *menuState) toggleWatch() bool {
	m.mu.Lock()
	m.watchEnabled = !m.watchEnabled
	enabled := m.watchEnabled
	m.mu.Unlock()

	if m.OnWatchChanged != nil {
		m.OnWatchChanged(enabled)
	}
	return enabled
}

func (m *menuState) quit() {
	if m.OnQuit != nil {
		m.OnQuit()
	}
}
