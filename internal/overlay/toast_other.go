//go:build !windows

package overlay

import "aipaste-wails/internal/logger"

// Toast 非 Windows 平台把通知写入日志
type Toast struct {
	OnClick func(n Notice)
}

// NewToast 创建通知
func NewToast() *Toast {
	return &Toast{}
}

// Show 记录通知
func (t *Toast) Show(n Notice) {
	logger.Component("toast").WithField("kind", n.Kind).Infof("%s %s", n.Title, n.Message)
}

// Visible 始终为 false
func (t *Toast) Visible() bool { return false }

// Hide 无操作
func (t *Toast) Hide() {}
