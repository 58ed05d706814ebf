// Package overlay 屏幕右下角的轻量通知（启动提示与剪贴板浮窗）
package overlay

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Kind 通知样式
type Kind int

const (
	KindInfo Kind = iota
	KindClipboard
	KindWarning
)

const (
	previewRunes      = 80
	infoDuration      = 3 * time.Second
	clipboardDuration = 6 * time.Second
)

// Notice 一条通知
type Notice struct {
	Kind     Kind
	Title    string
	Message  string
	Duration time.Duration
}

// Toaster 通知显示器
type Toaster interface {
	Show(n Notice)
}

// StartupNotice 启动提示，列出两个快捷键
func StartupNotice(convertShortcut, screenshotShortcut string) Notice {
	return Notice{
		Kind:     KindInfo,
		Title:    "✓ AI Paste 已启动",
		Message:  fmt.Sprintf("%s 转换剪贴板，%s 截图识别", convertShortcut, screenshotShortcut),
		Duration: infoDuration,
	}
}

// AlreadyRunningNotice 重复启动时由已运行的实例显示
func AlreadyRunningNotice() Notice {
	return Notice{
		Kind:     KindInfo,
		Title:    "AI Paste 正在运行",
		Message:  "程序已在后台运行，可从托盘图标打开",
		Duration: infoDuration,
	}
}

// ClipboardNotice 剪贴板浮窗，显示新内容的单行预览
func ClipboardNotice(text string) Notice {
	return Notice{
		Kind:     KindClipboard,
		Title:    "📋 剪贴板已更新，点击转换",
		Message:  Preview(text, previewRunes),
		Duration: clipboardDuration,
	}
}

// WarningNotice 警告通知
func WarningNotice(title, message string) Notice {
	return Notice{
		Kind:     KindWarning,
		Title:    "⚠ " + title,
		Message:  message,
		Duration: infoDuration,
	}
}

// Preview 折叠空白并按字符截断
func Preview(text string, max int) string {
	s := strings.Join(strings.Fields(text), " ")
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max]) + "…"
}
