//go:build !windows

package clipboard

import (
	"fmt"

	"aipaste-wails/internal/logger"

	xclip "golang.design/x/clipboard"
)

// systemBackend 非 Windows 平台只支持纯文本和图片，HTML/RTF 读取为空
type systemBackend struct{}

// System 返回系统剪贴板
func System() (Backend, error) {
	if err := initXClip(); err != nil {
		return nil, fmt.Errorf("初始化剪贴板失败: %w", err)
	}
	return &systemBackend{}, nil
}

func (b *systemBackend) ReadText() (string, error) {
	return string(xclip.Read(xclip.FmtText)), nil
}

func (b *systemBackend) ReadHTML() (string, error) { return "", nil }

func (b *systemBackend) ReadRTF() (string, error) { return "", nil }

// Formats 图片检测开销较大，轮询时只报告文本
func (b *systemBackend) Formats() ([]string, error) {
	if len(xclip.Read(xclip.FmtText)) > 0 {
		return []string{FormatText}, nil
	}
	return nil, nil
}

func (b *systemBackend) WriteText(text string) error {
	xclip.Write(xclip.FmtText, []byte(text))
	return nil
}

// WriteAll 降级为只写纯文本
func (b *systemBackend) WriteAll(text, html, rtf string) error {
	logger.Component("clipboard").Debug("当前平台不支持写入 HTML/RTF，仅写入纯文本")
	return b.WriteText(text)
}

func (b *systemBackend) ReadImage() ([]byte, error) {
	return readImage()
}
