// Package clipboard 剪贴板快照、比较与写入。
//
// 平台实现：
//
//	system_windows.go: Win32 API，支持纯文本、HTML Format、Rich Text Format
//	system_other.go:   golang.design/x/clipboard，仅纯文本
//
// 两个平台的图片读取都使用 golang.design/x/clipboard。
package clipboard

import (
	"errors"
	"fmt"
	"sort"
)

// ErrNoImage 剪贴板中没有图片
var ErrNoImage = errors.New("clipboard: no image")

// 格式名称
const (
	FormatText  = "text/plain"
	FormatHTML  = "text/html"
	FormatRTF   = "text/rtf"
	FormatImage = "image/png"
	FormatFiles = "text/uri-list"
)

// Snapshot 某一时刻的剪贴板内容
type Snapshot struct {
	Text    string   `json:"text"`
	HTML    string   `json:"html"`
	RTF     string   `json:"rtf"`
	Formats []string `json:"formats"`
}

// Equal 只比较 Text 和 HTML，RTF 与 Formats 不参与比较
func (s Snapshot) Equal(other Snapshot) bool {
	return s.Text == other.Text && s.HTML == other.HTML
}

// HasChanged 富文本编辑器可能只更新 HTML 而保持纯文本不变，反之亦然，所以两者都要比较
func HasChanged(previous, current Snapshot) bool {
	return !previous.Equal(current)
}

// Reader 读取剪贴板
type Reader interface {
	ReadText() (string, error)
	ReadHTML() (string, error)
	ReadRTF() (string, error)
	Formats() ([]string, error)
}

// Writer 写入剪贴板
type Writer interface {
	// WriteText 只写纯文本
	WriteText(text string) error
	// WriteAll 同时写入纯文本、HTML 和 RTF
	WriteAll(text, html, rtf string) error
}

// Backend 平台剪贴板实现
type Backend interface {
	Reader
	Writer

	// ReadImage 返回 PNG 编码的图片，没有图片时返回 ErrNoImage
	ReadImage() ([]byte, error)
}

// TakeSnapshot 读取当前剪贴板，不修改剪贴板
func TakeSnapshot(r Reader) (Snapshot, error) {
	text, err := r.ReadText()
	if err != nil {
		return Snapshot{}, fmt.Errorf("读取纯文本失败: %w", err)
	}
	html, err := r.ReadHTML()
	if err != nil {
		return Snapshot{}, fmt.Errorf("读取 HTML 失败: %w", err)
	}
	rtf, err := r.ReadRTF()
	if err != nil {
		return Snapshot{}, fmt.Errorf("读取 RTF 失败: %w", err)
	}
	formats, err := r.Formats()
	if err != nil {
		return Snapshot{}, fmt.Errorf("读取格式列表失败: %w", err)
	}

	return Snapshot{
		Text:    text,
		HTML:    html,
		RTF:     rtf,
		Formats: normalizeFormats(formats),
	}, nil
}

// Payload 写入内容，空字符串表示未提供
type Payload struct {
	Text string `json:"text,omitempty"`
	HTML string `json:"html,omitempty"`
	RTF  string `json:"rtf,omitempty"`
}

// Write 有 HTML 时同时写入三种格式，只有文本时写纯文本。
// 两者都没有时什么也不写，但仍然返回 true。
func Write(w Writer, p Payload) (bool, error) {
	switch {
	case p.HTML != "":
		if err := w.WriteAll(p.Text, p.HTML, p.RTF); err != nil {
			return false, fmt.Errorf("写入剪贴板失败: %w", err)
		}
	case p.Text != "":
		if err := w.WriteText(p.Text); err != nil {
			return false, fmt.Errorf("写入剪贴板失败: %w", err)
		}
	}
	return true, nil
}

// normalizeFormats 去重并排序
func normalizeFormats(formats []string) []string {
	seen := make(map[string]bool, len(formats))
	result := make([]string, 0, len(formats))
	for _, f := range formats {
		if f == "" || seen[f] {
			continue
		}
		seen[f] = true
		result = append(result, f)
	}
	sort.Strings(result)
	return result
}
