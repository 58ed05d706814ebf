//go:build !windows

package screenshot

import "image"

// Capturer 非 Windows 平台的占位实现
type Capturer struct{}

// NewCapturer 创建截图器
func NewCapturer() *Capturer {
	return &Capturer{}
}

// CaptureScreen 不支持
func (c *Capturer) CaptureScreen() (image.Image, error) {
	return nil, ErrUnsupported
}

// CaptureRect 不支持
func (c *Capturer) CaptureRect(r Rect) (image.Image, error) {
	return nil, ErrUnsupported
}

// DPIAware 非 Windows 平台无需设置
func (c *Capturer) DPIAware() bool {
	return false
}
