// Package screenshot 截取屏幕或选区并编码为 PNG data URL
package screenshot

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"

	"aipaste-wails/internal/ocr"
)

// minSelection 选区宽高必须大于该值，否则视为取消
const minSelection = 10

var (
	// ErrSelectionCancelled 选区过小
	ErrSelectionCancelled = errors.New("Selection cancelled")
	// ErrUnsupported 当前平台不支持截图
	ErrUnsupported = errors.New("screen capture is not supported on this platform")
)

// Rect 屏幕选区（虚拟屏幕坐标，像素）
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Valid 宽高都大于 10 像素
func (r Rect) Valid() bool {
	return r.Width > minSelection && r.Height > minSelection
}

// Result 截图结果，ImageData 为 PNG data URL
type Result struct {
	Success   bool   `json:"success"`
	ImageData string `json:"imageData,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Source 截图来源
type Source interface {
	CaptureScreen() (image.Image, error)
	CaptureRect(r Rect) (image.Image, error)
}

// EncodeDataURL 将图像编码为 PNG data URL
func EncodeDataURL(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("PNG 编码失败: %w", err)
	}
	return ocr.PNGDataURL(ocr.EncodeImage(buf.Bytes())), nil
}

// Screen 截取主显示器
func Screen(src Source) Result {
	img, err := src.CaptureScreen()
	return toResult(img, err)
}

// Region 截取选区，选区过小时不调用截图
func Region(src Source, r Rect) Result {
	if !r.Valid() {
		return Result{Success: false, Error: ErrSelectionCancelled.Error()}
	}
	img, err := src.CaptureRect(r)
	return toResult(img, err)
}

func toResult(img image.Image, err error) Result {
	if err != nil {
		return Result{Success: false, Error: err.Error()}
	}
	dataURL, err := EncodeDataURL(img)
	if err != nil {
		return Result{Success: false, Error: err.Error()}
	}
	return Result{Success: true, ImageData: dataURL}
}
