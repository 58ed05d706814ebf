package clipboard

import (
	"fmt"
	"sync"

	xclip "golang.design/x/clipboard"
)

var (
	xclipOnce sync.Once
	xclipErr  error
)

// initXClip golang.design/x/clipboard 只需初始化一次
func initXClip() error {
	xclipOnce.Do(func() {
		xclipErr = xclip.Init()
	})
	return xclipErr
}

// readImage 读取 PNG 图片
func readImage() ([]byte, error) {
	if err := initXClip(); err != nil {
		return nil, fmt.Errorf("初始化剪贴板失败: %w", err)
	}
	data := xclip.Read(xclip.FmtImage)
	if len(data) == 0 {
		return nil, ErrNoImage
	}
	return data, nil
}
