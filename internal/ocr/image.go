package ocr

import (
	"encoding/base64"
	"regexp"
)

var dataURLPrefix = regexp.MustCompile(`^data:image/\w+;base64,`)

// StripDataURL 去掉 data:image/...;base64, 前缀，只保留 base64 数据
func StripDataURL(image string) string {
	return dataURLPrefix.ReplaceAllString(image, "")
}

// PNGDataURL 把输入统一包装为 PNG data URL
func PNGDataURL(image string) string {
	return "data:image/png;base64," + StripDataURL(image)
}

// EncodeImage 把原始图片字节编码为 base64
func EncodeImage(raw []byte) string {
	return base64.StdEncoding.EncodeToString(raw)
}
