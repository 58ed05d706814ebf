//go:build windows

package clipboard

import (
	"errors"
	"fmt"
	"sync"
	"syscall"
	"time"
	"unsafe"
)

var (
	user32   = syscall.NewLazyDLL("user32.dll")
	kernel32 = syscall.NewLazyDLL("kernel32.dll")

	procOpenClipboard              = user32.NewProc("OpenClipboard")
	procCloseClipboard             = user32.NewProc("CloseClipboard")
	procEmptyClipboard             = user32.NewProc("EmptyClipboard")
	procGetClipboardData           = user32.NewProc("GetClipboardData")
	procSetClipboardData           = user32.NewProc("SetClipboardData")
	procEnumClipboardFormats       = user32.NewProc("EnumClipboardFormats")
	procGetClipboardFormatNameW    = user32.NewProc("GetClipboardFormatNameW")
	procRegisterClipboardFormatW   = user32.NewProc("RegisterClipboardFormatW")
	procIsClipboardFormatAvailable = user32.NewProc("IsClipboardFormatAvailable")
	procGlobalAlloc                = kernel32.NewProc("GlobalAlloc")
	procGlobalFree                 = kernel32.NewProc("GlobalFree")
	procGlobalLock                 = kernel32.NewProc("GlobalLock")
	procGlobalUnlock               = kernel32.NewProc("GlobalUnlock")
	procGlobalSize                 = kernel32.NewProc("GlobalSize")
)

const (
	CF_TEXT        = 1
	CF_BITMAP      = 2
	CF_DIB         = 8
	CF_UNICODETEXT = 13
	CF_HDROP       = 15
	CF_DIBV5       = 17
	GMEM_MOVEABLE  = 0x0002

	openRetries = 5
	openBackoff = 10 * time.Millisecond
)

// systemBackend Win32 剪贴板
type systemBackend struct {
	mu     sync.Mutex
	cfHTML uintptr
	cfRTF  uintptr
}

// System 返回系统剪贴板
func System() (Backend, error) {
	cfHTML := registerFormat("HTML Format")
	cfRTF := registerFormat("Rich Text Format")
	if cfHTML == 0 || cfRTF == 0 {
		return nil, errors.New("注册剪贴板格式失败")
	}
	return &systemBackend{cfHTML: cfHTML, cfRTF: cfRTF}, nil
}

// registerFormat 注册（或获取已注册的）剪贴板格式
func registerFormat(name string) uintptr {
	p, _ := syscall.UTF16PtrFromString(name)
	id, _, _ := procRegisterClipboardFormatW.Call(uintptr(unsafe.Pointer(p)))
	return id
}

// open 其他程序可能短暂占用剪贴板，稍等后重试
func (b *systemBackend) open() error {
	for i := 0; i < openRetries; i++ {
		ret, _, _ := procOpenClipboard.Call(0)
		if ret != 0 {
			return nil
		}
		time.Sleep(openBackoff)
	}
	return errors.New("打开剪贴板失败")
}

// readBytes 读取指定格式的原始数据，格式不存在时返回 nil
func (b *systemBackend) readBytes(format uintptr) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if avail, _, _ := procIsClipboardFormatAvailable.Call(format); avail == 0 {
		return nil, nil
	}
	if err := b.open(); err != nil {
		return nil, err
	}
	defer procCloseClipboard.Call()

	hData, _, _ := procGetClipboardData.Call(format)
	if hData == 0 {
		return nil, nil
	}
	size, _, _ := procGlobalSize.Call(hData)
	pData, _, _ := procGlobalLock.Call(hData)
	if pData == 0 {
		return nil, fmt.Errorf("锁定剪贴板数据失败 (format=%d)", format)
	}
	defer procGlobalUnlock.Call(hData)

	data := make([]byte, size)
	copy(data, unsafe.Slice((*byte)(unsafe.Pointer(pData)), size))
	return data, nil
}

// ReadText 读取 CF_UNICODETEXT
func (b *systemBackend) ReadText() (string, error) {
	data, err := b.readBytes(CF_UNICODETEXT)
	if err != nil || len(data) < 2 {
		return "", err
	}
	u16 := unsafe.Slice((*uint16)(unsafe.Pointer(&data[0])), len(data)/2)
	return syscall.UTF16ToString(u16), nil
}

// ReadHTML 读取 HTML Format 并取出片段
func (b *systemBackend) ReadHTML() (string, error) {
	data, err := b.readBytes(b.cfHTML)
	if err != nil || len(data) == 0 {
		return "", err
	}
	return DecodeCFHTML(data), nil
}

// ReadRTF 读取 Rich Text Format
func (b *systemBackend) ReadRTF() (string, error) {
	data, err := b.readBytes(b.cfRTF)
	if err != nil || len(data) == 0 {
		return "", err
	}
	return trimNull(data), nil
}

// Formats 枚举当前所有格式
func (b *systemBackend) Formats() ([]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.open(); err != nil {
		return nil, err
	}
	defer procCloseClipboard.Call()

	var formats []string
	format := uintptr(0)
	for {
		format, _, _ = procEnumClipboardFormats.Call(format)
		if format == 0 {
			break
		}
		formats = append(formats, b.formatName(format))
	}
	return formats, nil
}

// formatName 标准格式映射为 MIME 风格名称，注册格式使用其注册名
func (b *systemBackend) formatName(format uintptr) string {
	switch format {
	case CF_TEXT, CF_UNICODETEXT:
		return FormatText
	case CF_BITMAP, CF_DIB, CF_DIBV5:
		return FormatImage
	case CF_HDROP:
		return FormatFiles
	case b.cfHTML:
		return FormatHTML
	case b.cfRTF:
		return FormatRTF
	}

	buf := make([]uint16, 256)
	n, _, _ := procGetClipboardFormatNameW.Call(format, uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	if n == 0 {
		return fmt.Sprintf("CF_%d", format)
	}
	return syscall.UTF16ToString(buf[:n])
}

// WriteText 只写纯文本
func (b *systemBackend) WriteText(text string) error {
	return b.write(text, "", "")
}

// WriteAll 一次性写入纯文本、HTML、RTF，粘贴目标自行选择格式
func (b *systemBackend) WriteAll(text, html, rtf string) error {
	return b.write(text, html, rtf)
}

func (b *systemBackend) write(text, html, rtf string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.open(); err != nil {
		return err
	}
	defer procCloseClipboard.Call()

	procEmptyClipboard.Call()

	utf16, err := syscall.UTF16FromString(text)
	if err != nil {
		return fmt.Errorf("文本包含非法字符: %w", err)
	}
	raw := unsafe.Slice((*byte)(unsafe.Pointer(&utf16[0])), len(utf16)*2)
	if err := setData(CF_UNICODETEXT, raw); err != nil {
		return err
	}

	if html != "" {
		if err := setData(b.cfHTML, append(EncodeCFHTML(html), 0)); err != nil {
			return err
		}
	}
	if rtf != "" {
		if err := setData(b.cfRTF, append([]byte(rtf), 0)); err != nil {
			return err
		}
	}
	return nil
}

// setData 分配全局内存并交给剪贴板，成功后内存归系统所有
func setData(format uintptr, data []byte) error {
	hMem, _, _ := procGlobalAlloc.Call(GMEM_MOVEABLE, uintptr(len(data)))
	if hMem == 0 {
		return errors.New("分配剪贴板内存失败")
	}

	pMem, _, _ := procGlobalLock.Call(hMem)
	if pMem == 0 {
		procGlobalFree.Call(hMem)
		return errors.New("锁定剪贴板内存失败")
	}
	copy(unsafe.Slice((*byte)(unsafe.Pointer(pMem)), len(data)), data)
	procGlobalUnlock.Call(hMem)

	if ret, _, _ := procSetClipboardData.Call(format, hMem); ret == 0 {
		procGlobalFree.Call(hMem)
		return fmt.Errorf("设置剪贴板数据失败 (format=%d)", format)
	}
	return nil
}

// ReadImage 图片解码交给 golang.design/x/clipboard
func (b *systemBackend) ReadImage() ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return readImage()
}

func trimNull(data []byte) string {
	for i, c := range data {
		if c == 0 {
			return string(data[:i])
		}
	}
	return string(data)
}
