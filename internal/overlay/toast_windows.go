//go:build windows

package overlay

import (
	"runtime"
	"sync"
	"syscall"
	"time"
	"unsafe"

	"aipaste-wails/internal/logger"

	"github.com/sirupsen/logrus"
)

const (
	toastWidth  = 340
	toastHeight = 84
)

// Toast 右下角通知窗口。显示期间再次 Show 会替换内容并重新计时。
type Toast struct {
	mu       sync.Mutex
	hwnd     uintptr
	active   bool
	notice   Notice
	deadline time.Time

	// OnClick 点击剪贴板浮窗时调用
	OnClick func(n Notice)

	log *logrus.Entry
}

// 窗口过程无法携带上下文，只允许一个通知窗口
var globalToast *Toast

// NewToast 创建通知
func NewToast() *Toast {
	return &Toast{log: logger.Component("toast")}
}

// Show 显示通知
func (t *Toast) Show(n Notice) {
	if n.Duration <= 0 {
		n.Duration = infoDuration
	}

	t.mu.Lock()
	t.notice = n
	t.deadline = time.Now().Add(n.Duration)
	if t.active {
		hwnd := t.hwnd
		t.mu.Unlock()
		if hwnd != 0 {
			procInvalidateRect.Call(hwnd, 0, 1)
		}
		return
	}
	t.active = true
	t.mu.Unlock()

	// 在新的 goroutine 中运行，避免阻塞
	go t.run()
}

// Visible 通知窗口是否显示中
func (t *Toast) Visible() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

// Hide 关闭当前通知
func (t *Toast) Hide() {
	t.mu.Lock()
	hwnd := t.hwnd
	t.mu.Unlock()
	if hwnd != 0 {
		procPostMessageW.Call(hwnd, WM_CLOSE, 0, 0)
	}
}

func (t *Toast) current() (Notice, time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.notice, t.deadline
}

func (t *Toast) run() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	globalToast = t
	hInstance, _, _ := procGetModuleHandleW.Call(0)
	className, _ := syscall.UTF16PtrFromString("AIPasteToast")
	hCursor, _, _ := procLoadCursorW.Call(0, IDC_HAND)

	wc := WNDCLASSEXW{
		CbSize:        uint32(unsafe.Sizeof(WNDCLASSEXW{})),
		LpfnWndProc:   syscall.NewCallback(toastWndProc),
		HInstance:     hInstance,
		HCursor:       hCursor,
		LpszClassName: className,
	}
	// 重复注册会失败，沿用已有的窗口类
	procRegisterClassExW.Call(uintptr(unsafe.Pointer(&wc)))

	// 右下角显示（留出任务栏空间）
	screenWidth, _, _ := procGetSystemMetrics.Call(SM_CXSCREEN)
	screenHeight, _, _ := procGetSystemMetrics.Call(SM_CYSCREEN)
	x := int(screenWidth) - toastWidth - 20
	y := int(screenHeight) - toastHeight - 60

	hwnd, _, _ := procCreateWindowExW.Call(
		WS_EX_TOPMOST|WS_EX_TOOLWINDOW|WS_EX_NOACTIVATE,
		uintptr(unsafe.Pointer(className)),
		0,
		WS_POPUP|WS_VISIBLE,
		uintptr(x), uintptr(y),
		toastWidth, toastHeight,
		0, 0,
		hInstance,
		0,
	)
	if hwnd == 0 {
		t.log.Warn("创建通知窗口失败")
		t.mu.Lock()
		t.active = false
		t.mu.Unlock()
		return
	}

	t.mu.Lock()
	t.hwnd = hwnd
	t.mu.Unlock()
	t.log.Debug("通知已显示")

	for {
		var msg MSG
		ret, _, _ := procPeekMessageW.Call(
			uintptr(unsafe.Pointer(&msg)),
			0, 0, 0, PM_REMOVE,
		)
		if ret != 0 {
			if msg.Message == WM_QUIT || (msg.HWnd == hwnd && msg.Message == WM_CLOSE) {
				break
			}
			procTranslateMessage.Call(uintptr(unsafe.Pointer(&msg)))
			procDispatchMessageW.Call(uintptr(unsafe.Pointer(&msg)))
		}

		if _, deadline := t.current(); time.Now().After(deadline) {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}

	procDestroyWindow.Call(hwnd)
	t.mu.Lock()
	t.hwnd = 0
	t.active = false
	t.mu.Unlock()
	t.log.Debug("通知已关闭")
}

// toastWndProc 窗口过程
func toastWndProc(hwnd uintptr, msg uint32, wParam, lParam uintptr) uintptr {
	t := globalToast
	if t == nil {
		ret, _, _ := procDefWindowProcW.Call(hwnd, uintptr(msg), wParam, lParam)
		return ret
	}

	switch msg {
	case WM_PAINT:
		t.onPaint(hwnd)
		return 0

	case WM_LBUTTONDOWN:
		n, _ := t.current()
		if n.Kind == KindClipboard && t.OnClick != nil {
			go t.OnClick(n)
		}
		procPostMessageW.Call(hwnd, WM_CLOSE, 0, 0)
		return 0

	case WM_RBUTTONDOWN:
		procPostMessageW.Call(hwnd, WM_CLOSE, 0, 0)
		return 0
	}

	ret, _, _ := procDefWindowProcW.Call(hwnd, uintptr(msg), wParam, lParam)
	return ret
}

// onPaint 绘制
func (t *Toast) onPaint(hwnd uintptr) {
	n, _ := t.current()

	var ps PAINTSTRUCT
	hdc, _, _ := procBeginPaint.Call(hwnd, uintptr(unsafe.Pointer(&ps)))
	defer procEndPaint.Call(hwnd, uintptr(unsafe.Pointer(&ps)))

	// 颜色 (BGR)
	colorBg := uint32(0x2E1E1E)    // #1e1e2e
	colorTitle := uint32(0xF4D6CD) // #cdd6f4
	colorText := uint32(0xC8ADA6)  // #a6adc8
	colorAccent := accentColor(n.Kind)

	bgBrush, _, _ := procCreateSolidBrush.Call(uintptr(colorBg))
	rect := RECT{0, 0, toastWidth, toastHeight}
	procFillRect.Call(hdc, uintptr(unsafe.Pointer(&rect)), bgBrush)
	procDeleteObject.Call(bgBrush)

	// 左侧强调线
	accentBrush, _, _ := procCreateSolidBrush.Call(uintptr(colorAccent))
	accentRect := RECT{0, 0, 4, toastHeight}
	procFillRect.Call(hdc, uintptr(unsafe.Pointer(&accentRect)), accentBrush)
	procDeleteObject.Call(accentBrush)

	procSetBkMode.Call(hdc, TRANSPARENT_BK)

	fontName, _ := syscall.UTF16PtrFromString("Microsoft YaHei UI")
	hTitleFont, _, _ := procCreateFontW.Call(
		uintptr(19), 0, 0, 0,
		600, 0, 0, 0,
		1, 0, 0, 0, 0,
		uintptr(unsafe.Pointer(fontName)),
	)
	defer procDeleteObject.Call(hTitleFont)

	hTextFont, _, _ := procCreateFontW.Call(
		uintptr(16), 0, 0, 0,
		400, 0, 0, 0,
		1, 0, 0, 0, 0,
		uintptr(unsafe.Pointer(fontName)),
	)
	defer procDeleteObject.Call(hTextFont)

	procSelectObject.Call(hdc, hTitleFont)
	procSetTextColor.Call(hdc, uintptr(colorTitle))
	titleRect := RECT{20, 14, toastWidth - 16, 38}
	drawText(hdc, n.Title, &titleRect, DT_LEFT|DT_NOPREFIX|DT_END_ELLIPSIS)

	procSelectObject.Call(hdc, hTextFont)
	procSetTextColor.Call(hdc, uintptr(colorText))
	textRect := RECT{20, 42, toastWidth - 16, toastHeight - 8}
	drawText(hdc, n.Message, &textRect, DT_LEFT|DT_NOPREFIX|DT_WORDBREAK|DT_END_ELLIPSIS)
}

func drawText(hdc uintptr, s string, r *RECT, format uintptr) {
	if s == "" {
		return
	}
	utf16, err := syscall.UTF16FromString(s)
	if err != nil {
		return
	}
	procDrawTextW.Call(hdc, uintptr(unsafe.Pointer(&utf16[0])), uintptr(len(utf16)-1),
		uintptr(unsafe.Pointer(r)), format)
}

func accentColor(k Kind) uint32 {
	switch k {
	case KindWarning:
		return 0x5CA0FF // #ffa05c 橙色
	case KindClipboard:
		return 0xFAB489 // #89b4fa 蓝色
	default:
		return 0xA1E3A6 // #a6e3a1 绿色
	}
}
