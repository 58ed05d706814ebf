//go:build windows

package overlay

import "syscall"

var (
	user32   = syscall.NewLazyDLL("user32.dll")
	gdi32    = syscall.NewLazyDLL("gdi32.dll")
	kernel32 = syscall.NewLazyDLL("kernel32.dll")

	procRegisterClassExW = user32.NewProc("RegisterClassExW")
	procCreateWindowExW  = user32.NewProc("CreateWindowExW")
	procDefWindowProcW   = user32.NewProc("DefWindowProcW")
	procDestroyWindow    = user32.NewProc("DestroyWindow")
	procTranslateMessage = user32.NewProc("TranslateMessage")
	procDispatchMessageW = user32.NewProc("DispatchMessageW")
	procPostMessageW     = user32.NewProc("PostMessageW")
	procBeginPaint       = user32.NewProc("BeginPaint")
	procEndPaint         = user32.NewProc("EndPaint")
	procInvalidateRect   = user32.NewProc("InvalidateRect")
	procLoadCursorW      = user32.NewProc("LoadCursorW")
	procPeekMessageW     = user32.NewProc("PeekMessageW")
	procGetSystemMetrics = user32.NewProc("GetSystemMetrics")
	procFillRect         = user32.NewProc("FillRect")
	procDrawTextW        = user32.NewProc("DrawTextW")
	procGetModuleHandleW = kernel32.NewProc("GetModuleHandleW")

	procSelectObject     = gdi32.NewProc("SelectObject")
	procDeleteObject     = gdi32.NewProc("DeleteObject")
	procCreateSolidBrush = gdi32.NewProc("CreateSolidBrush")
	procSetBkMode        = gdi32.NewProc("SetBkMode")
	procSetTextColor     = gdi32.NewProc("SetTextColor")
	procCreateFontW      = gdi32.NewProc("CreateFontW")
)

const (
	WS_EX_TOPMOST    = 0x00000008
	WS_EX_TOOLWINDOW = 0x00000080
	WS_EX_NOACTIVATE = 0x08000000
	WS_POPUP         = 0x80000000
	WS_VISIBLE       = 0x10000000

	WM_PAINT       = 0x000F
	WM_CLOSE       = 0x0010
	WM_QUIT        = 0x0012
	WM_LBUTTONDOWN = 0x0201
	WM_RBUTTONDOWN = 0x0204

	SM_CXSCREEN = 0
	SM_CYSCREEN = 1

	TRANSPARENT_BK = 1
	IDC_HAND       = 32649
	PM_REMOVE      = 0x0001

	DT_LEFT         = 0x00000000
	DT_WORDBREAK    = 0x00000010
	DT_NOPREFIX     = 0x00000800
	DT_END_ELLIPSIS = 0x00008000
)

// WNDCLASSEXW 窗口类结构
type WNDCLASSEXW struct {
	CbSize        uint32
	Style         uint32
	LpfnWndProc   uintptr
	CbClsExtra    int32
	CbWndExtra    int32
	HInstance     uintptr
	HIcon         uintptr
	HCursor       uintptr
	HbrBackground uintptr
	LpszMenuName  *uint16
	LpszClassName *uint16
	HIconSm       uintptr
}

// MSG 消息结构
type MSG struct {
	HWnd    uintptr
	Message uint32
	WParam  uintptr
	LParam  uintptr
	Time    uint32
	Pt      POINT
}

// POINT 点结构
type POINT struct {
	X, Y int32
}

// RECT 矩形结构
type RECT struct {
	Left, Top, Right, Bottom int32
}

// PAINTSTRUCT 绘制结构
type PAINTSTRUCT struct {
	HDC         uintptr
	FErase      int32
	RcPaint     RECT
	FRestore    int32
	FIncUpdate  int32
	RgbReserved [32]byte
}
