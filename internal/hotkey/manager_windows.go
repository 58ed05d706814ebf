//go:build windows

package hotkey

import (
	"fmt"
	"runtime"
	"sync"
	"syscall"
	"time"
	"unsafe"

	"aipaste-wails/internal/logger"

	"github.com/sirupsen/logrus"
)

var (
	user32                  = syscall.NewLazyDLL("user32.dll")
	kernel32                = syscall.NewLazyDLL("kernel32.dll")
	procSetWindowsHookExW   = user32.NewProc("SetWindowsHookExW")
	procUnhookWindowsHookEx = user32.NewProc("UnhookWindowsHookEx")
	procCallNextHookEx      = user32.NewProc("CallNextHookEx")
	procPeekMessageW        = user32.NewProc("PeekMessageW")
	procGetModuleHandleW    = kernel32.NewProc("GetModuleHandleW")
)

const (
	WH_KEYBOARD_LL = 13
	WM_KEYDOWN     = 0x0100
	WM_KEYUP       = 0x0101
	WM_SYSKEYDOWN  = 0x0104
	WM_SYSKEYUP    = 0x0105
	PM_REMOVE      = 0x0001
)

// 修饰键的左右键码
var modifierCodes = map[uint32]string{
	0x11: "ctrl", 162: "ctrl", 163: "ctrl",
	0x12: "alt", 164: "alt", 165: "alt",
	0x10: "shift", 160: "shift", 161: "shift",
	91: "win", 92: "win",
}

// KBDLLHOOKSTRUCT 键盘钩子结构
type KBDLLHOOKSTRUCT struct {
	VkCode      uint32
	ScanCode    uint32
	Flags       uint32
	Time        uint32
	DwExtraInfo uintptr
}

// MSG Windows 消息结构
type MSG struct {
	HWnd    uintptr
	Message uint32
	WParam  uintptr
	LParam  uintptr
	Time    uint32
	Pt      struct{ X, Y int32 }
}

// Manager 基于低级键盘钩子的全局快捷键管理器
type Manager struct {
	bindings

	mu          sync.Mutex
	hookID      uintptr
	running     bool
	pressedKeys map[uint32]bool
	log         *logrus.Entry
}

// NewManager 创建热键管理器
func NewManager() *Manager {
	return &Manager{
		pressedKeys: make(map[uint32]bool),
		log:         logger.Component("hotkey"),
	}
}

// Start 安装钩子并进入消息循环，阻塞直到 Stop
func (m *Manager) Start() error {
	// 锁定到当前 OS 线程，Win32 钩子必须在同一线程处理消息
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		m.log.Debug("已经在运行中")
		return nil
	}
	m.running = true
	m.mu.Unlock()

	moduleHandle, _, _ := procGetModuleHandleW.Call(0)
	hookProc := syscall.NewCallback(m.keyboardProc)
	hookID, _, err := procSetWindowsHookExW.Call(
		WH_KEYBOARD_LL,
		hookProc,
		moduleHandle,
		0,
	)
	if hookID == 0 {
		m.mu.Lock()
		m.running = false
		m.mu.Unlock()
		return fmt.Errorf("设置键盘钩子失败: %v", err)
	}

	m.mu.Lock()
	m.hookID = hookID
	m.mu.Unlock()

	m.bindings.mu.RLock()
	for _, b := range m.bindings.list {
		m.log.WithField("shortcut", b.combo.String()).Info("已注册快捷键")
	}
	m.bindings.mu.RUnlock()

	// 低级钩子需要本线程持续泵消息
	var msg MSG
	for m.isRunning() {
		procPeekMessageW.Call(
			uintptr(unsafe.Pointer(&msg)),
			0, 0, 0,
			PM_REMOVE,
		)
		time.Sleep(10 * time.Millisecond)
	}

	m.log.Debug("消息循环结束")
	return nil
}

func (m *Manager) isRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// Stop 停止监听并卸载钩子
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.running = false
	if m.hookID != 0 {
		procUnhookWindowsHookEx.Call(m.hookID)
		m.hookID = 0
		m.log.Info("键盘钩子已卸载")
	}
}

func (m *Manager) modifiers() Modifiers {
	var mods Modifiers
	for vk := range m.pressedKeys {
		switch modifierCodes[vk] {
		case "ctrl":
			mods.Ctrl = true
		case "alt":
			mods.Alt = true
		case "shift":
			mods.Shift = true
		case "win":
			mods.Win = true
		}
	}
	return mods
}

// keyboardProc 键盘钩子回调
func (m *Manager) keyboardProc(nCode int, wParam uintptr, lParam uintptr) uintptr {
	if nCode >= 0 {
		kb := (*KBDLLHOOKSTRUCT)(unsafe.Pointer(lParam))
		vkCode := kb.VkCode
		_, isModifier := modifierCodes[vkCode]

		switch wParam {
		case WM_KEYDOWN, WM_SYSKEYDOWN:
			m.mu.Lock()
			if isModifier {
				m.pressedKeys[vkCode] = true
			}
			mods := m.modifiers()
			m.mu.Unlock()

			if !isModifier {
				if fn := m.keyDown(vkCode, mods); fn != nil {
					m.log.WithField("vk", vkCode).Debug("快捷键触发")
					go fn()
					return 1
				}
				if m.consumes(vkCode) {
					return 1
				}
			}

		case WM_KEYUP, WM_SYSKEYUP:
			if isModifier {
				m.mu.Lock()
				delete(m.pressedKeys, vkCode)
				m.mu.Unlock()
			} else if m.consumes(vkCode) {
				m.keyUp(vkCode)
				return 1
			}
		}
	}

	ret, _, _ := procCallNextHookEx.Call(0, uintptr(nCode), wParam, lParam)
	return ret
}
