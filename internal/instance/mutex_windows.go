//go:build windows

package instance

import (
	"syscall"
	"unsafe"
)

var (
	kernel32         = syscall.NewLazyDLL("kernel32.dll")
	procCreateMutexW = kernel32.NewProc("CreateMutexW")
)

const errorAlreadyExists = 183

// Lock 单实例锁
type Lock struct {
	handle uintptr
}

// Acquire 创建命名互斥量，返回 false 表示已有实例运行
func Acquire(name string) (*Lock, bool) {
	ptr, _ := syscall.UTF16PtrFromString(name)
	handle, _, err := procCreateMutexW.Call(
		0,
		1, // bInitialOwner = TRUE
		uintptr(unsafe.Pointer(ptr)),
	)

	lock := &Lock{handle: handle}
	if errno, ok := err.(syscall.Errno); ok && errno == errorAlreadyExists {
		return lock, false
	}
	return lock, true
}

// Release 关闭句柄
func (l *Lock) Release() {
	if l != nil && l.handle != 0 {
		syscall.CloseHandle(syscall.Handle(l.handle))
		l.handle = 0
	}
}
