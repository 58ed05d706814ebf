//go:build !windows

package instance

// Lock 非 Windows 平台由 IPC 端口占用判断是否重复启动
type Lock struct{}

// Acquire 始终成功
func Acquire(name string) (*Lock, bool) {
	return &Lock{}, true
}

// Release 无操作
func (l *Lock) Release() {}
