//go:build windows

package tray

import (
	_ "embed"

	"aipaste-wails/internal/logger"

	"github.com/energye/systray"
)

//go:embed icon.ico
var iconData []byte

// SystemTray 系统托盘
type SystemTray struct {
	menuState

	mWatch *systray.MenuItem
}

// NewSystemTray 创建系统托盘
func NewSystemTray(watchEnabled bool) *SystemTray {
	return &SystemTray{menuState: menuState{watchEnabled: watchEnabled}}
}

// Run 运行系统托盘，阻塞直到退出
func (s *SystemTray) Run() {
	systray.Run(s.onReady, s.onExit)
}

// Close 关闭系统托盘
func (s *SystemTray) Close() {
	systray.Quit()
}

// SetWatchEnabled 同步剪贴板监听勾选状态
func (s *SystemTray) SetWatchEnabled(enabled bool) {
	s.setWatch(enabled)
	s.syncCheck()
}

func (s *SystemTray) syncCheck() {
	if s.mWatch == nil {
		return
	}
	if s.WatchEnabled() {
		s.mWatch.Check()
	} else {
		s.mWatch.Uncheck()
	}
}

// onReady 托盘就绪回调
func (s *SystemTray) onReady() {
	systray.SetIcon(iconData)
	systray.SetTitle(title)
	systray.SetTooltip(tooltip)

	// 左键点击显示主窗口
	systray.SetOnClick(func(menu systray.IMenu) {
		s.showApp()
	})
	systray.SetOnRClick(func(menu systray.IMenu) {
		menu.ShowMenu()
	})

	mShow := systray.AddMenuItem(labelShowApp, "显示主窗口")
	mFloating := systray.AddMenuItem(labelFloating, "显示/隐藏剪贴板浮窗")
	s.mWatch = systray.AddMenuItemCheckbox(labelWatch, "开启/关闭剪贴板监听", s.WatchEnabled())
	systray.AddSeparator()
	mQuit := systray.AddMenuItem(labelQuit, "退出程序")

	mShow.Click(s.showApp)
	mFloating.Click(s.toggleFloating)
	s.mWatch.Click(func() {
		s.toggleWatch()
		s.syncCheck()
	})
	mQuit.Click(func() {
		s.quit()
		systray.Quit()
	})

	logger.Component("tray").Info("系统托盘已启动")
}

// onExit 托盘退出回调
func (s *SystemTray) onExit() {
	logger.Component("tray").Info("系统托盘已关闭")
}
