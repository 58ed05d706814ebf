package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"aipaste-wails/internal/clipboard"
	"aipaste-wails/internal/clipwatch"
	"aipaste-wails/internal/config"
	"aipaste-wails/internal/hotkey"
	"aipaste-wails/internal/instance"
	"aipaste-wails/internal/logger"
	"aipaste-wails/internal/ocr"
	"aipaste-wails/internal/overlay"
	"aipaste-wails/internal/richtext"
	"aipaste-wails/internal/screenshot"
	"aipaste-wails/internal/tray"

	"github.com/sirupsen/logrus"
	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// 前端事件
const (
	eventClipboardChanged   = "clipboard-changed"
	eventShortcutConvert    = "shortcut-convert"
	eventShortcutScreenshot = "shortcut-screenshot"
)

const logFileName = "aipaste.log"

// floatingSurface 剪贴板浮窗
type floatingSurface interface {
	overlay.Toaster
	Visible() bool
	Hide()
}

// App 应用结构
type App struct {
	ctx        context.Context
	mu         sync.RWMutex
	config     config.Config
	configPath string
	quitting   bool // 标记是否正在退出程序
	focused    bool // 主窗口是否在前台，由前端上报

	// 组件
	clip       clipboard.Backend
	watcher    *clipwatch.Watcher
	dispatcher *ocr.Dispatcher
	capturer   screenshot.Source
	floating   floatingSurface
	hotkeyMgr  *hotkey.Manager
	trayIcon   *tray.SystemTray
	logFile    io.Closer

	log *logrus.Entry
}

// NewApp 创建新应用实例
func NewApp() *App {
	return &App{
		config: config.Default(),
		log:    logger.Component("app"),
	}
}

// prepareConfigDir 创建配置目录，失败时仍继续启动并使用默认配置
func (a *App) prepareConfigDir(dir string) bool {
	if err := os.MkdirAll(dir, 0755); err != nil {
		a.log.WithError(err).WithField("dir", dir).Warn("创建配置目录失败")
		return false
	}
	return true
}

// startup 应用启动时调用
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx

	// 配置目录：%APPDATA%\AIPaste
	configDir := config.Dir()
	a.prepareConfigDir(configDir)
	env := config.LoadEnv(configDir)
	a.configPath = config.Path(configDir)
	a.loadConfig(env)

	if f, err := logger.SetFile(filepath.Join(configDir, logFileName)); err != nil {
		a.log.WithError(err).Warn("无法写入日志文件")
	} else {
		a.logFile = f
	}

	a.dispatcher = ocr.NewDispatcher(ocr.NewBuiltin(env.BuiltinAPIKey), ocr.NewAdapter())

	clip, err := clipboard.System()
	if err != nil {
		a.log.WithError(err).Error("剪贴板初始化失败")
	}
	a.clip = clip

	capturer := screenshot.NewCapturer()
	a.capturer = capturer
	a.log.WithField("dpi_aware", capturer.DPIAware()).Debug("截图器已初始化")

	toast := overlay.NewToast()
	toast.OnClick = a.onFloatingClick
	a.floating = toast

	a.initWatcher(ctx)
	a.initTray()
	a.initHotkeys()

	a.mu.RLock()
	cfg := a.config
	a.mu.RUnlock()

	if cfg.AlwaysOnTop {
		runtime.WindowSetAlwaysOnTop(ctx, true)
	}
	if cfg.ShowStartupNotify {
		a.floating.Show(overlay.StartupNotice(cfg.ShortcutConvert, cfg.ShortcutScreenshot))
	}

	a.log.Info("AI Paste 启动完成")
}

// shutdown 应用关闭时调用
func (a *App) shutdown(ctx context.Context) {
	if a.watcher != nil {
		a.watcher.Stop()
	}
	if a.hotkeyMgr != nil {
		a.hotkeyMgr.Stop()
	}
	if a.floating != nil {
		a.floating.Hide()
	}
	if a.trayIcon != nil {
		a.trayIcon.Close()
	}

	if err := a.saveConfig(); err != nil {
		a.log.WithError(err).Warn("保存配置失败")
	}

	a.log.Info("AI Paste 已关闭")
	if a.logFile != nil {
		a.logFile.Close()
	}
}

// domReady DOM 准备就绪时调用
func (a *App) domReady(ctx context.Context) {}

// beforeClose 窗口关闭前调用 - 隐藏到托盘而不是退出
func (a *App) beforeClose(ctx context.Context) (prevent bool) {
	// 如果是从托盘点击"退出"，允许程序退出
	if a.quitting {
		return false
	}
	runtime.WindowHide(ctx)
	a.log.Debug("主窗口已隐藏到托盘")
	return true
}

// initWatcher 初始化剪贴板监听
func (a *App) initWatcher(ctx context.Context) {
	if a.clip == nil {
		return
	}

	a.mu.RLock()
	cfg := a.config
	a.mu.RUnlock()

	a.watcher = clipwatch.New(a.clip,
		clipwatch.WithInterval(time.Duration(cfg.WatchIntervalMs)*time.Millisecond),
		clipwatch.WithEnabled(cfg.ClipboardWatch),
		clipwatch.WithAutoReveal(cfg.FloatingAutoShow),
	)
	a.watcher.Subscribe(a.onClipboardChanged)
	a.watcher.Start(ctx)
}

// initTray 初始化系统托盘
func (a *App) initTray() {
	a.trayIcon = tray.NewSystemTray(a.GetClipboardWatch())
	a.trayIcon.OnShowApp = a.ShowWindow
	a.trayIcon.OnToggleFloating = func() {
		a.SetFloatingVisible(!a.GetFloatingVisible())
	}
	a.trayIcon.OnWatchChanged = func(enabled bool) {
		a.SetClipboardWatch(enabled)
	}
	a.trayIcon.OnQuit = func() {
		a.quitting = true // 标记正在退出
		runtime.Quit(a.ctx)
	}
	go a.trayIcon.Run()
}

// initHotkeys 注册全局快捷键
func (a *App) initHotkeys() {
	a.hotkeyMgr = hotkey.NewManager()
	a.registerHotkeys()

	go func() {
		if err := a.hotkeyMgr.Start(); err != nil {
			a.log.WithError(err).Error("全局快捷键启动失败")
			a.floating.Show(overlay.WarningNotice("快捷键不可用", err.Error()))
		}
	}()
}

func (a *App) registerHotkeys() {
	a.mu.RLock()
	convert := a.config.ShortcutConvert
	shot := a.config.ShortcutScreenshot
	a.mu.RUnlock()

	a.hotkeyMgr.Clear()
	if err := a.hotkeyMgr.Register(convert, a.onShortcutConvert); err != nil {
		a.log.WithError(err).WithField("shortcut", convert).Warn("注册快捷键失败")
	}
	if err := a.hotkeyMgr.Register(shot, a.onShortcutScreenshot); err != nil {
		a.log.WithError(err).WithField("shortcut", shot).Warn("注册快捷键失败")
	}
}

func (a *App) onShortcutConvert() {
	a.emit(eventShortcutConvert)
	a.ShowWindow()
}

func (a *App) onShortcutScreenshot() {
	a.emit(eventShortcutScreenshot)
}

// onClipboardChanged 转发给前端，并按条件弹出浮窗
func (a *App) onClipboardChanged(e clipwatch.Event) {
	a.emit(eventClipboardChanged, e.Snapshot)

	a.mu.RLock()
	focused := a.focused
	a.mu.RUnlock()

	if e.ShouldReveal(focused) && a.floating != nil {
		a.floating.Show(overlay.ClipboardNotice(e.Text))
	}
}

// onFloatingClick 点击浮窗时打开主窗口并转换剪贴板
func (a *App) onFloatingClick(n overlay.Notice) {
	a.ShowWindow()
	a.emit(eventShortcutConvert)
}

// onIPCMessage 处理重复启动的实例发来的消息
func (a *App) onIPCMessage(msg string) {
	if msg != instance.MsgShowToast {
		a.log.WithField("msg", msg).Debug("忽略未知 IPC 消息")
		return
	}
	a.log.Info("收到重复运行通知")
	if a.floating != nil {
		a.floating.Show(overlay.AlreadyRunningNotice())
	}
}

func (a *App) emit(name string, data ...interface{}) {
	if a.ctx == nil {
		return
	}
	runtime.EventsEmit(a.ctx, name, data...)
}

func (a *App) requestContext() context.Context {
	if a.ctx == nil {
		return context.Background()
	}
	return a.ctx
}

// loadConfig 加载配置文件，LOG_LEVEL 环境变量优先于配置
func (a *App) loadConfig(env config.Env) {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		a.log.WithError(err).Warn("加载配置失败，使用默认配置")
	}

	level := cfg.LogLevel
	if env.LogLevel != "" {
		level = env.LogLevel
	}
	logger.SetLevel(level)

	a.mu.Lock()
	a.config = cfg
	a.mu.Unlock()

	a.log.WithFields(logrus.Fields{
		"path":      a.configPath,
		"providers": len(cfg.Providers),
	}).Info("配置已加载")
}

// saveConfig 保存配置文件
func (a *App) saveConfig() error {
	if a.configPath == "" {
		return nil
	}
	a.mu.RLock()
	cfg := a.config
	a.mu.RUnlock()
	return config.Save(a.configPath, cfg)
}

func (a *App) updateConfig(fn func(c *config.Config)) {
	a.mu.Lock()
	fn(&a.config)
	a.mu.Unlock()

	if err := a.saveConfig(); err != nil {
		a.log.WithError(err).Warn("保存配置失败")
	}
}

// ======== 暴露给前端的方法 ========

// GetClipboardContent 读取当前剪贴板
func (a *App) GetClipboardContent() (clipboard.Snapshot, error) {
	if a.clip == nil {
		return clipboard.Snapshot{}, fmt.Errorf("剪贴板不可用")
	}
	return clipboard.TakeSnapshot(a.clip)
}

// WriteClipboard 写入剪贴板，有 HTML 时同时写入所有格式
func (a *App) WriteClipboard(p clipboard.Payload) (bool, error) {
	if a.clip == nil {
		return false, fmt.Errorf("剪贴板不可用")
	}
	return clipboard.Write(a.clip, p)
}

// CaptureScreen 截取主显示器
func (a *App) CaptureScreen() screenshot.Result {
	res := screenshot.Screen(a.capturer)
	if !res.Success {
		a.log.WithField("error", res.Error).Warn("截图失败")
	}
	return res
}

// CaptureRegion 截取选区
func (a *App) CaptureRegion(r screenshot.Rect) screenshot.Result {
	res := screenshot.Region(a.capturer, r)
	if !res.Success {
		a.log.WithFields(logrus.Fields{"rect": r, "error": res.Error}).Debug("选区截图未完成")
	}
	return res
}

// PerformOcr 识别图片，cfg 为空或为内置服务时使用内置服务
func (a *App) PerformOcr(image string, cfg *ocr.ProviderConfig, mathMode bool) ocr.Result {
	return a.dispatcher.Dispatch(a.requestContext(), image, cfg, mathMode)
}

// OcrClipboardImage 识别剪贴板中的图片，使用当前选中的服务
func (a *App) OcrClipboardImage(mathMode bool) ocr.Result {
	if a.clip == nil {
		return ocr.Result{Success: false, Error: "剪贴板不可用"}
	}
	raw, err := a.clip.ReadImage()
	if err != nil {
		return ocr.Result{Success: false, Error: err.Error()}
	}

	a.mu.RLock()
	active := a.config.ActiveProvider()
	a.mu.RUnlock()

	return a.dispatcher.Dispatch(a.requestContext(), ocr.EncodeImage(raw), active, mathMode)
}

// CopyOcrResult 把识别结果转换为富文本写入剪贴板
func (a *App) CopyOcrResult(r ocr.Result) (bool, error) {
	if !r.Success {
		return false, fmt.Errorf("识别结果无效: %s", r.Error)
	}
	html, err := richtext.Render(r)
	if err != nil {
		return false, err
	}
	return a.WriteClipboard(clipboard.Payload{Text: r.Text, HTML: html})
}

// GetBuiltinApiInfo 内置服务信息（不含密钥）
func (a *App) GetBuiltinApiInfo() ocr.BuiltinInfo {
	return a.dispatcher.BuiltinInfo()
}

// SetClipboardWatch 开启/关闭剪贴板监听
func (a *App) SetClipboardWatch(enabled bool) bool {
	if a.watcher != nil {
		a.watcher.SetEnabled(enabled)
	}
	if a.trayIcon != nil {
		a.trayIcon.SetWatchEnabled(enabled)
	}
	a.updateConfig(func(c *config.Config) { c.ClipboardWatch = enabled })
	return enabled
}

// GetClipboardWatch 剪贴板监听状态
func (a *App) GetClipboardWatch() bool {
	if a.watcher != nil {
		return a.watcher.Enabled()
	}
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.config.ClipboardWatch
}

// SetFloatingEnabled 设置剪贴板变化时是否自动弹出浮窗
func (a *App) SetFloatingEnabled(enabled bool) bool {
	if a.watcher != nil {
		a.watcher.SetAutoReveal(enabled)
	}
	a.updateConfig(func(c *config.Config) { c.FloatingAutoShow = enabled })
	return enabled
}

// SetFloatingVisible 显示/隐藏浮窗，显示时预览最近一次的剪贴板文本
func (a *App) SetFloatingVisible(visible bool) bool {
	if a.floating == nil {
		return false
	}
	if !visible {
		a.floating.Hide()
		return false
	}

	var text string
	if a.watcher != nil {
		text = a.watcher.Last().Text
	}
	a.floating.Show(overlay.ClipboardNotice(text))
	return true
}

// GetFloatingVisible 浮窗是否显示中
func (a *App) GetFloatingVisible() bool {
	return a.floating != nil && a.floating.Visible()
}

// SetWindowFocused 前端上报主窗口焦点状态
func (a *App) SetWindowFocused(focused bool) {
	a.mu.Lock()
	a.focused = focused
	a.mu.Unlock()
}

// SetAlwaysOnTop 主窗口置顶
func (a *App) SetAlwaysOnTop(enabled bool) bool {
	if a.ctx != nil {
		runtime.WindowSetAlwaysOnTop(a.ctx, enabled)
	}
	a.updateConfig(func(c *config.Config) { c.AlwaysOnTop = enabled })
	return enabled
}

// GetConfig 获取配置
func (a *App) GetConfig() config.Config {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.config
}

// SaveConfig 保存配置并应用到各组件
func (a *App) SaveConfig(cfg config.Config) error {
	cfg.Normalize()

	a.mu.Lock()
	old := a.config
	a.config = cfg
	a.mu.Unlock()

	if a.watcher != nil {
		a.watcher.SetEnabled(cfg.ClipboardWatch)
		a.watcher.SetAutoReveal(cfg.FloatingAutoShow)
	}
	if a.trayIcon != nil {
		a.trayIcon.SetWatchEnabled(cfg.ClipboardWatch)
	}
	if a.hotkeyMgr != nil && (old.ShortcutConvert != cfg.ShortcutConvert || old.ShortcutScreenshot != cfg.ShortcutScreenshot) {
		a.registerHotkeys()
	}
	if old.AlwaysOnTop != cfg.AlwaysOnTop && a.ctx != nil {
		runtime.WindowSetAlwaysOnTop(a.ctx, cfg.AlwaysOnTop)
	}
	if old.LogLevel != cfg.LogLevel {
		logger.SetLevel(cfg.LogLevel)
	}
	if old.WatchIntervalMs != cfg.WatchIntervalMs {
		a.log.WithField("interval_ms", cfg.WatchIntervalMs).Info("轮询间隔将在重启后生效")
	}

	return a.saveConfig()
}

// ShowWindow 显示主窗口
func (a *App) ShowWindow() {
	if a.ctx != nil {
		runtime.WindowShow(a.ctx)
	}
}

// HideWindow 隐藏主窗口
func (a *App) HideWindow() {
	if a.ctx != nil {
		runtime.WindowHide(a.ctx)
	}
}
