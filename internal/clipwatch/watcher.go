package clipwatch

import (
	"context"
	"sync"
	"time"

	"aipaste-wails/internal/clipboard"
	"aipaste-wails/internal/logger"

	"github.com/sirupsen/logrus"
)

// DefaultInterval 轮询间隔
const DefaultInterval = 500 * time.Millisecond

// Event 剪贴板变化通知
type Event struct {
	clipboard.Snapshot
	// AutoReveal 检测到变化时浮窗自动显示开关的状态
	AutoReveal bool `json:"autoReveal"`
}

// HasText 新内容是否包含纯文本
func (e Event) HasText() bool {
	return e.Text != ""
}

// ShouldReveal 有文本、开启了自动显示、且主窗口不在前台时才显示浮窗
func (e Event) ShouldReveal(mainFocused bool) bool {
	return e.HasText() && e.AutoReveal && !mainFocused
}

// Listener 在轮询 goroutine 中同步调用
type Listener func(Event)

// Watcher 剪贴板轮询器
type Watcher struct {
	reader   clipboard.Reader
	interval time.Duration
	log      *logrus.Entry

	mu         sync.RWMutex
	last       clipboard.Snapshot
	enabled    bool
	autoReveal bool
	listeners  []Listener

	tickMu sync.Mutex // 保证通知按顺序、不重入

	runMu  sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// Option Watcher 选项
type Option func(*Watcher)

// WithInterval 设置轮询间隔
func WithInterval(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.interval = d
		}
	}
}

// WithAutoReveal 设置初始自动显示状态
func WithAutoReveal(enabled bool) Option {
	return func(w *Watcher) { w.autoReveal = enabled }
}

// WithEnabled 设置初始监听状态
func WithEnabled(enabled bool) Option {
	return func(w *Watcher) { w.enabled = enabled }
}

// New 创建 Watcher，默认处于监听状态
func New(reader clipboard.Reader, opts ...Option) *Watcher {
	w := &Watcher{
		reader:   reader,
		interval: DefaultInterval,
		enabled:  true,
		log:      logger.Component("clipwatch"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Subscribe 注册监听者
func (w *Watcher) Subscribe(l Listener) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.listeners = append(w.listeners, l)
}

// Start 记录当前剪贴板作为基准并开始轮询，重复调用无效果
func (w *Watcher) Start(ctx context.Context) {
	w.runMu.Lock()
	defer w.runMu.Unlock()

	if w.cancel != nil {
		return
	}

	if snap, err := clipboard.TakeSnapshot(w.reader); err != nil {
		w.log.WithError(err).Warn("读取初始剪贴板失败")
	} else {
		w.mu.Lock()
		w.last = snap
		w.mu.Unlock()
	}

	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.done = make(chan struct{})
	go w.run(ctx, w.done)

	w.log.WithField("interval", w.interval).Info("剪贴板监听已启动")
}

// Stop 停止轮询并等待退出，未运行时无效果
func (w *Watcher) Stop() {
	w.runMu.Lock()
	defer w.runMu.Unlock()

	if w.cancel == nil {
		return
	}
	w.cancel()
	<-w.done
	w.cancel = nil
	w.done = nil

	w.log.Info("剪贴板监听已停止")
}

// Running 是否正在轮询
func (w *Watcher) Running() bool {
	w.runMu.Lock()
	defer w.runMu.Unlock()
	return w.cancel != nil
}

func (w *Watcher) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, _, err := w.Tick(); err != nil {
				w.log.WithError(err).Warn("本次剪贴板检测失败")
			}
		}
	}
}

// Tick 执行一次检测。未启用时直接返回；有变化时更新基准并同步通知所有监听者。
// 读取失败只影响本次检测。
func (w *Watcher) Tick() (Event, bool, error) {
	w.tickMu.Lock()
	defer w.tickMu.Unlock()

	w.mu.RLock()
	enabled := w.enabled
	w.mu.RUnlock()
	if !enabled {
		return Event{}, false, nil
	}

	current, err := clipboard.TakeSnapshot(w.reader)
	if err != nil {
		return Event{}, false, err
	}

	w.mu.Lock()
	if !clipboard.HasChanged(w.last, current) {
		w.mu.Unlock()
		return Event{}, false, nil
	}
	w.last = current
	event := Event{Snapshot: current, AutoReveal: w.autoReveal}
	listeners := append([]Listener(nil), w.listeners...)
	w.mu.Unlock()

	w.log.WithFields(logrus.Fields{
		"text_len": len(current.Text),
		"html_len": len(current.HTML),
		"formats":  current.Formats,
	}).Debug("剪贴板内容已变化")

	for _, l := range listeners {
		l(event)
	}
	return event, true, nil
}

// Last 最近一次记录的快照
func (w *Watcher) Last() clipboard.Snapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.last
}

// SetEnabled 设置监听状态，返回设置后的值
func (w *Watcher) SetEnabled(enabled bool) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.enabled = enabled
	return w.enabled
}

// Enabled 是否处于监听状态
func (w *Watcher) Enabled() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.enabled
}

// SetAutoReveal 设置浮窗自动显示
func (w *Watcher) SetAutoReveal(enabled bool) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.autoReveal = enabled
	return w.autoReveal
}

// AutoReveal 浮窗自动显示是否开启
func (w *Watcher) AutoReveal() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.autoReveal
}
