package main

import (
	"context"
	"image"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"aipaste-wails/internal/clipboard"
	"aipaste-wails/internal/clipwatch"
	"aipaste-wails/internal/config"
	"aipaste-wails/internal/logger"
	"aipaste-wails/internal/ocr"
	"aipaste-wails/internal/overlay"
	"aipaste-wails/internal/screenshot"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

type fakeClipboard struct {
	mu              sync.Mutex
	text, html, rtf string
	image           []byte
	writes          int
}

func (f *fakeClipboard) ReadText() (string, error)  { f.mu.Lock(); defer f.mu.Unlock(); return f.text, nil }
func (f *fakeClipboard) ReadHTML() (string, error)  { f.mu.Lock(); defer f.mu.Unlock(); return f.html, nil }
func (f *fakeClipboard) ReadRTF() (string, error)   { f.mu.Lock(); defer f.mu.Unlock(); return f.rtf, nil }
func (f *fakeClipboard) Formats() ([]string, error) { return []string{clipboard.FormatText}, nil }

func (f *fakeClipboard) ReadImage() ([]byte, error) {
	if f.image == nil {
		return nil, clipboard.ErrNoImage
	}
	return f.image, nil
}

func (f *fakeClipboard) WriteText(text string) error {
	return f.WriteAll(text, "", "")
}

func (f *fakeClipboard) WriteAll(text, html, rtf string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.text, f.html, f.rtf = text, html, rtf
	f.writes++
	return nil
}

type fakeRecognizer struct {
	calls []ocr.ProviderConfig
	image string
	math  bool
	res   ocr.Result
}

func (f *fakeRecognizer) Perform(ctx context.Context, image string, cfg ocr.ProviderConfig, mathMode bool) ocr.Result {
	f.calls = append(f.calls, cfg)
	f.image, f.math = image, mathMode
	return f.res
}

type fakeFloating struct {
	shown   []overlay.Notice
	visible bool
}

func (f *fakeFloating) Show(n overlay.Notice) { f.shown = append(f.shown, n); f.visible = true }
func (f *fakeFloating) Visible() bool         { return f.visible }
func (f *fakeFloating) Hide()                 { f.visible = false }

type fakeSource struct{}

func (fakeSource) CaptureScreen() (image.Image, error) {
	return image.NewRGBA(image.Rect(0, 0, 20, 20)), nil
}

func (fakeSource) CaptureRect(r screenshot.Rect) (image.Image, error) {
	return image.NewRGBA(image.Rect(0, 0, r.Width, r.Height)), nil
}

func newTestApp(t *testing.T, rec *fakeRecognizer) (*App, *fakeClipboard, *fakeFloating) {
	t.Helper()
	clip := &fakeClipboard{}
	floating := &fakeFloating{}
	a := &App{
		config:     config.Default(),
		configPath: filepath.Join(t.TempDir(), "config.json"),
		clip:       clip,
		dispatcher: ocr.NewDispatcher(ocr.NewBuiltin("builtin-key"), rec),
		capturer:   fakeSource{},
		floating:   floating,
		log:        logger.Component("app"),
	}
	a.watcher = clipwatch.New(clip)
	a.watcher.Subscribe(a.onClipboardChanged)
	return a, clip, floating
}

func TestApp_PerformOcrUsesBuiltinByDefault(t *testing.T) {
	rec := &fakeRecognizer{res: ocr.Result{Success: true, Text: "ok"}}
	a, _, _ := newTestApp(t, rec)

	a.PerformOcr("data:image/png;base64,AAAA", nil, true)
	a.PerformOcr("AAAA", &ocr.ProviderConfig{ID: "x", IsBuiltin: true}, false)
	a.PerformOcr("AAAA", &ocr.ProviderConfig{ID: "user", Type: ocr.TypeOpenAI}, false)

	if len(rec.calls) != 3 {
		t.Fatalf("calls = %d", len(rec.calls))
	}
	if rec.calls[0].ID != ocr.BuiltinID || rec.calls[1].ID != ocr.BuiltinID {
		t.Errorf("builtin not used: %+v", rec.calls[:2])
	}
	if rec.calls[2].ID != "user" {
		t.Errorf("explicit config ignored: %+v", rec.calls[2])
	}
	if info := a.GetBuiltinApiInfo(); info.ID != ocr.BuiltinID || !info.IsBuiltin {
		t.Errorf("GetBuiltinApiInfo() = %+v", info)
	}
}

func TestApp_OcrClipboardImage(t *testing.T) {
	rec := &fakeRecognizer{res: ocr.Result{Success: true, Text: "x"}}
	a, clip, _ := newTestApp(t, rec)

	if res := a.OcrClipboardImage(false); res.Success || res.Error != clipboard.ErrNoImage.Error() {
		t.Errorf("no image: %+v", res)
	}
	if len(rec.calls) != 0 {
		t.Fatal("recognizer called without image")
	}

	clip.image = []byte{0x89, 'P', 'N', 'G'}
	a.config.Providers = []ocr.ProviderConfig{{ID: "mp", Type: ocr.TypeMathpix, APIKey: "a:b"}}
	a.config.ActiveProviderID = "mp"

	if res := a.OcrClipboardImage(true); !res.Success {
		t.Fatalf("OcrClipboardImage() = %+v", res)
	}
	if rec.calls[0].ID != "mp" || !rec.math || rec.image != ocr.EncodeImage(clip.image) {
		t.Errorf("call = %+v math=%v image=%q", rec.calls[0], rec.math, rec.image)
	}
}

func TestApp_CopyOcrResult(t *testing.T) {
	a, clip, _ := newTestApp(t, &fakeRecognizer{})

	if ok, err := a.CopyOcrResult(ocr.Result{Success: false, Error: "API error: 500"}); ok || err == nil {
		t.Error("failed result must not be copied")
	}
	if clip.writes != 0 {
		t.Fatal("clipboard written for failed result")
	}

	ok, err := a.CopyOcrResult(ocr.Result{Success: true, Text: "**bold** $x^2$", LaTeX: "$x^2$"})
	if err != nil || !ok {
		t.Fatalf("CopyOcrResult() = %v, %v", ok, err)
	}
	if clip.text != "**bold** $x^2$" {
		t.Errorf("text = %q", clip.text)
	}
	if !strings.Contains(clip.html, "<strong>bold</strong>") || !strings.Contains(clip.html, "<math") ||
		!strings.Contains(clip.html, "<!--StartFragment-->") {
		t.Errorf("html = %q", clip.html)
	}
}

func TestApp_ClipboardChangeRevealsFloating(t *testing.T) {
	a, clip, floating := newTestApp(t, &fakeRecognizer{})

	clip.WriteText("first")
	a.watcher.Tick()
	if len(floating.shown) != 0 {
		t.Fatal("floating shown while auto reveal is off")
	}

	a.SetFloatingEnabled(true)
	clip.WriteText("second")
	a.watcher.Tick()
	if len(floating.shown) != 1 || floating.shown[0].Message != "second" {
		t.Fatalf("shown = %+v", floating.shown)
	}

	a.SetWindowFocused(true)
	clip.WriteText("third")
	a.watcher.Tick()
	if len(floating.shown) != 1 {
		t.Error("floating shown while main window focused")
	}
}

func TestApp_SetClipboardWatchPersists(t *testing.T) {
	a, clip, _ := newTestApp(t, &fakeRecognizer{})

	if a.SetClipboardWatch(false) {
		t.Fatal("SetClipboardWatch(false) returned true")
	}
	if a.GetClipboardWatch() {
		t.Error("watcher still enabled")
	}
	clip.WriteText("ignored")
	if _, changed, _ := a.watcher.Tick(); changed {
		t.Error("disabled watcher reported a change")
	}

	saved, err := config.Load(a.configPath)
	if err != nil {
		t.Fatal(err)
	}
	if saved.ClipboardWatch {
		t.Error("clipboard_watch not persisted")
	}
}

func TestApp_SaveConfigNormalizes(t *testing.T) {
	a, _, _ := newTestApp(t, &fakeRecognizer{})

	cfg := config.Default()
	cfg.FloatingAutoShow = true
	cfg.Providers = []ocr.ProviderConfig{{Name: "mine", Type: ocr.TypeCustom, IsBuiltin: true}}
	if err := a.SaveConfig(cfg); err != nil {
		t.Fatal(err)
	}

	got := a.GetConfig()
	if len(got.Providers) != 1 || got.Providers[0].ID == "" || got.Providers[0].IsBuiltin {
		t.Errorf("providers = %+v", got.Providers)
	}
	if !a.watcher.AutoReveal() {
		t.Error("auto reveal not applied to watcher")
	}
}

func TestApp_CaptureRegion(t *testing.T) {
	a, _, _ := newTestApp(t, &fakeRecognizer{})

	if res := a.CaptureRegion(screenshot.Rect{Width: 8, Height: 100}); res.Success || res.Error != "Selection cancelled" {
		t.Errorf("small region = %+v", res)
	}
	if res := a.CaptureRegion(screenshot.Rect{Width: 40, Height: 30}); !res.Success || res.ImageData == "" {
		t.Errorf("region = %+v", res)
	}
	if res := a.CaptureScreen(); !res.Success {
		t.Errorf("screen = %+v", res)
	}
}

func TestApp_FloatingVisibility(t *testing.T) {
	a, clip, floating := newTestApp(t, &fakeRecognizer{})
	clip.WriteText("latest")
	a.watcher.Tick()

	if !a.SetFloatingVisible(true) || !a.GetFloatingVisible() {
		t.Fatal("floating not visible")
	}
	if last := floating.shown[len(floating.shown)-1]; last.Message != "latest" {
		t.Errorf("preview = %q", last.Message)
	}
	if a.SetFloatingVisible(false) || a.GetFloatingVisible() {
		t.Error("floating still visible")
	}
}

func TestApp_PrepareConfigDir(t *testing.T) {
	l, hook := logtest.NewNullLogger()
	a := &App{log: l.WithField("component", "app")}

	dir := filepath.Join(t.TempDir(), "AIPaste")
	if !a.prepareConfigDir(dir) {
		t.Fatal("prepareConfigDir() failed on writable dir")
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Fatalf("config dir not created: %v", err)
	}
	if len(hook.Entries) != 0 {
		t.Errorf("unexpected log entries: %d", len(hook.Entries))
	}

	// 父路径是普通文件，目录无法创建
	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if a.prepareConfigDir(filepath.Join(file, "AIPaste")) {
		t.Fatal("prepareConfigDir() succeeded under a regular file")
	}
	entry := hook.LastEntry()
	if entry == nil || entry.Level != logrus.WarnLevel || entry.Data[logrus.ErrorKey] == nil {
		t.Errorf("failure not logged as warning: %+v", entry)
	}
}
