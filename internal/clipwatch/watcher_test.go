package clipwatch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"aipaste-wails/internal/clipboard"
)

// fakeReader 可在测试中修改内容的剪贴板
type fakeReader struct {
	mu         sync.Mutex
	text, html string
	rtf        string
	err        error
}

func (f *fakeReader) set(text, html string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.text, f.html = text, html
}

func (f *fakeReader) ReadText() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

func (f *fakeReader) ReadHTML() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.html, nil
}

func (f *fakeReader) ReadRTF() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rtf, nil
}

func (f *fakeReader) Formats() ([]string, error) {
	return []string{clipboard.FormatText}, nil
}

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) listen(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}

func TestTick_NoDuplicateNotifications(t *testing.T) {
	reader := &fakeReader{}
	w := New(reader)
	rec := &recorder{}
	w.Subscribe(rec.listen)

	reader.set("hello", "")
	for i := 0; i < 10; i++ {
		if _, _, err := w.Tick(); err != nil {
			t.Fatal(err)
		}
	}
	if rec.count() != 1 {
		t.Fatalf("expected 1 notification, got %d", rec.count())
	}
	if rec.events[0].Text != "hello" {
		t.Errorf("event text = %q", rec.events[0].Text)
	}
}

func TestTick_HTMLOnlyChange(t *testing.T) {
	reader := &fakeReader{}
	reader.set("same", "<b>same</b>")
	w := New(reader)
	rec := &recorder{}
	w.Subscribe(rec.listen)

	w.Tick()
	reader.set("same", "<i>same</i>")
	_, changed, _ := w.Tick()

	if !changed || rec.count() != 2 {
		t.Errorf("html-only change not detected: changed=%v events=%d", changed, rec.count())
	}
}

func TestTick_RTFOnlyChangeIgnored(t *testing.T) {
	reader := &fakeReader{}
	reader.set("t", "h")
	w := New(reader)
	w.Tick()

	reader.mu.Lock()
	reader.rtf = "{\\rtf1 new}"
	reader.mu.Unlock()

	if _, changed, _ := w.Tick(); changed {
		t.Error("rtf-only change must not notify")
	}
}

func TestTick_DisarmedSuppressesUntilRearmed(t *testing.T) {
	reader := &fakeReader{}
	reader.set("first", "")
	w := New(reader)
	rec := &recorder{}
	w.Subscribe(rec.listen)
	w.Tick()

	w.SetEnabled(false)
	for _, text := range []string{"second", "third", "fourth"} {
		reader.set(text, "")
		w.Tick()
	}
	if rec.count() != 1 {
		t.Fatalf("notifications while disarmed: %d", rec.count()-1)
	}
	if w.Last().Text != "first" {
		t.Errorf("held snapshot changed while disarmed: %q", w.Last().Text)
	}

	w.SetEnabled(true)
	w.Tick()
	w.Tick()
	if rec.count() != 2 {
		t.Fatalf("expected exactly one notification after re-arm, got %d", rec.count()-1)
	}
	if rec.events[1].Text != "fourth" {
		t.Errorf("re-armed event text = %q, want fourth", rec.events[1].Text)
	}
}

func TestTick_RearmWithoutChange(t *testing.T) {
	reader := &fakeReader{}
	reader.set("stable", "")
	w := New(reader)
	w.Tick()

	w.SetEnabled(false)
	reader.set("changed", "")
	reader.set("stable", "")
	w.SetEnabled(true)

	if _, changed, _ := w.Tick(); changed {
		t.Error("clipboard equal to last armed snapshot must not notify")
	}
}

func TestTick_ReadErrorAbortsTickOnly(t *testing.T) {
	boom := errors.New("clipboard busy")
	reader := &fakeReader{}
	w := New(reader)
	rec := &recorder{}
	w.Subscribe(rec.listen)

	reader.mu.Lock()
	reader.err = boom
	reader.mu.Unlock()
	if _, _, err := w.Tick(); !errors.Is(err, boom) {
		t.Fatalf("expected read error, got %v", err)
	}

	reader.mu.Lock()
	reader.err = nil
	reader.mu.Unlock()
	reader.set("after", "")
	if _, changed, err := w.Tick(); err != nil || !changed {
		t.Errorf("tick after error: changed=%v err=%v", changed, err)
	}
	if rec.count() != 1 {
		t.Errorf("expected 1 notification, got %d", rec.count())
	}
}

func TestEvent_ShouldReveal(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		autoReveal bool
		focused    bool
		want       bool
	}{
		{name: "all conditions", text: "x", autoReveal: true, want: true},
		{name: "main window focused", text: "x", autoReveal: true, focused: true},
		{name: "auto reveal off", text: "x"},
		{name: "empty text", autoReveal: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := Event{Snapshot: clipboard.Snapshot{Text: tt.text}, AutoReveal: tt.autoReveal}
			if got := e.ShouldReveal(tt.focused); got != tt.want {
				t.Errorf("ShouldReveal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTick_CarriesAutoReveal(t *testing.T) {
	reader := &fakeReader{}
	w := New(reader, WithAutoReveal(true))
	reader.set("x", "")

	event, changed, _ := w.Tick()
	if !changed || !event.AutoReveal {
		t.Errorf("event = %+v, changed = %v", event, changed)
	}
	w.SetAutoReveal(false)
	reader.set("y", "")
	if event, _, _ = w.Tick(); event.AutoReveal {
		t.Error("auto reveal flag not updated")
	}
}

func TestStartStop_Idempotent(t *testing.T) {
	reader := &fakeReader{}
	reader.set("initial", "")
	w := New(reader, WithInterval(5*time.Millisecond))
	notified := make(chan Event, 10)
	w.Subscribe(func(e Event) { notified <- e })

	w.Stop()
	w.Start(context.Background())
	w.Start(context.Background())
	if !w.Running() {
		t.Fatal("watcher not running after Start")
	}

	// 启动时记录的内容不触发通知
	select {
	case e := <-notified:
		t.Fatalf("unexpected notification for initial content: %q", e.Text)
	case <-time.After(30 * time.Millisecond):
	}

	reader.set("changed", "")
	select {
	case e := <-notified:
		if e.Text != "changed" {
			t.Errorf("event text = %q", e.Text)
		}
	case <-time.After(time.Second):
		t.Fatal("no notification from ticker")
	}

	w.Stop()
	w.Stop()
	if w.Running() {
		t.Error("watcher still running after Stop")
	}
}
