package overlay

import (
	"strings"
	"testing"
)

func TestPreview(t *testing.T) {
	tests := []struct {
		name string
		text string
		max  int
		want string
	}{
		{name: "short", text: "hello", max: 10, want: "hello"},
		{name: "collapse whitespace", text: "a\r\n\tb   c", max: 10, want: "a b c"},
		{name: "truncate runes", text: "识别公式和文字", max: 4, want: "识别公式…"},
		{name: "exact length", text: "abcd", max: 4, want: "abcd"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Preview(tt.text, tt.max); got != tt.want {
				t.Errorf("Preview() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNotices(t *testing.T) {
	n := StartupNotice("Ctrl+Shift+V", "Ctrl+Shift+M")
	if n.Kind != KindInfo || !strings.Contains(n.Message, "Ctrl+Shift+V") || !strings.Contains(n.Message, "Ctrl+Shift+M") {
		t.Errorf("StartupNotice() = %+v", n)
	}

	c := ClipboardNotice(strings.Repeat("x", 200))
	if c.Kind != KindClipboard || !strings.HasSuffix(c.Message, "…") || c.Duration <= n.Duration {
		t.Errorf("ClipboardNotice() = %+v", c)
	}

	w := WarningNotice("快捷键注册失败", "boom")
	if w.Kind != KindWarning || !strings.HasPrefix(w.Title, "⚠ ") {
		t.Errorf("WarningNotice() = %+v", w)
	}
}
