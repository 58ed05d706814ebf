package clipboard

import (
	"strconv"
	"strings"
	"testing"
)

func headerValue(t *testing.T, data, key string) int {
	t.Helper()
	for _, line := range strings.Split(data, "\r\n") {
		if strings.HasPrefix(line, key+":") {
			n, err := strconv.Atoi(strings.TrimPrefix(line, key+":"))
			if err != nil {
				t.Fatalf("bad %s value: %q", key, line)
			}
			return n
		}
	}
	t.Fatalf("missing %s", key)
	return 0
}

func TestEncodeCFHTML_Offsets(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		fragment string
	}{
		{name: "bare fragment", html: "<b>粗体</b>", fragment: "<b>粗体</b>"},
		{
			name:     "document with markers",
			html:     "<html><body><!--StartFragment--><p>x</p><!--EndFragment--></body></html>",
			fragment: "<p>x</p>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := string(EncodeCFHTML(tt.html))

			startHTML := headerValue(t, data, "StartHTML")
			endHTML := headerValue(t, data, "EndHTML")
			startFrag := headerValue(t, data, "StartFragment")
			endFrag := headerValue(t, data, "EndFragment")

			if endHTML != len(data) {
				t.Errorf("EndHTML = %d, want %d", endHTML, len(data))
			}
			if !strings.HasPrefix(data[startHTML:], "<html>") {
				t.Errorf("StartHTML points at %q", data[startHTML:startHTML+10])
			}
			if got := data[startFrag:endFrag]; got != tt.fragment {
				t.Errorf("fragment = %q, want %q", got, tt.fragment)
			}
			if got := DecodeCFHTML([]byte(data + "\x00")); got != tt.fragment {
				t.Errorf("DecodeCFHTML() = %q, want %q", got, tt.fragment)
			}
		})
	}
}

func TestDecodeCFHTML_Fallbacks(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{
			name: "bad offsets fall back to markers",
			data: "Version:0.9\r\nStartHTML:9999\r\nEndHTML:99999\r\nStartFragment:9999\r\nEndFragment:99999\r\n" +
				"<html><body><!--StartFragment-->hi<!--EndFragment--></body></html>",
			want: "hi",
		},
		{
			name: "no header",
			data: "<p>raw</p>",
			want: "<p>raw</p>",
		},
		{
			name: "source url header line",
			data: "Version:1.0\nStartHTML:-1\nEndHTML:-1\nSourceURL:https://example.com/a\n<!--StartFragment-->frag<!--EndFragment-->",
			want: "frag",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DecodeCFHTML([]byte(tt.data)); got != tt.want {
				t.Errorf("DecodeCFHTML() = %q, want %q", got, tt.want)
			}
		})
	}
}
