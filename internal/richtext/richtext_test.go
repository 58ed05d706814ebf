package richtext

import (
	"strings"
	"testing"
	"time"

	"aipaste-wails/internal/ocr"
)

func TestMarkdownToHTML(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		contains []string
	}{
		{name: "emphasis", source: "**bold** and *em*", contains: []string{"<strong>bold</strong>", "<em>em</em>"}},
		{name: "heading", source: "# Title", contains: []string{"<h1>Title</h1>"}},
		{name: "table", source: "| a | b |\n|---|---|\n| 1 | 2 |", contains: []string{"<table>", "<td>1</td>"}},
		{name: "inline math", source: "Energy $E=mc^2$ here", contains: []string{"<math", "Energy"}},
		{name: "display math", source: "$$\\frac{a}{b}$$", contains: []string{"<math", "<mfrac"}},
		{name: "strong then inline math", source: "**bold** $x^2$", contains: []string{"<strong>bold</strong>", "<math"}},
		{name: "em then inline math", source: "*bold* $x^2$", contains: []string{"<em>bold</em>", "<math"}},
		{name: "strong then single symbol", source: "**bold** $y$", contains: []string{"<strong>bold</strong>", "<math"}},
		{name: "math inside emphasis", source: "**see $a+b$**", contains: []string{"<strong>see ", "<math"}},
		{name: "heading then display math", source: "# Title\n\n$$\\frac{a}{b}$$", contains: []string{"<h1>Title</h1>", "<mfrac"}},
		{name: "multiline display math", source: "$$\na+b\n$$", contains: []string{"<math"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := convertWithin(t, tt.source)
			if strings.Contains(got, placeholderOpen) {
				t.Errorf("placeholder left in output: %q", got)
			}
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("MarkdownToHTML(%q) = %q, missing %q", tt.source, got, want)
				}
			}
		})
	}
}

func TestSource(t *testing.T) {
	tests := []struct {
		name   string
		result ocr.Result
		want   string
	}{
		{name: "plain text", result: ocr.Result{Success: true, Text: "hello"}, want: "hello"},
		{name: "delimited latex", result: ocr.Result{Success: true, Text: "$x$", LaTeX: "$x$"}, want: "$x$"},
		{name: "bare latex", result: ocr.Result{Success: true, Text: "\\alpha+1", LaTeX: "\\alpha+1"}, want: "$$\\alpha+1$$"},
		{name: "mixed text", result: ocr.Result{Success: true, Text: "see \\alpha", LaTeX: "\\alpha"}, want: "see \\alpha"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Source(tt.result); got != tt.want {
				t.Errorf("Source() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRender_WrapsFragment(t *testing.T) {
	doc, err := Render(ocr.Result{Success: true, Text: "**x**"})
	if err != nil {
		t.Fatal(err)
	}
	start := strings.Index(doc, "<!--StartFragment-->")
	end := strings.Index(doc, "<!--EndFragment-->")
	if start < 0 || end < start {
		t.Fatalf("fragment markers missing: %q", doc)
	}
	if !strings.Contains(doc[start:end], "<strong>x</strong>") {
		t.Errorf("fragment = %q", doc[start:end])
	}
	if !strings.Contains(doc, ommlNamespace) {
		t.Error("OMML namespace missing")
	}
}

func TestMarkdownToHTML_DollarsWithoutMath(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{name: "currency", source: "costs $5 and $10", want: "costs $5 and $10"},
		{name: "escaped", source: "\\$x\\$", want: "$x$"},
		{name: "unclosed", source: "a $b", want: "a $b"},
		{name: "empty display", source: "$$$$", want: "$$$$"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := convertWithin(t, tt.source)
			if strings.Contains(got, "<math") || !strings.Contains(got, tt.want) {
				t.Errorf("MarkdownToHTML(%q) = %q, want literal %q", tt.source, got, tt.want)
			}
		})
	}
}

func TestExtractMath(t *testing.T) {
	text, spans := extractMath("**b** $x^2$ and $$\\frac{1}{2}$$ costs $5")
	if want := "**b** " + placeholder(0) + " and " + placeholder(1) + " costs $5"; text != want {
		t.Errorf("text = %q, want %q", text, want)
	}
	if len(spans) != 2 {
		t.Fatalf("spans = %+v", spans)
	}
	if spans[0] != (mathSpan{latex: "x^2"}) || spans[1] != (mathSpan{latex: "\\frac{1}{2}", display: true}) {
		t.Errorf("spans = %+v", spans)
	}
}

func TestRender(t *testing.T) {
	tests := []struct {
		name     string
		result   ocr.Result
		contains []string
		absent   []string
	}{
		{
			name:     "bare mathpix latex",
			result:   ocr.Result{Success: true, Text: "\\frac{1}{2}", LaTeX: "\\frac{1}{2}"},
			contains: []string{"<mfrac"},
		},
		{
			name:     "markdown with latex",
			result:   ocr.Result{Success: true, Text: "**bold** $x^2$", LaTeX: "$x^2$"},
			contains: []string{"<strong>bold</strong>", "<math"},
		},
		{
			name:     "no latex keeps dollars",
			result:   ocr.Result{Success: true, Text: "price $x$ today"},
			contains: []string{"price $x$ today"},
			absent:   []string{"<math"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := renderWithin(t, tt.result)
			for _, want := range tt.contains {
				if !strings.Contains(doc, want) {
					t.Errorf("Render() missing %q in %q", want, doc)
				}
			}
			for _, bad := range tt.absent {
				if strings.Contains(doc, bad) {
					t.Errorf("Render() unexpectedly contains %q in %q", bad, doc)
				}
			}
		})
	}
}

const renderTimeout = 3 * time.Second

// convertWithin 限时执行 MarkdownToHTML，渲染卡死时直接失败
func convertWithin(t *testing.T, source string) string {
	t.Helper()
	type out struct {
		html string
		err  error
	}
	done := make(chan out, 1)
	go func() {
		html, err := MarkdownToHTML(source)
		done <- out{html, err}
	}()
	select {
	case o := <-done:
		if o.err != nil {
			t.Fatal(o.err)
		}
		return o.html
	case <-time.After(renderTimeout):
		t.Fatalf("MarkdownToHTML(%q) did not finish within %v", source, renderTimeout)
		return ""
	}
}

func renderWithin(t *testing.T, r ocr.Result) string {
	t.Helper()
	type out struct {
		doc string
		err error
	}
	done := make(chan out, 1)
	go func() {
		doc, err := Render(r)
		done <- out{doc, err}
	}()
	select {
	case o := <-done:
		if o.err != nil {
			t.Fatal(o.err)
		}
		return o.doc
	case <-time.After(renderTimeout):
		t.Fatalf("Render(%q) did not finish within %v", r.Text, renderTimeout)
		return ""
	}
}
