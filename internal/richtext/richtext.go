// Package richtext 将识别结果（Markdown 与 LaTeX 混排）转换为可粘贴到 Word 的 HTML
package richtext

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"aipaste-wails/internal/ocr"

	treeblood "github.com/wyatt915/goldmark-treeblood"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

const ommlNamespace = "http://schemas.openxmlformats.org/officeDocument/2006/math"

// markdown 不加载公式扩展，公式由 extractMath 预先取出单独渲染
var markdown = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
	),
	goldmark.WithRendererOptions(
		html.WithHardWraps(),
	),
)

// formula 只处理单个公式
var formula = goldmark.New(
	goldmark.WithExtensions(
		treeblood.MathML(),
	),
)

// 占位符使用私用区字符，Markdown 渲染时原样保留
const (
	placeholderOpen  = "\uE000"
	placeholderClose = "\uE001"
)

// mathSpan 从源文本中取出的公式
type mathSpan struct {
	latex   string
	display bool
}

// MarkdownToHTML 渲染 Markdown，$...$ 与 $$...$$ 中的公式转换为 MathML
func MarkdownToHTML(source string) (string, error) {
	text, spans := extractMath(source)
	fragment, err := renderMarkdown(text)
	if err != nil {
		return "", err
	}

	for i, span := range spans {
		mathML, err := renderFormula(span)
		if err != nil {
			return "", err
		}
		fragment = strings.Replace(fragment, placeholder(i), mathML, 1)
	}
	return fragment, nil
}

func renderMarkdown(source string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("渲染 Markdown 失败: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// renderFormula 按 $$...$$ 或 $...$ 单独渲染一个公式并去掉外层段落
func renderFormula(span mathSpan) (string, error) {
	delim := "$"
	if span.display {
		delim = "$$"
	}

	var buf bytes.Buffer
	if err := formula.Convert([]byte(delim+span.latex+delim), &buf); err != nil {
		return "", fmt.Errorf("渲染公式失败: %w", err)
	}
	out := strings.TrimSpace(buf.String())
	if strings.HasPrefix(out, "<p>") && strings.HasSuffix(out, "</p>") {
		out = strings.TrimSpace(out[len("<p>") : len(out)-len("</p>")])
	}
	return out, nil
}

func placeholder(i int) string {
	return placeholderOpen + strconv.Itoa(i) + placeholderClose
}

// extractMath 把公式替换为占位符。
// \$ 不作为分隔符；行内公式不跨行，内容首尾不能是空白，结束的 $ 后不能紧跟数字。
func extractMath(source string) (string, []mathSpan) {
	var (
		b     strings.Builder
		spans []mathSpan
	)

	for i := 0; i < len(source); {
		c := source[i]
		if c == '\\' && i+1 < len(source) {
			b.WriteString(source[i : i+2])
			i += 2
			continue
		}
		if c != '$' {
			b.WriteByte(c)
			i++
			continue
		}

		if strings.HasPrefix(source[i:], "$$") {
			if end := strings.Index(source[i+2:], "$$"); end >= 0 {
				latex := strings.TrimSpace(source[i+2 : i+2+end])
				if latex != "" {
					b.WriteString(placeholder(len(spans)))
					spans = append(spans, mathSpan{latex: latex, display: true})
					i += 2 + end + 2
					continue
				}
			}
			b.WriteString("$$")
			i += 2
			continue
		}

		if end, ok := inlineEnd(source, i); ok {
			b.WriteString(placeholder(len(spans)))
			spans = append(spans, mathSpan{latex: source[i+1 : end]})
			i = end + 1
			continue
		}
		b.WriteByte(c)
		i++
	}
	return b.String(), spans
}

// inlineEnd 返回 start 处 $ 对应的结束 $ 位置
func inlineEnd(source string, start int) (int, bool) {
	if start+1 >= len(source) || isSpace(source[start+1]) {
		return 0, false
	}
	for j := start + 1; j < len(source); j++ {
		switch source[j] {
		case '\n':
			return 0, false
		case '\\':
			j++
		case '$':
			if isSpace(source[j-1]) || j == start+1 {
				return 0, false
			}
			if j+1 < len(source) && source[j+1] >= '0' && source[j+1] <= '9' {
				return 0, false
			}
			return j, true
		}
	}
	return 0, false
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// Source 返回用于渲染的 Markdown 源文本。
// 不带 $ 分隔符的纯公式结果按独立公式处理。
func Source(r ocr.Result) string {
	text := strings.TrimSpace(r.Text)
	latex := strings.TrimSpace(r.LaTeX)
	if latex != "" && text == latex && !strings.Contains(latex, "$") {
		return "$$" + latex + "$$"
	}
	return text
}

// Render 将识别结果转换为完整的剪贴板 HTML 文档，不含 LaTeX 的结果按纯 Markdown 渲染
func Render(r ocr.Result) (string, error) {
	var (
		fragment string
		err      error
	)
	if r.HasLaTeX() {
		fragment, err = MarkdownToHTML(Source(r))
	} else {
		fragment, err = renderMarkdown(Source(r))
	}
	if err != nil {
		return "", err
	}
	return WrapForWord(fragment), nil
}

// WrapForWord 包装为带 Office 命名空间和片段标记的 HTML 文档
func WrapForWord(fragment string) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n")
	b.WriteString(`<html xmlns:o="urn:schemas-microsoft-com:office:office"`)
	b.WriteString(` xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"`)
	b.WriteString(` xmlns:m="` + ommlNamespace + `"`)
	b.WriteString(` xmlns="http://www.w3.org/TR/REC-html40">` + "\n")
	b.WriteString("<head>\n<meta charset=\"utf-8\">\n")
	b.WriteString(`<meta http-equiv="Content-Type" content="text/html; charset=utf-8">` + "\n")
	b.WriteString("<style>\n" + wordStyle + "</style>\n</head>\n")
	b.WriteString(`<body class="ai-paste-content" xmlns:m="` + ommlNamespace + `">` + "\n")
	b.WriteString("<!--StartFragment-->")
	b.WriteString(fragment)
	b.WriteString("<!--EndFragment-->\n</body>\n</html>")
	return b.String()
}

const wordStyle = `.ai-paste-content { font-family: "微软雅黑", Arial, sans-serif; font-size: 12pt; line-height: 1.6; color: #333333; }
.ai-paste-content p { margin: 0 0 8pt 0; }
.ai-paste-content h1 { font-size: 22pt; font-weight: bold; margin: 16pt 0 8pt 0; }
.ai-paste-content h2 { font-size: 18pt; font-weight: bold; margin: 14pt 0 6pt 0; }
.ai-paste-content h3 { font-size: 14pt; font-weight: bold; margin: 12pt 0 4pt 0; }
.ai-paste-content pre, .ai-paste-content code { font-family: Consolas, "Courier New", monospace; font-size: 10pt; background-color: #f5f5f5; white-space: pre-wrap; }
.ai-paste-content table { border-collapse: collapse; margin: 8pt 0; border: 1px solid #dddddd; }
.ai-paste-content th, .ai-paste-content td { border: 1px solid #dddddd; padding: 6px; text-align: left; }
.ai-paste-content th { background-color: #f0f0f0; font-weight: bold; }
.ai-paste-content blockquote { margin: 8pt 0; padding: 8pt 16pt; border-left: 4px solid #ddd; color: #666; }
.ai-paste-content math { font-family: "Cambria Math", "Times New Roman", serif; }
`
