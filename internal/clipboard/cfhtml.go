package clipboard

import (
	"fmt"
	"strconv"
	"strings"
)

// CF_HTML 剪贴板格式，见 "HTML Clipboard Format"
const (
	cfhtmlHeader     = "Version:0.9\r\nStartHTML:%010d\r\nEndHTML:%010d\r\nStartFragment:%010d\r\nEndFragment:%010d\r\n"
	fragmentStart    = "<!--StartFragment-->"
	fragmentEnd      = "<!--EndFragment-->"
	defaultDocPrefix = "<html><body>\r\n" + fragmentStart
	defaultDocSuffix = fragmentEnd + "\r\n</body>\r\n</html>"
)

// EncodeCFHTML 生成带偏移量头的 CF_HTML 数据。
// 内容已带有 StartFragment/EndFragment 注释时视为完整文档，否则包装为片段。
func EncodeCFHTML(html string) []byte {
	doc := html
	start := strings.Index(doc, fragmentStart)
	end := strings.LastIndex(doc, fragmentEnd)
	if start < 0 || end < start {
		doc = defaultDocPrefix + html + defaultDocSuffix
		start = strings.Index(doc, fragmentStart)
		end = strings.LastIndex(doc, fragmentEnd)
	}

	headerLen := len(fmt.Sprintf(cfhtmlHeader, 0, 0, 0, 0))
	header := fmt.Sprintf(cfhtmlHeader,
		headerLen,
		headerLen+len(doc),
		headerLen+start+len(fragmentStart),
		headerLen+end,
	)
	return []byte(header + doc)
}

// DecodeCFHTML 从 CF_HTML 数据中取出 HTML 片段。
// 偏移量无效时依次退回到 StartHTML/EndHTML、片段注释、去掉头部后的全文。
func DecodeCFHTML(data []byte) string {
	raw := strings.TrimRight(string(data), "\x00")
	offsets, bodyStart := parseCFHTMLHeader(raw)

	if s, e, ok := offsetRange(offsets, "StartFragment", "EndFragment", len(raw)); ok {
		return raw[s:e]
	}
	if s, e, ok := offsetRange(offsets, "StartHTML", "EndHTML", len(raw)); ok {
		return extractFragment(raw[s:e])
	}
	return extractFragment(raw[bodyStart:])
}

// parseCFHTMLHeader 解析 "Key:value" 头部，返回偏移量和正文起点
func parseCFHTMLHeader(raw string) (map[string]int, int) {
	offsets := make(map[string]int)
	pos := 0
	for pos < len(raw) {
		next := strings.IndexByte(raw[pos:], '\n')
		if next < 0 {
			break
		}
		line := strings.TrimRight(raw[pos:pos+next], "\r")
		key, value, ok := strings.Cut(line, ":")
		if !ok || strings.HasPrefix(line, "<") {
			break
		}
		if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			offsets[key] = n
		} else if key != "Version" && key != "SourceURL" {
			break
		}
		pos += next + 1
	}
	return offsets, pos
}

func offsetRange(offsets map[string]int, startKey, endKey string, size int) (int, int, bool) {
	s, okS := offsets[startKey]
	e, okE := offsets[endKey]
	if !okS || !okE || s < 0 || e > size || s > e {
		return 0, 0, false
	}
	return s, e, true
}

// extractFragment 有片段注释时取注释之间的内容
func extractFragment(doc string) string {
	start := strings.Index(doc, fragmentStart)
	end := strings.LastIndex(doc, fragmentEnd)
	if start >= 0 && end > start {
		return doc[start+len(fragmentStart) : end]
	}
	return doc
}
