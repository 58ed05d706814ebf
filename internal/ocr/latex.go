package ocr

import "regexp"

// 只做存在性判断：成对的 $...$、$$...$$，或任意 \命令
var latexPattern = regexp.MustCompile(`\$[^$]+\$|\$\$[^$]+\$\$|\\[a-zA-Z]+`)

// LooksLikeLaTeX 内容是否可能包含 LaTeX
func LooksLikeLaTeX(content string) bool {
	return latexPattern.MatchString(content)
}

// latexOf 可能包含 LaTeX 时返回内容本身，否则返回空串
func latexOf(content string) string {
	if LooksLikeLaTeX(content) {
		return content
	}
	return ""
}
