package ocr

import "strings"

// DeepSeek-OCR 已针对识别任务调优，冗长的提示词反而会降低效果
const recognitionModelMarker = "DeepSeek-OCR"

const (
	promptOCRFree     = "Free OCR."
	promptOCRMarkdown = "Convert the document to markdown."
)

const promptMath = `You are a mathematical formula OCR expert. Extract all mathematical content from this image.

Rules:
1. Output ALL formulas in LaTeX format
2. Use $...$ for inline math
3. Use $$...$$ for display/block math
4. Preserve equation numbering if present
5. For matrices, use \begin{pmatrix}...\end{pmatrix} or \begin{bmatrix}...\end{bmatrix}
6. For aligned equations, use \begin{align}...\end{align}
7. Include any surrounding text context
8. Do not explain, just output the extracted content

Output the LaTeX directly:`

const promptGeneral = `Please extract all text and mathematical formulas from this image.
For mathematical formulas, output them in LaTeX format wrapped with $ for inline math or $$ for display math.
Output the content in a clean, readable format preserving the original structure.
If there are no formulas, just output the plain text.
Do not add any explanations, just output the extracted content directly.`

// isRecognitionModel 是否为专用识别模型
func isRecognitionModel(model string) bool {
	return strings.Contains(model, recognitionModelMarker)
}

// buildPrompt 根据模型和数学模式生成提示词
func buildPrompt(model string, mathMode bool) string {
	if isRecognitionModel(model) {
		if mathMode {
			return promptOCRMarkdown
		}
		return promptOCRFree
	}
	if mathMode {
		return promptMath
	}
	return promptGeneral
}

// temperatureFor 数学模式使用 0，其余使用 0.1
func temperatureFor(mathMode bool) float64 {
	if mathMode {
		return 0
	}
	return 0.1
}
