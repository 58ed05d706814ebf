package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// DefaultMathpixURL Mathpix 文本识别接口
const DefaultMathpixURL = "https://api.mathpix.com/v3/text"

const mathpixKeyFormatError = `Mathpix API key format should be "app_id:app_key"`

// mathpixProvider Mathpix 公式识别
type mathpixProvider struct {
	httpClient *http.Client
	endpoint   string
}

// MathpixRequest Mathpix 请求
type MathpixRequest struct {
	Src         string             `json:"src"`
	Formats     []string           `json:"formats"`
	DataOptions MathpixDataOptions `json:"data_options"`
}

// MathpixDataOptions 附加输出选项
type MathpixDataOptions struct {
	IncludeASCIIMath bool `json:"include_asciimath"`
	IncludeLaTeX     bool `json:"include_latex"`
}

// MathpixResponse Mathpix 响应（只解析用到的字段）
type MathpixResponse struct {
	Text        string `json:"text"`
	LaTeXStyled string `json:"latex_styled"`
}

// splitMathpixKey 拆分 "app_id:app_key"
func splitMathpixKey(apiKey string) (appID, appKey string, err error) {
	parts := strings.Split(apiKey, ":")
	if len(parts) >= 2 {
		appID, appKey = parts[0], parts[1]
	} else {
		appID = parts[0]
	}
	if appID == "" || appKey == "" {
		return "", "", newError(KindConfiguration, mathpixKeyFormatError, nil)
	}
	return appID, appKey, nil
}

// Recognize Mathpix 不区分数学模式，总是请求 text 和 latex_styled
func (p *mathpixProvider) Recognize(ctx context.Context, image string, cfg ProviderConfig, _ bool) Result {
	appID, appKey, err := splitMathpixKey(cfg.APIKey)
	if err != nil {
		return failure(err)
	}

	reqBody := MathpixRequest{
		Src:     PNGDataURL(image),
		Formats: []string{"text", "latex_styled"},
		DataOptions: MathpixDataOptions{
			IncludeASCIIMath: true,
			IncludeLaTeX:     true,
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return failure(newError(KindConfiguration, fmt.Sprintf("序列化请求失败: %v", err), err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return failure(newError(KindConfiguration, fmt.Sprintf("创建请求失败: %v", err), err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("app_id", appID)
	req.Header.Set("app_key", appKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return failure(newError(KindTransport, err.Error(), err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return failure(newError(KindTransport, fmt.Sprintf("读取响应失败: %v", err), err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return failure(newError(KindTransport,
			fmt.Sprintf("Mathpix error: %d - %s", resp.StatusCode, string(respBody)), nil))
	}

	var result MathpixResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return failure(newError(KindContract, fmt.Sprintf("解析响应失败: %v", err), err))
	}

	content := result.LaTeXStyled
	if content == "" {
		content = result.Text
	}
	return success(content, content)
}
