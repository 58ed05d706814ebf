package ocr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
)

const (
	// DefaultChatURL chat completion 默认接口
	DefaultChatURL = "https://api.siliconflow.cn/v1/chat/completions"
	// DefaultChatModel 未指定模型时使用
	DefaultChatModel = "deepseek-ai/DeepSeek-V3"

	maxOutputTokens = 4096
)

// chatProvider chat completion 风格的视觉接口（SiliconFlow、OpenAI 兼容、自定义）
type chatProvider struct {
	httpClient *http.Client
	defaultURL string
}

// Recognize 发送一条包含图片和提示词的用户消息
func (p *chatProvider) Recognize(ctx context.Context, image string, cfg ProviderConfig, mathMode bool) Result {
	endpoint := cfg.BaseURL
	if endpoint == "" {
		endpoint = p.defaultURL
	}
	model := cfg.Model
	if model == "" {
		model = DefaultChatModel
	}

	target, err := url.Parse(endpoint)
	if err != nil || target.Host == "" {
		return failure(newError(KindConfiguration, fmt.Sprintf("Invalid base URL: %q", endpoint), err))
	}

	client := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(endpoint),
		option.WithHTTPClient(p.httpClient),
		option.WithMaxRetries(0),
		option.WithMiddleware(fixedEndpoint(target)),
	)

	completion, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage([]openai.ChatCompletionContentPartUnionParam{
				openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
					URL: PNGDataURL(image),
				}),
				openai.TextContentPart(buildPrompt(model, mathMode)),
			}),
		},
		MaxTokens:   openai.Int(maxOutputTokens),
		Temperature: openai.Float(temperatureFor(mathMode)),
	})
	if err != nil {
		return failure(chatError(err))
	}

	if len(completion.Choices) == 0 || completion.Choices[0].Message.Content == "" {
		return failure(newError(KindContract, "No content in response", nil))
	}

	content := completion.Choices[0].Message.Content
	return success(content, latexOf(content))
}

// fixedEndpoint 配置中的 baseUrl 是完整接口地址，请求直接发到该地址而不是 SDK 拼接的路径
func fixedEndpoint(target *url.URL) option.Middleware {
	return func(req *http.Request, next option.MiddlewareNext) (*http.Response, error) {
		u := *target
		req.URL = &u
		req.Host = u.Host
		return next(req)
	}
}

// chatError 非 2xx 只保留状态码，其余按网络错误返回原始信息
func chatError(err error) *Error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return newError(KindTransport, fmt.Sprintf("API error: %d", apiErr.StatusCode), err)
	}
	return newError(KindTransport, err.Error(), err)
}
