package ocr

import (
	"context"
	"net/http"
	"time"

	"aipaste-wails/internal/logger"

	"github.com/sirupsen/logrus"
)

// ProviderType OCR 服务类型
type ProviderType string

const (
	TypeSiliconFlow ProviderType = "siliconflow" // 默认服务（chat completion 风格）
	TypeOpenAI      ProviderType = "openai"      // OpenAI 兼容接口
	TypeMathpix     ProviderType = "mathpix"     // Mathpix 公式识别
	TypeCustom      ProviderType = "custom"      // 用户自定义的 chat completion 接口
)

// ProviderConfig OCR 服务配置
type ProviderConfig struct {
	ID        string       `json:"id" yaml:"id"`
	Name      string       `json:"name" yaml:"name"`
	Type      ProviderType `json:"type" yaml:"type"`
	APIKey    string       `json:"apiKey" yaml:"api_key"`
	BaseURL   string       `json:"baseUrl,omitempty" yaml:"base_url,omitempty"`
	Model     string       `json:"model,omitempty" yaml:"model,omitempty"`
	IsBuiltin bool         `json:"isBuiltin,omitempty" yaml:"-"`
}

// Result OCR 识别结果，要么完全成功，要么完全失败
type Result struct {
	Success bool   `json:"success"`
	Text    string `json:"text,omitempty"`
	LaTeX   string `json:"latex,omitempty"`
	Error   string `json:"error,omitempty"`
}

// HasLaTeX 结果是否带有 LaTeX 表示
func (r Result) HasLaTeX() bool {
	return r.Success && r.LaTeX != ""
}

// Provider 某一类 OCR 服务的识别实现
type Provider interface {
	// Recognize 识别图片（base64 或 data URL），失败时返回 Success=false 的结果
	Recognize(ctx context.Context, image string, cfg ProviderConfig, mathMode bool) Result
}

// Adapter 按配置类型选择 Provider
type Adapter struct {
	providers map[ProviderType]Provider
	log       *logrus.Entry
}

// Option Adapter 选项
type Option func(*adapterOptions)

type adapterOptions struct {
	httpClient  *http.Client
	mathpixURL  string
	chatDefault string
}

// WithHTTPClient 指定所有 Provider 使用的 HTTP 客户端
func WithHTTPClient(c *http.Client) Option {
	return func(o *adapterOptions) { o.httpClient = c }
}

// WithMathpixURL 覆盖 Mathpix 接口地址
func WithMathpixURL(u string) Option {
	return func(o *adapterOptions) { o.mathpixURL = u }
}

// WithDefaultChatURL 覆盖 chat completion 的默认接口地址
func WithDefaultChatURL(u string) Option {
	return func(o *adapterOptions) { o.chatDefault = u }
}

// NewAdapter 创建 Adapter
func NewAdapter(opts ...Option) *Adapter {
	o := adapterOptions{
		httpClient:  http.DefaultClient,
		mathpixURL:  DefaultMathpixURL,
		chatDefault: DefaultChatURL,
	}
	for _, opt := range opts {
		opt(&o)
	}

	chat := &chatProvider{httpClient: o.httpClient, defaultURL: o.chatDefault}
	return &Adapter{
		providers: map[ProviderType]Provider{
			TypeSiliconFlow: chat,
			TypeOpenAI:      chat,
			TypeCustom:      chat,
			TypeMathpix:     &mathpixProvider{httpClient: o.httpClient, endpoint: o.mathpixURL},
		},
		log: logger.Component("ocr"),
	}
}

// Perform 使用指定配置执行 OCR
func (a *Adapter) Perform(ctx context.Context, image string, cfg ProviderConfig, mathMode bool) Result {
	entry := a.log.WithFields(logrus.Fields{
		"provider": cfg.ID,
		"type":     cfg.Type,
		"model":    cfg.Model,
		"math":     mathMode,
	})

	p, ok := a.providers[cfg.Type]
	if !ok {
		entry.Warn("未知的 OCR 服务类型")
		return failure(newError(KindConfiguration, "Unknown API type", nil))
	}

	start := time.Now()
	result := p.Recognize(ctx, image, cfg, mathMode)
	entry = entry.WithField("elapsed", time.Since(start).Round(time.Millisecond))
	if result.Success {
		entry.WithField("latex", result.LaTeX != "").Info("OCR 识别完成")
	} else {
		entry.WithField("error", result.Error).Warn("OCR 识别失败")
	}
	return result
}

// success 构造成功结果
func success(text, latex string) Result {
	return Result{Success: true, Text: text, LaTeX: latex}
}

// failure 构造失败结果
func failure(err error) Result {
	return Result{Success: false, Error: err.Error()}
}
