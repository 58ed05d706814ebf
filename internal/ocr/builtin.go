package ocr

const (
	BuiltinID    = "builtin-siliconflow"
	BuiltinName  = "Default (SiliconFlow)"
	BuiltinModel = "deepseek-ai/DeepSeek-OCR"
)

// builtinAPIKey 内置服务密钥，发布时通过 -ldflags "-X aipaste-wails/internal/ocr.builtinAPIKey=..." 注入
var builtinAPIKey string

// BuiltinInfo 内置服务的公开信息（不含密钥）
type BuiltinInfo struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Type      ProviderType `json:"type"`
	IsBuiltin bool         `json:"isBuiltin"`
}

// NewBuiltin 创建内置服务配置，apiKey 为空时使用编译期注入的密钥
func NewBuiltin(apiKey string) ProviderConfig {
	if apiKey == "" {
		apiKey = builtinAPIKey
	}
	return ProviderConfig{
		ID:        BuiltinID,
		Name:      BuiltinName,
		Type:      TypeSiliconFlow,
		APIKey:    apiKey,
		BaseURL:   DefaultChatURL,
		Model:     BuiltinModel,
		IsBuiltin: true,
	}
}
