package ocr

import "context"

// Recognizer 执行一次 OCR，Adapter 实现该接口
type Recognizer interface {
	Perform(ctx context.Context, image string, cfg ProviderConfig, mathMode bool) Result
}

// Dispatcher 选择使用的服务配置并调用 Recognizer
type Dispatcher struct {
	builtin    ProviderConfig
	recognizer Recognizer
}

// NewDispatcher 创建 Dispatcher，builtin 在进程生命周期内只读
func NewDispatcher(builtin ProviderConfig, recognizer Recognizer) *Dispatcher {
	builtin.IsBuiltin = true
	return &Dispatcher{builtin: builtin, recognizer: recognizer}
}

// Resolve 显式配置存在且不是内置配置时使用它，否则使用内置配置
func (d *Dispatcher) Resolve(explicit *ProviderConfig) ProviderConfig {
	if explicit != nil && !explicit.IsBuiltin {
		return *explicit
	}
	return d.builtin
}

// Dispatch 识别图片
func (d *Dispatcher) Dispatch(ctx context.Context, image string, explicit *ProviderConfig, mathMode bool) Result {
	return d.recognizer.Perform(ctx, image, d.Resolve(explicit), mathMode)
}

// BuiltinInfo 返回内置服务的公开信息
func (d *Dispatcher) BuiltinInfo() BuiltinInfo {
	return BuiltinInfo{
		ID:        d.builtin.ID,
		Name:      d.builtin.Name,
		Type:      d.builtin.Type,
		IsBuiltin: true,
	}
}
