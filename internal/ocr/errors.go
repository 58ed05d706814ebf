package ocr

// ErrorKind 错误分类
type ErrorKind string

const (
	KindConfiguration ErrorKind = "configuration" // 配置错误，不会发起网络请求
	KindTransport     ErrorKind = "transport"     // 网络错误或非 2xx 响应
	KindContract      ErrorKind = "contract"      // 2xx 响应但缺少预期字段
)

// Error OCR 错误，Error() 只返回面向用户的信息
type Error struct {
	Kind    ErrorKind
	Message string
	Cause   error
}

func newError(kind ErrorKind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// Error implements the error interface
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsKind 判断错误类型
func IsKind(err error, kind ErrorKind) bool {
	if e, ok := err.(*Error); ok {
		return e.Kind == kind
	}
	return false
}
