package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Logger 全局日志实例
var Logger *logrus.Logger

func init() {
	Logger = logrus.New()
	Logger.SetOutput(os.Stdout)
	Logger.SetLevel(ParseLevel(os.Getenv("LOG_LEVEL")))

	// 桌面程序使用文本格式，便于直接查看
	Logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})
}

// ParseLevel 解析日志级别，无法识别时返回 Info
func ParseLevel(level string) logrus.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// SetLevel 设置日志级别
func SetLevel(level string) {
	Logger.SetLevel(ParseLevel(level))
}

// SetFile 同时输出到日志文件，返回的 Closer 用于退出时关闭文件
func SetFile(path string) (io.Closer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, err
	}
	Logger.SetOutput(io.MultiWriter(os.Stdout, f))
	return f, nil
}

// Component 返回带组件名的日志条目
func Component(name string) *logrus.Entry {
	return Logger.WithField("component", name)
}

