package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

const (
	EnvBuiltinAPIKey = "AIPASTE_BUILTIN_API_KEY"
	EnvLogLevel      = "LOG_LEVEL"
)

// Env 环境变量中的覆盖项
type Env struct {
	BuiltinAPIKey string
	LogLevel      string
}

// LoadEnv 依次加载配置目录和当前目录的 .env，已存在的环境变量不会被覆盖
func LoadEnv(dir string) Env {
	for _, path := range []string{filepath.Join(dir, ".env"), ".env"} {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
		}
	}
	return Env{
		BuiltinAPIKey: os.Getenv(EnvBuiltinAPIKey),
		LogLevel:      os.Getenv(EnvLogLevel),
	}
}
