package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"aipaste-wails/internal/ocr"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

const (
	appDirName     = "AIPaste"
	homeDirName    = ".aipaste"
	jsonConfigName = "config.json"
	yamlConfigName = "config.yaml"

	minWatchIntervalMs = 100
)

// Config 应用配置
type Config struct {
	ClipboardWatch     bool                 `json:"clipboard_watch" yaml:"clipboard_watch"`
	FloatingAutoShow   bool                 `json:"floating_auto_show" yaml:"floating_auto_show"`
	AlwaysOnTop        bool                 `json:"always_on_top" yaml:"always_on_top"`
	MathMode           bool                 `json:"math_mode" yaml:"math_mode"`
	ActiveProviderID   string               `json:"active_provider_id" yaml:"active_provider_id"`
	Providers          []ocr.ProviderConfig `json:"providers" yaml:"providers"`
	ShortcutConvert    string               `json:"shortcut_convert" yaml:"shortcut_convert"`
	ShortcutScreenshot string               `json:"shortcut_screenshot" yaml:"shortcut_screenshot"`
	WatchIntervalMs    int                  `json:"watch_interval_ms" yaml:"watch_interval_ms"`
	ShowStartupNotify  bool                 `json:"show_startup_notify" yaml:"show_startup_notify"`
	LogLevel           string               `json:"log_level" yaml:"log_level"`
}

// Default 默认配置
func Default() Config {
	return Config{
		ClipboardWatch:     true,
		FloatingAutoShow:   false,
		AlwaysOnTop:        false,
		MathMode:           false,
		ActiveProviderID:   "",
		Providers:          []ocr.ProviderConfig{},
		ShortcutConvert:    "CommandOrControl+Shift+V",
		ShortcutScreenshot: "CommandOrControl+Shift+M",
		WatchIntervalMs:    500,
		ShowStartupNotify:  true,
		LogLevel:           "info",
	}
}

// Dir 获取配置文件目录
func Dir() string {
	// 优先使用 APPDATA 环境变量
	if appData := os.Getenv("APPDATA"); appData != "" {
		return filepath.Join(appData, appDirName)
	}
	// 回退到用户主目录
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, homeDirName)
	}
	// 最后回退到可执行文件目录
	exe, _ := os.Executable()
	return filepath.Dir(exe)
}

// Path 返回配置目录中的配置文件路径，存在 config.yaml 时优先使用
func Path(dir string) string {
	yamlPath := filepath.Join(dir, yamlConfigName)
	if _, err := os.Stat(yamlPath); err == nil {
		return yamlPath
	}
	return filepath.Join(dir, jsonConfigName)
}

// Load 加载配置文件，文件不存在时返回默认配置
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("读取配置文件失败: %w", err)
	}

	if isYAML(path) {
		err = yaml.Unmarshal(data, &cfg)
	} else {
		err = json.Unmarshal(data, &cfg)
	}
	if err != nil {
		return Default(), fmt.Errorf("解析配置文件失败: %w", err)
	}

	cfg.Normalize()
	return cfg, nil
}

// Save 保存配置文件
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("创建配置目录失败: %w", err)
	}

	var (
		data []byte
		err  error
	)
	if isYAML(path) {
		data, err = yaml.Marshal(cfg)
	} else {
		data, err = json.MarshalIndent(cfg, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("序列化配置失败: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// Normalize 补全用户服务 ID、去掉重复项，内置服务只能由程序提供
func (c *Config) Normalize() {
	seen := make(map[string]bool, len(c.Providers))
	providers := make([]ocr.ProviderConfig, 0, len(c.Providers))
	for _, p := range c.Providers {
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		if p.ID == ocr.BuiltinID || seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		p.IsBuiltin = false
		if p.Name == "" {
			p.Name = string(p.Type)
		}
		providers = append(providers, p)
	}
	c.Providers = providers

	if c.WatchIntervalMs < minWatchIntervalMs {
		c.WatchIntervalMs = minWatchIntervalMs
	}
	if c.ActiveProviderID != "" && c.ActiveProviderID != ocr.BuiltinID && !seen[c.ActiveProviderID] {
		c.ActiveProviderID = ""
	}
}

// ActiveProvider 返回当前选中的用户服务，为 nil 时使用内置服务
func (c Config) ActiveProvider() *ocr.ProviderConfig {
	for i := range c.Providers {
		if c.Providers[i].ID == c.ActiveProviderID {
			p := c.Providers[i]
			return &p
		}
	}
	return nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
