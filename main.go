package main

import (
	"embed"

	"aipaste-wails/internal/instance"
	"aipaste-wails/internal/logger"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/options/windows"
)

//go:embed all:frontend/dist
var assets embed.FS

const mutexName = "AIPaste_SingleInstance_Mutex"

func main() {
	log := logger.Component("main")

	// 检查单实例
	lock, isFirst := instance.Acquire(mutexName)
	if !isFirst {
		log.Info("AI Paste 已在运行中，通知已运行的实例")
		if err := instance.Notify(instance.DefaultAddr, instance.MsgShowToast); err != nil {
			log.WithError(err).Warn("通知失败")
		}
		lock.Release()
		return
	}
	// 保持互斥锁句柄直到程序退出
	defer lock.Release()

	app := NewApp()

	// 启动 IPC 服务器
	if srv, err := instance.Listen(instance.DefaultAddr, app.onIPCMessage); err != nil {
		log.WithError(err).Warn("IPC 不可用")
	} else {
		defer srv.Close()
	}

	err := wails.Run(&options.App{
		Title:     "AI Paste",
		Width:     900,
		Height:    670,
		MinWidth:  480,
		MinHeight: 520,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		BackgroundColour: &options.RGBA{R: 27, G: 38, B: 54, A: 1},
		OnStartup:        app.startup,
		OnShutdown:       app.shutdown,
		OnDomReady:       app.domReady,
		OnBeforeClose:    app.beforeClose, // 拦截关闭事件，隐藏到托盘
		Bind: []interface{}{
			app,
		},
		Windows: &windows.Options{
			WebviewIsTransparent: false,
			WindowIsTranslucent:  false,
			DisableWindowIcon:    false,
			ZoomFactor:           1.0,
		},
	})

	if err != nil {
		log.WithError(err).Fatal("启动应用失败")
	}
}
