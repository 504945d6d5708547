package main

import (
	"fmt"
	"log"
	"runtime"

	"image-adjuster/internal/config"
	"image-adjuster/internal/controllers"
	"image-adjuster/internal/logger"
	"image-adjuster/internal/models"
	"image-adjuster/internal/opencv/memory"
	"image-adjuster/internal/pipeline"
	"image-adjuster/internal/shutdown"
	"image-adjuster/internal/views"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
)

const (
	AppName    = "Image Adjuster"
	AppID      = "com.imageprocessing.image-adjuster"
	AppVersion = "1.0.0"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration failed: %v", err)
	}

	appLogger := newLogger(cfg)
	appLogger.Info("Application", "starting", map[string]interface{}{
		"version":         AppVersion,
		"go_version":      runtime.Version(),
		"window_size":     fmt.Sprintf("%dx%d", cfg.WindowWidth, cfg.WindowHeight),
		"render_throttle": cfg.RenderThrottle.String(),
		"decode_timeout":  cfg.DecodeTimeout.String(),
	})

	fyneApp := app.NewWithID(AppID)
	window := fyneApp.NewWindow(AppName)
	window.Resize(fyne.NewSize(float32(cfg.WindowWidth), float32(cfg.WindowHeight)))
	window.CenterOnScreen()

	memManager := memory.NewManager(appLogger)
	memManager.SetPoolSize(cfg.SurfacePoolSize)

	controller := controllers.NewMainController(
		models.NewStore(),
		pipeline.NewLoader(appLogger, cfg.ThumbnailSize),
		pipeline.NewRenderer(memManager, appLogger),
		pipeline.NewExporter(appLogger),
		appLogger,
		controllers.Options{
			DecodeTimeout:  cfg.DecodeTimeout,
			RenderThrottle: cfg.RenderThrottle,
		},
	)

	view := views.NewMainView(window)
	controller.Start(view)

	shutdownManager := shutdown.NewManager(appLogger)
	shutdownManager.Register("memory manager", memManager)
	shutdownManager.Register("controller", controller)
	shutdownManager.Listen(func() {
		fyne.Do(fyneApp.Quit)
	})

	window.SetOnClosed(shutdownManager.Shutdown)
	window.SetMaster()

	window.ShowAndRun()

	shutdownManager.Shutdown()
	appLogger.Info("Application", "terminated", nil)
}

func newLogger(cfg *config.Config) logger.Logger {
	level := logger.ParseLevel(cfg.LogLevel)
	if cfg.JSONLogs {
		return logger.NewJSONLogger(level)
	}
	return logger.NewConsoleLogger(level)
}
