//go:build !js

package main

import (
	"log"
	"runtime"

	"globedrive/internal/app"
	"globedrive/internal/glview"
	"globedrive/internal/scene"
)

func init() {
	// GLFW and the GL context must stay on the main thread.
	runtime.LockOSThread()
	backends["gl"] = runGL
	defaultBackend = "gl"
}

func runGL(cfg scene.Config, reload <-chan scene.Config, logger *log.Logger) error {
	win, err := glview.Open(cfg, logger)
	if err != nil {
		return err
	}
	defer win.Close()

	w, h := win.Size()
	ctrl, err := app.New(win, scene.New(cfg, w, h), cfg, w, h, logger)
	if err != nil {
		return err
	}
	win.Run(ctrl, reload)
	return nil
}
