package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"

	"globedrive/internal/app"
	"globedrive/internal/scene"
	"globedrive/internal/softview"
)

type runner func(cfg scene.Config, reload <-chan scene.Config, logger *log.Logger) error

var (
	backends       = map[string]runner{"soft": runSoft}
	defaultBackend = "soft"
)

func main() {
	configPath := flag.String("config", "", "YAML file overriding the built-in scene settings.")
	backend := flag.String("backend", defaultBackend, "Renderer: gl or soft.")
	watch := flag.Bool("watch", false, "Reload controls and field of view when the config file changes.")
	verbose := flag.Bool("v", false, "Log events to stderr.")
	flag.Parse()

	logger := log.New(io.Discard, "globedrive: ", log.LstdFlags)
	if *verbose {
		logger.SetOutput(os.Stderr)
	}

	cfg, err := scene.LoadConfig(*configPath)
	if err != nil {
		log.Fatalln(err)
	}

	run, ok := backends[*backend]
	if !ok {
		log.Fatalf("unknown backend %q", *backend)
	}

	var reload <-chan scene.Config
	if *watch {
		if *configPath == "" {
			log.Fatalln("-watch needs -config")
		}
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		if reload, err = scene.Watch(ctx, *configPath, logger); err != nil {
			log.Fatalln(err)
		}
	}

	if err := run(cfg, reload, logger); err != nil {
		log.Fatalln(err)
	}
}

func runSoft(cfg scene.Config, reload <-chan scene.Config, logger *log.Logger) error {
	w, h := cfg.Window.Width, cfg.Window.Height
	view := softview.New(cfg)
	ctrl, err := app.New(view, scene.New(cfg, w, h), cfg, w, h, logger)
	if err != nil {
		return err
	}
	return softview.Run(view, ctrl, cfg, reload)
}
