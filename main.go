package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/soocke/plant-cam-go/app"
	"github.com/soocke/plant-cam-go/config"
)

func main() {
	defaultPath, err := config.DefaultPath()
	if err != nil {
		defaultPath = "plant-cam.json"
	}
	cfgPath := flag.String("config", defaultPath, "config file (.json or .yaml)")
	debug := flag.Bool("debug", false, "verbose logging and runtime stats")
	cameraBackend := flag.String("camera", "", "camera backend: screen or webcam")
	photoDir := flag.String("photo-dir", "", "directory for captured photos")
	initialRoute := flag.String("initial-route", "", "first screen: PlantDetection or Camera")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	level := slog.LevelInfo
	if *debug || cfg.Debug {
		level = slog.LevelDebug
	}
	logger := NewLogger(os.Stderr, level)
	if err != nil {
		logger.Warn("config", "path", *cfgPath, "error", err)
	}

	if *debug {
		cfg.Debug = true
	}
	if *cameraBackend != "" {
		cfg.Camera = *cameraBackend
	}
	if *photoDir != "" {
		cfg.PhotoDir = *photoDir
	}
	if *initialRoute != "" {
		cfg.InitialRoute = *initialRoute
	}
	if err := cfg.Validate(); err != nil {
		logger.Warn("config flags", "error", err)
	}

	application, err := app.NewApp("Plant Cam", cfg, *cfgPath, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "plant-cam:", err)
		os.Exit(1)
	}
	application.Start()
}
