package main

import (
	"context"
	"flag"
	"os"

	"fyne.io/fyne/v2/app"
	"github.com/sirupsen/logrus"

	"brickify-studio/internal/config"
	"brickify-studio/internal/effects"
	"brickify-studio/internal/gui"
	"brickify-studio/internal/imageio"
	"brickify-studio/internal/pipeline"
)

const (
	AppName    = "Brickify Studio"
	AppID      = "com.brickify.studio"
	AppVersion = "1.0.0"
)

func main() {
	debugMode := flag.Bool("debug", false, "Enable debug mode with verbose logging")
	configPath := flag.String("config", "", "Optional TOML settings file")
	engineName := flag.String("engine", "", "Effects engine: auto, gocv or gift")
	inputPath := flag.String("input", "", "Headless mode: image to brickify")
	outputPath := flag.String("output", "", "Headless mode: where to write the result")
	flag.Parse()

	logger := initLogger(*debugMode)
	logger.WithFields(logrus.Fields{
		"version":    AppVersion,
		"debug_mode": *debugMode,
	}).Info("Starting Brickify Studio")

	settings := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			logger.WithError(err).Fatal("Cannot load settings")
		}
		settings = loaded
	}
	if *engineName != "" {
		settings = settings.Merge(config.Settings{Engine: *engineName})
	}
	if err := settings.Validate(); err != nil {
		logger.WithError(err).Fatal("Invalid settings")
	}

	if *inputPath != "" {
		os.Exit(runHeadless(logger, settings, *inputPath, *outputPath))
	}

	myApp := app.NewWithID(AppID)
	mainApp := gui.NewApplication(myApp, settings, logger)
	mainApp.ShowAndRun()

	logger.Info("Application shutting down gracefully")
}

// runHeadless brickifies one file and exits, reusing the exact pipeline the
// GUI drives.
func runHeadless(logger *logrus.Logger, settings config.Settings, input, output string) int {
	if output == "" {
		logger.Error("Headless mode requires -output")
		return 2
	}

	engine, err := effects.Select(settings.Engine)
	if err != nil {
		logger.WithError(err).Error("Cannot select effects engine")
		return 2
	}

	loader := imageio.NewLoader(logger, settings.MaxInputWidth)
	controller := pipeline.NewController(settings, engine, logger)

	res := controller.RunPath(context.Background(), loader, input)
	if res.Err != nil {
		logger.WithError(res.Err).WithField("failed_at", res.FailedAt.String()).Error("Brickify failed")
		return 1
	}

	if err := loader.Save(output, res.Image); err != nil {
		logger.WithError(err).Error("Cannot save result")
		return 1
	}

	logger.WithFields(logrus.Fields{
		"grid_size": res.GridSize,
		"width":     res.StageW,
		"height":    res.StageH,
		"elapsed":   res.Elapsed.String(),
	}).Info("Image has been brickified")
	return 0
}

// initLogger initializes the logger with appropriate level
func initLogger(debugMode bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	if debugMode {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
		logger.Debug("Debug logging enabled")
	} else {
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	return logger
}
