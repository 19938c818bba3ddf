package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/akamensky/argparse"
	"github.com/ayusman/ishara/internal/app"
	"github.com/ayusman/ishara/internal/capture"
	"github.com/ayusman/ishara/internal/config"
	"github.com/ayusman/ishara/internal/detector"
	"github.com/ayusman/ishara/internal/display"
	"github.com/ayusman/ishara/internal/sign"
	"github.com/ayusman/ishara/internal/tray"
	"github.com/cyclopcam/logs"
)

// HighGUI and the system tray both want the main thread.
func init() {
	runtime.LockOSThread()
}

func main() {
	parser := argparse.NewParser("ishara", "Live hand sign to phrase recognizer")
	configFile := parser.String("c", "config", &argparse.Options{Help: "YAML configuration file", Default: ""})
	device := parser.String("d", "device", &argparse.Options{Help: "Camera index or video file (overrides the config file)", Default: ""})
	enableTray := parser.Flag("", "tray", &argparse.Options{Help: "Also show a system tray menu", Default: false})
	fontFile := parser.String("", "font", &argparse.Options{Help: "TTF font for the phrase band (overrides the config file)", Default: ""})
	startLive := parser.Flag("", "live", &argparse.Options{Help: "Go live immediately instead of waiting for the Go Live control", Default: false})
	err := parser.Parse(os.Args)
	if err != nil {
		fmt.Print(parser.Usage(err))
		os.Exit(1)
	}

	logger, err := logs.NewLog()
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}

	cfg := config.Default()
	if *configFile != "" {
		if cfg, err = config.Load(*configFile); err != nil {
			logger.Errorf("Loading %v: %v", *configFile, err)
			os.Exit(1)
		}
	}
	if *device != "" {
		cfg.Camera.Device = *device
	}
	if *fontFile != "" {
		cfg.Display.Font = *fontFile
	}
	if *enableTray {
		cfg.Display.Tray = true
	}
	if err := cfg.Validate(); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}

	phrases, err := cfg.Phrasebook()
	if err != nil {
		logger.Errorf("Phrases: %v", err)
		os.Exit(1)
	}

	camera := capture.NewCamera(cfg.CameraDevice())
	camera.SetSize(cfg.Camera.Width, cfg.Camera.Height)
	camera.SetFPS(cfg.Camera.FPS)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loop := app.NewLoop(cfg.TickPeriod())
	ctl := app.New(app.Config{
		Source:     camera,
		Provider:   newProvider(cfg, logger),
		Classifier: sign.NewClassifier(sign.WithOKTolerance(cfg.Classifier.OKTolerance)),
		Phrases:    phrases,
		Log:        logger,
		Quit:       stop,
	})
	defer func() {
		if err := ctl.Close(); err != nil {
			logger.Warnf("Closing landmark provider: %v", err)
		}
		logger.Infof("Bye")
		logger.Close()
	}()

	window := display.Options{
		Title:    cfg.Display.Title,
		Width:    cfg.Display.Width,
		Height:   cfg.Display.Height,
		Font:     cfg.Display.Font,
		FontSize: cfg.Display.FontSize,
	}

	if !cfg.Display.Tray {
		run(ctx, ctl, loop, window, logger, *startLive)
		return
	}

	// The tray owns the main goroutine; the window and loop run beside it.
	tr := tray.New(loop.Post)
	ctl.Bind(tr)
	done := make(chan struct{})
	go func() {
		defer close(done)
		runtime.LockOSThread()
		run(ctx, ctl, loop, window, logger, *startLive)
		tray.Quit()
	}()
	tr.Run()
	stop()
	<-done
}

// run opens the window and drives the controller until ctx is done.
func run(ctx context.Context, ctl *app.Controller, loop *app.Loop, opts display.Options, logger logs.Log, startLive bool) {
	win := display.New(opts, logger)
	defer win.Close()
	ctl.Bind(win)

	if startLive {
		if err := ctl.GoLive(); err != nil {
			logger.Errorf("Go Live failed: %v", err)
		}
	}

	logger.Infof("Running at %v per tick. Press L to go live, Q to quit", loop.Period())
	loop.Run(ctx, ctl.Step)
}

func newProvider(cfg *config.Config, logger logs.Log) detector.Provider {
	mp, err := detector.NewMediaPipeDetector(detector.Config{
		MaxHands:        cfg.Detector.MaxHands,
		MinConfidence:   cfg.Detector.MinConfidence,
		MinTrackingConf: cfg.Detector.MinTrackingConfidence,
		Script:          cfg.Detector.Script,
		Python:          cfg.Detector.Python,
	}, logger)
	if err != nil {
		logger.Warnf("Landmark service not available (%v), no hands will be detected", err)
		return detector.NewMock()
	}
	logger.Infof("Using landmark service %v", mp.Script())
	return mp
}
