package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/gekko3d/reflector"
	"github.com/gekko3d/reflector/glrender"
	"github.com/gekko3d/reflector/platform"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "reflector:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := reflector.Flags()
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}

	cfg, v, err := reflector.LoadConfigFlags(flags)
	if err != nil {
		return err
	}
	logger := reflector.NewDefaultLogger("reflector", cfg.Log.Debug)

	window, err := platform.NewWindow(platform.WindowConfig{
		Width:     cfg.Window.Width,
		Height:    cfg.Window.Height,
		Title:     cfg.Window.Title,
		Resizable: true,
		VSync:     cfg.Window.VSync,
	})
	if err != nil {
		return err
	}
	defer window.Destroy()

	renderer, err := glrender.NewRenderer(logger)
	if err != nil {
		return err
	}
	defer renderer.Destroy()

	panel := reflector.NewConfigPanel(v, logger)
	if v.ConfigFileUsed() != "" {
		panel.Watch()
	}

	app := reflector.NewApp()
	app.UseModules(
		reflector.LoggingModule{Logger: logger},
		reflector.TimeModule{},
		reflector.InputModule{},
		platform.Module{Window: window},
		reflector.SceneModule{Config: cfg},
		reflector.ControlsModule{Config: cfg.Controls, Capture: window},
		reflector.RenderLoopModule{Renderer: renderer, ShowStats: cfg.Render.ShowStats},
		reflector.ParametersModule{Panel: panel},
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
