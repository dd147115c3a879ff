package main

import (
	"log/slog"
	"path/filepath"

	"github.com/phanxgames/scrollrig"
	"github.com/phanxgames/scrollrig/preview"
	"github.com/spf13/cobra"
)

type previewOptions struct {
	timeline    string
	script      string
	exitAfter   bool
	autoplay    float32
	ease        string
	pages       float32
	frequency   float64
	damping     float64
	wheelStep   float32
	noHUD       bool
	screenshots string
	width       int
	height      int
	debug       bool
}

func newPreviewCmd() *cobra.Command {
	var opts previewOptions
	cmd := &cobra.Command{
		Use:   "preview [model.gltf|model.glb]",
		Short: "Open a window and scroll through the timeline",
		Long: `Open a window and scroll through the timeline.

Controls:
  Wheel         - Scroll (Shift faster, Ctrl slower)
  PgUp/PgDn     - One page back/forward
  Arrows        - Quarter page back/forward
  Home/End      - First/last page
  Mouse drag    - Orbit the camera
  +/-           - Dolly in/out
  A             - Pause/resume autoplay
  H             - Toggle HUD
  P             - Screenshot
  Esc           - Quit`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreview(cmd, optionalArg(args), opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.timeline, "timeline", "", "Timeline YAML (default: built-in)")
	f.StringVar(&opts.script, "script", "", "Frame script YAML/JSON to drive the scroll")
	f.BoolVar(&opts.exitAfter, "exit-after-script", false, "Quit once the script has finished")
	f.Float32Var(&opts.autoplay, "autoplay", 0, "Sweep progress 0->1->0 over this many seconds each way")
	f.StringVar(&opts.ease, "ease", "", "Autoplay easing name (default inOutCubic)")
	f.Float32Var(&opts.pages, "pages", scrollrig.DefaultPages, "Scroll length in pages")
	f.Float64Var(&opts.frequency, "frequency", scrollrig.DefaultScrollFrequency, "Scroll spring angular frequency")
	f.Float64Var(&opts.damping, "damping", scrollrig.DefaultScrollDamping, "Scroll spring damping ratio")
	f.Float32Var(&opts.wheelStep, "wheel-step", preview.DefaultWheelStep, "Pages per wheel notch")
	f.BoolVar(&opts.noHUD, "no-hud", false, "Start with the HUD hidden")
	f.StringVar(&opts.screenshots, "screenshots", preview.DefaultScreenshotDir, "Screenshot output directory")
	f.IntVar(&opts.width, "width", preview.DefaultWidth, "Window width")
	f.IntVar(&opts.height, "height", preview.DefaultHeight, "Window height")
	f.BoolVar(&opts.debug, "debug", false, "Enable scene debug checks and per-frame timings")
	return cmd
}

func runPreview(cmd *cobra.Command, modelPath string, opts previewOptions) error {
	logger := slog.Default()

	tl, err := loadTimeline(opts.timeline)
	if err != nil {
		return err
	}
	fn, err := scrollrig.EaseByName(opts.ease)
	if err != nil {
		return err
	}

	scene := scrollrig.NewScene()
	scene.SetLogger(logger)
	scene.SetDebugMode(opts.debug)
	scene.NewRig(tl)

	cfg := preview.RunConfig{
		Title:           "scrollrig",
		Width:           opts.width,
		Height:          opts.height,
		Pages:           opts.pages,
		Frequency:       opts.frequency,
		Damping:         opts.damping,
		WheelStep:       opts.wheelStep,
		Autoplay:        opts.autoplay,
		AutoplayEase:    fn,
		ExitAfterScript: opts.exitAfter,
		HideHUD:         opts.noHUD,
		ScreenshotDir:   opts.screenshots,
		Logger:          logger,
	}

	scene.Attach(scrollrig.PlaceholderModel())
	if modelPath != "" {
		// The placeholder shows until the model has loaded.
		cfg.Model = scrollrig.LoadAsync(cmd.Context(), modelPath)
		cfg.Title = "scrollrig - " + filepath.Base(modelPath)
	}

	if opts.script != "" {
		cfg.Script, err = scrollrig.LoadScript(opts.script)
		if err != nil {
			return err
		}
	}

	logger.Info("preview", "model", modelPath, "timeline", opts.timeline,
		"segments", tl.NumSegments(), "pages", opts.pages)
	return preview.Run(scene, cfg)
}
