package preview

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/scrollrig"
	"github.com/tanema/gween/ease"
)

// Defaults for RunConfig zero values.
const (
	DefaultWidth         = 1280
	DefaultHeight        = 720
	DefaultWheelStep     = 0.25
	DefaultScreenshotDir = "screenshots"

	orbitSpeed = 0.01
	dollyStep  = 1.25
	dollyTime  = 0.3
)

// RunConfig configures the preview window.
type RunConfig struct {
	Title         string
	Width, Height int

	// Pages is the scroll length. 0 uses scrollrig.DefaultPages.
	Pages float32
	// Frequency and Damping tune the scroll spring. 0 uses the defaults.
	Frequency, Damping float64
	// WheelStep is the distance in pages of one wheel notch.
	WheelStep float32

	// Autoplay, when positive, sweeps progress 0 -> 1 -> 0 over twice this
	// many seconds and repeats. Input pauses it.
	Autoplay     float32
	AutoplayEase ease.TweenFunc

	// Script, when set, drives the scroll and requests screenshots.
	Script *scrollrig.ScriptRunner
	// ExitAfterScript quits once the script has finished.
	ExitAfterScript bool

	// Model, when set, replaces the scene's models once it finishes loading.
	Model *scrollrig.AssetRequest

	HideHUD       bool
	ScreenshotDir string
	Logger        *slog.Logger
}

func (c *RunConfig) defaults() {
	if c.Title == "" {
		c.Title = "scrollrig"
	}
	if c.Width <= 0 {
		c.Width = DefaultWidth
	}
	if c.Height <= 0 {
		c.Height = DefaultHeight
	}
	if c.Pages <= 0 {
		c.Pages = scrollrig.DefaultPages
	}
	if c.WheelStep <= 0 {
		c.WheelStep = DefaultWheelStep
	}
	if c.ScreenshotDir == "" {
		c.ScreenshotDir = DefaultScreenshotDir
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Game is the ebiten.Game hosting a scene. Most callers use Run; Game is
// exported for hosts that embed the preview in their own loop.
type Game struct {
	scene    *scrollrig.Scene
	cfg      RunConfig
	logger   *slog.Logger
	scroll   *scrollrig.Scroll
	camera   *Camera
	renderer *Renderer
	hud      *HUD
	input    inputReader

	autoplay       *scrollrig.Autoplay
	autoplayPaused bool
	model          *scrollrig.AssetRequest

	state           scrollrig.FrameState
	injectQueue     []inputState
	screenshotQueue []string
	quit            bool
}

// NewGame creates a game for scene. The scene is updated once at progress 0
// so the camera can be framed on whatever it already holds.
func NewGame(scene *scrollrig.Scene, cfg RunConfig) *Game {
	cfg.defaults()
	g := &Game{
		scene:    scene,
		cfg:      cfg,
		logger:   cfg.Logger,
		scroll:   scrollrig.NewScroll(cfg.Pages, ebiten.DefaultTPS, cfg.Frequency, cfg.Damping),
		camera:   NewCamera(Rect{Width: float32(cfg.Width), Height: float32(cfg.Height)}),
		renderer: NewRenderer(),
		hud:      NewHUD(),
		model:    cfg.Model,
	}
	g.hud.Visible = !cfg.HideHUD
	if cfg.Autoplay > 0 {
		g.autoplay = scrollrig.NewAutoplay(cfg.Autoplay, cfg.AutoplayEase, scrollrig.AutoplayLoop)
	}
	g.state = scene.Update(0)
	g.camera.Frame(scene.Bounds())
	return g
}

// Run opens a window and runs the preview until it is closed.
func Run(scene *scrollrig.Scene, cfg RunConfig) error {
	g := NewGame(scene, cfg)
	ebiten.SetWindowSize(g.cfg.Width, g.cfg.Height)
	ebiten.SetWindowTitle(g.cfg.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if err := ebiten.RunGame(g); err != nil {
		return fmt.Errorf("preview: %w", err)
	}
	return nil
}

// Scroll returns the scroll source driving the scene.
func (g *Game) Scroll() *scrollrig.Scroll {
	return g.scroll
}

// Camera returns the preview camera.
func (g *Game) Camera() *Camera {
	return g.camera
}

// State returns the frame state of the last tick.
func (g *Game) State() scrollrig.FrameState {
	return g.state
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	in, ok := g.popInjected()
	if !ok {
		in = g.input.read()
	}
	if err := g.step(in, 1/float32(ebiten.TPS())); err != nil {
		return err
	}
	g.hud.update(1/float64(ebiten.TPS()), g.hudStats(ebiten.ActualFPS(), ebiten.ActualTPS()))
	return nil
}

// step advances the preview by one tick of dt seconds.
func (g *Game) step(in inputState, dt float32) error {
	if g.quit || in.quit {
		return ebiten.Termination
	}

	if in.toggleHUD {
		g.hud.Visible = !g.hud.Visible
	}
	if in.toggleAutoplay && g.autoplay != nil {
		g.autoplayPaused = !g.autoplayPaused
	}
	if in.screenshot {
		g.Screenshot("manual")
	}
	g.applyCamera(in)

	moved := g.applyScroll(in)
	if moved && g.autoplay != nil {
		g.autoplayPaused = true
	}

	if g.cfg.Script != nil && !g.cfg.Script.Done() {
		if label := g.cfg.Script.Step(g.scroll); label != "" {
			g.Screenshot(label)
		}
		if g.cfg.Script.Done() && g.cfg.ExitAfterScript {
			// Quit on the next tick so the last screenshot gets drawn.
			g.quit = true
		}
	} else if g.autoplay != nil && !g.autoplayPaused {
		g.scroll.Jump(g.autoplay.Update(dt))
	}
	g.scroll.Update()

	attached := g.pollModel()
	g.state = g.scene.Update(g.scroll.Offset())
	if attached {
		g.frameModel()
	}
	g.camera.update(dt)
	return nil
}

// applyScroll feeds wheel and page keys into the scroll. It reports whether
// the user moved it.
func (g *Game) applyScroll(in inputState) bool {
	moved := false
	if in.wheel != 0 {
		g.scroll.ScrollBy(wheelPages(in.wheel, g.cfg.WheelStep, in.mods))
		moved = true
	}
	if in.pages != 0 {
		g.scroll.ScrollBy(in.pages)
		moved = true
	}
	if in.home {
		g.scroll.ScrollTo(0)
		moved = true
	}
	if in.end {
		g.scroll.ScrollTo(1)
		moved = true
	}
	return moved
}

func (g *Game) applyCamera(in inputState) {
	if in.dragging && (in.dx != 0 || in.dy != 0) {
		g.camera.Orbit(float32(-in.dx)*orbitSpeed, float32(in.dy)*orbitSpeed)
	}
	if in.dollyIn {
		g.camera.DollyTo(g.camera.Distance/dollyStep, dollyTime, ease.OutCubic)
	}
	if in.dollyOut {
		g.camera.DollyTo(g.camera.Distance*dollyStep, dollyTime, ease.OutCubic)
	}
}

// pollModel swaps in the pending model once its load finishes. It reports
// whether a model was attached this tick.
func (g *Game) pollModel() bool {
	if g.model == nil {
		return false
	}
	root, done, err := g.model.Poll()
	if !done {
		return false
	}
	g.model = nil
	if err != nil {
		g.logger.Error("model load failed", "path", g.cfg.Model.Path(), "err", err)
		return false
	}
	g.scene.Replace(root)
	g.logger.Info("model attached", "path", g.cfg.Model.Path(), "name", root.Name)
	return true
}

// frameModel fits the camera to a freshly attached model after the tick's scene
// update has resolved its parts and refreshed its matrices.
func (g *Game) frameModel() {
	g.camera.Frame(g.scene.Bounds())
	if rig := g.scene.Rig(); rig != nil {
		if missing := rig.Missing(); len(missing) > 0 {
			g.logger.Warn("timeline names not in model", "count", len(missing), "names", missing)
		}
	}
}

func (g *Game) hudStats(fps, tps float64) hudStats {
	s := hudStats{
		fps:      fps,
		tps:      tps,
		state:    g.state,
		page:     g.scroll.Page(),
		pages:    g.scroll.Pages(),
		autoplay: g.autoplay != nil && !g.autoplayPaused,
		loading:  g.model != nil,
	}
	if rig := g.scene.Rig(); rig != nil {
		s.missing = len(rig.Missing())
	}
	return s
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.Draw(screen, g.scene.Root(), g.camera)
	g.hud.Draw(screen)
	g.flushScreenshots(screen)
}

// Layout implements ebiten.Game. The camera viewport follows the window.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	w := int(math.Max(1, float64(outsideWidth)))
	h := int(math.Max(1, float64(outsideHeight)))
	g.camera.SetViewport(Rect{Width: float32(w), Height: float32(h)})
	return w, h
}
