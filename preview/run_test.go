package preview

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/scrollrig"
)

const testDT = 1.0 / 60

// testModel builds a mesh for every name the default timeline animates.
func testModel() *scrollrig.Node {
	model := scrollrig.NewGroup("widget")
	shared := scrollrig.NewMaterial("shared")
	for i, name := range scrollrig.DefaultTimeline().Names() {
		m := scrollrig.NewMesh(name, shared)
		m.Position = mgl32.Vec3{float32(i%4) - 1.5, float32(i/4) - 2, 0}
		m.Bounds = scrollrig.Box{Min: mgl32.Vec3{-0.2, -0.2, -0.2}, Max: mgl32.Vec3{0.2, 0.2, 0.2}}
		model.AddChild(m)
	}
	return model
}

func newTestGame(t *testing.T, cfg RunConfig) (*Game, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	cfg.Logger = logger
	s := scrollrig.NewScene()
	s.SetLogger(logger)
	s.NewRig(scrollrig.DefaultTimeline())
	if cfg.Model == nil {
		s.Attach(testModel())
	}
	return NewGame(s, cfg), &buf
}

// tick mirrors Update without touching any device.
func tick(t *testing.T, g *Game) error {
	t.Helper()
	in, _ := g.popInjected()
	return g.step(in, testDT)
}

func ticks(t *testing.T, g *Game, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if err := tick(t, g); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}
	}
}

func TestNewGameDefaults(t *testing.T) {
	g, _ := newTestGame(t, RunConfig{})
	if g.cfg.Width != DefaultWidth || g.cfg.Height != DefaultHeight {
		t.Errorf("size = %dx%d", g.cfg.Width, g.cfg.Height)
	}
	if g.scroll.Pages() != scrollrig.DefaultPages {
		t.Errorf("pages = %f, want %d", g.scroll.Pages(), scrollrig.DefaultPages)
	}
	if g.cfg.ScreenshotDir != DefaultScreenshotDir {
		t.Errorf("ScreenshotDir = %q", g.cfg.ScreenshotDir)
	}
	if !g.hud.Visible {
		t.Error("HUD should be visible by default")
	}
	if g.camera.Target == (mgl32.Vec3{}) && g.camera.Distance == 6 {
		t.Error("camera should be framed on the model")
	}
	if g.State().Progress != 0 {
		t.Errorf("initial progress = %f", g.State().Progress)
	}
}

func TestStepQuit(t *testing.T) {
	g, _ := newTestGame(t, RunConfig{})
	if err := g.step(inputState{quit: true}, testDT); !errors.Is(err, ebiten.Termination) {
		t.Errorf("err = %v, want ebiten.Termination", err)
	}
}

func TestStepEndSettles(t *testing.T) {
	g, _ := newTestGame(t, RunConfig{})
	g.InjectEnd()
	ticks(t, g, 1)
	if p := g.State().Progress; p <= 0 || p >= 1 {
		t.Errorf("progress after one tick = %f, want damped", p)
	}
	ticks(t, g, 600)
	assertNear(t, "progress", g.State().Progress, 1)

	g.InjectHome()
	ticks(t, g, 600)
	assertNear(t, "progress", g.State().Progress, 0)
}

func TestStepWheelMovesTarget(t *testing.T) {
	g, _ := newTestGame(t, RunConfig{})
	g.InjectWheel(-4)
	ticks(t, g, 1)
	assertNear(t, "target", g.scroll.Target(), 1.0/scrollrig.DefaultPages)

	g.InjectPages(-5)
	ticks(t, g, 1)
	assertNear(t, "target", g.scroll.Target(), 0)
}

func TestStepToggles(t *testing.T) {
	g, _ := newTestGame(t, RunConfig{HideHUD: true})
	if g.hud.Visible {
		t.Fatal("HideHUD should hide the HUD")
	}
	if err := g.step(inputState{toggleHUD: true, screenshot: true}, testDT); err != nil {
		t.Fatal(err)
	}
	if !g.hud.Visible {
		t.Error("toggle should show the HUD")
	}
	if len(g.screenshotQueue) != 1 || g.screenshotQueue[0] != "manual" {
		t.Errorf("screenshot queue = %v", g.screenshotQueue)
	}
}

func TestStepOrbitAndDolly(t *testing.T) {
	g, _ := newTestGame(t, RunConfig{})
	yaw, dist := g.camera.Yaw, g.camera.Distance
	g.InjectDrag(-100, 0, 4)
	ticks(t, g, 4)
	assertNear(t, "yaw", g.camera.Yaw, yaw+1)

	if err := g.step(inputState{dollyIn: true}, testDT); err != nil {
		t.Fatal(err)
	}
	ticks(t, g, 30)
	assertNear(t, "distance", g.camera.Distance, dist/dollyStep)
}

func TestAutoplayPausesOnInput(t *testing.T) {
	g, _ := newTestGame(t, RunConfig{Autoplay: 1})
	ticks(t, g, 30)
	mid := g.State().Progress
	if mid <= 0 || mid >= 1 {
		t.Fatalf("autoplay progress = %f, want inside (0, 1)", mid)
	}
	if !g.hudStats(0, 0).autoplay {
		t.Error("hud should report autoplay")
	}

	g.InjectPages(0)
	g.InjectWheel(1)
	ticks(t, g, 2)
	if !g.autoplayPaused {
		t.Fatal("wheel should pause autoplay")
	}
	target := g.scroll.Target()
	ticks(t, g, 30)
	if g.scroll.Target() != target {
		t.Error("paused autoplay should not move the scroll")
	}

	if err := g.step(inputState{toggleAutoplay: true}, testDT); err != nil {
		t.Fatal(err)
	}
	if g.autoplayPaused {
		t.Error("toggle should resume autoplay")
	}
}

func TestScriptDrivesAndExits(t *testing.T) {
	script, err := scrollrig.ParseScript([]byte(`
steps:
  - action: jump
    to: 0.5
  - action: screenshot
    label: middle
  - action: scroll
    to: 1
  - action: screenshot
    label: end
`))
	if err != nil {
		t.Fatal(err)
	}
	g, _ := newTestGame(t, RunConfig{Script: script, ExitAfterScript: true})

	var quitErr error
	for i := 0; i < 2000 && quitErr == nil; i++ {
		quitErr = tick(t, g)
	}
	if !errors.Is(quitErr, ebiten.Termination) {
		t.Fatalf("script should end the game, err = %v", quitErr)
	}
	if got := strings.Join(g.screenshotQueue, ","); got != "middle,end" {
		t.Errorf("screenshots = %q, want middle,end", got)
	}
	assertNear(t, "progress", g.State().Progress, 1)
}

func TestModelAttachedWhenLoaded(t *testing.T) {
	ctx := context.Background()
	req := scrollrig.LoadAsync(ctx, filepath.Join(t.TempDir(), "missing.glb"))
	g, buf := newTestGame(t, RunConfig{Model: req})
	if _, err := req.Wait(ctx); err == nil {
		t.Fatal("missing file should fail")
	}
	if !g.hudStats(0, 0).loading {
		t.Error("hud should report loading before the next tick")
	}
	ticks(t, g, 1)
	if g.model != nil {
		t.Error("finished request should be cleared")
	}
	if !strings.Contains(buf.String(), "model load failed") {
		t.Errorf("log = %q, want load failure", buf.String())
	}
}

func TestModelReplacesSceneOnLoad(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "loaded.gltf")
	src := `{"asset": {"version": "2.0"}, "nodes": [{"name": "gear_1"}]}`
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	req := scrollrig.LoadAsync(ctx, path)
	g, buf := newTestGame(t, RunConfig{Model: req})
	placeholder := testModel()
	g.scene.Attach(placeholder)
	if _, err := req.Wait(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	updates := 0
	g.scene.SetUpdateFunc(func(float32) { updates++ })
	ticks(t, g, 1)

	if updates != 1 {
		t.Errorf("scene updated %d times in the attach tick, want 1", updates)
	}
	if !placeholder.IsDisposed() {
		t.Error("placeholder should be replaced")
	}
	root := g.scene.Rig().Root()
	if root.NumChildren() != 1 || root.ChildAt(0).Name != "loaded" {
		t.Fatalf("rig root children = %d", root.NumChildren())
	}
	if !g.scene.Rig().Resolver().Known("gear_1") {
		t.Error("gear_1 should resolve in the attach tick")
	}
	if !strings.Contains(buf.String(), "model attached") || !strings.Contains(buf.String(), "timeline names not in model") {
		t.Errorf("log = %q", buf.String())
	}
}

func TestHUDStatsMissing(t *testing.T) {
	var buf bytes.Buffer
	s := scrollrig.NewScene()
	s.SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	s.NewRig(scrollrig.DefaultTimeline())
	g := NewGame(s, RunConfig{Logger: slog.New(slog.NewTextHandler(&buf, nil))})
	ticks(t, g, 1)
	if got, want := g.hudStats(0, 0).missing, len(scrollrig.DefaultTimeline().Names()); got != want {
		t.Errorf("missing = %d, want %d", got, want)
	}
}

func TestLayoutUpdatesViewport(t *testing.T) {
	g, _ := newTestGame(t, RunConfig{})
	w, h := g.Layout(640, 0)
	if w != 640 || h != 1 {
		t.Errorf("Layout = %dx%d, want 640x1", w, h)
	}
	if g.camera.Viewport.Width != 640 {
		t.Errorf("viewport width = %f", g.camera.Viewport.Width)
	}
}
