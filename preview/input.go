package preview

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// inputState is everything the preview reads from the devices in one tick.
type inputState struct {
	// wheel is the vertical wheel offset; positive scrolls up (backward).
	wheel float64
	// pages is a discrete move in pages from the keyboard.
	pages float32
	home  bool
	end   bool

	toggleHUD      bool
	toggleAutoplay bool
	screenshot     bool
	quit           bool
	dollyIn        bool
	dollyOut       bool

	// dx, dy is the cursor movement while the left button is held.
	dragging bool
	dx, dy   float64

	mods KeyModifiers
}

// inputReader turns ebiten's polled device state into an inputState. It
// remembers the cursor between ticks to compute drag deltas.
type inputReader struct {
	lastX, lastY int
	pressed      bool
}

// read polls the devices. Only call it from inside the game loop.
func (r *inputReader) read() inputState {
	var in inputState
	in.mods = readModifiers()

	_, in.wheel = ebiten.Wheel()

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyPageDown), inpututil.IsKeyJustPressed(ebiten.KeySpace):
		in.pages = 1
	case inpututil.IsKeyJustPressed(ebiten.KeyPageUp):
		in.pages = -1
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowDown):
		in.pages = 0.25
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowUp):
		in.pages = -0.25
	}
	in.home = inpututil.IsKeyJustPressed(ebiten.KeyHome)
	in.end = inpututil.IsKeyJustPressed(ebiten.KeyEnd)
	in.toggleHUD = inpututil.IsKeyJustPressed(ebiten.KeyH)
	in.toggleAutoplay = inpututil.IsKeyJustPressed(ebiten.KeyA)
	in.screenshot = inpututil.IsKeyJustPressed(ebiten.KeyP)
	in.quit = inpututil.IsKeyJustPressed(ebiten.KeyEscape)
	in.dollyIn = inpututil.IsKeyJustPressed(ebiten.KeyEqual) || inpututil.IsKeyJustPressed(ebiten.KeyKPAdd)
	in.dollyOut = inpututil.IsKeyJustPressed(ebiten.KeyMinus) || inpututil.IsKeyJustPressed(ebiten.KeyKPSubtract)

	mx, my := ebiten.CursorPosition()
	left := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	if left && r.pressed {
		in.dragging = true
		in.dx = float64(mx - r.lastX)
		in.dy = float64(my - r.lastY)
	}
	r.pressed = left
	r.lastX, r.lastY = mx, my
	return in
}

// readModifiers reads the current keyboard modifier state.
func readModifiers() KeyModifiers {
	var mods KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) || ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight) {
		mods |= ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight) {
		mods |= ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) || ebiten.IsKeyPressed(ebiten.KeyAltLeft) || ebiten.IsKeyPressed(ebiten.KeyAltRight) {
		mods |= ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) || ebiten.IsKeyPressed(ebiten.KeyMetaLeft) || ebiten.IsKeyPressed(ebiten.KeyMetaRight) {
		mods |= ModMeta
	}
	return mods
}

// wheelPages converts a wheel offset to a scroll move in pages. Scrolling
// down (negative offset) advances. Shift scrolls four times faster and Ctrl
// four times slower.
func wheelPages(wheel float64, step float32, mods KeyModifiers) float32 {
	p := float32(-wheel) * step
	switch {
	case mods&ModShift != 0:
		p *= 4
	case mods&ModCtrl != 0:
		p /= 4
	}
	return p
}
