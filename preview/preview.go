// Package preview hosts a scrollrig Scene in an Ebitengine window.
//
// The wheel, PageUp/PageDown, Home/End and Space move a damped Scroll whose
// offset drives the scene each tick. Visible meshes are drawn as wireframe
// bounding boxes with their material opacity, so fades, the pose path and
// disassembly can be checked without a full renderer.
//
//	scene := scrollrig.NewScene()
//	scene.NewRig(scrollrig.DefaultTimeline())
//	err := preview.Run(scene, preview.RunConfig{
//		Model: scrollrig.LoadAsync(ctx, "gearbox.glb"),
//	})
//
// Keys: H toggles the HUD, A pauses autoplay, P queues a screenshot, +/-
// dolly the camera and Escape quits. Dragging with the left button orbits.
package preview

import (
	"image/color"

	"github.com/phanxgames/scrollrig"
)

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float32
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float32) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// KeyModifiers is a bitmask of keyboard modifier keys.
type KeyModifiers uint8

const (
	ModShift KeyModifiers = 1 << iota // Shift key
	ModCtrl                           // Control key
	ModAlt                            // Alt / Option key
	ModMeta                           // Meta / Command / Windows key
)

// toNRGBA converts a material color with the given opacity to a straight
// alpha color.
func toNRGBA(c scrollrig.Color, opacity float32) color.NRGBA {
	return color.NRGBA{
		R: uint8(scrollrig.Clamp01(c.R) * 255),
		G: uint8(scrollrig.Clamp01(c.G) * 255),
		B: uint8(scrollrig.Clamp01(c.B) * 255),
		A: uint8(scrollrig.Clamp01(c.A*opacity) * 255),
	}
}
