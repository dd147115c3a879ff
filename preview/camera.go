package preview

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/phanxgames/scrollrig"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Camera limits.
const (
	minDistance = 0.5
	maxDistance = 200
	maxPitch    = 1.5
)

// Camera is a perspective camera orbiting a target point.
type Camera struct {
	// Target is the world-space point the camera looks at.
	Target mgl32.Vec3
	// Distance is the eye's distance from Target.
	Distance float32
	// Yaw and Pitch place the eye around Target, in radians. Yaw 0 and
	// Pitch 0 put the eye on +Z looking toward -Z.
	Yaw, Pitch float32
	// FovY is the vertical field of view in radians.
	FovY      float32
	Near, Far float32
	// Viewport is the screen-space rectangle this camera renders into.
	Viewport Rect

	view, proj, viewProj mgl32.Mat4
	dirty                bool

	dolly *gween.Tween
}

// NewCamera creates a camera with default values and the given viewport.
func NewCamera(viewport Rect) *Camera {
	return &Camera{
		Distance: 6,
		Pitch:    0.2,
		FovY:     mgl32.DegToRad(45),
		Near:     0.1,
		Far:      100,
		Viewport: viewport,
		dirty:    true,
	}
}

// SetViewport changes the output rectangle.
func (c *Camera) SetViewport(r Rect) {
	if r != c.Viewport {
		c.Viewport = r
		c.dirty = true
	}
}

// Orbit rotates the eye around the target. Pitch is clamped short of the poles.
func (c *Camera) Orbit(dyaw, dpitch float32) {
	c.Yaw += dyaw
	c.Pitch = mgl32.Clamp(c.Pitch+dpitch, -maxPitch, maxPitch)
	c.dirty = true
}

// DollyTo animates the eye distance to distance over duration seconds.
func (c *Camera) DollyTo(distance, duration float32, easeFn ease.TweenFunc) {
	distance = mgl32.Clamp(distance, minDistance, maxDistance)
	if easeFn == nil {
		easeFn = ease.OutCubic
	}
	c.dolly = gween.New(c.Distance, distance, duration, easeFn)
}

// Frame points the camera at the center of b and backs off until the box's
// bounding sphere fits the vertical field of view.
func (c *Camera) Frame(b scrollrig.Box) {
	if b.Empty() {
		return
	}
	c.Target = b.Min.Add(b.Max).Mul(0.5)
	radius := b.Max.Sub(b.Min).Len() / 2
	d := radius / float32(math.Sin(float64(c.FovY)/2))
	c.Distance = mgl32.Clamp(d*1.1, minDistance, maxDistance)
	if c.Far < c.Distance+radius*2 {
		c.Far = c.Distance + radius*2
	}
	c.dolly = nil
	c.dirty = true
}

// update advances the dolly animation. Called once per tick.
func (c *Camera) update(dt float32) {
	if c.dolly == nil {
		return
	}
	val, done := c.dolly.Update(dt)
	c.Distance = val
	c.dirty = true
	if done {
		c.dolly = nil
	}
}

// Eye returns the world-space eye position.
func (c *Camera) Eye() mgl32.Vec3 {
	cp := float32(math.Cos(float64(c.Pitch)))
	dir := mgl32.Vec3{
		cp * float32(math.Sin(float64(c.Yaw))),
		float32(math.Sin(float64(c.Pitch))),
		cp * float32(math.Cos(float64(c.Yaw))),
	}
	return c.Target.Add(dir.Mul(c.Distance))
}

// computeMatrices recomputes the cached view and projection if dirty.
func (c *Camera) computeMatrices() {
	if !c.dirty {
		return
	}
	c.dirty = false
	aspect := float32(1)
	if c.Viewport.Height > 0 {
		aspect = c.Viewport.Width / c.Viewport.Height
	}
	c.view = mgl32.LookAtV(c.Eye(), c.Target, mgl32.Vec3{0, 1, 0})
	c.proj = mgl32.Perspective(c.FovY, aspect, c.Near, c.Far)
	c.viewProj = c.proj.Mul4(c.view)
}

// ViewMatrix returns the world-to-view matrix.
func (c *Camera) ViewMatrix() mgl32.Mat4 {
	c.computeMatrices()
	return c.view
}

// ProjectionMatrix returns the view-to-clip matrix.
func (c *Camera) ProjectionMatrix() mgl32.Mat4 {
	c.computeMatrices()
	return c.proj
}

// WorldToScreen projects p into viewport pixels. depth is the distance along
// the view direction; ok is false for points at or behind the eye.
func (c *Camera) WorldToScreen(p mgl32.Vec3) (screen mgl32.Vec2, depth float32, ok bool) {
	c.computeMatrices()
	clip := c.viewProj.Mul4x1(p.Vec4(1))
	w := clip[3]
	if w <= c.Near*0.5 {
		return mgl32.Vec2{}, w, false
	}
	nx, ny := clip[0]/w, clip[1]/w
	vp := c.Viewport
	return mgl32.Vec2{
		vp.X + (nx+1)*0.5*vp.Width,
		vp.Y + (1-ny)*0.5*vp.Height,
	}, w, true
}

// MarkDirty forces a recomputation of the matrices.
func (c *Camera) MarkDirty() {
	c.dirty = true
}
