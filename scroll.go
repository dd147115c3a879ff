package scrollrig

import (
	"math"

	"github.com/charmbracelet/harmonica"
)

// Default scroll spring parameters.
const (
	DefaultScrollFPS       = 60
	DefaultScrollFrequency = 6.0
	DefaultScrollDamping   = 1.0
	// settleEpsilon is the distance and speed below which the scroll is at rest.
	settleEpsilon = 1e-4
)

// Scroll is a damped scroll position over a fixed number of pages. Input
// moves the target; Update moves the offset toward it along a spring, so the
// progress fed to the rig eases in and out instead of jumping.
type Scroll struct {
	pages    float32
	target   float64
	offset   float64
	velocity float64
	spring   harmonica.Spring
}

// NewScroll creates a scroll over pages pages. frequency and damping are
// the spring's angular frequency and damping ratio; fps is the rate at which
// Update is called. Zero values select the defaults.
func NewScroll(pages float32, fps int, frequency, damping float64) *Scroll {
	if pages <= 0 {
		pages = 1
	}
	if fps <= 0 {
		fps = DefaultScrollFPS
	}
	if frequency <= 0 {
		frequency = DefaultScrollFrequency
	}
	if damping <= 0 {
		damping = DefaultScrollDamping
	}
	return &Scroll{
		pages:  pages,
		spring: harmonica.NewSpring(harmonica.FPS(fps), frequency, damping),
	}
}

// Pages returns the page count.
func (s *Scroll) Pages() float32 {
	return s.pages
}

// ScrollBy moves the target by the given number of pages.
func (s *Scroll) ScrollBy(pages float32) {
	s.ScrollTo(float32(s.target) + pages/s.pages)
}

// ScrollTo sets the target offset, clamped to [0, 1].
func (s *Scroll) ScrollTo(offset float32) {
	s.target = float64(Clamp01(offset))
}

// Jump moves both the target and the offset to offset with no motion.
func (s *Scroll) Jump(offset float32) {
	s.ScrollTo(offset)
	s.offset = s.target
	s.velocity = 0
}

// Update advances the spring by one frame.
func (s *Scroll) Update() {
	s.offset, s.velocity = s.spring.Update(s.offset, s.velocity, s.target)
	if s.Settled() {
		s.offset = s.target
		s.velocity = 0
	}
}

// Offset returns the current scroll progress in [0, 1].
func (s *Scroll) Offset() float32 {
	return Clamp01(float32(s.offset))
}

// Target returns the offset the scroll is moving toward.
func (s *Scroll) Target() float32 {
	return float32(s.target)
}

// Page returns the current position in pages.
func (s *Scroll) Page() float32 {
	return s.Offset() * s.pages
}

// Settled reports whether the offset has reached the target and stopped.
func (s *Scroll) Settled() bool {
	return math.Abs(s.offset-s.target) < settleEpsilon && math.Abs(s.velocity) < settleEpsilon
}
