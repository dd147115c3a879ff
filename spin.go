package scrollrig

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

type spinningPart struct {
	track SpinTrack
	axis  mgl32.Vec3
	node  *Node
	base  mgl32.Quat
}

// Spinner rotates named parts about a local axis in proportion to progress,
// on top of the rotation each part had when it was first found.
type Spinner struct {
	resolver *Resolver
	parts    []*spinningPart
	pending  []SpinTrack
}

// NewSpinner creates a spinner for tl's spin tracks.
func NewSpinner(tl *Timeline, r *Resolver) *Spinner {
	return &Spinner{resolver: r, pending: tl.Spins()}
}

// Resolve captures the base rotation of tracks whose node has appeared.
func (s *Spinner) Resolve() {
	if len(s.pending) == 0 {
		return
	}
	kept := s.pending[:0]
	for _, t := range s.pending {
		n := s.resolver.TryFind(t.Name)
		if n == nil {
			kept = append(kept, t)
			continue
		}
		axis := mgl32.Vec3{0, 0, 1}
		if t.Axis.Len() > 0 {
			axis = t.Axis.Normalize()
		}
		s.parts = append(s.parts, &spinningPart{track: t, axis: axis, node: n, base: n.Rotation})
	}
	s.pending = kept
}

// Apply sets every resolved part's rotation for progress u.
func (s *Spinner) Apply(u float32) {
	for _, p := range s.parts {
		angle := u * p.track.Turns * 2 * math.Pi
		p.node.SetRotation(p.base.Mul(mgl32.QuatRotate(angle, p.axis)))
	}
}

// NumResolved returns the number of tracks bound to a node.
func (s *Spinner) NumResolved() int {
	return len(s.parts)
}
