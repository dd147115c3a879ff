package scrollrig

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween/ease"
)

// minDirectionLength is the distance below which a part is considered to sit
// on the root's origin and is not pushed in any direction.
const minDirectionLength = 1e-6

// DisplacementFactors evaluates the three-phase schedule at u.
//
//	u <= Disassembled:  scale 1 -> 0, travel 0 -> 1 (eased)
//	u <  Reassemble:    scale 0, travel 0
//	u <  Assembled:     scale 0 -> 1, travel 1 -> 0 (eased)
//	otherwise:          scale 1, travel 0
func DisplacementFactors(s DisplacementSchedule, u float32, fn ease.TweenFunc) (travel, scale float32) {
	switch {
	case u <= s.Disassembled:
		var e float32
		if s.Disassembled > 0 {
			e = applyEase(fn, u/s.Disassembled)
		}
		return e, 1 - e
	case u < s.Reassemble:
		return 0, 0
	case u < s.Assembled:
		e := applyEase(fn, (u-s.Reassemble)/(s.Assembled-s.Reassemble))
		return 1 - e, e
	default:
		return 0, 1
	}
}

// displacedPart is a resolved displacement target with its captured baseline.
type displacedPart struct {
	target    DisplacementTarget
	node      *Node
	parent    *Node
	baseLocal mgl32.Vec3
	baseScale mgl32.Vec3
}

// Displacer pushes named parts radially away from the root and shrinks them
// during disassembly, then brings them back.
type Displacer struct {
	timeline *Timeline
	resolver *Resolver
	root     *Node

	parts   []*displacedPart
	pending []DisplacementTarget
}

// NewDisplacer creates a displacer for tl's targets. root is the node whose
// world position the parts fly away from.
func NewDisplacer(tl *Timeline, r *Resolver, root *Node) *Displacer {
	return &Displacer{
		timeline: tl,
		resolver: r,
		root:     root,
		pending:  tl.DisplacementTargets(),
	}
}

// Resolve captures the baseline of every target that has appeared since the
// last call. A target needs a parent; a parentless match stays pending.
func (d *Displacer) Resolve() {
	if len(d.pending) == 0 {
		return
	}
	kept := d.pending[:0]
	for _, t := range d.pending {
		n := d.resolver.TryFind(t.Name)
		if n == nil || n.Parent == nil {
			kept = append(kept, t)
			continue
		}
		d.parts = append(d.parts, &displacedPart{
			target:    t,
			node:      n,
			parent:    n.Parent,
			baseLocal: n.Position,
			baseScale: n.Scale,
		})
	}
	d.pending = kept
}

// Apply positions, scales and shows or hides every resolved part for u and
// returns the travel and scale factors used.
func (d *Displacer) Apply(u float32) (travel, scale float32) {
	travel, scale = DisplacementFactors(d.timeline.displacement, u, d.timeline.ease)
	if len(d.parts) == 0 {
		return travel, scale
	}

	d.root.UpdateWorldMatrix(true, false)
	origin := d.root.WorldPosition()
	eps := d.timeline.visibilityEpsilon

	for _, p := range d.parts {
		p.parent.UpdateWorldMatrix(true, false)
		local := p.baseLocal
		if travel > 0 {
			world := p.parent.LocalToWorld(p.baseLocal)
			dir := world.Sub(origin)
			if l := dir.Len(); l > minDirectionLength {
				dir = dir.Mul(1 / l)
			} else {
				dir = mgl32.Vec3{}
			}
			target := world.Add(dir.Mul(p.target.MaxOffset * travel))
			local = p.parent.WorldToLocal(target)
		}
		p.node.SetPosition(local)
		p.node.SetScale(p.baseScale.Mul(scale))
		p.node.Visible = scale > eps
		p.node.UpdateWorldMatrix(false, true)
	}
	return travel, scale
}

// NumResolved returns the number of parts with a captured baseline.
func (d *Displacer) NumResolved() int {
	return len(d.parts)
}
