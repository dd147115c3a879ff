package scrollrig

import "github.com/go-gl/mathgl/mgl32"

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float32
}

// ColorWhite is the default material color.
var ColorWhite = Color{1, 1, 1, 1}

// Pose is a rigid-body placement: a position and a unit orientation.
type Pose struct {
	Position    mgl32.Vec3
	Orientation mgl32.Quat
}

// IdentityPose is the origin with no rotation.
var IdentityPose = Pose{Orientation: mgl32.QuatIdent()}

// PosePair is the start and end pose of one timeline segment.
type PosePair struct {
	From, To Pose
}

// Box is an axis-aligned bounding box in a node's local space.
// A zero Box (Min == Max) is treated as empty.
type Box struct {
	Min, Max mgl32.Vec3
}

// Empty reports whether the box encloses no volume and no point.
func (b Box) Empty() bool {
	return b.Min == b.Max
}

// Union returns the smallest box containing both b and o. Empty boxes are ignored.
func (b Box) Union(o Box) Box {
	if b.Empty() {
		return o
	}
	if o.Empty() {
		return b
	}
	for i := 0; i < 3; i++ {
		b.Min[i] = min(b.Min[i], o.Min[i])
		b.Max[i] = max(b.Max[i], o.Max[i])
	}
	return b
}

// Corners returns the eight corners of the box. Corner i has bit 0 selecting
// X, bit 1 selecting Y and bit 2 selecting Z from Max (set) or Min (clear).
func (b Box) Corners() [8]mgl32.Vec3 {
	var out [8]mgl32.Vec3
	for i := range out {
		for axis := 0; axis < 3; axis++ {
			if i&(1<<axis) != 0 {
				out[i][axis] = b.Max[axis]
			} else {
				out[i][axis] = b.Min[axis]
			}
		}
	}
	return out
}

// NodeType distinguishes drawable leaves from pure grouping nodes.
type NodeType uint8

const (
	NodeTypeGroup NodeType = iota // transform-only node with no drawable output
	NodeTypeMesh                  // drawable leaf carrying material slots
)
