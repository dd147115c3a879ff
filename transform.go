package scrollrig

import "github.com/go-gl/mathgl/mgl32"

// singularEpsilon is the determinant magnitude below which a matrix is
// treated as non-invertible.
const singularEpsilon = 1e-12

// computeLocalMatrix composes the node's local matrix.
//
// Composition order:
//
//	Translate(Position) * Rotate(Rotation) * Scale(Scale)
func computeLocalMatrix(n *Node) mgl32.Mat4 {
	t := mgl32.Translate3D(n.Position[0], n.Position[1], n.Position[2])
	r := n.Rotation.Normalize().Mat4()
	s := mgl32.Scale3D(n.Scale[0], n.Scale[1], n.Scale[2])
	return t.Mul4(r).Mul4(s)
}

// invertMatrix computes the inverse of m.
// Returns the identity matrix if m is singular (determinant ≈ 0).
func invertMatrix(m mgl32.Mat4) mgl32.Mat4 {
	det := m.Det()
	if det > -singularEpsilon && det < singularEpsilon {
		return mgl32.Ident4()
	}
	return m.Inv()
}

// transformPoint applies a 4x4 matrix to a point (w = 1).
func transformPoint(m mgl32.Mat4, p mgl32.Vec3) mgl32.Vec3 {
	return m.Mul4x1(p.Vec4(1)).Vec3()
}

// updateWorldTransform recomputes a node's world matrix and walks its subtree.
// parentRecomputed indicates whether the parent was recomputed this frame,
// which forces recomputation of this node even if it's not dirty.
func updateWorldTransform(n *Node, parentWorld mgl32.Mat4, parentRecomputed bool) {
	recompute := n.transformDirty || parentRecomputed
	if recompute {
		n.worldMatrix = parentWorld.Mul4(computeLocalMatrix(n))
		n.transformDirty = false
	}

	for _, child := range n.children {
		updateWorldTransform(child, n.worldMatrix, recompute)
	}
}

// UpdateWorldMatrix recomputes this node's world matrix from its local
// transform. When updateParents is true the ancestor chain is refreshed first,
// otherwise the parent's cached world matrix is used. When updateChildren is
// true the whole subtree is refreshed as well.
func (n *Node) UpdateWorldMatrix(updateParents, updateChildren bool) {
	parentWorld := mgl32.Ident4()
	if n.Parent != nil {
		if updateParents {
			n.Parent.UpdateWorldMatrix(true, false)
		}
		parentWorld = n.Parent.worldMatrix
	}
	n.worldMatrix = parentWorld.Mul4(computeLocalMatrix(n))
	n.transformDirty = false

	if updateChildren {
		for _, child := range n.children {
			updateWorldTransform(child, n.worldMatrix, true)
		}
		return
	}
	// The subtree now hangs off a new matrix; the next tree walk must
	// recompute it even though this node is clean.
	for _, child := range n.children {
		child.transformDirty = true
	}
}

// WorldMatrix returns the most recently computed world matrix.
func (n *Node) WorldMatrix() mgl32.Mat4 {
	return n.worldMatrix
}

// WorldPosition returns the translation part of the cached world matrix.
func (n *Node) WorldPosition() mgl32.Vec3 {
	return n.worldMatrix.Col(3).Vec3()
}

// --- Transform property setters ---

// SetPosition sets the node's local position and marks it dirty.
func (n *Node) SetPosition(p mgl32.Vec3) {
	n.Position = p
	n.transformDirty = true
}

// SetRotation sets the node's local orientation and marks it dirty.
func (n *Node) SetRotation(q mgl32.Quat) {
	n.Rotation = q
	n.transformDirty = true
}

// SetScale sets the node's local scale and marks it dirty.
func (n *Node) SetScale(s mgl32.Vec3) {
	n.Scale = s
	n.transformDirty = true
}

// SetPose sets position and orientation together.
func (n *Node) SetPose(p Pose) {
	n.Position = p.Position
	n.Rotation = p.Orientation
	n.transformDirty = true
}

// MarkDirty marks the node's transform as dirty, forcing recomputation
// on the next frame. Useful after bulk-setting fields directly.
func (n *Node) MarkDirty() {
	n.transformDirty = true
}

// --- Coordinate conversion ---

// WorldToLocal converts a world-space point to this node's local coordinate space.
func (n *Node) WorldToLocal(p mgl32.Vec3) mgl32.Vec3 {
	return transformPoint(invertMatrix(n.worldMatrix), p)
}

// LocalToWorld converts a local-space point to world-space.
func (n *Node) LocalToWorld(p mgl32.Vec3) mgl32.Vec3 {
	return transformPoint(n.worldMatrix, p)
}

// WorldBounds returns the world-space box enclosing this node's local Bounds.
func (n *Node) WorldBounds() Box {
	if n.Bounds.Empty() {
		return Box{}
	}
	corners := n.Bounds.Corners()
	first := transformPoint(n.worldMatrix, corners[0])
	out := Box{Min: first, Max: first}
	for _, c := range corners[1:] {
		p := transformPoint(n.worldMatrix, c)
		for i := 0; i < 3; i++ {
			out.Min[i] = min(out.Min[i], p[i])
			out.Max[i] = max(out.Max[i], p[i])
		}
	}
	return out
}
