package scrollrig

import "github.com/go-gl/mathgl/mgl32"

// --- ID counters ---

// nodeIDCounter is a plain counter. The engine is single-threaded.
var nodeIDCounter uint32

func nextNodeID() uint32 {
	nodeIDCounter++
	return nodeIDCounter
}

// --- Node ---

// Node is the scene graph element. A single flat struct is used for groups
// and meshes so the per-frame passes never dispatch through an interface.
type Node struct {
	// Identity
	ID   uint32
	Name string
	Type NodeType

	// Hierarchy
	Parent   *Node
	children []*Node

	// Transform (local)
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3

	// Computed (unexported, refreshed by UpdateWorldMatrix or Scene.Update)
	worldMatrix    mgl32.Mat4
	transformDirty bool

	// Visibility
	Visible bool

	// Mesh fields (NodeTypeMesh). Slots may be nil.
	Materials []*Material
	Bounds    Box

	// Metadata
	UserData any

	// Internal
	disposed bool
}

// nodeDefaults sets the common default field values shared by all constructors.
func nodeDefaults(n *Node) {
	n.ID = nextNodeID()
	n.Rotation = mgl32.QuatIdent()
	n.Scale = mgl32.Vec3{1, 1, 1}
	n.Visible = true
	n.worldMatrix = mgl32.Ident4()
	n.transformDirty = true
}

// NewGroup creates a transform-only node.
func NewGroup(name string) *Node {
	n := &Node{Name: name, Type: NodeTypeGroup}
	nodeDefaults(n)
	return n
}

// NewMesh creates a drawable leaf with the given material slots.
func NewMesh(name string, materials ...*Material) *Node {
	n := &Node{Name: name, Type: NodeTypeMesh, Materials: materials}
	nodeDefaults(n)
	return n
}

// IsMesh reports whether the node is a drawable leaf.
func (n *Node) IsMesh() bool {
	return n.Type == NodeTypeMesh
}

// --- Tree manipulation ---

// AddChild appends child to this node's children.
// If child already has a parent, it is removed from that parent first.
// Panics if child is nil or child is an ancestor of this node (cycle).
func (n *Node) AddChild(child *Node) {
	if child == nil {
		panic("scrollrig: cannot add nil child")
	}
	if globalDebug {
		debugCheckDisposed(n, "AddChild (parent)")
		debugCheckDisposed(child, "AddChild (child)")
	}
	if isAncestor(child, n) {
		panic("scrollrig: adding child would create a cycle")
	}
	if child.Parent != nil {
		child.Parent.removeChildByPtr(child)
	}
	child.Parent = n
	n.children = append(n.children, child)
	markSubtreeDirty(child)
	if globalDebug {
		debugCheckTreeDepth(child)
		debugCheckChildCount(n)
	}
}

// RemoveChild detaches child from this node.
// Panics if child.Parent != n.
func (n *Node) RemoveChild(child *Node) {
	if child.Parent != n {
		panic("scrollrig: child's parent is not this node")
	}
	n.removeChildByPtr(child)
	child.Parent = nil
	markSubtreeDirty(child)
}

// RemoveFromParent detaches this node from its parent.
// No-op if this node has no parent.
func (n *Node) RemoveFromParent() {
	if n.Parent == nil {
		return
	}
	n.Parent.RemoveChild(n)
}

// Children returns the child list. The returned slice MUST NOT be mutated by the caller.
func (n *Node) Children() []*Node {
	return n.children
}

// NumChildren returns the number of children.
func (n *Node) NumChildren() int {
	return len(n.children)
}

// ChildAt returns the child at the given index.
func (n *Node) ChildAt(index int) *Node {
	return n.children[index]
}

// --- Lookup ---

// FindByName returns the first node named name in a depth-first, pre-order
// walk starting at (and including) n. Returns nil when no node matches.
func (n *Node) FindByName(name string) *Node {
	if n.Name == name {
		return n
	}
	for _, child := range n.children {
		if found := child.FindByName(name); found != nil {
			return found
		}
	}
	return nil
}

// Traverse calls fn for n and every descendant in depth-first pre-order.
func (n *Node) Traverse(fn func(*Node)) {
	fn(n)
	for _, child := range n.children {
		child.Traverse(fn)
	}
}

// --- Disposal ---

// Dispose removes this node from its parent, marks it as disposed,
// and recursively disposes all descendants.
func (n *Node) Dispose() {
	if n.disposed {
		return
	}
	n.RemoveFromParent()
	n.dispose()
}

func (n *Node) dispose() {
	n.disposed = true
	n.ID = 0
	for _, child := range n.children {
		child.Parent = nil
		child.dispose()
	}
	n.children = nil
	n.Parent = nil
	n.Materials = nil
	n.UserData = nil
}

// IsDisposed returns true if this node has been disposed.
func (n *Node) IsDisposed() bool {
	return n.disposed
}

// --- Helpers ---

// isAncestor reports whether candidate is an ancestor of node.
func isAncestor(candidate, node *Node) bool {
	for p := node; p != nil; p = p.Parent {
		if p == candidate {
			return true
		}
	}
	return false
}

// removeChildByPtr removes child from n.children without clearing child.Parent.
// Uses copy+nil to avoid retaining a dangling pointer in the backing array.
func (n *Node) removeChildByPtr(child *Node) {
	for i, c := range n.children {
		if c == child {
			copy(n.children[i:], n.children[i+1:])
			n.children[len(n.children)-1] = nil
			n.children = n.children[:len(n.children)-1]
			return
		}
	}
}

// markSubtreeDirty sets transformDirty on node and all its descendants.
func markSubtreeDirty(node *Node) {
	node.transformDirty = true
	for _, child := range node.children {
		markSubtreeDirty(child)
	}
}
