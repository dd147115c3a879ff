package scrollrig

// MeshEntry is a drawable leaf whose material slots have been isolated.
// Base holds the opacity each slot had when it was cloned; it never changes.
type MeshEntry struct {
	Mesh *Node
	Base []float32
}

// Handle is the cached resolution of a name: the node found and every
// drawable leaf beneath it (itself included).
type Handle struct {
	Name   string
	Node   *Node
	Meshes []*MeshEntry
}

// Resolver finds named nodes under a root lazily and caches them. Names that
// are not present yet stay unresolved and are looked up again on the next
// call, so a model that arrives late or piecewise is picked up without a
// loaded event.
//
// On first sight of a leaf every material slot is cloned and the clone
// installed, so opacity written through a handle never reaches another mesh
// that shared the source material.
type Resolver struct {
	root *Node

	handles   map[string]*Handle
	nodes     map[string]*Node
	processed map[uint32]*MeshEntry

	clones  int
	lookups int
}

// NewResolver creates a resolver that searches beneath root.
func NewResolver(root *Node) *Resolver {
	return &Resolver{
		root:      root,
		handles:   make(map[string]*Handle),
		nodes:     make(map[string]*Node),
		processed: make(map[uint32]*MeshEntry),
	}
}

// Root returns the search root.
func (r *Resolver) Root() *Node {
	return r.root
}

// TryResolve returns the handle for name, resolving it on first success.
// It is idempotent: once a name resolves, later calls only read the cache.
func (r *Resolver) TryResolve(name string) (*Handle, bool) {
	if h, ok := r.handles[name]; ok {
		return h, true
	}
	n := r.find(name)
	if n == nil {
		return nil, false
	}
	h := &Handle{Name: name, Node: n}
	n.Traverse(func(leaf *Node) {
		if !leaf.IsMesh() {
			return
		}
		h.Meshes = append(h.Meshes, r.isolate(leaf))
	})
	r.handles[name] = h
	return h, true
}

// TryFind returns the node named name without touching its materials.
// Found nodes are cached the same way TryResolve caches handles.
func (r *Resolver) TryFind(name string) *Node {
	if n, ok := r.nodes[name]; ok {
		return n
	}
	if h, ok := r.handles[name]; ok {
		r.nodes[name] = h.Node
		return h.Node
	}
	n := r.find(name)
	if n != nil {
		r.nodes[name] = n
	}
	return n
}

// Handle returns the cached handle for name without attempting a lookup.
func (r *Resolver) Handle(name string) (*Handle, bool) {
	h, ok := r.handles[name]
	return h, ok
}

// Resolved reports whether name has a cached handle.
func (r *Resolver) Resolved(name string) bool {
	_, ok := r.handles[name]
	return ok
}

// Known reports whether name has been found by TryResolve or TryFind.
func (r *Resolver) Known(name string) bool {
	if _, ok := r.handles[name]; ok {
		return true
	}
	_, ok := r.nodes[name]
	return ok
}

// NumResolved returns the number of names with a cached handle.
func (r *Resolver) NumResolved() int {
	return len(r.handles)
}

// Clones returns the number of materials cloned so far.
func (r *Resolver) Clones() int {
	return r.clones
}

// Lookups returns the number of tree searches performed so far.
func (r *Resolver) Lookups() int {
	return r.lookups
}

func (r *Resolver) find(name string) *Node {
	r.lookups++
	if r.root == nil || name == "" {
		return nil
	}
	return r.root.FindByName(name)
}

// isolate clones every material slot of leaf once for its lifetime.
func (r *Resolver) isolate(leaf *Node) *MeshEntry {
	if e, ok := r.processed[leaf.ID]; ok && e.Mesh == leaf {
		return e
	}
	e := &MeshEntry{Mesh: leaf, Base: make([]float32, len(leaf.Materials))}
	for i, m := range leaf.Materials {
		if m == nil {
			continue
		}
		c := m.Clone()
		leaf.Materials[i] = c
		e.Base[i] = c.Opacity
		r.clones++
	}
	r.processed[leaf.ID] = e
	return e
}
