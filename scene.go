package scrollrig

import (
	"log/slog"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
)

// Scene is the top-level object that owns the node tree and the rig that
// animates it.
type Scene struct {
	root   *Node
	rig    *Rig
	store  EntityStore
	debug  bool
	logger *slog.Logger

	updateFunc func(progress float32)
}

// NewScene creates a new scene with a pre-created root group.
func NewScene() *Scene {
	return &Scene{
		root:   NewGroup("root"),
		logger: slog.Default(),
	}
}

// Root returns the scene's root group.
func (s *Scene) Root() *Node {
	return s.root
}

// Rig returns the scene's rig, or nil if none was set.
func (s *Scene) Rig() *Rig {
	return s.rig
}

// SetRig sets the rig driven by Update. The rig's root should be part of
// this scene's tree.
func (s *Scene) SetRig(r *Rig) {
	s.rig = r
	if r != nil {
		r.SetLogger(s.logger)
		if s.debug {
			r.SetDebug(true)
		}
		if s.store != nil {
			r.SetEntityStore(s.store)
		}
	}
}

// NewRig creates a "model" group under the scene root, builds a rig over it
// and installs it. Models attached later with Attach land under that group.
func (s *Scene) NewRig(tl *Timeline, opts ...RigOption) *Rig {
	model := NewGroup("model")
	s.root.AddChild(model)
	opts = append([]RigOption{WithLogger(s.logger), WithDebug(s.debug), WithEntityStore(s.store)}, opts...)
	r := NewRig(model, tl, opts...)
	s.rig = r
	return r
}

// Attach adds a loaded model under the rig root, or under the scene root
// when there is no rig. The rig picks up its named parts on the next Update.
func (s *Scene) Attach(model *Node) {
	if model == nil {
		return
	}
	parent := s.root
	if s.rig != nil {
		parent = s.rig.Root()
	}
	parent.AddChild(model)
	if s.debug {
		s.logger.Debug("model attached", "name", model.Name, "parent", parent.Name)
	}
}

// Replace disposes every model attached so far and attaches model in their
// place. When the scene has a rig its name lookup starts over, so parts of
// the new model are picked up on the next Update.
func (s *Scene) Replace(model *Node) {
	parent := s.root
	if s.rig != nil {
		parent = s.rig.Root()
	}
	for _, old := range slices.Clone(parent.Children()) {
		old.Dispose()
	}
	if s.rig != nil {
		s.rig.Rebind()
	}
	s.Attach(model)
}

// SetUpdateFunc sets a callback invoked at the start of every Update, before
// the rig runs.
func (s *Scene) SetUpdateFunc(fn func(progress float32)) {
	s.updateFunc = fn
}

// Update runs the update func, advances the rig to progress and refreshes
// every world matrix in the tree.
func (s *Scene) Update(progress float32) FrameState {
	if s.updateFunc != nil {
		s.updateFunc(progress)
	}
	var fs FrameState
	if s.rig != nil {
		fs = s.rig.Update(progress)
	} else {
		fs = FrameState{Progress: Clamp01(progress), Pose: IdentityPose, GlobalAlpha: 1, ScaleFactor: 1}
	}
	updateWorldTransform(s.root, mgl32.Ident4(), false)
	return fs
}

// SetEntityStore sets the optional ECS bridge on the scene and its rig.
func (s *Scene) SetEntityStore(store EntityStore) {
	s.store = store
	if s.rig != nil {
		s.rig.SetEntityStore(store)
	}
}

// SetLogger replaces the scene's logger and the rig's. nil is ignored.
func (s *Scene) SetLogger(l *slog.Logger) {
	if l == nil {
		return
	}
	s.logger = l
	if s.rig != nil {
		s.rig.SetLogger(l)
	}
}

// SetDebugMode enables or disables debug mode. When enabled, disposed-node
// access panics, tree depth and child count warnings are logged, and per-frame
// pass timings are logged at debug level.
func (s *Scene) SetDebugMode(enabled bool) {
	s.debug = enabled
	globalDebug = enabled
	if s.rig != nil {
		s.rig.SetDebug(enabled)
	}
}

// globalDebug mirrors the most recently set Scene debug flag so that node
// operations (which lack a Scene pointer) can check it cheaply. Only valid
// with a single Scene; multiple Scenes with differing debug modes will
// reflect whichever called SetDebugMode last.
var globalDebug bool

// Bounds returns the world-space box enclosing every visible mesh.
func (s *Scene) Bounds() Box {
	var out Box
	s.root.Traverse(func(n *Node) {
		if !n.IsMesh() || !n.Visible || n.Bounds.Empty() {
			return
		}
		out = out.Union(n.WorldBounds())
	})
	return out
}
