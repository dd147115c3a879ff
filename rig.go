package scrollrig

import (
	"fmt"
	"log/slog"
	"time"
)

// FrameState is a snapshot of what the rig computed for one frame.
type FrameState struct {
	Progress float32
	Segment  int
	// Local is the raw position inside the segment; Factor is the eased one.
	Local  float32
	Factor float32
	Pose   Pose
	// PoseHeld is true when the computed pose was rejected and the last good
	// pose stayed in place.
	PoseHeld    bool
	GlobalAlpha float32
	Travel      float32
	ScaleFactor float32
	// Recovered is true when the frame panicked and was abandoned.
	Recovered bool
}

// RigOption configures a Rig.
type RigOption func(*Rig)

// WithLogger sets the logger used for recovered frames and debug output.
func WithLogger(l *slog.Logger) RigOption {
	return func(r *Rig) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithDebug enables per-frame timing and counter logging.
func WithDebug(enabled bool) RigOption {
	return func(r *Rig) {
		r.debug = enabled
	}
}

// WithEntityStore forwards rig events to store.
func WithEntityStore(store EntityStore) RigOption {
	return func(r *Rig) {
		r.store = store
	}
}

// Rig drives a root node from scroll progress. Each Update runs, in order:
// the pose driver, the resolver refresh, the global opacity pass, the section
// passes, the displacement pass and the spin tracks.
//
// A Rig is not safe for concurrent use; call Update from the frame callback.
type Rig struct {
	root     *Node
	timeline *Timeline

	resolver     *Resolver
	pose         *PoseDriver
	opacity      *OpacityScheduler
	displacement *Displacer
	spins        *Spinner

	logger *slog.Logger
	debug  bool
	store  EntityStore

	lastProgress float32
	segment      int
	state        FrameState
	frames       int
}

// NewRig creates a rig that animates root according to tl. Named parts are
// searched beneath root, which may still be empty.
func NewRig(root *Node, tl *Timeline, opts ...RigOption) *Rig {
	if root == nil {
		panic("scrollrig: rig root is nil")
	}
	if tl == nil {
		panic("scrollrig: rig timeline is nil")
	}
	r := &Rig{
		root:     root,
		timeline: tl,
		pose:     NewPoseDriver(tl),
		logger:   slog.Default(),
		segment:  -1,
	}
	r.bind()
	for _, opt := range opts {
		opt(r)
	}
	r.state = FrameState{Pose: IdentityPose, GlobalAlpha: 1, ScaleFactor: 1}
	return r
}

func (r *Rig) bind() {
	r.resolver = NewResolver(r.root)
	r.opacity = NewOpacityScheduler(r.timeline, r.resolver)
	r.displacement = NewDisplacer(r.timeline, r.resolver, r.root)
	r.spins = NewSpinner(r.timeline, r.resolver)
}

// Rebind drops every resolved part and starts the name lookup over. Call it
// after the model under the rig root has been replaced. The root pose and
// the last frame state are kept.
func (r *Rig) Rebind() {
	r.bind()
}

// Update advances the rig to progress u. Non-finite u reuses the previous
// progress. A panic inside the frame is recovered and logged, and the
// previous frame's state is returned with Recovered set.
func (r *Rig) Update(u float32) (fs FrameState) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("frame recovered",
				"progress", u,
				"frame", r.frames,
				"panic", fmt.Sprint(rec))
			fs = r.state
			fs.Recovered = true
			r.emit(RigEvent{Type: EventFrameRecovered, Progress: u, Segment: r.segment, Previous: r.segment})
		}
	}()

	if !finite32(u) {
		u = r.lastProgress
	}
	u = Clamp01(u)
	r.lastProgress = u
	r.frames++

	var stats debugStats
	var t0 time.Time
	if r.debug {
		t0 = time.Now()
	}

	s, p, ok := r.pose.Apply(r.root, u)

	if r.debug {
		stats.poseTime = time.Since(t0)
		t0 = time.Now()
	}

	r.opacity.Resolve()
	r.displacement.Resolve()
	r.spins.Resolve()

	if r.debug {
		stats.resolveTime = time.Since(t0)
		t0 = time.Now()
	}

	alpha := r.opacity.Apply(u)

	if r.debug {
		stats.opacityTime = time.Since(t0)
		t0 = time.Now()
	}

	travel, scale := r.displacement.Apply(u)

	if r.debug {
		stats.displacementTime = time.Since(t0)
		t0 = time.Now()
	}

	r.spins.Apply(u)

	if r.debug {
		stats.spinTime = time.Since(t0)
		stats.resolved = r.resolver.NumResolved()
		stats.clones = r.resolver.Clones()
		stats.writes = r.opacity.Writes()
		r.debugLog(u, stats)
	}

	if r.store != nil {
		if s.Index != r.segment {
			r.emit(RigEvent{Type: EventSegmentEnter, Progress: u, Segment: s.Index, Previous: r.segment})
		}
		if !ok {
			r.emit(RigEvent{Type: EventPoseHeld, Progress: u, Segment: s.Index, Previous: r.segment})
		}
	}
	r.segment = s.Index

	r.state = FrameState{
		Progress:    u,
		Segment:     s.Index,
		Local:       s.Local,
		Factor:      s.Factor,
		Pose:        p,
		PoseHeld:    !ok,
		GlobalAlpha: alpha,
		Travel:      travel,
		ScaleFactor: scale,
	}
	return r.state
}

// State returns the most recent frame state.
func (r *Rig) State() FrameState {
	return r.state
}

// Root returns the animated root node.
func (r *Rig) Root() *Node {
	return r.root
}

// Timeline returns the rig's timeline.
func (r *Rig) Timeline() *Timeline {
	return r.timeline
}

// Resolver returns the rig's name resolver.
func (r *Rig) Resolver() *Resolver {
	return r.resolver
}

// OpacityWrites returns the total number of material opacity writes.
func (r *Rig) OpacityWrites() int {
	return r.opacity.Writes()
}

// Missing returns the timeline names not found beneath the root yet.
func (r *Rig) Missing() []string {
	var out []string
	for _, name := range r.timeline.Names() {
		if r.resolver.Known(name) {
			continue
		}
		out = append(out, name)
	}
	return out
}

// SetDebug toggles per-frame debug logging.
func (r *Rig) SetDebug(enabled bool) {
	r.debug = enabled
}

// SetEntityStore sets the optional ECS bridge. nil disables it.
func (r *Rig) SetEntityStore(store EntityStore) {
	r.store = store
}

func (r *Rig) emit(e RigEvent) {
	if r.store == nil {
		return
	}
	e.Frame = r.frames
	r.store.EmitEvent(e)
}

// SetLogger replaces the rig's logger. nil is ignored.
func (r *Rig) SetLogger(l *slog.Logger) {
	if l != nil {
		r.logger = l
	}
}
