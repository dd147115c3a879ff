package scrollrig

// InterpolatePose blends a and b by t: position linearly, orientation along
// the shortest arc.
func InterpolatePose(a, b Pose, t float32) Pose {
	return Pose{
		Position:    LerpVec3(a.Position, b.Position, t),
		Orientation: SlerpQuat(a.Orientation, b.Orientation, t),
	}
}

// PoseAt returns the root pose for progress u.
func (tl *Timeline) PoseAt(u float32) Pose {
	s := tl.Resolve(u)
	return tl.poseFor(s)
}

func (tl *Timeline) poseFor(s SegmentSample) Pose {
	pair := tl.poses[s.Index]
	return InterpolatePose(pair.From, pair.To, s.Factor)
}

// PoseDriver writes the timeline pose to a root node. It keeps the last pose
// it wrote so that a frame producing a non-finite pose leaves the root where
// it was.
type PoseDriver struct {
	timeline *Timeline
	last     Pose
	hasLast  bool
}

// NewPoseDriver creates a driver over tl.
func NewPoseDriver(tl *Timeline) *PoseDriver {
	return &PoseDriver{timeline: tl}
}

// Apply resolves u, writes the pose to root, and returns the sample and the
// pose actually in effect. ok is false when the computed pose was rejected.
func (d *PoseDriver) Apply(root *Node, u float32) (s SegmentSample, p Pose, ok bool) {
	s = d.timeline.Resolve(u)
	p = d.timeline.poseFor(s)
	if !finitePose(p) {
		if d.hasLast {
			return s, d.last, false
		}
		return s, IdentityPose, false
	}
	d.last = p
	d.hasLast = true
	if root != nil {
		root.SetPose(p)
	}
	return s, p, true
}

// Last returns the last pose written and whether one exists.
func (d *PoseDriver) Last() (Pose, bool) {
	return d.last, d.hasLast
}
