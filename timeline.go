package scrollrig

import (
	"errors"
	"fmt"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween/ease"
)

// Construction-time errors. NewTimeline wraps one of these with detail.
var (
	ErrNoCuts           = errors.New("timeline needs at least two cuts")
	ErrCutsRange        = errors.New("timeline cuts must start at 0 and end at 1")
	ErrCutsOrder        = errors.New("timeline cuts must be strictly increasing")
	ErrPoseCount        = errors.New("timeline needs exactly one pose pair per segment")
	ErrBandOrder        = errors.New("opacity band breakpoints out of order")
	ErrFloorRange       = errors.New("opacity floor must be in [0, 1]")
	ErrScheduleOrder    = errors.New("displacement schedule out of order")
	ErrSmoothingRange   = errors.New("smoothing factor must be in (0, 1]")
	ErrTransitionZone   = errors.New("transition zone must be in (0, 1]")
	ErrDuplicateSection = errors.New("target claimed by more than one section")
	ErrUnknownEase      = errors.New("unknown easing")
	ErrEmptyName        = errors.New("target name is empty")
	ErrOffsetRange      = errors.New("displacement offset must be finite and >= 0")
	ErrEpsilonRange     = errors.New("visibility epsilon must be in [0, 1]")
	ErrSpinRange        = errors.New("spin axis and turns must be finite")
)

const (
	// DefaultSmoothing is the per-frame blend factor of section passes.
	DefaultSmoothing = 0.09
	// DefaultVisibilityEpsilon is the scale factor at or below which a
	// displaced part is hidden.
	DefaultVisibilityEpsilon = 0.001
	// degenerateWidth is the segment width at or below which the local
	// factor is pinned to 0.
	degenerateWidth = 1e-6
)

// GlobalBand is the four-breakpoint fade applied to the broad target set:
// 1 before Start, ramp down to Floor until Hold, Floor until Release, ramp
// back up until End, 1 afterwards.
type GlobalBand struct {
	Start, Hold, Release, End float32
	Floor                     float32
}

// SectionBand is a symmetric dip to Floor and back across [Start, End) for
// a narrow target set. Sections are smoothed rather than assigned.
type SectionBand struct {
	Name       string
	Start, End float32
	Floor      float32
	Targets    []string
}

// DisplacementSchedule holds the three progress thresholds of the
// disassemble / hidden / reassemble cycle.
type DisplacementSchedule struct {
	// Disassembled is where parts finish flying out and shrinking (s_a).
	Disassembled float32
	// Reassemble is where parts start coming back (s_b).
	Reassemble float32
	// Assembled is where parts are fully restored (s_c).
	Assembled float32
}

// DisplacementTarget names a part that is pushed radially away from the
// root and the distance it travels at full extension.
type DisplacementTarget struct {
	Name      string
	MaxOffset float32
}

// SpinTrack rotates a named part about a local axis proportionally to progress.
type SpinTrack struct {
	Name  string
	Axis  mgl32.Vec3
	Turns float32
}

// TimelineSpec is the authoring form of a timeline. It is plain data; pass
// it to NewTimeline to validate and freeze it.
type TimelineSpec struct {
	// Cuts are the segment boundaries in progress units, first 0, last 1.
	Cuts []float32
	// Poses holds one start/end pair per segment (len(Cuts)-1 entries).
	Poses []PosePair
	// TransitionZone compresses each segment's motion into its leading
	// fraction and holds the end pose for the rest. 0 means 1 (continuous).
	TransitionZone float32
	// Ease shapes segment motion, fades and displacement. nil means inOutCubic.
	Ease ease.TweenFunc

	Global        GlobalBand
	GlobalTargets []string
	Sections      []SectionBand
	// Smoothing is the section pass blend factor. 0 means DefaultSmoothing.
	Smoothing float32

	Displacement        DisplacementSchedule
	DisplacementTargets []DisplacementTarget
	// VisibilityEpsilon hides displaced parts whose scale factor is at or
	// below it. 0 means DefaultVisibilityEpsilon.
	VisibilityEpsilon float32

	Spins []SpinTrack
}

// Timeline is a validated, immutable timeline table.
type Timeline struct {
	cuts           []float32
	poses          []PosePair
	transitionZone float32
	ease           ease.TweenFunc

	global        GlobalBand
	globalTargets []string
	sections      []SectionBand
	smoothing     float32

	displacement        DisplacementSchedule
	displacementTargets []DisplacementTarget
	visibilityEpsilon   float32

	spins []SpinTrack
}

// NewTimeline validates spec and returns an immutable Timeline. A malformed
// table is rejected here rather than clamped per frame.
func NewTimeline(spec TimelineSpec) (*Timeline, error) {
	if err := validateCuts(spec.Cuts); err != nil {
		return nil, err
	}
	if len(spec.Poses) != len(spec.Cuts)-1 {
		return nil, fmt.Errorf("%w: %d cuts need %d pairs, got %d",
			ErrPoseCount, len(spec.Cuts), len(spec.Cuts)-1, len(spec.Poses))
	}

	zone := spec.TransitionZone
	if zone == 0 {
		zone = 1
	}
	if !(zone > 0 && zone <= 1) {
		return nil, fmt.Errorf("%w: %v", ErrTransitionZone, spec.TransitionZone)
	}

	smoothing := spec.Smoothing
	if smoothing == 0 {
		smoothing = DefaultSmoothing
	}
	if !(smoothing > 0 && smoothing <= 1) {
		return nil, fmt.Errorf("%w: %v", ErrSmoothingRange, spec.Smoothing)
	}

	eps := spec.VisibilityEpsilon
	if eps == 0 {
		eps = DefaultVisibilityEpsilon
	}
	if !(eps >= 0 && eps <= 1) {
		return nil, fmt.Errorf("%w: %v", ErrEpsilonRange, spec.VisibilityEpsilon)
	}

	fn := spec.Ease
	if fn == nil {
		fn = ease.InOutCubic
	}

	if len(spec.GlobalTargets) > 0 {
		if err := validateGlobal(spec.Global); err != nil {
			return nil, err
		}
	}
	if err := validateNames("global", spec.GlobalTargets); err != nil {
		return nil, err
	}
	if err := validateSections(spec.Sections); err != nil {
		return nil, err
	}
	if len(spec.DisplacementTargets) > 0 {
		if err := validateSchedule(spec.Displacement); err != nil {
			return nil, err
		}
	}
	for _, d := range spec.DisplacementTargets {
		if d.Name == "" {
			return nil, fmt.Errorf("displacement: %w", ErrEmptyName)
		}
		if !(d.MaxOffset >= 0) || !finite32(d.MaxOffset) {
			return nil, fmt.Errorf("%w: %q offset %v", ErrOffsetRange, d.Name, d.MaxOffset)
		}
	}
	for _, s := range spec.Spins {
		if s.Name == "" {
			return nil, fmt.Errorf("spin: %w", ErrEmptyName)
		}
		if !finiteVec3(s.Axis) || !finite32(s.Turns) {
			return nil, fmt.Errorf("%w: %q", ErrSpinRange, s.Name)
		}
	}

	tl := &Timeline{
		cuts:                slices.Clone(spec.Cuts),
		poses:               slices.Clone(spec.Poses),
		transitionZone:      zone,
		ease:                fn,
		global:              spec.Global,
		globalTargets:       slices.Clone(spec.GlobalTargets),
		smoothing:           smoothing,
		displacement:        spec.Displacement,
		displacementTargets: slices.Clone(spec.DisplacementTargets),
		visibilityEpsilon:   eps,
		spins:               slices.Clone(spec.Spins),
	}
	tl.sections = make([]SectionBand, len(spec.Sections))
	for i, s := range spec.Sections {
		s.Targets = slices.Clone(s.Targets)
		tl.sections[i] = s
	}
	return tl, nil
}

// MustTimeline is NewTimeline for compiled-in tables; it panics on error.
func MustTimeline(spec TimelineSpec) *Timeline {
	tl, err := NewTimeline(spec)
	if err != nil {
		panic("scrollrig: " + err.Error())
	}
	return tl
}

// validateCuts accepts 0 = c0 < c1 < ... < cn = 1. The final segment alone
// may be degenerate (c(n-1) == cn) and is then held at its start pose.
func validateCuts(cuts []float32) error {
	if len(cuts) < 2 {
		return fmt.Errorf("%w: got %d", ErrNoCuts, len(cuts))
	}
	if cuts[0] != 0 || cuts[len(cuts)-1] != 1 {
		return fmt.Errorf("%w: got [%v .. %v]", ErrCutsRange, cuts[0], cuts[len(cuts)-1])
	}
	last := len(cuts) - 1
	for i := 1; i < len(cuts); i++ {
		if cuts[i] > cuts[i-1] {
			continue
		}
		if i == last && cuts[i] == cuts[i-1] && i > 1 {
			continue
		}
		return fmt.Errorf("%w: cut %d (%v) after %v", ErrCutsOrder, i, cuts[i], cuts[i-1])
	}
	return nil
}

func validateGlobal(b GlobalBand) error {
	if !(0 <= b.Start && b.Start < b.Hold && b.Hold <= b.Release && b.Release < b.End && b.End <= 1) {
		return fmt.Errorf("%w: global [%v %v %v %v]", ErrBandOrder, b.Start, b.Hold, b.Release, b.End)
	}
	if !(b.Floor >= 0 && b.Floor <= 1) {
		return fmt.Errorf("%w: global floor %v", ErrFloorRange, b.Floor)
	}
	return nil
}

func validateSections(sections []SectionBand) error {
	claimed := make(map[string]string)
	for _, s := range sections {
		if !(0 <= s.Start && s.Start < s.End && s.End <= 1) {
			return fmt.Errorf("%w: section %q [%v %v]", ErrBandOrder, s.Name, s.Start, s.End)
		}
		if !(s.Floor >= 0 && s.Floor <= 1) {
			return fmt.Errorf("%w: section %q floor %v", ErrFloorRange, s.Name, s.Floor)
		}
		if err := validateNames("section "+s.Name, s.Targets); err != nil {
			return err
		}
		for _, name := range s.Targets {
			if other, ok := claimed[name]; ok && other != s.Name {
				return fmt.Errorf("%w: %q in %q and %q", ErrDuplicateSection, name, other, s.Name)
			}
			claimed[name] = s.Name
		}
	}
	return nil
}

func validateSchedule(s DisplacementSchedule) error {
	if !(0 < s.Disassembled && s.Disassembled <= s.Reassemble && s.Reassemble < s.Assembled && s.Assembled <= 1) {
		return fmt.Errorf("%w: [%v %v %v]", ErrScheduleOrder, s.Disassembled, s.Reassemble, s.Assembled)
	}
	return nil
}

func validateNames(where string, names []string) error {
	for _, name := range names {
		if name == "" {
			return fmt.Errorf("%s: %w", where, ErrEmptyName)
		}
	}
	return nil
}

// --- Accessors ---

// Cuts returns a copy of the segment boundaries.
func (tl *Timeline) Cuts() []float32 { return slices.Clone(tl.cuts) }

// NumSegments returns the number of segments.
func (tl *Timeline) NumSegments() int { return len(tl.poses) }

// Segment returns the pose pair of segment i.
func (tl *Timeline) Segment(i int) PosePair { return tl.poses[i] }

// TransitionZone returns the fraction of each segment that carries motion.
func (tl *Timeline) TransitionZone() float32 { return tl.transitionZone }

// Ease returns the easing curve.
func (tl *Timeline) Ease() ease.TweenFunc { return tl.ease }

// Global returns the global fade band.
func (tl *Timeline) Global() GlobalBand { return tl.global }

// GlobalTargets returns a copy of the global target names.
func (tl *Timeline) GlobalTargets() []string { return slices.Clone(tl.globalTargets) }

// NumSections returns the number of section bands.
func (tl *Timeline) NumSections() int { return len(tl.sections) }

// Section returns a copy of section band i.
func (tl *Timeline) Section(i int) SectionBand {
	s := tl.sections[i]
	s.Targets = slices.Clone(s.Targets)
	return s
}

// Smoothing returns the section pass blend factor.
func (tl *Timeline) Smoothing() float32 { return tl.smoothing }

// Displacement returns the displacement schedule.
func (tl *Timeline) Displacement() DisplacementSchedule { return tl.displacement }

// DisplacementTargets returns a copy of the displacement targets.
func (tl *Timeline) DisplacementTargets() []DisplacementTarget {
	return slices.Clone(tl.displacementTargets)
}

// VisibilityEpsilon returns the hide threshold for displaced parts.
func (tl *Timeline) VisibilityEpsilon() float32 { return tl.visibilityEpsilon }

// Spins returns a copy of the spin tracks.
func (tl *Timeline) Spins() []SpinTrack { return slices.Clone(tl.spins) }

// Names returns every node name the timeline refers to, without duplicates,
// in first-seen order.
func (tl *Timeline) Names() []string {
	seen := make(map[string]bool)
	var out []string
	add := func(name string) {
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	for _, name := range tl.globalTargets {
		add(name)
	}
	for _, s := range tl.sections {
		for _, name := range s.Targets {
			add(name)
		}
	}
	for _, d := range tl.displacementTargets {
		add(d.Name)
	}
	for _, s := range tl.spins {
		add(s.Name)
	}
	return out
}

// Discontinuities returns the interior cut indices where the end pose of the
// previous segment differs from the start pose of the next by more than tol.
// Continuity is an authoring invariant; the engine never checks it per frame.
func (tl *Timeline) Discontinuities(tol float32) []int {
	var out []int
	for i := 1; i < len(tl.poses); i++ {
		a, b := tl.poses[i-1].To, tl.poses[i].From
		samePos := a.Position.ApproxEqualThreshold(b.Position, tol)
		dot := a.Orientation.Normalize().Dot(b.Orientation.Normalize())
		sameRot := 1-mgl32.Abs(dot) <= tol
		if !samePos || !sameRot {
			out = append(out, i)
		}
	}
	return out
}

// PairsFromKeyframes derives per-segment pose pairs from one keyframe per
// cut, so that consecutive segments share their boundary pose.
func PairsFromKeyframes(keys []Pose) []PosePair {
	if len(keys) < 2 {
		return nil
	}
	out := make([]PosePair, len(keys)-1)
	for i := range out {
		out[i] = PosePair{From: keys[i], To: keys[i+1]}
	}
	return out
}
