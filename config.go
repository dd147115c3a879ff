package scrollrig

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

// TimelineConfig is the YAML form of a timeline.
//
// When Pages is non-zero every progress value (cuts, band breakpoints,
// displacement schedule) is given in pages and divided by Pages on load, so
// with pages: 11 the value 3 means 3/11.
type TimelineConfig struct {
	Pages          float32 `yaml:"pages"`
	TransitionZone float32 `yaml:"transitionZone"`
	Ease           string  `yaml:"ease"`
	Smoothing      float32 `yaml:"smoothing"`

	Cuts []float32 `yaml:"cuts"`
	// Keyframes holds one pose per cut. Mutually exclusive with Poses.
	Keyframes []PoseConfig `yaml:"keyframes"`
	// Poses holds one from/to pair per segment.
	Poses []PosePairConfig `yaml:"poses"`

	Global       *GlobalConfig       `yaml:"global"`
	Sections     []SectionConfig     `yaml:"sections"`
	Displacement *DisplacementConfig `yaml:"displacement"`
	Spins        []SpinConfig        `yaml:"spins"`
}

// PoseConfig is a position with an orientation given either as YXZ Euler
// angles in degrees or as a quaternion [x, y, z, w]. Neither means identity.
type PoseConfig struct {
	Position [3]float32  `yaml:"position"`
	Euler    *[3]float32 `yaml:"euler,omitempty"`
	Quat     *[4]float32 `yaml:"quat,omitempty"`
}

// PosePairConfig is the start and end pose of one segment.
type PosePairConfig struct {
	From PoseConfig `yaml:"from"`
	To   PoseConfig `yaml:"to"`
}

// GlobalConfig is the global fade band.
type GlobalConfig struct {
	Start   float32  `yaml:"start"`
	Hold    float32  `yaml:"hold"`
	Release float32  `yaml:"release"`
	End     float32  `yaml:"end"`
	Floor   float32  `yaml:"floor"`
	Targets []string `yaml:"targets"`
}

// SectionConfig is one smoothed section band.
type SectionConfig struct {
	Name    string   `yaml:"name"`
	Start   float32  `yaml:"start"`
	End     float32  `yaml:"end"`
	Floor   float32  `yaml:"floor"`
	Targets []string `yaml:"targets"`
}

// DisplacementConfig is the disassembly schedule and its targets.
type DisplacementConfig struct {
	Disassembled      float32 `yaml:"disassembled"`
	Reassemble        float32 `yaml:"reassemble"`
	Assembled         float32 `yaml:"assembled"`
	MaxOffset         float32 `yaml:"maxOffset"`
	VisibilityEpsilon float32 `yaml:"visibilityEpsilon"`

	Targets []DisplacementTargetConfig `yaml:"targets"`
}

// DisplacementTargetConfig is a target name with an optional offset that
// overrides DisplacementConfig.MaxOffset. It decodes from a bare string too.
type DisplacementTargetConfig struct {
	Name      string  `yaml:"name"`
	MaxOffset float32 `yaml:"maxOffset"`
}

// UnmarshalYAML accepts either "name" or {name: ..., maxOffset: ...}.
func (d *DisplacementTargetConfig) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		d.Name = value.Value
		return nil
	}
	type plain DisplacementTargetConfig
	return value.Decode((*plain)(d))
}

// SpinConfig is a spin track.
type SpinConfig struct {
	Name  string     `yaml:"name"`
	Axis  [3]float32 `yaml:"axis"`
	Turns float32    `yaml:"turns"`
}

// errPoseOrientation is returned when a pose sets both euler and quat.
var errPoseOrientation = errors.New("pose sets both euler and quat")

// ParseTimeline decodes YAML into a validated Timeline.
func ParseTimeline(data []byte) (*Timeline, error) {
	var cfg TimelineConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse timeline: %w", err)
	}
	spec, err := cfg.Spec()
	if err != nil {
		return nil, err
	}
	return NewTimeline(spec)
}

// LoadTimeline reads and parses a YAML timeline file.
func LoadTimeline(path string) (*Timeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read timeline: %w", err)
	}
	tl, err := ParseTimeline(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tl, nil
}

// Spec converts the configuration into a TimelineSpec. Values are scaled
// from pages, easing is looked up by name and orientations are built. The
// result still has to pass NewTimeline.
func (c *TimelineConfig) Spec() (TimelineSpec, error) {
	scale := func(v float32) float32 {
		if c.Pages > 0 {
			return v / c.Pages
		}
		return v
	}

	fn, err := EaseByName(c.Ease)
	if err != nil {
		return TimelineSpec{}, err
	}

	spec := TimelineSpec{
		TransitionZone: c.TransitionZone,
		Ease:           fn,
		Smoothing:      c.Smoothing,
	}

	spec.Cuts = make([]float32, len(c.Cuts))
	for i, v := range c.Cuts {
		spec.Cuts[i] = scale(v)
	}

	switch {
	case len(c.Keyframes) > 0 && len(c.Poses) > 0:
		return TimelineSpec{}, fmt.Errorf("%w: set keyframes or poses, not both", ErrPoseCount)
	case len(c.Keyframes) > 0:
		if len(c.Keyframes) != len(c.Cuts) {
			return TimelineSpec{}, fmt.Errorf("%w: %d cuts need %d keyframes, got %d",
				ErrPoseCount, len(c.Cuts), len(c.Cuts), len(c.Keyframes))
		}
		keys := make([]Pose, len(c.Keyframes))
		for i, k := range c.Keyframes {
			p, err := k.Pose()
			if err != nil {
				return TimelineSpec{}, fmt.Errorf("keyframe %d: %w", i, err)
			}
			keys[i] = p
		}
		spec.Poses = PairsFromKeyframes(keys)
	default:
		spec.Poses = make([]PosePair, len(c.Poses))
		for i, pc := range c.Poses {
			from, err := pc.From.Pose()
			if err != nil {
				return TimelineSpec{}, fmt.Errorf("segment %d from: %w", i, err)
			}
			to, err := pc.To.Pose()
			if err != nil {
				return TimelineSpec{}, fmt.Errorf("segment %d to: %w", i, err)
			}
			spec.Poses[i] = PosePair{From: from, To: to}
		}
	}

	if g := c.Global; g != nil {
		spec.Global = GlobalBand{
			Start:   scale(g.Start),
			Hold:    scale(g.Hold),
			Release: scale(g.Release),
			End:     scale(g.End),
			Floor:   g.Floor,
		}
		spec.GlobalTargets = g.Targets
	}

	for _, s := range c.Sections {
		spec.Sections = append(spec.Sections, SectionBand{
			Name:    s.Name,
			Start:   scale(s.Start),
			End:     scale(s.End),
			Floor:   s.Floor,
			Targets: s.Targets,
		})
	}

	if d := c.Displacement; d != nil {
		spec.Displacement = DisplacementSchedule{
			Disassembled: scale(d.Disassembled),
			Reassemble:   scale(d.Reassemble),
			Assembled:    scale(d.Assembled),
		}
		spec.VisibilityEpsilon = d.VisibilityEpsilon
		for _, t := range d.Targets {
			offset := t.MaxOffset
			if offset == 0 {
				offset = d.MaxOffset
			}
			spec.DisplacementTargets = append(spec.DisplacementTargets,
				DisplacementTarget{Name: t.Name, MaxOffset: offset})
		}
	}

	for _, s := range c.Spins {
		turns := s.Turns
		if turns == 0 {
			turns = 1
		}
		spec.Spins = append(spec.Spins, SpinTrack{
			Name:  s.Name,
			Axis:  mgl32.Vec3(s.Axis),
			Turns: turns,
		})
	}

	return spec, nil
}

// Pose builds the pose described by the configuration.
func (p PoseConfig) Pose() (Pose, error) {
	out := Pose{Position: mgl32.Vec3(p.Position), Orientation: mgl32.QuatIdent()}
	switch {
	case p.Euler != nil && p.Quat != nil:
		return Pose{}, errPoseOrientation
	case p.Euler != nil:
		out.Orientation = QuatFromEulerDeg(p.Euler[0], p.Euler[1], p.Euler[2])
	case p.Quat != nil:
		q := mgl32.Quat{W: p.Quat[3], V: mgl32.Vec3{p.Quat[0], p.Quat[1], p.Quat[2]}}
		if q.Len() == 0 {
			return Pose{}, fmt.Errorf("zero quaternion")
		}
		out.Orientation = q.Normalize()
	}
	return out, nil
}
