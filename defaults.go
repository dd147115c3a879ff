package scrollrig

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween/ease"
)

// DefaultPages is the page count of the default timeline.
const DefaultPages = 11

// page converts a page number to progress for the default timeline.
func page(n float32) float32 {
	return n / DefaultPages
}

// ShellNames are the outer casing parts that fly out during disassembly.
var ShellNames = []string{
	"cap_bl", "cap_br", "cap_tl", "cap_tr",
	"shell_bl_1", "shell_br_1", "shell_tl_1", "shell_tr_1",
	"shell_bl_3", "shell_br_3", "shell_tl_3", "shell_tr_3",
}

// FadeTargetNames are the inner parts dimmed by the global band.
var FadeTargetNames = []string{
	"cap_1", "gear_1", "gear_3_shaft",
	"gear_3_disc_1", "gear_3_disc_2", "gear_3_disc_3", "gear_3_disc_4",
	"gear_5", "gear_6", "gear_6_1", "gear_6_2", "gear_6_3",
	"gear_7", "gear_8", "shell_2", "shell_gear", "gear_10", "gear_12",
}

// Named orientations of the default timeline, YXZ order.
var (
	orientLeft       = QuatFromEulerDeg(0, 90, -120)
	orientLeftRoll45 = QuatFromEulerDeg(-10, 120, -120)
	orientRightRoll  = QuatFromEulerYXZ(-500, DegToRad(90), DegToRad(-120))
	orientLeftRolled = QuatFromEulerDeg(-90, 90, -90)
	orientSection1   = QuatFromEulerDeg(90, 0, 0)
	orientSection2   = QuatFromEulerDeg(130, 40, 45)
	orientSection3   = QuatFromEulerDeg(50, 120, -120)
	orientSection4   = QuatFromEulerDeg(-60, 20, 45)
	orientRotate     = QuatFromEulerDeg(0, 90, 30)
)

// DefaultTimelineSpec returns the authoring table of the default timeline:
// eleven pages, motion in the first 45% of each page, a global dim over pages
// 2 to 8, four section dips between pages 3 and 7, shells out by page 3 and
// back by page 10, and the top cap spinning once.
func DefaultTimelineSpec() TimelineSpec {
	origin := mgl32.Vec3{}
	p3 := mgl32.Vec3{-0.5, -0.75, 1.7}
	p4 := mgl32.Vec3{0.4, -0.4, 1.5}
	p5 := mgl32.Vec3{-0.7, 0.2, 1.7}
	p6 := mgl32.Vec3{0.2, -0.7, 1.7}
	final := mgl32.Vec3{0, 2, 0}

	keys := []Pose{
		{origin, orientLeft},
		{origin, orientLeftRoll45},
		{origin, orientLeftRoll45},
		{origin, orientRightRoll},
		{p3, orientSection1},
		{p4, orientSection2},
		{p5, orientSection3},
		{p6, orientSection4},
		{origin, orientRotate},
		{origin, orientRotate},
		{origin, orientLeftRoll45},
		{final, orientLeftRolled},
	}

	cuts := make([]float32, DefaultPages+1)
	for i := range cuts {
		cuts[i] = page(float32(i))
	}

	targets := make([]DisplacementTarget, len(ShellNames))
	for i, name := range ShellNames {
		targets[i] = DisplacementTarget{Name: name, MaxOffset: 3}
	}

	return TimelineSpec{
		Cuts:           cuts,
		Poses:          PairsFromKeyframes(keys),
		TransitionZone: 0.45,
		Ease:           ease.InOutCubic,
		Global: GlobalBand{
			Start: page(2), Hold: page(3), Release: page(7), End: page(8),
			Floor: 0.2,
		},
		GlobalTargets: append([]string(nil), FadeTargetNames...),
		Sections: []SectionBand{
			{Name: "drive", Start: page(3), End: page(4), Floor: 0.18,
				Targets: []string{"gear_1", "gear_3_shaft"}},
			{Name: "discs", Start: page(4), End: page(5), Floor: 0.18,
				Targets: []string{"gear_3_disc_1", "gear_3_disc_2", "gear_3_disc_3", "gear_3_disc_4"}},
			{Name: "train", Start: page(5), End: page(6), Floor: 0.18,
				Targets: []string{"gear_5", "gear_6", "gear_6_1", "gear_6_2", "gear_6_3"}},
			{Name: "output", Start: page(6), End: page(7), Floor: 0.18,
				Targets: []string{"gear_7", "gear_8", "gear_10", "gear_12"}},
		},
		Smoothing: DefaultSmoothing,
		Displacement: DisplacementSchedule{
			Disassembled: page(3),
			Reassemble:   page(8),
			Assembled:    page(10),
		},
		DisplacementTargets: targets,
		VisibilityEpsilon:   DefaultVisibilityEpsilon,
		Spins: []SpinTrack{
			{Name: "cap_1", Axis: mgl32.Vec3{0, 0, 1}, Turns: 1},
		},
	}
}

// DefaultTimeline returns the validated default timeline.
func DefaultTimeline() *Timeline {
	return MustTimeline(DefaultTimelineSpec())
}
