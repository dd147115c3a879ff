package scrollrig

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Placeholder palette.
var (
	placeholderShell = Color{R: 0.62, G: 0.66, B: 0.72, A: 1}
	placeholderGear  = Color{R: 0.85, G: 0.65, B: 0.25, A: 1}
	placeholderCap   = Color{R: 0.9, G: 0.3, B: 0.25, A: 1}
)

func boxAround(half mgl32.Vec3) Box {
	return Box{Min: half.Mul(-1), Max: half}
}

// PlaceholderModel builds a box-and-disc stand-in for the gearbox the default
// timeline was authored for. Every name the default timeline animates is
// present. The shells share one material and the gears share another, as a
// glTF export would have them.
func PlaceholderModel() *Node {
	root := NewGroup("gearbox")

	metal := NewMaterial("metal")
	metal.Color = placeholderShell
	brass := NewMaterial("brass")
	brass.Color = placeholderGear

	housing := NewGroup("housing")
	root.AddChild(housing)

	// Shells sit in the four quadrants around the gear axis, in three rings
	// along Z. Their radial offset is the direction they fly out along.
	quadrants := []struct {
		tag  string
		x, y float32
	}{
		{"bl", -1, -1}, {"br", 1, -1}, {"tl", -1, 1}, {"tr", 1, 1},
	}
	rings := []struct {
		prefix string
		z      float32
		half   mgl32.Vec3
	}{
		{"cap_%s", 1.1, mgl32.Vec3{0.45, 0.45, 0.08}},
		{"shell_%s_1", 0.55, mgl32.Vec3{0.45, 0.45, 0.25}},
		{"shell_%s_3", -0.55, mgl32.Vec3{0.45, 0.45, 0.25}},
	}
	for _, ring := range rings {
		for _, q := range quadrants {
			m := NewMesh(fmt.Sprintf(ring.prefix, q.tag), metal)
			m.Position = mgl32.Vec3{q.x * 0.5, q.y * 0.5, ring.z}
			m.Bounds = boxAround(ring.half)
			housing.AddChild(m)
		}
	}

	middle := NewMesh("shell_2", metal)
	middle.Bounds = boxAround(mgl32.Vec3{0.95, 0.95, 0.25})
	housing.AddChild(middle)

	shellGear := NewMesh("shell_gear", metal)
	shellGear.Position = mgl32.Vec3{0, 0, -1.05}
	shellGear.Bounds = boxAround(mgl32.Vec3{0.95, 0.95, 0.1})
	housing.AddChild(shellGear)

	train := NewGroup("train")
	root.AddChild(train)

	capMat := NewMaterial("cap")
	capMat.Color = placeholderCap
	capDisc := NewMesh("cap_1", capMat)
	capDisc.Position = mgl32.Vec3{0, 0, 1.25}
	capDisc.Bounds = boxAround(mgl32.Vec3{0.3, 0.3, 0.04})
	train.AddChild(capDisc)

	gears := []struct {
		name   string
		at     mgl32.Vec3
		radius float32
	}{
		{"gear_1", mgl32.Vec3{0, 0, 0.9}, 0.35},
		{"gear_3_shaft", mgl32.Vec3{0, 0, 0.3}, 0.06},
		{"gear_3_disc_1", mgl32.Vec3{0, 0, 0.65}, 0.4},
		{"gear_3_disc_2", mgl32.Vec3{0, 0, 0.45}, 0.3},
		{"gear_3_disc_3", mgl32.Vec3{0, 0, 0.25}, 0.4},
		{"gear_3_disc_4", mgl32.Vec3{0, 0, 0.05}, 0.3},
		{"gear_5", mgl32.Vec3{0.45, 0.2, -0.1}, 0.25},
		{"gear_6", mgl32.Vec3{-0.4, 0.3, -0.2}, 0.3},
		{"gear_6_1", mgl32.Vec3{-0.4, 0.3, -0.3}, 0.2},
		{"gear_6_2", mgl32.Vec3{-0.4, 0.3, -0.4}, 0.15},
		{"gear_6_3", mgl32.Vec3{-0.4, 0.3, -0.5}, 0.1},
		{"gear_7", mgl32.Vec3{0.3, -0.4, -0.45}, 0.25},
		{"gear_8", mgl32.Vec3{0, 0, -0.6}, 0.35},
		{"gear_10", mgl32.Vec3{-0.3, -0.35, -0.75}, 0.2},
		{"gear_12", mgl32.Vec3{0, 0, -0.9}, 0.4},
	}
	for _, g := range gears {
		m := NewMesh(g.name, brass)
		m.Position = g.at
		m.Bounds = boxAround(mgl32.Vec3{g.radius, g.radius, 0.04})
		train.AddChild(m)
	}
	return root
}
