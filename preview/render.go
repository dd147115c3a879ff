package preview

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/phanxgames/scrollrig"
)

// minDrawAlpha is the opacity below which a mesh is not drawn at all.
const minDrawAlpha = 1.0 / 255

// boxEdges lists the corner pairs of a box's twelve edges, indexed the way
// scrollrig.Box.Corners orders them.
var boxEdges = [12][2]int{
	{0, 1}, {2, 3}, {4, 5}, {6, 7}, // along X
	{0, 2}, {1, 3}, {4, 6}, {5, 7}, // along Y
	{0, 4}, {1, 5}, {2, 6}, {3, 7}, // along Z
}

// lineCommand is a single stroked edge emitted during scene traversal.
type lineCommand struct {
	From, To  mgl32.Vec2
	Color     color.NRGBA
	Depth     float32
	treeOrder int
}

// Renderer draws the visible meshes of a tree as wireframe bounding boxes,
// farthest first.
type Renderer struct {
	StrokeWidth float32
	Background  color.Color

	commands []lineCommand
	sortBuf  []lineCommand
}

// NewRenderer creates a renderer with a one-pixel stroke on a dark background.
func NewRenderer() *Renderer {
	return &Renderer{
		StrokeWidth: 1,
		Background:  color.NRGBA{0x14, 0x16, 0x1a, 0xff},
	}
}

// Draw clears screen and strokes every visible mesh under root through cam.
// World matrices must be current (Scene.Update refreshes them).
func (r *Renderer) Draw(screen *ebiten.Image, root *scrollrig.Node, cam *Camera) {
	screen.Fill(r.Background)
	r.collect(root, cam)
	r.mergeSort()
	for _, cmd := range r.commands {
		vector.StrokeLine(screen, cmd.From[0], cmd.From[1], cmd.To[0], cmd.To[1], r.StrokeWidth, cmd.Color, true)
	}
}

// collect rebuilds the command list for the current frame.
func (r *Renderer) collect(root *scrollrig.Node, cam *Camera) {
	r.commands = r.commands[:0]
	if root == nil {
		return
	}
	treeOrder := 0
	r.traverse(root, cam, &treeOrder)
}

// traverse walks the tree depth-first. An invisible node hides its subtree.
func (r *Renderer) traverse(n *scrollrig.Node, cam *Camera, treeOrder *int) {
	if !n.Visible {
		return
	}
	if n.IsMesh() && !n.Bounds.Empty() {
		r.emitMesh(n, cam, treeOrder)
	}
	for _, child := range n.Children() {
		r.traverse(child, cam, treeOrder)
	}
}

func (r *Renderer) emitMesh(n *scrollrig.Node, cam *Camera, treeOrder *int) {
	base, opacity, ok := meshAppearance(n)
	if !ok || opacity < minDrawAlpha {
		return
	}
	clr := toNRGBA(base, opacity)

	var screen [8]mgl32.Vec2
	var visible [8]bool
	var depth float32
	for i, c := range n.Bounds.Corners() {
		var d float32
		screen[i], d, visible[i] = cam.WorldToScreen(n.LocalToWorld(c))
		depth += d
	}
	depth /= 8

	*treeOrder++
	for _, e := range boxEdges {
		if !visible[e[0]] || !visible[e[1]] {
			continue
		}
		r.commands = append(r.commands, lineCommand{
			From:      screen[e[0]],
			To:        screen[e[1]],
			Color:     clr,
			Depth:     depth,
			treeOrder: *treeOrder,
		})
	}
}

// meshAppearance picks the color of the first material slot and the highest
// opacity across slots. ok is false when every slot is empty.
func meshAppearance(n *scrollrig.Node) (c scrollrig.Color, opacity float32, ok bool) {
	for _, m := range n.Materials {
		if m == nil {
			continue
		}
		if !ok {
			c = m.Color
			ok = true
		}
		opacity = max(opacity, m.Opacity)
	}
	return c, opacity, ok
}

// --- Merge sort ---

// commandLessOrEqual returns true if a should draw before or at the same
// position as b: farther first, then tree order. Using <= for treeOrder
// ensures stability.
func commandLessOrEqual(a, b lineCommand) bool {
	if a.Depth != b.Depth {
		return a.Depth > b.Depth
	}
	return a.treeOrder <= b.treeOrder
}

// mergeSort sorts r.commands in-place using r.sortBuf as scratch space.
// Bottom-up merge sort: zero allocations after the sort buffer reaches high-water mark.
func (r *Renderer) mergeSort() {
	n := len(r.commands)
	if n <= 1 {
		return
	}
	if cap(r.sortBuf) < n {
		r.sortBuf = make([]lineCommand, n)
	}
	r.sortBuf = r.sortBuf[:n]

	a := r.commands
	b := r.sortBuf
	swapped := false

	for width := 1; width < n; width *= 2 {
		for i := 0; i < n; i += 2 * width {
			lo := i
			mid := min(lo+width, n)
			hi := min(lo+2*width, n)
			mergeRun(a, b, lo, mid, hi)
		}
		a, b = b, a
		swapped = !swapped
	}

	if swapped {
		copy(r.commands, r.sortBuf)
	}
}

// mergeRun merges two sorted runs [lo, mid) and [mid, hi) from src into dst.
func mergeRun(src, dst []lineCommand, lo, mid, hi int) {
	i, j, k := lo, mid, lo
	for i < mid && j < hi {
		if commandLessOrEqual(src[i], src[j]) {
			dst[k] = src[i]
			i++
		} else {
			dst[k] = src[j]
			j++
		}
		k++
	}
	for i < mid {
		dst[k] = src[i]
		i++
		k++
	}
	for j < hi {
		dst[k] = src[j]
		j++
		k++
	}
}
