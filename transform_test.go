package scrollrig

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

const epsilon = 1e-4

func assertNear(t *testing.T, name string, got, want float32) {
	t.Helper()
	if math.Abs(float64(got-want)) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func assertVec(t *testing.T, name string, got, want mgl32.Vec3) {
	t.Helper()
	for i := range got {
		if math.Abs(float64(got[i]-want[i])) > epsilon {
			t.Errorf("%s = %v, want %v", name, got, want)
			return
		}
	}
}

// assertQuat compares orientations, treating q and -q as equal.
func assertQuat(t *testing.T, name string, got, want mgl32.Quat) {
	t.Helper()
	if !got.OrientationEqualThreshold(want, epsilon) {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

// --- computeLocalMatrix ---

func TestLocalMatrixIdentity(t *testing.T) {
	n := NewGroup("test")
	got := computeLocalMatrix(n)
	if !got.ApproxEqualThreshold(mgl32.Ident4(), epsilon) {
		t.Errorf("identity = %v", got)
	}
}

func TestLocalMatrixTranslation(t *testing.T) {
	n := NewGroup("test")
	n.Position = mgl32.Vec3{10, 20, 30}
	got := computeLocalMatrix(n)
	assertVec(t, "translation", got.Col(3).Vec3(), mgl32.Vec3{10, 20, 30})
}

func TestLocalMatrixOrder(t *testing.T) {
	// T * R * S: scale first, then rotate 90° about Z, then translate.
	n := NewGroup("test")
	n.Position = mgl32.Vec3{5, 0, 0}
	n.Rotation = mgl32.QuatRotate(math.Pi/2, mgl32.Vec3{0, 0, 1})
	n.Scale = mgl32.Vec3{2, 2, 2}
	got := transformPoint(computeLocalMatrix(n), mgl32.Vec3{1, 0, 0})
	assertVec(t, "TRS", got, mgl32.Vec3{5, 2, 0})
}

// --- World transforms ---

func TestUpdateWorldTransformHierarchy(t *testing.T) {
	root := NewGroup("root")
	child := NewGroup("child")
	root.AddChild(child)
	root.Position = mgl32.Vec3{1, 0, 0}
	child.Position = mgl32.Vec3{0, 2, 0}

	updateWorldTransform(root, mgl32.Ident4(), false)

	assertVec(t, "child world", child.WorldPosition(), mgl32.Vec3{1, 2, 0})
	if root.transformDirty || child.transformDirty {
		t.Error("nodes should be clean after update")
	}
}

func TestUpdateWorldTransformSkipsClean(t *testing.T) {
	root := NewGroup("root")
	updateWorldTransform(root, mgl32.Ident4(), false)

	// Change the field without marking dirty: the cached matrix must be kept.
	root.Position = mgl32.Vec3{9, 9, 9}
	updateWorldTransform(root, mgl32.Ident4(), false)
	assertVec(t, "cached", root.WorldPosition(), mgl32.Vec3{})

	root.MarkDirty()
	updateWorldTransform(root, mgl32.Ident4(), false)
	assertVec(t, "recomputed", root.WorldPosition(), mgl32.Vec3{9, 9, 9})
}

func TestUpdateWorldMatrixParents(t *testing.T) {
	root := NewGroup("root")
	mid := NewGroup("mid")
	leaf := NewGroup("leaf")
	root.AddChild(mid)
	mid.AddChild(leaf)
	root.SetPosition(mgl32.Vec3{0, 0, 3})
	mid.SetPosition(mgl32.Vec3{1, 0, 0})

	// Without refreshing parents the stale identity parent matrix is used.
	leaf.UpdateWorldMatrix(false, false)
	assertVec(t, "stale", leaf.WorldPosition(), mgl32.Vec3{})

	leaf.UpdateWorldMatrix(true, false)
	assertVec(t, "fresh", leaf.WorldPosition(), mgl32.Vec3{1, 0, 3})
}

func TestUpdateWorldMatrixChildren(t *testing.T) {
	root := NewGroup("root")
	child := NewGroup("child")
	root.AddChild(child)
	child.SetPosition(mgl32.Vec3{0, 1, 0})
	root.UpdateWorldMatrix(false, true)

	root.SetPosition(mgl32.Vec3{4, 0, 0})
	root.UpdateWorldMatrix(false, true)
	assertVec(t, "child", child.WorldPosition(), mgl32.Vec3{4, 1, 0})
}

func TestUpdateWorldMatrixLeavesChildrenDirty(t *testing.T) {
	root := NewGroup("root")
	child := NewGroup("child")
	root.AddChild(child)
	child.SetPosition(mgl32.Vec3{0, 1, 0})
	updateWorldTransform(root, mgl32.Ident4(), false)

	root.SetPosition(mgl32.Vec3{2, 0, 0})
	root.UpdateWorldMatrix(false, false)
	if !child.transformDirty {
		t.Fatal("child should be dirty once its parent moved")
	}
	// The root is clean now; the walk must still reach the child.
	updateWorldTransform(root, mgl32.Ident4(), false)
	assertVec(t, "child", child.WorldPosition(), mgl32.Vec3{2, 1, 0})
}

// --- Coordinate conversion ---

func TestLocalWorldRoundTrip(t *testing.T) {
	root := NewGroup("root")
	child := NewGroup("child")
	root.AddChild(child)
	root.SetPose(Pose{
		Position:    mgl32.Vec3{1, 2, 3},
		Orientation: QuatFromEulerDeg(30, 45, 60),
	})
	child.SetScale(mgl32.Vec3{2, 0.5, 1})
	child.SetPosition(mgl32.Vec3{-1, 0, 2})
	root.UpdateWorldMatrix(false, true)

	p := mgl32.Vec3{0.3, -0.7, 1.1}
	w := child.LocalToWorld(p)
	assertVec(t, "round trip", child.WorldToLocal(w), p)
}

func TestWorldToLocalSingular(t *testing.T) {
	n := NewGroup("flat")
	n.SetScale(mgl32.Vec3{0, 0, 0})
	n.UpdateWorldMatrix(false, false)

	// A zero-scale node has no inverse; identity is used instead.
	p := mgl32.Vec3{1, 2, 3}
	assertVec(t, "singular", n.WorldToLocal(p), p)
}

func TestWorldBounds(t *testing.T) {
	n := NewMesh("box")
	n.Bounds = Box{Min: mgl32.Vec3{-1, -1, -1}, Max: mgl32.Vec3{1, 1, 1}}
	n.SetPosition(mgl32.Vec3{10, 0, 0})
	n.SetScale(mgl32.Vec3{2, 1, 1})
	n.UpdateWorldMatrix(false, false)

	b := n.WorldBounds()
	assertVec(t, "min", b.Min, mgl32.Vec3{8, -1, -1})
	assertVec(t, "max", b.Max, mgl32.Vec3{12, 1, 1})
}

func TestBoxUnion(t *testing.T) {
	a := Box{Min: mgl32.Vec3{0, 0, 0}, Max: mgl32.Vec3{1, 1, 1}}
	b := Box{Min: mgl32.Vec3{-1, 0.5, 0}, Max: mgl32.Vec3{0.5, 2, 0.5}}
	u := a.Union(b)
	assertVec(t, "min", u.Min, mgl32.Vec3{-1, 0, 0})
	assertVec(t, "max", u.Max, mgl32.Vec3{1, 2, 1})
	if got := (Box{}).Union(a); got != a {
		t.Errorf("empty union = %v, want %v", got, a)
	}
}
