package preview

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/phanxgames/scrollrig"
)

const epsilon = 1e-3

func assertNear(t *testing.T, name string, got, want float32) {
	t.Helper()
	if math.Abs(float64(got-want)) > epsilon {
		t.Errorf("%s = %f, want %f", name, got, want)
	}
}

func frontCamera() *Camera {
	cam := NewCamera(Rect{Width: 800, Height: 600})
	cam.Pitch = 0
	cam.MarkDirty()
	return cam
}

func TestCameraCenterProjection(t *testing.T) {
	cam := frontCamera()
	s, depth, ok := cam.WorldToScreen(mgl32.Vec3{})
	if !ok {
		t.Fatal("target should be in front of the camera")
	}
	assertNear(t, "x", s[0], 400)
	assertNear(t, "y", s[1], 300)
	assertNear(t, "depth", depth, cam.Distance)
}

func TestCameraScreenYPointsDown(t *testing.T) {
	cam := frontCamera()
	up, _, _ := cam.WorldToScreen(mgl32.Vec3{0, 1, 0})
	right, _, _ := cam.WorldToScreen(mgl32.Vec3{1, 0, 0})
	if up[1] >= 300 {
		t.Errorf("world up should be above center, got y=%f", up[1])
	}
	if right[0] <= 400 {
		t.Errorf("world +X should be right of center, got x=%f", right[0])
	}
}

func TestCameraBehindEye(t *testing.T) {
	cam := frontCamera()
	if _, _, ok := cam.WorldToScreen(mgl32.Vec3{0, 0, 10}); ok {
		t.Error("point behind the eye should not project")
	}
}

func TestCameraViewportOffset(t *testing.T) {
	cam := frontCamera()
	cam.SetViewport(Rect{X: 100, Y: 50, Width: 800, Height: 600})
	s, _, _ := cam.WorldToScreen(mgl32.Vec3{})
	assertNear(t, "x", s[0], 500)
	assertNear(t, "y", s[1], 350)
}

func TestCameraFrameFitsBox(t *testing.T) {
	cam := NewCamera(Rect{Width: 800, Height: 600})
	box := scrollrig.Box{Min: mgl32.Vec3{-1, 2, -1}, Max: mgl32.Vec3{1, 4, 1}}
	cam.Frame(box)
	if cam.Target != (mgl32.Vec3{0, 3, 0}) {
		t.Errorf("Target = %v, want box center", cam.Target)
	}
	for i, c := range box.Corners() {
		s, _, ok := cam.WorldToScreen(c)
		if !ok || !cam.Viewport.Contains(s[0], s[1]) {
			t.Errorf("corner %d at %v not in viewport", i, s)
		}
	}
}

func TestCameraFrameEmptyBox(t *testing.T) {
	cam := NewCamera(Rect{Width: 800, Height: 600})
	cam.Frame(scrollrig.Box{})
	if cam.Distance != 6 {
		t.Errorf("Distance = %f, empty box should leave camera alone", cam.Distance)
	}
}

func TestCameraOrbitClampsPitch(t *testing.T) {
	cam := NewCamera(Rect{Width: 800, Height: 600})
	cam.Orbit(0.5, 10)
	if cam.Pitch != maxPitch {
		t.Errorf("Pitch = %f, want %f", cam.Pitch, maxPitch)
	}
	if cam.Yaw != 0.5 {
		t.Errorf("Yaw = %f, want 0.5", cam.Yaw)
	}
	cam.Orbit(0, -20)
	if cam.Pitch != -maxPitch {
		t.Errorf("Pitch = %f, want %f", cam.Pitch, -maxPitch)
	}
}

func TestCameraEyeDistance(t *testing.T) {
	cam := NewCamera(Rect{Width: 800, Height: 600})
	cam.Orbit(1.2, 0.4)
	assertNear(t, "eye distance", cam.Eye().Sub(cam.Target).Len(), cam.Distance)
}

func TestCameraDolly(t *testing.T) {
	cam := NewCamera(Rect{Width: 800, Height: 600})
	cam.DollyTo(3, 0.3, nil)
	cam.update(0.1)
	if cam.Distance <= 3 || cam.Distance >= 6 {
		t.Errorf("mid-dolly Distance = %f, want between 3 and 6", cam.Distance)
	}
	for i := 0; i < 4; i++ {
		cam.update(0.1)
	}
	assertNear(t, "Distance", cam.Distance, 3)
	if cam.dolly != nil {
		t.Error("finished dolly should be cleared")
	}
}

func TestCameraDollyClamps(t *testing.T) {
	cam := NewCamera(Rect{Width: 800, Height: 600})
	cam.DollyTo(1000, 0.1, nil)
	cam.update(1)
	assertNear(t, "Distance", cam.Distance, maxDistance)
}
