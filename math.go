package scrollrig

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween/ease"
)

// DegToRad converts an angle in degrees to radians.
func DegToRad(deg float32) float32 {
	return mgl32.DegToRad(deg)
}

// Clamp01 clamps v into [0, 1].
func Clamp01(v float32) float32 {
	return mgl32.Clamp(v, 0, 1)
}

// Lerp interpolates between a and b. The endpoints are reproduced exactly at
// t == 0 and t == 1.
func Lerp(a, b, t float32) float32 {
	return a*(1-t) + b*t
}

// LerpVec3 interpolates component-wise between a and b.
func LerpVec3(a, b mgl32.Vec3, t float32) mgl32.Vec3 {
	return mgl32.Vec3{Lerp(a[0], b[0], t), Lerp(a[1], b[1], t), Lerp(a[2], b[2], t)}
}

// SlerpQuat spherically interpolates between a and b along the shortest arc.
// t <= 0 returns a and t >= 1 returns b unchanged.
func SlerpQuat(a, b mgl32.Quat, t float32) mgl32.Quat {
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}
	if a.Dot(b) < 0 {
		b = b.Scale(-1)
	}
	return mgl32.QuatSlerp(a, b, t)
}

// QuatFromEulerYXZ builds an orientation from Euler angles in radians applied
// in Y, X, Z order (yaw, pitch, roll), i.e. R = Ry * Rx * Rz.
func QuatFromEulerYXZ(x, y, z float32) mgl32.Quat {
	qy := mgl32.QuatRotate(y, mgl32.Vec3{0, 1, 0})
	qx := mgl32.QuatRotate(x, mgl32.Vec3{1, 0, 0})
	qz := mgl32.QuatRotate(z, mgl32.Vec3{0, 0, 1})
	return qy.Mul(qx).Mul(qz).Normalize()
}

// QuatFromEulerDeg is QuatFromEulerYXZ with angles given in degrees.
func QuatFromEulerDeg(x, y, z float32) mgl32.Quat {
	return QuatFromEulerYXZ(DegToRad(x), DegToRad(y), DegToRad(z))
}

// EaseInOut is the shared cubic ease-in-out: 4t³ below one half and
// 1 - (-2t+2)³/2 above. Input is clamped to [0, 1].
func EaseInOut(t float32) float32 {
	return applyEase(ease.InOutCubic, t)
}

// applyEase evaluates a gween easing function as a unit curve on [0, 1].
func applyEase(fn ease.TweenFunc, t float32) float32 {
	t = Clamp01(t)
	if fn == nil {
		return ease.InOutCubic(t, 0, 1, 1)
	}
	return fn(t, 0, 1, 1)
}

// easings maps configuration names to gween easing curves.
var easings = map[string]ease.TweenFunc{
	"linear":     ease.Linear,
	"inQuad":     ease.InQuad,
	"outQuad":    ease.OutQuad,
	"inOutQuad":  ease.InOutQuad,
	"inCubic":    ease.InCubic,
	"outCubic":   ease.OutCubic,
	"inOutCubic": ease.InOutCubic,
	"inQuart":    ease.InQuart,
	"outQuart":   ease.OutQuart,
	"inOutQuart": ease.InOutQuart,
	"inSine":     ease.InSine,
	"outSine":    ease.OutSine,
	"inOutSine":  ease.InOutSine,
	"inExpo":     ease.InExpo,
	"outExpo":    ease.OutExpo,
	"inOutExpo":  ease.InOutExpo,
}

// EaseByName returns the easing curve registered under name. An empty name
// selects inOutCubic.
func EaseByName(name string) (ease.TweenFunc, error) {
	if name == "" {
		return ease.InOutCubic, nil
	}
	fn, ok := easings[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEase, name)
	}
	return fn, nil
}

// EaseNames lists the registered easing names in sorted order.
func EaseNames() []string {
	names := make([]string, 0, len(easings))
	for name := range easings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func finite32(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func finiteVec3(v mgl32.Vec3) bool {
	return finite32(v[0]) && finite32(v[1]) && finite32(v[2])
}

func finitePose(p Pose) bool {
	return finiteVec3(p.Position) && finite32(p.Orientation.W) && finiteVec3(p.Orientation.V)
}
