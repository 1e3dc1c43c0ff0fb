package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	Up      = mgl64.Vec3{0, 1, 0}
	Right   = mgl64.Vec3{1, 0, 0}
	Forward = mgl64.Vec3{0, 0, 1}
)

// Gravity is the world gravity acceleration, scaled per body.
const Gravity = -9.81

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func LerpVec3(a, b mgl64.Vec3, t float64) mgl64.Vec3 {
	return a.Add(b.Sub(a).Mul(t))
}

// SafeNormalize returns v scaled to unit length, or fallback when v is too
// short to have a direction.
func SafeNormalize(v, fallback mgl64.Vec3) mgl64.Vec3 {
	l := v.Len()
	if l < 1e-9 || math.IsNaN(l) {
		return fallback
	}
	return v.Mul(1 / l)
}

// ClampLength2 shortens v to at most max, keeping its direction.
func ClampLength2(v mgl64.Vec2, max float64) mgl64.Vec2 {
	l := v.Len()
	if l <= max || l == 0 {
		return v
	}
	return v.Mul(max / l)
}

// AngleBetween is the unsigned angle between two vectors, 0 when either is
// degenerate.
func AngleBetween(a, b mgl64.Vec3) float64 {
	la, lb := a.Len(), b.Len()
	if la < 1e-9 || lb < 1e-9 {
		return 0
	}
	return math.Acos(Clamp(a.Dot(b)/(la*lb), -1, 1))
}

// Flat drops the vertical component.
func Flat(v mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X(), 0, v.Z()}
}

// SmoothNudge moves current toward target with exponential decay. It is frame
// rate independent: two half steps land where one full step does.
func SmoothNudge(current, target mgl64.Vec3, decayRate, dt float64) mgl64.Vec3 {
	return LerpVec3(current, target, 1-math.Exp(-decayRate*dt))
}

func YawRotation(yaw float64) mgl64.Quat {
	return mgl64.QuatRotate(yaw, Up)
}

// OrbitRotation is yaw about world Y applied after pitch about local X.
func OrbitRotation(yaw, pitch float64) mgl64.Quat {
	return YawRotation(yaw).Mul(mgl64.QuatRotate(pitch, Right))
}

// YawFromQuat extracts the heading of a look rotation, whose local forward is
// -Z.
func YawFromQuat(q mgl64.Quat) float64 {
	f := q.Rotate(mgl64.Vec3{0, 0, -1})
	if f.X()*f.X()+f.Z()*f.Z() < 1e-12 {
		// Looking straight up or down; recover heading from local up instead.
		u := q.Rotate(Up)
		if f.Y() < 0 {
			return math.Atan2(-u.X(), -u.Z())
		}
		return math.Atan2(u.X(), u.Z())
	}
	return math.Atan2(-f.X(), -f.Z())
}

// LookRotation orients local -Z along dir with no roll.
func LookRotation(dir mgl64.Vec3) mgl64.Quat {
	d := SafeNormalize(dir, mgl64.Vec3{0, 0, -1})
	yaw := math.Atan2(-d.X(), -d.Z())
	pitch := math.Asin(Clamp(d.Y(), -1, 1))
	return YawRotation(yaw).Mul(mgl64.QuatRotate(pitch, Right)).Normalize()
}

// LookAt orients an object at eye to face target.
func LookAt(eye, target mgl64.Vec3) mgl64.Quat {
	return LookRotation(target.Sub(eye))
}

// FacingRotation turns local +Z toward dir around the Y axis.
func FacingRotation(dir mgl64.Vec3) mgl64.Quat {
	return YawRotation(math.Atan2(dir.X(), dir.Z()))
}

// Slerp interpolates along the shorter arc with t clamped to [0, 1].
func Slerp(a, b mgl64.Quat, t float64) mgl64.Quat {
	t = Clamp(t, 0, 1)
	if a.Dot(b) < 0 {
		b = b.Scale(-1)
	}
	return mgl64.QuatSlerp(a, b, t).Normalize()
}
