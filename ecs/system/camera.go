package system

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/piggysouls/common"
	"github.com/milk9111/piggysouls/ecs"
	"github.com/milk9111/piggysouls/ecs/component"
)

// SpatialQuery is the subset of the physics world the camera rig needs.
type SpatialQuery interface {
	CastRay(origin, dir mgl64.Vec3, maxDist float64, filter ecs.QueryFilter) (ecs.ShapeHit, bool)
	CastSphere(origin, dir mgl64.Vec3, radius, maxDist float64, filter ecs.QueryFilter) (ecs.ShapeHit, bool)
	SphereIntersections(center mgl64.Vec3, radius float64, filter ecs.QueryFilter) []ecs.Entity
}

// CameraRigSystem orbits the camera around the player, keeps it out of level
// geometry and points it at the player.
type CameraRigSystem struct{}

func NewCameraRigSystem() *CameraRigSystem {
	return &CameraRigSystem{}
}

func (cs *CameraRigSystem) Update(w *ecs.World) {
	player, ok := w.Player()
	if !ok {
		return
	}
	camera, ok := w.Camera()
	if !ok {
		return
	}
	playerTransform, ok := ecs.Get(w, player, component.TransformComponent.Kind())
	if !ok {
		return
	}
	camTransform, ok := ecs.Get(w, camera, component.TransformComponent.Kind())
	if !ok {
		return
	}
	cam, ok := ecs.Get(w, camera, component.ThirdPersonCameraComponent.Kind())
	if !ok {
		return
	}
	col, ok := ecs.Get(w, camera, component.CameraCollisionComponent.Kind())
	if !ok {
		col = component.DefaultCameraCollision()
	}
	rig, ok := ecs.Get(w, camera, component.CameraRigStateComponent.Kind())
	if !ok {
		rig = &component.CameraRigState{}
		if err := ecs.Add(w, camera, component.CameraRigStateComponent.Kind(), rig); err != nil {
			return
		}
	}

	dt := w.Delta()
	if in, ok := ecs.Get(w, player, component.InputComponent.Kind()); ok {
		ApplyLook(cam, in, dt)
	}
	ClampCamera(cam)

	playerPos := playerTransform.Position
	ideal, focus := OrbitTarget(cam, playerPos)

	wasColliding := rig.Colliding
	result := CameraResult{Target: ideal, Colliding: false}
	if pw := w.PhysicsWorld(); pw != nil {
		result = ResolveCameraCollision(pw, player, playerPos, camTransform.Position, ideal, cam, col)
	}

	smoothness := cam.Smoothness
	if result.Colliding {
		smoothness *= col.CollisionSmoothingMultiplier
	}
	camTransform.Position = common.SmoothNudge(camTransform.Position, result.Target, smoothness, dt)
	camTransform.Rotation = common.LookAt(camTransform.Position, focus)

	rig.Ideal = ideal
	rig.Focus = focus
	rig.Target = result.Target
	rig.Colliding = result.Colliding
	rig.FellBack = result.FellBack
	rig.EffectiveDistance = result.Target.Sub(playerPos).Len()

	if result.Colliding && !wasColliding {
		w.Emit(ecs.EventCameraBlock, camera)
	}
}

// ApplyLook turns mouse and right-stick motion into yaw, pitch and zoom.
// Mouse look and wheel zoom only apply while the window has focus; the
// gamepad shoulders zoom regardless.
func ApplyLook(cam *component.ThirdPersonCamera, in *component.Input, dt float64) {
	if cam == nil || in == nil {
		return
	}

	if in.Focused {
		dx, dy := in.MouseDelta.X(), in.MouseDelta.Y()
		if cam.InvertX {
			dx = -dx
		}
		if cam.InvertY {
			dy = -dy
		}
		cam.Yaw -= dx * cam.RotationSpeed
		cam.Pitch += dy * cam.RotationSpeed
		cam.Distance -= in.WheelDelta * cam.ZoomSpeed
	}

	if in.HasGamepad {
		rx, ry := in.RightStick.X(), in.RightStick.Y()
		if math.Abs(rx) > cam.StickDeadzone || math.Abs(ry) > cam.StickDeadzone {
			dx, dy := rx, -ry
			if cam.InvertX {
				dx = -dx
			}
			if cam.InvertY {
				dy = -dy
			}
			scale := cam.GamepadSensitivity * dt * 60
			cam.Yaw -= dx * scale
			cam.Pitch += dy * scale
		}
		cam.Distance -= in.ZoomAxis * cam.ZoomSpeed * dt * 60
	}

	ClampCamera(cam)
}

func ClampCamera(cam *component.ThirdPersonCamera) {
	cam.Pitch = common.Clamp(cam.Pitch, cam.MinPitch, cam.MaxPitch)
	cam.Distance = common.Clamp(cam.Distance, cam.MinDistance, cam.MaxDistance)
}

// OrbitTarget returns the unobstructed camera position and the point the
// camera looks at.
func OrbitTarget(cam *component.ThirdPersonCamera, playerPos mgl64.Vec3) (ideal, focus mgl64.Vec3) {
	offset := common.OrbitRotation(cam.Yaw, cam.Pitch).Rotate(mgl64.Vec3{0, cam.HeightOffset, cam.Distance})
	ideal = playerPos.Sub(offset)
	focus = playerPos.Add(mgl64.Vec3{0, cam.HeightOffset * 0.5, 0})
	return ideal, focus
}

type CameraResult struct {
	Target    mgl64.Vec3
	Colliding bool
	FellBack  bool
}

// ResolveCameraCollision moves the ideal camera position out of geometry.
// A sphere swept from the player toward the ideal position pulls the camera
// in short of the first obstruction, never nearer than the minimum fraction
// of the orbit distance. Vertical probes then keep floor and ceiling
// clearance, and if the camera would still sit inside something it falls back
// to a close, raised position along the current camera-to-player line.
func ResolveCameraCollision(q SpatialQuery, player ecs.Entity, playerPos, current, ideal mgl64.Vec3, cam *component.ThirdPersonCamera, col *component.CameraCollision) CameraResult {
	filter := ecs.ExcludeEntities(player)
	res := CameraResult{Target: ideal}

	toIdeal := ideal.Sub(playerPos)
	if length := toIdeal.Len(); length > 1e-6 {
		dir := toIdeal.Mul(1 / length)
		if hit, ok := q.CastSphere(playerPos, dir, col.Radius, length, filter); ok {
			dist := math.Max(hit.Distance-col.Clearance, col.MinDistanceFraction*cam.Distance)
			if dist < length {
				res.Target = playerPos.Add(dir.Mul(dist))
				res.Colliding = true
			}
		}
	}

	if hit, ok := q.CastRay(res.Target, mgl64.Vec3{0, -1, 0}, col.VerticalProbe, filter); ok && hit.Distance < col.FloorClearance {
		res.Target[1] += col.FloorClearance - hit.Distance
	}
	if hit, ok := q.CastRay(res.Target, common.Up, col.VerticalProbe, filter); ok && hit.Distance < col.CeilingClearance {
		res.Target[1] -= col.CeilingClearance - hit.Distance
	}

	if len(q.SphereIntersections(res.Target, col.Radius, filter)) > 0 {
		fallback := common.SafeNormalize(playerPos.Sub(ideal), common.Forward)
		safeDir := common.SafeNormalize(playerPos.Sub(current), fallback)
		res.Target = playerPos.
			Sub(safeDir.Mul(cam.Distance * col.SafeDistanceFraction)).
			Add(mgl64.Vec3{0, cam.HeightOffset * col.SafeHeightFraction, 0})
		res.Colliding = true
		res.FellBack = true
	}

	return res
}
