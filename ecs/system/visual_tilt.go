package system

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/piggysouls/common"
	"github.com/milk9111/piggysouls/ecs"
	"github.com/milk9111/piggysouls/ecs/component"
)

// VisualTiltSystem leans rendered models into the slope they stand on.
type VisualTiltSystem struct{}

func NewVisualTiltSystem() *VisualTiltSystem {
	return &VisualTiltSystem{}
}

func (s *VisualTiltSystem) Update(w *ecs.World) {
	dt := w.Delta()
	ecs.ForEach4(w,
		component.GroundSensorComponent.Kind(),
		component.VisualTiltComponent.Kind(),
		component.TransformComponent.Kind(),
		component.RenderTransformComponent.Kind(),
		func(_ ecs.Entity, gs *component.GroundSensor, tilt *component.VisualTilt, t *component.Transform, rt *component.RenderTransform) {
			target := TiltTarget(t.Rotation, gs.Normal, tilt.FlatEpsilon)
			rt.Rotation = common.Slerp(rt.Rotation, target, tilt.Rate*dt)
		})
}

// TiltTarget keeps the heading of rotation and pitches it about the local
// right axis so local up follows the normal's forward lean. Sideways lean is
// dropped.
func TiltTarget(rotation mgl64.Quat, normal mgl64.Vec3, flatEpsilon float64) mgl64.Quat {
	f := rotation.Rotate(common.Forward)
	heading := common.YawRotation(math.Atan2(f.X(), f.Z()))
	if normal.Sub(common.Up).LenSqr() < flatEpsilon {
		return heading
	}

	forward := heading.Rotate(common.Forward)
	pitch := math.Atan2(normal.Dot(forward), normal.Y())
	return heading.Mul(mgl64.QuatRotate(pitch, common.Right)).Normalize()
}
