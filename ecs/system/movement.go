package system

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/piggysouls/common"
	"github.com/milk9111/piggysouls/ecs"
	"github.com/milk9111/piggysouls/ecs/component"
)

const flatNormalEpsilon = 0.001

// MovementSystem writes the player's velocity and facing from this tick's
// intents. Directions are relative to the camera's heading.
type MovementSystem struct{}

func NewMovementSystem() *MovementSystem {
	return &MovementSystem{}
}

func (s *MovementSystem) Update(w *ecs.World) {
	player, ok := w.Player()
	if !ok {
		return
	}
	camera, ok := w.Camera()
	if !ok {
		return
	}
	camTransform, ok := ecs.Get(w, camera, component.TransformComponent.Kind())
	if !ok {
		return
	}

	p, ok := ecs.Get(w, player, component.PlayerComponent.Kind())
	if !ok {
		return
	}
	rb, ok := ecs.Get(w, player, component.RigidBodyComponent.Kind())
	if !ok {
		return
	}
	t, ok := ecs.Get(w, player, component.TransformComponent.Kind())
	if !ok {
		return
	}
	cc, ok := ecs.Get(w, player, component.CharacterControllerComponent.Kind())
	if !ok {
		return
	}
	gs, ok := ecs.Get(w, player, component.GroundSensorComponent.Kind())
	if !ok {
		gs = component.NewGroundSensor()
	}
	buf, _ := ecs.Get(w, player, component.IntentBufferComponent.Kind())

	var intents []component.MovementIntent
	if buf != nil {
		intents = buf.Intents
	}

	if ApplyMovement(p, rb, t, gs, cc, intents, common.YawFromQuat(camTransform.Rotation), w.Delta()) {
		w.Emit(ecs.EventJumped, player)
	}
}

// ApplyMovement resolves one tick of movement and reports whether a jump
// fired. Rolling owns horizontal velocity outright; a block that pins the
// player zeroes it; otherwise move intents set it.
func ApplyMovement(p *component.Player, rb *component.RigidBody, t *component.Transform, gs *component.GroundSensor, cc *component.CharacterController, intents []component.MovementIntent, cameraYaw, dt float64) bool {
	v := rb.LinearVelocity

	if p.IsRolling {
		dir := common.SafeNormalize(common.Flat(p.RollDirection), RollDirection(mgl64.Vec2{}, cameraYaw))
		rb.LinearVelocity = mgl64.Vec3{dir.X() * p.RollSpeed * dt, v.Y(), dir.Z() * p.RollSpeed * dt}
		return false
	}

	if p.IsBlocking && !p.CanMoveWhileBlocking {
		rb.LinearVelocity = mgl64.Vec3{0, v.Y(), 0}
		return false
	}

	yaw := common.YawRotation(cameraYaw)
	moved := false
	jumped := false
	for _, intent := range intents {
		switch in := intent.(type) {
		case component.MoveIntent:
			if in.Direction.LenSqr() == 0 {
				continue
			}
			world := yaw.Rotate(mgl64.Vec3{in.Direction.X(), 0, -in.Direction.Y()})
			dir := common.SafeNormalize(world, yaw.Rotate(mgl64.Vec3{0, 0, -1}))
			p.MovementDirection = dir

			factor := 1.0
			if gs.Grounded && gs.Normal.Sub(common.Up).LenSqr() > flatNormalEpsilon {
				factor = SlopeFactor(p, dir, gs.Normal, gs.SlopeAngle)
			}
			speed := p.CurrentSpeed * dt * factor
			v = mgl64.Vec3{world.X() * speed, v.Y(), world.Z() * speed}
			moved = true

			t.Rotation = common.Slerp(t.Rotation, common.FacingRotation(dir), cc.TurnRate*dt)

		case component.JumpIntent:
			if !gs.Grounded && p.CoyoteTimer <= 0 {
				continue
			}
			v[1] = cc.JumpImpulse
			if gs.Grounded {
				v[0] += gs.Normal.X() * cc.JumpImpulse * cc.JumpNormalBias
				v[2] += gs.Normal.Z() * cc.JumpImpulse * cc.JumpNormalBias
			}
			p.CoyoteTimer = 0
			p.JumpLatched = true
			jumped = true
		}
	}

	switch {
	case moved && gs.Grounded && !p.JumpLatched && v.Y() <= 0 && gs.Normal.Sub(common.Up).LenSqr() > flatNormalEpsilon:
		v[1] = math.Min(v.Y(), SnapVelocity(v, gs.Normal)-p.SlopeSnapForce*dt)
	case p.OnSteepSlope && !gs.Grounded && !p.JumpLatched:
		slide := common.SafeNormalize(common.Flat(gs.ContactNormal), mgl64.Vec3{})
		v = v.Add(slide.Mul(p.SteepSlideSpeed * dt))
	}

	rb.LinearVelocity = v
	return jumped
}

// SlopeFactor scales speed by how directly dir climbs or descends the slope,
// weighted by how steep the slope is relative to the traversable limit.
func SlopeFactor(p *component.Player, dir, normal mgl64.Vec3, slopeAngle float64) float64 {
	downhill := common.SafeNormalize(common.Flat(normal), mgl64.Vec3{})
	if downhill.LenSqr() == 0 {
		return 1
	}
	steepness := 1.0
	if p.MaxTraversableSlope > 0 {
		steepness = common.Clamp(slopeAngle/p.MaxTraversableSlope, 0, 1)
	}

	dot := common.Flat(dir).Dot(downhill)
	var factor float64
	if dot < 0 {
		factor = 1 - math.Abs(dot)*p.UphillSlowdownFactor*steepness
	} else {
		factor = 1 + dot*p.DownhillSpeedFactor*steepness
	}
	return common.Clamp(factor, p.MinSlopeFactor, p.MaxSlopeFactor)
}

// SnapVelocity is the vertical speed that keeps horizontal velocity v
// tangent to a surface with the given normal.
func SnapVelocity(v, normal mgl64.Vec3) float64 {
	if normal.Y() < 1e-6 {
		return v.Y()
	}
	return -(normal.X()*v.X() + normal.Z()*v.Z()) / normal.Y()
}
