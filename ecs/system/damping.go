package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/piggysouls/ecs"
	"github.com/milk9111/piggysouls/ecs/component"
)

// DampingSystem bleeds off horizontal speed on ticks without a move intent.
// Vertical velocity belongs to gravity and is never damped, and a rolling
// player keeps the exact roll velocity.
type DampingSystem struct{}

func NewDampingSystem() *DampingSystem {
	return &DampingSystem{}
}

func (s *DampingSystem) Update(w *ecs.World) {
	ecs.ForEach3(w,
		component.IntentBufferComponent.Kind(),
		component.CharacterControllerComponent.Kind(),
		component.RigidBodyComponent.Kind(),
		func(e ecs.Entity, buf *component.IntentBuffer, cc *component.CharacterController, rb *component.RigidBody) {
			if buf.Moving() {
				return
			}
			if p, ok := ecs.Get(w, e, component.PlayerComponent.Kind()); ok && p.IsRolling {
				return
			}
			rb.LinearVelocity = Damp(rb.LinearVelocity, cc.DampingFactor)
		})
}

func Damp(v mgl64.Vec3, factor float64) mgl64.Vec3 {
	return mgl64.Vec3{v.X() * factor, v.Y(), v.Z() * factor}
}
