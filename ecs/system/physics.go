package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/piggysouls/common"
	"github.com/milk9111/piggysouls/ecs"
	"github.com/milk9111/piggysouls/ecs/component"
)

const contactIterations = 4

// PhysicsSystem is the body integration step: gravity, velocity, and
// push-out against static geometry. It never writes rotation.
type PhysicsSystem struct{}

func NewPhysicsSystem() *PhysicsSystem {
	return &PhysicsSystem{}
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	pw := w.PhysicsWorld()
	if pw == nil {
		return
	}
	dt := w.Delta()

	ps.syncStatics(w, pw)

	ecs.ForEach3(w,
		component.RigidBodyComponent.Kind(),
		component.TransformComponent.Kind(),
		component.ColliderComponent.Kind(),
		func(e ecs.Entity, rb *component.RigidBody, t *component.Transform, col *component.Collider) {
			if rb.Static {
				return
			}
			Integrate(pw, e, rb, t, col, dt)
			pw.SetBody(e, t.Position, t.Rotation, *col)
		})
}

// syncStatics registers static box colliders the physics world has not seen.
func (ps *PhysicsSystem) syncStatics(w *ecs.World, pw *ecs.PhysicsWorld) {
	ecs.ForEach2(w, component.TransformComponent.Kind(), component.ColliderComponent.Kind(), func(e ecs.Entity, t *component.Transform, col *component.Collider) {
		if col.Shape != component.ColliderBox || pw.HasStatic(e) {
			return
		}
		if rb, ok := ecs.Get(w, e, component.RigidBodyComponent.Kind()); ok && !rb.Static {
			return
		}
		pw.AddStaticBox(e, t.Position, t.Rotation, scaledHalfExtents(col.HalfExtents, t.Scale))
	})
}

func scaledHalfExtents(half, scale mgl64.Vec3) mgl64.Vec3 {
	if scale == (mgl64.Vec3{}) {
		return half
	}
	return mgl64.Vec3{half.X() * scale.X(), half.Y() * scale.Y(), half.Z() * scale.Z()}
}

// Integrate advances one body by dt and resolves its penetrations. Velocity
// into a contact is removed so resting bodies do not accumulate fall speed.
func Integrate(pw *ecs.PhysicsWorld, e ecs.Entity, rb *component.RigidBody, t *component.Transform, col *component.Collider, dt float64) {
	v := rb.LinearVelocity
	v[1] += common.Gravity * rb.GravityScale * dt
	t.Position = t.Position.Add(v.Mul(dt))

	filter := ecs.ExcludeEntities(e)
	for i := 0; i < contactIterations; i++ {
		contacts := pw.Contacts(*col, t.Position, t.Rotation, filter)
		if len(contacts) == 0 {
			break
		}
		c := contacts[0]
		t.Position = t.Position.Add(c.Normal.Mul(c.Depth))
		if vn := v.Dot(c.Normal); vn < 0 {
			v = v.Sub(c.Normal.Mul(vn))
		}
	}

	rb.LinearVelocity = v
}
