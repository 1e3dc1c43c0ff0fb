package component

import "github.com/go-gl/mathgl/mgl64"

type ColliderShape int

const (
	ColliderBox ColliderShape = iota
	ColliderSphere
	ColliderCapsule
)

func (s ColliderShape) String() string {
	switch s {
	case ColliderBox:
		return "box"
	case ColliderSphere:
		return "sphere"
	case ColliderCapsule:
		return "capsule"
	default:
		return "unknown"
	}
}

// Collider describes the collision volume in the entity's local space.
// Boxes use HalfExtents, spheres Radius, capsules Radius and HalfHeight (the
// half length of the segment between the cap centers, along local Y).
type Collider struct {
	Shape       ColliderShape
	HalfExtents mgl64.Vec3
	Radius      float64
	HalfHeight  float64
}

var ColliderComponent = NewComponent[Collider]()

// RigidBody is the dynamic state integrated by the physics step.
type RigidBody struct {
	LinearVelocity mgl64.Vec3
	GravityScale   float64
	Static         bool
}

var RigidBodyComponent = NewComponent[RigidBody]()
