package component

import "github.com/go-gl/mathgl/mgl64"

// Transform is the physics-owned pose of an entity. Rotation is only written
// by movement (facing) and the camera rig (look-at).
type Transform struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
	Scale    mgl64.Vec3
}

func NewTransform(pos mgl64.Vec3) *Transform {
	return &Transform{Position: pos, Rotation: mgl64.QuatIdent(), Scale: mgl64.Vec3{1, 1, 1}}
}

var TransformComponent = NewComponent[Transform]()

// RenderTransform is the rotation the renderer should draw the model with.
// Visual tilt writes here so physics never sees the lean.
type RenderTransform struct {
	Rotation mgl64.Quat
}

var RenderTransformComponent = NewComponent[RenderTransform]()
