package system

import (
	"github.com/milk9111/piggysouls/ecs"
	"github.com/milk9111/piggysouls/ecs/component"
)

// GravitySystem makes falls heavier than rises.
type GravitySystem struct{}

func NewGravitySystem() *GravitySystem {
	return &GravitySystem{}
}

func (s *GravitySystem) Update(w *ecs.World) {
	ecs.ForEach2(w, component.PlayerComponent.Kind(), component.RigidBodyComponent.Kind(), func(_ ecs.Entity, p *component.Player, rb *component.RigidBody) {
		rb.GravityScale = GravityScale(p, rb.LinearVelocity.Y())
	})
}

func GravityScale(p *component.Player, verticalVelocity float64) float64 {
	if verticalVelocity < 0 {
		return p.BaseGravityScale * p.FallMultiplier
	}
	return p.BaseGravityScale
}
