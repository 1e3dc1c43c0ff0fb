package entity

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/piggysouls/ecs"
	"github.com/milk9111/piggysouls/ecs/component"
	"github.com/milk9111/piggysouls/prefabs"
)

const (
	defaultCapsuleRadius     = 0.5
	defaultCapsuleHalfHeight = 0.5
	playerTiltRate           = 8
	defaultTiltRate          = 5
	defaultFlatEpsilon       = 0.001
)

// NewPlayer assembles a controllable character at spawn and registers it as
// the world's player. A nil spec uses the built-in tuning.
func NewPlayer(w *ecs.World, spawn mgl64.Vec3, spec *prefabs.PlayerSpec) (ecs.Entity, error) {
	p := component.DefaultPlayer()
	cc := component.DefaultCharacterController()
	tilt := &component.VisualTilt{Rate: playerTiltRate, FlatEpsilon: defaultFlatEpsilon}
	ApplyPlayerTuning(spec, p, cc, tilt)
	p.Stamina = p.MaxStamina
	p.CurrentSpeed = p.WalkSpeed

	col := &component.Collider{
		Shape:      component.ColliderCapsule,
		Radius:     defaultCapsuleRadius,
		HalfHeight: defaultCapsuleHalfHeight,
	}
	if spec != nil {
		setIf(&col.Radius, spec.Collider.Radius)
		setIf(&col.HalfHeight, spec.Collider.HalfHeight)
	}

	player := ecs.CreateEntity(w)
	steps := []struct {
		name string
		add  func() error
	}{
		{"player tag", func() error { return ecs.Add(w, player, component.PlayerTagComponent.Kind(), &component.PlayerTag{}) }},
		{"player", func() error { return ecs.Add(w, player, component.PlayerComponent.Kind(), p) }},
		{"transform", func() error { return ecs.Add(w, player, component.TransformComponent.Kind(), component.NewTransform(spawn)) }},
		{"render transform", func() error {
			return ecs.Add(w, player, component.RenderTransformComponent.Kind(), &component.RenderTransform{Rotation: mgl64.QuatIdent()})
		}},
		{"rigid body", func() error {
			return ecs.Add(w, player, component.RigidBodyComponent.Kind(), &component.RigidBody{GravityScale: p.BaseGravityScale})
		}},
		{"collider", func() error { return ecs.Add(w, player, component.ColliderComponent.Kind(), col) }},
		{"controller", func() error { return ecs.Add(w, player, component.CharacterControllerComponent.Kind(), cc) }},
		{"ground sensor", func() error { return ecs.Add(w, player, component.GroundSensorComponent.Kind(), component.NewGroundSensor()) }},
		{"visual tilt", func() error { return ecs.Add(w, player, component.VisualTiltComponent.Kind(), tilt) }},
		{"input", func() error { return ecs.Add(w, player, component.InputComponent.Kind(), &component.Input{}) }},
		{"intent buffer", func() error {
			return ecs.Add(w, player, component.IntentBufferComponent.Kind(), &component.IntentBuffer{})
		}},
	}
	for _, step := range steps {
		if err := step.add(); err != nil {
			ecs.DestroyEntity(w, player)
			return 0, fmt.Errorf("player: add %s: %w", step.name, err)
		}
	}

	w.SetPlayer(player)
	return player, nil
}

// NewProp adds a dynamic box that shares the player's ground sensing and
// visual tilt but is not driven by input.
func NewProp(w *ecs.World, pos, half mgl64.Vec3) (ecs.Entity, error) {
	prop := ecs.CreateEntity(w)
	steps := []struct {
		name string
		add  func() error
	}{
		{"transform", func() error { return ecs.Add(w, prop, component.TransformComponent.Kind(), component.NewTransform(pos)) }},
		{"render transform", func() error {
			return ecs.Add(w, prop, component.RenderTransformComponent.Kind(), &component.RenderTransform{Rotation: mgl64.QuatIdent()})
		}},
		{"rigid body", func() error {
			return ecs.Add(w, prop, component.RigidBodyComponent.Kind(), &component.RigidBody{GravityScale: 1})
		}},
		{"collider", func() error {
			return ecs.Add(w, prop, component.ColliderComponent.Kind(), &component.Collider{Shape: component.ColliderBox, HalfExtents: half})
		}},
		{"controller", func() error {
			return ecs.Add(w, prop, component.CharacterControllerComponent.Kind(), component.DefaultCharacterController())
		}},
		{"ground sensor", func() error { return ecs.Add(w, prop, component.GroundSensorComponent.Kind(), component.NewGroundSensor()) }},
		{"visual tilt", func() error {
			return ecs.Add(w, prop, component.VisualTiltComponent.Kind(), &component.VisualTilt{Rate: defaultTiltRate, FlatEpsilon: defaultFlatEpsilon})
		}},
	}
	for _, step := range steps {
		if err := step.add(); err != nil {
			ecs.DestroyEntity(w, prop)
			return 0, fmt.Errorf("prop: add %s: %w", step.name, err)
		}
	}
	return prop, nil
}
