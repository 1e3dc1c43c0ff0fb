package entity

import (
	"fmt"

	"github.com/milk9111/piggysouls/ecs"
	"github.com/milk9111/piggysouls/ecs/component"
	"github.com/milk9111/piggysouls/levels"
)

// LoadLevelToWorld creates one static box entity per level box and registers
// each with the world's physics world, creating one if needed.
func LoadLevelToWorld(w *ecs.World, lvl *levels.Level) ([]ecs.Entity, error) {
	if lvl == nil {
		return nil, fmt.Errorf("level: nil level")
	}
	pw := w.PhysicsWorld()
	if pw == nil {
		pw = ecs.NewPhysicsWorld()
		w.SetPhysicsWorld(pw)
	}

	out := make([]ecs.Entity, 0, len(lvl.Boxes))
	for i, b := range lvl.Boxes {
		e := ecs.CreateEntity(w)
		transform := component.NewTransform(b.Position())
		transform.Rotation = b.Rotation()

		if err := ecs.Add(w, e, component.LevelGeometryTagComponent.Kind(), &component.LevelGeometryTag{Name: b.Name}); err != nil {
			return out, fmt.Errorf("level: box %d: add tag: %w", i, err)
		}
		if err := ecs.Add(w, e, component.TransformComponent.Kind(), transform); err != nil {
			return out, fmt.Errorf("level: box %d: add transform: %w", i, err)
		}
		if err := ecs.Add(w, e, component.ColliderComponent.Kind(), &component.Collider{Shape: component.ColliderBox, HalfExtents: b.Half()}); err != nil {
			return out, fmt.Errorf("level: box %d: add collider: %w", i, err)
		}
		if err := ecs.Add(w, e, component.RigidBodyComponent.Kind(), &component.RigidBody{Static: true}); err != nil {
			return out, fmt.Errorf("level: box %d: add rigid body: %w", i, err)
		}

		pw.AddStaticBox(e, transform.Position, transform.Rotation, b.Half())
		out = append(out, e)
	}
	return out, nil
}

// ClearLevel destroys every level geometry entity.
func ClearLevel(w *ecs.World) int {
	n := 0
	for _, e := range w.Query(component.LevelGeometryTagComponent.Kind()) {
		if ecs.DestroyEntity(w, e) {
			n++
		}
	}
	return n
}
