package entity

import (
	"fmt"

	"github.com/milk9111/piggysouls/ecs"
	"github.com/milk9111/piggysouls/ecs/component"
	"github.com/milk9111/piggysouls/levels"
	"github.com/milk9111/piggysouls/prefabs"
)

// Scene is a populated world: level geometry, one player and its camera.
type Scene struct {
	World  *ecs.World
	Level  *levels.Level
	Player ecs.Entity
	Camera ecs.Entity
	Boxes  []ecs.Entity
}

// NewScene builds a fresh world for lvl. Nil specs use the built-in tuning.
func NewScene(lvl *levels.Level, player *prefabs.PlayerSpec, camera *prefabs.CameraSpec) (*Scene, error) {
	w := ecs.NewWorld()
	w.SetPhysicsWorld(ecs.NewPhysicsWorld())

	boxes, err := LoadLevelToWorld(w, lvl)
	if err != nil {
		return nil, err
	}

	spawn := lvl.SpawnPoint()
	p, err := NewPlayer(w, spawn, player)
	if err != nil {
		return nil, err
	}
	c, err := NewCamera(w, spawn, camera)
	if err != nil {
		return nil, err
	}
	if lvl.CameraYaw != 0 {
		if cam, ok := ecs.Get(w, c, component.ThirdPersonCameraComponent.Kind()); ok {
			cam.Yaw = lvl.CameraYaw
		}
	}

	return &Scene{World: w, Level: lvl, Player: p, Camera: c, Boxes: boxes}, nil
}

// LoadScene loads a level by name together with the player and camera specs.
func LoadScene(levelName string) (*Scene, error) {
	lvl, err := levels.LoadLevelFromFS(levelName)
	if err != nil {
		return nil, err
	}
	playerSpec, err := prefabs.LoadPlayerSpec()
	if err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	cameraSpec, err := prefabs.LoadCameraSpec()
	if err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	return NewScene(lvl, playerSpec, cameraSpec)
}

// ReloadLevel swaps the level geometry in place. The player and camera keep
// their state.
func (s *Scene) ReloadLevel(lvl *levels.Level) error {
	if lvl == nil {
		return fmt.Errorf("scene: nil level")
	}
	ClearLevel(s.World)
	boxes, err := LoadLevelToWorld(s.World, lvl)
	s.Boxes = boxes
	if err != nil {
		return fmt.Errorf("scene: reload %s: %w", lvl.Name, err)
	}
	s.Level = lvl
	return nil
}

// Retune re-applies specs to the live player and camera.
func (s *Scene) Retune(player *prefabs.PlayerSpec, camera *prefabs.CameraSpec) {
	if s == nil || s.World == nil {
		return
	}
	w := s.World
	if player != nil {
		p, _ := ecs.Get(w, s.Player, component.PlayerComponent.Kind())
		cc, _ := ecs.Get(w, s.Player, component.CharacterControllerComponent.Kind())
		tilt, _ := ecs.Get(w, s.Player, component.VisualTiltComponent.Kind())
		ApplyPlayerTuning(player, p, cc, tilt)
	}
	if camera != nil {
		cam, _ := ecs.Get(w, s.Camera, component.ThirdPersonCameraComponent.Kind())
		col, _ := ecs.Get(w, s.Camera, component.CameraCollisionComponent.Kind())
		ApplyCameraTuning(camera, cam, col, false)
	}
}
