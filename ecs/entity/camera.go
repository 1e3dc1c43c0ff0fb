package entity

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/piggysouls/common"
	"github.com/milk9111/piggysouls/ecs"
	"github.com/milk9111/piggysouls/ecs/component"
	"github.com/milk9111/piggysouls/ecs/system"
	"github.com/milk9111/piggysouls/prefabs"
)

// NewCamera creates the orbit camera already in its ideal spot around target
// and registers it as the world's camera.
func NewCamera(w *ecs.World, target mgl64.Vec3, spec *prefabs.CameraSpec) (ecs.Entity, error) {
	cam := component.DefaultThirdPersonCamera()
	col := component.DefaultCameraCollision()
	ApplyCameraTuning(spec, cam, col, true)

	ideal, focus := system.OrbitTarget(cam, target)
	transform := component.NewTransform(ideal)
	transform.Rotation = common.LookAt(ideal, focus)

	camera := ecs.CreateEntity(w)
	if err := ecs.Add(w, camera, component.CameraTagComponent.Kind(), &component.CameraTag{}); err != nil {
		return 0, fmt.Errorf("camera: add camera tag: %w", err)
	}
	if err := ecs.Add(w, camera, component.TransformComponent.Kind(), transform); err != nil {
		return 0, fmt.Errorf("camera: add transform: %w", err)
	}
	if err := ecs.Add(w, camera, component.ThirdPersonCameraComponent.Kind(), cam); err != nil {
		return 0, fmt.Errorf("camera: add third person camera: %w", err)
	}
	if err := ecs.Add(w, camera, component.CameraCollisionComponent.Kind(), col); err != nil {
		return 0, fmt.Errorf("camera: add collision settings: %w", err)
	}
	if err := ecs.Add(w, camera, component.CameraRigStateComponent.Kind(), &component.CameraRigState{
		Ideal:             ideal,
		Target:            ideal,
		Focus:             focus,
		EffectiveDistance: ideal.Sub(target).Len(),
	}); err != nil {
		return 0, fmt.Errorf("camera: add rig state: %w", err)
	}

	w.SetCamera(camera)
	return camera, nil
}
