package system

import "github.com/milk9111/piggysouls/ecs"

// NewControllerScheduler wires the per-tick pipeline: input, player state,
// physics, camera, then visual tilt.
func NewControllerScheduler(device Device) *ecs.Scheduler {
	s := ecs.NewScheduler()
	s.AddTo(ecs.StageInput, NewInputSystem(device))
	s.AddTo(ecs.StageState, NewPlayerStateSystem())

	s.AddTo(ecs.StagePhysics, NewGravitySystem())
	s.AddTo(ecs.StagePhysics, NewGroundSensorSystem())
	s.AddTo(ecs.StagePhysics, NewMovementSystem())
	s.AddTo(ecs.StagePhysics, NewDampingSystem())
	s.AddTo(ecs.StagePhysics, NewPhysicsSystem())

	s.AddTo(ecs.StageCamera, NewCameraRigSystem())
	s.AddTo(ecs.StagePresentation, NewVisualTiltSystem())
	return s
}
