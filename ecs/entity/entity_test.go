package entity

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/piggysouls/ecs"
	"github.com/milk9111/piggysouls/ecs/component"
	"github.com/milk9111/piggysouls/ecs/system"
	"github.com/milk9111/piggysouls/levels"
	"github.com/milk9111/piggysouls/prefabs"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool {
	return &b
}

func TestNewPlayerDefaults(t *testing.T) {
	w := ecs.NewWorld()
	spawn := mgl64.Vec3{1, 2, 3}
	e, err := NewPlayer(w, spawn, nil)
	require.NoError(t, err)

	got, ok := w.Player()
	require.True(t, ok)
	require.Equal(t, e, got)

	tr, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	require.True(t, ok)
	require.Equal(t, spawn, tr.Position)

	p, ok := ecs.Get(w, e, component.PlayerComponent.Kind())
	require.True(t, ok)
	require.Equal(t, p.MaxStamina, p.Stamina)
	require.Equal(t, p.WalkSpeed, p.CurrentSpeed)

	rb, _ := ecs.Get(w, e, component.RigidBodyComponent.Kind())
	require.Equal(t, p.BaseGravityScale, rb.GravityScale)

	col, _ := ecs.Get(w, e, component.ColliderComponent.Kind())
	require.Equal(t, component.ColliderCapsule, col.Shape)

	for _, has := range []bool{
		ecs.Has(w, e, component.PlayerTagComponent.Kind()),
		ecs.Has(w, e, component.RenderTransformComponent.Kind()),
		ecs.Has(w, e, component.CharacterControllerComponent.Kind()),
		ecs.Has(w, e, component.GroundSensorComponent.Kind()),
		ecs.Has(w, e, component.VisualTiltComponent.Kind()),
		ecs.Has(w, e, component.InputComponent.Kind()),
		ecs.Has(w, e, component.IntentBufferComponent.Kind()),
	} {
		require.True(t, has)
	}
}

func TestApplyPlayerTuningKeepsDefaultsForZeroValues(t *testing.T) {
	p := component.DefaultPlayer()
	cc := component.DefaultCharacterController()
	tilt := &component.VisualTilt{Rate: 1}

	spec := &prefabs.PlayerSpec{
		Movement: prefabs.MovementSpec{WalkSpeed: 150, CanMoveWhileBlocking: boolPtr(false)},
		Slope:    prefabs.SlopeSpec{MaxAngleDeg: 45, MaxTraversableAngle: 40},
		Stamina:  prefabs.StaminaSpec{Max: 50},
		Ground:   prefabs.GroundSensorSpec{MaxHits: 3},
		Tilt:     prefabs.TiltSpec{Rate: 6},
	}
	ApplyPlayerTuning(spec, p, cc, tilt)

	require.Equal(t, 150.0, p.WalkSpeed)
	require.Equal(t, 150.0, p.CurrentSpeed)
	require.Equal(t, 350.0, p.RunSpeed)
	require.False(t, p.CanMoveWhileBlocking)
	require.Equal(t, 50.0, p.MaxStamina)
	require.Equal(t, 50.0, p.Stamina, "stamina is clamped to the new maximum")
	require.InDelta(t, 40*math.Pi/180, p.MaxTraversableSlope, 1e-12)
	require.InDelta(t, 45*math.Pi/180, cc.MaxSlopeAngle, 1e-12)
	require.Equal(t, 3, cc.CastMaxHits)
	require.Equal(t, 0.9, cc.DampingFactor)
	require.Equal(t, 6.0, tilt.Rate)

	ApplyPlayerTuning(nil, p, cc, tilt)
	require.Equal(t, 150.0, p.WalkSpeed)
}

func TestNewCameraStartsAtOrbitPosition(t *testing.T) {
	w := ecs.NewWorld()
	target := mgl64.Vec3{0, 1, 0}
	spec := &prefabs.CameraSpec{Distance: 8, Pitch: 3, Yaw: 0.25}
	e, err := NewCamera(w, target, spec)
	require.NoError(t, err)

	got, ok := w.Camera()
	require.True(t, ok)
	require.Equal(t, e, got)

	cam, _ := ecs.Get(w, e, component.ThirdPersonCameraComponent.Kind())
	require.Equal(t, 8.0, cam.Distance)
	require.Equal(t, cam.MaxPitch, cam.Pitch, "pitch is clamped on creation")
	require.Equal(t, 0.25, cam.Yaw)

	tr, _ := ecs.Get(w, e, component.TransformComponent.Kind())
	rig, _ := ecs.Get(w, e, component.CameraRigStateComponent.Kind())
	require.Equal(t, rig.Ideal, tr.Position)
	require.InDelta(t, math.Hypot(cam.Distance, cam.HeightOffset), rig.EffectiveDistance, 1e-9)

	forward := tr.Rotation.Rotate(mgl64.Vec3{0, 0, -1})
	require.InDelta(t, 1.0, forward.Dot(rig.Focus.Sub(tr.Position).Normalize()), 1e-9)
}

func TestApplyCameraTuningOnReloadKeepsOrbit(t *testing.T) {
	cam := component.DefaultThirdPersonCamera()
	cam.Yaw = 2
	cam.Distance = 7
	col := component.DefaultCameraCollision()

	ApplyCameraTuning(&prefabs.CameraSpec{
		Yaw:       0,
		Distance:  3,
		InvertY:   boolPtr(true),
		Collision: prefabs.CameraCollisionSpec{Radius: 0.5},
	}, cam, col, false)

	require.Equal(t, 2.0, cam.Yaw)
	require.Equal(t, 7.0, cam.Distance)
	require.True(t, cam.InvertY)
	require.Equal(t, 0.5, col.Radius)
	require.Equal(t, 0.2, col.Clearance)
}

func TestLoadLevelToWorld(t *testing.T) {
	lvl, err := levels.LoadLevelFromFS("arena")
	require.NoError(t, err)

	w := ecs.NewWorld()
	boxes, err := LoadLevelToWorld(w, lvl)
	require.NoError(t, err)
	require.Len(t, boxes, len(lvl.Boxes))
	require.NotNil(t, w.PhysicsWorld())
	require.Equal(t, len(lvl.Boxes), w.PhysicsWorld().StaticCount())

	tag, ok := ecs.Get(w, boxes[0], component.LevelGeometryTagComponent.Kind())
	require.True(t, ok)
	require.Equal(t, "floor", tag.Name)

	rb, _ := ecs.Get(w, boxes[0], component.RigidBodyComponent.Kind())
	require.True(t, rb.Static)

	require.Equal(t, len(lvl.Boxes), ClearLevel(w))
	require.Zero(t, w.PhysicsWorld().StaticCount())

	_, err = LoadLevelToWorld(w, nil)
	require.Error(t, err)
}

func TestNewScene(t *testing.T) {
	s, err := LoadScene("arena")
	require.NoError(t, err)

	p, ok := s.World.Player()
	require.True(t, ok)
	require.Equal(t, s.Player, p)
	c, ok := s.World.Camera()
	require.True(t, ok)
	require.Equal(t, s.Camera, c)

	tr, _ := ecs.Get(s.World, s.Player, component.TransformComponent.Kind())
	require.Equal(t, s.Level.SpawnPoint(), tr.Position)

	s.Retune(&prefabs.PlayerSpec{Movement: prefabs.MovementSpec{RunSpeed: 400}}, nil)
	pl, _ := ecs.Get(s.World, s.Player, component.PlayerComponent.Kind())
	require.Equal(t, 400.0, pl.RunSpeed)

	lvl, err := levels.Parse([]byte("name: tiny\nspawn: [0, 1, 0]\nboxes:\n  - name: floor\n    center: [0, -0.5, 0]\n    half_extents: [5, 0.5, 5]\n"))
	require.NoError(t, err)
	require.NoError(t, s.ReloadLevel(lvl))
	require.Len(t, s.Boxes, 1)
	require.Equal(t, "tiny", s.Level.Name)
	require.Equal(t, 1, s.World.PhysicsWorld().StaticCount())
	require.True(t, s.World.IsAlive(s.Player))
	require.Error(t, s.ReloadLevel(nil))

	_, err = LoadScene("missing")
	require.Error(t, err)
}

func TestNewPropIsNotThePlayer(t *testing.T) {
	w := ecs.NewWorld()
	e, err := NewProp(w, mgl64.Vec3{0, 3, 0}, mgl64.Vec3{0.5, 0.5, 0.5})
	require.NoError(t, err)
	_, ok := w.Player()
	require.False(t, ok)
	require.False(t, ecs.Has(w, e, component.PlayerComponent.Kind()))
	require.True(t, ecs.Has(w, e, component.GroundSensorComponent.Kind()))
}

func TestRollVelocityThroughFullPipeline(t *testing.T) {
	s, err := LoadScene("arena")
	require.NoError(t, err)

	device := &system.StaticDevice{}
	sched := system.NewControllerScheduler(device)
	const dt = 1.0 / 60
	for i := 0; i < 60; i++ {
		s.World.Tick(sched, dt)
	}

	device.Input = component.Input{Right: true, RollPressed: true}
	s.World.Tick(sched, dt)
	device.Input = component.Input{Right: true}

	p, _ := ecs.Get(s.World, s.Player, component.PlayerComponent.Kind())
	rb, _ := ecs.Get(s.World, s.Player, component.RigidBodyComponent.Kind())
	for i := 0; i < 3; i++ {
		s.World.Tick(sched, dt)
		require.True(t, p.IsRolling)
		want := p.RollDirection.Mul(p.RollSpeed * dt)
		require.InDelta(t, want.X(), rb.LinearVelocity.X(), 1e-9)
		require.InDelta(t, want.Z(), rb.LinearVelocity.Z(), 1e-9)
	}
}
