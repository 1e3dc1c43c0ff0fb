package system

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/piggysouls/common"
	"github.com/milk9111/piggysouls/ecs"
	"github.com/milk9111/piggysouls/ecs/component"
	"github.com/stretchr/testify/require"
)

func TestApplyLookClampsPitchAndDistance(t *testing.T) {
	cases := []struct {
		name      string
		in        component.Input
		wantPitch float64
		wantDist  float64
	}{
		{"mouse down past limit", component.Input{Focused: true, MouseDelta: mgl64.Vec2{0, 10000}}, 1.4, 5},
		{"mouse up past limit", component.Input{Focused: true, MouseDelta: mgl64.Vec2{0, -10000}}, 0.5, 5},
		{"zoom in past limit", component.Input{Focused: true, WheelDelta: 100}, 0.5, 2},
		{"zoom out past limit", component.Input{Focused: true, WheelDelta: -100}, 0.5, 15},
		{"mouse ignored without focus", component.Input{MouseDelta: mgl64.Vec2{0, 10000}, WheelDelta: 100}, 0.5, 5},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cam := component.DefaultThirdPersonCamera()
			in := c.in
			ApplyLook(cam, &in, testDT)
			require.InDelta(t, c.wantPitch, cam.Pitch, 1e-9)
			require.InDelta(t, c.wantDist, cam.Distance, 1e-9)
		})
	}
}

func TestApplyLookGamepadZoom(t *testing.T) {
	cases := []struct {
		name     string
		in       component.Input
		ticks    int
		wantDist float64
	}{
		{"one tick in", component.Input{HasGamepad: true, ZoomAxis: 1}, 1, 4.5},
		{"one tick out", component.Input{HasGamepad: true, ZoomAxis: -1}, 1, 5.5},
		{"held in stops at min", component.Input{HasGamepad: true, ZoomAxis: 1}, 60, 2},
		{"held out stops at max", component.Input{HasGamepad: true, ZoomAxis: -1}, 60, 15},
		{"works without focus", component.Input{HasGamepad: true, ZoomAxis: 1, Focused: false}, 2, 4},
		{"ignored without gamepad", component.Input{ZoomAxis: 1}, 60, 5},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cam := component.DefaultThirdPersonCamera()
			in := c.in
			for i := 0; i < c.ticks; i++ {
				ApplyLook(cam, &in, testDT)
			}
			require.InDelta(t, c.wantDist, cam.Distance, 1e-9)
		})
	}
}

func TestApplyLookMouseYaw(t *testing.T) {
	cam := component.DefaultThirdPersonCamera()
	ApplyLook(cam, &component.Input{Focused: true, MouseDelta: mgl64.Vec2{100, 0}}, testDT)
	require.InDelta(t, -100*cam.RotationSpeed, cam.Yaw, 1e-12)

	cam = component.DefaultThirdPersonCamera()
	cam.InvertX = true
	ApplyLook(cam, &component.Input{Focused: true, MouseDelta: mgl64.Vec2{100, 0}}, testDT)
	require.InDelta(t, 100*cam.RotationSpeed, cam.Yaw, 1e-12)
}

func TestApplyLookGamepad(t *testing.T) {
	cam := component.DefaultThirdPersonCamera()
	cam.Pitch = 1.0

	// stick y is up-positive; pulling it down raises the orbit
	ApplyLook(cam, &component.Input{HasGamepad: true, RightStick: mgl64.Vec2{0, -1}}, testDT)
	require.InDelta(t, 1.0+cam.GamepadSensitivity, cam.Pitch, 1e-9)

	ApplyLook(cam, &component.Input{HasGamepad: true, RightStick: mgl64.Vec2{1, 0}}, testDT)
	require.InDelta(t, -cam.GamepadSensitivity, cam.Yaw, 1e-9)

	before := *cam
	ApplyLook(cam, &component.Input{HasGamepad: true, RightStick: mgl64.Vec2{0.05, 0.05}}, testDT)
	require.Equal(t, before, *cam, "deadzone")
}

func TestOrbitTarget(t *testing.T) {
	cam := component.DefaultThirdPersonCamera()
	player := mgl64.Vec3{1, 2, 3}
	ideal, focus := OrbitTarget(cam, player)

	require.Equal(t, mgl64.Vec3{1, 2 + cam.HeightOffset/2, 3}, focus)
	require.InDelta(t, math.Hypot(cam.Distance, cam.HeightOffset), ideal.Sub(player).Len(), 1e-9)
	require.Less(t, ideal.Z(), player.Z(), "yaw 0 sits behind the player on -Z")
	require.Greater(t, ideal.Y(), player.Y())

	cam.Yaw = math.Pi / 2
	rotated, _ := OrbitTarget(cam, player)
	require.InDelta(t, player.Z(), rotated.Z(), 1e-9)
	require.InDelta(t, ideal.Y(), rotated.Y(), 1e-9)
}

var wallEntity = ecs.Entity(1)

func newWallWorld() *ecs.PhysicsWorld {
	pw := ecs.NewPhysicsWorld()
	pw.AddStaticBox(wallEntity, mgl64.Vec3{0, 0, -2.5}, mgl64.QuatIdent(), mgl64.Vec3{5, 5, 0.25})
	return pw
}

func TestResolveCameraCollision(t *testing.T) {
	cam := component.DefaultThirdPersonCamera()
	col := component.DefaultCameraCollision()
	player := mgl64.Vec3{}
	ideal, _ := OrbitTarget(cam, player)

	t.Run("clear line of sight", func(t *testing.T) {
		res := ResolveCameraCollision(ecs.NewPhysicsWorld(), 0, player, ideal, ideal, cam, col)
		require.Equal(t, ideal, res.Target)
		require.False(t, res.Colliding)
		require.False(t, res.FellBack)
	})

	t.Run("wall between player and camera", func(t *testing.T) {
		res := ResolveCameraCollision(newWallWorld(), 0, player, ideal, ideal, cam, col)
		require.True(t, res.Colliding)
		require.False(t, res.FellBack)

		dist := res.Target.Sub(player).Len()
		require.Less(t, dist, ideal.Len())
		require.GreaterOrEqual(t, dist, col.MinDistanceFraction*cam.Distance)
		require.InDelta(t, 1.794, dist, 1e-2)
		// still on the player-to-ideal line
		require.InDelta(t, 1.0, res.Target.Normalize().Dot(ideal.Normalize()), 1e-9)
	})

	t.Run("excluded player never blocks", func(t *testing.T) {
		pw := ecs.NewPhysicsWorld()
		pw.AddStaticBox(wallEntity, mgl64.Vec3{0, 0, -2.5}, mgl64.QuatIdent(), mgl64.Vec3{5, 5, 0.25})
		res := ResolveCameraCollision(pw, wallEntity, player, ideal, ideal, cam, col)
		require.False(t, res.Colliding)
	})

	t.Run("falls back when pulled inside geometry", func(t *testing.T) {
		pw := ecs.NewPhysicsWorld()
		pw.AddStaticBox(wallEntity, mgl64.Vec3{0, 1, -3}, mgl64.QuatIdent(), mgl64.Vec3{2, 2, 2})
		current := ideal

		res := ResolveCameraCollision(pw, 0, player, current, ideal, cam, col)
		require.True(t, res.Colliding)
		require.True(t, res.FellBack)

		safeDir := player.Sub(current).Normalize()
		want := player.Sub(safeDir.Mul(cam.Distance * col.SafeDistanceFraction)).Add(mgl64.Vec3{0, cam.HeightOffset * col.SafeHeightFraction, 0})
		requireVec3Near(t, want, res.Target, 1e-9)
	})

	t.Run("floor clearance lifts the camera", func(t *testing.T) {
		pw := ecs.NewPhysicsWorld()
		pw.AddStaticBox(wallEntity, mgl64.Vec3{0, -0.5, 0}, mgl64.QuatIdent(), mgl64.Vec3{20, 0.5, 20})
		low := mgl64.Vec3{0, 0.4, -4}
		res := ResolveCameraCollision(pw, 0, mgl64.Vec3{0, 0.4, 0}, low, low, cam, col)
		require.InDelta(t, col.FloorClearance, res.Target.Y(), 1e-6)
		require.False(t, res.Colliding, "vertical probes do not count as a collision")
	})
}

func newCameraWorld(t *testing.T, pw *ecs.PhysicsWorld) (*ecs.World, ecs.Entity) {
	t.Helper()
	w := ecs.NewWorld()
	w.SetPhysicsWorld(pw)

	player := ecs.CreateEntity(w)
	require.NoError(t, ecs.Add(w, player, component.TransformComponent.Kind(), component.NewTransform(mgl64.Vec3{})))
	w.SetPlayer(player)

	cam := component.DefaultThirdPersonCamera()
	ideal, _ := OrbitTarget(cam, mgl64.Vec3{})
	camera := ecs.CreateEntity(w)
	require.NoError(t, ecs.Add(w, camera, component.TransformComponent.Kind(), component.NewTransform(ideal)))
	require.NoError(t, ecs.Add(w, camera, component.ThirdPersonCameraComponent.Kind(), cam))
	require.NoError(t, ecs.Add(w, camera, component.CameraCollisionComponent.Kind(), component.DefaultCameraCollision()))
	w.SetCamera(camera)
	return w, camera
}

func TestCameraRigSystem(t *testing.T) {
	w, camera := newCameraWorld(t, newWallWorld())
	s := ecs.NewScheduler(NewCameraRigSystem())

	w.Tick(s, testDT)
	w.Tick(s, testDT)

	rig, ok := ecs.Get(w, camera, component.CameraRigStateComponent.Kind())
	require.True(t, ok)
	require.True(t, rig.Colliding)
	require.Less(t, rig.EffectiveDistance, rig.Ideal.Len())

	cam, _ := ecs.Get(w, camera, component.ThirdPersonCameraComponent.Kind())
	require.Equal(t, 5.0, cam.Distance, "collision never rewrites the orbit distance")

	tr, _ := ecs.Get(w, camera, component.TransformComponent.Kind())
	forward := tr.Rotation.Rotate(mgl64.Vec3{0, 0, -1})
	require.InDelta(t, 1.0, forward.Dot(rig.Focus.Sub(tr.Position).Normalize()), 1e-9)

	require.Equal(t, []ecs.EventKind{ecs.EventCameraBlock}, eventKinds(w), "blocked is reported once")
}

func TestCameraRigSmoothsTowardTarget(t *testing.T) {
	w, camera := newCameraWorld(t, ecs.NewPhysicsWorld())
	tr, _ := ecs.Get(w, camera, component.TransformComponent.Kind())
	start := mgl64.Vec3{10, 10, 10}
	tr.Position = start

	w.Tick(ecs.NewScheduler(NewCameraRigSystem()), testDT)

	rig, _ := ecs.Get(w, camera, component.CameraRigStateComponent.Kind())
	cam, _ := ecs.Get(w, camera, component.ThirdPersonCameraComponent.Kind())
	want := common.LerpVec3(start, rig.Target, 1-math.Exp(-cam.Smoothness*testDT))
	requireVec3Near(t, want, tr.Position, 1e-9)
	require.False(t, rig.Colliding)
}

func TestCameraRigWithoutPlayerIsNoop(t *testing.T) {
	w := ecs.NewWorld()
	camera := ecs.CreateEntity(w)
	tr := component.NewTransform(mgl64.Vec3{1, 2, 3})
	require.NoError(t, ecs.Add(w, camera, component.TransformComponent.Kind(), tr))
	require.NoError(t, ecs.Add(w, camera, component.ThirdPersonCameraComponent.Kind(), component.DefaultThirdPersonCamera()))
	w.SetCamera(camera)

	NewCameraRigSystem().Update(w)
	require.Equal(t, mgl64.Vec3{1, 2, 3}, tr.Position)
}
