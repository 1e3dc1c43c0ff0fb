package system

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/piggysouls/common"
	"github.com/milk9111/piggysouls/ecs"
	"github.com/milk9111/piggysouls/ecs/component"
	"github.com/stretchr/testify/require"
)

func TestTiltTarget(t *testing.T) {
	const eps = 0.001

	t.Run("flat ground keeps heading", func(t *testing.T) {
		heading := common.FacingRotation(mgl64.Vec3{1, 0, 0})
		tilted := heading.Mul(mgl64.QuatRotate(0.3, common.Right))
		got := TiltTarget(tilted, common.Up, eps)
		requireVec3Near(t, common.Up, got.Rotate(common.Up), 1e-9)
		requireVec3Near(t, mgl64.Vec3{1, 0, 0}, got.Rotate(common.Forward), 1e-9)
	})

	t.Run("facing down the slope leans with it", func(t *testing.T) {
		n := slopeNormal(20)
		got := TiltTarget(mgl64.QuatIdent(), n, eps)
		requireVec3Near(t, n, got.Rotate(common.Up), 1e-9)
	})

	t.Run("facing across the slope stays upright", func(t *testing.T) {
		got := TiltTarget(common.FacingRotation(mgl64.Vec3{1, 0, 0}), slopeNormal(20), eps)
		requireVec3Near(t, common.Up, got.Rotate(common.Up), 1e-9)
	})

	t.Run("facing up the slope leans back", func(t *testing.T) {
		n := slopeNormal(20)
		got := TiltTarget(common.FacingRotation(mgl64.Vec3{0, 0, -1}), n, eps)
		up := got.Rotate(common.Up)
		requireVec3Near(t, n, up, 1e-9)
		f := got.Rotate(common.Forward)
		require.Less(t, f.Z(), 0.0)
		require.Greater(t, f.Y(), 0.0, "nose points uphill")
	})
}

func TestVisualTiltSystemConverges(t *testing.T) {
	w := ecs.NewWorld()
	e := ecs.CreateEntity(w)
	gs := component.NewGroundSensor()
	gs.Normal = slopeNormal(20)
	rt := &component.RenderTransform{Rotation: mgl64.QuatIdent()}
	tr := component.NewTransform(mgl64.Vec3{})
	require.NoError(t, ecs.Add(w, e, component.GroundSensorComponent.Kind(), gs))
	require.NoError(t, ecs.Add(w, e, component.VisualTiltComponent.Kind(), &component.VisualTilt{Rate: 8, FlatEpsilon: 0.001}))
	require.NoError(t, ecs.Add(w, e, component.TransformComponent.Kind(), tr))
	require.NoError(t, ecs.Add(w, e, component.RenderTransformComponent.Kind(), rt))

	s := ecs.NewScheduler(NewVisualTiltSystem())
	w.Tick(s, testDT)
	first := common.AngleBetween(rt.Rotation.Rotate(common.Up), common.Up)
	require.Greater(t, first, 0.0)
	require.Less(t, first, mgl64.DegToRad(20))

	for i := 0; i < 240; i++ {
		w.Tick(s, testDT)
	}
	requireVec3Near(t, gs.Normal, rt.Rotation.Rotate(common.Up), 1e-4)
	require.Equal(t, mgl64.QuatIdent(), tr.Rotation, "the physics rotation is never tilted")

	gs.Normal = common.Up
	for i := 0; i < 240; i++ {
		w.Tick(s, testDT)
	}
	require.InDelta(t, 0, common.AngleBetween(rt.Rotation.Rotate(common.Up), common.Up), 1e-3)
}
