package ecs

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/piggysouls/ecs/component"
	"github.com/stretchr/testify/require"
)

var (
	floorEntity = makeEntity(1, 0)
	rampEntity  = makeEntity(2, 0)
	farEntity   = makeEntity(3, 0)
	bodyEntity  = makeEntity(4, 0)
)

func newTestPhysicsWorld() *PhysicsWorld {
	pw := NewPhysicsWorld()
	pw.AddStaticBox(floorEntity, mgl64.Vec3{0, -0.5, 0}, mgl64.QuatIdent(), mgl64.Vec3{10, 0.5, 10})
	pw.AddStaticBox(farEntity, mgl64.Vec3{100, 0, 100}, mgl64.QuatIdent(), mgl64.Vec3{1, 1, 1})
	return pw
}

func requireVecNear(t *testing.T, want, got mgl64.Vec3, delta float64) {
	t.Helper()
	for i := 0; i < 3; i++ {
		require.InDelta(t, want[i], got[i], delta, "component %d of %v", i, got)
	}
}

func TestCastRay(t *testing.T) {
	pw := newTestPhysicsWorld()
	down := mgl64.Vec3{0, -1, 0}

	cases := []struct {
		name    string
		origin  mgl64.Vec3
		maxDist float64
		filter  QueryFilter
		hit     bool
		dist    float64
	}{
		{"hits floor", mgl64.Vec3{0, 5, 0}, 10, QueryFilter{}, true, 5},
		{"too short", mgl64.Vec3{0, 5, 0}, 3, QueryFilter{}, false, 0},
		{"excluded", mgl64.Vec3{0, 5, 0}, 10, ExcludeEntities(floorEntity), false, 0},
		{"off the edge", mgl64.Vec3{20, 5, 0}, 10, QueryFilter{}, false, 0},
		{"starts inside", mgl64.Vec3{0, -0.25, 0}, 10, QueryFilter{}, true, 0},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			hit, ok := pw.CastRay(c.origin, down, c.maxDist, c.filter)
			require.Equal(t, c.hit, ok)
			if !c.hit {
				return
			}
			require.Equal(t, floorEntity, hit.Entity)
			require.InDelta(t, c.dist, hit.Distance, 1e-6)
			requireVecNear(t, mgl64.Vec3{0, 1, 0}, hit.Normal, 1e-6)
		})
	}
}

func TestCastSphereStopsAtRadius(t *testing.T) {
	pw := newTestPhysicsWorld()
	hit, ok := pw.CastSphere(mgl64.Vec3{0, 5, 0}, mgl64.Vec3{0, -1, 0}, 0.5, 10, QueryFilter{})
	require.True(t, ok)
	require.InDelta(t, 4.5, hit.Distance, 1e-6)
	requireVecNear(t, mgl64.Vec3{0, 0, 0}, hit.Point, 1e-6)
}

func TestCastRayAgainstRotatedBox(t *testing.T) {
	pw := NewPhysicsWorld()
	rot := mgl64.QuatRotate(math.Pi/4, mgl64.Vec3{1, 0, 0})
	pw.AddStaticBox(rampEntity, mgl64.Vec3{}, rot, mgl64.Vec3{5, 0.5, 5})

	hit, ok := pw.CastRay(mgl64.Vec3{0, 5, 0}, mgl64.Vec3{0, -1, 0}, 10, QueryFilter{})
	require.True(t, ok)
	require.Equal(t, rampEntity, hit.Entity)
	require.InDelta(t, 5-0.5/math.Cos(math.Pi/4), hit.Distance, 1e-3)
	requireVecNear(t, mgl64.Vec3{0, math.Sqrt2 / 2, math.Sqrt2 / 2}, hit.Normal, 1e-3)
}

func TestCastShapeCapsuleReportsOneHitPerEntity(t *testing.T) {
	pw := newTestPhysicsWorld()
	capsule := component.Collider{Shape: component.ColliderCapsule, Radius: 0.5, HalfHeight: 0.5}

	hits := pw.CastShape(capsule, 1, mgl64.Vec3{0, 2, 0}, mgl64.QuatIdent(), mgl64.Vec3{0, -1, 0}, 5, 10, QueryFilter{})
	require.Len(t, hits, 1)
	require.Equal(t, floorEntity, hits[0].Entity)
	require.InDelta(t, 1.0, hits[0].Distance, 1e-6)

	scaled := pw.CastShape(capsule, 0.5, mgl64.Vec3{0, 2, 0}, mgl64.QuatIdent(), mgl64.Vec3{0, -1, 0}, 5, 10, QueryFilter{})
	require.Len(t, scaled, 1)
	require.InDelta(t, 1.5, scaled[0].Distance, 1e-6)
}

func TestCastHitsDynamicBodies(t *testing.T) {
	pw := newTestPhysicsWorld()
	pw.SetBody(bodyEntity, mgl64.Vec3{0, 1, 5}, mgl64.QuatIdent(), component.Collider{Shape: component.ColliderSphere, Radius: 0.5})

	hit, ok := pw.CastRay(mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, 0, 1}, 10, QueryFilter{})
	require.True(t, ok)
	require.Equal(t, bodyEntity, hit.Entity)
	require.InDelta(t, 4.5, hit.Distance, 1e-6)
	requireVecNear(t, mgl64.Vec3{0, 0, -1}, hit.Normal, 1e-6)

	_, ok = pw.CastRay(mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, 0, 1}, 10, ExcludeEntities(bodyEntity))
	require.False(t, ok)

	pw.Remove(bodyEntity)
	_, ok = pw.CastRay(mgl64.Vec3{0, 1, 0}, mgl64.Vec3{0, 0, 1}, 10, QueryFilter{})
	require.False(t, ok)
}

func TestSphereIntersections(t *testing.T) {
	pw := newTestPhysicsWorld()
	require.Equal(t, []Entity{floorEntity}, pw.SphereIntersections(mgl64.Vec3{0, 0.2, 0}, 0.5, QueryFilter{}))
	require.Empty(t, pw.SphereIntersections(mgl64.Vec3{0, 2, 0}, 0.5, QueryFilter{}))
	require.Empty(t, pw.SphereIntersections(mgl64.Vec3{0, 0.2, 0}, 0.5, ExcludeEntities(floorEntity)))
}

func TestContactsPushOutOfFloor(t *testing.T) {
	pw := newTestPhysicsWorld()
	ball := component.Collider{Shape: component.ColliderSphere, Radius: 0.5}

	contacts := pw.Contacts(ball, mgl64.Vec3{0, 0.3, 0}, mgl64.QuatIdent(), QueryFilter{})
	require.Len(t, contacts, 1)
	require.Equal(t, floorEntity, contacts[0].Entity)
	require.InDelta(t, 0.2, contacts[0].Depth, 1e-9)
	requireVecNear(t, mgl64.Vec3{0, 1, 0}, contacts[0].Normal, 1e-9)

	require.Empty(t, pw.Contacts(ball, mgl64.Vec3{0, 0.6, 0}, mgl64.QuatIdent(), QueryFilter{}))
}

func TestStaticBookkeeping(t *testing.T) {
	pw := newTestPhysicsWorld()
	require.Equal(t, 2, pw.StaticCount())
	require.True(t, pw.HasStatic(farEntity))

	// re-adding replaces rather than duplicates
	pw.AddStaticBox(farEntity, mgl64.Vec3{0, 0, 0}, mgl64.QuatIdent(), mgl64.Vec3{1, 1, 1})
	require.Equal(t, 2, pw.StaticCount())

	pw.Remove(farEntity)
	require.False(t, pw.HasStatic(farEntity))
	require.Equal(t, 1, pw.StaticCount())
}

func TestDestroyEntityRemovesColliders(t *testing.T) {
	w := NewWorld()
	pw := NewPhysicsWorld()
	w.SetPhysicsWorld(pw)

	e := CreateEntity(w)
	pw.AddStaticBox(e, mgl64.Vec3{}, mgl64.QuatIdent(), mgl64.Vec3{1, 1, 1})
	require.True(t, pw.HasStatic(e))

	DestroyEntity(w, e)
	require.False(t, pw.HasStatic(e))
}
