package ecs

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/piggysouls/common"
	"github.com/milk9111/piggysouls/ecs/component"
)

// PhysicsWorld answers spatial queries against level geometry and the dynamic
// bodies registered each tick. Static boxes are indexed by their XZ footprint
// in a Chipmunk space; the 3D tests run on top of that broadphase.
type PhysicsWorld struct {
	space   *cp.Space
	statics map[Entity]*staticBox
	bodies  map[Entity]*dynamicBody
}

// ShapeHit is one result of a ray or shape cast. Normal points out of the hit
// geometry, toward the caster.
type ShapeHit struct {
	Entity   Entity
	Distance float64
	Point    mgl64.Vec3
	Normal   mgl64.Vec3
}

// Contact is a penetration between a body and one other collider.
type Contact struct {
	Entity Entity
	Normal mgl64.Vec3
	Depth  float64
}

// QueryFilter excludes entities from a query.
type QueryFilter struct {
	Exclude []Entity
}

func ExcludeEntities(entities ...Entity) QueryFilter {
	return QueryFilter{Exclude: entities}
}

func (f QueryFilter) excludes(e Entity) bool {
	for _, x := range f.Exclude {
		if x == e {
			return true
		}
	}
	return false
}

type staticBox struct {
	entity Entity
	center mgl64.Vec3
	rot    mgl64.Quat
	inv    mgl64.Quat
	half   mgl64.Vec3
	shape  *cp.Shape
}

type sphere struct {
	center mgl64.Vec3
	radius float64
}

type dynamicBody struct {
	entity  Entity
	spheres []sphere
}

const queryMargin = 0.01

// NewPhysicsWorld creates an empty physics world.
func NewPhysicsWorld() *PhysicsWorld {
	return &PhysicsWorld{
		space:   cp.NewSpace(),
		statics: make(map[Entity]*staticBox),
		bodies:  make(map[Entity]*dynamicBody),
	}
}

// Space returns the underlying Chipmunk space used for the broadphase.
func (pw *PhysicsWorld) Space() *cp.Space {
	if pw == nil {
		return nil
	}
	return pw.space
}

// AddStaticBox registers an oriented box. Re-adding an entity replaces it.
func (pw *PhysicsWorld) AddStaticBox(e Entity, center mgl64.Vec3, rot mgl64.Quat, half mgl64.Vec3) {
	if pw == nil || pw.space == nil {
		return
	}
	pw.removeStatic(e)

	rot = rot.Normalize()
	box := &staticBox{entity: e, center: center, rot: rot, inv: rot.Inverse(), half: half}

	// the XZ footprint of the rotated box
	minX, minZ := math.Inf(1), math.Inf(1)
	maxX, maxZ := math.Inf(-1), math.Inf(-1)
	for _, sx := range []float64{-1, 1} {
		for _, sy := range []float64{-1, 1} {
			for _, sz := range []float64{-1, 1} {
				corner := center.Add(rot.Rotate(mgl64.Vec3{sx * half.X(), sy * half.Y(), sz * half.Z()}))
				minX = math.Min(minX, corner.X())
				maxX = math.Max(maxX, corner.X())
				minZ = math.Min(minZ, corner.Z())
				maxZ = math.Max(maxZ, corner.Z())
			}
		}
	}
	shape := cp.NewBox2(pw.space.StaticBody, cp.BB{L: minX, B: minZ, R: maxX, T: maxZ}, 0)
	shape.SetSensor(true)
	shape.UserData = box
	box.shape = shape
	pw.space.AddShape(shape)
	pw.statics[e] = box
}

// SetBody registers or moves a dynamic body so other queries can hit it.
func (pw *PhysicsWorld) SetBody(e Entity, pos mgl64.Vec3, rot mgl64.Quat, c component.Collider) {
	if pw == nil {
		return
	}
	pw.bodies[e] = &dynamicBody{entity: e, spheres: colliderSpheres(c, 1, pos, rot)}
}

// Remove drops every collider owned by the entity.
func (pw *PhysicsWorld) Remove(e Entity) {
	if pw == nil {
		return
	}
	pw.removeStatic(e)
	delete(pw.bodies, e)
}

func (pw *PhysicsWorld) removeStatic(e Entity) {
	box, ok := pw.statics[e]
	if !ok {
		return
	}
	if box.shape != nil {
		pw.space.RemoveShape(box.shape)
	}
	delete(pw.statics, e)
}

// HasStatic reports whether the entity owns a static box.
func (pw *PhysicsWorld) HasStatic(e Entity) bool {
	if pw == nil {
		return false
	}
	_, ok := pw.statics[e]
	return ok
}

// StaticCount returns the number of static boxes.
func (pw *PhysicsWorld) StaticCount() int {
	if pw == nil {
		return 0
	}
	return len(pw.statics)
}

// CastRay returns the closest hit along a ray.
func (pw *PhysicsWorld) CastRay(origin, dir mgl64.Vec3, maxDist float64, filter QueryFilter) (ShapeHit, bool) {
	return pw.CastSphere(origin, dir, 0, maxDist, filter)
}

// CastSphere sweeps a sphere and returns the closest hit.
func (pw *PhysicsWorld) CastSphere(origin, dir mgl64.Vec3, radius, maxDist float64, filter QueryFilter) (ShapeHit, bool) {
	hits := pw.castSpheres([]sphere{{center: origin, radius: radius}}, dir, maxDist, 1, filter)
	if len(hits) == 0 {
		return ShapeHit{}, false
	}
	return hits[0], true
}

// CastShape sweeps a collider scaled by scale and returns up to maxHits hits,
// at most one per entity, closest first.
func (pw *PhysicsWorld) CastShape(c component.Collider, scale float64, pos mgl64.Vec3, rot mgl64.Quat, dir mgl64.Vec3, maxDist float64, maxHits int, filter QueryFilter) []ShapeHit {
	return pw.castSpheres(colliderSpheres(c, scale, pos, rot), dir, maxDist, maxHits, filter)
}

// SphereIntersections returns the entities overlapping a sphere.
func (pw *PhysicsWorld) SphereIntersections(center mgl64.Vec3, radius float64, filter QueryFilter) []Entity {
	if pw == nil {
		return nil
	}
	var out []Entity
	for _, box := range pw.staticCandidates(center, center, radius) {
		if filter.excludes(box.entity) {
			continue
		}
		if d, _ := box.distance(center); d < radius {
			out = append(out, box.entity)
		}
	}
	for _, body := range pw.bodies {
		if filter.excludes(body.entity) {
			continue
		}
		for _, s := range body.spheres {
			if center.Sub(s.center).Len() < radius+s.radius {
				out = append(out, body.entity)
				break
			}
		}
	}
	return out
}

// Contacts returns the deepest penetration of the collider against each
// static box it overlaps.
func (pw *PhysicsWorld) Contacts(c component.Collider, pos mgl64.Vec3, rot mgl64.Quat, filter QueryFilter) []Contact {
	if pw == nil {
		return nil
	}
	spheres := colliderSpheres(c, 1, pos, rot)
	var out []Contact
	for _, box := range pw.staticCandidates(spheres[0].center, spheres[len(spheres)-1].center, boundingRadius(spheres)) {
		if filter.excludes(box.entity) {
			continue
		}
		best := Contact{Entity: box.entity}
		for _, s := range spheres {
			d, n := box.distance(s.center)
			if depth := s.radius - d; depth > best.Depth {
				best.Depth = depth
				best.Normal = n
			}
		}
		if best.Depth > 0 {
			out = append(out, best)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Depth > out[j].Depth })
	return out
}

func (pw *PhysicsWorld) castSpheres(spheres []sphere, dir mgl64.Vec3, maxDist float64, maxHits int, filter QueryFilter) []ShapeHit {
	if pw == nil || len(spheres) == 0 || maxHits <= 0 {
		return nil
	}
	dir = common.SafeNormalize(dir, mgl64.Vec3{})
	if dir.LenSqr() == 0 {
		return nil
	}

	from, to := spheres[0].center, spheres[len(spheres)-1].center
	reach := boundingRadius(spheres)
	lo := mgl64.Vec3{math.Min(from.X(), to.X()), 0, math.Min(from.Z(), to.Z())}
	hi := mgl64.Vec3{math.Max(from.X(), to.X()), 0, math.Max(from.Z(), to.Z())}
	end := dir.Mul(maxDist)
	lo = mgl64.Vec3{lo.X() + math.Min(0, end.X()), 0, lo.Z() + math.Min(0, end.Z())}
	hi = mgl64.Vec3{hi.X() + math.Max(0, end.X()), 0, hi.Z() + math.Max(0, end.Z())}

	var hits []ShapeHit
	for _, box := range pw.staticCandidates(lo, hi, reach) {
		if filter.excludes(box.entity) {
			continue
		}
		best := ShapeHit{Distance: math.Inf(1)}
		for _, s := range spheres {
			t, n, ok := box.sweepSphere(s.center, dir, s.radius, maxDist)
			if ok && t < best.Distance {
				best = ShapeHit{
					Entity:   box.entity,
					Distance: t,
					Normal:   n,
					Point:    s.center.Add(dir.Mul(t)).Sub(n.Mul(s.radius)),
				}
			}
		}
		if !math.IsInf(best.Distance, 1) {
			hits = append(hits, best)
		}
	}
	for _, body := range pw.bodies {
		if filter.excludes(body.entity) {
			continue
		}
		best := ShapeHit{Distance: math.Inf(1)}
		for _, s := range spheres {
			for _, target := range body.spheres {
				t, n, ok := sweepSphereSphere(s.center, dir, s.radius+target.radius, target.center, maxDist)
				if ok && t < best.Distance {
					best = ShapeHit{
						Entity:   body.entity,
						Distance: t,
						Normal:   n,
						Point:    target.center.Add(n.Mul(target.radius)),
					}
				}
			}
		}
		if !math.IsInf(best.Distance, 1) {
			hits = append(hits, best)
		}
	}

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Distance == hits[j].Distance {
			return hits[i].Entity < hits[j].Entity
		}
		return hits[i].Distance < hits[j].Distance
	})
	if len(hits) > maxHits {
		hits = hits[:maxHits]
	}
	return hits
}

// staticCandidates returns boxes whose XZ footprint touches the given span
// grown by radius.
func (pw *PhysicsWorld) staticCandidates(a, b mgl64.Vec3, radius float64) []*staticBox {
	if pw.space == nil {
		return nil
	}
	bb := cp.BB{
		L: math.Min(a.X(), b.X()) - radius - queryMargin,
		B: math.Min(a.Z(), b.Z()) - radius - queryMargin,
		R: math.Max(a.X(), b.X()) + radius + queryMargin,
		T: math.Max(a.Z(), b.Z()) + radius + queryMargin,
	}
	var out []*staticBox
	pw.space.BBQuery(bb, cp.SHAPE_FILTER_ALL, func(shape *cp.Shape, _ interface{}) {
		if box, ok := shape.UserData.(*staticBox); ok {
			out = append(out, box)
		}
	}, nil)
	sort.Slice(out, func(i, j int) bool { return out[i].entity < out[j].entity })
	return out
}

// colliderSpheres approximates a collider with spheres. Capsules use the two
// cap centers and the midpoint; boxes use their bounding sphere.
func colliderSpheres(c component.Collider, scale float64, pos mgl64.Vec3, rot mgl64.Quat) []sphere {
	if scale <= 0 {
		scale = 1
	}
	switch c.Shape {
	case component.ColliderCapsule:
		axis := rot.Rotate(common.Up).Mul(c.HalfHeight * scale)
		r := c.Radius * scale
		return []sphere{
			{center: pos.Sub(axis), radius: r},
			{center: pos, radius: r},
			{center: pos.Add(axis), radius: r},
		}
	case component.ColliderSphere:
		return []sphere{{center: pos, radius: c.Radius * scale}}
	default:
		return []sphere{{center: pos, radius: c.HalfExtents.Len() * scale}}
	}
}

func boundingRadius(spheres []sphere) float64 {
	r := 0.0
	for _, s := range spheres {
		r = math.Max(r, s.radius)
	}
	return r
}

func (b *staticBox) toLocal(p mgl64.Vec3) mgl64.Vec3 {
	return b.inv.Rotate(p.Sub(b.center))
}

// distance is the signed distance from p to the box surface and the world
// normal pointing from the box toward p.
func (b *staticBox) distance(p mgl64.Vec3) (float64, mgl64.Vec3) {
	lp := b.toLocal(p)
	var closest mgl64.Vec3
	for i := 0; i < 3; i++ {
		closest[i] = common.Clamp(lp[i], -b.half[i], b.half[i])
	}
	diff := lp.Sub(closest)
	if l := diff.Len(); l > 1e-12 {
		return l, b.rot.Rotate(diff.Mul(1 / l))
	}

	axis, depth := 0, math.Inf(1)
	for i := 0; i < 3; i++ {
		if d := b.half[i] - math.Abs(lp[i]); d < depth {
			axis, depth = i, d
		}
	}
	var n mgl64.Vec3
	n[axis] = 1
	if lp[axis] < 0 {
		n[axis] = -1
	}
	return -depth, b.rot.Rotate(n)
}

// sweepSphere finds the first time of impact of a sphere moving along unit
// dir. The slab test against the box grown by radius gives a lower bound that
// conservative advancement then refines around edges and corners.
func (b *staticBox) sweepSphere(origin, dir mgl64.Vec3, radius, maxDist float64) (float64, mgl64.Vec3, bool) {
	if d, n := b.distance(origin); d <= radius {
		return 0, n, true
	}

	lo := b.toLocal(origin)
	ld := b.inv.Rotate(dir)
	tmin, tmax := 0.0, maxDist
	for i := 0; i < 3; i++ {
		e := b.half[i] + radius
		if math.Abs(ld[i]) < 1e-12 {
			if lo[i] < -e || lo[i] > e {
				return 0, mgl64.Vec3{}, false
			}
			continue
		}
		inv := 1 / ld[i]
		t1, t2 := (-e-lo[i])*inv, (e-lo[i])*inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = math.Max(tmin, t1)
		tmax = math.Min(tmax, t2)
		if tmin > tmax {
			return 0, mgl64.Vec3{}, false
		}
	}

	t := tmin
	for i := 0; i < 16; i++ {
		d, n := b.distance(origin.Add(dir.Mul(t)))
		gap := d - radius
		if gap <= 1e-6 {
			return t, n, true
		}
		t += gap
		if t > tmax {
			return 0, mgl64.Vec3{}, false
		}
	}
	d, n := b.distance(origin.Add(dir.Mul(t)))
	if d-radius > 1e-3 {
		return 0, mgl64.Vec3{}, false
	}
	return t, n, true
}

func sweepSphereSphere(origin, dir mgl64.Vec3, radius float64, center mgl64.Vec3, maxDist float64) (float64, mgl64.Vec3, bool) {
	m := origin.Sub(center)
	c := m.Dot(m) - radius*radius
	if c <= 0 {
		return 0, common.SafeNormalize(m, common.Up), true
	}
	b := m.Dot(dir)
	if b > 0 {
		return 0, mgl64.Vec3{}, false
	}
	disc := b*b - c
	if disc < 0 {
		return 0, mgl64.Vec3{}, false
	}
	t := -b - math.Sqrt(disc)
	if t > maxDist {
		return 0, mgl64.Vec3{}, false
	}
	return t, common.SafeNormalize(origin.Add(dir.Mul(t)).Sub(center), common.Up), true
}
