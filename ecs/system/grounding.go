package system

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/piggysouls/common"
	"github.com/milk9111/piggysouls/ecs"
	"github.com/milk9111/piggysouls/ecs/component"
)

// GroundSensorSystem casts each controller's shrunken collider downward and
// classifies what it finds.
type GroundSensorSystem struct{}

func NewGroundSensorSystem() *GroundSensorSystem {
	return &GroundSensorSystem{}
}

// GroundContact is the classification of one tick's cast hits.
type GroundContact struct {
	Candidate bool
	Grounded  bool
	Normal    mgl64.Vec3
	Angle     float64
	Class     component.GroundClass
}

var down = mgl64.Vec3{0, -1, 0}

func (s *GroundSensorSystem) Update(w *ecs.World) {
	pw := w.PhysicsWorld()
	if pw == nil {
		return
	}

	ecs.ForEach4(w,
		component.GroundSensorComponent.Kind(),
		component.CharacterControllerComponent.Kind(),
		component.TransformComponent.Kind(),
		component.ColliderComponent.Kind(),
		func(e ecs.Entity, gs *component.GroundSensor, cc *component.CharacterController, t *component.Transform, col *component.Collider) {
			hits := pw.CastShape(*col, cc.CastScale, t.Position, t.Rotation, down, cc.CastDistance, cc.CastMaxHits, ecs.ExcludeEntities(e))
			normals := make([]mgl64.Vec3, 0, len(hits))
			for _, hit := range hits {
				normals = append(normals, hit.Normal)
			}

			contact := ClassifyGround(normals, t.Rotation.Rotate(common.Forward), cc.MaxSlopeAngle, cc.VisualSlopeLeniency)

			gs.WasGrounded = gs.Grounded
			gs.HasContact = len(hits) > 0
			gs.BestNormal = contact.Normal
			gs.SlopeAngle = contact.Angle
			gs.Class = contact.Class
			gs.ContactNormal = common.Up
			switch {
			case contact.Candidate:
				gs.ContactNormal = contact.Normal
			case gs.HasContact:
				gs.ContactNormal = common.SafeNormalize(hits[0].Normal, common.Up)
			}
			gs.Normal = SmoothNormal(gs.Normal, contact.Normal, gs.HasContact, cc)

			grounded := contact.Grounded
			p, isPlayer := ecs.Get(w, e, component.PlayerComponent.Kind())
			if isPlayer && p.JumpLatched {
				rb, ok := ecs.Get(w, e, component.RigidBodyComponent.Kind())
				switch {
				case ok && rb.LinearVelocity.Y() > 0:
					grounded = false
				case grounded:
					p.JumpLatched = false
				}
			}
			gs.Grounded = grounded

			if !isPlayer {
				return
			}
			p.CurrentSlopeAngle = 0
			if gs.HasContact {
				p.CurrentSlopeAngle = common.AngleBetween(gs.ContactNormal, common.Up)
			}
			p.OnSteepSlope = gs.HasContact && p.CurrentSlopeAngle > p.MaxTraversableSlope

			switch {
			case gs.WasGrounded && !grounded:
				if !p.JumpLatched {
					p.CoyoteTimer = p.CoyoteTime
				}
				w.Emit(ecs.EventLeftGround, e)
			case !gs.WasGrounded && grounded:
				w.Emit(ecs.EventLanded, e)
			}
		})
}

// ClassifyGround picks the ground normal from a set of hit normals. Hits
// steeper than leniency × maxSlope are ignored. Among the rest the flattest
// effective angle wins, where surfaces rising ahead of heading are scored a
// little flatter than they are. The body is grounded only if the winner's
// real angle is within maxSlope.
func ClassifyGround(normals []mgl64.Vec3, heading mgl64.Vec3, maxSlope, leniency float64) GroundContact {
	res := GroundContact{Normal: common.Up, Class: component.GroundNone}
	if len(normals) == 0 {
		return res
	}

	flatHeading := common.SafeNormalize(common.Flat(heading), common.Forward)
	best := math.Inf(1)
	for _, raw := range normals {
		n := common.SafeNormalize(raw, common.Up)
		angle := common.AngleBetween(n, common.Up)
		if angle > leniency*maxSlope {
			continue
		}

		effective := angle
		downhill := common.SafeNormalize(common.Flat(n), mgl64.Vec3{})
		if downhill.LenSqr() > 0 && flatHeading.Dot(downhill) < 0 {
			ratio := 1.0
			if maxSlope > 0 {
				ratio = math.Min(angle/maxSlope, 1)
			}
			effective = angle * (0.9 - 0.1*ratio)
		}

		if effective < best {
			best = effective
			res.Candidate = true
			res.Normal = n
			res.Angle = angle
		}
	}

	switch {
	case !res.Candidate:
		res.Class = component.GroundTooSteep
	case res.Angle <= maxSlope:
		res.Grounded = true
		res.Class = component.GroundWalkable
	default:
		res.Class = component.GroundVisualOnly
	}
	return res
}

// SmoothNormal blends the tracked normal toward target. Large changes blend
// fast, small ones slowly; with no contact at all it drifts back to up.
func SmoothNormal(current, target mgl64.Vec3, hasContact bool, cc *component.CharacterController) mgl64.Vec3 {
	rate := cc.NormalBlendReturn
	if !hasContact {
		target = common.Up
	} else if common.AngleBetween(current, target) > cc.NormalBlendThreshold {
		rate = cc.NormalBlendFast
	} else {
		rate = cc.NormalBlendSlow
	}
	return common.SafeNormalize(common.LerpVec3(current, target, rate), common.Up)
}
