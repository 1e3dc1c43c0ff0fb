package component

import "github.com/go-gl/mathgl/mgl64"

// GroundClass is the debug classification of the best ground contact.
type GroundClass int

const (
	GroundNone GroundClass = iota
	GroundWalkable
	GroundVisualOnly
	GroundTooSteep
)

func (c GroundClass) String() string {
	switch c {
	case GroundWalkable:
		return "grounded"
	case GroundVisualOnly:
		return "visual-only"
	case GroundTooSteep:
		return "too steep"
	default:
		return "airborne"
	}
}

// GroundSensor is rewritten every tick by the ground sensing system.
type GroundSensor struct {
	Grounded    bool
	WasGrounded bool
	HasContact  bool
	Normal      mgl64.Vec3
	BestNormal  mgl64.Vec3
	SlopeAngle  float64
	Class       GroundClass

	// ContactNormal is the raw normal under the body even when it is too
	// steep to be a candidate; steep-slope sliding follows it.
	ContactNormal mgl64.Vec3
}

func NewGroundSensor() *GroundSensor {
	up := mgl64.Vec3{0, 1, 0}
	return &GroundSensor{Normal: up, BestNormal: up, ContactNormal: up}
}

var GroundSensorComponent = NewComponent[GroundSensor]()
