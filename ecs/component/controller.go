package component

import "math"

// CharacterController holds the physics tuning for a driven body.
type CharacterController struct {
	DampingFactor       float64
	JumpImpulse         float64
	MaxSlopeAngle       float64
	VisualSlopeLeniency float64

	CastScale    float64
	CastDistance float64
	CastMaxHits  int

	NormalBlendFast      float64
	NormalBlendSlow      float64
	NormalBlendReturn    float64
	NormalBlendThreshold float64

	TurnRate       float64
	JumpNormalBias float64
}

func DefaultCharacterController() *CharacterController {
	return &CharacterController{
		DampingFactor:        0.9,
		JumpImpulse:          7,
		MaxSlopeAngle:        30 * math.Pi / 180,
		VisualSlopeLeniency:  1.2,
		CastScale:            0.95,
		CastDistance:         0.3,
		CastMaxHits:          5,
		NormalBlendFast:      0.3,
		NormalBlendSlow:      0.15,
		NormalBlendReturn:    0.1,
		NormalBlendThreshold: 0.2,
		TurnRate:             10,
		JumpNormalBias:       0.3,
	}
}

var CharacterControllerComponent = NewComponent[CharacterController]()

// VisualTilt leans the rendered model into the ground normal.
type VisualTilt struct {
	Rate        float64
	FlatEpsilon float64
}

var VisualTiltComponent = NewComponent[VisualTilt]()
