package component

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Player is the gameplay state of a controllable character. Speeds are scaled
// by the tick delta when written to velocity, so they read as "per second of
// tick" rather than metres per second.
type Player struct {
	WalkSpeed    float64
	RunSpeed     float64
	CurrentSpeed float64

	IsMoving          bool
	IsSprinting       bool
	IsRolling         bool
	IsBlocking        bool
	Exhausted         bool
	MovementDirection mgl64.Vec3

	RollSpeed         float64
	RollDuration      float64
	RollCooldown      float64
	RollTimer         float64
	RollCooldownTimer float64
	RollDirection     mgl64.Vec3
	CanRoll           bool

	Stamina                float64
	MaxStamina             float64
	StaminaRegenRate       float64
	StaminaUseRate         float64
	RollStaminaCost        float64
	BlockStaminaCostPerSec float64
	ExhaustionTimer        float64
	ExhaustionDuration     float64

	CanMoveWhileBlocking bool
	BlockMovementPenalty float64

	CoyoteTime  float64
	CoyoteTimer float64
	JumpLatched bool

	FallMultiplier   float64
	BaseGravityScale float64

	CurrentSlopeAngle    float64
	OnSteepSlope         bool
	MaxTraversableSlope  float64
	UphillSlowdownFactor float64
	DownhillSpeedFactor  float64
	MinSlopeFactor       float64
	MaxSlopeFactor       float64
	SlopeSnapForce       float64
	SteepSlideSpeed      float64
}

// DefaultPlayer returns a player with the stock tuning and full stamina.
func DefaultPlayer() *Player {
	return &Player{
		WalkSpeed:              200,
		RunSpeed:               350,
		CurrentSpeed:           200,
		RollSpeed:              500,
		RollDuration:           0.4,
		RollCooldown:           0.5,
		CanRoll:                true,
		Stamina:                100,
		MaxStamina:             100,
		StaminaRegenRate:       30,
		StaminaUseRate:         15,
		RollStaminaCost:        20,
		BlockStaminaCostPerSec: 5,
		ExhaustionDuration:     1.0,
		CanMoveWhileBlocking:   true,
		BlockMovementPenalty:   0.5,
		CoyoteTime:             0.1,
		FallMultiplier:         2.5,
		BaseGravityScale:       2.0,
		MaxTraversableSlope:    30 * math.Pi / 180,
		UphillSlowdownFactor:   0.4,
		DownhillSpeedFactor:    0.3,
		MinSlopeFactor:         0.5,
		MaxSlopeFactor:         1.3,
		SlopeSnapForce:         2.0,
		SteepSlideSpeed:        3.0,
	}
}

// ClampStamina restores 0 <= Stamina <= MaxStamina.
func (p *Player) ClampStamina() {
	if p.Stamina < 0 {
		p.Stamina = 0
	}
	if p.Stamina > p.MaxStamina {
		p.Stamina = p.MaxStamina
	}
}

var PlayerComponent = NewComponent[Player]()
