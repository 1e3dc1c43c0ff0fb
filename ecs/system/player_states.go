package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/piggysouls/common"
	"github.com/milk9111/piggysouls/ecs"
	"github.com/milk9111/piggysouls/ecs/component"
)

type PlayerStateSystem struct{}

func NewPlayerStateSystem() *PlayerStateSystem {
	return &PlayerStateSystem{}
}

func (s *PlayerStateSystem) Update(w *ecs.World) {
	player, ok := w.Player()
	if !ok {
		return
	}
	camera, ok := w.Camera()
	if !ok {
		return
	}
	p, ok := ecs.Get(w, player, component.PlayerComponent.Kind())
	if !ok {
		return
	}
	camTransform, ok := ecs.Get(w, camera, component.TransformComponent.Kind())
	if !ok {
		return
	}

	var intents []component.MovementIntent
	if buf, ok := ecs.Get(w, player, component.IntentBufferComponent.Kind()); ok {
		intents = buf.Intents
	}

	wasRolling, wasExhausted := p.IsRolling, p.Exhausted
	UpdatePlayerState(p, intents, common.YawFromQuat(camTransform.Rotation), w.Delta())

	switch {
	case !wasRolling && p.IsRolling:
		w.Emit(ecs.EventRollStarted, player)
	case wasRolling && !p.IsRolling:
		w.Emit(ecs.EventRollFinished, player)
	}
	switch {
	case !wasExhausted && p.Exhausted:
		w.Emit(ecs.EventExhausted, player)
	case wasExhausted && !p.Exhausted:
		w.Emit(ecs.EventRecovered, player)
	}
}

// UpdatePlayerState advances flags, timers and stamina by one tick. The step
// order matters: roll timers settle before a new roll is considered, and a
// roll started this tick cancels any block before block upkeep is charged.
func UpdatePlayerState(p *component.Player, intents []component.MovementIntent, cameraYaw, dt float64) {
	if p == nil {
		return
	}

	p.IsMoving = false
	var sprintRequested, rollRequested, blockStart, blockEnd bool
	var rollInput mgl64.Vec2
	for _, intent := range intents {
		switch in := intent.(type) {
		case component.MoveIntent:
			if in.Direction.LenSqr() > 0 {
				p.IsMoving = true
				sprintRequested = sprintRequested || in.Sprint
			}
		case component.RollIntent:
			rollRequested = true
			rollInput = in.Direction
		case component.StartBlockIntent:
			blockStart = true
		case component.EndBlockIntent:
			blockEnd = true
		}
	}

	if p.IsRolling {
		p.RollTimer -= dt
		if p.RollTimer <= 0 {
			p.IsRolling = false
			p.RollTimer = 0
			p.RollCooldownTimer = p.RollCooldown
			p.CanRoll = false
		}
	} else if !p.CanRoll {
		p.RollCooldownTimer -= dt
		if p.RollCooldownTimer <= 0 {
			p.RollCooldownTimer = 0
			p.CanRoll = true
		}
	}

	if rollRequested && p.CanRoll && !p.IsRolling && !p.Exhausted && p.Stamina >= p.RollStaminaCost {
		p.IsRolling = true
		p.RollTimer = p.RollDuration
		p.RollDirection = RollDirection(rollInput, cameraYaw)
		p.Stamina -= p.RollStaminaCost
		p.ClampStamina()
		p.IsBlocking = false
	}

	if blockStart && !p.IsRolling && !p.Exhausted {
		p.IsBlocking = true
	}
	if blockEnd || rollRequested || p.IsRolling {
		p.IsBlocking = false
	}

	exhaustedNow := false
	if p.IsBlocking {
		p.Stamina -= p.BlockStaminaCostPerSec * dt
		if p.Stamina <= 0 {
			exhaust(p)
			exhaustedNow = true
			p.IsBlocking = false
		}
	}

	if !p.IsRolling && !p.IsBlocking && sprintRequested && !p.Exhausted && p.Stamina > 0 {
		p.IsSprinting = true
		p.CurrentSpeed = p.RunSpeed
		p.Stamina -= p.StaminaUseRate * dt
		if p.Stamina <= 0 {
			exhaust(p)
			exhaustedNow = true
		}
	} else {
		p.IsSprinting = false
		if !p.IsRolling {
			switch {
			case p.IsBlocking && p.CanMoveWhileBlocking:
				p.CurrentSpeed = p.WalkSpeed * p.BlockMovementPenalty
			case !p.IsBlocking:
				p.CurrentSpeed = p.WalkSpeed
			}
		}
	}

	if p.Exhausted {
		if !exhaustedNow {
			p.ExhaustionTimer -= dt
			if p.ExhaustionTimer <= 0 {
				p.ExhaustionTimer = 0
				p.Exhausted = false
			}
		}
	} else if !sprintRequested && !p.IsRolling && !p.IsBlocking && p.Stamina < p.MaxStamina {
		p.Stamina += p.StaminaRegenRate * dt
	}
	p.ClampStamina()

	if p.CoyoteTimer > 0 {
		p.CoyoteTimer -= dt
		if p.CoyoteTimer < 0 {
			p.CoyoteTimer = 0
		}
	}
}

func exhaust(p *component.Player) {
	p.Stamina = 0
	p.Exhausted = true
	p.ExhaustionTimer = p.ExhaustionDuration
}

// RollDirection rotates a 2D input (x right, y forward) into a unit world
// direction using only the camera yaw. A near-zero input rolls forward.
func RollDirection(input mgl64.Vec2, cameraYaw float64) mgl64.Vec3 {
	if input.LenSqr() < 1e-6 {
		input = mgl64.Vec2{0, 1}
	}
	world := common.YawRotation(cameraYaw).Rotate(mgl64.Vec3{input.X(), 0, -input.Y()})
	fallback := common.YawRotation(cameraYaw).Rotate(mgl64.Vec3{0, 0, -1})
	return common.SafeNormalize(common.Flat(world), fallback)
}
