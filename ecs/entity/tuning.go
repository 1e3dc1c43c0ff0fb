package entity

import (
	"math"

	"github.com/milk9111/piggysouls/ecs/component"
	"github.com/milk9111/piggysouls/prefabs"
)

func setIf(dst *float64, v float64) {
	if v != 0 {
		*dst = v
	}
}

func setBoolIf(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func deg(v float64) float64 {
	return v * math.Pi / 180
}

// ApplyPlayerTuning copies spec values over a player's tuning. Runtime state
// (stamina, timers, flags) is left alone so it can be re-applied on a live
// player.
func ApplyPlayerTuning(spec *prefabs.PlayerSpec, p *component.Player, cc *component.CharacterController, tilt *component.VisualTilt) {
	if spec == nil {
		return
	}
	if p != nil {
		setIf(&p.WalkSpeed, spec.Movement.WalkSpeed)
		setIf(&p.RunSpeed, spec.Movement.RunSpeed)
		setBoolIf(&p.CanMoveWhileBlocking, spec.Movement.CanMoveWhileBlocking)
		setIf(&p.BlockMovementPenalty, spec.Movement.BlockMovementPenalty)

		setIf(&p.RollSpeed, spec.Roll.Speed)
		setIf(&p.RollDuration, spec.Roll.Duration)
		setIf(&p.RollCooldown, spec.Roll.Cooldown)
		setIf(&p.RollStaminaCost, spec.Roll.StaminaCost)

		setIf(&p.MaxStamina, spec.Stamina.Max)
		setIf(&p.StaminaRegenRate, spec.Stamina.RegenRate)
		setIf(&p.StaminaUseRate, spec.Stamina.UseRate)
		setIf(&p.BlockStaminaCostPerSec, spec.Stamina.BlockCostPerSec)
		setIf(&p.ExhaustionDuration, spec.Stamina.ExhaustionDuration)

		setIf(&p.CoyoteTime, spec.Jump.CoyoteTime)
		setIf(&p.FallMultiplier, spec.Jump.FallMultiplier)
		setIf(&p.BaseGravityScale, spec.Jump.BaseGravityScale)

		if spec.Slope.MaxTraversableAngle != 0 {
			p.MaxTraversableSlope = deg(spec.Slope.MaxTraversableAngle)
		}
		setIf(&p.UphillSlowdownFactor, spec.Slope.UphillSlowdown)
		setIf(&p.DownhillSpeedFactor, spec.Slope.DownhillSpeed)
		setIf(&p.MinSlopeFactor, spec.Slope.MinFactor)
		setIf(&p.MaxSlopeFactor, spec.Slope.MaxFactor)
		setIf(&p.SlopeSnapForce, spec.Slope.SnapForce)
		setIf(&p.SteepSlideSpeed, spec.Slope.SteepSlideSpeed)

		p.ClampStamina()
		if !p.IsSprinting && !p.IsBlocking {
			p.CurrentSpeed = p.WalkSpeed
		}
	}

	if cc != nil {
		setIf(&cc.DampingFactor, spec.Movement.DampingFactor)
		setIf(&cc.TurnRate, spec.Movement.TurnRate)
		setIf(&cc.JumpImpulse, spec.Jump.Impulse)
		setIf(&cc.JumpNormalBias, spec.Jump.NormalBias)
		if spec.Slope.MaxAngleDeg != 0 {
			cc.MaxSlopeAngle = deg(spec.Slope.MaxAngleDeg)
		}
		setIf(&cc.VisualSlopeLeniency, spec.Slope.VisualLeniency)
		setIf(&cc.CastScale, spec.Ground.CastScale)
		setIf(&cc.CastDistance, spec.Ground.CastDistance)
		if spec.Ground.MaxHits > 0 {
			cc.CastMaxHits = spec.Ground.MaxHits
		}
		setIf(&cc.NormalBlendFast, spec.Ground.BlendFast)
		setIf(&cc.NormalBlendSlow, spec.Ground.BlendSlow)
		setIf(&cc.NormalBlendReturn, spec.Ground.BlendReturn)
		setIf(&cc.NormalBlendThreshold, spec.Ground.BlendThreshold)
	}

	if tilt != nil {
		setIf(&tilt.Rate, spec.Tilt.Rate)
		setIf(&tilt.FlatEpsilon, spec.Tilt.FlatEpsilon)
	}
}

// ApplyCameraTuning copies spec values over the rig settings. Pitch, yaw and
// distance are only taken when initial is set, so a hot reload does not snap
// a camera the player has been steering.
func ApplyCameraTuning(spec *prefabs.CameraSpec, cam *component.ThirdPersonCamera, col *component.CameraCollision, initial bool) {
	if spec == nil {
		return
	}
	if cam != nil {
		if initial {
			setIf(&cam.Pitch, spec.Pitch)
			cam.Yaw = spec.Yaw
			setIf(&cam.Distance, spec.Distance)
		}
		setIf(&cam.HeightOffset, spec.HeightOffset)
		setIf(&cam.RotationSpeed, spec.RotationSpeed)
		setIf(&cam.ZoomSpeed, spec.ZoomSpeed)
		setIf(&cam.GamepadSensitivity, spec.GamepadSensitivity)
		setIf(&cam.StickDeadzone, spec.StickDeadzone)
		setIf(&cam.Smoothness, spec.Smoothness)
		setBoolIf(&cam.InvertX, spec.InvertX)
		setBoolIf(&cam.InvertY, spec.InvertY)
		setIf(&cam.MinPitch, spec.MinPitch)
		setIf(&cam.MaxPitch, spec.MaxPitch)
		setIf(&cam.MinDistance, spec.MinDistance)
		setIf(&cam.MaxDistance, spec.MaxDistance)

		cam.Pitch = math.Max(cam.MinPitch, math.Min(cam.MaxPitch, cam.Pitch))
		cam.Distance = math.Max(cam.MinDistance, math.Min(cam.MaxDistance, cam.Distance))
	}

	if col != nil {
		c := spec.Collision
		setIf(&col.Radius, c.Radius)
		setIf(&col.Clearance, c.Clearance)
		setIf(&col.MinDistanceFraction, c.MinDistanceFraction)
		setIf(&col.SafeDistanceFraction, c.SafeDistanceFraction)
		setIf(&col.SafeHeightFraction, c.SafeHeightFraction)
		setIf(&col.FloorClearance, c.FloorClearance)
		setIf(&col.CeilingClearance, c.CeilingClearance)
		setIf(&col.VerticalProbe, c.VerticalProbe)
		setIf(&col.CollisionSmoothingMultiplier, c.SmoothingMultiplier)
	}
}
