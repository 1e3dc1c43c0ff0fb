package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/piggysouls/common"
	"github.com/milk9111/piggysouls/ecs"
	"github.com/milk9111/piggysouls/ecs/component"
)

const stickMoveThreshold = 0.01

// Device produces one input snapshot per tick.
type Device interface {
	Poll() component.Input
}

type InputSystem struct {
	device Device
}

func NewInputSystem(device Device) *InputSystem {
	return &InputSystem{device: device}
}

// Update polls the device, stores the snapshot on the player and refills the
// player's intent buffer.
func (i *InputSystem) Update(w *ecs.World) {
	player, ok := w.Player()
	if !ok {
		return
	}

	var snapshot component.Input
	if i.device != nil {
		snapshot = i.device.Poll()
	}

	in, ok := ecs.Get(w, player, component.InputComponent.Kind())
	if !ok {
		in = &component.Input{}
		if err := ecs.Add(w, player, component.InputComponent.Kind(), in); err != nil {
			return
		}
	}
	*in = snapshot

	buf, ok := ecs.Get(w, player, component.IntentBufferComponent.Kind())
	if !ok {
		buf = &component.IntentBuffer{}
		if err := ecs.Add(w, player, component.IntentBufferComponent.Kind(), buf); err != nil {
			return
		}
	}
	buf.Reset()

	if snapshot.ExitPressed {
		w.Emit(ecs.EventExitRequest, player)
	}

	p, ok := ecs.Get(w, player, component.PlayerComponent.Kind())
	if !ok {
		return
	}
	for _, intent := range MapIntents(snapshot, *p) {
		buf.Push(intent)
	}
}

// MapIntents turns a device snapshot into this tick's intents. It reads the
// player flags for gating and never changes them.
func MapIntents(in component.Input, p component.Player) []component.MovementIntent {
	var intents []component.MovementIntent

	keys := keyboardDirection(in)
	if keys.LenSqr() > 0 && !p.IsRolling {
		intents = append(intents, component.MoveIntent{Direction: keys, Sprint: in.SprintHeld})
	}

	stick := common.ClampLength2(in.LeftStick, 1)
	stickActive := in.HasGamepad && stick.LenSqr() > stickMoveThreshold
	if stickActive && !p.IsRolling {
		intents = append(intents, component.MoveIntent{Direction: stick, Sprint: in.SprintHeld})
	}

	if in.JumpPressed && !p.IsRolling {
		intents = append(intents, component.JumpIntent{})
	}

	if in.RollPressed && p.CanRoll && !p.IsRolling && !p.Exhausted {
		dir := mgl64.Vec2{0, 1}
		switch {
		case keys.LenSqr() > 0:
			dir = keys
		case stickActive:
			dir = stick
		}
		intents = append(intents, component.RollIntent{Direction: dir})
	}

	if in.BlockPressed && !p.IsRolling {
		intents = append(intents, component.StartBlockIntent{})
	}
	if in.BlockReleased && p.IsBlocking {
		intents = append(intents, component.EndBlockIntent{})
	}

	return intents
}

func keyboardDirection(in component.Input) mgl64.Vec2 {
	var x, y float64
	if in.Right {
		x++
	}
	if in.Left {
		x--
	}
	if in.Up {
		y++
	}
	if in.Down {
		y--
	}
	return common.ClampLength2(mgl64.Vec2{x, y}, 1)
}
