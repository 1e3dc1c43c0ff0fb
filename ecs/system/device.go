package system

import "github.com/milk9111/piggysouls/ecs/component"

// buttonEdges derives pressed/released edges for devices that only report
// held state.
type buttonEdges struct {
	jump, roll, block, exit bool
}

func (b *buttonEdges) apply(in *component.Input, jumpHeld, rollHeld, exitHeld bool) {
	in.JumpPressed = in.JumpPressed || (jumpHeld && !b.jump)
	in.RollPressed = in.RollPressed || (rollHeld && !b.roll)
	in.BlockPressed = in.BlockPressed || (in.BlockHeld && !b.block)
	in.BlockReleased = in.BlockReleased || (!in.BlockHeld && b.block)
	in.ExitPressed = in.ExitPressed || (exitHeld && !b.exit)

	b.jump = jumpHeld
	b.roll = rollHeld
	b.block = in.BlockHeld
	b.exit = exitHeld
}

// NullDevice reports no input. Used headless and when no device is wired.
type NullDevice struct{}

func (NullDevice) Poll() component.Input {
	return component.Input{}
}

// StaticDevice replays a fixed snapshot every tick.
type StaticDevice struct {
	Input component.Input
}

func (d *StaticDevice) Poll() component.Input {
	if d == nil {
		return component.Input{}
	}
	return d.Input
}
