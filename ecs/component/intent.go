package component

import "github.com/go-gl/mathgl/mgl64"

// MovementIntent is a discrete request produced by the input mapper for one
// tick. The set of variants is closed.
type MovementIntent interface {
	isMovementIntent()
}

// MoveIntent carries a 2D input direction (x right, y forward), length <= 1.
type MoveIntent struct {
	Direction mgl64.Vec2
	Sprint    bool
}

type JumpIntent struct{}

// RollIntent carries the raw 2D roll direction; zero means "forward".
type RollIntent struct {
	Direction mgl64.Vec2
}

type StartBlockIntent struct{}

type EndBlockIntent struct{}

func (MoveIntent) isMovementIntent()       {}
func (JumpIntent) isMovementIntent()       {}
func (RollIntent) isMovementIntent()       {}
func (StartBlockIntent) isMovementIntent() {}
func (EndBlockIntent) isMovementIntent()   {}

// IntentBuffer holds the intents emitted this tick.
type IntentBuffer struct {
	Intents []MovementIntent
}

func (b *IntentBuffer) Reset() {
	b.Intents = b.Intents[:0]
}

func (b *IntentBuffer) Push(intent MovementIntent) {
	b.Intents = append(b.Intents, intent)
}

// Move returns the first move intent of the tick, if any.
func (b *IntentBuffer) Move() (MoveIntent, bool) {
	if b == nil {
		return MoveIntent{}, false
	}
	for _, intent := range b.Intents {
		if m, ok := intent.(MoveIntent); ok {
			return m, true
		}
	}
	return MoveIntent{}, false
}

// Moving reports whether this tick's move intent has a direction.
func (b *IntentBuffer) Moving() bool {
	m, ok := b.Move()
	return ok && m.Direction.LenSqr() > 0
}

var IntentBufferComponent = NewComponent[IntentBuffer]()
