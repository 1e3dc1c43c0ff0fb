package component

import "github.com/go-gl/mathgl/mgl64"

// Input is the per-tick device snapshot. Pressed fields are rising edges;
// Held fields are levels.
type Input struct {
	Up, Down, Left, Right bool
	SprintHeld            bool
	JumpPressed           bool
	RollPressed           bool
	BlockPressed          bool
	BlockReleased         bool
	BlockHeld             bool

	// LeftStick is x right, y forward, already inverted from screen space.
	LeftStick  mgl64.Vec2
	RightStick mgl64.Vec2
	HasGamepad bool

	// ZoomAxis is gamepad zoom in [-1, 1]; positive pulls the camera in.
	ZoomAxis float64

	MouseDelta  mgl64.Vec2
	WheelDelta  float64
	Focused     bool
	ExitPressed bool
}

var InputComponent = NewComponent[Input]()
