package system

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/piggysouls/ecs/component"
	"github.com/milk9111/piggysouls/prefabs"
)

type keyBindings struct {
	up, down, left, right []ebiten.Key
	sprint, jump, roll    []ebiten.Key
	exit                  []ebiten.Key
	block                 ebiten.MouseButton
}

// EbitenDevice reads keyboard, mouse and the first standard-layout gamepad.
// It must be polled from inside ebiten's Update.
type EbitenDevice struct {
	bindings keyBindings

	lastCursorX, lastCursorY int
	hasCursor                bool
}

func NewEbitenDevice(spec *prefabs.InputSpec) (*EbitenDevice, error) {
	if spec == nil {
		return nil, fmt.Errorf("ebiten device: nil input spec")
	}

	var b keyBindings
	var err error
	groups := []struct {
		name string
		src  []string
		dst  *[]ebiten.Key
	}{
		{"up", spec.Keys.Up, &b.up},
		{"down", spec.Keys.Down, &b.down},
		{"left", spec.Keys.Left, &b.left},
		{"right", spec.Keys.Right, &b.right},
		{"sprint", spec.Keys.Sprint, &b.sprint},
		{"jump", spec.Keys.Jump, &b.jump},
		{"roll", spec.Keys.Roll, &b.roll},
		{"exit", spec.Keys.Exit, &b.exit},
	}
	for _, g := range groups {
		if *g.dst, err = parseKeys(g.src); err != nil {
			return nil, fmt.Errorf("ebiten device: %s: %w", g.name, err)
		}
	}
	if b.block, err = parseMouseButton(spec.BlockMouse); err != nil {
		return nil, fmt.Errorf("ebiten device: block: %w", err)
	}

	return &EbitenDevice{bindings: b}, nil
}

func parseKeys(names []string) ([]ebiten.Key, error) {
	keys := make([]ebiten.Key, 0, len(names))
	for _, name := range names {
		var k ebiten.Key
		if err := k.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, nil
}

func parseMouseButton(name string) (ebiten.MouseButton, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "right":
		return ebiten.MouseButtonRight, nil
	case "left":
		return ebiten.MouseButtonLeft, nil
	case "middle":
		return ebiten.MouseButtonMiddle, nil
	default:
		return 0, fmt.Errorf("unknown mouse button %q", name)
	}
}

func anyPressed(keys []ebiten.Key) bool {
	for _, k := range keys {
		if ebiten.IsKeyPressed(k) {
			return true
		}
	}
	return false
}

func anyJustPressed(keys []ebiten.Key) bool {
	for _, k := range keys {
		if inpututil.IsKeyJustPressed(k) {
			return true
		}
	}
	return false
}

func (d *EbitenDevice) Poll() component.Input {
	b := d.bindings
	in := component.Input{
		Up:          anyPressed(b.up),
		Down:        anyPressed(b.down),
		Left:        anyPressed(b.left),
		Right:       anyPressed(b.right),
		SprintHeld:  anyPressed(b.sprint),
		JumpPressed: anyJustPressed(b.jump),
		RollPressed: anyJustPressed(b.roll),
		ExitPressed: anyJustPressed(b.exit),

		BlockPressed:  inpututil.IsMouseButtonJustPressed(b.block),
		BlockReleased: inpututil.IsMouseButtonJustReleased(b.block),
		BlockHeld:     ebiten.IsMouseButtonPressed(b.block),

		Focused: ebiten.IsFocused(),
	}

	x, y := ebiten.CursorPosition()
	if d.hasCursor {
		in.MouseDelta = mgl64.Vec2{float64(x - d.lastCursorX), float64(y - d.lastCursorY)}
	}
	d.lastCursorX, d.lastCursorY, d.hasCursor = x, y, true
	_, in.WheelDelta = ebiten.Wheel()

	for _, id := range ebiten.GamepadIDs() {
		if !ebiten.IsStandardGamepadLayoutAvailable(id) {
			continue
		}
		in.HasGamepad = true
		// ebiten reports stick Y down-positive; Input wants up-positive.
		in.LeftStick = mgl64.Vec2{
			ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal),
			-ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical),
		}
		in.RightStick = mgl64.Vec2{
			ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickHorizontal),
			-ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickVertical),
		}
		if ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonFrontTopLeft) {
			in.ZoomAxis++
		}
		if ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonFrontBottomLeft) {
			in.ZoomAxis--
		}
		in.SprintHeld = in.SprintHeld || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonFrontBottomRight)
		in.JumpPressed = in.JumpPressed || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightBottom)
		in.RollPressed = in.RollPressed || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightRight)
		in.BlockPressed = in.BlockPressed || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonFrontTopRight)
		in.BlockReleased = in.BlockReleased || inpututil.IsStandardGamepadButtonJustReleased(id, ebiten.StandardGamepadButtonFrontTopRight)
		in.BlockHeld = in.BlockHeld || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonFrontTopRight)
		in.ExitPressed = in.ExitPressed || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonCenterRight)
		break
	}

	return in
}
