package system

import (
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/piggysouls/common"
	"github.com/milk9111/piggysouls/ecs/component"
	"github.com/rs/zerolog/log"
)

// ScriptDevice drives the player from a tengo script that is re-run every
// tick. The script reads `tick`, `time` and a persistent `state` map and
// assigns any of move_x, move_y, look_x, look_y, zoom, sprint, jump, roll,
// block and exit. Buttons are levels; the device derives edges.
type ScriptDevice struct {
	name     string
	compiled *tengo.Compiled
	state    *tengo.Map
	dt       float64
	tick     int
	edges    buttonEdges
	failed   bool
}

func NewScriptDevice(name string, src []byte, dt float64) (*ScriptDevice, error) {
	script := tengo.NewScript(src)
	_ = script.Add("tick", 0)
	_ = script.Add("time", 0.0)
	_ = script.Add("state", map[string]any{})

	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("script device: compile %s: %w", name, err)
	}

	return &ScriptDevice{
		name:     name,
		compiled: compiled,
		state:    &tengo.Map{Value: map[string]tengo.Object{}},
		dt:       dt,
	}, nil
}

func (d *ScriptDevice) Poll() component.Input {
	if d == nil || d.compiled == nil || d.failed {
		return component.Input{}
	}

	if err := d.run(); err != nil {
		// one report is enough; the device goes quiet afterwards
		log.Error().Err(err).Str("script", d.name).Int("tick", d.tick).Msg("script device stopped")
		d.failed = true
		return component.Input{}
	}
	d.tick++

	move := common.ClampLength2(mgl64.Vec2{d.floatVar("move_x"), d.floatVar("move_y")}, 1)
	in := component.Input{
		LeftStick:  move,
		RightStick: mgl64.Vec2{d.floatVar("look_x"), d.floatVar("look_y")},
		HasGamepad: true,
		ZoomAxis:   common.Clamp(d.floatVar("zoom"), -1, 1),
		SprintHeld: d.boolVar("sprint"),
		BlockHeld:  d.boolVar("block"),
	}
	d.edges.apply(&in, d.boolVar("jump"), d.boolVar("roll"), d.boolVar("exit"))
	return in
}

// Ticks returns how many ticks the script has run.
func (d *ScriptDevice) Ticks() int {
	return d.tick
}

func (d *ScriptDevice) run() error {
	if err := d.compiled.Set("tick", d.tick); err != nil {
		return err
	}
	if err := d.compiled.Set("time", float64(d.tick)*d.dt); err != nil {
		return err
	}
	if err := d.compiled.Set("state", d.state); err != nil {
		return err
	}
	return d.compiled.Run()
}

func (d *ScriptDevice) floatVar(name string) float64 {
	if !d.compiled.IsDefined(name) {
		return 0
	}
	return d.compiled.Get(name).Float()
}

func (d *ScriptDevice) boolVar(name string) bool {
	if !d.compiled.IsDefined(name) {
		return false
	}
	return d.compiled.Get(name).Bool()
}
