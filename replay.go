package main

import (
	"fmt"

	"github.com/milk9111/piggysouls/ecs"
	"github.com/milk9111/piggysouls/ecs/component"
	"github.com/milk9111/piggysouls/ecs/entity"
	"github.com/milk9111/piggysouls/ecs/system"
	"github.com/milk9111/piggysouls/prefabs"
	"github.com/rs/zerolog"
)

// ReplaySummary is what a headless run reports once it finishes.
type ReplaySummary struct {
	Level       string
	Script      string
	Ticks       int
	Events      map[ecs.EventKind]int
	Final       component.Transform
	Stamina     float64
	Grounded    bool
	ExitedEarly bool
}

func (s ReplaySummary) Log(logger zerolog.Logger) {
	evt := logger.Info().
		Str("level", s.Level).
		Str("script", s.Script).
		Int("ticks", s.Ticks).
		Floats64("position", s.Final.Position[:]).
		Float64("stamina", s.Stamina).
		Bool("grounded", s.Grounded).
		Bool("exited_early", s.ExitedEarly)
	events := zerolog.Dict()
	for kind, n := range s.Events {
		events = events.Int(string(kind), n)
	}
	evt.Dict("events", events).Msg("replay finished")
}

func replayCommand(level, script string, ticks int) (ReplaySummary, error) {
	scene, err := entity.LoadScene(level)
	if err != nil {
		return ReplaySummary{}, fmt.Errorf("load level %s: %w", level, err)
	}
	src, err := prefabs.LoadScript(script)
	if err != nil {
		return ReplaySummary{}, fmt.Errorf("load script %s: %w", script, err)
	}
	device, err := system.NewScriptDevice(script, src, fixedDelta)
	if err != nil {
		return ReplaySummary{}, err
	}

	summary := RunHeadless(scene, device, ticks)
	summary.Level = level
	summary.Script = script
	return summary, nil
}

// RunHeadless ticks the scene at the fixed rate until ticks run out or an exit
// is requested.
func RunHeadless(scene *entity.Scene, device system.Device, ticks int) ReplaySummary {
	summary := ReplaySummary{Events: make(map[ecs.EventKind]int)}
	scheduler := system.NewControllerScheduler(device)
	w := scene.World

	for summary.Ticks < ticks && !summary.ExitedEarly {
		w.Tick(scheduler, fixedDelta)
		summary.Ticks++
		for _, evt := range w.Events().Drain() {
			logEvent(evt)
			summary.Events[evt.Kind]++
			if evt.Kind == ecs.EventExitRequest {
				summary.ExitedEarly = true
			}
		}
	}

	if t, ok := ecs.Get(w, scene.Player, component.TransformComponent.Kind()); ok {
		summary.Final = *t
	}
	if p, ok := ecs.Get(w, scene.Player, component.PlayerComponent.Kind()); ok {
		summary.Stamina = p.Stamina
	}
	if gs, ok := ecs.Get(w, scene.Player, component.GroundSensorComponent.Kind()); ok {
		summary.Grounded = gs.Grounded
	}
	return summary
}
