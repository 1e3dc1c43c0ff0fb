package main

import (
	"fmt"
	"image/color"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/milk9111/piggysouls/ecs"
	"github.com/milk9111/piggysouls/ecs/entity"
	"github.com/milk9111/piggysouls/ecs/system"
	"github.com/milk9111/piggysouls/levels"
	"github.com/milk9111/piggysouls/prefabs"
	"github.com/rs/zerolog/log"
)

const (
	baseWidth      = 1280
	baseHeight     = 720
	ticksPerSecond = 60
	fixedDelta     = 1.0 / ticksPerSecond
)

var backgroundColor = color.RGBA{R: 0x16, G: 0x18, B: 0x1d, A: 0xff}

type GameOptions struct {
	Level  string
	Script string
	Debug  bool
	Watch  bool
}

type Game struct {
	scene     *entity.Scene
	scheduler *ecs.Scheduler
	watcher   *prefabs.Watcher
	debug     bool
	exiting   bool
}

func NewGame(opts GameOptions) (*Game, error) {
	scene, err := entity.LoadScene(opts.Level)
	if err != nil {
		return nil, fmt.Errorf("load level %s: %w", opts.Level, err)
	}

	device, err := newDevice(opts.Script)
	if err != nil {
		return nil, err
	}

	g := &Game{
		scene:     scene,
		scheduler: system.NewControllerScheduler(device),
		debug:     opts.Debug,
	}

	if opts.Watch {
		w, err := prefabs.NewWatcher(prefabs.Dir, filepath.Join(prefabs.Dir, "scripts"), levels.Dir)
		if err != nil {
			log.Warn().Err(err).Msg("prefab hot reload disabled")
		} else {
			g.watcher = w
		}
	}

	log.Info().
		Str("level", scene.Level.Name).
		Int("boxes", len(scene.Boxes)).
		Bool("scripted", opts.Script != "").
		Msg("level loaded")
	return g, nil
}

func newDevice(script string) (system.Device, error) {
	if script != "" {
		src, err := prefabs.LoadScript(script)
		if err != nil {
			return nil, fmt.Errorf("load script %s: %w", script, err)
		}
		return system.NewScriptDevice(script, src, fixedDelta)
	}

	spec, err := prefabs.LoadInputSpec()
	if err != nil {
		return nil, err
	}
	return system.NewEbitenDevice(spec)
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *Game) Update() error {
	if g.exiting {
		return ebiten.Termination
	}
	g.pollReload()

	g.scene.World.Tick(g.scheduler, fixedDelta)
	for _, evt := range g.scene.World.Events().Drain() {
		logEvent(evt)
		if evt.Kind == ecs.EventExitRequest {
			g.exiting = true
		}
	}
	return nil
}

// pollReload applies at most one pending change per frame.
func (g *Game) pollReload() {
	if g.watcher == nil {
		return
	}
	select {
	case c, ok := <-g.watcher.Changes:
		if !ok {
			g.watcher = nil
			return
		}
		g.reload(c)
	case err, ok := <-g.watcher.Errors:
		if ok {
			log.Warn().Err(err).Msg("prefab watcher")
		}
	default:
	}
}

func (g *Game) reload(c prefabs.Change) {
	logger := log.With().Str("file", c.Name).Str("kind", c.Kind.String()).Logger()

	var err error
	switch {
	case c.Kind == prefabs.ChangeTuning && c.Name == prefabs.PlayerFile:
		var spec *prefabs.PlayerSpec
		if spec, err = prefabs.LoadPlayerSpec(); err == nil {
			g.scene.Retune(spec, nil)
		}
	case c.Kind == prefabs.ChangeTuning && c.Name == prefabs.CameraFile:
		var spec *prefabs.CameraSpec
		if spec, err = prefabs.LoadCameraSpec(); err == nil {
			g.scene.Retune(nil, spec)
		}
	case c.Kind == prefabs.ChangeLevel && strings.TrimSuffix(c.Name, filepath.Ext(c.Name)) == g.scene.Level.Name:
		var lvl *levels.Level
		if lvl, err = levels.LoadLevelFromFS(c.Name); err == nil {
			err = g.scene.ReloadLevel(lvl)
		}
	default:
		logger.Debug().Msg("change ignored; restart to pick it up")
		return
	}

	if err != nil {
		logger.Error().Err(err).Msg("reload failed")
		return
	}
	logger.Info().Msg("reloaded")
}

func logEvent(evt ecs.Event) {
	log.Debug().
		Str("event", string(evt.Kind)).
		Uint64("entity", uint64(evt.Entity)).
		Uint64("tick", evt.Tick).
		Msg("event")
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)
	system.DrawPhysicsDebug(g.scene.World, screen)
	ebitenutil.DebugPrint(screen, fmt.Sprintf("TPS: %.2f    FPS: %.2f", ebiten.ActualTPS(), ebiten.ActualFPS()))
	if g.debug {
		system.DrawPlayerStateDebug(g.scene.World, screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return baseWidth, baseHeight
}
