package main

import (
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/piggysouls/levels"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var CLI struct {
	Debug bool `help:"Enable debug logging and the state overlay."`

	Play struct {
		Level       string `help:"Level name in levels/ (.yaml optional)." default:"arena"`
		Script      string `help:"Drive the player with a tengo script from prefabs/scripts instead of the keyboard."`
		Watch       bool   `help:"Reload player/camera tuning and the current level when their files change on disk."`
		BaseMonitor bool   `help:"Use the base monitor instead of the primary one." short:"m"`
	} `cmd:"" default:"1" help:"Open a window and play a level."`

	Replay struct {
		Level  string `help:"Level name in levels/ (.yaml optional)." default:"arena"`
		Script string `help:"Input script in prefabs/scripts." default:"demo"`
		Ticks  int    `help:"Number of fixed ticks to simulate." default:"600"`
	} `cmd:"" help:"Run a level headless with a scripted input device."`

	Levels struct{} `cmd:"" help:"List the embedded levels."`
}

func writeError(err error) {
	fmt.Fprintf(os.Stderr, "%s\n", err)
	os.Exit(1)
}

func main() {
	consoleWriter := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	log.Logger = log.Output(consoleWriter).With().Str("session", uuid.NewString()).Logger()

	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	ctx := kong.Parse(&CLI,
		kong.Name("piggysouls"),
		kong.Description("a third-person character controller sandbox"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}))

	if CLI.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Warn().Msg("debug logging enabled")
	}

	switch ctx.Command() {
	case "play":
		if err := playCommand(); err != nil {
			writeError(err)
		}
	case "replay":
		summary, err := replayCommand(CLI.Replay.Level, CLI.Replay.Script, CLI.Replay.Ticks)
		if err != nil {
			writeError(err)
		}
		summary.Log(log.Logger)
	case "levels":
		for _, name := range levels.Names() {
			fmt.Println(name)
		}
	}
}

func playCommand() error {
	if CLI.Play.BaseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	game, err := NewGame(GameOptions{
		Level:  CLI.Play.Level,
		Script: CLI.Play.Script,
		Debug:  CLI.Debug,
		Watch:  CLI.Play.Watch,
	})
	if err != nil {
		return err
	}
	defer game.Close()

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("piggysouls")
	ebiten.SetTPS(ticksPerSecond)

	if err := ebiten.RunGame(game); err != nil && err != ebiten.Termination {
		return err
	}
	return nil
}
