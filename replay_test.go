package main

import (
	"testing"

	"github.com/milk9111/piggysouls/ecs"
	"github.com/milk9111/piggysouls/ecs/component"
	"github.com/milk9111/piggysouls/ecs/entity"
	"github.com/milk9111/piggysouls/ecs/system"
	"github.com/stretchr/testify/require"
)

func TestRunHeadlessIdlePlayerSettles(t *testing.T) {
	scene, err := entity.LoadScene("arena")
	require.NoError(t, err)

	summary := RunHeadless(scene, system.NullDevice{}, 120)
	require.Equal(t, 120, summary.Ticks)
	require.False(t, summary.ExitedEarly)
	require.True(t, summary.Grounded)
	require.GreaterOrEqual(t, summary.Events[ecs.EventLanded], 1)
	require.InDelta(t, 1.0, summary.Final.Position.Y(), 0.05)
	require.InDelta(t, 0.0, summary.Final.Position.X(), 1e-6)
}

func TestRunHeadlessStopsOnExit(t *testing.T) {
	scene, err := entity.LoadScene("arena")
	require.NoError(t, err)

	device, err := system.NewScriptDevice("quit", []byte("exit := tick >= 10"), fixedDelta)
	require.NoError(t, err)

	summary := RunHeadless(scene, device, 600)
	require.True(t, summary.ExitedEarly)
	require.Less(t, summary.Ticks, 20)
	require.Equal(t, 1, summary.Events[ecs.EventExitRequest])
}

func TestReplayDemoScript(t *testing.T) {
	summary, err := replayCommand("arena", "demo", 600)
	require.NoError(t, err)
	require.Equal(t, "arena", summary.Level)
	require.Equal(t, 600, summary.Ticks)
	require.Positive(t, summary.Events[ecs.EventJumped])
	require.Positive(t, summary.Events[ecs.EventRollStarted])
	require.NotEqual(t, component.Transform{}, summary.Final)

	_, err = replayCommand("arena", "missing", 10)
	require.Error(t, err)
	_, err = replayCommand("nowhere", "demo", 10)
	require.Error(t, err)
}
