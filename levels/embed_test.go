package levels

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/require"
)

func TestLoadArena(t *testing.T) {
	for _, name := range []string{"arena", "arena.yaml"} {
		lvl, err := LoadLevelFromFS(name)
		require.NoError(t, err)
		require.Equal(t, "arena", lvl.Name)
		require.Len(t, lvl.Boxes, 10)
		require.Equal(t, mgl64.Vec3{0, 1.5, 0}, lvl.SpawnPoint())
	}

	_, err := LoadLevelFromFS("nowhere")
	require.Error(t, err)
}

func TestNames(t *testing.T) {
	require.Contains(t, Names(), "arena")
}

func TestParseRejectsBadLevels(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"not yaml", "boxes: [}"},
		{"no geometry", "name: empty\nboxes: []\n"},
		{"flat box", "name: flat\nboxes:\n  - center: [0, 0, 0]\n    half_extents: [1, 0, 1]\n"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Parse([]byte(c.data))
			require.Error(t, err)
		})
	}
}

func TestBoxRotation(t *testing.T) {
	ramp := Box{PitchDeg: -20}
	up := ramp.Rotation().Rotate(mgl64.Vec3{0, 1, 0})
	require.InDelta(t, math.Cos(mgl64.DegToRad(20)), up.Y(), 1e-9)
	require.Less(t, up.Z(), 0.0, "the top face rises toward +Z")

	crate := Box{YawDeg: 90}
	x := crate.Rotation().Rotate(mgl64.Vec3{1, 0, 0})
	require.InDelta(t, -1, x.Z(), 1e-9)

	require.Equal(t, mgl64.QuatIdent(), Box{}.Rotation())
}
