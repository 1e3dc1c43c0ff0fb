package levels

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

// Dir is checked for an edited copy of a level before the embedded one.
const Dir = "levels"

//go:embed *.yaml
var LevelsFS embed.FS

// Level is static geometry plus where the player starts.
type Level struct {
	Name      string     `yaml:"name"`
	Spawn     [3]float64 `yaml:"spawn"`
	CameraYaw float64    `yaml:"camera_yaw"`
	Boxes     []Box      `yaml:"boxes"`
}

// Box is an oriented box. Rotation is applied yaw, then pitch, then roll, all
// in degrees.
type Box struct {
	Name        string     `yaml:"name"`
	Center      [3]float64 `yaml:"center"`
	HalfExtents [3]float64 `yaml:"half_extents"`
	YawDeg      float64    `yaml:"yaw_deg"`
	PitchDeg    float64    `yaml:"pitch_deg"`
	RollDeg     float64    `yaml:"roll_deg"`
}

func (b Box) Position() mgl64.Vec3 {
	return mgl64.Vec3(b.Center)
}

func (b Box) Half() mgl64.Vec3 {
	return mgl64.Vec3(b.HalfExtents)
}

func (b Box) Rotation() mgl64.Quat {
	yaw := mgl64.QuatRotate(mgl64.DegToRad(b.YawDeg), mgl64.Vec3{0, 1, 0})
	pitch := mgl64.QuatRotate(mgl64.DegToRad(b.PitchDeg), mgl64.Vec3{1, 0, 0})
	roll := mgl64.QuatRotate(mgl64.DegToRad(b.RollDeg), mgl64.Vec3{0, 0, 1})
	return yaw.Mul(pitch).Mul(roll).Normalize()
}

func (l *Level) SpawnPoint() mgl64.Vec3 {
	return mgl64.Vec3(l.Spawn)
}

func (l *Level) validate() error {
	if len(l.Boxes) == 0 {
		return fmt.Errorf("no geometry")
	}
	for i, b := range l.Boxes {
		for _, h := range b.HalfExtents {
			if h <= 0 || math.IsNaN(h) {
				return fmt.Errorf("box %d (%q): half extents must be positive", i, b.Name)
			}
		}
	}
	return nil
}

func LoadLevelFromFS(name string) (*Level, error) {
	if !strings.HasSuffix(name, ".yaml") {
		name += ".yaml"
	}
	name = path.Base(filepath.ToSlash(name))
	data, err := os.ReadFile(filepath.Join(Dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		data, err = fs.ReadFile(LevelsFS, name)
	}
	if err != nil {
		return nil, fmt.Errorf("read level: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Level, error) {
	var lvl Level
	if err := yaml.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("unmarshal level: %w", err)
	}
	if err := lvl.validate(); err != nil {
		return nil, fmt.Errorf("level %q: %w", lvl.Name, err)
	}
	return &lvl, nil
}

// Names lists the embedded levels without their extension.
func Names() []string {
	entries, err := fs.ReadDir(LevelsFS, ".")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}
