package prefabs

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

const (
	PlayerFile = "player.yaml"
	CameraFile = "camera.yaml"
	InputFile  = "input.yaml"
)

// Zero-valued numeric fields in the specs below keep the built-in default.

type PlayerSpec struct {
	Name     string           `yaml:"name"`
	Collider CapsuleSpec      `yaml:"collider"`
	Movement MovementSpec     `yaml:"movement"`
	Roll     RollSpec         `yaml:"roll"`
	Stamina  StaminaSpec      `yaml:"stamina"`
	Jump     JumpSpec         `yaml:"jump"`
	Slope    SlopeSpec        `yaml:"slope"`
	Ground   GroundSensorSpec `yaml:"ground"`
	Tilt     TiltSpec         `yaml:"tilt"`
}

type CapsuleSpec struct {
	Radius     float64 `yaml:"radius"`
	HalfHeight float64 `yaml:"half_height"`
}

type MovementSpec struct {
	WalkSpeed            float64 `yaml:"walk_speed"`
	RunSpeed             float64 `yaml:"run_speed"`
	CanMoveWhileBlocking *bool   `yaml:"can_move_while_blocking"`
	BlockMovementPenalty float64 `yaml:"block_movement_penalty"`
	TurnRate             float64 `yaml:"turn_rate"`
	DampingFactor        float64 `yaml:"damping_factor"`
}

type RollSpec struct {
	Speed       float64 `yaml:"speed"`
	Duration    float64 `yaml:"duration"`
	Cooldown    float64 `yaml:"cooldown"`
	StaminaCost float64 `yaml:"stamina_cost"`
}

type StaminaSpec struct {
	Max                float64 `yaml:"max"`
	RegenRate          float64 `yaml:"regen_rate"`
	UseRate            float64 `yaml:"use_rate"`
	BlockCostPerSec    float64 `yaml:"block_cost_per_sec"`
	ExhaustionDuration float64 `yaml:"exhaustion_duration"`
}

type JumpSpec struct {
	Impulse          float64 `yaml:"impulse"`
	CoyoteTime       float64 `yaml:"coyote_time"`
	FallMultiplier   float64 `yaml:"fall_multiplier"`
	BaseGravityScale float64 `yaml:"base_gravity_scale"`
	NormalBias       float64 `yaml:"normal_bias"`
}

type SlopeSpec struct {
	MaxAngleDeg         float64 `yaml:"max_angle_deg"`
	VisualLeniency      float64 `yaml:"visual_leniency"`
	UphillSlowdown      float64 `yaml:"uphill_slowdown"`
	DownhillSpeed       float64 `yaml:"downhill_speed"`
	MinFactor           float64 `yaml:"min_factor"`
	MaxFactor           float64 `yaml:"max_factor"`
	SnapForce           float64 `yaml:"snap_force"`
	SteepSlideSpeed     float64 `yaml:"steep_slide_speed"`
	MaxTraversableAngle float64 `yaml:"max_traversable_deg"`
}

type GroundSensorSpec struct {
	CastScale      float64 `yaml:"cast_scale"`
	CastDistance   float64 `yaml:"cast_distance"`
	MaxHits        int     `yaml:"max_hits"`
	BlendFast      float64 `yaml:"blend_fast"`
	BlendSlow      float64 `yaml:"blend_slow"`
	BlendReturn    float64 `yaml:"blend_return"`
	BlendThreshold float64 `yaml:"blend_threshold"`
}

type TiltSpec struct {
	Rate        float64 `yaml:"rate"`
	FlatEpsilon float64 `yaml:"flat_epsilon"`
}

func LoadPlayerSpec() (*PlayerSpec, error) {
	spec, err := LoadSpec[PlayerSpec](PlayerFile)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

type CameraSpec struct {
	Name               string              `yaml:"name"`
	Pitch              float64             `yaml:"pitch"`
	Yaw                float64             `yaml:"yaw"`
	Distance           float64             `yaml:"distance"`
	HeightOffset       float64             `yaml:"height_offset"`
	RotationSpeed      float64             `yaml:"rotation_speed"`
	ZoomSpeed          float64             `yaml:"zoom_speed"`
	GamepadSensitivity float64             `yaml:"gamepad_sensitivity"`
	StickDeadzone      float64             `yaml:"stick_deadzone"`
	Smoothness         float64             `yaml:"smoothness"`
	InvertX            *bool               `yaml:"invert_x"`
	InvertY            *bool               `yaml:"invert_y"`
	MinPitch           float64             `yaml:"min_pitch"`
	MaxPitch           float64             `yaml:"max_pitch"`
	MinDistance        float64             `yaml:"min_distance"`
	MaxDistance        float64             `yaml:"max_distance"`
	Collision          CameraCollisionSpec `yaml:"collision"`
}

type CameraCollisionSpec struct {
	Radius               float64 `yaml:"radius"`
	Clearance            float64 `yaml:"clearance"`
	MinDistanceFraction  float64 `yaml:"min_distance_fraction"`
	SafeDistanceFraction float64 `yaml:"safe_distance_fraction"`
	SafeHeightFraction   float64 `yaml:"safe_height_fraction"`
	FloorClearance       float64 `yaml:"floor_clearance"`
	CeilingClearance     float64 `yaml:"ceiling_clearance"`
	VerticalProbe        float64 `yaml:"vertical_probe"`
	SmoothingMultiplier  float64 `yaml:"smoothing_multiplier"`
}

func LoadCameraSpec() (*CameraSpec, error) {
	spec, err := LoadSpec[CameraSpec](CameraFile)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// InputSpec names keys the way ebiten prints them ("W", "ArrowUp",
// "ShiftLeft").
type InputSpec struct {
	Keys       KeyBindingsSpec `yaml:"keys"`
	BlockMouse string          `yaml:"block_mouse"`
}

type KeyBindingsSpec struct {
	Up     []string `yaml:"up"`
	Down   []string `yaml:"down"`
	Left   []string `yaml:"left"`
	Right  []string `yaml:"right"`
	Sprint []string `yaml:"sprint"`
	Jump   []string `yaml:"jump"`
	Roll   []string `yaml:"roll"`
	Exit   []string `yaml:"exit"`
}

func LoadInputSpec() (*InputSpec, error) {
	spec, err := LoadSpec[InputSpec](InputFile)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}
