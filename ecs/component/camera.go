package component

import "github.com/go-gl/mathgl/mgl64"

// ThirdPersonCamera is the orbit rig state. Yaw is unbounded; Pitch and
// Distance are kept inside their ranges by the rig.
type ThirdPersonCamera struct {
	Pitch        float64
	Yaw          float64
	Distance     float64
	HeightOffset float64

	RotationSpeed      float64
	ZoomSpeed          float64
	GamepadSensitivity float64
	StickDeadzone      float64
	Smoothness         float64
	InvertX            bool
	InvertY            bool

	MinPitch    float64
	MaxPitch    float64
	MinDistance float64
	MaxDistance float64
}

func DefaultThirdPersonCamera() *ThirdPersonCamera {
	return &ThirdPersonCamera{
		Pitch:              0.5,
		Distance:           5,
		HeightOffset:       1.5,
		RotationSpeed:      0.004,
		ZoomSpeed:          0.5,
		GamepadSensitivity: 0.05,
		StickDeadzone:      0.1,
		Smoothness:         5,
		MinPitch:           0.5,
		MaxPitch:           1.4,
		MinDistance:        2,
		MaxDistance:        15,
	}
}

var ThirdPersonCameraComponent = NewComponent[ThirdPersonCamera]()

// CameraCollision tunes how the rig avoids clipping into geometry.
type CameraCollision struct {
	Radius                       float64
	Clearance                    float64
	MinDistanceFraction          float64
	SafeDistanceFraction         float64
	SafeHeightFraction           float64
	FloorClearance               float64
	CeilingClearance             float64
	VerticalProbe                float64
	CollisionSmoothingMultiplier float64
}

func DefaultCameraCollision() *CameraCollision {
	return &CameraCollision{
		Radius:                       0.3,
		Clearance:                    0.2,
		MinDistanceFraction:          0.3,
		SafeDistanceFraction:         0.4,
		SafeHeightFraction:           0.8,
		FloorClearance:               0.5,
		CeilingClearance:             0.3,
		VerticalProbe:                5,
		CollisionSmoothingMultiplier: 2,
	}
}

var CameraCollisionComponent = NewComponent[CameraCollision]()

// CameraRigState is the transient result of the last rig update.
type CameraRigState struct {
	Ideal             mgl64.Vec3
	Target            mgl64.Vec3
	Focus             mgl64.Vec3
	EffectiveDistance float64
	Colliding         bool
	FellBack          bool
}

var CameraRigStateComponent = NewComponent[CameraRigState]()
