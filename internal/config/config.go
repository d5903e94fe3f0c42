package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultPixelsPerMeter = 50.0
	DefaultFixedDt        = 1.0 / 60.0
	DefaultMaxFrameDelta  = 1.0 / 20.0
	DefaultMaxSteps       = 3
	DefaultGravity        = 20.0

	DefaultWalkSpeed        = 2.5
	DefaultGroundAccel      = 18.0
	DefaultAirAccel         = 10.0
	DefaultAirControl       = 0.8
	DefaultDeceleration     = 22.0
	DefaultMaxFallSpeed     = 6.0
	DefaultLandingRecovery  = 0.12
	DefaultRecoveryMult     = 0.9
	DefaultJumpVelocity     = 4.8
	DefaultJumpDecay        = 1.0
	DefaultMaxJumps         = 1
	DefaultCoyoteTime       = 0.15
	DefaultJumpBuffer       = 0.1
	DefaultMinHeightFrac    = 0.3
	DefaultCapsuleRadius    = 0.2
	DefaultCapsuleHalfH     = 0.45
	DefaultSkinOffset       = 0.01
	DefaultAutostepHeight   = 0.25
	DefaultAutostepMinWidth = 0.1
	DefaultSnapDistance     = 0.1
	DefaultFaultThreshold   = 5
)

type Config struct {
	World    WorldConfig    `yaml:"world"`
	Movement MovementConfig `yaml:"movement"`
	Jump     JumpConfig     `yaml:"jump"`
	Body     BodyConfig     `yaml:"body"`
	Fault    FaultConfig    `yaml:"fault"`
}

type WorldConfig struct {
	PixelsPerMeter float64 `yaml:"pixels_per_meter"`
	FixedDt        float64 `yaml:"fixed_dt"`
	MaxFrameDelta  float64 `yaml:"max_frame_delta"`
	MaxSteps       int     `yaml:"max_steps"`
	Gravity        float64 `yaml:"gravity"` // m/s^2, downward positive
}

type MovementConfig struct {
	WalkSpeed          float64 `yaml:"walk_speed"`
	GroundAcceleration float64 `yaml:"ground_acceleration"`
	AirAcceleration    float64 `yaml:"air_acceleration"`
	AirControlFactor   float64 `yaml:"air_control_factor"`
	Deceleration       float64 `yaml:"deceleration"`
	MaxFallSpeed       float64 `yaml:"max_fall_speed"`
	LandingRecovery    float64 `yaml:"landing_recovery"`
	RecoveryMultiplier float64 `yaml:"recovery_multiplier"`
}

type JumpConfig struct {
	Velocity          float64 `yaml:"velocity"`
	Decay             float64 `yaml:"decay"`
	MaxJumps          int     `yaml:"max_jumps"`
	CoyoteTime        float64 `yaml:"coyote_time"`
	BufferTime        float64 `yaml:"buffer_time"`
	MinHeightFraction float64 `yaml:"min_height_fraction"`
}

type BodyConfig struct {
	CapsuleRadius     float64 `yaml:"capsule_radius"`
	CapsuleHalfHeight float64 `yaml:"capsule_half_height"`
	SkinOffset        float64 `yaml:"skin_offset"`
	Autostep          bool    `yaml:"autostep"`
	AutostepMaxHeight float64 `yaml:"autostep_max_height"`
	AutostepMinWidth  float64 `yaml:"autostep_min_width"`
	AutostepDynamic   bool    `yaml:"autostep_dynamic"`
	GroundSnap        bool    `yaml:"ground_snap"`
	SnapDistance      float64 `yaml:"snap_distance"`
}

type FaultConfig struct {
	Threshold int `yaml:"threshold"`
	// AutoRevive re-enables a benched actor after the given number of
	// seconds. Zero disables the policy; an explicit Revive is then the
	// only way back.
	AutoRevive float64 `yaml:"auto_revive"`
}

func DefaultConfig() *Config {
	return &Config{
		World: WorldConfig{
			PixelsPerMeter: DefaultPixelsPerMeter,
			FixedDt:        DefaultFixedDt,
			MaxFrameDelta:  DefaultMaxFrameDelta,
			MaxSteps:       DefaultMaxSteps,
			Gravity:        DefaultGravity,
		},
		Movement: MovementConfig{
			WalkSpeed:          DefaultWalkSpeed,
			GroundAcceleration: DefaultGroundAccel,
			AirAcceleration:    DefaultAirAccel,
			AirControlFactor:   DefaultAirControl,
			Deceleration:       DefaultDeceleration,
			MaxFallSpeed:       DefaultMaxFallSpeed,
			LandingRecovery:    DefaultLandingRecovery,
			RecoveryMultiplier: DefaultRecoveryMult,
		},
		Jump: JumpConfig{
			Velocity:          DefaultJumpVelocity,
			Decay:             DefaultJumpDecay,
			MaxJumps:          DefaultMaxJumps,
			CoyoteTime:        DefaultCoyoteTime,
			BufferTime:        DefaultJumpBuffer,
			MinHeightFraction: DefaultMinHeightFrac,
		},
		Body: BodyConfig{
			CapsuleRadius:     DefaultCapsuleRadius,
			CapsuleHalfHeight: DefaultCapsuleHalfH,
			SkinOffset:        DefaultSkinOffset,
			Autostep:          true,
			AutostepMaxHeight: DefaultAutostepHeight,
			AutostepMinWidth:  DefaultAutostepMinWidth,
			GroundSnap:        true,
			SnapDistance:      DefaultSnapDistance,
		},
		Fault: FaultConfig{
			Threshold: DefaultFaultThreshold,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
