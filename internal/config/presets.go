package config

// Presets are named tuning sets for the playground and scripted runs.
// Values not set by a preset keep the defaults.
var Presets = map[string]func(*Config){
	"default": func(c *Config) {},
	"floaty": func(c *Config) {
		c.World.Gravity = 12.0
		c.Movement.MaxFallSpeed = 4.0
		c.Jump.Velocity = 4.2
		c.Jump.MaxJumps = 2
		c.Jump.Decay = 0.85
		c.Jump.CoyoteTime = 0.2
	},
	"heavy": func(c *Config) {
		c.World.Gravity = 30.0
		c.Movement.MaxFallSpeed = 9.0
		c.Movement.WalkSpeed = 2.0
		c.Jump.Velocity = 5.6
		c.Jump.CoyoteTime = 0.1
		c.Jump.BufferTime = 0.08
	},
	"speedrun": func(c *Config) {
		c.Movement.WalkSpeed = 4.0
		c.Movement.GroundAcceleration = 30.0
		c.Movement.AirControlFactor = 1.0
		c.Jump.MaxJumps = 3
		c.Jump.Decay = 0.9
		c.Movement.LandingRecovery = 0.0
	},
}

// GetPreset returns a full config with the named preset applied, or nil when
// the preset does not exist.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
