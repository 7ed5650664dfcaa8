package gosie2d

import (
	"fmt"
	"math"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the viewer settings, read from the environment.
type Config struct {
	ScreenWidth  int     `envconfig:"SCREEN_WIDTH" default:"960"`
	ScreenHeight int     `envconfig:"SCREEN_HEIGHT" default:"600"`
	Resolution   int     `envconfig:"RESOLUTION" default:"320"`
	FieldOfView  float64 `envconfig:"FOV" default:"1.2"`
	WallHeight   float64 `envconfig:"WALL_HEIGHT" default:"1"`
	MoveStep     float64 `envconfig:"MOVE_STEP" default:"0.08"`
	TurnStep     float64 `envconfig:"TURN_STEP" default:"0.04"`
	Clearance    float64 `envconfig:"CLEARANCE" default:"0.2"`
	FadeDistance float64 `envconfig:"FADE_DISTANCE" default:"0"`
	UseBSP       bool    `envconfig:"USE_BSP" default:"true"`
	MapPath      string  `envconfig:"MAP_PATH"`
}

// LoadConfig reads variables named PREFIX_FIELD, e.g. GOSIE_RESOLUTION.
func LoadConfig(prefix string) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.ScreenWidth <= 0 || c.ScreenHeight <= 0 {
		return &ConfigurationError{Field: "screen", Reason: fmt.Sprintf("size %dx%d must be positive", c.ScreenWidth, c.ScreenHeight)}
	}
	if c.Resolution <= 0 {
		return &ConfigurationError{Field: "resolution", Reason: "at least one ray is needed"}
	}
	if !(c.FieldOfView > 0 && c.FieldOfView < math.Pi) {
		return &ConfigurationError{Field: "fov", Reason: "field of view must lie in (0, π)"}
	}
	if c.WallHeight <= 0 {
		return &ConfigurationError{Field: "wall height", Reason: "must be positive"}
	}
	if c.Clearance < 0 || c.FadeDistance < 0 {
		return &ConfigurationError{Field: "distances", Reason: "clearance and fade distance must not be negative"}
	}
	return nil
}

func (c *Config) Viewport() Viewport {
	return Viewport{Width: c.ScreenWidth, Height: c.ScreenHeight, Resolution: c.Resolution}
}

func (c *Config) Caster() Caster {
	if c.UseBSP {
		return BSPCaster{}
	}
	return BruteForceCaster{}
}

func (c *Config) Renderer() *Renderer {
	r := NewRenderer(c.Caster())
	r.WallHeight = c.WallHeight
	r.FadeDistance = c.FadeDistance
	return r
}
