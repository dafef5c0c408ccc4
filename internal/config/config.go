// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"github.com/Faultbox/mobius-paper/internal/engine/lighting"
	"github.com/Faultbox/mobius-paper/internal/engine/motion"
	"github.com/Faultbox/mobius-paper/pkg/mobius"
	"github.com/Faultbox/mobius-paper/pkg/paper"
)

// Config holds all viewer settings.
type Config struct {
	Window    WindowConfig    `yaml:"window"`
	Page      PageConfig      `yaml:"page"`
	Strip     StripConfig     `yaml:"strip"`
	Animation AnimationConfig `yaml:"animation"`
	Camera    CameraConfig    `yaml:"camera"`
	Lighting  LightingConfig  `yaml:"lighting"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Width         int    `yaml:"width"`
	Height        int    `yaml:"height"`
	Fullscreen    bool   `yaml:"fullscreen"`
	VSync         bool   `yaml:"vsync"`
	HighDPI       bool   `yaml:"high_dpi"`
	MSAA          int    `yaml:"msaa"` // samples, 0 disables
	ScreenshotDir string `yaml:"screenshot_dir"`
	CaptureScale  int    `yaml:"capture_scale"` // F12 renders this many times the window size
}

// PageConfig holds the paper texture settings.
type PageConfig struct {
	DPI      int     `yaml:"dpi"`
	TextFile string  `yaml:"text_file"` // empty uses the built-in page
	Seed     *uint64 `yaml:"seed"`      // nil gives different grain every run
}

// StripConfig holds the Möbius strip geometry.
type StripConfig struct {
	Radius    float64 `yaml:"radius"`
	HalfWidth float64 `yaml:"half_width"`
	Slices    int     `yaml:"slices"`
	Stacks    int     `yaml:"stacks"`
}

// Params converts the section to generator parameters.
func (sc StripConfig) Params() mobius.Params {
	return mobius.Params{Radius: sc.Radius, HalfWidth: sc.HalfWidth, Slices: sc.Slices, Stacks: sc.Stacks}
}

// AnimationConfig holds the spin rates in radians per second.
type AnimationConfig struct {
	RateX  float64 `yaml:"rate_x"`
	RateY  float64 `yaml:"rate_y"`
	Paused bool    `yaml:"paused"`
}

// CameraConfig holds the initial view and zoom limits.
type CameraConfig struct {
	FOV         float32    `yaml:"fov"` // vertical, degrees
	Near        float32    `yaml:"near"`
	Far         float32    `yaml:"far"`
	Position    [3]float32 `yaml:"position,flow"`
	MinDistance float32    `yaml:"min_distance"`
	MaxDistance float32    `yaml:"max_distance"`
}

// LightingConfig holds the light rig.
type LightingConfig struct {
	AmbientIntensity float32    `yaml:"ambient_intensity"`
	SunPosition      [3]float32 `yaml:"sun_position,flow"`
	SunIntensity     float32    `yaml:"sun_intensity"`
	ToneMapping      bool       `yaml:"tone_mapping"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
	JSON    bool   `yaml:"json"`
}

// Default returns a Config with the scene's default values.
func Default() *Config {
	strip := mobius.DefaultParams()
	rates := motion.DefaultRates()
	rig := lighting.DefaultRig()

	return &Config{
		Window: WindowConfig{
			Width:        1280,
			Height:       720,
			Fullscreen:   false,
			VSync:        true,
			HighDPI:      true,
			MSAA:         4,
			CaptureScale: 2,
		},
		Page: PageConfig{
			DPI: paper.DefaultDPI,
		},
		Strip: StripConfig{
			Radius:    strip.Radius,
			HalfWidth: strip.HalfWidth,
			Slices:    strip.Slices,
			Stacks:    strip.Stacks,
		},
		Animation: AnimationConfig{
			RateX: rates.X,
			RateY: rates.Y,
		},
		Camera: CameraConfig{
			FOV:         45,
			Near:        0.1,
			Far:         100,
			Position:    [3]float32{0, 1.2, 3.2},
			MinDistance: 2,
			MaxDistance: 6,
		},
		Lighting: LightingConfig{
			AmbientIntensity: rig.Ambient.Intensity,
			SunPosition:      rig.Sun.Position,
			SunIntensity:     rig.Sun.Intensity,
			ToneMapping:      true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate reports every setting that cannot produce a scene.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.Window.Width > 0 && c.Window.Height > 0, "window: size %dx%d must be positive", c.Window.Width, c.Window.Height)
	check(c.Window.MSAA >= 0, "window: msaa %d must not be negative", c.Window.MSAA)
	check(c.Window.CaptureScale >= 1 && c.Window.CaptureScale <= 8, "window: capture_scale %d outside [1, 8]", c.Window.CaptureScale)
	if err := paper.ValidateDPI(c.Page.DPI); err != nil {
		errs = append(errs, fmt.Errorf("page: %w", err))
	}
	if err := c.Strip.Params().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("strip: %w", err))
	}
	check(c.Animation.RateX >= 0 && c.Animation.RateY >= 0, "animation: rates must not be negative")
	check(c.Camera.FOV > 0 && c.Camera.FOV < 180, "camera: fov %v outside (0, 180)", c.Camera.FOV)
	check(c.Camera.Near > 0 && c.Camera.Far > c.Camera.Near, "camera: need 0 < near < far, got %v, %v", c.Camera.Near, c.Camera.Far)
	check(c.Camera.MinDistance > 0 && c.Camera.MaxDistance >= c.Camera.MinDistance,
		"camera: need 0 < min_distance <= max_distance, got %v, %v", c.Camera.MinDistance, c.Camera.MaxDistance)
	check(c.Lighting.AmbientIntensity >= 0 && c.Lighting.SunIntensity >= 0, "lighting: intensities must not be negative")

	return errors.Join(errs...)
}
