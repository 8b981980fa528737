// Package config loads the application configuration from a YAML or TOML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Present modes accepted in RendererConfig.PresentMode.
const (
	PresentModeVSync    = "vsync"
	PresentModeUncapped = "uncapped"
)

type WindowConfig struct {
	Title  string `yaml:"title" toml:"title"`
	Width  int    `yaml:"width" toml:"width"`
	Height int    `yaml:"height" toml:"height"`
}

type RendererConfig struct {
	PresentMode string     `yaml:"present_mode" toml:"present_mode"` // "vsync" | "uncapped"
	MSAA        int        `yaml:"msaa" toml:"msaa"`                 // 1 | 4
	FrameLimit  float64    `yaml:"frame_limit" toml:"frame_limit"`   // frames per second, 0 = uncapped
	Software    bool       `yaml:"software" toml:"software"`
	ClearColor  [4]float32 `yaml:"clear_color" toml:"clear_color"` // RGBA in [0, 1]
}

type AssetsConfig struct {
	TextureDir string `yaml:"texture_dir" toml:"texture_dir"`
	ModelDir   string `yaml:"model_dir" toml:"model_dir"`
}

type AnimationConfig struct {
	TickPeriodMs int     `yaml:"tick_period_ms" toml:"tick_period_ms"`
	EyeHeight    float32 `yaml:"eye_height" toml:"eye_height"`
}

type ViewConfig struct {
	MinRotationX  float32 `yaml:"min_rotation_x" toml:"min_rotation_x"`
	MaxRotationX  float32 `yaml:"max_rotation_x" toml:"max_rotation_x"`
	SceneDistance float32 `yaml:"scene_distance" toml:"scene_distance"`
}

type Config struct {
	Window    WindowConfig    `yaml:"window" toml:"window"`
	Renderer  RendererConfig  `yaml:"renderer" toml:"renderer"`
	Assets    AssetsConfig    `yaml:"assets" toml:"assets"`
	Animation AnimationConfig `yaml:"animation" toml:"animation"`
	View      ViewConfig      `yaml:"view" toml:"view"`
	Profiling bool            `yaml:"profiling" toml:"profiling"`
}

// Default returns the configuration used when no file is given. Fields missing from a file keep these values.
//
// Returns:
//   - Config: the default configuration
func Default() Config {
	return Config{
		Window: WindowConfig{
			Title:  "Castle Siege",
			Width:  1280,
			Height: 720,
		},
		Renderer: RendererConfig{
			PresentMode: PresentModeVSync,
			MSAA:        4,
			ClearColor:  [4]float32{0, 0, 0, 1},
		},
		Assets: AssetsConfig{
			TextureDir: "assets/textures",
			ModelDir:   "assets/models",
		},
		Animation: AnimationConfig{
			TickPeriodMs: 30,
			EyeHeight:    10,
		},
		View: ViewConfig{
			MinRotationX:  4,
			MaxRotationX:  60,
			SceneDistance: 150,
		},
	}
}

// Load reads a configuration file. The format is chosen by extension: .yaml/.yml or .toml.
// A leading ~ in the path and in the asset directories is expanded to the home directory.
// An empty path returns Default().
//
// Parameters:
//   - path: the file to read
//
// Returns:
//   - Config: the validated configuration
//   - error: error if the file cannot be read, decoded or fails validation
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	expanded, err := homedir.Expand(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	data, err := os.ReadFile(expanded)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(expanded)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	default:
		return Config{}, fmt.Errorf("config: unsupported format %q", ext)
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}

	if cfg.Assets.TextureDir, err = homedir.Expand(cfg.Assets.TextureDir); err != nil {
		return Config{}, fmt.Errorf("config: texture_dir: %w", err)
	}
	if cfg.Assets.ModelDir, err = homedir.Expand(cfg.Assets.ModelDir); err != nil {
		return Config{}, fmt.Errorf("config: model_dir: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the application cannot start with.
//
// Returns:
//   - error: error wrapping ErrInvalid naming every offending field, nil if valid
func (c Config) Validate() error {
	var errs []error
	invalid := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
	}

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		invalid("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	if c.Animation.TickPeriodMs <= 0 {
		invalid("tick_period_ms %d must be positive", c.Animation.TickPeriodMs)
	}
	if c.View.MinRotationX > c.View.MaxRotationX {
		invalid("rotation bounds [%g, %g] are not ordered", c.View.MinRotationX, c.View.MaxRotationX)
	}
	if c.View.SceneDistance <= 0 {
		invalid("scene_distance %g must be positive", c.View.SceneDistance)
	}
	if c.Renderer.MSAA != 1 && c.Renderer.MSAA != 4 {
		invalid("msaa %d must be 1 or 4", c.Renderer.MSAA)
	}
	if c.Renderer.PresentMode != PresentModeVSync && c.Renderer.PresentMode != PresentModeUncapped {
		invalid("present_mode %q must be %q or %q", c.Renderer.PresentMode, PresentModeVSync, PresentModeUncapped)
	}
	if c.Renderer.FrameLimit < 0 {
		invalid("frame_limit %g must not be negative", c.Renderer.FrameLimit)
	}
	for _, v := range c.Renderer.ClearColor {
		if v < 0 || v > 1 {
			invalid("clear_color %v components must be in [0, 1]", c.Renderer.ClearColor)
			break
		}
	}
	return errors.Join(errs...)
}

// TickPeriod returns the animation tick period as a duration.
//
// Returns:
//   - time.Duration: the tick period
func (c Config) TickPeriod() time.Duration {
	return time.Duration(c.Animation.TickPeriodMs) * time.Millisecond
}
