package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, 30*time.Millisecond, cfg.TickPeriod())
}

func TestLoadFormats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"yaml", "siege.yaml", `
window:
  width: 1024
animation:
  tick_period_ms: 15
view:
  max_rotation_x: 80
renderer:
  present_mode: uncapped
  clear_color: [0.5, 0.75, 1, 1]
profiling: true
`},
		{"yml", "siege.yml", `
window: {width: 1024}
animation: {tick_period_ms: 15}
view: {max_rotation_x: 80}
renderer: {present_mode: uncapped, clear_color: [0.5, 0.75, 1, 1]}
profiling: true
`},
		{"toml", "siege.toml", `
profiling = true

[window]
width = 1024

[animation]
tick_period_ms = 15

[view]
max_rotation_x = 80.0

[renderer]
present_mode = "uncapped"
clear_color = [0.5, 0.75, 1.0, 1.0]
`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(writeFile(t, tt.file, tt.content))
			require.NoError(t, err)

			assert.Equal(t, 1024, cfg.Window.Width)
			assert.Equal(t, 720, cfg.Window.Height, "missing fields keep defaults")
			assert.Equal(t, "Castle Siege", cfg.Window.Title)
			assert.Equal(t, 15*time.Millisecond, cfg.TickPeriod())
			assert.Equal(t, float32(80), cfg.View.MaxRotationX)
			assert.Equal(t, float32(4), cfg.View.MinRotationX)
			assert.Equal(t, PresentModeUncapped, cfg.Renderer.PresentMode)
			assert.Equal(t, 4, cfg.Renderer.MSAA)
			assert.Equal(t, [4]float32{0.5, 0.75, 1, 1}, cfg.Renderer.ClearColor)
			assert.True(t, cfg.Profiling)
		})
	}
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"zero width", "window: {width: 0}", "window size"},
		{"negative height", "window: {height: -1}", "window size"},
		{"zero tick", "animation: {tick_period_ms: 0}", "tick_period_ms"},
		{"unordered bounds", "view: {min_rotation_x: 70, max_rotation_x: 60}", "rotation bounds"},
		{"distance", "view: {scene_distance: 0}", "scene_distance"},
		{"msaa", "renderer: {msaa: 2}", "msaa"},
		{"present mode", "renderer: {present_mode: mailbox}", "present_mode"},
		{"frame limit", "renderer: {frame_limit: -1}", "frame_limit"},
		{"clear color", "renderer: {clear_color: [0, 0, 2, 1]}", "clear_color"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, "siege.yaml", tt.content))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalid)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidateReportsEveryField(t *testing.T) {
	cfg := Default()
	cfg.Window.Width = 0
	cfg.Animation.TickPeriodMs = -5

	err := cfg.Validate()
	require.ErrorIs(t, err, ErrInvalid)
	assert.Contains(t, err.Error(), "window size")
	assert.Contains(t, err.Error(), "tick_period_ms")
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeFile(t, "siege.json", "{}"))
	assert.ErrorContains(t, err, "unsupported format")

	_, err = Load(writeFile(t, "siege.yaml", "window: [1, 2"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalid)

	_, err = Load(writeFile(t, "siege.toml", "window = 3"))
	assert.Error(t, err)
}

func TestHomeExpansion(t *testing.T) {
	home, err := homedir.Dir()
	if err != nil {
		t.Skip("no home directory")
	}

	cfg, err := Load(writeFile(t, "siege.yaml", "assets: {texture_dir: ~/siege/textures}"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "siege", "textures"), cfg.Assets.TextureDir)
	assert.Equal(t, "assets/models", cfg.Assets.ModelDir)
}
