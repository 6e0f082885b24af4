package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "warviz.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAndValidate(t *testing.T) {
	path := writeConfig(t, `
window:
  title: "Casualties"
  width: 1024
  height: 768

data:
  file: "./testdata/casualties.yaml"
  events_dir: "./testdata"
  watch: true

animation:
  bar_duration: 1s

interaction:
  overview_hold: 350ms
  detail_hold: 450ms
  zero_segments_hoverable: false

logging:
  level: "debug"
  format: "console"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Casualties", cfg.Window.Title)
	assert.Equal(t, 1024, cfg.Window.Width)
	assert.Equal(t, "./testdata/casualties.yaml", cfg.Data.File)
	assert.True(t, cfg.Data.Watch)
	assert.Equal(t, time.Second, cfg.Animation.BarDuration)
	assert.Equal(t, 35*time.Millisecond, cfg.Animation.TextStagger, "defaults fill unset keys")
	assert.Equal(t, 350*time.Millisecond, cfg.Interaction.OverviewHold)
	assert.False(t, cfg.Interaction.ZeroSegmentsHoverable)
	require.NoError(t, cfg.Validate())

	oc := cfg.Orchestrator()
	assert.Equal(t, 350*time.Millisecond, oc.OverviewHold)
	assert.Equal(t, 450*time.Millisecond, oc.DetailHold)
	assert.Equal(t, time.Second, oc.BarIn.Duration)
	assert.Equal(t, time.Second, oc.BarOut.Duration)
	assert.False(t, oc.ZeroSegmentsHoverable)
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 300*time.Millisecond, cfg.Interaction.OverviewHold)
	assert.Equal(t, 400*time.Millisecond, cfg.Interaction.DetailHold)
	assert.Equal(t, 2300*time.Millisecond, cfg.Animation.BarDuration)
	assert.Equal(t, 10.0, cfg.Interaction.TooltipOffsetX)
	assert.Equal(t, -28.0, cfg.Interaction.TooltipOffsetY)
	assert.True(t, cfg.Interaction.ZeroSegmentsHoverable)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("WARVIZ_DATA_FILE", "/tmp/other.json")
	t.Setenv("WARVIZ_INTERACTION_DETAIL_HOLD", "500ms")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/other.json", cfg.Data.File)
	assert.Equal(t, 500*time.Millisecond, cfg.Interaction.DetailHold)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"hold too short", func(c *Config) { c.Interaction.OverviewHold = 100 * time.Millisecond }},
		{"hold too long", func(c *Config) { c.Interaction.DetailHold = time.Second }},
		{"no data file", func(c *Config) { c.Data.File = "" }},
		{"zero width", func(c *Config) { c.Window.Width = 0 }},
		{"negative duration", func(c *Config) { c.Animation.PieDuration = -time.Second }},
		{"watch without debounce", func(c *Config) { c.Data.Watch = true; c.Data.Debounce = 0 }},
		{"bad level", func(c *Config) { c.Logging.Level = "trace" }},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load("")
			require.NoError(t, err)
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
