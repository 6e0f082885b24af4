package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/phanxgames/warviz"
)

// Config represents the complete application configuration
type Config struct {
	Window      WindowConfig      `mapstructure:"window"`
	Data        DataConfig        `mapstructure:"data"`
	Animation   AnimationConfig   `mapstructure:"animation"`
	Interaction InteractionConfig `mapstructure:"interaction"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

// WindowConfig holds the game window settings
type WindowConfig struct {
	Title  string `mapstructure:"title"`
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
	Debug  bool   `mapstructure:"debug"`
}

// DataConfig holds dataset locations
type DataConfig struct {
	File      string        `mapstructure:"file"`
	EventsDir string        `mapstructure:"events_dir"`
	Watch     bool          `mapstructure:"watch"`
	Debounce  time.Duration `mapstructure:"debounce"`
}

// AnimationConfig holds transition timings
type AnimationConfig struct {
	TextStagger   time.Duration `mapstructure:"text_stagger"`
	TextDuration  time.Duration `mapstructure:"text_duration"`
	PieStagger    time.Duration `mapstructure:"pie_stagger"`
	PieDuration   time.Duration `mapstructure:"pie_duration"`
	BarDuration   time.Duration `mapstructure:"bar_duration"`
	HoverDuration time.Duration `mapstructure:"hover_duration"`
}

// InteractionConfig holds gesture settings
type InteractionConfig struct {
	OverviewHold          time.Duration `mapstructure:"overview_hold"`
	DetailHold            time.Duration `mapstructure:"detail_hold"`
	TooltipOffsetX        float64       `mapstructure:"tooltip_offset_x"`
	TooltipOffsetY        float64       `mapstructure:"tooltip_offset_y"`
	ZeroSegmentsHoverable bool          `mapstructure:"zero_segments_hoverable"`
	LoadTimeout           time.Duration `mapstructure:"load_timeout"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Hold thresholds outside this range make taps and holds hard to tell apart.
const (
	MinHold = 300 * time.Millisecond
	MaxHold = 500 * time.Millisecond
)

// Load reads configuration from file and environment variables. An empty
// path uses defaults and the environment only.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	// WARVIZ_DATA_FILE overrides data.file, and so on.
	v.SetEnvPrefix("WARVIZ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	v.SetDefault("window.title", "WW2 Casualties")
	v.SetDefault("window.width", 960)
	v.SetDefault("window.height", 720)
	v.SetDefault("window.debug", false)

	v.SetDefault("data.file", "./data/casualties.json")
	v.SetDefault("data.events_dir", "./data")
	v.SetDefault("data.watch", false)
	v.SetDefault("data.debounce", "300ms")

	v.SetDefault("animation.text_stagger", "35ms")
	v.SetDefault("animation.text_duration", "35ms")
	v.SetDefault("animation.pie_stagger", "100ms")
	v.SetDefault("animation.pie_duration", "750ms")
	v.SetDefault("animation.bar_duration", "2300ms")
	v.SetDefault("animation.hover_duration", "200ms")

	v.SetDefault("interaction.overview_hold", "300ms")
	v.SetDefault("interaction.detail_hold", "400ms")
	v.SetDefault("interaction.tooltip_offset_x", 10)
	v.SetDefault("interaction.tooltip_offset_y", -28)
	v.SetDefault("interaction.zero_segments_hoverable", true)
	v.SetDefault("interaction.load_timeout", "2s")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	if c.Window.Width < 1 || c.Window.Height < 1 {
		return fmt.Errorf("window.width and window.height must be positive")
	}

	if c.Data.File == "" {
		return fmt.Errorf("data.file is required")
	}
	if c.Data.Watch && c.Data.Debounce <= 0 {
		return fmt.Errorf("data.debounce must be positive when data.watch is enabled")
	}

	a := c.Animation
	for name, d := range map[string]time.Duration{
		"animation.text_stagger":   a.TextStagger,
		"animation.text_duration":  a.TextDuration,
		"animation.pie_stagger":    a.PieStagger,
		"animation.pie_duration":   a.PieDuration,
		"animation.bar_duration":   a.BarDuration,
		"animation.hover_duration": a.HoverDuration,
	} {
		if d < 0 {
			return fmt.Errorf("%s must not be negative", name)
		}
	}

	for name, d := range map[string]time.Duration{
		"interaction.overview_hold": c.Interaction.OverviewHold,
		"interaction.detail_hold":   c.Interaction.DetailHold,
	} {
		if d < MinHold || d > MaxHold {
			return fmt.Errorf("%s must be between %s and %s", name, MinHold, MaxHold)
		}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, console")
	}

	return nil
}

// Orchestrator returns the choreography settings, starting from the stock
// configuration.
func (c *Config) Orchestrator() warviz.OrchestratorConfig {
	oc := warviz.DefaultOrchestratorConfig()
	a := c.Animation

	oc.TextStagger.Delay = a.TextStagger
	oc.TextStagger.Duration = a.TextDuration
	oc.PieIn.Delay = a.PieStagger
	oc.PieIn.Duration = a.PieDuration
	oc.PieOut.Duration = a.PieDuration
	oc.BarIn.Duration = a.BarDuration
	oc.BarOut.Duration = a.BarDuration
	oc.HoverDuration = a.HoverDuration

	oc.OverviewHold = c.Interaction.OverviewHold
	oc.DetailHold = c.Interaction.DetailHold
	oc.TooltipOffset = warviz.Vec2{X: c.Interaction.TooltipOffsetX, Y: c.Interaction.TooltipOffsetY}
	oc.ZeroSegmentsHoverable = c.Interaction.ZeroSegmentsHoverable
	oc.LoadTimeout = c.Interaction.LoadTimeout
	return oc
}
