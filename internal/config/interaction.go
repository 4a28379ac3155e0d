package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/banshee-data/chartkit/internal/interact"
)

// InteractionConfig represents the root configuration for chart interaction
// parameters. The schema matches the /api/charts/{id}/params endpoint so the
// same JSON can be used for both startup configuration and runtime updates.
type InteractionConfig struct {
	// Zoom/pan params
	ZoomMode       *string  `json:"zoom_mode,omitempty"` // "both", "x", "y", "none"
	PanMode        *string  `json:"pan_mode,omitempty"`  // "both", "x", "y", "none"
	MinZoomLevel   *float64 `json:"min_zoom_level,omitempty"`
	MaxZoomLevel   *float64 `json:"max_zoom_level,omitempty"`
	WheelZoomSpeed *float64 `json:"wheel_zoom_speed,omitempty"`
	PanSlopPx      *float64 `json:"pan_slop_px,omitempty"`

	// Overlay params
	SnapRadiusPx          *float64 `json:"snap_radius_px,omitempty"`
	LongPressThreshold    *string  `json:"long_press_threshold,omitempty"` // duration string like "500ms"
	TooltipDismiss        *string  `json:"tooltip_dismiss,omitempty"`      // "immediate", "delayed", "never"
	TooltipDismissDelay   *string  `json:"tooltip_dismiss_delay,omitempty"`
	CrosshairDismiss      *string  `json:"crosshair_dismiss,omitempty"`
	CrosshairDismissDelay *string  `json:"crosshair_dismiss_delay,omitempty"`
	Trackball             *string  `json:"trackball,omitempty"` // "nearest_x", "snap_radius", "snap_x", "snap_y", "magnetic"

	// Animation params
	AnimationDuration *string  `json:"animation_duration,omitempty"` // duration string; "0" disables
	AnimationInterval *string  `json:"animation_interval,omitempty"`
	DoubleTapFactor   *float64 `json:"double_tap_factor,omitempty"`
	StepFactor        *float64 `json:"step_factor,omitempty"`
	MinSelectionPx    *float64 `json:"min_selection_px,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrString(v string) *string    { return &v }

// EmptyInteractionConfig returns an InteractionConfig with all fields set to
// nil. The Get* methods provide fallback defaults for nil fields.
func EmptyInteractionConfig() *InteractionConfig {
	return &InteractionConfig{}
}

// LoadInteractionConfig loads an InteractionConfig from a JSON file.
// The file is validated to ensure it has a .json extension and is under the
// max file size. Fields omitted from the JSON file retain their default
// values, so partial configs are safe.
func LoadInteractionConfig(path string) (*InteractionConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyInteractionConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are valid.
func (c *InteractionConfig) Validate() error {
	if c.ZoomMode != nil {
		if _, err := parseZoomMode(*c.ZoomMode); err != nil {
			return err
		}
	}
	if c.PanMode != nil {
		if _, err := parsePanMode(*c.PanMode); err != nil {
			return err
		}
	}

	if c.MinZoomLevel != nil && *c.MinZoomLevel <= 0 {
		return fmt.Errorf("min_zoom_level must be positive, got %f", *c.MinZoomLevel)
	}
	if c.MaxZoomLevel != nil && *c.MaxZoomLevel <= 0 {
		return fmt.Errorf("max_zoom_level must be positive, got %f", *c.MaxZoomLevel)
	}
	if c.MinZoomLevel != nil && c.MaxZoomLevel != nil && *c.MaxZoomLevel < *c.MinZoomLevel {
		return fmt.Errorf("max_zoom_level %f < min_zoom_level %f", *c.MaxZoomLevel, *c.MinZoomLevel)
	}

	if c.WheelZoomSpeed != nil && *c.WheelZoomSpeed <= 0 {
		return fmt.Errorf("wheel_zoom_speed must be positive, got %f", *c.WheelZoomSpeed)
	}
	if c.SnapRadiusPx != nil && *c.SnapRadiusPx <= 0 {
		return fmt.Errorf("snap_radius_px must be positive, got %f", *c.SnapRadiusPx)
	}

	for name, v := range map[string]*string{
		"long_press_threshold":    c.LongPressThreshold,
		"tooltip_dismiss_delay":   c.TooltipDismissDelay,
		"crosshair_dismiss_delay": c.CrosshairDismissDelay,
		"animation_duration":      c.AnimationDuration,
		"animation_interval":      c.AnimationInterval,
	} {
		if v != nil && *v != "" {
			if _, err := time.ParseDuration(*v); err != nil {
				return fmt.Errorf("invalid %s '%s': %w", name, *v, err)
			}
		}
	}

	for name, v := range map[string]*string{
		"tooltip_dismiss":   c.TooltipDismiss,
		"crosshair_dismiss": c.CrosshairDismiss,
	} {
		if v != nil {
			if _, err := parseDismissPolicy(*v); err != nil {
				return fmt.Errorf("invalid %s: %w", name, err)
			}
		}
	}

	if c.Trackball != nil {
		if _, err := parseTrackballMode(*c.Trackball); err != nil {
			return err
		}
	}

	return nil
}

// GetZoomMode returns the zoom_mode value or the default (both axes).
func (c *InteractionConfig) GetZoomMode() interact.ZoomMode {
	if c.ZoomMode == nil {
		return interact.ZoomBoth
	}
	m, err := parseZoomMode(*c.ZoomMode)
	if err != nil {
		return interact.ZoomBoth
	}
	return m
}

// GetPanMode returns the pan_mode value or the default (both axes).
func (c *InteractionConfig) GetPanMode() interact.PanMode {
	if c.PanMode == nil {
		return interact.PanBoth
	}
	m, err := parsePanMode(*c.PanMode)
	if err != nil {
		return interact.PanBoth
	}
	return m
}

// GetZoomLimits returns the zoom level limits or the defaults.
func (c *InteractionConfig) GetZoomLimits() interact.ZoomLimits {
	limits := interact.DefaultZoomLimits()
	if c.MinZoomLevel != nil {
		limits.MinLevel = *c.MinZoomLevel
	}
	if c.MaxZoomLevel != nil {
		limits.MaxLevel = *c.MaxZoomLevel
	}
	return limits
}

// GetWheelZoomSpeed returns the wheel_zoom_speed value or the default.
func (c *InteractionConfig) GetWheelZoomSpeed() float64 {
	if c.WheelZoomSpeed == nil {
		return 1.0
	}
	return *c.WheelZoomSpeed
}

// GetSnapRadiusPx returns the snap_radius_px value or the default.
func (c *InteractionConfig) GetSnapRadiusPx() float64 {
	if c.SnapRadiusPx == nil {
		return 30
	}
	return *c.SnapRadiusPx
}

// GetPanSlopPx returns the pan_slop_px value or the default.
func (c *InteractionConfig) GetPanSlopPx() float64 {
	if c.PanSlopPx == nil {
		return 8
	}
	return *c.PanSlopPx
}

// GetLongPressThreshold parses and returns the long-press threshold.
func (c *InteractionConfig) GetLongPressThreshold() time.Duration {
	return durationOr(c.LongPressThreshold, 500*time.Millisecond)
}

// GetTooltipOverlay returns the tooltip dismissal policy and delay.
func (c *InteractionConfig) GetTooltipOverlay() interact.OverlayConfig {
	return overlayConfig(c.TooltipDismiss, c.TooltipDismissDelay)
}

// GetCrosshairOverlay returns the crosshair dismissal policy and delay.
func (c *InteractionConfig) GetCrosshairOverlay() interact.OverlayConfig {
	return overlayConfig(c.CrosshairDismiss, c.CrosshairDismissDelay)
}

// GetTrackball returns the trackball strategy or the default.
func (c *InteractionConfig) GetTrackball() interact.TrackballMode {
	if c.Trackball == nil {
		return interact.TrackballNearestByX
	}
	m, err := parseTrackballMode(*c.Trackball)
	if err != nil {
		return interact.TrackballNearestByX
	}
	return m
}

// GetAnimationDuration parses and returns the zoom animation duration.
// Zero disables animation: zoom transitions apply instantly.
func (c *InteractionConfig) GetAnimationDuration() time.Duration {
	return durationOr(c.AnimationDuration, 300*time.Millisecond)
}

// GetAnimationInterval parses and returns the animation frame interval.
func (c *InteractionConfig) GetAnimationInterval() time.Duration {
	return durationOr(c.AnimationInterval, 16*time.Millisecond)
}

// GetDoubleTapFactor returns the double_tap_factor value or the default.
func (c *InteractionConfig) GetDoubleTapFactor() float64 {
	if c.DoubleTapFactor == nil {
		return 2.0
	}
	return *c.DoubleTapFactor
}

// GetStepFactor returns the step_factor value or the default.
func (c *InteractionConfig) GetStepFactor() float64 {
	if c.StepFactor == nil {
		return 2.0
	}
	return *c.StepFactor
}

// GetMinSelectionPx returns the min_selection_px value or the default.
func (c *InteractionConfig) GetMinSelectionPx() float64 {
	if c.MinSelectionPx == nil {
		return 20
	}
	return *c.MinSelectionPx
}

// MachineConfig assembles the interaction engine configuration from the
// loaded values and defaults.
func (c *InteractionConfig) MachineConfig() interact.MachineConfig {
	return interact.MachineConfig{
		ZoomMode:           c.GetZoomMode(),
		PanMode:            c.GetPanMode(),
		Limits:             c.GetZoomLimits(),
		WheelZoomSpeed:     c.GetWheelZoomSpeed(),
		SnapRadius:         c.GetSnapRadiusPx(),
		LongPressThreshold: c.GetLongPressThreshold(),
		PanSlopPx:          c.GetPanSlopPx(),
		Tooltip:            c.GetTooltipOverlay(),
		Crosshair:          c.GetCrosshairOverlay(),
		Trackball:          c.GetTrackball(),
	}
}

// AnimatorOptions assembles the zoom animation configuration from the loaded
// values and defaults.
func (c *InteractionConfig) AnimatorOptions() interact.AnimatorOptions {
	return interact.AnimatorOptions{
		Duration:        c.GetAnimationDuration(),
		Interval:        c.GetAnimationInterval(),
		DoubleTapFactor: c.GetDoubleTapFactor(),
		StepFactor:      c.GetStepFactor(),
		MinSelectionPx:  c.GetMinSelectionPx(),
	}
}

func overlayConfig(policy, delay *string) interact.OverlayConfig {
	out := interact.OverlayConfig{
		Policy: interact.DismissImmediate,
		Delay:  2 * time.Second,
	}
	if policy != nil {
		if p, err := parseDismissPolicy(*policy); err == nil {
			out.Policy = p
		}
	}
	out.Delay = durationOr(delay, out.Delay)
	return out
}

func durationOr(v *string, def time.Duration) time.Duration {
	if v == nil || *v == "" {
		return def
	}
	d, err := time.ParseDuration(*v)
	if err != nil {
		return def
	}
	return d
}

func parseZoomMode(s string) (interact.ZoomMode, error) {
	switch s {
	case "both":
		return interact.ZoomBoth, nil
	case "x":
		return interact.ZoomX, nil
	case "y":
		return interact.ZoomY, nil
	case "none":
		return interact.ZoomNone, nil
	}
	return 0, fmt.Errorf("unknown zoom_mode %q", s)
}

func parsePanMode(s string) (interact.PanMode, error) {
	switch s {
	case "both":
		return interact.PanBoth, nil
	case "x":
		return interact.PanX, nil
	case "y":
		return interact.PanY, nil
	case "none":
		return interact.PanNone, nil
	}
	return 0, fmt.Errorf("unknown pan_mode %q", s)
}

func parseDismissPolicy(s string) (interact.DismissPolicy, error) {
	switch s {
	case "immediate":
		return interact.DismissImmediate, nil
	case "delayed":
		return interact.DismissDelayed, nil
	case "never":
		return interact.DismissNever, nil
	}
	return 0, fmt.Errorf("unknown dismiss policy %q", s)
}

func parseTrackballMode(s string) (interact.TrackballMode, error) {
	switch s {
	case "nearest_x":
		return interact.TrackballNearestByX, nil
	case "snap_radius":
		return interact.TrackballSnapWithinRadius, nil
	case "snap_x":
		return interact.TrackballSnapByX, nil
	case "snap_y":
		return interact.TrackballSnapByY, nil
	case "magnetic":
		return interact.TrackballMagnetic, nil
	}
	return 0, fmt.Errorf("unknown trackball mode %q", s)
}
