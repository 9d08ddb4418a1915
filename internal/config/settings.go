// Plugin-style settings with defaults, caller overrides and validation
package config

import (
	"fmt"
	"image/color"

	"github.com/BurntSushi/toml"
)

// Threshold maps a maximum image width to brick-size clamping bounds.
// A zero Min/MaxBrickSize means the corresponding clamp is absent.
type Threshold struct {
	MaxImageWidth int `toml:"max_image_width"`
	MinBrickSize  int `toml:"min_brick_size"`
	MaxBrickSize  int `toml:"max_brick_size"`
}

// Settings configures one brickify run. Immutable after Merge/Validate;
// the pipeline copies what it needs at run start.
type Settings struct {
	// OriginalBrickSize is the pixel size the stud artwork was authored
	// against. All artwork coordinates are scaled by gridSize/OriginalBrickSize.
	OriginalBrickSize int `toml:"original_brick_size"`

	// Ratio is the base grid-size-to-image-width ratio.
	Ratio float64 `toml:"ratio"`

	// Thresholds are scanned in order; the first entry whose MaxImageWidth
	// covers the image wins, the last entry is the fallback for wider images.
	Thresholds []Threshold `toml:"thresholds"`

	// Engine selects the effects backend: "auto", "gocv" or "gift".
	Engine string `toml:"engine"`

	// GridLineOpacity is the alpha applied to the grid lines drawn between
	// cells, in [0,1].
	GridLineOpacity float64 `toml:"grid_line_opacity"`

	// MaxInputWidth clamps oversized inputs before processing. 0 disables.
	MaxInputWidth int `toml:"max_input_width"`
}

// GridLineColor is the fixed light gray used for the cell grid.
var GridLineColor = color.RGBA{R: 0xC8, G: 0xC8, B: 0xC8, A: 0xFF}

const (
	defaultBrickSize       = 73
	defaultRatio           = 1.0 / 40.0
	defaultGridLineOpacity = 0.35
	defaultMaxInputWidth   = 4096
)

// Default returns the stock settings.
func Default() Settings {
	return Settings{
		OriginalBrickSize: defaultBrickSize,
		Ratio:             defaultRatio,
		Thresholds: []Threshold{
			{MaxImageWidth: 300, MinBrickSize: 7},
			{MaxImageWidth: 1200, MinBrickSize: 15, MaxBrickSize: 26},
			{MaxImageWidth: 1800, MaxBrickSize: 36},
		},
		Engine:          "auto",
		GridLineOpacity: defaultGridLineOpacity,
		MaxInputWidth:   defaultMaxInputWidth,
	}
}

// Merge applies caller overrides on top of s. Zero values keep the
// existing setting, mirroring option-object merging.
func (s Settings) Merge(override Settings) Settings {
	out := s
	if override.OriginalBrickSize != 0 {
		out.OriginalBrickSize = override.OriginalBrickSize
	}
	if override.Ratio != 0 {
		out.Ratio = override.Ratio
	}
	if len(override.Thresholds) != 0 {
		out.Thresholds = append([]Threshold(nil), override.Thresholds...)
	}
	if override.Engine != "" {
		out.Engine = override.Engine
	}
	if override.GridLineOpacity != 0 {
		out.GridLineOpacity = override.GridLineOpacity
	}
	if override.MaxInputWidth != 0 {
		out.MaxInputWidth = override.MaxInputWidth
	}
	return out
}

// Validate checks the invariants the grid sizer relies on.
func (s Settings) Validate() error {
	if s.OriginalBrickSize <= 0 {
		return fmt.Errorf("original brick size must be positive, got %d", s.OriginalBrickSize)
	}
	if s.Ratio <= 0 {
		return fmt.Errorf("ratio must be positive, got %g", s.Ratio)
	}
	if len(s.Thresholds) == 0 {
		return fmt.Errorf("at least one threshold is required")
	}
	prev := 0
	for i, t := range s.Thresholds {
		if t.MaxImageWidth <= prev {
			return fmt.Errorf("threshold %d: max image width %d not ascending", i, t.MaxImageWidth)
		}
		if t.MinBrickSize < 0 || t.MaxBrickSize < 0 {
			return fmt.Errorf("threshold %d: negative brick size bound", i)
		}
		prev = t.MaxImageWidth
	}
	if s.GridLineOpacity < 0 || s.GridLineOpacity > 1 {
		return fmt.Errorf("grid line opacity %g outside [0,1]", s.GridLineOpacity)
	}
	switch s.Engine {
	case "", "auto", "gocv", "gift":
	default:
		return fmt.Errorf("unknown effects engine %q", s.Engine)
	}
	return nil
}

// Load reads a TOML settings file and merges it over the defaults.
func Load(path string) (Settings, error) {
	var override Settings
	if _, err := toml.DecodeFile(path, &override); err != nil {
		return Settings{}, fmt.Errorf("failed to load settings file: %w", err)
	}
	merged := Default().Merge(override)
	if err := merged.Validate(); err != nil {
		return Settings{}, fmt.Errorf("invalid settings file %s: %w", path, err)
	}
	return merged, nil
}
