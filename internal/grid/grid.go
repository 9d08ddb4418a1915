// Grid sizing and uniform artwork scaling
package grid

import (
	"math"

	"brickify-studio/internal/config"
)

// ComputeGridSize derives the edge length, in pixels, of one mosaic block
// from the image width and the threshold table. The scan is first-match-wins:
// the first threshold whose MaxImageWidth covers the image is selected, not
// the tightest bound. Images wider than every threshold fall back to the
// last entry.
//
// Clamping checks the max bound before the min bound and applies at most one
// of them. A threshold that defines neither bound leaves the raw ratio value
// untouched.
func ComputeGridSize(imageWidth int, ratio float64, thresholds []config.Threshold) int {
	raw := int(math.Floor(float64(imageWidth) * ratio))
	if len(thresholds) == 0 {
		return raw
	}

	selected := thresholds[len(thresholds)-1]
	for _, t := range thresholds {
		if t.MaxImageWidth >= imageWidth {
			selected = t
			break
		}
	}

	if selected.MaxBrickSize > 0 && raw > selected.MaxBrickSize {
		return selected.MaxBrickSize
	}
	if selected.MinBrickSize > 0 && raw < selected.MinBrickSize {
		return selected.MinBrickSize
	}
	return raw
}

// SmallImage reports whether the rounding mode of the scaler applies: image
// width at or below the first threshold's bound.
func SmallImage(imageWidth int, thresholds []config.Threshold) bool {
	return len(thresholds) > 0 && imageWidth <= thresholds[0].MaxImageWidth
}

// Scaler converts stud-artwork coordinates, authored against a fixed
// reference brick size, into device coordinates. Every coordinate, radius
// and gradient stop the artwork builder consumes goes through Scale, so the
// artwork scales uniformly with the chosen grid size.
type Scaler struct {
	BrickRatio float64
	Round      bool
}

// NewScaler builds a scaler for the given grid size. Rounding is enabled for
// small images, where sub-pixel coordinates visibly smear the tiny studs.
func NewScaler(gridSize, originalBrickSize int, smallImage bool) Scaler {
	return Scaler{
		BrickRatio: float64(gridSize) / float64(originalBrickSize),
		Round:      smallImage,
	}
}

// Scale maps one authored coordinate to device space.
func (s Scaler) Scale(v float64) float64 {
	scaled := v * s.BrickRatio
	if s.Round {
		return math.Round(scaled)
	}
	return scaled
}

// StageSize truncates the image dimensions to whole multiples of the grid
// size. The stage never shows a partial brick.
func StageSize(width, height, gridSize int) (int, int) {
	if gridSize <= 0 {
		return width, height
	}
	return (width / gridSize) * gridSize, (height / gridSize) * gridSize
}
