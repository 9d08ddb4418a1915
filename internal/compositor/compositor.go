// Stage assembly: mosaic tiling, stud overlays, grid lines
package compositor

import (
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"

	"brickify-studio/internal/grid"
)

// Options carries the fixed cosmetic constants of the final paint.
type Options struct {
	GridLineColor   color.RGBA
	GridLineOpacity float64
	DrawGrid        bool
}

// Compose performs the two-pass paint over the mosaicized image:
//
//  1. multiply pass — mosaic fill, shadow overlay per cell, grid lines
//  2. lighter pass — highlight overlay per cell
//
// The stage is truncated to whole multiples of gridSize so no partial brick
// is ever shown.
func Compose(mosaic image.Image, shadow, highlight *image.RGBA, gridSize int, opts Options) *image.RGBA {
	stage := NewStage(mosaic, gridSize)
	TileOverlay(stage, shadow, gridSize, Multiply)
	if opts.DrawGrid {
		DrawGridLines(stage, gridSize, opts.GridLineColor, opts.GridLineOpacity)
	}
	TileOverlay(stage, highlight, gridSize, Lighter)
	return stage
}

// NewStage allocates the output surface, truncated to whole grid cells,
// and fills it with the mosaic pattern.
func NewStage(mosaic image.Image, gridSize int) *image.RGBA {
	b := mosaic.Bounds()
	stageW, stageH := grid.StageSize(b.Dx(), b.Dy(), gridSize)
	stage := image.NewRGBA(image.Rect(0, 0, stageW, stageH))
	fillPattern(stage, mosaic)
	return stage
}

// fillPattern paints src across the whole stage, repeating it when the
// stage is larger than the source.
func fillPattern(stage *image.RGBA, src image.Image) {
	b := src.Bounds()
	sw, sh := b.Dx(), b.Dy()
	if sw == 0 || sh == 0 {
		return
	}
	for y := 0; y < stage.Rect.Dy(); y += sh {
		for x := 0; x < stage.Rect.Dx(); x += sw {
			r := image.Rect(x, y, x+sw, y+sh).Intersect(stage.Rect)
			xdraw.Draw(stage, r, src, b.Min, xdraw.Src)
		}
	}
}

// TileOverlay stamps one stud overlay onto every grid cell of the stage.
func TileOverlay(stage, overlay *image.RGBA, gridSize int, blend BlendFunc) {
	if gridSize <= 0 {
		return
	}
	for y := 0; y < stage.Rect.Dy(); y += gridSize {
		for x := 0; x < stage.Rect.Dx(); x += gridSize {
			blend(stage, overlay, image.Pt(x, y))
		}
	}
}

// DrawGridLines draws 1px separators between cells, alpha-blended at the
// configured opacity. Lines sit on the leading edge of each cell after the
// first, so an N-cell stage gets N-1 lines per axis.
func DrawGridLines(stage *image.RGBA, gridSize int, lineColor color.RGBA, opacity float64) {
	if gridSize <= 0 || opacity <= 0 {
		return
	}
	a := uint8(opacity * 255)

	for x := gridSize; x < stage.Rect.Dx(); x += gridSize {
		for y := 0; y < stage.Rect.Dy(); y++ {
			blendPixel(stage, x, y, lineColor, a)
		}
	}
	for y := gridSize; y < stage.Rect.Dy(); y += gridSize {
		for x := 0; x < stage.Rect.Dx(); x++ {
			blendPixel(stage, x, y, lineColor, a)
		}
	}
}

func blendPixel(img *image.RGBA, x, y int, c color.RGBA, a uint8) {
	i := img.PixOffset(x, y)
	src := [3]uint8{c.R, c.G, c.B}
	for ch := 0; ch < 3; ch++ {
		d := img.Pix[i+ch]
		img.Pix[i+ch] = uint8(int(d) + (int(src[ch])-int(d))*int(a)/255)
	}
}
