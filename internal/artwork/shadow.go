package artwork

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"

	"brickify-studio/internal/grid"
)

// BuildShadow renders the shading overlay of one stud: base edge darkening
// along the bottom and right, the drop shadow the stud casts down-right,
// and the shaded side wall of the stud cylinder. The overlay is meant for
// multiply compositing, so untouched areas stay white.
func BuildShadow(s grid.Scaler, size int) *image.RGBA {
	dc := gg.NewContext(size, size)
	dc.SetColor(color.White)
	dc.Clear()

	sz := float64(size)

	// Base shade, bottom edge.
	bottom := gg.NewLinearGradient(0, s.Scale(refBrick-bevelDepth), 0, sz)
	bottom.AddColorStop(0, withAlpha(shadowFaint, 0))
	bottom.AddColorStop(0.55, withAlpha(shadowMid, 90))
	bottom.AddColorStop(1, withAlpha(shadowDeep, 150))
	dc.SetFillStyle(bottom)
	dc.DrawRectangle(0, s.Scale(refBrick-bevelDepth), sz, sz-s.Scale(refBrick-bevelDepth))
	dc.Fill()

	// Base shade, right edge.
	right := gg.NewLinearGradient(s.Scale(refBrick-bevelDepth), 0, sz, 0)
	right.AddColorStop(0, withAlpha(shadowFaint, 0))
	right.AddColorStop(0.55, withAlpha(shadowMid, 70))
	right.AddColorStop(1, withAlpha(shadowDeep, 120))
	dc.SetFillStyle(right)
	dc.DrawRectangle(s.Scale(refBrick-bevelDepth), 0, sz-s.Scale(refBrick-bevelDepth), sz)
	dc.Fill()

	// Drop shadow cast by the stud, one full circle offset down-right.
	drop := gg.NewRadialGradient(
		s.Scale(studDropX), s.Scale(studDropY), s.Scale(studRadius-6),
		s.Scale(studDropX), s.Scale(studDropY), s.Scale(studDropR))
	drop.AddColorStop(0, withAlpha(shadowMid, 0))
	drop.AddColorStop(0.78, withAlpha(shadowMid, 110))
	drop.AddColorStop(1, withAlpha(shadowDeep, 0))
	dc.SetFillStyle(drop)
	dc.DrawCircle(s.Scale(studDropX), s.Scale(studDropY), s.Scale(studDropR))
	dc.Fill()

	// Stud top, cleared back to near-white so the drop shadow only shows
	// around the cylinder.
	top := gg.NewLinearGradient(
		s.Scale(studCenterX-studRadius), s.Scale(studCenterY-studRadius),
		s.Scale(studCenterX+studRadius), s.Scale(studCenterY+studRadius))
	top.AddColorStop(0, color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF})
	top.AddColorStop(1, withAlpha(shadowFaint, 255))
	dc.SetFillStyle(top)
	dc.DrawCircle(s.Scale(studCenterX), s.Scale(studCenterY), s.Scale(studRadius))
	dc.Fill()

	// Side-wall crescent, lower-right inside the stud rim. Two cubic
	// beziers hugging the rim arc.
	dc.MoveTo(s.Scale(56.5), s.Scale(sideWallTopY))
	dc.CubicTo(
		s.Scale(59.5), s.Scale(43.0),
		s.Scale(52.0), s.Scale(56.0),
		s.Scale(38.0), s.Scale(59.0))
	dc.CubicTo(
		s.Scale(47.5), s.Scale(54.5),
		s.Scale(54.0), s.Scale(44.5),
		s.Scale(53.5), s.Scale(33.0))
	dc.ClosePath()
	wall := gg.NewLinearGradient(s.Scale(42.0), s.Scale(58.0), s.Scale(56.0), s.Scale(34.0))
	wall.AddColorStop(0, withAlpha(shadowDeep, 140))
	wall.AddColorStop(1, withAlpha(shadowMid, 30))
	dc.SetFillStyle(wall)
	dc.Fill()

	return dc.Image().(*image.RGBA)
}
