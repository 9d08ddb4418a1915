package artwork

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"

	"brickify-studio/internal/grid"
)

// BuildHighlight renders the specular overlay of one stud: a bevel streak
// along the top and left brick edges, the lit crescent on the upper-left of
// the stud rim, and a small specular dot. The overlay is meant for additive
// ("lighter") compositing, so untouched areas stay black.
func BuildHighlight(s grid.Scaler, size int) *image.RGBA {
	dc := gg.NewContext(size, size)
	dc.SetColor(color.Black)
	dc.Clear()

	sz := float64(size)

	// Bevel streak, top edge.
	top := gg.NewLinearGradient(0, 0, 0, s.Scale(bevelDepth))
	top.AddColorStop(0, withAlpha(highlightMid, 70))
	top.AddColorStop(0.4, withAlpha(highlightMid, 28))
	top.AddColorStop(1, withAlpha(highlightMid, 0))
	dc.SetFillStyle(top)
	dc.DrawRectangle(0, 0, sz, s.Scale(bevelDepth))
	dc.Fill()

	// Bevel streak, left edge.
	left := gg.NewLinearGradient(0, 0, s.Scale(bevelDepth), 0)
	left.AddColorStop(0, withAlpha(highlightMid, 55))
	left.AddColorStop(0.4, withAlpha(highlightMid, 22))
	left.AddColorStop(1, withAlpha(highlightMid, 0))
	dc.SetFillStyle(left)
	dc.DrawRectangle(0, 0, s.Scale(bevelDepth), sz)
	dc.Fill()

	// Lit crescent on the upper-left stud rim, mirroring the shadow wall.
	dc.MoveTo(s.Scale(16.5), s.Scale(43.0))
	dc.CubicTo(
		s.Scale(13.5), s.Scale(30.0),
		s.Scale(21.0), s.Scale(17.0),
		s.Scale(35.0), s.Scale(14.0))
	dc.CubicTo(
		s.Scale(25.5), s.Scale(18.5),
		s.Scale(19.0), s.Scale(28.5),
		s.Scale(19.5), s.Scale(40.0))
	dc.ClosePath()
	rim := gg.NewLinearGradient(s.Scale(31.0), s.Scale(15.0), s.Scale(17.0), s.Scale(39.0))
	rim.AddColorStop(0, withAlpha(highlightHot, 150))
	rim.AddColorStop(1, withAlpha(highlightMid, 25))
	dc.SetFillStyle(rim)
	dc.Fill()

	// Specular dot.
	dot := gg.NewRadialGradient(
		s.Scale(specCenterX), s.Scale(specCenterY), 0,
		s.Scale(specCenterX), s.Scale(specCenterY), s.Scale(specRadius))
	dot.AddColorStop(0, withAlpha(highlightHot, 190))
	dot.AddColorStop(1, withAlpha(highlightHot, 0))
	dc.SetFillStyle(dot)
	dc.DrawCircle(s.Scale(specCenterX), s.Scale(specCenterY), s.Scale(specRadius))
	dc.Fill()

	return dc.Image().(*image.RGBA)
}
