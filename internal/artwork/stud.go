// Hand-authored stud artwork shared data
//
// All coordinates in this package are authored against a 73px reference
// brick (config.Default().OriginalBrickSize) and pass through grid.Scaler
// before touching the canvas. The shapes are a fixed visual design, not
// derived values; treat the numbers as data.
package artwork

import (
	"bytes"
	"image"
	"image/color"
	"image/png"

	"github.com/lucasb-eyer/go-colorful"
)

// Reference geometry of one stud on a 73px brick.
const (
	refBrick     = 73.0
	studCenterX  = 36.5
	studCenterY  = 36.5
	studRadius   = 23.0
	studDropX    = 38.5 // drop shadow center, offset down-right
	studDropY    = 39.5
	studDropR    = 24.5
	bevelDepth   = 11.0 // edge bevel band width
	specRadius   = 4.5  // specular dot
	specCenterX  = 28.5
	specCenterY  = 28.5
	sideWallTopY = 30.0 // where the stud side-wall crescent starts
)

// Authored palette. Shadow colors multiply against the mosaic, highlight
// colors add onto it.
var (
	shadowDeep   = mustHex("#2e2e30")
	shadowMid    = mustHex("#6b6b70")
	shadowFaint  = mustHex("#b4b4b8")
	highlightHot = mustHex("#ffffff")
	highlightMid = mustHex("#d9d9e0")
)

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic("artwork: bad authored color " + s)
	}
	return c
}

// withAlpha turns an authored color into a gradient stop with the given
// coverage.
func withAlpha(c colorful.Color, a uint8) color.NRGBA {
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: a}
}

// EncodePNG serializes an overlay or a finished stage to its image payload
// form. Encoding an in-memory RGBA never fails; the error path exists only
// for the writer contract.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
