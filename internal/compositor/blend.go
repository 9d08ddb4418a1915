// Per-pixel blend kernels for the two-pass stud paint
package compositor

import "image"

// BlendFunc stamps src onto dst with dst's top-left corner of the stamp at
// the given point, clipped to dst bounds.
type BlendFunc func(dst, src *image.RGBA, at image.Point)

// Multiply darkens: out = dst*src/255 per channel, weighted by src alpha.
// A white source pixel is a no-op, which is what lets the shadow overlay
// keep unshaded areas untouched.
func Multiply(dst, src *image.RGBA, at image.Point) {
	blend(dst, src, at, func(d, s uint8) uint8 {
		return uint8((uint16(d) * uint16(s)) / 255)
	})
}

// Lighter brightens: out = min(255, dst+src), weighted by src alpha. A
// black source pixel is a no-op, which is what lets the highlight overlay
// keep unlit areas untouched.
func Lighter(dst, src *image.RGBA, at image.Point) {
	blend(dst, src, at, func(d, s uint8) uint8 {
		sum := uint16(d) + uint16(s)
		if sum > 255 {
			return 255
		}
		return uint8(sum)
	})
}

func blend(dst, src *image.RGBA, at image.Point, op func(d, s uint8) uint8) {
	sb := src.Bounds()
	target := image.Rect(at.X, at.Y, at.X+sb.Dx(), at.Y+sb.Dy()).Intersect(dst.Bounds())
	if target.Empty() {
		return
	}

	for y := target.Min.Y; y < target.Max.Y; y++ {
		sy := sb.Min.Y + (y - at.Y)
		di := dst.PixOffset(target.Min.X, y)
		si := src.PixOffset(sb.Min.X+(target.Min.X-at.X), sy)
		for x := target.Min.X; x < target.Max.X; x++ {
			sa := uint16(src.Pix[si+3])
			if sa != 0 {
				for c := 0; c < 3; c++ {
					d := dst.Pix[di+c]
					b := op(d, src.Pix[si+c])
					// Lerp toward the blended value by source coverage.
					dst.Pix[di+c] = uint8(int(d) + (int(b)-int(d))*int(sa)/255)
				}
			}
			di += 4
			si += 4
		}
	}
}
