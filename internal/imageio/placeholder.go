package imageio

import (
	"image"
	"image/color"
	"sync"
)

// PlaceholderSize is the fixed edge length of the broken-image icon.
const PlaceholderSize = 34

var (
	placeholderOnce sync.Once
	placeholderImg  *image.RGBA
)

// Placeholder returns the fixed 34x34 broken-image icon substituted when a
// source image cannot be loaded. The payload is deterministic: same pixels
// on every call.
func Placeholder() *image.RGBA {
	placeholderOnce.Do(func() {
		placeholderImg = drawPlaceholder()
	})
	return placeholderImg
}

func drawPlaceholder() *image.RGBA {
	bg := color.RGBA{0xEE, 0xEE, 0xEE, 0xFF}
	frame := color.RGBA{0x88, 0x88, 0x88, 0xFF}
	tear := color.RGBA{0xC0, 0x50, 0x50, 0xFF}

	img := image.NewRGBA(image.Rect(0, 0, PlaceholderSize, PlaceholderSize))
	for y := 0; y < PlaceholderSize; y++ {
		for x := 0; x < PlaceholderSize; x++ {
			img.SetRGBA(x, y, bg)
		}
	}

	// Frame.
	for i := 2; i < PlaceholderSize-2; i++ {
		img.SetRGBA(i, 2, frame)
		img.SetRGBA(i, PlaceholderSize-3, frame)
		img.SetRGBA(2, i, frame)
		img.SetRGBA(PlaceholderSize-3, i, frame)
	}

	// Diagonal tear.
	for i := 4; i < PlaceholderSize-4; i++ {
		img.SetRGBA(i, i, tear)
		if i+1 < PlaceholderSize-3 {
			img.SetRGBA(i+1, i, tear)
		}
	}

	return img
}
