// Image canvas with original and brickified views
package gui

import (
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"
	xdraw "golang.org/x/image/draw"
)

// maxPreviewWidth caps what we hand to the fyne canvas; larger results are
// downscaled for display only, the saved image stays full size.
const maxPreviewWidth = 1600

// ImageCanvas shows the original image and the brickified result side by
// side.
type ImageCanvas struct {
	logger *logrus.Logger

	split        *container.Split
	originalView *widget.Card
	resultView   *widget.Card
	originalImg  *canvas.Image
	resultImg    *canvas.Image
}

func NewImageCanvas(logger *logrus.Logger) *ImageCanvas {
	ic := &ImageCanvas{logger: logger}
	ic.initializeUI()
	return ic
}

func (ic *ImageCanvas) initializeUI() {
	placeholder := image.NewRGBA(image.Rect(0, 0, 200, 150))
	for y := 0; y < 150; y++ {
		for x := 0; x < 200; x++ {
			placeholder.Set(x, y, color.RGBA{240, 240, 240, 255})
		}
	}

	ic.originalImg = canvas.NewImageFromImage(placeholder)
	ic.originalImg.FillMode = canvas.ImageFillContain
	ic.originalImg.SetMinSize(fyne.NewSize(300, 225))

	ic.resultImg = canvas.NewImageFromImage(placeholder)
	ic.resultImg.FillMode = canvas.ImageFillContain
	ic.resultImg.ScaleMode = canvas.ImageScalePixels
	ic.resultImg.SetMinSize(fyne.NewSize(300, 225))

	ic.originalView = widget.NewCard("Original", "", ic.originalImg)
	ic.resultView = widget.NewCard("Brickified", "", ic.resultImg)

	ic.split = container.NewHSplit(ic.originalView, ic.resultView)
	ic.split.SetOffset(0.5)
}

func (ic *ImageCanvas) GetContainer() fyne.CanvasObject {
	return ic.split
}

// UpdateOriginal must run on the UI thread.
func (ic *ImageCanvas) UpdateOriginal(img image.Image) {
	ic.originalImg.Image = forDisplay(img)
	ic.originalImg.Refresh()
	ic.logger.WithFields(logrus.Fields{
		"width":  img.Bounds().Dx(),
		"height": img.Bounds().Dy(),
	}).Debug("Updated original view")
}

// UpdateResult must run on the UI thread.
func (ic *ImageCanvas) UpdateResult(img image.Image) {
	ic.resultImg.Image = forDisplay(img)
	ic.resultImg.Refresh()
	ic.logger.WithFields(logrus.Fields{
		"width":  img.Bounds().Dx(),
		"height": img.Bounds().Dy(),
	}).Debug("Updated result view")
}

// forDisplay downscales oversized images for the canvas.
func forDisplay(img image.Image) image.Image {
	b := img.Bounds()
	if b.Dx() <= maxPreviewWidth {
		return img
	}
	h := b.Dy() * maxPreviewWidth / b.Dx()
	dst := image.NewRGBA(image.Rect(0, 0, maxPreviewWidth, h))
	xdraw.ApproxBiLinear.Scale(dst, dst.Rect, img, b, xdraw.Over, nil)
	return dst
}
