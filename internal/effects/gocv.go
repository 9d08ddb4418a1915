// OpenCV-backed effects engine
package effects

import (
	"context"
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// GoCV runs the effects through OpenCV. Mats are created per call and
// closed before returning; nothing is cached between calls.
type GoCV struct{}

func NewGoCV() *GoCV { return &GoCV{} }

func (g *GoCV) Name() string { return "gocv" }

// Available probes whether the OpenCV runtime can allocate a Mat. Used by
// engine auto-selection.
func (g *GoCV) Available() bool {
	defer func() { _ = recover() }()
	m := gocv.NewMat()
	defer m.Close()
	return true
}

func (g *GoCV) Apply(ctx context.Context, effect Effect, src image.Image) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, &EffectError{Engine: g.Name(), Effect: effect.Kind, Err: err}
	}

	mat, err := gocv.ImageToMatRGB(src)
	if err != nil {
		return nil, &EffectError{Engine: g.Name(), Effect: effect.Kind, Err: err}
	}
	defer mat.Close()

	dst := gocv.NewMat()
	defer dst.Close()

	switch effect.Kind {
	case RemoveNoise:
		gocv.FastNlMeansDenoisingColored(mat, &dst)
	case Mosaic:
		if effect.BlockSize <= 0 {
			return nil, &EffectError{Engine: g.Name(), Effect: effect.Kind,
				Err: fmt.Errorf("block size must be positive, got %d", effect.BlockSize)}
		}
		if err := g.mosaic(mat, &dst, effect.BlockSize); err != nil {
			return nil, &EffectError{Engine: g.Name(), Effect: effect.Kind, Err: err}
		}
	default:
		return nil, &EffectError{Engine: g.Name(), Effect: effect.Kind,
			Err: fmt.Errorf("unsupported effect")}
	}

	out, err := dst.ToImage()
	if err != nil {
		return nil, &EffectError{Engine: g.Name(), Effect: effect.Kind, Err: err}
	}
	return out, nil
}

// mosaic pixelates by area-averaging down to one pixel per block and
// scaling back up with nearest-neighbor.
func (g *GoCV) mosaic(src gocv.Mat, dst *gocv.Mat, block int) error {
	w, h := src.Cols(), src.Rows()
	smallW, smallH := max(1, w/block), max(1, h/block)

	small := gocv.NewMat()
	defer small.Close()

	gocv.Resize(src, &small, image.Pt(smallW, smallH), 0, 0, gocv.InterpolationArea)
	if small.Empty() {
		return fmt.Errorf("downscale to %dx%d produced empty mat", smallW, smallH)
	}
	gocv.Resize(small, dst, image.Pt(w, h), 0, 0, gocv.InterpolationNearestNeighbor)
	if dst.Empty() {
		return fmt.Errorf("upscale to %dx%d produced empty mat", w, h)
	}
	return nil
}
