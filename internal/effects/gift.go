// Pure-Go effects engine
package effects

import (
	"context"
	"fmt"
	"image"

	"github.com/disintegration/gift"
)

// Gift runs the effects through the gift filter chain. Slower than the
// OpenCV backend but needs no native runtime.
type Gift struct{}

func NewGift() *Gift { return &Gift{} }

func (g *Gift) Name() string { return "gift" }

func (g *Gift) Apply(ctx context.Context, effect Effect, src image.Image) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, &EffectError{Engine: g.Name(), Effect: effect.Kind, Err: err}
	}

	var chain *gift.GIFT
	switch effect.Kind {
	case RemoveNoise:
		chain = gift.New(gift.Median(3, true))
	case Mosaic:
		if effect.BlockSize <= 0 {
			return nil, &EffectError{Engine: g.Name(), Effect: effect.Kind,
				Err: fmt.Errorf("block size must be positive, got %d", effect.BlockSize)}
		}
		chain = gift.New(gift.Pixelate(effect.BlockSize))
	default:
		return nil, &EffectError{Engine: g.Name(), Effect: effect.Kind,
			Err: fmt.Errorf("unsupported effect")}
	}

	dst := image.NewRGBA(chain.Bounds(src.Bounds()))
	chain.Draw(dst, src)
	return dst, nil
}
