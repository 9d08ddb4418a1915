// Effects engine capability interface
package effects

import (
	"context"
	"fmt"
	"image"
)

// Kind names the image transforms the pipeline delegates out.
type Kind string

const (
	RemoveNoise Kind = "removenoise"
	Mosaic      Kind = "mosaic"
)

// Effect is one requested transform. BlockSize is only meaningful for
// Mosaic, where it is the edge length of one block.
type Effect struct {
	Kind      Kind
	BlockSize int
}

// Engine is the capability the pipeline depends on instead of any concrete
// imaging backend. Implementations must not retain src or the returned
// image after Apply returns.
type Engine interface {
	Name() string
	Apply(ctx context.Context, effect Effect, src image.Image) (image.Image, error)
}

// EffectError reports a failed stage inside an engine. The pipeline
// surfaces it through the run result rather than swallowing it.
type EffectError struct {
	Engine string
	Effect Kind
	Err    error
}

func (e *EffectError) Error() string {
	return fmt.Sprintf("effects engine %s: %s failed: %v", e.Engine, e.Effect, e.Err)
}

func (e *EffectError) Unwrap() error { return e.Err }

// Select returns the engine for a settings value. "auto" prefers the GoCV
// backend and falls back to the pure-Go one when OpenCV is unavailable at
// runtime.
func Select(name string) (Engine, error) {
	switch name {
	case "gocv":
		return NewGoCV(), nil
	case "gift":
		return NewGift(), nil
	case "", "auto":
		if g := NewGoCV(); g.Available() {
			return g, nil
		}
		return NewGift(), nil
	default:
		return nil, fmt.Errorf("unknown effects engine %q", name)
	}
}
