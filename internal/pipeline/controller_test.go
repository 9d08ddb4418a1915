package pipeline

import (
	"context"
	"errors"
	"image"
	"image/color"
	"io"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brickify-studio/internal/config"
	"brickify-studio/internal/effects"
	"brickify-studio/internal/imageio"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{uint8(x), uint8(y), 128, 255})
		}
	}
	return img
}

// fakeEngine records the effects it is asked to run and can fail or stall
// on demand.
type fakeEngine struct {
	mu      sync.Mutex
	applied []effects.Effect
	failOn  effects.Kind
	block   chan struct{} // when non-nil, Apply waits for a send
	busyFn  func() bool   // sampled during Apply to observe the run token
	sawBusy bool
}

func (f *fakeEngine) Name() string { return "fake" }

func (f *fakeEngine) Apply(ctx context.Context, effect effects.Effect, src image.Image) (image.Image, error) {
	f.mu.Lock()
	f.applied = append(f.applied, effect)
	if f.busyFn != nil && f.busyFn() {
		f.sawBusy = true
	}
	block := f.block
	f.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if effect.Kind == f.failOn {
		return nil, &effects.EffectError{Engine: f.Name(), Effect: effect.Kind, Err: errors.New("boom")}
	}
	return src, nil
}

func (f *fakeEngine) kinds() []effects.Kind {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]effects.Kind, len(f.applied))
	for i, e := range f.applied {
		out[i] = e.Kind
	}
	return out
}

func newTestController(engine effects.Engine) *Controller {
	return NewController(config.Default(), engine, quietLogger())
}

func TestRunHappyPath(t *testing.T) {
	engine := &fakeEngine{}
	c := newTestController(engine)
	engine.busyFn = c.Busy

	var stages []Stage
	var results []Result
	c.SetCallbacks(
		func(r Result) { results = append(results, r) },
		func(s Stage) { stages = append(stages, s) },
	)

	res := c.Run(context.Background(), testImage(280, 210))
	require.NoError(t, res.Err)

	// width 280 with defaults: grid 7, stage truncated to multiples.
	assert.Equal(t, 7, res.GridSize)
	assert.Zero(t, res.StageW%res.GridSize)
	assert.Zero(t, res.StageH%res.GridSize)
	assert.NotNil(t, res.Image)
	assert.NotEmpty(t, res.PNG)

	// Strict stage ordering, each triggered only after the previous.
	assert.Equal(t, []Stage{StageNoiseRemoval, StageMosaic, StageShadowPass, StageHighlightPass, StageDone}, stages)
	assert.Equal(t, []effects.Kind{effects.RemoveNoise, effects.Mosaic}, engine.kinds())

	// Token held during the run, released exactly once after it.
	assert.True(t, engine.sawBusy)
	assert.False(t, c.Busy())
	require.Len(t, results, 1)
	assert.NoError(t, results[0].Err)
}

func TestMosaicBlockSizeMatchesGridSize(t *testing.T) {
	engine := &fakeEngine{}
	c := newTestController(engine)

	res := c.Run(context.Background(), testImage(1000, 600))
	require.NoError(t, res.Err)
	assert.Equal(t, 25, res.GridSize)

	require.Len(t, engine.applied, 2)
	assert.Equal(t, 25, engine.applied[1].BlockSize)
}

func TestEffectErrorDuringMosaic(t *testing.T) {
	engine := &fakeEngine{failOn: effects.Mosaic}
	c := newTestController(engine)

	var stages []Stage
	c.SetCallbacks(nil, func(s Stage) { stages = append(stages, s) })

	res := c.Run(context.Background(), testImage(400, 300))
	require.Error(t, res.Err)

	var effErr *effects.EffectError
	assert.ErrorAs(t, res.Err, &effErr)
	assert.Equal(t, StageMosaic, res.FailedAt)

	// Observers see the terminal Failed state, never the paint stages.
	assert.Equal(t, []Stage{StageNoiseRemoval, StageMosaic, StageFailed}, stages)

	// No partial artwork escapes and the token is released.
	assert.Nil(t, res.Image)
	assert.Nil(t, res.PNG)
	assert.False(t, c.Busy())
}

func TestEffectErrorDuringNoiseRemoval(t *testing.T) {
	engine := &fakeEngine{failOn: effects.RemoveNoise}
	c := newTestController(engine)

	res := c.Run(context.Background(), testImage(400, 300))
	require.Error(t, res.Err)
	assert.Equal(t, StageNoiseRemoval, res.FailedAt)
	assert.False(t, c.Busy())

	// Only the first effect was attempted.
	assert.Equal(t, []effects.Kind{effects.RemoveNoise}, engine.kinds())
}

func TestSecondCallerDefersWhileBusy(t *testing.T) {
	engine := &fakeEngine{block: make(chan struct{})}
	c := newTestController(engine)

	done := make(chan Result, 1)
	go func() { done <- c.Run(context.Background(), testImage(120, 90)) }()

	// Wait until the first run holds the token.
	require.Eventually(t, c.Busy, time.Second, 5*time.Millisecond)

	// A second caller polls instead of queueing; with a short deadline it
	// gives up with the context error and never runs.
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	res := c.Run(ctx, testImage(60, 60))
	assert.ErrorIs(t, res.Err, context.DeadlineExceeded)
	assert.Equal(t, StageIdle, res.FailedAt)

	// Unblock the first run; it completes normally.
	close(engine.block)
	first := <-done
	assert.NoError(t, first.Err)
	assert.False(t, c.Busy())
}

func TestDeferredTimeoutLeavesTokenHeld(t *testing.T) {
	engine := &fakeEngine{block: make(chan struct{})}
	c := newTestController(engine)

	done := make(chan Result, 1)
	go func() { done <- c.Run(context.Background(), testImage(120, 90)) }()
	require.Eventually(t, c.Busy, time.Second, 5*time.Millisecond)

	// A deferred caller whose context expires never acquired the token, so
	// giving up must not free the one the first run still owns.
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	res := c.Run(ctx, testImage(60, 60))
	require.ErrorIs(t, res.Err, context.DeadlineExceeded)

	assert.True(t, c.Busy(), "first run's token must survive a deferred caller's timeout")
	assert.False(t, c.tryAcquire(), "no third caller may start while the first run is in flight")

	close(engine.block)
	first := <-done
	assert.NoError(t, first.Err)
	assert.False(t, c.Busy())
}

func TestConfigureRefusedWhileBusy(t *testing.T) {
	engine := &fakeEngine{block: make(chan struct{})}
	c := newTestController(engine)

	done := make(chan Result, 1)
	go func() { done <- c.Run(context.Background(), testImage(120, 90)) }()
	require.Eventually(t, c.Busy, time.Second, 5*time.Millisecond)

	err := c.Configure(config.Default(), &fakeEngine{})
	assert.Error(t, err, "an in-flight run must not see its configuration change")

	close(engine.block)
	<-done
	assert.NoError(t, c.Configure(config.Default(), &fakeEngine{}))
}

func TestRunPathBrokenImage(t *testing.T) {
	c := newTestController(&fakeEngine{})
	loader := imageio.NewLoader(quietLogger(), 0)

	res := c.RunPath(context.Background(), loader, filepath.Join(t.TempDir(), "missing.png"))
	require.Error(t, res.Err)

	var loadErr *imageio.ImageLoadError
	assert.ErrorAs(t, res.Err, &loadErr)

	// Fixed placeholder dimensions and payload substituted.
	assert.Equal(t, imageio.PlaceholderSize, res.StageW)
	assert.Equal(t, imageio.PlaceholderSize, res.StageH)
	require.NotNil(t, res.Image)
	assert.Equal(t, imageio.Placeholder().Pix, res.Image.Pix)

	// The load failure must not wedge the token: a following run works.
	assert.False(t, c.Busy())
	res = c.Run(context.Background(), testImage(200, 150))
	assert.NoError(t, res.Err)
}

func TestCompletionCallbackFiresAfterRelease(t *testing.T) {
	engine := &fakeEngine{}
	c := newTestController(engine)

	var busyAtCompletion bool
	var wg sync.WaitGroup
	wg.Add(1)
	c.SetCallbacks(func(Result) {
		busyAtCompletion = c.Busy()
		wg.Done()
	}, nil)

	c.RunAsync(context.Background(), testImage(100, 80))
	wg.Wait()
	assert.False(t, busyAtCompletion)
}
