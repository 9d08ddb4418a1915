// Brickify pipeline controller
//
// One Controller owns a single-run token: at most one brickify run is in
// flight at a time. A second caller observing a held token retries on a
// fixed 1s interval until the token frees or its context is cancelled; no
// queueing, no ordering guarantee among waiters.
package pipeline

import (
	"context"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"brickify-studio/internal/artwork"
	"brickify-studio/internal/compositor"
	"brickify-studio/internal/config"
	"brickify-studio/internal/effects"
	"brickify-studio/internal/grid"
	"brickify-studio/internal/imageio"
)

const (
	// busyPollInterval is how often a deferred caller re-checks the token.
	busyPollInterval = time.Second

	// settleDelay sits between noise removal and mosaic, giving the host
	// a beat before the second heavy effect.
	settleDelay = 100 * time.Millisecond
)

// Result is the typed outcome of one run. On failure Err is set, FailedAt
// names the stage, and Image/PNG are nil: no partial artwork ever escapes.
type Result struct {
	Image    *image.RGBA
	PNG      []byte
	GridSize int
	StageW   int
	StageH   int
	Elapsed  time.Duration
	Err      error
	FailedAt Stage
}

// Controller drives the fixed effect-and-composite sequence.
type Controller struct {
	settings config.Settings
	engine   effects.Engine
	logger   *logrus.Logger

	mu   sync.Mutex
	busy bool

	onComplete func(Result)
	onStage    func(Stage)
}

func NewController(settings config.Settings, engine effects.Engine, logger *logrus.Logger) *Controller {
	return &Controller{
		settings: settings,
		engine:   engine,
		logger:   logger,
	}
}

// SetCallbacks installs the completion and stage-change observers. Both may
// be nil. The completion callback fires after the run token is released.
func (c *Controller) SetCallbacks(onComplete func(Result), onStage func(Stage)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onComplete = onComplete
	c.onStage = onStage
}

// Configure swaps the settings and engine used by subsequent runs. It
// refuses while a run holds the token, so an in-flight pipeline never sees
// its configuration change underneath it.
func (c *Controller) Configure(settings config.Settings, engine effects.Engine) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy {
		return fmt.Errorf("pipeline busy, cannot reconfigure")
	}
	c.settings = settings
	c.engine = engine
	return nil
}

// Busy reports whether a run currently holds the token.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.busy
}

func (c *Controller) tryAcquire() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy {
		return false
	}
	c.busy = true
	return true
}

func (c *Controller) release() {
	c.mu.Lock()
	c.busy = false
	c.mu.Unlock()
}

// acquire blocks until the run token is free, polling at the fixed
// interval, or until ctx is done.
func (c *Controller) acquire(ctx context.Context) error {
	if c.tryAcquire() {
		return nil
	}
	c.logger.Debug("Pipeline busy, deferring start")

	ticker := time.NewTicker(busyPollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if c.tryAcquire() {
				return nil
			}
		}
	}
}

// runState is derived once at run start and read-only afterwards.
type runState struct {
	gridSize int
	scaler   grid.Scaler
	stageW   int
	stageH   int
}

func (c *Controller) deriveState(src image.Image) runState {
	b := src.Bounds()
	gridSize := grid.ComputeGridSize(b.Dx(), c.settings.Ratio, c.settings.Thresholds)
	small := grid.SmallImage(b.Dx(), c.settings.Thresholds)
	stageW, stageH := grid.StageSize(b.Dx(), b.Dy(), gridSize)
	return runState{
		gridSize: gridSize,
		scaler:   grid.NewScaler(gridSize, c.settings.OriginalBrickSize, small),
		stageW:   stageW,
		stageH:   stageH,
	}
}

// RunPath loads the file at path and brickifies it. A load failure
// substitutes the fixed broken-image placeholder into the result, releases
// the run token and surfaces the error; it never wedges later runs.
func (c *Controller) RunPath(ctx context.Context, loader *imageio.Loader, path string) Result {
	if err := c.acquire(ctx); err != nil {
		return c.notify(Result{Err: err, FailedAt: StageIdle}, time.Now())
	}
	start := time.Now()

	src, err := loader.Load(path)
	if err != nil {
		c.logger.WithError(err).Warn("Source image failed to load, substituting placeholder")
		c.setStage(StageFailed)
		ph := imageio.Placeholder()
		return c.finish(Result{
			Image:    ph,
			GridSize: 0,
			StageW:   imageio.PlaceholderSize,
			StageH:   imageio.PlaceholderSize,
			Err:      err,
			FailedAt: StageIdle,
		}, start)
	}
	return c.finish(c.run(ctx, src), start)
}

// Run brickifies an already-decoded image, blocking until done. The token
// acquisition, stage sequence and release follow RunPath.
func (c *Controller) Run(ctx context.Context, src image.Image) Result {
	if err := c.acquire(ctx); err != nil {
		return c.notify(Result{Err: err, FailedAt: StageIdle}, time.Now())
	}
	start := time.Now()
	return c.finish(c.run(ctx, src), start)
}

// RunAsync runs on its own goroutine; outcomes arrive via the completion
// callback.
func (c *Controller) RunAsync(ctx context.Context, src image.Image) {
	go c.Run(ctx, src)
}

// finish releases the token exactly once and reports the outcome. Only a
// caller that acquired the token may go through here; a deferred caller
// whose context expired must use notify, or it would free a token owned by
// the still-running pipeline.
func (c *Controller) finish(res Result, start time.Time) Result {
	c.release()
	return c.notify(res, start)
}

// notify stamps the duration and emits the completion callback without
// touching the token.
func (c *Controller) notify(res Result, start time.Time) Result {
	res.Elapsed = time.Since(start)

	c.mu.Lock()
	onComplete := c.onComplete
	c.mu.Unlock()
	if onComplete != nil {
		onComplete(res)
	}
	return res
}

// fail signals the Failed state to observers and builds the error result.
func (c *Controller) fail(err error, at Stage) Result {
	c.setStage(StageFailed)
	return Result{Err: err, FailedAt: at}
}

func (c *Controller) setStage(s Stage) {
	c.mu.Lock()
	onStage := c.onStage
	c.mu.Unlock()
	c.logger.WithField("stage", s.String()).Debug("Pipeline stage")
	if onStage != nil {
		onStage(s)
	}
}

// run walks the stage sequence with the token already held. Each stage
// starts only after the previous one returned; an effect failure aborts
// with no partial artwork.
func (c *Controller) run(ctx context.Context, src image.Image) Result {
	state := c.deriveState(src)
	log := c.logger.WithFields(logrus.Fields{
		"engine":    c.engine.Name(),
		"grid_size": state.gridSize,
		"stage_w":   state.stageW,
		"stage_h":   state.stageH,
	})
	log.Info("Starting brickify run")

	c.setStage(StageNoiseRemoval)
	denoised, err := c.engine.Apply(ctx, effects.Effect{Kind: effects.RemoveNoise}, src)
	if err != nil {
		log.WithError(err).Error("Noise removal failed")
		return c.fail(err, StageNoiseRemoval)
	}

	select {
	case <-ctx.Done():
		return c.fail(ctx.Err(), StageNoiseRemoval)
	case <-time.After(settleDelay):
	}

	c.setStage(StageMosaic)
	mosaic, err := c.engine.Apply(ctx, effects.Effect{
		Kind:      effects.Mosaic,
		BlockSize: state.gridSize,
	}, denoised)
	if err != nil {
		log.WithError(err).Error("Mosaic failed")
		return c.fail(err, StageMosaic)
	}

	c.setStage(StageShadowPass)
	shadow := artwork.BuildShadow(state.scaler, state.gridSize)

	c.setStage(StageHighlightPass)
	highlight := artwork.BuildHighlight(state.scaler, state.gridSize)

	stage := compositor.Compose(mosaic, shadow, highlight, state.gridSize, compositor.Options{
		GridLineColor:   config.GridLineColor,
		GridLineOpacity: c.settings.GridLineOpacity,
		DrawGrid:        true,
	})

	payload, err := artwork.EncodePNG(stage)
	if err != nil {
		log.WithError(err).Error("Final encode failed")
		return c.fail(err, StageHighlightPass)
	}

	c.setStage(StageDone)
	log.WithField("event", EventBrickified).Info("Image has been brickified")

	return Result{
		Image:    stage,
		PNG:      payload,
		GridSize: state.gridSize,
		StageW:   stage.Rect.Dx(),
		StageH:   stage.Rect.Dy(),
	}
}
