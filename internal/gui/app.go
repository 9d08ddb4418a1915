// Main application window and wiring
package gui

import (
	"context"
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"github.com/sirupsen/logrus"

	"brickify-studio/internal/config"
	"brickify-studio/internal/effects"
	"brickify-studio/internal/imageio"
	"brickify-studio/internal/pipeline"
)

// Application is the main window: settings on the left, original and
// brickified views in the center.
type Application struct {
	app    fyne.App
	window fyne.Window
	logger *logrus.Logger

	settings   config.Settings
	source     *imageio.Source
	loader     *imageio.Loader
	controller *pipeline.Controller

	canvas      *ImageCanvas
	controls    *ControlPanel
	menuHandler *MenuHandler

	mainContent *container.Split
}

func NewApplication(app fyne.App, settings config.Settings, logger *logrus.Logger) *Application {
	window := app.NewWindow("Brickify Studio")
	window.Resize(fyne.NewSize(1400, 900))
	window.CenterOnScreen()

	a := &Application{
		app:      app,
		window:   window,
		logger:   logger,
		settings: settings,
	}

	a.initializeCore()
	a.initializeGUI()
	a.setupLayout()
	a.setupCallbacks()

	return a
}

func (a *Application) initializeCore() {
	a.source = imageio.NewSource()
	a.loader = imageio.NewLoader(a.logger, a.settings.MaxInputWidth)

	// One controller for the lifetime of the window: its run token is the
	// mutual exclusion for every brickify trigger, not the button state.
	engine, err := effects.Select(a.settings.Engine)
	if err != nil {
		a.logger.WithError(err).Warn("Falling back to pure-Go effects engine")
		engine = effects.NewGift()
	}
	a.controller = pipeline.NewController(a.settings, engine, a.logger)
}

func (a *Application) initializeGUI() {
	a.canvas = NewImageCanvas(a.logger)
	a.controls = NewControlPanel(a.settings, a.logger)
	a.menuHandler = NewMenuHandler(a.window, a.source, a.loader, a.logger)
}

func (a *Application) setupLayout() {
	a.mainContent = container.NewHSplit(
		a.controls.GetContainer(),
		container.NewPadded(a.canvas.GetContainer()),
	)
	a.mainContent.SetOffset(0.25)

	a.window.SetMainMenu(a.menuHandler.GetMainMenu())
	a.window.SetContent(a.mainContent)
}

func (a *Application) setupCallbacks() {
	a.menuHandler.SetOnImageLoaded(func() {
		img := a.source.Original()
		meta := a.source.Meta()
		a.canvas.UpdateOriginal(img)
		a.controls.SetStatus(fmt.Sprintf("Loaded %dx%d — ready to brickify", meta.Width, meta.Height))
	})

	a.controls.SetOnBrickify(a.brickify)

	a.controller.SetCallbacks(
		func(res pipeline.Result) {
			fyne.Do(func() { a.onRunComplete(res) })
		},
		func(stage pipeline.Stage) {
			fyne.Do(func() {
				a.controls.SetStatus("Processing: " + stage.String())
			})
		},
	)
}

// brickify reconfigures the app's one controller with the chosen settings
// and starts a run. The run goroutine reports back through callbacks; every
// UI mutation hops to the UI thread via fyne.Do.
func (a *Application) brickify(settings config.Settings) {
	if !a.source.HasImage() {
		dialog.ShowInformation("No image", "Open an image first.", a.window)
		return
	}
	if a.controller.Busy() {
		a.controls.SetStatus("A brickify run is already in progress")
		return
	}
	if err := settings.Validate(); err != nil {
		dialog.ShowError(err, a.window)
		return
	}

	engine, err := effects.Select(settings.Engine)
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	if err := a.controller.Configure(settings, engine); err != nil {
		dialog.ShowError(err, a.window)
		return
	}

	a.controls.SetBusy(true)
	a.controller.RunAsync(context.Background(), a.source.Original())
}

func (a *Application) onRunComplete(res pipeline.Result) {
	a.controls.SetBusy(false)

	if res.Err != nil {
		a.controls.SetStatus("Failed at " + res.FailedAt.String())
		dialog.ShowError(res.Err, a.window)
		return
	}

	if err := a.source.SetResult(res.Image); err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	a.canvas.UpdateResult(res.Image)
	a.controls.SetStatus(fmt.Sprintf("Brickified: grid %dpx, %dx%d in %s",
		res.GridSize, res.StageW, res.StageH, res.Elapsed.Round(time.Millisecond)))
}

func (a *Application) ShowAndRun() {
	a.window.ShowAndRun()
}
