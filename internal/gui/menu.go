// Menu handler for application actions
package gui

import (
	"errors"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"github.com/sirupsen/logrus"

	"brickify-studio/internal/imageio"
)

// MenuHandler handles menu actions.
type MenuHandler struct {
	window fyne.Window
	source *imageio.Source
	loader *imageio.Loader
	logger *logrus.Logger

	onImageLoaded func()
}

func NewMenuHandler(window fyne.Window, source *imageio.Source, loader *imageio.Loader, logger *logrus.Logger) *MenuHandler {
	return &MenuHandler{
		window: window,
		source: source,
		loader: loader,
		logger: logger,
	}
}

func (mh *MenuHandler) SetOnImageLoaded(fn func()) {
	mh.onImageLoaded = fn
}

func (mh *MenuHandler) GetMainMenu() *fyne.MainMenu {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Image...", mh.openImage),
		fyne.NewMenuItem("Save Result...", mh.saveResult),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Exit", func() {
			mh.window.Close()
		}),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mh.showAbout),
	)

	return fyne.NewMainMenu(fileMenu, helpMenu)
}

func (mh *MenuHandler) openImage() {
	fileDialog := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, mh.window)
			return
		}
		if reader == nil {
			return
		}
		defer reader.Close()

		path := reader.URI().Path()
		img, err := mh.loader.Load(path)
		if err != nil {
			// Broken image: show the placeholder like the plugin did, but
			// tell the user instead of failing silently.
			var loadErr *imageio.ImageLoadError
			if errors.As(err, &loadErr) {
				dialog.ShowError(loadErr, mh.window)
			} else {
				dialog.ShowError(err, mh.window)
			}
		}

		if setErr := mh.source.SetOriginal(img, path); setErr != nil {
			dialog.ShowError(setErr, mh.window)
			return
		}
		if mh.onImageLoaded != nil {
			mh.onImageLoaded()
		}
	}, mh.window)

	fileDialog.SetFilter(storage.NewExtensionFileFilter([]string{".png", ".jpg", ".jpeg", ".gif"}))
	fileDialog.Show()
}

func (mh *MenuHandler) saveResult() {
	result := mh.source.Result()
	if result == nil {
		dialog.ShowInformation("Nothing to save", "Brickify an image first.", mh.window)
		return
	}

	fileDialog := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, mh.window)
			return
		}
		if writer == nil {
			return
		}
		path := writer.URI().Path()
		writer.Close()

		if err := mh.loader.Save(path, result); err != nil {
			dialog.ShowError(err, mh.window)
			return
		}
		mh.logger.WithField("path", path).Info("Result saved")
	}, mh.window)

	fileDialog.SetFileName("brickified.png")
	fileDialog.Show()
}

func (mh *MenuHandler) showAbout() {
	dialog.ShowInformation("About Brickify Studio",
		"Renders a photograph as a mosaic of simulated Lego-brick studs.",
		mh.window)
}
