// Settings panel and brickify action
package gui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"

	"brickify-studio/internal/config"
)

// ControlPanel exposes the recognized plugin options and the brickify
// trigger.
type ControlPanel struct {
	logger *logrus.Logger

	container *fyne.Container

	ratioSlider  *widget.Slider
	ratioLabel   *widget.Label
	engineSelect *widget.Select
	gridCheck    *widget.Check
	brickifyBtn  *widget.Button
	statusLabel  *widget.Label

	settings config.Settings

	onBrickify func(config.Settings)
}

func NewControlPanel(settings config.Settings, logger *logrus.Logger) *ControlPanel {
	cp := &ControlPanel{
		logger:   logger,
		settings: settings,
	}
	cp.initializeUI()
	return cp
}

func (cp *ControlPanel) initializeUI() {
	// Ratio expressed as its denominator: grid size = width / N.
	cp.ratioLabel = widget.NewLabel(fmt.Sprintf("Brick density: 1/%d", int(1/cp.settings.Ratio)))
	cp.ratioSlider = widget.NewSlider(20, 60)
	cp.ratioSlider.Step = 1
	cp.ratioSlider.Value = 1 / cp.settings.Ratio
	cp.ratioSlider.OnChanged = func(v float64) {
		cp.settings.Ratio = 1 / v
		cp.ratioLabel.SetText(fmt.Sprintf("Brick density: 1/%d", int(v)))
	}

	cp.engineSelect = widget.NewSelect([]string{"auto", "gocv", "gift"}, func(v string) {
		cp.settings.Engine = v
	})
	cp.engineSelect.SetSelected(cp.settings.Engine)

	cp.gridCheck = widget.NewCheck("Draw grid lines", func(on bool) {
		if on {
			cp.settings.GridLineOpacity = config.Default().GridLineOpacity
		} else {
			cp.settings.GridLineOpacity = 0
		}
	})
	cp.gridCheck.SetChecked(cp.settings.GridLineOpacity > 0)

	cp.brickifyBtn = widget.NewButton("Brickify", func() {
		if cp.onBrickify != nil {
			cp.onBrickify(cp.settings)
		}
	})
	cp.brickifyBtn.Importance = widget.HighImportance

	cp.statusLabel = widget.NewLabel("Load an image to begin")
	cp.statusLabel.Wrapping = fyne.TextWrapWord

	settingsCard := widget.NewCard("Settings", "", container.NewVBox(
		cp.ratioLabel,
		cp.ratioSlider,
		widget.NewLabel("Effects engine"),
		cp.engineSelect,
		cp.gridCheck,
	))
	actionCard := widget.NewCard("Run", "", container.NewVBox(
		cp.brickifyBtn,
		cp.statusLabel,
	))

	cp.container = container.NewVBox(
		settingsCard,
		widget.NewSeparator(),
		actionCard,
	)
}

func (cp *ControlPanel) GetContainer() fyne.CanvasObject {
	return container.NewScroll(cp.container)
}

func (cp *ControlPanel) SetOnBrickify(fn func(config.Settings)) {
	cp.onBrickify = fn
}

// SetBusy toggles the brickify trigger while a run holds the token. Must
// run on the UI thread.
func (cp *ControlPanel) SetBusy(busy bool) {
	if busy {
		cp.brickifyBtn.Disable()
	} else {
		cp.brickifyBtn.Enable()
	}
}

// SetStatus must run on the UI thread.
func (cp *ControlPanel) SetStatus(text string) {
	cp.statusLabel.SetText(text)
}
