package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"LocalBoard/internal/stroke"
)

// Palette is the set of colour tokens offered as swatches.
var Palette = []string{"#111111", "#e53935", "#43a047", "#1e88e5", "#fdd835", "white"}

// --- Custom Widget for Color Swatches ---
type colorSwatch struct {
	widget.BaseWidget
	Token    string
	OnTapped func(string)
}

func newColorSwatch(token string, tapped func(string)) *colorSwatch {
	s := &colorSwatch{Token: token, OnTapped: tapped}
	s.ExtendBaseWidget(s)
	return s
}

func (s *colorSwatch) CreateRenderer() fyne.WidgetRenderer {
	rect := canvas.NewRectangle(stroke.ParseColor(s.Token))
	rect.SetMinSize(fyne.NewSize(32, 32))

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = color.Gray{Y: 150}
	border.StrokeWidth = 1

	return widget.NewSimpleRenderer(container.NewStack(rect, border))
}

func (s *colorSwatch) Tapped(_ *fyne.PointEvent) {
	if s.OnTapped != nil {
		s.OnTapped(s.Token)
	}
}

// newToolbar lays out drawing tools and board actions.
func (a *App) newToolbar() fyne.CanvasObject {
	tb := widget.NewToolbar(
		widget.NewToolbarAction(theme.ContentUndoIcon(), a.undo),
		widget.NewToolbarAction(theme.DeleteIcon(), a.confirmClear),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.DocumentSaveIcon(), a.saveToGallery),
		widget.NewToolbarAction(theme.DownloadIcon(), a.download),
		widget.NewToolbarAction(theme.FolderOpenIcon(), a.openHistory),
		widget.NewToolbarAction(theme.MailSendIcon(), a.copyShareLink),
	)

	// --- Color Palette ---
	colorBox := container.NewHBox()
	for _, token := range Palette {
		colorBox.Add(newColorSwatch(token, a.controller.SetColor))
	}

	// --- Stroke Width Slider ---
	strokeSlider := widget.NewSlider(1.0, 50.0)
	strokeSlider.SetValue(a.controller.Width())
	strokeSlider.OnChanged = a.controller.SetWidth
	sliderContainer := container.New(layout.NewGridWrapLayout(fyne.NewSize(150, 35)), strokeSlider)

	a.syncCheck = widget.NewCheck("Live sync", a.setSync)
	if a.sync == nil || a.syncNote != "" {
		a.syncCheck.Disable()
	} else {
		a.syncCheck.Checked = a.syncEnabled()
		a.syncCheck.Refresh()
	}

	return container.NewHBox(
		tb,
		widget.NewSeparator(),
		widget.NewLabel("Color:"),
		colorBox,
		widget.NewSeparator(),
		widget.NewLabel("Size:"),
		sliderContainer,
		widget.NewSeparator(),
		a.syncCheck,
		layout.NewSpacer(),
	)
}
