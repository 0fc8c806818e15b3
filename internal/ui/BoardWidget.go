package ui

import (
	"context"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"LocalBoard/internal/board"
)

// BoardWidget shows a controller's surface and feeds it pointer input.
type BoardWidget struct {
	widget.BaseWidget
	controller *board.Controller
	size       fyne.Size
}

var _ fyne.Widget = (*BoardWidget)(nil)
var _ fyne.Draggable = (*BoardWidget)(nil)
var _ desktop.Mouseable = (*BoardWidget)(nil)

func NewBoardWidget(c *board.Controller) *BoardWidget {
	b := &BoardWidget{controller: c}
	b.ExtendBaseWidget(b)
	c.SetRepaint(b.repaint)
	return b
}

// repaint may run on a sync reader goroutine.
func (b *BoardWidget) repaint() {
	fyne.Do(b.Refresh)
}

// track remembers where the widget sits on screen so device positions can be
// mapped onto the surface.
func (b *BoardWidget) track(e fyne.PointEvent) {
	origin := e.AbsolutePosition.Subtract(e.Position)
	b.controller.SetOrigin(float64(origin.X), float64(origin.Y))
}

func (b *BoardWidget) MouseDown(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	b.track(e.PointEvent)
	b.controller.PointerDown(float64(e.AbsolutePosition.X), float64(e.AbsolutePosition.Y))
}

func (b *BoardWidget) MouseUp(e *desktop.MouseEvent) {
	if e.Button != desktop.MouseButtonPrimary {
		return
	}
	b.controller.PointerUp(context.Background())
}

func (b *BoardWidget) Dragged(e *fyne.DragEvent) {
	if !b.controller.Drawing() {
		// Touch input has no MouseDown; start where the drag started.
		b.track(e.PointEvent)
		start := e.AbsolutePosition.Subtract(e.Dragged)
		b.controller.PointerDown(float64(start.X), float64(start.Y))
	}
	b.controller.PointerMove(float64(e.AbsolutePosition.X), float64(e.AbsolutePosition.Y))
}

func (b *BoardWidget) DragEnd() {
	b.controller.PointerUp(context.Background())
}

func (b *BoardWidget) MouseIn(*desktop.MouseEvent)    {}
func (b *BoardWidget) MouseOut()                      {}
func (b *BoardWidget) MouseMoved(*desktop.MouseEvent) {}

// Resize reallocates the surface at the canvas scale.
func (b *BoardWidget) Resize(size fyne.Size) {
	b.BaseWidget.Resize(size)
	if size == b.size || size.Width <= 0 || size.Height <= 0 {
		return
	}
	b.size = size
	b.controller.Resize(float64(size.Width), float64(size.Height), b.scale())
}

func (b *BoardWidget) scale() float64 {
	app := fyne.CurrentApp()
	if app == nil {
		return 1
	}
	if c := app.Driver().CanvasForObject(b); c != nil && c.Scale() > 0 {
		return float64(c.Scale())
	}
	return 1
}

func (b *BoardWidget) CreateRenderer() fyne.WidgetRenderer {
	r := &boardWidgetRenderer{board: b}
	r.background = canvas.NewRectangle(color.White)
	r.image = canvas.NewImageFromImage(b.controller.Image())
	r.image.FillMode = canvas.ImageFillStretch
	r.image.ScaleMode = canvas.ImageScaleSmooth
	return r
}

type boardWidgetRenderer struct {
	board      *BoardWidget
	background *canvas.Rectangle
	image      *canvas.Image
}

func (r *boardWidgetRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.background, r.image}
}

func (r *boardWidgetRenderer) Refresh() {
	r.image.Image = r.board.controller.Image()
	r.image.Refresh()
}

func (r *boardWidgetRenderer) Layout(size fyne.Size) {
	r.background.Resize(size)
	r.image.Resize(size)
}

func (r *boardWidgetRenderer) MinSize() fyne.Size {
	return fyne.NewSize(300, 300)
}

func (r *boardWidgetRenderer) Destroy() {}
