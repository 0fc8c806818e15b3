// Package board owns a drawing: the stroke history, the raster it is painted
// on, and the wiring to persistence and live sync. Every mutation, local or
// received from a peer, runs to completion under one lock; outbound sync
// events are published after the lock is released.
package board

import (
	"context"
	"image"
	"io"
	"sync"

	"go.uber.org/zap"

	"LocalBoard/internal/history"
	"LocalBoard/internal/peer"
	"LocalBoard/internal/store"
	"LocalBoard/internal/stroke"
	"LocalBoard/internal/surface"
)

// Emitter sends sync events to peers. *peer.Channel implements it.
type Emitter interface {
	Emit(ctx context.Context, ev peer.Event)
}

type nopEmitter struct{}

func (nopEmitter) Emit(context.Context, peer.Event) {}

// Options configures a Controller. Zero values pick defaults.
type Options struct {
	Width, Height float64
	Scale         float64
	Color         string
	StrokeWidth   float64
	Capacity      int
	Logger        *zap.Logger
	// OnRepaint is called, without the lock held, after the raster changed.
	OnRepaint func()
}

// Controller is one board instance.
type Controller struct {
	mu      sync.Mutex
	history *history.Stack
	raster  *surface.Raster
	tracker stroke.Tracker
	color   string
	width   float64
	origin  stroke.Point

	store     store.Store
	emitter   Emitter
	logger    *zap.Logger
	onRepaint func()
}

// New builds a controller persisting to st. Call Load to restore a saved
// history and Attach to start emitting sync events.
func New(st store.Store, opts Options) *Controller {
	if opts.Width <= 0 {
		opts.Width = 800
	}
	if opts.Height <= 0 {
		opts.Height = 600
	}
	if opts.Color == "" {
		opts.Color = "#111111"
	}
	if opts.StrokeWidth <= 0 {
		opts.StrokeWidth = 4
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if st == nil {
		st = store.NewMemory()
	}
	return &Controller{
		history:   history.New(opts.Capacity),
		raster:    surface.New(opts.Width, opts.Height, opts.Scale),
		color:     opts.Color,
		width:     opts.StrokeWidth,
		store:     st,
		emitter:   nopEmitter{},
		logger:    opts.Logger.Named("board"),
		onRepaint: opts.OnRepaint,
	}
}

// Attach routes outgoing sync events to e.
func (c *Controller) Attach(e Emitter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e == nil {
		e = nopEmitter{}
	}
	c.emitter = e
}

// SetRepaint replaces the repaint hook.
func (c *Controller) SetRepaint(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onRepaint = fn
}

// Load restores the persisted history. A missing or corrupt value leaves the
// board empty.
func (c *Controller) Load(ctx context.Context) {
	var saved []stroke.Stroke
	if _, err := store.LoadJSON(ctx, c.store, store.HistoryKey, &saved); err != nil {
		c.logger.Warn("Could not restore drawing history", zap.Error(err))
		saved = nil
	}
	valid := saved[:0]
	for _, s := range saved {
		if s.Valid() {
			valid = append(valid, s)
		}
	}

	c.mu.Lock()
	c.history.Replace(valid)
	c.replayLocked()
	c.mu.Unlock()
	c.logger.Info("Restored drawing history", zap.Int("strokes", len(valid)))
	c.repaint()
}

func (c *Controller) SetColor(color string) {
	if color == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.color = color
}

func (c *Controller) Color() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.color
}

// SetWidth changes the width of the next stroke. Non-positive widths are
// ignored.
func (c *Controller) SetWidth(width float64) {
	if width <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.width = width
}

func (c *Controller) Width() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.width
}

// SetOrigin records where the surface sits in device coordinates.
func (c *Controller) SetOrigin(x, y float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.origin = stroke.Point{X: x, Y: y}
}

// Locate maps a device position to surface-local coordinates.
func (c *Controller) Locate(x, y float64) stroke.Point {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.locateLocked(x, y)
}

func (c *Controller) locateLocked(x, y float64) stroke.Point {
	return stroke.Point{X: x - c.origin.X, Y: y - c.origin.Y}
}

// PointerDown starts a gesture at a device position.
func (c *Controller) PointerDown(x, y float64) {
	c.mu.Lock()
	s := c.tracker.Begin(c.locateLocked(x, y), c.color, c.width)
	c.raster.Draw(*s)
	c.mu.Unlock()
	c.repaint()
}

// PointerMove extends the active gesture. Moves with no gesture in progress
// are ignored.
func (c *Controller) PointerMove(x, y float64) {
	c.mu.Lock()
	active := c.tracker.Active()
	if !c.tracker.Extend(active, c.locateLocked(x, y)) {
		c.mu.Unlock()
		return
	}
	c.raster.DrawTail(*active)
	c.mu.Unlock()
	c.repaint()
}

// PointerUp commits the active gesture.
func (c *Controller) PointerUp(ctx context.Context) {
	c.mu.Lock()
	s, ok := c.tracker.End()
	c.mu.Unlock()
	if ok {
		c.commit(ctx, s, true)
	}
}

// Drawing reports whether a gesture is in progress.
func (c *Controller) Drawing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tracker.Active() != nil
}

// Commit appends a finished stroke, paints it, persists the history and
// announces it.
func (c *Controller) Commit(ctx context.Context, s stroke.Stroke) {
	c.commit(ctx, s, false)
}

// commit skips painting when the stroke is already on the surface from the
// live gesture. Evicting the oldest stroke forces a replay so the surface
// never shows a stroke the history no longer holds.
func (c *Controller) commit(ctx context.Context, s stroke.Stroke, painted bool) {
	if !s.Valid() {
		return
	}
	c.mu.Lock()
	before := c.history.Len()
	c.history.Commit(s)
	evicted := c.history.Len() <= before
	switch {
	case evicted:
		c.replayLocked()
	case !painted:
		c.raster.Draw(s)
	}
	c.persistLocked(ctx)
	emitter := c.emitter
	c.mu.Unlock()

	if evicted || !painted {
		c.repaint()
	}
	emitter.Emit(ctx, peer.StrokeAdded(s))
}

// Undo removes the newest stroke and repaints from the remaining history.
func (c *Controller) Undo(ctx context.Context) {
	c.mu.Lock()
	if _, ok := c.history.Undo(); !ok {
		c.mu.Unlock()
		return
	}
	c.replayLocked()
	c.persistLocked(ctx)
	emitter := c.emitter
	c.mu.Unlock()

	c.repaint()
	emitter.Emit(ctx, peer.UndoPerformed())
}

// Clear wipes the history, the redo buffer and the surface.
func (c *Controller) Clear(ctx context.Context) {
	c.mu.Lock()
	c.history.Clear()
	c.replayLocked()
	c.persistLocked(ctx)
	emitter := c.emitter
	c.mu.Unlock()

	c.repaint()
	emitter.Emit(ctx, peer.HistoryCleared())
}

// Replace adopts strokes as the whole history without announcing it.
func (c *Controller) Replace(ctx context.Context, strokes []stroke.Stroke) {
	c.mu.Lock()
	c.history.Replace(strokes)
	c.replayLocked()
	c.persistLocked(ctx)
	c.mu.Unlock()
	c.repaint()
}

// Resize reallocates the surface and replays the history onto it.
func (c *Controller) Resize(width, height, scale float64) {
	c.mu.Lock()
	c.raster.Resize(width, height, scale)
	c.replayLocked()
	c.mu.Unlock()
	c.repaint()
}

// Snapshot returns the committed history, oldest first.
func (c *Controller) Snapshot() []stroke.Stroke {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.history.Snapshot()
}

// Redo returns the redo buffer, most recently undone first.
func (c *Controller) Redo() []stroke.Stroke {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.history.Redo()
}

// Image returns a copy of the surface pixels.
func (c *Controller) Image() *image.RGBA {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.raster.Image()
}

// Size returns the surface size in surface-local units.
func (c *Controller) Size() (width, height float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.raster.Size()
}

func (c *Controller) EncodePNG(w io.Writer) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.raster.EncodePNG(w)
}

func (c *Controller) DataURL() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.raster.DataURL()
}

// replayLocked repaints the history and then any gesture still in progress.
func (c *Controller) replayLocked() {
	c.raster.Replay(c.history.Snapshot())
	if active := c.tracker.Active(); active != nil {
		c.raster.Draw(*active)
	}
}

func (c *Controller) persistLocked(ctx context.Context) {
	if err := store.SaveJSON(ctx, c.store, store.HistoryKey, c.history.Snapshot()); err != nil {
		c.logger.Warn("Failed to persist drawing history", zap.Error(err))
	}
}

func (c *Controller) repaint() {
	c.mu.Lock()
	fn := c.onRepaint
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}
