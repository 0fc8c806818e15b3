package board

import (
	"context"

	"go.uber.org/zap"

	"LocalBoard/internal/peer"
)

// HandleEvent applies an event received from a peer. Applying an inbound
// event never emits the same event again; the only reply is the history sent
// in answer to sync-requested.
func (c *Controller) HandleEvent(ctx context.Context, ev peer.Event) {
	var reply *peer.Event

	c.mu.Lock()
	switch ev.Kind {
	case peer.KindStrokeAdded:
		c.history.Append(ev.Stroke)
		c.raster.Draw(ev.Stroke)
		c.persistLocked(ctx)
	case peer.KindHistoryCleared:
		c.history.Replace(nil)
		c.replayLocked()
		c.persistLocked(ctx)
	case peer.KindUndoPerformed:
		c.history.Pop()
		c.replayLocked()
		c.persistLocked(ctx)
	case peer.KindHistoryReplaced:
		c.history.Replace(ev.Strokes)
		c.replayLocked()
		c.persistLocked(ctx)
	case peer.KindSyncRequested:
		if c.history.Len() > 0 {
			r := peer.HistoryReplaced(c.history.Snapshot())
			reply = &r
		}
	default:
		c.mu.Unlock()
		c.logger.Debug("Ignoring unknown sync event", zap.String("type", string(ev.Kind)))
		return
	}
	emitter := c.emitter
	c.mu.Unlock()

	if ev.Kind != peer.KindSyncRequested {
		c.repaint()
	}
	if reply != nil {
		emitter.Emit(ctx, *reply)
	}
}
