package board

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"LocalBoard/internal/store"
)

// Drawing is a saved raster in the gallery.
type Drawing struct {
	DataURL string `json:"dataUrl"`
	Created int64  `json:"created"` // unix millis
}

func (d Drawing) CreatedAt() time.Time {
	return time.UnixMilli(d.Created)
}

// SaveSnapshot stores the current surface at the front of the gallery.
func (c *Controller) SaveSnapshot(ctx context.Context) (Drawing, error) {
	u, err := c.DataURL()
	if err != nil {
		return Drawing{}, err
	}
	d := Drawing{DataURL: u, Created: time.Now().UnixMilli()}

	drawings := c.Gallery(ctx)
	drawings = append([]Drawing{d}, drawings...)
	if err := store.SaveJSON(ctx, c.store, store.DrawingsKey, drawings); err != nil {
		return Drawing{}, fmt.Errorf("failed to save drawing: %w", err)
	}
	c.logger.Info("Saved drawing to gallery", zap.Int("drawings", len(drawings)))
	return d, nil
}

// Gallery returns saved drawings, newest first. Unreadable storage yields an
// empty gallery.
func (c *Controller) Gallery(ctx context.Context) []Drawing {
	return LoadGallery(ctx, c.store, c.logger)
}

// LoadGallery reads the gallery straight from a store.
func LoadGallery(ctx context.Context, st store.Store, logger *zap.Logger) []Drawing {
	var drawings []Drawing
	if _, err := store.LoadJSON(ctx, st, store.DrawingsKey, &drawings); err != nil {
		if logger != nil {
			logger.Warn("Could not read gallery", zap.Error(err))
		}
		return nil
	}
	return drawings
}
