package ui

import (
	"context"
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"go.uber.org/zap"

	"LocalBoard/internal/export"
)

func (a *App) download() {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		if writer == nil {
			return
		}
		a.saveToFile(writer)
	}, a.window)
	d.SetFileName("localboard.png")
	d.SetFilter(storage.NewExtensionFileFilter([]string{".png", ".pdf", ".json"}))
	d.Show()
}

func (a *App) saveToFile(writer fyne.URIWriteCloser) {
	defer func() {
		if err := writer.Close(); err != nil {
			a.logger.Warn("Error closing writer", zap.Error(err))
		}
	}()

	ext := writer.URI().Extension()
	if err := export.Write(writer, a.controller, ext); err != nil {
		a.logger.Warn("Failed to export board", zap.String("uri", writer.URI().String()), zap.Error(err))
		dialog.ShowError(err, a.window)
		return
	}
	a.status.SetText("Saved " + writer.URI().Name())
}

func (a *App) openHistory() {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		if reader == nil {
			return
		}
		a.loadFromFile(reader)
	}, a.window)
	d.SetFilter(storage.NewExtensionFileFilter([]string{".json"}))
	d.Show()
}

func (a *App) loadFromFile(reader fyne.URIReadCloser) {
	defer func() {
		if err := reader.Close(); err != nil {
			a.logger.Warn("Error closing reader", zap.Error(err))
		}
	}()

	strokes, err := export.ReadHistory(reader)
	if err != nil {
		a.logger.Warn("Failed to load drawing", zap.String("uri", reader.URI().String()), zap.Error(err))
		dialog.ShowError(err, a.window)
		return
	}
	a.controller.Replace(context.Background(), strokes)
	a.status.SetText(fmt.Sprintf("Loaded %d strokes", len(strokes)))
}
