package ui

import (
	"context"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	"LocalBoard/internal/board"
	"LocalBoard/internal/export"
	"LocalBoard/internal/notes"
	"LocalBoard/internal/peer"
)

// Syncer switches live sync on and off. *peer.Channel implements it.
type Syncer interface {
	Enable(ctx context.Context) error
	Disable() error
	State() peer.State
}

type Options struct {
	Title     string
	Width     float32
	Height    float32
	ShareBase string // link the share action embeds the drawing into
	Sync      Syncer
	Done      <-chan struct{} // closed when the sync transport drops
	// SyncUnavailable, when set, explains why the transport cannot reach
	// other devices. The sync toggle is disabled and the text is shown.
	SyncUnavailable string
	Notes           *notes.Log
	Logger          *zap.Logger
}

// App is the LocalBoard window.
type App struct {
	window     fyne.Window
	controller *board.Controller
	board      *BoardWidget
	sync       Syncer
	syncNote   string
	syncCheck  *widget.Check
	notes      *notes.Log
	notesForm  *notesPanel
	status     *widget.Label
	shareBase  string
	logger     *zap.Logger
}

// New builds the window for c inside fa.
func New(fa fyne.App, c *board.Controller, opts Options) *App {
	if opts.Title == "" {
		opts.Title = "Local Whiteboard"
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = 1024, 768
	}
	if opts.ShareBase == "" {
		opts.ShareBase = peer.ShareScheme + "board"
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	a := &App{
		window:     fa.NewWindow(opts.Title),
		controller: c,
		sync:       opts.Sync,
		syncNote:   opts.SyncUnavailable,
		notes:      opts.Notes,
		status:     widget.NewLabel("Ready"),
		shareBase:  opts.ShareBase,
		logger:     opts.Logger.Named("ui"),
	}
	if a.syncNote != "" {
		a.status.SetText(a.syncNote)
	}
	a.board = NewBoardWidget(c)
	a.window.Resize(fyne.NewSize(opts.Width, opts.Height))

	content := container.NewBorder(a.newToolbar(), a.status, nil, nil, a.board)
	if a.notes != nil {
		split := container.NewHSplit(content, a.newNotesPanel())
		split.Offset = 0.75
		a.window.SetContent(split)
	} else {
		a.window.SetContent(content)
	}
	if opts.Done != nil {
		go func() {
			<-opts.Done
			a.logger.Warn("Disconnected from hub")
			a.SetStatus("Disconnected from hub")
		}()
	}
	return a
}

// RunApp opens the board window and blocks until it is closed.
func RunApp(c *board.Controller, opts Options) {
	a := New(app.NewWithID("io.localboard.app"), c, opts)
	a.window.ShowAndRun()
}

func (a *App) Window() fyne.Window {
	return a.window
}

// SetStatus is safe to call from any goroutine.
func (a *App) SetStatus(text string) {
	fyne.Do(func() {
		a.status.SetText(text)
	})
}

func (a *App) undo() {
	a.controller.Undo(context.Background())
}

func (a *App) confirmClear() {
	dialog.ShowConfirm("Clear board", "Erase every stroke on this board?", func(ok bool) {
		if !ok {
			return
		}
		a.controller.Clear(context.Background())
		a.status.SetText("Board cleared")
	}, a.window)
}

func (a *App) saveToGallery() {
	ctx := context.Background()
	if _, err := a.controller.SaveSnapshot(ctx); err != nil {
		a.logger.Warn("Failed to save drawing", zap.Error(err))
		dialog.ShowError(err, a.window)
		return
	}
	a.status.SetText("Drawing saved to gallery")
}

// shareLink embeds the current surface in a link.
func (a *App) shareLink() (string, error) {
	u, err := a.controller.DataURL()
	if err != nil {
		return "", err
	}
	return export.ShareLink(a.shareBase, u), nil
}

func (a *App) copyShareLink() {
	link, err := a.shareLink()
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	if cb := a.window.Clipboard(); cb != nil {
		cb.SetContent(link)
		a.status.SetText("Share link copied")
		return
	}
	a.showManualCopy(link)
}

// showManualCopy is the fallback when no clipboard is available.
func (a *App) showManualCopy(link string) {
	entry := widget.NewMultiLineEntry()
	entry.SetText(link)
	entry.Wrapping = fyne.TextWrapBreak
	d := dialog.NewCustom("Copy this link", "Close", container.NewGridWrap(fyne.NewSize(420, 160), entry), a.window)
	d.Show()
}

func (a *App) syncEnabled() bool {
	return a.sync != nil && a.sync.State() == peer.Enabled
}

func (a *App) setSync(on bool) {
	if a.sync == nil || a.syncNote != "" {
		return
	}
	if !on {
		if err := a.sync.Disable(); err != nil {
			a.logger.Warn("Failed to disable sync", zap.Error(err))
		}
		a.status.SetText("Live sync off")
		return
	}
	if err := a.sync.Enable(context.Background()); err != nil {
		a.logger.Warn("Failed to enable sync", zap.Error(err))
		dialog.ShowError(err, a.window)
		return
	}
	a.status.SetText("Live sync on")
}
