package ui

import (
	"context"
	"errors"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"LocalBoard/internal/notes"
)

// notesPanel is the side panel listing notes with a form to add one.
type notesPanel struct {
	items   []notes.Note
	list    *widget.List
	from    *widget.Entry
	message *widget.Entry
	add     *widget.Button
}

func (a *App) newNotesPanel() fyne.CanvasObject {
	p := &notesPanel{items: a.notes.List()}
	p.list = widget.NewList(
		func() int { return len(p.items) },
		func() fyne.CanvasObject {
			return widget.NewLabel("")
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			n := p.items[id]
			label := obj.(*widget.Label)
			label.Wrapping = fyne.TextWrapWord
			label.SetText(n.From + ": " + n.Message + "  (" + n.CreatedAt().Format("Jan 2 15:04") + ")")
		},
	)

	p.from = widget.NewEntry()
	p.from.SetPlaceHolder("Your name")
	p.message = widget.NewMultiLineEntry()
	p.message.SetPlaceHolder("Leave a note")
	p.add = widget.NewButton("Add note", a.addNote)
	a.notesForm = p

	header := widget.NewLabel("Notes since " + a.notes.Since())
	form := container.NewVBox(p.from, p.message, p.add)
	return container.NewBorder(header, form, nil, nil, p.list)
}

// addNote saves the form and resets both fields.
func (a *App) addNote() {
	p := a.notesForm
	_, err := a.notes.Add(context.Background(), p.from.Text, p.message.Text)
	if errors.Is(err, notes.ErrEmptyField) {
		dialog.ShowInformation("Missing fields", "Please fill in both fields.", a.window)
		return
	}
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	p.from.SetText("")
	p.message.SetText("")
	p.items = a.notes.List()
	p.list.Refresh()
}
