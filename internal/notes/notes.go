// Package notes keeps the sticky-note log that lives in the board's document.
package notes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"LocalBoard/internal/store"
)

// ErrEmptyField rejects a note with a blank author or message.
var ErrEmptyField = errors.New("note author and message are required")

// DefaultSince seeds a fresh document.
const DefaultSince = "June 1, 2021"

type Note struct {
	From    string `json:"from"`
	Message string `json:"message"`
	Created int64  `json:"created"` // unix millis
}

func (n Note) CreatedAt() time.Time {
	return time.UnixMilli(n.Created)
}

// Document is the persisted blob the note log is part of. Timeline and
// Gallery belong to other pages and are carried through untouched.
type Document struct {
	Since    string            `json:"since"`
	Timeline []json.RawMessage `json:"timeline"`
	Gallery  []json.RawMessage `json:"gallery"`
	Notes    []Note            `json:"notes"`
}

func defaultDocument() Document {
	return Document{Since: DefaultSince, Timeline: []json.RawMessage{}, Gallery: []json.RawMessage{}, Notes: []Note{}}
}

// Log is the note log backed by a store.
type Log struct {
	mu     sync.Mutex
	store  store.Store
	doc    Document
	logger *zap.Logger
	now    func() time.Time
}

// Open reads the document from st. Missing or corrupt documents start over
// from the defaults.
func Open(ctx context.Context, st store.Store, logger *zap.Logger) *Log {
	if logger == nil {
		logger = zap.NewNop()
	}
	l := &Log{store: st, doc: defaultDocument(), logger: logger.Named("notes"), now: time.Now}
	doc := defaultDocument()
	ok, err := store.LoadJSON(ctx, st, store.DocumentKey, &doc)
	switch {
	case err != nil:
		l.logger.Warn("Could not read note document, starting fresh", zap.Error(err))
	case ok:
		if doc.Notes == nil {
			doc.Notes = []Note{}
		}
		l.doc = doc
	}
	return l
}

// Add appends a note. Blank fields are rejected and nothing is stored. A
// failed write is logged; the note is still kept in memory.
func (l *Log) Add(ctx context.Context, from, message string) (Note, error) {
	from, message = strings.TrimSpace(from), strings.TrimSpace(message)
	if from == "" || message == "" {
		return Note{}, ErrEmptyField
	}
	n := Note{From: from, Message: message, Created: l.now().UnixMilli()}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.doc.Notes = append(l.doc.Notes, n)
	if err := store.SaveJSON(ctx, l.store, store.DocumentKey, l.doc); err != nil {
		l.logger.Warn("Failed to save note", zap.Error(err))
	}
	return n, nil
}

// List returns notes newest first.
func (l *Log) List() []Note {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Note, 0, len(l.doc.Notes))
	for i := len(l.doc.Notes) - 1; i >= 0; i-- {
		out = append(out, l.doc.Notes[i])
	}
	return out
}

// Since returns the date the document counts from.
func (l *Log) Since() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.doc.Since
}

// Export writes every note, oldest first, as indented JSON.
func (l *Log) Export(w io.Writer) error {
	l.mu.Lock()
	data, err := json.MarshalIndent(l.doc.Notes, "", "  ")
	l.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to encode notes: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write notes: %w", err)
	}
	return nil
}
