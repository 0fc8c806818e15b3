package peer

import (
	"encoding/json"
	"errors"
	"fmt"

	"LocalBoard/internal/stroke"
)

// Kind tags a sync event.
type Kind string

const (
	KindStrokeAdded     Kind = "stroke-added"
	KindHistoryCleared  Kind = "history-cleared"
	KindUndoPerformed   Kind = "undo-performed"
	KindHistoryReplaced Kind = "history-replaced"
	KindSyncRequested   Kind = "sync-requested"
)

var (
	ErrMalformed   = errors.New("malformed sync message")
	ErrUnknownKind = errors.New("unknown sync event kind")
)

// Event is a history mutation travelling between board instances. Stroke is
// set for stroke-added, Strokes for history-replaced.
type Event struct {
	Kind    Kind
	Stroke  stroke.Stroke
	Strokes []stroke.Stroke
}

func StrokeAdded(s stroke.Stroke) Event { return Event{Kind: KindStrokeAdded, Stroke: s} }
func HistoryCleared() Event             { return Event{Kind: KindHistoryCleared} }
func UndoPerformed() Event              { return Event{Kind: KindUndoPerformed} }
func SyncRequested() Event              { return Event{Kind: KindSyncRequested} }

func HistoryReplaced(strokes []stroke.Stroke) Event {
	return Event{Kind: KindHistoryReplaced, Strokes: strokes}
}

// Message is the wire record.
type Message struct {
	Type    Kind            `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Origin  string          `json:"origin,omitempty"`
}

// Encode serialises ev as sent by origin.
func Encode(origin string, ev Event) ([]byte, error) {
	msg := Message{Type: ev.Kind, Origin: origin}
	var payload any
	switch ev.Kind {
	case KindStrokeAdded:
		payload = ev.Stroke
	case KindHistoryReplaced:
		strokes := ev.Strokes
		if strokes == nil {
			strokes = []stroke.Stroke{}
		}
		payload = strokes
	case KindHistoryCleared, KindUndoPerformed, KindSyncRequested:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, ev.Kind)
	}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s payload: %w", ev.Kind, err)
		}
		msg.Payload = raw
	}
	return json.Marshal(msg)
}

// Decode parses a wire record. Records without a recognised type, or whose
// payload does not fit the type, are rejected.
func Decode(data []byte) (string, Event, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return "", Event{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	ev := Event{Kind: msg.Type}
	switch msg.Type {
	case "":
		return "", Event{}, fmt.Errorf("%w: missing type", ErrMalformed)
	case KindStrokeAdded:
		if err := json.Unmarshal(msg.Payload, &ev.Stroke); err != nil {
			return "", Event{}, fmt.Errorf("%w: stroke payload: %v", ErrMalformed, err)
		}
		if !ev.Stroke.Valid() {
			return "", Event{}, fmt.Errorf("%w: empty stroke", ErrMalformed)
		}
	case KindHistoryReplaced:
		if err := json.Unmarshal(msg.Payload, &ev.Strokes); err != nil {
			return "", Event{}, fmt.Errorf("%w: history payload: %v", ErrMalformed, err)
		}
		if ev.Strokes == nil {
			return "", Event{}, fmt.Errorf("%w: history payload is not a list", ErrMalformed)
		}
	case KindHistoryCleared, KindUndoPerformed, KindSyncRequested:
	default:
		return "", Event{}, fmt.Errorf("%w: %q", ErrUnknownKind, msg.Type)
	}
	return msg.Origin, ev, nil
}
