package history

import (
	"LocalBoard/internal/stroke"
)

// DefaultCapacity is the number of strokes kept before the oldest is evicted.
const DefaultCapacity = 50

// Stack is the ordered log of committed strokes plus the redo buffer.
// It is owned by a single board controller and is not safe for concurrent use.
type Stack struct {
	capacity int
	entries  []stroke.Stroke
	redo     []stroke.Stroke // most recently undone last
}

// New returns an empty stack. A non-positive capacity selects DefaultCapacity.
func New(capacity int) *Stack {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Stack{capacity: capacity}
}

// Capacity returns the eviction bound.
func (s *Stack) Capacity() int {
	return s.capacity
}

// Len returns the number of committed strokes.
func (s *Stack) Len() int {
	return len(s.entries)
}

// Commit appends a locally drawn stroke, evicting the oldest entries once the
// capacity is exceeded, and drops the redo buffer.
func (s *Stack) Commit(st stroke.Stroke) {
	s.entries = append(s.entries, st.Clone())
	if over := len(s.entries) - s.capacity; over > 0 {
		s.entries = append(s.entries[:0:0], s.entries[over:]...)
	}
	s.redo = nil
}

// Undo moves the newest stroke to the redo buffer. It reports false when the
// stack is empty, in which case nothing changes.
func (s *Stack) Undo() (stroke.Stroke, bool) {
	st, ok := s.Pop()
	if !ok {
		return stroke.Stroke{}, false
	}
	s.redo = append(s.redo, st)
	return st, true
}

// Clear empties both the history and the redo buffer.
func (s *Stack) Clear() {
	s.entries = nil
	s.redo = nil
}

// Replace discards the history and adopts strokes wholesale. The redo buffer
// is left alone.
func (s *Stack) Replace(strokes []stroke.Stroke) {
	s.entries = cloneAll(strokes)
}

// Snapshot returns a copy of the history, oldest first.
func (s *Stack) Snapshot() []stroke.Stroke {
	return cloneAll(s.entries)
}

// Append adds a stroke received from a peer. Unlike Commit it neither evicts
// nor touches the redo buffer.
func (s *Stack) Append(st stroke.Stroke) {
	s.entries = append(s.entries, st.Clone())
}

// Pop removes the newest stroke without recording it for redo.
func (s *Stack) Pop() (stroke.Stroke, bool) {
	n := len(s.entries)
	if n == 0 {
		return stroke.Stroke{}, false
	}
	st := s.entries[n-1]
	s.entries = s.entries[:n-1]
	return st, true
}

// Redo returns the redo buffer, most recently undone first.
func (s *Stack) Redo() []stroke.Stroke {
	out := make([]stroke.Stroke, 0, len(s.redo))
	for i := len(s.redo) - 1; i >= 0; i-- {
		out = append(out, s.redo[i].Clone())
	}
	return out
}

func cloneAll(in []stroke.Stroke) []stroke.Stroke {
	out := make([]stroke.Stroke, len(in))
	for i, st := range in {
		out[i] = st.Clone()
	}
	return out
}
