package stroke

import (
	"github.com/google/uuid"
)

// Point is a position in surface-local units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Stroke is one continuous pointer gesture.
type Stroke struct {
	ID     string  `json:"id,omitempty"`
	Color  string  `json:"color"`
	Width  float64 `json:"size"`
	Points []Point `json:"points"`
}

// Clone returns a deep copy so committed strokes never share a points slice
// with a gesture that is still in progress.
func (s Stroke) Clone() Stroke {
	c := s
	c.Points = append([]Point(nil), s.Points...)
	return c
}

// Valid reports whether the stroke can be rendered: at least one point and a
// positive width.
func (s Stroke) Valid() bool {
	return len(s.Points) > 0 && s.Width > 0
}

// Tracker follows the single gesture that is currently being drawn.
type Tracker struct {
	active *Stroke
}

// Begin starts a one-point stroke and makes it the active one.
func (t *Tracker) Begin(p Point, color string, width float64) *Stroke {
	s := &Stroke{
		ID:     uuid.NewString(),
		Color:  color,
		Width:  width,
		Points: []Point{p},
	}
	t.active = s
	return s
}

// Extend appends p to s. Input for anything but the active stroke is dropped,
// which covers stray moves that arrive after release.
func (t *Tracker) Extend(s *Stroke, p Point) bool {
	if s == nil || s != t.active {
		return false
	}
	s.Points = append(s.Points, p)
	return true
}

// Active returns the stroke being drawn, or nil.
func (t *Tracker) Active() *Stroke {
	return t.active
}

// End finishes the gesture and returns an immutable copy of it.
func (t *Tracker) End() (Stroke, bool) {
	if t.active == nil {
		return Stroke{}, false
	}
	s := t.active.Clone()
	t.active = nil
	return s, true
}

// Cancel drops the active gesture without committing it.
func (t *Tracker) Cancel() {
	t.active = nil
}
