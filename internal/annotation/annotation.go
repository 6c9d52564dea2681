// Package annotation holds the user-drawn chart objects and the model that
// owns the committed list, the in-progress draft and the selection.
package annotation

import (
	"nibra-chart/pkg/colorutil"
	"nibra-chart/pkg/geometry"

	"github.com/pkg/errors"
)

// StrokeStyle is the line pattern of an annotation outline.
type StrokeStyle int

const (
	StrokeSolid StrokeStyle = iota
	StrokeDashed
	StrokeDotted
)

var strokeNames = []string{"solid", "dashed", "dotted"}

func (s StrokeStyle) String() string {
	if s < 0 || int(s) >= len(strokeNames) {
		return strokeNames[0]
	}
	return strokeNames[s]
}

// Next returns the style that follows s in the toolbar cycle.
func (s StrokeStyle) Next() StrokeStyle {
	return StrokeStyle((int(s) + 1) % len(strokeNames))
}

// MarshalText implements encoding.TextMarshaler.
func (s StrokeStyle) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *StrokeStyle) UnmarshalText(text []byte) error {
	for i, name := range strokeNames {
		if name == string(text) {
			*s = StrokeStyle(i)
			return nil
		}
	}
	return errors.Errorf("unknown stroke style %q", string(text))
}

// Annotation is one drawn object on the chart overlay. It is plain data:
// hosts may copy, serialize and compare values freely.
type Annotation struct {
	ID     string             `json:"id"`
	Kind   Kind               `json:"kind"`
	Points []geometry.Point2D `json:"points"`
	Color  string             `json:"color"`
	Stroke StrokeStyle        `json:"stroke"`
	// Locked guards the control points against MovePoint reshaping by the
	// host. Style and label edits stay allowed.
	Locked bool               `json:"locked"`
	Label  string             `json:"label,omitempty"`
}

// Anchor returns the fixed first control point.
func (a Annotation) Anchor() geometry.Point2D {
	if len(a.Points) == 0 {
		return geometry.Point2D{}
	}
	return a.Points[0]
}

// Terminal returns the second control point: the dragged end while drawing
// and the toolbar anchor afterwards.
func (a Annotation) Terminal() geometry.Point2D {
	if len(a.Points) < 2 {
		return a.Anchor()
	}
	return a.Points[1]
}

// Clone returns a deep copy so callers never alias the model's points.
func (a Annotation) Clone() Annotation {
	c := a
	c.Points = append([]geometry.Point2D(nil), a.Points...)
	return c
}

// Renderable reports whether the annotation has enough points to draw.
func (a Annotation) Renderable() bool {
	return a.Kind.Valid() && len(a.Points) >= 2
}

func newDraft(k Kind, p geometry.Point2D) *Annotation {
	return &Annotation{
		Kind:   k,
		Points: []geometry.Point2D{p, p},
		Color:  colorutil.AccentHex,
		Stroke: StrokeSolid,
	}
}
