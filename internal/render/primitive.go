// Package render maps annotations to visual primitives and hit-tests them.
//
// A Scene is a pure function of the annotation list, the draft and the
// selection: building it twice from the same state yields the same
// primitives. Painting is left to the host (the fyne chart canvas or the
// PNG exporter); both consume the same Scene.
package render

import (
	"image/color"
	"math"

	"nibra-chart/pkg/geometry"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// LabelFace is the face used to measure labels. Hosts that paint text with
// a different face still hit-test against these metrics.
var LabelFace font.Face = basicfont.Face7x13

// Shape is the closed set of primitive geometries.
type Shape interface {
	// Bounds returns the axis-aligned extent of the shape.
	Bounds() geometry.Rect
	// hit reports whether p lies on the shape, counting a stroke of the
	// given width around outlines and lines.
	hit(p geometry.Point2D, strokeWidth float64, filled bool) bool
}

// RectShape is an axis-aligned box.
type RectShape struct {
	geometry.Rect
}

func (s RectShape) Bounds() geometry.Rect { return s.Rect }

func (s RectShape) hit(p geometry.Point2D, w float64, filled bool) bool {
	outer := s.Rect.Expand(w / 2)
	if !outer.Contains(p) {
		return false
	}
	if filled {
		return true
	}
	inner := s.Rect.Expand(-w / 2)
	return inner.Width <= 0 || inner.Height <= 0 || !inner.Contains(p)
}

// LineShape is a straight segment.
type LineShape struct {
	From, To geometry.Point2D
}

func (s LineShape) Bounds() geometry.Rect {
	return geometry.RectFromPoints(s.From, s.To)
}

func (s LineShape) hit(p geometry.Point2D, w float64, _ bool) bool {
	return geometry.DistanceToSegment(p, s.From, s.To) <= math.Max(w/2, 0.5)
}

// CircleShape is a circle around Center.
type CircleShape struct {
	Center geometry.Point2D
	Radius float64
}

func (s CircleShape) Bounds() geometry.Rect {
	return geometry.NewRect(s.Center.X-s.Radius, s.Center.Y-s.Radius, 2*s.Radius, 2*s.Radius)
}

func (s CircleShape) hit(p geometry.Point2D, w float64, filled bool) bool {
	d := p.Distance(s.Center)
	if filled {
		return d <= s.Radius+w/2
	}
	return math.Abs(d-s.Radius) <= w/2
}

// PolygonShape is a closed polygon.
type PolygonShape struct {
	Points []geometry.Point2D
}

func (s PolygonShape) Bounds() geometry.Rect {
	return geometry.BoundingBox(s.Points)
}

func (s PolygonShape) hit(p geometry.Point2D, w float64, filled bool) bool {
	if filled && geometry.PointInPolygon(p, s.Points) {
		return true
	}
	n := len(s.Points)
	for i := 0; i < n; i++ {
		if geometry.DistanceToSegment(p, s.Points[i], s.Points[(i+1)%n]) <= w/2 {
			return true
		}
	}
	return false
}

// TextShape is a single-line label. At is the left end of the baseline.
type TextShape struct {
	At   geometry.Point2D
	Text string
}

// Bounds returns the label box measured with LabelFace.
func (s TextShape) Bounds() geometry.Rect {
	m := LabelFace.Metrics()
	width := font.MeasureString(LabelFace, s.Text)
	ascent := fixedToFloat(m.Ascent)
	return geometry.NewRect(s.At.X, s.At.Y-ascent, fixedToFloat(width), ascent+fixedToFloat(m.Descent))
}

func (s TextShape) hit(p geometry.Point2D, _ float64, _ bool) bool {
	return s.Bounds().Contains(p)
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

// Role tells painters and tests what part of an annotation a primitive is.
type Role int

const (
	RoleBody Role = iota
	RoleHitArea
	RoleGuide
	RoleLabel
	RoleHandle
)

// Primitive is one shape of a rendered annotation.
type Primitive struct {
	// AnnotationID links the primitive back to its annotation. It is empty
	// for the draft, which can never be selected.
	AnnotationID string
	Role         Role
	Shape        Shape

	Stroke      color.NRGBA
	Fill        color.NRGBA
	StrokeWidth float64
	// Dash is an on/off pattern in pixels; nil means solid.
	Dash []float64

	// Invisible primitives are never painted.
	Invisible bool
	// Hittable primitives take part in click hit-testing.
	Hittable bool
}

// Filled reports whether the primitive has a visible fill.
func (p Primitive) Filled() bool {
	return p.Fill.A > 0
}

// Contains reports whether point lies on the primitive's hit area.
func (p Primitive) Contains(point geometry.Point2D) bool {
	if p.Shape == nil {
		return false
	}
	return p.Shape.hit(point, p.StrokeWidth, p.Filled() || p.Invisible)
}
