package render

import (
	"nibra-chart/internal/annotation"
	"nibra-chart/pkg/colorutil"
	"nibra-chart/pkg/geometry"
)

// RewardRisk is the fixed reward:risk multiple of position tools.
const RewardRisk = 2.0

// PriceFunc maps an overlay y coordinate to a price.
type PriceFunc func(y float64) float64

// Options configures primitive generation.
type Options struct {
	RayLength    float64 // Forward projection of rays and extended lines
	HitWidth     float64 // Width of the invisible hit area around lines
	LineWidth    float64 // Visible line width
	ShapeWidth   float64 // Outline width of filled shapes
	HandleRadius float64 // Selection handle radius
	FillOpacity  float64 // Opacity of translucent fills

	// PriceAt, when set, lets measuring tools label price deltas instead of
	// pixel deltas.
	PriceAt PriceFunc
}

// DefaultOptions returns the standard rendering options.
func DefaultOptions() Options {
	return Options{
		RayLength:    2000,
		HitWidth:     10,
		LineWidth:    2,
		ShapeWidth:   1.5,
		HandleRadius: 4,
		FillOpacity:  0.2,
	}
}

// Scene is the ordered primitive list of one render pass. Later primitives
// paint over earlier ones.
type Scene struct {
	Primitives []Primitive
}

// Build renders the committed annotations in order, then the draft on top.
// Pass a nil draft when no gesture is active.
func Build(items []annotation.Annotation, draft *annotation.Annotation, selectedID string, opts Options) Scene {
	var s Scene
	for _, a := range items {
		s.Primitives = append(s.Primitives, Annotation(a, selectedID != "" && a.ID == selectedID, opts)...)
	}
	if draft != nil {
		d := draft.Clone()
		d.ID = ""
		s.Primitives = append(s.Primitives, Annotation(d, false, opts)...)
	}
	return s
}

// HitTest returns the id of the topmost committed annotation under p.
func (s Scene) HitTest(p geometry.Point2D) (string, bool) {
	for i := len(s.Primitives) - 1; i >= 0; i-- {
		prim := s.Primitives[i]
		if !prim.Hittable || prim.AnnotationID == "" {
			continue
		}
		if prim.Contains(p) {
			return prim.AnnotationID, true
		}
	}
	return "", false
}

// For returns the primitives of one annotation in paint order.
func (s Scene) For(id string) []Primitive {
	var out []Primitive
	for _, p := range s.Primitives {
		if p.AnnotationID == id {
			out = append(out, p)
		}
	}
	return out
}

// Annotation renders a single annotation. Annotations with fewer than two
// points produce nothing.
func Annotation(a annotation.Annotation, selected bool, opts Options) []Primitive {
	if !a.Renderable() {
		return nil
	}
	b := &builder{
		id:    a.ID,
		color: colorutil.HexOr(a.Color, colorutil.Accent),
		dash:  dashFor(a.Stroke),
		opts:  opts,
	}
	p1, p2 := a.Points[0], a.Points[1]

	switch a.Kind {
	case annotation.KindTrendline:
		b.line(p1, p2)
	case annotation.KindInfoLine:
		b.line(p1, p2)
		b.infoLabel(p1, p2)
	case annotation.KindRay, annotation.KindExtendedLine:
		b.line(p1, geometry.ProjectRay(p1, p2, opts.RayLength))
	case annotation.KindFibRetracement:
		b.fib(p1, p2, retracementLevels, true)
	case annotation.KindFibExtension:
		b.fib(p1, p2, extensionLevels, false)
	case annotation.KindRectangle:
		b.rect(geometry.RectFromPoints(p1, p2))
	case annotation.KindCircle:
		b.circle(p1, p1.Distance(p2))
	case annotation.KindTriangle:
		b.triangle(geometry.RectFromPoints(p1, p2))
	case annotation.KindText:
		b.text(p1, labelOr(a.Label, "Text"))
	case annotation.KindCallout:
		b.callout(p1, p2, labelOr(a.Label, "Callout"))
	case annotation.KindLongPosition:
		b.position(p1, p2, true)
	case annotation.KindShortPosition:
		b.position(p1, p2, false)
	case annotation.KindPriceRange:
		b.priceRange(p1, p2)
	}

	if selected {
		for _, p := range a.Points {
			b.handle(p)
		}
	}
	return b.out
}

func dashFor(s annotation.StrokeStyle) []float64 {
	switch s {
	case annotation.StrokeDashed:
		return []float64{6, 4}
	case annotation.StrokeDotted:
		return []float64{2, 3}
	default:
		return nil
	}
}

func labelOr(label, def string) string {
	if label == "" {
		return def
	}
	return label
}
