package render

import (
	"fmt"
	"image/color"
	"math"

	"nibra-chart/pkg/colorutil"
	"nibra-chart/pkg/geometry"
)

var (
	retracementLevels = []float64{0, 0.236, 0.382, 0.5, 0.618, 0.786, 1}
	extensionLevels   = []float64{0, 0.618, 1, 1.272, 1.618, 2.618}

	transparent = color.NRGBA{}
	entryDash   = []float64{4, 2}
)

// builder accumulates the primitives of one annotation.
type builder struct {
	id    string
	color color.NRGBA
	dash  []float64
	opts  Options
	out   []Primitive
}

func (b *builder) add(p Primitive) {
	p.AnnotationID = b.id
	b.out = append(b.out, p)
}

func (b *builder) fill() color.NRGBA {
	return colorutil.WithAlpha(b.color, b.opts.FillOpacity)
}

// line draws a thin visible segment over a wide invisible hit area.
func (b *builder) line(from, to geometry.Point2D) {
	seg := LineShape{From: from, To: to}
	b.add(Primitive{
		Role:        RoleHitArea,
		Shape:       seg,
		Stroke:      transparent,
		StrokeWidth: b.opts.HitWidth,
		Invisible:   true,
		Hittable:    true,
	})
	b.add(Primitive{
		Role:        RoleBody,
		Shape:       seg,
		Stroke:      b.color,
		StrokeWidth: b.opts.LineWidth,
		Dash:        b.dash,
	})
}

func (b *builder) rect(r geometry.Rect) {
	b.add(Primitive{
		Role:        RoleBody,
		Shape:       RectShape{Rect: r},
		Stroke:      b.color,
		Fill:        b.fill(),
		StrokeWidth: b.opts.ShapeWidth,
		Dash:        b.dash,
		Hittable:    true,
	})
}

func (b *builder) circle(center geometry.Point2D, radius float64) {
	b.add(Primitive{
		Role:        RoleBody,
		Shape:       CircleShape{Center: center, Radius: radius},
		Stroke:      b.color,
		Fill:        b.fill(),
		StrokeWidth: b.opts.ShapeWidth,
		Dash:        b.dash,
		Hittable:    true,
	})
}

// triangle inscribes an isosceles triangle in r with its apex at the top.
func (b *builder) triangle(r geometry.Rect) {
	b.add(Primitive{
		Role: RoleBody,
		Shape: PolygonShape{Points: []geometry.Point2D{
			{X: r.X + r.Width/2, Y: r.Y},
			{X: r.X + r.Width, Y: r.Y + r.Height},
			{X: r.X, Y: r.Y + r.Height},
		}},
		Stroke:      b.color,
		Fill:        b.fill(),
		StrokeWidth: b.opts.ShapeWidth,
		Dash:        b.dash,
		Hittable:    true,
	})
}

func (b *builder) label(at geometry.Point2D, text string, c color.NRGBA, hittable bool) TextShape {
	ts := TextShape{At: at, Text: text}
	b.add(Primitive{
		Role:     RoleLabel,
		Shape:    ts,
		Stroke:   c,
		Hittable: hittable,
	})
	return ts
}

func (b *builder) text(at geometry.Point2D, text string) {
	b.label(at, text, b.color, true)
}

// callout points from p1 to a boxed label whose top-left corner is p2.
func (b *builder) callout(p1, p2 geometry.Point2D, text string) {
	const pad = 4
	b.line(p1, p2)

	ascent := fixedToFloat(LabelFace.Metrics().Ascent)
	ts := TextShape{At: geometry.NewPoint2D(p2.X+pad, p2.Y+pad+ascent), Text: text}
	b.add(Primitive{
		Role:        RoleBody,
		Shape:       RectShape{Rect: ts.Bounds().Expand(pad)},
		Stroke:      b.color,
		Fill:        colorutil.White,
		StrokeWidth: 1,
		Hittable:    true,
	})
	b.label(ts.At, text, b.color, true)
}

// position draws the stop box between the entry (p1.y) and p2.y and a
// target box RewardRisk times as tall on the other side of the entry.
func (b *builder) position(p1, p2 geometry.Point2D, long bool) {
	x := math.Min(p1.X, p2.X)
	width := math.Abs(p2.X - p1.X)
	entry := p1.Y
	risk := math.Abs(p2.Y - p1.Y)

	target := entry + RewardRisk*risk
	if long {
		target = entry - RewardRisk*risk
	}

	b.add(Primitive{
		Role:        RoleBody,
		Shape:       RectShape{Rect: geometry.NewRect(x, math.Min(entry, p2.Y), width, risk)},
		Stroke:      colorutil.Loss,
		Fill:        colorutil.WithAlpha(colorutil.Loss, b.opts.FillOpacity),
		StrokeWidth: 1,
		Hittable:    true,
	})
	b.add(Primitive{
		Role:        RoleBody,
		Shape:       RectShape{Rect: geometry.NewRect(x, math.Min(entry, target), width, math.Abs(target-entry))},
		Stroke:      colorutil.Profit,
		Fill:        colorutil.WithAlpha(colorutil.Profit, b.opts.FillOpacity),
		StrokeWidth: 1,
		Hittable:    true,
	})
	b.add(Primitive{
		Role:        RoleGuide,
		Shape:       LineShape{From: geometry.NewPoint2D(x, entry), To: geometry.NewPoint2D(x+width, entry)},
		Stroke:      colorutil.Gray,
		StrokeWidth: 1,
		Dash:        entryDash,
	})

	above := geometry.NewPoint2D(x+5, entry-5)
	below := geometry.NewPoint2D(x+5, entry+12)
	targetText := fmt.Sprintf("Target (%.1f)", RewardRisk)
	if long {
		b.label(above, targetText, colorutil.Profit, true)
		b.label(below, "Stop", colorutil.Loss, true)
	} else {
		b.label(below, targetText, colorutil.Profit, true)
		b.label(above, "Stop", colorutil.Loss, true)
	}
}

// fib draws the p1-p2 trend as a dashed guide and one horizontal level line
// per ratio across the horizontal span of the two points. Retracement
// levels measure back from p2 toward p1; extension levels measure from p1
// through p2 and beyond.
func (b *builder) fib(p1, p2 geometry.Point2D, levels []float64, retracement bool) {
	trend := b.dash
	b.dash = entryDash
	b.line(p1, p2)
	b.dash = trend

	left := math.Min(p1.X, p2.X)
	right := math.Max(p1.X, p2.X)
	for _, lvl := range levels {
		y := p1.Y + (p2.Y-p1.Y)*lvl
		if retracement {
			y = p2.Y + (p1.Y-p2.Y)*lvl
		}
		b.line(geometry.NewPoint2D(left, y), geometry.NewPoint2D(right, y))

		text := fmt.Sprintf("%g", lvl)
		if b.opts.PriceAt != nil {
			text = fmt.Sprintf("%g (%s)", lvl, formatPrice(b.opts.PriceAt(y)))
		}
		b.label(geometry.NewPoint2D(left+2, y-3), text, b.color, false)
	}
}

// priceRange shades the vertical span between the points and labels the
// move at its top.
func (b *builder) priceRange(p1, p2 geometry.Point2D) {
	r := geometry.RectFromPoints(p1, p2)
	b.rect(r)

	mid := p1.Midpoint(p2).X
	b.add(Primitive{
		Role:        RoleGuide,
		Shape:       LineShape{From: geometry.NewPoint2D(mid, p1.Y), To: geometry.NewPoint2D(mid, p2.Y)},
		Stroke:      b.color,
		StrokeWidth: 1,
	})

	text := b.delta(p1, p2)
	ts := TextShape{Text: text}
	w := ts.Bounds().Width
	b.label(geometry.NewPoint2D(mid-w/2, r.Y-6), text, b.color, false)
}

// infoLabel annotates a line with its vertical move and angle.
func (b *builder) infoLabel(p1, p2 geometry.Point2D) {
	angle := math.Atan2(p1.Y-p2.Y, p2.X-p1.X) * 180 / math.Pi
	text := fmt.Sprintf("%s  %.1f°", b.delta(p1, p2), angle)
	b.label(geometry.NewPoint2D(p2.X+8, p2.Y-8), text, b.color, false)
}

// delta formats the move from p1 to p2, upward positive. Without a price
// mapping it is reported in pixels.
func (b *builder) delta(p1, p2 geometry.Point2D) string {
	if b.opts.PriceAt == nil {
		return fmt.Sprintf("%+.0f px", p1.Y-p2.Y)
	}
	from, to := b.opts.PriceAt(p1.Y), b.opts.PriceAt(p2.Y)
	pct := 0.0
	if from != 0 {
		pct = (to - from) / from * 100
	}
	return fmt.Sprintf("%s (%+.2f%%)", signedPrice(to-from), pct)
}

func (b *builder) handle(p geometry.Point2D) {
	b.add(Primitive{
		Role:        RoleHandle,
		Shape:       CircleShape{Center: p, Radius: b.opts.HandleRadius},
		Stroke:      colorutil.Accent,
		Fill:        colorutil.White,
		StrokeWidth: 1,
	})
}

func formatPrice(v float64) string {
	return fmt.Sprintf("%.5g", v)
}

func signedPrice(v float64) string {
	return fmt.Sprintf("%+.5g", v)
}
