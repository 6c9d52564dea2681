package canvas

import (
	"image"
	"image/color"

	"nibra-chart/internal/annotation"
	"nibra-chart/internal/render"
	"nibra-chart/internal/selection"
	"nibra-chart/pkg/colorutil"
	"nibra-chart/pkg/geometry"
)

// Overlay is a frozen view of the annotation layer: the scene plus the
// floating toolbar of the selected annotation, if any.
type Overlay struct {
	Scene   render.Scene
	Toolbar *selection.Toolbar
}

var (
	toolbarFill   = color.NRGBA{R: 255, G: 255, B: 255, A: 245}
	toolbarBorder = color.NRGBA{R: 0xe0, G: 0xe3, B: 0xeb, A: 255}
	buttonHover   = color.NRGBA{R: 0xf0, G: 0xf3, B: 0xfa, A: 255}
)

// drawOverlay paints the scene and the floating toolbar.
func drawOverlay(output *image.RGBA, ov Overlay) {
	for _, p := range ov.Scene.Primitives {
		if !p.Invisible {
			drawPrimitive(output, p)
		}
	}
	if ov.Toolbar != nil {
		drawToolbar(output, *ov.Toolbar)
	}
}

// drawPrimitive paints one primitive: fill first, then stroke.
func drawPrimitive(output *image.RGBA, p render.Primitive) {
	width := thicknessOf(p.StrokeWidth)

	switch s := p.Shape.(type) {
	case render.RectShape:
		if p.Filled() {
			fillRect(output, round(s.X), round(s.Y), round(s.X+s.Width), round(s.Y+s.Height), p.Fill)
		}
		if p.Stroke.A > 0 {
			strokeRect(output, s.Rect, p.Stroke, width, p.Dash)
		}
	case render.LineShape:
		drawLine(output, round(s.From.X), round(s.From.Y), round(s.To.X), round(s.To.Y), p.Stroke, width, p.Dash)
	case render.CircleShape:
		drawCircle(output, s.Center, s.Radius, p.Fill, p.Stroke, p.StrokeWidth)
	case render.PolygonShape:
		if p.Filled() {
			fillPolygon(output, s.Points, p.Fill)
		}
		if p.Stroke.A > 0 {
			strokePolygon(output, s.Points, p.Stroke, width, p.Dash)
		}
	case render.TextShape:
		if p.Filled() {
			b := s.Bounds()
			fillRect(output, round(b.X), round(b.Y), round(b.X+b.Width), round(b.Y+b.Height), p.Fill)
		}
		drawText(output, s.Text, s.At.X, s.At.Y, p.Stroke)
	}
}

// drawToolbar paints the floating toolbar with one glyph per button.
func drawToolbar(output *image.RGBA, tb selection.Toolbar) {
	b := tb.Bounds
	fillRect(output, round(b.X), round(b.Y), round(b.X+b.Width), round(b.Y+b.Height), toolbarFill)
	strokeRect(output, b, toolbarBorder, 1, nil)

	s := tb.Separator
	fillRect(output, round(s.X), round(s.Y), round(s.X+s.Width), round(s.Y+s.Height), toolbarBorder)

	for _, btn := range tb.Buttons {
		r := btn.Bounds
		fillRect(output, round(r.X), round(r.Y), round(r.X+r.Width), round(r.Y+r.Height), buttonHover)
		center := r.Center()

		switch btn.Action {
		case selection.ActionColor:
			swatch := colorutil.HexOr(tb.Color, colorutil.Accent)
			drawCircle(output, center, 7, swatch, colorutil.Gray, 1)
		case selection.ActionStroke:
			drawLine(output, round(r.X+5), round(center.Y), round(r.X+r.Width-5), round(center.Y),
				colorutil.Black, 2, strokeDash(tb.Stroke))
		case selection.ActionLock:
			glyph := "U"
			if tb.Locked {
				glyph = "L"
			}
			drawGlyph(output, glyph, center)
		case selection.ActionDelete:
			drawGlyph(output, "X", center)
		}
	}
}

func drawGlyph(output *image.RGBA, glyph string, center geometry.Point2D) {
	drawText(output, glyph, center.X-textWidth(glyph)/2, center.Y+4, colorutil.Black)
}

func strokeDash(s annotation.StrokeStyle) []float64 {
	switch s {
	case annotation.StrokeDashed:
		return []float64{4, 3}
	case annotation.StrokeDotted:
		return []float64{1, 2}
	}
	return nil
}
