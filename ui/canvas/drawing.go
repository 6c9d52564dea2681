// Package canvas provides drawing primitives for the chart canvas.
package canvas

import (
	"image"
	"image/color"
	"math"

	"nibra-chart/internal/render"
	"nibra-chart/pkg/colorutil"
	"nibra-chart/pkg/geometry"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// blendPixel composites col over the pixel at (x, y), clipping to bounds.
func blendPixel(output *image.RGBA, x, y int, col color.NRGBA) {
	if !(image.Point{X: x, Y: y}).In(output.Bounds()) {
		return
	}
	i := output.PixOffset(x, y)
	dst := color.RGBA{R: output.Pix[i], G: output.Pix[i+1], B: output.Pix[i+2], A: output.Pix[i+3]}
	out := colorutil.Blend(dst, col)
	output.Pix[i], output.Pix[i+1], output.Pix[i+2], output.Pix[i+3] = out.R, out.G, out.B, out.A
}

// fillBackground paints every pixel with col.
func fillBackground(output *image.RGBA, col color.NRGBA) {
	c := color.RGBA{R: col.R, G: col.G, B: col.B, A: 255}
	b := output.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			output.SetRGBA(x, y, c)
		}
	}
}

// drawLine draws a line between two points using Bresenham's algorithm.
// dash alternates on/off lengths in pixels; nil draws solid.
func drawLine(output *image.RGBA, x1, y1, x2, y2 int, col color.NRGBA, thickness int, dash []float64) {
	// Walk only the part of the segment that can touch the image. The
	// skipped prefix still advances the dash phase.
	pad := thickness/2 + 1
	clip := output.Bounds().Inset(-pad)
	cx1, cy1, cx2, cy2, ok := clipSegment(float64(x1), float64(y1), float64(x2), float64(y2), clip)
	if !ok {
		return
	}
	ox, oy := x1, y1
	x1, y1, x2, y2 = round(cx1), round(cy1), round(cx2), round(cy2)
	step := max(absInt(x1-ox), absInt(y1-oy))

	dx := x2 - x1
	dy := y2 - y1
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}

	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}

	err := dx - dy
	for {
		if dashOn(dash, step) {
			for t := -thickness / 2; t <= thickness/2; t++ {
				for s := -thickness / 2; s <= thickness/2; s++ {
					blendPixel(output, x1+s, y1+t, col)
				}
			}
		}
		step++

		if x1 == x2 && y1 == y2 {
			break
		}

		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// clipSegment clips a segment to the pixel rectangle r (Liang-Barsky).
func clipSegment(x1, y1, x2, y2 float64, r image.Rectangle) (float64, float64, float64, float64, bool) {
	minX, minY := float64(r.Min.X), float64(r.Min.Y)
	maxX, maxY := float64(r.Max.X-1), float64(r.Max.Y-1)
	dx, dy := x2-x1, y2-y1

	t0, t1 := 0.0, 1.0
	for _, e := range [4][2]float64{
		{-dx, x1 - minX},
		{dx, maxX - x1},
		{-dy, y1 - minY},
		{dy, maxY - y1},
	} {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return 0, 0, 0, 0, false
			}
			t0 = math.Max(t0, t)
		} else {
			if t < t0 {
				return 0, 0, 0, 0, false
			}
			t1 = math.Min(t1, t)
		}
	}
	return x1 + t0*dx, y1 + t0*dy, x1 + t1*dx, y1 + t1*dy, true
}

// dashOn reports whether the step-th pixel along a line is painted.
func dashOn(dash []float64, step int) bool {
	if len(dash) == 0 {
		return true
	}
	period := 0.0
	for _, d := range dash {
		period += d
	}
	if period <= 0 {
		return true
	}
	pos := math.Mod(float64(step), period)
	for i, d := range dash {
		if pos < d {
			return i%2 == 0
		}
		pos -= d
	}
	return true
}

// fillRect fills the half-open pixel rectangle [x1,x2)x[y1,y2).
func fillRect(output *image.RGBA, x1, y1, x2, y2 int, col color.NRGBA) {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	r := image.Rect(x1, y1, x2, y2).Intersect(output.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			blendPixel(output, x, y, col)
		}
	}
}

// strokeRect outlines a rectangle.
func strokeRect(output *image.RGBA, r geometry.Rect, col color.NRGBA, thickness int, dash []float64) {
	x1, y1 := round(r.X), round(r.Y)
	x2, y2 := round(r.X+r.Width), round(r.Y+r.Height)
	drawLine(output, x1, y1, x2, y1, col, thickness, dash)
	drawLine(output, x2, y1, x2, y2, col, thickness, dash)
	drawLine(output, x2, y2, x1, y2, col, thickness, dash)
	drawLine(output, x1, y2, x1, y1, col, thickness, dash)
}

// drawCircle draws a filled disc, an outline ring, or both.
func drawCircle(output *image.RGBA, center geometry.Point2D, radius float64, fill, stroke color.NRGBA, thickness float64) {
	span := image.Rect(
		int(center.X-radius-1), int(center.Y-radius-1),
		int(center.X+radius+1)+1, int(center.Y+radius+1)+1,
	).Intersect(output.Bounds())

	r2 := radius * radius
	inner := math.Max(radius-thickness, 0)
	innerR2 := inner * inner

	for y := span.Min.Y; y < span.Max.Y; y++ {
		for x := span.Min.X; x < span.Max.X; x++ {
			dx := float64(x) - center.X
			dy := float64(y) - center.Y
			dist2 := dx*dx + dy*dy
			if dist2 > r2 {
				continue
			}
			if dist2 >= innerR2 && stroke.A > 0 {
				blendPixel(output, x, y, stroke)
			} else if fill.A > 0 {
				blendPixel(output, x, y, fill)
			}
		}
	}
}

// fillPolygon fills the interior of a polygon by testing pixel centers.
func fillPolygon(output *image.RGBA, points []geometry.Point2D, col color.NRGBA) {
	if len(points) < 3 {
		return
	}
	bb := geometry.BoundingBox(points)
	span := image.Rect(
		int(bb.X), int(bb.Y),
		int(bb.X+bb.Width)+1, int(bb.Y+bb.Height)+1,
	).Intersect(output.Bounds())
	for y := span.Min.Y; y < span.Max.Y; y++ {
		for x := span.Min.X; x < span.Max.X; x++ {
			if geometry.PointInPolygon(geometry.Point2D{X: float64(x) + 0.5, Y: float64(y) + 0.5}, points) {
				blendPixel(output, x, y, col)
			}
		}
	}
}

// strokePolygon outlines a closed polygon.
func strokePolygon(output *image.RGBA, points []geometry.Point2D, col color.NRGBA, thickness int, dash []float64) {
	for i := range points {
		a, b := points[i], points[(i+1)%len(points)]
		drawLine(output, round(a.X), round(a.Y), round(b.X), round(b.Y), col, thickness, dash)
	}
}

// drawText draws s with the label face; (x, baseline) is the left end of the
// baseline.
func drawText(output *image.RGBA, s string, x, baseline float64, col color.NRGBA) {
	d := &font.Drawer{
		Dst:  output,
		Src:  image.NewUniform(col),
		Face: render.LabelFace,
		Dot:  fixed.P(round(x), round(baseline)),
	}
	d.DrawString(s)
}

// textWidth measures s in pixels with the label face.
func textWidth(s string) float64 {
	return float64(font.MeasureString(render.LabelFace, s).Round())
}

func round(v float64) int {
	return int(math.Round(v))
}

func thicknessOf(w float64) int {
	if w < 1 {
		return 1
	}
	return int(math.Round(w))
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
