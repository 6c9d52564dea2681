package geometry

import (
	"gonum.org/v1/gonum/spatial/r2"
)

// LocalCoordinates converts a client (window) position into overlay-local
// pixels by subtracting the overlay's current origin. The overlay may have
// moved or resized since the previous event, so callers pass fresh bounds.
func LocalCoordinates(client Point2D, overlay Rect) Point2D {
	return client.Sub(overlay.TopLeft())
}

// ProjectRay returns the point length pixels from anchor along the
// anchor→through direction. When anchor and through coincide the direction
// is undefined and through is returned unchanged.
func ProjectRay(anchor, through Point2D, length float64) Point2D {
	a := toVec(anchor)
	dir := r2.Sub(toVec(through), a)
	if r2.Norm(dir) == 0 {
		return through
	}
	return fromVec(r2.Add(a, r2.Scale(length, r2.Unit(dir))))
}

// DistanceToSegment returns the minimum distance from p to the segment a-b.
func DistanceToSegment(p, a, b Point2D) float64 {
	ab := r2.Sub(toVec(b), toVec(a))
	ap := r2.Sub(toVec(p), toVec(a))

	lenSq := r2.Dot(ab, ab)
	if lenSq == 0 {
		// Segment is a point
		return r2.Norm(ap)
	}

	t := r2.Dot(ap, ab) / lenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	closest := r2.Add(toVec(a), r2.Scale(t, ab))
	return r2.Norm(r2.Sub(toVec(p), closest))
}

func toVec(p Point2D) r2.Vec {
	return r2.Vec{X: p.X, Y: p.Y}
}

func fromVec(v r2.Vec) Point2D {
	return Point2D{X: v.X, Y: v.Y}
}
