package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProjectRay(t *testing.T) {
	tests := []struct {
		name    string
		anchor  Point2D
		through Point2D
		length  float64
		want    Point2D
	}{
		{
			name:    "horizontal",
			anchor:  Point2D{0, 0},
			through: Point2D{10, 0},
			length:  2000,
			want:    Point2D{2000, 0},
		},
		{
			name:    "upward",
			anchor:  Point2D{50, 100},
			through: Point2D{50, 90},
			length:  30,
			want:    Point2D{50, 70},
		},
		{
			name:    "degenerate direction returns through",
			anchor:  Point2D{5, 5},
			through: Point2D{5, 5},
			length:  2000,
			want:    Point2D{5, 5},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ProjectRay(tt.anchor, tt.through, tt.length)
			assert.InDelta(t, tt.want.X, got.X, 1e-9)
			assert.InDelta(t, tt.want.Y, got.Y, 1e-9)
		})
	}
}

func TestProjectRayIsColinearAtDistance(t *testing.T) {
	anchor := Point2D{12, -7}
	for _, through := range []Point2D{{30, 11}, {-4, 2}, {12.5, -100}, {-80, -80}} {
		got := ProjectRay(anchor, through, 2000)

		assert.InDelta(t, 2000, anchor.Distance(got), 1e-6)

		// colinear: cross product of anchor→through and anchor→got is zero
		d1 := through.Sub(anchor)
		d2 := got.Sub(anchor)
		cross := d1.X*d2.Y - d1.Y*d2.X
		assert.InDelta(t, 0, cross/(anchor.Distance(through)*2000), 1e-9)

		// same side: dot product positive
		assert.Greater(t, d1.X*d2.X+d1.Y*d2.Y, 0.0)
	}
}

func TestLocalCoordinates(t *testing.T) {
	overlay := NewRect(120, 48, 800, 600)
	got := LocalCoordinates(Point2D{130, 58}, overlay)
	assert.Equal(t, Point2D{10, 10}, got)

	moved := NewRect(20, 8, 800, 600)
	assert.Equal(t, Point2D{110, 50}, LocalCoordinates(Point2D{130, 58}, moved))
}

func TestDistanceToSegment(t *testing.T) {
	a, b := Point2D{0, 0}, Point2D{100, 0}

	assert.InDelta(t, 4, DistanceToSegment(Point2D{50, 4}, a, b), 1e-9)
	assert.InDelta(t, 5, DistanceToSegment(Point2D{-3, 4}, a, b), 1e-9)
	assert.InDelta(t, 5, DistanceToSegment(Point2D{103, -4}, a, b), 1e-9)

	// zero-length segment behaves like a point
	assert.InDelta(t, 5, DistanceToSegment(Point2D{3, 4}, a, a), 1e-9)
}

func TestRectFromPoints(t *testing.T) {
	r := RectFromPoints(Point2D{110, 60}, Point2D{10, 10})
	assert.Equal(t, NewRect(10, 10, 100, 50), r)
	assert.True(t, r.Contains(Point2D{10, 10}))
	assert.True(t, r.Contains(Point2D{110, 60}))
	assert.False(t, r.Contains(Point2D{111, 60}))

	zero := RectFromPoints(Point2D{3, 3}, Point2D{3, 3})
	assert.Equal(t, 0.0, zero.Width)
	assert.True(t, zero.Contains(Point2D{3, 3}))
}

func TestPointInPolygon(t *testing.T) {
	tri := []Point2D{{0, 100}, {100, 100}, {50, 0}}
	assert.True(t, PointInPolygon(Point2D{50, 60}, tri))
	assert.False(t, PointInPolygon(Point2D{5, 5}, tri))
	assert.False(t, PointInPolygon(Point2D{5, 5}, tri[:2]))
}

func TestMidpoint(t *testing.T) {
	m := NewPoint2D(10, 40).Midpoint(NewPoint2D(30, 20))
	assert.Equal(t, NewPoint2D(20, 30), m)
}
