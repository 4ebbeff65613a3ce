package geometry

import (
	"math"

	"wedding-layout/internal/layout/models"
)

// Center returns the midpoint of r.
func Center(r models.Rect) models.Point {
	return models.Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Intersects is an axis-aligned overlap test; touching edges count as overlap.
func Intersects(a, b models.Rect) bool {
	return a.X <= b.X+b.Width && b.X <= a.X+a.Width &&
		a.Y <= b.Y+b.Height && b.Y <= a.Y+a.Height
}

// Normalize turns a rectangle with negative extents (a drag to the upper left) into a regular one.
func Normalize(r models.Rect) models.Rect {
	if r.Width < 0 {
		r.X += r.Width
		r.Width = -r.Width
	}
	if r.Height < 0 {
		r.Y += r.Height
		r.Height = -r.Height
	}
	return r
}

// Union returns the smallest rectangle containing all given rectangles.
func Union(rects ...models.Rect) (models.Rect, bool) {
	if len(rects) == 0 {
		return models.Rect{}, false
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, r := range rects {
		minX = math.Min(minX, r.X)
		minY = math.Min(minY, r.Y)
		maxX = math.Max(maxX, r.X+r.Width)
		maxY = math.Max(maxY, r.Y+r.Height)
	}
	return models.Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}, true
}

// RotatePoint rotates p around center by degrees (clockwise in screen coordinates).
func RotatePoint(p, center models.Point, degrees float64) models.Point {
	rad := degrees * math.Pi / 180
	sin, cos := math.Sin(rad), math.Cos(rad)
	dx := p.X - center.X
	dy := p.Y - center.Y
	return models.Point{
		X: center.X + dx*cos - dy*sin,
		Y: center.Y + dx*sin + dy*cos,
	}
}

// NormalizeDegrees wraps an angle into [0, 360).
func NormalizeDegrees(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	if deg >= 360 {
		deg = 0
	}
	return deg
}

func Distance(a, b models.Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

func WallLength(w models.Wall) float64 {
	return Distance(w.Start(), w.End())
}
