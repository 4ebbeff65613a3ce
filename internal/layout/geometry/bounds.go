package geometry

import (
	"math"

	"wedding-layout/internal/layout/models"
)

// ============================================================
// A4 boundary enforcement
// ============================================================

// DefaultMinSize is the smallest width/height an element can be clamped to.
const DefaultMinSize = 10.0

// ClampPositionToA4 keeps [x, x+w] and [y, y+h] inside the bounds. An element wider
// or taller than the page is pinned to the near edge and still overflows on that axis.
func ClampPositionToA4(x, y, w, h float64, b models.Bounds) (float64, float64) {
	return clampAxis(x, w, b.X, b.Width), clampAxis(y, h, b.Y, b.Height)
}

func clampAxis(pos, size, start, extent float64) float64 {
	hi := start + extent - size
	if hi < start {
		hi = start
	}
	return Clamp(pos, start, hi)
}

// ClampSizeToA4 clamps w and h to [minSize, remaining extent of the page from x|y].
func ClampSizeToA4(x, y, w, h float64, b models.Bounds, minSize float64) (float64, float64) {
	if minSize <= 0 {
		minSize = DefaultMinSize
	}
	return clampExtent(x, w, b.X, b.Width, minSize), clampExtent(y, h, b.Y, b.Height, minSize)
}

func clampExtent(pos, size, start, extent, minSize float64) float64 {
	from := Clamp(pos, start, start+extent)
	remaining := start + extent - from
	if size > remaining {
		size = remaining
	}
	if size < minSize || math.IsNaN(size) {
		size = minSize
	}
	return size
}

// ClampElementToA4 clamps size first, then position, so the position step sees the final size.
func ClampElementToA4(e models.Element, b models.Bounds) models.Element {
	e.Width, e.Height = ClampSizeToA4(e.X, e.Y, e.Width, e.Height, b, DefaultMinSize)
	e.X, e.Y = ClampPositionToA4(e.X, e.Y, e.Width, e.Height, b)
	return e
}

// ClampWallToA4 pins each endpoint independently, which may shorten or reshape the wall.
func ClampWallToA4(w models.Wall, b models.Bounds) models.Wall {
	w.StartX, w.StartY = ClampPointToA4(w.StartX, w.StartY, b)
	w.EndX, w.EndY = ClampPointToA4(w.EndX, w.EndY, b)
	return w
}

func ClampPointToA4(x, y float64, b models.Bounds) (float64, float64) {
	return Clamp(x, b.X, b.X+b.Width), Clamp(y, b.Y, b.Y+b.Height)
}

// ============================================================
// Containment predicates
// ============================================================

func IsElementWithinA4(e models.Element, b models.Bounds) bool {
	return e.X >= b.X && e.Y >= b.Y &&
		e.X+e.Width <= b.X+b.Width &&
		e.Y+e.Height <= b.Y+b.Height
}

func IsWallWithinA4(w models.Wall, b models.Bounds) bool {
	return IsPointWithinA4(w.StartX, w.StartY, b) && IsPointWithinA4(w.EndX, w.EndY, b)
}

func IsPointWithinA4(x, y float64, b models.Bounds) bool {
	return x >= b.X && x <= b.X+b.Width && y >= b.Y && y <= b.Y+b.Height
}

// ============================================================
// Delta constraints for interactive gestures
// ============================================================

// ConstrainMoveDelta returns the largest part of (dx, dy) that keeps r inside the bounds.
// A rectangle already outside may move back in but never further out.
func ConstrainMoveDelta(r models.Rect, dx, dy float64, b models.Bounds) (float64, float64) {
	lo := math.Min(0, b.X-r.X)
	hi := math.Max(0, (b.X+b.Width)-(r.X+r.Width))
	dx = Clamp(dx, lo, hi)

	lo = math.Min(0, b.Y-r.Y)
	hi = math.Max(0, (b.Y+b.Height)-(r.Y+r.Height))
	dy = Clamp(dy, lo, hi)
	return dx, dy
}

// ResizeDelta is a proposed change of a rectangle during a resize gesture.
// DX/DY move the origin (west/north handles), DW/DH change the size.
type ResizeDelta struct {
	DX float64
	DY float64
	DW float64
	DH float64
}

// ConstrainResizeDelta returns the sub-delta that keeps the resized rectangle inside the
// bounds and at least minSize on both axes. Only the edges the delta moves are adjusted.
func ConstrainResizeDelta(r models.Rect, d ResizeDelta, b models.Bounds, minSize float64) ResizeDelta {
	if minSize <= 0 {
		minSize = DefaultMinSize
	}
	left, right := constrainEdges(r.X, r.Width, d.DX, d.DW, b.X, b.X+b.Width, minSize)
	top, bottom := constrainEdges(r.Y, r.Height, d.DY, d.DH, b.Y, b.Y+b.Height, minSize)
	return ResizeDelta{
		DX: left - r.X,
		DY: top - r.Y,
		DW: (right - left) - r.Width,
		DH: (bottom - top) - r.Height,
	}
}

func constrainEdges(pos, size, dPos, dSize, lo, hi, minSize float64) (float64, float64) {
	start := pos + dPos
	end := pos + size + dPos + dSize
	startMoves := dPos != 0
	endMoves := dPos+dSize != 0

	if startMoves {
		start = Clamp(start, lo, hi)
	}
	if endMoves {
		end = Clamp(end, lo, hi)
	}

	if end-start < minSize {
		if startMoves && !endMoves {
			start = end - minSize
		} else {
			end = start + minSize
		}
	}
	if end > hi && endMoves {
		end = hi
		start = math.Min(start, end-minSize)
	}
	if start < lo && startMoves {
		start = lo
		end = math.Max(end, start+minSize)
	}
	return start, end
}

// ============================================================
// Helpers
// ============================================================

func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
