package scale

import (
	"math"

	"wedding-layout/internal/layout/geometry"
	"wedding-layout/internal/layout/models"
)

// ============================================================
// Scale derivation
// ============================================================

const (
	// AssumedSourcePxPerMeter is the scale of the external wall tool (1px = 1cm).
	AssumedSourcePxPerMeter = 100.0

	// DefaultPxPerMeter is used when nothing better is known.
	DefaultPxPerMeter = 50.0
)

// Derive infers pixels-per-meter from walls. The first wall carrying an explicit
// ratio wins; otherwise the first wall whose recorded original length yields a
// positive, finite ratio. ok is false when no wall is conclusive.
func Derive(walls []models.Wall) (float64, bool) {
	for _, w := range walls {
		if w.PxPerMeter > 0 && !math.IsInf(w.PxPerMeter, 0) {
			return w.PxPerMeter, true
		}
	}

	for _, w := range walls {
		original := w.OriginalLengthPx
		if original <= 0 {
			original = w.Length
		}
		if original <= 0 {
			continue
		}

		originalMeters := original / AssumedSourcePxPerMeter
		ppm := geometry.WallLength(w) / originalMeters
		if ppm > 0 && !math.IsInf(ppm, 0) && !math.IsNaN(ppm) {
			return ppm, true
		}
	}

	return 0, false
}

// Resolve picks the ratio to use: a freshly derived value, then a cached non-default
// value, then the stored default, then DefaultPxPerMeter. A valid cached scale is
// never replaced by the hardcoded default when walls are inconclusive.
func Resolve(derived float64, ok bool, cached, stored float64) float64 {
	switch {
	case ok && derived > 0:
		return derived
	case cached > 0 && cached != DefaultPxPerMeter:
		return cached
	case stored > 0:
		return stored
	}
	return DefaultPxPerMeter
}

// Bounds returns the bounding box of all wall endpoints.
func Bounds(walls []models.Wall) (models.Rect, bool) {
	if len(walls) == 0 {
		return models.Rect{}, false
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, w := range walls {
		minX = math.Min(minX, math.Min(w.StartX, w.EndX))
		minY = math.Min(minY, math.Min(w.StartY, w.EndY))
		maxX = math.Max(maxX, math.Max(w.StartX, w.EndX))
		maxY = math.Max(maxY, math.Max(w.StartY, w.EndY))
	}
	return models.Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}, true
}

// Info recomputes the cached wall scale after the wall set changed.
// It returns nil when there are no walls.
func Info(walls []models.Wall, cached, stored float64) *models.WallScaleInfo {
	bounds, ok := Bounds(walls)
	if !ok {
		return nil
	}
	derived, derivedOK := Derive(walls)
	return &models.WallScaleInfo{
		PxPerMeter: Resolve(derived, derivedOK, cached, stored),
		Bounds:     &bounds,
	}
}
