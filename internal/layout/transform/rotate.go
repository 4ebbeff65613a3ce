package transform

import (
	"math"

	"wedding-layout/internal/layout/canvas"
	"wedding-layout/internal/layout/geometry"
	"wedding-layout/internal/layout/models"
)

// SnapDegrees is the rotation step used while shift is held.
const SnapDegrees = 15.0

// Rotate turns an element around its center following the pointer angle.
type Rotate struct {
	base
	id            string
	center        models.Point
	startAngle    float64
	startRotation float64
	children      map[string]startGeometry
}

func BeginRotate(store *canvas.Store, id string, start models.Point) (*Rotate, bool) {
	e, children, ok := captureGroup(store, id)
	if !ok {
		return nil, false
	}
	c := e.Center()
	return &Rotate{
		base:          newBase(store, start, "Rotate"),
		id:            id,
		center:        c,
		startAngle:    pointerAngle(c, start),
		startRotation: e.Rotation,
		children:      children,
	}, true
}

func (r *Rotate) Move(p models.Point, mods Modifiers) {
	if r.done {
		return
	}
	rotation := geometry.NormalizeDegrees(r.startRotation + pointerAngle(r.center, p) - r.startAngle)
	if mods.Shift {
		rotation = geometry.NormalizeDegrees(math.Round(rotation/SnapDegrees) * SnapDegrees)
	}
	applyRotation(r.store, r.id, r.center, rotation, rotation-r.startRotation, r.children)
	r.dirty = true
}

// RotateGroup rotates an element by delta degrees in one step. A table carries its
// chairs around its center. Returns false for unknown ids.
func RotateGroup(store *canvas.Store, id string, delta float64) bool {
	e, children, ok := captureGroup(store, id)
	if !ok {
		return false
	}
	applyRotation(store, id, e.Center(), geometry.NormalizeDegrees(e.Rotation+delta), delta, children)
	return true
}

// applyRotation sets the element's rotation and moves each chair from its start
// position around center by delta, adding delta to the chair's own rotation.
func applyRotation(store *canvas.Store, id string, center models.Point, rotation, delta float64, children map[string]startGeometry) {
	store.RotateElement(id, rotation)
	for chairID, g := range children {
		c := geometry.RotatePoint(geometry.Center(g.rect), center, delta)
		store.MoveElement(chairID, c.X-g.rect.Width/2, c.Y-g.rect.Height/2)
		store.RotateElement(chairID, g.rotation+delta)
	}
}

// pointerAngle is the screen angle in degrees from center to p.
func pointerAngle(center, p models.Point) float64 {
	return math.Atan2(p.Y-center.Y, p.X-center.X) * 180 / math.Pi
}
