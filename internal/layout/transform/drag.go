package transform

import (
	"wedding-layout/internal/layout/canvas"
	"wedding-layout/internal/layout/geometry"
	"wedding-layout/internal/layout/models"
)

// Drag moves a group of elements by the pointer delta. The delta is constrained on
// the union of the group, so the group stops as a whole at the page edge.
type Drag struct {
	base
	members map[string]models.Point
	union   models.Rect
}

// BeginDrag starts dragging ids. Chairs whose table is also dragged are left to the
// table so they are not moved twice.
func BeginDrag(store *canvas.Store, ids []string, start models.Point) *Drag {
	d := &Drag{base: newBase(store, start, "Move"), members: map[string]models.Point{}}

	inGroup := make(map[string]bool, len(ids))
	for _, id := range ids {
		inGroup[id] = true
	}

	var rects []models.Rect
	for _, id := range ids {
		e, children, ok := captureGroup(store, id)
		if !ok {
			continue
		}
		if parent, ok := store.ParentTable(id); ok && inGroup[parent] {
			continue
		}
		d.members[id] = models.Point{X: e.X, Y: e.Y}
		rects = append(rects, e.Rect())
		for _, c := range children {
			rects = append(rects, c.rect)
		}
	}
	d.union, _ = geometry.Union(rects...)
	return d
}

func (d *Drag) Move(p models.Point, _ Modifiers) {
	if d.done || len(d.members) == 0 {
		return
	}
	dx, dy := geometry.ConstrainMoveDelta(d.union, p.X-d.start.X, p.Y-d.start.Y, d.store.Bounds())
	for id, origin := range d.members {
		d.store.MoveElement(id, origin.X+dx, origin.Y+dy)
	}
	d.dirty = d.dirty || dx != 0 || dy != 0
}
