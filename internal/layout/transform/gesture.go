package transform

import (
	"wedding-layout/internal/layout/canvas"
	"wedding-layout/internal/layout/models"
)

// Modifiers are the keys held while a pointer event fires.
type Modifiers struct {
	Shift bool `json:"shift"`
	Ctrl  bool `json:"ctrl"`
	Alt   bool `json:"alt"`
}

// Gesture is one pointer interaction. Move mutates the store live, End records a
// single checkpoint, Cancel puts back the geometry captured at begin.
type Gesture interface {
	Move(p models.Point, mods Modifiers)
	End() bool
	Cancel()
}

// base holds what every gesture captures at begin.
type base struct {
	store *canvas.Store
	start models.Point
	snap  canvas.Snapshot
	label string
	dirty bool
	done  bool
}

func newBase(store *canvas.Store, start models.Point, label string) base {
	return base{store: store, start: start, snap: store.Capture(), label: label}
}

// End checkpoints the gesture if it changed anything. Returns false when nothing moved.
func (b *base) End() bool {
	if b.done {
		return false
	}
	b.done = true
	if !b.dirty {
		return false
	}
	b.store.RecordSnapshot(b.label)
	return true
}

func (b *base) Cancel() {
	if b.done {
		return
	}
	b.done = true
	if b.dirty {
		b.store.Restore(b.snap)
	}
}

// startGeometry is the rect and rotation of one member at gesture begin.
type startGeometry struct {
	rect     models.Rect
	rotation float64
}

// captureGroup returns the element and, for a table, its chairs.
func captureGroup(store *canvas.Store, id string) (models.Element, map[string]startGeometry, bool) {
	e, ok := store.GetElementByID(id)
	if !ok {
		return models.Element{}, nil, false
	}
	children := map[string]startGeometry{}
	if e.Kind() == models.KindTable {
		for _, c := range store.GetChildElements(id) {
			children[c.ID] = startGeometry{rect: c.Rect(), rotation: c.Rotation}
		}
	}
	return e, children, true
}
