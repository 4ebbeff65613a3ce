package transform

import (
	"wedding-layout/internal/layout/canvas"
	"wedding-layout/internal/layout/geometry"
	"wedding-layout/internal/layout/models"
)

// ============================================================
// Selection
// ============================================================

type SelectionMode string

const (
	SelectNone   SelectionMode = "none"
	SelectSingle SelectionMode = "single"
	SelectMulti  SelectionMode = "multi"
)

// Selection turns clicks, box drags and keys into store selection updates.
type Selection struct {
	store *canvas.Store
}

func NewSelection(store *canvas.Store) *Selection {
	return &Selection{store: store}
}

// Click selects id alone, or toggles it when shift or ctrl is held. An empty id
// without modifiers clears the selection.
func (s *Selection) Click(id string, mods Modifiers) {
	if !mods.Shift && !mods.Ctrl {
		if id == "" {
			s.store.ClearSelection()
			return
		}
		s.store.SetSelection([]string{id})
		return
	}
	if id == "" {
		return
	}

	current := s.store.Selection()
	next := make([]string, 0, len(current)+1)
	found := false
	for _, sel := range current {
		if sel == id {
			found = true
			continue
		}
		next = append(next, sel)
	}
	if !found {
		next = append(next, id)
	}
	s.store.SetSelection(next)
}

// Box replaces the selection with every element whose bounding box overlaps r.
func (s *Selection) Box(r models.Rect) []string {
	r = geometry.Normalize(r)
	var ids []string
	for _, e := range s.store.Elements() {
		if geometry.Intersects(r, e.Rect()) {
			ids = append(ids, e.ID)
		}
	}
	s.store.SetSelection(ids)
	return s.store.Selection()
}

func (s *Selection) Escape() {
	s.store.ClearSelection()
}

func (s *Selection) SelectAll() {
	s.store.SetSelection(s.store.ElementIDs())
}

func (s *Selection) Mode() SelectionMode {
	switch n := len(s.store.Selection()); {
	case n == 0:
		return SelectNone
	case n == 1:
		return SelectSingle
	}
	return SelectMulti
}
