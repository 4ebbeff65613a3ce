package canvas

import (
	"wedding-layout/internal/layout/geometry"
	"wedding-layout/internal/layout/models"
)

// ============================================================
// Element operations
// ============================================================

// AddElement stores a copy of e under a fresh id, clamped to the page, and returns the id.
// A chair naming an existing parent table is appended to that table's chairIds.
func (s *Store) AddElement(e models.Element) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return ""
	}

	e = s.clampElement(e.Clone())
	e.ID = s.opts.NewID()
	updates := []models.Element{e}

	if chair, ok := e.AsChair(); ok {
		if table, ok := s.state.elements.get(chair.ParentTableID); ok && table.Kind() == models.KindTable {
			if !contains(table.Table.ChairIDs, e.ID) {
				table = table.Clone()
				table.Table.ChairIDs = append(table.Table.ChairIDs, e.ID)
				updates = append(updates, table)
			}
		}
	}

	s.state.elements = s.state.elements.put(updates...)
	s.reindexChairs()
	s.dirty = true
	return e.ID
}

// UpdateElement merges the patch into the element and re-clamps it. Unknown ids are ignored.
func (s *Store) UpdateElement(id string, patch models.ElementPatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.state.elements.get(id)
	if !ok {
		return false
	}
	e = applyElementPatch(e.Clone(), patch)
	s.state.elements = s.state.elements.put(s.clampElement(e))
	s.dirty = true
	return true
}

func applyElementPatch(e models.Element, p models.ElementPatch) models.Element {
	if p.Type != nil {
		e.Type = *p.Type
	}
	if p.X != nil {
		e.X = *p.X
	}
	if p.Y != nil {
		e.Y = *p.Y
	}
	if p.Width != nil {
		e.Width = *p.Width
	}
	if p.Height != nil {
		e.Height = *p.Height
	}
	if p.Rotation != nil {
		e.Rotation = *p.Rotation
	}
	if p.Fill != nil {
		e.Fill = *p.Fill
	}
	if p.Stroke != nil {
		e.Stroke = *p.Stroke
	}
	if p.StrokeWidth != nil {
		e.StrokeWidth = *p.StrokeWidth
	}
	if p.Label != nil {
		e.Label = *p.Label
	}
	if p.Custom != nil && e.Kind() == models.KindCustom {
		c := *p.Custom
		e.Custom = &c
	}
	if p.Space != nil && e.Kind() == models.KindSpace {
		sp := *p.Space
		e.Space = &sp
	}
	if p.AttachedSpaceID != nil {
		e.AttachedSpaceID = *p.AttachedSpaceID
	}
	return e
}

// MoveElement moves an element to (x, y), clamped. A table drags its chairs by the
// same clamped delta; each chair is clamped again on its own.
func (s *Store) MoveElement(id string, x, y float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.state.elements.get(id)
	if !ok {
		return false
	}

	nx, ny := geometry.ClampPositionToA4(x, y, e.Width, e.Height, s.bounds)
	dx, dy := nx-e.X, ny-e.Y

	e = e.Clone()
	e.X, e.Y = nx, ny
	updates := []models.Element{e}

	if table, ok := e.AsTable(); ok && (dx != 0 || dy != 0) {
		for _, chairID := range table.ChairIDs {
			chair, ok := s.state.elements.get(chairID)
			if !ok {
				continue
			}
			chair = chair.Clone()
			chair.X, chair.Y = geometry.ClampPositionToA4(chair.X+dx, chair.Y+dy, chair.Width, chair.Height, s.bounds)
			updates = append(updates, chair)
		}
	}

	s.state.elements = s.state.elements.put(updates...)
	s.dirty = true
	return true
}

// ResizeElement changes only the size (clamped). Chairs of a table are left alone.
func (s *Store) ResizeElement(id string, width, height float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.state.elements.get(id)
	if !ok {
		return false
	}
	e = e.Clone()
	e.Width, e.Height = geometry.ClampSizeToA4(e.X, e.Y, width, height, s.bounds, geometry.DefaultMinSize)
	e.X, e.Y = geometry.ClampPositionToA4(e.X, e.Y, e.Width, e.Height, s.bounds)
	s.state.elements = s.state.elements.put(e)
	s.dirty = true
	return true
}

// RotateElement sets the rotation of a single element, wrapped into [0, 360).
func (s *Store) RotateElement(id string, degrees float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.state.elements.get(id)
	if !ok {
		return false
	}
	e = e.Clone()
	e.Rotation = geometry.NormalizeDegrees(degrees)
	s.state.elements = s.state.elements.put(e)
	s.dirty = true
	return true
}

// DeleteElement removes an element and drops it from the selection. Deleting a
// table deletes its chairs; deleting a chair detaches it from its table.
func (s *Store) DeleteElement(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.state.elements.get(id)
	if !ok {
		return false
	}

	remove := []string{id}
	var updates []models.Element

	switch e.Kind() {
	case models.KindTable:
		remove = append(remove, e.Table.ChairIDs...)
	case models.KindChair:
		if parentID, ok := s.chairParents[id]; ok {
			if table, ok := s.state.elements.get(parentID); ok {
				table = table.Clone()
				table.Table.ChairIDs = removeString(table.Table.ChairIDs, id)
				updates = append(updates, table)
			}
		}
	}

	s.state.elements = s.state.elements.without(remove...).put(updates...)
	s.reindexChairs()
	s.pruneSelection()
	s.dirty = true
	return true
}

// SetElements replaces all elements, clamping each one.
func (s *Store) SetElements(elements []models.Element) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return
	}
	s.state.elements = s.loadElements(elements)
	s.reindexChairs()
	s.pruneSelection()
	s.dirty = true
}

func (s *Store) loadElements(elements []models.Element) collection[models.Element] {
	c := newCollection(func(e models.Element) string { return e.ID })
	for _, e := range elements {
		e = s.clampElement(e.Clone())
		e.ID = s.idOrNew(e.ID, c.has)
		c = c.put(e)
	}
	return c
}

// SetChairAssignment attaches guest metadata to a chair, or clears it when a is nil.
func (s *Store) SetChairAssignment(chairID string, a *models.Assignment) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.state.elements.get(chairID)
	if !ok || e.Kind() != models.KindChair {
		return false
	}
	e = e.Clone()
	if a == nil {
		e.Chair.AssignedGuestID = ""
		e.Chair.AssignedGuestName = ""
		e.Chair.DietaryType = ""
	} else {
		e.Chair.AssignedGuestID = a.GuestID
		e.Chair.AssignedGuestName = a.GuestName
		e.Chair.DietaryType = a.DietaryType
	}
	s.state.elements = s.state.elements.put(e)
	s.dirty = true
	return true
}

// ============================================================
// Read side
// ============================================================

func (s *Store) GetElementByID(id string) (models.Element, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.state.elements.get(id)
	if !ok {
		return models.Element{}, false
	}
	return e.Clone(), true
}

// GetChildElements returns the chairs a table owns, in seat order of chairIds.
func (s *Store) GetChildElements(tableID string) []models.Element {
	s.mu.RLock()
	defer s.mu.RUnlock()

	table, ok := s.state.elements.get(tableID)
	if !ok || table.Kind() != models.KindTable {
		return nil
	}
	var out []models.Element
	for _, id := range table.Table.ChairIDs {
		if chair, ok := s.state.elements.get(id); ok {
			out = append(out, chair.Clone())
		}
	}
	return out
}

// ParentTable returns the id of the table owning a chair.
func (s *Store) ParentTable(chairID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.chairParents[chairID]
	return id, ok
}

// Elements returns all elements in render order.
func (s *Store) Elements() []models.Element {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneElements(s.state.elements.list())
}

func (s *Store) ElementIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.elements.ids()
}

// reindexChairs rebuilds chair -> table from the tables' chairIds, the authoritative side.
func (s *Store) reindexChairs() {
	idx := make(map[string]string)
	for _, e := range s.state.elements.list() {
		if table, ok := e.AsTable(); ok {
			for _, chairID := range table.ChairIDs {
				idx[chairID] = e.ID
			}
		}
	}
	s.chairParents = idx
}

func contains(list []string, target string) bool {
	for _, item := range list {
		if item == target {
			return true
		}
	}
	return false
}

func removeString(list []string, target string) []string {
	out := make([]string, 0, len(list))
	for _, item := range list {
		if item != target {
			out = append(out, item)
		}
	}
	return out
}
