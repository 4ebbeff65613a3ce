package canvas

import (
	"math"

	"wedding-layout/internal/layout/geometry"
	"wedding-layout/internal/layout/models"
	"wedding-layout/internal/layout/scale"
)

// WallImportPadding is kept free on every side of the page when fitting imported walls.
const WallImportPadding = 40.0

// ============================================================
// Wall operations
// ============================================================

func (s *Store) AddWall(w models.Wall) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return ""
	}

	w = geometry.ClampWallToA4(w, s.bounds)
	w.ID = s.opts.NewID()
	s.state.walls = s.state.walls.put(w)
	s.refreshWallScale()
	s.dirty = true
	return w.ID
}

func (s *Store) UpdateWall(id string, patch models.WallPatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.state.walls.get(id)
	if !ok {
		return false
	}
	if patch.StartX != nil {
		w.StartX = *patch.StartX
	}
	if patch.StartY != nil {
		w.StartY = *patch.StartY
	}
	if patch.EndX != nil {
		w.EndX = *patch.EndX
	}
	if patch.EndY != nil {
		w.EndY = *patch.EndY
	}
	if patch.Thickness != nil {
		w.Thickness = *patch.Thickness
	}
	if patch.Color != nil {
		w.Color = *patch.Color
	}
	w = geometry.ClampWallToA4(w, s.bounds)
	if w.Length > 0 {
		w.Length = geometry.WallLength(w)
	}

	s.state.walls = s.state.walls.put(w)
	s.refreshWallScale()
	s.dirty = true
	return true
}

// DeleteWall removes a wall and the doors hanging in it.
func (s *Store) DeleteWall(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.walls.has(id) {
		return false
	}
	var doorIDs []string
	for _, d := range s.state.doors.list() {
		if d.WallID == id {
			doorIDs = append(doorIDs, d.ID)
		}
	}
	s.state.walls = s.state.walls.without(id)
	s.state.doors = s.state.doors.without(doorIDs...)
	s.refreshWallScale()
	s.dirty = true
	return true
}

func (s *Store) SetWalls(walls []models.Wall) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return
	}
	s.state.walls = s.loadWalls(walls)
	s.refreshWallScale()
	s.dirty = true
}

func (s *Store) loadWalls(walls []models.Wall) collection[models.Wall] {
	c := newCollection(func(w models.Wall) string { return w.ID })
	for _, w := range walls {
		w = geometry.ClampWallToA4(w, s.bounds)
		w.ID = s.idOrNew(w.ID, c.has)
		c = c.put(w)
	}
	return c
}

// AddWalls imports externally authored walls. The layout is scaled uniformly to
// fit the page minus padding, centered on the page, and every wall is stamped with
// its pre-scale length and the resulting pixels-per-meter. Doors are re-id'd and
// their widths scaled by the same factor. Walls are appended, a checkpoint is
// recorded and a viewport fit is requested. Returns the new wall ids.
func (s *Store) AddWalls(walls []models.Wall, doors []models.Door) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized || len(walls) == 0 {
		return nil
	}

	layout, _ := scale.Bounds(walls)
	factor := fitFactor(layout, s.bounds)
	from := geometry.Center(layout)
	to := geometry.Center(s.bounds)
	ppm := scale.AssumedSourcePxPerMeter * factor

	project := func(x, y float64) (float64, float64) {
		return to.X + (x-from.X)*factor, to.Y + (y-from.Y)*factor
	}

	idMap := make(map[string]string, len(walls))
	added := make([]models.Wall, 0, len(walls))
	ids := make([]string, 0, len(walls))
	for _, w := range walls {
		original := geometry.WallLength(w)

		nw := w
		nw.ID = s.opts.NewID()
		nw.StartX, nw.StartY = project(w.StartX, w.StartY)
		nw.EndX, nw.EndY = project(w.EndX, w.EndY)
		nw = geometry.ClampWallToA4(nw, s.bounds)
		nw.OriginalLengthPx = original
		nw.Length = geometry.WallLength(nw)
		nw.PxPerMeter = ppm

		if w.ID != "" {
			idMap[w.ID] = nw.ID
		}
		added = append(added, nw)
		ids = append(ids, nw.ID)
	}

	addedDoors := make([]models.Door, 0, len(doors))
	for _, d := range doors {
		wallID, ok := idMap[d.WallID]
		if !ok {
			continue
		}
		d.ID = s.opts.NewID()
		d.WallID = wallID
		d.Width *= factor
		d.Position = geometry.Clamp(d.Position, 0, 1)
		addedDoors = append(addedDoors, d)
	}

	s.state.walls = s.state.walls.put(added...)
	s.state.doors = s.state.doors.put(addedDoors...)
	s.refreshWallScale()

	if fit, ok := scale.Bounds(added); ok {
		s.fit = &fit
	}
	s.dirty = true
	s.recordLocked("import_walls", "Import walls")
	return ids
}

// fitFactor picks the uniform scale that makes the layout fit the padded page,
// bound by whichever axis is tighter.
func fitFactor(layout models.Rect, page models.Bounds) float64 {
	availW := math.Max(page.Width-2*WallImportPadding, 1)
	availH := math.Max(page.Height-2*WallImportPadding, 1)

	factor := math.Inf(1)
	if layout.Width > 0 {
		factor = availW / layout.Width
	}
	if layout.Height > 0 {
		factor = math.Min(factor, availH/layout.Height)
	}
	if math.IsInf(factor, 0) {
		return 1
	}
	return factor
}

func (s *Store) Walls() []models.Wall {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.walls.list()
}

func (s *Store) GetWallByID(id string) (models.Wall, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.walls.get(id)
}

// ============================================================
// Door operations
// ============================================================

func (s *Store) AddDoor(d models.Door) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return ""
	}
	d.ID = s.opts.NewID()
	d.Position = geometry.Clamp(d.Position, 0, 1)
	s.state.doors = s.state.doors.put(d)
	s.dirty = true
	return d.ID
}

func (s *Store) UpdateDoor(id string, patch models.DoorPatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.state.doors.get(id)
	if !ok {
		return false
	}
	if patch.Position != nil {
		d.Position = geometry.Clamp(*patch.Position, 0, 1)
	}
	if patch.Width != nil {
		d.Width = *patch.Width
	}
	if patch.OpeningDirection != nil {
		d.OpeningDirection = *patch.OpeningDirection
	}
	if patch.HingeSide != nil {
		d.HingeSide = *patch.HingeSide
	}
	s.state.doors = s.state.doors.put(d)
	s.dirty = true
	return true
}

func (s *Store) DeleteDoor(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.state.doors.has(id) {
		return false
	}
	s.state.doors = s.state.doors.without(id)
	s.dirty = true
	return true
}

func (s *Store) SetDoors(doors []models.Door) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return
	}
	s.state.doors = s.loadDoors(doors)
	s.dirty = true
}

func (s *Store) loadDoors(doors []models.Door) collection[models.Door] {
	c := newCollection(func(d models.Door) string { return d.ID })
	for _, d := range doors {
		d.ID = s.idOrNew(d.ID, c.has)
		d.Position = geometry.Clamp(d.Position, 0, 1)
		c = c.put(d)
	}
	return c
}

func (s *Store) Doors() []models.Door {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.doors.list()
}
