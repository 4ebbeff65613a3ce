package canvas

import (
	"wedding-layout/internal/layout/geometry"
	"wedding-layout/internal/layout/models"
)

// ============================================================
// Power points
// ============================================================

// Regional defaults applied when a power point arrives without them.
var standardDefaults = map[models.ElectricalStandard]struct{ voltage, breakerAmps float64 }{
	models.StandardEU: {voltage: 230, breakerAmps: 16},
	models.StandardUS: {voltage: 120, breakerAmps: 20},
}

func (s *Store) AddPowerPoint(p models.PowerPoint) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return ""
	}
	p = s.normalizePowerPoint(p)
	p.ID = s.opts.NewID()
	s.state.powerPoints = s.state.powerPoints.put(p)
	s.dirty = true
	return p.ID
}

func (s *Store) UpdatePowerPoint(id string, patch models.PowerPointPatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.state.powerPoints.get(id)
	if !ok {
		return false
	}
	if patch.X != nil {
		p.X = *patch.X
	}
	if patch.Y != nil {
		p.Y = *patch.Y
	}
	if patch.Standard != nil {
		p.Standard = *patch.Standard
	}
	if patch.BreakerAmps != nil {
		p.BreakerAmps = *patch.BreakerAmps
	}
	if patch.Voltage != nil {
		p.Voltage = *patch.Voltage
	}
	if patch.Label != nil {
		p.Label = *patch.Label
	}
	if patch.CircuitID != nil {
		p.CircuitID = *patch.CircuitID
	}
	s.state.powerPoints = s.state.powerPoints.put(s.normalizePowerPoint(p))
	s.dirty = true
	return true
}

func (s *Store) DeletePowerPoint(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.state.powerPoints.has(id) {
		return false
	}
	s.state.powerPoints = s.state.powerPoints.without(id)
	s.dirty = true
	return true
}

func (s *Store) SetPowerPoints(points []models.PowerPoint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return
	}
	s.state.powerPoints = s.loadPowerPoints(points)
	s.dirty = true
}

func (s *Store) loadPowerPoints(points []models.PowerPoint) collection[models.PowerPoint] {
	c := newCollection(func(p models.PowerPoint) string { return p.ID })
	for _, p := range points {
		p = s.normalizePowerPoint(p)
		p.ID = s.idOrNew(p.ID, c.has)
		c = c.put(p)
	}
	return c
}

// normalizePowerPoint clamps the point as a zero-size rectangle and fills regional defaults.
func (s *Store) normalizePowerPoint(p models.PowerPoint) models.PowerPoint {
	p.X, p.Y = geometry.ClampPositionToA4(p.X, p.Y, 0, 0, s.bounds)
	p.Electrical = true
	if p.Standard == "" {
		p.Standard = models.StandardEU
	}
	if d, ok := standardDefaults[p.Standard]; ok {
		if p.Voltage <= 0 {
			p.Voltage = d.voltage
		}
		if p.BreakerAmps <= 0 {
			p.BreakerAmps = d.breakerAmps
		}
	}
	return p
}

func (s *Store) PowerPoints() []models.PowerPoint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.powerPoints.list()
}

// PowerPointsByCircuit groups power points by circuit id for the electrical subsystem.
// Points without a circuit are keyed by "".
func (s *Store) PowerPointsByCircuit() map[string][]models.PowerPoint {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string][]models.PowerPoint)
	for _, p := range s.state.powerPoints.list() {
		out[p.CircuitID] = append(out[p.CircuitID], p)
	}
	return out
}

// ============================================================
// Drawings
// ============================================================

func (s *Store) AddDrawing(d models.DrawingPath) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return ""
	}
	d.ID = s.opts.NewID()
	d.Points = append([]models.Point(nil), d.Points...)
	s.state.drawings = s.state.drawings.put(d)
	s.dirty = true
	return d.ID
}

func (s *Store) DeleteDrawing(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.state.drawings.has(id) {
		return false
	}
	s.state.drawings = s.state.drawings.without(id)
	s.dirty = true
	return true
}

func (s *Store) SetDrawings(drawings []models.DrawingPath) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return
	}
	s.state.drawings = s.loadDrawings(drawings)
	s.dirty = true
}

func (s *Store) loadDrawings(drawings []models.DrawingPath) collection[models.DrawingPath] {
	c := newCollection(func(d models.DrawingPath) string { return d.ID })
	for _, d := range drawings {
		d.ID = s.idOrNew(d.ID, c.has)
		d.Points = append([]models.Point(nil), d.Points...)
		c = c.put(d)
	}
	return c
}

func (s *Store) Drawings() []models.DrawingPath {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneDrawings(s.state.drawings.list())
}

// ============================================================
// Text
// ============================================================

func (s *Store) AddText(t models.TextElement) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return ""
	}
	t.ID = s.opts.NewID()
	s.state.texts = s.state.texts.put(t)
	s.dirty = true
	return t.ID
}

func (s *Store) UpdateText(id string, patch models.TextPatch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.state.texts.get(id)
	if !ok {
		return false
	}
	if patch.X != nil {
		t.X = *patch.X
	}
	if patch.Y != nil {
		t.Y = *patch.Y
	}
	if patch.Text != nil {
		t.Text = *patch.Text
	}
	if patch.FontSize != nil {
		t.FontSize = *patch.FontSize
	}
	if patch.Color != nil {
		t.Color = *patch.Color
	}
	s.state.texts = s.state.texts.put(t)
	s.dirty = true
	return true
}

func (s *Store) DeleteText(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.state.texts.has(id) {
		return false
	}
	s.state.texts = s.state.texts.without(id)
	s.dirty = true
	return true
}

func (s *Store) SetTextElements(texts []models.TextElement) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return
	}
	s.state.texts = s.loadTexts(texts)
	s.dirty = true
}

func (s *Store) loadTexts(texts []models.TextElement) collection[models.TextElement] {
	c := newCollection(func(t models.TextElement) string { return t.ID })
	for _, t := range texts {
		t.ID = s.idOrNew(t.ID, c.has)
		c = c.put(t)
	}
	return c
}

func (s *Store) TextElements() []models.TextElement {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.texts.list()
}
