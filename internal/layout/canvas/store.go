package canvas

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"wedding-layout/internal/layout/geometry"
	"wedding-layout/internal/layout/history"
	"wedding-layout/internal/layout/models"
	"wedding-layout/internal/layout/scale"
)

// ============================================================
// Canvas Store
// ============================================================

var (
	ErrInvalidBounds  = errors.New("canvas: bounds must have positive width and height")
	ErrNotInitialized = errors.New("canvas: store is not initialized")
)

// Snapshot is an immutable view of every entity kind. It is what history entries hold.
type Snapshot struct {
	elements    collection[models.Element]
	walls       collection[models.Wall]
	doors       collection[models.Door]
	powerPoints collection[models.PowerPoint]
	drawings    collection[models.DrawingPath]
	texts       collection[models.TextElement]
}

func emptySnapshot() Snapshot {
	return Snapshot{
		elements:    newCollection(func(e models.Element) string { return e.ID }),
		walls:       newCollection(func(w models.Wall) string { return w.ID }),
		doors:       newCollection(func(d models.Door) string { return d.ID }),
		powerPoints: newCollection(func(p models.PowerPoint) string { return p.ID }),
		drawings:    newCollection(func(d models.DrawingPath) string { return d.ID }),
		texts:       newCollection(func(t models.TextElement) string { return t.ID }),
	}
}

// ElementCount is used by callers that only need sizes (logging, tests).
func (s Snapshot) ElementCount() int { return s.elements.len() }

type Options struct {
	HistoryLimit int
	// DefaultPxPerMeter is the stored default used before the hardcoded scale.DefaultPxPerMeter.
	DefaultPxPerMeter float64
	NewID             func() string
}

// Store holds all placeable entities of one open project. Every mutation is
// synchronous and clamps geometry to the project bounds.
type Store struct {
	mu   sync.RWMutex
	opts Options

	projectID   string
	bounds      models.Bounds
	initialized bool

	state      Snapshot
	checkpoint Snapshot
	history    *history.Log[Snapshot]

	selection    []string
	chairParents map[string]string // chair id -> table id, derived from tableData.chairIds

	viewBox          *models.ViewBox
	wallScale        *models.WallScaleInfo
	cachedPxPerMeter float64
	fit              *models.Rect
	dirty            bool
	clampedOnLoad    int
}

func New(opts Options) *Store {
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	s := &Store{
		opts:    opts,
		history: history.New[Snapshot](opts.HistoryLimit),
	}
	s.reset()
	return s
}

func (s *Store) reset() {
	s.state = emptySnapshot()
	s.checkpoint = s.state
	s.selection = nil
	s.chairParents = map[string]string{}
	s.viewBox = nil
	s.wallScale = nil
	s.cachedPxPerMeter = 0
	s.fit = nil
	s.dirty = false
	s.history.Clear()
}

// Initialize clears all state unconditionally, then loads data (clamped to the new
// bounds) if given. History starts empty.
func (s *Store) Initialize(projectID string, bounds models.Bounds, data *models.CanvasData) error {
	if bounds.Width <= 0 || bounds.Height <= 0 {
		return ErrInvalidBounds
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.reset()
	s.projectID = projectID
	s.bounds = bounds
	s.initialized = true
	s.clampedOnLoad = 0

	if data != nil {
		s.clampedOnLoad = countOutside(data, bounds)
		if data.WallScale != nil && data.WallScale.PxPerMeter > 0 {
			s.cachedPxPerMeter = data.WallScale.PxPerMeter
		}
		s.state.elements = s.loadElements(data.Shapes)
		s.state.walls = s.loadWalls(data.Walls)
		s.state.doors = s.loadDoors(data.Doors)
		s.state.powerPoints = s.loadPowerPoints(data.PowerPoints)
		s.state.drawings = s.loadDrawings(data.Drawings)
		s.state.texts = s.loadTexts(data.TextElements)
		if data.ViewBox != nil {
			vb := *data.ViewBox
			s.viewBox = &vb
		}
	}

	s.reindexChairs()
	s.refreshWallScale()
	s.checkpoint = s.state
	s.dirty = false
	return nil
}

// ClampedOnLoad is how many entities of the last loaded snapshot lay outside the
// page and were pulled back in by Initialize.
func (s *Store) ClampedOnLoad() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.clampedOnLoad
}

func countOutside(data *models.CanvasData, b models.Bounds) int {
	n := 0
	for _, e := range data.Shapes {
		if !geometry.IsElementWithinA4(e, b) {
			n++
		}
	}
	for _, w := range data.Walls {
		if !geometry.IsWallWithinA4(w, b) {
			n++
		}
	}
	for _, p := range data.PowerPoints {
		if !geometry.IsPointWithinA4(p.X, p.Y, b) {
			n++
		}
	}
	return n
}

// Dispose drops all project state. The store can be initialized again afterwards.
func (s *Store) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reset()
	s.projectID = ""
	s.bounds = models.Bounds{}
	s.initialized = false
}

// ============================================================
// History
// ============================================================

// RecordSnapshot checkpoints the current state as one undoable action.
func (s *Store) RecordSnapshot(label string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recordLocked("snapshot", label)
}

func (s *Store) recordLocked(actionType, label string) {
	if !s.initialized {
		return
	}
	s.history.Record(history.NewEntry(actionType, label, s.checkpoint, s.state))
	s.checkpoint = s.state
}

// Undo restores the state before the newest checkpoint.
func (s *Store) Undo() (models.HistorySummary, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.history.Undo()
	if !ok {
		return models.HistorySummary{}, false
	}
	s.applyLocked(e.PreviousState)
	return summarize(e), true
}

// Redo re-applies the next undone checkpoint.
func (s *Store) Redo() (models.HistorySummary, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.history.Redo()
	if !ok {
		return models.HistorySummary{}, false
	}
	s.applyLocked(e.NextState)
	return summarize(e), true
}

func (s *Store) applyLocked(snap Snapshot) {
	s.state = snap
	s.checkpoint = snap
	s.reindexChairs()
	s.pruneSelection()
	s.refreshWallScale()
	s.dirty = true
}

func (s *Store) CanUndo() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.history.CanUndo()
}

func (s *Store) CanRedo() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.history.CanRedo()
}

// History returns summaries of the undo stack (oldest first) and redo stack.
func (s *Store) History() (past, future []models.HistorySummary) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, e := range s.history.Past() {
		past = append(past, summarize(e))
	}
	for _, e := range s.history.Future() {
		future = append(future, summarize(e))
	}
	return past, future
}

func summarize(e history.Entry[Snapshot]) models.HistorySummary {
	return models.HistorySummary{
		ID:          e.ID,
		Timestamp:   e.Timestamp,
		ActionType:  e.ActionType,
		ActionLabel: e.ActionLabel,
	}
}

// Capture returns the current state for callers that need to roll back a gesture.
func (s *Store) Capture() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Restore puts a captured state back without touching history.
func (s *Store) Restore(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return
	}
	s.state = snap
	s.reindexChairs()
	s.pruneSelection()
	s.refreshWallScale()
	s.dirty = true
}

// ============================================================
// Project state
// ============================================================

func (s *Store) ProjectID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.projectID
}

func (s *Store) Bounds() models.Bounds {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.bounds
}

func (s *Store) Initialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initialized
}

// Dirty reports whether there are changes not yet synced to persistence.
func (s *Store) Dirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dirty
}

func (s *Store) MarkClean() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dirty = false
}

func (s *Store) SetViewBox(vb models.ViewBox) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.viewBox = &vb
}

// TakeFitRequest returns and clears the pending "reframe the viewport" request
// raised by a wall import.
func (s *Store) TakeFitRequest() (models.Rect, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fit == nil {
		return models.Rect{}, false
	}
	r := *s.fit
	s.fit = nil
	return r, true
}

// WallScale returns the cached scale info, nil when there are no walls.
func (s *Store) WallScale() *models.WallScaleInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.wallScale == nil {
		return nil
	}
	info := *s.wallScale
	return &info
}

// PxPerMeter resolves the current scale through the full fallback chain.
func (s *Store) PxPerMeter() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pxPerMeterLocked()
}

func (s *Store) pxPerMeterLocked() float64 {
	if s.wallScale != nil && s.wallScale.PxPerMeter > 0 {
		return s.wallScale.PxPerMeter
	}
	return scale.Resolve(0, false, s.cachedPxPerMeter, s.opts.DefaultPxPerMeter)
}

func (s *Store) refreshWallScale() {
	s.wallScale = scale.Info(s.state.walls.list(), s.cachedPxPerMeter, s.opts.DefaultPxPerMeter)
	if s.wallScale != nil {
		s.cachedPxPerMeter = s.wallScale.PxPerMeter
	}
}

// GetCanvasData exports the full denormalized snapshot for persistence.
func (s *Store) GetCanvasData() models.CanvasData {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bounds := s.bounds
	data := models.CanvasData{
		Bounds:       &bounds,
		Shapes:       cloneElements(s.state.elements.list()),
		Walls:        s.state.walls.list(),
		Doors:        s.state.doors.list(),
		PowerPoints:  s.state.powerPoints.list(),
		Drawings:     cloneDrawings(s.state.drawings.list()),
		TextElements: s.state.texts.list(),
	}
	if s.viewBox != nil {
		vb := *s.viewBox
		data.ViewBox = &vb
	}
	if s.wallScale != nil {
		info := *s.wallScale
		data.WallScale = &info
	} else if s.cachedPxPerMeter > 0 {
		data.WallScale = &models.WallScaleInfo{PxPerMeter: s.cachedPxPerMeter}
	}
	return data
}

// ============================================================
// Selection
// ============================================================

// SetSelection replaces the selection; ids of unknown elements are dropped.
func (s *Store) SetSelection(ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup || !s.state.elements.has(id) {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	s.selection = out
}

func (s *Store) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selection = nil
}

func (s *Store) Selection() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.selection...)
}

func (s *Store) pruneSelection() {
	out := s.selection[:0:0]
	for _, id := range s.selection {
		if s.state.elements.has(id) {
			out = append(out, id)
		}
	}
	s.selection = out
}

// ============================================================
// Helpers
// ============================================================

func (s *Store) clampElement(e models.Element) models.Element {
	e.Rotation = geometry.NormalizeDegrees(e.Rotation)
	return geometry.ClampElementToA4(e, s.bounds)
}

func (s *Store) idOrNew(id string, taken func(string) bool) string {
	if id == "" || taken(id) {
		return s.opts.NewID()
	}
	return id
}

func cloneElements(list []models.Element) []models.Element {
	for i := range list {
		list[i] = list[i].Clone()
	}
	return list
}

func cloneDrawings(list []models.DrawingPath) []models.DrawingPath {
	for i := range list {
		list[i].Points = append([]models.Point(nil), list[i].Points...)
	}
	return list
}
