package service

import (
	"errors"
	"sync"

	"wedding-layout/internal/layout/canvas"
	"wedding-layout/internal/layout/guests"
	"wedding-layout/internal/layout/models"
	"wedding-layout/internal/layout/transform"
)

var (
	ErrGestureActive   = errors.New("service: a gesture is already in progress")
	ErrNoGesture       = errors.New("service: no gesture in progress")
	ErrUnknownGesture  = errors.New("service: unknown gesture kind")
	ErrElementNotFound = errors.New("service: element not found")
)

type GestureKind string

const (
	GestureDrag   GestureKind = "drag"
	GestureResize GestureKind = "resize"
	GestureRotate GestureKind = "rotate"
)

// GestureStart describes the pointer-down that begins a gesture. Drag uses IDs
// (falling back to the current selection), resize and rotate use ElementID.
type GestureStart struct {
	IDs       []string
	ElementID string
	Handle    transform.Handle
	Point     models.Point
}

// Workspace is one open project: its store plus the controllers bound to it.
type Workspace struct {
	Store     *canvas.Store
	Assigner  *guests.Assigner
	Selection *transform.Selection

	mu        sync.Mutex
	directory *guests.Directory
	eventID   string
	gesture   transform.Gesture
	kind      GestureKind
}

func newWorkspace(store *canvas.Store, dir *guests.Directory, eventID string) *Workspace {
	return &Workspace{
		Store:     store,
		Assigner:  guests.NewAssigner(store),
		Selection: transform.NewSelection(store),
		directory: dir,
		eventID:   eventID,
	}
}

func (w *Workspace) EventID() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.eventID
}

// Directory is the event's guest list. Reopening the project swaps it.
func (w *Workspace) Directory() *guests.Directory {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.directory
}

// ============================================================
// Gestures
// ============================================================

func (w *Workspace) BeginGesture(kind GestureKind, start GestureStart) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.gesture != nil {
		return ErrGestureActive
	}

	var g transform.Gesture
	switch kind {
	case GestureDrag:
		ids := start.IDs
		if len(ids) == 0 {
			ids = w.Store.Selection()
		}
		if len(ids) == 0 {
			return ErrElementNotFound
		}
		g = transform.BeginDrag(w.Store, ids, start.Point)
	case GestureResize:
		r, ok := transform.BeginResize(w.Store, start.ElementID, start.Handle, start.Point)
		if !ok {
			return ErrElementNotFound
		}
		g = r
	case GestureRotate:
		r, ok := transform.BeginRotate(w.Store, start.ElementID, start.Point)
		if !ok {
			return ErrElementNotFound
		}
		g = r
	default:
		return ErrUnknownGesture
	}

	w.gesture = g
	w.kind = kind
	return nil
}

func (w *Workspace) MoveGesture(p models.Point, mods transform.Modifiers) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.gesture == nil {
		return ErrNoGesture
	}
	w.gesture.Move(p, mods)
	return nil
}

// EndGesture finishes the gesture. The bool reports whether a checkpoint was recorded.
func (w *Workspace) EndGesture() (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.gesture == nil {
		return false, ErrNoGesture
	}
	recorded := w.gesture.End()
	w.gesture = nil
	w.kind = ""
	return recorded, nil
}

func (w *Workspace) CancelGesture() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.gesture == nil {
		return ErrNoGesture
	}
	w.cancelLocked()
	return nil
}

func (w *Workspace) ActiveGesture() (GestureKind, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.kind, w.gesture != nil
}

func (w *Workspace) cancelLocked() {
	if w.gesture != nil {
		w.gesture.Cancel()
	}
	w.gesture = nil
	w.kind = ""
}

// ============================================================
// Guests
// ============================================================

// AssignGuest seats a guest from the directory. Guests missing from the directory
// can still be seated when the caller supplies their record.
func (w *Workspace) AssignGuest(chairID string, guest guests.Guest) error {
	if known, ok := w.Directory().Find(guest.ID); ok {
		guest = known
	} else if guest.Name == "" {
		return guests.ErrGuestNotFound
	}
	if err := w.Assigner.Assign(chairID, guest); err != nil {
		return err
	}
	w.Store.RecordSnapshot("Assign guest")
	return nil
}

func (w *Workspace) UnassignGuest(chairID string) error {
	if err := w.Assigner.Unassign(chairID); err != nil {
		return err
	}
	w.Store.RecordSnapshot("Unassign guest")
	return nil
}

// SeatingOverview is the guest list with who sits where.
type SeatingOverview struct {
	State       guests.State                 `json:"state"`
	Assignments map[string]models.Assignment `json:"assignments"`
	Unseated    []guests.Guest               `json:"unseated"`
}

func (w *Workspace) Seating() SeatingOverview {
	state := w.Directory().State()
	unseated := w.Assigner.Unseated(state.Guests)
	if unseated == nil {
		unseated = []guests.Guest{}
	}
	return SeatingOverview{
		State:       state,
		Assignments: w.Assigner.Assignments(),
		Unseated:    unseated,
	}
}
