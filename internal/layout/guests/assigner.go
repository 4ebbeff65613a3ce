package guests

import (
	"errors"
	"sync"

	"wedding-layout/internal/layout/models"
)

// ============================================================
// Seat assignment
// ============================================================

var (
	ErrChairNotFound = errors.New("guests: chair not found")
	ErrGuestNotFound = errors.New("guests: guest not found")
)

// ChairStore is the part of the canvas store the assigner writes through.
type ChairStore interface {
	GetElementByID(id string) (models.Element, bool)
	Elements() []models.Element
	SetChairAssignment(chairID string, a *models.Assignment) bool
}

// Assigner keeps at most one guest per chair and at most one chair per guest.
// Assignment state lives on the chairs themselves.
type Assigner struct {
	mu    sync.Mutex
	store ChairStore
}

func NewAssigner(store ChairStore) *Assigner {
	return &Assigner{store: store}
}

// Assign seats guest on chairID. The chair's previous occupant is unseated and the
// guest's previous chair, if any, is cleared.
func (a *Assigner) Assign(chairID string, guest Guest) error {
	if guest.ID == "" {
		return ErrGuestNotFound
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	chair, ok := a.store.GetElementByID(chairID)
	if !ok || chair.Kind() != models.KindChair {
		return ErrChairNotFound
	}

	for _, e := range a.store.Elements() {
		if c, ok := e.AsChair(); ok && e.ID != chairID && c.AssignedGuestID == guest.ID {
			a.store.SetChairAssignment(e.ID, nil)
		}
	}

	a.store.SetChairAssignment(chairID, &models.Assignment{
		GuestID:     guest.ID,
		GuestName:   guest.Name,
		DietaryType: guest.Dietary,
	})
	return nil
}

func (a *Assigner) Unassign(chairID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	chair, ok := a.store.GetElementByID(chairID)
	if !ok || chair.Kind() != models.KindChair {
		return ErrChairNotFound
	}
	a.store.SetChairAssignment(chairID, nil)
	return nil
}

// ChairOf returns the chair a guest sits on.
func (a *Assigner) ChairOf(guestID string) (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, e := range a.store.Elements() {
		if c, ok := e.AsChair(); ok && c.AssignedGuestID == guestID {
			return e.ID, true
		}
	}
	return "", false
}

// Assignments maps chair id to its occupant.
func (a *Assigner) Assignments() map[string]models.Assignment {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make(map[string]models.Assignment)
	for _, e := range a.store.Elements() {
		if c, ok := e.AsChair(); ok && c.AssignedGuestID != "" {
			out[e.ID] = models.Assignment{
				GuestID:     c.AssignedGuestID,
				GuestName:   c.AssignedGuestName,
				DietaryType: c.DietaryType,
			}
		}
	}
	return out
}

// Unseated filters guests that have no chair, keeping input order.
func (a *Assigner) Unseated(guests []Guest) []Guest {
	seated := make(map[string]struct{})
	for _, as := range a.Assignments() {
		seated[as.GuestID] = struct{}{}
	}
	out := make([]Guest, 0, len(guests))
	for _, g := range guests {
		if _, ok := seated[g.ID]; !ok {
			out = append(out, g)
		}
	}
	return out
}
