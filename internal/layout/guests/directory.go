package guests

import (
	"context"
	"sync"
)

// State is what the UI renders for a guest list: loading flag, last error, records.
type State struct {
	Loading bool    `json:"loading"`
	Err     string  `json:"error,omitempty"`
	Guests  []Guest `json:"guests"`
}

// Directory caches the guest list of one event.
type Directory struct {
	mu      sync.RWMutex
	fetcher Fetcher
	eventID string
	state   State
}

func NewDirectory(fetcher Fetcher, eventID string) *Directory {
	return &Directory{fetcher: fetcher, eventID: eventID, state: State{Guests: []Guest{}}}
}

func (d *Directory) EventID() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.eventID
}

// Refresh fetches the list again. A failed fetch leaves an empty list and the error
// message in the state; the error is also returned.
func (d *Directory) Refresh(ctx context.Context) error {
	d.mu.Lock()
	d.state.Loading = true
	eventID := d.eventID
	d.mu.Unlock()

	if d.fetcher == nil || eventID == "" {
		d.mu.Lock()
		d.state = State{Guests: []Guest{}}
		d.mu.Unlock()
		return nil
	}

	guests, err := d.fetcher.FetchGuests(ctx, eventID)

	d.mu.Lock()
	defer d.mu.Unlock()
	if err != nil {
		d.state = State{Err: err.Error(), Guests: []Guest{}}
		return err
	}
	if guests == nil {
		guests = []Guest{}
	}
	d.state = State{Guests: guests}
	return nil
}

func (d *Directory) State() State {
	d.mu.RLock()
	defer d.mu.RUnlock()
	s := d.state
	s.Guests = append([]Guest(nil), d.state.Guests...)
	return s
}

func (d *Directory) Guests() []Guest {
	return d.State().Guests
}

func (d *Directory) Find(guestID string) (Guest, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, g := range d.state.Guests {
		if g.ID == guestID {
			return g, true
		}
	}
	return Guest{}, false
}
