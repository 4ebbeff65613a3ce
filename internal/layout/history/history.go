package history

import (
	"time"

	"github.com/google/uuid"
)

// DefaultLimit bounds the number of undoable entries.
const DefaultLimit = 50

// Entry is one checkpoint: the state before and after a logical action.
// The log never looks inside the snapshots.
type Entry[S any] struct {
	ID            string
	Timestamp     time.Time
	ActionType    string
	ActionLabel   string
	PreviousState S
	NextState     S
}

// NewEntry stamps a fresh id and time on a checkpoint.
func NewEntry[S any](actionType, label string, prev, next S) Entry[S] {
	return Entry[S]{
		ID:            uuid.NewString(),
		Timestamp:     time.Now().UTC(),
		ActionType:    actionType,
		ActionLabel:   label,
		PreviousState: prev,
		NextState:     next,
	}
}

// Log is a linear two-stack undo/redo history. Not safe for concurrent use;
// the owner serializes access.
type Log[S any] struct {
	limit  int
	past   []Entry[S]
	future []Entry[S]
}

func New[S any](limit int) *Log[S] {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Log[S]{limit: limit}
}

// Record pushes an entry, drops the oldest beyond the limit and discards redo history.
func (l *Log[S]) Record(e Entry[S]) {
	l.past = append(l.past, e)
	if over := len(l.past) - l.limit; over > 0 {
		l.past = append([]Entry[S](nil), l.past[over:]...)
	}
	l.future = nil
}

// Undo moves the newest past entry to the front of future and returns it.
// The caller applies PreviousState.
func (l *Log[S]) Undo() (Entry[S], bool) {
	if len(l.past) == 0 {
		var zero Entry[S]
		return zero, false
	}
	e := l.past[len(l.past)-1]
	l.past = l.past[:len(l.past)-1]
	l.future = append([]Entry[S]{e}, l.future...)
	return e, true
}

// Redo moves the first future entry back onto past and returns it.
// The caller applies NextState.
func (l *Log[S]) Redo() (Entry[S], bool) {
	if len(l.future) == 0 {
		var zero Entry[S]
		return zero, false
	}
	e := l.future[0]
	l.future = l.future[1:]
	l.past = append(l.past, e)
	return e, true
}

func (l *Log[S]) Clear() {
	l.past = nil
	l.future = nil
}

func (l *Log[S]) CanUndo() bool { return len(l.past) > 0 }
func (l *Log[S]) CanRedo() bool { return len(l.future) > 0 }

// Past returns a copy of the undo stack, oldest first.
func (l *Log[S]) Past() []Entry[S] {
	return append([]Entry[S](nil), l.past...)
}

// Future returns a copy of the redo stack, next redo first.
func (l *Log[S]) Future() []Entry[S] {
	return append([]Entry[S](nil), l.future...)
}
