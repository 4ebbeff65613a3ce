package guests

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wedding-layout/internal/layout/canvas"
	"wedding-layout/internal/layout/models"
)

func seatedTable(t *testing.T, seats int) (*canvas.Store, canvas.TablePlacement) {
	t.Helper()
	store := canvas.New(canvas.Options{})
	require.NoError(t, store.Initialize("p", models.Bounds{Width: 800, Height: 1132}, nil))
	placement, err := store.AddTable(canvas.TableRequest{Type: models.TableRound, Seats: seats})
	require.NoError(t, err)
	return store, placement
}

func guestOn(t *testing.T, store *canvas.Store, chairID string) string {
	t.Helper()
	e, ok := store.GetElementByID(chairID)
	require.True(t, ok)
	return e.Chair.AssignedGuestID
}

func TestAssignMovesGuestBetweenChairs(t *testing.T) {
	store, placement := seatedTable(t, 4)
	a := NewAssigner(store)
	g1 := Guest{ID: "g1", Name: "Marta", Dietary: "vegan"}
	c1, c2 := placement.ChairIDs[0], placement.ChairIDs[1]

	require.NoError(t, a.Assign(c1, g1))
	require.NoError(t, a.Assign(c2, g1))

	assert.Empty(t, guestOn(t, store, c1))
	assert.Equal(t, "g1", guestOn(t, store, c2))

	chair, _ := store.GetElementByID(c2)
	assert.Equal(t, "Marta", chair.Chair.AssignedGuestName)
	assert.Equal(t, "vegan", chair.Chair.DietaryType)

	chairID, ok := a.ChairOf("g1")
	require.True(t, ok)
	assert.Equal(t, c2, chairID)
	assert.Len(t, a.Assignments(), 1)
}

func TestAssignReplacesOccupant(t *testing.T) {
	store, placement := seatedTable(t, 2)
	a := NewAssigner(store)
	c1 := placement.ChairIDs[0]

	require.NoError(t, a.Assign(c1, Guest{ID: "g1", Name: "A"}))
	require.NoError(t, a.Assign(c1, Guest{ID: "g2", Name: "B"}))

	assert.Equal(t, "g2", guestOn(t, store, c1))
	_, ok := a.ChairOf("g1")
	assert.False(t, ok)
}

func TestAssignRejectsNonChairs(t *testing.T) {
	store, placement := seatedTable(t, 2)
	a := NewAssigner(store)

	assert.ErrorIs(t, a.Assign(placement.TableID, Guest{ID: "g1"}), ErrChairNotFound)
	assert.ErrorIs(t, a.Assign("missing", Guest{ID: "g1"}), ErrChairNotFound)
	assert.ErrorIs(t, a.Assign(placement.ChairIDs[0], Guest{}), ErrGuestNotFound)
	assert.ErrorIs(t, a.Unassign("missing"), ErrChairNotFound)
}

func TestUnassignAndUnseated(t *testing.T) {
	store, placement := seatedTable(t, 3)
	a := NewAssigner(store)
	all := []Guest{{ID: "g1"}, {ID: "g2"}, {ID: "g3"}}

	require.NoError(t, a.Assign(placement.ChairIDs[0], all[0]))
	require.NoError(t, a.Assign(placement.ChairIDs[1], all[2]))
	assert.Equal(t, []Guest{all[1]}, a.Unseated(all))

	require.NoError(t, a.Unassign(placement.ChairIDs[0]))
	assert.Equal(t, []Guest{all[0], all[1]}, a.Unseated(all))
}

func TestDeletingTableDropsItsAssignments(t *testing.T) {
	store, placement := seatedTable(t, 2)
	a := NewAssigner(store)
	require.NoError(t, a.Assign(placement.ChairIDs[0], Guest{ID: "g1"}))

	store.DeleteElement(placement.TableID)
	assert.Empty(t, a.Assignments())
}
