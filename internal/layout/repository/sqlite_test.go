package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wedding-layout/internal/layout/models"
)

func newRepo(t *testing.T) *Repository {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "data", "layout.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	r := New(db)
	require.NoError(t, r.Init(context.Background()))
	return r
}

func sampleProject(id string) Project {
	bounds := models.Bounds{Width: 800, Height: 1132}
	return Project{
		ID:      id,
		EventID: "ev-1",
		Bounds:  bounds,
		Canvas: models.CanvasData{
			Bounds: &bounds,
			Shapes: []models.Element{{ID: "t1", Width: 80, Height: 80,
				Table: &models.TableData{Type: models.TableRound, Seats: 2, ChairIDs: []string{"c1"}}}},
			Walls:     []models.Wall{{ID: "w1", EndX: 100, PxPerMeter: 72}},
			WallScale: &models.WallScaleInfo{PxPerMeter: 72},
		},
	}
}

func TestSaveAndLoadProject(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()

	require.NoError(t, r.Save(ctx, sampleProject("p1")))
	got, err := r.Load(ctx, "p1")
	require.NoError(t, err)

	assert.Equal(t, "ev-1", got.EventID)
	assert.Equal(t, 800.0, got.Bounds.Width)
	require.Len(t, got.Canvas.Shapes, 1)
	assert.Equal(t, []string{"c1"}, got.Canvas.Shapes[0].Table.ChairIDs)
	assert.Equal(t, 72.0, got.Canvas.WallScale.PxPerMeter)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestSaveUpdatesKeepCreatedAt(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()
	first := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return first }
	require.NoError(t, r.Save(ctx, sampleProject("p1")))

	r.now = func() time.Time { return first.Add(time.Hour) }
	p := sampleProject("p1")
	p.Canvas.Shapes = nil
	require.NoError(t, r.Save(ctx, p))

	got, err := r.Load(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, first, got.CreatedAt)
	assert.Equal(t, first.Add(time.Hour), got.UpdatedAt)
	assert.Empty(t, got.Canvas.Shapes)
}

func TestLoadMissingProject(t *testing.T) {
	r := newRepo(t)
	_, err := r.Load(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrProjectNotFound)
	assert.ErrorIs(t, r.Delete(context.Background(), "nope"), ErrProjectNotFound)
}

func TestListAndDelete(t *testing.T) {
	r := newRepo(t)
	ctx := context.Background()
	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	r.now = func() time.Time { return base }
	require.NoError(t, r.Save(ctx, sampleProject("older")))
	r.now = func() time.Time { return base.Add(time.Minute) }
	require.NoError(t, r.Save(ctx, sampleProject("newer")))

	list, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "newer", list[0].ID)
	assert.Equal(t, 1, list[0].ElementCount)

	require.NoError(t, r.Delete(ctx, "older"))
	list, err = r.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
