package canvas

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wedding-layout/internal/layout/geometry"
	"wedding-layout/internal/layout/models"
	"wedding-layout/internal/layout/scale"
)

var a4 = models.Bounds{X: 0, Y: 0, Width: 800, Height: 1132}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newStore(t *testing.T) *Store {
	t.Helper()
	s := New(Options{HistoryLimit: 50, NewID: sequentialIDs()})
	require.NoError(t, s.Initialize("project-a", a4, nil))
	return s
}

func TestInitializeRejectsDegenerateBounds(t *testing.T) {
	s := New(Options{})
	assert.ErrorIs(t, s.Initialize("p", models.Bounds{Width: 0, Height: 100}, nil), ErrInvalidBounds)
	assert.False(t, s.Initialized())
}

func TestMutationsBeforeInitializeAreIgnored(t *testing.T) {
	s := New(Options{})
	assert.Empty(t, s.AddElement(models.Element{Width: 50, Height: 50}))
	assert.Empty(t, s.AddWall(models.Wall{EndX: 100}))
	_, err := s.AddTable(TableRequest{Type: models.TableRound})
	assert.ErrorIs(t, err, ErrNotInitialized)
	assert.Empty(t, s.Elements())
}

func TestAddElementClampsIntoBounds(t *testing.T) {
	s := newStore(t)

	id := s.AddElement(models.Element{X: 5000, Y: -300, Width: 120, Height: 80})
	e, ok := s.GetElementByID(id)
	require.True(t, ok)
	assert.True(t, geometry.IsElementWithinA4(e, a4))
	assert.Equal(t, 800.0, e.X+e.Width)
	assert.Equal(t, 0.0, e.Y)
	assert.Equal(t, 80.0, e.Height)
}

func TestAddElementEnforcesMinimumSize(t *testing.T) {
	s := newStore(t)

	id := s.AddElement(models.Element{X: 10, Y: 10, Width: 2, Height: -5})
	e, _ := s.GetElementByID(id)
	assert.Equal(t, geometry.DefaultMinSize, e.Width)
	assert.Equal(t, geometry.DefaultMinSize, e.Height)
}

func TestMoveElementIsIdempotent(t *testing.T) {
	s := newStore(t)
	id := s.AddElement(models.Element{X: 10, Y: 10, Width: 100, Height: 100})

	require.True(t, s.MoveElement(id, 900, 300))
	first, _ := s.GetElementByID(id)
	require.True(t, s.MoveElement(id, 900, 300))
	second, _ := s.GetElementByID(id)

	assert.Equal(t, first, second)
	assert.Equal(t, 700.0, second.X)
}

func TestUnknownIDsAreNoOps(t *testing.T) {
	s := newStore(t)

	assert.False(t, s.MoveElement("missing", 1, 1))
	assert.False(t, s.DeleteElement("missing"))
	assert.False(t, s.UpdateWall("missing", models.WallPatch{}))
	assert.False(t, s.DeleteDoor("missing"))
	assert.False(t, s.Dirty())
}

func TestMovingTableDragsChairsRigidly(t *testing.T) {
	s := newStore(t)
	placement, err := s.AddTable(TableRequest{Type: models.TableRound, Seats: 4})
	require.NoError(t, err)
	require.Len(t, placement.ChairIDs, 4)

	table, _ := s.GetElementByID(placement.TableID)
	before := map[string]models.Point{}
	for _, c := range s.GetChildElements(placement.TableID) {
		before[c.ID] = models.Point{X: c.X - table.X, Y: c.Y - table.Y}
	}

	require.True(t, s.MoveElement(placement.TableID, table.X+50, table.Y-40))
	moved, _ := s.GetElementByID(placement.TableID)

	for _, c := range s.GetChildElements(placement.TableID) {
		assert.InDelta(t, before[c.ID].X, c.X-moved.X, 1e-9)
		assert.InDelta(t, before[c.ID].Y, c.Y-moved.Y, 1e-9)
	}
}

func TestAddTableDefaultsToPageCenterAndDefaultScale(t *testing.T) {
	s := newStore(t)

	placement, err := s.AddTable(TableRequest{Type: models.TableRound, Seats: 4})
	require.NoError(t, err)
	assert.Equal(t, scale.DefaultPxPerMeter, placement.PxPerMeter)
	assert.Empty(t, placement.AttachedSpaceID)

	table, _ := s.GetElementByID(placement.TableID)
	assert.InDelta(t, 75.0, table.Width, 1e-9)
	assert.InDelta(t, 400.0, table.Center().X, 1e-9)
	assert.InDelta(t, 566.0, table.Center().Y, 1e-9)

	chairs := s.GetChildElements(placement.TableID)
	require.Len(t, chairs, 4)
	// First seat sits straight above the table, facing it.
	assert.InDelta(t, 400.0, chairs[0].Center().X, 1e-9)
	assert.Less(t, chairs[0].Center().Y, table.Y)
	assert.Equal(t, 0.0, chairs[0].Rotation)
	assert.Equal(t, 90.0, chairs[1].Rotation)

	for i, c := range chairs {
		parent, ok := s.ParentTable(c.ID)
		assert.True(t, ok)
		assert.Equal(t, placement.TableID, parent)
		assert.Equal(t, i, c.Chair.SeatIndex)
	}
}

func TestAddTableUsesTargetedSpace(t *testing.T) {
	s := newStore(t)
	spaceID := s.AddElement(models.Element{
		X: 100, Y: 100, Width: 400, Height: 200,
		Space: &models.SpaceData{WidthMeters: 10, HeightMeters: 5, PxPerMeter: 40},
	})

	placement, err := s.AddTable(TableRequest{Type: models.TableSquare, SpaceID: spaceID})
	require.NoError(t, err)
	assert.Equal(t, 40.0, placement.PxPerMeter)
	assert.Equal(t, spaceID, placement.AttachedSpaceID)

	table, _ := s.GetElementByID(placement.TableID)
	assert.InDelta(t, 300.0, table.Center().X, 1e-9)
	assert.InDelta(t, 200.0, table.Center().Y, 1e-9)
	assert.InDelta(t, 48.0, table.Width, 1e-9)
	assert.Len(t, placement.ChairIDs, 4)
}

func TestAddTableFallsBackToWallLayout(t *testing.T) {
	s := newStore(t)
	s.AddWalls([]models.Wall{{StartX: 0, StartY: 0, EndX: 1000, EndY: 0, Thickness: 10}}, nil)

	placement, err := s.AddTable(TableRequest{Type: models.TableRectangular, Seats: 6})
	require.NoError(t, err)
	assert.InDelta(t, 72.0, placement.PxPerMeter, 1e-9)
	assert.Equal(t, models.WallLayoutSpaceID, placement.AttachedSpaceID)

	table, _ := s.GetElementByID(placement.TableID)
	assert.InDelta(t, 1.8*72, table.Width, 1e-9)
	assert.InDelta(t, 400.0, table.Center().X, 1e-9)
	assert.InDelta(t, 566.0, table.Center().Y, 1e-9)
}

func TestWallImportFitsAndScales(t *testing.T) {
	s := newStore(t)

	ids := s.AddWalls([]models.Wall{{ID: "w", StartX: 0, StartY: 0, EndX: 1000, EndY: 0, Thickness: 10}},
		[]models.Door{{ID: "d", WallID: "w", Position: 0.5, Width: 90}})
	require.Len(t, ids, 1)

	w, ok := s.GetWallByID(ids[0])
	require.True(t, ok)
	assert.InDelta(t, 40.0, w.StartX, 1e-9)
	assert.InDelta(t, 760.0, w.EndX, 1e-9)
	assert.InDelta(t, 566.0, w.StartY, 1e-9)
	assert.InDelta(t, 566.0, w.EndY, 1e-9)
	assert.Equal(t, 1000.0, w.OriginalLengthPx)
	assert.InDelta(t, 720.0, w.Length, 1e-9)
	assert.InDelta(t, 72.0, w.PxPerMeter, 1e-9)
	assert.Equal(t, 10.0, w.Thickness)

	ppm, ok := scale.Derive(s.Walls())
	require.True(t, ok)
	assert.InDelta(t, 72.0, ppm, 1e-9)
	assert.InDelta(t, 72.0, s.PxPerMeter(), 1e-9)

	doors := s.Doors()
	require.Len(t, doors, 1)
	assert.Equal(t, ids[0], doors[0].WallID)
	assert.InDelta(t, 64.8, doors[0].Width, 1e-9)

	fit, ok := s.TakeFitRequest()
	require.True(t, ok)
	assert.InDelta(t, 720.0, fit.Width, 1e-9)
	_, ok = s.TakeFitRequest()
	assert.False(t, ok)

	assert.True(t, s.CanUndo())
}

func TestDeleteWallRemovesItsDoors(t *testing.T) {
	s := newStore(t)
	wallID := s.AddWall(models.Wall{StartX: 10, StartY: 10, EndX: 300, EndY: 10, Thickness: 8})
	s.AddDoor(models.Door{WallID: wallID, Position: 1.7, Width: 40})
	require.Len(t, s.Doors(), 1)
	assert.Equal(t, 1.0, s.Doors()[0].Position)

	require.True(t, s.DeleteWall(wallID))
	assert.Empty(t, s.Doors())
	assert.Nil(t, s.WallScale())
}

func TestDeleteTableCascadesToChairs(t *testing.T) {
	s := newStore(t)
	placement, err := s.AddTable(TableRequest{Type: models.TableOval, Seats: 6})
	require.NoError(t, err)
	s.SetSelection(append([]string{placement.TableID}, placement.ChairIDs...))

	require.True(t, s.DeleteElement(placement.TableID))
	assert.Empty(t, s.Elements())
	assert.Empty(t, s.Selection())
}

func TestDeleteChairDetachesFromTable(t *testing.T) {
	s := newStore(t)
	placement, err := s.AddTable(TableRequest{Type: models.TableRound, Seats: 3})
	require.NoError(t, err)

	require.True(t, s.DeleteElement(placement.ChairIDs[1]))
	table, _ := s.GetElementByID(placement.TableID)
	assert.Equal(t, []string{placement.ChairIDs[0], placement.ChairIDs[2]}, table.Table.ChairIDs)
	_, ok := s.ParentTable(placement.ChairIDs[1])
	assert.False(t, ok)
}

func TestAddChairLinksToParentTable(t *testing.T) {
	s := newStore(t)
	tableID := s.AddElement(models.Element{X: 100, Y: 100, Width: 80, Height: 80,
		Table: &models.TableData{Type: models.TableRound, Seats: 1}})

	chairID := s.AddElement(models.Element{X: 60, Y: 100, Width: 20, Height: 20,
		Chair: &models.ChairData{ParentTableID: tableID}})

	table, _ := s.GetElementByID(tableID)
	assert.Equal(t, []string{chairID}, table.Table.ChairIDs)
}

func TestResizeElementDoesNotTouchChairs(t *testing.T) {
	s := newStore(t)
	placement, err := s.AddTable(TableRequest{Type: models.TableRound, Seats: 2})
	require.NoError(t, err)
	before := s.GetChildElements(placement.TableID)

	require.True(t, s.ResizeElement(placement.TableID, 200, 5))
	table, _ := s.GetElementByID(placement.TableID)
	assert.Equal(t, 200.0, table.Width)
	assert.Equal(t, geometry.DefaultMinSize, table.Height)
	assert.Equal(t, before, s.GetChildElements(placement.TableID))
}

func TestRotateElementWrapsDegrees(t *testing.T) {
	s := newStore(t)
	id := s.AddElement(models.Element{Width: 20, Height: 20})

	s.RotateElement(id, -90)
	e, _ := s.GetElementByID(id)
	assert.Equal(t, 270.0, e.Rotation)
}

func TestReinitializeIsolatesProjects(t *testing.T) {
	s := newStore(t)
	s.AddElement(models.Element{Width: 20, Height: 20})
	s.AddWall(models.Wall{EndX: 100})
	s.RecordSnapshot("add")
	require.True(t, s.CanUndo())

	require.NoError(t, s.Initialize("project-b", a4, nil))
	assert.Equal(t, "project-b", s.ProjectID())
	assert.Empty(t, s.Elements())
	assert.Empty(t, s.Walls())
	assert.False(t, s.CanUndo())
	assert.False(t, s.CanRedo())
	assert.Nil(t, s.WallScale())
}

func TestInitializeClampsLoadedData(t *testing.T) {
	s := New(Options{NewID: sequentialIDs()})
	data := &models.CanvasData{
		Shapes: []models.Element{
			{ID: "e1", X: -50, Y: 2000, Width: 100, Height: 100},
			{ID: "e2", X: 10, Y: 10, Width: 100, Height: 100},
		},
		Walls:       []models.Wall{{ID: "w1", StartX: -10, StartY: 5, EndX: 900, EndY: 5}},
		PowerPoints: []models.PowerPoint{{ID: "pp1", X: 50, Y: 50}},
	}
	require.NoError(t, s.Initialize("p", a4, data))
	assert.Equal(t, 2, s.ClampedOnLoad())

	e, ok := s.GetElementByID("e1")
	require.True(t, ok)
	assert.True(t, geometry.IsElementWithinA4(e, a4))
	w, _ := s.GetWallByID("w1")
	assert.True(t, geometry.IsWallWithinA4(w, a4))
	assert.False(t, s.Dirty())

	require.NoError(t, s.Initialize("p", a4, nil))
	assert.Zero(t, s.ClampedOnLoad())
}

func TestUpdateElementReclampsEveryPatch(t *testing.T) {
	s := newStore(t)
	id := s.AddElement(models.Element{Type: "rect", X: 700, Y: 10, Width: 50, Height: 50})

	fill := "#abc"
	rotation := 370.0
	require.True(t, s.UpdateElement(id, models.ElementPatch{Fill: &fill, Rotation: &rotation}))
	e, _ := s.GetElementByID(id)
	assert.Equal(t, "#abc", e.Fill)
	assert.Equal(t, 10.0, e.Rotation)
	assert.Equal(t, 700.0, e.X)
	assert.Equal(t, 50.0, e.Width)

	width := 200.0
	require.True(t, s.UpdateElement(id, models.ElementPatch{Width: &width}))
	e, _ = s.GetElementByID(id)
	assert.True(t, geometry.IsElementWithinA4(e, a4))

	assert.False(t, s.UpdateElement("ghost", models.ElementPatch{Fill: &fill}))
}

func TestUndoRedoRestoresCheckpoints(t *testing.T) {
	s := newStore(t)

	first := s.AddElement(models.Element{Width: 20, Height: 20})
	s.RecordSnapshot("first")
	second := s.AddElement(models.Element{X: 100, Width: 20, Height: 20})
	s.RecordSnapshot("second")

	summary, ok := s.Undo()
	require.True(t, ok)
	assert.Equal(t, "second", summary.ActionLabel)
	assert.Equal(t, []string{first}, s.ElementIDs())

	_, ok = s.Undo()
	require.True(t, ok)
	assert.Empty(t, s.ElementIDs())
	_, ok = s.Undo()
	assert.False(t, ok)

	_, ok = s.Redo()
	require.True(t, ok)
	_, ok = s.Redo()
	require.True(t, ok)
	assert.Equal(t, []string{first, second}, s.ElementIDs())
	assert.False(t, s.CanRedo())
}

func TestRecordAfterUndoDropsRedo(t *testing.T) {
	s := newStore(t)
	s.AddElement(models.Element{Width: 20, Height: 20})
	s.RecordSnapshot("a")
	s.Undo()
	require.True(t, s.CanRedo())

	s.AddElement(models.Element{Width: 30, Height: 30})
	s.RecordSnapshot("b")
	assert.False(t, s.CanRedo())

	past, future := s.History()
	assert.Len(t, past, 1)
	assert.Empty(t, future)
}

func TestCaptureRestoreSkipsHistory(t *testing.T) {
	s := newStore(t)
	id := s.AddElement(models.Element{X: 10, Y: 10, Width: 20, Height: 20})
	snap := s.Capture()

	s.MoveElement(id, 300, 300)
	s.Restore(snap)

	e, _ := s.GetElementByID(id)
	assert.Equal(t, 10.0, e.X)
	assert.False(t, s.CanUndo())
}

func TestSnapshotsAreNotAliased(t *testing.T) {
	s := newStore(t)
	placement, err := s.AddTable(TableRequest{Type: models.TableRound, Seats: 2})
	require.NoError(t, err)
	s.RecordSnapshot("table")

	table, _ := s.GetElementByID(placement.TableID)
	table.Table.ChairIDs[0] = "tampered"
	again, _ := s.GetElementByID(placement.TableID)
	assert.Equal(t, placement.ChairIDs[0], again.Table.ChairIDs[0])

	s.MoveElement(placement.TableID, 0, 0)
	s.RecordSnapshot("move")
	s.Undo()
	restored, _ := s.GetElementByID(placement.TableID)
	assert.Equal(t, table.X, restored.X)
}

func TestGetCanvasDataRoundTrips(t *testing.T) {
	s := newStore(t)
	s.AddTable(TableRequest{Type: models.TableSquare, Seats: 8})
	s.AddWalls([]models.Wall{{StartX: 0, StartY: 0, EndX: 500, EndY: 250}}, nil)
	s.AddPowerPoint(models.PowerPoint{X: 50, Y: 50, Standard: models.StandardUS})
	s.AddText(models.TextElement{X: 10, Y: 10, Text: "Head table"})
	s.AddDrawing(models.DrawingPath{Points: []models.Point{{X: 1, Y: 1}, {X: 2, Y: 2}}})

	data := s.GetCanvasData()
	require.NotNil(t, data.WallScale)

	other := New(Options{})
	require.NoError(t, other.Initialize("copy", a4, &data))
	assert.Equal(t, s.Elements(), other.Elements())
	assert.Equal(t, s.Walls(), other.Walls())
	assert.Equal(t, s.PowerPoints(), other.PowerPoints())
	assert.InDelta(t, s.PxPerMeter(), other.PxPerMeter(), 1e-9)
}

func TestPowerPointDefaults(t *testing.T) {
	s := newStore(t)
	eu := s.AddPowerPoint(models.PowerPoint{X: -20, Y: 20})
	us := s.AddPowerPoint(models.PowerPoint{X: 20, Y: 20, Standard: models.StandardUS, CircuitID: "c1"})

	byCircuit := s.PowerPointsByCircuit()
	require.Len(t, byCircuit[""], 1)
	require.Len(t, byCircuit["c1"], 1)

	assert.Equal(t, eu, byCircuit[""][0].ID)
	assert.Equal(t, 0.0, byCircuit[""][0].X)
	assert.Equal(t, 230.0, byCircuit[""][0].Voltage)
	assert.Equal(t, 16.0, byCircuit[""][0].BreakerAmps)
	assert.Equal(t, us, byCircuit["c1"][0].ID)
	assert.Equal(t, 120.0, byCircuit["c1"][0].Voltage)
	assert.True(t, byCircuit["c1"][0].Electrical)
}

func TestSetChairAssignment(t *testing.T) {
	s := newStore(t)
	placement, err := s.AddTable(TableRequest{Type: models.TableRound, Seats: 2})
	require.NoError(t, err)

	require.True(t, s.SetChairAssignment(placement.ChairIDs[0], &models.Assignment{GuestID: "g1", GuestName: "Ana"}))
	chair, _ := s.GetElementByID(placement.ChairIDs[0])
	assert.Equal(t, "g1", chair.Chair.AssignedGuestID)

	require.True(t, s.SetChairAssignment(placement.ChairIDs[0], nil))
	chair, _ = s.GetElementByID(placement.ChairIDs[0])
	assert.Empty(t, chair.Chair.AssignedGuestID)

	assert.False(t, s.SetChairAssignment(placement.TableID, nil))
}

func TestChairsStayInsideSmallPage(t *testing.T) {
	s := New(Options{NewID: sequentialIDs()})
	require.NoError(t, s.Initialize("tiny", models.Bounds{Width: 100, Height: 100}, nil))

	placement, err := s.AddTable(TableRequest{Type: models.TableRound, Seats: 10})
	require.NoError(t, err)
	for _, c := range s.GetChildElements(placement.TableID) {
		assert.True(t, geometry.IsElementWithinA4(c, s.Bounds()), "chair %s at %v,%v", c.ID, c.X, c.Y)
		assert.False(t, math.IsNaN(c.X))
	}
}
