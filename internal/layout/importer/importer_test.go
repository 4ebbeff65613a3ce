package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wedding-layout/internal/layout/models"
)

const hallSVG = `<svg xmlns="http://www.w3.org/2000/svg" width="1000" height="600">
  <rect id="Wall_top" x="0" y="0" width="1000" height="10"/>
  <g id="inner">
    <rect id="Wall_left" x="0" y="0" width="10" height="600"/>
    <path id="Wall_mid" d="M500 0 h10 v600 h-10 Z"/>
  </g>
  <rect id="Door_main" x="400" y="0" width="90" height="10"/>
  <rect id="Decor_1" x="100" y="100" width="50" height="50"/>
</svg>`

func TestImportBuildsJoinedWalls(t *testing.T) {
	res, err := Import(strings.NewReader(hallSVG))
	require.NoError(t, err)

	require.Len(t, res.Walls, 4)
	byID := map[string]models.Wall{}
	for _, w := range res.Walls {
		byID[w.ID] = w
	}

	assert.Equal(t, models.Wall{ID: "Wall_top_1", StartX: 5, StartY: 5, EndX: 505, EndY: 5, Thickness: 10, Length: 500}, byID["Wall_top_1"])
	assert.Equal(t, models.Wall{ID: "Wall_top_2", StartX: 505, StartY: 5, EndX: 1000, EndY: 5, Thickness: 10, Length: 495}, byID["Wall_top_2"])
	assert.Equal(t, models.Wall{ID: "Wall_left", StartX: 5, StartY: 5, EndX: 5, EndY: 600, Thickness: 10, Length: 595}, byID["Wall_left"])
	assert.Equal(t, 505.0, byID["Wall_mid"].StartX)
	assert.Equal(t, 5.0, byID["Wall_mid"].StartY)
}

func TestImportAttachesDoorToNearestWall(t *testing.T) {
	res, err := Import(strings.NewReader(hallSVG))
	require.NoError(t, err)

	require.Len(t, res.Doors, 1)
	d := res.Doors[0]
	assert.Equal(t, "Door_main", d.ID)
	assert.Equal(t, "Wall_top_1", d.WallID)
	assert.InDelta(t, 0.88, d.Position, 1e-9)
	assert.Equal(t, 90.0, d.Width)
}

func TestImportRejectsPlansWithoutWalls(t *testing.T) {
	_, err := Import(strings.NewReader(`<svg><rect id="Door_1" width="10" height="10"/></svg>`))
	assert.Error(t, err)

	_, err = Import(strings.NewReader(`not xml`))
	assert.Error(t, err)
}

func TestParsePath(t *testing.T) {
	points, err := ParsePath("M10,10 l20 0 V40 h-20 z")
	require.NoError(t, err)
	assert.Equal(t, []models.Point{{X: 10, Y: 10}, {X: 30, Y: 10}, {X: 30, Y: 40}, {X: 10, Y: 40}, {X: 10, Y: 10}}, points)

	points, err = ParsePath("M0 0 10 0 10 10")
	require.NoError(t, err)
	assert.Len(t, points, 3)

	_, err = ParsePath("   ")
	assert.Error(t, err)
}

func TestPathBounds(t *testing.T) {
	r, err := PathBounds("M5 5 L45 5 L25 35 Z")
	require.NoError(t, err)
	assert.Equal(t, models.Rect{X: 5, Y: 5, Width: 40, Height: 30}, r)
}
