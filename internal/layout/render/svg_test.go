package render

import (
	"encoding/xml"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wedding-layout/internal/layout/models"
)

func sampleCanvas() models.CanvasData {
	return models.CanvasData{
		Bounds: &models.Bounds{X: -400, Y: -566, Width: 1066, Height: 1509},
		Shapes: []models.Element{
			{ID: "t1", X: 0, Y: 0, Width: 150, Height: 150, Rotation: 45,
				Table: &models.TableData{Type: models.TableRound, Seats: 1, ChairIDs: []string{"c1"}}, Label: "Table 1"},
			{ID: "c1", X: 55, Y: -40, Width: 30, Height: 30,
				Chair: &models.ChairData{ParentTableID: "t1", AssignedGuestName: "Ana & Rui"}},
			{ID: "s1", X: 200, Y: 200, Width: 40, Height: 40, Custom: &models.CustomShape{Path: "M0 0 L10 0 L5 10 Z", Scale: 2}},
		},
		Walls:       []models.Wall{{ID: "w1", StartX: -300, StartY: -500, EndX: 500, EndY: -500, Thickness: 12}},
		Doors:       []models.Door{{ID: "d1", WallID: "w1", Position: 0.5, Width: 80}, {ID: "orphan", WallID: "gone"}},
		PowerPoints: []models.PowerPoint{{ID: "p1", X: 10, Y: 10, Standard: models.StandardUS}},
		Drawings:    []models.DrawingPath{{ID: "dr1", Points: []models.Point{{X: 0, Y: 0}, {X: 5, Y: 5}}}},
		TextElements: []models.TextElement{{ID: "x1", X: 1, Y: 2, Text: "<Dance floor>"}},
	}
}

func TestSVGIsWellFormed(t *testing.T) {
	out, err := SVG(sampleCanvas())
	require.NoError(t, err)

	dec := xml.NewDecoder(strings.NewReader(out))
	for {
		_, err := dec.Token()
		if err != nil {
			assert.EqualError(t, err, "EOF")
			break
		}
	}
}

func TestSVGContent(t *testing.T) {
	out, err := SVG(sampleCanvas())
	require.NoError(t, err)

	assert.Contains(t, out, `viewBox="-400 -566 1066 1509"`)
	assert.Contains(t, out, `<line id="w1" x1="-300" y1="-500" x2="500" y2="-500"`)
	assert.Contains(t, out, `<ellipse id="t1" cx="75" cy="75" rx="75" ry="75"`)
	assert.Contains(t, out, `transform="rotate(45 75 75)"`)
	assert.Contains(t, out, `<rect id="c1"`)
	assert.Contains(t, out, `Ana &amp; Rui`)
	assert.Contains(t, out, `&lt;Dance floor&gt;`)
	assert.Contains(t, out, `<path id="d1"`)
	assert.NotContains(t, out, `orphan`)
	assert.Contains(t, out, `<circle id="p1"`)
	assert.Contains(t, out, `<path id="dr1" d="M 0 0 L 5 5"`)
	assert.Contains(t, out, `scale(2)`)
}

func TestSVGRequiresBounds(t *testing.T) {
	_, err := SVG(models.CanvasData{})
	assert.Error(t, err)
}
