package importer

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"wedding-layout/internal/layout/models"
)

// ============================================================
// SVG floor plans
// ============================================================

type svgDoc struct {
	XMLName xml.Name `xml:"svg"`
	svgGroup
}

type svgGroup struct {
	Rects  []svgRect  `xml:"rect"`
	Paths  []svgPath  `xml:"path"`
	Groups []svgGroup `xml:"g"`
}

type svgRect struct {
	ID     string  `xml:"id,attr"`
	X      float64 `xml:"x,attr"`
	Y      float64 `xml:"y,attr"`
	Width  float64 `xml:"width,attr"`
	Height float64 `xml:"height,attr"`
}

type svgPath struct {
	ID string `xml:"id,attr"`
	D  string `xml:"d,attr"`
}

type shapeKind int

const (
	kindOther shapeKind = iota
	kindWall
	kindDoor
)

// shape is one recognised element reduced to its outline points.
type shape struct {
	id     string
	kind   shapeKind
	points []models.Point
}

func (s shape) bounds() models.Rect { return pointsBounds(s.points) }

// Result is what Import hands to the canvas store's wall import.
type Result struct {
	Walls []models.Wall `json:"walls"`
	Doors []models.Door `json:"doors"`
}

// Import reads an SVG floor plan. Elements with ids starting with Wall_ become
// walls, Door_ become doors attached to the nearest wall. Everything else is ignored.
func Import(r io.Reader) (Result, error) {
	shapes, err := parseSVG(r)
	if err != nil {
		return Result{}, err
	}

	var walls, doors []shape
	for _, s := range shapes {
		switch s.kind {
		case kindWall:
			walls = append(walls, s)
		case kindDoor:
			doors = append(doors, s)
		}
	}
	if len(walls) == 0 {
		return Result{}, fmt.Errorf("svg has no Wall_ elements")
	}

	res := Result{Walls: buildWalls(walls)}
	res.Doors = attachDoors(doors, res.Walls)
	return res, nil
}

func parseSVG(r io.Reader) ([]shape, error) {
	var doc svgDoc
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse svg: %w", err)
	}
	var out []shape
	collectShapes(doc.svgGroup, &out)
	return out, nil
}

// collectShapes walks nested <g> groups in document order.
func collectShapes(doc svgGroup, out *[]shape) {
	for _, r := range doc.Rects {
		kind := classify(r.ID)
		if kind == kindOther {
			continue
		}
		*out = append(*out, shape{id: r.ID, kind: kind, points: []models.Point{
			{X: r.X, Y: r.Y},
			{X: r.X + r.Width, Y: r.Y},
			{X: r.X + r.Width, Y: r.Y + r.Height},
			{X: r.X, Y: r.Y + r.Height},
		}})
	}
	for _, p := range doc.Paths {
		kind := classify(p.ID)
		if kind == kindOther {
			continue
		}
		points, err := ParsePath(p.D)
		if err != nil || len(points) < 2 {
			continue
		}
		*out = append(*out, shape{id: p.ID, kind: kind, points: points})
	}
	for _, g := range doc.Groups {
		collectShapes(g, out)
	}
}

func classify(id string) shapeKind {
	switch {
	case strings.HasPrefix(id, "Wall_"):
		return kindWall
	case strings.HasPrefix(id, "Door_"):
		return kindDoor
	}
	return kindOther
}
