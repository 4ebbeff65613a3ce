package importer

import (
	"fmt"
	"math"
	"sort"

	"wedding-layout/internal/layout/geometry"
	"wedding-layout/internal/layout/models"
)

const (
	// connectTolerance is how far a wall end may fall short of a crossing wall and still split it.
	connectTolerance = 15.0
	// mergeTolerance joins endpoints that nearly coincide after splitting.
	mergeTolerance = 8.0

	defaultDoorWidth = 80.0
)

type segment struct {
	id         string
	horizontal bool
	start, end float64 // along the axis
	constant   float64 // the other coordinate
	thickness  float64
	splits     []float64
}

// meet records a perpendicular wall crossing at pos. A crossing close to an end
// moves that end onto it, so corners join exactly; otherwise the segment is split.
func (s *segment) meet(pos float64) {
	switch {
	case math.Abs(pos-s.start) <= connectTolerance:
		s.start = pos
	case math.Abs(s.end-pos) <= connectTolerance:
		s.end = pos
	default:
		s.splits = append(s.splits, pos)
	}
}

// toSegment collapses an outline onto the center line of its long side;
// the short side becomes the thickness.
func toSegment(s shape) segment {
	b := s.bounds()
	seg := segment{id: s.id, thickness: math.Min(b.Width, b.Height)}
	if b.Width >= b.Height {
		seg.horizontal = true
		seg.start, seg.end = b.X, b.X+b.Width
		seg.constant = b.Y + b.Height/2
	} else {
		seg.start, seg.end = b.Y, b.Y+b.Height
		seg.constant = b.X + b.Width/2
	}
	return seg
}

// buildWalls turns wall outlines into center-line walls, splits them where a
// perpendicular wall meets them and snaps endpoints that nearly touch.
func buildWalls(shapes []shape) []models.Wall {
	segs := make([]*segment, 0, len(shapes))
	for _, s := range shapes {
		seg := toSegment(s)
		segs = append(segs, &seg)
	}

	for i := 0; i < len(segs); i++ {
		for j := i + 1; j < len(segs); j++ {
			a, b := segs[i], segs[j]
			if a.horizontal == b.horizontal {
				continue
			}
			if a.horizontal {
				addIntersection(a, b)
			} else {
				addIntersection(b, a)
			}
		}
	}

	var walls []models.Wall
	for _, seg := range segs {
		points := []float64{seg.start, seg.end}
		for _, p := range seg.splits {
			if p > seg.start && p < seg.end {
				points = append(points, p)
			}
		}
		sort.Float64s(points)
		points = uniquePoints(points)
		parts := len(points) - 1
		for i := 0; i < parts; i++ {
			id := seg.id
			if parts > 1 {
				id = fmt.Sprintf("%s_%d", seg.id, i+1)
			}
			w := models.Wall{ID: id, Thickness: seg.thickness}
			if seg.horizontal {
				w.StartX, w.StartY, w.EndX, w.EndY = points[i], seg.constant, points[i+1], seg.constant
			} else {
				w.StartX, w.StartY, w.EndX, w.EndY = seg.constant, points[i], seg.constant, points[i+1]
			}
			walls = append(walls, w)
		}
	}

	snapEndpoints(walls)
	for i := range walls {
		walls[i].Length = geometry.WallLength(walls[i])
	}
	return walls
}

func addIntersection(h, v *segment) {
	if v.constant < h.start-connectTolerance || v.constant > h.end+connectTolerance {
		return
	}
	if h.constant < v.start-connectTolerance || h.constant > v.end+connectTolerance {
		return
	}
	h.meet(v.constant)
	v.meet(h.constant)
}

// snapEndpoints moves endpoints within mergeTolerance of an earlier endpoint onto it.
func snapEndpoints(walls []models.Wall) {
	var anchors []models.Point
	snap := func(x, y float64) (float64, float64) {
		p := models.Point{X: x, Y: y}
		for _, a := range anchors {
			if geometry.Distance(a, p) <= mergeTolerance {
				return a.X, a.Y
			}
		}
		anchors = append(anchors, p)
		return x, y
	}
	for i := range walls {
		walls[i].StartX, walls[i].StartY = snap(walls[i].StartX, walls[i].StartY)
		walls[i].EndX, walls[i].EndY = snap(walls[i].EndX, walls[i].EndY)
	}
}

func uniquePoints(points []float64) []float64 {
	if len(points) == 0 {
		return points
	}
	out := points[:1]
	for _, p := range points[1:] {
		if math.Abs(p-out[len(out)-1]) > 1e-6 {
			out = append(out, p)
		}
	}
	return out
}

// ============================================================
// Doors
// ============================================================

// attachDoors hangs each door on the wall nearest to its center; position is the
// projection of the center onto that wall.
func attachDoors(doors []shape, walls []models.Wall) []models.Door {
	var out []models.Door
	for _, d := range doors {
		b := d.bounds()
		center := geometry.Center(b)

		wallID, t, ok := nearestWall(center, walls)
		if !ok {
			continue
		}
		width := math.Max(b.Width, b.Height)
		if width <= 0 {
			width = defaultDoorWidth
		}
		out = append(out, models.Door{
			ID:               d.id,
			WallID:           wallID,
			Position:         t,
			Width:            width,
			OpeningDirection: "inward",
			HingeSide:        "left",
		})
	}
	return out
}

func nearestWall(p models.Point, walls []models.Wall) (string, float64, bool) {
	best, bestT := "", 0.0
	bestDist := math.Inf(1)
	for _, w := range walls {
		dist, t := projectOnto(p, w)
		if dist < bestDist {
			best, bestT, bestDist = w.ID, t, dist
		}
	}
	return best, bestT, best != ""
}

// projectOnto returns the distance from p to the wall and the clamped position along it.
func projectOnto(p models.Point, w models.Wall) (float64, float64) {
	dx, dy := w.EndX-w.StartX, w.EndY-w.StartY
	lenSq := dx*dx + dy*dy
	if lenSq == 0 {
		return geometry.Distance(p, w.Start()), 0
	}
	t := geometry.Clamp(((p.X-w.StartX)*dx+(p.Y-w.StartY)*dy)/lenSq, 0, 1)
	proj := models.Point{X: w.StartX + t*dx, Y: w.StartY + t*dy}
	return geometry.Distance(p, proj), t
}
