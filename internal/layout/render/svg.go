package render

import (
	"fmt"
	"html"
	"math"
	"strconv"
	"strings"

	"wedding-layout/internal/layout/models"
)

// ============================================================
// SVG export
// ============================================================

const (
	defaultWallThickness = 10.0
	powerPointRadius     = 6.0
)

// SVG renders a canvas snapshot as one SVG document whose viewBox is the page bounds.
// Layers are drawn bottom to top: walls, doors, elements in insertion order, power
// points, drawings, text.
func SVG(data models.CanvasData) (string, error) {
	if data.Bounds == nil || data.Bounds.Width <= 0 || data.Bounds.Height <= 0 {
		return "", fmt.Errorf("canvas has no page bounds")
	}
	b := *data.Bounds

	var elements []string
	elements = append(elements, renderWalls(data.Walls)...)
	elements = append(elements, renderDoors(data.Doors, data.Walls)...)
	elements = append(elements, renderElements(data.Shapes)...)
	elements = append(elements, renderPowerPoints(data.PowerPoints)...)
	elements = append(elements, renderDrawings(data.Drawings)...)
	elements = append(elements, renderTexts(data.TextElements)...)

	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	builder.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="%s %s %s %s">`,
		formatFloat(b.Width), formatFloat(b.Height),
		formatFloat(b.X), formatFloat(b.Y), formatFloat(b.Width), formatFloat(b.Height)))
	builder.WriteString("\n")
	builder.WriteString(fmt.Sprintf(`  <rect x="%s" y="%s" width="%s" height="%s" fill="#fff" />`,
		formatFloat(b.X), formatFloat(b.Y), formatFloat(b.Width), formatFloat(b.Height)))
	builder.WriteString("\n")

	for _, elem := range elements {
		builder.WriteString("  ")
		builder.WriteString(elem)
		builder.WriteString("\n")
	}

	builder.WriteString(`</svg>`)
	return builder.String(), nil
}

// ============================================================
// Layers
// ============================================================

func renderWalls(walls []models.Wall) []string {
	out := make([]string, 0, len(walls))
	for _, w := range walls {
		thickness := w.Thickness
		if thickness <= 0 {
			thickness = defaultWallThickness
		}
		color := w.Color
		if color == "" {
			color = "#333"
		}
		out = append(out, fmt.Sprintf(`<line id="%s" x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="%s" stroke-linecap="square" />`,
			attr(w.ID), formatFloat(w.StartX), formatFloat(w.StartY), formatFloat(w.EndX), formatFloat(w.EndY),
			attr(color), formatFloat(thickness)))
	}
	return out
}

// renderDoors draws each door as a gap along its wall plus a quarter-circle swing.
func renderDoors(doors []models.Door, walls []models.Wall) []string {
	byID := make(map[string]models.Wall, len(walls))
	for _, w := range walls {
		byID[w.ID] = w
	}

	var out []string
	for _, d := range doors {
		w, ok := byID[d.WallID]
		if !ok {
			continue
		}
		dx, dy := w.EndX-w.StartX, w.EndY-w.StartY
		length := math.Hypot(dx, dy)
		if length == 0 {
			continue
		}
		ux, uy := dx/length, dy/length
		pos := clamp(d.Position, 0, 1)
		cx, cy := w.StartX+dx*pos, w.StartY+dy*pos
		half := d.Width / 2

		hinge := models.Point{X: cx - ux*half, Y: cy - uy*half}
		free := models.Point{X: cx + ux*half, Y: cy + uy*half}
		if d.HingeSide == "right" {
			hinge, free = free, hinge
		}
		// Swing side: normal of the wall, flipped for outward doors.
		nx, ny := -uy, ux
		if d.OpeningDirection == "outward" {
			nx, ny = -nx, -ny
		}
		open := models.Point{X: hinge.X + nx*d.Width, Y: hinge.Y + ny*d.Width}

		thickness := w.Thickness
		if thickness <= 0 {
			thickness = defaultWallThickness
		}
		out = append(out,
			fmt.Sprintf(`<line id="%s-gap" x1="%s" y1="%s" x2="%s" y2="%s" stroke="#fff" stroke-width="%s" />`,
				attr(d.ID), formatFloat(hinge.X), formatFloat(hinge.Y), formatFloat(free.X), formatFloat(free.Y), formatFloat(thickness+1)),
			fmt.Sprintf(`<path id="%s" d="M %s L %s A %s %s 0 0 1 %s" fill="none" stroke="#d62728" />`,
				attr(d.ID), formatPoint(hinge), formatPoint(open), formatFloat(d.Width), formatFloat(d.Width), formatPoint(free)),
		)
	}
	return out
}

func renderElements(shapes []models.Element) []string {
	out := make([]string, 0, len(shapes))
	for _, e := range shapes {
		c := e.Center()
		style := fmt.Sprintf(`fill="%s" stroke="%s" stroke-width="%s"`,
			attr(orDefault(e.Fill, "none")), attr(orDefault(e.Stroke, "#000")), formatFloat(orOne(e.StrokeWidth)))
		transform := ""
		if e.Rotation != 0 {
			transform = fmt.Sprintf(` transform="rotate(%s %s %s)"`, formatFloat(e.Rotation), formatFloat(c.X), formatFloat(c.Y))
		}

		var shape string
		switch {
		case e.Kind() == models.KindCustom && e.Custom.Path != "":
			sc := e.Custom.Scale
			if sc <= 0 {
				sc = 1
			}
			// Custom paths already carry a transform, so rotation goes on a wrapping group.
			shape = fmt.Sprintf(`<g%s><path id="%s" d="%s" transform="translate(%s %s) scale(%s)" %s /></g>`,
				transform, attr(e.ID), attr(e.Custom.Path), formatFloat(e.X), formatFloat(e.Y), formatFloat(sc), style)
		case isRound(e):
			shape = fmt.Sprintf(`<ellipse id="%s" cx="%s" cy="%s" rx="%s" ry="%s" %s%s />`,
				attr(e.ID), formatFloat(c.X), formatFloat(c.Y), formatFloat(e.Width/2), formatFloat(e.Height/2), style, transform)
		default:
			shape = fmt.Sprintf(`<rect id="%s" x="%s" y="%s" width="%s" height="%s" %s%s />`,
				attr(e.ID), formatFloat(e.X), formatFloat(e.Y), formatFloat(e.Width), formatFloat(e.Height), style, transform)
		}
		out = append(out, shape)

		if label := elementLabel(e); label != "" {
			out = append(out, fmt.Sprintf(`<text x="%s" y="%s" font-size="10" text-anchor="middle" dominant-baseline="middle">%s</text>`,
				formatFloat(c.X), formatFloat(c.Y), html.EscapeString(label)))
		}
	}
	return out
}

func isRound(e models.Element) bool {
	if t, ok := e.AsTable(); ok {
		return t.Type == models.TableRound || t.Type == models.TableOval
	}
	return e.Type == "circle" || e.Type == "ellipse"
}

// elementLabel prefers the seated guest's name for chairs.
func elementLabel(e models.Element) string {
	if c, ok := e.AsChair(); ok && c.AssignedGuestName != "" {
		return c.AssignedGuestName
	}
	return e.Label
}

func renderPowerPoints(points []models.PowerPoint) []string {
	out := make([]string, 0, len(points))
	for _, p := range points {
		color := "#f0ad4e"
		if p.Standard == models.StandardUS {
			color = "#5bc0de"
		}
		out = append(out, fmt.Sprintf(`<circle id="%s" cx="%s" cy="%s" r="%s" fill="%s" stroke="#000" />`,
			attr(p.ID), formatFloat(p.X), formatFloat(p.Y), formatFloat(powerPointRadius), color))
	}
	return out
}

func renderDrawings(drawings []models.DrawingPath) []string {
	var out []string
	for _, d := range drawings {
		if len(d.Points) < 2 {
			continue
		}
		var path strings.Builder
		path.WriteString(`<path id="`)
		path.WriteString(attr(d.ID))
		path.WriteString(`" d="M `)
		path.WriteString(formatPoint(d.Points[0]))
		for _, p := range d.Points[1:] {
			path.WriteString(" L ")
			path.WriteString(formatPoint(p))
		}
		path.WriteString(fmt.Sprintf(`" fill="none" stroke="%s" stroke-width="%s" />`,
			attr(orDefault(d.Stroke, "#000")), formatFloat(orOne(d.StrokeWidth))))
		out = append(out, path.String())
	}
	return out
}

func renderTexts(texts []models.TextElement) []string {
	out := make([]string, 0, len(texts))
	for _, t := range texts {
		size := t.FontSize
		if size <= 0 {
			size = 14
		}
		out = append(out, fmt.Sprintf(`<text id="%s" x="%s" y="%s" font-size="%s" fill="%s">%s</text>`,
			attr(t.ID), formatFloat(t.X), formatFloat(t.Y), formatFloat(size), attr(orDefault(t.Color, "#000")),
			html.EscapeString(t.Text)))
	}
	return out
}

// ============================================================
// Formatting helpers
// ============================================================

func clamp(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func orOne(v float64) float64 {
	if v <= 0 {
		return 1
	}
	return v
}

func attr(s string) string {
	return html.EscapeString(s)
}

func formatFloat(val float64) string {
	return strconv.FormatFloat(val, 'f', -1, 64)
}

func formatPoint(p models.Point) string {
	return formatFloat(p.X) + " " + formatFloat(p.Y)
}
