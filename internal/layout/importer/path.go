package importer

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"wedding-layout/internal/layout/models"
)

// ============================================================
// Path data
// ============================================================

var pathCommand = regexp.MustCompile(`([MmLlHhVvZz])([^MmLlHhVvZz]*)`)

// ParsePath turns SVG path data into the visited points. Only straight-line
// commands are understood (M, L, H, V, Z and their relative forms); implicit
// repeated coordinate pairs after M/L are followed as line-tos.
func ParsePath(d string) ([]models.Point, error) {
	d = strings.TrimSpace(d)
	if d == "" {
		return nil, fmt.Errorf("empty path")
	}

	var points []models.Point
	var cur models.Point

	for _, match := range pathCommand.FindAllStringSubmatch(d, -1) {
		cmd := match[1]
		args := parseCoords(match[2])
		relative := cmd == strings.ToLower(cmd)

		switch strings.ToUpper(cmd) {
		case "M", "L":
			for i := 0; i+1 < len(args); i += 2 {
				if relative {
					cur = models.Point{X: cur.X + args[i], Y: cur.Y + args[i+1]}
				} else {
					cur = models.Point{X: args[i], Y: args[i+1]}
				}
				points = append(points, cur)
			}
		case "H":
			for _, v := range args {
				if relative {
					cur.X += v
				} else {
					cur.X = v
				}
				points = append(points, cur)
			}
		case "V":
			for _, v := range args {
				if relative {
					cur.Y += v
				} else {
					cur.Y = v
				}
				points = append(points, cur)
			}
		case "Z":
			if len(points) > 0 {
				cur = points[0]
				points = append(points, cur)
			}
		}
	}

	if len(points) == 0 {
		return nil, fmt.Errorf("path has no drawable commands")
	}
	return points, nil
}

// PathBounds is the bounding box of the points a path visits. Used to size custom shapes.
func PathBounds(d string) (models.Rect, error) {
	points, err := ParsePath(d)
	if err != nil {
		return models.Rect{}, err
	}
	return pointsBounds(points), nil
}

func pointsBounds(points []models.Point) models.Rect {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range points {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return models.Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

func parseCoords(s string) []float64 {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", " "))
	if s == "" {
		return nil
	}
	var coords []float64
	for _, part := range strings.Fields(s) {
		if v, err := strconv.ParseFloat(part, 64); err == nil {
			coords = append(coords, v)
		}
	}
	return coords
}
