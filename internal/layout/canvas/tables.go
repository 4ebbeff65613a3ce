package canvas

import (
	"math"

	"wedding-layout/internal/layout/geometry"
	"wedding-layout/internal/layout/models"
)

// ============================================================
// Table placement
// ============================================================

const (
	chairSizeMeters = 0.45
	chairGapMeters  = 0.10
)

// TableRequest asks for a table of a real-world size. Zero sizes and seat counts
// fall back to per-type defaults.
type TableRequest struct {
	Type         models.TableType
	Size         string
	Seats        int
	WidthMeters  float64
	HeightMeters float64
	SpaceID      string
	Label        string
}

type TablePlacement struct {
	TableID         string   `json:"tableId"`
	ChairIDs        []string `json:"chairIds"`
	PxPerMeter      float64  `json:"pxPerMeter"`
	AttachedSpaceID string   `json:"attachedSpaceId,omitempty"`
}

var tableDefaults = map[models.TableType]struct {
	width, height float64
	seats         int
}{
	models.TableRound:       {width: 1.5, height: 1.5, seats: 8},
	models.TableRectangular: {width: 1.8, height: 0.9, seats: 6},
	models.TableSquare:      {width: 1.2, height: 1.2, seats: 4},
	models.TableOval:        {width: 2.0, height: 1.2, seats: 8},
}

// AddTable places a table with its chairs. The pixels-per-meter source is chosen in
// order: the targeted space, the most recently added space, the wall scale, then the
// default. The table is centered on the chosen space, the walls' bounding box, or the
// page, in that same order.
func (s *Store) AddTable(req TableRequest) (TablePlacement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.initialized {
		return TablePlacement{}, ErrNotInitialized
	}

	req = withTableDefaults(req)
	ppm, center, attached := s.placementReference(req.SpaceID)

	w := req.WidthMeters * ppm
	h := req.HeightMeters * ppm
	table := models.Element{
		ID:       s.opts.NewID(),
		Type:     "table",
		X:        center.X - w/2,
		Y:        center.Y - h/2,
		Width:    w,
		Height:   h,
		Fill:     "#f5f0e6",
		Stroke:   "#8b7355",
		Label:    req.Label,
		Table: &models.TableData{
			Type:             req.Type,
			Size:             req.Size,
			Seats:            req.Seats,
			ActualSizeMeters: models.SizeMeters{Width: req.WidthMeters, Height: req.HeightMeters},
		},
		AttachedSpaceID: attached,
	}
	table = s.clampElement(table)

	chairs := s.layoutChairs(table, req.Seats, ppm)
	for _, c := range chairs {
		table.Table.ChairIDs = append(table.Table.ChairIDs, c.ID)
	}

	s.state.elements = s.state.elements.put(append([]models.Element{table}, chairs...)...)
	s.reindexChairs()
	s.dirty = true

	return TablePlacement{
		TableID:         table.ID,
		ChairIDs:        append([]string(nil), table.Table.ChairIDs...),
		PxPerMeter:      ppm,
		AttachedSpaceID: attached,
	}, nil
}

func withTableDefaults(req TableRequest) TableRequest {
	d, ok := tableDefaults[req.Type]
	if !ok {
		req.Type = models.TableRound
		d = tableDefaults[models.TableRound]
	}
	if req.WidthMeters <= 0 {
		req.WidthMeters = d.width
	}
	if req.HeightMeters <= 0 {
		req.HeightMeters = d.height
		if req.Type == models.TableRound || req.Type == models.TableSquare {
			req.HeightMeters = req.WidthMeters
		}
	}
	if req.Seats <= 0 {
		req.Seats = d.seats
	}
	return req
}

func (s *Store) placementReference(spaceID string) (float64, models.Point, string) {
	if space, ok := s.referenceSpace(spaceID); ok {
		return spaceRatio(space), space.Center(), space.ID
	}
	if s.state.walls.len() > 0 && s.wallScale != nil && s.wallScale.Bounds != nil {
		return s.wallScale.PxPerMeter, geometry.Center(*s.wallScale.Bounds), models.WallLayoutSpaceID
	}
	return s.pxPerMeterLocked(), geometry.Center(s.bounds), ""
}

// referenceSpace returns the targeted space if it carries a usable ratio, otherwise
// the most recently added one that does.
func (s *Store) referenceSpace(spaceID string) (models.Element, bool) {
	if spaceID != "" {
		if e, ok := s.state.elements.get(spaceID); ok && e.Kind() == models.KindSpace && spaceRatio(e) > 0 {
			return e, true
		}
	}
	spaces := s.state.elements.list()
	for i := len(spaces) - 1; i >= 0; i-- {
		if spaces[i].Kind() == models.KindSpace && spaceRatio(spaces[i]) > 0 {
			return spaces[i], true
		}
	}
	return models.Element{}, false
}

func spaceRatio(e models.Element) float64 {
	space, ok := e.AsSpace()
	if !ok {
		return 0
	}
	if space.PxPerMeter > 0 {
		return space.PxPerMeter
	}
	if space.WidthMeters > 0 {
		return e.Width / space.WidthMeters
	}
	return 0
}

// layoutChairs places chairs around a table: evenly on an ellipse for round and oval
// tables, along the long sides for rectangular ones and on all four sides for square ones.
func (s *Store) layoutChairs(table models.Element, seats int, ppm float64) []models.Element {
	size := chairSizeMeters * ppm
	gap := chairGapMeters * ppm
	c := table.Center()

	type seat struct {
		center   models.Point
		rotation float64
	}
	var placed []seat

	switch table.Table.Type {
	case models.TableRound, models.TableOval:
		rx := table.Width/2 + gap + size/2
		ry := table.Height/2 + gap + size/2
		for i := 0; i < seats; i++ {
			angle := -90 + float64(i)*360/float64(seats)
			rad := angle * math.Pi / 180
			placed = append(placed, seat{
				center:   models.Point{X: c.X + rx*math.Cos(rad), Y: c.Y + ry*math.Sin(rad)},
				rotation: angle + 90,
			})
		}
	case models.TableSquare:
		sides := [4]int{}
		for i := 0; i < seats; i++ {
			sides[i%4]++
		}
		for side, count := range sides {
			for i := 0; i < count; i++ {
				t := (float64(i) + 0.5) / float64(count)
				var p models.Point
				switch side {
				case 0:
					p = models.Point{X: table.X + table.Width*t, Y: table.Y - gap - size/2}
				case 1:
					p = models.Point{X: table.X + table.Width + gap + size/2, Y: table.Y + table.Height*t}
				case 2:
					p = models.Point{X: table.X + table.Width*(1-t), Y: table.Y + table.Height + gap + size/2}
				case 3:
					p = models.Point{X: table.X - gap - size/2, Y: table.Y + table.Height*(1-t)}
				}
				placed = append(placed, seat{center: p, rotation: float64(side) * 90})
			}
		}
	default:
		top := (seats + 1) / 2
		bottom := seats / 2
		for i := 0; i < top; i++ {
			t := (float64(i) + 0.5) / float64(top)
			placed = append(placed, seat{center: models.Point{X: table.X + table.Width*t, Y: table.Y - gap - size/2}})
		}
		for i := 0; i < bottom; i++ {
			t := (float64(i) + 0.5) / float64(bottom)
			placed = append(placed, seat{
				center:   models.Point{X: table.X + table.Width*(1-t), Y: table.Y + table.Height + gap + size/2},
				rotation: 180,
			})
		}
	}

	chairs := make([]models.Element, 0, len(placed))
	for i, p := range placed {
		chair := models.Element{
			ID:       s.opts.NewID(),
			Type:     "chair",
			X:        p.center.X - size/2,
			Y:        p.center.Y - size/2,
			Width:    size,
			Height:   size,
			Rotation: p.rotation,
			Fill:     "#ffffff",
			Stroke:   "#8b7355",
			Chair: &models.ChairData{
				ParentTableID: table.ID,
				SeatIndex:     i,
			},
			AttachedSpaceID: table.AttachedSpaceID,
		}
		chairs = append(chairs, s.clampElement(chair))
	}
	return chairs
}
