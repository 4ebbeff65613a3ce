package models

import "time"

// ============================================================
// Geometry primitives
// ============================================================

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an axis-aligned rectangle anchored at its top-left corner.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Bounds is the A4 page every entity has to stay within.
type Bounds = Rect

type ViewBox = Rect

// ============================================================
// Elements
// ============================================================

type ElementKind string

const (
	KindGeneric ElementKind = "generic"
	KindTable   ElementKind = "table"
	KindChair   ElementKind = "chair"
	KindCustom  ElementKind = "custom"
	KindSpace   ElementKind = "space"
)

// WallLayoutSpaceID marks elements placed relative to the wall layout instead of a space.
const WallLayoutSpaceID = "__walls__"

type TableType string

const (
	TableRound       TableType = "round"
	TableRectangular TableType = "rectangular"
	TableSquare      TableType = "square"
	TableOval        TableType = "oval"
)

type SizeMeters struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type TableData struct {
	Type             TableType  `json:"type"`
	Size             string     `json:"size,omitempty"`
	Seats            int        `json:"seats"`
	ActualSizeMeters SizeMeters `json:"actualSizeMeters"`
	ChairIDs         []string   `json:"chairIds"`
}

type ChairData struct {
	ParentTableID     string `json:"parentTableId"`
	SeatIndex         int    `json:"seatIndex"`
	AssignedGuestID   string `json:"assignedGuestId,omitempty"`
	AssignedGuestName string `json:"assignedGuestName,omitempty"`
	DietaryType       string `json:"dietaryType,omitempty"`
}

// Assignment is the guest metadata attached to a chair.
type Assignment struct {
	GuestID     string `json:"guestId"`
	GuestName   string `json:"guestName"`
	DietaryType string `json:"dietaryType,omitempty"`
}

type CustomShape struct {
	Path  string  `json:"path"`
	Scale float64 `json:"scale"`
}

type SpaceData struct {
	WidthMeters  float64 `json:"widthMeters"`
	HeightMeters float64 `json:"heightMeters"`
	PxPerMeter   float64 `json:"pxPerMeter"`
}

// Element is any placeable shape. At most one of Table, Chair, Custom, Space is set.
type Element struct {
	ID              string       `json:"id"`
	Type            string       `json:"type"`
	X               float64      `json:"x"`
	Y               float64      `json:"y"`
	Width           float64      `json:"width"`
	Height          float64      `json:"height"`
	Rotation        float64      `json:"rotation"`
	Fill            string       `json:"fill,omitempty"`
	Stroke          string       `json:"stroke,omitempty"`
	StrokeWidth     float64      `json:"strokeWidth,omitempty"`
	Label           string       `json:"label,omitempty"`
	Table           *TableData   `json:"tableData,omitempty"`
	Chair           *ChairData   `json:"chairData,omitempty"`
	Custom          *CustomShape `json:"customShape,omitempty"`
	Space           *SpaceData   `json:"spaceData,omitempty"`
	AttachedSpaceID string       `json:"attachedSpaceId,omitempty"`
}

// Kind narrows the element to its variant.
func (e Element) Kind() ElementKind {
	switch {
	case e.Table != nil:
		return KindTable
	case e.Chair != nil:
		return KindChair
	case e.Space != nil:
		return KindSpace
	case e.Custom != nil:
		return KindCustom
	}
	return KindGeneric
}

func (e Element) AsTable() (*TableData, bool) {
	if e.Kind() != KindTable {
		return nil, false
	}
	return e.Table, true
}

func (e Element) AsChair() (*ChairData, bool) {
	if e.Kind() != KindChair {
		return nil, false
	}
	return e.Chair, true
}

func (e Element) AsSpace() (*SpaceData, bool) {
	if e.Kind() != KindSpace {
		return nil, false
	}
	return e.Space, true
}

func (e Element) Rect() Rect {
	return Rect{X: e.X, Y: e.Y, Width: e.Width, Height: e.Height}
}

func (e Element) Center() Point {
	return Point{X: e.X + e.Width/2, Y: e.Y + e.Height/2}
}

// Clone copies the variant payloads so the copy can be changed independently.
func (e Element) Clone() Element {
	if e.Table != nil {
		t := *e.Table
		t.ChairIDs = append([]string(nil), e.Table.ChairIDs...)
		e.Table = &t
	}
	if e.Chair != nil {
		c := *e.Chair
		e.Chair = &c
	}
	if e.Custom != nil {
		c := *e.Custom
		e.Custom = &c
	}
	if e.Space != nil {
		s := *e.Space
		e.Space = &s
	}
	return e
}

// ElementPatch carries the fields of a partial element update. Nil fields are left untouched.
type ElementPatch struct {
	Type            *string      `json:"type,omitempty"`
	X               *float64     `json:"x,omitempty"`
	Y               *float64     `json:"y,omitempty"`
	Width           *float64     `json:"width,omitempty"`
	Height          *float64     `json:"height,omitempty"`
	Rotation        *float64     `json:"rotation,omitempty"`
	Fill            *string      `json:"fill,omitempty"`
	Stroke          *string      `json:"stroke,omitempty"`
	StrokeWidth     *float64     `json:"strokeWidth,omitempty"`
	Label           *string      `json:"label,omitempty"`
	Custom          *CustomShape `json:"customShape,omitempty"`
	Space           *SpaceData   `json:"spaceData,omitempty"`
	AttachedSpaceID *string      `json:"attachedSpaceId,omitempty"`
}

// ============================================================
// Walls & doors
// ============================================================

type Wall struct {
	ID               string  `json:"id"`
	StartX           float64 `json:"startX"`
	StartY           float64 `json:"startY"`
	EndX             float64 `json:"endX"`
	EndY             float64 `json:"endY"`
	Thickness        float64 `json:"thickness"`
	Length           float64 `json:"length,omitempty"`
	OriginalLengthPx float64 `json:"originalLengthPx,omitempty"`
	PxPerMeter       float64 `json:"pxPerMeter,omitempty"`
	Color            string  `json:"color,omitempty"`
}

func (w Wall) Start() Point { return Point{X: w.StartX, Y: w.StartY} }
func (w Wall) End() Point   { return Point{X: w.EndX, Y: w.EndY} }

type WallPatch struct {
	StartX    *float64 `json:"startX,omitempty"`
	StartY    *float64 `json:"startY,omitempty"`
	EndX      *float64 `json:"endX,omitempty"`
	EndY      *float64 `json:"endY,omitempty"`
	Thickness *float64 `json:"thickness,omitempty"`
	Color     *string  `json:"color,omitempty"`
}

type Door struct {
	ID               string  `json:"id"`
	WallID           string  `json:"wallId"`
	Position         float64 `json:"position"`
	Width            float64 `json:"width"`
	OpeningDirection string  `json:"openingDirection"`
	HingeSide        string  `json:"hingeSide,omitempty"`
}

type DoorPatch struct {
	Position         *float64 `json:"position,omitempty"`
	Width            *float64 `json:"width,omitempty"`
	OpeningDirection *string  `json:"openingDirection,omitempty"`
	HingeSide        *string  `json:"hingeSide,omitempty"`
}

// ============================================================
// Power points
// ============================================================

type ElectricalStandard string

const (
	StandardEU ElectricalStandard = "EU_PT"
	StandardUS ElectricalStandard = "US_NEC"
)

type PowerPoint struct {
	ID          string             `json:"id"`
	X           float64            `json:"x"`
	Y           float64            `json:"y"`
	Electrical  bool               `json:"electrical"`
	Standard    ElectricalStandard `json:"standard"`
	BreakerAmps float64            `json:"breaker_amps"`
	Voltage     float64            `json:"voltage"`
	Label       string             `json:"label,omitempty"`
	CircuitID   string             `json:"circuitId,omitempty"`
}

type PowerPointPatch struct {
	X           *float64            `json:"x,omitempty"`
	Y           *float64            `json:"y,omitempty"`
	Standard    *ElectricalStandard `json:"standard,omitempty"`
	BreakerAmps *float64            `json:"breaker_amps,omitempty"`
	Voltage     *float64            `json:"voltage,omitempty"`
	Label       *string             `json:"label,omitempty"`
	CircuitID   *string             `json:"circuitId,omitempty"`
}

// ============================================================
// Freehand & text
// ============================================================

type DrawingPath struct {
	ID          string  `json:"id"`
	Points      []Point `json:"points"`
	Stroke      string  `json:"stroke,omitempty"`
	StrokeWidth float64 `json:"strokeWidth,omitempty"`
}

type TextElement struct {
	ID       string  `json:"id"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Text     string  `json:"text"`
	FontSize float64 `json:"fontSize,omitempty"`
	Color    string  `json:"color,omitempty"`
}

type TextPatch struct {
	X        *float64 `json:"x,omitempty"`
	Y        *float64 `json:"y,omitempty"`
	Text     *string  `json:"text,omitempty"`
	FontSize *float64 `json:"fontSize,omitempty"`
	Color    *string  `json:"color,omitempty"`
}

// ============================================================
// Derived & exported state
// ============================================================

type WallScaleInfo struct {
	PxPerMeter float64 `json:"pxPerMeter"`
	Bounds     *Rect   `json:"bounds,omitempty"`
}

// CanvasData is the denormalized snapshot exchanged with persistence.
type CanvasData struct {
	Bounds       *Bounds        `json:"a4Bounds,omitempty"`
	Shapes       []Element      `json:"shapes"`
	Walls        []Wall         `json:"walls"`
	Doors        []Door         `json:"doors"`
	PowerPoints  []PowerPoint   `json:"powerPoints"`
	Drawings     []DrawingPath  `json:"drawings"`
	TextElements []TextElement  `json:"textElements"`
	ViewBox      *ViewBox       `json:"viewBox,omitempty"`
	WallScale    *WallScaleInfo `json:"wallScale,omitempty"`
}

// HistorySummary describes one checkpoint without its snapshots.
type HistorySummary struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	ActionType  string    `json:"actionType"`
	ActionLabel string    `json:"actionLabel"`
}
