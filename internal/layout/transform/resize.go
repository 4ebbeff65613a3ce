package transform

import (
	"math"
	"strings"

	"wedding-layout/internal/layout/canvas"
	"wedding-layout/internal/layout/geometry"
	"wedding-layout/internal/layout/models"
)

// MinResizeSize is the smallest width or height a resize gesture produces.
const MinResizeSize = 30.0

// Handle names one of the eight resize handles by compass direction.
type Handle string

const (
	HandleN  Handle = "n"
	HandleS  Handle = "s"
	HandleE  Handle = "e"
	HandleW  Handle = "w"
	HandleNE Handle = "ne"
	HandleNW Handle = "nw"
	HandleSE Handle = "se"
	HandleSW Handle = "sw"
)

func (h Handle) Valid() bool {
	switch h {
	case HandleN, HandleS, HandleE, HandleW, HandleNE, HandleNW, HandleSE, HandleSW:
		return true
	}
	return false
}

func (h Handle) north() bool  { return strings.Contains(string(h), "n") }
func (h Handle) south() bool  { return strings.Contains(string(h), "s") }
func (h Handle) east() bool   { return strings.Contains(string(h), "e") }
func (h Handle) west() bool   { return strings.Contains(string(h), "w") }
func (h Handle) corner() bool { return len(h) == 2 }

// Resize drags one handle of an element. Shift keeps the start aspect ratio, Alt
// resizes around the center. Chairs of a table keep their size; their offsets from
// the table center scale with the table.
type Resize struct {
	base
	id       string
	handle   Handle
	startBox models.Rect
	children map[string]startGeometry
}

func BeginResize(store *canvas.Store, id string, handle Handle, start models.Point) (*Resize, bool) {
	if !handle.Valid() {
		return nil, false
	}
	e, children, ok := captureGroup(store, id)
	if !ok {
		return nil, false
	}
	return &Resize{
		base:     newBase(store, start, "Resize"),
		id:       id,
		handle:   handle,
		startBox: e.Rect(),
		children: children,
	}, true
}

func (r *Resize) Move(p models.Point, mods Modifiers) {
	if r.done {
		return
	}
	next := r.propose(p.X-r.start.X, p.Y-r.start.Y, mods)

	s := r.startBox
	d := geometry.ConstrainResizeDelta(s, geometry.ResizeDelta{
		DX: next.X - s.X,
		DY: next.Y - s.Y,
		DW: next.Width - s.Width,
		DH: next.Height - s.Height,
	}, r.store.Bounds(), MinResizeSize)
	box := models.Rect{X: s.X + d.DX, Y: s.Y + d.DY, Width: s.Width + d.DW, Height: s.Height + d.DH}

	r.store.UpdateElement(r.id, models.ElementPatch{X: &box.X, Y: &box.Y, Width: &box.Width, Height: &box.Height})
	r.placeChildren(box)
	r.dirty = true
}

// propose applies the handle math and modifiers to the start box, then the minimum size.
func (r *Resize) propose(dx, dy float64, mods Modifiers) models.Rect {
	s := r.startBox
	x, y, w, h := s.X, s.Y, s.Width, s.Height
	h0 := r.handle

	if h0.east() {
		w = s.Width + dx
	}
	if h0.west() {
		w = s.Width - dx
	}
	if h0.south() {
		h = s.Height + dy
	}
	if h0.north() {
		h = s.Height - dy
	}

	if mods.Shift && s.Width > 0 && s.Height > 0 {
		ratio := s.Width / s.Height
		widthLeads := h0.east() || h0.west()
		if h0.corner() {
			widthLeads = math.Abs(w/s.Width-1) >= math.Abs(h/s.Height-1)
		}
		if widthLeads {
			h = w / ratio
		} else {
			w = h * ratio
		}
	}

	w = math.Max(w, MinResizeSize)
	h = math.Max(h, MinResizeSize)

	if mods.Alt {
		c := geometry.Center(s)
		return models.Rect{X: c.X - w/2, Y: c.Y - h/2, Width: w, Height: h}
	}

	switch {
	case h0.west():
		x = s.X + s.Width - w
	case !h0.east():
		x = s.X + (s.Width-w)/2
	}
	switch {
	case h0.north():
		y = s.Y + s.Height - h
	case !h0.south():
		y = s.Y + (s.Height-h)/2
	}
	return models.Rect{X: x, Y: y, Width: w, Height: h}
}

func (r *Resize) placeChildren(box models.Rect) {
	if len(r.children) == 0 {
		return
	}
	sx := box.Width / r.startBox.Width
	sy := box.Height / r.startBox.Height
	from := geometry.Center(r.startBox)
	to := geometry.Center(box)
	for id, g := range r.children {
		c := geometry.Center(g.rect)
		nx := to.X + (c.X-from.X)*sx
		ny := to.Y + (c.Y-from.Y)*sy
		r.store.MoveElement(id, nx-g.rect.Width/2, ny-g.rect.Height/2)
	}
}
