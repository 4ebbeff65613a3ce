package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"wedding-layout/internal/common/apierr"
	"wedding-layout/internal/layout/models"
	"wedding-layout/internal/layout/service"
	"wedding-layout/internal/layout/transform"
)

// ============================================================
// History
// ============================================================

type checkpointRequest struct {
	Label string `json:"label" validate:"max=120"`
}

type historyResponse struct {
	Past    []models.HistorySummary `json:"past"`
	Future  []models.HistorySummary `json:"future"`
	CanUndo bool                    `json:"canUndo"`
	CanRedo bool                    `json:"canRedo"`
}

func (h *LayoutHandler) History(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	return c.JSON(historyOf(ws))
}

func (h *LayoutHandler) Checkpoint(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	var req checkpointRequest
	if err := h.decodeOptional(c, &req); err != nil {
		return err
	}
	ws.Store.RecordSnapshot(req.Label)
	return c.JSON(historyOf(ws))
}

// Undo answers 409 when there is nothing to undo.
func (h *LayoutHandler) Undo(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	if _, ok := ws.Store.Undo(); !ok {
		return apierr.Conflict("nothing_to_undo", errors.New("nothing to undo"))
	}
	return c.JSON(historyOf(ws))
}

func (h *LayoutHandler) Redo(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	if _, ok := ws.Store.Redo(); !ok {
		return apierr.Conflict("nothing_to_redo", errors.New("nothing to redo"))
	}
	return c.JSON(historyOf(ws))
}

func historyOf(ws *service.Workspace) historyResponse {
	past, future := ws.Store.History()
	if past == nil {
		past = []models.HistorySummary{}
	}
	if future == nil {
		future = []models.HistorySummary{}
	}
	return historyResponse{Past: past, Future: future, CanUndo: ws.Store.CanUndo(), CanRedo: ws.Store.CanRedo()}
}

// ============================================================
// Selection
// ============================================================

// selectRequest replaces the selection with IDs, a click, a box hit-test, or everything.
type selectRequest struct {
	IDs   []string      `json:"ids"`
	Click *clickRequest `json:"click"`
	Box   *models.Rect  `json:"box"`
	All   bool          `json:"all"`
}

type clickRequest struct {
	ID    string `json:"id"`
	Shift bool   `json:"shift"`
	Ctrl  bool   `json:"ctrl"`
}

func (h *LayoutHandler) Select(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	var req selectRequest
	if err := h.decode(c, &req); err != nil {
		return err
	}

	switch {
	case req.All:
		ws.Selection.SelectAll()
	case req.Click != nil:
		ws.Selection.Click(req.Click.ID, transform.Modifiers{Shift: req.Click.Shift, Ctrl: req.Click.Ctrl})
	case req.Box != nil:
		ws.Selection.Box(*req.Box)
	default:
		ws.Store.SetSelection(req.IDs)
	}
	return c.JSON(selectionOf(ws))
}

func (h *LayoutHandler) ClearSelection(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	ws.Selection.Escape()
	return c.JSON(selectionOf(ws))
}

func selectionOf(ws *service.Workspace) fiber.Map {
	ids := ws.Store.Selection()
	if ids == nil {
		ids = []string{}
	}
	return fiber.Map{"ids": ids, "mode": ws.Selection.Mode()}
}

// ============================================================
// Gestures
// ============================================================

type gestureBeginRequest struct {
	IDs       []string         `json:"ids"`
	ElementID string           `json:"elementId"`
	Handle    transform.Handle `json:"handle"`
	X         float64          `json:"x"`
	Y         float64          `json:"y"`
}

type gestureMoveRequest struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Shift bool    `json:"shift"`
	Ctrl  bool    `json:"ctrl"`
	Alt   bool    `json:"alt"`
}

func (h *LayoutHandler) BeginGesture(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	var req gestureBeginRequest
	if err := h.decode(c, &req); err != nil {
		return err
	}

	err = ws.BeginGesture(service.GestureKind(c.Params("kind")), service.GestureStart{
		IDs:       req.IDs,
		ElementID: req.ElementID,
		Handle:    req.Handle,
		Point:     models.Point{X: req.X, Y: req.Y},
	})
	if err != nil {
		return mapError(err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// MoveGesture applies one pointer move and returns the affected elements.
func (h *LayoutHandler) MoveGesture(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	var req gestureMoveRequest
	if err := h.decode(c, &req); err != nil {
		return err
	}

	mods := transform.Modifiers{Shift: req.Shift, Ctrl: req.Ctrl, Alt: req.Alt}
	if err := ws.MoveGesture(models.Point{X: req.X, Y: req.Y}, mods); err != nil {
		return mapError(err)
	}
	return c.JSON(fiber.Map{"elements": ws.Store.Elements()})
}

func (h *LayoutHandler) EndGesture(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	recorded, err := ws.EndGesture()
	if err != nil {
		return mapError(err)
	}
	return c.JSON(fiber.Map{"recorded": recorded, "canUndo": ws.Store.CanUndo()})
}

func (h *LayoutHandler) CancelGesture(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	if err := ws.CancelGesture(); err != nil {
		return mapError(err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
