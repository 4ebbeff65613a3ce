package handlers

import (
	"github.com/gofiber/fiber/v3"

	"wedding-layout/internal/layout/models"
	"wedding-layout/internal/layout/service"
)

// ============================================================
// Project lifecycle
// ============================================================

type openRequest struct {
	Bounds  *models.Bounds `json:"bounds"`
	EventID string         `json:"eventId" validate:"max=128"`
}

type canvasResponse struct {
	ProjectID  string              `json:"projectId"`
	Canvas     models.CanvasData   `json:"canvas"`
	Selection  []string            `json:"selection"`
	PxPerMeter float64             `json:"pxPerMeter"`
	Dirty      bool                `json:"dirty"`
	CanUndo    bool                `json:"canUndo"`
	CanRedo    bool                `json:"canRedo"`
	Fit        *models.Rect        `json:"fit,omitempty"`
	Gesture    service.GestureKind `json:"gesture,omitempty"`
}

// Open initializes (or re-initializes) the project's canvas from its saved snapshot.
func (h *LayoutHandler) Open(c fiber.Ctx) error {
	var req openRequest
	if err := h.decodeOptional(c, &req); err != nil {
		return err
	}
	open := service.OpenRequest{EventID: req.EventID}
	if req.Bounds != nil {
		open.Bounds = *req.Bounds
	}

	ws, err := h.sessions.Open(c.Context(), c.Params("id"), open)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(snapshotOf(ws))
}

func (h *LayoutHandler) Save(c fiber.Ctx) error {
	p, err := h.sessions.Save(c.Context(), c.Params("id"))
	if err != nil {
		return mapError(err)
	}
	return c.JSON(fiber.Map{
		"projectId": p.ID,
		"elements":  len(p.Canvas.Shapes),
		"walls":     len(p.Canvas.Walls),
	})
}

func (h *LayoutHandler) Close(c fiber.Ctx) error {
	if !h.sessions.Close(c.Params("id")) {
		return mapError(service.ErrProjectNotOpen)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *LayoutHandler) List(c fiber.Ctx) error {
	projects, err := h.sessions.List(c.Context())
	if err != nil {
		return mapError(err)
	}
	return c.JSON(projects)
}

func (h *LayoutHandler) Delete(c fiber.Ctx) error {
	if err := h.sessions.Delete(c.Context(), c.Params("id")); err != nil {
		return mapError(err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Canvas returns the full state the UI renders. A pending viewport fit is handed out once.
func (h *LayoutHandler) Canvas(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	return c.JSON(snapshotOf(ws))
}

func (h *LayoutHandler) SetViewBox(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	var vb models.ViewBox
	if err := h.decode(c, &vb); err != nil {
		return err
	}
	ws.Store.SetViewBox(vb)
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *LayoutHandler) ExportSVG(c fiber.Ctx) error {
	svg, err := h.sessions.Export(c.Params("id"))
	if err != nil {
		return mapError(err)
	}
	c.Set("Content-Type", "image/svg+xml")
	return c.SendString(svg)
}

func snapshotOf(ws *service.Workspace) canvasResponse {
	resp := canvasResponse{
		ProjectID:  ws.Store.ProjectID(),
		Canvas:     ws.Store.GetCanvasData(),
		Selection:  ws.Store.Selection(),
		PxPerMeter: ws.Store.PxPerMeter(),
		Dirty:      ws.Store.Dirty(),
		CanUndo:    ws.Store.CanUndo(),
		CanRedo:    ws.Store.CanRedo(),
	}
	if resp.Selection == nil {
		resp.Selection = []string{}
	}
	if fit, ok := ws.Store.TakeFitRequest(); ok {
		resp.Fit = &fit
	}
	if kind, ok := ws.ActiveGesture(); ok {
		resp.Gesture = kind
	}
	return resp
}
