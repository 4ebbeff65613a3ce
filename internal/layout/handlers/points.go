package handlers

import (
	"github.com/gofiber/fiber/v3"

	"wedding-layout/internal/layout/models"
)

// ============================================================
// Power points, drawings, text
// ============================================================

type powerPointRequest struct {
	X           float64                   `json:"x"`
	Y           float64                   `json:"y"`
	Standard    models.ElectricalStandard `json:"standard" validate:"omitempty,oneof=EU_PT US_NEC"`
	BreakerAmps float64                   `json:"breaker_amps" validate:"gte=0"`
	Voltage     float64                   `json:"voltage" validate:"gte=0"`
	Label       string                    `json:"label"`
	CircuitID   string                    `json:"circuitId"`
}

// PowerPoints lists the power points. ?groupBy=circuit keys them by circuit id.
func (h *LayoutHandler) PowerPoints(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	if c.Query("groupBy") == "circuit" {
		return c.JSON(ws.Store.PowerPointsByCircuit())
	}
	return c.JSON(ws.Store.PowerPoints())
}

func (h *LayoutHandler) AddPowerPoint(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	var req powerPointRequest
	if err := h.decode(c, &req); err != nil {
		return err
	}

	id := ws.Store.AddPowerPoint(models.PowerPoint{
		X:           req.X,
		Y:           req.Y,
		Standard:    req.Standard,
		BreakerAmps: req.BreakerAmps,
		Voltage:     req.Voltage,
		Label:       req.Label,
		CircuitID:   req.CircuitID,
	})
	ws.Store.RecordSnapshot("Add power point")

	p, _ := findByID(ws.Store.PowerPoints(), id, func(p models.PowerPoint) string { return p.ID })
	return c.Status(fiber.StatusCreated).JSON(p)
}

func (h *LayoutHandler) UpdatePowerPoint(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	var patch models.PowerPointPatch
	if err := h.decode(c, &patch); err != nil {
		return err
	}
	id := c.Params("pid")
	ok := ws.Store.UpdatePowerPoint(id, patch)
	if ok {
		ws.Store.RecordSnapshot("Edit power point")
	}
	return changed(c, ok, func() (any, bool) {
		return findByID(ws.Store.PowerPoints(), id, func(p models.PowerPoint) string { return p.ID })
	})
}

func (h *LayoutHandler) DeletePowerPoint(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	if ws.Store.DeletePowerPoint(c.Params("pid")) {
		ws.Store.RecordSnapshot("Delete power point")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type drawingRequest struct {
	Points      []models.Point `json:"points" validate:"required,min=2"`
	Stroke      string         `json:"stroke"`
	StrokeWidth float64        `json:"strokeWidth" validate:"gte=0"`
}

func (h *LayoutHandler) AddDrawing(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	var req drawingRequest
	if err := h.decode(c, &req); err != nil {
		return err
	}
	id := ws.Store.AddDrawing(models.DrawingPath{Points: req.Points, Stroke: req.Stroke, StrokeWidth: req.StrokeWidth})
	ws.Store.RecordSnapshot("Draw")
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

func (h *LayoutHandler) DeleteDrawing(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	if ws.Store.DeleteDrawing(c.Params("did")) {
		ws.Store.RecordSnapshot("Delete drawing")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type textRequest struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Text     string  `json:"text" validate:"required"`
	FontSize float64 `json:"fontSize" validate:"gte=0"`
	Color    string  `json:"color"`
}

func (h *LayoutHandler) AddText(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	var req textRequest
	if err := h.decode(c, &req); err != nil {
		return err
	}
	id := ws.Store.AddText(models.TextElement{X: req.X, Y: req.Y, Text: req.Text, FontSize: req.FontSize, Color: req.Color})
	ws.Store.RecordSnapshot("Add text")
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

func (h *LayoutHandler) UpdateText(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	var patch models.TextPatch
	if err := h.decode(c, &patch); err != nil {
		return err
	}
	id := c.Params("tid")
	ok := ws.Store.UpdateText(id, patch)
	if ok {
		ws.Store.RecordSnapshot("Edit text")
	}
	return changed(c, ok, func() (any, bool) {
		return findByID(ws.Store.TextElements(), id, func(t models.TextElement) string { return t.ID })
	})
}

func (h *LayoutHandler) DeleteText(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	if ws.Store.DeleteText(c.Params("tid")) {
		ws.Store.RecordSnapshot("Delete text")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
