package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"wedding-layout/internal/common/apierr"

	"wedding-layout/internal/layout/guests"
)

// ============================================================
// Guests
// ============================================================

type assignRequest struct {
	GuestID string `json:"guestId" validate:"required"`
	Name    string `json:"name"`
	Dietary string `json:"dietary"`
}

// Guests returns the event's guest list with the current seating. ?refresh=true refetches it.
func (h *LayoutHandler) Guests(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	if c.Query("refresh") == "true" {
		if err := ws.Directory().Refresh(c.Context()); err != nil {
			h.log.Warn("guest refresh failed", "project", c.Params("id"), "error", err)
		}
	}
	return c.JSON(ws.Seating())
}

// GuestChair returns the chair a guest is seated on.
func (h *LayoutHandler) GuestChair(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	chairID, ok := ws.Assigner.ChairOf(c.Params("gid"))
	if !ok {
		return apierr.NotFound("guest_not_seated", errors.New("guest is not seated"))
	}
	chair, _ := ws.Store.GetElementByID(chairID)
	return c.JSON(chair)
}

func (h *LayoutHandler) AssignGuest(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	var req assignRequest
	if err := h.decode(c, &req); err != nil {
		return err
	}

	chairID := c.Params("cid")
	if err := ws.AssignGuest(chairID, guests.Guest{ID: req.GuestID, Name: req.Name, Dietary: req.Dietary}); err != nil {
		return mapError(err)
	}
	chair, _ := ws.Store.GetElementByID(chairID)
	return c.JSON(chair)
}

func (h *LayoutHandler) UnassignGuest(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	if err := ws.UnassignGuest(c.Params("cid")); err != nil {
		return mapError(err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
