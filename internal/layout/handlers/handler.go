package handlers

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"wedding-layout/internal/common/apierr"
	"wedding-layout/internal/common/logger"
	"wedding-layout/internal/layout/canvas"
	"wedding-layout/internal/layout/guests"
	"wedding-layout/internal/layout/repository"
	"wedding-layout/internal/layout/service"
)

// ============================================================
// Layout Handler
// ============================================================

type LayoutHandler struct {
	sessions *service.Sessions
	validate *validator.Validate
	log      *logger.Logger
}

func NewLayoutHandler(sessions *service.Sessions, log *logger.Logger) *LayoutHandler {
	return &LayoutHandler{
		sessions: sessions,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      logger.OrNop(log).Component("layout"),
	}
}

// Register mounts every project route under r.
func (h *LayoutHandler) Register(r fiber.Router) {
	r.Get("/projects", h.List)
	r.Delete("/projects/:id", h.Delete)

	p := r.Group("/projects/:id")

	p.Post("/open", h.Open)
	p.Post("/save", h.Save)
	p.Post("/close", h.Close)
	p.Get("/canvas", h.Canvas)
	p.Put("/viewbox", h.SetViewBox)
	p.Get("/export.svg", h.ExportSVG)

	p.Post("/elements", h.AddElement)
	p.Patch("/elements/:eid", h.UpdateElement)
	p.Delete("/elements/:eid", h.DeleteElement)
	p.Post("/elements/:eid/move", h.MoveElement)
	p.Post("/elements/:eid/resize", h.ResizeElement)
	p.Post("/elements/:eid/rotate", h.RotateElement)
	p.Post("/tables", h.AddTable)

	p.Post("/walls", h.ImportWalls)
	p.Post("/walls/svg", h.ImportWallsSVG)
	p.Patch("/walls/:wid", h.UpdateWall)
	p.Delete("/walls/:wid", h.DeleteWall)
	p.Post("/doors", h.AddDoor)
	p.Patch("/doors/:did", h.UpdateDoor)
	p.Delete("/doors/:did", h.DeleteDoor)

	p.Get("/power-points", h.PowerPoints)
	p.Post("/power-points", h.AddPowerPoint)
	p.Patch("/power-points/:pid", h.UpdatePowerPoint)
	p.Delete("/power-points/:pid", h.DeletePowerPoint)
	p.Post("/drawings", h.AddDrawing)
	p.Delete("/drawings/:did", h.DeleteDrawing)
	p.Post("/texts", h.AddText)
	p.Patch("/texts/:tid", h.UpdateText)
	p.Delete("/texts/:tid", h.DeleteText)

	p.Get("/history", h.History)
	p.Post("/history/checkpoint", h.Checkpoint)
	p.Post("/history/undo", h.Undo)
	p.Post("/history/redo", h.Redo)

	p.Post("/selection", h.Select)
	p.Delete("/selection", h.ClearSelection)

	p.Post("/gestures/:kind/begin", h.BeginGesture)
	p.Post("/gestures/:kind/move", h.MoveGesture)
	p.Post("/gestures/:kind/end", h.EndGesture)
	p.Post("/gestures/:kind/cancel", h.CancelGesture)

	p.Get("/guests", h.Guests)
	p.Get("/guests/:gid/chair", h.GuestChair)
	p.Put("/chairs/:cid/guest", h.AssignGuest)
	p.Delete("/chairs/:cid/guest", h.UnassignGuest)
}

// ============================================================
// Helpers
// ============================================================

func (h *LayoutHandler) workspace(c fiber.Ctx) (*service.Workspace, error) {
	ws, err := h.sessions.Get(c.Params("id"))
	if err != nil {
		return nil, mapError(err)
	}
	return ws, nil
}

// decode unmarshals the JSON body into dst and validates it.
func (h *LayoutHandler) decode(c fiber.Ctx, dst any) error {
	if len(c.Body()) == 0 {
		return apierr.BadRequest("empty_body", errors.New("empty body"))
	}
	if err := json.Unmarshal(c.Body(), dst); err != nil {
		return apierr.BadRequest("invalid_json", fmt.Errorf("invalid json: %w", err))
	}
	if err := h.validate.Struct(dst); err != nil {
		return apierr.BadRequest("validation_failed", err)
	}
	return nil
}

// decodeOptional is decode for bodies that may be omitted.
func (h *LayoutHandler) decodeOptional(c fiber.Ctx, dst any) error {
	if len(c.Body()) == 0 {
		return nil
	}
	return h.decode(c, dst)
}

// changed answers a store mutation: the fresh entity when the id existed, 204 otherwise.
func changed(c fiber.Ctx, ok bool, entity func() (any, bool)) error {
	if !ok {
		return c.SendStatus(fiber.StatusNoContent)
	}
	v, found := entity()
	if !found {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.JSON(v)
}

func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, service.ErrProjectNotOpen):
		return apierr.NotFound("project_not_open", err)
	case errors.Is(err, repository.ErrProjectNotFound):
		return apierr.NotFound("project_not_found", err)
	case errors.Is(err, canvas.ErrInvalidBounds):
		return apierr.BadRequest("invalid_bounds", err)
	case errors.Is(err, canvas.ErrNotInitialized):
		return apierr.Conflict("not_initialized", err)
	case errors.Is(err, guests.ErrChairNotFound):
		return apierr.NotFound("chair_not_found", err)
	case errors.Is(err, guests.ErrGuestNotFound):
		return apierr.NotFound("guest_not_found", err)
	case errors.Is(err, service.ErrElementNotFound):
		return apierr.NotFound("element_not_found", err)
	case errors.Is(err, service.ErrGestureActive):
		return apierr.Conflict("gesture_active", err)
	case errors.Is(err, service.ErrNoGesture):
		return apierr.Conflict("no_gesture", err)
	case errors.Is(err, service.ErrUnknownGesture):
		return apierr.BadRequest("unknown_gesture", err)
	}
	if _, ok := apierr.As(err); ok {
		return err
	}
	return apierr.Internal(err)
}
