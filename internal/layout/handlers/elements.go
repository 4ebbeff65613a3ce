package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"wedding-layout/internal/common/apierr"
	"wedding-layout/internal/layout/canvas"
	"wedding-layout/internal/layout/importer"
	"wedding-layout/internal/layout/models"
	"wedding-layout/internal/layout/transform"
)

// ============================================================
// Elements
// ============================================================

type positionRequest struct {
	X *float64 `json:"x" validate:"required"`
	Y *float64 `json:"y" validate:"required"`
}

type sizeRequest struct {
	Width  float64 `json:"width" validate:"gte=0"`
	Height float64 `json:"height" validate:"gte=0"`
}

// rotateRequest sets either an absolute rotation or a relative delta.
type rotateRequest struct {
	Degrees *float64 `json:"degrees" validate:"required_without=Delta"`
	Delta   *float64 `json:"delta" validate:"required_without=Degrees"`
}

type tableRequest struct {
	Type         models.TableType `json:"type" validate:"omitempty,oneof=round rectangular square oval"`
	Size         string           `json:"size"`
	Seats        int              `json:"seats" validate:"gte=0,lte=40"`
	WidthMeters  float64          `json:"widthMeters" validate:"gte=0"`
	HeightMeters float64          `json:"heightMeters" validate:"gte=0"`
	SpaceID      string           `json:"spaceId"`
	Label        string           `json:"label"`
}

func (h *LayoutHandler) AddElement(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	var e models.Element
	if err := h.decode(c, &e); err != nil {
		return err
	}
	if e.Width < 0 || e.Height < 0 {
		return apierr.BadRequest("validation_failed", errors.New("width and height must not be negative"))
	}
	if err := sizeFromPath(&e); err != nil {
		return err
	}

	id := ws.Store.AddElement(e)
	ws.Store.RecordSnapshot("Add element")
	created, _ := ws.Store.GetElementByID(id)
	return c.Status(fiber.StatusCreated).JSON(created)
}

// sizeFromPath fills a missing width or height of a custom shape from its path
// extent times the shape scale.
func sizeFromPath(e *models.Element) error {
	if e.Custom == nil || (e.Width > 0 && e.Height > 0) {
		return nil
	}
	r, err := importer.PathBounds(e.Custom.Path)
	if err != nil {
		return apierr.BadRequest("invalid_path", err)
	}
	scale := e.Custom.Scale
	if scale <= 0 {
		scale = 1
	}
	if e.Width <= 0 {
		e.Width = r.Width * scale
	}
	if e.Height <= 0 {
		e.Height = r.Height * scale
	}
	return nil
}

func (h *LayoutHandler) UpdateElement(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	var patch models.ElementPatch
	if err := h.decode(c, &patch); err != nil {
		return err
	}

	id := c.Params("eid")
	ok := ws.Store.UpdateElement(id, patch)
	if ok {
		ws.Store.RecordSnapshot("Edit element")
	}
	return changed(c, ok, func() (any, bool) { return ws.Store.GetElementByID(id) })
}

func (h *LayoutHandler) DeleteElement(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	if ws.Store.DeleteElement(c.Params("eid")) {
		ws.Store.RecordSnapshot("Delete element")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *LayoutHandler) MoveElement(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	var req positionRequest
	if err := h.decode(c, &req); err != nil {
		return err
	}

	id := c.Params("eid")
	ok := ws.Store.MoveElement(id, *req.X, *req.Y)
	if ok {
		ws.Store.RecordSnapshot("Move")
	}
	return changed(c, ok, func() (any, bool) { return ws.Store.GetElementByID(id) })
}

func (h *LayoutHandler) ResizeElement(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	var req sizeRequest
	if err := h.decode(c, &req); err != nil {
		return err
	}

	id := c.Params("eid")
	ok := ws.Store.ResizeElement(id, req.Width, req.Height)
	if ok {
		ws.Store.RecordSnapshot("Resize")
	}
	return changed(c, ok, func() (any, bool) { return ws.Store.GetElementByID(id) })
}

// RotateElement turns an element, carrying a table's chairs around its center.
func (h *LayoutHandler) RotateElement(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	var req rotateRequest
	if err := h.decode(c, &req); err != nil {
		return err
	}

	id := c.Params("eid")
	e, found := ws.Store.GetElementByID(id)
	if !found {
		return c.SendStatus(fiber.StatusNoContent)
	}
	var delta float64
	if req.Delta != nil {
		delta = *req.Delta
	} else {
		delta = *req.Degrees - e.Rotation
	}

	ok := transform.RotateGroup(ws.Store, id, delta)
	if ok {
		ws.Store.RecordSnapshot("Rotate")
	}
	return changed(c, ok, func() (any, bool) { return ws.Store.GetElementByID(id) })
}

func (h *LayoutHandler) AddTable(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	var req tableRequest
	if err := h.decodeOptional(c, &req); err != nil {
		return err
	}

	placement, err := ws.Store.AddTable(canvas.TableRequest{
		Type:         req.Type,
		Size:         req.Size,
		Seats:        req.Seats,
		WidthMeters:  req.WidthMeters,
		HeightMeters: req.HeightMeters,
		SpaceID:      req.SpaceID,
		Label:        req.Label,
	})
	if err != nil {
		return mapError(err)
	}
	ws.Store.RecordSnapshot("Add table")

	h.log.Debug("table placed",
		"project", c.Params("id"),
		"table", placement.TableID,
		"chairs", len(placement.ChairIDs),
		"pxPerMeter", placement.PxPerMeter,
	)
	return c.Status(fiber.StatusCreated).JSON(placement)
}

// ============================================================
// Walls & doors
// ============================================================

type wallBatchRequest struct {
	Walls []models.Wall `json:"walls" validate:"required,min=1"`
	Doors []models.Door `json:"doors"`
}

type wallImportResponse struct {
	WallIDs []string     `json:"wallIds"`
	Fit     *models.Rect `json:"fit,omitempty"`
}

// ImportWalls takes an externally authored wall layout and fits it to the page.
func (h *LayoutHandler) ImportWalls(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	var req wallBatchRequest
	if err := h.decode(c, &req); err != nil {
		return err
	}
	return h.addWalls(c, ws.Store, req.Walls, req.Doors)
}

// ImportWallsSVG reads Wall_/Door_ shapes from an uploaded SVG plan.
func (h *LayoutHandler) ImportWallsSVG(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return apierr.BadRequest("file_required", errors.New("file is required"))
	}
	f, err := fileHeader.Open()
	if err != nil {
		return apierr.Internal(err)
	}
	defer f.Close()

	result, err := importer.Import(f)
	if err != nil {
		return apierr.BadRequest("invalid_svg", err)
	}
	h.log.Info("svg plan imported",
		"project", c.Params("id"),
		"file", fileHeader.Filename,
		"walls", len(result.Walls),
		"doors", len(result.Doors),
	)
	return h.addWalls(c, ws.Store, result.Walls, result.Doors)
}

func (h *LayoutHandler) addWalls(c fiber.Ctx, store *canvas.Store, walls []models.Wall, doors []models.Door) error {
	ids := store.AddWalls(walls, doors)
	if ids == nil {
		ids = []string{}
	}
	resp := wallImportResponse{WallIDs: ids}
	if fit, ok := store.TakeFitRequest(); ok {
		resp.Fit = &fit
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *LayoutHandler) UpdateWall(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	var patch models.WallPatch
	if err := h.decode(c, &patch); err != nil {
		return err
	}

	id := c.Params("wid")
	ok := ws.Store.UpdateWall(id, patch)
	if ok {
		ws.Store.RecordSnapshot("Edit wall")
	}
	return changed(c, ok, func() (any, bool) { return ws.Store.GetWallByID(id) })
}

func (h *LayoutHandler) DeleteWall(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	if ws.Store.DeleteWall(c.Params("wid")) {
		ws.Store.RecordSnapshot("Delete wall")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

type doorRequest struct {
	WallID           string  `json:"wallId" validate:"required"`
	Position         float64 `json:"position"`
	Width            float64 `json:"width" validate:"gt=0"`
	OpeningDirection string  `json:"openingDirection" validate:"omitempty,oneof=inward outward"`
	HingeSide        string  `json:"hingeSide" validate:"omitempty,oneof=left right"`
}

func (h *LayoutHandler) AddDoor(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	var req doorRequest
	if err := h.decode(c, &req); err != nil {
		return err
	}
	if _, ok := ws.Store.GetWallByID(req.WallID); !ok {
		return apierr.NotFound("wall_not_found", errors.New("wall not found"))
	}

	id := ws.Store.AddDoor(models.Door{
		WallID:           req.WallID,
		Position:         req.Position,
		Width:            req.Width,
		OpeningDirection: req.OpeningDirection,
		HingeSide:        req.HingeSide,
	})
	ws.Store.RecordSnapshot("Add door")
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

func (h *LayoutHandler) UpdateDoor(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	var patch models.DoorPatch
	if err := h.decode(c, &patch); err != nil {
		return err
	}
	id := c.Params("did")
	ok := ws.Store.UpdateDoor(id, patch)
	if ok {
		ws.Store.RecordSnapshot("Edit door")
	}
	return changed(c, ok, func() (any, bool) { return findByID(ws.Store.Doors(), id, func(d models.Door) string { return d.ID }) })
}

func (h *LayoutHandler) DeleteDoor(c fiber.Ctx) error {
	ws, err := h.workspace(c)
	if err != nil {
		return err
	}
	if ws.Store.DeleteDoor(c.Params("did")) {
		ws.Store.RecordSnapshot("Delete door")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func findByID[T any](list []T, id string, key func(T) string) (any, bool) {
	for _, v := range list {
		if key(v) == id {
			return v, true
		}
	}
	return nil, false
}
