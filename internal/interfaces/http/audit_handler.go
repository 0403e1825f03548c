package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/despensa-api/internal/application/dto"
	"github.com/jhoicas/despensa-api/internal/application/inventory"
)

// AuditHandler sesiones de conteo físico y registro de desperdicio.
type AuditHandler struct {
	audits *inventory.AuditUseCase
	waste  *inventory.WasteUseCase
}

// NewAuditHandler construye el handler.
func NewAuditHandler(audits *inventory.AuditUseCase, waste *inventory.WasteUseCase) *AuditHandler {
	return &AuditHandler{audits: audits, waste: waste}
}

// Start godoc
// @Summary      Iniciar auditoría de inventario
// @Description  Toma una foto de los lotes (de la ubicación, si se indica). Solo una sesión abierta por hogar.
// @Tags         audits
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StartAuditRequest  false  "ubicación opcional"
// @Success      201   {object}  dto.AuditSessionResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/audits [post]
func (h *AuditHandler) Start(c *fiber.Ctx) error {
	householdID, userID, err := session(c)
	if err != nil {
		return err
	}
	var in dto.StartAuditRequest
	if len(c.Body()) > 0 {
		if err := bindBody(c, &in); err != nil {
			return err
		}
	}
	out, err := h.audits.StartAudit(c.UserContext(), householdID, userID, in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar auditorías
// @Tags         audits
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {array}  dto.AuditSessionResponse
// @Router       /api/audits [get]
func (h *AuditHandler) List(c *fiber.Ctx) error {
	householdID, _, err := session(c)
	if err != nil {
		return err
	}
	page, err := pageFromQuery(c)
	if err != nil {
		return err
	}
	out, err := h.audits.List(c.UserContext(), householdID, page)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Detalle de una auditoría
// @Tags         audits
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.AuditSessionResponse
// @Router       /api/audits/{id} [get]
func (h *AuditHandler) Get(c *fiber.Ctx) error {
	householdID, _, err := session(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.audits.Get(c.UserContext(), householdID, id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// RecordCount godoc
// @Summary      Registrar conteo de un ítem
// @Tags         audits
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id       path  string                  true  "ID de la sesión"
// @Param        item_id  path  string                  true  "ID del ítem de auditoría"
// @Param        body     body  dto.RecordCountRequest  true  "cantidad contada"
// @Success      200      {object}  dto.AuditItemResponse
// @Failure      409      {object}  dto.ErrorResponse
// @Router       /api/audits/{id}/items/{item_id} [put]
func (h *AuditHandler) RecordCount(c *fiber.Ctx) error {
	householdID, _, err := session(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	itemID, err := paramID(c, "item_id")
	if err != nil {
		return err
	}
	var in dto.RecordCountRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.audits.RecordCount(c.UserContext(), householdID, id, itemID, in.CountedQuantity)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Complete godoc
// @Summary      Cerrar auditoría y ajustar diferencias
// @Tags         audits
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la sesión"
// @Success      200  {object}  dto.AuditReportDTO
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/audits/{id}/complete [post]
func (h *AuditHandler) Complete(c *fiber.Ctx) error {
	householdID, userID, err := session(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.audits.Complete(c.UserContext(), householdID, userID, id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Cancelar auditoría
// @Tags         audits
// @Security     Bearer
// @Param        id   path  string  true  "ID de la sesión"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/audits/{id}/cancel [post]
func (h *AuditHandler) Cancel(c *fiber.Ctx) error {
	householdID, _, err := session(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.audits.Cancel(c.UserContext(), householdID, id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// LogWaste godoc
// @Summary      Registrar desperdicio
// @Description  Con item_id descuenta el lote (DISCARD); el costo se estima con el costo del lote o el último precio.
// @Tags         waste
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LogWasteRequest  true  "producto, cantidad y motivo"
// @Success      201   {object}  dto.WasteEventResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/waste [post]
func (h *AuditHandler) LogWaste(c *fiber.Ctx) error {
	householdID, userID, err := session(c)
	if err != nil {
		return err
	}
	var in dto.LogWasteRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.waste.LogWaste(c.UserContext(), householdID, userID, in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// WasteSummary godoc
// @Summary      Resumen de desperdicio
// @Tags         waste
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "Desde (YYYY-MM-DD), por defecto inicio del mes"
// @Param        to    query  string  false  "Hasta, exclusivo (YYYY-MM-DD), por defecto mañana"
// @Success      200   {object}  dto.WasteSummaryDTO
// @Router       /api/waste/summary [get]
func (h *AuditHandler) WasteSummary(c *fiber.Ctx) error {
	householdID, _, err := session(c)
	if err != nil {
		return err
	}
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	tomorrow := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, time.UTC)
	from, err := queryDate(c, "from", monthStart)
	if err != nil {
		return err
	}
	to, err := queryDate(c, "to", tomorrow)
	if err != nil {
		return err
	}
	if !to.After(from) {
		return badRequest("INVALID_RANGE", "to debe ser posterior a from")
	}
	out, err := h.waste.WasteSummary(c.UserContext(), householdID, from, to)
	if err != nil {
		return err
	}
	return c.JSON(out)
}
