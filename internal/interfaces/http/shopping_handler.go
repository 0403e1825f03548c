package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/despensa-api/internal/application/dto"
	"github.com/jhoicas/despensa-api/internal/application/shopping"
)

// ShoppingHandler listas de compras y sus ítems.
type ShoppingHandler struct {
	uc *shopping.UseCase
}

// NewShoppingHandler construye el handler.
func NewShoppingHandler(uc *shopping.UseCase) *ShoppingHandler {
	return &ShoppingHandler{uc: uc}
}

// Create godoc
// @Summary      Crear lista de compras
// @Tags         shopping
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateShoppingListRequest  true  "nombre, tienda e ítems iniciales"
// @Success      201   {object}  dto.ShoppingListResponse
// @Router       /api/shopping-lists [post]
func (h *ShoppingHandler) Create(c *fiber.Ctx) error {
	householdID, _, err := session(c)
	if err != nil {
		return err
	}
	var in dto.CreateShoppingListRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.CreateList(c.UserContext(), householdID, in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar listas de compras
// @Tags         shopping
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "active, completed o archived"
// @Success      200     {array}  dto.ShoppingListResponse
// @Router       /api/shopping-lists [get]
func (h *ShoppingHandler) List(c *fiber.Ctx) error {
	householdID, _, err := session(c)
	if err != nil {
		return err
	}
	out, err := h.uc.List(c.UserContext(), householdID, c.Query("status"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Lista con sus ítems
// @Tags         shopping
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la lista"
// @Success      200  {object}  dto.ShoppingListResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/shopping-lists/{id} [get]
func (h *ShoppingHandler) Get(c *fiber.Ctx) error {
	householdID, _, err := session(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.uc.Get(c.UserContext(), householdID, id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Renombrar lista o cambiar tienda
// @Tags         shopping
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la lista"
// @Param        body  body  dto.UpdateShoppingListRequest  true  "campos a actualizar"
// @Success      200   {object}  dto.ShoppingListResponse
// @Router       /api/shopping-lists/{id} [put]
func (h *ShoppingHandler) Update(c *fiber.Ctx) error {
	householdID, _, err := session(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in dto.UpdateShoppingListRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), householdID, id, in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Archive godoc
// @Summary      Archivar lista
// @Tags         shopping
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la lista"
// @Success      200  {object}  dto.ShoppingListResponse
// @Router       /api/shopping-lists/{id}/archive [post]
func (h *ShoppingHandler) Archive(c *fiber.Ctx) error {
	householdID, _, err := session(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.uc.Archive(c.UserContext(), householdID, id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar lista
// @Tags         shopping
// @Security     Bearer
// @Param        id   path  string  true  "ID de la lista"
// @Success      204
// @Router       /api/shopping-lists/{id} [delete]
func (h *ShoppingHandler) Delete(c *fiber.Ctx) error {
	householdID, _, err := session(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.uc.Delete(c.UserContext(), householdID, id); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AddItem godoc
// @Summary      Agregar ítem
// @Description  El nombre se toma del producto y el precio estimado del último precio conocido si no se envían.
// @Tags         shopping
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la lista"
// @Param        body  body  dto.AddListItemRequest  true  "producto o texto libre"
// @Success      201   {object}  dto.ShoppingListItemResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/shopping-lists/{id}/items [post]
func (h *ShoppingHandler) AddItem(c *fiber.Ctx) error {
	householdID, _, err := session(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in dto.AddListItemRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.AddItem(c.UserContext(), householdID, id, in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateItem godoc
// @Summary      Actualizar ítem
// @Tags         shopping
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id       path  string  true  "ID de la lista"
// @Param        item_id  path  string  true  "ID del ítem"
// @Param        body     body  dto.UpdateListItemRequest  true  "campos a actualizar"
// @Success      200      {object}  dto.ShoppingListItemResponse
// @Router       /api/shopping-lists/{id}/items/{item_id} [put]
func (h *ShoppingHandler) UpdateItem(c *fiber.Ctx) error {
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
	var in dto.UpdateListItemRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.UpdateItem(c.UserContext(), householdID, id, itemID, in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// ToggleItem godoc
// @Summary      Marcar o desmarcar ítem
// @Tags         shopping
// @Security     Bearer
// @Produce      json
// @Param        id       path  string  true  "ID de la lista"
// @Param        item_id  path  string  true  "ID del ítem"
// @Success      200      {object}  dto.ShoppingListItemResponse
// @Router       /api/shopping-lists/{id}/items/{item_id}/toggle [post]
func (h *ShoppingHandler) ToggleItem(c *fiber.Ctx) error {
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
	out, err := h.uc.ToggleItem(c.UserContext(), householdID, id, itemID)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// RemoveItem godoc
// @Summary      Quitar ítem
// @Tags         shopping
// @Security     Bearer
// @Param        id       path  string  true  "ID de la lista"
// @Param        item_id  path  string  true  "ID del ítem"
// @Success      204
// @Router       /api/shopping-lists/{id}/items/{item_id} [delete]
func (h *ShoppingHandler) RemoveItem(c *fiber.Ctx) error {
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
	if err := h.uc.RemoveItem(c.UserContext(), householdID, id, itemID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Complete godoc
// @Summary      Completar compra
// @Description  Cada ítem marcado con producto genera una compra, un precio (si se envía) y, opcionalmente, una entrada de inventario.
// @Tags         shopping
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la lista"
// @Param        body  body  dto.CompleteListRequest  true  "tienda, precios pagados e inventario"
// @Success      200   {object}  dto.CompleteListResult
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/shopping-lists/{id}/complete [post]
func (h *ShoppingHandler) Complete(c *fiber.Ctx) error {
	householdID, userID, err := session(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in dto.CompleteListRequest
	if len(c.Body()) > 0 {
		if err := bindBody(c, &in); err != nil {
			return err
		}
	}
	out, err := h.uc.CompleteList(c.UserContext(), householdID, userID, id, in)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// ExportPDF godoc
// @Summary      Exportar lista en PDF
// @Tags         shopping
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la lista"
// @Success      200  {file}  binary
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/shopping-lists/{id}/pdf [get]
func (h *ShoppingHandler) ExportPDF(c *fiber.Ctx) error {
	householdID, _, err := session(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	doc, err := h.uc.ExportPDF(c.UserContext(), householdID, id)
	if err != nil {
		return err
	}
	return sendPDF(c, "lista-"+id+".pdf", doc)
}

func sendPDF(c *fiber.Ctx, filename string, doc []byte) error {
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+filename+`"`)
	return c.Send(doc)
}
