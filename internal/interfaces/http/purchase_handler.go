package http

import (
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/despensa-api/internal/application/dto"
	"github.com/jhoicas/despensa-api/internal/application/purchase"
)

// maxReceiptBytes tamaño máximo aceptado para una factura electrónica.
const maxReceiptBytes = 2 << 20

// PurchaseHandler compras, recibos y precios observados.
type PurchaseHandler struct {
	uc *purchase.UseCase
}

// NewPurchaseHandler construye el handler.
func NewPurchaseHandler(uc *purchase.UseCase) *PurchaseHandler {
	return &PurchaseHandler{uc: uc}
}

// Record godoc
// @Summary      Registrar compra
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordPurchaseRequest  true  "producto, tienda, cantidad y precio"
// @Success      201   {object}  dto.PurchaseResponse
// @Router       /api/purchases [post]
func (h *PurchaseHandler) Record(c *fiber.Ctx) error {
	householdID, userID, err := session(c)
	if err != nil {
		return err
	}
	var in dto.RecordPurchaseRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.RecordPurchase(c.UserContext(), householdID, userID, in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Historial de compras
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  false  "Producto"
// @Param        from        query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to          query  string  false  "Hasta, exclusivo (YYYY-MM-DD)"
// @Param        limit       query  int     false  "Límite"  default(20)
// @Param        offset      query  int     false  "Offset"  default(0)
// @Success      200         {array}  dto.PurchaseResponse
// @Router       /api/purchases [get]
func (h *PurchaseHandler) List(c *fiber.Ctx) error {
	householdID, _, err := session(c)
	if err != nil {
		return err
	}
	var f dto.PurchaseFilter
	if err := c.QueryParser(&f); err != nil {
		return badRequest("INVALID_QUERY", "parámetros de consulta inválidos")
	}
	f.DefaultPage()
	if err := validate.Validate(f); err != nil {
		return err
	}
	out, err := h.uc.ListPurchases(c.UserContext(), householdID, f)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// RecordPrice godoc
// @Summary      Registrar precio observado
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Param        body  body  dto.RecordPriceRequest  true  "producto, tienda y precio unitario"
// @Success      204
// @Router       /api/prices [post]
func (h *PurchaseHandler) RecordPrice(c *fiber.Ctx) error {
	householdID, _, err := session(c)
	if err != nil {
		return err
	}
	var in dto.RecordPriceRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	if err := h.uc.RecordPrice(c.UserContext(), householdID, in); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CreateReceipt godoc
// @Summary      Registrar recibo manual
// @Description  Las líneas sin product_id se asocian por código de barras y luego por nombre.
// @Tags         receipts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateReceiptRequest  true  "tienda, número y líneas"
// @Success      201   {object}  dto.ReceiptResponse
// @Router       /api/receipts [post]
func (h *PurchaseHandler) CreateReceipt(c *fiber.Ctx) error {
	householdID, userID, err := session(c)
	if err != nil {
		return err
	}
	var in dto.CreateReceiptRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	out, err := h.uc.CreateReceipt(c.UserContext(), householdID, userID, in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ImportUBL godoc
// @Summary      Importar factura electrónica UBL 2.1
// @Description  Acepta el XML en el cuerpo (application/xml) o como archivo multipart en el campo "file".
// @Tags         receipts
// @Security     Bearer
// @Accept       xml
// @Accept       mpfd
// @Produce      json
// @Param        file  formData  file  false  "Factura XML o AttachedDocument"
// @Success      201   {object}  dto.ReceiptResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/receipts/ubl [post]
func (h *PurchaseHandler) ImportUBL(c *fiber.Ctx) error {
	householdID, userID, err := session(c)
	if err != nil {
		return err
	}
	data, err := receiptPayload(c)
	if err != nil {
		return err
	}
	out, err := h.uc.ImportUBL(c.UserContext(), householdID, userID, data)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func receiptPayload(c *fiber.Ctx) ([]byte, error) {
	if fh, err := c.FormFile("file"); err == nil {
		if fh.Size > maxReceiptBytes {
			return nil, badRequest("FILE_TOO_LARGE", "la factura supera el tamaño máximo")
		}
		f, err := fh.Open()
		if err != nil {
			return nil, errInvalidBody
		}
		defer f.Close()
		data, err := io.ReadAll(io.LimitReader(f, maxReceiptBytes))
		if err != nil {
			return nil, errInvalidBody
		}
		return data, nil
	}
	body := c.Body()
	if len(body) == 0 {
		return nil, badRequest("EMPTY_BODY", "se requiere el XML de la factura")
	}
	if len(body) > maxReceiptBytes {
		return nil, badRequest("FILE_TOO_LARGE", "la factura supera el tamaño máximo")
	}
	// c.Body se reutiliza al terminar la petición.
	return append([]byte(nil), body...), nil
}

// GetReceipt godoc
// @Summary      Recibo con sus líneas
// @Tags         receipts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del recibo"
// @Success      200  {object}  dto.ReceiptResponse
// @Router       /api/receipts/{id} [get]
func (h *PurchaseHandler) GetReceipt(c *fiber.Ctx) error {
	householdID, _, err := session(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	out, err := h.uc.GetReceipt(c.UserContext(), householdID, id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// ListReceipts godoc
// @Summary      Listar recibos
// @Tags         receipts
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {array}  dto.ReceiptResponse
// @Router       /api/receipts [get]
func (h *PurchaseHandler) ListReceipts(c *fiber.Ctx) error {
	householdID, _, err := session(c)
	if err != nil {
		return err
	}
	page, err := pageFromQuery(c)
	if err != nil {
		return err
	}
	out, err := h.uc.ListReceipts(c.UserContext(), householdID, page)
	if err != nil {
		return err
	}
	return c.JSON(out)
}
