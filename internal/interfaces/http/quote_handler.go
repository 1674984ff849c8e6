package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Orcamentos-api/internal/application/dto"
	"github.com/jhoicas/Orcamentos-api/internal/application/quote"
)

// QuoteHandler expone el borrador de orçamento (sesión en memoria) por HTTP.
type QuoteHandler struct {
	uc *quote.UseCase
}

// NewQuoteHandler construye el handler.
func NewQuoteHandler(uc *quote.UseCase) *QuoteHandler {
	return &QuoteHandler{uc: uc}
}

// Create POST /api/quotes
func (h *QuoteHandler) Create(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.OpenDraftRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return invalidBody(c)
		}
	}
	draft, err := h.uc.NewDraft(c.UserContext(), companyID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(draft)
}

// Get GET /api/quotes/:id
func (h *QuoteHandler) Get(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	draft, err := h.uc.GetDraft(c.UserContext(), companyID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(draft)
}

// AddProduct POST /api/quotes/:id/products
func (h *QuoteHandler) AddProduct(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.AddItemRequest
	if err := c.BodyParser(&in); err != nil || in.CatalogID == "" {
		return invalidBody(c)
	}
	draft, err := h.uc.AddProduct(c.UserContext(), companyID, c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(draft)
}

// AddService POST /api/quotes/:id/services
// Agrega el servicio y sus materiales; si la composición no se puede leer,
// el servicio queda agregado solo.
func (h *QuoteHandler) AddService(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.AddItemRequest
	if err := c.BodyParser(&in); err != nil || in.CatalogID == "" {
		return invalidBody(c)
	}
	draft, err := h.uc.AddService(c.UserContext(), companyID, c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(draft)
}

// SetQuantity PUT /api/quotes/:id/lines/:index/quantity
func (h *QuoteHandler) SetQuantity(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	index, err := c.ParamsInt("index")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_INDEX", Message: "index debe ser numérico"})
	}
	var in dto.SetQuantityRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	draft, err := h.uc.SetQuantity(c.UserContext(), companyID, c.Params("id"), index, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(draft)
}

// RemoveLine DELETE /api/quotes/:id/lines/:index
// Solo quita esa línea; los materiales de un servicio se quitan uno a uno.
func (h *QuoteHandler) RemoveLine(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	index, err := c.ParamsInt("index")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_INDEX", Message: "index debe ser numérico"})
	}
	draft, err := h.uc.RemoveLine(c.UserContext(), companyID, c.Params("id"), index)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(draft)
}

// Update PATCH /api/quotes/:id
func (h *QuoteHandler) Update(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.UpdateDraftRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	draft, err := h.uc.UpdateDraft(c.UserContext(), companyID, c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(draft)
}

// Commit POST /api/quotes/:id/commit
// Con error de persistencia el borrador sigue abierto y se puede reintentar.
func (h *QuoteHandler) Commit(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.Commit(c.UserContext(), companyID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Discard DELETE /api/quotes/:id
func (h *QuoteHandler) Discard(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	if err := h.uc.Discard(c.UserContext(), companyID, c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Export GET /api/quotes/:id/export?format=pdf|csv
func (h *QuoteHandler) Export(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	body, contentType, name, err := h.uc.Export(c.UserContext(), companyID, c.Params("id"), c.Query("format", "pdf"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, name))
	return c.Send(body)
}
