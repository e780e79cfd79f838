package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/activos-api/internal/application/audit"
	"github.com/jhoicas/activos-api/internal/application/dto"
)

// AuditHandler expone el log de auditoría (solo administradores).
type AuditHandler struct {
	uc *audit.QueryUseCase
}

// NewAuditHandler construye el handler.
func NewAuditHandler(uc *audit.QueryUseCase) *AuditHandler {
	return &AuditHandler{uc: uc}
}

// List godoc
// @Summary      Consultar el log de auditoría
// @Tags         logs
// @Security     Bearer
// @Produce      json
// @Param        entity      query  string  false  "stock_record | movement | user"
// @Param        action      query  string  false  "create | update | delete"
// @Param        start_date  query  string  false  "desde (YYYY-MM-DD)"
// @Param        end_date    query  string  false  "hasta (YYYY-MM-DD)"
// @Param        limit       query  int     false  "máximo de entradas (default 100)"
// @Success      200  {array}   dto.AuditEntryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/logs [get]
func (h *AuditHandler) List(c *fiber.Ctx) error {
	var in dto.AuditQueryRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "filtros inválidos"})
	}
	// Variante con la entidad en la ruta: GET /api/logs/:entity.
	if p := c.Params("entity"); p != "" {
		in.Entity = p
	}
	out, err := h.uc.List(c.Context(), in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(out)
}
