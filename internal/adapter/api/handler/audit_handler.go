package handler

import (
	"github.com/labstack/echo/v4"

	"lexvault/internal/usecase"
	"lexvault/pkg/response"
	"lexvault/pkg/utils"
)

type AuditHandler struct {
	auditUseCase *usecase.AuditUseCase
}

func NewAuditHandler(auditUseCase *usecase.AuditUseCase) *AuditHandler {
	return &AuditHandler{
		auditUseCase: auditUseCase,
	}
}

func (h *AuditHandler) List(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	entries, total, err := h.auditUseCase.ListAuditLogs(
		c.Request().Context(),
		c.QueryParam("document_id"),
		c.QueryParam("user_id"),
		pagination.PageSize,
		pagination.Offset,
	)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, entries, total, pagination.Page, pagination.PageSize)
}
