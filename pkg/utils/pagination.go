package utils

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// PaginationParams is the page window extracted from a list request's
// page and limit query parameters.
type PaginationParams struct {
	Page     int
	PageSize int
	Offset   int
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// GetPaginationParams reads page and limit from the request, clamping the
// page size to maxPageSize. Missing or invalid values fall back to page 1
// and the default size.
func GetPaginationParams(c echo.Context) PaginationParams {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page <= 0 {
		page = 1
	}

	pageSize, _ := strconv.Atoi(c.QueryParam("limit"))
	if pageSize <= 0 || pageSize > maxPageSize {
		pageSize = defaultPageSize
	}

	return PaginationParams{
		Page:     page,
		PageSize: pageSize,
		Offset:   (page - 1) * pageSize,
	}
}
