package router

import (
	"github.com/labstack/echo/v4"

	"lexvault/internal/adapter/api/handler"
	"lexvault/internal/adapter/api/middleware"
)

func Setup(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	e.GET("/health", handler.HealthCheck)

	SetupDocumentRouter(e, authMiddleware, adminMiddleware)
	SetupAuditRouter(e, authMiddleware, adminMiddleware)
}
