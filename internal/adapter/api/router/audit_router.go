package router

import (
	"github.com/labstack/echo/v4"

	"lexvault/internal/adapter/api/handler"
	"lexvault/internal/adapter/api/middleware"
)

func SetupAuditRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	auditHandler := handler.GetAuditHandler()

	logs := e.Group("/v1/audit-logs")
	logs.Use(authMiddleware.Authenticate)
	logs.Use(adminMiddleware.AdminOnly)

	logs.GET("", auditHandler.List)
}
