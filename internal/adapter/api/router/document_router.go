package router

import (
	"github.com/labstack/echo/v4"

	"lexvault/internal/adapter/api/handler"
	"lexvault/internal/adapter/api/middleware"
)

func SetupDocumentRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	documentHandler := handler.GetDocumentHandler()

	// Protected routes - require authentication
	documents := e.Group("/v1/documents")
	documents.Use(authMiddleware.Authenticate)

	documents.POST("", documentHandler.Upload)
	documents.POST("/presign", documentHandler.Presign)
	documents.POST("/:id/confirm", documentHandler.Confirm)
	documents.GET("", documentHandler.List)
	documents.GET("/:id", documentHandler.Get)
	documents.GET("/:id/download", documentHandler.Download)
	documents.PATCH("/:id", documentHandler.Update)
	documents.DELETE("/:id", documentHandler.Delete)

	// Recovery tooling, admin only
	documents.POST("/decrypt", documentHandler.Decrypt, adminMiddleware.AdminOnly)
}
