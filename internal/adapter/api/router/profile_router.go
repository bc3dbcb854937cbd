package router

import (
	"github.com/labstack/echo/v4"

	"locallink/internal/adapter/api/handler"
	"locallink/internal/adapter/api/middleware"
)

func SetupProfileRouter(e *echo.Echo, profileHandler *handler.ProfileHandler, authMiddleware *middleware.AuthMiddleware) {
	e.GET("/v1/profile", profileHandler.GetMine, authMiddleware.Authenticate)
	e.PUT("/v1/profile", profileHandler.Save, authMiddleware.Authenticate)
	e.GET("/v1/profiles/:userId", profileHandler.GetByID, authMiddleware.Authenticate)
}
