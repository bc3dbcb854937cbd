package router

import (
	"github.com/labstack/echo/v4"

	"locallink/internal/adapter/api/handler"
	"locallink/internal/adapter/api/middleware"
)

func SetupFavoriteRouter(e *echo.Echo, favoriteHandler *handler.FavoriteHandler, authMiddleware *middleware.AuthMiddleware) {
	favorites := e.Group("/v1/favorites")
	favorites.Use(authMiddleware.Authenticate)

	favorites.GET("", favoriteHandler.List)
	favorites.POST("/:listingId/toggle", favoriteHandler.Toggle)
	favorites.GET("/:listingId/status", favoriteHandler.Status)
}
