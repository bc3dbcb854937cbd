package router

import (
	"github.com/labstack/echo/v4"

	"locallink/internal/adapter/api/handler"
	"locallink/internal/adapter/api/middleware"
)

func SetupListingRouter(e *echo.Echo, listingHandler *handler.ListingHandler, authMiddleware *middleware.AuthMiddleware) {
	listings := e.Group("/v1/listings")
	listings.Use(authMiddleware.Authenticate)

	listings.GET("", listingHandler.GetFeed)
	listings.POST("/refresh", listingHandler.Refresh)
	listings.GET("/mine", listingHandler.GetMine)
	listings.POST("", listingHandler.Create)
	listings.GET("/:id", listingHandler.GetByID)
	listings.PUT("/:id", listingHandler.Update)
	listings.DELETE("/:id", listingHandler.Delete)
}
