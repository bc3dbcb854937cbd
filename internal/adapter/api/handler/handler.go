package handler

import (
	"github.com/labstack/echo/v4"

	"locallink/internal/adapter/api/middleware"
	"locallink/internal/usecase"
	"locallink/pkg/errors"
	"locallink/pkg/response"
	"locallink/pkg/utils"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Health       *HealthHandler
	Listing      *ListingHandler
	Favorite     *FavoriteHandler
	Profile      *ProfileHandler
	Chat         *ChatHandler
	Notification *NotificationHandler
	WebSocket    *WebSocketHandler
}

// bindAndValidate decodes the request body into req and checks its
// validate tags.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return errors.BadRequest("Invalid request body", err)
	}
	return c.Validate(req)
}

// currentUser is the uid set by the auth middleware.
func currentUser(c echo.Context) (string, error) {
	uid := middleware.UserID(c)
	if uid == "" {
		return "", errors.Unauthorized("Authentication required", nil)
	}
	return uid, nil
}

// mounted writes a slice snapshot. "?wait=true" has already made the use
// case block on the fetch, so err is that fetch's failure.
func mounted[T any](c echo.Context, snap usecase.Snapshot[T], err error) error {
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, snap)
}

func waitParam(c echo.Context) bool {
	return utils.QueryBool(c, "wait")
}
