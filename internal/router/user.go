package router

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/user-pipeline/internal/handler"
)

func registerUserRoutes(r *echo.Echo, h *handler.Handlers) {
	r.POST("/validateUser", h.User.ValidateUser())
	r.POST("/sanitizeUser", h.User.SanitizeUser())
}
