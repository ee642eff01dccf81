package router

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/user-pipeline/internal/handler"
	"github.com/deppfellow/user-pipeline/static"
)

// registerSystemRoutes registers endpoints that are not part of the user
// pipeline: banner, health, docs UI and the static docs assets.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/", h.System.Banner)

	r.GET("/status", h.System.CheckHealth)

	r.StaticFS("/static", static.FS)

	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
}
