// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and maps paths to their handlers.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/user-pipeline/internal/handler"
	"github.com/deppfellow/user-pipeline/internal/middleware"
	"github.com/deppfellow/user-pipeline/internal/server"
)

// NewRouter builds the Echo instance with the full middleware chain and
// every route registered.
//
// Middleware order matters:
//  1. CORS and Secure headers apply to every response, errors included.
//  2. RequestID runs before anything that logs or traces.
//  3. The New Relic transaction must exist before EnhanceTracing and
//     EnhanceContext read it.
//  4. RequestLogger reads the request-scoped logger set by EnhanceContext.
//  5. Recover is innermost so panics surface as errors to the logger.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	mws := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true

	router.HTTPErrorHandler = mws.Global.GlobalErrorHandler

	router.Use(
		mws.Global.CORS(),
		mws.Global.Secure(),
		middleware.RequestID(),
		mws.Tracing.NewRelicMiddleware(),
		mws.Tracing.EnhanceTracing(),
		mws.ContextEnhancer.EnhanceContext(),
		mws.Global.RequestLogger(),
		mws.Global.Recover(),
	)

	registerSystemRoutes(router, h)
	registerUserRoutes(router, h)

	return router
}
