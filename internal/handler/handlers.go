package handler

import (
	"github.com/deppfellow/user-pipeline/internal/server"
	"github.com/deppfellow/user-pipeline/internal/service"
)

// Handlers groups every HTTP handler so the router takes a single value.
type Handlers struct {
	System  *SystemHandler  // banner and health
	OpenAPI *OpenAPIHandler // docs UI
	User    *UserHandler    // validate and sanitize
}

// NewHandlers constructs the handler container.
func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		System:  NewSystemHandler(s),
		OpenAPI: NewOpenAPIHandler(s),
		User:    NewUserHandler(s, services.User),
	}
}
