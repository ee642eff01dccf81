// Package service contains the business logic.
//
// It sits between the handler layer and the pipeline: it receives bound
// request data from the handler, runs the ordered stages for the endpoint
// and translates rejections into client errors.
package service

import (
	"github.com/deppfellow/user-pipeline/internal/server"
)

type Services struct {
	User *UserService
}

func NewServices(s *server.Server) (*Services, error) {
	return &Services{
		User: NewUserService(s),
	}, nil
}
