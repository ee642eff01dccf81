package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/user-pipeline/internal/model"
	"github.com/deppfellow/user-pipeline/internal/server"
	"github.com/deppfellow/user-pipeline/internal/service"
)

const (
	MessageUserValid           = "This user is valid!"
	MessageSanitizationSuccess = "Sanitization successful!"
)

// UserRequest is the body of both user endpoints.
type UserRequest struct {
	model.RawUser
}

// Validate accepts any decodable body. Field rules run in the pipeline so
// rejections carry the pipeline's messages.
func (r *UserRequest) Validate() error {
	return nil
}

func newUserRequest() *UserRequest {
	return &UserRequest{}
}

// MessageResponse is a body holding a single message.
type MessageResponse struct {
	Message string `json:"message"`
}

// SanitizeResponse is the success body of POST /sanitizeUser.
type SanitizeResponse struct {
	Message       string              `json:"message"`
	SanitizedData model.SanitizedUser `json:"sanitizedData"`
}

type UserHandler struct {
	Handler
	userService *service.UserService
}

func NewUserHandler(s *server.Server, userService *service.UserService) *UserHandler {
	return &UserHandler{
		Handler:     NewHandler(s),
		userService: userService,
	}
}

// ValidateUser handles POST /validateUser.
func (h *UserHandler) ValidateUser() echo.HandlerFunc {
	return Handle(h.Handler, func(c echo.Context, req *UserRequest) (MessageResponse, error) {
		if err := h.userService.Validate(c.Request().Context(), req.RawUser); err != nil {
			return MessageResponse{}, err
		}
		return MessageResponse{Message: MessageUserValid}, nil
	}, http.StatusOK, newUserRequest)
}

// SanitizeUser handles POST /sanitizeUser.
func (h *UserHandler) SanitizeUser() echo.HandlerFunc {
	return Handle(h.Handler, func(c echo.Context, req *UserRequest) (SanitizeResponse, error) {
		sanitized, err := h.userService.Sanitize(c.Request().Context(), req.RawUser)
		if err != nil {
			return SanitizeResponse{}, err
		}
		return SanitizeResponse{
			Message:       MessageSanitizationSuccess,
			SanitizedData: sanitized,
		}, nil
	}, http.StatusOK, newUserRequest)
}
