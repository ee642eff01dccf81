package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/deppfellow/user-pipeline/internal/errs"
	"github.com/deppfellow/user-pipeline/internal/model"
	"github.com/deppfellow/user-pipeline/internal/pipeline"
	"github.com/deppfellow/user-pipeline/internal/server"
	"github.com/deppfellow/user-pipeline/internal/validation"
)

// UserService runs the user record pipelines.
//
//	Validate: Presence -> Age
//	Sanitize: Presence -> Age -> Sanitize
type UserService struct {
	server *server.Server
}

func NewUserService(s *server.Server) *UserService {
	return &UserService{server: s}
}

// Validate accepts raw when every validation stage passes.
func (s *UserService) Validate(ctx context.Context, raw model.RawUser) error {
	log := s.logger(ctx)
	log.Debug().Interface("record", raw).Msg("received user record")

	if _, err := pipeline.Run(raw, pipeline.ValidationStages()...); err != nil {
		return s.reject(log, err)
	}

	log.Info().Msg("user record is valid")
	return nil
}

// Sanitize validates raw and returns its sanitized form.
func (s *UserService) Sanitize(ctx context.Context, raw model.RawUser) (model.SanitizedUser, error) {
	log := s.logger(ctx)
	log.Debug().Interface("record", raw).Msg("received user record")

	record, err := pipeline.Run(raw, pipeline.ValidationStages()...)
	if err != nil {
		return model.SanitizedUser{}, s.reject(log, err)
	}

	sanitized, err := pipeline.Sanitize(record)
	if err != nil {
		return model.SanitizedUser{}, s.reject(log, err)
	}

	log.Info().Msg("user record sanitized")
	return sanitized, nil
}

// reject logs a pipeline rejection and maps it to the client error for its
// kind. Errors that are not rejections are returned unchanged.
func (s *UserService) reject(log *zerolog.Logger, err error) error {
	var rejection *pipeline.Rejection
	if !errors.As(err, &rejection) {
		return err
	}

	event := log.Warn().
		Str("reason", rejection.Kind.String()).
		Strs("fields", rejection.Fields)
	if fieldErrors := validation.FieldErrors(rejection.Err); fieldErrors != nil {
		event = event.Interface("field_errors", fieldErrors)
	} else if rejection.Err != nil {
		event = event.AnErr("cause", rejection.Err)
	}
	event.Msg("user record rejected")

	return RejectionError(rejection)
}

// RejectionError returns the client error for a pipeline rejection.
func RejectionError(rejection *pipeline.Rejection) *errs.HTTPError {
	switch rejection.Kind {
	case pipeline.KindMissingRequiredFields:
		return errs.NewMissingRequiredFieldsError()
	case pipeline.KindUnderageUser:
		return errs.NewUnderageUserError()
	case pipeline.KindInvalidNumericField:
		return errs.NewInvalidNumericFieldError()
	default:
		return errs.NewInternalServerError()
	}
}

// logger returns the request-scoped logger stored in ctx by the context
// enhancer middleware, falling back to the server logger.
func (s *UserService) logger(ctx context.Context) *zerolog.Logger {
	if log := zerolog.Ctx(ctx); log.GetLevel() != zerolog.Disabled {
		return log
	}
	if s.server != nil && s.server.Logger != nil {
		return s.server.Logger
	}
	nop := zerolog.Nop()
	return &nop
}
