// Package validation contains the logic for validating
// request data.
//
// It uses the `validator` library to enforce rules (like
// required fields) defined in struct tags and extracts
// validation errors into a format the client can understand
package validation

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/deppfellow/user-pipeline/internal/errs"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Validatable is implemented by request payload types that know how to
// validate themselves. Validate returns validator.ValidationErrors (usually
// from Struct) or nil.
type Validatable interface {
	Validate() error
}

// MessageInvalidBody is returned when the request body cannot be decoded.
const MessageInvalidBody = "Invalid request body"

// validate is the shared validator instance.
//
// validator.Validate caches struct metadata, so a single instance is reused
// across requests. Field names are reported using their json tag so that
// errors read like the payload the client sent ("firstName", not "FirstName").
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	return v
}

// Struct validates a struct against its `validate` tags.
func Struct(s any) error {
	return validate.Struct(s)
}

// InvalidFields returns the names of the fields that failed validation,
// in struct order. It returns nil if err carries no field information.
func InvalidFields(err error) []string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil
	}

	fields := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		fields = append(fields, fe.Field())
	}
	return fields
}

// BindAndValidate binds request data into payload and validates it.
//
// Flow:
// 1) c.Bind(payload) populates request struct from the incoming request body/params.
// 2) payload.Validate() applies validation rules.
// 3) Returns *errs.HTTPError (400) with field-level errors if validation
//    fails with validator errors; any other Validate error is returned as-is.
//
// NOTE: c.Bind expects a pointer to a struct.
func BindAndValidate(c echo.Context, payload Validatable) error {
	if err := c.Bind(payload); err != nil {
		// Echo reports transport problems (e.g. unsupported media type) with
		// their own status; keep those and flatten decode failures into a
		// single client-facing message.
		var echoErr *echo.HTTPError
		if errors.As(err, &echoErr) && echoErr.Code != http.StatusBadRequest {
			return err
		}
		return errs.NewBadRequestError(MessageInvalidBody, false, nil, nil, nil)
	}

	if err := payload.Validate(); err != nil {
		if fieldErrors := FieldErrors(err); fieldErrors != nil {
			return errs.NewBadRequestError("Validation failed", true, nil, fieldErrors, nil)
		}
		return err
	}

	return nil
}

// FieldErrors converts validator errors into client-readable field errors.
// It returns nil if err is not a validator.ValidationErrors.
func FieldErrors(err error) []errs.FieldError {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil
	}

	fieldErrors := make([]errs.FieldError, 0, len(validationErrors))
	for _, fe := range validationErrors {
		var msg string

		switch fe.Tag() {
		case "required":
			msg = "is required"

		case "min":
			// min is a length for text and a value for numbers.
			if fe.Kind() == reflect.String {
				msg = fmt.Sprintf("must be at least %s characters", fe.Param())
			} else {
				msg = fmt.Sprintf("must be at least %s", fe.Param())
			}

		default:
			if fe.Param() != "" {
				msg = fmt.Sprintf("failed %s:%s", fe.Tag(), fe.Param())
			} else {
				msg = fmt.Sprintf("failed %s", fe.Tag())
			}
		}

		fieldErrors = append(fieldErrors, errs.FieldError{
			Field: fe.Field(),
			Error: msg,
		})
	}

	return fieldErrors
}
