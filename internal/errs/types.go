package errs

import (
	"net/http"
)

// Fixed client-facing messages for the user pipeline rejections.
const (
	MessageMissingRequiredFields = "Missing required fields: firstName, lastName, age, fbw, or email."
	MessageUnderageUser          = "We can not validate your user. They are below 18 years of age."
	MessageInvalidNumericField   = "Invalid numeric value: age and fbw must be whole numbers."
)

// Machine-readable codes for the user pipeline rejections.
const (
	CodeMissingRequiredFields = "MISSING_REQUIRED_FIELDS"
	CodeUnderageUser          = "UNDERAGE_USER"
	CodeInvalidNumericField   = "INVALID_NUMERIC_FIELD"
)

// NewBadRequestError creates a 400 Bad Request HTTPError.
//
// This supports extra payload:
//   - code: optional custom code string (if nil, defaults to "BAD_REQUEST")
//   - errors: optional slice of field errors (validation errors)
//   - action: optional client instruction (e.g. redirect)
func NewBadRequestError(message string, override bool, code *string, errors []FieldError, action *Action) *HTTPError {
	formattedCode := MakeUpperCaseWithUnderscores(http.StatusText(http.StatusBadRequest))

	// Caller-supplied codes are used verbatim.
	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:     formattedCode,
		Message:  message,
		Status:   http.StatusBadRequest,
		Override: override,
		Errors:   errors,
		Action:   action,
	}
}

// NewNotFoundError creates a 404 Not Found HTTPError.
func NewNotFoundError(message string, override bool, code *string) *HTTPError {
	formattedCode := MakeUpperCaseWithUnderscores(http.StatusText(http.StatusNotFound))

	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:     formattedCode,
		Message:  message,
		Status:   http.StatusNotFound,
		Override: override,
	}
}

// NewInternalServerError creates a 500 Internal Server Error HTTPError.
//
// The message is the generic status text, never the internal cause.
func NewInternalServerError() *HTTPError {
	return &HTTPError{
		Code:     MakeUpperCaseWithUnderscores(http.StatusText(http.StatusInternalServerError)),
		Message:  http.StatusText(http.StatusInternalServerError),
		Status:   http.StatusInternalServerError,
		Override: false,
	}
}

// NewMissingRequiredFieldsError is returned when any of the five user fields
// is absent, null or empty. The message deliberately does not say which.
func NewMissingRequiredFieldsError() *HTTPError {
	code := CodeMissingRequiredFields
	return NewBadRequestError(MessageMissingRequiredFields, false, &code, nil, nil)
}

// NewUnderageUserError is returned when the user's age is below the minimum.
func NewUnderageUserError() *HTTPError {
	code := CodeUnderageUser
	return NewBadRequestError(MessageUnderageUser, false, &code, nil, nil)
}

// NewInvalidNumericFieldError is returned when age or fbw has no leading
// integer to parse.
func NewInvalidNumericFieldError() *HTTPError {
	code := CodeInvalidNumericField
	return NewBadRequestError(MessageInvalidNumericField, false, &code, nil, nil)
}
