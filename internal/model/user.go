// Package model holds the request and response shapes of a user record.
//
// A record exists in two forms:
//   - RawUser: as received on the wire. Every field is a pointer so that
//     "key absent" and "value null" can be told apart from a zero value.
//   - SanitizedUser: names capitalized, age and fbw coerced to integers.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// RawUser is a user record exactly as the client sent it.
//
// The `validate` tags are read by the presence stage of the pipeline:
// required rejects nil pointers (absent or null keys) and min=1 rejects
// empty text.
type RawUser struct {
	FirstName *string  `json:"firstName" validate:"required,min=1"`
	LastName  *string  `json:"lastName" validate:"required,min=1"`
	Age       *Numeric `json:"age" validate:"required,min=1"`
	FBW       *Numeric `json:"fbw" validate:"required,min=1"`
	Email     *string  `json:"email" validate:"required,min=1"`
}

// SanitizedUser is a record after sanitization.
type SanitizedUser struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Age       int    `json:"age"`
	FBW       int    `json:"fbw"`
	Email     string `json:"email"`
}

// Raw converts a sanitized record back into its wire form so it can be fed
// through the pipeline again.
func (u SanitizedUser) Raw() RawUser {
	age := Numeric(strconv.Itoa(u.Age))
	fbw := Numeric(strconv.Itoa(u.FBW))

	return RawUser{
		FirstName: &u.FirstName,
		LastName:  &u.LastName,
		Age:       &age,
		FBW:       &fbw,
		Email:     &u.Email,
	}
}

// Numeric is a scalar that may arrive either as a JSON number or as a JSON
// string. The text is kept as received; parsing into an integer happens in
// the pipeline.
//
// JSON numbers with a fraction or exponent are truncated toward zero at
// decode time, so 129.7 is held as "129" and 1e3 as "1000".
type Numeric string

// UnmarshalJSON accepts a JSON number or a JSON string.
func (n *Numeric) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return fmt.Errorf("numeric field: empty value")
	}

	switch c := data[0]; {
	case c == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("numeric field: %w", err)
		}
		*n = Numeric(s)
		return nil

	case c == '-' || (c >= '0' && c <= '9'):
		literal := string(data)
		if _, err := strconv.ParseInt(literal, 10, 64); err == nil {
			*n = Numeric(literal)
			return nil
		}

		f, err := strconv.ParseFloat(literal, 64)
		if err != nil {
			return fmt.Errorf("numeric field: %w", err)
		}
		*n = Numeric(strconv.FormatFloat(math.Trunc(f), 'f', -1, 64))
		return nil
	}

	return fmt.Errorf("numeric field: expected number or string, got %s", data)
}

// String returns the held text.
func (n Numeric) String() string {
	return string(n)
}
