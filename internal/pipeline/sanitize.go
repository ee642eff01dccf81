package pipeline

import (
	"errors"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/deppfellow/user-pipeline/internal/model"
)

var (
	// ErrNotANumber is returned when a value has no leading decimal digits.
	ErrNotANumber = errors.New("not a number")

	// ErrOutOfRange is returned when the leading digits overflow an int.
	ErrOutOfRange = errors.New("number out of range")
)

// Sanitize returns the sanitized form of record.
//
// It does not check presence: a missing name sanitizes to "" and a missing
// age or fbw is reported as KindInvalidNumericField. Callers that need the
// presence and age rules run ValidationStages first.
func Sanitize(record model.RawUser) (model.SanitizedUser, error) {
	age, err := parseNumeric(record.Age)
	if err != nil {
		return model.SanitizedUser{}, &Rejection{Kind: KindInvalidNumericField, Fields: []string{"age"}, Err: err}
	}

	fbw, err := parseNumeric(record.FBW)
	if err != nil {
		return model.SanitizedUser{}, &Rejection{Kind: KindInvalidNumericField, Fields: []string{"fbw"}, Err: err}
	}

	return model.SanitizedUser{
		FirstName: Capitalize(deref(record.FirstName)),
		LastName:  Capitalize(deref(record.LastName)),
		Age:       age,
		FBW:       fbw,
		Email:     deref(record.Email),
	}, nil
}

// Capitalize upper-cases the first rune of s and lower-cases the rest.
//
// Only single-rune case mappings are applied, so the result has the same
// number of runes as s and Capitalize(Capitalize(s)) == Capitalize(s).
func Capitalize(s string) string {
	if s == "" {
		return s
	}

	first, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(first)) + strings.Map(unicode.ToLower, s[size:])
}

// ParseLeadingInt parses the base-10 integer at the start of s.
//
// Leading whitespace and a single sign are allowed; anything after the
// digits is ignored, so "42kg" is 42 and "12.9" is 12.
func ParseLeadingInt(s string) (int, error) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}

	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, ErrNotANumber
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, ErrOutOfRange
	}
	return n, nil
}

func parseNumeric(n *model.Numeric) (int, error) {
	if n == nil {
		return 0, ErrNotANumber
	}
	return ParseLeadingInt(n.String())
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
