package pipeline

import (
	"github.com/deppfellow/user-pipeline/internal/model"
	"github.com/deppfellow/user-pipeline/internal/validation"
)

// MinimumAge is the youngest age accepted by CheckAge.
const MinimumAge = 18

// CheckPresence rejects a record when any required field is absent, null or
// empty. A numeric zero counts as present.
func CheckPresence(record model.RawUser) Outcome {
	if err := validation.Struct(record); err != nil {
		return Reject(KindMissingRequiredFields, err, validation.InvalidFields(err)...)
	}
	return Continue(record)
}

// CheckAge rejects a record whose age has no leading integer or is below
// MinimumAge.
func CheckAge(record model.RawUser) Outcome {
	age, err := parseNumeric(record.Age)
	if err != nil {
		return Reject(KindInvalidNumericField, err, "age")
	}
	if age < MinimumAge {
		return Reject(KindUnderageUser, nil, "age")
	}
	return Continue(record)
}
