// Package pipeline implements the user record stages:
// presence -> age -> sanitize.
//
// A stage never mutates its input. It returns an Outcome that either carries
// the record on to the next stage or rejects it with a Kind. Run applies an
// explicit, ordered list of stages and stops at the first rejection.
package pipeline

import (
	"fmt"

	"github.com/deppfellow/user-pipeline/internal/model"
)

// Kind identifies why a record was rejected.
type Kind int

const (
	KindMissingRequiredFields Kind = iota + 1
	KindInvalidNumericField
	KindUnderageUser
)

func (k Kind) String() string {
	switch k {
	case KindMissingRequiredFields:
		return "missing_required_fields"
	case KindInvalidNumericField:
		return "invalid_numeric_field"
	case KindUnderageUser:
		return "underage_user"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Rejection is the error returned when a stage stops the pipeline.
//
// Fields names the offending record fields and Err the underlying cause, if
// any. Both are diagnostic only; clients see a fixed message per Kind.
type Rejection struct {
	Kind   Kind
	Fields []string
	Err    error
}

func (r *Rejection) Error() string {
	if r.Err != nil {
		return fmt.Sprintf("%s %v: %v", r.Kind, r.Fields, r.Err)
	}
	return fmt.Sprintf("%s %v", r.Kind, r.Fields)
}

func (r *Rejection) Unwrap() error {
	return r.Err
}

// Outcome is the result of a single stage: Continue or Reject.
type Outcome struct {
	record    model.RawUser
	rejection *Rejection
}

// Continue passes record on to the next stage.
func Continue(record model.RawUser) Outcome {
	return Outcome{record: record}
}

// Reject stops the pipeline.
func Reject(kind Kind, err error, fields ...string) Outcome {
	return Outcome{rejection: &Rejection{Kind: kind, Fields: fields, Err: err}}
}

// Record returns the record carried by a Continue outcome.
func (o Outcome) Record() (model.RawUser, bool) {
	return o.record, o.rejection == nil
}

// Rejection returns the rejection of a Reject outcome, or nil.
func (o Outcome) Rejection() *Rejection {
	return o.rejection
}

// Stage is one step of the pipeline.
type Stage func(model.RawUser) Outcome

// ValidationStages is the ordered stage list run before a record is
// accepted: presence first, then age.
func ValidationStages() []Stage {
	return []Stage{CheckPresence, CheckAge}
}

// Run applies stages to record in order. It returns the record produced by
// the last stage, or the first *Rejection.
func Run(record model.RawUser, stages ...Stage) (model.RawUser, error) {
	for _, stage := range stages {
		outcome := stage(record)
		if rejection := outcome.Rejection(); rejection != nil {
			return model.RawUser{}, rejection
		}
		record, _ = outcome.Record()
	}
	return record, nil
}
