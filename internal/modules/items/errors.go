package items

import (
	"errors"
	"strings"
)

var ErrItemNotFound = errors.New("item not found")

// FieldError names one offending field in a submission.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries the full list of offending fields so the caller can
// fix them all at once.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = f.Field
	}
	return "invalid submission: " + strings.Join(names, ", ")
}
