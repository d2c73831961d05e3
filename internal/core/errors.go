package core

import (
	"fmt"

	"taskboard/internal/validate"
)

// ValidationFailure reports every field violation found in a payload. No
// write is attempted once a payload has failed validation.
type ValidationFailure struct {
	Violations []validate.Violation
}

func (e *ValidationFailure) Error() string {
	if len(e.Violations) == 1 {
		return fmt.Sprintf("validation failed: %s", e.Violations[0].Error())
	}
	return fmt.Sprintf("validation failed on %d fields", len(e.Violations))
}
