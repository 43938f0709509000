package curriculum

import "fmt"

// MalformedCurriculumError reports curriculum data the navigator cannot
// traverse. It is a data problem, not a learner error.
type MalformedCurriculumError struct {
	PathID string
	UnitID string
	Reason string
}

func (e *MalformedCurriculumError) Error() string {
	if e.UnitID != "" {
		return fmt.Sprintf("malformed curriculum %s (unit %s): %s", e.PathID, e.UnitID, e.Reason)
	}
	return fmt.Sprintf("malformed curriculum %s: %s", e.PathID, e.Reason)
}
